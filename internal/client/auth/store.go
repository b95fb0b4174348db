// Package auth keeps local operator accounts: username to SHA256 password digest.
// Accounts are created once and never changed or removed.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/iudanet/teachconnect/internal/client/storage"
	"github.com/iudanet/teachconnect/internal/crypto"
)

// Store is the credential store on top of RecordStorage
type Store struct {
	mu      sync.Mutex
	storage storage.RecordStorage
	logger  *slog.Logger
}

// NewStore создает хранилище учетных записей
func NewStore(s storage.RecordStorage, logger *slog.Logger) *Store {
	return &Store{
		storage: s,
		logger:  logger,
	}
}

// Register creates an account.
// Returns ErrEmptyField or ErrDuplicateUser without touching storage;
// storage failures are wrapped storage.ErrIO.
func (s *Store) Register(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return ErrEmptyField
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Без успешной загрузки не пишем: Save заменил бы чужие записи
	users, err := s.storage.Load(ctx, storage.KindCredentials)
	if err != nil {
		return fmt.Errorf("failed to load credentials: %w", err)
	}

	if users.Has(username) {
		return ErrDuplicateUser
	}

	digest, err := crypto.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	updated := users.Clone()
	updated.Set(username, digest)
	if err := s.storage.Save(ctx, storage.KindCredentials, updated); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered", slog.String("username", username))
	return nil
}

// Verify reports whether username exists and password matches its digest.
// Every failure, including an unreadable store, is the same false.
func (s *Store) Verify(ctx context.Context, username, password string) bool {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	users, err := s.storage.Load(ctx, storage.KindCredentials)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to load credentials", slog.Any("error", err))
		return false
	}

	digest, ok := users.Get(username)
	if !ok {
		return false
	}
	return crypto.VerifyPassword(password, digest) == nil
}

// IsRegistered reports whether at least one account exists
func (s *Store) IsRegistered(ctx context.Context) bool {
	users, err := s.storage.Load(ctx, storage.KindCredentials)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to load credentials", slog.Any("error", err))
		return false
	}
	return users.Len() > 0
}
