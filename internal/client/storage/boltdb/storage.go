package boltdb

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/teachconnect/internal/client/storage"
)

var (
	// BoltDB bucket names, one per record kind
	bucketCredentials = []byte(storage.KindCredentials)
	bucketNames       = []byte(storage.KindNames)
	bucketEndpoints   = []byte(storage.KindEndpoints)

	allBuckets = [][]byte{bucketCredentials, bucketNames, bucketEndpoints}
)

// openTimeout bounds waiting for the file lock held by another client process
const openTimeout = time.Second

// Storage represents BoltDB storage implementation for client
type Storage struct {
	mu sync.RWMutex
	db *bbolt.DB
}

// Compile-time check that Storage implements RecordStorage
var _ storage.RecordStorage = (*Storage)(nil)

// New creates a new BoltDB storage instance
// dbPath is the path to the BoltDB database file
func New(ctx context.Context, dbPath string) (*Storage, error) {
	// Открываем BoltDB
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	s := &Storage{db: db}

	// Инициализируем buckets
	if err := s.initBuckets(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return s, nil
}

// Close closes the database connection
// Second call is a no-op
func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// initBuckets создает необходимые buckets если они не существуют
func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}
