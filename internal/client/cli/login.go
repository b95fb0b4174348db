package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/iudanet/teachconnect/internal/client/auth"
)

// runLogin returns true once the operator is authenticated
func (s *Shell) runLogin(ctx context.Context) (bool, error) {
	s.io.Println("=== TeachConnect ===")
	s.io.Println()
	if s.svc.IsRegistered(ctx) {
		s.io.Println("Status: registered")
	} else {
		s.io.Println("Status: not registered")
	}
	s.io.Println("Commands: login, register, quit")

	for {
		command, err := s.io.ReadInput("> ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return false, nil
			}
			return false, fmt.Errorf("failed to read command: %w", err)
		}

		switch strings.ToLower(command) {
		case "":
			continue
		case "login":
			ok, err := s.login(ctx)
			if err != nil || ok {
				return ok, err
			}
		case "register":
			if err := s.register(ctx); err != nil {
				return false, err
			}
		case "quit", "exit":
			return false, nil
		default:
			s.io.Printf("Unknown command: %s\n", command)
		}
	}
}

func (s *Shell) readCredentials() (string, string, error) {
	username, err := s.io.ReadInput("Username: ")
	if err != nil {
		return "", "", fmt.Errorf("failed to read username: %w", err)
	}
	password, err := s.io.ReadPassword("Password: ")
	if err != nil {
		return "", "", fmt.Errorf("failed to read password: %w", err)
	}
	return username, password, nil
}

func (s *Shell) login(ctx context.Context) (bool, error) {
	username, password, err := s.readCredentials()
	if err != nil {
		return false, err
	}

	if !s.svc.Authenticate(ctx, username, password) {
		s.io.Println("✗ Invalid username or password")
		return false, nil
	}

	s.user = strings.TrimSpace(username)
	s.io.Printf("✓ Logged in as %s\n", s.user)
	return true, nil
}

func (s *Shell) register(ctx context.Context) error {
	if s.svc.IsRegistered(ctx) {
		answer, err := s.io.ReadInput("An account is already registered. Continue? [y/N]: ")
		if err != nil {
			return fmt.Errorf("failed to read answer: %w", err)
		}
		if !isYes(answer) {
			return ErrDeclined
		}
	}

	username, password, err := s.readCredentials()
	if err != nil {
		return err
	}

	err = s.svc.Register(ctx, username, password)
	switch {
	case err == nil:
		s.io.Println("✓ Registration successful")
		s.io.Println("Status: registered")
	case errors.Is(err, auth.ErrEmptyField):
		s.io.Println("✗ Username and password cannot be empty")
	case errors.Is(err, auth.ErrDuplicateUser):
		s.io.Println("✗ Username already exists")
	default:
		s.io.Printf("✗ Registration failed: %v\n", err)
	}
	return nil
}

func isYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
