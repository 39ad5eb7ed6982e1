package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/JeerTeles/ROMARIO-MERCADINHO/repository"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest admin password accepted on change.
const MinPasswordLength = 6

// IAdminService guards destructive operations behind the shared admin password.
type IAdminService interface {
	// Seed stores the configured credential unless one already exists.
	Seed(ctx context.Context, password, passwordHash string) error
	VerifyPassword(ctx context.Context, candidate string) (bool, error)
	ChangePassword(ctx context.Context, current, next string) error
}

// AdminService implements IAdminService.
type AdminService struct {
	repo repository.IAdminRepository
	log  zerolog.Logger
	cost int
}

// NewAdminService creates a new AdminService instance.
func NewAdminService(repo repository.IAdminRepository, log zerolog.Logger) IAdminService {
	return &AdminService{repo: repo, log: log, cost: bcrypt.DefaultCost}
}

// HashPassword hashes a password using bcrypt.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Seed stores the configured credential unless one already exists. A
// pre-computed hash wins over a plain password.
func (s *AdminService) Seed(ctx context.Context, password, passwordHash string) error {
	if _, err := s.repo.GetCredential(ctx); err == nil {
		s.log.Debug().Msg("admin credential already present, not seeding")
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	hash := passwordHash
	if hash == "" {
		var err error
		if hash, err = HashPassword(password, s.cost); err != nil {
			return err
		}
	} else if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return fmt.Errorf("admin.password_hash is not a bcrypt hash: %w", err)
	}

	if err := s.repo.SaveCredential(ctx, hash); err != nil {
		return fmt.Errorf("failed to store admin credential: %w", err)
	}
	s.log.Info().Msg("admin credential seeded")
	return nil
}

// VerifyPassword compares candidate against the stored hash.
func (s *AdminService) VerifyPassword(ctx context.Context, candidate string) (bool, error) {
	if candidate == "" {
		return false, nil
	}
	cred, err := s.repo.GetCredential(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load admin credential: %w", err)
	}
	err = bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(candidate))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, fmt.Errorf("failed to compare hash: %w", err)
	}
	return true, nil
}

// ChangePassword replaces the admin password after checking the current one.
func (s *AdminService) ChangePassword(ctx context.Context, current, next string) error {
	ok, err := s.VerifyPassword(ctx, current)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: current password does not match", ErrUnauthorized)
	}
	if len(next) < MinPasswordLength {
		return fmt.Errorf("%w: new password must have at least %d characters", ErrInvalidInput, MinPasswordLength)
	}

	hash, err := HashPassword(next, s.cost)
	if err != nil {
		return err
	}
	if err := s.repo.SaveCredential(ctx, hash); err != nil {
		return fmt.Errorf("failed to store admin credential: %w", err)
	}
	s.log.Info().Msg("admin password changed")
	return nil
}
