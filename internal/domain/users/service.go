package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/devevents/server/internal/domain/ids"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Signup creates a user with a bcrypt-hashed password. The raw password is
// hashed exactly once here and never stored or returned.
func (s *Service) Signup(ctx context.Context, input SignupInput) (*User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if err := validate.Struct(input); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
			return nil, ValidationError{
				Field:   strings.ToLower(fieldErrors[0].Field()),
				Message: "is missing or invalid",
			}
		}
		return nil, ValidationError{Message: err.Error()}
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	id, err := ids.NewULID()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return s.repo.Create(ctx, &User{
		ID:           id,
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

// Login verifies credentials and returns the user. Callers issue the
// session token; this service only proves identity.
func (s *Service) Login(ctx context.Context, email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// Update applies a partial profile patch. The stored value stays a hash:
// it is recomputed only when the patch carries a new raw password, so an
// update that leaves the password alone keeps the existing hash untouched.
func (s *Service) Update(ctx context.Context, id string, patch UserPatch) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if len(name) < 2 {
			return nil, ValidationError{Field: "name", Message: "must be at least 2 characters long"}
		}
		user.Name = name
	}
	if patch.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*patch.Email))
		if err := validate.Var(email, "required,email"); err != nil {
			return nil, ValidationError{Field: "email", Message: "must be a valid email address"}
		}
		user.Email = email
	}
	if patch.Password != nil {
		if len(*patch.Password) < 6 {
			return nil, ValidationError{Field: "password", Message: "must be at least 6 characters long"}
		}
		// Skip re-hashing when the supplied value matches the current password.
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(*patch.Password)) != nil {
			hash, err := hashPassword(*patch.Password)
			if err != nil {
				return nil, err
			}
			user.PasswordHash = hash
		}
	}

	user.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, user)
}

func hashPassword(raw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		// Deliberately generic: hashing internals never reach a client.
		return "", fmt.Errorf("error hashing password")
	}
	return string(hash), nil
}
