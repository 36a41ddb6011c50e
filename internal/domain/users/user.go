package users

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrNotFound = errors.New("user not found")

// ErrEmailTaken signals the unique email constraint.
var ErrEmailTaken = errors.New("user with this email already exists")

// ErrInvalidCredentials covers both unknown email and wrong password so
// login failures are indistinguishable to a caller.
var ErrInvalidCredentials = errors.New("invalid credentials")

// User stores credentials. PasswordHash never leaves the process: the JSON
// mapping drops it from every response.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type SignupInput struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// UserPatch is a partial profile update. Password is re-hashed only when a
// new raw value is supplied.
type UserPatch struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

type Repository interface {
	Create(ctx context.Context, user *User) (*User, error)
	Update(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}
