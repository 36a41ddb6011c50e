package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type stubRepo struct {
	createFn     func(user *User) (*User, error)
	updateFn     func(user *User) (*User, error)
	getByIDFn    func(id string) (*User, error)
	getByEmailFn func(email string) (*User, error)
}

func (s stubRepo) Create(_ context.Context, user *User) (*User, error) {
	return s.createFn(user)
}

func (s stubRepo) Update(_ context.Context, user *User) (*User, error) {
	return s.updateFn(user)
}

func (s stubRepo) GetByID(_ context.Context, id string) (*User, error) {
	return s.getByIDFn(id)
}

func (s stubRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	if s.getByEmailFn == nil {
		return nil, ErrNotFound
	}
	return s.getByEmailFn(email)
}

func TestSignupHashesPassword(t *testing.T) {
	var created *User
	svc := NewService(stubRepo{
		createFn: func(user *User) (*User, error) {
			created = user
			return user, nil
		},
	})

	user, err := svc.Signup(context.Background(), SignupInput{
		Name:     "Ada",
		Email:    "  Ada@Example.COM ",
		Password: "hunter22",
	})
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", user.Email)
	require.NotEqual(t, "hunter22", created.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("hunter22")))
}

func TestSignupValidation(t *testing.T) {
	svc := NewService(stubRepo{})

	tests := []struct {
		name      string
		input     SignupInput
		wantField string
	}{
		{"short name", SignupInput{Name: "A", Email: "a@b.co", Password: "secret1"}, "name"},
		{"bad email", SignupInput{Name: "Ada", Email: "nope", Password: "secret1"}, "email"},
		{"short password", SignupInput{Name: "Ada", Email: "a@b.co", Password: "12345"}, "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), tt.input)
			var vErr ValidationError
			require.ErrorAs(t, err, &vErr)
			require.Equal(t, tt.wantField, vErr.Field)
		})
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc := NewService(stubRepo{
		createFn: func(user *User) (*User, error) { return nil, ErrEmailTaken },
	})

	_, err := svc.Signup(context.Background(), SignupInput{
		Name:     "Ada",
		Email:    "a@b.co",
		Password: "secret1",
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.DefaultCost)
	require.NoError(t, err)
	stored := &User{ID: "01HQZX3Y4K6F7G8H9J0K1M2N3P", Email: "a@b.co", PasswordHash: string(hash)}

	svc := NewService(stubRepo{
		getByEmailFn: func(email string) (*User, error) {
			require.Equal(t, "a@b.co", email)
			return stored, nil
		},
	})

	user, err := svc.Login(context.Background(), " A@B.CO ", "hunter22")
	require.NoError(t, err)
	require.Equal(t, stored.ID, user.ID)

	_, err = svc.Login(context.Background(), "a@b.co", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "unknown@b.co", "hunter22")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateRehashesOnlyOnChange(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.DefaultCost)
	require.NoError(t, err)
	stored := &User{ID: "01HQZX3Y4K6F7G8H9J0K1M2N3P", Name: "Ada", Email: "a@b.co", PasswordHash: string(hash)}

	svc := NewService(stubRepo{
		getByIDFn: func(id string) (*User, error) {
			clone := *stored
			return &clone, nil
		},
		updateFn: func(user *User) (*User, error) { return user, nil },
	})

	// Same raw password: the stored hash must be reused verbatim.
	same := "hunter22"
	updated, err := svc.Update(context.Background(), stored.ID, UserPatch{Password: &same})
	require.NoError(t, err)
	require.Equal(t, string(hash), updated.PasswordHash)

	// New raw password: a fresh hash that verifies the new value.
	changed := "correct-horse"
	updated, err = svc.Update(context.Background(), stored.ID, UserPatch{Password: &changed})
	require.NoError(t, err)
	require.NotEqual(t, string(hash), updated.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("correct-horse")))

	// No password in the patch: hash untouched.
	name := "Ada Lovelace"
	updated, err = svc.Update(context.Background(), stored.ID, UserPatch{Name: &name})
	require.NoError(t, err)
	require.Equal(t, string(hash), updated.PasswordHash)
	require.Equal(t, "Ada Lovelace", updated.Name)
}
