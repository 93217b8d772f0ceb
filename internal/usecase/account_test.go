package usecase

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sharecircle/internal/adapter/repo/memory"
	"sharecircle/internal/domain"
)

func newAccountService() (*AccountUsecase, *memory.Store) {
	store := memory.NewStore()
	return NewAccountUsecase(store.Users(), zerolog.Nop()), store
}

func TestRegister(t *testing.T) {
	svc, _ := newAccountService()

	user, err := svc.Register(context.Background(), "Ada", "ADA@Example.com", "hunter22", "")
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, domain.UserRoleBoth, user.Role)
	assert.Equal(t, 5.0, user.Rating)
	assert.NotEqual(t, "hunter22", user.PasswordHash)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newAccountService()

	_, err := svc.Register(context.Background(), "Ada", "ada@example.com", "hunter22", "donor")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "Other Ada", "ada@example.com", "different", "recipient")
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.EqualError(t, err, "email already in use")
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newAccountService()

	_, err := svc.Register(context.Background(), "", "ada@example.com", "hunter22", "")
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Register(context.Background(), "Ada", "ada@example.com", "hunter22", "landlord")
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestLogin(t *testing.T) {
	svc, _ := newAccountService()

	registered, err := svc.Register(context.Background(), "Ada", "ada@example.com", "hunter22", "")
	require.NoError(t, err)

	user, err := svc.Login(context.Background(), "Ada@Example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
}

func TestLogin_BadCredentials(t *testing.T) {
	svc, _ := newAccountService()

	_, err := svc.Register(context.Background(), "Ada", "ada@example.com", "hunter22", "")
	require.NoError(t, err)

	// Unknown email and wrong password fail identically.
	_, err = svc.Login(context.Background(), "nobody@example.com", "hunter22")
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.EqualError(t, err, "invalid login credentials")

	_, err = svc.Login(context.Background(), "ada@example.com", "wrong")
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.EqualError(t, err, "invalid login credentials")
}
