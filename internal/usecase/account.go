package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"sharecircle/internal/domain"
)

// AccountUsecase registers and authenticates community members.
type AccountUsecase struct {
	users  domain.UserRepository
	logger zerolog.Logger
}

// NewAccountUsecase creates the account service.
func NewAccountUsecase(users domain.UserRepository, logger zerolog.Logger) *AccountUsecase {
	return &AccountUsecase{users: users, logger: logger}
}

// Register creates an account. Email is the login identity and must be
// unique; the role defaults to both when omitted.
func (uc *AccountUsecase) Register(ctx context.Context, name, email, password string, role domain.UserRole) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return nil, domain.ValidationError("name, email and password are required")
	}
	if role == "" {
		role = domain.UserRoleBoth
	}
	if !domain.ValidUserRole(role) {
		return nil, domain.ValidationError("role must be donor, recipient or both")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		JoinedAt:     time.Now().UTC(),
		Rating:       5.0,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}

	uc.logger.Info().Str("user_id", user.ID).Msg("user registered")
	return user, nil
}

// Login verifies the credentials and returns the account. Unknown email and
// wrong password are indistinguishable to the caller.
func (uc *AccountUsecase) Login(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := uc.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.UnauthorizedError("invalid login credentials")
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.UnauthorizedError("invalid login credentials")
	}
	return user, nil
}
