package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sharecircle/internal/domain"
)

// UserRepositoryPG implements UserRepository using PostgreSQL.
type UserRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new user repo.
func NewUserRepository(pool *pgxpool.Pool) *UserRepositoryPG {
	return &UserRepositoryPG{pool: pool}
}

const userColumns = `id, name, email, password_hash, role, location, joined_at, donations_made, requests_made, rating`

// Create inserts a new account record.
func (r *UserRepositoryPG) Create(ctx context.Context, user *domain.User) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO users (id, name, email, password_hash, role, location, joined_at)
VALUES ($1, $2, $3, $4, $5, $6, $7);
`, user.ID, user.Name, user.Email, user.PasswordHash, user.Role, user.Location, user.JoinedAt)
	if _, ok := uniqueViolation(err); ok {
		return domain.ConflictError("email already in use")
	}
	return err
}

// GetByID returns the account with the given id.
func (r *UserRepositoryPG) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1;`, id)
	return scanUser(row)
}

// GetByEmail returns the account registered under email.
func (r *UserRepositoryPG) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1;`, email)
	return scanUser(row)
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Role,
		&user.Location, &user.JoinedAt, &user.DonationsMade, &user.RequestsMade, &user.Rating,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFoundError("user not found")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
