package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sharecircle/internal/domain"
)

// LogisticsRepositoryPG implements LogisticsRepository using PostgreSQL.
type LogisticsRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewLogisticsRepository creates a new logistics repo.
func NewLogisticsRepository(pool *pgxpool.Pool) *LogisticsRepositoryPG {
	return &LogisticsRepositoryPG{pool: pool}
}

// Create inserts an arrangement and marks the owning item claimed in the same
// transaction. The item move is conditional on pending so a replay cannot
// regress the listing; zero affected rows is not an error here.
func (r *LogisticsRepositoryPG) Create(ctx context.Context, logistics *domain.Logistics, itemID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
INSERT INTO logistics (id, request_id, type, status, scheduled_date, cost, tracking_number, notes, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
`, logistics.ID, logistics.RequestID, logistics.Type, logistics.Status, logistics.ScheduledDate,
		logistics.Cost, logistics.TrackingNumber, logistics.Notes, logistics.CreatedAt, logistics.UpdatedAt)
	if _, ok := uniqueViolation(err); ok {
		return domain.ConflictError("logistics already arranged for this request")
	}
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `UPDATE items SET status = 'claimed' WHERE id = $1 AND status = 'pending';`, itemID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetByID returns an arrangement by id.
func (r *LogisticsRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Logistics, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, request_id, type, status, scheduled_date, cost, tracking_number, notes, created_at, updated_at
FROM logistics
WHERE id = $1;
`, id)

	var l domain.Logistics
	err := row.Scan(
		&l.ID, &l.RequestID, &l.Type, &l.Status, &l.ScheduledDate,
		&l.Cost, &l.TrackingNumber, &l.Notes, &l.CreatedAt, &l.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFoundError("logistics arrangement not found")
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Update persists the mutable fields and refreshes updated_at. The write is
// conditional on the status the caller read: if a concurrent update moved the
// arrangement in the meantime, zero rows match and the caller gets a conflict
// instead of clobbering the newer state. When the arrangement completed, the
// owning item moves claimed -> delivered in the same transaction; repeating a
// completion finds zero item rows to touch and changes nothing, which keeps
// the operation idempotent.
func (r *LogisticsRepositoryPG) Update(ctx context.Context, logistics *domain.Logistics, itemID string, prev domain.LogisticsStatus, completed bool) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
UPDATE logistics
SET status = $2, scheduled_date = $3, tracking_number = $4, notes = $5, updated_at = now()
WHERE id = $1 AND status = $6
RETURNING updated_at;
`, logistics.ID, logistics.Status, logistics.ScheduledDate, logistics.TrackingNumber,
		logistics.Notes, prev).Scan(&logistics.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ConflictError("logistics arrangement was updated concurrently")
	}
	if err != nil {
		return err
	}

	if completed {
		if _, err := tx.Exec(ctx, `UPDATE items SET status = 'delivered' WHERE id = $1 AND status = 'claimed';`, itemID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
