package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sharecircle/internal/domain"
)

// RequestRepositoryPG implements RequestRepository using PostgreSQL.
type RequestRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewRequestRepository creates a new request repo.
func NewRequestRepository(pool *pgxpool.Pool) *RequestRepositoryPG {
	return &RequestRepositoryPG{pool: pool}
}

// Create inserts a request and bumps the requester's counter in the same
// transaction. The uniq_requests_active index resolves concurrent duplicate
// creates: the loser comes back as a conflict.
func (r *RequestRepositoryPG) Create(ctx context.Context, request *domain.Request) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
INSERT INTO requests (id, item_id, requester_id, message, logistics_type, status, requested_at)
VALUES ($1, $2, $3, $4, $5, $6, $7);
`, request.ID, request.ItemID, request.RequesterID, request.Message,
		request.LogisticsType, request.Status, request.RequestedAt)
	if _, ok := uniqueViolation(err); ok {
		return domain.ConflictError("you have already requested this item")
	}
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `UPDATE users SET requests_made = requests_made + 1 WHERE id = $1;`, request.RequesterID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetByID returns a request by id.
func (r *RequestRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Request, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, item_id, requester_id, message, logistics_type, status, requested_at
FROM requests
WHERE id = $1;
`, id)

	var request domain.Request
	err := row.Scan(
		&request.ID, &request.ItemID, &request.RequesterID, &request.Message,
		&request.LogisticsType, &request.Status, &request.RequestedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFoundError("request not found")
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

const requestDetailQuery = `
SELECT r.id, r.item_id, r.requester_id, r.message, r.logistics_type, r.status, r.requested_at,
       i.title, i.status, u.name, d.name
FROM requests r
JOIN items i ON i.id = r.item_id
JOIN users u ON u.id = r.requester_id
JOIN users d ON d.id = i.donor_id
`

// ListByRequester returns requests made by the user, newest first.
func (r *RequestRepositoryPG) ListByRequester(ctx context.Context, userID string) ([]domain.RequestDetail, error) {
	return r.queryDetails(ctx, requestDetailQuery+`WHERE r.requester_id = $1 ORDER BY r.requested_at DESC;`, userID)
}

// ListReceived returns requests on items the user has donated, newest first.
func (r *RequestRepositoryPG) ListReceived(ctx context.Context, donorID string) ([]domain.RequestDetail, error) {
	return r.queryDetails(ctx, requestDetailQuery+`WHERE i.donor_id = $1 ORDER BY r.requested_at DESC;`, donorID)
}

func (r *RequestRepositoryPG) queryDetails(ctx context.Context, query string, args ...any) ([]domain.RequestDetail, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []domain.RequestDetail
	for rows.Next() {
		var d domain.RequestDetail
		if err := rows.Scan(
			&d.ID, &d.ItemID, &d.RequesterID, &d.Message, &d.LogisticsType, &d.Status, &d.RequestedAt,
			&d.ItemTitle, &d.ItemStatus, &d.RequesterName, &d.DonorName,
		); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

// Approve resolves a pending request in favour of its requester as one
// atomic unit: the request row is locked, the item is conditionally moved out
// of available, and the request is marked approved. Two concurrent approvals
// on the same item see exactly one success; the other finds the item already
// gone and gets a conflict.
func (r *RequestRepositoryPG) Approve(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	itemID, status, err := lockRequest(ctx, tx, id)
	if err != nil {
		return err
	}
	if status != domain.RequestStatusPending {
		return domain.ConflictError("request has already been resolved")
	}

	tag, err := tx.Exec(ctx, `UPDATE items SET status = 'pending' WHERE id = $1 AND status = 'available';`, itemID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ConflictError("item is no longer available")
	}

	_, err = tx.Exec(ctx, `UPDATE requests SET status = 'approved' WHERE id = $1;`, id)
	if _, ok := uniqueViolation(err); ok {
		// uniq_requests_approved backstop; the item check above should
		// have caught this already.
		return domain.ConflictError("another request has already been approved")
	}
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Reject resolves a pending request against its requester. The item stays
// available for everyone else.
func (r *RequestRepositoryPG) Reject(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, status, err := lockRequest(ctx, tx, id)
	if err != nil {
		return err
	}
	if status != domain.RequestStatusPending {
		return domain.ConflictError("request has already been resolved")
	}

	if _, err := tx.Exec(ctx, `UPDATE requests SET status = 'rejected' WHERE id = $1;`, id); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func lockRequest(ctx context.Context, tx pgx.Tx, id string) (string, domain.RequestStatus, error) {
	var itemID string
	var status domain.RequestStatus
	err := tx.QueryRow(ctx, `SELECT item_id, status FROM requests WHERE id = $1 FOR UPDATE;`, id).Scan(&itemID, &status)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", "", domain.NotFoundError("request not found")
	}
	if err != nil {
		return "", "", err
	}
	return itemID, status, nil
}
