package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sharecircle/internal/domain"
)

// ItemRepositoryPG implements ItemRepository using PostgreSQL.
type ItemRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewItemRepository creates a new item repo.
func NewItemRepository(pool *pgxpool.Pool) *ItemRepositoryPG {
	return &ItemRepositoryPG{pool: pool}
}

const itemColumns = `id, title, description, category, condition, weight, dimensions, location, images, donor_id, status, pickup_only, posted_at`

// Create inserts a listing and bumps the donor's donation counter in the
// same transaction. The counter is a derived aggregate; keeping the bump in
// the transaction means it never drifts ahead of the item table.
func (r *ItemRepositoryPG) Create(ctx context.Context, item *domain.Item) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
INSERT INTO items (id, title, description, category, condition, weight, dimensions, location, images, donor_id, status, pickup_only, posted_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
`, item.ID, item.Title, item.Description, item.Category, item.Condition, item.Weight,
		item.Dimensions, item.Location, item.Images, item.DonorID, item.Status, item.PickupOnly, item.PostedAt)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `UPDATE users SET donations_made = donations_made + 1 WHERE id = $1;`, item.DonorID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetByID returns a listing by id.
func (r *ItemRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1;`, id)

	var item domain.Item
	err := row.Scan(
		&item.ID, &item.Title, &item.Description, &item.Category, &item.Condition,
		&item.Weight, &item.Dimensions, &item.Location, &item.Images, &item.DonorID,
		&item.Status, &item.PickupOnly, &item.PostedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFoundError("item not found")
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListAvailable returns the public catalog view: available items joined with
// their donor's public profile, filtered and sorted per the request.
func (r *ItemRepositoryPG) ListAvailable(ctx context.Context, filter domain.ItemFilter) ([]domain.ItemWithDonor, error) {
	var b strings.Builder
	b.WriteString(`
SELECT i.id, i.title, i.description, i.category, i.condition, i.weight, i.dimensions,
       i.location, i.images, i.donor_id, i.status, i.pickup_only, i.posted_at,
       d.id, d.name, d.joined_at, d.donations_made, d.rating
FROM items i
JOIN users d ON d.id = i.donor_id
WHERE i.status = 'available'`)

	var args []any
	if filter.Category != "" {
		args = append(args, filter.Category)
		fmt.Fprintf(&b, " AND i.category = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		fmt.Fprintf(&b, " AND (i.title ILIKE $%d OR i.description ILIKE $%d)", len(args), len(args))
	}
	if filter.Sort == domain.ItemSortOldest {
		b.WriteString(" ORDER BY i.posted_at ASC;")
	} else {
		b.WriteString(" ORDER BY i.posted_at DESC;")
	}

	rows, err := r.pool.Query(ctx, b.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.ItemWithDonor
	for rows.Next() {
		var it domain.ItemWithDonor
		if err := rows.Scan(
			&it.ID, &it.Title, &it.Description, &it.Category, &it.Condition,
			&it.Weight, &it.Dimensions, &it.Location, &it.Images, &it.DonorID,
			&it.Status, &it.PickupOnly, &it.PostedAt,
			&it.Donor.ID, &it.Donor.Name, &it.Donor.JoinedAt, &it.Donor.DonationsMade, &it.Donor.Rating,
		); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
