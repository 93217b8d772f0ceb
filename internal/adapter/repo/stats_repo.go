package repo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"sharecircle/internal/domain"
)

// StatsRepositoryPG computes community aggregates straight from the entity
// tables, never from the cached user counters.
type StatsRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewStatsRepository creates a new stats repo.
func NewStatsRepository(pool *pgxpool.Pool) *StatsRepositoryPG {
	return &StatsRepositoryPG{pool: pool}
}

// Summary returns the dashboard figures. Item weights are free text
// ("4.5 kg"); the numeric part is extracted in SQL and unparseable weights
// count as zero.
func (r *StatsRepositoryPG) Summary(ctx context.Context) (*domain.CommunityStats, error) {
	row := r.pool.QueryRow(ctx, `
SELECT
    (SELECT count(*) FROM items),
    (SELECT coalesce(sum(nullif(regexp_replace(weight, '[^0-9.]', '', 'g'), '')::numeric), 0) FROM items),
    (SELECT count(DISTINCT requester_id) FROM requests WHERE status = 'approved');
`)

	var stats domain.CommunityStats
	if err := row.Scan(&stats.ItemsShared, &stats.WasteDivertedKg, &stats.MembersHelped); err != nil {
		return nil, err
	}
	return &stats, nil
}
