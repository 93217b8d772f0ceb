package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"

	"sharecircle/internal/infra"
)

// reconcile recomputes the per-user donation and request counters from the
// item and request tables. The counters are derived figures; when a manual
// fix or an old bug leaves them out of line, this job restores the truth.
func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		bootLogger := infra.NewLogger("development")
		bootLogger.Fatal().Err(err).Msg("load config")
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()

	donations, err := pool.Exec(ctx, `
		UPDATE users u SET donations_made = COALESCE(c.n, 0)
		FROM (SELECT donor_id, count(*) AS n FROM items GROUP BY donor_id) c
		WHERE c.donor_id = u.id AND u.donations_made <> c.n
	`)
	if err != nil {
		logger.Fatal().Err(err).Msg("reconcile donation counters")
	}

	requests, err := pool.Exec(ctx, `
		UPDATE users u SET requests_made = COALESCE(c.n, 0)
		FROM (SELECT requester_id, count(*) AS n FROM requests GROUP BY requester_id) c
		WHERE c.requester_id = u.id AND u.requests_made <> c.n
	`)
	if err != nil {
		logger.Fatal().Err(err).Msg("reconcile request counters")
	}

	zeroed, err := pool.Exec(ctx, `
		UPDATE users u SET donations_made = 0
		WHERE donations_made <> 0 AND NOT EXISTS (SELECT 1 FROM items WHERE donor_id = u.id)
	`)
	if err != nil {
		logger.Fatal().Err(err).Msg("zero stale donation counters")
	}
	zeroedReq, err := pool.Exec(ctx, `
		UPDATE users u SET requests_made = 0
		WHERE requests_made <> 0 AND NOT EXISTS (SELECT 1 FROM requests WHERE requester_id = u.id)
	`)
	if err != nil {
		logger.Fatal().Err(err).Msg("zero stale request counters")
	}

	logger.Info().
		Int64("donation_counters_fixed", donations.RowsAffected()+zeroed.RowsAffected()).
		Int64("request_counters_fixed", requests.RowsAffected()+zeroedReq.RowsAffected()).
		Msg("counters reconciled")
}
