// Package stats persists win/loss records, ratings and duel history.
package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tgray07/duelcore/internal/models"
)

// Repository implements the stats store on Postgres. Schema:
//
//	CREATE TABLE player_stats (
//	    player_id TEXT PRIMARY KEY,
//	    wins INT NOT NULL DEFAULT 0,
//	    losses INT NOT NULL DEFAULT 0,
//	    draws INT NOT NULL DEFAULT 0,
//	    rating INT NOT NULL
//	);
//	CREATE TABLE duel_history (
//	    id BIGSERIAL PRIMARY KEY,
//	    session_id UUID NOT NULL,
//	    ended_at TIMESTAMPTZ NOT NULL,
//	    record JSONB NOT NULL
//	);
type Repository struct {
	pool          *pgxpool.Pool
	defaultRating int
}

// NewRepository creates a repository over an existing pool.
func NewRepository(pool *pgxpool.Pool, defaultRating int) *Repository {
	return &Repository{pool: pool, defaultRating: defaultRating}
}

func (r *Repository) RecordWin(ctx context.Context, id models.ParticipantID) error {
	return r.bump(ctx, id, "wins")
}

func (r *Repository) RecordLoss(ctx context.Context, id models.ParticipantID) error {
	return r.bump(ctx, id, "losses")
}

func (r *Repository) RecordDraw(ctx context.Context, id models.ParticipantID) error {
	return r.bump(ctx, id, "draws")
}

// bump upserts the row and increments one tally column. The column name is
// fixed by the callers above, never caller input.
func (r *Repository) bump(ctx context.Context, id models.ParticipantID, column string) error {
	query := fmt.Sprintf(`
		INSERT INTO player_stats (player_id, %[1]s, rating) VALUES ($1, 1, $2)
		ON CONFLICT (player_id) DO UPDATE SET %[1]s = player_stats.%[1]s + 1`, column)
	if _, err := r.pool.Exec(ctx, query, id.String(), r.defaultRating); err != nil {
		return fmt.Errorf("failed to record %s for %s: %w", column, id, err)
	}
	return nil
}

func (r *Repository) Rating(ctx context.Context, id models.ParticipantID) (int, error) {
	var rating int
	err := r.pool.QueryRow(ctx,
		`SELECT rating FROM player_stats WHERE player_id = $1`, id.String()).Scan(&rating)
	if errors.Is(err, pgx.ErrNoRows) {
		return r.defaultRating, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get rating for %s: %w", id, err)
	}
	return rating, nil
}

func (r *Repository) SetRating(ctx context.Context, id models.ParticipantID, rating int) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO player_stats (player_id, rating) VALUES ($1, $2)
		ON CONFLICT (player_id) DO UPDATE SET rating = $2`, id.String(), rating)
	if err != nil {
		return fmt.Errorf("failed to set rating for %s: %w", id, err)
	}
	return nil
}

func (r *Repository) AddHistory(ctx context.Context, rec models.SettlementRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal settlement record: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO duel_history (session_id, ended_at, record) VALUES ($1, $2, $3)`,
		rec.SessionID, rec.EndedAt, payload)
	if err != nil {
		return fmt.Errorf("failed to append history for %s: %w", rec.SessionID, err)
	}
	return nil
}
