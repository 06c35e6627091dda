// Package rivalry tracks recurring-opponent counters and mirrors ratings to
// a leaderboard.
package rivalry

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/tgray07/duelcore/internal/models"
)

const (
	meetingsKey    = "duel:rivalry:meetings"
	winsKeyPrefix  = "duel:rivalry:wins:"
	leaderboardKey = "duel:leaderboard"
)

// Redis implements the rivalry store on a shared redis instance so counters
// survive restarts and other server components can read them.
type Redis struct {
	client *redis.Client
}

// NewRedis creates a store over an existing client.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// RecordDuel increments the meeting counter for the pair and, on a decided
// duel, the winner's tally within the pair. Returns the new meeting count.
func (r *Redis) RecordDuel(ctx context.Context, a, b, winner models.ParticipantID) (int, error) {
	key := pairKey(a, b)
	n, err := r.client.HIncrBy(ctx, meetingsKey, key, 1).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment rivalry counter: %w", err)
	}
	if winner != "" {
		if err := r.client.HIncrBy(ctx, winsKeyPrefix+key, winner.String(), 1).Err(); err != nil {
			return int(n), fmt.Errorf("failed to increment rivalry wins: %w", err)
		}
	}
	return int(n), nil
}

// RecordRating mirrors a participant's rating into the leaderboard sorted
// set.
func (r *Redis) RecordRating(ctx context.Context, id models.ParticipantID, rating int) error {
	err := r.client.ZAdd(ctx, leaderboardKey, redis.Z{
		Score:  float64(rating),
		Member: id.String(),
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to update leaderboard: %w", err)
	}
	return nil
}

// TopRatings returns the n highest-rated participants, best first.
func (r *Redis) TopRatings(ctx context.Context, n int) ([]models.ParticipantID, error) {
	members, err := r.client.ZRevRange(ctx, leaderboardKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}
	out := make([]models.ParticipantID, len(members))
	for i, m := range members {
		out[i] = models.ParticipantID(m)
	}
	return out, nil
}

// pairKey builds an order-insensitive key for two participants.
func pairKey(a, b models.ParticipantID) string {
	if b < a {
		a, b = b, a
	}
	return a.String() + ":" + b.String()
}
