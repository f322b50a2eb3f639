package membership

import (
	"context"

	"github.com/riskibarqy/matchday/internal/domain/roster"
)

// Repository describes membership persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, m Membership) (Membership, error)
	GetByPlayerAndGame(ctx context.Context, playerID, gameID string) (Membership, bool, error)
	// ListByGame returns memberships ordered by join time ascending, then
	// by insertion sequence.
	ListByGame(ctx context.Context, gameID string) ([]Membership, error)
	ListByPlayer(ctx context.Context, playerID string) ([]Membership, error)
	UpdateRole(ctx context.Context, membershipID string, role roster.Role) error
	// UpdateRatings stores per-game grades keyed by player id, applying the
	// whole batch or none of it.
	UpdateRatings(ctx context.Context, gameID string, ratings map[string]float64) error
	Delete(ctx context.Context, membershipID string) error
	// AverageRating aggregates all non-null per-game ratings of the player
	// in one query; count is zero when the player has no graded games.
	AverageRating(ctx context.Context, playerID string) (avg float64, count int, err error)
	// GamesPlayedCounts returns the membership count per player in one
	// aggregate query, keyed by player id.
	GamesPlayedCounts(ctx context.Context) (map[string]int, error)
}
