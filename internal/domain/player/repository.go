package player

import "context"

// Repository describes player persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, p Player) error
	GetByID(ctx context.Context, playerID string) (Player, bool, error)
	GetByEmail(ctx context.Context, email string) (Player, bool, error)
	GetByIDs(ctx context.Context, playerIDs []string) ([]Player, error)
	// List returns all players ordered by points descending.
	List(ctx context.Context) ([]Player, error)
	UpdateRating(ctx context.Context, playerID string, rating float64) error
	// UpdateAggregates overwrites the derived rating and points columns in
	// one step, used by bulk re-aggregation.
	UpdateAggregates(ctx context.Context, playerID string, rating, points float64) error
}
