package game

import (
	"context"

	"github.com/riskibarqy/matchday/internal/domain/roster"
)

// ListFilter narrows List results; a zero value returns every game.
type ListFilter struct {
	Status Status
}

// FinalScores carries the recorded result for both sides of a game.
type FinalScores struct {
	TeamA int
	TeamB int
}

// Repository describes game and team persistence needs from use cases.
//
// ReplaceTeams and Finalize are composite operations: implementations must
// run them atomically so a concurrent reader never observes a partial team
// set or a half-settled game.
type Repository interface {
	Create(ctx context.Context, g Game) error
	GetByID(ctx context.Context, gameID string) (Game, bool, error)
	// List returns games matching filter ordered by kickoff ascending.
	List(ctx context.Context, filter ListFilter) ([]Game, error)
	Update(ctx context.Context, g Game) error
	Delete(ctx context.Context, gameID string) error

	ListTeams(ctx context.Context, gameID string) ([]Team, error)
	// ReplaceTeams deletes any existing teams of the game and stores the
	// two new ones in the same atomic step.
	ReplaceTeams(ctx context.Context, gameID string, teams []Team) error
	// Finalize records both scores, flips the game to completed and applies
	// the point deltas in one atomic step. It reports applied=false without
	// changing anything when the game is no longer upcoming, which is how
	// replayed finalizations are rejected.
	Finalize(ctx context.Context, gameID string, scores FinalScores, deltas []roster.PointsDelta) (applied bool, err error)
}
