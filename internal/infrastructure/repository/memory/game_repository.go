package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/game"
	"github.com/riskibarqy/matchday/internal/domain/roster"
)

// GameRepository keeps games and teams in process memory. It needs the
// player repository so Finalize can apply point deltas inside the same
// step that flips the game status.
type GameRepository struct {
	mu      sync.RWMutex
	items   map[string]game.Game
	teams   map[string][]game.Team
	players *PlayerRepository
}

func NewGameRepository(players *PlayerRepository) *GameRepository {
	return &GameRepository{
		items:   make(map[string]game.Game),
		teams:   make(map[string][]game.Team),
		players: players,
	}
}

func (r *GameRepository) Create(_ context.Context, g game.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[g.ID]; exists {
		return fmt.Errorf("game %s already exists", g.ID)
	}
	r.items[g.ID] = g
	return nil
}

func (r *GameRepository) GetByID(_ context.Context, gameID string) (game.Game, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.items[gameID]
	return g, ok, nil
}

func (r *GameRepository) List(_ context.Context, filter game.ListFilter) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]game.Game, 0, len(r.items))
	for _, g := range r.items {
		if filter.Status != "" && g.Status != filter.Status {
			continue
		}
		out = append(out, g)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Kickoff.Equal(out[j].Kickoff) {
			return out[i].Kickoff.Before(out[j].Kickoff)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *GameRepository) Update(_ context.Context, g game.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[g.ID]; !ok {
		return fmt.Errorf("game %s not found", g.ID)
	}
	r.items[g.ID] = g
	return nil
}

func (r *GameRepository) Delete(_ context.Context, gameID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[gameID]; !ok {
		return fmt.Errorf("game %s not found", gameID)
	}
	delete(r.items, gameID)
	delete(r.teams, gameID)
	return nil
}

func (r *GameRepository) ListTeams(_ context.Context, gameID string) ([]game.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.teams[gameID]
	out := make([]game.Team, len(stored))
	copy(out, stored)
	return out, nil
}

func (r *GameRepository) ReplaceTeams(_ context.Context, gameID string, teams []game.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[gameID]; !ok {
		return fmt.Errorf("game %s not found", gameID)
	}
	stored := make([]game.Team, len(teams))
	copy(stored, teams)
	r.teams[gameID] = stored
	return nil
}

func (r *GameRepository) Finalize(_ context.Context, gameID string, scores game.FinalScores, deltas []roster.PointsDelta) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.items[gameID]
	if !ok {
		return false, fmt.Errorf("game %s not found", gameID)
	}
	if g.Status != game.StatusUpcoming {
		return false, nil
	}

	byPlayer := make(map[string]float64, len(deltas))
	for _, d := range deltas {
		byPlayer[d.PlayerID] = d.Delta
	}
	if err := r.players.addPoints(byPlayer); err != nil {
		return false, fmt.Errorf("apply point deltas: %w", err)
	}

	for i, t := range r.teams[gameID] {
		score := scores.TeamA
		if t.Label == game.TeamLabelB {
			score = scores.TeamB
		}
		value := score
		t.Score = &value
		r.teams[gameID][i] = t
	}

	g.Status = game.StatusCompleted
	g.UpdatedAt = time.Now().UTC()
	r.items[gameID] = g
	return true, nil
}
