package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/riskibarqy/matchday/internal/domain/player"
)

type PlayerRepository struct {
	mu    sync.RWMutex
	items map[string]player.Player
}

func NewPlayerRepository(seed []player.Player) *PlayerRepository {
	items := make(map[string]player.Player, len(seed))
	for _, p := range seed {
		items[p.ID] = p
	}
	return &PlayerRepository{items: items}
}

func (r *PlayerRepository) Create(_ context.Context, p player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[p.ID]; exists {
		return fmt.Errorf("player %s already exists", p.ID)
	}
	r.items[p.ID] = p
	return nil
}

func (r *PlayerRepository) GetByID(_ context.Context, playerID string) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[playerID]
	return p, ok, nil
}

func (r *PlayerRepository) GetByEmail(_ context.Context, email string) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.items {
		if strings.EqualFold(p.Email, email) {
			return p, true, nil
		}
	}
	return player.Player{}, false, nil
}

func (r *PlayerRepository) GetByIDs(_ context.Context, playerIDs []string) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(playerIDs))
	for _, id := range playerIDs {
		if p, ok := r.items[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *PlayerRepository) List(_ context.Context) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(r.items))
	for _, p := range r.items {
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *PlayerRepository) UpdateRating(_ context.Context, playerID string, rating float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[playerID]
	if !ok {
		return fmt.Errorf("player %s not found", playerID)
	}
	p.Rating = rating
	r.items[playerID] = p
	return nil
}

func (r *PlayerRepository) UpdateAggregates(_ context.Context, playerID string, rating, points float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[playerID]
	if !ok {
		return fmt.Errorf("player %s not found", playerID)
	}
	p.Rating = rating
	p.Points = points
	r.items[playerID] = p
	return nil
}

// addPoints applies settlement deltas under the repository lock; called by
// the game repository's Finalize so the whole settlement is one step.
func (r *PlayerRepository) addPoints(deltas map[string]float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for playerID := range deltas {
		if _, ok := r.items[playerID]; !ok {
			return fmt.Errorf("player %s not found", playerID)
		}
	}
	for playerID, delta := range deltas {
		p := r.items[playerID]
		p.Points += delta
		r.items[playerID] = p
	}
	return nil
}
