package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/matchday/internal/domain/membership"
	"github.com/riskibarqy/matchday/internal/domain/roster"
)

type MembershipRepository struct {
	mu      sync.RWMutex
	items   map[string]membership.Membership
	nextSeq int64
}

func NewMembershipRepository() *MembershipRepository {
	return &MembershipRepository{items: make(map[string]membership.Membership)}
}

func (r *MembershipRepository) Create(_ context.Context, m membership.Membership) (membership.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.PlayerID == m.PlayerID && existing.GameID == m.GameID {
			return membership.Membership{}, fmt.Errorf("membership for player %s in game %s already exists", m.PlayerID, m.GameID)
		}
	}

	r.nextSeq++
	m.Seq = r.nextSeq
	r.items[m.ID] = m
	return m, nil
}

func (r *MembershipRepository) GetByPlayerAndGame(_ context.Context, playerID, gameID string) (membership.Membership, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.items {
		if m.PlayerID == playerID && m.GameID == gameID {
			return m, true, nil
		}
	}
	return membership.Membership{}, false, nil
}

func (r *MembershipRepository) ListByGame(_ context.Context, gameID string) ([]membership.Membership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]membership.Membership, 0)
	for _, m := range r.items {
		if m.GameID == gameID {
			out = append(out, m)
		}
	}
	sortMemberships(out)
	return out, nil
}

func (r *MembershipRepository) ListByPlayer(_ context.Context, playerID string) ([]membership.Membership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]membership.Membership, 0)
	for _, m := range r.items {
		if m.PlayerID == playerID {
			out = append(out, m)
		}
	}
	sortMemberships(out)
	return out, nil
}

func (r *MembershipRepository) UpdateRole(_ context.Context, membershipID string, role roster.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.items[membershipID]
	if !ok {
		return fmt.Errorf("membership %s not found", membershipID)
	}
	m.Role = role
	r.items[membershipID] = m
	return nil
}

func (r *MembershipRepository) UpdateRatings(_ context.Context, gameID string, ratings map[string]float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Resolve every target before mutating so a missing membership leaves
	// the batch untouched.
	targets := make(map[string]string, len(ratings))
	for playerID := range ratings {
		found := false
		for id, m := range r.items {
			if m.GameID == gameID && m.PlayerID == playerID {
				targets[playerID] = id
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("membership for player %s in game %s not found", playerID, gameID)
		}
	}

	for playerID, id := range targets {
		m := r.items[id]
		value := ratings[playerID]
		m.Rating = &value
		r.items[id] = m
	}
	return nil
}

func (r *MembershipRepository) Delete(_ context.Context, membershipID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[membershipID]; !ok {
		return fmt.Errorf("membership %s not found", membershipID)
	}
	delete(r.items, membershipID)
	return nil
}

func (r *MembershipRepository) AverageRating(_ context.Context, playerID string) (float64, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var sum float64
	var count int
	for _, m := range r.items {
		if m.PlayerID == playerID && m.Rating != nil {
			sum += *m.Rating
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return sum / float64(count), count, nil
}

func (r *MembershipRepository) GamesPlayedCounts(_ context.Context) (map[string]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[string]int)
	for _, m := range r.items {
		counts[m.PlayerID]++
	}
	return counts, nil
}

func sortMemberships(items []membership.Membership) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].JoinedAt.Equal(items[j].JoinedAt) {
			return items[i].JoinedAt.Before(items[j].JoinedAt)
		}
		return items[i].Seq < items[j].Seq
	})
}
