package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/membership"
	"github.com/riskibarqy/matchday/internal/domain/roster"
)

func seedMemberships(t *testing.T) *MembershipRepository {
	t.Helper()

	repo := NewMembershipRepository()
	joined := time.Date(2026, 3, 7, 18, 0, 0, 0, time.UTC)
	for i, playerID := range []string{"pl-001", "pl-002"} {
		if _, err := repo.Create(context.Background(), membership.Membership{
			ID:       fmt.Sprintf("mem-%03d", i+1),
			GameID:   "gm-001",
			PlayerID: playerID,
			Role:     roster.RoleParticipant,
			JoinedAt: joined.Add(time.Duration(i) * time.Minute),
		}); err != nil {
			t.Fatalf("seed membership for %s: %v", playerID, err)
		}
	}
	return repo
}

func TestMembershipRepository_UpdateRatings_AppliesWholeBatch(t *testing.T) {
	repo := seedMemberships(t)

	if err := repo.UpdateRatings(context.Background(), "gm-001", map[string]float64{
		"pl-001": 8,
		"pl-002": 6,
	}); err != nil {
		t.Fatalf("update ratings failed: %v", err)
	}

	for playerID, want := range map[string]float64{"pl-001": 8, "pl-002": 6} {
		m, found, err := repo.GetByPlayerAndGame(context.Background(), playerID, "gm-001")
		if err != nil || !found {
			t.Fatalf("lookup %s: found=%v err=%v", playerID, found, err)
		}
		if m.Rating == nil || *m.Rating != want {
			t.Fatalf("expected rating %v for %s, got %v", want, playerID, m.Rating)
		}
	}
}

func TestMembershipRepository_UpdateRatings_MissingMemberLeavesBatchUnapplied(t *testing.T) {
	repo := seedMemberships(t)

	err := repo.UpdateRatings(context.Background(), "gm-001", map[string]float64{
		"pl-001": 8,
		"pl-404": 6,
	})
	if err == nil {
		t.Fatalf("expected error for unknown member")
	}

	m, found, lookupErr := repo.GetByPlayerAndGame(context.Background(), "pl-001", "gm-001")
	if lookupErr != nil || !found {
		t.Fatalf("lookup pl-001: found=%v err=%v", found, lookupErr)
	}
	if m.Rating != nil {
		t.Fatalf("failed batch must not store grades, got %v", *m.Rating)
	}
}
