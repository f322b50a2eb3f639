package membership

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/roster"
)

func validMembership() Membership {
	return Membership{
		ID:       "mem-001",
		GameID:   "gm-001",
		PlayerID: "pl-001",
		Role:     roster.RoleParticipant,
		JoinedAt: time.Date(2026, 3, 7, 18, 0, 0, 0, time.UTC),
	}
}

func TestMembershipValidate(t *testing.T) {
	if err := validMembership().Validate(); err != nil {
		t.Fatalf("expected valid membership, got %v", err)
	}

	m := validMembership()
	m.Role = "coach"
	if err := m.Validate(); !errors.Is(err, roster.ErrUnknownRosterRole) {
		t.Fatalf("expected ErrUnknownRosterRole for role %q, got %v", m.Role, err)
	}

	m = validMembership()
	bad := 11.0
	m.Rating = &bad
	if err := m.Validate(); !errors.Is(err, roster.ErrRatingOutOfRange) {
		t.Fatalf("expected ErrRatingOutOfRange, got %v", err)
	}

	for _, mutate := range []func(*Membership){
		func(m *Membership) { m.ID = "" },
		func(m *Membership) { m.GameID = "" },
		func(m *Membership) { m.PlayerID = "" },
	} {
		m := validMembership()
		mutate(&m)
		if err := m.Validate(); err == nil {
			t.Fatalf("expected error for %+v", m)
		}
	}
}
