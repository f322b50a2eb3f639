package roster

import (
	"errors"
	"testing"
	"time"
)

func TestDecideJoin_FillsParticipantsThenReserves(t *testing.T) {
	limits := DefaultLimits()

	role, err := DecideJoin(0, 0, limits)
	if err != nil || role != RoleParticipant {
		t.Fatalf("expected participant on empty roster, got role=%s err=%v", role, err)
	}

	role, err = DecideJoin(13, 0, limits)
	if err != nil || role != RoleParticipant {
		t.Fatalf("expected participant for the last slot, got role=%s err=%v", role, err)
	}

	role, err = DecideJoin(14, 0, limits)
	if err != nil || role != RoleReserve {
		t.Fatalf("expected reserve once participants are capped, got role=%s err=%v", role, err)
	}

	role, err = DecideJoin(14, 3, limits)
	if err != nil || role != RoleReserve {
		t.Fatalf("expected reserve for the last reserve slot, got role=%s err=%v", role, err)
	}

	if _, err = DecideJoin(14, 4, limits); !errors.Is(err, ErrRosterFull) {
		t.Fatalf("expected ErrRosterFull at 14 participants and 4 reserves, got %v", err)
	}
}

func TestDecideJoin_CustomLimits(t *testing.T) {
	limits := Limits{MaxParticipants: 2, MaxReserves: 1}

	role, _ := DecideJoin(1, 0, limits)
	if role != RoleParticipant {
		t.Fatalf("expected participant, got %s", role)
	}
	role, _ = DecideJoin(2, 0, limits)
	if role != RoleReserve {
		t.Fatalf("expected reserve, got %s", role)
	}
	if _, err := DecideJoin(2, 1, limits); !errors.Is(err, ErrRosterFull) {
		t.Fatalf("expected ErrRosterFull, got %v", err)
	}
}

func TestPickPromotion_FIFOByJoinTime(t *testing.T) {
	base := time.Date(2026, 8, 1, 18, 0, 0, 0, time.UTC)
	reserves := []QueueEntry{
		{MembershipID: "m2", PlayerID: "p2", JoinedAt: base.Add(2 * time.Minute), Seq: 2},
		{MembershipID: "m1", PlayerID: "p1", JoinedAt: base.Add(1 * time.Minute), Seq: 1},
		{MembershipID: "m3", PlayerID: "p3", JoinedAt: base.Add(3 * time.Minute), Seq: 3},
	}

	picked, ok := PickPromotion(RoleParticipant, reserves)
	if !ok {
		t.Fatal("expected a promotion when a participant leaves")
	}
	if picked.MembershipID != "m1" {
		t.Fatalf("expected earliest reserve m1 promoted, got %s", picked.MembershipID)
	}
}

func TestPickPromotion_TieBrokenBySeq(t *testing.T) {
	at := time.Date(2026, 8, 1, 18, 0, 0, 0, time.UTC)
	reserves := []QueueEntry{
		{MembershipID: "m9", PlayerID: "p9", JoinedAt: at, Seq: 9},
		{MembershipID: "m4", PlayerID: "p4", JoinedAt: at, Seq: 4},
	}

	picked, ok := PickPromotion(RoleParticipant, reserves)
	if !ok || picked.MembershipID != "m4" {
		t.Fatalf("expected lowest seq m4 on timestamp tie, got %+v ok=%t", picked, ok)
	}
}

func TestPickPromotion_NoPromotionCases(t *testing.T) {
	reserves := []QueueEntry{{MembershipID: "m1", PlayerID: "p1", Seq: 1}}

	if _, ok := PickPromotion(RoleReserve, reserves); ok {
		t.Fatal("a departing reserve must not trigger a promotion")
	}
	if _, ok := PickPromotion(RoleParticipant, nil); ok {
		t.Fatal("an empty reserve queue must not trigger a promotion")
	}
}

func TestValidateGameRating(t *testing.T) {
	for _, v := range []float64{1, 5.5, 10} {
		if err := ValidateGameRating(v); err != nil {
			t.Fatalf("expected %v to be valid, got %v", v, err)
		}
	}
	for _, v := range []float64{0, 0.99, 10.01, -3} {
		if err := ValidateGameRating(v); !errors.Is(err, ErrRatingOutOfRange) {
			t.Fatalf("expected %v to be rejected, got %v", v, err)
		}
	}
}
