package usecase

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/game"
	"github.com/riskibarqy/matchday/internal/domain/roster"
	"github.com/riskibarqy/matchday/internal/infrastructure/repository/memory"
)

func newRosterFixture(t *testing.T, playerCount int) (*RosterService, *memory.MembershipRepository, *capturePublisher) {
	t.Helper()

	playerRepo := memory.NewPlayerRepository(testPlayers(playerCount))
	gameRepo, err := newGameRepoWith(playerRepo, testUpcomingGame("gm-001"))
	if err != nil {
		t.Fatalf("seed game: %v", err)
	}
	membershipRepo := memory.NewMembershipRepository()
	publisher := &capturePublisher{}

	service := NewRosterService(
		gameRepo,
		membershipRepo,
		roster.DefaultLimits(),
		nil,
		publisher,
		&seqIDGenerator{prefix: "mem"},
		testLogger(),
	)
	return service, membershipRepo, publisher
}

func TestRosterService_Join_FillsParticipantsThenReserves(t *testing.T) {
	service, _, _ := newRosterFixture(t, 20)

	base := time.Date(2026, 2, 10, 18, 0, 0, 0, time.UTC)
	for i := 0; i < 18; i++ {
		joinedAt := base.Add(time.Duration(i) * time.Minute)
		service.now = func() time.Time { return joinedAt }

		m, err := service.Join(t.Context(), JoinGameInput{
			PlayerID: fmt.Sprintf("pl-%03d", i+1),
			GameID:   "gm-001",
		})
		if err != nil {
			t.Fatalf("join %d failed: %v", i+1, err)
		}

		want := roster.RoleParticipant
		if i >= 14 {
			want = roster.RoleReserve
		}
		if m.Role != want {
			t.Fatalf("joiner %d: expected role %s, got %s", i+1, want, m.Role)
		}
	}

	_, err := service.Join(t.Context(), JoinGameInput{PlayerID: "pl-019", GameID: "gm-001"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict on full roster, got %v", err)
	}
	if !errors.Is(err, roster.ErrRosterFull) {
		t.Fatalf("expected ErrRosterFull on full roster, got %v", err)
	}
}

func TestRosterService_Join_Duplicate(t *testing.T) {
	service, _, _ := newRosterFixture(t, 2)

	if _, err := service.Join(t.Context(), JoinGameInput{PlayerID: "pl-001", GameID: "gm-001"}); err != nil {
		t.Fatalf("first join failed: %v", err)
	}

	_, err := service.Join(t.Context(), JoinGameInput{PlayerID: "pl-001", GameID: "gm-001"})
	if !errors.Is(err, ErrConflict) || !errors.Is(err, ErrAlreadyJoined) {
		t.Fatalf("expected ErrConflict/ErrAlreadyJoined, got %v", err)
	}
}

func TestRosterService_Join_RejectsNonUpcomingGame(t *testing.T) {
	playerRepo := memory.NewPlayerRepository(testPlayers(2))
	cancelled := testUpcomingGame("gm-cancelled")
	cancelled.Status = game.StatusCancelled
	gameRepo, err := newGameRepoWith(playerRepo, cancelled)
	if err != nil {
		t.Fatalf("seed game: %v", err)
	}

	service := NewRosterService(
		gameRepo,
		memory.NewMembershipRepository(),
		roster.DefaultLimits(),
		nil,
		nil,
		&seqIDGenerator{prefix: "mem"},
		testLogger(),
	)

	_, err = service.Join(t.Context(), JoinGameInput{PlayerID: "pl-001", GameID: "gm-cancelled"})
	if !errors.Is(err, ErrConflict) || !errors.Is(err, ErrGameNotUpcoming) {
		t.Fatalf("expected ErrConflict/ErrGameNotUpcoming, got %v", err)
	}
}

func TestRosterService_Join_GameNotFound(t *testing.T) {
	service, _, _ := newRosterFixture(t, 1)

	_, err := service.Join(t.Context(), JoinGameInput{PlayerID: "pl-001", GameID: "gm-missing"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRosterService_Leave_PromotesEarliestReserve(t *testing.T) {
	service, membershipRepo, publisher := newRosterFixture(t, 20)

	base := time.Date(2026, 2, 10, 18, 0, 0, 0, time.UTC)
	for i := 0; i < 16; i++ {
		joinedAt := base.Add(time.Duration(i) * time.Minute)
		service.now = func() time.Time { return joinedAt }
		if _, err := service.Join(t.Context(), JoinGameInput{
			PlayerID: fmt.Sprintf("pl-%03d", i+1),
			GameID:   "gm-001",
		}); err != nil {
			t.Fatalf("join %d failed: %v", i+1, err)
		}
	}

	// pl-015 joined before pl-016; it must be the one promoted.
	result, err := service.Leave(t.Context(), LeaveGameInput{PlayerID: "pl-003", GameID: "gm-001"})
	if err != nil {
		t.Fatalf("leave failed: %v", err)
	}

	if result.Departed.PlayerID != "pl-003" {
		t.Fatalf("expected departed pl-003, got %s", result.Departed.PlayerID)
	}
	if result.Promoted == nil {
		t.Fatalf("expected a promoted reserve, got none")
	}
	if result.Promoted.PlayerID != "pl-015" {
		t.Fatalf("expected pl-015 promoted, got %s", result.Promoted.PlayerID)
	}

	promoted, found, err := membershipRepo.GetByPlayerAndGame(t.Context(), "pl-015", "gm-001")
	if err != nil || !found {
		t.Fatalf("promoted membership lookup failed: found=%v err=%v", found, err)
	}
	if promoted.Role != roster.RoleParticipant {
		t.Fatalf("expected promoted role participant, got %s", promoted.Role)
	}

	var sawPromotion bool
	for _, eventType := range publisher.typesSeen() {
		if eventType == EventReservePromoted {
			sawPromotion = true
		}
	}
	if !sawPromotion {
		t.Fatalf("expected a reserve promotion event")
	}
}

func TestRosterService_Leave_ReserveDepartureDoesNotPromote(t *testing.T) {
	service, _, _ := newRosterFixture(t, 20)

	base := time.Date(2026, 2, 10, 18, 0, 0, 0, time.UTC)
	for i := 0; i < 16; i++ {
		joinedAt := base.Add(time.Duration(i) * time.Minute)
		service.now = func() time.Time { return joinedAt }
		if _, err := service.Join(t.Context(), JoinGameInput{
			PlayerID: fmt.Sprintf("pl-%03d", i+1),
			GameID:   "gm-001",
		}); err != nil {
			t.Fatalf("join %d failed: %v", i+1, err)
		}
	}

	result, err := service.Leave(t.Context(), LeaveGameInput{PlayerID: "pl-016", GameID: "gm-001"})
	if err != nil {
		t.Fatalf("leave failed: %v", err)
	}
	if result.Promoted != nil {
		t.Fatalf("reserve departure must not promote anyone, got %s", result.Promoted.PlayerID)
	}
}

func TestRosterService_Leave_NotJoined(t *testing.T) {
	service, _, _ := newRosterFixture(t, 1)

	_, err := service.Leave(t.Context(), LeaveGameInput{PlayerID: "pl-001", GameID: "gm-001"})
	if !errors.Is(err, ErrNotFound) || !errors.Is(err, ErrNotJoined) {
		t.Fatalf("expected ErrNotFound/ErrNotJoined, got %v", err)
	}
}

func TestRosterService_Join_ConcurrentRespectsCaps(t *testing.T) {
	service, membershipRepo, _ := newRosterFixture(t, 30)

	const joiners = 30
	var wg sync.WaitGroup
	errs := make(chan error, joiners)

	for i := 0; i < joiners; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.Join(t.Context(), JoinGameInput{
				PlayerID: fmt.Sprintf("pl-%03d", i+1),
				GameID:   "gm-001",
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var admitted, rejected int
	for err := range errs {
		switch {
		case err == nil:
			admitted++
		case errors.Is(err, roster.ErrRosterFull):
			rejected++
		default:
			t.Fatalf("unexpected join error: %v", err)
		}
	}
	if admitted != 18 || rejected != 12 {
		t.Fatalf("expected 18 admitted and 12 rejected, got %d/%d", admitted, rejected)
	}

	members, err := membershipRepo.ListByGame(t.Context(), "gm-001")
	if err != nil {
		t.Fatalf("list roster: %v", err)
	}
	var participants, reserves int
	for _, m := range members {
		switch m.Role {
		case roster.RoleParticipant:
			participants++
		case roster.RoleReserve:
			reserves++
		}
	}
	if participants != 14 || reserves != 4 {
		t.Fatalf("expected 14 participants and 4 reserves, got %d/%d", participants, reserves)
	}
}
