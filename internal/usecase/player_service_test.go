package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/membership"
	"github.com/riskibarqy/matchday/internal/domain/roster"
	"github.com/riskibarqy/matchday/internal/infrastructure/repository/memory"
)

type stubProvisioner struct {
	accountID string
	err       error
	calls     int
}

func (s *stubProvisioner) ProvisionAccount(_ context.Context, _, _, _ string) (string, error) {
	s.calls++
	return s.accountID, s.err
}

func TestPlayerService_Register(t *testing.T) {
	playerRepo := memory.NewPlayerRepository(nil)
	gameRepo, err := newGameRepoWith(playerRepo)
	if err != nil {
		t.Fatalf("build game repo: %v", err)
	}
	provisioner := &stubProvisioner{accountID: "acct-001"}

	service := NewPlayerService(
		playerRepo,
		memory.NewMembershipRepository(),
		gameRepo,
		provisioner,
		testLogger(),
	)

	now := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }

	created, err := service.Register(t.Context(), RegisterPlayerInput{
		Name:     "  Bima Sakti  ",
		Email:    "Bima@Matchday.dev",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if created.ID != "acct-001" {
		t.Fatalf("expected account id as player id, got %s", created.ID)
	}
	if created.Name != "Bima Sakti" || created.Email != "bima@matchday.dev" {
		t.Fatalf("expected normalized name/email, got %q / %q", created.Name, created.Email)
	}
	if created.Rating != roster.DefaultPlayerRating || created.Points != 0 {
		t.Fatalf("expected default rating %v and zero points, got %v/%v",
			roster.DefaultPlayerRating, created.Rating, created.Points)
	}

	_, err = service.Register(t.Context(), RegisterPlayerInput{
		Name:     "Other",
		Email:    "bima@matchday.dev",
		Password: "correct-horse",
	})
	if !errors.Is(err, ErrConflict) || !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrConflict/ErrEmailTaken, got %v", err)
	}
	if provisioner.calls != 1 {
		t.Fatalf("taken email must not reach the account service, got %d calls", provisioner.calls)
	}
}

func TestPlayerService_Register_InvalidInput(t *testing.T) {
	playerRepo := memory.NewPlayerRepository(nil)
	gameRepo, err := newGameRepoWith(playerRepo)
	if err != nil {
		t.Fatalf("build game repo: %v", err)
	}
	service := NewPlayerService(
		playerRepo,
		memory.NewMembershipRepository(),
		gameRepo,
		&stubProvisioner{accountID: "acct-001"},
		testLogger(),
	)

	cases := []RegisterPlayerInput{
		{Name: "", Email: "a@b.dev", Password: "longenough"},
		{Name: "A", Email: "not-an-email", Password: "longenough"},
		{Name: "A", Email: "a@b.dev", Password: "short"},
	}
	for i, input := range cases {
		if _, err := service.Register(t.Context(), input); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestPlayerService_Leaderboard(t *testing.T) {
	players := testPlayers(3)
	players[0].Points = 4
	players[1].Points = 10
	players[2].Points = 7
	playerRepo := memory.NewPlayerRepository(players)
	gameRepo, err := newGameRepoWith(playerRepo, testUpcomingGame("gm-001"))
	if err != nil {
		t.Fatalf("seed game: %v", err)
	}
	membershipRepo := memory.NewMembershipRepository()

	joined := time.Date(2026, 2, 10, 18, 0, 0, 0, time.UTC)
	for i, playerID := range []string{"pl-002", "pl-002", "pl-003"} {
		if _, err := membershipRepo.Create(t.Context(), membership.Membership{
			ID:       fmt.Sprintf("mem-%03d", i+1),
			GameID:   fmt.Sprintf("gm-%03d", i+1),
			PlayerID: playerID,
			Role:     roster.RoleParticipant,
			JoinedAt: joined,
		}); err != nil {
			t.Fatalf("seed membership: %v", err)
		}
	}

	service := NewPlayerService(playerRepo, membershipRepo, gameRepo, &stubProvisioner{}, testLogger())

	standings, err := service.Leaderboard(t.Context())
	if err != nil {
		t.Fatalf("leaderboard failed: %v", err)
	}

	if len(standings) != 3 {
		t.Fatalf("expected 3 standings, got %d", len(standings))
	}
	wantOrder := []string{"pl-002", "pl-003", "pl-001"}
	for i, want := range wantOrder {
		if standings[i].ID != want {
			t.Fatalf("rank %d: expected %s, got %s", i+1, want, standings[i].ID)
		}
	}
	if standings[0].GamesPlayed != 2 || standings[2].GamesPlayed != 0 {
		t.Fatalf("unexpected games played: %d / %d", standings[0].GamesPlayed, standings[2].GamesPlayed)
	}
}

func TestPlayerService_GetProfile(t *testing.T) {
	playerRepo := memory.NewPlayerRepository(testPlayers(2))
	gameRepo, err := newGameRepoWith(playerRepo, testUpcomingGame("gm-001"))
	if err != nil {
		t.Fatalf("seed game: %v", err)
	}
	membershipRepo := memory.NewMembershipRepository()

	grade := 7.5
	if _, err := membershipRepo.Create(t.Context(), membership.Membership{
		ID:       "mem-001",
		GameID:   "gm-001",
		PlayerID: "pl-001",
		Role:     roster.RoleParticipant,
		Rating:   &grade,
		JoinedAt: time.Date(2026, 2, 10, 18, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("seed membership: %v", err)
	}

	service := NewPlayerService(playerRepo, membershipRepo, gameRepo, &stubProvisioner{}, testLogger())

	profile, err := service.GetProfile(t.Context(), "pl-001")
	if err != nil {
		t.Fatalf("get profile failed: %v", err)
	}

	if profile.Player.ID != "pl-001" {
		t.Fatalf("expected pl-001, got %s", profile.Player.ID)
	}
	if profile.GamesPlayed != 1 || len(profile.History) != 1 {
		t.Fatalf("expected one history entry, got games=%d history=%d", profile.GamesPlayed, len(profile.History))
	}
	entry := profile.History[0]
	if entry.GameID != "gm-001" || entry.Role != roster.RoleParticipant {
		t.Fatalf("unexpected history entry %+v", entry)
	}
	if entry.GameRating == nil || *entry.GameRating != grade {
		t.Fatalf("expected game rating %v in history, got %v", grade, entry.GameRating)
	}

	if _, err := service.GetProfile(t.Context(), "pl-missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
