package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/riskibarqy/matchday/internal/domain/game"
	"github.com/riskibarqy/matchday/internal/domain/membership"
	"github.com/riskibarqy/matchday/internal/domain/player"
	"github.com/riskibarqy/matchday/internal/domain/roster"
)

// AccountProvisioner creates the credential-holding account in the external
// account service. The core never stores passwords; it only keeps the
// profile row keyed by the returned account id.
type AccountProvisioner interface {
	ProvisionAccount(ctx context.Context, name, email, password string) (accountID string, err error)
}

// RegisterPlayerInput is the incoming payload for player registration.
type RegisterPlayerInput struct {
	Name     string
	Email    string
	Password string
}

// ProfileGame is one line of a player's game history.
type ProfileGame struct {
	GameID     string
	Kickoff    time.Time
	Location   string
	Status     game.Status
	Role       roster.Role
	GameRating *float64
}

// Profile aggregates one player's points, rating and game history.
type Profile struct {
	Player      player.Player
	GamesPlayed int
	History     []ProfileGame
}

// PlayerService handles registration, the points leaderboard and profile
// aggregates.
type PlayerService struct {
	playerRepo     player.Repository
	membershipRepo membership.Repository
	gameRepo       game.Repository
	accounts       AccountProvisioner
	logger         *slog.Logger
	now            func() time.Time
}

func NewPlayerService(
	playerRepo player.Repository,
	membershipRepo membership.Repository,
	gameRepo game.Repository,
	accounts AccountProvisioner,
	logger *slog.Logger,
) *PlayerService {
	if logger == nil {
		logger = slog.Default()
	}

	return &PlayerService{
		playerRepo:     playerRepo,
		membershipRepo: membershipRepo,
		gameRepo:       gameRepo,
		accounts:       accounts,
		logger:         logger,
		now:            time.Now,
	}
}

// Register provisions the account externally, then stores the player profile
// with zero points and the neutral default rating.
func (s *PlayerService) Register(ctx context.Context, input RegisterPlayerInput) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Register")
	defer span.End()

	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.Name == "" {
		return player.Player{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return player.Player{}, fmt.Errorf("%w: invalid email address", ErrInvalidInput)
	}
	if len(input.Password) < 8 {
		return player.Player{}, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}

	if _, taken, err := s.playerRepo.GetByEmail(ctx, input.Email); err != nil {
		return player.Player{}, fmt.Errorf("check email: %w", err)
	} else if taken {
		return player.Player{}, fmt.Errorf("%w: %w", ErrConflict, ErrEmailTaken)
	}

	accountID, err := s.accounts.ProvisionAccount(ctx, input.Name, input.Email, input.Password)
	if err != nil {
		return player.Player{}, fmt.Errorf("provision account: %w", err)
	}

	now := s.now().UTC()
	p := player.Player{
		ID:        accountID,
		Name:      input.Name,
		Email:     input.Email,
		Rating:    roster.DefaultPlayerRating,
		Points:    0,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := p.Validate(); err != nil {
		return player.Player{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.playerRepo.Create(ctx, p); err != nil {
		return player.Player{}, fmt.Errorf("create player: %w", err)
	}

	return p, nil
}

// Leaderboard lists players by points descending with their appearance
// counts, both loaded concurrently.
func (s *PlayerService) Leaderboard(ctx context.Context) ([]player.Standing, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Leaderboard")
	defer span.End()

	var (
		players    []player.Player
		counts     map[string]int
		playersErr error
		countsErr  error
	)

	var wg conc.WaitGroup
	wg.Go(func() {
		players, playersErr = s.playerRepo.List(ctx)
	})
	wg.Go(func() {
		counts, countsErr = s.membershipRepo.GamesPlayedCounts(ctx)
	})
	wg.Wait()

	if playersErr != nil {
		return nil, fmt.Errorf("list players: %w", playersErr)
	}
	if countsErr != nil {
		return nil, fmt.Errorf("count games played: %w", countsErr)
	}

	standings := make([]player.Standing, 0, len(players))
	for _, p := range players {
		standings = append(standings, player.Standing{
			Player:      p,
			GamesPlayed: counts[p.ID],
		})
	}

	return standings, nil
}

// GetProfile aggregates one player's record with their full game history.
func (s *PlayerService) GetProfile(ctx context.Context, playerID string) (Profile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.GetProfile")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return Profile{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	var (
		p          player.Player
		exists     bool
		members    []membership.Membership
		playerErr  error
		membersErr error
	)

	var wg conc.WaitGroup
	wg.Go(func() {
		p, exists, playerErr = s.playerRepo.GetByID(ctx, playerID)
	})
	wg.Go(func() {
		members, membersErr = s.membershipRepo.ListByPlayer(ctx, playerID)
	})
	wg.Wait()

	if playerErr != nil {
		return Profile{}, fmt.Errorf("get player: %w", playerErr)
	}
	if !exists {
		return Profile{}, fmt.Errorf("%w: player %s", ErrNotFound, playerID)
	}
	if membersErr != nil {
		return Profile{}, fmt.Errorf("list player memberships: %w", membersErr)
	}

	profile := Profile{
		Player:      p,
		GamesPlayed: len(members),
		History:     make([]ProfileGame, 0, len(members)),
	}

	for _, m := range members {
		g, found, err := s.gameRepo.GetByID(ctx, m.GameID)
		if err != nil {
			return Profile{}, fmt.Errorf("get game %s: %w", m.GameID, err)
		}
		if !found {
			s.logger.WarnContext(ctx, "membership references missing game",
				"game_id", m.GameID,
				"player_id", playerID,
			)
			continue
		}
		profile.History = append(profile.History, ProfileGame{
			GameID:     g.ID,
			Kickoff:    g.Kickoff,
			Location:   g.Location,
			Status:     g.Status,
			Role:       m.Role,
			GameRating: m.Rating,
		})
	}

	return profile, nil
}
