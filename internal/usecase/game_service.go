package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/riskibarqy/matchday/internal/domain/game"
	"github.com/riskibarqy/matchday/internal/domain/membership"
	"github.com/riskibarqy/matchday/internal/domain/player"
	"github.com/riskibarqy/matchday/internal/domain/roster"
	idgen "github.com/riskibarqy/matchday/internal/platform/id"
)

// CreateGameInput is the incoming payload for scheduling a game.
type CreateGameInput struct {
	Kickoff  time.Time
	Location string
}

// UpdateGameInput patches a scheduled game. Nil fields are left untouched.
// Status may only move to cancelled here; completion happens exclusively
// through score finalization.
type UpdateGameInput struct {
	GameID   string
	Kickoff  *time.Time
	Location *string
	Status   *game.Status
}

// ListGamesInput narrows the game listing; an empty status returns all.
type ListGamesInput struct {
	Status string
}

// RosterEntry is one roster line in a game detail view.
type RosterEntry struct {
	PlayerID   string
	Name       string
	Rating     float64
	Points     float64
	GameRating *float64
	JoinedAt   time.Time
}

// TeamView is one balanced side with resolved player names.
type TeamView struct {
	ID          string
	Label       string
	TotalRating float64
	Score       *int
	Players     []RosterEntry
}

// GameDetail aggregates one game with its roster and teams. Teams is nil
// until they have been generated.
type GameDetail struct {
	Game         game.Game
	Participants []RosterEntry
	Reserves     []RosterEntry
	Teams        []TeamView
}

// GameService manages the game lifecycle around the roster engine: create,
// update, cancel, delete, list and the aggregated detail view.
type GameService struct {
	gameRepo       game.Repository
	membershipRepo membership.Repository
	playerRepo     player.Repository
	idGen          idgen.Generator
	logger         *slog.Logger
	now            func() time.Time
}

func NewGameService(
	gameRepo game.Repository,
	membershipRepo membership.Repository,
	playerRepo player.Repository,
	idGen idgen.Generator,
	logger *slog.Logger,
) *GameService {
	if logger == nil {
		logger = slog.Default()
	}

	return &GameService{
		gameRepo:       gameRepo,
		membershipRepo: membershipRepo,
		playerRepo:     playerRepo,
		idGen:          idGen,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *GameService) Create(ctx context.Context, input CreateGameInput) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.Create")
	defer span.End()

	input.Location = strings.TrimSpace(input.Location)
	if input.Kickoff.IsZero() {
		return game.Game{}, fmt.Errorf("%w: kickoff is required", ErrInvalidInput)
	}
	if input.Location == "" {
		return game.Game{}, fmt.Errorf("%w: location is required", ErrInvalidInput)
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return game.Game{}, fmt.Errorf("generate game id: %w", err)
	}

	now := s.now().UTC()
	g := game.Game{
		ID:        id,
		Kickoff:   input.Kickoff.UTC(),
		Location:  input.Location,
		Status:    game.StatusUpcoming,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := g.Validate(); err != nil {
		return game.Game{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.gameRepo.Create(ctx, g); err != nil {
		return game.Game{}, fmt.Errorf("create game: %w", err)
	}

	return g, nil
}

func (s *GameService) Update(ctx context.Context, input UpdateGameInput) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.Update")
	defer span.End()

	input.GameID = strings.TrimSpace(input.GameID)
	if input.GameID == "" {
		return game.Game{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}

	g, exists, err := s.gameRepo.GetByID(ctx, input.GameID)
	if err != nil {
		return game.Game{}, fmt.Errorf("get game: %w", err)
	}
	if !exists {
		return game.Game{}, fmt.Errorf("%w: game %s", ErrNotFound, input.GameID)
	}

	if input.Kickoff != nil {
		g.Kickoff = input.Kickoff.UTC()
	}
	if input.Location != nil {
		g.Location = strings.TrimSpace(*input.Location)
	}
	if input.Status != nil && *input.Status != g.Status {
		if err := validateStatusChange(g.Status, *input.Status); err != nil {
			return game.Game{}, err
		}
		// Cancellation keeps every membership in place; only the game
		// state changes.
		g.Status = *input.Status
	}
	g.UpdatedAt = s.now().UTC()

	if err := g.Validate(); err != nil {
		return game.Game{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.gameRepo.Update(ctx, g); err != nil {
		return game.Game{}, fmt.Errorf("update game: %w", err)
	}

	return g, nil
}

func (s *GameService) Delete(ctx context.Context, gameID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.Delete")
	defer span.End()

	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}

	_, exists, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return fmt.Errorf("get game: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: game %s", ErrNotFound, gameID)
	}

	if err := s.gameRepo.Delete(ctx, gameID); err != nil {
		return fmt.Errorf("delete game: %w", err)
	}

	return nil
}

func (s *GameService) List(ctx context.Context, input ListGamesInput) ([]game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.List")
	defer span.End()

	var filter game.ListFilter
	if status := strings.TrimSpace(input.Status); status != "" {
		parsed := game.Status(status)
		if _, ok := game.AllStatuses[parsed]; !ok {
			return nil, fmt.Errorf("%w: invalid game status %q", ErrInvalidInput, status)
		}
		filter.Status = parsed
	}

	games, err := s.gameRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}

	return games, nil
}

// Detail assembles the full view of one game. Roster and teams load
// concurrently; player records resolve afterwards in one batch.
func (s *GameService) Detail(ctx context.Context, gameID string) (GameDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.Detail")
	defer span.End()

	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return GameDetail{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}

	g, exists, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return GameDetail{}, fmt.Errorf("get game: %w", err)
	}
	if !exists {
		return GameDetail{}, fmt.Errorf("%w: game %s", ErrNotFound, gameID)
	}

	var (
		members    []membership.Membership
		teams      []game.Team
		membersErr error
		teamsErr   error
	)

	var wg conc.WaitGroup
	wg.Go(func() {
		members, membersErr = s.membershipRepo.ListByGame(ctx, gameID)
	})
	wg.Go(func() {
		teams, teamsErr = s.gameRepo.ListTeams(ctx, gameID)
	})
	wg.Wait()

	if membersErr != nil {
		return GameDetail{}, fmt.Errorf("list game roster: %w", membersErr)
	}
	if teamsErr != nil {
		return GameDetail{}, fmt.Errorf("list teams: %w", teamsErr)
	}

	playerIDs := make([]string, 0, len(members))
	for _, m := range members {
		playerIDs = append(playerIDs, m.PlayerID)
	}
	players, err := s.playerRepo.GetByIDs(ctx, playerIDs)
	if err != nil {
		return GameDetail{}, fmt.Errorf("get roster players: %w", err)
	}
	playerByID := make(map[string]player.Player, len(players))
	for _, p := range players {
		playerByID[p.ID] = p
	}

	detail := GameDetail{Game: g}
	entryByPlayer := make(map[string]RosterEntry, len(members))
	for _, m := range members {
		entry := rosterEntry(m, playerByID[m.PlayerID])
		entryByPlayer[m.PlayerID] = entry
		switch m.Role {
		case roster.RoleParticipant:
			detail.Participants = append(detail.Participants, entry)
		case roster.RoleReserve:
			detail.Reserves = append(detail.Reserves, entry)
		}
	}

	for _, t := range teams {
		view := TeamView{
			ID:          t.ID,
			Label:       t.Label,
			TotalRating: t.TotalRating,
			Score:       t.Score,
		}
		for _, playerID := range t.PlayerIDs {
			view.Players = append(view.Players, entryByPlayer[playerID])
		}
		detail.Teams = append(detail.Teams, view)
	}

	return detail, nil
}

func validateStatusChange(from, to game.Status) error {
	if _, ok := game.AllStatuses[to]; !ok {
		return fmt.Errorf("%w: invalid game status %q", ErrInvalidInput, to)
	}
	if to == game.StatusCompleted {
		return fmt.Errorf("%w: games complete through score finalization only", ErrInvalidInput)
	}
	if from != game.StatusUpcoming {
		return fmt.Errorf("%w: %w: a %s game cannot change status", ErrConflict, ErrGameNotUpcoming, from)
	}
	return nil
}

func rosterEntry(m membership.Membership, p player.Player) RosterEntry {
	return RosterEntry{
		PlayerID:   m.PlayerID,
		Name:       p.Name,
		Rating:     p.Rating,
		Points:     p.Points,
		GameRating: m.Rating,
		JoinedAt:   m.JoinedAt,
	}
}
