package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/game"
	"github.com/riskibarqy/matchday/internal/domain/membership"
	"github.com/riskibarqy/matchday/internal/domain/player"
	"github.com/riskibarqy/matchday/internal/domain/roster"
	idgen "github.com/riskibarqy/matchday/internal/platform/id"
	"github.com/riskibarqy/matchday/internal/platform/lock"
)

// TeamPair is the two balanced sides of one game.
type TeamPair struct {
	TeamA game.Team
	TeamB game.Team
}

// RecordScoresInput is the incoming payload for score finalization.
type RecordScoresInput struct {
	GameID     string
	TeamAScore int
	TeamBScore int
}

// TeamService generates balanced teams for full rosters and finalizes game
// scores, settling attendance points exactly once per game.
type TeamService struct {
	gameRepo       game.Repository
	membershipRepo membership.Repository
	playerRepo     player.Repository
	limits         roster.Limits
	locks          *lock.Keyed
	publisher      EventPublisher
	idGen          idgen.Generator
	logger         *slog.Logger
	now            func() time.Time
}

func NewTeamService(
	gameRepo game.Repository,
	membershipRepo membership.Repository,
	playerRepo player.Repository,
	limits roster.Limits,
	locks *lock.Keyed,
	publisher EventPublisher,
	idGen idgen.Generator,
	logger *slog.Logger,
) *TeamService {
	if logger == nil {
		logger = slog.Default()
	}
	if locks == nil {
		locks = lock.NewKeyed()
	}
	if publisher == nil {
		publisher = NopPublisher{}
	}

	return &TeamService{
		gameRepo:       gameRepo,
		membershipRepo: membershipRepo,
		playerRepo:     playerRepo,
		limits:         limits,
		locks:          locks,
		publisher:      publisher,
		idGen:          idGen,
		logger:         logger,
		now:            time.Now,
	}
}

// GenerateTeams balances the full participant pool into two sides and
// replaces any previously generated teams in one atomic step. It requires
// the roster to hold the full participant count; the join cap guarantees it
// can never exceed that.
func (s *TeamService) GenerateTeams(ctx context.Context, gameID string) (TeamPair, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.GenerateTeams")
	defer span.End()

	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return TeamPair{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}

	release := s.locks.Acquire(gameID)
	defer release()

	g, exists, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return TeamPair{}, fmt.Errorf("get game: %w", err)
	}
	if !exists {
		return TeamPair{}, fmt.Errorf("%w: game %s", ErrNotFound, gameID)
	}
	if g.Status != game.StatusUpcoming {
		return TeamPair{}, fmt.Errorf("%w: %w: cannot generate teams for a %s game", ErrConflict, ErrGameNotUpcoming, g.Status)
	}

	members, err := s.membershipRepo.ListByGame(ctx, gameID)
	if err != nil {
		return TeamPair{}, fmt.Errorf("list game roster: %w", err)
	}

	participants := make([]membership.Membership, 0, s.limits.MaxParticipants)
	for _, m := range members {
		if m.Role == roster.RoleParticipant {
			participants = append(participants, m)
		}
	}
	if len(participants) < s.limits.MaxParticipants {
		return TeamPair{}, fmt.Errorf("%w: %w: need %d, have %d",
			ErrConflict, ErrNotEnoughParticipants, s.limits.MaxParticipants, len(participants))
	}

	playerIDs := make([]string, 0, len(participants))
	for _, m := range participants {
		playerIDs = append(playerIDs, m.PlayerID)
	}
	players, err := s.playerRepo.GetByIDs(ctx, playerIDs)
	if err != nil {
		return TeamPair{}, fmt.Errorf("get participants: %w", err)
	}
	if len(players) != len(playerIDs) {
		return TeamPair{}, fmt.Errorf("%w: some participants are missing player records", ErrNotFound)
	}

	playerByID := make(map[string]player.Player, len(players))
	for _, p := range players {
		playerByID[p.ID] = p
	}

	// Rated pool follows join order so timestamp-equal ratings balance the
	// same way on every run.
	pool := make([]roster.RatedPlayer, 0, len(participants))
	for _, m := range participants {
		p := playerByID[m.PlayerID]
		pool = append(pool, roster.RatedPlayer{ID: p.ID, Name: p.Name, Rating: p.Rating})
	}

	split, err := roster.BalanceTeams(pool)
	if err != nil {
		return TeamPair{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	pair, err := s.buildTeams(gameID, split)
	if err != nil {
		return TeamPair{}, err
	}

	if err := s.gameRepo.ReplaceTeams(ctx, gameID, []game.Team{pair.TeamA, pair.TeamB}); err != nil {
		return TeamPair{}, fmt.Errorf("replace teams: %w", err)
	}

	s.publish(ctx, Event{Type: EventTeamsGenerated, GameID: gameID})

	return pair, nil
}

// RecordScores stores the final result, flips the game to completed and
// applies attendance points, all in one repository transaction. A game that
// is already completed is rejected, never re-settled.
func (s *TeamService) RecordScores(ctx context.Context, input RecordScoresInput) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.RecordScores")
	defer span.End()

	input.GameID = strings.TrimSpace(input.GameID)
	if input.GameID == "" {
		return fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}
	if input.TeamAScore < 0 || input.TeamBScore < 0 {
		return fmt.Errorf("%w: scores must not be negative", ErrInvalidInput)
	}

	release := s.locks.Acquire(input.GameID)
	defer release()

	g, exists, err := s.gameRepo.GetByID(ctx, input.GameID)
	if err != nil {
		return fmt.Errorf("get game: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: game %s", ErrNotFound, input.GameID)
	}
	switch g.Status {
	case game.StatusCompleted:
		return fmt.Errorf("%w: %w", ErrConflict, ErrGameAlreadySettled)
	case game.StatusCancelled:
		return fmt.Errorf("%w: %w: cannot record scores for a cancelled game", ErrConflict, ErrGameNotUpcoming)
	}

	teams, err := s.gameRepo.ListTeams(ctx, input.GameID)
	if err != nil {
		return fmt.Errorf("list teams: %w", err)
	}
	if len(teams) != 2 {
		return fmt.Errorf("%w: %w", ErrConflict, ErrTeamsNotGenerated)
	}

	members, err := s.membershipRepo.ListByGame(ctx, input.GameID)
	if err != nil {
		return fmt.Errorf("list game roster: %w", err)
	}

	settled := make([]roster.Member, 0, len(members))
	for _, m := range members {
		settled = append(settled, roster.Member{PlayerID: m.PlayerID, Role: m.Role})
	}
	deltas := roster.SettlePoints(settled)

	applied, err := s.gameRepo.Finalize(ctx, input.GameID, game.FinalScores{
		TeamA: input.TeamAScore,
		TeamB: input.TeamBScore,
	}, deltas)
	if err != nil {
		return fmt.Errorf("finalize game: %w", err)
	}
	if !applied {
		return fmt.Errorf("%w: %w", ErrConflict, ErrGameAlreadySettled)
	}

	s.publish(ctx, Event{Type: EventGameSettled, GameID: input.GameID})

	return nil
}

func (s *TeamService) buildTeams(gameID string, split roster.TeamSplit) (TeamPair, error) {
	now := s.now().UTC()

	idA, err := s.idGen.NewID()
	if err != nil {
		return TeamPair{}, fmt.Errorf("generate team id: %w", err)
	}
	idB, err := s.idGen.NewID()
	if err != nil {
		return TeamPair{}, fmt.Errorf("generate team id: %w", err)
	}

	return TeamPair{
		TeamA: game.Team{
			ID:          idA,
			GameID:      gameID,
			Label:       game.TeamLabelA,
			TotalRating: split.TotalA,
			PlayerIDs:   ratedIDs(split.SideA),
			CreatedAt:   now,
		},
		TeamB: game.Team{
			ID:          idB,
			GameID:      gameID,
			Label:       game.TeamLabelB,
			TotalRating: split.TotalB,
			PlayerIDs:   ratedIDs(split.SideB),
			CreatedAt:   now,
		},
	}, nil
}

func (s *TeamService) publish(ctx context.Context, event Event) {
	if s.publisher == nil {
		return
	}
	event.OccurredAt = s.now().UTC()
	if err := s.publisher.Publish(ctx, []Event{event}); err != nil {
		s.logger.WarnContext(ctx, "publish team event failed",
			"event_type", string(event.Type),
			"game_id", event.GameID,
			"error", err,
		)
	}
}

func ratedIDs(players []roster.RatedPlayer) []string {
	ids := make([]string, 0, len(players))
	for _, p := range players {
		ids = append(ids, p.ID)
	}
	return ids
}
