package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/riskibarqy/matchday/internal/domain/game"
	"github.com/riskibarqy/matchday/internal/domain/membership"
	"github.com/riskibarqy/matchday/internal/domain/player"
	"github.com/riskibarqy/matchday/internal/domain/roster"
)

// RatingEntry is one (player, grade) pair inside a batch submission.
type RatingEntry struct {
	PlayerID string
	Rating   float64
}

// SubmitRatingsInput is the incoming payload for grading one game.
type SubmitRatingsInput struct {
	GameID  string
	Entries []RatingEntry
}

// RatingUpdate reports the grade stored for a player and their recomputed
// overall average.
type RatingUpdate struct {
	PlayerID   string
	GameRating float64
	NewAverage float64
}

// RatingService stores per-game grades and keeps each player's overall
// rating equal to the mean of all their grades. Re-grading the same game
// shifts the mean; it never adds a second sample.
type RatingService struct {
	gameRepo       game.Repository
	membershipRepo membership.Repository
	playerRepo     player.Repository
	logger         *slog.Logger
}

func NewRatingService(
	gameRepo game.Repository,
	membershipRepo membership.Repository,
	playerRepo player.Repository,
	logger *slog.Logger,
) *RatingService {
	if logger == nil {
		logger = slog.Default()
	}

	return &RatingService{
		gameRepo:       gameRepo,
		membershipRepo: membershipRepo,
		playerRepo:     playerRepo,
		logger:         logger,
	}
}

// SubmitRatings validates the whole batch before touching anything: every
// grade must be in range and every player must hold a membership in the
// game. The overall average is recomputed from a single aggregate query,
// not accumulated incrementally.
func (s *RatingService) SubmitRatings(ctx context.Context, input SubmitRatingsInput) ([]RatingUpdate, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RatingService.SubmitRatings")
	defer span.End()

	input.GameID = strings.TrimSpace(input.GameID)
	if input.GameID == "" {
		return nil, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}
	if len(input.Entries) == 0 {
		return nil, fmt.Errorf("%w: at least one rating entry is required", ErrInvalidInput)
	}

	_, exists, err := s.gameRepo.GetByID(ctx, input.GameID)
	if err != nil {
		return nil, fmt.Errorf("get game: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: game %s", ErrNotFound, input.GameID)
	}

	ratings := make(map[string]float64, len(input.Entries))
	for _, entry := range input.Entries {
		playerID := strings.TrimSpace(entry.PlayerID)
		if playerID == "" {
			return nil, fmt.Errorf("%w: rating entry player id is required", ErrInvalidInput)
		}
		if _, dup := ratings[playerID]; dup {
			return nil, fmt.Errorf("%w: duplicate rating entry for player %s", ErrInvalidInput, playerID)
		}

		if err := roster.ValidateGameRating(entry.Rating); err != nil {
			return nil, fmt.Errorf("%w: %w: player %s rated %v", ErrInvalidInput, err, playerID, entry.Rating)
		}

		_, joined, err := s.membershipRepo.GetByPlayerAndGame(ctx, playerID, input.GameID)
		if err != nil {
			return nil, fmt.Errorf("check membership: %w", err)
		}
		if !joined {
			return nil, fmt.Errorf("%w: player %s has no membership in game %s", ErrInvalidInput, playerID, input.GameID)
		}
		ratings[playerID] = entry.Rating
	}

	// The whole grade batch lands in one repository write; averages are
	// recomputed only after it succeeded.
	if err := s.membershipRepo.UpdateRatings(ctx, input.GameID, ratings); err != nil {
		return nil, fmt.Errorf("store game ratings: %w", err)
	}

	updates := make([]RatingUpdate, 0, len(input.Entries))
	for _, entry := range input.Entries {
		playerID := strings.TrimSpace(entry.PlayerID)

		avg, count, err := s.membershipRepo.AverageRating(ctx, playerID)
		if err != nil {
			return nil, fmt.Errorf("aggregate ratings for player %s: %w", playerID, err)
		}
		if count == 0 {
			// The grade we just wrote must be visible to the aggregate.
			return nil, fmt.Errorf("aggregate ratings for player %s: no graded games found", playerID)
		}

		if err := s.playerRepo.UpdateRating(ctx, playerID, avg); err != nil {
			return nil, fmt.Errorf("update overall rating for player %s: %w", playerID, err)
		}

		updates = append(updates, RatingUpdate{
			PlayerID:   playerID,
			GameRating: entry.Rating,
			NewAverage: avg,
		})
	}

	return updates, nil
}
