package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/matchday/internal/domain/game"
	"github.com/riskibarqy/matchday/internal/domain/player"
	"github.com/riskibarqy/matchday/internal/usecase"
)

type Handler struct {
	playerService    *usecase.PlayerService
	gameService      *usecase.GameService
	rosterService    *usecase.RosterService
	teamService      *usecase.TeamService
	ratingService    *usecase.RatingService
	recomputeService *usecase.RecomputeService
	logger           *slog.Logger
	validator        *validator.Validate
}

func NewHandler(
	playerService *usecase.PlayerService,
	gameService *usecase.GameService,
	rosterService *usecase.RosterService,
	teamService *usecase.TeamService,
	ratingService *usecase.RatingService,
	recomputeService *usecase.RecomputeService,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		playerService:    playerService,
		gameService:      gameService,
		rosterService:    rosterService,
		teamService:      teamService,
		ratingService:    ratingService,
		recomputeService: recomputeService,
		logger:           logger,
		validator:        validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type playerDTO struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Rating    float64 `json:"rating"`
	Points    float64 `json:"points"`
	CreatedAt string  `json:"createdAtUtc"`
}

type standingDTO struct {
	playerDTO
	GamesPlayed int `json:"gamesPlayed"`
}

type profileGameDTO struct {
	GameID     string   `json:"gameId"`
	Kickoff    string   `json:"kickoffAt"`
	Location   string   `json:"location"`
	Status     string   `json:"status"`
	Role       string   `json:"role"`
	GameRating *float64 `json:"gameRating,omitempty"`
}

type profileDTO struct {
	playerDTO
	GamesPlayed int              `json:"gamesPlayed"`
	History     []profileGameDTO `json:"history"`
}

type gameDTO struct {
	ID       string `json:"id"`
	Kickoff  string `json:"kickoffAt"`
	Location string `json:"location"`
	Status   string `json:"status"`
}

type membershipDTO struct {
	ID       string `json:"id"`
	GameID   string `json:"gameId"`
	PlayerID string `json:"playerId"`
	Role     string `json:"role"`
	JoinedAt string `json:"joinedAtUtc"`
}

type rosterEntryDTO struct {
	PlayerID   string   `json:"playerId"`
	Name       string   `json:"name"`
	Rating     float64  `json:"rating"`
	Points     float64  `json:"points"`
	GameRating *float64 `json:"gameRating,omitempty"`
	JoinedAt   string   `json:"joinedAtUtc"`
}

type teamDTO struct {
	ID          string           `json:"id"`
	Label       string           `json:"label"`
	TotalRating float64          `json:"totalRating"`
	Score       *int             `json:"score,omitempty"`
	Players     []rosterEntryDTO `json:"players"`
}

type gameDetailDTO struct {
	gameDTO
	Participants []rosterEntryDTO `json:"participants"`
	Reserves     []rosterEntryDTO `json:"reserves"`
	Teams        []teamDTO        `json:"teams,omitempty"`
}

func playerToDTO(ctx context.Context, v player.Player) playerDTO {
	ctx, span := startSpan(ctx, "httpapi.playerToDTO")
	defer span.End()

	return playerDTO{
		ID:        v.ID,
		Name:      v.Name,
		Email:     v.Email,
		Rating:    v.Rating,
		Points:    v.Points,
		CreatedAt: v.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func gameToDTO(ctx context.Context, v game.Game) gameDTO {
	ctx, span := startSpan(ctx, "httpapi.gameToDTO")
	defer span.End()

	return gameDTO{
		ID:       v.ID,
		Kickoff:  v.Kickoff.UTC().Format(time.RFC3339),
		Location: v.Location,
		Status:   string(v.Status),
	}
}

func membershipToDTO(ctx context.Context, v usecase.Membership) membershipDTO {
	ctx, span := startSpan(ctx, "httpapi.membershipToDTO")
	defer span.End()

	return membershipDTO{
		ID:       v.ID,
		GameID:   v.GameID,
		PlayerID: v.PlayerID,
		Role:     string(v.Role),
		JoinedAt: v.JoinedAt.UTC().Format(time.RFC3339),
	}
}

func rosterEntryToDTO(ctx context.Context, v usecase.RosterEntry) rosterEntryDTO {
	ctx, span := startSpan(ctx, "httpapi.rosterEntryToDTO")
	defer span.End()

	return rosterEntryDTO{
		PlayerID:   v.PlayerID,
		Name:       v.Name,
		Rating:     v.Rating,
		Points:     v.Points,
		GameRating: v.GameRating,
		JoinedAt:   v.JoinedAt.UTC().Format(time.RFC3339),
	}
}

func teamViewToDTO(ctx context.Context, v usecase.TeamView) teamDTO {
	ctx, span := startSpan(ctx, "httpapi.teamViewToDTO")
	defer span.End()

	players := make([]rosterEntryDTO, 0, len(v.Players))
	for _, entry := range v.Players {
		players = append(players, rosterEntryToDTO(ctx, entry))
	}

	return teamDTO{
		ID:          v.ID,
		Label:       v.Label,
		TotalRating: v.TotalRating,
		Score:       v.Score,
		Players:     players,
	}
}
