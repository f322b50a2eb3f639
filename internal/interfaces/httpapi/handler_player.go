package httpapi

import (
	"fmt"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/matchday/internal/usecase"
)

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Register")
	defer span.End()

	var req registerRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.playerService.Register(ctx, usecase.RegisterPlayerInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "register player failed", "email", req.Email, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, playerToDTO(ctx, created))
}

func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Leaderboard")
	defer span.End()

	standings, err := h.playerService.Leaderboard(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "leaderboard failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]standingDTO, 0, len(standings))
	for _, s := range standings {
		items = append(items, standingDTO{
			playerDTO:   playerToDTO(ctx, s.Player),
			GamesPlayed: s.GamesPlayed,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetPlayerProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerProfile")
	defer span.End()

	playerID := r.PathValue("playerID")

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	if !principal.IsAdmin && principal.UserID != playerID {
		writeError(ctx, w, fmt.Errorf("%w: profile access is limited to the owner", usecase.ErrForbidden))
		return
	}

	profile, err := h.playerService.GetProfile(ctx, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "get player profile failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	history := make([]profileGameDTO, 0, len(profile.History))
	for _, entry := range profile.History {
		history = append(history, profileGameDTO{
			GameID:     entry.GameID,
			Kickoff:    entry.Kickoff.UTC().Format(time.RFC3339),
			Location:   entry.Location,
			Status:     string(entry.Status),
			Role:       string(entry.Role),
			GameRating: entry.GameRating,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, profileDTO{
		playerDTO:   playerToDTO(ctx, profile.Player),
		GamesPlayed: profile.GamesPlayed,
		History:     history,
	})
}
