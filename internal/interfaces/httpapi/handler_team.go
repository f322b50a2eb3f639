package httpapi

import (
	"context"
	"fmt"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/matchday/internal/domain/game"
	"github.com/riskibarqy/matchday/internal/usecase"
)

type recordScoresRequest struct {
	TeamAScore *int `json:"teamAScore" validate:"required,min=0"`
	TeamBScore *int `json:"teamBScore" validate:"required,min=0"`
}

type generatedTeamDTO struct {
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	TotalRating float64  `json:"totalRating"`
	PlayerIDs   []string `json:"playerIds"`
}

type teamPairDTO struct {
	TeamA generatedTeamDTO `json:"teamA"`
	TeamB generatedTeamDTO `json:"teamB"`
}

func (h *Handler) GenerateTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GenerateTeams")
	defer span.End()

	gameID := r.PathValue("gameID")
	pair, err := h.teamService.GenerateTeams(ctx, gameID)
	if err != nil {
		h.logger.WarnContext(ctx, "generate teams failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamPairDTO{
		TeamA: generatedTeamToDTO(ctx, pair.TeamA),
		TeamB: generatedTeamToDTO(ctx, pair.TeamB),
	})
}

func (h *Handler) RecordScores(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordScores")
	defer span.End()

	gameID := r.PathValue("gameID")

	var req recordScoresRequest
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

	if err := h.teamService.RecordScores(ctx, usecase.RecordScoresInput{
		GameID:     gameID,
		TeamAScore: *req.TeamAScore,
		TeamBScore: *req.TeamBScore,
	}); err != nil {
		h.logger.WarnContext(ctx, "record scores failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "completed"})
}

func generatedTeamToDTO(ctx context.Context, v game.Team) generatedTeamDTO {
	ctx, span := startSpan(ctx, "httpapi.generatedTeamToDTO")
	defer span.End()

	return generatedTeamDTO{
		ID:          v.ID,
		Label:       v.Label,
		TotalRating: v.TotalRating,
		PlayerIDs:   append([]string(nil), v.PlayerIDs...),
	}
}
