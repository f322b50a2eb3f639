package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/matchday/internal/usecase"
)

type leaveResultDTO struct {
	Departed membershipDTO  `json:"departed"`
	Promoted *membershipDTO `json:"promoted,omitempty"`
}

func (h *Handler) JoinGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.JoinGame")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	gameID := r.PathValue("gameID")
	created, err := h.rosterService.Join(ctx, usecase.JoinGameInput{
		PlayerID: principal.UserID,
		GameID:   gameID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "join game failed", "game_id", gameID, "player_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, membershipToDTO(ctx, created))
}

func (h *Handler) LeaveGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LeaveGame")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	gameID := r.PathValue("gameID")
	result, err := h.rosterService.Leave(ctx, usecase.LeaveGameInput{
		PlayerID: principal.UserID,
		GameID:   gameID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "leave game failed", "game_id", gameID, "player_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	dto := leaveResultDTO{Departed: membershipToDTO(ctx, result.Departed)}
	if result.Promoted != nil {
		promoted := membershipToDTO(ctx, *result.Promoted)
		dto.Promoted = &promoted
	}

	writeSuccess(ctx, w, http.StatusOK, dto)
}
