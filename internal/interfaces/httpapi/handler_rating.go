package httpapi

import (
	"fmt"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/matchday/internal/usecase"
)

type ratingEntryRequest struct {
	PlayerID string  `json:"playerId" validate:"required"`
	Rating   float64 `json:"rating" validate:"required,min=1,max=10"`
}

type submitRatingsRequest struct {
	Entries []ratingEntryRequest `json:"entries" validate:"required,min=1,dive"`
}

type ratingUpdateDTO struct {
	PlayerID   string  `json:"playerId"`
	GameRating float64 `json:"gameRating"`
	NewAverage float64 `json:"newAverage"`
}

func (h *Handler) SubmitRatings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitRatings")
	defer span.End()

	gameID := r.PathValue("gameID")

	var req submitRatingsRequest
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

	entries := make([]usecase.RatingEntry, 0, len(req.Entries))
	for _, entry := range req.Entries {
		entries = append(entries, usecase.RatingEntry{
			PlayerID: entry.PlayerID,
			Rating:   entry.Rating,
		})
	}

	updates, err := h.ratingService.SubmitRatings(ctx, usecase.SubmitRatingsInput{
		GameID:  gameID,
		Entries: entries,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit ratings failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]ratingUpdateDTO, 0, len(updates))
	for _, update := range updates {
		items = append(items, ratingUpdateDTO{
			PlayerID:   update.PlayerID,
			GameRating: update.GameRating,
			NewAverage: update.NewAverage,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
