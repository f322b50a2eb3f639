package httpapi

import (
	"fmt"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/matchday/internal/usecase"
)

type recomputeRequest struct {
	Workers int  `json:"workers" validate:"omitempty,min=1,max=64"`
	DryRun  bool `json:"dryRun"`
}

type recomputeRowDTO struct {
	PlayerID   string  `json:"playerId"`
	Rating     float64 `json:"rating"`
	Points     float64 `json:"points"`
	Changed    bool    `json:"changed"`
	Err        string  `json:"error,omitempty"`
	DurationMs int64   `json:"durationMs"`
}

type recomputeResultDTO struct {
	Players int               `json:"players"`
	Updated int               `json:"updated"`
	Failed  int               `json:"failed"`
	DryRun  bool              `json:"dryRun"`
	Results []recomputeRowDTO `json:"results"`
}

func (h *Handler) RecomputeAggregates(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecomputeAggregates")
	defer span.End()

	// The body is optional; an empty one runs with defaults.
	var req recomputeRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil && err != io.EOF {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.recomputeService.RecomputeAggregates(ctx, usecase.RecomputeInput{
		Workers: req.Workers,
		DryRun:  req.DryRun,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "recompute aggregates failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	rows := make([]recomputeRowDTO, 0, len(result.Results))
	for _, row := range result.Results {
		rows = append(rows, recomputeRowDTO{
			PlayerID:   row.PlayerID,
			Rating:     row.Rating,
			Points:     row.Points,
			Changed:    row.Changed,
			Err:        row.Err,
			DurationMs: row.DurationMs,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, recomputeResultDTO{
		Players: result.Players,
		Updated: result.Updated,
		Failed:  result.Failed,
		DryRun:  req.DryRun,
		Results: rows,
	})
}
