package httpapi

import (
	"fmt"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/matchday/internal/domain/game"
	"github.com/riskibarqy/matchday/internal/usecase"
)

type createGameRequest struct {
	Kickoff  string `json:"kickoffAt" validate:"required"`
	Location string `json:"location" validate:"required,max=200"`
}

type updateGameRequest struct {
	Kickoff  *string `json:"kickoffAt"`
	Location *string `json:"location" validate:"omitempty,max=200"`
	Status   *string `json:"status" validate:"omitempty,oneof=upcoming completed cancelled"`
}

func (h *Handler) CreateGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateGame")
	defer span.End()

	var req createGameRequest
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

	kickoff, err := time.Parse(time.RFC3339, req.Kickoff)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: kickoffAt must be RFC 3339: %v", usecase.ErrInvalidInput, err))
		return
	}

	created, err := h.gameService.Create(ctx, usecase.CreateGameInput{
		Kickoff:  kickoff,
		Location: req.Location,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create game failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, gameToDTO(ctx, created))
}

func (h *Handler) UpdateGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateGame")
	defer span.End()

	gameID := r.PathValue("gameID")

	var req updateGameRequest
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

	input := usecase.UpdateGameInput{GameID: gameID, Location: req.Location}
	if req.Kickoff != nil {
		kickoff, err := time.Parse(time.RFC3339, *req.Kickoff)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: kickoffAt must be RFC 3339: %v", usecase.ErrInvalidInput, err))
			return
		}
		input.Kickoff = &kickoff
	}
	if req.Status != nil {
		status := game.Status(*req.Status)
		input.Status = &status
	}

	updated, err := h.gameService.Update(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "update game failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameToDTO(ctx, updated))
}

func (h *Handler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteGame")
	defer span.End()

	gameID := r.PathValue("gameID")
	if err := h.gameService.Delete(ctx, gameID); err != nil {
		h.logger.WarnContext(ctx, "delete game failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"deleted": gameID})
}

func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGames")
	defer span.End()

	games, err := h.gameService.List(ctx, usecase.ListGamesInput{
		Status: r.URL.Query().Get("status"),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "list games failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]gameDTO, 0, len(games))
	for _, g := range games {
		items = append(items, gameToDTO(ctx, g))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetGameDetail(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGameDetail")
	defer span.End()

	gameID := r.PathValue("gameID")
	detail, err := h.gameService.Detail(ctx, gameID)
	if err != nil {
		h.logger.WarnContext(ctx, "get game detail failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	dto := gameDetailDTO{
		gameDTO:      gameToDTO(ctx, detail.Game),
		Participants: make([]rosterEntryDTO, 0, len(detail.Participants)),
		Reserves:     make([]rosterEntryDTO, 0, len(detail.Reserves)),
	}
	for _, entry := range detail.Participants {
		dto.Participants = append(dto.Participants, rosterEntryToDTO(ctx, entry))
	}
	for _, entry := range detail.Reserves {
		dto.Reserves = append(dto.Reserves, rosterEntryToDTO(ctx, entry))
	}
	for _, team := range detail.Teams {
		dto.Teams = append(dto.Teams, teamViewToDTO(ctx, team))
	}

	writeSuccess(ctx, w, http.StatusOK, dto)
}
