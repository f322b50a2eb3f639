package httpapi

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/matchday/internal/domain/roster"
	"github.com/riskibarqy/matchday/internal/domain/user"
	"github.com/riskibarqy/matchday/internal/infrastructure/repository/memory"
	idgen "github.com/riskibarqy/matchday/internal/platform/id"
	"github.com/riskibarqy/matchday/internal/usecase"
)

type staticProvisioner struct{ accountID string }

func (p staticProvisioner) ProvisionAccount(_ context.Context, _, _, _ string) (string, error) {
	return p.accountID, nil
}

func newTestRouter(t *testing.T, principal user.Principal) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	playerRepo := memory.NewPlayerRepository(memory.SeedPlayers())
	gameRepo := memory.NewGameRepository(playerRepo)
	for _, g := range memory.SeedGames() {
		if err := gameRepo.Create(context.Background(), g); err != nil {
			t.Fatalf("seed game: %v", err)
		}
	}
	membershipRepo := memory.NewMembershipRepository()
	limits := roster.DefaultLimits()
	ids := idgen.NewRandomGenerator()

	handler := NewHandler(
		usecase.NewPlayerService(playerRepo, membershipRepo, gameRepo, staticProvisioner{accountID: "acct-100"}, logger),
		usecase.NewGameService(gameRepo, membershipRepo, playerRepo, ids, logger),
		usecase.NewRosterService(gameRepo, membershipRepo, limits, nil, nil, ids, logger),
		usecase.NewTeamService(gameRepo, membershipRepo, playerRepo, limits, nil, nil, ids, logger),
		usecase.NewRatingService(gameRepo, membershipRepo, playerRepo, logger),
		usecase.NewRecomputeService(playerRepo, membershipRepo, gameRepo, logger),
		logger,
	)

	return NewRouter(handler, stubVerifier{principal: principal}, logger, nil)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	return body
}

func TestRouter_Healthz(t *testing.T) {
	router := newTestRouter(t, user.Principal{UserID: "pl-001"})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouter_JoinAndLeaveGame(t *testing.T) {
	router := newTestRouter(t, user.Principal{UserID: "pl-001"})

	req := httptest.NewRequest(http.MethodPost, "/v1/games/"+memory.GameIDSaturdayKickabout+"/join", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 on join, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeEnvelope(t, rec)
	data, _ := body["data"].(map[string]any)
	if got, _ := data["role"].(string); got != "participant" {
		t.Fatalf("expected participant role, got %v", data["role"])
	}

	// Joining twice conflicts.
	req = httptest.NewRequest(http.MethodPost, "/v1/games/"+memory.GameIDSaturdayKickabout+"/join", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate join, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/v1/games/"+memory.GameIDSaturdayKickabout+"/join", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on leave, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_AdminRoutesRequireAdmin(t *testing.T) {
	router := newTestRouter(t, user.Principal{UserID: "pl-001"})

	req := httptest.NewRequest(http.MethodPost, "/v1/games", strings.NewReader(`{"kickoffAt":"2026-03-01T16:00:00Z","location":"Lapangan Senayan"}`))
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin create, got %d", rec.Code)
	}
}

func TestRouter_AdminCreatesGame(t *testing.T) {
	router := newTestRouter(t, user.Principal{UserID: "pl-001", IsAdmin: true})

	req := httptest.NewRequest(http.MethodPost, "/v1/games", strings.NewReader(`{"kickoffAt":"2026-03-01T16:00:00Z","location":"Lapangan Senayan"}`))
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeEnvelope(t, rec)
	data, _ := body["data"].(map[string]any)
	if got, _ := data["status"].(string); got != "upcoming" {
		t.Fatalf("expected upcoming game, got %v", data["status"])
	}
}

func TestRouter_Register(t *testing.T) {
	router := newTestRouter(t, user.Principal{})

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/register", strings.NewReader(`{"name":"New Player","email":"new@matchday.dev","password":"longenough"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeEnvelope(t, rec)
	data, _ := body["data"].(map[string]any)
	if got, _ := data["id"].(string); got != "acct-100" {
		t.Fatalf("expected account id acct-100, got %v", data["id"])
	}
	if got, _ := data["rating"].(float64); got != roster.DefaultPlayerRating {
		t.Fatalf("expected default rating, got %v", data["rating"])
	}

	// Unknown fields are rejected.
	req = httptest.NewRequest(http.MethodPost, "/v1/auth/register", strings.NewReader(`{"name":"x","email":"x@y.dev","password":"longenough","extra":true}`))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown fields, got %d", rec.Code)
	}
}

func TestRouter_LeaderboardAndGames(t *testing.T) {
	router := newTestRouter(t, user.Principal{UserID: "pl-001"})

	req := httptest.NewRequest(http.MethodGet, "/v1/players", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for leaderboard, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/games?status=upcoming", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for game list, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/games/gm-missing", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing game, got %d", rec.Code)
	}
}

func TestRouter_ReadEndpointsRequireAuth(t *testing.T) {
	router := newTestRouter(t, user.Principal{UserID: "pl-001"})

	for _, path := range []string{
		"/v1/players",
		"/v1/players/pl-001",
		"/v1/games",
		"/v1/games/" + memory.GameIDSaturdayKickabout,
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401 without token, got %d", path, rec.Code)
		}
	}
}

func TestRouter_PlayerProfileSelfOrAdmin(t *testing.T) {
	router := newTestRouter(t, user.Principal{UserID: "pl-001"})

	req := httptest.NewRequest(http.MethodGet, "/v1/players/pl-001", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for own profile, got %d: %s", rec.Code, rec.Body.String())
	}

	// Another player's profile is off limits without admin rights.
	req = httptest.NewRequest(http.MethodGet, "/v1/players/pl-002", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign profile, got %d", rec.Code)
	}

	adminRouter := newTestRouter(t, user.Principal{UserID: "pl-001", IsAdmin: true})
	req = httptest.NewRequest(http.MethodGet, "/v1/players/pl-002", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec = httptest.NewRecorder()
	adminRouter.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin reading foreign profile, got %d: %s", rec.Code, rec.Body.String())
	}
}
