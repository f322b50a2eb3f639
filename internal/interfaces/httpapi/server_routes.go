package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/auth/register", handler.Register)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/players", RequireAuth(verifier, http.HandlerFunc(handler.Leaderboard)))
	mux.Handle("GET /v1/players/{playerID}", RequireAuth(verifier, http.HandlerFunc(handler.GetPlayerProfile)))
	mux.Handle("GET /v1/games", RequireAuth(verifier, http.HandlerFunc(handler.ListGames)))
	mux.Handle("GET /v1/games/{gameID}", RequireAuth(verifier, http.HandlerFunc(handler.GetGameDetail)))
	mux.Handle("POST /v1/games/{gameID}/join", RequireAuth(verifier, http.HandlerFunc(handler.JoinGame)))
	mux.Handle("DELETE /v1/games/{gameID}/join", RequireAuth(verifier, http.HandlerFunc(handler.LeaveGame)))
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/games", RequireAuth(verifier, RequireAdmin(http.HandlerFunc(handler.CreateGame))))
	mux.Handle("PATCH /v1/games/{gameID}", RequireAuth(verifier, RequireAdmin(http.HandlerFunc(handler.UpdateGame))))
	mux.Handle("DELETE /v1/games/{gameID}", RequireAuth(verifier, RequireAdmin(http.HandlerFunc(handler.DeleteGame))))
	mux.Handle("POST /v1/games/{gameID}/teams", RequireAuth(verifier, RequireAdmin(http.HandlerFunc(handler.GenerateTeams))))
	mux.Handle("PATCH /v1/games/{gameID}/scores", RequireAuth(verifier, RequireAdmin(http.HandlerFunc(handler.RecordScores))))
	mux.Handle("POST /v1/games/{gameID}/ratings", RequireAuth(verifier, RequireAdmin(http.HandlerFunc(handler.SubmitRatings))))
	mux.Handle("POST /v1/admin/recompute", RequireAuth(verifier, RequireAdmin(http.HandlerFunc(handler.RecomputeAggregates))))
}
