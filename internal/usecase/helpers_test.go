package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/game"
	"github.com/riskibarqy/matchday/internal/domain/player"
	"github.com/riskibarqy/matchday/internal/infrastructure/repository/memory"
)

type seqIDGenerator struct {
	mu     sync.Mutex
	prefix string
	next   int
}

func (g *seqIDGenerator) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("%s-%03d", g.prefix, g.next), nil
}

type capturePublisher struct {
	mu     sync.Mutex
	events []Event
}

func (p *capturePublisher) Publish(_ context.Context, events []Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *capturePublisher) typesSeen() []EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]EventType, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.Type)
	}
	return types
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testPlayers builds n players with descending ratings starting at 9.0 in
// 0.5 steps, enough spread to make balancing outcomes observable.
func testPlayers(n int) []player.Player {
	created := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	players := make([]player.Player, 0, n)
	for i := 0; i < n; i++ {
		players = append(players, player.Player{
			ID:        fmt.Sprintf("pl-%03d", i+1),
			Name:      fmt.Sprintf("Player %03d", i+1),
			Email:     fmt.Sprintf("player%03d@matchday.dev", i+1),
			Rating:    9.0 - 0.5*float64(i%14),
			CreatedAt: created,
			UpdatedAt: created,
		})
	}
	return players
}

func testUpcomingGame(id string) game.Game {
	created := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	return game.Game{
		ID:        id,
		Kickoff:   time.Date(2026, 2, 14, 16, 0, 0, 0, time.UTC),
		Location:  "Lapangan Senayan",
		Status:    game.StatusUpcoming,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func newGameRepoWith(playerRepo *memory.PlayerRepository, games ...game.Game) (*memory.GameRepository, error) {
	repo := memory.NewGameRepository(playerRepo)
	for _, g := range games {
		if err := repo.Create(context.Background(), g); err != nil {
			return nil, err
		}
	}
	return repo, nil
}
