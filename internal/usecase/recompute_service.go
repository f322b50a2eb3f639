package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/matchday/internal/domain/game"
	"github.com/riskibarqy/matchday/internal/domain/membership"
	"github.com/riskibarqy/matchday/internal/domain/player"
	"github.com/riskibarqy/matchday/internal/domain/roster"
)

const defaultRecomputeWorkers = 8

// RecomputeInput tunes a bulk re-aggregation run. DryRun reports what would
// change without writing anything.
type RecomputeInput struct {
	Workers int
	DryRun  bool
}

// RecomputePlayerResult is the outcome for one player in a recompute run.
type RecomputePlayerResult struct {
	PlayerID   string
	Rating     float64
	Points     float64
	Changed    bool
	Err        string
	DurationMs int64
}

// RecomputeResult summarizes one recompute run.
type RecomputeResult struct {
	Players int
	Updated int
	Failed  int
	Results []RecomputePlayerResult
}

// RecomputeService rebuilds every player's derived rating and points from
// the membership ledger, fanning the per-player work out over a bounded
// worker pool. It is the manual correction tool for aggregates that drifted
// (imported data, re-graded games, removed memberships).
type RecomputeService struct {
	playerRepo     player.Repository
	membershipRepo membership.Repository
	gameRepo       game.Repository
	logger         *slog.Logger
}

func NewRecomputeService(
	playerRepo player.Repository,
	membershipRepo membership.Repository,
	gameRepo game.Repository,
	logger *slog.Logger,
) *RecomputeService {
	if logger == nil {
		logger = slog.Default()
	}

	return &RecomputeService{
		playerRepo:     playerRepo,
		membershipRepo: membershipRepo,
		gameRepo:       gameRepo,
		logger:         logger,
	}
}

// RecomputeAggregates recomputes rating (mean of all grades, default when
// ungraded) and points (sum of attendance credit over completed games) for
// every player.
func (s *RecomputeService) RecomputeAggregates(ctx context.Context, input RecomputeInput) (RecomputeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RecomputeService.RecomputeAggregates")
	defer span.End()

	workers := input.Workers
	if workers <= 0 {
		workers = defaultRecomputeWorkers
	}

	players, err := s.playerRepo.List(ctx)
	if err != nil {
		return RecomputeResult{}, fmt.Errorf("list players: %w", err)
	}

	completed, err := s.gameRepo.List(ctx, game.ListFilter{Status: game.StatusCompleted})
	if err != nil {
		return RecomputeResult{}, fmt.Errorf("list completed games: %w", err)
	}
	completedIDs := make(map[string]struct{}, len(completed))
	for _, g := range completed {
		completedIDs[g.ID] = struct{}{}
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return RecomputeResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make(chan RecomputePlayerResult, len(players))

	var updatedCount atomic.Int32
	var failedCount atomic.Int32

	var wg sync.WaitGroup
	for _, p := range players {
		p := p
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()

			start := time.Now()
			row := s.recomputePlayer(ctx, p, completedIDs, input.DryRun)
			row.DurationMs = time.Since(start).Milliseconds()

			if row.Err != "" {
				failedCount.Add(1)
			} else if row.Changed {
				updatedCount.Add(1)
			}

			results <- row
		}); err != nil {
			wg.Done()
			return RecomputeResult{}, fmt.Errorf("submit player to worker pool: %w", err)
		}
	}

	wg.Wait()
	close(results)

	result := RecomputeResult{Players: len(players)}
	for row := range results {
		result.Results = append(result.Results, row)
	}
	sort.SliceStable(result.Results, func(i, j int) bool {
		return result.Results[i].PlayerID < result.Results[j].PlayerID
	})

	result.Updated = int(updatedCount.Load())
	result.Failed = int(failedCount.Load())

	s.logger.InfoContext(ctx, "aggregate recompute finished",
		"players", result.Players,
		"updated", result.Updated,
		"failed", result.Failed,
		"dry_run", input.DryRun,
	)

	return result, nil
}

func (s *RecomputeService) recomputePlayer(ctx context.Context, p player.Player, completedIDs map[string]struct{}, dryRun bool) RecomputePlayerResult {
	row := RecomputePlayerResult{PlayerID: p.ID}

	avg, count, err := s.membershipRepo.AverageRating(ctx, p.ID)
	if err != nil {
		row.Err = err.Error()
		return row
	}
	rating := roster.DefaultPlayerRating
	if count > 0 {
		rating = avg
	}

	members, err := s.membershipRepo.ListByPlayer(ctx, p.ID)
	if err != nil {
		row.Err = err.Error()
		return row
	}

	var points float64
	for _, m := range members {
		if _, done := completedIDs[m.GameID]; !done {
			continue
		}
		switch m.Role {
		case roster.RoleParticipant:
			points += roster.ParticipantPoints
		case roster.RoleReserve:
			points += roster.ReservePoints
		}
	}

	row.Rating = rating
	row.Points = points
	row.Changed = rating != p.Rating || points != p.Points

	if dryRun || !row.Changed {
		return row
	}

	if err := s.playerRepo.UpdateAggregates(ctx, p.ID, rating, points); err != nil {
		row.Err = err.Error()
	}

	return row
}
