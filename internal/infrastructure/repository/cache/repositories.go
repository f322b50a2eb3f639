package cache

import (
	"context"
	"sort"
	"strings"

	"github.com/riskibarqy/matchday/internal/domain/game"
	"github.com/riskibarqy/matchday/internal/domain/player"
	"github.com/riskibarqy/matchday/internal/domain/roster"
	basecache "github.com/riskibarqy/matchday/internal/platform/cache"
)

// PlayerRepository caches player reads in front of a slower store. Writes
// pass through and invalidate the affected keys.
type PlayerRepository struct {
	next  player.Repository
	cache *basecache.Store
}

func NewPlayerRepository(next player.Repository, cache *basecache.Store) *PlayerRepository {
	return &PlayerRepository{next: next, cache: cache}
}

func (r *PlayerRepository) Create(ctx context.Context, p player.Player) error {
	if err := r.next.Create(ctx, p); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "player:")
	return nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	key := "player:id:" + playerID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, playerID)
		if err != nil {
			return nil, err
		}
		return cachedPlayer{value: item, exists: exists}, nil
	})
	if err != nil {
		return player.Player{}, false, err
	}

	cached, _ := v.(cachedPlayer)
	return cached.value, cached.exists, nil
}

func (r *PlayerRepository) GetByEmail(ctx context.Context, email string) (player.Player, bool, error) {
	key := "player:email:" + strings.ToLower(email)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		return cachedPlayer{value: item, exists: exists}, nil
	})
	if err != nil {
		return player.Player{}, false, err
	}

	cached, _ := v.(cachedPlayer)
	return cached.value, cached.exists, nil
}

func (r *PlayerRepository) GetByIDs(ctx context.Context, playerIDs []string) ([]player.Player, error) {
	ids := append([]string(nil), playerIDs...)
	sort.Strings(ids)
	key := "player:ids:" + strings.Join(ids, ",")
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.GetByIDs(ctx, playerIDs)
		if err != nil {
			return nil, err
		}
		return append([]player.Player(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]player.Player)
	return append([]player.Player(nil), items...), nil
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	v, err := r.cache.GetOrLoad(ctx, "player:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]player.Player(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]player.Player)
	return append([]player.Player(nil), items...), nil
}

func (r *PlayerRepository) UpdateRating(ctx context.Context, playerID string, rating float64) error {
	if err := r.next.UpdateRating(ctx, playerID, rating); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "player:")
	return nil
}

func (r *PlayerRepository) UpdateAggregates(ctx context.Context, playerID string, rating, points float64) error {
	if err := r.next.UpdateAggregates(ctx, playerID, rating, points); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "player:")
	return nil
}

type cachedPlayer struct {
	value  player.Player
	exists bool
}

// GameRepository caches game and team reads. Finalize also drops player
// keys because it moves points.
type GameRepository struct {
	next  game.Repository
	cache *basecache.Store
}

func NewGameRepository(next game.Repository, cache *basecache.Store) *GameRepository {
	return &GameRepository{next: next, cache: cache}
}

func (r *GameRepository) Create(ctx context.Context, g game.Game) error {
	if err := r.next.Create(ctx, g); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "game:list")
	return nil
}

func (r *GameRepository) GetByID(ctx context.Context, gameID string) (game.Game, bool, error) {
	key := "game:id:" + gameID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, gameID)
		if err != nil {
			return nil, err
		}
		return cachedGame{value: item, exists: exists}, nil
	})
	if err != nil {
		return game.Game{}, false, err
	}

	cached, _ := v.(cachedGame)
	return cached.value, cached.exists, nil
}

func (r *GameRepository) List(ctx context.Context, filter game.ListFilter) ([]game.Game, error) {
	key := "game:list:" + string(filter.Status)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		return append([]game.Game(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]game.Game)
	return append([]game.Game(nil), items...), nil
}

func (r *GameRepository) Update(ctx context.Context, g game.Game) error {
	if err := r.next.Update(ctx, g); err != nil {
		return err
	}
	r.cache.Delete(ctx, "game:id:"+g.ID)
	r.cache.DeletePrefix(ctx, "game:list")
	return nil
}

func (r *GameRepository) Delete(ctx context.Context, gameID string) error {
	if err := r.next.Delete(ctx, gameID); err != nil {
		return err
	}
	r.cache.Delete(ctx, "game:id:"+gameID)
	r.cache.Delete(ctx, "game:teams:"+gameID)
	r.cache.DeletePrefix(ctx, "game:list")
	return nil
}

func (r *GameRepository) ListTeams(ctx context.Context, gameID string) ([]game.Team, error) {
	key := "game:teams:" + gameID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListTeams(ctx, gameID)
		if err != nil {
			return nil, err
		}
		out := make([]game.Team, 0, len(items))
		for _, item := range items {
			out = append(out, cloneTeam(item))
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]game.Team)
	out := make([]game.Team, 0, len(items))
	for _, item := range items {
		out = append(out, cloneTeam(item))
	}
	return out, nil
}

func (r *GameRepository) ReplaceTeams(ctx context.Context, gameID string, teams []game.Team) error {
	if err := r.next.ReplaceTeams(ctx, gameID, teams); err != nil {
		return err
	}
	r.cache.Delete(ctx, "game:teams:"+gameID)
	return nil
}

func (r *GameRepository) Finalize(ctx context.Context, gameID string, scores game.FinalScores, deltas []roster.PointsDelta) (bool, error) {
	applied, err := r.next.Finalize(ctx, gameID, scores, deltas)
	if err != nil {
		return false, err
	}
	if applied {
		r.cache.Delete(ctx, "game:id:"+gameID)
		r.cache.Delete(ctx, "game:teams:"+gameID)
		r.cache.DeletePrefix(ctx, "game:list")
		r.cache.DeletePrefix(ctx, "player:")
	}
	return applied, nil
}

type cachedGame struct {
	value  game.Game
	exists bool
}

func cloneTeam(item game.Team) game.Team {
	out := item
	out.PlayerIDs = append([]string(nil), item.PlayerIDs...)
	if item.Score != nil {
		score := *item.Score
		out.Score = &score
	}
	return out
}
