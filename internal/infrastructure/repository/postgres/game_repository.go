package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/matchday/internal/domain/game"
	"github.com/riskibarqy/matchday/internal/domain/roster"
	qb "github.com/riskibarqy/matchday/internal/platform/querybuilder"
)

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) Create(ctx context.Context, g game.Game) error {
	const query = `
INSERT INTO games (public_id, kickoff_at, location, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	if _, err := r.db.ExecContext(ctx, query,
		g.ID, g.Kickoff, g.Location, string(g.Status), g.CreatedAt, g.UpdatedAt,
	); err != nil {
		return fmt.Errorf("insert game: %w", err)
	}

	return nil
}

func (r *GameRepository) GetByID(ctx context.Context, gameID string) (game.Game, bool, error) {
	query, args, err := qb.Select("*").From("games").
		Where(
			qb.Eq("public_id", gameID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("build get game by id query: %w", err)
	}

	var row gameTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return game.Game{}, false, nil
		}
		return game.Game{}, false, fmt.Errorf("get game by id: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *GameRepository) List(ctx context.Context, filter game.ListFilter) ([]game.Game, error) {
	builder := qb.Select("*").From("games").
		Where(qb.IsNull("deleted_at"))
	if filter.Status != "" {
		builder = builder.Where(qb.Eq("status", string(filter.Status)))
	}
	query, args, err := builder.OrderBy("kickoff_at", "public_id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list games query: %w", err)
	}

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select games: %w", err)
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *GameRepository) Update(ctx context.Context, g game.Game) error {
	const query = `
UPDATE games
SET kickoff_at = $2, location = $3, status = $4, updated_at = $5
WHERE public_id = $1
  AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, g.ID, g.Kickoff, g.Location, string(g.Status), g.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update game: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update game affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("game %s not found", g.ID)
	}

	return nil
}

func (r *GameRepository) Delete(ctx context.Context, gameID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for game delete: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const deleteGameQuery = `
UPDATE games
SET deleted_at = NOW()
WHERE public_id = $1
  AND deleted_at IS NULL`
	result, err := tx.ExecContext(ctx, deleteGameQuery, gameID)
	if err != nil {
		return fmt.Errorf("soft delete game: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("soft delete game affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("game %s not found", gameID)
	}

	const deleteTeamsQuery = `
UPDATE teams
SET deleted_at = NOW()
WHERE game_public_id = $1
  AND deleted_at IS NULL`
	if _, err := tx.ExecContext(ctx, deleteTeamsQuery, gameID); err != nil {
		return fmt.Errorf("soft delete game teams: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit game delete: %w", err)
	}
	return nil
}

func (r *GameRepository) ListTeams(ctx context.Context, gameID string) ([]game.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(
			qb.Eq("game_public_id", gameID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("label").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}

	out := make([]game.Team, 0, len(rows))
	for _, row := range rows {
		playerIDs, err := r.listTeamPlayers(ctx, row.PublicID)
		if err != nil {
			return nil, err
		}
		out = append(out, row.toDomain(playerIDs))
	}
	return out, nil
}

func (r *GameRepository) listTeamPlayers(ctx context.Context, teamID string) ([]string, error) {
	const query = `
SELECT player_public_id
FROM team_players
WHERE team_public_id = $1
ORDER BY slot`

	var playerIDs []string
	if err := r.db.SelectContext(ctx, &playerIDs, query, teamID); err != nil {
		return nil, fmt.Errorf("select team players: %w", err)
	}
	return playerIDs, nil
}

func (r *GameRepository) ReplaceTeams(ctx context.Context, gameID string, teams []game.Team) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for team replace: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const clearPlayersQuery = `
DELETE FROM team_players
WHERE team_public_id IN (
    SELECT public_id FROM teams WHERE game_public_id = $1
)`
	if _, err := tx.ExecContext(ctx, clearPlayersQuery, gameID); err != nil {
		return fmt.Errorf("clear team players: %w", err)
	}

	const clearTeamsQuery = `DELETE FROM teams WHERE game_public_id = $1`
	if _, err := tx.ExecContext(ctx, clearTeamsQuery, gameID); err != nil {
		return fmt.Errorf("clear teams: %w", err)
	}

	const insertTeamQuery = `
INSERT INTO teams (public_id, game_public_id, label, total_rating, created_at)
VALUES ($1, $2, $3, $4, $5)`
	const insertPlayerQuery = `
INSERT INTO team_players (team_public_id, player_public_id, slot)
VALUES ($1, $2, $3)`

	for _, t := range teams {
		if _, err := tx.ExecContext(ctx, insertTeamQuery,
			t.ID, gameID, t.Label, t.TotalRating, t.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert team %s: %w", t.Label, err)
		}
		for slot, playerID := range t.PlayerIDs {
			if _, err := tx.ExecContext(ctx, insertPlayerQuery, t.ID, playerID, slot); err != nil {
				return fmt.Errorf("insert team player: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit team replace: %w", err)
	}
	return nil
}

// Finalize flips the game to completed, records the scores and applies the
// point deltas in a single transaction. The conditional status update is the
// replay guard: a second call matches zero rows and reports applied=false.
func (r *GameRepository) Finalize(ctx context.Context, gameID string, scores game.FinalScores, deltas []roster.PointsDelta) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx for game finalize: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const completeQuery = `
UPDATE games
SET status = 'completed', updated_at = NOW()
WHERE public_id = $1
  AND status = 'upcoming'
  AND deleted_at IS NULL`
	result, err := tx.ExecContext(ctx, completeQuery, gameID)
	if err != nil {
		return false, fmt.Errorf("complete game: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("complete game affected rows: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	const scoreQuery = `
UPDATE teams
SET score = $3
WHERE game_public_id = $1
  AND label = $2
  AND deleted_at IS NULL`
	if _, err := tx.ExecContext(ctx, scoreQuery, gameID, game.TeamLabelA, scores.TeamA); err != nil {
		return false, fmt.Errorf("record team a score: %w", err)
	}
	if _, err := tx.ExecContext(ctx, scoreQuery, gameID, game.TeamLabelB, scores.TeamB); err != nil {
		return false, fmt.Errorf("record team b score: %w", err)
	}

	const pointsQuery = `
UPDATE players
SET points = points + $2, updated_at = NOW()
WHERE public_id = $1
  AND deleted_at IS NULL`
	for _, delta := range deltas {
		if _, err := tx.ExecContext(ctx, pointsQuery, delta.PlayerID, delta.Delta); err != nil {
			return false, fmt.Errorf("apply points to player %s: %w", delta.PlayerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit game finalize: %w", err)
	}
	return true, nil
}
