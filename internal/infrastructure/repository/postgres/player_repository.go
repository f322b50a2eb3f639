package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/matchday/internal/domain/player"
	qb "github.com/riskibarqy/matchday/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) Create(ctx context.Context, p player.Player) error {
	const query = `
INSERT INTO players (public_id, name, email, rating, points, is_admin, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	if _, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Email, p.Rating, p.Points, p.IsAdmin, p.CreatedAt, p.UpdatedAt,
	); err != nil {
		return fmt.Errorf("insert player: %w", err)
	}

	return nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	query, args, err := qb.Select("*").From("players").
		Where(
			qb.Eq("public_id", playerID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build get player by id query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("get player by id: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *PlayerRepository) GetByEmail(ctx context.Context, email string) (player.Player, bool, error) {
	query, args, err := qb.Select("*").From("players").
		Where(
			qb.Expr("LOWER(email) = LOWER(?)", email),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build get player by email query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("get player by email: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *PlayerRepository) GetByIDs(ctx context.Context, playerIDs []string) ([]player.Player, error) {
	if len(playerIDs) == 0 {
		return nil, nil
	}

	ids := make([]any, 0, len(playerIDs))
	for _, id := range playerIDs {
		ids = append(ids, id)
	}

	query, args, err := qb.Select("*").From("players").
		Where(
			qb.In("public_id", ids),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build get players by ids query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players by ids: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	query, args, err := qb.Select("*").From("players").
		Where(qb.IsNull("deleted_at")).
		OrderBy("points DESC", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *PlayerRepository) UpdateRating(ctx context.Context, playerID string, rating float64) error {
	const query = `
UPDATE players
SET rating = $2, updated_at = NOW()
WHERE public_id = $1
  AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, playerID, rating)
	if err != nil {
		return fmt.Errorf("update player rating: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update player rating affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("player %s not found", playerID)
	}

	return nil
}

func (r *PlayerRepository) UpdateAggregates(ctx context.Context, playerID string, rating, points float64) error {
	const query = `
UPDATE players
SET rating = $2, points = $3, updated_at = NOW()
WHERE public_id = $1
  AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, playerID, rating, points)
	if err != nil {
		return fmt.Errorf("update player aggregates: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update player aggregates affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("player %s not found", playerID)
	}

	return nil
}
