package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/matchday/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the starter players and games into an empty database.
// It is a no-op once any player row exists.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM players WHERE deleted_at IS NULL`); err != nil {
		return fmt.Errorf("count players for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, p := range memory.SeedPlayers() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO players (public_id, name, email, rating, points, is_admin, created_at, updated_at)
VALUES (:public_id, :name, :email, :rating, :points, :is_admin, :created_at, :updated_at)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":  p.ID,
			"name":       p.Name,
			"email":      p.Email,
			"rating":     p.Rating,
			"points":     p.Points,
			"is_admin":   p.IsAdmin,
			"created_at": p.CreatedAt,
			"updated_at": p.UpdatedAt,
		})
		if err != nil {
			return fmt.Errorf("bind seed player %s query: %w", p.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed player %s: %w", p.ID, err)
		}
	}

	for _, g := range memory.SeedGames() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO games (public_id, kickoff_at, location, status, created_at, updated_at)
VALUES (:public_id, :kickoff_at, :location, :status, :created_at, :updated_at)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":  g.ID,
			"kickoff_at": g.Kickoff,
			"location":   g.Location,
			"status":     string(g.Status),
			"created_at": g.CreatedAt,
			"updated_at": g.UpdatedAt,
		})
		if err != nil {
			return fmt.Errorf("bind seed game %s query: %w", g.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed game %s: %w", g.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit bootstrap seed: %w", err)
	}
	return nil
}
