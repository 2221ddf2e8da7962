package repository

import (
	"context"
	"database/sql"

	"github.com/dmolina/building-table-reservation/internal/database"
	"github.com/dmolina/building-table-reservation/internal/model"
)

// TurnRepo reads the time slots ("turnos") of a building.  Like tables,
// turns are seeded reference data.
type TurnRepo struct{ pools *database.Pools }

func NewTurnRepo(pools *database.Pools) *TurnRepo { return &TurnRepo{pools: pools} }

// List returns every turn of the building.
func (r *TurnRepo) List(ctx context.Context, building string) ([]model.Turn, error) {
	out := make([]model.Turn, 0)
	err := database.WithRetry(ctx, retryAttempts, retryBaseDelay, func(ctx context.Context) error {
		return r.pools.WithConn(ctx, building, func(ctx context.Context, conn *sql.Conn) error {
			rows, err := conn.QueryContext(ctx, "SELECT id, name FROM turns ORDER BY id")
			if err != nil {
				return err
			}
			defer rows.Close()
			out = out[:0]
			for rows.Next() {
				var t model.Turn
				if err := rows.Scan(&t.ID, &t.Name); err != nil {
					return err
				}
				out = append(out, t)
			}
			return rows.Err()
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
