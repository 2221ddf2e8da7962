package repository

import (
	"context"
	"database/sql"

	"github.com/dmolina/building-table-reservation/internal/database"
	"github.com/dmolina/building-table-reservation/internal/model"
)

// TableRepo reads the reservable tables ("mesas") of a building.  Tables
// are reference data seeded per building; this service never writes them.
type TableRepo struct{ pools *database.Pools }

func NewTableRepo(pools *database.Pools) *TableRepo { return &TableRepo{pools: pools} }

// List returns every table of the building ordered by table number.
func (r *TableRepo) List(ctx context.Context, building string) ([]model.Table, error) {
	out := make([]model.Table, 0)
	err := database.WithRetry(ctx, retryAttempts, retryBaseDelay, func(ctx context.Context) error {
		return r.pools.WithConn(ctx, building, func(ctx context.Context, conn *sql.Conn) error {
			rows, err := conn.QueryContext(ctx,
				"SELECT id, table_number, capacity FROM tables ORDER BY table_number")
			if err != nil {
				return err
			}
			defer rows.Close()
			out = out[:0] // a retried attempt must not append twice
			for rows.Next() {
				var t model.Table
				if err := rows.Scan(&t.ID, &t.Number, &t.Capacity); err != nil {
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
