package repository

import (
	"context"
	"database/sql"

	"github.com/dmolina/building-table-reservation/internal/database"
	"github.com/dmolina/building-table-reservation/internal/model"
)

// ReservationRepo is the reservation ledger.  It validates that a slot's
// table and turn belong to the addressed building, enforces the
// one-reservation-per-slot invariant and translates the database's
// duplicate-key rejection into ErrSlotTaken.
//
// The create path runs existence checks and insert inside one transaction
// on a single pooled connection.  Two concurrent creates for the same slot
// can both pass the pre-check; the unique constraint on
// (table_id, turn_id, date) then rejects exactly one of them.  The
// pre-check only exists so the common case fails with a clean message
// before the insert.
type ReservationRepo struct{ pools *database.Pools }

func NewReservationRepo(pools *database.Pools) *ReservationRepo {
	return &ReservationRepo{pools: pools}
}

// List returns every reservation of the building, enriched with the turn's
// display name and the owner's phone number.
func (r *ReservationRepo) List(ctx context.Context, building string) ([]model.Reservation, error) {
	const q = `SELECT r.id, r.table_id, r.turn_id, t.name,
	                  DATE_FORMAT(r.date, '%Y-%m-%d'), r.username, COALESCE(u.phone, '')
	           FROM reservations r
	           JOIN turns t ON t.id = r.turn_id
	           LEFT JOIN users u ON u.username = r.username
	           ORDER BY r.date, r.turn_id, r.table_id`
	out := make([]model.Reservation, 0)
	err := database.WithRetry(ctx, retryAttempts, retryBaseDelay, func(ctx context.Context) error {
		return r.pools.WithConn(ctx, building, func(ctx context.Context, conn *sql.Conn) error {
			rows, err := conn.QueryContext(ctx, q)
			if err != nil {
				return err
			}
			defer rows.Close()
			out = out[:0]
			for rows.Next() {
				var res model.Reservation
				if err := rows.Scan(&res.ID, &res.TableID, &res.TurnID, &res.Turn,
					&res.Date, &res.Username, &res.Phone); err != nil {
					return err
				}
				out = append(out, res)
			}
			return rows.Err()
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Create reserves the slot (tableID, turnID, date) for username.  date must
// already be validated as YYYY-MM-DD.  Fails with ErrUnknownTable or
// ErrUnknownTurn when the reference does not exist in this building, and
// with ErrSlotTaken when the slot is occupied.
func (r *ReservationRepo) Create(ctx context.Context, building, username string, tableID, turnID int64, date string) (model.Reservation, error) {
	res := model.Reservation{TableID: tableID, TurnID: turnID, Date: date, Username: username}
	err := database.WithRetry(ctx, retryAttempts, retryBaseDelay, func(ctx context.Context) error {
		return r.pools.WithConn(ctx, building, func(ctx context.Context, conn *sql.Conn) error {
			tx, err := conn.BeginTx(ctx, nil)
			if err != nil {
				return err
			}
			committed := false
			defer func() {
				if !committed {
					_ = tx.Rollback()
				}
			}()

			// Both references must exist in this building's database.
			var one int
			if err := tx.QueryRowContext(ctx,
				"SELECT 1 FROM tables WHERE id = ?", tableID).Scan(&one); err != nil {
				if err == sql.ErrNoRows {
					return ErrUnknownTable
				}
				return err
			}
			if err := tx.QueryRowContext(ctx,
				"SELECT name FROM turns WHERE id = ?", turnID).Scan(&res.Turn); err != nil {
				if err == sql.ErrNoRows {
					return ErrUnknownTurn
				}
				return err
			}

			// Pre-check for a clean conflict message.
			err = tx.QueryRowContext(ctx,
				"SELECT 1 FROM reservations WHERE table_id = ? AND turn_id = ? AND date = ?",
				tableID, turnID, date).Scan(&one)
			if err == nil {
				return ErrSlotTaken
			}
			if err != sql.ErrNoRows {
				return err
			}

			// The unique key uq_reservations_slot (table_id, turn_id, date)
			// is the real guard; a concurrent winner turns this insert
			// into a duplicate-key error.
			ins, err := tx.ExecContext(ctx,
				"INSERT INTO reservations (table_id, turn_id, date, username) VALUES (?,?,?,?)",
				tableID, turnID, date, username)
			if err != nil {
				if database.IsDuplicate(err) {
					return ErrSlotTaken
				}
				return err
			}
			id, err := ins.LastInsertId()
			if err != nil {
				return err
			}
			if err := tx.Commit(); err != nil {
				return err
			}
			committed = true
			res.ID = id
			return nil
		})
	})
	if err != nil {
		return model.Reservation{}, err
	}
	return res, nil
}

// Delete removes a reservation by ID.  Routing through the building's pool
// makes the building part of the delete predicate: an ID belonging to
// another building simply does not exist here and yields
// ErrReservationNotFound.
func (r *ReservationRepo) Delete(ctx context.Context, building string, id int64) error {
	return database.WithRetry(ctx, retryAttempts, retryBaseDelay, func(ctx context.Context) error {
		return r.pools.WithConn(ctx, building, func(ctx context.Context, conn *sql.Conn) error {
			res, err := conn.ExecContext(ctx, "DELETE FROM reservations WHERE id = ?", id)
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			if n == 0 {
				return ErrReservationNotFound
			}
			return nil
		})
	})
}
