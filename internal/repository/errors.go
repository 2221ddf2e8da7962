// Package repository implements the data access layer.  Every repository
// routes through the per-building connection pools, so a statement only
// ever sees the addressed building's data.  This file defines the sentinel
// errors shared across repositories; handlers compare them with errors.Is
// and translate them into HTTP responses.
package repository

import (
	"errors"
	"time"
)

// ErrUserExists is returned when registering a username that is already
// taken within the building.  Handlers translate this into a 400.
var ErrUserExists = errors.New("username already exists")

// ErrUnknownTable is returned when a reservation references a table that
// does not exist in the addressed building.  A table ID valid in another
// building still fails with this error: cross-building references must
// never leak.
var ErrUnknownTable = errors.New("unknown table")

// ErrUnknownTurn is the turn counterpart of ErrUnknownTable.
var ErrUnknownTurn = errors.New("unknown turn")

// ErrSlotTaken is returned when the slot (table, turn, date) already holds
// a reservation.  The unique constraint in the database is the
// authoritative source of this error; the repository also pre-checks to
// produce it without burning an insert.
var ErrSlotTaken = errors.New("table already reserved for that turn")

// ErrReservationNotFound is returned when deleting a reservation that does
// not exist in the addressed building.
var ErrReservationNotFound = errors.New("reservation not found")

// Transient infrastructure failures coming out of the pool layer are
// retried here before they surface to handlers.
const (
	retryAttempts  = 3
	retryBaseDelay = 100 * time.Millisecond
)
