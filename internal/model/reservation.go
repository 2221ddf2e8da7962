package model

// Reservation records that a user holds a table for a turn on a calendar
// day.  The slot (TableID, TurnID, Date) is unique per building: the
// database enforces at most one reservation per slot, which is the core
// invariant of the whole service.
//
// Date carries no time component and is serialized as "YYYY-MM-DD".
//
// Fields:
//
//	ID       – primary key identifier, assigned by the database.
//	TableID  – reserved table.
//	TurnID   – reserved turn.
//	Turn     – turn display name, joined in for listings.
//	Date     – calendar day of the reservation.
//	Username – user who owns the reservation.
//	Phone    – owner's phone number, joined in for listings.
type Reservation struct {
	ID       int64  `json:"id"`              // reservations.id
	TableID  int64  `json:"tableId"`         // reservations.table_id
	TurnID   int64  `json:"turnId"`          // reservations.turn_id
	Turn     string `json:"turn,omitempty"`  // turns.name
	Date     string `json:"date"`            // reservations.date (YYYY-MM-DD)
	Username string `json:"username"`        // reservations.username
	Phone    string `json:"phone,omitempty"` // users.phone
}
