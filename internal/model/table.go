package model

// Table is a reservable physical table ("mesa") in a building.  Reference
// data: rows are seeded per building and read-only from this service's
// perspective.
//
// Fields:
//
//	ID       – primary key identifier.
//	Number   – table number displayed to users.
//	Capacity – how many people the table seats.
type Table struct {
	ID       int64 `json:"id"`       // tables.id
	Number   int   `json:"number"`   // tables.table_number
	Capacity int   `json:"capacity"` // tables.capacity
}
