package model

// Turn is a named recurring time slot ("turno") within a day, e.g.
// "mediodía" or "noche".  Reference data, read-only here.
//
// Fields:
//
//	ID   – primary key identifier.
//	Name – display name shown in listings.
type Turn struct {
	ID   int64  `json:"id"`   // turns.id
	Name string `json:"name"` // turns.name
}
