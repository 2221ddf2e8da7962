package model

import "time"

// User represents an application user record as stored in a building's
// `users` table.  Usernames are unique within a building; the same
// username may exist independently in another building.  Handlers define
// separate response types, so no json tags are needed here.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Username     – unique (per building) login name.
//	PasswordHash – bcrypt hashed password.
//	Role         – "admin" or "member".
//	Phone        – optional contact phone number.
//	Email        – optional contact email.
//	CreatedAt    – timestamp of creation.
type User struct {
	ID           int64     // users.id
	Username     string    // users.username
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	Phone        string    // users.phone (empty when absent)
	Email        string    // users.email (empty when absent)
	CreatedAt    time.Time // users.created_at
}

// Roles recognised in the users.role column and in session token claims.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)
