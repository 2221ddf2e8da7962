package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dmolina/building-table-reservation/internal/database"
	"github.com/dmolina/building-table-reservation/internal/model"
	"github.com/dmolina/building-table-reservation/internal/utils"
)

// UserRepo persists user identities.  Every method takes the building
// identifier and runs against that building's pool.
type UserRepo struct{ pools *database.Pools }

func NewUserRepo(pools *database.Pools) *UserRepo { return &UserRepo{pools: pools} }

// GetByUsername fetches a user by normalized username.  Returns
// sql.ErrNoRows when the user does not exist in the building.
func (r *UserRepo) GetByUsername(ctx context.Context, building, username string) (model.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	var u model.User
	err := database.WithRetry(ctx, retryAttempts, retryBaseDelay, func(ctx context.Context) error {
		return r.pools.WithConn(ctx, building, func(ctx context.Context, conn *sql.Conn) error {
			return conn.QueryRowContext(ctx,
				"SELECT id, username, password_hash, role, COALESCE(phone,''), COALESCE(email,''), created_at FROM users WHERE username=? LIMIT 1",
				username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.Phone, &u.Email, &u.CreatedAt)
		})
	})
	return u, err
}

// Create inserts a user and returns its ID.  A username already present in
// the building fails with ErrUserExists; the unique index on
// users.username is what actually enforces it.
func (r *UserRepo) Create(ctx context.Context, building, username, password, role, phone, email string, cost int) (int64, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	var id int64
	err = database.WithRetry(ctx, retryAttempts, retryBaseDelay, func(ctx context.Context) error {
		return r.pools.WithConn(ctx, building, func(ctx context.Context, conn *sql.Conn) error {
			res, err := conn.ExecContext(ctx,
				"INSERT INTO users (username, password_hash, role, phone, email) VALUES (?,?,?,?,?)",
				username, hash, role, nullable(phone), nullable(email))
			if err != nil {
				if database.IsDuplicate(err) {
					return ErrUserExists
				}
				return err
			}
			id, err = res.LastInsertId()
			return err
		})
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// nullable maps "" to NULL for optional columns.
func nullable(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
