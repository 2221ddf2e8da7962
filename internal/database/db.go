package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/dmolina/building-table-reservation/internal/tenant"
)

// Pool sizing mirrors the production deployment: a small bounded pool per
// building with idle eviction, so one busy building cannot starve the
// process of file descriptors.
const (
	maxOpenConns    = 10
	maxIdleConns    = 5
	connMaxIdleTime = 30 * time.Second
	connMaxLifetime = 30 * time.Minute
)

// Open connects to a building's MySQL database and verifies the connection.
func Open(t tenant.Tenant) (*sql.DB, error) {
	auth := t.DBUser
	if t.DBPass != "" {
		auth = fmt.Sprintf("%s:%s", t.DBUser, t.DBPass)
	}
	// parseTime=true -> DATE/DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, t.DBHost, t.DBPort, t.DBName)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxIdleTime(connMaxIdleTime)
	db.SetConnMaxLifetime(connMaxLifetime)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
