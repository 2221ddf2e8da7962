package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/dmolina/building-table-reservation/internal/tenant"
)

// Sentinel errors for infrastructure failures.  Both are transient and
// retry-eligible; everything else coming out of a repository is terminal.
var (
	// ErrUnavailable means the building's database could not be reached
	// or the connection died mid-operation.
	ErrUnavailable = errors.New("data store unavailable")
	// ErrPoolExhausted means no connection could be acquired from the
	// building's pool within the acquisition timeout.
	ErrPoolExhausted = errors.New("connection pool exhausted")
)

// Pools owns one bounded *sql.DB pool per building.  It is created once at
// startup from the tenant registry and closed at shutdown; nothing else may
// hold a connection outside the scope of a WithConn call.
type Pools struct {
	dbs            map[string]*sql.DB
	acquireTimeout time.Duration
}

// OpenAll opens and pings one pool per configured building.  Any building
// that cannot be reached fails startup: running with a partial registry
// would turn infrastructure problems into silent 404s.
func OpenAll(tenants []tenant.Tenant) (*Pools, error) {
	p := &Pools{
		dbs:            make(map[string]*sql.DB, len(tenants)),
		acquireTimeout: 3 * time.Second,
	}
	for _, t := range tenants {
		db, err := Open(t)
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("open database for building %q: %w", t.ID, err)
		}
		p.dbs[tenant.Normalize(t.ID)] = db
	}
	return p, nil
}

// WithConn runs op with a connection scoped to the call.  The connection is
// always returned to the building's pool on exit, success or failure.
// Acquisition waits at most the pool's acquire timeout before failing with
// ErrPoolExhausted; connection-level failures inside op are wrapped in
// ErrUnavailable so callers can tell transient infrastructure trouble from
// domain errors.
func (p *Pools) WithConn(ctx context.Context, tenantID string, op func(ctx context.Context, conn *sql.Conn) error) error {
	db, ok := p.dbs[tenant.Normalize(tenantID)]
	if !ok {
		return tenant.ErrTenantNotFound
	}

	acquireCtx, cancel := context.WithTimeout(ctx, p.acquireTimeout)
	conn, err := db.Conn(acquireCtx)
	cancel()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: building %s", ErrPoolExhausted, tenantID)
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer conn.Close()

	if err := op(ctx, conn); err != nil {
		if isConnFailure(err) {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return err
	}
	return nil
}

// Close releases every pool.  Used at shutdown and on failed startup.
func (p *Pools) Close() {
	for _, db := range p.dbs {
		_ = db.Close()
	}
}

// isConnFailure reports whether err is a connection-level failure rather
// than a statement-level or domain error.
func isConnFailure(err error) bool {
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, mysql.ErrInvalidConn) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// IsTransient reports whether err is worth retrying.  Only infrastructure
// failures qualify; validation, conflict and not-found outcomes must never
// be retried.
func IsTransient(err error) bool {
	return errors.Is(err, ErrUnavailable) || errors.Is(err, ErrPoolExhausted)
}

// IsDuplicate reports whether err is a MySQL duplicate-key violation
// (error 1062).  The unique constraint on (table_id, turn_id, date) is the
// authoritative guard against double booking; this helper lets the
// repository translate it into a domain conflict.
func IsDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
