package tenant // package tenant maps building path segments to database settings

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrTenantNotFound indicates the requested building is not configured.
// Callers must treat this as terminal: retrying cannot make an unknown
// building appear.
var ErrTenantNotFound = errors.New("building not found")

// Tenant describes one building and the database that backs it.
type Tenant struct {
	ID     string // canonical identifier, already normalized
	DBHost string
	DBPort string
	DBUser string
	DBPass string
	DBName string
}

// Registry is the immutable set of configured buildings.  It is built once
// at startup and shared read-only across requests.
type Registry struct {
	tenants map[string]*Tenant
}

// Normalize folds a building identifier to its canonical form: lower-case,
// with every run of whitespace, underscores or dashes collapsed to a single
// dash.  "Torre_X", "torre x" and "TORRE-X" all normalize to "torre-x".
func Normalize(segment string) string {
	segment = strings.ToLower(strings.TrimSpace(segment))
	var b strings.Builder
	b.Grow(len(segment))
	sep := false
	for _, r := range segment {
		if r == '_' || r == '-' || r == ' ' || r == '\t' {
			sep = true
			continue
		}
		if sep && b.Len() > 0 {
			b.WriteByte('-')
		}
		sep = false
		b.WriteRune(r)
	}
	return b.String()
}

// New builds a Registry from the configured buildings.  Identifiers are
// normalized here, so two spellings that collapse to the same canonical
// name are rejected as duplicates.
func New(tenants []Tenant) (*Registry, error) {
	r := &Registry{tenants: make(map[string]*Tenant, len(tenants))}
	for _, t := range tenants {
		id := Normalize(t.ID)
		if id == "" {
			return nil, fmt.Errorf("building with empty identifier (raw %q)", t.ID)
		}
		if _, dup := r.tenants[id]; dup {
			return nil, fmt.Errorf("duplicate building %q", id)
		}
		t.ID = id
		tc := t
		r.tenants[id] = &tc
	}
	return r, nil
}

// Resolve maps a raw path segment to its building.
func (r *Registry) Resolve(segment string) (*Tenant, error) {
	t, ok := r.tenants[Normalize(segment)]
	if !ok {
		return nil, ErrTenantNotFound
	}
	return t, nil
}

// IDs returns the canonical building identifiers in sorted order.
func (r *Registry) IDs() []string {
	out := make([]string, 0, len(r.tenants))
	for id := range r.tenants {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
