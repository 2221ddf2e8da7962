package config // package config loads application configuration from environment variables

import (
	"log"     // log reports configuration errors and halts execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"strings" // strings splits the building list

	"github.com/dmolina/building-table-reservation/internal/tenant"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Per-building database settings live in Tenants;
// they are read once here and never re-scanned at request time.
type Config struct {
	Env         string          // application environment (e.g. "dev", "prod")
	Port        string          // HTTP port to listen on
	JWTSecret   string          // secret used to sign session tokens
	TokenTTLMin int             // session token time-to-live in minutes
	BcryptCost  int             // bcrypt cost for password hashing
	Tenants     []tenant.Tenant // one entry per configured building
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
//
// Buildings are declared explicitly in BUILDINGS as a comma separated list
// of identifiers, e.g. BUILDINGS="vow,torre_x".  Each building NAME then
// requires DB_<NAME>_HOST, DB_<NAME>_PORT, DB_<NAME>_USER and
// DB_<NAME>_NAME (password optional via DB_<NAME>_PASS).  An empty
// BUILDINGS list is fatal: the service cannot run without at least one
// building.
func Load() Config {
	return Config{
		Env:         must("APP_ENV"),
		Port:        must("APP_PORT"),
		JWTSecret:   must("JWT_SECRET"),
		TokenTTLMin: mustInt("TOKEN_TTL_MIN"),
		BcryptCost:  mustInt("BCRYPT_COST"),
		Tenants:     loadTenants(),
	}
}

// loadTenants reads the BUILDINGS list and the per-building DB_* variables.
func loadTenants() []tenant.Tenant {
	raw := must("BUILDINGS")
	var out []tenant.Tenant
	for _, name := range strings.Split(raw, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		// Env var keys use the declared spelling upper-cased with dashes
		// and spaces folded to underscores: "torre_x" -> DB_TORRE_X_HOST.
		key := strings.ToUpper(strings.NewReplacer("-", "_", " ", "_").Replace(name))
		out = append(out, tenant.Tenant{
			ID:     name,
			DBHost: must("DB_" + key + "_HOST"),
			DBPort: must("DB_" + key + "_PORT"),
			DBUser: must("DB_" + key + "_USER"),
			DBPass: os.Getenv("DB_" + key + "_PASS"), // empty allowed
			DBName: must("DB_" + key + "_NAME"),
		})
	}
	if len(out) == 0 {
		log.Fatal("BUILDINGS must list at least one building")
	}
	return out
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
