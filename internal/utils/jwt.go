package utils // package utils provides helpers for session token creation and verification

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// SessionToken represents a signed session token along with its expiry.
// Sessions are stateless: nothing is persisted server-side and expiry is
// the only revocation mechanism.
type SessionToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// Identity is the verified content of a session token.  The building claim
// pins the session to the building it was minted for; the authorization
// guard rejects any request addressed to a different building.
type Identity struct {
	Username string
	Building string
	Role     string
}

// Token verification failures, distinguished so handlers can log the cause.
// Both map to a 401: the client response never reveals which check failed
// beyond expired-vs-invalid.
var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// NewSessionToken builds and signs an HS256 JWT for a user.  The claims are
// sub (username), bld (building), role, exp and iat.
func NewSessionToken(secret, username, building, role string, ttlMin int) (SessionToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":  username,
		"bld":  building,
		"role": role,
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}

// ParseSessionToken verifies signature and expiry and returns the embedded
// identity.  It fails closed: any malformation, a wrong signing method, a
// missing claim or an expired token all reject the session.
func ParseSessionToken(secret, raw string) (Identity, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, ErrTokenExpired
		}
		return Identity{}, ErrTokenInvalid
	}
	if !tok.Valid {
		return Identity{}, ErrTokenInvalid
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, ErrTokenInvalid
	}
	id := Identity{}
	if id.Username, ok = claims["sub"].(string); !ok || id.Username == "" {
		return Identity{}, ErrTokenInvalid
	}
	if id.Building, ok = claims["bld"].(string); !ok || id.Building == "" {
		return Identity{}, ErrTokenInvalid
	}
	if id.Role, ok = claims["role"].(string); !ok || id.Role == "" {
		return Identity{}, ErrTokenInvalid
	}
	return id, nil
}
