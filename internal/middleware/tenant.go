package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dmolina/building-table-reservation/internal/tenant"
)

// TenantResolver resolves the :building path parameter against the
// registry and stores the resolved tenant under "building".  An unknown
// building is terminal: 404, never retried.  Runs before authentication so
// even the login route knows which building it is talking to.
func TenantResolver(reg *tenant.Registry) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			t, err := reg.Resolve(c.Param("building"))
			if err != nil {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown building"})
			}
			c.Set("building", t)
			return next(c)
		}
	}
}

// CurrentBuilding extracts the tenant stored by TenantResolver.
func CurrentBuilding(c echo.Context) (*tenant.Tenant, bool) {
	t, ok := c.Get("building").(*tenant.Tenant)
	return t, ok
}

// TenantGuard rejects sessions minted for a different building than the
// one addressed by the request path.  A valid token for building A must
// never authorize anything in building B, regardless of role; that failure
// is a 403, distinct from the 401s produced by JWTAuth.  Must run after
// TenantResolver and JWTAuth.
func TenantGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			t, ok := CurrentBuilding(c)
			if !ok {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown building"})
			}
			id, ok := CurrentIdentity(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			if tenant.Normalize(id.Building) != t.ID {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
