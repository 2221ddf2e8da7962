package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dmolina/building-table-reservation/internal/config"
	"github.com/dmolina/building-table-reservation/internal/logger"
	"github.com/dmolina/building-table-reservation/internal/middleware"
	"github.com/dmolina/building-table-reservation/internal/model"
	"github.com/dmolina/building-table-reservation/internal/repository"
	"github.com/dmolina/building-table-reservation/internal/utils"
)

// dbTimeout bounds every data store call made from a handler.
const dbTimeout = 5 * time.Second

// UserStore is the credential store as seen by the auth endpoints.
type UserStore interface {
	GetByUsername(ctx context.Context, building, username string) (model.User, error)
	Create(ctx context.Context, building, username, password, role, phone, email string, cost int) (int64, error)
}

// AuthHandler bundles dependencies for login and registration.
type AuthHandler struct {
	Cfg   config.Config
	Users UserStore
}

func NewAuthHandler(cfg config.Config, users UserStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users}
}

// ----- DTOs -----

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"` // optional; defaults to member
	Phone    string `json:"phone"`
	Email    string `json:"email"`
}

// Login verifies credentials against the building's user table and returns
// a signed session token pinned to that building.  An unknown username and
// a wrong password produce the identical response, so the endpoint cannot
// be used to enumerate usernames.
func (h *AuthHandler) Login(c echo.Context) error {
	t, ok := middleware.CurrentBuilding(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown building"})
	}
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username and password are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, t.ID, req.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return storeError(c, err)
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	tok, err := utils.NewSessionToken(h.Cfg.JWTSecret, u.Username, t.ID, u.Role, h.Cfg.TokenTTLMin)
	if err != nil {
		logger.FromEcho(c).Error("issue session token failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"token": tok.Token})
}

// Register creates a user in the building addressed by the path.  Reaching
// this handler already requires an admin session for that same building;
// the route wiring applies TenantGuard and RequireRole(admin).
func (h *AuthHandler) Register(c echo.Context) error {
	t, ok := middleware.CurrentBuilding(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown building"})
	}
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username and password are required"})
	}
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role == "" {
		role = model.RoleMember
	}
	if role != model.RoleAdmin && role != model.RoleMember {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be admin or member"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	id, err := h.Users.Create(ctx, t.ID, req.Username, req.Password, role, req.Phone, req.Email, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "username already exists"})
		}
		return storeError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"id":       id,
		"username": req.Username,
		"role":     role,
	})
}
