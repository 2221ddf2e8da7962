package handler_test

import (
	"context"
	"database/sql"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/labstack/echo/v4"

	"github.com/dmolina/building-table-reservation/internal/cache"
	"github.com/dmolina/building-table-reservation/internal/config"
	"github.com/dmolina/building-table-reservation/internal/handler"
	"github.com/dmolina/building-table-reservation/internal/model"
	"github.com/dmolina/building-table-reservation/internal/repository"
	"github.com/dmolina/building-table-reservation/internal/router"
	"github.com/dmolina/building-table-reservation/internal/tenant"
	"github.com/dmolina/building-table-reservation/internal/utils"
)

const (
	testSecret = "handler-test-secret"
	bcryptCost = 4 // minimum cost keeps tests fast
)

// fakeStore is an in-memory stand-in for the per-building databases.  It
// enforces the same semantics the repositories get from MySQL: usernames
// unique per building, slot uniqueness under concurrent creates, reference
// checks scoped to the addressed building.
type fakeStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]map[string]model.User // building -> username -> user
	tables map[string]map[int64]model.Table
	turns  map[string]map[int64]model.Turn
	res    map[string][]model.Reservation
}

func newFakeStore(buildings ...string) *fakeStore {
	s := &fakeStore{
		users:  map[string]map[string]model.User{},
		tables: map[string]map[int64]model.Table{},
		turns:  map[string]map[int64]model.Turn{},
		res:    map[string][]model.Reservation{},
	}
	for _, b := range buildings {
		s.users[b] = map[string]model.User{}
		s.tables[b] = map[int64]model.Table{
			1: {ID: 1, Number: 1, Capacity: 4},
			2: {ID: 2, Number: 2, Capacity: 6},
		}
		s.turns[b] = map[int64]model.Turn{
			1: {ID: 1, Name: "mediodía"},
			2: {ID: 2, Name: "noche"},
		}
		s.res[b] = []model.Reservation{}
	}
	return s
}

func (s *fakeStore) seedUser(building, username, password, role, phone string) {
	hash, _ := utils.HashPassword(password, bcryptCost)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.users[building][username] = model.User{
		ID: s.nextID, Username: username, PasswordHash: hash, Role: role, Phone: phone,
	}
}

func (s *fakeStore) GetByUsername(_ context.Context, building, username string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[building][username]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (s *fakeStore) Create(_ context.Context, building, username, password, role, phone, _ string, cost int) (int64, error) {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.users[building][username]; dup {
		return 0, repository.ErrUserExists
	}
	s.nextID++
	s.users[building][username] = model.User{
		ID: s.nextID, Username: username, PasswordHash: hash, Role: role, Phone: phone,
	}
	return s.nextID, nil
}

func (s *fakeStore) List(_ context.Context, building string) ([]model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Reservation, len(s.res[building]))
	copy(out, s.res[building])
	return out, nil
}

// ListTables and ListTurns are exposed through small adapters below so the
// fake can serve every store interface despite the clashing List names.
func (s *fakeStore) listTables(building string) []model.Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Table, 0, len(s.tables[building]))
	for _, t := range s.tables[building] {
		out = append(out, t)
	}
	return out
}

func (s *fakeStore) listTurns(building string) []model.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Turn, 0, len(s.turns[building]))
	for _, t := range s.turns[building] {
		out = append(out, t)
	}
	return out
}

func (s *fakeStore) CreateReservation(building, username string, tableID, turnID int64, date string) (model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tables[building][tableID]; !ok {
		return model.Reservation{}, repository.ErrUnknownTable
	}
	turn, ok := s.turns[building][turnID]
	if !ok {
		return model.Reservation{}, repository.ErrUnknownTurn
	}
	for _, r := range s.res[building] {
		if r.TableID == tableID && r.TurnID == turnID && r.Date == date {
			return model.Reservation{}, repository.ErrSlotTaken
		}
	}
	s.nextID++
	res := model.Reservation{
		ID: s.nextID, TableID: tableID, TurnID: turnID, Turn: turn.Name,
		Date: date, Username: username,
	}
	s.res[building] = append(s.res[building], res)
	return res, nil
}

func (s *fakeStore) Delete(_ context.Context, building string, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.res[building] {
		if r.ID == id {
			s.res[building] = append(s.res[building][:i], s.res[building][i+1:]...)
			return nil
		}
	}
	return repository.ErrReservationNotFound
}

// Adapters for the interfaces whose method names collide on fakeStore.
type reservationStore struct{ s *fakeStore }

func (a reservationStore) List(ctx context.Context, b string) ([]model.Reservation, error) {
	return a.s.List(ctx, b)
}
func (a reservationStore) Create(_ context.Context, b, u string, tableID, turnID int64, date string) (model.Reservation, error) {
	return a.s.CreateReservation(b, u, tableID, turnID, date)
}
func (a reservationStore) Delete(ctx context.Context, b string, id int64) error {
	return a.s.Delete(ctx, b, id)
}

type tableStore struct{ s *fakeStore }

func (a tableStore) List(_ context.Context, b string) ([]model.Table, error) {
	return a.s.listTables(b), nil
}

type turnStore struct{ s *fakeStore }

func (a turnStore) List(_ context.Context, b string) ([]model.Turn, error) {
	return a.s.listTurns(b), nil
}

// newApp wires the real router, middleware and cache around the fake store.
func newApp(c *qt.C, store *fakeStore) *echo.Echo {
	cfg := config.Config{
		Env: "test", JWTSecret: testSecret, TokenTTLMin: 60, BcryptCost: bcryptCost,
	}
	reg, err := tenant.New([]tenant.Tenant{{ID: "vow"}, {ID: "torre_x"}})
	c.Assert(err, qt.IsNil)

	listingCache := cache.New(config.CacheConfig{Enabled: true, TTL: time.Minute, Prefix: "reservations"}, nil)

	e := echo.New()
	router.Register(e, router.Deps{
		Cfg:          cfg,
		Registry:     reg,
		Auth:         handler.NewAuthHandler(cfg, store),
		Browse:       handler.NewBrowseHandler(tableStore{store}, turnStore{store}, reg),
		Reservations: handler.NewReservationHandler(reservationStore{store}, listingCache, nil),
	})
	return e
}

func doJSON(e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	var rd *strings.Reader
	if body == "" {
		rd = strings.NewReader("")
	} else {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func token(c *qt.C, username, building, role string) string {
	tok, err := utils.NewSessionToken(testSecret, username, building, role, 60)
	c.Assert(err, qt.IsNil)
	return tok.Token
}
