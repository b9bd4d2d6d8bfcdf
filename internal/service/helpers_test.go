package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/todo-api/internal/platform/database"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/service"
	"github.com/phrazzld/todo-api/internal/service/auth"
	"github.com/phrazzld/todo-api/internal/testdb"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// testClock is a settable clock shared by the JWT service and the auth service.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordedEvent struct{ event, outcome string }

type eventRecorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *eventRecorder) RecordAuthEvent(event, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{event, outcome})
}

func (r *eventRecorder) all() []recordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recordedEvent(nil), r.events...)
}

type fixture struct {
	db       *database.DB
	clock    *testClock
	events   *eventRecorder
	jwt      auth.JWTService
	hasher   auth.PasswordHasher
	auth     service.AuthService
	resolver service.IdentityResolver
	tasks    service.TaskService
	logs     *logger.TestLogBuffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := database.Wrap(testdb.NewSQLite(t), database.DriverSQLite)
	clock := &testClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	events := &eventRecorder{}
	log, logs := logger.NewTestLogger()

	jwtSvc := auth.NewTestJWTService(clock.Now)
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)

	authSvc, err := service.NewAuthService(db.DB, db.Users, db.RefreshTokens, jwtSvc, hasher, log,
		service.WithAuthClock(clock.Now),
		service.WithAuthEvents(events),
	)
	require.NoError(t, err)

	taskSvc, err := service.NewTaskService(db.DB, db.Tasks, log)
	require.NoError(t, err)

	return &fixture{
		db:       db,
		clock:    clock,
		events:   events,
		jwt:      jwtSvc,
		hasher:   hasher,
		auth:     authSvc,
		resolver: service.NewIdentityResolver(db.Users, jwtSvc, events, log),
		tasks:    taskSvc,
		logs:     logs,
	}
}

func (f *fixture) register(t *testing.T, username string) int64 {
	t.Helper()
	user, err := f.auth.Register(context.Background(), username, "password123")
	require.NoError(t, err)
	return user.ID
}

func (f *fixture) login(t *testing.T, username string) *service.TokenPair {
	t.Helper()
	pair, err := f.auth.Login(context.Background(), username, "password123")
	require.NoError(t, err)
	return pair
}
