package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/akshaydalvi/medikart/internal/handlers"
	"github.com/akshaydalvi/medikart/internal/hash"
	authmw "github.com/akshaydalvi/medikart/internal/middleware/auth"
	"github.com/akshaydalvi/medikart/internal/models"
	"github.com/akshaydalvi/medikart/internal/session"
	"github.com/akshaydalvi/medikart/internal/validation"
)

func init() {
	hash.Cost = bcrypt.MinCost
}

type recordedEvent struct {
	Topic string
	Key   string
	Event map[string]interface{}
}

// eventRecorder stands in for the Kafka producer.
type eventRecorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *eventRecorder) PublishEvent(ctx context.Context, topic, key string, event interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, _ := event.(map[string]interface{})
	r.events = append(r.events, recordedEvent{Topic: topic, Key: key, Event: m})
	return nil
}

func (r *eventRecorder) last(t *testing.T, topic string) map[string]interface{} {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Topic == topic {
			return r.events[i].Event
		}
	}
	t.Fatalf("no event recorded on topic %s", topic)
	return nil
}

type testEnv struct {
	T        *testing.T
	E        *echo.Echo
	DB       *gorm.DB
	Sessions *session.Store
	Auth     *handlers.AuthHandler
	Orders   *handlers.OrderHandler
	Products *handlers.ProductHandler
	Feedback *handlers.FeedbackHandler
	Users    *handlers.UserAdminHandler
	Events   *eventRecorder
}

func newTestEnv(t *testing.T) *testEnv {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a single connection keeps every query on the same in-memory database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Product{},
		&models.Order{},
		&models.Feedback{},
		&models.Contact{},
	))

	e := echo.New()
	e.Validator = validation.New()

	events := &eventRecorder{}
	sessions := &session.Store{DB: db}

	return &testEnv{
		T:        t,
		E:        e,
		DB:       db,
		Sessions: sessions,
		Auth:     &handlers.AuthHandler{DB: db, Sessions: sessions, Producer: events},
		Orders:   &handlers.OrderHandler{DB: db, Producer: events},
		Products: &handlers.ProductHandler{DB: db, Producer: events},
		Feedback: &handlers.FeedbackHandler{DB: db},
		Users:    &handlers.UserAdminHandler{DB: db},
		Events:   events,
	}
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}, cookies ...*http.Cookie) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func (env *testEnv) createUser(t *testing.T, username, password string, admin bool) *models.User {
	t.Helper()

	pwHash, err := hash.HashPassword(password)
	require.NoError(t, err)

	user := models.User{
		Username:     username,
		PasswordHash: pwHash,
		Email:        username + "@example.com",
		IsAdmin:      admin,
	}
	require.NoError(t, env.DB.Create(&user).Error)
	return &user
}

func (env *testEnv) newSession(t *testing.T, user *models.User) *models.Session {
	t.Helper()

	sess, err := env.Sessions.Create(context.Background(), user)
	require.NoError(t, err)
	return sess
}

// attachSession mimics what the auth middleware does for direct handler calls.
func attachSession(c echo.Context, s *models.Session) {
	c.Set(authmw.ContextKey, s)
}

func requireHTTPError(t *testing.T, err error, code int) *echo.HTTPError {
	t.Helper()

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError, got %v", err)
	require.Equal(t, code, he.Code)
	return he
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	msg, _ := resp["message"].(string)
	return msg
}
