package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
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

func newServer(t *testing.T) (*echo.Echo, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
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

	sessions := &session.Store{DB: db}
	Register(e, &Deps{
		DB:       db,
		Auth:     &handlers.AuthHandler{DB: db, Sessions: sessions},
		Orders:   &handlers.OrderHandler{DB: db},
		Products: &handlers.ProductHandler{DB: db},
		Feedback: &handlers.FeedbackHandler{DB: db},
		Users:    &handlers.UserAdminHandler{DB: db},
		Search:   &handlers.SearchHandler{},
		MW:       &authmw.Middleware{Sessions: sessions},
	})

	return e, db
}

func do(t *testing.T, e *echo.Echo, method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, ck := range rec.Result().Cookies() {
		if ck.Name == session.CookieName && ck.Value != "" {
			return ck
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func seedAdmin(t *testing.T, db *gorm.DB) {
	t.Helper()

	pwHash, err := hash.HashPassword("admin-secret")
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.User{
		Username:     "akshay",
		PasswordHash: pwHash,
		Email:        "akshay@example.com",
		IsAdmin:      true,
	}).Error)
}

func TestFullCustomerFlow(t *testing.T) {
	e, _ := newServer(t)

	rec := do(t, e, http.MethodPost, "/signup", map[string]string{
		"username": "ravi",
		"password": "password",
		"email":    "ravi@example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	ck := sessionCookie(t, rec)

	rec = do(t, e, http.MethodPost, "/submit-order", map[string]interface{}{
		"cart":          []map[string]interface{}{{"item": "Aspirin", "qty": 2}},
		"address":       "12 MG Road",
		"paymentMethod": "COD",
		"totalCost":     "100",
		"totalItems":    "2",
	}, ck)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, e, http.MethodGet, "/user/orders", nil, ck)
	require.Equal(t, http.StatusOK, rec.Code)
	var orders []models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
	require.Equal(t, "Pending", orders[0].Status)

	rec = do(t, e, http.MethodGet, "/me", nil, ck)
	require.Contains(t, rec.Body.String(), "ravi")

	rec = do(t, e, http.MethodPost, "/logout", nil, ck)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, e, http.MethodGet, "/user/orders", nil, ck)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoutesForbiddenWithoutAdminSession(t *testing.T) {
	e, _ := newServer(t)

	rec := do(t, e, http.MethodPost, "/signup", map[string]string{
		"username": "ravi",
		"password": "password",
		"email":    "ravi@example.com",
	})
	userCk := sessionCookie(t, rec)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/admin/add-product"},
		{http.MethodPost, "/admin/update-product"},
		{http.MethodPost, "/admin/delete-product"},
		{http.MethodGet, "/admin/orders"},
		{http.MethodPost, "/admin/update-order-status"},
		{http.MethodPost, "/admin/delete-order"},
		{http.MethodGet, "/admin/feedbacks"},
		{http.MethodPost, "/admin/delete-feedback"},
		{http.MethodGet, "/admin/contacts"},
		{http.MethodGet, "/admin/users"},
		{http.MethodPost, "/admin/toggle-ban"},
		{http.MethodPost, "/admin/delete-user"},
		{http.MethodGet, "/api/orders"},
		{http.MethodGet, "/api/users"},
		{http.MethodGet, "/api/feedbacks"},
	}
	for _, p := range paths {
		rec := do(t, e, p.method, p.path, nil)
		require.Equal(t, http.StatusForbidden, rec.Code, "anonymous %s %s", p.method, p.path)

		rec = do(t, e, p.method, p.path, nil, userCk)
		require.Equal(t, http.StatusForbidden, rec.Code, "non-admin %s %s", p.method, p.path)
	}
}

func TestAdminFlow(t *testing.T) {
	e, db := newServer(t)
	seedAdmin(t, db)

	rec := do(t, e, http.MethodPost, "/login", map[string]string{
		"username": "akshay",
		"password": "admin-secret",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Admin login successful!")
	adminCk := sessionCookie(t, rec)

	rec = do(t, e, http.MethodPost, "/admin/add-product", map[string]interface{}{
		"name":        "Aspirin",
		"price":       50,
		"category":    "Medicine",
		"imageBase64": "data:image/jpeg;base64,/9j/stub",
	}, adminCk)
	require.Equal(t, http.StatusOK, rec.Code)

	// duplicate add surfaces the uniqueness violation
	rec = do(t, e, http.MethodPost, "/admin/add-product", map[string]interface{}{
		"name":        "Aspirin",
		"price":       50,
		"category":    "Medicine",
		"imageBase64": "data:image/jpeg;base64,/9j/stub",
	}, adminCk)
	require.Equal(t, http.StatusConflict, rec.Code)

	// the catalog is public
	rec = do(t, e, http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Aspirin")

	rec = do(t, e, http.MethodPost, "/submit-order", map[string]interface{}{
		"cart":          []map[string]interface{}{{"item": "Aspirin", "qty": 1}},
		"address":       "X",
		"paymentMethod": "COD",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, e, http.MethodGet, "/admin/orders", nil, adminCk)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Guest")

	rec = do(t, e, http.MethodPost, "/admin/update-order-status", map[string]interface{}{
		"orderId": 1,
		"status":  "Shipped",
	}, adminCk)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, e, http.MethodGet, "/api/orders", nil, adminCk)
	require.Contains(t, rec.Body.String(), "Shipped")
}
