package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/akshaydalvi/medikart/internal/logging"
	"github.com/akshaydalvi/medikart/internal/models"
)

const (
	CookieName = "sessionToken"
	TTL        = 7 * 24 * time.Hour
)

// ErrNoSession covers a missing, unknown or expired token; callers treat all
// three as "not logged in".
var ErrNoSession = errors.New("no active session")

// Store keeps sessions in the database, one row per live token. The client
// only ever sees the opaque token through an HttpOnly cookie.
type Store struct {
	DB *gorm.DB
}

func (s *Store) Create(ctx context.Context, user *models.User) (*models.Session, error) {
	sess := &models.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		IsAdmin:   user.IsAdmin,
		ExpiresAt: time.Now().Add(TTL).Unix(),
	}
	if err := s.DB.WithContext(ctx).Create(sess).Error; err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *Store) Get(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, ErrNoSession
	}

	var sess models.Session
	if err := s.DB.WithContext(ctx).Where("token = ?", token).First(&sess).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoSession
		}
		return nil, err
	}

	if time.Now().Unix() > sess.ExpiresAt {
		if err := s.DB.WithContext(ctx).Delete(&models.Session{}, sess.ID).Error; err != nil {
			logging.FromContext(ctx).Error("expired_session_cleanup_failed", "session_id", sess.ID, "error", err)
		}
		return nil, ErrNoSession
	}

	return &sess, nil
}

func (s *Store) Destroy(ctx context.Context, token string) error {
	return s.DB.WithContext(ctx).Where("token = ?", token).Delete(&models.Session{}).Error
}

func NewCookie(token string, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

func ExpiredCookie() *http.Cookie {
	return NewCookie("", time.Now().Add(-1*time.Hour))
}
