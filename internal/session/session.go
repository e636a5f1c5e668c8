package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Get when an id has no live entry.
var ErrNotFound = errors.New("session entry not found")

// Store keeps one value per session id until it expires.
type Store interface {
	Put(ctx context.Context, id, value string) error
	Get(ctx context.Context, id string) (string, error)
	Delete(ctx context.Context, id string) error
	Close(ctx context.Context)
}

// CookieName is the cookie carrying the session id.
const CookieName = "dashboard_session"

// ID returns the caller's session id, issuing a new cookie when the request has none.
func ID(w http.ResponseWriter, r *http.Request, ttl time.Duration) string {
	if c, err := r.Cookie(CookieName); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// Lookup returns the caller's session id without issuing one.
func Lookup(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return "", false
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return "", false
	}
	return c.Value, true
}
