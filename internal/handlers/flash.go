package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

const flashCookie = "dashboard_flash"

// redirectWithFlash queues msg for the next page render and sends the
// browser to path.
func redirectWithFlash(w http.ResponseWriter, r *http.Request, path, msg string) {
	msgs := []string{msg}
	if c, err := r.Cookie(flashCookie); err == nil {
		if prev, ok := decodeFlashes(c.Value); ok {
			msgs = append(prev, msg)
		}
	}
	raw, _ := json.Marshal(msgs)
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// popFlashes returns queued messages and clears the cookie.
func popFlashes(w http.ResponseWriter, r *http.Request) []string {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1})
	msgs, _ := decodeFlashes(c.Value)
	return msgs
}

func decodeFlashes(v string) ([]string, bool) {
	raw, err := base64.RawURLEncoding.DecodeString(v)
	if err != nil {
		return nil, false
	}
	var msgs []string
	if err := json.Unmarshal(raw, &msgs); err != nil {
		return nil, false
	}
	return msgs, true
}
