package auth

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	sessionName = "zackie_session"
	tokenKey    = "token"
)

// Sessions keeps the session token in a signed cookie so browser clients
// stay logged in without sending a bearer header.
type Sessions struct {
	store *sessions.CookieStore
}

// NewSessions returns Sessions signing cookies with key.
func NewSessions(key string) *Sessions {
	store := sessions.NewCookieStore([]byte(key))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(TokenTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Sessions{store: store}
}

// Save stores token in the session cookie on w.
func (s *Sessions) Save(w http.ResponseWriter, r *http.Request, token string) error {
	sess, _ := s.store.Get(r, sessionName)
	sess.Values[tokenKey] = token
	return sess.Save(r, w)
}

// Token returns the token held by the request's session cookie, if any.
func (s *Sessions) Token(r *http.Request) string {
	sess, err := s.store.Get(r, sessionName)
	if err != nil {
		return ""
	}
	token, _ := sess.Values[tokenKey].(string)
	return token
}

// Clear expires the session cookie.
func (s *Sessions) Clear(w http.ResponseWriter, r *http.Request) error {
	sess, _ := s.store.Get(r, sessionName)
	delete(sess.Values, tokenKey)
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}
