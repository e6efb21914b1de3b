package web

import (
	"net/http"
	"time"

	"github.com/gorilla/securecookie"

	"gitlab.com/yelinaung/expense-report/internal/logger"
	"gitlab.com/yelinaung/expense-report/internal/models"
)

const (
	// SessionCookieName is the name of the session cookie.
	SessionCookieName = "expense_report_session"
	// SessionDuration is how long a login lasts.
	SessionDuration = 12 * time.Hour
)

// SessionCodec stores the session state in a signed and encrypted cookie.
type SessionCodec struct {
	cookie *securecookie.SecureCookie
	secure bool
}

// NewSessionCodec creates a codec. Empty keys are replaced with random ones,
// which invalidates every session when the process restarts.
func NewSessionCodec(hashKey, blockKey []byte, secure bool) *SessionCodec {
	if len(hashKey) == 0 {
		hashKey = securecookie.GenerateRandomKey(64)
	}
	if len(blockKey) == 0 {
		blockKey = securecookie.GenerateRandomKey(32)
	}

	sc := securecookie.New(hashKey, blockKey)
	sc.MaxAge(int(SessionDuration.Seconds()))

	return &SessionCodec{cookie: sc, secure: secure}
}

// Read returns the session carried by the request, or the anonymous session
// when the cookie is missing, expired or tampered with.
func (c *SessionCodec) Read(r *http.Request) models.Session {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return models.Session{}
	}

	var sess models.Session
	if err := c.cookie.Decode(SessionCookieName, cookie.Value, &sess); err != nil {
		logger.Log.Debug().Err(err).Msg("Rejected session cookie")
		return models.Session{}
	}
	if !sess.LoggedIn || sess.Username == "" || !sess.Role.Valid() {
		return models.Session{}
	}
	return sess
}

// Write stores sess in the response cookie. The anonymous session clears it.
func (c *SessionCodec) Write(w http.ResponseWriter, sess models.Session) error {
	if !sess.LoggedIn {
		c.Clear(w)
		return nil
	}
	encoded, err := c.cookie.Encode(SessionCookieName, sess)
	if err != nil {
		return err
	}
	http.SetCookie(w, c.newCookie(encoded, int(SessionDuration.Seconds())))
	return nil
}

// Clear removes the session cookie.
func (c *SessionCodec) Clear(w http.ResponseWriter) {
	http.SetCookie(w, c.newCookie("", -1))
}

func (c *SessionCodec) newCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
