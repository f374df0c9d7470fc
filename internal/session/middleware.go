package session

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CookieName identifies the wizard session cookie.
const CookieName = "wizard_session"

// Middleware ensures every request carries a live session: it reads the
// session cookie, creates a session when the cookie is missing or stale,
// and exposes the ID to handlers as "sessionId".
func Middleware(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(CookieName)
		if err != nil || id == "" {
			id = store.Create()
			setCookie(c, store, id)
		} else if _, ok := store.Get(id); !ok {
			id = store.Create()
			setCookie(c, store, id)
		}

		c.Set("sessionId", id)
		c.Next()
	}
}

func setCookie(c *gin.Context, store *Store, id string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(store.ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
