package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/greens-backend-go/internal/logging"
	"github.com/jengzang/greens-backend-go/internal/session"
)

const sessionKey = "session"

// Session decodes the session cookie, if any, into the request context
func Session(m *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(session.CookieName)
		if err == nil && raw != "" {
			s, err := m.Decode(raw)
			if err != nil {
				logging.Debug().Err(err).Msg("ignoring session cookie")
			} else {
				c.Set(sessionKey, s)
			}
		}
		c.Next()
	}
}

// CurrentSession returns the signed-in athlete's session or nil
func CurrentSession(c *gin.Context) *session.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	s, _ := v.(*session.Session)
	return s
}
