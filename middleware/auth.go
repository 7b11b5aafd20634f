package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GoncharovAlexandr/onshp/apperr"
	"github.com/GoncharovAlexandr/onshp/auth"
	"github.com/GoncharovAlexandr/onshp/stores"
)

const sessionKey = "session"

func sessionFromRequest(c *gin.Context, sessions stores.SessionStore) (auth.Session, error) {
	token, err := c.Cookie(auth.CookieName)
	if err != nil || token == "" {
		return auth.Session{}, apperr.ErrUnauthorized
	}
	return sessions.Get(c.Request.Context(), token)
}

// Resolve attaches the session to the request context when one exists.
// Anonymous requests pass through; use RequireCustomer/RequireAdmin to gate.
func Resolve(sessions stores.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sess, err := sessionFromRequest(c, sessions); err == nil {
			c.Set(sessionKey, sess)
		}
		c.Next()
	}
}

func RequireCustomer(sessions stores.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := sessionFromRequest(c, sessions)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": apperr.ErrUnauthorized.Error()})
			return
		}
		if sess.Role != auth.RoleCustomer {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "customer account required"})
			return
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

func RequireAdmin(sessions stores.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := sessionFromRequest(c, sessions)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": apperr.ErrUnauthorized.Error()})
			return
		}
		if sess.Role != auth.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin account required"})
			return
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

// CurrentSession returns the resolved session, or an anonymous zero Session
// when the request carries none.
func CurrentSession(c *gin.Context) auth.Session {
	if v, ok := c.Get(sessionKey); ok {
		if sess, ok := v.(auth.Session); ok {
			return sess
		}
	}
	return auth.Session{}
}
