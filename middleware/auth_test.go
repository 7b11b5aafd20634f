package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoncharovAlexandr/onshp/apperr"
	"github.com/GoncharovAlexandr/onshp/auth"
)

type fakeSessions struct {
	byToken map[string]auth.Session
}

func newFakeSessions(sessions ...auth.Session) *fakeSessions {
	f := &fakeSessions{byToken: map[string]auth.Session{}}
	for _, s := range sessions {
		f.byToken[s.Token] = s
	}
	return f
}

func (f *fakeSessions) Get(_ context.Context, token string) (auth.Session, error) {
	s, ok := f.byToken[token]
	if !ok {
		return auth.Session{}, apperr.ErrUnauthorized
	}
	return s, nil
}

func (f *fakeSessions) Put(_ context.Context, s auth.Session) error {
	f.byToken[s.Token] = s
	return nil
}

func (f *fakeSessions) FindByAccount(_ context.Context, role auth.Role, accountID uint) (auth.Session, bool, error) {
	for _, s := range f.byToken {
		if s.Role == role && s.AccountID == accountID {
			return s, true, nil
		}
	}
	return auth.Session{}, false, nil
}

func (f *fakeSessions) Delete(_ context.Context, token string) error {
	delete(f.byToken, token)
	return nil
}

func newGateRouter(sessions *fakeSessions) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", RequireCustomer(sessions), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"customer_id": CurrentSession(c).AccountID})
	})
	r.GET("/admin", RequireAdmin(sessions), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"admin_id": CurrentSession(c).AccountID})
	})
	return r
}

func doWithCookie(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGateRejectsMissingCookie(t *testing.T) {
	r := newGateRouter(newFakeSessions())

	w := doWithCookie(r, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGateRejectsUnknownToken(t *testing.T) {
	r := newGateRouter(newFakeSessions())

	w := doWithCookie(r, "/me", "not-a-live-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid or expired session")
}

func TestGateRejectsWrongRole(t *testing.T) {
	customer := auth.NewSession(auth.RoleCustomer, 3)
	admin := auth.NewSession(auth.RoleAdmin, 9)
	r := newGateRouter(newFakeSessions(customer, admin))

	w := doWithCookie(r, "/admin", customer.Token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doWithCookie(r, "/me", admin.Token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGatePassesMatchingRole(t *testing.T) {
	customer := auth.NewSession(auth.RoleCustomer, 3)
	admin := auth.NewSession(auth.RoleAdmin, 9)
	r := newGateRouter(newFakeSessions(customer, admin))

	w := doWithCookie(r, "/me", customer.Token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"customer_id": 3}`, w.Body.String())

	w = doWithCookie(r, "/admin", admin.Token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"admin_id": 9}`, w.Body.String())
}

func TestResolveLeavesAnonymousRequestsAlone(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", Resolve(newFakeSessions()), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"role": int(CurrentSession(c).Role)})
	})

	w := doWithCookie(r, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"role": 0}`, w.Body.String())
}
