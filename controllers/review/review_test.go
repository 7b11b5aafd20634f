package reviewControllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/GoncharovAlexandr/onshp/apperr"
	"github.com/GoncharovAlexandr/onshp/auth"
	"github.com/GoncharovAlexandr/onshp/middleware"
	"github.com/GoncharovAlexandr/onshp/models"
)

type memSessions struct {
	byToken map[string]auth.Session
}

func (m *memSessions) Get(_ context.Context, token string) (auth.Session, error) {
	if s, ok := m.byToken[token]; ok {
		return s, nil
	}
	return auth.Session{}, apperr.ErrUnauthorized
}

func (m *memSessions) Put(_ context.Context, s auth.Session) error {
	m.byToken[s.Token] = s
	return nil
}

func (m *memSessions) FindByAccount(_ context.Context, role auth.Role, accountID uint) (auth.Session, bool, error) {
	for _, s := range m.byToken {
		if s.Role == role && s.AccountID == accountID {
			return s, true, nil
		}
	}
	return auth.Session{}, false, nil
}

func (m *memSessions) Delete(_ context.Context, token string) error {
	delete(m.byToken, token)
	return nil
}

func newReviewEnv(t *testing.T) (*gin.Engine, *gorm.DB, auth.Session, auth.Session) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := gorm.Open(sqlite.Open("file:"+strings.ReplaceAll(t.Name(), "/", "_")+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}, &models.Review{}))

	owner := auth.NewSession(auth.RoleCustomer, 1)
	other := auth.NewSession(auth.RoleCustomer, 2)
	sessions := &memSessions{byToken: map[string]auth.Session{
		owner.Token: owner,
		other.Token: other,
	}}

	r := gin.New()
	r.GET("/reviews/:id", GetReview(db))
	grp := r.Group("/reviews", middleware.RequireCustomer(sessions))
	grp.POST("", CreateReview(db))
	grp.PUT("/:id", UpdateReview(db))
	grp.DELETE("/:id", DeleteReview(db))
	return r, db, owner, other
}

func doAs(r *gin.Engine, sess auth.Session, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if sess.Token != "" {
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: sess.Token})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateReviewStampsAuthor(t *testing.T) {
	r, db, owner, _ := newReviewEnv(t)
	require.NoError(t, db.Create(&models.Product{Name: "mug", Price: 1, StockQuantity: 1, CategoryID: 1}).Error)

	w := doAs(r, owner, http.MethodPost, "/reviews", `{"product_id": 1, "rating": 5, "comment": "great"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var review models.Review
	require.NoError(t, db.First(&review, 1).Error)
	assert.Equal(t, owner.AccountID, review.CustomerID)
	assert.Equal(t, 5, review.Rating)
}

func TestCreateReviewValidation(t *testing.T) {
	r, db, owner, _ := newReviewEnv(t)
	require.NoError(t, db.Create(&models.Product{Name: "mug", Price: 1, StockQuantity: 1, CategoryID: 1}).Error)

	w := doAs(r, owner, http.MethodPost, "/reviews", `{"product_id": 1, "rating": 6, "comment": "too good"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doAs(r, owner, http.MethodPost, "/reviews", `{"product_id": 42, "rating": 3, "comment": "ghost"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateReviewOwnerOnly(t *testing.T) {
	r, db, owner, other := newReviewEnv(t)
	require.NoError(t, db.Create(&models.Product{Name: "mug", Price: 1, StockQuantity: 1, CategoryID: 1}).Error)
	require.NoError(t, db.Create(&models.Review{ProductID: 1, CustomerID: owner.AccountID, Rating: 2, Comment: "meh"}).Error)

	w := doAs(r, other, http.MethodPut, "/reviews/1", `{"rating": 1}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doAs(r, owner, http.MethodPut, "/reviews/1", `{"rating": 4}`)
	require.Equal(t, http.StatusOK, w.Code)

	var review models.Review
	require.NoError(t, db.First(&review, 1).Error)
	assert.Equal(t, 4, review.Rating)
	assert.Equal(t, "meh", review.Comment, "omitted fields stay untouched")
}

func TestDeleteReviewOwnerOnly(t *testing.T) {
	r, db, owner, other := newReviewEnv(t)
	require.NoError(t, db.Create(&models.Product{Name: "mug", Price: 1, StockQuantity: 1, CategoryID: 1}).Error)
	require.NoError(t, db.Create(&models.Review{ProductID: 1, CustomerID: owner.AccountID, Rating: 2, Comment: "meh"}).Error)

	w := doAs(r, other, http.MethodDelete, "/reviews/1", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doAs(r, owner, http.MethodDelete, "/reviews/1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Review{}).Count(&count).Error)
	assert.Zero(t, count)
}
