package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sutthiphatchuenban/nisio-portfolio/internal/models"
	jwtpkg "github.com/sutthiphatchuenban/nisio-portfolio/internal/pkg/jwt"
	sessionpkg "github.com/sutthiphatchuenban/nisio-portfolio/internal/pkg/session"
	"github.com/sutthiphatchuenban/nisio-portfolio/internal/testutil"
)

func newGateRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", AdminOnly(db), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": CurrentUser(c).ID})
	})
	r.GET("/open", OptionalAdmin(db), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"admin": IsAdmin(c)})
	})
	return r
}

func seedUser(t *testing.T, db *gorm.DB, role string) *models.UserModel {
	t.Helper()
	u := &models.UserModel{Email: role + "@example.com", Password: "x", Name: "Test", Role: role}
	require.NoError(t, db.Create(u).Error)
	return u
}

func TestAdminOnlyRejectsAnonymous(t *testing.T) {
	db := testutil.OpenTestDB(t)
	r := newGateRouter(db)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminOnlyAcceptsSessionCookie(t *testing.T) {
	db := testutil.OpenTestDB(t)
	admin := seedUser(t, db, models.RoleAdmin)
	sess, err := sessionpkg.Issue(db, admin.ID, "127.0.0.1", "test", time.Hour)
	require.NoError(t, err)

	r := newGateRouter(db)
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: sessionpkg.CookieName, Value: sess.Token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), admin.ID)
}

func TestAdminOnlyRejectsExpiredSession(t *testing.T) {
	db := testutil.OpenTestDB(t)
	admin := seedUser(t, db, models.RoleAdmin)
	sess, err := sessionpkg.Issue(db, admin.ID, "127.0.0.1", "test", -time.Minute)
	require.NoError(t, err)

	r := newGateRouter(db)
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: sessionpkg.CookieName, Value: sess.Token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminOnlyAcceptsBearerToken(t *testing.T) {
	db := testutil.OpenTestDB(t)
	admin := seedUser(t, db, models.RoleAdmin)
	token, err := jwtpkg.Sign(admin.ID, admin.Email, admin.Role, time.Hour)
	require.NoError(t, err)

	r := newGateRouter(db)
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminOnlyHonorsRoleDowngrade(t *testing.T) {
	db := testutil.OpenTestDB(t)
	admin := seedUser(t, db, models.RoleAdmin)
	token, err := jwtpkg.Sign(admin.ID, admin.Email, models.RoleAdmin, time.Hour)
	require.NoError(t, err)

	// demote after the token was minted; the stored role wins
	require.NoError(t, db.Model(admin).Update("role", models.RoleUser).Error)

	r := newGateRouter(db)
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminOnlyRejectsNonAdminRole(t *testing.T) {
	db := testutil.OpenTestDB(t)
	user := seedUser(t, db, models.RoleUser)
	token, err := jwtpkg.Sign(user.ID, user.Email, user.Role, time.Hour)
	require.NoError(t, err)

	r := newGateRouter(db)
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalAdminNeverBlocks(t *testing.T) {
	db := testutil.OpenTestDB(t)
	r := newGateRouter(db)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/open", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "false")

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "false")
}

func TestOptionalAdminIdentifiesAdmin(t *testing.T) {
	db := testutil.OpenTestDB(t)
	admin := seedUser(t, db, models.RoleAdmin)
	token, err := jwtpkg.Sign(admin.ID, admin.Email, admin.Role, time.Hour)
	require.NoError(t, err)

	r := newGateRouter(db)
	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "true")
}
