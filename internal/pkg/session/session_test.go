package session

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sutthiphatchuenban/nisio-portfolio/internal/models"
	"github.com/sutthiphatchuenban/nisio-portfolio/internal/testutil"
)

func TestIssueAndResolve(t *testing.T) {
	db := testutil.OpenTestDB(t)

	sess, err := Issue(db, "user-1", "127.0.0.1", "ua", time.Hour)
	require.NoError(t, err)
	assert.Len(t, sess.Token, 64)

	got, err := Resolve(db, sess.Token)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "user-1", got.UserID)
}

func TestResolveUnknownToken(t *testing.T) {
	db := testutil.OpenTestDB(t)

	got, err := Resolve(db, "not-a-token")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestResolveExpired(t *testing.T) {
	db := testutil.OpenTestDB(t)

	sess, err := Issue(db, "user-1", "", "", -time.Minute)
	require.NoError(t, err)

	got, err := Resolve(db, sess.Token)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRevoke(t *testing.T) {
	db := testutil.OpenTestDB(t)

	sess, err := Issue(db, "user-1", "", "", time.Hour)
	require.NoError(t, err)
	require.NoError(t, Revoke(db, sess.Token))

	got, err := Resolve(db, sess.Token)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func setCookieHeader(secure bool) string {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	if secure {
		gin.SetMode(gin.ReleaseMode)
		defer gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.TestMode)
	}
	SetCookie(c, "tok", time.Hour)
	return w.Header().Get("Set-Cookie")
}

func TestSetCookieSecureFollowsMode(t *testing.T) {
	header := setCookieHeader(false)
	assert.Contains(t, header, CookieName+"=tok")
	assert.Contains(t, header, "HttpOnly")
	assert.False(t, strings.Contains(header, "Secure"))

	header = setCookieHeader(true)
	assert.Contains(t, header, "Secure")
	assert.Contains(t, header, "HttpOnly")
}

func TestPurgeExpired(t *testing.T) {
	db := testutil.OpenTestDB(t)

	_, err := Issue(db, "user-1", "", "", -time.Minute)
	require.NoError(t, err)
	keep, err := Issue(db, "user-1", "", "", time.Hour)
	require.NoError(t, err)

	n, err := PurgeExpired(db)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	var count int64
	require.NoError(t, db.Model(&models.UserSession{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	got, err := Resolve(db, keep.Token)
	require.NoError(t, err)
	assert.NotNil(t, got)
}
