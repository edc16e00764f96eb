package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sutthiphatchuenban/nisio-portfolio/internal/models"
	"gorm.io/gorm"
)

// CookieName is the browser session cookie set on sign-in.
const CookieName = "nisio_session"

const DefaultTTL = 24 * time.Hour

// Issue creates a server-side session row and returns its opaque token.
func Issue(db *gorm.DB, userID, ip, ua string, ttl time.Duration) (*models.UserSession, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}

	s := &models.UserSession{
		UserID:    userID,
		Token:     hex.EncodeToString(b),
		IP:        strings.TrimSpace(ip),
		UA:        strings.TrimSpace(ua),
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := db.Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// Resolve returns the session for an opaque cookie token, or nil when the
// token is unknown, expired, or revoked.
func Resolve(db *gorm.DB, token string) (*models.UserSession, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, nil
	}
	var s models.UserSession
	err := db.Where("token = ? AND revoked_at IS NULL AND expires_at > ?", token, time.Now()).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Revoke invalidates a session by its opaque token.
func Revoke(db *gorm.DB, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	now := time.Now()
	return db.Model(&models.UserSession{}).
		Where("token = ? AND revoked_at IS NULL", token).
		Update("revoked_at", &now).Error
}

// PurgeExpired hard-deletes sessions past expiry or revoked. Returns rows removed.
func PurgeExpired(db *gorm.DB) (int64, error) {
	res := db.Unscoped().
		Where("expires_at < ? OR revoked_at IS NOT NULL", time.Now()).
		Delete(&models.UserSession{})
	return res.RowsAffected, res.Error
}

// secureCookies reports whether the Secure attribute should be set. Release
// mode means the app serves behind TLS; local development stays on plain HTTP.
func secureCookies() bool {
	return gin.Mode() == gin.ReleaseMode
}

// SetCookie attaches the session cookie to the response.
func SetCookie(c *gin.Context, token string, ttl time.Duration) {
	c.SetCookie(CookieName, token, int(ttl/time.Second), "/", "", secureCookies(), true)
}

// ClearCookie removes the session cookie.
func ClearCookie(c *gin.Context) {
	c.SetCookie(CookieName, "", -1, "/", "", secureCookies(), true)
}

// TokenFromRequest reads the session cookie, if any.
func TokenFromRequest(c *gin.Context) string {
	raw, err := c.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(raw)
}
