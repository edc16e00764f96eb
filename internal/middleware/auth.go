package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sutthiphatchuenban/nisio-portfolio/internal/models"
	"github.com/sutthiphatchuenban/nisio-portfolio/internal/pkg/jwt"
	"github.com/sutthiphatchuenban/nisio-portfolio/internal/pkg/response"
	sessionpkg "github.com/sutthiphatchuenban/nisio-portfolio/internal/pkg/session"
)

const ContextKeyUser = "auth_user"

// AdminOnly returns a middleware that admits only requests carrying a valid
// session cookie or bearer token whose user holds the ADMIN role. The cookie
// is consulted first; a bearer token is only examined when no usable session
// exists. Every failure mode produces the same 401 body.
func AdminOnly(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := resolveUser(db, c)
		if err != nil || user == nil || user.Role != models.RoleAdmin {
			response.Unauthorized(c)
			return
		}
		c.Set(ContextKeyUser, user)
		c.Next()
	}
}

// OptionalAdmin resolves credentials when present but never rejects the
// request. Handlers use IsAdmin to widen result sets for authenticated
// administrators.
func OptionalAdmin(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, err := resolveUser(db, c); err == nil && user != nil {
			c.Set(ContextKeyUser, user)
		}
		c.Next()
	}
}

// resolveUser walks the credential chain: session cookie, then bearer token.
// The bearer path re-reads the role from the database so a demoted user's
// outstanding tokens lose their access immediately.
func resolveUser(db *gorm.DB, c *gin.Context) (*models.UserModel, error) {
	if token := sessionpkg.TokenFromRequest(c); token != "" {
		sess, err := sessionpkg.Resolve(db, token)
		if err != nil {
			return nil, err
		}
		if sess != nil {
			return findUser(db, sess.UserID)
		}
	}

	bearer := bearerToken(c)
	if bearer == "" {
		return nil, errors.New("no credentials")
	}
	claims, err := jwt.Parse(bearer)
	if err != nil {
		return nil, err
	}
	return findUser(db, claims.UserID)
}

func findUser(db *gorm.DB, id string) (*models.UserModel, error) {
	if id == "" {
		return nil, errors.New("empty user id")
	}
	var user models.UserModel
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, err
	}
	return &user, nil
}

func bearerToken(c *gin.Context) string {
	auth := strings.TrimSpace(c.GetHeader("Authorization"))
	if auth == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return ""
	}
	return strings.TrimSpace(auth[7:])
}

// CurrentUser returns the authenticated user set by AdminOnly or
// OptionalAdmin, or nil when the request is anonymous.
func CurrentUser(c *gin.Context) *models.UserModel {
	v, _ := c.Get(ContextKeyUser)
	user, _ := v.(*models.UserModel)
	return user
}

// IsAdmin reports whether the request carries an authenticated admin user.
func IsAdmin(c *gin.Context) bool {
	user := CurrentUser(c)
	return user != nil && user.Role == models.RoleAdmin
}
