package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sutthiphatchuenban/nisio-portfolio/internal/models"
	jwtpkg "github.com/sutthiphatchuenban/nisio-portfolio/internal/pkg/jwt"
	"github.com/sutthiphatchuenban/nisio-portfolio/internal/testutil"
)

func seedUser(t *testing.T, db *gorm.DB, email, password, role string) *models.UserModel {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &models.UserModel{Email: email, Password: string(hash), Name: "Test", Role: role}
	require.NoError(t, db.Create(u).Error)
	return u
}

func TestSignInSuccess(t *testing.T) {
	db := testutil.OpenTestDB(t)
	seedUser(t, db, "admin@example.com", "s3cret", models.RoleAdmin)
	svc := NewService(db)

	res, err := svc.SignIn(&SignInDTO{Email: "admin@example.com", Password: "s3cret"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, int64(jwtpkg.DefaultTTL.Seconds()), res.ExpiresIn)

	claims, err := jwtpkg.Parse(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestSignInRememberMeExtendsExpiry(t *testing.T) {
	db := testutil.OpenTestDB(t)
	seedUser(t, db, "admin@example.com", "s3cret", models.RoleAdmin)
	svc := NewService(db)

	res, err := svc.SignIn(&SignInDTO{Email: "admin@example.com", Password: "s3cret", RememberMe: true})
	require.NoError(t, err)
	assert.Equal(t, int64(jwtpkg.RememberMeTTL.Seconds()), res.ExpiresIn)
}

func TestSignInFailuresAreUniform(t *testing.T) {
	db := testutil.OpenTestDB(t)
	seedUser(t, db, "admin@example.com", "s3cret", models.RoleAdmin)
	svc := NewService(db)

	_, unknownErr := svc.SignIn(&SignInDTO{Email: "nobody@example.com", Password: "s3cret"})
	_, wrongErr := svc.SignIn(&SignInDTO{Email: "admin@example.com", Password: "wrong"})

	assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	assert.ErrorIs(t, wrongErr, ErrInvalidCredentials)
	// the two failure modes must be indistinguishable to the caller
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}
