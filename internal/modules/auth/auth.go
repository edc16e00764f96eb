package auth

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sutthiphatchuenban/nisio-portfolio/internal/middleware"
	"github.com/sutthiphatchuenban/nisio-portfolio/internal/models"
	jwtpkg "github.com/sutthiphatchuenban/nisio-portfolio/internal/pkg/jwt"
	"github.com/sutthiphatchuenban/nisio-portfolio/internal/pkg/response"
	sessionpkg "github.com/sutthiphatchuenban/nisio-portfolio/internal/pkg/session"
)

// ErrInvalidCredentials covers both unknown email and wrong password so the
// response cannot be used to probe which accounts exist.
var ErrInvalidCredentials = errors.New("invalid credentials")

type SignInDTO struct {
	Email      string `json:"email"    binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"rememberMe"`
}

type signInResult struct {
	User        *models.UserModel
	AccessToken string
	ExpiresIn   int64 // seconds
	TTL         time.Duration
}

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// SignIn verifies the password and mints a bearer token. Session-cookie
// issuance stays in the handler so the service remains transport-free.
func (s *Service) SignIn(dto *SignInDTO) (*signInResult, error) {
	var u models.UserModel
	if err := s.db.Where("email = ?", dto.Email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(dto.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	ttl := jwtpkg.DefaultTTL
	if dto.RememberMe {
		ttl = jwtpkg.RememberMeTTL
	}
	token, err := jwtpkg.Sign(u.ID, u.Email, u.Role, ttl)
	if err != nil {
		return nil, err
	}
	return &signInResult{
		User:        &u,
		AccessToken: token,
		ExpiresIn:   int64(ttl.Seconds()),
		TTL:         ttl,
	}, nil
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	a := rg.Group("/auth")
	a.POST("/signin", h.signIn)
	a.POST("/signout", h.signOut)
	a.GET("/session", middleware.OptionalAdmin(h.svc.db), h.session)
}

func (h *Handler) signIn(c *gin.Context) {
	var dto SignInDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	res, err := h.svc.SignIn(&dto)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.UnauthorizedMsg(c, "Invalid credentials")
			return
		}
		response.InternalError(c, err)
		return
	}

	if sess, err := sessionpkg.Issue(h.svc.db, res.User.ID, c.ClientIP(), c.Request.UserAgent(), res.TTL); err == nil {
		sessionpkg.SetCookie(c, sess.Token, res.TTL)
	}

	response.OK(c, gin.H{
		"user":        res.User,
		"accessToken": res.AccessToken,
		"expiresIn":   res.ExpiresIn,
	})
}

func (h *Handler) signOut(c *gin.Context) {
	if token := sessionpkg.TokenFromRequest(c); token != "" {
		_ = sessionpkg.Revoke(h.svc.db, token)
	}
	sessionpkg.ClearCookie(c)
	response.OK(c, gin.H{"success": true})
}

func (h *Handler) session(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		response.OK(c, gin.H{"user": nil})
		return
	}
	response.OK(c, gin.H{"user": user})
}
