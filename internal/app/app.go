// Package app assembles the HTTP server: config, database, redis, the
// realtime hub, scheduled jobs, and all module routes.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sutthiphatchuenban/nisio-portfolio/internal/config"
	"github.com/sutthiphatchuenban/nisio-portfolio/internal/database"
	"github.com/sutthiphatchuenban/nisio-portfolio/internal/gateway"
	"github.com/sutthiphatchuenban/nisio-portfolio/internal/middleware"
	"github.com/sutthiphatchuenban/nisio-portfolio/internal/models"
	pkgcron "github.com/sutthiphatchuenban/nisio-portfolio/internal/pkg/cron"
	jwtpkg "github.com/sutthiphatchuenban/nisio-portfolio/internal/pkg/jwt"
	pkgredis "github.com/sutthiphatchuenban/nisio-portfolio/internal/pkg/redis"
)

// App holds all application dependencies.
type App struct {
	cfg    *config.AppConfig
	router *gin.Engine
	db     *gorm.DB
	hub    *gateway.Hub
	logger *zap.Logger
	cancel context.CancelFunc
	sched  *pkgcron.Scheduler
}

// New initializes the application: config → DB → Redis → hub → routes.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if cfg.JWTSecret != "" {
		jwtpkg.SetSecret(cfg.JWTSecret)
	}

	db, err := database.Connect(cfg, true)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	rc, err := pkgredis.Connect(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(cors.New(buildCORSConfig(cfg)))

	hub := gateway.NewHub(rc, logger, func(token string) bool {
		claims, err := jwtpkg.Parse(token)
		if err != nil {
			return false
		}
		var user models.UserModel
		if err := db.First(&user, "id = ?", claims.UserID).Error; err != nil {
			return false
		}
		return user.Role == models.RoleAdmin
	})
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	sched := pkgcron.New(logger.Named("cron"))
	registerCronJobs(sched, db, logger)
	sched.Start(ctx)

	app := &App{cfg: cfg, router: router, db: db, hub: hub, logger: logger, cancel: cancel, sched: sched}
	if err := app.registerRoutes(rc); err != nil {
		cancel()
		return nil, err
	}

	return app, nil
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown stops background goroutines.
func (a *App) Shutdown() { a.cancel() }
