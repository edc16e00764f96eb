package app

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sutthiphatchuenban/nisio-portfolio/internal/middleware"
	"github.com/sutthiphatchuenban/nisio-portfolio/internal/modules/analytics"
	"github.com/sutthiphatchuenban/nisio-portfolio/internal/modules/auth"
	"github.com/sutthiphatchuenban/nisio-portfolio/internal/modules/blog"
	"github.com/sutthiphatchuenban/nisio-portfolio/internal/modules/category"
	"github.com/sutthiphatchuenban/nisio-portfolio/internal/modules/contact"
	"github.com/sutthiphatchuenban/nisio-portfolio/internal/modules/markdown"
	"github.com/sutthiphatchuenban/nisio-portfolio/internal/modules/project"
	"github.com/sutthiphatchuenban/nisio-portfolio/internal/modules/settings"
	"github.com/sutthiphatchuenban/nisio-portfolio/internal/modules/skill"
	"github.com/sutthiphatchuenban/nisio-portfolio/internal/modules/upload"
	pkgredis "github.com/sutthiphatchuenban/nisio-portfolio/internal/pkg/redis"
	"github.com/sutthiphatchuenban/nisio-portfolio/internal/pkg/response"
)

func (a *App) registerRoutes(rc *pkgredis.Client) error {
	r := a.router
	db := a.db
	authMW := middleware.AdminOnly(db)

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	// Realtime gateway
	r.Any("/socket.io/*any", gin.WrapH(a.hub.Handler()))

	api := r.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		response.OK(c, gin.H{"status": "ok"})
	})

	// Public endpoints that accept anonymous writes get their own limiter
	// buckets.
	contactRateMW := middleware.RateLimit(rc.Raw(), "contact", 5, time.Minute)
	trackRateMW := middleware.RateLimit(rc.Raw(), "track", 60, time.Minute)

	settingsSvc := settings.NewService(db, a.cfg.Site)
	if err := settingsSvc.EnsureExists(); err != nil {
		return err
	}

	auth.NewHandler(auth.NewService(db)).RegisterRoutes(api, authMW)
	blog.NewHandler(blog.NewService(db, a.hub)).RegisterRoutes(api, authMW)
	project.NewHandler(project.NewService(db)).RegisterRoutes(api, authMW)
	category.NewHandler(category.NewService(db)).RegisterRoutes(api, authMW)
	skill.NewHandler(skill.NewService(db)).RegisterRoutes(api, authMW)
	contact.NewHandler(contact.NewService(db, a.hub)).RegisterRoutes(api, authMW, contactRateMW)
	settings.NewHandler(settingsSvc).RegisterRoutes(api, authMW)
	analytics.NewHandler(analytics.NewService(db, a.hub)).RegisterRoutes(api, authMW, trackRateMW)
	upload.NewHandler(upload.NewService(a.cfg.Storage)).RegisterRoutes(api, authMW)
	markdown.NewHandler().RegisterRoutes(api, authMW)

	// Scheduled jobs: dashboard can inspect and trigger them.
	jobs := api.Group("/jobs", authMW)
	jobs.GET("", func(c *gin.Context) {
		response.OK(c, a.sched.List())
	})
	jobs.GET("/:name", func(c *gin.Context) {
		res, err := a.sched.GetTask(c.Param("name"))
		if err != nil {
			response.NotFoundMsg(c, err.Error())
			return
		}
		response.OK(c, res)
	})
	jobs.POST("/:name/run", func(c *gin.Context) {
		if err := a.sched.Run(context.Background(), c.Param("name")); err != nil {
			response.NotFoundMsg(c, err.Error())
			return
		}
		response.OK(c, gin.H{"message": "job started"})
	})

	return nil
}
