package app

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	pkgcron "github.com/sutthiphatchuenban/nisio-portfolio/internal/pkg/cron"
	sessionpkg "github.com/sutthiphatchuenban/nisio-portfolio/internal/pkg/session"
)

// registerCronJobs registers all scheduled background jobs. Failures are
// logged by the scheduler itself. Analytics rows are append-only and have no
// cleanup job.
func registerCronJobs(sched *pkgcron.Scheduler, db *gorm.DB, logger *zap.Logger) {
	cronLogger := logger.Named("cron")

	sched.Register(pkgcron.Job{
		Name:        "purge_sessions",
		Description: "remove expired and revoked login sessions",
		Interval:    time.Hour,
		Fn: func(ctx context.Context) error {
			n, err := sessionpkg.PurgeExpired(db)
			if err != nil {
				return err
			}
			if n > 0 {
				cronLogger.Info("purged sessions", zap.Int64("count", n))
			}
			return nil
		},
	})
}
