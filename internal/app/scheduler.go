package app

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go-paie/internal/attendance"
	"go-paie/internal/employee"
	"go-paie/internal/leave"
	"go-paie/internal/shared/connection"
	"go-paie/internal/shared/period"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// RunScheduler hosts the nightly absence derivation: a backfill pass at
// startup for days the job may have missed, then a cron entry shortly
// before midnight that closes today's ledger.
func RunScheduler() error {
	logger := zap.L().Named("app.scheduler")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	deriver := attendance.NewDeriver(
		attendance.NewRepository(gormDB),
		employee.NewRepository(gormDB),
		leave.NewRepository(gormDB),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	daysBack := 3
	if v := os.Getenv("ABSENCE_BACKFILL_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			daysBack = n
		}
	}
	results, err := deriver.EnsureAbsencesUpToDate(ctx, daysBack)
	if err != nil {
		logger.Error("startup absence backfill failed", zap.Error(err))
	} else {
		for _, r := range results {
			logger.Info("absence backfill day done",
				zap.String("date", r.Date),
				zap.Int("created", r.Created),
			)
		}
	}

	c := cron.New()
	if _, err := c.AddFunc("50 23 * * *", func() {
		day := period.Today(time.Now().UTC())
		created, err := deriver.MarkAbsencesForDate(ctx, day)
		if err != nil {
			logger.Error("nightly absence run failed",
				zap.String("date", day.Format(period.DateLayout)),
				zap.Error(err),
			)
			return
		}
		logger.Info("nightly absence run done",
			zap.String("date", day.Format(period.DateLayout)),
			zap.Int("created", created),
		)
	}); err != nil {
		return err
	}
	c.Start()
	defer c.Stop()

	logger.Info("scheduler started", zap.Int("backfill_days", daysBack))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("scheduler shutting down")
	return nil
}
