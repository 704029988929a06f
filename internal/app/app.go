package app

import (
	"os"
	"strconv"

	"go-hrdesk/internal/calendar"
	"go-hrdesk/internal/employee"
	"go-hrdesk/internal/leave"
	"go-hrdesk/internal/middleware"
	"go-hrdesk/internal/notifier"
	"go-hrdesk/internal/onboarding"
	"go-hrdesk/internal/shared/connection"
	"go-hrdesk/internal/ticket"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Tables written through raw SQL have no gorm entity, so their DDL lives
// here next to the AutoMigrate call.
const migrateRawSQL = `
CREATE TABLE IF NOT EXISTS sequence_counters (
	series VARCHAR(32) PRIMARY KEY,
	last_value BIGINT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS outbox_events (
	id UUID PRIMARY KEY,
	request_id VARCHAR(64),
	aggregate_type VARCHAR(40) NOT NULL,
	aggregate_id UUID NOT NULL,
	event_type VARCHAR(64) NOT NULL,
	topic VARCHAR(128) NOT NULL,
	payload JSONB NOT NULL,
	status VARCHAR(16) NOT NULL DEFAULT 'pending',
	retry_count INT NOT NULL DEFAULT 0,
	error_message VARCHAR(500),
	next_retry_at TIMESTAMPTZ,
	processed_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

func BuildApp(router *gin.Engine) error {
	logger := zap.L().Named("app")

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
	logger.Info("database connection established")

	if err := migrate(gormDB); err != nil {
		return err
	}

	db, err := gormDB.DB()
	if err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}
	logger.Info("redis connection established")

	router.Use(middleware.RequestID())

	return registerModules(router, db, gormDB, redisClient, buildMailer())
}

func migrate(gormDB *gorm.DB) error {
	if err := gormDB.AutoMigrate(
		&calendar.Holiday{},
		&employee.Employee{},
		&onboarding.OnboardingRecord{},
		&leave.LeaveRequest{},
		&ticket.Ticket{},
		&ticket.TicketComment{},
	); err != nil {
		return err
	}
	return gormDB.Exec(migrateRawSQL).Error
}

// buildMailer returns the SMTP mailer when configured, otherwise a no-op so
// local environments run without a mail relay.
func buildMailer() notifier.Mailer {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return notifier.NopMailer{}
	}

	port := 587
	if p := os.Getenv("SMTP_PORT"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil {
			port = parsed
		}
	}

	return notifier.NewSMTPMailer(
		host,
		port,
		os.Getenv("SMTP_USERNAME"),
		os.Getenv("SMTP_PASSWORD"),
		os.Getenv("SMTP_FROM"),
	)
}
