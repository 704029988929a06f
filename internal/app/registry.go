package app

import (
	"database/sql"

	"go-hrdesk/internal/auth"
	"go-hrdesk/internal/calendar"
	"go-hrdesk/internal/employee"
	"go-hrdesk/internal/leave"
	"go-hrdesk/internal/messaging/kafka"
	"go-hrdesk/internal/notifier"
	"go-hrdesk/internal/onboarding"
	"go-hrdesk/internal/rbac"
	"go-hrdesk/internal/shared/counter"
	"go-hrdesk/internal/ticket"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	mailer notifier.Mailer,
) error {
	// --- Repositories ---
	calendarRepo := calendar.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	onboardingRepo := onboarding.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	ticketRepo := ticket.NewRepository(gormDB)

	// --- RBAC Core ---
	rbacService, err := rbac.NewService()
	if err != nil {
		return err
	}

	// --- Services ---
	authService := auth.NewService(employeeRepo)
	calendarService := calendar.NewService(calendarRepo, rdb)
	employeeService := employee.NewService(employeeRepo)
	leaveService := leave.NewService(db, leaveRepo, employeeRepo, calendarService, outboxRepo)
	onboardingService := onboarding.NewService(db, employeeRepo, onboardingRepo, counterRepo, outboxRepo, mailer)
	ticketService := ticket.NewService(db, ticketRepo, employeeRepo, counterRepo)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	calendarHandler := calendar.NewHandler(calendarService)
	employeeHandler := employee.NewHandler(employeeService)
	leaveHandler := leave.NewHandler(leaveService)
	onboardingHandler := onboarding.NewHandler(onboardingService)
	ticketHandler := ticket.NewHandler(ticketService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		calendar.RegisterRoutes(api, calendarHandler, rbacService)
		employee.RegisterRoutes(api, employeeHandler, rbacService)
		leave.RegisterRoutes(api, leaveHandler, rbacService, rdb)
		onboarding.RegisterRoutes(api, onboardingHandler, rbacService)
		ticket.RegisterRoutes(api, ticketHandler, rbacService, rdb)
	}

	return nil
}
