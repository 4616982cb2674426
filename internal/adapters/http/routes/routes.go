package routes

import (
	"time"

	"debtease/internal/adapters/http/handlers"
	"debtease/internal/adapters/http/middleware"
	"debtease/internal/adapters/persistence/repositories"
	"debtease/internal/config"
	"debtease/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	debtRepo := repositories.NewDebtRepository(db)
	reminderRepo := repositories.NewReminderRepository(db)
	strategyRepo := repositories.NewStrategyRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	userService := services.NewUserService(userRepo)
	debtService := services.NewDebtService(debtRepo)
	reminderService := services.NewReminderService(reminderRepo, debtRepo)
	strategyService := services.NewStrategyService(strategyRepo, debtRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	debtHandler := handlers.NewDebtHandler(debtService)
	reminderHandler := handlers.NewReminderHandler(reminderService)
	strategyHandler := handlers.NewStrategyHandler(strategyService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	// Auth routes (public)
	authRoutes := apiV1.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// Profile routes (Authenticated users)
	profileRoutes := apiV1.Group("/profile")
	profileRoutes.Use(middleware.AuthMiddleware(cfg))
	setupProfileRoutes(profileRoutes, userHandler)

	// Debt routes (Authenticated users)
	debtRoutes := apiV1.Group("/debts")
	debtRoutes.Use(middleware.AuthMiddleware(cfg))
	setupDebtRoutes(debtRoutes, debtHandler)

	// Reminder routes (Authenticated users)
	reminderRoutes := apiV1.Group("/debt-reminders")
	reminderRoutes.Use(middleware.AuthMiddleware(cfg))
	setupReminderRoutes(reminderRoutes, reminderHandler)

	// Strategy routes (Authenticated users)
	strategyRoutes := apiV1.Group("/debt-strategies")
	strategyRoutes.Use(middleware.AuthMiddleware(cfg))
	setupStrategyRoutes(strategyRoutes, strategyHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes (rate limited)
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupProfileRoutes configures profile routes (Authenticated)
func setupProfileRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.GetProfile)
	router.Put("/", handler.UpdateProfile)
	router.Put("/password", middleware.StrictRateLimiter(), handler.ChangePassword)
}

// setupDebtRoutes configures debt routes (Authenticated)
func setupDebtRoutes(router fiber.Router, handler *handlers.DebtHandler) {
	router.Post("/", handler.CreateDebt)
	router.Get("/", handler.ListDebts)

	// Aggregates before the :id routes
	router.Get("/summary", middleware.PrivateCacheHeaders(30*time.Second), handler.GetSummary)
	router.Get("/analysis", middleware.PrivateCacheHeaders(30*time.Second), handler.GetAnalysis)
	router.Get("/total-balance", handler.GetTotalBalance)
	router.Get("/total-minimum-payments", handler.GetTotalMinimumPayments)
	router.Get("/by-type/:type", handler.ListDebtsByType)
	router.Get("/by-priority/:priority", handler.ListDebtsByPriority)

	router.Get("/:id", handler.GetDebt)
	router.Put("/:id", handler.UpdateDebt)
	router.Delete("/:id", handler.DeleteDebt)
	router.Post("/:id/payments", handler.MakePayment)
	router.Get("/:id/payments", handler.PaymentHistory)
}

// setupReminderRoutes configures reminder routes (Authenticated)
func setupReminderRoutes(router fiber.Router, handler *handlers.ReminderHandler) {
	router.Post("/", handler.CreateReminder)
	router.Get("/", handler.ListReminders)
	router.Post("/generate", handler.GenerateReminders)

	// Named queries before the :id routes
	router.Get("/active", handler.ListActiveReminders)
	router.Get("/upcoming", handler.ListUpcomingReminders)
	router.Get("/overdue", handler.ListOverdueReminders)
	router.Get("/summary", handler.GetReminderSummary)
	router.Get("/by-debt/:debtId", handler.ListRemindersByDebt)

	router.Get("/:id", handler.GetReminder)
	router.Put("/:id", handler.UpdateReminder)
	router.Delete("/:id", handler.DeleteReminder)
	router.Put("/:id/sent", handler.MarkReminderSent)
	router.Put("/:id/snooze", handler.SnoozeReminder)
	router.Put("/:id/enable", handler.EnableReminder)
	router.Put("/:id/disable", handler.DisableReminder)
}

// setupStrategyRoutes configures strategy routes (Authenticated)
func setupStrategyRoutes(router fiber.Router, handler *handlers.StrategyHandler) {
	router.Post("/", handler.CreateStrategy)
	router.Get("/", handler.ListStrategies)

	// Named queries before the :id routes
	router.Get("/active", handler.GetActiveStrategy)
	router.Get("/generate", handler.GetRecommendation)
	router.Get("/payoff-timeline", handler.GetPayoffTimeline)
	router.Get("/compare", handler.CompareStrategies)

	router.Get("/:id", handler.GetStrategy)
	router.Put("/:id", handler.UpdateStrategy)
	router.Delete("/:id", handler.DeleteStrategy)
	router.Put("/:id/activate", handler.ActivateStrategy)
	router.Get("/:id/effectiveness", handler.GetStrategyEffectiveness)
}
