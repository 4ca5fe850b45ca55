package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/monedero/monedero-backend/internal/config"
	"github.com/monedero/monedero-backend/internal/currency"
	"github.com/monedero/monedero-backend/internal/domain"
	"github.com/monedero/monedero-backend/internal/handler"
	"github.com/monedero/monedero-backend/internal/middleware"
	"github.com/monedero/monedero-backend/internal/notify"
	"github.com/monedero/monedero-backend/internal/repository/postgres"
	"github.com/monedero/monedero-backend/internal/repository/storage"
	"github.com/monedero/monedero-backend/internal/service"
	"github.com/monedero/monedero-backend/internal/util"
	"github.com/monedero/monedero-backend/internal/websocket"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	// Verify database connection
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	// Apply pending schema migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	store := postgres.NewStore(pool)
	converter := currency.NewConverter(cfg.CurrencyRates)

	// WebSocket hub and notification sinks
	hub := websocket.NewHub()
	notifiers := notify.MultiNotifier{notify.NewWebSocketNotifier(hub)}

	var amqpNotifier *notify.AMQPNotifier
	if cfg.AMQP.URL != "" {
		amqpNotifier, err = notify.NewAMQPNotifier(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to AMQP broker")
		}
		notifiers = append(notifiers, amqpNotifier)
		log.Info().Str("exchange", cfg.AMQP.Exchange).Msg("AMQP notifications enabled")
	}

	// Receipt storage is optional; without a bucket the receipt
	// endpoints report it as not configured.
	var objects storage.ObjectStore
	if cfg.S3.Bucket != "" {
		s3Store, err := storage.NewS3ObjectStore(context.Background(), cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize receipt storage")
		}
		objects = s3Store
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("Receipt storage enabled")
	}

	// Initialize services
	clock := util.SystemClock{}
	ledger := service.NewLedger()
	dashboardService := service.NewDashboardService(store, converter, clock, cfg.DefaultCurrency)
	userService := service.NewUserService(store)
	accountService := service.NewAccountService(store, notifiers, converter, dashboardService)
	categoryService := service.NewCategoryService(store, notifiers, dashboardService)
	budgetService := service.NewBudgetService(store, ledger, notifiers, clock, dashboardService)
	incomeService := service.NewIncomeService(store, ledger, notifiers, clock, dashboardService)
	expenseService := service.NewExpenseService(store, ledger, notifiers, clock, dashboardService)
	transferService := service.NewTransferService(store, ledger, notifiers, clock, dashboardService)
	externalTransferService := service.NewExternalTransferService(store, ledger, notifiers, clock, dashboardService)
	saveService := service.NewSaveService(store, ledger, notifiers, clock, dashboardService)
	savingGoalService := service.NewSavingGoalService(store, notifiers, clock, converter)
	receiptService := service.NewReceiptService(store, objects)

	// Initialize auth middleware
	userProvider := &userProviderAdapter{users: userService}
	authMiddleware, err := middleware.NewAuthMiddleware(cfg.Auth0Domain, cfg.Auth0Audience, userProvider)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create auth middleware")
	}
	rateLimiter := middleware.NewRateLimiter()
	defer rateLimiter.Stop()

	// WebSocket connections carry their token as a query parameter, so
	// they validate it themselves instead of going through the
	// Authorization header middleware.
	wsValidator, err := websocket.NewAuth0JWTValidator(cfg.Auth0Domain, cfg.Auth0Audience, &userLookupAdapter{store: store})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create WebSocket token validator")
	}

	// Initialize handlers
	handlers := handler.Handlers{
		Accounts:          handler.NewAccountHandler(accountService),
		Categories:        handler.NewCategoryHandler(categoryService),
		Budgets:           handler.NewBudgetHandler(budgetService),
		Incomes:           handler.NewIncomeHandler(incomeService),
		Expenses:          handler.NewExpenseHandler(expenseService),
		Transfers:         handler.NewTransferHandler(transferService),
		ExternalTransfers: handler.NewExternalTransferHandler(externalTransferService),
		Saves:             handler.NewSaveHandler(saveService),
		SavingGoals:       handler.NewSavingGoalHandler(savingGoalService),
		Dashboard:         handler.NewDashboardHandler(dashboardService),
		Receipts:          handler.NewReceiptHandler(receiptService),
		Profile:           handler.NewProfileHandler(userService),
		WebSocket:         handler.NewWebSocketHandler(hub, wsValidator, cfg.CORSOrigins),
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Register API routes
	handler.RegisterRoutes(e, handlers, authMiddleware, rateLimiter)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	if amqpNotifier != nil {
		if err := amqpNotifier.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close AMQP connection")
		}
	}

	log.Info().Msg("Server exited")
}

// userProviderAdapter adapts UserService to middleware.UserProvider
type userProviderAdapter struct {
	users *service.UserService
}

// EnsureUser implements middleware.UserProvider
func (a *userProviderAdapter) EnsureUser(ctx context.Context, subject, email, name string) (uuid.UUID, error) {
	user, err := a.users.EnsureUser(ctx, subject, email, name)
	if err != nil {
		return uuid.Nil, err
	}
	return user.ID, nil
}

// userLookupAdapter adapts the user repository to websocket.UserLookup
type userLookupAdapter struct {
	store domain.Store
}

// GetUserBySubject implements websocket.UserLookup
func (a *userLookupAdapter) GetUserBySubject(ctx context.Context, subject string) (uuid.UUID, error) {
	user, err := a.store.Repos().Users.GetBySubject(ctx, subject)
	if err != nil {
		return uuid.Nil, err
	}
	return user.ID, nil
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
