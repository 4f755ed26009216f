package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/inventory_api/internal/cache"
	"github.com/GTDGit/inventory_api/internal/config"
	"github.com/GTDGit/inventory_api/internal/database"
	"github.com/GTDGit/inventory_api/internal/handler"
	"github.com/GTDGit/inventory_api/internal/middleware"
	"github.com/GTDGit/inventory_api/internal/models"
	"github.com/GTDGit/inventory_api/internal/repository"
	"github.com/GTDGit/inventory_api/internal/service"
	"github.com/GTDGit/inventory_api/internal/sse"
	"github.com/GTDGit/inventory_api/internal/utils"
	"github.com/GTDGit/inventory_api/internal/worker"
)

// main is the application entrypoint for the inventory admin API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting inventory api")
	if cfg.AuthDisabled {
		log.Warn().Msg("authentication is disabled")
	}

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB, cfg.MigrationsPath); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis for the list cache
	var (
		listCache   cache.ListCache = cache.NopListCache{}
		redisPinger handler.Pinger
	)
	if cfg.Redis.Enabled() {
		redisClient, err := cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("redis connection failed - list cache disabled")
		} else {
			defer redisClient.Close()
			listCache = cache.NewRedisListCache(redisClient, cfg.Cache.ListTTL)
			redisPinger = handler.PingFunc(redisClient.Ping)
			log.Info().Dur("ttl", cfg.Cache.ListTTL).Msg("redis list cache enabled")
		}
	}

	// 4. Initialize repositories
	deviceRepo := repository.NewDeviceRepository(db)
	simcardRepo := repository.NewSimcardRepository(db)
	emailRepo := repository.NewEmailRepository(db)
	ewalletTypeRepo := repository.NewEwalletTypeRepository(db)
	ewalletRepo := repository.NewEwalletRepository(db)
	topupRepo := repository.NewEwalletTopupRepository(db)
	platformRepo := repository.NewPlatformRepository(db)
	productRepo := repository.NewProductRepository(db)
	variantRepo := repository.NewProductVariantRepository(db)
	platformProductRepo := repository.NewPlatformProductRepository(db)
	accountRepo := repository.NewProductAccountRepository(db)
	accountUserRepo := repository.NewProductAccountUserRepository(db)
	trxRepo := repository.NewTransactionRepository(db)
	adminRepo := repository.NewAdminUserRepository(db)

	// 5. Events: list cache invalidation + SSE
	hub := sse.NewHub()
	events := service.NewEvents(listCache, sse.NewHubNotifier(hub))

	// 6. Initialize services
	populator := &service.Populator{
		Devices:      deviceRepo,
		Simcards:     simcardRepo,
		Emails:       emailRepo,
		EwalletTypes: ewalletTypeRepo,
		Ewallets:     ewalletRepo,
		Platforms:    platformRepo,
		Products:     productRepo,
		Variants:     variantRepo,
		Accounts:     accountRepo,
		AccountUsers: accountUserRepo,
	}
	allocator := service.NewAllocator(db, variantRepo, accountRepo, accountUserRepo, trxRepo)

	deviceSvc := service.NewDeviceService(deviceRepo, listCache, events)
	simcardSvc := service.NewSimcardService(simcardRepo, listCache, events)
	emailSvc := service.NewEmailService(emailRepo, populator, listCache, events)
	ewalletTypeSvc := service.NewEwalletTypeService(ewalletTypeRepo, listCache, events)
	ewalletSvc := service.NewEwalletService(ewalletRepo, populator, listCache, events)
	topupSvc := service.NewEwalletTopupService(topupRepo, populator, listCache, events)
	platformSvc := service.NewPlatformService(platformRepo, listCache, events)
	productSvc := service.NewProductService(productRepo, listCache, events)
	variantSvc := service.NewProductVariantService(variantRepo, populator, listCache, events)
	platformProductSvc := service.NewPlatformProductService(platformProductRepo, populator, listCache, events)
	accountSvc := service.NewProductAccountService(accountRepo, populator, listCache, events)
	accountUserSvc := service.NewProductAccountUserService(accountUserRepo, allocator, populator, listCache, events)
	trxSvc := service.NewTransactionService(trxRepo, allocator, populator, listCache, events)
	messenger := service.NewMessenger(trxSvc, accountUserSvc, cfg.MessageLocation)

	jwtManager := utils.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	adminAuthSvc := service.NewAdminAuthService(adminRepo, jwtManager)

	seedCtx, seedCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := adminAuthSvc.EnsureAdmin(seedCtx, cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.Name); err != nil {
		log.Error().Err(err).Msg("failed to seed admin user")
	}
	seedCancel()

	// 7. Initialize handlers
	resources := []resourceRoutes{
		handler.NewResourceHandler[models.Device, service.DeviceRequest, service.DevicePatch](deviceSvc),
		handler.NewResourceHandler[models.Simcard, service.SimcardRequest, service.SimcardPatch](simcardSvc),
		handler.NewResourceHandler[models.Email, service.EmailRequest, service.EmailPatch](emailSvc),
		handler.NewResourceHandler[models.EwalletType, service.EwalletTypeRequest, service.EwalletTypePatch](ewalletTypeSvc),
		handler.NewResourceHandler[models.Ewallet, service.EwalletRequest, service.EwalletPatch](ewalletSvc),
		handler.NewResourceHandler[models.EwalletTopup, service.EwalletTopupRequest, service.EwalletTopupPatch](topupSvc),
		handler.NewResourceHandler[models.Platform, service.NameRequest, service.NamePatch](platformSvc),
		handler.NewResourceHandler[models.Product, service.NameRequest, service.NamePatch](productSvc),
		handler.NewResourceHandler[models.ProductVariant, service.ProductVariantRequest, service.ProductVariantPatch](variantSvc),
		handler.NewResourceHandler[models.PlatformProduct, service.PlatformProductRequest, service.PlatformProductPatch](platformProductSvc),
		handler.NewResourceHandler[models.ProductAccount, service.ProductAccountRequest, service.ProductAccountPatch](accountSvc),
		handler.NewResourceHandler[models.ProductAccountUser, service.ProductAccountUserRequest, service.ProductAccountUserPatch](accountUserSvc),
		handler.NewResourceHandler[models.Transaction, service.TransactionRequest, service.TransactionPatch](trxSvc),
	}

	loginLimiter := middleware.NewInvalidAuthRateLimiter(5, time.Minute)
	handlers := &Handlers{
		Health:    handler.NewHealthHandler(db, redisPinger),
		Auth:      handler.NewAuthHandler(adminAuthSvc, loginLimiter),
		SSE:       handler.NewSSEHandler(hub),
		Message:   handler.NewMessageHandler(messenger),
		Resources: resources,
	}

	// 8. Initialize middleware
	jwtMw := middleware.NewJWTMiddleware(jwtManager, cfg.AuthDisabled)

	// 9. Setup router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	setupRoutes(router, handlers, jwtMw)

	// 10. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 11. Start workers
	go worker.NewExpiryWorker(accountUserRepo, accountRepo, events, cfg.Worker.ExpiryCheckInterval).Start(ctx)
	go loginLimiter.Cleanup(ctx, 5*time.Minute)

	// 12. Start HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// SSE streams end when ctx is canceled
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 13. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 14. Cancel context to stop workers and close SSE streams
	cancel()

	// 15. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// resourceRoutes is satisfied by every handler.ResourceHandler instantiation.
type resourceRoutes interface {
	Register(r gin.IRouter)
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health    *handler.HealthHandler
	Auth      *handler.AuthHandler
	SSE       *handler.SSEHandler
	Message   *handler.MessageHandler
	Resources []resourceRoutes
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMiddleware *middleware.JWTMiddleware) {
	router.GET("/health", handlers.Health.GetHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.POST("/auth/login", handlers.Auth.Login)

	api := router.Group("")
	api.Use(jwtMiddleware.Handle())
	{
		api.GET("/events", handlers.SSE.Stream)
		api.GET("/transaction/:id/message", handlers.Message.Transaction)
		api.GET("/product-account-user/:id/message", handlers.Message.AccountUser)

		for _, h := range handlers.Resources {
			h.Register(api)
		}
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB, source string) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
