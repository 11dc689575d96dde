package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dine24/dine24-api/internal/auth"
	"github.com/dine24/dine24-api/internal/bill"
	"github.com/dine24/dine24-api/internal/chat"
	"github.com/dine24/dine24-api/internal/config"
	"github.com/dine24/dine24-api/internal/coupon"
	"github.com/dine24/dine24-api/internal/events"
	"github.com/dine24/dine24-api/internal/handlers"
	"github.com/dine24/dine24-api/internal/llm"
	"github.com/dine24/dine24-api/internal/middleware"
	"github.com/dine24/dine24-api/internal/notify"
	"github.com/dine24/dine24-api/internal/repository"
	"github.com/dine24/dine24-api/internal/reservation"
	"github.com/dine24/dine24-api/internal/service"
	"github.com/dine24/dine24-api/internal/slothold"
	"github.com/dine24/dine24-api/internal/storage"
	"github.com/dine24/dine24-api/internal/validation"
	"github.com/dine24/dine24-api/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting dine24 api server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	checks := make(map[string]handlers.Check)

	// Storage: Postgres when configured, otherwise the seeded in-memory store
	var store repository.Store
	var db *sql.DB
	if cfg.Database.URL != "" {
		db, err = repository.OpenPostgres(ctx, cfg.Database.URL)
		if err != nil {
			log.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if cfg.Database.Migrate {
			if err := repository.Migrate(ctx, db); err != nil {
				log.Error("failed to migrate database", "error", err)
				os.Exit(1)
			}
		}
		store = repository.NewPostgresStore(db)
		checks["database"] = db.PingContext
		log.Info("using postgres store")
	} else {
		store = repository.NewSeededInMemoryStore()
		log.Warn("DATABASE_URL not set, using in-memory store with sample data")
	}

	// Table holds: Redis when configured, otherwise in-process
	var holds slothold.Holder
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		holds = slothold.NewRedisHolder(rdb)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		log.Info("using redis table holds", "addr", cfg.Redis.Addr)
	} else {
		holds = slothold.NewMemoryHolder()
	}

	// Reservation events: Kafka when configured, otherwise order stats are applied inline
	var publisher events.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		writer := events.NewWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer writer.Close()

		publisher = events.NewKafkaPublisher(writer)
		log.Info("publishing reservation events to kafka", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	} else {
		publisher = events.NewInline(events.NewStatsUpdater(store))
	}

	// Confirmation email
	var mailer notify.Mailer
	if cfg.Email.RelayURL != "" {
		mailer = notify.NewHTTPRelay(notify.RelayConfig{
			URL:      cfg.Email.RelayURL,
			APIKey:   cfg.Email.APIKey,
			FromName: cfg.Email.FromName,
			ReplyTo:  cfg.Email.ReplyTo,
			Timeout:  cfg.Email.Timeout,
		})
	} else {
		log.Warn("EMAIL_RELAY_URL not set, confirmation emails will only be logged")
		mailer = notify.NewLogMailer(log)
	}

	// Bill archive is optional
	var archive storage.BillArchive
	r2 := storage.R2Config{
		Endpoint:      cfg.Archive.Endpoint,
		AccessKey:     cfg.Archive.AccessKey,
		SecretKey:     cfg.Archive.SecretKey,
		Bucket:        cfg.Archive.Bucket,
		PublicBaseURL: cfg.Archive.PublicBaseURL,
	}
	if r2.Enabled() {
		a, err := storage.NewR2Archive(ctx, r2)
		if err != nil {
			log.Error("failed to configure bill archive", "error", err)
			os.Exit(1)
		}
		archive = a
		log.Info("archiving bills", "bucket", cfg.Archive.Bucket)
	}

	// Admin sessions
	passwordHash := cfg.Auth.AdminPasswordHash
	if passwordHash == "" {
		passwordHash, err = auth.HashPassword(cfg.Auth.AdminPassword)
		if err != nil {
			log.Error("failed to hash admin password", "error", err)
			os.Exit(1)
		}
	}
	sessions := auth.NewManager(auth.Config{
		Username:     cfg.Auth.AdminUsername,
		PasswordHash: passwordHash,
		Secret:       cfg.Auth.JWTSecret,
		TTL:          cfg.Auth.TokenTTL,
	})

	// Initialize services
	validator := validation.New()
	if cfg.AI.GeminiAPIKey == "" {
		log.Warn("GEMINI_API_KEY not set, the assistant will answer with fallback text")
	}
	gemini := llm.NewGeminiClient(llm.GeminiConfig{
		APIKey:  cfg.AI.GeminiAPIKey,
		Model:   cfg.AI.Model,
		BaseURL: cfg.AI.BaseURL,
		Timeout: cfg.AI.Timeout,
	})

	menuService := service.NewMenuService(store)
	tableService := service.NewTableService(store, store, holds)
	specialService := service.NewSpecialService(store, store, validator)
	adminService := service.NewAdminService(store, validator)
	concierge := chat.NewConcierge(gemini, menuService, chat.NewKeywordClassifier(), log)
	coupons := coupon.NewCatalog(coupon.Fixtures(), validator)

	finalizer := reservation.NewFinalizer(bill.NewPDFRenderer(), mailer, publisher, archive, log)
	reservationService := service.NewReservationService(store, tableService, validator, finalizer)

	wizards := reservation.NewSessions(&reservation.Deps{
		Store:     store,
		Tables:    tableService,
		Validator: validator,
		Advisor:   concierge,
		Finalizer: finalizer,
		Holds:     holds,
		HoldTTL:   cfg.Reservation.HoldTTL,
		Logger:    log,
	}, cfg.Reservation.WizardIdleTTL)
	go wizards.Run(ctx, cfg.Reservation.SweepInterval)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(log, checks)
	menuHandler := handlers.NewMenuHandler(menuService, log)
	specialHandler := handlers.NewSpecialHandler(specialService, log)
	couponHandler := handlers.NewCouponHandler(coupons, log)
	chatHandler := handlers.NewChatHandler(concierge, log)
	reservationHandler := handlers.NewReservationHandler(reservationService, finalizer, log)
	wizardHandler := handlers.NewWizardHandler(wizards, log)
	adminHandler := handlers.NewAdminHandler(adminService, sessions, log)

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Register health check endpoint
	r.Get("/health", healthHandler.ServeHTTP)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Menu endpoints
		r.Get("/menu", menuHandler.ListMenu)
		r.Get("/menu/categories", menuHandler.ListCategories)
		r.Get("/menu/{id}", menuHandler.GetMenuItem)
		r.Get("/specials", specialHandler.ListActive)

		// Coupon endpoints
		r.Get("/coupons/{code}", couponHandler.ValidateCoupon)

		// Assistant
		r.Post("/chat", chatHandler.Chat)

		// Reservations
		r.Post("/quick-order", reservationHandler.QuickOrder)
		r.Get("/reservations/history", reservationHandler.History)
		r.Get("/reservations/{id}/bill", reservationHandler.Bill)

		// Reservation wizard
		r.Route("/wizard", func(r chi.Router) {
			r.Post("/", wizardHandler.Start)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", wizardHandler.Get)
				r.Get("/tables", wizardHandler.Tables)
				r.Post("/table", wizardHandler.SelectTable)
				r.Get("/ai/table", wizardHandler.SuggestTable)
				r.Get("/cart", wizardHandler.Cart)
				r.Post("/cart", wizardHandler.AddItem)
				r.Put("/cart/{itemId}", wizardHandler.SetQuantity)
				r.Delete("/cart/{itemId}", wizardHandler.RemoveItem)
				r.Post("/ai/dishes", wizardHandler.SuggestDishes)
				r.Post("/ai/apply", wizardHandler.ApplySuggestion)
				r.Post("/skip", wizardHandler.Skip)
				r.Post("/confirm", wizardHandler.Confirm)
				r.Get("/bill", wizardHandler.Bill)
			})
		})

		// Admin endpoints
		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", adminHandler.Login)
			r.Post("/logout", adminHandler.Logout)

			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminAuth(sessions))

				r.Get("/dashboard", adminHandler.Dashboard)

				r.Get("/menu", adminHandler.ListMenu)
				r.Post("/menu", adminHandler.CreateMenuItem)
				r.Put("/menu/{id}", adminHandler.UpdateMenuItem)
				r.Delete("/menu/{id}", adminHandler.DeleteMenuItem)

				r.Get("/tables", adminHandler.ListTables)
				r.Post("/tables", adminHandler.CreateTable)
				r.Post("/tables/{number}/toggle", adminHandler.ToggleTable)

				r.Get("/reservations", adminHandler.ListReservations)
				r.Get("/reservations/{id}", adminHandler.GetReservation)
				r.Patch("/reservations/{id}/status", adminHandler.UpdateReservationStatus)
				r.Delete("/reservations/{id}", adminHandler.DeleteReservation)

				r.Get("/specials", specialHandler.ListAll)
				r.Post("/specials", specialHandler.Create)
				r.Put("/specials/{id}", specialHandler.Update)
				r.Post("/specials/{id}/toggle", specialHandler.Toggle)
				r.Delete("/specials/{id}", specialHandler.Delete)

				r.Get("/coupons", couponHandler.List)
				r.Get("/coupons/stats", couponHandler.GetStats)
				r.Post("/coupons", couponHandler.Create)
				r.Put("/coupons/{code}", couponHandler.Update)
				r.Delete("/coupons/{code}", couponHandler.Delete)
			})
		})
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	stop()

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
