package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/m04kA/SMC-SpaBookingService/internal/api/handlers/cancel_booking"
	changeBookingHandler "github.com/m04kA/SMC-SpaBookingService/internal/api/handlers/change_booking"
	checkAvailabilityHandler "github.com/m04kA/SMC-SpaBookingService/internal/api/handlers/check_availability"
	checkoutHandler "github.com/m04kA/SMC-SpaBookingService/internal/api/handlers/checkout"
	createDiscountRuleHandler "github.com/m04kA/SMC-SpaBookingService/internal/api/handlers/create_discount_rule"
	createServiceHandler "github.com/m04kA/SMC-SpaBookingService/internal/api/handlers/create_service"
	createSlotBlockHandler "github.com/m04kA/SMC-SpaBookingService/internal/api/handlers/create_slot_block"
	deactivateSlotBlockHandler "github.com/m04kA/SMC-SpaBookingService/internal/api/handlers/deactivate_slot_block"
	getAvailableSlotsHandler "github.com/m04kA/SMC-SpaBookingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-SpaBookingService/internal/api/handlers/get_booking"
	getCheckoutBookingsHandler "github.com/m04kA/SMC-SpaBookingService/internal/api/handlers/get_checkout_bookings"
	getServiceHandler "github.com/m04kA/SMC-SpaBookingService/internal/api/handlers/get_service"
	listDiscountRulesHandler "github.com/m04kA/SMC-SpaBookingService/internal/api/handlers/list_discount_rules"
	quoteCartHandler "github.com/m04kA/SMC-SpaBookingService/internal/api/handlers/quote_cart"
	setDiscountRuleActiveHandler "github.com/m04kA/SMC-SpaBookingService/internal/api/handlers/set_discount_rule_active"
	updateServiceHandler "github.com/m04kA/SMC-SpaBookingService/internal/api/handlers/update_service"
	"github.com/m04kA/SMC-SpaBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-SpaBookingService/internal/config"
	blockRepo "github.com/m04kA/SMC-SpaBookingService/internal/infra/storage/block"
	bookingRepo "github.com/m04kA/SMC-SpaBookingService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-SpaBookingService/internal/infra/storage/catalog"
	discountRepo "github.com/m04kA/SMC-SpaBookingService/internal/infra/storage/discount"
	"github.com/m04kA/SMC-SpaBookingService/internal/integrations/events"
	"github.com/m04kA/SMC-SpaBookingService/internal/service/availability"
	bookingsService "github.com/m04kA/SMC-SpaBookingService/internal/service/bookings"
	catalogService "github.com/m04kA/SMC-SpaBookingService/internal/service/catalog"
	"github.com/m04kA/SMC-SpaBookingService/internal/service/ledger"
	"github.com/m04kA/SMC-SpaBookingService/internal/service/packs"
	changeBookingUC "github.com/m04kA/SMC-SpaBookingService/internal/usecase/change_booking"
	checkAvailabilityUC "github.com/m04kA/SMC-SpaBookingService/internal/usecase/check_availability"
	checkoutUC "github.com/m04kA/SMC-SpaBookingService/internal/usecase/checkout"
	getAvailableSlotsUC "github.com/m04kA/SMC-SpaBookingService/internal/usecase/get_available_slots"
	quoteCartUC "github.com/m04kA/SMC-SpaBookingService/internal/usecase/quote_cart"
	"github.com/m04kA/SMC-SpaBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SpaBookingService/pkg/logger"
	"github.com/m04kA/SMC-SpaBookingService/pkg/metrics"
	"github.com/m04kA/SMC-SpaBookingService/pkg/mq"
	"github.com/m04kA/SMC-SpaBookingService/pkg/txmanager"
)

func main() {
	// Путь к конфигурации можно переопределить переменной окружения
	configPath := os.Getenv("SPA_CONFIG")
	if configPath == "" {
		configPath = "config.toml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-SpaBookingService...")
	log.Info("Configuration loaded from %s", configPath)

	// Метрики (если включены); при nil все Record* ничего не делают
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Database.DBName, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Публикация событий
	var eventsClient *events.Client
	if cfg.Events.Enabled {
		publisher, err := mq.NewPublisher(cfg.Events.URL, cfg.Events.Exchange)
		if err != nil {
			log.Fatal("Failed to connect to message broker: %v", err)
		}
		defer publisher.Close()

		eventsClient = events.NewClient(publisher, time.Duration(cfg.Events.TimeoutMs)*time.Millisecond, log)
		log.Info("Events enabled (exchange=%s, timeout=%dms)", cfg.Events.Exchange, cfg.Events.TimeoutMs)
	} else {
		eventsClient = events.NewNoop(log)
		log.Info("Events disabled")
	}

	// Репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	catalogRepository := catalogRepo.NewRepository(wrappedDB)
	discountRepository := discountRepo.NewRepository(wrappedDB)
	blockRepository := blockRepo.NewRepository(wrappedDB)

	// Доменные сервисы
	capacityLedger := ledger.New(bookingRepository)
	checker := availability.NewChecker(capacityLedger, blockRepository, metricsCollector, log)
	resolver := packs.NewResolver(discountRepository, metricsCollector, log)

	bookingSvc := bookingsService.NewService(bookingRepository, txMgr, eventsClient, log)
	catalogSvc := catalogService.NewService(catalogRepository, discountRepository, blockRepository, log)

	// Use cases
	checkoutTimeout := time.Duration(cfg.Checkout.TimeoutMs) * time.Millisecond

	checkoutUseCase := checkoutUC.NewUseCase(
		catalogRepository,
		bookingRepository,
		checker,
		resolver,
		txMgr,
		eventsClient,
		metricsCollector,
		log,
		checkoutTimeout,
		cfg.Checkout.MaxLines,
	)
	quoteCartUseCase := quoteCartUC.NewUseCase(catalogRepository, resolver, log, cfg.Checkout.MaxLines)
	checkAvailabilityUseCase := checkAvailabilityUC.NewUseCase(catalogRepository, checker, log)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(catalogRepository, capacityLedger, blockRepository, txMgr, log)
	changeBookingUseCase := changeBookingUC.NewUseCase(
		bookingRepository,
		catalogRepository,
		checker,
		txMgr,
		eventsClient,
		metricsCollector,
		log,
		checkoutTimeout,
	)

	// Handlers
	checkout := checkoutHandler.NewHandler(checkoutUseCase, log)
	quoteCart := quoteCartHandler.NewHandler(quoteCartUseCase, log)
	checkAvailability := checkAvailabilityHandler.NewHandler(checkAvailabilityUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getCheckoutBookings := getCheckoutBookingsHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	changeBooking := changeBookingHandler.NewHandler(changeBookingUseCase, log)
	getService := getServiceHandler.NewHandler(catalogSvc, log)
	createService := createServiceHandler.NewHandler(catalogSvc, log)
	updateService := updateServiceHandler.NewHandler(catalogSvc, log)
	createDiscountRule := createDiscountRuleHandler.NewHandler(catalogSvc, log)
	listDiscountRules := listDiscountRulesHandler.NewHandler(catalogSvc, log)
	setDiscountRuleActive := setDiscountRuleActiveHandler.NewHandler(catalogSvc, log)
	createSlotBlock := createSlotBlockHandler.NewHandler(catalogSvc, log)
	deactivateSlotBlock := deactivateSlotBlockHandler.NewHandler(catalogSvc, log)

	// Роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// ЧТЕНИЕ
	// ============================================================

	api.HandleFunc("/services/{serviceId}/availability", checkAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/services/{serviceId}/slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/cart/quote", quoteCart.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	api.HandleFunc("/checkouts/{checkoutRef}/bookings", getCheckoutBookings.Handle).Methods(http.MethodGet)

	// ============================================================
	// ЗАПИСЬ (с ограничением частоты запросов)
	// ============================================================

	writes := api.PathPrefix("").Subrouter()
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, log)
		writes.Use(limiter.Limit)
		log.Info("Rate limit enabled: %.1f rps, burst %d", cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	writes.HandleFunc("/checkout", checkout.Handle).Methods(http.MethodPost)
	writes.HandleFunc("/bookings/{bookingId}", changeBooking.Handle).Methods(http.MethodPut)
	writes.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// ============================================================
	// АДМИНИСТРИРОВАНИЕ КАТАЛОГА
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()

	admin.HandleFunc("/services", createService.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/services/{serviceId}", getService.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/services/{serviceId}", updateService.Handle).Methods(http.MethodPut)

	admin.HandleFunc("/discount-rules", createDiscountRule.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/discount-rules", listDiscountRules.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/discount-rules/{ruleId}", listDiscountRules.HandleGet).Methods(http.MethodGet)
	admin.HandleFunc("/discount-rules/{ruleId}/active", setDiscountRuleActive.Handle).Methods(http.MethodPatch)

	admin.HandleFunc("/slot-blocks", createSlotBlock.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/slot-blocks/{blockId}", deactivateSlotBlock.Handle).Methods(http.MethodDelete)

	// HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
