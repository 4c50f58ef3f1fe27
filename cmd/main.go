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
	"github.com/redis/go-redis/v9"

	assignBookingHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/assign_booking"
	autoAssignBookingHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/auto_assign_booking"
	cancelBookingHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/cancel_booking"
	checkAvailabilityHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/check_availability"
	completeBookingHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/complete_booking"
	confirmVerificationHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/confirm_verification"
	createBookingHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/create_booking"
	getBookingHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/get_booking"
	getBookingByCodeHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/get_booking_by_code"
	getDetailerBookingsHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/get_detailer_bookings"
	initiateVerificationHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/initiate_verification"
	listAvailabilityHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/list_availability"
	listBookingsHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/list_bookings"
	loginHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/login"
	updateStatusHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/update_status"
	"github.com/m04kA/SMC-DetailingService/internal/api/middleware"
	"github.com/m04kA/SMC-DetailingService/internal/config"
	"github.com/m04kA/SMC-DetailingService/internal/infra/sessionstore"
	bookingRepo "github.com/m04kA/SMC-DetailingService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-DetailingService/internal/infra/storage/catalog"
	detailerRepo "github.com/m04kA/SMC-DetailingService/internal/infra/storage/detailer"
	"github.com/m04kA/SMC-DetailingService/internal/integrations/smsgateway"
	"github.com/m04kA/SMC-DetailingService/internal/notify"
	assignmentService "github.com/m04kA/SMC-DetailingService/internal/service/assignment"
	authService "github.com/m04kA/SMC-DetailingService/internal/service/auth"
	availabilityService "github.com/m04kA/SMC-DetailingService/internal/service/availability"
	bookingsService "github.com/m04kA/SMC-DetailingService/internal/service/bookings"
	createBookingUC "github.com/m04kA/SMC-DetailingService/internal/usecase/create_booking"
	verificationUC "github.com/m04kA/SMC-DetailingService/internal/usecase/verification"
	"github.com/m04kA/SMC-DetailingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-DetailingService/pkg/logger"
	"github.com/m04kA/SMC-DetailingService/pkg/metrics"
	"github.com/m04kA/SMC-DetailingService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-DetailingService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-DetailingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
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

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Хранилище верификационных сессий: Redis или in-memory
	var sessionStore sessionstore.Store
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Failed to ping redis: %v", err)
		}
		sessionStore = sessionstore.NewRedisStore(redisClient)
		log.Info("Verification sessions stored in Redis (%s)", cfg.Redis.Addr)
	} else {
		sessionStore = sessionstore.NewMemoryStore()
		log.Info("Verification sessions stored in memory")
	}

	// Фоновая чистка просроченных сессий (для Redis - no-op)
	stopSweepCh := make(chan struct{})
	go sweepSessions(sessionStore, time.Duration(cfg.Verification.SweepIntervalSeconds)*time.Second, stopSweepCh, log)

	// Каналы уведомлений: SMS-шлюз и SMTP
	smsClient := smsgateway.NewClient(
		cfg.SMSGateway.URL,
		cfg.SMSGateway.APIKey,
		cfg.SMSGateway.Sender,
		time.Duration(cfg.SMSGateway.Timeout)*time.Second,
		log,
	)
	channels := []notify.Notifier{notify.NewSMSNotifier(smsClient)}
	if cfg.SMTP.Host != "" {
		channels = append(channels, notify.NewEmailNotifier(
			cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.From, cfg.SMTP.Username, cfg.SMTP.Password,
		))
		log.Info("Email notifications enabled (smtp=%s:%d)", cfg.SMTP.Host, cfg.SMTP.Port)
	}
	notifier := notify.NewDispatcher(log, channels...)

	// Интерфейс transaction manager (используется сервисами и usecases)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository  *bookingRepo.Repository
		catalogRepository  *catalogRepo.Repository
		detailerRepository *detailerRepo.Repository
		txMgr              TxManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		catalogRepository = catalogRepo.NewRepository(wrappedDB)
		detailerRepository = detailerRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		catalogRepository = catalogRepo.NewRepository(db)
		detailerRepository = detailerRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	availabilitySvc := availabilityService.NewService(bookingRepository, log)
	bookingSvc := bookingsService.NewService(bookingRepository, txMgr, notifier, log)
	assignmentSvc := assignmentService.NewService(bookingRepository, detailerRepository, txMgr, log)
	authSvc := authService.NewService(
		detailerRepository,
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.TokenTTLHours)*time.Hour,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		catalogRepository,
		availabilitySvc,
		txMgr,
		notifier,
		log,
	)
	verificationUseCase := verificationUC.NewUseCase(
		sessionStore,
		createBookingUseCase,
		notifier,
		time.Duration(cfg.Verification.SessionTTLMinutes)*time.Minute,
		cfg.Verification.MaxAttempts,
		log,
	)

	// Инициализируем handlers
	checkAvailability := checkAvailabilityHandler.NewHandler(availabilitySvc, log)
	listAvailability := listAvailabilityHandler.NewHandler(availabilitySvc, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getBookingByCode := getBookingByCodeHandler.NewHandler(bookingSvc, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)
	updateStatus := updateStatusHandler.NewHandler(bookingSvc, log)
	completeBooking := completeBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	assignBooking := assignBookingHandler.NewHandler(assignmentSvc, log)
	autoAssignBooking := autoAssignBookingHandler.NewHandler(assignmentSvc, log)
	getDetailerBookings := getDetailerBookingsHandler.NewHandler(bookingSvc, log)
	initiateVerification := initiateVerificationHandler.NewHandler(verificationUseCase, log)
	confirmVerification := confirmVerificationHandler.NewHandler(verificationUseCase, log)
	login := loginHandler.NewHandler(authSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (клиентский сайт, без аутентификации)
	// ============================================================

	// Календарь доступности и проверка конкретного слота
	api.HandleFunc("/availability", listAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/availability/check", checkAvailability.Handle).Methods(http.MethodGet)

	// Создание бронирования без верификации (статус PENDING)
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Самообслуживание клиента по коду подтверждения
	api.HandleFunc("/bookings/code/{code}", getBookingByCode.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/code/{code}/cancel", cancelBooking.Handle).Methods(http.MethodPost)

	// SMS-верификация: черновик -> код -> подтвержденное бронирование
	api.HandleFunc("/verifications", initiateVerification.Handle).Methods(http.MethodPost)
	api.HandleFunc("/verifications/{id}/confirm", confirmVerification.Handle).Methods(http.MethodPost)

	// Вход детейлера
	api.HandleFunc("/auth/login", login.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (детейлеры и диспетчерская, Bearer JWT)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(authSvc, log))

	// Диспетчерский список и карточка бронирования
	protected.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{id}", getBooking.Handle).Methods(http.MethodGet)

	// Жизненный цикл
	protected.HandleFunc("/bookings/{id}/status", updateStatus.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{id}/complete", completeBooking.Handle).Methods(http.MethodPost)

	// Назначение детейлеров
	protected.HandleFunc("/bookings/{id}/assign", assignBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{id}/auto-assign", autoAssignBooking.Handle).Methods(http.MethodPost)

	// Наряд детейлера на день
	protected.HandleFunc("/detailers/me/bookings", getDetailerBookings.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	close(stopSweepCh)
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

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

// sweepSessions периодически вычищает просроченные верификационные сессии
func sweepSessions(store sessionstore.Store, interval time.Duration, stopCh <-chan struct{}, log *logger.Logger) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			removed, err := store.Sweep(context.Background())
			if err != nil {
				log.Warn("Session sweep failed: %v", err)
				continue
			}
			if removed > 0 {
				log.Info("Session sweep removed %d expired sessions", removed)
			}
		case <-stopCh:
			return
		}
	}
}
