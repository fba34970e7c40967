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

	applyRestrictionsHandler "github.com/m04kA/SMC-RestrictionService/internal/api/handlers/apply_restrictions"
	deleteRestrictionHandler "github.com/m04kA/SMC-RestrictionService/internal/api/handlers/delete_restriction"
	deleteRestrictionsRangeHandler "github.com/m04kA/SMC-RestrictionService/internal/api/handlers/delete_restrictions_range"
	getAutomationSettingHandler "github.com/m04kA/SMC-RestrictionService/internal/api/handlers/get_automation_setting"
	getCalendarHandler "github.com/m04kA/SMC-RestrictionService/internal/api/handlers/get_calendar"
	getDerivedSettingHandler "github.com/m04kA/SMC-RestrictionService/internal/api/handlers/get_derived_setting"
	getRestrictionHandler "github.com/m04kA/SMC-RestrictionService/internal/api/handlers/get_restriction"
	mergeRestrictionsHandler "github.com/m04kA/SMC-RestrictionService/internal/api/handlers/merge_restrictions"
	runLosAutomationHandler "github.com/m04kA/SMC-RestrictionService/internal/api/handlers/run_los_automation"
	upsertAutomationSettingHandler "github.com/m04kA/SMC-RestrictionService/internal/api/handlers/upsert_automation_setting"
	upsertDerivedSettingHandler "github.com/m04kA/SMC-RestrictionService/internal/api/handlers/upsert_derived_setting"
	"github.com/m04kA/SMC-RestrictionService/internal/api/middleware"
	"github.com/m04kA/SMC-RestrictionService/internal/config"
	"github.com/m04kA/SMC-RestrictionService/internal/infra/cache/advisorylock"
	automationRepo "github.com/m04kA/SMC-RestrictionService/internal/infra/storage/automation"
	derivedSettingRepo "github.com/m04kA/SMC-RestrictionService/internal/infra/storage/derivedsetting"
	hotelConfigRepo "github.com/m04kA/SMC-RestrictionService/internal/infra/storage/hotelconfig"
	restrictionRepo "github.com/m04kA/SMC-RestrictionService/internal/infra/storage/restriction"
	roomUnitRepo "github.com/m04kA/SMC-RestrictionService/internal/infra/storage/roomunit"
	"github.com/m04kA/SMC-RestrictionService/internal/integrations/pmsadapter"
	derivedService "github.com/m04kA/SMC-RestrictionService/internal/service/derived"
	losAutomationService "github.com/m04kA/SMC-RestrictionService/internal/service/losautomation"
	mergeService "github.com/m04kA/SMC-RestrictionService/internal/service/merge"
	"github.com/m04kA/SMC-RestrictionService/internal/service/pmssync"
	restrictionsService "github.com/m04kA/SMC-RestrictionService/internal/service/restrictions"
	settingsService "github.com/m04kA/SMC-RestrictionService/internal/service/settings"
	applyRestrictionsUC "github.com/m04kA/SMC-RestrictionService/internal/usecase/apply_restrictions"
	pushPmsRestrictionsUC "github.com/m04kA/SMC-RestrictionService/internal/usecase/push_pms_restrictions"
	runLosAutomationUC "github.com/m04kA/SMC-RestrictionService/internal/usecase/run_los_automation"
	"github.com/m04kA/SMC-RestrictionService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RestrictionService/pkg/logger"
	"github.com/m04kA/SMC-RestrictionService/pkg/metrics"
	"github.com/m04kA/SMC-RestrictionService/pkg/txmanager"
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

	log.Info("Starting SMC-RestrictionService...")

	// Метрики (если включены). nil-коллектор допустим во всех компонентах
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

	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db)
	}
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Redis для advisory-блокировок автоматизации
	redisClient := advisorylock.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer redisClient.Close()
	locker := advisorylock.NewLocker(redisClient, cfg.Metrics.ServiceName+":")

	// Клиент PMS-адаптера
	pmsClient := pmsadapter.NewClient(
		cfg.PmsAdapter.URL,
		time.Duration(cfg.PmsAdapter.Timeout)*time.Second,
		log,
	)
	log.Info("PMS adapter client initialized (url=%s, timeout=%ds)", cfg.PmsAdapter.URL, cfg.PmsAdapter.Timeout)

	// Репозитории
	restrictionRepository := restrictionRepo.NewRepository(wrappedDB)
	derivedSettingRepository := derivedSettingRepo.NewRepository(wrappedDB)
	automationRepository := automationRepo.NewRepository(wrappedDB)
	roomUnitRepository := roomUnitRepo.NewRepository(wrappedDB)
	hotelConfigRepository := hotelConfigRepo.NewRepository(wrappedDB)

	// Сервисы
	mergeSvc := mergeService.NewService(restrictionRepository, log)
	derivedSvc := derivedService.NewService(restrictionRepository, derivedSettingRepository, log)
	restrictionsSvc := restrictionsService.NewService(
		restrictionRepository,
		derivedSvc,
		txMgr,
		log,
		cfg.Restrictions.CalendarMaxDays,
	)
	settingsSvc := settingsService.NewService(derivedSettingRepository, automationRepository, log)
	losSvc := losAutomationService.NewService(log)

	// Use cases
	pushUseCase := pushPmsRestrictionsUC.NewUseCase(
		hotelConfigRepository,
		restrictionRepository,
		pmsClient,
		pmssync.NewGate(),
		metricsCollector,
		log,
		cfg.Restrictions.PmsPushWindowDays,
	)
	applyUseCase := applyRestrictionsUC.NewUseCase(
		mergeSvc,
		restrictionRepository,
		derivedSvc,
		pushUseCase,
		txMgr,
		metricsCollector,
		log,
		cfg.Restrictions.BatchSize,
	)
	losUseCase := runLosAutomationUC.NewUseCase(
		automationRepository,
		roomUnitRepository,
		hotelConfigRepository,
		restrictionRepository,
		locker,
		losSvc,
		applyUseCase,
		metricsCollector,
		log,
		time.Duration(cfg.Restrictions.AutomationLockTTLSeconds)*time.Second,
		cfg.Restrictions.AutomationWindowDays,
	)

	// Handlers
	applyRestrictions := applyRestrictionsHandler.NewHandler(applyUseCase, log)
	mergeRestrictions := mergeRestrictionsHandler.NewHandler(applyUseCase, log)
	getRestriction := getRestrictionHandler.NewHandler(restrictionsSvc, log)
	deleteRestriction := deleteRestrictionHandler.NewHandler(restrictionsSvc, log)
	deleteRestrictionsRange := deleteRestrictionsRangeHandler.NewHandler(restrictionsSvc, log)
	getCalendar := getCalendarHandler.NewHandler(restrictionsSvc, log)
	runLosAutomation := runLosAutomationHandler.NewHandler(losUseCase, log)
	upsertDerivedSetting := upsertDerivedSettingHandler.NewHandler(settingsSvc, log)
	getDerivedSetting := getDerivedSettingHandler.NewHandler(settingsSvc, log)
	upsertAutomationSetting := upsertAutomationSettingHandler.NewHandler(settingsSvc, log)
	getAutomationSetting := getAutomationSettingHandler.NewHandler(settingsSvc, log)

	// Роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// --- Ограничения ---
	api.HandleFunc("/hotels/{hotelId}/restrictions/merge", mergeRestrictions.Handle).Methods(http.MethodPost)
	api.HandleFunc("/hotels/{hotelId}/restrictions/delete-range", deleteRestrictionsRange.Handle).Methods(http.MethodPost)
	api.HandleFunc("/hotels/{hotelId}/restrictions", applyRestrictions.Handle).Methods(http.MethodPost)
	api.HandleFunc("/hotels/{hotelId}/restrictions/{restrictionId}", getRestriction.Handle).Methods(http.MethodGet)
	api.HandleFunc("/hotels/{hotelId}/restrictions/{restrictionId}", deleteRestriction.Handle).Methods(http.MethodDelete)

	// Эффективный календарь
	api.HandleFunc("/hotels/{hotelId}/calendar", getCalendar.Handle).Methods(http.MethodGet)

	// --- LOS-автоматизация ---
	api.HandleFunc("/hotels/{hotelId}/los-automation/run", runLosAutomation.Handle).Methods(http.MethodPost)
	api.HandleFunc("/hotels/{hotelId}/automation-settings", upsertAutomationSetting.Handle).Methods(http.MethodPut)
	api.HandleFunc("/hotels/{hotelId}/automation-settings", getAutomationSetting.Handle).Methods(http.MethodGet)

	// --- Производные тарифы ---
	api.HandleFunc("/hotels/{hotelId}/rate-plans/{ratePlanId}/derived-setting", upsertDerivedSetting.Handle).Methods(http.MethodPut)
	api.HandleFunc("/hotels/{hotelId}/rate-plans/{ratePlanId}/derived-setting", getDerivedSetting.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
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

	// Ожидаем сигнал завершения
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
