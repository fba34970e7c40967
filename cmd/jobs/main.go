package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/spf13/pflag"

	"github.com/m04kA/SMC-RestrictionService/internal/config"
	"github.com/m04kA/SMC-RestrictionService/internal/domain"
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
	applyRestrictionsUC "github.com/m04kA/SMC-RestrictionService/internal/usecase/apply_restrictions"
	pullPmsRestrictionsUC "github.com/m04kA/SMC-RestrictionService/internal/usecase/pull_pms_restrictions"
	pushPmsRestrictionsUC "github.com/m04kA/SMC-RestrictionService/internal/usecase/push_pms_restrictions"
	runLosAutomationUC "github.com/m04kA/SMC-RestrictionService/internal/usecase/run_los_automation"
	"github.com/m04kA/SMC-RestrictionService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RestrictionService/pkg/jobrun"
	"github.com/m04kA/SMC-RestrictionService/pkg/logger"
	"github.com/m04kA/SMC-RestrictionService/pkg/metrics"
	"github.com/m04kA/SMC-RestrictionService/pkg/txmanager"
)

const (
	jobPmsPull       = "pms-pull"
	jobPmsPush       = "pms-push"
	jobLosAutomation = "los-automation"
)

// Запускается по cron: одна задача за вызов, код выхода 1 при неуспешных отелях
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "jobs: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		job        string
		configPath string
		hotelIDs   []string
		fromRaw    string
		toRaw      string
	)

	flagSet := pflag.NewFlagSet("restriction-jobs", pflag.ContinueOnError)
	flagSet.StringVar(&job, "job", "", "job to run: pms-pull, pms-push or los-automation")
	flagSet.StringVar(&configPath, "config", "config.toml", "path to the TOML configuration")
	flagSet.StringSliceVar(&hotelIDs, "hotel", nil, "limit pms-pull to these hotels (repeatable)")
	flagSet.StringVar(&fromRaw, "from", "", "pms-pull period start, YYYY-MM-DD (default: today)")
	flagSet.StringVar(&toRaw, "to", "", "pms-pull period end, YYYY-MM-DD")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	var from, to time.Time
	if fromRaw != "" || toRaw != "" {
		var err error
		if from, err = domain.ParseDate(fromRaw); err != nil {
			return fmt.Errorf("--from: %w", err)
		}
		if to, err = domain.ParseDate(toRaw); err != nil {
			return fmt.Errorf("--to: %w", err)
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		return err
	}
	defer log.Close()

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	// Задачи не отдают метрики: процесс живёт меньше интервала сбора
	var noMetrics *metrics.Metrics
	wrappedDB := dbmetrics.Wrap(db)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	pmsClient := pmsadapter.NewClient(cfg.PmsAdapter.URL, time.Duration(cfg.PmsAdapter.Timeout)*time.Second, log)

	restrictionRepository := restrictionRepo.NewRepository(wrappedDB)
	hotelConfigRepository := hotelConfigRepo.NewRepository(wrappedDB)
	derivedSvc := derivedService.NewService(restrictionRepository, derivedSettingRepo.NewRepository(wrappedDB), log)

	pushUseCase := pushPmsRestrictionsUC.NewUseCase(
		hotelConfigRepository,
		restrictionRepository,
		pmsClient,
		pmssync.NewGate(),
		noMetrics,
		log,
		cfg.Restrictions.PmsPushWindowDays,
	)
	applyUseCase := applyRestrictionsUC.NewUseCase(
		mergeService.NewService(restrictionRepository, log),
		restrictionRepository,
		derivedSvc,
		pushUseCase,
		txMgr,
		noMetrics,
		log,
		cfg.Restrictions.BatchSize,
	)

	log.Info("Jobs: starting %s", job)

	var report *jobrun.Report[string]
	switch job {
	case jobPmsPull:
		uc := pullPmsRestrictionsUC.NewUseCase(hotelConfigRepository, pmsClient, applyUseCase, noMetrics, log, cfg.Restrictions.PmsPushWindowDays)
		resp, err := uc.Execute(ctx, &pullPmsRestrictionsUC.Request{HotelIDs: hotelIDs, From: from, To: to})
		if err != nil {
			return err
		}
		report = resp.Report

	case jobPmsPush:
		resp, err := pushUseCase.ExecuteAll(ctx)
		if err != nil {
			return err
		}
		report = resp.Report

	case jobLosAutomation:
		redisClient := advisorylock.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer redisClient.Close()

		uc := runLosAutomationUC.NewUseCase(
			automationRepo.NewRepository(wrappedDB),
			roomUnitRepo.NewRepository(wrappedDB),
			hotelConfigRepository,
			restrictionRepository,
			advisorylock.NewLocker(redisClient, cfg.Metrics.ServiceName+":"),
			losAutomationService.NewService(log),
			applyUseCase,
			noMetrics,
			log,
			time.Duration(cfg.Restrictions.AutomationLockTTLSeconds)*time.Second,
			cfg.Restrictions.AutomationWindowDays,
		)
		resp, err := uc.ExecuteAll(ctx)
		if err != nil {
			return err
		}
		report = resp.Report

	default:
		return fmt.Errorf("unknown --job %q, expected %s, %s or %s", job, jobPmsPull, jobPmsPush, jobLosAutomation)
	}

	log.Info("Jobs: %s finished, succeeded=%d skipped=%d failed=%d",
		job, len(report.Succeeded()), len(report.Skipped()), len(report.Failed()))

	return report.Err()
}
