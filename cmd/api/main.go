package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-payrun-go/internal/config"
	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/location"
	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/nictax"
	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/payrun"
	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/shared"
	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/timesheet"
	appHTTP "github.com/cmlabs-hris/hris-payrun-go/internal/handler/http"
	"github.com/cmlabs-hris/hris-payrun-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payrun-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-payrun-go/internal/pkg/logger"
	"github.com/cmlabs-hris/hris-payrun-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-payrun-go/internal/repository/memory"
	"github.com/cmlabs-hris/hris-payrun-go/internal/repository/postgresql"
	employeeService "github.com/cmlabs-hris/hris-payrun-go/internal/service/employee"
	nicTaxService "github.com/cmlabs-hris/hris-payrun-go/internal/service/nictax"
	payRunService "github.com/cmlabs-hris/hris-payrun-go/internal/service/payrun"
	timesheetService "github.com/cmlabs-hris/hris-payrun-go/internal/service/timesheet"
	"github.com/cmlabs-hris/hris-payrun-go/migrations"
)

type repositories struct {
	txManager    shared.TxManager
	payRuns      payrun.PayRunRepository
	timesheets   timesheet.TimesheetRepository
	nicTax       nictax.NICTaxRepository
	employees    employee.EmployeeRepository
	locations    location.LocationRepository
	closeStorage func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.LogLevel, cfg.App.LogFormat, cfg.App.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		log.Error("failed to initialize storage", slog.Any("error", err))
		os.Exit(1)
	}
	defer repos.closeStorage()

	hub := sse.NewHub()
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	payRunSvc := payRunService.NewPayRunService(
		repos.txManager,
		repos.payRuns,
		repos.timesheets,
		repos.nicTax,
		repos.employees,
		hub,
		cfg.PayRun.MaxWorkers,
	)
	timesheetSvc := timesheetService.NewTimesheetService(repos.txManager, repos.timesheets, payRunSvc)
	nicTaxSvc := nicTaxService.NewNICTaxService(repos.txManager, repos.nicTax, payRunSvc)
	employeeSvc := employeeService.NewEmployeeService(repos.txManager, repos.employees, repos.locations)

	router := appHTTP.NewRouter(log, JWTService, cfg.App.AllowedOrigins, cfg.PayRun.OperationTimeout, appHTTP.Handlers{
		PayRun:    appHTTP.NewPayRunHandler(payRunSvc, hub),
		Timesheet: appHTTP.NewTimesheetHandler(timesheetSvc),
		NICTax:    appHTTP.NewNICTaxHandler(nicTaxSvc),
		Employee:  appHTTP.NewEmployeeHandler(employeeSvc),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server running", slog.String("addr", server.Addr), slog.String("storage_driver", cfg.Database.Driver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", slog.Any("error", err))
	}
	log.Info("server stopped")
}

func openRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	if cfg.Database.Driver == config.StorageDriverMemory {
		store := memory.NewStore()
		return &repositories{
			txManager:    store,
			payRuns:      memory.NewPayRunRepository(store),
			timesheets:   memory.NewTimesheetRepository(store),
			nicTax:       memory.NewNICTaxRepository(store),
			employees:    memory.NewEmployeeRepository(store),
			locations:    memory.NewLocationRepository(store),
			closeStorage: func() {},
		}, nil
	}

	dsn := cfg.DatabaseURL()
	if cfg.Database.RunMigrations {
		if err := database.Migrate(ctx, dsn, migrations.FS); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	return &repositories{
		txManager:    postgresql.NewTxManager(db),
		payRuns:      postgresql.NewPayRunRepository(db),
		timesheets:   postgresql.NewTimesheetRepository(db),
		nicTax:       postgresql.NewNICTaxRepository(db),
		employees:    postgresql.NewEmployeeRepository(db),
		locations:    postgresql.NewLocationRepository(db),
		closeStorage: db.Close,
	}, nil
}
