package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hrops-backend-go/internal/config"
	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrops-backend-go/internal/fixtures"
	appHTTP "github.com/cmlabs-hris/hrops-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hrops-backend-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/hrops-backend-go/internal/repository/sqlite"
	leaveService "github.com/cmlabs-hris/hrops-backend-go/internal/service/leave"
)

type store struct {
	employees     employee.EmployeeRepository
	leaveRequests leave.LeaveRequestRepository
	transactor    database.Transactor
	close         func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logLevel := parseLogLevel(cfg.App.LogLevel)
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("Failed to open store", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer st.close()

	holidays, err := loadHolidays(cfg.Holiday)
	if err != nil {
		slog.Error("Failed to load holiday calendar", "error", err)
		os.Exit(1)
	}
	slog.Info("Holiday calendar loaded", "holidays", holidays.Len())

	if cfg.Database.Driver == "sqlite" && cfg.App.Env == "development" {
		if _, err := fixtures.SeedEmployees(ctx, st.employees, fixtures.DefaultEmployees(), time.Now()); err != nil {
			slog.Error("Failed to seed demo employees", "error", err)
			os.Exit(1)
		}
	}

	ledger := leaveService.NewLedger(st.employees)
	requestService := leaveService.NewRequestService(st.leaveRequests, ledger, holidays)
	leaveSvc := leaveService.NewLeaveService(st.transactor, st.leaveRequests, st.employees, requestService,
		leaveService.WithAutoApprovalAfter(cfg.Jobs.AutoApprovalAfter))

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{Env: cfg.App.Env, FrontendURL: cfg.App.FrontendURL, LogLevel: logLevel},
		JWTService,
		appHTTP.NewLeaveHandler(leaveSvc),
		appHTTP.NewEmployeeHandler(leaveSvc),
		appHTTP.NewJobHandler(leaveSvc),
	)

	var scheduler *cron.Scheduler
	if cfg.Jobs.Enabled {
		scheduler = cron.NewScheduler()
		cron.NewLeaveJobs(leaveSvc).RegisterJobs(scheduler, cfg.Jobs.AutoApprovalInterval, cfg.Jobs.CarryForwardCheckInterval)
		scheduler.Start()
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env, "driver", cfg.Database.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}
	if scheduler != nil {
		scheduler.Stop()
	}
}

func openStore(ctx context.Context, cfg *config.Config) (*store, error) {
	switch cfg.Database.Driver {
	case "postgres":
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return nil, err
		}
		if err := postgresql.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return &store{
			employees:     postgresql.NewEmployeeRepository(db),
			leaveRequests: postgresql.NewLeaveRequestRepository(db),
			transactor:    postgresql.NewTransactor(db),
			close:         db.Close,
		}, nil
	case "sqlite":
		db, err := sqlite.Open(ctx, cfg.Database.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &store{
			employees:     sqlite.NewEmployeeRepository(db),
			leaveRequests: sqlite.NewLeaveRequestRepository(db),
			transactor:    sqlite.NewTransactor(db),
			close:         func() { db.Close() },
		}, nil
	}
	return nil, fmt.Errorf("unsupported driver %q", cfg.Database.Driver)
}

// loadHolidays prefers the YAML file and falls back to the inline list.
func loadHolidays(cfg config.HolidayConfig) (*calendar.HolidayCalendar, error) {
	if cfg.File != "" {
		return calendar.LoadFile(cfg.File)
	}
	return calendar.ParseHolidayCalendar(cfg.Dates)
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
