package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sadhna-backend/internal/auth"
	"sadhna-backend/internal/cache"
	"sadhna-backend/internal/config"
	"sadhna-backend/internal/database"
	"sadhna-backend/internal/db"
	"sadhna-backend/internal/handlers"
	"sadhna-backend/internal/health"
	h "sadhna-backend/internal/http"
	"sadhna-backend/internal/logger"
	"sadhna-backend/internal/mail"
	"sadhna-backend/internal/middleware"
	"sadhna-backend/internal/realtime"
	"sadhna-backend/internal/repositories"
	"sadhna-backend/internal/services"
	"sadhna-backend/internal/storage"
	"sadhna-backend/migrations"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	cfg := config.Load()
	logger.InitLogger(cfg.Server.LogLevel)
	log := logger.Default()

	if *port != 0 {
		cfg.Server.Port = *port
	}

	pool := db.Connect(cfg)
	defer pool.Close()

	log.Info("Running database migrations...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.NewMigrator(pool, migrations.FS).RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	cancel()

	// Redis is optional; payroll results are simply recomputed without it
	if cfg.Redis.Enabled {
		if err := cache.Init(cfg.Redis.Addr, cfg.Redis.Password); err != nil {
			log.Warnf("[Redis] Cache unavailable: %v", err)
		} else {
			log.Info("[Redis] Cache connected successfully")
			defer cache.Close()
		}
	}

	files, err := storage.New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("[Storage] %v", err)
	}
	mailer := mail.New(cfg)

	company := services.Company{
		Name:         cfg.Company.Name,
		SupportEmail: cfg.Company.SupportEmail,
		Phone:        cfg.Company.Phone,
		Address:      cfg.Company.Address,
	}

	jwtManager := auth.NewJWTManager(cfg)

	// Repositories
	userRepo := repositories.NewUserRepository(pool)
	attemptRepo := repositories.NewTwoFactorAttemptRepository(pool)
	employeeRepo := repositories.NewEmployeeRepository(pool)
	attendanceRepo := repositories.NewAttendanceRepository(pool)
	leaveRepo := repositories.NewLeaveRepository(pool)
	applicationRepo := repositories.NewApplicationRepository(pool)
	siteReportRepo := repositories.NewSiteReportRepository(pool)

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)
	hub := realtime.NewHub(authMiddleware)
	payCache := cache.NewPayrollCache()

	// Services
	totpService := services.NewTOTPService(userRepo, attemptRepo, company.Name)
	userService := services.NewUserService(userRepo, jwtManager, totpService)
	employeeService := services.NewEmployeeService(employeeRepo, userRepo, attendanceRepo, payCache)
	attendanceService := services.NewAttendanceService(attendanceRepo, employeeRepo, hub, payCache)
	payrollService := services.NewPayrollService(employeeRepo, attendanceRepo, payCache, company)
	leaveService := services.NewLeaveService(leaveRepo, userRepo, hub)
	applicationService := services.NewApplicationService(applicationRepo, files, mailer, company)
	siteReportService := services.NewSiteReportService(siteReportRepo, userRepo, files)

	healthChecker := health.NewHealthChecker(pool, hub, "/")

	router := h.NewRouter(
		handlers.NewAuthHandler(userService),
		handlers.NewUserHandler(userService),
		handlers.NewTOTPHandler(totpService, userService),
		handlers.NewEmployeeHandler(employeeService),
		handlers.NewAttendanceHandler(attendanceService),
		handlers.NewPayrollHandler(payrollService),
		handlers.NewLeaveHandler(leaveService),
		handlers.NewApplicationHandler(applicationService),
		handlers.NewSiteReportHandler(siteReportService),
		handlers.NewUploadHandler(files),
		handlers.NewHealthHandler(healthChecker),
		hub,
		authMiddleware,
	)

	handler := middleware.PanicRecovery(middleware.AccessLog(middleware.NewCORS(cfg)(router)))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	stop, stopCleanup := context.WithCancel(context.Background())
	go pruneAttempts(stop, attemptRepo)

	go func() {
		log.Infof("Server running on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down...")
	stopCleanup()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Graceful shutdown failed: %v", err)
	}
}

// pruneAttempts drops 2FA attempts older than a day, once a day.
func pruneAttempts(ctx context.Context, repo *repositories.TwoFactorAttemptRepository) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.Prune(ctx, time.Now().Add(-24*time.Hour))
			if err != nil {
				logger.Default().Warnf("[2FA] attempt pruning failed: %v", err)
				continue
			}
			logger.Default().Debugf("[2FA] pruned %d old attempts", n)
		}
	}
}
