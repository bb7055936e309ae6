package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"electric-backend/internal/auth"
	"electric-backend/internal/cache"
	"electric-backend/internal/config"
	"electric-backend/internal/database"
	"electric-backend/internal/db"
	"electric-backend/internal/handlers"
	"electric-backend/internal/health"
	appHTTP "electric-backend/internal/http"
	"electric-backend/internal/middleware"
	"electric-backend/internal/monitoring"
	"electric-backend/internal/repositories"
	"electric-backend/internal/services"
)

func main() {
	cfg := config.Load()

	pool := db.Connect(cfg)
	defer pool.Close()

	if err := cache.Init(); err != nil {
		log.Printf("[Redis] Cache unavailable: %v (login will use bcrypt only)", err)
	}

	migrationCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	migrator := database.NewMigrator(pool)
	if err := migrator.RunMigrations(migrationCtx); err != nil {
		cancel()
		log.Fatalf("Failed to run migrations: %v", err)
	}
	cancel()

	healthChecker := health.NewHealthChecker(pool)

	monServer := monitoring.NewServer(pool, 9090)
	go monServer.Start()

	jwtManager := auth.NewJWTManager(cfg)

	userRepo := repositories.NewUserRepository(pool)
	messageRepo := repositories.NewMessageRepository(pool)
	transactionRepo := repositories.NewOnlineTransactionRepository(pool)

	userService := services.NewUserService(userRepo, jwtManager, cfg)
	customerService := services.NewCustomerService(userRepo)
	chatService := services.NewChatService(messageRepo, userRepo)
	chatService.AddNotifier(monServer)
	totpService := services.NewTOTPService(userRepo, jwtManager)
	razorpayService := services.NewRazorpayService(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret, transactionRepo, userRepo, customerService)
	reportService := services.NewReportService(userRepo)

	authHandler := handlers.NewAuthHandler(userService)
	customerHandler := handlers.NewCustomerHandler(customerService)
	chatHandler := handlers.NewChatHandler(chatService)
	totpHandler := handlers.NewTOTPHandler(totpService)
	razorpayHandler := handlers.NewRazorpayHandler(razorpayService)
	reportHandler := handlers.NewReportHandler(reportService)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)

	router := appHTTP.NewRouter(
		authHandler,
		customerHandler,
		chatHandler,
		totpHandler,
		razorpayHandler,
		reportHandler,
		healthHandler,
		authMiddleware,
	)

	corsMiddleware := middleware.NewCORS(cfg)
	var handler http.Handler = router
	handler = middleware.PanicRecovery(middleware.MetricsMiddleware(corsMiddleware(handler)))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server running on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
