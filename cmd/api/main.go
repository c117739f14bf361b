package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"admitdesk/internal/app"
	"admitdesk/internal/config"
	"admitdesk/internal/database"
	apphttp "admitdesk/internal/http"
	"admitdesk/internal/http/handlers"
	"admitdesk/internal/http/metrics"
	httpmw "admitdesk/internal/http/middleware"
	"admitdesk/internal/http/response"
	"admitdesk/internal/integration/razorpay"
	"admitdesk/internal/integration/twilio"
	"admitdesk/internal/mail"
	"admitdesk/internal/observability"
	"admitdesk/internal/pdf"
	"admitdesk/internal/repository/postgres"
	"admitdesk/internal/security"
)

func main() {
	cfg := config.Load()
	logger := observability.NewLogger()
	db := database.NewPostgres(database.PostgresConfig{
		DSN:             cfg.PostgresDSN,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxIdle:     cfg.DBConnMaxIdle,
		ConnMaxLifetime: cfg.DBConnMaxLife,
	})
	defer db.Close()
	database.EnsureSchema(db)

	userRepo := postgres.NewUserRepository(db)
	counterRepo := postgres.NewCounterRepository(db)
	departmentRepo := postgres.NewDepartmentRepository(db)
	applicationRepo := postgres.NewApplicationRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	auditRepo := postgres.NewAuditRepository(db)

	jwtProvider := security.NewJWTProvider(cfg.JWTSecret)
	razorpayClient := razorpay.NewClient(cfg.RazorpayBaseURL, cfg.RazorpayKeyID, cfg.RazorpayKeySecret, &http.Client{Timeout: 10 * time.Second})
	twilioClient := twilio.NewClient(cfg.TwilioBaseURL, cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber, cfg.TwilioWhatsAppNumber, &http.Client{Timeout: 10 * time.Second})
	mailer := mail.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.EmailFrom, cfg.EmailFromName)
	renderer := pdf.NewRenderer()

	userService := app.NewUserService(userRepo, auditRepo, jwtProvider, cfg.SessionTTL, cfg.AdminUIDs, logger)
	departmentService := app.NewDepartmentService(departmentRepo, auditRepo, logger)
	paymentService := app.NewPaymentService(razorpayClient, auditRepo, cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.ApplicationFee, logger)
	notificationService := app.NewNotificationService(notificationRepo, userRepo, auditRepo, mailer, twilioClient, logger)
	applicationService := app.NewApplicationService(applicationRepo, counterRepo, departmentRepo, userRepo, paymentService, notificationService, auditRepo, logger)

	var limiter httpmw.Limiter = httpmw.NewRateLimiter()
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer redisClient.Close()
		limiter = httpmw.NewRedisLimiter(redisClient)
	}

	userHandler := handlers.NewUserHandler(userService, limiter, cfg.VerifierInternalKey)
	applicationHandler := handlers.NewApplicationHandler(applicationService, limiter)
	departmentHandler := handlers.NewDepartmentHandler(departmentService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	paymentHandler := handlers.NewPaymentHandler(paymentService, limiter)
	pdfHandler := handlers.NewPDFHandler(applicationService, renderer)
	middleware := httpmw.NewAuthMiddleware(jwtProvider, userRepo)

	collector := metrics.NewCollector()
	response.SetErrorCollector(collector)

	router := apphttp.NewRouter(apphttp.RouterDependencies{
		UserHandler:         userHandler,
		ApplicationHandler:  applicationHandler,
		DepartmentHandler:   departmentHandler,
		NotificationHandler: notificationHandler,
		PaymentHandler:      paymentHandler,
		PDFHandler:          pdfHandler,
		MetricsHandler:      handlers.NewMetricsHandler(collector),
		AuthMiddleware:      middleware,
		Metrics:             collector,
		RequestTimeout:      cfg.RequestTimeout,
	})
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("API started on :" + cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}
