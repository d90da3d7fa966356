package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-access-api/internal/config"
	"github.com/noah-isme/campus-access-api/internal/database"
	"github.com/noah-isme/campus-access-api/internal/handler"
	"github.com/noah-isme/campus-access-api/internal/middleware"
	"github.com/noah-isme/campus-access-api/internal/models"
	"github.com/noah-isme/campus-access-api/internal/repository"
	"github.com/noah-isme/campus-access-api/internal/router"
	"github.com/noah-isme/campus-access-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Class{},
		&models.Sponsor{},
		&models.Session{},
		&models.Student{},
		&models.Payment{},
		&models.Scan{},
		&models.Counter{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	validate := validator.New(validator.WithRequiredStructEnabled())

	sessionRepo := repository.NewSessionRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	sponsorRepo := repository.NewSponsorRepository(db)
	classRepo := repository.NewClassRepository(db)
	scanRepo := repository.NewScanRepository(db)
	uow := repository.NewUnitOfWork(db)

	reconciler := service.NewReconciler(logger)

	sessionService := service.NewSessionService(sessionRepo, uow, reconciler, validate, logger)
	studentService := service.NewStudentService(studentRepo, classRepo, sponsorRepo, sessionRepo, uow, validate, logger)
	paymentService := service.NewPaymentService(paymentRepo, uow, validate, logger)
	sponsorService := service.NewSponsorService(sponsorRepo, uow, validate, logger)
	classService := service.NewClassService(classRepo, validate, logger)
	scanService := service.NewScanService(scanRepo, studentRepo, classRepo, logger)
	statsService := service.NewStatsService(classRepo, studentRepo, redisClient, cfg.StatsCacheTTL, logger)

	sessionHandler := handler.NewSessionHandler(sessionService, logger)
	studentHandler := handler.NewStudentHandler(studentService, statsService, logger)
	paymentHandler := handler.NewPaymentHandler(paymentService, logger)
	sponsorHandler := handler.NewSponsorHandler(sponsorService, logger)
	classHandler := handler.NewClassHandler(classService, logger)
	scanHandler := handler.NewScanHandler(scanService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		SessionHandler: sessionHandler,
		StudentHandler: studentHandler,
		PaymentHandler: paymentHandler,
		SponsorHandler: sponsorHandler,
		ClassHandler:   classHandler,
		ScanHandler:    scanHandler,
		JWTMiddleware:  middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
