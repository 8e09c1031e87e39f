package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/evlasenko/tutor_market/internal/app"
	"github.com/evlasenko/tutor_market/internal/config"
	"github.com/evlasenko/tutor_market/internal/controller/httpapi"
	"github.com/evlasenko/tutor_market/internal/repository"
	"github.com/evlasenko/tutor_market/internal/repository/base"
	"github.com/evlasenko/tutor_market/internal/schedule"
	"github.com/evlasenko/tutor_market/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create pool", zap.Error(err))
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, cfg.MigrationsDir, logger)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	migrator.Close()

	// Репозитории
	memberRepo := repository.NewMemberRepository(pool)
	profileRepo := repository.NewStudentProfileRepository(pool)
	assignmentRepo := repository.NewAssignmentRepository(pool)
	requestRepo := repository.NewRequestRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)
	enrollmentRepo := repository.NewEnrollmentRepository(pool)
	txManager := base.NewTxManager(pool)

	// Сервисы
	scheduleSvc := schedule.NewService(pool, logger)
	resolver := service.NewDelegationResolver(assignmentRepo, logger)
	assembler := service.NewViewAssembler(memberRepo, profileRepo, courseRepo)
	assignmentSvc := service.NewAssignmentService(
		assignmentRepo, enrollmentRepo, courseRepo, scheduleSvc, resolver, txManager, logger)
	requestSvc := service.NewRequestService(
		requestRepo, assignmentRepo, enrollmentRepo, scheduleSvc, memberRepo, resolver, assembler, txManager,
		service.RequestPolicy{RejectedBlocksNew: cfg.RejectedBlocksNew},
		logger,
		service.NewTeacherLinkResolver(memberRepo),
		service.NewCourseEnrollmentResolver(courseRepo),
	)
	rosterSvc := service.NewRosterService(assignmentRepo, resolver, assembler, logger)

	// HTTP
	fiberApp := fiber.New(fiber.Config{DisableStartupMessage: true})
	httpapi.Register(fiberApp, requestSvc, assignmentSvc, rosterSvc, logger)

	go func() {
		logger.Info("Starting HTTP server",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("environment", cfg.Environment),
		)
		if err := fiberApp.Listen(cfg.HTTPAddr); err != nil {
			logger.Fatal("HTTP server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")
	if err := fiberApp.Shutdown(); err != nil {
		logger.Error("Failed to shut down HTTP server", zap.Error(err))
	}
}
