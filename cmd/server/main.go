package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/rohitpai/travel-desk/internal/application/service"
	"github.com/rohitpai/travel-desk/internal/config"
	"github.com/rohitpai/travel-desk/internal/infrastructure/external/openai"
	"github.com/rohitpai/travel-desk/internal/infrastructure/persistence/repository"
	"github.com/rohitpai/travel-desk/internal/infrastructure/persistence/sqlite"
	"github.com/rohitpai/travel-desk/internal/infrastructure/tools"
	httpserver "github.com/rohitpai/travel-desk/internal/interfaces/http"
	"github.com/rohitpai/travel-desk/internal/report"
	"github.com/rohitpai/travel-desk/pkg/database"
	"github.com/rohitpai/travel-desk/pkg/utils"
)

func main() {
	// Local .env files never override values already set in the environment.
	_ = gotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Travel Desk",
		zap.Int("port", cfg.Server.Port),
		zap.String("model", cfg.OpenAI.Model))

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	prompts, err := openai.LoadPrompts(cfg.OpenAI.PromptsPath)
	if err != nil {
		logger.Fatal("Failed to load prompts", zap.Error(err))
	}

	// Repositories
	indentRepo := repository.NewIndentRepository(db.DB, logger)
	userRepo := repository.NewUserRepository(db.DB, logger)
	bookmarkRepo := repository.NewBookmarkRepository(db.DB, logger)
	approvalRepo := repository.NewApprovalRepository(db.DB, logger)
	hotelRepo := repository.NewHotelRepository(db.DB, logger)

	txManager := sqlite.NewDB(db.DB, logger)
	serviceLogger := &zapLoggerAdapter{logger: logger}

	// Application services
	guard := service.NewDuplicateGuard(indentRepo, serviceLogger)
	indentService := service.NewIndentService(indentRepo, userRepo, approvalRepo, guard, txManager, serviceLogger)
	bookmarkService := service.NewBookmarkService(bookmarkRepo, serviceLogger)

	temperature := cfg.OpenAI.Temperature
	if prompts.BookingAssistant.Temperature > 0 {
		temperature = prompts.BookingAssistant.Temperature
	}
	chatModel := openai.NewChatModel(cfg.OpenAI.APIKey, cfg.OpenAI.Model, temperature, logger)

	registry := tools.NewRegistry(
		tools.NewSearchFlightsTool(logger),
		tools.NewBookFlightTool(indentService, logger),
		tools.NewSearchHotelsTool(hotelRepo, indentService, logger),
		tools.NewBookHotelTool(hotelRepo, indentService, logger),
	)

	sessions := service.NewSessionStore(cfg.Session.Timeout, prompts.BookingAssistant.System)
	chatService := service.NewChatService(
		sessions,
		indentService,
		chatModel,
		registry,
		cfg.OpenAI.Timeout,
		cfg.OpenAI.ToolTimeout,
		serviceLogger,
	)

	exporter := report.NewIndentExporter(logger)

	server := httpserver.NewServer(
		httpserver.ServerConfig{
			Host:         cfg.Server.Host,
			Port:         cfg.Server.Port,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		indentService,
		bookmarkService,
		chatService,
		exporter,
		serviceLogger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	logger.Info("Travel Desk stopped")
}

// zapLoggerAdapter adapts zap.Logger to the service.Logger interface.
type zapLoggerAdapter struct {
	logger *zap.Logger
}

func (a *zapLoggerAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Info(msg, toZapFields(keysAndValues...)...)
}

func (a *zapLoggerAdapter) Error(msg string, keysAndValues ...interface{}) {
	a.logger.Error(msg, toZapFields(keysAndValues...)...)
}

func toZapFields(keysAndValues ...interface{}) []zap.Field {
	fields := make([]zap.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, zap.Any(key, keysAndValues[i+1]))
	}
	return fields
}
