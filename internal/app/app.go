package app

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/AnupriyaSaxena28/Verify-AI/internal/common"
	"github.com/AnupriyaSaxena28/Verify-AI/internal/handlers"
	"github.com/AnupriyaSaxena28/Verify-AI/internal/interfaces"
	"github.com/AnupriyaSaxena28/Verify-AI/internal/search"
	"github.com/AnupriyaSaxena28/Verify-AI/internal/services/auth"
	"github.com/AnupriyaSaxena28/Verify-AI/internal/services/evidence"
	"github.com/AnupriyaSaxena28/Verify-AI/internal/services/history"
	"github.com/AnupriyaSaxena28/Verify-AI/internal/services/llm"
	"github.com/AnupriyaSaxena28/Verify-AI/internal/services/maintenance"
	"github.com/AnupriyaSaxena28/Verify-AI/internal/services/verification"
	"github.com/AnupriyaSaxena28/Verify-AI/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// Storage (nil when history is disabled)
	DB             *badger.BadgerDB
	HistoryStorage *badger.HistoryStorage
	Maintenance    *maintenance.Service

	// Verification pipeline collaborators
	SearchClient    *search.Client
	Fetcher         *evidence.Fetcher
	GroundedGateway *llm.GeminiGateway
	ImageGateway    *llm.ChatGateway

	// Services
	VerificationService interfaces.VerificationService
	HistoryService      interfaces.HistoryService
	AuthService         *auth.Service

	// HTTP handlers
	APIHandler     *handlers.APIHandler
	VerifyHandler  *handlers.VerifyHandler
	HistoryHandler *handlers.HistoryHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := app.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := app.initServices(); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.initHandlers()

	logger.Info().
		Bool("history", app.HistoryService != nil).
		Bool("auth", app.AuthService.Enabled()).
		Bool("search", app.SearchClient.Configured()).
		Bool("grounded_gateway", app.GroundedGateway.Configured()).
		Bool("image_gateway", app.ImageGateway.Configured()).
		Msg("Application initialized")

	return app, nil
}

// initDatabase opens the history store when history is enabled
func (a *App) initDatabase() error {
	if !a.Config.History.Enabled {
		a.Logger.Info().Msg("History disabled - results will not be persisted")
		return nil
	}

	db, err := badger.NewBadgerDB(a.Logger, &a.Config.Storage.Badger)
	if err != nil {
		return err
	}
	a.DB = db
	a.HistoryStorage = badger.NewHistoryStorage(db, a.Logger)

	a.Maintenance = maintenance.NewService(a.HistoryStorage, a.Config.History.Maintenance,
		a.Config.History.RetentionDays, a.Logger)
	if err := a.Maintenance.Start(); err != nil {
		a.HistoryStorage.Close()
		return fmt.Errorf("failed to start history maintenance: %w", err)
	}

	a.Logger.Info().Str("path", a.Config.Storage.Badger.Path).Msg("History storage initialized")
	return nil
}

// initServices builds the verification pipeline and its collaborators
func (a *App) initServices() error {
	cfg := a.Config

	a.SearchClient = search.NewClient(cfg.Search.APIKey, cfg.Search.EngineID,
		search.WithBaseURL(cfg.Search.BaseURL),
		search.WithRateLimit(cfg.Search.RateLimit),
		search.WithLogger(a.Logger),
	)

	a.Fetcher = evidence.NewFetcher(a.SearchClient, a.Logger,
		evidence.WithUserAgent(cfg.Fetch.UserAgent),
		evidence.WithMaxBodyBytes(cfg.Fetch.MaxBodyBytes),
		evidence.WithTimeouts(
			common.Duration(cfg.Verification.SearchTimeout, evidence.DefaultSearchTimeout),
			common.Duration(cfg.Verification.FetchTimeout, evidence.DefaultFetchTimeout),
		),
	)

	grounded, err := llm.NewGeminiGateway(context.Background(), cfg, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create grounded gateway: %w", err)
	}
	a.GroundedGateway = grounded
	a.ImageGateway = llm.NewChatGateway(cfg, a.Logger)

	a.VerificationService = verification.NewService(a.Fetcher, a.GroundedGateway, a.ImageGateway, a.Logger)

	if a.HistoryStorage != nil {
		a.HistoryService = history.NewService(a.HistoryStorage, a.Logger,
			common.Duration(cfg.History.RecordTimeout, history.DefaultRecordTimeout))
	}

	a.AuthService = auth.NewService(cfg.Auth.JWTSecret, a.Logger)
	return nil
}

func (a *App) initHandlers() {
	a.APIHandler = handlers.NewAPIHandler(a.Logger)
	a.VerifyHandler = handlers.NewVerifyHandler(a.VerificationService, a.HistoryService, a.Logger)
	if a.HistoryService != nil {
		a.HistoryHandler = handlers.NewHistoryHandler(a.HistoryService, a.Logger)
	}
}

// historyDrainTimeout bounds how long Close waits for pending history writes
const historyDrainTimeout = 5 * time.Second

// Close waits for pending history writes, then releases storage
func (a *App) Close() error {
	if a.Maintenance != nil {
		a.Maintenance.Stop()
	}
	if a.HistoryStorage != nil {
		if !common.WaitForGoroutines(historyDrainTimeout) {
			a.Logger.Warn().Dur("timeout", historyDrainTimeout).Msg("Pending history writes did not finish before shutdown")
		}
		if err := a.HistoryStorage.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
		a.Logger.Info().Msg("Storage closed")
	}
	return nil
}
