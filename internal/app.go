package internal

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/firs-iln/gkh-bot/internal/adapters/dadata"
	"github.com/firs-iln/gkh-bot/internal/adapters/doccapture"
	"github.com/firs-iln/gkh-bot/internal/adapters/gisgkhfetcher"
	logger_adapter "github.com/firs-iln/gkh-bot/internal/adapters/logger"
	rabbitmq_adapter "github.com/firs-iln/gkh-bot/internal/adapters/rabbitmq"
	"github.com/firs-iln/gkh-bot/internal/adapters/rest"
	"github.com/firs-iln/gkh-bot/internal/adapters/tablestore"
	"github.com/firs-iln/gkh-bot/internal/configs"
	"github.com/firs-iln/gkh-bot/internal/constants"
	"github.com/firs-iln/gkh-bot/internal/core/domain"
	"github.com/firs-iln/gkh-bot/internal/core/port"
	"github.com/firs-iln/gkh-bot/internal/core/usecase"
	"github.com/firs-iln/gkh-bot/pkg/postgres"
	"github.com/firs-iln/gkh-bot/pkg/rabbitmq/rabbitmq_producer"
)

// App - структура приложения
type App struct {
	config         *configs.AppConfig
	dbPool         *pgxpool.Pool
	apiServer      *rest.Server
	eventsProducer *rabbitmq_producer.Publisher
	fluentClient   *fluent.Fluent
	logger         port.LoggerPort
}

// NewApp создает новый экземпляр приложения.
// Это "Composition Root", где все зависимости создаются и связываются
func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- 1. ИНИЦИАЛИЗАЦИЯ ЛОГГЕРОВ ---
	var activeLoggers []port.LoggerPort

	slogCfg := logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		IsJSON:   false, // текстовый формат
		UseColor: true,
	}
	stdoutLogger := logger_adapter.NewSlogAdapter(slogCfg)
	activeLoggers = append(activeLoggers, stdoutLogger)

	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = logger_adapter.NewFluentClient(logger_adapter.FluentConfig{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{
		"service_name": appConfig.AppName,
	})

	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	// --- 2. ТАБЛИЧНОЕ ХРАНИЛИЩЕ ---
	var dbPool *pgxpool.Pool
	var store port.TableStorePort

	switch appConfig.Store.Backend {
	case "postgres":
		dbPool, err = postgres.NewClient(context.Background(), postgres.Config{DatabaseURL: appConfig.Store.DatabaseURL})
		if err != nil {
			appLogger.Error("Failed to connect to PostgreSQL", err, nil)
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		appLogger.Info("Successfully connected to PostgreSQL pool!", nil)

		pgStore, err := tablestore.NewPostgresStore(dbPool)
		if err != nil {
			dbPool.Close()
			return nil, fmt.Errorf("failed to create postgres table store: %w", err)
		}
		if err := pgStore.EnsureSchema(context.Background()); err != nil {
			dbPool.Close()
			return nil, fmt.Errorf("failed to ensure table store schema: %w", err)
		}
		store = pgStore
	case "excel":
		excelStore, err := tablestore.NewExcelStore(appConfig.Store.WorkbookPath, map[string][]string{
			port.TableBuildings:     domain.BuildingColumns,
			port.TableOrganizations: domain.OrganizationColumns,
			port.TableRooms:         domain.RoomColumns,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open workbook table store: %w", err)
		}
		store = excelStore
	default:
		return nil, fmt.Errorf("unknown store backend %q", appConfig.Store.Backend)
	}
	appLogger.Info("Table store initialized.", port.Fields{"backend": appConfig.Store.Backend})

	// --- 3. ИСХОДЯЩИЕ АДАПТЕРЫ ---
	fetcherLogger := baseLogger.WithFields(port.Fields{"component": "gisgkh_fetcher"})
	fetcher, err := gisgkhfetcher.NewGisGkhFetcherAdapter(fetcherLogger)
	if err != nil {
		if dbPool != nil {
			dbPool.Close()
		}
		return nil, fmt.Errorf("failed to create portal fetcher: %w", err)
	}

	enricherLogger := baseLogger.WithFields(port.Fields{"component": "dadata"})
	enricher, err := dadata.NewClient(dadata.Config{
		Token:  appConfig.Dadata.Token,
		Secret: appConfig.Dadata.Secret,
	}, enricherLogger)
	if err != nil {
		if dbPool != nil {
			dbPool.Close()
		}
		return nil, fmt.Errorf("failed to create dadata client: %w", err)
	}

	captureClient := doccapture.NewClient(appConfig.Capture.URL)

	var eventsProducer *rabbitmq_producer.Publisher
	var collectionEvents port.CollectionEventsPort
	if appConfig.RabbitMQ.Enabled {
		eventsProducer, err = rabbitmq_producer.NewPublisher(rabbitmq_producer.Config{
			URL:             appConfig.RabbitMQ.URL,
			ExchangeName:    constants.EventsExchange,
			ExchangeType:    "direct",
			DurableExchange: true,
		})
		if err != nil {
			if dbPool != nil {
				dbPool.Close()
			}
			return nil, fmt.Errorf("failed to create event producer: %w", err)
		}

		collectionEvents, err = rabbitmq_adapter.NewCollectionEventsPublisher(eventsProducer, constants.RoutingKeyCollectionEvents)
		if err != nil {
			eventsProducer.Close()
			if dbPool != nil {
				dbPool.Close()
			}
			return nil, fmt.Errorf("failed to create collection events publisher: %w", err)
		}
		appLogger.Info("RabbitMQ Event Producer initialized.", nil)
	}

	appLogger.Info("All outgoing adapters initialized.", nil)

	// --- 4. USE CASES (ядро бизнес-логики) ---
	orgsUC := usecase.NewResolveOrganizationUseCase(fetcher, enricher, store,
		baseLogger.WithFields(port.Fields{"component": "resolve_organization"}),
		constants.OrgFetchCooldown)
	buildingsUC := usecase.NewResolveBuildingUseCase(fetcher, enricher, store, orgsUC,
		baseLogger.WithFields(port.Fields{"component": "resolve_building"}))
	roomsUC := usecase.NewCollectRoomsUseCase(fetcher, enricher, store, collectionEvents,
		baseLogger.WithFields(port.Fields{"component": "collect_rooms"}),
		constants.RoomFetchCooldown, constants.RunningPollPeriod)
	documentsUC := usecase.NewCaptureDocumentUseCase(buildingsUC, captureClient,
		baseLogger.WithFields(port.Fields{"component": "capture_document"}))

	appLogger.Info("All use cases initialized.", nil)

	// --- 5. REST API ---
	apiHandlers := rest.NewRegistryHandlers(buildingsUC, orgsUC, roomsUC, documentsUC)
	apiServer := rest.NewServer(appConfig.Rest.PORT, apiHandlers, baseLogger)
	appLogger.Info("REST API server configured.", nil)

	return &App{
		config:         appConfig,
		dbPool:         dbPool,
		apiServer:      apiServer,
		eventsProducer: eventsProducer,
		fluentClient:   fluentClient,
		logger:         appLogger,
	}, nil
}

// Run запускает все компоненты приложения и управляет их жизненным циклом
func (a *App) Run() error {
	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		if a.apiServer != nil {
			if err := a.apiServer.Stop(context.Background()); err != nil {
				a.logger.Error("Error during API server shutdown", err, nil)
			}
		}

		if a.eventsProducer != nil {
			if err := a.eventsProducer.Close(); err != nil {
				a.logger.Error("Error closing event producer", err, nil)
			}
		}

		if a.dbPool != nil {
			a.dbPool.Close()
			a.logger.Info("PostgreSQL pool closed.", nil)
		}

		a.logger.Info("Application shut down gracefully.", nil)

		if a.fluentClient != nil {
			if err := a.fluentClient.Close(); err != nil {
				// Логируем в stdout, так как fluent может быть уже недоступен
				fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
			}
		}
	}()

	a.logger.Info("Application is starting...", nil)

	errorsCh := make(chan error, 1)

	go func() {
		a.logger.Info("Starting HTTP server...", port.Fields{"port": a.config.Rest.PORT})
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			errorsCh <- fmt.Errorf("failed to start HTTP server: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Info("Application running. Waiting for signals or server error...", nil)
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case err := <-errorsCh:
		a.logger.Error("A critical component failed, shutting down", err, nil)
	}

	return nil
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
