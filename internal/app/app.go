package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"AplusBackend/internal/config"
	"AplusBackend/internal/extraction"
	"AplusBackend/internal/httpapi"
	"AplusBackend/internal/infrastructure/imaging"
	"AplusBackend/internal/infrastructure/objectstore"
	"AplusBackend/internal/infrastructure/parser"
	"AplusBackend/internal/infrastructure/pdfmeta"
	"AplusBackend/internal/infrastructure/recognition"
	"AplusBackend/internal/infrastructure/staging"
	"AplusBackend/internal/infrastructure/storage"
	"AplusBackend/internal/logging"
	"AplusBackend/internal/ports"
	"AplusBackend/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	db       *sql.DB
	pipeline *usecase.Pipeline
	server   *httpapi.Server
	closers  []io.Closer
}

// New builds the application. Missing optional collaborators (database, object
// store, recognition, image backend) only disable the features that need them.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}
	a := &Application{cfg: cfg, logger: baseLogger.With("component", "app")}

	a.db = a.openDatabase(ctx)

	store, err := objectstore.New(ctx, cfg.Storage, baseLogger)
	if err != nil {
		return nil, fmt.Errorf("object store: %w", err)
	}
	if !store.Enabled() {
		a.logger.Warn("object storage credentials missing, artifacts will not be uploaded")
	}

	recognizer, err := a.newRecognizer(ctx)
	if err != nil {
		a.logger.Warn("document recognition disabled", "err", err)
	}

	registry := extraction.NewRegistry()
	registry.Register(parser.NewDocumentExtractor(recognizer, baseLogger.With("component", "extractor.document")))
	registry.Register(parser.NewWebExtractor(nil, parser.WebOptions{
		UserAgent: cfg.Web.UserAgent,
		Timeout:   cfg.Web.Timeout,
		Readable:  cfg.Web.Readable,
	}, baseLogger.With("component", "extractor.web")))

	deps := usecase.PipelineDeps{
		Strategies: registry,
		Artifacts:  store,
		Stager:     staging.NewDisk(cfg.Ingestion.UploadDir),
		Inspector:  pdfmeta.Inspector{},
		Logger:     baseLogger,
		Workers:    cfg.Ingestion.Workers,
	}

	var plans ports.StudyPlanRepository
	if a.db != nil {
		repo := storage.NewSQLRepository(a.db, cfg.Database.Driver)
		plans = repo
		deps.Materials = repo
	}
	a.pipeline = usecase.NewPipeline(deps)

	var images ports.ImageGenerator
	if cfg.Imaging.Endpoint != "" {
		images = imaging.NewClient(cfg.Imaging.Endpoint, cfg.Imaging.APIKey, cfg.Imaging.Timeout)
	} else {
		a.logger.Warn("image generation endpoint not configured")
	}

	var imageStore ports.ObjectPutter
	if store.Enabled() {
		imageStore = store
	}

	a.server = httpapi.NewServer(httpapi.Deps{
		Pipeline:           a.pipeline,
		Plans:              plans,
		Images:             images,
		ImageStore:         imageStore,
		ImageDisk:          staging.NewDisk(cfg.Imaging.OutputDir),
		Logger:             baseLogger,
		MaxMultipartMemory: cfg.Server.MaxMultipartMemory << 20,
		AllowedOrigins:     cfg.Server.AllowedOrigins,
	})

	return a, nil
}

// openDatabase returns nil when the database is not configured or unreachable.
func (a *Application) openDatabase(ctx context.Context) *sql.DB {
	dbCfg := a.cfg.Database
	if dbCfg.DSN == "" {
		a.logger.Warn("database dsn not configured, study plan endpoints disabled")
		return nil
	}

	db, err := sql.Open(dbCfg.Driver, dbCfg.DSN)
	if err != nil {
		a.logger.Error("open database", "driver", dbCfg.Driver, "err", err)
		return nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		a.logger.Error("ping database", "driver", dbCfg.Driver, "err", err)
		_ = db.Close()
		return nil
	}

	if dbCfg.AutoMigrate {
		if err := storage.EnsureSchema(ctx, db, dbCfg.Driver); err != nil {
			a.logger.Error("migrate database", "err", err)
			_ = db.Close()
			return nil
		}
	}
	return db
}

func (a *Application) newRecognizer(ctx context.Context) (ports.Recognizer, error) {
	rc := a.cfg.Recognition
	if !rc.Enabled() {
		return nil, errors.New("recognition api key not configured")
	}

	switch rc.Provider {
	case config.ProviderGemini:
		rec, err := recognition.NewGeminiRecognizer(ctx, rc)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, rec)
		return rec, nil
	case config.ProviderChat, "":
		return recognition.NewChatRecognizer(rc), nil
	default:
		return nil, fmt.Errorf("unknown recognition provider %q", rc.Provider)
	}
}

// Pipeline exposes the ingestion pipeline for one-shot runs.
func (a *Application) Pipeline() *usecase.Pipeline {
	return a.pipeline
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.cfg.Server.Addr(),
		Handler:           a.server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	a.logger.Info("shutting down http server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Close releases the database and client resources.
func (a *Application) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}
