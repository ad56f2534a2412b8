package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foodtruck_backend/internal/config"
	"foodtruck_backend/internal/database"
	"foodtruck_backend/internal/events"
	"foodtruck_backend/internal/payments"
	"foodtruck_backend/internal/repositories"
	"foodtruck_backend/internal/router"
	"foodtruck_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.InitLogger("info", "")
		utils.LogError(err, "Invalid configuration")
		os.Exit(1)
	}
	utils.InitLogger(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, blobs, closeStores, err := openStores(ctx, cfg)
	if err != nil {
		utils.LogError(err, "Failed to open storage", map[string]interface{}{"storage_driver": cfg.StorageDriver, "blob_driver": cfg.BlobDriver})
		os.Exit(1)
	}
	defer closeStores()

	publisher := openPublisher(ctx, cfg)
	defer publisher.Close()

	provider := payments.New(cfg.Payments)
	utils.LogInfo("Payment provider selected", map[string]interface{}{"provider": provider.Name()})

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(utils.GinLogger())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Admin-Key", utils.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{utils.RequestIDHeader}
	engine.Use(cors.New(corsConfig))

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	router.Setup(engine, router.Dependencies{
		Config:    cfg,
		Store:     store,
		Blobs:     blobs,
		Provider:  provider,
		Publisher: publisher,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.LogInfo("Server starting", map[string]interface{}{"port": cfg.Port})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.LogError(err, "Failed to start server")
			stop()
		}
	}()

	<-ctx.Done()
	utils.LogInfo("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.LogError(err, "Graceful shutdown failed")
	}
}

// openStores picks the document and blob backends named in cfg.
func openStores(ctx context.Context, cfg *config.Config) (repositories.DocumentStore, repositories.BlobStore, func(), error) {
	var (
		store   repositories.DocumentStore
		db      *sql.DB
		closers []func()
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	switch cfg.StorageDriver {
	case config.StoragePostgres:
		var err error
		db, err = database.InitDB(ctx, cfg.Postgres.DSN(), cfg.Postgres.SchemaPath)
		if err != nil {
			return nil, nil, nil, err
		}
		closers = append(closers, func() { _ = db.Close() })
		store = repositories.NewPostgresDocumentStore(db)
		utils.LogInfo("Database initialized", map[string]interface{}{"host": cfg.Postgres.Host, "db": cfg.Postgres.DBName})
	case config.StorageMongo:
		mdb, disconnect, err := database.ConnectMongo(ctx, cfg.Mongo.URI, cfg.Mongo.DB)
		if err != nil {
			return nil, nil, nil, err
		}
		closers = append(closers, disconnect)
		store = repositories.NewMongoDocumentStore(mdb)
		utils.LogInfo("MongoDB connected", map[string]interface{}{"db": cfg.Mongo.DB})
	default:
		utils.LogWarn("Using in-memory document store; data is lost on restart")
		store = repositories.NewMemoryDocumentStore()
	}
	store = repositories.WithTimeout(store, cfg.StoreTimeout)

	var blobs repositories.BlobStore
	switch cfg.BlobDriver {
	case config.BlobPostgres:
		blobs = repositories.NewPostgresBlobStore(db)
	case config.BlobFilesystem:
		fsBlobs, err := repositories.NewFilesystemBlobStore(cfg.BlobDir)
		if err != nil {
			closeAll()
			return nil, nil, nil, err
		}
		blobs = fsBlobs
	default:
		utils.LogWarn("Using in-memory blob store; images are lost on restart")
		blobs = repositories.NewMemoryBlobStore()
	}
	blobs = repositories.WithBlobTimeout(blobs, cfg.StoreTimeout)

	return store, blobs, closeAll, nil
}

func openPublisher(ctx context.Context, cfg *config.Config) events.OrderPublisher {
	if cfg.NATS.URL == "" {
		utils.LogInfo("NATS_URL not set; order events disabled")
		return events.NoopPublisher{}
	}
	pub, err := events.NewNatsPublisher(ctx, cfg.NATS.URL)
	if err != nil {
		// Events are informational; the API runs without them.
		utils.LogError(err, "NATS unavailable; order events disabled", map[string]interface{}{"url": cfg.NATS.URL})
		return events.NoopPublisher{}
	}
	return pub
}
