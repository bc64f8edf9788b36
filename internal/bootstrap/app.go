package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"smartrecommend-backend/internal/auth"
	"smartrecommend-backend/internal/billing"
	"smartrecommend-backend/internal/catalog"
	"smartrecommend-backend/internal/customers"
	"smartrecommend-backend/internal/events"
	"smartrecommend-backend/internal/merchants"
	"smartrecommend-backend/internal/orders"
	"smartrecommend-backend/internal/recommend"
	"smartrecommend-backend/internal/server"
	"smartrecommend-backend/internal/shared/config"
	"smartrecommend-backend/internal/shared/storage/db"
	"smartrecommend-backend/internal/shopify"
	"smartrecommend-backend/internal/syncer"
	"smartrecommend-backend/internal/tracking"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB

	MerchantsRepo merchants.Repo
	CatalogRepo   catalog.Repo
	OrdersRepo    orders.Repo
	CustomersRepo customers.Repo
	EventsRepo    events.Repo

	Engines         *recommend.Registry
	SyncService     *syncer.Service
	TrackingService *tracking.Service
	BillingService  *billing.Service
	Auth            *auth.ShopifyService

	RecommendHandler *recommend.Handler
	SyncHandler      *syncer.Handler
	TrackingHandler  *tracking.Handler
	BillingHandler   *billing.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg, DB: sqlDB}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:           app.Config,
		DBConnected:      app.DB != nil,
		Auth:             app.Auth,
		RecommendHandler: app.RecommendHandler,
		SyncHandler:      app.SyncHandler,
		TrackingHandler:  app.TrackingHandler,
		BillingHandler:   app.BillingHandler,
	})
	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: migrations failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildServices(app *App) {
	if app.DB != nil {
		app.MerchantsRepo = &merchants.PGRepo{DB: app.DB}
		app.CatalogRepo = &catalog.PGRepo{DB: app.DB}
		app.OrdersRepo = &orders.PGRepo{DB: app.DB}
		app.CustomersRepo = &customers.PGRepo{DB: app.DB}
		app.EventsRepo = &events.PGRepo{DB: app.DB}
	} else {
		app.MerchantsRepo = merchants.NewMemoryRepo()
		app.CatalogRepo = catalog.NewMemoryRepo()
		app.OrdersRepo = orders.NewMemoryRepo()
		app.CustomersRepo = customers.NewMemoryRepo()
		app.EventsRepo = events.NewMemoryRepo()
	}

	app.Engines = recommend.NewRegistry()
	app.SyncService = syncer.NewService(
		app.CatalogRepo,
		app.OrdersRepo,
		app.CustomersRepo,
		app.Engines,
		func(shop, accessToken string) syncer.PlatformClient {
			return shopify.NewClient(shop, accessToken, app.Config.ShopifyAPIVersion)
		},
	)
	app.SyncService.PageSize = app.Config.SyncPageSize

	app.TrackingService = tracking.NewService(app.EventsRepo)
	app.BillingService = billing.NewService(app.EventsRepo)
	app.Auth = auth.NewShopifyService(app.Config, app.MerchantsRepo)

	app.RecommendHandler = recommend.NewHandler(app.Engines)
	app.SyncHandler = syncer.NewHandler(app.SyncService, app.MerchantsRepo)
	app.TrackingHandler = tracking.NewHandler(app.TrackingService)
	app.BillingHandler = billing.NewHandler(app.BillingService)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
