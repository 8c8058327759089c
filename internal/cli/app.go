package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"storefront/internal/admin"
	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/localstore"
	"storefront/internal/logging"
	"storefront/internal/notify"
	"storefront/internal/repository"
	"storefront/internal/repository/blob"
	mongostore "storefront/internal/repository/mongo"
	"storefront/internal/repository/postgres"
	"storefront/internal/service"
)

// app общие зависимости команд
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	db       *sql.DB
	mongo    *mongo.Client
	local    localstore.Store
	hub      *notify.Hub
	notifier notify.Notifier
	fixture  *catalog.Fixture

	products *service.ProductService
	// reviews таблица отзывов админки; backendReviews коллекция бэкенда
	reviews        *service.ReviewService
	backendReviews *service.ReviewService
	orders         *service.OrderService
	productRepo    repository.ProductRepository
	images         repository.ImageStore
}

// newApp без Mongo (withBackend=false) поднимает только таблицы товаров и
// отзывов; без DATABASE_URL они живут в памяти процесса.
func newApp(ctx context.Context, cfg *config.Config, withBackend bool) (*app, error) {
	a := &app{cfg: cfg, logger: logging.New(cfg.Log, os.Stderr)}

	fixture, err := catalog.LoadFixture()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	a.fixture = fixture

	var (
		productRepo repository.ProductRepository
		reviewRepo  repository.ReviewRepository
		tx          repository.TxManager
		mem         = repository.NewMemoryStore()
	)
	if cfg.Database.URL != "" {
		db, err := postgres.NewConnection(&cfg.Database)
		if err != nil {
			return nil, err
		}
		a.db = db
		productRepo, reviewRepo, tx = postgres.NewProductStore(db), postgres.NewReviewStore(db), postgres.NewTxManager(db)
	} else {
		a.logger.Warn("DATABASE_URL is not set, products and reviews are kept in memory")
		productRepo, reviewRepo, tx = mem, repository.NewMemoryReviews(mem), repository.NewMemoryTx(mem)
	}
	a.productRepo = productRepo
	a.products = service.NewProductService(productRepo, tx)
	a.reviews = service.NewReviewService(reviewRepo)

	if cfg.Storage.StateDir != "" {
		dir, err := localstore.NewDir(cfg.Storage.StateDir)
		if err != nil {
			a.Close(ctx)
			return nil, err
		}
		a.local = dir
	} else {
		a.local = localstore.NewMemory()
	}
	a.images = blob.NewFileStore(cfg.Storage.UploadsDir, cfg.Storage.PublicBaseURL)
	a.hub = notify.NewHub(a.logger)
	a.notifier = notify.Fanout{a.hub, notify.Log{Logger: a.logger}}

	if withBackend {
		client, db, err := mongostore.Connect(ctx, cfg.Mongo)
		if err != nil {
			a.Close(ctx)
			return nil, err
		}
		a.mongo = client
		a.orders = service.NewOrderService(mongostore.NewOrderStore(db))
		a.backendReviews = service.NewReviewService(mongostore.NewReviewStore(db))
		a.logger.Info("mongo connected", "database", cfg.Mongo.Database)
	}
	return a, nil
}

// catalogSource каталог витрины: встроенный или таблица products
func (a *app) catalogSource(ctx context.Context) (catalog.Source, error) {
	if a.cfg.Catalog.Source != "remote" {
		return a.fixture, nil
	}
	cats, err := a.fixture.Categories(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.NewRemoteSource(a.productRepo, cats), nil
}

func (a *app) productsPanel() *admin.ProductsPanel {
	return admin.NewProductsPanel(a.products, a.images, a.local, a.notifier, a.logger)
}

func (a *app) Close(ctx context.Context) {
	var errs []error
	if a.mongo != nil {
		errs = append(errs, a.mongo.Disconnect(ctx))
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	if err := errors.Join(errs...); err != nil {
		a.logger.Warn("close resources", "error", err)
	}
}
