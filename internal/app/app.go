package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/cart-backend/internal/cfg"
	v1Grpc "github.com/DRSN-tech/cart-backend/internal/delivery/v1/grpc"
	v1Http "github.com/DRSN-tech/cart-backend/internal/delivery/v1/http"
	"github.com/DRSN-tech/cart-backend/internal/infrastructure/cartsync"
	"github.com/DRSN-tech/cart-backend/internal/infrastructure/kafka"
	"github.com/DRSN-tech/cart-backend/internal/infrastructure/seed"
	s3Repo "github.com/DRSN-tech/cart-backend/internal/repository/minio"
	"github.com/DRSN-tech/cart-backend/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/cart-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/cart-backend/internal/repository/redis"
	redisConv "github.com/DRSN-tech/cart-backend/internal/repository/redis/converter"
	"github.com/DRSN-tech/cart-backend/internal/usecase"
	"github.com/DRSN-tech/cart-backend/pkg/clients"
	"github.com/DRSN-tech/cart-backend/pkg/closer"
	"github.com/DRSN-tech/cart-backend/pkg/e"
	"github.com/DRSN-tech/cart-backend/pkg/jitter"
	"github.com/DRSN-tech/cart-backend/pkg/logger"
	"github.com/DRSN-tech/cart-backend/pkg/postgres"
	"github.com/DRSN-tech/cart-backend/pkg/tr"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout = 15 * time.Second
	startupTimeout  = 30 * time.Second
)

// App владеет всеми зависимостями сервиса и их жизненным циклом.
type App struct {
	cfg    *config.Config
	logger logger.Logger
	closer *closer.Closer

	catalogUC *usecase.CatalogUseCase
	cartUC    *usecase.CartUseCase
	persister *cartsync.Persister
	worker    *kafka.OutboxWorker
	httpSrv   *v1Http.Server
	grpcSrv   *v1Grpc.GRPCServer
}

// NewApp собирает приложение. При ошибке уже открытые ресурсы закрываются.
func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	a := &App{
		cfg:    cfg,
		logger: log,
		closer: closer.NewCloser(0),
	}

	if err := a.init(); err != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if cerr := a.closer.Close(ctx); cerr != nil {
			log.Warnf("cleanup after failed start: %v", cerr)
		}
		return nil, err
	}

	return a, nil
}

func (a *App) init() error {
	cfg := a.cfg

	db, err := initPGDB(a.logger, cfg)
	if err != nil {
		return err
	}
	a.closer.AddFunc("postgres", db.Close)

	productRepo := pgdb.NewProductRepo(db.Pool, pgdbConv.ProductConverter{})
	categoryRepo := pgdb.NewCategoryRepo(db.Pool, pgdbConv.CategoryConverter{})
	orderRepo := pgdb.NewOrderRepo(db.Pool, pgdbConv.OrderConverter{})
	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, pgdbConv.OutboxEventConverter{}, cfg.Kafka.StaleAfter)
	txManager := tr.NewManager(db.Pool)

	redisClient := clients.NewRedisClient(cfg.Redis)
	a.closer.Add("redis", redisClient.Close)

	redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer redisCancel()
	if err := redisClient.Ping(redisCtx); err != nil {
		a.logger.Errorf(err, "failed to connect to redis")
		return e.Wrap(whereami.WhereAmI(), err)
	}

	cacheRepo := redis.NewCacheRepo(redisClient, redisConv.ProductConverter{}, cfg.Redis, a.logger)
	cartRepo := redis.NewCartRepo(redisClient, redisConv.CartConverter{}, cfg.Redis)
	notifier := redis.NewCartNotifier(redisClient, cfg.Redis)

	minioClient, err := clients.NewMinIOClient(cfg.Minio)
	if err != nil {
		a.logger.Errorf(err, "failed to initialize minio client")
		return e.Wrap(whereami.WhereAmI(), err)
	}

	minioCtx, minioCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer minioCancel()
	if err := clients.EnsureBucket(minioCtx, minioClient, cfg.Minio.BucketName); err != nil {
		a.logger.Errorf(err, "failed to initialize MinIO bucket")
		return e.Wrap(whereami.WhereAmI(), err)
	}
	imageRepo := s3Repo.NewImageRepo(minioClient, cfg.Minio)

	a.catalogUC = usecase.NewCatalogUC(productRepo, categoryRepo, cacheRepo, imageRepo, txManager, a.logger)
	a.closer.AddFunc("catalog cache writes", a.catalogUC.Wait)

	if err := a.seedCatalog(); err != nil {
		return err
	}

	a.persister = cartsync.NewPersister(cartRepo, a.logger, jitter.Policy{
		Attempts: cfg.Cart.PersistRetries,
		Base:     cfg.Cart.PersistBaseBackoff,
		Max:      cfg.Cart.PersistMaxBackoff,
		Factor:   0.2,
	}, cfg.Cart.PersistTimeout)
	a.closer.Add("cart persister", a.persister.Flush)

	a.cartUC = usecase.NewCartUC(a.catalogUC, cartRepo, a.persister, notifier, a.logger, cfg.Cart.SessionIdleTTL)
	orderUC := usecase.NewOrderUC(a.cartUC, orderRepo, outboxRepo, txManager, a.logger)

	producer := kafka.NewProducer(a.logger, cfg.Kafka)
	a.closer.Add("kafka producer", func(context.Context) error { return producer.Close() })

	// Без топика заказы всё равно принимаются: события ждут в outbox.
	if err := producer.EnsureTopic(10 * time.Second); err != nil {
		a.logger.Warnf("kafka topic %s is not ready, outbox events will wait: %v", cfg.Kafka.Topic, err)
	}

	a.worker = kafka.NewOutboxWorker(outboxRepo, a.logger, producer, db.Dsn, cfg.Kafka.BatchLimit, cfg.Kafka.PollInterval)
	a.closer.AddFunc("outbox worker", a.worker.Stop)

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, a.logger, cfg.Http.SwaggerURL)
	router.Init(a.catalogUC, a.cartUC, orderUC, map[string]v1Http.HealthCheck{
		"postgres": db.Ping,
		"redis":    redisClient.Ping,
	})
	a.httpSrv = v1Http.NewServer(r, cfg.Http)

	a.grpcSrv = v1Grpc.NewGRPCServer(cfg.Grpc, a.logger)
	a.grpcSrv.RegisterServices(a.cartUC)

	a.closer.Add("grpc server", a.grpcSrv.Stop)
	a.closer.Add("http server", a.httpSrv.Stop)

	return nil
}

func (a *App) seedCatalog() error {
	catalog, err := seed.LoadCatalog(a.cfg.Catalog.SeedPath)
	if err != nil {
		a.logger.Errorf(err, "failed to load catalog from %s", a.cfg.Catalog.SeedPath)
		return e.Wrap(whereami.WhereAmI(), err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	if err := a.catalogUC.SeedCatalog(ctx, catalog); err != nil {
		a.logger.Errorf(err, "failed to seed catalog")
		return e.Wrap(whereami.WhereAmI(), err)
	}

	a.logger.Infof("Catalog seeded: %d categories, %d products", len(catalog.Categories), len(catalog.Products))
	return nil
}

// Run блокируется до сигнала остановки или падения одного из компонентов.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return a.persister.Run(gctx) })
	g.Go(func() error { return a.cartUC.RunEviction(gctx) })
	a.worker.Start(gctx)

	g.Go(func() error {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil {
			a.logger.Errorf(err, "HTTP server failed")
			return e.Wrap("http server", err)
		}
		return nil
	})

	g.Go(func() error {
		a.logger.Infof("gRPC server starting on %s:%s", a.cfg.Grpc.NetworkMode, a.cfg.Grpc.Port)
		if err := a.grpcSrv.Start(); err != nil {
			a.logger.Errorf(err, "gRPC server failed")
			return e.Wrap("grpc server", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		if ctx.Err() != nil {
			a.logger.Infof("Received shutdown signal, stopping gracefully...")
		}
		return a.shutdown()
	})

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		a.logger.Errorf(err, "application stopped with error")
		return err
	}

	a.logger.Infof("Application shutdown complete")
	return nil
}

// shutdown закрывает ресурсы в порядке, обратном созданию.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.closer.Close(ctx); err != nil {
		a.logger.Warnf("%v", err)
	}
	return nil
}

func initPGDB(logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		db.Close()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
