package app

import (
	"context"
	"database/sql"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/adarsh180/accidentaware/configs"
	"github.com/adarsh180/accidentaware/internal/adapter/cache"
	"github.com/adarsh180/accidentaware/internal/adapter/gateway"
	apphttp "github.com/adarsh180/accidentaware/internal/adapter/http"
	"github.com/adarsh180/accidentaware/internal/adapter/http/middleware"
	"github.com/adarsh180/accidentaware/internal/adapter/kafka"
	"github.com/adarsh180/accidentaware/internal/adapter/queue"
	"github.com/adarsh180/accidentaware/internal/adapter/repo"
	"github.com/adarsh180/accidentaware/internal/cart"
	"github.com/adarsh180/accidentaware/internal/logging"
	"github.com/adarsh180/accidentaware/internal/security"
	"github.com/adarsh180/accidentaware/internal/usecase"
)

type App struct {
	Router *gin.Engine
}

func InitWithConfig(cfg configs.Config) (*App, func(), error) {
	log := logging.Init("commerce-api", cfg.App.LogFile, cfg.App.LogLevel)
	log.Info("starting up")

	// MySQL
	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		return nil, nil, err
	}
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)
	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = db.PingContext(ctx)
	cancel()
	if err != nil {
		return nil, nil, err
	}

	// Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, nil, err
	}

	// RabbitMQ
	conn, err := amqp.Dial(cfg.Rabbit.URL)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, nil, err
	}
	producer, err := queue.NewRabbitProducer(ch, cfg.Rabbit.Exchange)
	if err != nil {
		return nil, nil, err
	}

	// Infra
	orderRepo := repo.NewMySQLOrderRepo(db)
	outboxRepo := repo.NewMySQLOutboxRepo(db)
	userRepo := repo.NewMySQLUserRepo(db)
	idem := cache.NewRedisIdempotencyStore(rdb, cfg.Idempotency.TTL)
	statusCache := cache.NewRedisStatusCache(rdb, cfg.Cache.StatusTTL)
	snaps := cache.NewRedisSnapshotStore(rdb, cfg.Cart.SnapshotTTL)
	carts := cart.NewManager(snaps)

	verifier, err := security.NewPaymentVerifier(cfg.Razorpay.KeySecret)
	if err != nil {
		return nil, nil, err
	}
	gw := gateway.NewRazorpayClient(cfg.Razorpay.BaseURL, cfg.Razorpay.KeyID,
		cfg.Razorpay.KeySecret, cfg.Razorpay.Timeout)

	// Use cases
	checkoutUC := usecase.NewCheckout(gw, orderRepo, idem, statusCache, carts,
		verifier, cfg.Razorpay.Currency, cfg.Razorpay.MinAmountCents, cfg.Razorpay.Timeout)
	ordersUC := usecase.NewOrders(orderRepo, statusCache)

	// Background workers
	bgCtx, stopBG := context.WithCancel(context.Background())
	publisher := queue.NewOutboxPublisher(outboxRepo, producer,
		cfg.Outbox.PollInterval, cfg.Outbox.BatchSize)
	go publisher.Run(bgCtx)
	startPaymentFeed(bgCtx, cfg, orderRepo, statusCache)

	// HTTP
	authz := middleware.NewAuthz(cfg)
	router := apphttp.NewRouter(
		apphttp.NewAuthHandler(cfg, userRepo),
		apphttp.NewProductHandler(),
		apphttp.NewCartHandler(carts),
		apphttp.NewCheckoutHandler(checkoutUC, carts),
		apphttp.NewOrderHandler(ordersUC, checkoutUC),
		authz,
	)

	cleanup := func() {
		stopBG()
		_ = ch.Close()
		_ = conn.Close()
		_ = rdb.Close()
		_ = db.Close()
	}

	return &App{Router: router}, cleanup, nil
}

// startPaymentFeed consumes the gateway's payment-status topic. Missing
// brokers keep the API usable; refunds just stop flowing in.
func startPaymentFeed(ctx context.Context, cfg configs.Config, orderRepo usecase.OrderRepo, statusCache usecase.OrderCache) {
	log := logging.New("kafka")
	grp, err := kafka.NewGroup(cfg.Kafka.Brokers, cfg.Kafka.GroupID)
	if err != nil {
		log.Warn("payment status feed disabled", "err", err)
		return
	}

	h := kafka.NewPaymentStatusHandler(orderRepo, statusCache)
	consumer := kafka.NewConsumer(grp, []string{cfg.Kafka.Topic}, h.Handle)

	go func() {
		if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
			log.Error("payment status consumer stopped", "err", err)
		}
	}()
}
