package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shopkart/storefront/internal/cart"
	"github.com/shopkart/storefront/internal/catalog"
	"github.com/shopkart/storefront/internal/checkout"
	"github.com/shopkart/storefront/internal/config"
	"github.com/shopkart/storefront/internal/fulfillment"
	"github.com/shopkart/storefront/internal/httpapi"
	"github.com/shopkart/storefront/internal/orders"
	"github.com/shopkart/storefront/internal/promo"
	"github.com/shopkart/storefront/internal/store"
)

const cartStoreKey = "storefront:cart"

func main() {
	cfg := config.Load()
	ctx := context.Background()

	cartStore, closeStore, err := buildCartStore(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to set up cart store: %v", err)
	}
	defer closeStore()

	engine := cart.NewEngine(cartStore)
	engine.Rehydrate(ctx)

	httpClient := &http.Client{Timeout: 10 * time.Second}
	catalogClient := catalog.NewClient(cfg.CatalogBaseURL, httpClient)
	orderClient := orders.NewClient(cfg.OrderBaseURL, httpClient)
	evaluator := promo.NewEvaluator(promo.NewHTTPValidator(cfg.PromoBaseURL, httpClient))

	var readModel orders.ReadModel
	if sqliteModel, err := buildReadModel(cfg); err != nil {
		log.Printf("order read model unavailable, continuing without cached fallback: %v", err)
	} else {
		readModel = sqliteModel
		defer sqliteModel.Close()
	}

	tracker := orders.NewTracker(orderClient, readModel)
	if err := tracker.Refresh(ctx); err != nil {
		log.Printf("initial order refresh failed: %v", err)
	}

	manager := checkout.NewManager(engine, orderClient, tracker)

	consumerCtx, stopConsumer := context.WithCancel(ctx)
	consumer := fulfillment.NewConsumer(tracker, cfg.KafkaTopic, cfg.KafkaGroupID, cfg.KafkaBrokers...)
	go consumer.Run(consumerCtx)

	server := httpapi.NewServer(":"+cfg.HTTPPort,
		httpapi.NewCartHandler(engine, catalogClient, evaluator, cfg.RequestTimeout),
		httpapi.NewCheckoutHandler(manager, engine, evaluator, cfg.RequestTimeout),
		httpapi.NewOrdersHandler(tracker, cfg.RequestTimeout),
		httpapi.NewProductsHandler(catalogClient, cfg.RequestTimeout),
	)

	go func() {
		log.Printf("storefront listening on :%s", cfg.HTTPPort)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down storefront...")
	stopConsumer()
	consumer.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
	log.Println("storefront stopped")
}

func buildCartStore(ctx context.Context, cfg *config.Config) (store.CartStore, func(), error) {
	switch cfg.StoreBackend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, nil, err
		}
		log.Printf("cart store: redis at %s", cfg.RedisAddr)
		return store.NewRedisStore(client, cartStoreKey), func() { client.Close() }, nil

	case "mongo":
		db, err := store.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName, cfg.MongoTimeout)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("cart store: mongo at %s", cfg.MongoURI)
		return store.NewMongoStore(db, cartStoreKey), func() { db.Client().Disconnect(ctx) }, nil

	default:
		log.Printf("cart store: in-memory, state is lost on restart")
		return store.NewMemoryStore(), func() {}, nil
	}
}

func buildReadModel(cfg *config.Config) (*orders.SQLiteReadModel, error) {
	model, err := orders.NewSQLiteReadModel(cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	if err := model.RunMigrations(cfg.MigrationsPath); err != nil {
		model.Close()
		return nil, err
	}
	return model, nil
}
