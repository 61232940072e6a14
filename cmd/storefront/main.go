package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Saeid202/buyers/internal/auth"
	"github.com/Saeid202/buyers/internal/cart"
	"github.com/Saeid202/buyers/internal/cart/storage"
	catalogcache "github.com/Saeid202/buyers/internal/catalog/cache"
	catalogrepo "github.com/Saeid202/buyers/internal/catalog/repository"
	catalogservice "github.com/Saeid202/buyers/internal/catalog/service"
	h "github.com/Saeid202/buyers/internal/http"
	"github.com/Saeid202/buyers/internal/metrics"
	"github.com/Saeid202/buyers/internal/order/publisher"
	orderrepo "github.com/Saeid202/buyers/internal/order/repository"
	orderservice "github.com/Saeid202/buyers/internal/order/service"
)

type Config struct {
	HTTPPort          string
	RequestTimeout    time.Duration
	ShutdownTimeout   time.Duration
	RedisAddr         string
	CartStoreBackend  string
	MongoURI          string
	MongoDB           string
	CatalogDBPath     string
	CatalogMigrations string
	KafkaBrokers      []string
	OrdersDB          *orderrepo.Credentials
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		RequestTimeout:    30 * time.Second,
		ShutdownTimeout:   10 * time.Second,
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		CartStoreBackend:  getEnv("CART_STORE_BACKEND", "redis"),
		MongoURI:          getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:           getEnv("MONGO_DB", "buyers"),
		CatalogDBPath:     getEnv("CATALOG_DB_PATH", "./data/catalog.db"),
		CatalogMigrations: getEnv("CATALOG_MIGRATIONS_PATH", "./migrations/sqlite"),
		KafkaBrokers:      strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		OrdersDB: &orderrepo.Credentials{
			Host:              getEnv("POSTGRES_HOST", "localhost"),
			Port:              getEnvInt("POSTGRES_PORT", 5432),
			User:              getEnv("POSTGRES_USER", "postgres"),
			Password:          getEnv("POSTGRES_PASSWORD", "postgres"),
			DBName:            getEnv("POSTGRES_DB", "buyers"),
			MigrationsDirPath: getEnv("ORDERS_MIGRATIONS_PATH", "./migrations/postgres"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()

	// Catalog: sqlite + redis read-through cache.
	productRepo, err := catalogrepo.NewRepository(cfg.CatalogDBPath)
	if err != nil {
		log.Fatalf("failed to open catalog database: %v", err)
	}
	defer productRepo.Close()
	if err := productRepo.RunMigrations(cfg.CatalogMigrations); err != nil {
		log.Fatalf("failed to run catalog migrations: %v", err)
	}
	catalogSvc := catalogservice.NewCatalogService(productRepo, catalogcache.NewRedisCache(redisClient))

	// Orders: postgres with transactional outbox.
	ordersRepo, err := orderrepo.NewRepository(cfg.OrdersDB)
	if err != nil {
		log.Fatalf("failed to open orders database: %v", err)
	}
	defer ordersRepo.Close()
	if err := ordersRepo.RunMigrations(cfg.OrdersDB); err != nil {
		log.Fatalf("failed to run orders migrations: %v", err)
	}
	orderSvc := orderservice.NewOrderService(ordersRepo)

	poller := publisher.NewOutboxPoller(ordersRepo, cfg.KafkaBrokers...)
	defer poller.Close()
	go poller.Run(ctx)

	carts := cart.NewManager(newSlotFactory(ctx, cfg, redisClient))
	sessions := auth.NewRedisSessionProvider(redisClient)
	serverMetrics := metrics.NewServerMetrics("storefront")

	router := h.NewRouter(h.RouterDeps{
		Carts:    carts,
		Catalog:  catalogSvc,
		Orders:   orderSvc,
		Sessions: sessions,
		Metrics:  serverMetrics,
		Timeout:  cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("storefront starting on :%s (cart backend: %s)", cfg.HTTPPort, cfg.CartStoreBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}

// newSlotFactory picks the cart snapshot backend. Redis is the default;
// mongo is the document-store alternative and memory keeps carts only for
// the process lifetime.
func newSlotFactory(ctx context.Context, cfg *Config, redisClient *redis.Client) func(string) storage.Slot {
	switch cfg.CartStoreBackend {
	case "mongo":
		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			log.Fatalf("failed to connect to mongo: %v", err)
		}
		db := mongoClient.Database(cfg.MongoDB)
		if err := storage.EnsureIndexes(ctx, db); err != nil {
			log.Fatalf("failed to ensure mongo indexes: %v", err)
		}
		return func(sessionID string) storage.Slot {
			return storage.NewMongoSlot(db, sessionID)
		}
	case "memory":
		return func(string) storage.Slot {
			return storage.NewMemorySlot()
		}
	default:
		return func(sessionID string) storage.Slot {
			return storage.NewRedisSlot(redisClient, sessionID)
		}
	}
}
