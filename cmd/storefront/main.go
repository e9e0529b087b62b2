package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/DmitryShetinin/The-X-Shop-sub001/internal/cart"
	cartrepo "github.com/DmitryShetinin/The-X-Shop-sub001/internal/cart/repository"
	"github.com/DmitryShetinin/The-X-Shop-sub001/internal/catalog"
	"github.com/DmitryShetinin/The-X-Shop-sub001/internal/catalog/cache"
	catalogrepo "github.com/DmitryShetinin/The-X-Shop-sub001/internal/catalog/repository"
	"github.com/DmitryShetinin/The-X-Shop-sub001/internal/httpapi"
	"github.com/DmitryShetinin/The-X-Shop-sub001/internal/inventory"
	"github.com/DmitryShetinin/The-X-Shop-sub001/internal/notifier"
	"github.com/DmitryShetinin/The-X-Shop-sub001/internal/order"
	orderrepo "github.com/DmitryShetinin/The-X-Shop-sub001/internal/order/repository"
	"github.com/DmitryShetinin/The-X-Shop-sub001/internal/wishlist"
)

type Config struct {
	HTTPPort        string
	CatalogDBPath   string
	MigrationsPath  string
	RedisAddr       string
	MongoURI        string
	MongoDatabase   string
	KafkaBrokers    []string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		CatalogDBPath:   getEnv("CATALOG_DB_PATH", "./catalog.db"),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "./internal/catalog/repository/migrations"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getEnv("MONGO_DATABASE", "xshop"),
		KafkaBrokers:    strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	log.Println("storefront starting...")

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}

	cfg := loadConfig()

	// Catalog database
	repo, err := catalogrepo.NewRepository(cfg.CatalogDBPath)
	if err != nil {
		log.Fatalf("Failed to open catalog database: %v", err)
	}
	defer repo.Close()

	if err := repo.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Catalog migrations completed")

	// Redis: catalog cache, cart storage, wishlists
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	log.Printf("Connected to redis at %s", cfg.RedisAddr)

	// Mongo: order persistence
	mongoCtx, cancelMongo := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelMongo()
	mongoDB, err := orderrepo.ConnectMongoDB(mongoCtx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatalf("Failed to connect to mongodb: %v", err)
	}
	defer mongoDB.Client().Disconnect(context.Background())
	log.Printf("Connected to mongodb at %s", cfg.MongoURI)

	orderRepository := orderrepo.NewMongoRepository(mongoDB)
	if err := orderRepository.CreateIndexes(mongoCtx); err != nil {
		log.Printf("Failed to create order indexes: %v", err)
	}

	// Services
	catalogService := catalog.NewService(repo, cache.NewRedisCache(redisClient))

	stock := inventory.NewMemoryStore()
	products, err := repo.GetAllProducts(context.Background())
	if err != nil {
		log.Fatalf("Failed to load catalog for inventory seed: %v", err)
	}
	inventory.Seed(stock, products)
	log.Printf("Inventory seeded from %d catalog products", len(products))

	cartService := cart.NewService(cartrepo.NewRedisRepository(redisClient), stock)
	wishlistStore := wishlist.NewStore(redisClient)

	orderNotifier := notifier.NewPublisher(cfg.KafkaBrokers...)
	defer orderNotifier.Close()

	assembler := order.NewAssembler(cartService, orderRepository, orderNotifier)

	// Handlers
	catalogHandler := httpapi.NewCatalogHandler(catalogService, cfg.RequestTimeout)
	cartHandler := httpapi.NewCartHandler(cartService, catalogService, cfg.RequestTimeout)
	checkoutHandler := httpapi.NewCheckoutHandler(assembler, orderRepository, cfg.RequestTimeout)
	wishlistHandler := httpapi.NewWishlistHandler(wishlistStore, cfg.RequestTimeout)

	// Router
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(httpapi.SessionMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", catalogHandler.List)
		r.Get("/products/{id}", catalogHandler.Get)
		r.Get("/categories", catalogHandler.Categories)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{product_id}", cartHandler.UpdateQuantity)
			r.Delete("/items/{product_id}", cartHandler.RemoveItem)
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", wishlistHandler.List)
			r.Post("/{product_id}", wishlistHandler.Add)
			r.Delete("/{product_id}", wishlistHandler.Remove)
		})

		r.Get("/checkout/delivery-methods", checkoutHandler.DeliveryMethods)
		r.Post("/checkout", checkoutHandler.PlaceOrder)

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", checkoutHandler.ListOrders)
			r.Get("/{id}", checkoutHandler.GetOrder)
		})

		r.Route("/admin/orders/{id}", func(r chi.Router) {
			r.Patch("/status", checkoutHandler.UpdateStatus)
			r.Put("/tracking", checkoutHandler.SetTracking)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(r, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Storefront listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down storefront...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("storefront stopped")
}
