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

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/claystudio/storefront/app/admin"
	"github.com/claystudio/storefront/app/catalog"
	"github.com/claystudio/storefront/app/categories"
	"github.com/claystudio/storefront/app/legacy"
	"github.com/claystudio/storefront/app/requests"
	"github.com/claystudio/storefront/cache"
	"github.com/claystudio/storefront/config"
	"github.com/claystudio/storefront/images"
	"github.com/claystudio/storefront/middlewares"
	"github.com/claystudio/storefront/models"
	"github.com/claystudio/storefront/prefs"
	"github.com/claystudio/storefront/storage"
)

func main() {
	cfg := config.Load()

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Category{}, &models.Product{}, &models.Request{}); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	// Redis is optional: without it the service runs uncached and keeps
	// prefill contacts in memory.
	var cacheStore cache.Store
	var contactStore prefs.Store = prefs.NewMemoryStore()
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Printf("redis unreachable at %s, running without cache: %v", cfg.RedisAddr, err)
		} else {
			cacheStore = cache.NewRedisStore(client, "storefront:", 5*time.Minute)
			contactStore = prefs.NewRedisStore(client, 90*24*time.Hour)
			log.Println("redis cache enabled")
		}
	}
	invalidator := cache.NewInvalidator(cacheStore)

	objects, err := buildObjectStore(cfg)
	if err != nil {
		log.Fatalf("object storage init failed: %v", err)
	}

	categoriesRepo := models.NewCategoriesRepository(db)
	productsRepo := models.NewProductsRepository(db)
	requestsRepo := models.NewRequestsRepository(db)

	catalogHandler := catalog.NewCatalogHandler(productsRepo, cacheStore)
	categoryHandler := categories.NewCategoryHandler(categoriesRepo, cacheStore)
	legacyHandler := legacy.NewLegacyHandler(productsRepo, cacheStore)
	requestHandler := requests.NewRequestHandler(requestsRepo, contactStore, invalidator)
	adminHandler := admin.NewAdminHandler(
		categoriesRepo, productsRepo, requestsRepo,
		objects, images.NewPreparer(), invalidator, cacheStore,
	)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.CORSMiddleware())
	r.Use(middlewares.LoggingMiddleware())
	r.Use(middlewares.PrometheusMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Stored objects are served through the service so both storage
	// backends share one public URL scheme.
	r.GET("/uploads/*key", func(c *gin.Context) {
		key := strings.TrimPrefix(c.Param("key"), "/")
		data, contentType, err := objects.Get(c.Request.Context(), key)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.Data(http.StatusOK, contentType, data)
	})

	api := r.Group("/api")
	{
		// Storefront.
		api.GET("/catalog", catalogHandler.HandleCatalog)
		api.GET("/catalog/preview", catalogHandler.HandlePreview)
		api.GET("/catalog/:id", catalogHandler.HandleProduct)
		api.GET("/categories", categoryHandler.HandleGetAll)
		api.POST("/requests", requestHandler.HandleCreate)
		api.GET("/prefill/:client", requestHandler.HandlePrefill)
		api.PUT("/prefill/:client", requestHandler.HandleSetPrefill)

		// Legacy read-only API for the older catalog view.
		api.GET("/products", legacyHandler.HandleProducts)
		api.GET("/products/category/:slug", legacyHandler.HandleProductsByCategory)
	}

	adm := r.Group("/api/admin")
	{
		adm.GET("/categories", adminHandler.HandleListCategories)
		adm.POST("/categories", adminHandler.HandleCreateCategory)
		adm.PUT("/categories/:id", adminHandler.HandleUpdateCategory)
		adm.DELETE("/categories/:id", adminHandler.HandleDeleteCategory)

		adm.GET("/products", adminHandler.HandleListProducts)
		adm.POST("/products", adminHandler.HandleCreateProduct)
		adm.PUT("/products/:id", adminHandler.HandleUpdateProduct)
		adm.DELETE("/products/:id", adminHandler.HandleDeleteProduct)

		adm.GET("/requests", adminHandler.HandleListRequests)
		adm.PUT("/requests/:id/status", adminHandler.HandleUpdateRequestStatus)

		adm.GET("/stats", adminHandler.HandleStats)

		adm.POST("/import/categories", adminHandler.HandleImportCategories)
		adm.POST("/import/products", adminHandler.HandleImportProducts)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("storefront listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown incomplete: %v", err)
	}
	if closer, ok := objects.(interface{ Close() error }); ok {
		closer.Close()
	}
}

func buildObjectStore(cfg *config.Config) (storage.ObjectStore, error) {
	baseURL := strings.TrimSuffix(cfg.PublicBaseURL, "/") + "/uploads"
	switch cfg.StorageBackend {
	case "jetstream":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return storage.NewJetStreamStore(ctx, cfg.NATSURL, cfg.StorageBucket, baseURL)
	default:
		return storage.NewDiskStore(cfg.StorageDir, baseURL)
	}
}
