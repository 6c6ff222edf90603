package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"petfood-catalog/internal/api"
	"petfood-catalog/internal/catalog"
	"petfood-catalog/internal/config"
	"petfood-catalog/internal/pipeline"
	"petfood-catalog/internal/reconcile"
	"petfood-catalog/internal/scraper"
	"petfood-catalog/internal/store"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting petfood-catalog server")
	log.Printf("Environment: %s", cfg.Environment)
	log.Printf("Data directory: %s", cfg.DataDir)

	// Stores
	snapshots, err := store.NewSnapshotStore(cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to initialize snapshot store: %v", err)
	}
	history, err := store.NewHistoryStore(cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to initialize history store: %v", err)
	}
	defer history.Close()

	// Scrape pipeline
	client := scraper.NewClient(cfg.ScraperUserAgent)
	client.SetRetries(cfg.FetchRetries)
	orchestrator := scraper.NewOrchestrator(client)
	normalizer := catalog.NewNormalizer(nil)
	pipe := pipeline.New(orchestrator, normalizer, snapshots, history,
		cfg.DogCategoryURL, cfg.CatCategoryURL)

	reconciler := reconcile.New(client, reconcile.DefaultRetailerSources(), history)

	// Optional periodic scheduler
	if cfg.ScrapeInterval > 0 {
		scheduler := pipeline.NewScheduler(pipe, cfg.ScrapeInterval)
		scheduler.Start()
		defer scheduler.Stop()
	} else {
		log.Printf("Scheduler disabled (SCRAPE_INTERVAL=0); updates run via the admin endpoint")
	}

	// HTTP server
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.Use(corsMiddleware(cfg.CORSOrigins))

	handlers := api.NewHandlers(snapshots, snapshots, history, pipe, client, reconciler)
	api.SetupRoutes(router, handlers)

	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	log.Printf("Server listening on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// corsMiddleware allows the configured front-end origins to read the
// catalog.
func corsMiddleware(origins string) gin.HandlerFunc {
	allowed := strings.Split(origins, ",")
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		for _, o := range allowed {
			if strings.TrimSpace(o) == origin {
				c.Header("Access-Control-Allow-Origin", origin)
				break
			}
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, HEAD, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
