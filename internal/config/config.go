package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	Port        string
	Host        string

	DataDir     string
	CORSOrigins string

	ScraperUserAgent string
	ScrapeInterval   time.Duration // 0 disables the periodic scheduler
	FetchRetries     int
	MaxProducts      int

	DogCategoryURL string
	CatCategoryURL string
}

func Load() (*Config, error) {
	// Load .env file if exists (ignore error in production)
	_ = godotenv.Load()

	cfg := &Config{
		Environment:      getEnv("ENVIRONMENT", "development"),
		Port:             getEnv("PORT", "8080"),
		Host:             getEnv("HOST", "0.0.0.0"),
		DataDir:          getEnv("DATA_DIR", "./data"),
		CORSOrigins:      getEnv("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000"),
		ScraperUserAgent: getEnv("SCRAPER_USER_AGENT", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"),
		DogCategoryURL:   getEnv("DOG_CATEGORY_URL", "https://www.chewy.com/b/dog-food-332"),
		CatCategoryURL:   getEnv("CAT_CATEGORY_URL", "https://www.chewy.com/b/cat-food-387"),
	}

	// Parse integer values
	if retries := getEnv("FETCH_RETRIES", "2"); retries != "" {
		n, err := strconv.Atoi(retries)
		if err != nil {
			return nil, fmt.Errorf("invalid FETCH_RETRIES: %w", err)
		}
		cfg.FetchRetries = n
	}

	if max := getEnv("MAX_PRODUCTS", "30"); max != "" {
		n, err := strconv.Atoi(max)
		if err != nil {
			return nil, fmt.Errorf("invalid MAX_PRODUCTS: %w", err)
		}
		cfg.MaxProducts = n
	}

	// Parse duration; "0" leaves the scheduler off
	if interval := getEnv("SCRAPE_INTERVAL", "0"); interval != "" && interval != "0" {
		d, err := time.ParseDuration(interval)
		if err != nil {
			return nil, fmt.Errorf("invalid SCRAPE_INTERVAL: %w", err)
		}
		cfg.ScrapeInterval = d
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
