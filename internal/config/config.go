package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port     string
	Debug    bool
	LogLevel string

	// Source artifacts
	DataDir         string
	PostsCSV        string
	CommentsCSV     string
	PrimeCorpus     string // extracted prime bank posts, narrative input
	OtherBankCorpus string // extracted other bank posts, mention counting input

	// Action items and rankings
	ActionItemsPostsLimit    int
	ActionItemsCommentsLimit int
	TopPostsLimit            int

	// Narrative overview
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	OverviewTTL   time.Duration
	OverviewKey   string
	BrandName     string

	// Cache storage
	StorageBackend   string // "file", "sqlite" or "azure"
	StorageDir       string
	SQLitePath       string
	StorageAccount   string
	StorageContainer string

	// Scraper pipeline
	ScraperCommand string
	ScraperDir     string

	// Schedules (cron, with seconds field)
	OverviewRefreshSchedule string
	ScraperSchedule         string

	// Notification configuration
	TeamsWebhookURL   string
	NotificationEmail string
	SMTPHost          string
	SMTPPort          int
	SMTPUsername      string
	SMTPPassword      string

	// Bank patterns, keyword sets and geolocation table
	Analytics *Analytics
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	dataDir := getEnv("DATA_DIR", ".")
	outputDir := filepath.Join(dataDir, "output")
	csvDir := filepath.Join(outputDir, "bank_posts_and_comments_csv")
	postsDir := filepath.Join(outputDir, "all_extracted_posts")

	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		Debug:    getBoolEnv("DEBUG", false),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DataDir:         dataDir,
		PostsCSV:        getEnv("POSTS_CSV", filepath.Join(csvDir, "prime_bank_facebook_posts_data.csv")),
		CommentsCSV:     getEnv("COMMENTS_CSV", filepath.Join(csvDir, "prime_bank_comments_scraped.csv")),
		PrimeCorpus:     getEnv("PRIME_CORPUS", filepath.Join(postsDir, "prime_bank", "all_extracted_posts.txt")),
		OtherBankCorpus: getEnv("OTHER_BANKS_CORPUS", filepath.Join(postsDir, "other_banks", "all_extracted_posts.txt")),

		ActionItemsPostsLimit:    getIntEnv("ACTION_ITEMS_POSTS_LIMIT", 10),
		ActionItemsCommentsLimit: getIntEnv("ACTION_ITEMS_COMMENTS_LIMIT", 10),
		TopPostsLimit:            getIntEnv("TOP_POSTS_LIMIT", 10),

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o"),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OverviewTTL:   getDurationEnv("OVERVIEW_TTL", 24*time.Hour),
		OverviewKey:   getEnv("OVERVIEW_CACHE_KEY", "dashboard_ai_overview.json"),
		BrandName:     getEnv("BRAND_NAME", "Prime Bank"),

		StorageBackend:   getEnv("STORAGE_BACKEND", "file"),
		StorageDir:       getEnv("STORAGE_DIR", dataDir),
		SQLitePath:       getEnv("SQLITE_PATH", filepath.Join(dataDir, "dashboard_cache.db")),
		StorageAccount:   getEnv("AZURE_STORAGE_ACCOUNT", ""),
		StorageContainer: getEnv("AZURE_STORAGE_CONTAINER", "dashboard"),

		ScraperCommand: getEnv("SCRAPER_COMMAND", "python3 complete_pipeline.py"),
		ScraperDir:     getEnv("SCRAPER_DIR", dataDir),

		OverviewRefreshSchedule: getEnv("OVERVIEW_REFRESH_SCHEDULE", "0 0 6 * * *"),
		ScraperSchedule:         getEnv("SCRAPER_SCHEDULE", ""),

		TeamsWebhookURL:   getEnv("TEAMS_WEBHOOK_URL", ""),
		NotificationEmail: getEnv("NOTIFICATION_EMAIL", ""),
		SMTPHost:          getEnv("SMTP_HOST", ""),
		SMTPPort:          getIntEnv("SMTP_PORT", 587),
		SMTPUsername:      getEnv("SMTP_USERNAME", ""),
		SMTPPassword:      getEnv("SMTP_PASSWORD", ""),
	}

	analytics, err := LoadAnalytics(getEnv("ANALYTICS_CONFIG", ""))
	if err != nil {
		return nil, err
	}
	cfg.Analytics = analytics

	// Validate required configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageBackend {
	case "file", "sqlite":
	case "azure":
		if c.StorageAccount == "" {
			return fmt.Errorf("AZURE_STORAGE_ACCOUNT is required when STORAGE_BACKEND is 'azure'")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be 'file', 'sqlite' or 'azure'")
	}

	if c.ActionItemsPostsLimit < 0 || c.ActionItemsCommentsLimit < 0 || c.TopPostsLimit < 0 {
		return fmt.Errorf("action item and top post limits must not be negative")
	}

	if c.OverviewTTL <= 0 {
		return fmt.Errorf("OVERVIEW_TTL must be positive")
	}

	if strings.TrimSpace(c.ScraperCommand) == "" {
		return fmt.Errorf("SCRAPER_COMMAND must not be empty")
	}

	if c.NotificationEmail != "" {
		if c.SMTPHost == "" || c.SMTPUsername == "" || c.SMTPPassword == "" {
			return fmt.Errorf("SMTP configuration is required when NOTIFICATION_EMAIL is set")
		}
	}

	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
