package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bankpulse/dashboard-api/internal/analytics"
	"github.com/bankpulse/dashboard-api/internal/config"
	"github.com/bankpulse/dashboard-api/internal/models"
	"github.com/bankpulse/dashboard-api/internal/overview"
	"github.com/bankpulse/dashboard-api/internal/sources"
	"github.com/bankpulse/dashboard-api/internal/storage"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// idleStatus stands in for the scraper runner, which this tool never starts
type idleStatus struct{}

func (idleStatus) Snapshot() models.ScraperStatus {
	return models.ScraperStatus{Status: models.ScraperIdle}
}

func main() {
	outputDir := flag.String("output", "", "directory to write the dashboard JSON to")
	clearCache := flag.Bool("clear-cache", false, "delete the cached AI overview before building")
	refresh := flag.Bool("refresh", false, "regenerate the AI overview even if the cache is fresh")
	topItems := flag.Int("top", 5, "number of action items to print")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using environment variables")
	}
	logrus.SetLevel(logrus.WarnLevel)

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	store, closeStore, err := storage.Open(ctx, cfg)
	if err != nil {
		fmt.Printf("❌ Failed to open storage: %v\n", err)
		os.Exit(1)
	}
	defer closeStore()

	if *clearCache {
		if err := store.Delete(ctx, cfg.OverviewKey); err != nil {
			fmt.Printf("⚠️  Could not clear overview cache: %v\n", err)
		} else {
			fmt.Println("🧹 Overview cache cleared")
		}
	}

	repo := sources.NewFileRepository(cfg.PostsCSV, cfg.CommentsCSV, cfg.PrimeCorpus, cfg.OtherBankCorpus)
	mentions, err := analytics.NewMentionCounter(cfg.Analytics.Banks)
	if err != nil {
		fmt.Printf("❌ Invalid bank patterns: %v\n", err)
		os.Exit(1)
	}

	cache := overview.NewCache(
		store,
		repo,
		overview.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL, cfg.BrandName),
		overview.NewFallback(cfg.Analytics.Keywords, cfg.BrandName),
		cfg.OverviewKey,
		cfg.OverviewTTL,
	)
	service := analytics.NewService(repo, mentions, cache, idleStatus{}, analytics.Options{
		PostsLimit:    cfg.ActionItemsPostsLimit,
		CommentsLimit: cfg.ActionItemsCommentsLimit,
		TopPostsLimit: cfg.TopPostsLimit,
		Geolocation:   cfg.Analytics.Geolocation,
	})

	if *refresh {
		service.Overview(ctx, true)
	}

	dashboard := service.Dashboard(ctx)
	printDashboard(cfg.BrandName, dashboard, *topItems)

	if *outputDir != "" {
		path, err := saveDashboard(*outputDir, dashboard)
		if err != nil {
			fmt.Printf("\n⚠️  Warning: Could not save to file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\n💾 Dashboard saved to: %s\n", path)
	}

	if _, err := store.Retrieve(ctx, cfg.OverviewKey); errors.Is(err, storage.ErrNotFound) {
		fmt.Println("\n💡 No AI overview is cached yet. Set OPENAI_API_KEY and run with -refresh to generate one.")
	}
}

func printDashboard(brand string, d *models.Dashboard, topItems int) {
	rule := strings.Repeat("=", 70)

	fmt.Println("\n" + rule)
	fmt.Printf("📊 %s SOCIAL DASHBOARD\n", strings.ToUpper(brand))
	fmt.Println(rule)
	fmt.Printf("🕒 Generated: %s\n", d.LastUpdated.Format("2006-01-02 15:04:05 MST"))
	fmt.Printf("📈 Total bank mentions: %d\n", d.KPI.TotalMentionsOfAllBanks)
	fmt.Printf("🏦 %s mentions: %d\n", brand, d.KPI.PostsMentioningPrimeBank)
	fmt.Printf("💭 Sentiment score: %d%% | engagement weighted: %.2f\n", d.KPI.BankSentimentScore, d.KPI.EngagementWeightedSentiment)

	fmt.Println("\n📍 Bank mentions:")
	for _, bank := range sortedKeys(d.BankMentions) {
		if bank == analytics.TotalMentionsKey {
			continue
		}
		fmt.Printf("   • %-15s %d\n", bank+":", d.BankMentions[bank])
	}

	fmt.Println("\n💭 Sentiment:")
	for _, label := range sortedKeys(d.SentimentAnalysis.SentimentDistribution) {
		fmt.Printf("   • %-10s %s\n", label+":", d.SentimentAnalysis.SentimentDistribution[label])
	}

	fmt.Println("\n🎭 Emotions:")
	for _, label := range sortedKeys(d.SentimentAnalysis.EmotionDistribution) {
		fmt.Printf("   • %-10s %s\n", label+":", d.SentimentAnalysis.EmotionDistribution[label])
	}

	fmt.Println("\n📝 Action items:")
	for i, item := range d.ActionItems {
		if i >= topItems {
			fmt.Printf("   ... and %d more\n", len(d.ActionItems)-topItems)
			break
		}
		fmt.Printf("\n   %d. [%s] %s\n", i+1, item.Type, truncate(item.Text, 80))
		if item.Author != "" {
			fmt.Printf("      👤 Author: %s\n", item.Author)
		}
		fmt.Printf("      💭 %s / %s | ⭐ Virality: %.1f\n", item.Sentiment, item.Category, item.ViralityScore)
	}

	fmt.Println("\n🤖 AI overview:")
	for _, key := range overview.Keys {
		fmt.Printf("\n   %s:\n      %s\n", strings.ToUpper(key), strings.ReplaceAll(d.AIOverview[key], "\n", "\n      "))
	}

	fmt.Println("\n" + rule)
}

func saveDashboard(dir string, d *models.Dashboard) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, fmt.Sprintf("dashboard_%s.json", d.LastUpdated.Format("2006-01-02_15-04-05")))
	return path, os.WriteFile(path, data, 0o644)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

