package models

import "time"

// RecordType distinguishes posts from comments
type RecordType string

const (
	RecordTypePost    RecordType = "post"
	RecordTypeComment RecordType = "comment"
)

// Record is a normalized post or comment read from the scraper artifacts
type Record struct {
	Type          RecordType `json:"type"`
	ID            string     `json:"post_id"`
	RoutingID     string     `json:"post_routing_id"`
	Text          string     `json:"text"`
	Author        string     `json:"author_name"`
	Sentiment     string     `json:"sentiment"`
	Emotion       string     `json:"emotion"`
	Category      string     `json:"category"`
	ViralityScore float64    `json:"virality_score"`
	ReactionCount int        `json:"reaction_count"`
	CommentCount  int        `json:"comments_count"`
	ShareCount    int        `json:"share_count"`
	URL           string     `json:"post_url"`
	CommentURL    string     `json:"comment_url,omitempty"`
	Keywords      string     `json:"keywords"`
	TopicCategory string     `json:"topic_category"`
	Timestamp     string     `json:"timestamp"` // ISO-8601, empty for posts
}

// DistributionResult is a percentage breakdown over a fixed label set
type DistributionResult struct {
	Percentages map[string]string `json:"percentages"` // label -> "<int>%"
	Counts      map[string]int    `json:"counts"`
	Total       int               `json:"total_count"`
}

// Pagination describes where a Page sits in the full collection
type Pagination struct {
	CurrentPage   int  `json:"current_page"`
	TotalPages    int  `json:"total_pages"`
	NumberOfPages int  `json:"number_of_pages"`
	ItemsPerPage  int  `json:"items_per_page"`
	TotalPosts    *int `json:"total_posts,omitempty"`
	TotalComments *int `json:"total_comments,omitempty"`
}

// Page is one fixed-size slice of posts followed by comments
type Page struct {
	Items      []Record   `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// OverviewCacheEntry is the persisted narrative overview.
// The JSON layout matches the cache file written by earlier deployments.
type OverviewCacheEntry struct {
	GeneratedAt time.Time         `json:"timestamp"`
	Data        map[string]string `json:"data"`
}

// ScraperState is the lifecycle state of the background scraper run
type ScraperState string

const (
	ScraperIdle      ScraperState = "idle"
	ScraperRunning   ScraperState = "running"
	ScraperCompleted ScraperState = "completed"
	ScraperFailed    ScraperState = "failed"
)

// ScraperStatus is the shared status record polled by /api/status
type ScraperStatus struct {
	Status          ScraperState `json:"status"`
	LastRun         *time.Time   `json:"last_run"`
	DurationSeconds int          `json:"duration_seconds"`
	PostsScraped    int          `json:"posts_scraped"`
	CommentsScraped int          `json:"comments_scraped"`
}

// RunReport summarizes a finished scraper run for notifications
type RunReport struct {
	RunID           string        `json:"run_id"`
	Status          ScraperState  `json:"status"`
	StartedAt       time.Time     `json:"started_at"`
	FinishedAt      time.Time     `json:"finished_at"`
	Duration        time.Duration `json:"duration"`
	PrimeBankPosts  int           `json:"prime_bank_posts"`
	OtherBanksPosts int           `json:"other_banks_posts"`
	PostsScraped    int           `json:"posts_scraped"`
	CommentsScraped int           `json:"comments_scraped"`
	Error           string        `json:"error,omitempty"`
}

// KPI holds the headline numbers of the dashboard
type KPI struct {
	TotalMentionsOfAllBanks     int     `json:"total_mentions_of_all_banks"`
	PostsMentioningPrimeBank    int     `json:"posts_mentioning_prime_bank"`
	BankSentimentScore          int     `json:"bank_sentiment_score"`
	EngagementWeightedSentiment float64 `json:"engagement_weighted_sentiment"`
}

// SentimentAnalysis groups the distribution sections of the dashboard
type SentimentAnalysis struct {
	SentimentDistribution map[string]string `json:"sentiment_distribution"`
	TopPosts              []Record          `json:"top_posts"`
	PostCategories        map[string]any    `json:"post_categories"`
	EmotionDistribution   map[string]string `json:"emotion_distribution"`
}

// Dashboard is the complete document served by /api/dashboard.
// Every section is always populated so consumers never null-check.
type Dashboard struct {
	LastUpdated       time.Time         `json:"last_updated"`
	ScrapingStatus    ScraperStatus     `json:"scraping_status"`
	KPI               KPI               `json:"kpi"`
	SentimentAnalysis SentimentAnalysis `json:"sentiment_analysis"`
	BankMentions      map[string]int    `json:"bank_mentions"`
	PostGeolocation   map[string]int    `json:"post_geolocation"`
	ActionItems       []Record          `json:"action_items"`
	AIOverview        map[string]string `json:"ai_overview"`
}

// Summary is the condensed statistics view of the dashboard
type Summary struct {
	TotalActionItems  int          `json:"total_action_items"`
	TotalBankMentions int          `json:"total_bank_mentions"`
	PrimeBankMentions int          `json:"prime_bank_mentions"`
	SentimentScore    int          `json:"sentiment_score"`
	PostsScraped      int          `json:"posts_scraped"`
	ScrapingStatus    ScraperState `json:"scraping_status"`
	TopEmotion        []string     `json:"top_emotion"`       // [label, percentage]
	DominantSentiment []string     `json:"dominant_sentiment"` // [label, percentage]
}

// FullData is the legacy unpaginated view of every post and comment
type FullData struct {
	Posts    []Record        `json:"Posts"`
	Comments []Record        `json:"Comments"`
	Summary  FullDataSummary `json:"Summary"`
}

type FullDataSummary struct {
	TotalPosts        int  `json:"total_posts"`
	TotalComments     int  `json:"total_comments"`
	PostsCSVExists    bool `json:"posts_csv_exists"`
	CommentsCSVExists bool `json:"comments_csv_exists"`
}
