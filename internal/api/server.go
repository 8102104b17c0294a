package api

import (
	"context"
	"net/http"

	"github.com/bankpulse/dashboard-api/internal/analytics"
	"github.com/bankpulse/dashboard-api/internal/models"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// OverviewService serves and regenerates the narrative overview
type OverviewService interface {
	GetOverview(ctx context.Context, force bool) (map[string]string, error)
	Entry(ctx context.Context) (*models.OverviewCacheEntry, error)
}

// ScraperService starts scraper runs and reports their status
type ScraperService interface {
	Start(primeBankPosts, otherBanksPosts int) (string, error)
	Snapshot() models.ScraperStatus
}

// Server holds the HTTP handlers of the dashboard API
type Server struct {
	analytics     *analytics.Service
	overview      OverviewService
	scraper       ScraperService
	topPostsLimit int
}

// NewServer creates a new API server
func NewServer(analyticsService *analytics.Service, overview OverviewService, scraper ScraperService, topPostsLimit int) *Server {
	return &Server{
		analytics:     analyticsService,
		overview:      overview,
		scraper:       scraper,
		topPostsLimit: topPostsLimit,
	}
}

// Router builds the mux router with every route and middleware
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(recoveryMiddleware, loggingMiddleware)

	router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/dashboard", s.handleDashboard).Methods(http.MethodGet)
	api.HandleFunc("/dashboard", s.handleDashboardPost).Methods(http.MethodPost)
	api.HandleFunc("/summary", s.handleSummary).Methods(http.MethodGet)
	api.HandleFunc("/kpi", s.handleKPI).Methods(http.MethodGet)
	api.HandleFunc("/bank-mentions", s.handleBankMentions).Methods(http.MethodGet)
	api.HandleFunc("/geolocation", s.handleGeolocation).Methods(http.MethodGet)

	api.HandleFunc("/action-items", s.handleActionItems).Methods(http.MethodGet)
	api.HandleFunc("/action-items/{post_id}", s.handleActionItem).Methods(http.MethodGet)
	api.HandleFunc("/search", s.handleSearch).Methods(http.MethodGet)

	api.HandleFunc("/sentiment-analysis", s.handleSentimentAnalysis).Methods(http.MethodGet)
	api.HandleFunc("/sentiment-analysis/emotions", s.handleEmotions).Methods(http.MethodGet)
	api.HandleFunc("/sentiment-analysis/categories", s.handleCategories).Methods(http.MethodGet)
	api.HandleFunc("/sentiment-analysis/sentiments", s.handleSentiments).Methods(http.MethodGet)
	api.HandleFunc("/sentiment-analysis/top-posts", s.handleTopPosts).Methods(http.MethodGet)

	api.HandleFunc("/ai-overview", s.handleAIOverview).Methods(http.MethodGet)
	api.HandleFunc("/ai-overview/refresh", s.handleAIOverviewRefresh).Methods(http.MethodPost)
	api.HandleFunc("/ai-overview/{section}", s.handleAIOverviewSection).Methods(http.MethodGet)
	api.HandleFunc("/dashboard-ai-overview", s.handleOverviewEntry).Methods(http.MethodGet)

	api.HandleFunc("/full-data/posts/{page}", s.handleFullDataPosts).Methods(http.MethodGet)
	api.HandleFunc("/full-data/comments/{page}", s.handleFullDataComments).Methods(http.MethodGet)
	api.HandleFunc("/full-data/{page}", s.handleFullData).Methods(http.MethodGet)
	api.HandleFunc("/full_data", s.handleLegacyFullData).Methods(http.MethodPost)

	api.HandleFunc("/reanalyze", s.handleReanalyze).Methods(http.MethodPost)
	api.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	api.HandleFunc("/scraping-status", s.handleStatus).Methods(http.MethodGet)

	router.NotFoundHandler = loggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "Endpoint not found")
	}))
	router.MethodNotAllowedHandler = loggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}))

	return router
}
