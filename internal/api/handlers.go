package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bankpulse/dashboard-api/internal/analytics"
	"github.com/bankpulse/dashboard-api/internal/metrics"
	"github.com/bankpulse/dashboard-api/internal/models"
	"github.com/bankpulse/dashboard-api/internal/overview"
	"github.com/bankpulse/dashboard-api/internal/scraper"
	"github.com/bankpulse/dashboard-api/internal/storage"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	respondOK(w, map[string]string{
		"message": "Bank Social Analytics Dashboard API",
		"status":  "running",
		"version": "1.0.0",
	})
}

func (s *Server) buildDashboard(r *http.Request) *models.Dashboard {
	start := time.Now()
	d := s.analytics.Dashboard(r.Context())
	metrics.DashboardBuildsTotal.Inc()
	metrics.DashboardBuildDurationSeconds.Observe(time.Since(start).Seconds())
	return d
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	respondOK(w, s.buildDashboard(r))
}

// handleDashboardPost keeps the older {"content": "give_full_data"} request shape
func (s *Server) handleDashboardPost(w http.ResponseWriter, r *http.Request) {
	if !requireContent(w, r, "give_full_data") {
		return
	}
	respondOK(w, s.buildDashboard(r))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	respondOK(w, s.analytics.Summary(r.Context()))
}

func (s *Server) handleKPI(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	respondOK(w, analytics.KPIFor(s.analytics.Posts(ctx), s.analytics.BankMentions(ctx)))
}

func (s *Server) handleBankMentions(w http.ResponseWriter, r *http.Request) {
	respondOK(w, s.analytics.BankMentions(r.Context()))
}

func (s *Server) handleGeolocation(w http.ResponseWriter, r *http.Request) {
	respondOK(w, s.analytics.Geolocation())
}

// queryInt reads an optional non-negative integer query parameter
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, errors.New(name + " must be a non-negative integer")
	}
	return v, nil
}

func (s *Server) handleActionItems(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	q := r.URL.Query()
	items := analytics.FilterActionItems(s.analytics.ActionItems(r.Context()), analytics.ActionItemFilter{
		Category:  q.Get("category"),
		Sentiment: q.Get("sentiment"),
		Limit:     limit,
	})
	respondList(w, items)
}

func (s *Server) handleActionItem(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["post_id"]
	item, ok := analytics.FindActionItem(s.analytics.ActionItems(r.Context()), id)
	if !ok {
		respondError(w, http.StatusNotFound, "Action item not found")
		return
	}
	respondOK(w, item)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.ToLower(r.URL.Query().Get("q"))
	if query == "" {
		respondError(w, http.StatusBadRequest, "Search query is required")
		return
	}

	results := analytics.SearchActionItems(s.analytics.ActionItems(r.Context()), query)
	n := len(results)
	writeJSON(w, http.StatusOK, Envelope{
		Success:   true,
		Data:      results,
		Count:     &n,
		Query:     query,
		Timestamp: timestamp(),
	})
}

func (s *Server) handleSentimentAnalysis(w http.ResponseWriter, r *http.Request) {
	respondOK(w, s.analytics.SentimentAnalysis(s.analytics.Posts(r.Context())))
}

func (s *Server) handleEmotions(w http.ResponseWriter, r *http.Request) {
	respondOK(w, analytics.EmotionDistribution(s.analytics.Posts(r.Context())).Percentages)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	respondOK(w, analytics.PostCategories(s.analytics.Posts(r.Context())))
}

func (s *Server) handleSentiments(w http.ResponseWriter, r *http.Request) {
	respondOK(w, analytics.SentimentDistribution(s.analytics.Posts(r.Context())).Percentages)
}

func (s *Server) handleTopPosts(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", s.topPostsLimit)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ranked := analytics.RankPosts(s.analytics.Posts(r.Context()))
	if limit > 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}
	respondList(w, ranked)
}

func (s *Server) handleAIOverview(w http.ResponseWriter, r *http.Request) {
	respondOK(w, s.analytics.Overview(r.Context(), false))
}

func (s *Server) handleAIOverviewRefresh(w http.ResponseWriter, r *http.Request) {
	respondOK(w, s.analytics.Overview(r.Context(), true))
}

// overviewSections maps the URL segment onto the overview key
var overviewSections = map[string]string{
	"complaints":  overview.KeyComplaints,
	"inquiries":   overview.KeyInquiry,
	"praise":      overview.KeyPraise,
	"suggestions": overview.KeySuggestions,
}

func (s *Server) handleAIOverviewSection(w http.ResponseWriter, r *http.Request) {
	key, ok := overviewSections[mux.Vars(r)["section"]]
	if !ok {
		respondError(w, http.StatusNotFound, "Unknown overview section")
		return
	}

	data := s.analytics.Overview(r.Context(), false)
	respondOK(w, map[string]string{key: data[key]})
}

func (s *Server) handleOverviewEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := s.overview.Entry(r.Context())
	if errors.Is(err, storage.ErrNotFound) {
		respondError(w, http.StatusNotFound, "AI overview has not been generated yet")
		return
	}
	if err != nil {
		logrus.Errorf("Error reading overview cache entry: %v", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondOK(w, entry)
}

// pageVar parses the {page} path segment as a positive integer
func pageVar(r *http.Request) (int, error) {
	page, err := strconv.Atoi(mux.Vars(r)["page"])
	if err != nil {
		return 0, errors.New("Page number must be a positive integer")
	}
	if page < 1 {
		return 0, analytics.ErrInvalidPage
	}
	return page, nil
}

func respondPage(w http.ResponseWriter, page models.Page, err error) {
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondOK(w, page)
}

func (s *Server) handleFullData(w http.ResponseWriter, r *http.Request) {
	page, err := pageVar(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	ctx := r.Context()
	result, err := analytics.PaginateCombined(s.analytics.Posts(ctx), s.analytics.Comments(ctx), page, analytics.CombinedPageSize)
	respondPage(w, result, err)
}

func (s *Server) handleFullDataPosts(w http.ResponseWriter, r *http.Request) {
	page, err := pageVar(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := analytics.PaginatePosts(s.analytics.Posts(r.Context()), page, analytics.SinglePageSize)
	respondPage(w, result, err)
}

func (s *Server) handleFullDataComments(w http.ResponseWriter, r *http.Request) {
	page, err := pageVar(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := analytics.PaginateComments(s.analytics.Comments(r.Context()), page, analytics.SinglePageSize)
	respondPage(w, result, err)
}

func (s *Server) handleLegacyFullData(w http.ResponseWriter, r *http.Request) {
	if !requireContent(w, r, "give_full_data") {
		return
	}
	respondOK(w, s.analytics.FullData(r.Context()))
}

func (s *Server) handleReanalyze(w http.ResponseWriter, r *http.Request) {
	req, err := decodeReanalyze(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	runID, err := s.scraper.Start(req.PrimeBankPosts, req.OtherBanksPosts)
	switch {
	case errors.Is(err, scraper.ErrAlreadyRunning):
		respondError(w, http.StatusBadRequest, "Scraper is already running")
		return
	case errors.Is(err, scraper.ErrInvalidCount):
		respondError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		logrus.Errorf("Error starting scraper: %v", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	logrus.Infof("Started scraper run %s with %d prime bank and %d other bank posts", runID, req.PrimeBankPosts, req.OtherBanksPosts)
	respondOK(w, map[string]any{
		"scraping_status": models.ScraperRunning,
		"run_id":          runID,
		"configuration":   req,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	respondOK(w, s.scraper.Snapshot())
}
