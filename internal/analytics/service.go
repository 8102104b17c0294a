package analytics

import (
	"context"
	"errors"
	"time"

	"github.com/bankpulse/dashboard-api/internal/models"
	"github.com/bankpulse/dashboard-api/internal/sources"
	"github.com/sirupsen/logrus"
)

// OverviewProvider supplies the narrative overview for the dashboard
type OverviewProvider interface {
	GetOverview(ctx context.Context, force bool) (map[string]string, error)
}

// StatusProvider supplies the current scraper status snapshot
type StatusProvider interface {
	Snapshot() models.ScraperStatus
}

// Options configures limits and static tables used when assembling the dashboard
type Options struct {
	PostsLimit    int
	CommentsLimit int
	TopPostsLimit int
	Geolocation   map[string]int
}

// Service assembles analytics from the scraper artifacts. Nothing is cached:
// every call reads the source files again.
type Service struct {
	repo     sources.Repository
	mentions *MentionCounter
	overview OverviewProvider
	status   StatusProvider
	opts     Options
	now      func() time.Time
}

// NewService creates a new analytics service
func NewService(repo sources.Repository, mentions *MentionCounter, overview OverviewProvider, status StatusProvider, opts Options) *Service {
	return &Service{
		repo:     repo,
		mentions: mentions,
		overview: overview,
		status:   status,
		opts:     opts,
		now:      time.Now,
	}
}

// Posts loads and normalizes the posts CSV in source order. A missing or
// unreadable file yields an empty list.
func (s *Service) Posts(ctx context.Context) []models.Record {
	posts, _ := s.loadPosts(ctx)
	return posts
}

// Comments loads and normalizes the comments CSV in source order
func (s *Service) Comments(ctx context.Context) []models.Record {
	comments, _ := s.loadComments(ctx)
	return comments
}

func (s *Service) loadPosts(ctx context.Context) ([]models.Record, bool) {
	rows, err := s.repo.PostRows(ctx)
	if err != nil {
		logArtifactError("posts", err)
		return []models.Record{}, false
	}
	return NormalizePosts(rows), true
}

func (s *Service) loadComments(ctx context.Context) ([]models.Record, bool) {
	rows, err := s.repo.CommentRows(ctx)
	if err != nil {
		logArtifactError("comments", err)
		return []models.Record{}, false
	}
	return NormalizeComments(rows), true
}

// FullData returns every post and comment together with artifact availability
func (s *Service) FullData(ctx context.Context) *models.FullData {
	posts, postsOK := s.loadPosts(ctx)
	comments, commentsOK := s.loadComments(ctx)

	return &models.FullData{
		Posts:    posts,
		Comments: comments,
		Summary: models.FullDataSummary{
			TotalPosts:        len(posts),
			TotalComments:     len(comments),
			PostsCSVExists:    postsOK,
			CommentsCSVExists: commentsOK,
		},
	}
}

func logArtifactError(name string, err error) {
	if errors.Is(err, sources.ErrMissingArtifact) {
		logrus.Warnf("%s artifact unavailable: %v", name, err)
		return
	}
	logrus.Errorf("Error reading %s artifact: %v", name, err)
}

// ActionItems returns the top posts followed by the top comments
func (s *Service) ActionItems(ctx context.Context) []models.Record {
	return MergeActionItems(s.Posts(ctx), s.Comments(ctx), s.opts.PostsLimit, s.opts.CommentsLimit)
}

// TopPosts returns the highest-virality posts
func (s *Service) TopPosts(posts []models.Record) []models.Record {
	return head(RankPosts(posts), s.opts.TopPostsLimit)
}

// BankMentions counts bank mentions in the other-banks corpus
func (s *Service) BankMentions(ctx context.Context) map[string]int {
	corpus, err := s.repo.OtherBanksCorpus(ctx)
	if err != nil {
		logArtifactError("other banks corpus", err)
		return s.mentions.Zero()
	}
	return s.mentions.Count(corpus)
}

// Geolocation returns a copy of the static geolocation table
func (s *Service) Geolocation() map[string]int {
	out := make(map[string]int, len(s.opts.Geolocation))
	for k, v := range s.opts.Geolocation {
		out[k] = v
	}
	return out
}

// SentimentAnalysis builds the sentiment section from a set of posts
func (s *Service) SentimentAnalysis(posts []models.Record) models.SentimentAnalysis {
	return models.SentimentAnalysis{
		SentimentDistribution: SentimentDistribution(posts).Percentages,
		TopPosts:              s.TopPosts(posts),
		PostCategories:        PostCategories(posts),
		EmotionDistribution:   EmotionDistribution(posts).Percentages,
	}
}

// KPIFor derives the headline numbers
func KPIFor(posts []models.Record, mentions map[string]int) models.KPI {
	return models.KPI{
		TotalMentionsOfAllBanks:     mentions[TotalMentionsKey],
		PostsMentioningPrimeBank:    mentions["prime_bank"],
		BankSentimentScore:          BankSentimentScore(posts),
		EngagementWeightedSentiment: EngagementWeightedSentiment(posts),
	}
}

// Overview returns the narrative overview without forcing regeneration.
// Provider errors degrade to placeholder text so the dashboard stays complete.
func (s *Service) Overview(ctx context.Context, force bool) map[string]string {
	data, err := s.overview.GetOverview(ctx, force)
	if err != nil {
		logrus.Errorf("Error loading AI overview: %v", err)
		return placeholderOverview("Error loading AI overview")
	}
	return data
}

func placeholderOverview(text string) map[string]string {
	return map[string]string{
		"inquiry":     text,
		"praise":      text,
		"complaints":  text,
		"suggestions": text,
	}
}

// Dashboard assembles the complete dashboard document
func (s *Service) Dashboard(ctx context.Context) *models.Dashboard {
	posts := s.Posts(ctx)
	comments := s.Comments(ctx)
	mentions := s.BankMentions(ctx)

	return &models.Dashboard{
		LastUpdated:       s.now(),
		ScrapingStatus:    s.status.Snapshot(),
		KPI:               KPIFor(posts, mentions),
		SentimentAnalysis: s.SentimentAnalysis(posts),
		BankMentions:      mentions,
		PostGeolocation:   s.Geolocation(),
		ActionItems:       MergeActionItems(posts, comments, s.opts.PostsLimit, s.opts.CommentsLimit),
		AIOverview:        s.Overview(ctx, false),
	}
}

// Summary condenses the dashboard into headline statistics
func (s *Service) Summary(ctx context.Context) *models.Summary {
	posts := s.Posts(ctx)
	comments := s.Comments(ctx)
	mentions := s.BankMentions(ctx)
	status := s.status.Snapshot()

	return &models.Summary{
		TotalActionItems:  len(MergeActionItems(posts, comments, s.opts.PostsLimit, s.opts.CommentsLimit)),
		TotalBankMentions: mentions[TotalMentionsKey],
		PrimeBankMentions: mentions["prime_bank"],
		SentimentScore:    BankSentimentScore(posts),
		PostsScraped:      status.PostsScraped,
		ScrapingStatus:    status.Status,
		TopEmotion:        Dominant(EmotionDistribution(posts), EmotionLabels),
		DominantSentiment: Dominant(SentimentDistribution(posts), SentimentLabels),
	}
}
