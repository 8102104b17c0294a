package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bankpulse/dashboard-api/internal/config"
	"github.com/bankpulse/dashboard-api/internal/models"
	"github.com/bankpulse/dashboard-api/internal/sources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOverview is a mock implementation of the overview provider
type MockOverview struct {
	mock.Mock
}

func (m *MockOverview) GetOverview(ctx context.Context, force bool) (map[string]string, error) {
	args := m.Called(ctx, force)
	data, _ := args.Get(0).(map[string]string)
	return data, args.Error(1)
}

type staticStatus struct {
	status models.ScraperStatus
}

func (s staticStatus) Snapshot() models.ScraperStatus { return s.status }

var testOverview = map[string]string{
	"inquiry":     "i",
	"praise":      "p",
	"complaints":  "c",
	"suggestions": "s",
}

func newTestService(t *testing.T, repo sources.Repository, overview OverviewProvider) *Service {
	t.Helper()
	a := config.DefaultAnalytics()
	mc, err := NewMentionCounter(a.Banks)
	require.NoError(t, err)

	svc := NewService(repo, mc, overview, staticStatus{status: models.ScraperStatus{Status: models.ScraperIdle}}, Options{
		PostsLimit:    2,
		CommentsLimit: 2,
		TopPostsLimit: 1,
		Geolocation:   a.Geolocation,
	})
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestService_Dashboard_EmptyDataDir(t *testing.T) {
	dir := t.TempDir()
	repo := sources.NewFileRepository(
		filepath.Join(dir, "posts.csv"),
		filepath.Join(dir, "comments.csv"),
		filepath.Join(dir, "prime.txt"),
		filepath.Join(dir, "other.txt"),
	)
	overview := &MockOverview{}
	overview.On("GetOverview", mock.Anything, false).Return(testOverview, nil)

	d := newTestService(t, repo, overview).Dashboard(context.Background())

	assert.Equal(t, 0, d.KPI.TotalMentionsOfAllBanks)
	assert.Equal(t, 0, d.KPI.BankSentimentScore)
	assert.Equal(t, 0.0, d.KPI.EngagementWeightedSentiment)
	assert.NotNil(t, d.ActionItems)
	assert.Empty(t, d.ActionItems)
	assert.NotNil(t, d.SentimentAnalysis.TopPosts)
	assert.Equal(t, "0%", d.SentimentAnalysis.SentimentDistribution["positive"])
	assert.Equal(t, "0%", d.SentimentAnalysis.EmotionDistribution["joy"])
	assert.Equal(t, 0, d.SentimentAnalysis.PostCategories["total_number_of_posts"])
	assert.Equal(t, 0, d.BankMentions["prime_bank"])
	assert.Equal(t, 30, d.PostGeolocation["Dhaka"])
	assert.Equal(t, testOverview, d.AIOverview)
	overview.AssertExpectations(t)

	// every top-level section is present and non-null
	b, err := json.Marshal(d)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(b, &doc))
	for _, key := range []string{"last_updated", "scraping_status", "kpi", "sentiment_analysis", "bank_mentions", "post_geolocation", "action_items", "ai_overview"} {
		assert.NotNil(t, doc[key], key)
	}
}

func TestService_Dashboard_WithData(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}
	repo := sources.NewFileRepository(
		write("posts.csv", "post_id,text,sentiment,emotion,category,virality_score\n"+
			"p1,App down,negative,frustration,complaint,10\n"+
			"p2,Great service,positive,joy,praise,4.5\n"+
			"p3,How do I apply?,neutral,confusion,inquiry,7\n"),
		write("comments.csv", "comment_id,comment_text,likes_count,comments_count,timestamp\n"+
			"c1,same here,1,1,2024-01-01T00:00:00\n"+
			"c2,fixed now,3,0,2024-01-02T00:00:00\n"+
			"c3,meh,0,0,\n"),
		write("prime.txt", "prime"),
		write("other.txt", "Prime Bank is better than BRAC Bank"),
	)
	overview := &MockOverview{}
	overview.On("GetOverview", mock.Anything, false).Return(nil, errors.New("boom"))

	d := newTestService(t, repo, overview).Dashboard(context.Background())

	assert.Equal(t, []string{"p1", "p3", "c2", "c1"}, ids(d.ActionItems))
	assert.Equal(t, []string{"p1"}, ids(d.SentimentAnalysis.TopPosts))
	assert.Equal(t, 0, d.KPI.BankSentimentScore)
	assert.Equal(t, 21.5, d.KPI.EngagementWeightedSentiment)
	assert.Equal(t, 1, d.BankMentions["brac_bank"])
	assert.Equal(t, d.BankMentions[TotalMentionsKey], d.KPI.TotalMentionsOfAllBanks)
	assert.Equal(t, d.BankMentions["prime_bank"], d.KPI.PostsMentioningPrimeBank)
	assert.Equal(t, "33%", d.SentimentAnalysis.PostCategories["complaint"])
	assert.Equal(t, "Error loading AI overview", d.AIOverview["praise"])
	assert.Len(t, d.AIOverview, 4)
}

func TestService_Summary(t *testing.T) {
	dir := t.TempDir()
	posts := filepath.Join(dir, "posts.csv")
	require.NoError(t, os.WriteFile(posts, []byte("post_id,sentiment,emotion\na,positive,joy\nb,positive,neutral\nc,negative,joy\n"), 0o644))
	repo := sources.NewFileRepository(posts, filepath.Join(dir, "none.csv"), "", filepath.Join(dir, "none.txt"))

	s := newTestService(t, repo, &MockOverview{}).Summary(context.Background())

	assert.Equal(t, 2, s.TotalActionItems)
	assert.Equal(t, 1, s.SentimentScore)
	assert.Equal(t, models.ScraperIdle, s.ScrapingStatus)
	assert.Equal(t, []string{"joy", "67%"}, s.TopEmotion)
	assert.Equal(t, []string{"positive", "67%"}, s.DominantSentiment)
}

func TestService_FullData(t *testing.T) {
	dir := t.TempDir()
	posts := filepath.Join(dir, "posts.csv")
	require.NoError(t, os.WriteFile(posts, []byte("post_id,virality_score\na,1\nb,2\n"), 0o644))
	repo := sources.NewFileRepository(posts, filepath.Join(dir, "missing.csv"), "", "")

	data := newTestService(t, repo, &MockOverview{}).FullData(context.Background())

	assert.Equal(t, []string{"a", "b"}, ids(data.Posts), "source order is kept")
	assert.NotNil(t, data.Comments)
	assert.Equal(t, 2, data.Summary.TotalPosts)
	assert.True(t, data.Summary.PostsCSVExists)
	assert.False(t, data.Summary.CommentsCSVExists)
}
