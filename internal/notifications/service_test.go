package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bankpulse/dashboard-api/internal/config"
	"github.com/bankpulse/dashboard-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type capturedMail struct {
	from string
	to   []string
	body string
}

type fakeSender struct {
	sent []capturedMail
	err  error
}

func (f *fakeSender) Send(from string, to []string, msg io.WriterTo) error {
	if f.err != nil {
		return f.err
	}
	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		return err
	}
	f.sent = append(f.sent, capturedMail{from: from, to: to, body: buf.String()})
	return nil
}

var _ gomail.Sender = (*fakeSender)(nil)

func testReport(status models.ScraperState) *models.RunReport {
	start := time.Date(2024, 6, 1, 6, 0, 0, 0, time.UTC)
	r := &models.RunReport{
		RunID:           "run-123",
		Status:          status,
		StartedAt:       start,
		FinishedAt:      start.Add(95 * time.Second),
		Duration:        95 * time.Second,
		PrimeBankPosts:  20,
		OtherBanksPosts: 15,
		PostsScraped:    24,
		CommentsScraped: 180,
	}
	if status == models.ScraperFailed {
		r.Error = "exit status 1"
	}
	return r
}

func TestService_buildTeamsMessage(t *testing.T) {
	svc := NewService(&config.Config{BrandName: "Prime Bank"})

	tests := []struct {
		name          string
		report        *models.RunReport
		expectedTitle string
		expectedColor string
		expectedFacts int
	}{
		{
			name:          "completed run",
			report:        testReport(models.ScraperCompleted),
			expectedTitle: "Prime Bank scraper run completed (24 posts, 180 comments)",
			expectedColor: "107C10",
			expectedFacts: 7,
		},
		{
			name:          "failed run",
			report:        testReport(models.ScraperFailed),
			expectedTitle: "Prime Bank scraper run failed",
			expectedColor: "D13438",
			expectedFacts: 8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := svc.buildTeamsMessage(tt.report)
			assert.Equal(t, "MessageCard", msg.Type)
			assert.Equal(t, tt.expectedTitle, msg.Title)
			assert.Equal(t, tt.expectedColor, msg.ThemeColor)
			require.Len(t, msg.Sections, 1)
			assert.Len(t, msg.Sections[0].Facts, tt.expectedFacts)
			assert.Equal(t, "1m35s", msg.Sections[0].Facts[3].Value)
		})
	}
}

func TestService_SendRunReport_Teams(t *testing.T) {
	var received TeamsMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	svc := NewService(&config.Config{BrandName: "Prime Bank", TeamsWebhookURL: srv.URL})
	require.True(t, svc.Enabled())

	err := svc.SendRunReport(context.Background(), testReport(models.ScraperCompleted))
	require.NoError(t, err)
	assert.Contains(t, received.Text, "run-123")
}

func TestService_SendRunReport_TeamsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("bad payload"))
	}))
	defer srv.Close()

	svc := NewService(&config.Config{TeamsWebhookURL: srv.URL})
	err := svc.SendRunReport(context.Background(), testReport(models.ScraperCompleted))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestService_SendRunReport_Email(t *testing.T) {
	sender := &fakeSender{}
	svc := NewService(&config.Config{
		BrandName:         "Prime Bank",
		NotificationEmail: "ops@example.com",
		SMTPUsername:      "bot@example.com",
	})
	svc.sender = sender

	err := svc.SendRunReport(context.Background(), testReport(models.ScraperFailed))
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "bot@example.com", sender.sent[0].from)
	assert.Equal(t, []string{"ops@example.com"}, sender.sent[0].to)
	assert.Contains(t, sender.sent[0].body, "Prime Bank scraper run failed")
}

func TestService_NoChannels(t *testing.T) {
	svc := NewService(&config.Config{})
	assert.False(t, svc.Enabled())
	assert.NoError(t, svc.SendRunReport(context.Background(), testReport(models.ScraperCompleted)))
}

func TestBuildEmailText(t *testing.T) {
	text := buildEmailText(testReport(models.ScraperFailed))
	assert.Contains(t, text, "Run ID: run-123")
	assert.Contains(t, text, "Error: exit status 1")
}
