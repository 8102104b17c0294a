package notifications

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/bankpulse/dashboard-api/internal/config"
	"github.com/bankpulse/dashboard-api/internal/models"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// Service handles sending notifications via various channels
type Service struct {
	config *config.Config
	client *resty.Client
	sender gomail.Sender // overrides the SMTP dialer when set
}

// Ensure Service implements NotificationInterface
var _ NotificationInterface = (*Service)(nil)

// TeamsMessage represents a Microsoft Teams message
type TeamsMessage struct {
	Type       string         `json:"@type"`
	Context    string         `json:"@context"`
	ThemeColor string         `json:"themeColor,omitempty"`
	Title      string         `json:"title"`
	Text       string         `json:"text"`
	Sections   []TeamsSection `json:"sections,omitempty"`
}

type TeamsSection struct {
	ActivityTitle string      `json:"activityTitle,omitempty"`
	ActivityText  string      `json:"activityText,omitempty"`
	Facts         []TeamsFact `json:"facts,omitempty"`
	Markdown      bool        `json:"markdown,omitempty"`
}

type TeamsFact struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// NewService creates a new notification service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		client: resty.New().SetTimeout(30 * time.Second),
	}
}

// Enabled reports whether any channel is configured
func (s *Service) Enabled() bool {
	return s.config.TeamsWebhookURL != "" || s.config.NotificationEmail != ""
}

// SendRunReport sends a scraper run report via configured notification channels
func (s *Service) SendRunReport(ctx context.Context, report *models.RunReport) error {
	var errors []string

	if s.config.TeamsWebhookURL != "" {
		if err := s.sendToTeams(ctx, report); err != nil {
			logrus.Errorf("Failed to send Teams notification: %v", err)
			errors = append(errors, fmt.Sprintf("Teams: %v", err))
		} else {
			logrus.Info("Successfully sent run report to Teams")
		}
	}

	if s.config.NotificationEmail != "" {
		if err := s.sendEmail(report); err != nil {
			logrus.Errorf("Failed to send email notification: %v", err)
			errors = append(errors, fmt.Sprintf("Email: %v", err))
		} else {
			logrus.Info("Successfully sent run report via email")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("notification errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

func (s *Service) sendToTeams(ctx context.Context, report *models.RunReport) error {
	message := s.buildTeamsMessage(report)

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(message).
		Post(s.config.TeamsWebhookURL)

	if err != nil {
		return fmt.Errorf("failed to send Teams message: %w", err)
	}

	if resp.StatusCode() != 200 {
		return fmt.Errorf("Teams webhook returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	return nil
}

func subject(brand string, report *models.RunReport) string {
	if report.Status == models.ScraperCompleted {
		return fmt.Sprintf("%s scraper run completed (%d posts, %d comments)", brand, report.PostsScraped, report.CommentsScraped)
	}
	return fmt.Sprintf("%s scraper run failed", brand)
}

func reportFacts(report *models.RunReport) []TeamsFact {
	facts := []TeamsFact{
		{Name: "Run ID", Value: report.RunID},
		{Name: "Status", Value: string(report.Status)},
		{Name: "Started", Value: report.StartedAt.UTC().Format("2006-01-02 15:04:05 UTC")},
		{Name: "Duration", Value: report.Duration.Round(time.Second).String()},
		{Name: "Requested", Value: fmt.Sprintf("%d prime bank / %d other banks posts", report.PrimeBankPosts, report.OtherBanksPosts)},
		{Name: "Posts Scraped", Value: fmt.Sprintf("%d", report.PostsScraped)},
		{Name: "Comments Scraped", Value: fmt.Sprintf("%d", report.CommentsScraped)},
	}
	if report.Error != "" {
		facts = append(facts, TeamsFact{Name: "Error", Value: report.Error})
	}
	return facts
}

func (s *Service) buildTeamsMessage(report *models.RunReport) *TeamsMessage {
	color := "107C10"
	if report.Status != models.ScraperCompleted {
		color = "D13438"
	}

	return &TeamsMessage{
		Type:       "MessageCard",
		Context:    "https://schema.org/extensions",
		ThemeColor: color,
		Title:      subject(s.config.BrandName, report),
		Text:       fmt.Sprintf("Scraper run %s finished with status **%s**", report.RunID, report.Status),
		Sections: []TeamsSection{
			{
				ActivityTitle: "Run Summary",
				Facts:         reportFacts(report),
				Markdown:      true,
			},
		},
	}
}

func (s *Service) sendEmail(report *models.RunReport) error {
	htmlBody, err := buildEmailHTML(report)
	if err != nil {
		return fmt.Errorf("failed to build email HTML: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.config.SMTPUsername)
	m.SetHeader("To", s.config.NotificationEmail)
	m.SetHeader("Subject", subject(s.config.BrandName, report))
	m.SetBody("text/plain", buildEmailText(report))
	m.AddAlternative("text/html", htmlBody)

	if s.sender != nil {
		if err := gomail.Send(s.sender, m); err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	}

	d := gomail.NewDialer(s.config.SMTPHost, s.config.SMTPPort, s.config.SMTPUsername, s.config.SMTPPassword)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

var emailTemplate = template.Must(template.New("email").Parse(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Scraper Run Report</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        .header { color: white; padding: 20px; border-radius: 5px; }
        .completed { background-color: #107c10; }
        .failed { background-color: #d13438; }
        .summary { background-color: #f5f5f5; padding: 15px; margin: 20px 0; border-radius: 5px; }
    </style>
</head>
<body>
    <div class="header {{.Status}}">
        <h1>Scraper Run {{.Status}}</h1>
        <p>Run {{.RunID}} started {{.StartedAt.Format "January 2, 2006 at 3:04 PM MST"}}</p>
    </div>

    <div class="summary">
        <p><strong>Duration:</strong> {{.Duration}}</p>
        <p><strong>Requested:</strong> {{.PrimeBankPosts}} prime bank posts, {{.OtherBanksPosts}} other banks posts</p>
        <p><strong>Posts Scraped:</strong> {{.PostsScraped}}</p>
        <p><strong>Comments Scraped:</strong> {{.CommentsScraped}}</p>
        {{if .Error}}<p><strong>Error:</strong> {{.Error}}</p>{{end}}
    </div>

    <hr>
    <p><small>This report was generated automatically by the dashboard API.</small></p>
</body>
</html>
`))

func buildEmailHTML(report *models.RunReport) (string, error) {
	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, report); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func buildEmailText(report *models.RunReport) string {
	var text strings.Builder

	text.WriteString(fmt.Sprintf("Scraper Run Report - %s\n", report.Status))
	text.WriteString("====================\n")
	for _, fact := range reportFacts(report) {
		text.WriteString(fmt.Sprintf("%s: %s\n", fact.Name, fact.Value))
	}
	text.WriteString("\n---\nThis report was generated automatically by the dashboard API.\n")

	return text.String()
}
