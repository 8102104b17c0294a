package overview

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

const systemPrompt = "You are an expert analyst specializing in customer feedback analysis for banking services. " +
	"Respond with a single JSON object only, without markdown code fences."

const promptTemplate = `As an expert AI analyst, analyze the following Facebook posts about %[1]s.
Explain what they reveal about %[1]s's customer relationship, service quality and market position.
Be specific, detailed and analytical.

Respond with strict JSON only, using exactly this structure:
{
    "inquiry": "analysis of customer inquiries with specific patterns and insights",
    "praise": "analysis of customer praise with the service strengths identified",
    "complaints": "analysis of customer complaints with root causes",
    "suggestions": "recommendations based on the customer feedback patterns"
}

For each key provide 6-8 detailed bullet points in markdown, using **bold** for emphasis.
Mention %[1]s by name and keep the analysis specific to its services and its customers' opinions.

INQUIRY ANALYSIS: types of inquiries (account issues, service questions, technical problems), their frequency,
the most common pain points, query complexity, response time expectations, recurring or seasonal themes.

PRAISE ANALYSIS: services or features customers appreciate most, the language of positive feedback,
staff performance, exceptional experiences, competitive advantages, loyalty indicators.

COMPLAINTS ANALYSIS: complaint types (technical, service, process, communication), severity and frequency,
systemic versus isolated issues, frustration and escalation patterns, compliance concerns, reputational risk.

SUGGESTIONS: actionable recommendations, process improvements for the most common issues, technology upgrades,
customer experience enhancements, staff training, proactive communication, competitive positioning.

Posts content:
%[2]s
`

// OpenAIClient asks an OpenAI chat completion model for the overview
type OpenAIClient struct {
	apiKey  string
	model   string
	baseURL string
	brand   string
	client  *resty.Client
}

var _ Narrator = (*OpenAIClient)(nil)

// NewOpenAIClient creates a new OpenAI narrator
func NewOpenAIClient(apiKey, model, baseURL, brand string) *OpenAIClient {
	return &OpenAIClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		brand:   brand,
		client:  resty.New().SetTimeout(120 * time.Second),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *OpenAIClient) Enabled() bool {
	return c.apiKey != ""
}

// Analyze sends the corpus and decodes the four overview keys
func (c *OpenAIClient) Analyze(ctx context.Context, corpus string) (map[string]string, error) {
	if !c.Enabled() {
		return nil, ErrNotConfigured
	}

	req := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf(promptTemplate, c.brand, corpus)},
		},
		Temperature: 0.3,
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(c.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post(c.baseURL + "/chat/completions")
	if err != nil {
		return nil, fmt.Errorf("openai request failed: %w", err)
	}

	var chat chatResponse
	if err := json.Unmarshal(resp.Body(), &chat); err != nil {
		return nil, fmt.Errorf("openai returned status %d with undecodable body: %w", resp.StatusCode(), err)
	}
	if resp.IsError() {
		msg := resp.Status()
		if chat.Error != nil {
			msg = chat.Error.Message
		}
		return nil, fmt.Errorf("openai returned status %d: %s", resp.StatusCode(), msg)
	}
	if len(chat.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices", ErrUnexpectedShape)
	}

	content := chat.Choices[0].Message.Content
	data, err := parseOverview(content)
	if err != nil {
		logrus.Debugf("Unparseable overview response: %s", content)
		return nil, err
	}
	return data, nil
}
