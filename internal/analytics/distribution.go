package analytics

import (
	"fmt"
	"math"
	"strings"

	"github.com/bankpulse/dashboard-api/internal/models"
)

// LabelSet is a fixed list of buckets plus the bucket unknown values fall into
type LabelSet struct {
	Labels   []string
	Fallback string
}

var (
	CategoryLabels = LabelSet{
		Labels:   []string{"inquiry", "suggestion", "complaint", "praise", "other"},
		Fallback: "other",
	}
	// Anything that is not positive or negative counts as neutral
	SentimentLabels = LabelSet{
		Labels:   []string{"positive", "negative", "neutral"},
		Fallback: "neutral",
	}
	EmotionLabels = LabelSet{
		Labels:   []string{"neutral", "joy", "confusion", "frustration"},
		Fallback: "neutral",
	}
)

// Bucket maps a raw value onto one of the labels, case-insensitively
func (l LabelSet) Bucket(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	for _, label := range l.Labels {
		if value == label {
			return label
		}
	}
	return l.Fallback
}

// Percentage formats round(count/total*100) as "<int>%". Halves round to even,
// and a zero total reports "0%".
func Percentage(count, total int) string {
	return fmt.Sprintf("%d%%", percent(count, total))
}

func percent(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.RoundToEven(float64(count) / float64(total) * 100))
}

// Distribute buckets records by the extracted field. Percentages are rounded
// per label and are not adjusted to sum to 100.
func Distribute(records []models.Record, labels LabelSet, field func(models.Record) string) models.DistributionResult {
	result := models.DistributionResult{
		Percentages: make(map[string]string, len(labels.Labels)),
		Counts:      make(map[string]int, len(labels.Labels)),
		Total:       len(records),
	}

	for _, label := range labels.Labels {
		result.Counts[label] = 0
	}
	for _, r := range records {
		result.Counts[labels.Bucket(field(r))]++
	}
	for _, label := range labels.Labels {
		result.Percentages[label] = Percentage(result.Counts[label], result.Total)
	}

	return result
}

func recordCategory(r models.Record) string  { return r.Category }
func recordSentiment(r models.Record) string { return r.Sentiment }
func recordEmotion(r models.Record) string   { return r.Emotion }

// PostCategories returns the category breakdown in the dashboard's shape:
// the "suggestion" bucket is reported as "suggestions", plus the post total.
func PostCategories(posts []models.Record) map[string]any {
	dist := Distribute(posts, CategoryLabels, recordCategory)

	out := make(map[string]any, len(CategoryLabels.Labels)+1)
	for _, label := range CategoryLabels.Labels {
		key := label
		if label == "suggestion" {
			key = "suggestions"
		}
		out[key] = dist.Percentages[label]
	}
	out["total_number_of_posts"] = dist.Total
	return out
}

// SentimentDistribution is the positive/negative/neutral breakdown of posts
func SentimentDistribution(posts []models.Record) models.DistributionResult {
	return Distribute(posts, SentimentLabels, recordSentiment)
}

// EmotionDistribution is the emotion breakdown of posts
func EmotionDistribution(posts []models.Record) models.DistributionResult {
	return Distribute(posts, EmotionLabels, recordEmotion)
}

// Dominant returns the first label, in label order, with the highest
// reported percentage, as a [label, percentage] pair
func Dominant(dist models.DistributionResult, labels LabelSet) []string {
	best := ""
	bestPct := -1
	for _, label := range labels.Labels {
		if pct := percent(dist.Counts[label], dist.Total); pct > bestPct {
			best = label
			bestPct = pct
		}
	}
	return []string{best, dist.Percentages[best]}
}
