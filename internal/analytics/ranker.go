package analytics

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/bankpulse/dashboard-api/internal/models"
)

// RankPosts returns a copy of posts ordered by virality score, highest first.
// Equal scores keep their source order.
func RankPosts(posts []models.Record) []models.Record {
	ranked := make([]models.Record, len(posts))
	copy(ranked, posts)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ViralityScore > ranked[j].ViralityScore
	})

	return ranked
}

type timedComment struct {
	record models.Record
	at     time.Time
	hasAt  bool
}

// RankComments returns a copy of comments ordered by virality score, highest
// first. Equal scores put the most recent timestamp first; a comment without
// a parseable timestamp goes after every comment that has one.
func RankComments(comments []models.Record) []models.Record {
	keyed := make([]timedComment, len(comments))
	for i, c := range comments {
		at, ok := ParseTimestamp(c.Timestamp)
		keyed[i] = timedComment{record: c, at: at, hasAt: ok}
	}

	sort.SliceStable(keyed, func(i, j int) bool {
		a, b := keyed[i], keyed[j]
		if a.record.ViralityScore != b.record.ViralityScore {
			return a.record.ViralityScore > b.record.ViralityScore
		}
		if a.hasAt != b.hasAt {
			return a.hasAt
		}
		return a.hasAt && a.at.After(b.at)
	})

	ranked := make([]models.Record, len(keyed))
	for i, k := range keyed {
		ranked[i] = k.record
	}
	return ranked
}

// BankSentimentScore is the number of positive posts minus negative posts
func BankSentimentScore(posts []models.Record) int {
	score := 0
	for _, p := range posts {
		switch strings.ToLower(strings.TrimSpace(p.Sentiment)) {
		case "positive":
			score++
		case "negative":
			score--
		}
	}
	return score
}

// EngagementWeightedSentiment sums post virality scores, rounded to 2 places
func EngagementWeightedSentiment(posts []models.Record) float64 {
	total := 0.0
	for _, p := range posts {
		total += p.ViralityScore
	}
	return math.Round(total*100) / 100
}

func head(records []models.Record, n int) []models.Record {
	if n < 0 {
		n = 0
	}
	if n > len(records) {
		n = len(records)
	}
	return records[:n]
}
