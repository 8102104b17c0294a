package analytics

import (
	"strings"

	"github.com/bankpulse/dashboard-api/internal/models"
)

// MergeActionItems ranks posts and comments independently, keeps the top of
// each and returns posts followed by comments. Comments never outrank posts.
func MergeActionItems(posts, comments []models.Record, postsLimit, commentsLimit int) []models.Record {
	topPosts := head(RankPosts(posts), postsLimit)
	topComments := head(RankComments(comments), commentsLimit)

	items := make([]models.Record, 0, len(topPosts)+len(topComments))
	items = append(items, topPosts...)
	items = append(items, topComments...)
	return items
}

// ActionItemFilter narrows a merged action item list. Empty fields and a
// non-positive limit are ignored.
type ActionItemFilter struct {
	Category  string
	Sentiment string
	Limit     int
}

// FilterActionItems applies category and sentiment equality (case-insensitive)
// and then keeps the first Limit matches
func FilterActionItems(items []models.Record, f ActionItemFilter) []models.Record {
	out := make([]models.Record, 0, len(items))
	for _, item := range items {
		if f.Category != "" && !strings.EqualFold(item.Category, f.Category) {
			continue
		}
		if f.Sentiment != "" && !strings.EqualFold(item.Sentiment, f.Sentiment) {
			continue
		}
		out = append(out, item)
	}

	if f.Limit > 0 {
		out = head(out, f.Limit)
	}
	return out
}

// SearchActionItems returns items whose text, keywords or author contain the
// query, case-insensitively
func SearchActionItems(items []models.Record, query string) []models.Record {
	q := strings.ToLower(query)
	out := make([]models.Record, 0)
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Text), q) ||
			strings.Contains(strings.ToLower(item.Keywords), q) ||
			strings.Contains(strings.ToLower(item.Author), q) {
			out = append(out, item)
		}
	}
	return out
}

// FindActionItem returns the first item with the given post or comment id
func FindActionItem(items []models.Record, id string) (models.Record, bool) {
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return models.Record{}, false
}
