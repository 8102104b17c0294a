package analytics

import (
	"fmt"
	"strings"
	"testing"

	"github.com/bankpulse/dashboard-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeActionItems_PostsPrecedeComments(t *testing.T) {
	posts := []models.Record{
		{ID: "p1", Type: models.RecordTypePost, ViralityScore: 1},
		{ID: "p2", Type: models.RecordTypePost, ViralityScore: 3},
		{ID: "p3", Type: models.RecordTypePost, ViralityScore: 2},
	}
	comments := []models.Record{
		{ID: "c1", Type: models.RecordTypeComment, ViralityScore: 100},
		{ID: "c2", Type: models.RecordTypeComment, ViralityScore: 50},
	}

	items := MergeActionItems(posts, comments, 2, 1)
	assert.Equal(t, []string{"p2", "p3", "c1"}, ids(items))
}

func TestMergeActionItems_Empty(t *testing.T) {
	items := MergeActionItems(nil, nil, 10, 10)
	require.NotNil(t, items)
	assert.Empty(t, items)
}

func filterFixture() []models.Record {
	var items []models.Record
	for i := 0; i < 8; i++ {
		items = append(items, models.Record{ID: fmt.Sprintf("neg%d", i), Category: "Complaint", Sentiment: "Negative"})
	}
	items = append(items,
		models.Record{ID: "pos", Category: "complaint", Sentiment: "positive"},
		models.Record{ID: "inq", Category: "inquiry", Sentiment: "negative"},
	)
	return items
}

func TestFilterActionItems(t *testing.T) {
	tests := []struct {
		name     string
		filter   ActionItemFilter
		expected int
	}{
		{name: "no filter", filter: ActionItemFilter{}, expected: 10},
		{name: "category only", filter: ActionItemFilter{Category: "COMPLAINT"}, expected: 9},
		{name: "sentiment only", filter: ActionItemFilter{Sentiment: "negative"}, expected: 9},
		{name: "both with limit", filter: ActionItemFilter{Category: "complaint", Sentiment: "negative", Limit: 5}, expected: 5},
		{name: "limit larger than matches", filter: ActionItemFilter{Category: "inquiry", Limit: 5}, expected: 1},
		{name: "zero limit ignored", filter: ActionItemFilter{Limit: 0}, expected: 10},
		{name: "no match", filter: ActionItemFilter{Category: "praise"}, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterActionItems(filterFixture(), tt.filter)
			assert.Len(t, got, tt.expected)
			for _, item := range got {
				if tt.filter.Category != "" {
					assert.True(t, strings.EqualFold(item.Category, tt.filter.Category))
				}
				if tt.filter.Sentiment != "" {
					assert.True(t, strings.EqualFold(item.Sentiment, tt.filter.Sentiment))
				}
			}
		})
	}
}

func TestFilterActionItems_LimitAfterFiltering(t *testing.T) {
	items := []models.Record{
		{ID: "a", Category: "praise"},
		{ID: "b", Category: "complaint"},
		{ID: "c", Category: "complaint"},
	}

	got := FilterActionItems(items, ActionItemFilter{Category: "complaint", Limit: 1})
	assert.Equal(t, []string{"b"}, ids(got))
}

func TestSearchActionItems(t *testing.T) {
	items := []models.Record{
		{ID: "1", Text: "Card blocked again"},
		{ID: "2", Keywords: "card, atm"},
		{ID: "3", Author: "Cardiff Rahman"},
		{ID: "4", Text: "Loan rates"},
	}

	assert.Equal(t, []string{"1", "2", "3"}, ids(SearchActionItems(items, "CARD")))

	none := SearchActionItems(items, "mortgage")
	require.NotNil(t, none)
	assert.Empty(t, none)
}

func TestFindActionItem(t *testing.T) {
	items := []models.Record{{ID: "a"}, {ID: "b", Text: "found"}}

	item, ok := FindActionItem(items, "b")
	assert.True(t, ok)
	assert.Equal(t, "found", item.Text)

	_, ok = FindActionItem(items, "zzz")
	assert.False(t, ok)
}
