package analytics

import (
	"testing"
	"time"

	"github.com/bankpulse/dashboard-api/internal/models"
	"github.com/bankpulse/dashboard-api/internal/sources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIntOrDefault(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected int
	}{
		{name: "plain number", raw: "42", expected: 42},
		{name: "surrounding spaces", raw: " 7 ", expected: 7},
		{name: "empty", raw: "", expected: 0},
		{name: "not a number", raw: "abc", expected: 0},
		{name: "float text", raw: "3.5", expected: 0},
		{name: "negative", raw: "-4", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseIntOrDefault(tt.raw, 0))
		})
	}
}

func TestParseFloatOrDefault(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected float64
	}{
		{name: "decimal", raw: "12.75", expected: 12.75},
		{name: "integer", raw: "3", expected: 3},
		{name: "garbage", raw: "n/a", expected: 0},
		{name: "nan", raw: "NaN", expected: 0},
		{name: "infinity", raw: "Inf", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseFloatOrDefault(tt.raw, 0))
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		ok       bool
		expected time.Time
	}{
		{name: "rfc3339", raw: "2024-05-01T10:00:00Z", ok: true, expected: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{name: "no offset", raw: "2024-05-01T10:00:00", ok: true, expected: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{name: "space separator", raw: "2024-05-01 10:00:00", ok: true, expected: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{name: "date only", raw: "2024-05-01", ok: true, expected: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		{name: "empty", raw: "", ok: false},
		{name: "garbage", raw: "yesterday", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTimestamp(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.expected.Equal(got), "got %s", got)
			}
		})
	}
}

func TestNormalizePost(t *testing.T) {
	row := sources.Row{
		"post_id":        "p1",
		"text":           "Prime Bank app keeps crashing",
		"author_name":    "Rahim",
		"sentiment":      "Negative",
		"category":       "Complaint",
		"virality_score": "18.5",
		"reaction_count": "12",
		"comments_count": "oops",
		"share_count":    "",
	}

	post := NormalizePost(row)
	assert.Equal(t, models.RecordTypePost, post.Type)
	assert.Equal(t, "p1", post.ID)
	assert.Equal(t, "Negative", post.Sentiment, "display fields keep their raw case")
	assert.Equal(t, 18.5, post.ViralityScore)
	assert.Equal(t, 12, post.ReactionCount)
	assert.Equal(t, 0, post.CommentCount)
	assert.Equal(t, 0, post.ShareCount)
}

func TestNormalizeComment_RecomputesVirality(t *testing.T) {
	tests := []struct {
		name     string
		row      sources.Row
		expected float64
	}{
		{
			name:     "likes and replies",
			row:      sources.Row{"likes_count": "5", "comments_count": "3"},
			expected: 11,
		},
		{
			name:     "source virality column ignored",
			row:      sources.Row{"likes_count": "1", "comments_count": "0", "virality_score": "999"},
			expected: 1,
		},
		{
			name:     "malformed counts",
			row:      sources.Row{"likes_count": "x", "comments_count": "2"},
			expected: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NormalizeComment(tt.row)
			assert.Equal(t, models.RecordTypeComment, c.Type)
			assert.Equal(t, tt.expected, c.ViralityScore)
		})
	}
}

func TestNormalizePosts_KeepsMalformedRows(t *testing.T) {
	rows := []sources.Row{
		{"post_id": "a", "virality_score": "bad"},
		{"post_id": "b", "virality_score": "2"},
	}

	posts := NormalizePosts(rows)
	require.Len(t, posts, 2)
	assert.Equal(t, 0.0, posts[0].ViralityScore)
	assert.Equal(t, 2.0, posts[1].ViralityScore)
}
