package analytics

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/bankpulse/dashboard-api/internal/models"
	"github.com/bankpulse/dashboard-api/internal/sources"
)

// ParseIntOrDefault parses a non-negative count, substituting def when the
// value is missing, malformed or negative. It never fails.
func ParseIntOrDefault(raw string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v < 0 {
		return def
	}
	return v
}

// ParseFloatOrDefault parses a finite float, substituting def otherwise
func ParseFloatOrDefault(raw string, def float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp parses the ISO-8601 variants written by the scraper.
// Timestamps without an offset are read as UTC.
func ParseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CommentVirality is likes plus twice the replies
func CommentVirality(likes, replies int) float64 {
	return float64(likes + 2*replies)
}

// NormalizePost converts a posts CSV row into a Record. The virality score is
// taken from the source column; numeric fields fall back to zero independently.
func NormalizePost(row sources.Row) models.Record {
	return models.Record{
		Type:          models.RecordTypePost,
		ID:            row["post_id"],
		RoutingID:     row["post_routing_id"],
		Text:          row["text"],
		Author:        row["author_name"],
		Sentiment:     row["sentiment"],
		Emotion:       row["emotion"],
		Category:      row["category"],
		ViralityScore: ParseFloatOrDefault(row["virality_score"], 0),
		ReactionCount: ParseIntOrDefault(row["reaction_count"], 0),
		CommentCount:  ParseIntOrDefault(row["comments_count"], 0),
		ShareCount:    ParseIntOrDefault(row["share_count"], 0),
		URL:           row["post_url"],
		Keywords:      row["keywords"],
		TopicCategory: row["topic_category"],
	}
}

// NormalizeComment converts a comments CSV row into a Record. Any virality
// column in the source is ignored; the score is always recomputed.
func NormalizeComment(row sources.Row) models.Record {
	likes := ParseIntOrDefault(row["likes_count"], 0)
	replies := ParseIntOrDefault(row["comments_count"], 0)

	return models.Record{
		Type:          models.RecordTypeComment,
		ID:            row["comment_id"],
		RoutingID:     row["post_routing_id"],
		Text:          row["comment_text"],
		Author:        row["author_name"],
		ViralityScore: CommentVirality(likes, replies),
		ReactionCount: likes,
		CommentCount:  replies,
		URL:           row["post_url"],
		CommentURL:    row["comment_url"],
		Timestamp:     row["timestamp"],
	}
}

// NormalizePosts converts every row; malformed rows are never dropped
func NormalizePosts(rows []sources.Row) []models.Record {
	out := make([]models.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, NormalizePost(row))
	}
	return out
}

// NormalizeComments converts every row; malformed rows are never dropped
func NormalizeComments(rows []sources.Row) []models.Record {
	out := make([]models.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, NormalizeComment(row))
	}
	return out
}
