package overview

import (
	"strings"
	"testing"

	"github.com/bankpulse/dashboard-api/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestFallback_Generate(t *testing.T) {
	f := NewFallback(config.DefaultAnalytics().Keywords, "Prime Bank")
	corpus := "How do I reset my PIN? The app is great. Great support, but a slow transfer. Thank you."

	got := f.Generate(corpus)

	assert.Len(t, got, 4)
	// how, support, ?  /  great, thank  /  slow
	assert.True(t, strings.HasPrefix(got[KeyInquiry],
		"- **Customer Inquiry Volume**: Analysis of 18 words across 3 statements reveals 3 inquiry-related mentions\n"), got[KeyInquiry])
	assert.True(t, strings.HasPrefix(got[KeyPraise], "- **Service Excellence Recognition**: 2 positive mentions"))
	assert.Contains(t, got[KeyPraise], "Recognition of Prime Bank's efforts")
	assert.True(t, strings.HasPrefix(got[KeyComplaints], "- **Service Delivery Issues**: 1 complaint indicators"))
	assert.Equal(t, suggestionsTemplate, got[KeySuggestions])
}

func TestFallback_Deterministic(t *testing.T) {
	f := NewFallback(config.DefaultAnalytics().Keywords, "Prime Bank")
	corpus := "Terrible delay. Excellent staff! Where is the branch?"

	assert.Equal(t, f.Generate(corpus), f.Generate(corpus))
}

func TestFallback_EmptyCorpus(t *testing.T) {
	got := NewFallback(config.DefaultAnalytics().Keywords, "Prime Bank").Generate("")
	assert.Contains(t, got[KeyInquiry], "Analysis of 0 words across 0 statements reveals 0 inquiry-related mentions")
}
