package analytics

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bankpulse/dashboard-api/internal/config"
)

// TotalMentionsKey holds the sum over all banks in a mention count map
const TotalMentionsKey = "total_bank_mentions"

type bankMatcher struct {
	bank     string
	patterns []*regexp.Regexp
}

// MentionCounter counts regex matches of bank names and aliases in free text
type MentionCounter struct {
	banks []bankMatcher
}

// NewMentionCounter compiles the bank pattern table (case-insensitive)
func NewMentionCounter(banks []config.BankPatterns) (*MentionCounter, error) {
	mc := &MentionCounter{}
	for _, b := range banks {
		m := bankMatcher{bank: b.Bank}
		for _, p := range b.Patterns {
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				return nil, fmt.Errorf("compile pattern %q for %s: %w", p, b.Bank, err)
			}
			m.patterns = append(m.patterns, re)
		}
		mc.banks = append(mc.banks, m)
	}
	return mc, nil
}

// Count sums non-overlapping matches of every pattern per bank. Patterns of
// one bank are matched independently, so overlapping aliases each count.
func (mc *MentionCounter) Count(text string) map[string]int {
	content := strings.ToLower(text)
	counts := make(map[string]int, len(mc.banks)+1)
	total := 0

	for _, b := range mc.banks {
		n := 0
		for _, re := range b.patterns {
			n += len(re.FindAllStringIndex(content, -1))
		}
		counts[b.bank] = n
		total += n
	}

	counts[TotalMentionsKey] = total
	return counts
}

// Zero returns a count map with every bank at zero
func (mc *MentionCounter) Zero() map[string]int {
	return mc.Count("")
}
