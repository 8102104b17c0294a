package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// BankPatterns lists the regex aliases counted as a mention of one bank
type BankPatterns struct {
	Bank     string   `yaml:"bank"`
	Patterns []string `yaml:"patterns"`
}

// KeywordSets drive the deterministic fallback overview
type KeywordSets struct {
	Inquiry   []string `yaml:"inquiry"`
	Praise    []string `yaml:"praise"`
	Complaint []string `yaml:"complaint"`
}

// Analytics is the optional YAML settings file. Missing sections keep defaults.
type Analytics struct {
	Banks       []BankPatterns `yaml:"banks"`
	Keywords    KeywordSets    `yaml:"keywords"`
	Geolocation map[string]int `yaml:"geolocation"`
}

// DefaultAnalytics returns the built-in bank table, keyword sets and geolocation
func DefaultAnalytics() *Analytics {
	return &Analytics{
		Banks: []BankPatterns{
			{Bank: "prime_bank", Patterns: []string{`prime\s*bank`, `primebank`, `@primebank`, `prime\s*b\.?`}},
			{Bank: "eastern_bank", Patterns: []string{`eastern\s*bank`, `ebl`, `@easternbank`}},
			{Bank: "brac_bank", Patterns: []string{`brac\s*bank`, `@bracbank`}},
			{Bank: "city_bank", Patterns: []string{`city\s*bank`, `@citybank`}},
			{Bank: "dutch_bangla", Patterns: []string{`dutch\s*bangla`, `dbbl`, `@dutchbangla`}},
		},
		Keywords: KeywordSets{
			Inquiry:   []string{"how", "when", "where", "what", "why", "can i", "help", "support", "?"},
			Praise:    []string{"good", "great", "excellent", "thank", "appreciate", "best", "amazing", "wonderful"},
			Complaint: []string{"problem", "issue", "error", "wrong", "bad", "terrible", "slow", "delay", "frustrated"},
		},
		Geolocation: map[string]int{
			"Dhaka":      30,
			"Chittagong": 17,
			"Rajshahi":   8,
			"Sylhet":     9,
		},
	}
}

// LoadAnalytics reads the YAML file at path over the defaults.
// An empty path returns the defaults unchanged.
func LoadAnalytics(path string) (*Analytics, error) {
	a := DefaultAnalytics()
	if path == "" {
		return a, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read analytics config %s: %w", path, err)
	}

	var override Analytics
	if err := yaml.Unmarshal(b, &override); err != nil {
		return nil, fmt.Errorf("unmarshal analytics config %s: %w", path, err)
	}

	if len(override.Banks) > 0 {
		a.Banks = override.Banks
	}
	if len(override.Keywords.Inquiry) > 0 {
		a.Keywords.Inquiry = override.Keywords.Inquiry
	}
	if len(override.Keywords.Praise) > 0 {
		a.Keywords.Praise = override.Keywords.Praise
	}
	if len(override.Keywords.Complaint) > 0 {
		a.Keywords.Complaint = override.Keywords.Complaint
	}
	if len(override.Geolocation) > 0 {
		a.Geolocation = override.Geolocation
	}

	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("validate analytics config %s: %w", path, err)
	}
	return a, nil
}

// Validate checks that every bank has a name and compilable patterns
func (a *Analytics) Validate() error {
	seen := make(map[string]bool, len(a.Banks))
	for _, b := range a.Banks {
		if b.Bank == "" {
			return fmt.Errorf("bank entry without a name")
		}
		if seen[b.Bank] {
			return fmt.Errorf("bank %q listed twice", b.Bank)
		}
		seen[b.Bank] = true
		if len(b.Patterns) == 0 {
			return fmt.Errorf("bank %q has no patterns", b.Bank)
		}
		for _, p := range b.Patterns {
			if _, err := regexp.Compile(p); err != nil {
				return fmt.Errorf("bank %q pattern %q: %w", b.Bank, p, err)
			}
		}
	}
	return nil
}
