package overview

import (
	"context"
	"errors"
)

// Overview keys, in the order they are presented
const (
	KeyInquiry     = "inquiry"
	KeyPraise      = "praise"
	KeyComplaints  = "complaints"
	KeySuggestions = "suggestions"
)

// Keys lists every key an overview must carry
var Keys = []string{KeyInquiry, KeyPraise, KeyComplaints, KeySuggestions}

var (
	// ErrUnexpectedShape means the narrator answered but not with the four keys
	ErrUnexpectedShape = errors.New("overview: unexpected response shape")
	// ErrNotConfigured means the narrator has no credential
	ErrNotConfigured = errors.New("overview: narrator not configured")
)

// Narrator turns the post corpus into a narrative overview per key
type Narrator interface {
	Enabled() bool
	Analyze(ctx context.Context, corpus string) (map[string]string, error)
}
