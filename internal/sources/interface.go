package sources

import (
	"context"
	"errors"
)

// ErrMissingArtifact is returned when a source file produced by the scraper does not exist
var ErrMissingArtifact = errors.New("source artifact not found")

// Row is one delimited-text record keyed by column header
type Row map[string]string

// Repository defines the contract for reading scraper artifacts
type Repository interface {
	PostRows(ctx context.Context) ([]Row, error)
	CommentRows(ctx context.Context) ([]Row, error)
	PrimeCorpus(ctx context.Context) (string, error)
	OtherBanksCorpus(ctx context.Context) (string, error)
}
