package sources

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// FileRepository reads artifacts from the scraper output directory.
// Files are re-read on every call so a finished scraper run is visible immediately.
type FileRepository struct {
	postsCSV    string
	commentsCSV string
	primeText   string
	otherText   string
}

// Ensure FileRepository implements Repository
var _ Repository = (*FileRepository)(nil)

// NewFileRepository creates a repository over the given artifact paths
func NewFileRepository(postsCSV, commentsCSV, primeCorpus, otherBanksCorpus string) *FileRepository {
	return &FileRepository{
		postsCSV:    postsCSV,
		commentsCSV: commentsCSV,
		primeText:   primeCorpus,
		otherText:   otherBanksCorpus,
	}
}

func (r *FileRepository) PostRows(ctx context.Context) ([]Row, error) {
	return readCSV(ctx, r.postsCSV)
}

func (r *FileRepository) CommentRows(ctx context.Context) ([]Row, error) {
	return readCSV(ctx, r.commentsCSV)
}

func (r *FileRepository) PrimeCorpus(ctx context.Context) (string, error) {
	return readText(r.primeText)
}

func (r *FileRepository) OtherBanksCorpus(ctx context.Context) (string, error) {
	return readText(r.otherText)
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingArtifact, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return bytes.TrimPrefix(data, utf8BOM), nil
}

func readText(path string) (string, error) {
	data, err := readFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// readCSV parses a header-first CSV file into rows. Short rows simply lack the
// trailing keys; extra cells beyond the header are dropped.
func readCSV(ctx context.Context, path string) ([]Row, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return []Row{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	rows := make([]Row, 0)
	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			// A broken line must not take the remaining rows down with it
			logrus.Warnf("Skipping unreadable CSV line %d in %s: %v", line, path, err)
			continue
		}

		row := make(Row, len(header))
		for i, value := range record {
			if i >= len(header) {
				break
			}
			row[header[i]] = value
		}
		rows = append(rows, row)
	}

	logrus.Debugf("Read %d rows from %s", len(rows), path)
	return rows, nil
}
