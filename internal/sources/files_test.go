package sources

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileRepository_PostRows(t *testing.T) {
	dir := t.TempDir()
	posts := writeFile(t, dir, "posts.csv",
		"post_id,text,virality_score,category\n"+
			"p1,\"Hello, Prime Bank\",12.5,Inquiry\n"+
			"p2,short row\n")

	repo := NewFileRepository(posts, "", "", "")
	rows, err := repo.PostRows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Hello, Prime Bank", rows[0]["text"])
	assert.Equal(t, "12.5", rows[0]["virality_score"])
	assert.Equal(t, "Inquiry", rows[0]["category"])

	_, ok := rows[1]["virality_score"]
	assert.False(t, ok, "short rows lack trailing columns")
}

func TestFileRepository_CommentRowsStripsBOM(t *testing.T) {
	dir := t.TempDir()
	comments := writeFile(t, dir, "comments.csv", "\xEF\xBB\xBFcomment_id,likes_count\nc1,4\n")

	repo := NewFileRepository("", comments, "", "")
	rows, err := repo.CommentRows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "c1", rows[0]["comment_id"])
}

func TestFileRepository_EmptyCSV(t *testing.T) {
	dir := t.TempDir()
	empty := writeFile(t, dir, "empty.csv", "")

	rows, err := NewFileRepository(empty, "", "", "").PostRows(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestFileRepository_MissingArtifacts(t *testing.T) {
	dir := t.TempDir()
	repo := NewFileRepository(
		filepath.Join(dir, "nope.csv"),
		filepath.Join(dir, "nope2.csv"),
		filepath.Join(dir, "prime.txt"),
		filepath.Join(dir, "other.txt"),
	)
	ctx := context.Background()

	_, err := repo.PostRows(ctx)
	assert.ErrorIs(t, err, ErrMissingArtifact)
	_, err = repo.CommentRows(ctx)
	assert.ErrorIs(t, err, ErrMissingArtifact)
	_, err = repo.PrimeCorpus(ctx)
	assert.ErrorIs(t, err, ErrMissingArtifact)
	_, err = repo.OtherBanksCorpus(ctx)
	assert.ErrorIs(t, err, ErrMissingArtifact)
}

func TestFileRepository_Corpus(t *testing.T) {
	dir := t.TempDir()
	prime := writeFile(t, dir, "prime.txt", "Prime Bank app is great.")

	text, err := NewFileRepository("", "", prime, "").PrimeCorpus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Prime Bank app is great.", text)
}
