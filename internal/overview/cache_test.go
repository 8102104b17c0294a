package overview

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bankpulse/dashboard-api/internal/config"
	"github.com/bankpulse/dashboard-api/internal/sources"
	"github.com/bankpulse/dashboard-api/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockNarrator is a mock implementation of the narrator
type MockNarrator struct {
	mock.Mock
}

func (m *MockNarrator) Enabled() bool {
	return m.Called().Bool(0)
}

func (m *MockNarrator) Analyze(ctx context.Context, corpus string) (map[string]string, error) {
	args := m.Called(ctx, corpus)
	data, _ := args.Get(0).(map[string]string)
	return data, args.Error(1)
}

type staticCorpus struct {
	text string
	err  error
}

func (s staticCorpus) PrimeCorpus(context.Context) (string, error) { return s.text, s.err }

const testCorpus = "How can I open an account? Great service. Slow app."

var generated = map[string]string{
	KeyInquiry:     "inquiries",
	KeyPraise:      "praise",
	KeyComplaints:  "complaints",
	KeySuggestions: "suggestions",
}

type cacheFixture struct {
	cache    *Cache
	store    *storage.FileStorage
	narrator *MockNarrator
	clock    time.Time
}

func newCacheFixture(t *testing.T, corpus CorpusSource) *cacheFixture {
	t.Helper()
	store, err := storage.NewFileStorage(t.TempDir())
	require.NoError(t, err)

	f := &cacheFixture{
		store:    store,
		narrator: &MockNarrator{},
		clock:    time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC),
	}
	f.cache = NewCache(store, corpus, f.narrator, NewFallback(config.DefaultAnalytics().Keywords, "Prime Bank"), "overview.json", 24*time.Hour)
	f.cache.now = func() time.Time { return f.clock }
	return f
}

func (f *cacheFixture) fallback() map[string]string {
	return f.cache.fallback.Generate(testCorpus)
}

func TestCache_IdempotentWithinTTL(t *testing.T) {
	f := newCacheFixture(t, staticCorpus{text: testCorpus})
	f.narrator.On("Enabled").Return(true)
	f.narrator.On("Analyze", mock.Anything, testCorpus).Return(generated, nil).Once()
	ctx := context.Background()

	first, err := f.cache.GetOverview(ctx, false)
	require.NoError(t, err)
	f.clock = f.clock.Add(23 * time.Hour)
	second, err := f.cache.GetOverview(ctx, false)
	require.NoError(t, err)

	assert.Equal(t, generated, first)
	assert.Equal(t, first, second)
	f.narrator.AssertNumberOfCalls(t, "Analyze", 1)
}

func TestCache_StaleEntryRegenerates(t *testing.T) {
	f := newCacheFixture(t, staticCorpus{text: testCorpus})
	f.narrator.On("Enabled").Return(true)
	f.narrator.On("Analyze", mock.Anything, testCorpus).Return(generated, nil)
	ctx := context.Background()

	_, err := f.cache.GetOverview(ctx, false)
	require.NoError(t, err)
	f.clock = f.clock.Add(25 * time.Hour)
	_, err = f.cache.GetOverview(ctx, false)
	require.NoError(t, err)

	f.narrator.AssertNumberOfCalls(t, "Analyze", 2)
	entry, err := f.cache.Entry(ctx)
	require.NoError(t, err)
	assert.True(t, f.clock.Equal(entry.GeneratedAt))
}

func TestCache_ForceBypassesFreshEntry(t *testing.T) {
	f := newCacheFixture(t, staticCorpus{text: testCorpus})
	f.narrator.On("Enabled").Return(true)
	f.narrator.On("Analyze", mock.Anything, testCorpus).Return(generated, nil)
	ctx := context.Background()

	_, err := f.cache.GetOverview(ctx, false)
	require.NoError(t, err)
	_, err = f.cache.GetOverview(ctx, true)
	require.NoError(t, err)

	f.narrator.AssertNumberOfCalls(t, "Analyze", 2)
}

func TestCache_MalformedResponsePersistsFallback(t *testing.T) {
	f := newCacheFixture(t, staticCorpus{text: testCorpus})
	f.narrator.On("Enabled").Return(true)
	f.narrator.On("Analyze", mock.Anything, testCorpus).Return(nil, ErrUnexpectedShape)
	ctx := context.Background()

	got, err := f.cache.GetOverview(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, f.fallback(), got)

	entry, err := f.cache.Entry(ctx)
	require.NoError(t, err)
	assert.Equal(t, f.fallback(), entry.Data)
}

func TestCache_NetworkErrorDoesNotPersist(t *testing.T) {
	f := newCacheFixture(t, staticCorpus{text: testCorpus})
	f.narrator.On("Enabled").Return(true)
	f.narrator.On("Analyze", mock.Anything, testCorpus).Return(nil, errors.New("connection refused"))
	ctx := context.Background()

	got, err := f.cache.GetOverview(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, f.fallback(), got)

	_, err = f.cache.Entry(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCache_NoCredentialFallbackIsDeterministic(t *testing.T) {
	f := newCacheFixture(t, staticCorpus{text: testCorpus})
	f.narrator.On("Enabled").Return(false)
	ctx := context.Background()

	first, err := f.cache.GetOverview(ctx, false)
	require.NoError(t, err)
	second, err := f.cache.GetOverview(ctx, false)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, f.fallback(), first)
	f.narrator.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything)
	_, err = f.cache.Entry(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCache_MissingCorpus(t *testing.T) {
	ctx := context.Background()

	t.Run("no entry", func(t *testing.T) {
		f := newCacheFixture(t, staticCorpus{err: sources.ErrMissingArtifact})
		got, err := f.cache.GetOverview(ctx, false)
		require.NoError(t, err)
		for _, k := range Keys {
			assert.Equal(t, NoDataText, got[k])
		}
	})

	t.Run("stale entry is served", func(t *testing.T) {
		f := newCacheFixture(t, staticCorpus{err: sources.ErrMissingArtifact})
		f.cache.persist(ctx, generated)
		f.clock = f.clock.Add(48 * time.Hour)

		got, err := f.cache.GetOverview(ctx, true)
		require.NoError(t, err)
		assert.Equal(t, generated, got)
	})
}

func TestCache_ReadsLegacyEntry(t *testing.T) {
	f := newCacheFixture(t, staticCorpus{text: testCorpus})
	ctx := context.Background()
	legacy := `{
  "timestamp": "2024-06-01T07:30:00.123456",
  "data": {
    "inquiry": ["- one", "- two"],
    "praise": "p",
    "complaints": "c",
    "suggestions": "s"
  }
}`
	require.NoError(t, f.store.Store(ctx, "overview.json", []byte(legacy)))

	got, err := f.cache.GetOverview(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, "- one\n- two", got[KeyInquiry])
	f.narrator.AssertNotCalled(t, "Enabled")
}
