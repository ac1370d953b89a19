package persist

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labyrinth/server/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testStoreContract(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Load(ctx, "dev-1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Save(ctx, "dev-1", []byte(`{"v":1}`)))
	blob, err := store.Load(ctx, "dev-1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":1}`, string(blob))

	// Overwrite wins.
	require.NoError(t, store.Save(ctx, "dev-1", []byte(`{"v":2}`)))
	blob, err = store.Load(ctx, "dev-1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":2}`, string(blob))

	require.NoError(t, store.Delete(ctx, "dev-1"))
	_, err = store.Load(ctx, "dev-1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, store.Delete(ctx, "dev-1"), "deleting a missing save is not an error")

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Append(ctx, RunRecord{
			DeviceID:   "dev-1",
			Name:       "Ashe",
			Level:      i + 1,
			Depth:      i + 1,
			Gold:       100 * i,
			Outcome:    "death",
			RecordedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	recent, err := store.Recent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, 5, recent[0].Level, "newest first")
	assert.Equal(t, 4, recent[1].Level)
	assert.Equal(t, 3, recent[2].Level)
}

func TestMemoryStore(t *testing.T) {
	testStoreContract(t, NewMemoryStore())
}

func TestSqliteStore(t *testing.T) {
	store, err := NewSqliteStore(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer store.Close()
	testStoreContract(t, store)
}

func TestReviewSubmitterNotConfigured(t *testing.T) {
	r := NewReviewSubmitter(config.ReviewsConfig{}, zap.NewNop())
	assert.False(t, r.Configured())
	err := r.Submit(context.Background(), "dev-1", 5, "great")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestReviewSubmitter(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody contentsRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		gotPath = req.URL.Path
		gotAuth = req.Header.Get("Authorization")
		raw, _ := io.ReadAll(req.Body)
		require.NoError(t, json.Unmarshal(raw, &gotBody))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	r := NewReviewSubmitter(config.ReviewsConfig{
		Token: "tok", Repo: "owner/reviews", Path: "reviews", Branch: "main",
	}, zap.NewNop())
	r.baseURL = srv.URL
	r.now = func() time.Time { return time.Date(2026, 8, 24, 10, 30, 0, 0, time.UTC) }

	require.NoError(t, r.Submit(context.Background(), "dev-1", 9, "loved the dragon"))

	assert.Equal(t, "/repos/owner/reviews/contents/reviews/20260824T103000Z_dev-1_5of5.txt", gotPath)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "main", gotBody.Branch)

	decoded, err := base64.StdEncoding.DecodeString(gotBody.Content)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(decoded), "rating: 5/5"))
	assert.True(t, strings.Contains(string(decoded), "loved the dragon"))
}

func TestReviewSubmitterCapsText(t *testing.T) {
	var gotBody contentsRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		raw, _ := io.ReadAll(req.Body)
		require.NoError(t, json.Unmarshal(raw, &gotBody))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	r := NewReviewSubmitter(config.ReviewsConfig{Token: "tok", Repo: "o/r"}, zap.NewNop())
	r.baseURL = srv.URL

	long := strings.Repeat("x", reviewTextLimit) + "OVERFLOW"
	require.NoError(t, r.Submit(context.Background(), "dev-1", 4, long))

	decoded, err := base64.StdEncoding.DecodeString(gotBody.Content)
	require.NoError(t, err)
	body := string(decoded)
	assert.NotContains(t, body, "OVERFLOW")
	assert.Contains(t, body, strings.Repeat("x", reviewTextLimit))
}

func TestReviewSubmitterServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	r := NewReviewSubmitter(config.ReviewsConfig{Token: "tok", Repo: "o/r"}, zap.NewNop())
	r.baseURL = srv.URL
	err := r.Submit(context.Background(), "dev-1", 3, "meh")
	assert.ErrorContains(t, err, "403")
}
