package persist

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labyrinth/server/internal/config"
	"go.uber.org/zap"
)

// ErrNotConfigured reports that the review drop has no token or repo and
// submissions are silently unavailable.
var ErrNotConfigured = errors.New("review submitter not configured")

// ReviewSubmitter files player reviews into a GitHub repository through the
// Contents API, one file per review.
type ReviewSubmitter struct {
	cfg     config.ReviewsConfig
	client  *http.Client
	baseURL string
	log     *zap.Logger
	now     func() time.Time
}

// NewReviewSubmitter builds a submitter from config. It works even when
// unconfigured; Submit then returns ErrNotConfigured.
func NewReviewSubmitter(cfg config.ReviewsConfig, log *zap.Logger) *ReviewSubmitter {
	return &ReviewSubmitter{
		cfg:     cfg,
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: "https://api.github.com",
		log:     log,
		now:     time.Now,
	}
}

// Configured reports whether submissions can reach GitHub.
func (r *ReviewSubmitter) Configured() bool {
	return r.cfg.Token != "" && r.cfg.Repo != ""
}

// reviewTextLimit caps how much of a review body gets filed.
const reviewTextLimit = 2000

type contentsRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch,omitempty"`
}

// Submit files one review. The file name carries the timestamp, device, and
// rating so the repository is browsable without opening files.
func (r *ReviewSubmitter) Submit(ctx context.Context, deviceID string, rating int, text string) error {
	if !r.Configured() {
		return ErrNotConfigured
	}
	if rating < 1 {
		rating = 1
	}
	if rating > 5 {
		rating = 5
	}
	if runes := []rune(text); len(runes) > reviewTextLimit {
		text = string(runes[:reviewTextLimit])
	}

	ts := r.now().UTC().Format("20060102T150405Z")
	name := fmt.Sprintf("%s_%s_%dof5.txt", ts, deviceID, rating)
	url := fmt.Sprintf("%s/repos/%s/contents/%s/%s", r.baseURL, r.cfg.Repo, r.cfg.Path, name)

	body := fmt.Sprintf("rating: %d/5\ndevice: %s\n\n%s\n", rating, deviceID, text)
	payload, err := json.Marshal(contentsRequest{
		Message: fmt.Sprintf("Review %s", name),
		Content: base64.StdEncoding.EncodeToString([]byte(body)),
		Branch:  r.cfg.Branch,
	})
	if err != nil {
		return fmt.Errorf("encode review: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build review request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+r.cfg.Token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("submit review: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("submit review: unexpected status %d", resp.StatusCode)
	}
	r.log.Info("review submitted", zap.String("file", name), zap.Int("rating", rating))
	return nil
}
