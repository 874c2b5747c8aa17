package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/3Titanes/playclips-sample/internal/constants"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// Target is one playable asset to check.
type Target struct {
	InfluencerID string
	VideoID      string
	URL          string
}

type Result struct {
	Target
	StatusCode int
	Err        error
}

func (r Result) OK() bool {
	return r.Err == nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Problem describes why the check failed, "" for OK results.
func (r Result) Problem() string {
	switch {
	case r.Err != nil:
		return r.Err.Error()
	case !r.OK():
		return fmt.Sprintf("HTTP %d", r.StatusCode)
	default:
		return ""
	}
}

// Checker issues HEAD requests for asset URLs on a bounded worker pool.
type Checker struct {
	httpClient  *http.Client
	concurrency int
	logger      *zap.Logger
}

func NewChecker(httpClient *http.Client, concurrency int, logger *zap.Logger) *Checker {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: constants.HTTPConfig.Timeout}
	}
	if concurrency <= 0 {
		concurrency = constants.VerifyConfig.Concurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Checker{
		httpClient:  httpClient,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Check returns one result per target, in target order.
func (c *Checker) Check(ctx context.Context, targets []Target) []Result {
	results := make([]Result, len(targets))
	if len(targets) == 0 {
		return results
	}

	p := pool.New().WithMaxGoroutines(c.concurrency)
	resultsMu := sync.Mutex{}

	for idx, target := range targets {
		p.Go(func() {
			result := c.checkOne(ctx, target)
			resultsMu.Lock()
			results[idx] = result
			resultsMu.Unlock()
		})
	}

	p.Wait()

	failed := 0
	for _, r := range results {
		if !r.OK() {
			failed++
		}
	}
	c.logger.Info("Asset check finished",
		zap.Int("checked", len(results)),
		zap.Int("failed", failed),
	)
	return results
}

func (c *Checker) checkOne(ctx context.Context, target Target) Result {
	result := Result{Target: target}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target.URL, nil)
	if err != nil {
		result.Err = err
		return result
	}
	req.Header.Set("User-Agent", constants.HTTPConfig.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("Asset check failed", zap.String("url", target.URL), zap.Error(err))
		result.Err = err
		return result
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	result.StatusCode = resp.StatusCode
	if !result.OK() {
		c.logger.Debug("Asset check returned non-success status",
			zap.String("url", target.URL),
			zap.Int("status", resp.StatusCode),
		)
	}
	return result
}
