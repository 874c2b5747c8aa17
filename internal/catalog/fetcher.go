package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/3Titanes/playclips-sample/internal/constants"
	"github.com/3Titanes/playclips-sample/internal/util"
	"github.com/3Titanes/playclips-sample/pkg/errors"
	"go.uber.org/zap"
)

// Fetcher retrieves the raw metadata document. Failures must be reported as
// *errors.MetadataFetchError.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type HTTPFetcher struct {
	httpClient *http.Client
	breaker    *util.CircuitBreaker
	logger     *zap.Logger
}

// NewHTTPFetcher performs a single GET per call. breaker may be nil.
func NewHTTPFetcher(httpClient *http.Client, breaker *util.CircuitBreaker, logger *zap.Logger) *HTTPFetcher {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: constants.HTTPConfig.Timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPFetcher{
		httpClient: httpClient,
		breaker:    breaker,
		logger:     logger,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if !f.breaker.CanExecute() {
		retryAfter := f.breaker.RetryAfter()
		f.logger.Warn("Circuit breaker is open", zap.String("url", url), zap.Duration("retry_after", retryAfter))
		err := errors.NewMetadataFetchError("metadata host unavailable (circuit open)", url, 0, nil)
		err.Context["retry_after_ms"] = retryAfter.Milliseconds()
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.NewMetadataFetchError("failed to create request", url, 0, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", constants.HTTPConfig.UserAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == nil {
			f.breaker.RecordFailure()
		}
		return nil, errors.NewMetadataFetchError("request failed", url, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode >= 500 {
			f.breaker.RecordFailure()
		}
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, errors.NewMetadataFetchError(fmt.Sprintf("unexpected status: %s", resp.Status), url, resp.StatusCode, nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, constants.HTTPConfig.MaxMetadataBytes+1))
	if err != nil {
		f.breaker.RecordFailure()
		return nil, errors.NewMetadataFetchError("failed to read response body", url, resp.StatusCode, err)
	}
	if int64(len(body)) > constants.HTTPConfig.MaxMetadataBytes {
		return nil, errors.NewMetadataFetchError("metadata exceeds size limit", url, resp.StatusCode, nil)
	}

	f.breaker.RecordSuccess()
	f.logger.Debug("Metadata fetched", zap.String("url", url), zap.Int("bytes", len(body)))
	return body, nil
}
