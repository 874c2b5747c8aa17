package catalog

import (
	"context"
	"sync"

	"github.com/3Titanes/playclips-sample/internal/constants"
	"github.com/3Titanes/playclips-sample/internal/domain"
	"github.com/3Titanes/playclips-sample/internal/selection"
	"github.com/3Titanes/playclips-sample/internal/util"
	"github.com/3Titanes/playclips-sample/pkg/errors"
	"go.uber.org/zap"
)

// Store owns the base URL and the most recently loaded catalog.
type Store struct {
	fetcher Fetcher
	random  selection.Source
	logger  *zap.Logger

	mu      sync.RWMutex
	baseURL string
	catalog *domain.Catalog
}

type StoreOption func(*Store)

// WithRandomSource sets the source used by ChooseVideoForTag. The source is
// wrapped so views created from the store may be used concurrently.
func WithRandomSource(src selection.Source) StoreOption {
	return func(s *Store) {
		if src != nil {
			s.random = selection.NewLockedSource(src)
		}
	}
}

func NewStore(fetcher Fetcher, logger *zap.Logger, opts ...StoreOption) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		fetcher: fetcher,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.random == nil {
		s.random = selection.NewLockedSource(selection.NewTimeSeededSource())
	}
	return s
}

// Load fetches <baseURL>metadata.json and replaces the current catalog. On
// failure the previous catalog and base URL are kept. When loads overlap, the
// last one to complete wins.
func (s *Store) Load(ctx context.Context, baseURL string) error {
	baseURL = util.EnsureTrailingSlash(baseURL)
	url := baseURL + constants.CatalogConfig.MetadataFile

	body, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		s.logger.Warn("Failed to fetch catalog metadata", zap.String("url", url), zap.Error(err))
		return err
	}

	catalog, err := domain.ParseCatalog(body)
	if err != nil {
		s.logger.Warn("Failed to parse catalog metadata", zap.String("url", url), zap.Error(err))
		return err
	}

	s.mu.Lock()
	s.baseURL = baseURL
	s.catalog = catalog
	s.mu.Unlock()

	s.logger.Info("Catalog metadata loaded",
		zap.String("url", url),
		zap.String("generation", catalog.Generation),
		zap.Int("influencers", catalog.Len()),
	)
	return nil
}

// LoadAsync runs Load in the background. The returned channel receives the
// result of Load and is then closed.
func (s *Store) LoadAsync(ctx context.Context, baseURL string) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- s.Load(ctx, baseURL)
	}()
	return done
}

func (s *Store) snapshot() (*domain.Catalog, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog, s.baseURL
}

func (s *Store) Loaded() bool {
	c, _ := s.snapshot()
	return c != nil
}

// BaseURL is the normalized base URL of the loaded catalog, "" before a load.
func (s *Store) BaseURL() string {
	_, baseURL := s.snapshot()
	return baseURL
}

// Generation identifies the currently loaded catalog, "" before a load.
func (s *Store) Generation() string {
	c, _ := s.snapshot()
	if c == nil {
		return ""
	}
	return c.Generation
}

// ListInfluencers returns influencer identifiers in catalog key order.
func (s *Store) ListInfluencers() ([]string, error) {
	c, _ := s.snapshot()
	if c == nil {
		return nil, errors.NewNotLoadedError("list_influencers")
	}
	return c.InfluencerIDs(), nil
}

// Influencers returns a view for every influencer, in catalog key order.
func (s *Store) Influencers() ([]*Influencer, error) {
	c, _ := s.snapshot()
	if c == nil {
		return nil, errors.NewNotLoadedError("influencers")
	}
	ids := c.InfluencerIDs()
	views := make([]*Influencer, 0, len(ids))
	for _, id := range ids {
		rec, _ := c.Influencer(id)
		views = append(views, newInfluencer(c, id, rec, s.random))
	}
	return views, nil
}

// GetInfluencer returns a view bound to the currently loaded catalog.
func (s *Store) GetInfluencer(id string) (*Influencer, error) {
	c, _ := s.snapshot()
	if c == nil {
		return nil, errors.NewNotLoadedError("get_influencer")
	}
	rec, ok := c.Influencer(id)
	if !ok {
		return nil, errors.NewUnknownInfluencerError(id)
	}
	return newInfluencer(c, id, rec, s.random), nil
}
