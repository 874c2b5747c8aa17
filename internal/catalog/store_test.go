package catalog

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"github.com/3Titanes/playclips-sample/internal/selection"
	"github.com/3Titanes/playclips-sample/internal/util"
	"github.com/3Titanes/playclips-sample/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const aliceMetadata = `{
	"alice": {
		"name": "Alice",
		"thumbnail": "alice.jpg",
		"videos": {
			"v1": {"location": "a/{quality}.mp4", "weight": 1, "tags": ["wave"]},
			"v2": {"location": "b/{quality}.mp4", "weight": 3, "tags": ["wave", "dance"]}
		}
	}
}`

const bobMetadata = `{
	"bob": {"name": "Bob", "videos": {"b1": {"location": "b1.mp4", "weight": 1, "tags": ["jump"]}}},
	"carol": {"name": "Carol", "videos": {}}
}`

type fakeFetcher struct {
	bodies map[string]string
	errs   map[string]error
	calls  []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.calls = append(f.calls, url)
	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	body, ok := f.bodies[url]
	if !ok {
		return nil, errors.NewMetadataFetchError("unexpected status: 404 Not Found", url, http.StatusNotFound, nil)
	}
	return []byte(body), nil
}

func newTestStore(f Fetcher) *Store {
	return NewStore(f, zap.NewNop(), WithRandomSource(selection.NewSeededSource(1)))
}

func TestQueriesBeforeLoadFailWithNotLoaded(t *testing.T) {
	store := newTestStore(&fakeFetcher{})

	if _, err := store.ListInfluencers(); !errors.IsNotLoaded(err) {
		t.Fatalf("ListInfluencers error = %v, want NotLoadedError", err)
	}
	if _, err := store.Influencers(); !errors.IsNotLoaded(err) {
		t.Fatalf("Influencers error = %v, want NotLoadedError", err)
	}
	if _, err := store.GetInfluencer("alice"); !errors.IsNotLoaded(err) {
		t.Fatalf("GetInfluencer error = %v, want NotLoadedError", err)
	}
	if store.Loaded() || store.BaseURL() != "" || store.Generation() != "" {
		t.Fatal("store should report nothing loaded")
	}
}

func TestLoadNormalizesBaseURL(t *testing.T) {
	for _, base := range []string{"http://cdn/clips", "http://cdn/clips/"} {
		fetcher := &fakeFetcher{bodies: map[string]string{"http://cdn/clips/metadata.json": aliceMetadata}}
		store := newTestStore(fetcher)

		if err := store.Load(context.Background(), base); err != nil {
			t.Fatalf("Load(%q): %v", base, err)
		}
		if !slices.Equal(fetcher.calls, []string{"http://cdn/clips/metadata.json"}) {
			t.Fatalf("Load(%q) fetched %v", base, fetcher.calls)
		}
		if store.BaseURL() != "http://cdn/clips/" {
			t.Fatalf("BaseURL = %q", store.BaseURL())
		}
		ids, err := store.ListInfluencers()
		if err != nil || !slices.Equal(ids, []string{"alice"}) {
			t.Fatalf("ListInfluencers = %v, %v", ids, err)
		}
	}
}

func TestGetInfluencerUnknown(t *testing.T) {
	fetcher := &fakeFetcher{bodies: map[string]string{"http://cdn/metadata.json": aliceMetadata}}
	store := newTestStore(fetcher)
	if err := store.Load(context.Background(), "http://cdn"); err != nil {
		t.Fatalf("Load: %v", err)
	}

	_, err := store.GetInfluencer("ghost")
	var unknown *errors.UnknownInfluencerError
	if !stderrors.As(err, &unknown) {
		t.Fatalf("expected UnknownInfluencerError, got %v", err)
	}
	if unknown.ID != "ghost" {
		t.Fatalf("ID = %q", unknown.ID)
	}
}

func TestFailedLoadKeepsPreviousState(t *testing.T) {
	fetcher := &fakeFetcher{
		bodies: map[string]string{
			"http://good/metadata.json":   aliceMetadata,
			"http://broken/metadata.json": `{"alice": {"name": 5}}`,
		},
		errs: map[string]error{
			"http://down/metadata.json": errors.NewMetadataFetchError("request failed", "http://down/metadata.json", 0, stderrors.New("dial tcp: refused")),
		},
	}
	store := newTestStore(fetcher)
	if err := store.Load(context.Background(), "http://good/"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	generation := store.Generation()

	if err := store.Load(context.Background(), "http://down/"); !errors.IsFetch(err) {
		t.Fatalf("expected MetadataFetchError, got %v", err)
	}
	if err := store.Load(context.Background(), "http://broken/"); !errors.IsParse(err) {
		t.Fatalf("expected MetadataParseError, got %v", err)
	}
	if err := store.Load(context.Background(), "http://missing/"); !errors.IsFetch(err) {
		t.Fatalf("expected MetadataFetchError for 404, got %v", err)
	}

	if store.BaseURL() != "http://good/" {
		t.Fatalf("BaseURL changed to %q", store.BaseURL())
	}
	if store.Generation() != generation {
		t.Fatal("generation changed after failed loads")
	}
	if _, err := store.GetInfluencer("alice"); err != nil {
		t.Fatalf("GetInfluencer after failed loads: %v", err)
	}
}

func TestReloadReplacesCatalogButKeepsExistingViews(t *testing.T) {
	fetcher := &fakeFetcher{bodies: map[string]string{
		"http://a/metadata.json": aliceMetadata,
		"http://b/metadata.json": bobMetadata,
	}}
	store := newTestStore(fetcher)
	if err := store.Load(context.Background(), "http://a"); err != nil {
		t.Fatalf("Load a: %v", err)
	}
	alice, err := store.GetInfluencer("alice")
	if err != nil {
		t.Fatalf("GetInfluencer: %v", err)
	}

	if err := store.Load(context.Background(), "http://b"); err != nil {
		t.Fatalf("Load b: %v", err)
	}
	ids, _ := store.ListInfluencers()
	if !slices.Equal(ids, []string{"bob", "carol"}) {
		t.Fatalf("ListInfluencers = %v", ids)
	}
	if _, err := store.GetInfluencer("alice"); !errors.IsUnknownInfluencer(err) {
		t.Fatalf("expected alice to be unknown after reload, got %v", err)
	}
	if alice.Name() != "Alice" || len(alice.Videos()) != 2 {
		t.Fatal("existing view must keep reading its own generation")
	}
	if alice.Generation() == store.Generation() {
		t.Fatal("expected generations to differ")
	}
}

func TestInfluencersReturnsViewsInOrder(t *testing.T) {
	fetcher := &fakeFetcher{bodies: map[string]string{"http://b/metadata.json": bobMetadata}}
	store := newTestStore(fetcher)
	if err := store.Load(context.Background(), "http://b"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	views, err := store.Influencers()
	if err != nil {
		t.Fatalf("Influencers: %v", err)
	}
	if len(views) != 2 || views[0].ID() != "bob" || views[1].ID() != "carol" {
		t.Fatalf("unexpected views %v", views)
	}
	if views[1].String() != "Carol" {
		t.Fatalf("String() = %q", views[1].String())
	}
}

func TestLoadAsyncDeliversResult(t *testing.T) {
	fetcher := &fakeFetcher{bodies: map[string]string{"http://a/metadata.json": aliceMetadata}}
	store := newTestStore(fetcher)

	select {
	case err := <-store.LoadAsync(context.Background(), "http://a"):
		if err != nil {
			t.Fatalf("LoadAsync: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("LoadAsync did not complete")
	}
	if !store.Loaded() {
		t.Fatal("expected store to be loaded")
	}

	done := store.LoadAsync(context.Background(), "http://nowhere")
	if err := <-done; !errors.IsFetch(err) {
		t.Fatalf("expected fetch error, got %v", err)
	}
	if _, open := <-done; open {
		t.Fatal("expected channel to be closed after the result")
	}
}

func TestLoadLogsGeneration(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	fetcher := &fakeFetcher{bodies: map[string]string{"http://a/metadata.json": aliceMetadata}}
	store := NewStore(fetcher, zap.New(core))

	if err := store.Load(context.Background(), "http://a"); err != nil {
		t.Fatalf("Load: %v", err)
	}

	entries := logs.FilterMessage("Catalog metadata loaded").All()
	if len(entries) != 1 {
		t.Fatalf("expected one load entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["generation"] != store.Generation() {
		t.Fatalf("logged generation %v, want %v", fields["generation"], store.Generation())
	}
	if fields["influencers"] != int64(1) {
		t.Fatalf("logged influencers %v", fields["influencers"])
	}
}

func TestHTTPFetcherAgainstServer(t *testing.T) {
	var hits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/clips/metadata.json", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(aliceMetadata))
	})
	mux.HandleFunc("/broken/metadata.json", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	store := NewStore(NewHTTPFetcher(srv.Client(), nil, zap.NewNop()), zap.NewNop())

	if err := store.Load(context.Background(), srv.URL+"/clips"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if hits.Load() != 1 {
		t.Fatalf("expected exactly one request, got %d", hits.Load())
	}

	err := store.Load(context.Background(), srv.URL+"/broken")
	var fetchErr *errors.MetadataFetchError
	if !stderrors.As(err, &fetchErr) {
		t.Fatalf("expected MetadataFetchError, got %v", err)
	}
	if fetchErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("StatusCode = %d", fetchErr.StatusCode)
	}
	if store.BaseURL() != srv.URL+"/clips/" {
		t.Fatalf("BaseURL = %q", store.BaseURL())
	}
}

func TestHTTPFetcherCircuitBreakerFailsFast(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	breaker := util.NewCircuitBreaker("metadata", 2, time.Hour, zap.NewNop())
	fetcher := NewHTTPFetcher(srv.Client(), breaker, zap.NewNop())

	for i := 0; i < 2; i++ {
		if _, err := fetcher.Fetch(context.Background(), srv.URL+"/metadata.json"); !errors.IsFetch(err) {
			t.Fatalf("attempt %d: expected fetch error, got %v", i, err)
		}
	}
	_, err := fetcher.Fetch(context.Background(), srv.URL+"/metadata.json")
	if !errors.IsFetch(err) {
		t.Fatalf("expected fetch error from open circuit, got %v", err)
	}
	if hits.Load() != 2 {
		t.Fatalf("open circuit must not reach the server, hits = %d", hits.Load())
	}
}

func TestHTTPFetcherHonoursCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := NewHTTPFetcher(srv.Client(), nil, zap.NewNop())
	_, err := fetcher.Fetch(ctx, srv.URL+"/metadata.json")
	if !errors.IsFetch(err) {
		t.Fatalf("expected fetch error, got %v", err)
	}
	if !stderrors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled in chain, got %v", err)
	}
}
