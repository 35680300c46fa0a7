package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scottbass3/regtags/internal/httpcache"
)

type stubSource struct {
	kind  Kind
	tags  []Tag
	err   error
	calls []Reference
}

func (s *stubSource) Kind() Kind {
	return s.kind
}

func (s *stubSource) ListTags(_ context.Context, ref Reference) ([]Tag, error) {
	s.calls = append(s.calls, ref)
	return s.tags, s.err
}

func defaultMatcher(t *testing.T) *Matcher {
	t.Helper()
	matcher, err := NewMatcher(nil)
	require.NoError(t, err)
	return matcher
}

func TestFetcherFiltersDedupsAndSorts(t *testing.T) {
	hub := &stubSource{kind: KindDockerHub, tags: []Tag{
		{Name: "7.0.1", Timestamp: "2022-06-01T00:00:00Z"},
		{Name: "sha256-abc123", Timestamp: "2022-06-01T00:00:00Z"},
		{Name: "7.0.0", Timestamp: "2022-05-29T00:00:00Z"},
		{Name: "7.0.0", Timestamp: "2022-05-29T18:00:00Z"},
		{Name: "7.0.0-arm64", Timestamp: "2022-05-29T00:00:00Z"},
		{Name: "edge"},
	}}
	fetcher := newFetcherWithSources(defaultMatcher(t), DefaultAliases, hub)

	lines, err := fetcher.FetchTags(context.Background(), "redis")
	require.NoError(t, err)

	assert.Equal(t, []string{"7.0.0 - 2022-05-29", "7.0.1 - 2022-06-01", "edge - N/A"}, lines)
	require.Len(t, hub.calls, 1)
	assert.Equal(t, "library/redis", hub.calls[0].Path())
}

func TestFetcherDispatchesByPrefix(t *testing.T) {
	sources := map[Kind]*stubSource{
		KindDockerHub: {kind: KindDockerHub},
		KindGHCR:      {kind: KindGHCR},
		KindQuay:      {kind: KindQuay},
		KindECRPublic: {kind: KindECRPublic},
	}
	fetcher := newFetcherWithSources(defaultMatcher(t), DefaultAliases,
		sources[KindDockerHub], sources[KindGHCR], sources[KindQuay], sources[KindECRPublic])

	for repo, kind := range map[string]Kind{
		"ghcr.io/org/app":         KindGHCR,
		"lscr.io/linuxserver/app": KindGHCR,
		"quay.io/org/app":         KindQuay,
		"public.ecr.aws/org/app":  KindECRPublic,
		"org/app":                 KindDockerHub,
	} {
		ref, _, err := fetcher.Tags(context.Background(), repo)
		require.NoError(t, err, repo)
		assert.Equal(t, kind, ref.Kind, repo)
	}

	for kind, source := range sources {
		if kind == KindGHCR {
			assert.Len(t, source.calls, 2)
			continue
		}
		assert.Len(t, source.calls, 1, string(kind))
	}
}

func TestFetcherPropagatesSourceErrors(t *testing.T) {
	cause := &StatusError{Registry: "quay", Method: http.MethodGet, URL: "https://quay.io", StatusCode: http.StatusNotFound}
	quay := &stubSource{kind: KindQuay, tags: []Tag{{Name: "partial"}}, err: cause}
	fetcher := newFetcherWithSources(defaultMatcher(t), DefaultAliases, quay)

	lines, err := fetcher.FetchTags(context.Background(), "quay.io/org/app")
	assert.Nil(t, lines)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Contains(t, err.Error(), "quay.io/org/app")
}

func TestFetcherRejectsInvalidReference(t *testing.T) {
	fetcher := newFetcherWithSources(defaultMatcher(t), DefaultAliases)

	_, err := fetcher.FetchTags(context.Background(), "a/b/c")
	var refErr *ReferenceError
	assert.True(t, errors.As(err, &refErr))
}

func TestFetcherMissingGitHubTokenSendsNothing(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	t.Cleanup(srv.Close)

	fetcher, err := NewFetcher(Options{
		HTTPClient: srv.Client(),
		Endpoints:  Endpoints{GitHub: srv.URL},
	})
	require.NoError(t, err)

	_, err = fetcher.FetchTags(context.Background(), "ghcr.io/org/app")
	var configErr *ConfigError
	require.True(t, errors.As(err, &configErr))
	assert.Zero(t, atomic.LoadInt32(&hits))
}

func TestFetcherRepeatsThroughCache(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"next":null,"results":[
			{"name":"7.0.0","last_updated":"2022-05-29T10:00:00Z"},
			{"name":"main","last_updated":"2022-05-29T10:00:00Z"}
		]}`))
	}))
	t.Cleanup(srv.Close)

	var cached []bool
	client := &http.Client{
		Transport: httpcache.NewTransport(srv.Client().Transport, httpcache.NewMemoryStore(), time.Hour, zerolog.Nop()),
	}
	fetcher, err := NewFetcher(Options{
		HTTPClient:   client,
		Logger:       func(entry RequestLog) { cached = append(cached, entry.Cached) },
		DockerHubRPS: DefaultDockerHubRPS,
		Endpoints:    Endpoints{DockerHub: srv.URL},
	})
	require.NoError(t, err)

	first, err := fetcher.FetchTags(context.Background(), "docker.io/library/redis")
	require.NoError(t, err)
	second, err := fetcher.FetchTags(context.Background(), "redis")
	require.NoError(t, err)

	assert.Equal(t, []string{"7.0.0 - 2022-05-29"}, first)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	assert.Equal(t, []bool{false, true}, cached)
}

func TestNewFetcherRejectsEndpointWithoutHost(t *testing.T) {
	_, err := NewFetcher(Options{Endpoints: Endpoints{Quay: "https://"}})
	assert.Error(t, err)
}
