package registry

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *url.URL, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	base, err := url.Parse(srv.URL)
	require.NoError(t, err)
	return srv, base, &hits
}

func writeJSON(t *testing.T, w http.ResponseWriter, payload any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(payload))
}

func TestDockerHubClientFollowsPages(t *testing.T) {
	var srv *httptest.Server
	srv, base, hits := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/repositories/library/redis/tags", r.URL.Path)
		switch r.URL.Query().Get("page") {
		case "":
			assert.Equal(t, "100", r.URL.Query().Get("page_size"))
			next := srv.URL + r.URL.Path + "?page=2&page_size=100"
			writeJSON(t, w, map[string]any{
				"next": next,
				"results": []map[string]string{
					{"name": "7.0.0", "last_updated": "2022-05-29T10:00:00Z"},
					{"name": "7.0.1", "last_updated": "2022-06-01T10:00:00Z"},
				},
			})
		case "2":
			writeJSON(t, w, map[string]any{
				"next": nil,
				"results": []map[string]string{
					{"name": "6.2.7", "last_updated": "2022-04-27T10:00:00Z"},
					{"name": "", "last_updated": "2022-04-27T10:00:00Z"},
				},
			})
		default:
			t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
		}
	})

	client := NewDockerHubClient(base, srv.Client(), nil, nil)
	tags, err := client.ListTags(context.Background(), Reference{Kind: KindDockerHub, Host: dockerHubHost, Namespace: "library", Repository: "redis"})
	require.NoError(t, err)

	assert.Equal(t, []Tag{
		{Name: "7.0.0", Timestamp: "2022-05-29T10:00:00Z"},
		{Name: "7.0.1", Timestamp: "2022-06-01T10:00:00Z"},
		{Name: "6.2.7", Timestamp: "2022-04-27T10:00:00Z"},
	}, tags)
	assert.Equal(t, int32(2), atomic.LoadInt32(hits))
}

func TestDockerHubClientFailsOnAnyPage(t *testing.T) {
	var srv *httptest.Server
	srv, base, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		writeJSON(t, w, map[string]any{
			"next":    srv.URL + r.URL.Path + "?page=2",
			"results": []map[string]string{{"name": "1.0", "last_updated": "2022-01-01T00:00:00Z"}},
		})
	})

	client := NewDockerHubClient(base, srv.Client(), nil, nil)
	tags, err := client.ListTags(context.Background(), Reference{Namespace: "library", Repository: "redis"})
	assert.Nil(t, tags)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
}

func TestGitHubContainerClientListsVersionTags(t *testing.T) {
	srv, base, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orgs/home-assistant/packages/container/home-assistant/versions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/vnd.github.v3+json", r.Header.Get("Accept"))
		writeJSON(t, w, []map[string]any{
			{
				"created_at": "2025-02-21T18:00:00Z",
				"metadata":   map[string]any{"container": map[string]any{"tags": []string{"2025.2.5", "stable"}}},
			},
			{
				"created_at": "2025-02-20T18:00:00Z",
				"metadata":   map[string]any{"container": map[string]any{"tags": []string{}}},
			},
		})
	})

	var logs []RequestLog
	client := NewGitHubContainerClient(base, srv.Client(), "secret", func(entry RequestLog) {
		logs = append(logs, entry)
	})
	tags, err := client.ListTags(context.Background(), Reference{Namespace: "home-assistant", Repository: "home-assistant"})
	require.NoError(t, err)

	assert.Equal(t, []Tag{
		{Name: "2025.2.5", Timestamp: "2025-02-21T18:00:00Z"},
		{Name: "stable", Timestamp: "2025-02-21T18:00:00Z"},
	}, tags)
	require.Len(t, logs, 1)
	assert.Equal(t, []string{"<redacted>"}, logs[0].Headers["Authorization"])
	assert.Equal(t, http.StatusOK, logs[0].Status)
}

func TestGitHubContainerClientEscapesNestedPackage(t *testing.T) {
	srv, base, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orgs/org/packages/container/group%2Fservice/versions", r.URL.EscapedPath())
		writeJSON(t, w, []any{})
	})

	client := NewGitHubContainerClient(base, srv.Client(), "secret", nil)
	_, err := client.ListTags(context.Background(), Reference{Namespace: "org", Repository: "group/service"})
	require.NoError(t, err)
}

func TestGitHubContainerClientRequiresToken(t *testing.T) {
	srv, base, hits := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []any{})
	})

	client := NewGitHubContainerClient(base, srv.Client(), "  ", nil)
	_, err := client.ListTags(context.Background(), Reference{Namespace: "org", Repository: "app"})

	var configErr *ConfigError
	require.True(t, errors.As(err, &configErr))
	assert.Equal(t, GitHubTokenEnv, configErr.Setting)
	assert.Zero(t, atomic.LoadInt32(hits))
}

func TestQuayClientListsActiveTags(t *testing.T) {
	srv, base, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/repository/prometheus/node-exporter/tag/", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("onlyActiveTags"))
		writeJSON(t, w, map[string]any{
			"tags": []map[string]string{
				{"name": "v1.8.0", "last_modified": "Tue, 23 Apr 2024 09:12:01 -0000"},
				{"name": "latest"},
			},
		})
	})

	client := NewQuayClient(base, srv.Client(), nil)
	tags, err := client.ListTags(context.Background(), Reference{Namespace: "prometheus", Repository: "node-exporter"})
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "v1.8.0 - 2024-04-23", tags[0].String())
	assert.Equal(t, "latest - N/A", tags[1].String())
}

func TestECRPublicClientDescribesImageTags(t *testing.T) {
	srv, base, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/describeImageTags", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"registryAliasName":"nginx","repositoryName":"nginx"}`, string(body))

		_, _ = io.WriteString(w, `{"imageTagDetails":[
			{"imageTag":"1.27","createdAt":"2024-08-14T12:00:00.000Z"},
			{"imageTag":"1.26","createdAt":1700000000.5},
			{"imageTag":"stable","createdAt":{"unexpected":true}}
		]}`)
	})

	client := NewECRPublicClient(base, srv.Client(), nil)
	tags, err := client.ListTags(context.Background(), Reference{Namespace: "nginx", Repository: "nginx"})
	require.NoError(t, err)

	var lines []string
	for _, tag := range tags {
		lines = append(lines, tag.String())
	}
	assert.Equal(t, []string{"1.27 - 2024-08-14", "1.26 - 2023-11-14", "stable - N/A"}, lines)
}
