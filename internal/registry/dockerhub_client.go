package registry

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/ratelimit"
)

const (
	dockerHubBaseURL  = "https://hub.docker.com"
	dockerHubPageSize = 100

	// DefaultDockerHubRPS keeps paginated listings under Docker Hub's
	// anonymous rate limit.
	DefaultDockerHubRPS = 5
)

type DockerHubClient struct {
	baseURL *url.URL
	req     requester
	limiter ratelimit.Limiter
}

// NewDockerHubClient builds a Docker Hub source. A nil baseURL selects
// hub.docker.com, a nil limiter disables rate limiting.
func NewDockerHubClient(baseURL *url.URL, httpClient *http.Client, limiter ratelimit.Limiter, logger RequestLogger) *DockerHubClient {
	if baseURL == nil {
		baseURL = mustParseURL(dockerHubBaseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if limiter == nil {
		limiter = ratelimit.NewUnlimited()
	}
	return &DockerHubClient{
		baseURL: baseURL,
		req:     requester{name: "docker hub", httpClient: httpClient, logger: logger},
		limiter: limiter,
	}
}

func (c *DockerHubClient) Kind() Kind {
	return KindDockerHub
}

// ListTags follows the next links until the listing is exhausted. Pages are
// fetched one at a time; any failing page fails the whole listing.
func (c *DockerHubClient) ListTags(ctx context.Context, ref Reference) ([]Tag, error) {
	query := url.Values{}
	query.Set("page_size", strconv.Itoa(dockerHubPageSize))
	endpoint := resolveURL(c.baseURL, "/v2/repositories/"+url.PathEscape(ref.Namespace)+"/"+url.PathEscape(ref.Repository)+"/tags", query)

	var tags []Tag
	seen := map[string]bool{}
	for endpoint != "" && !seen[endpoint] {
		seen[endpoint] = true
		c.limiter.Take()

		var payload dockerHubTagsResponse
		if err := c.req.doJSON(ctx, http.MethodGet, endpoint, nil, nil, &payload); err != nil {
			return nil, err
		}
		for _, entry := range payload.Results {
			name := strings.TrimSpace(entry.Name)
			if name == "" {
				continue
			}
			tags = append(tags, Tag{Name: name, Timestamp: entry.LastUpdated})
		}

		endpoint = ""
		if payload.Next != nil {
			endpoint = resolveNextURL(c.baseURL, *payload.Next)
		}
	}

	return tags, nil
}

type dockerHubTagsResponse struct {
	Count   int                  `json:"count"`
	Next    *string              `json:"next"`
	Results []dockerHubTagResult `json:"results"`
}

type dockerHubTagResult struct {
	Name        string `json:"name"`
	LastUpdated string `json:"last_updated"`
}
