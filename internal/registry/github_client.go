package registry

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

const githubAPIBaseURL = "https://api.github.com"

// GitHubTokenEnv names the environment variable holding the GitHub token.
const GitHubTokenEnv = "GH_API_TOKEN"

// GitHubContainerClient lists container package versions through the GitHub
// REST API. The namespace is always treated as an organization; packages
// owned by personal accounts are not reachable through this endpoint.
type GitHubContainerClient struct {
	baseURL *url.URL
	req     requester
	token   string
}

func NewGitHubContainerClient(baseURL *url.URL, httpClient *http.Client, token string, logger RequestLogger) *GitHubContainerClient {
	if baseURL == nil {
		baseURL = mustParseURL(githubAPIBaseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &GitHubContainerClient{
		baseURL: baseURL,
		req:     requester{name: "github container registry", httpClient: httpClient, logger: logger},
		token:   strings.TrimSpace(token),
	}
}

func (c *GitHubContainerClient) Kind() Kind {
	return KindGHCR
}

// ListTags emits one Tag per tag of every package version; tags of the same
// version share its created_at timestamp.
func (c *GitHubContainerClient) ListTags(ctx context.Context, ref Reference) ([]Tag, error) {
	if c.token == "" {
		return nil, &ConfigError{Setting: GitHubTokenEnv, Reason: "is required to list ghcr.io tags"}
	}

	endpoint := resolveURL(c.baseURL, "/orgs/"+url.PathEscape(ref.Namespace)+"/packages/container/"+url.PathEscape(ref.Repository)+"/versions", nil)
	headers := http.Header{}
	headers.Set("Authorization", "Bearer "+c.token)
	headers.Set("Accept", "application/vnd.github.v3+json")

	var versions []githubPackageVersion
	if err := c.req.doJSON(ctx, http.MethodGet, endpoint, headers, nil, &versions); err != nil {
		return nil, err
	}

	var tags []Tag
	for _, version := range versions {
		for _, name := range version.Metadata.Container.Tags {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			tags = append(tags, Tag{Name: name, Timestamp: version.CreatedAt})
		}
	}
	return tags, nil
}

type githubPackageVersion struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	Metadata  struct {
		Container struct {
			Tags []string `json:"tags"`
		} `json:"container"`
	} `json:"metadata"`
}
