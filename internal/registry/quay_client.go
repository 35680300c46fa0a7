package registry

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	quayBaseURL  = "https://quay.io"
	quayPageSize = 100
)

type QuayClient struct {
	baseURL *url.URL
	req     requester
}

func NewQuayClient(baseURL *url.URL, httpClient *http.Client, logger RequestLogger) *QuayClient {
	if baseURL == nil {
		baseURL = mustParseURL(quayBaseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &QuayClient{
		baseURL: baseURL,
		req:     requester{name: "quay", httpClient: httpClient, logger: logger},
	}
}

func (c *QuayClient) Kind() Kind {
	return KindQuay
}

// ListTags reads the first page of active tags only.
func (c *QuayClient) ListTags(ctx context.Context, ref Reference) ([]Tag, error) {
	query := url.Values{}
	query.Set("onlyActiveTags", "true")
	query.Set("limit", strconv.Itoa(quayPageSize))
	endpoint := resolveURL(c.baseURL, "/api/v1/repository/"+url.PathEscape(ref.Namespace)+"/"+url.PathEscape(ref.Repository)+"/tag/", query)

	var payload quayTagsResponse
	if err := c.req.doJSON(ctx, http.MethodGet, endpoint, nil, nil, &payload); err != nil {
		return nil, err
	}

	tags := make([]Tag, 0, len(payload.Tags))
	for _, entry := range payload.Tags {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			continue
		}
		tags = append(tags, Tag{Name: name, Timestamp: entry.LastModified})
	}
	return tags, nil
}

type quayTagsResponse struct {
	Tags          []quayTag `json:"tags"`
	Page          int       `json:"page"`
	HasAdditional bool      `json:"has_additional"`
}

type quayTag struct {
	Name           string `json:"name"`
	LastModified   string `json:"last_modified"`
	ManifestDigest string `json:"manifest_digest"`
}
