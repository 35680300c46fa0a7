package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const ecrPublicBaseURL = "https://api.us-east-1.gallery.ecr.aws"

// ECRPublicClient queries the unauthenticated ECR Public Gallery API.
type ECRPublicClient struct {
	baseURL *url.URL
	req     requester
}

func NewECRPublicClient(baseURL *url.URL, httpClient *http.Client, logger RequestLogger) *ECRPublicClient {
	if baseURL == nil {
		baseURL = mustParseURL(ecrPublicBaseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &ECRPublicClient{
		baseURL: baseURL,
		req:     requester{name: "ecr public", httpClient: httpClient, logger: logger},
	}
}

func (c *ECRPublicClient) Kind() Kind {
	return KindECRPublic
}

func (c *ECRPublicClient) ListTags(ctx context.Context, ref Reference) ([]Tag, error) {
	endpoint := resolveURL(c.baseURL, "/describeImageTags", nil)
	body := ecrDescribeImageTagsRequest{
		RegistryAliasName: ref.Namespace,
		RepositoryName:    ref.Repository,
	}

	var payload ecrDescribeImageTagsResponse
	if err := c.req.doJSON(ctx, http.MethodPost, endpoint, nil, body, &payload); err != nil {
		return nil, err
	}

	tags := make([]Tag, 0, len(payload.ImageTagDetails))
	for _, detail := range payload.ImageTagDetails {
		name := strings.TrimSpace(detail.ImageTag)
		if name == "" {
			continue
		}
		tags = append(tags, Tag{Name: name, Timestamp: string(detail.CreatedAt)})
	}
	return tags, nil
}

type ecrDescribeImageTagsRequest struct {
	RegistryAliasName string `json:"registryAliasName"`
	RepositoryName    string `json:"repositoryName"`
}

type ecrDescribeImageTagsResponse struct {
	ImageTagDetails []ecrImageTagDetail `json:"imageTagDetails"`
	NextToken       string              `json:"nextToken"`
}

type ecrImageTagDetail struct {
	ImageTag  string       `json:"imageTag"`
	CreatedAt ecrTimestamp `json:"createdAt"`
}

// ecrTimestamp accepts the ISO-8601 strings the gallery returns as well as
// the epoch seconds the AWS JSON protocol uses.
type ecrTimestamp string

func (t *ecrTimestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if data[0] == '"' {
		var value string
		if err := json.Unmarshal(data, &value); err != nil {
			return err
		}
		*t = ecrTimestamp(value)
		return nil
	}
	var seconds float64
	if err := json.Unmarshal(data, &seconds); err != nil {
		// Unknown shapes degrade to a missing timestamp.
		*t = ""
		return nil
	}
	whole, frac := math.Modf(seconds)
	*t = ecrTimestamp(time.Unix(int64(whole), int64(frac*1e9)).UTC().Format(time.RFC3339Nano))
	return nil
}
