package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// requester is the HTTP plumbing shared by every Source.
type requester struct {
	name       string
	httpClient *http.Client
	logger     RequestLogger
}

// doJSON sends a request and decodes a JSON response into out. A non-2xx
// response becomes a *StatusError.
func (r requester) doJSON(ctx context.Context, method, endpoint string, headers http.Header, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrapf(err, "%s: encode request body", r.name)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return errors.Wrapf(err, "%s: build request", r.name)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range headers {
		req.Header.Del(key)
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := r.httpClient.Do(req)
	logRequestWithLogger(r.logger, req, resp)
	if err != nil {
		return errors.Wrapf(err, "%s request failed", r.name)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{
			Registry:   r.name,
			Method:     method,
			URL:        endpoint,
			StatusCode: resp.StatusCode,
		}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "%s: decode response", r.name)
	}
	return nil
}

func cloneHeader(header http.Header) map[string][]string {
	if len(header) == 0 {
		return nil
	}
	out := make(map[string][]string, len(header))
	for key, values := range header {
		copied := make([]string, len(values))
		copy(copied, values)
		out[key] = copied
	}
	return out
}

func redactHeaders(headers map[string][]string) map[string][]string {
	for key := range headers {
		if strings.EqualFold(key, "Authorization") {
			headers[key] = []string{"<redacted>"}
		}
	}
	return headers
}

// resolveURL appends an already escaped path to base.
func resolveURL(base *url.URL, p string, query url.Values) string {
	resolved := *base
	escaped := strings.TrimSuffix(base.EscapedPath(), "/") + p
	unescaped, err := url.PathUnescape(escaped)
	if err != nil {
		unescaped = escaped
	}
	resolved.Path = unescaped
	resolved.RawPath = escaped
	if query != nil {
		resolved.RawQuery = query.Encode()
	} else {
		resolved.RawQuery = ""
	}
	return resolved.String()
}

func resolveNextURL(base *url.URL, next string) string {
	next = strings.TrimSpace(next)
	if next == "" {
		return ""
	}
	parsed, err := url.Parse(next)
	if err != nil || parsed.IsAbs() || parsed.Host != "" {
		return next
	}
	if base == nil {
		return next
	}
	return base.ResolveReference(parsed).String()
}

func mustParseURL(raw string) *url.URL {
	parsed, err := url.Parse(raw)
	if err != nil {
		panic(err)
	}
	return parsed
}
