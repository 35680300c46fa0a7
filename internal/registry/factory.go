package registry

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/ratelimit"
)

// Endpoints overrides the default API base URLs, e.g. for mirrors or tests.
// Empty fields keep the public endpoints.
type Endpoints struct {
	DockerHub string
	GitHub    string
	Quay      string
	ECRPublic string
}

// Options configures a Fetcher.
type Options struct {
	HTTPClient  *http.Client
	Logger      RequestLogger
	GitHubToken string
	// IgnorePatterns nil selects DefaultIgnorePatterns.
	IgnorePatterns []string
	// Aliases nil selects DefaultAliases.
	Aliases map[string]string
	// DockerHubRPS <= 0 disables rate limiting of Docker Hub pages.
	DockerHubRPS int
	Endpoints    Endpoints
}

func newSources(opts Options) (map[Kind]Source, error) {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	dockerHubURL, err := parseEndpoint("docker hub", opts.Endpoints.DockerHub)
	if err != nil {
		return nil, err
	}
	githubURL, err := parseEndpoint("github", opts.Endpoints.GitHub)
	if err != nil {
		return nil, err
	}
	quayURL, err := parseEndpoint("quay", opts.Endpoints.Quay)
	if err != nil {
		return nil, err
	}
	ecrURL, err := parseEndpoint("ecr public", opts.Endpoints.ECRPublic)
	if err != nil {
		return nil, err
	}

	var limiter ratelimit.Limiter
	if opts.DockerHubRPS > 0 {
		limiter = ratelimit.New(opts.DockerHubRPS)
	}

	sources := []Source{
		NewDockerHubClient(dockerHubURL, httpClient, limiter, opts.Logger),
		NewGitHubContainerClient(githubURL, httpClient, opts.GitHubToken, opts.Logger),
		NewQuayClient(quayURL, httpClient, opts.Logger),
		NewECRPublicClient(ecrURL, httpClient, opts.Logger),
	}
	byKind := make(map[Kind]Source, len(sources))
	for _, source := range sources {
		byKind[source.Kind()] = source
	}
	return byKind, nil
}

func parseEndpoint(name, raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid %s endpoint", name)
	}
	if parsed.Host == "" {
		return nil, errors.Errorf("%s endpoint must include a host name", name)
	}
	parsed.Path = strings.TrimSuffix(parsed.Path, "/")
	parsed.RawPath = ""
	return parsed, nil
}
