package registry

import (
	"sort"
	"strings"
)

// Kind identifies one of the supported registries.
type Kind string

const (
	KindDockerHub Kind = "dockerhub"
	KindGHCR      Kind = "ghcr"
	KindQuay      Kind = "quay"
	KindECRPublic Kind = "ecr-public"
)

const (
	dockerHubHost = "docker.io"
	ghcrHost      = "ghcr.io"
	quayHost      = "quay.io"
	ecrPublicHost = "public.ecr.aws"

	defaultDockerHubNamespace = "library"
)

// DefaultAliases rewrites hosts that front another registry before dispatch.
var DefaultAliases = map[string]string{
	"lscr.io": ghcrHost,
}

var dockerHubPrefixes = []string{
	"docker.io/",
	"index.docker.io/",
	"registry-1.docker.io/",
}

// Reference is a parsed repository reference routed to exactly one registry.
type Reference struct {
	Kind       Kind
	Host       string
	Namespace  string
	Repository string
}

// Path returns namespace/repository.
func (r Reference) Path() string {
	return r.Namespace + "/" + r.Repository
}

// Image returns the fully qualified image name, host included.
func (r Reference) Image() string {
	return r.Host + "/" + r.Path()
}

func (r Reference) String() string {
	return r.Image()
}

// ParseReference routes input of the form [registry-host/]namespace/repository
// to a registry. Prefixes are checked in order: ghcr.io, quay.io,
// public.ecr.aws, then Docker Hub for everything else. A trailing :tag or
// @digest is ignored.
func ParseReference(input string, aliases map[string]string) (Reference, error) {
	trimmed := normalizeReferenceInput(input)
	if trimmed == "" {
		return Reference{}, &ReferenceError{Input: input, Reason: "repository is required"}
	}
	trimmed = applyAliases(trimmed, aliases)

	switch {
	case strings.HasPrefix(trimmed, ghcrHost+"/"):
		return splitNested(input, KindGHCR, ghcrHost, strings.TrimPrefix(trimmed, ghcrHost+"/"))
	case strings.HasPrefix(trimmed, quayHost+"/"):
		return splitFlat(input, KindQuay, quayHost, strings.TrimPrefix(trimmed, quayHost+"/"), "")
	case strings.HasPrefix(trimmed, ecrPublicHost+"/"):
		return splitNested(input, KindECRPublic, ecrPublicHost, strings.TrimPrefix(trimmed, ecrPublicHost+"/"))
	default:
		for _, prefix := range dockerHubPrefixes {
			trimmed = strings.TrimPrefix(trimmed, prefix)
		}
		return splitFlat(input, KindDockerHub, dockerHubHost, trimmed, defaultDockerHubNamespace)
	}
}

func normalizeReferenceInput(input string) string {
	trimmed := strings.TrimSpace(input)
	trimmed = strings.TrimPrefix(trimmed, "https://")
	trimmed = strings.TrimPrefix(trimmed, "http://")
	if at := strings.Index(trimmed, "@"); at != -1 {
		trimmed = trimmed[:at]
	}
	if colon := strings.LastIndex(trimmed, ":"); colon != -1 {
		if slash := strings.LastIndex(trimmed, "/"); slash == -1 || colon > slash {
			trimmed = trimmed[:colon]
		}
	}
	return strings.Trim(strings.TrimSpace(trimmed), "/")
}

func applyAliases(input string, aliases map[string]string) string {
	hosts := make([]string, 0, len(aliases))
	for host := range aliases {
		hosts = append(hosts, host)
	}
	sort.Strings(hosts)
	for _, host := range hosts {
		host = strings.Trim(strings.TrimSpace(host), "/")
		if host == "" {
			continue
		}
		if rest, ok := strings.CutPrefix(input, host+"/"); ok {
			return strings.Trim(aliases[host], "/") + "/" + rest
		}
	}
	return input
}

// splitFlat handles registries whose repositories are exactly namespace/name.
func splitFlat(input string, kind Kind, host, path, defaultNamespace string) (Reference, error) {
	parts := strings.Split(path, "/")
	if len(parts) == 1 && defaultNamespace != "" {
		parts = []string{defaultNamespace, parts[0]}
	}
	if len(parts) != 2 {
		return Reference{}, &ReferenceError{Input: input, Reason: "expected namespace/repository"}
	}
	return newReference(input, kind, host, parts[0], parts[1])
}

// splitNested handles registries whose repository names may contain slashes.
func splitNested(input string, kind Kind, host, path string) (Reference, error) {
	namespace, repository, found := strings.Cut(path, "/")
	if !found {
		return Reference{}, &ReferenceError{Input: input, Reason: "expected namespace/repository"}
	}
	return newReference(input, kind, host, namespace, repository)
}

func newReference(input string, kind Kind, host, namespace, repository string) (Reference, error) {
	if strings.TrimSpace(namespace) == "" {
		return Reference{}, &ReferenceError{Input: input, Reason: "namespace is empty"}
	}
	for _, segment := range strings.Split(repository, "/") {
		if strings.TrimSpace(segment) == "" {
			return Reference{}, &ReferenceError{Input: input, Reason: "repository is empty"}
		}
	}
	return Reference{
		Kind:       kind,
		Host:       host,
		Namespace:  namespace,
		Repository: repository,
	}, nil
}
