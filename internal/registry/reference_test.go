package registry

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReference(t *testing.T) {
	tests := []struct {
		input string
		want  Reference
	}{
		{"ghcr.io/home-assistant/home-assistant", Reference{KindGHCR, ghcrHost, "home-assistant", "home-assistant"}},
		{"ghcr.io/org/group/service", Reference{KindGHCR, ghcrHost, "org", "group/service"}},
		{"lscr.io/linuxserver/plex", Reference{KindGHCR, ghcrHost, "linuxserver", "plex"}},
		{"quay.io/prometheus/node-exporter", Reference{KindQuay, quayHost, "prometheus", "node-exporter"}},
		{"public.ecr.aws/nginx/nginx", Reference{KindECRPublic, ecrPublicHost, "nginx", "nginx"}},
		{"redis", Reference{KindDockerHub, dockerHubHost, "library", "redis"}},
		{"grafana/grafana", Reference{KindDockerHub, dockerHubHost, "grafana", "grafana"}},
		{"docker.io/library/redis", Reference{KindDockerHub, dockerHubHost, "library", "redis"}},
		{"index.docker.io/grafana/loki", Reference{KindDockerHub, dockerHubHost, "grafana", "loki"}},
		{"redis:7.0.0", Reference{KindDockerHub, dockerHubHost, "library", "redis"}},
		{"ghcr.io/org/app@sha256:abcdef", Reference{KindGHCR, ghcrHost, "org", "app"}},
		{"  https://quay.io/coreos/etcd/  ", Reference{KindQuay, quayHost, "coreos", "etcd"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseReference(tt.input, DefaultAliases)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseReferenceErrors(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"ghcr.io/lonely",
		"quay.io/a/b/c",
		"public.ecr.aws/nginx",
		"a/b/c",
		"ghcr.io/org//app",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := ParseReference(input, DefaultAliases)
			var refErr *ReferenceError
			assert.True(t, errors.As(err, &refErr), "expected ReferenceError, got %v", err)
		})
	}
}

func TestParseReferenceCustomAliases(t *testing.T) {
	aliases := map[string]string{"mirror.local": "quay.io"}

	got, err := ParseReference("mirror.local/coreos/etcd", aliases)
	require.NoError(t, err)
	assert.Equal(t, KindQuay, got.Kind)
	assert.Equal(t, "quay.io/coreos/etcd", got.Image())

	// Without the default table lscr.io is just an unknown Docker Hub path.
	_, err = ParseReference("lscr.io/linuxserver/plex", aliases)
	assert.Error(t, err)
}
