package registry

import (
	"fmt"
	"strings"

	"github.com/google/go-containerregistry/pkg/name"
	"github.com/pkg/errors"
)

func PullCommand(ref Reference, tag string) (string, error) {
	reference, err := PullReference(ref, tag)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("docker pull %s", reference), nil
}

// PullReference returns the canonical host/path:tag for a tag of ref.
// Docker Hub references resolve to index.docker.io.
func PullReference(ref Reference, tag string) (string, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		tag = name.DefaultTag
	}
	image := strings.ToLower(ref.Image())
	parsed, err := name.NewTag(image+":"+tag, name.WeakValidation)
	if err != nil {
		return "", errors.Wrapf(err, "invalid pull reference for %s", image)
	}
	return parsed.Name(), nil
}
