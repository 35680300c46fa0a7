package registry

import "context"

// Source lists the raw tags of a repository on one registry.
type Source interface {
	Kind() Kind
	ListTags(ctx context.Context, ref Reference) ([]Tag, error)
}
