package registry

import (
	"context"
	"sort"

	"github.com/pkg/errors"
)

// Fetcher routes repository references to their registry and turns the raw
// listing into a filtered, deduplicated, sorted set of tags.
type Fetcher struct {
	sources map[Kind]Source
	matcher *Matcher
	aliases map[string]string
}

func NewFetcher(opts Options) (*Fetcher, error) {
	matcher, err := NewMatcher(opts.IgnorePatterns)
	if err != nil {
		return nil, err
	}
	sources, err := newSources(opts)
	if err != nil {
		return nil, err
	}
	aliases := opts.Aliases
	if aliases == nil {
		aliases = DefaultAliases
	}
	return &Fetcher{sources: sources, matcher: matcher, aliases: aliases}, nil
}

// newFetcherWithSources lets tests substitute sources.
func newFetcherWithSources(matcher *Matcher, aliases map[string]string, sources ...Source) *Fetcher {
	byKind := make(map[Kind]Source, len(sources))
	for _, source := range sources {
		byKind[source.Kind()] = source
	}
	return &Fetcher{sources: byKind, matcher: matcher, aliases: aliases}
}

// Resolve parses repo using the fetcher's alias table.
func (f *Fetcher) Resolve(repo string) (Reference, error) {
	return ParseReference(repo, f.aliases)
}

// Tags returns the non-ignored tags of repo, deduplicated on their rendered
// form and sorted lexicographically by it.
func (f *Fetcher) Tags(ctx context.Context, repo string) (Reference, []Tag, error) {
	ref, err := f.Resolve(repo)
	if err != nil {
		return Reference{}, nil, err
	}
	source, ok := f.sources[ref.Kind]
	if !ok {
		return ref, nil, errors.Errorf("no source registered for %s", ref.Kind)
	}

	raw, err := source.ListTags(ctx, ref)
	if err != nil {
		return ref, nil, errors.WithMessagef(err, "list tags of %s", ref.Image())
	}

	seen := make(map[string]bool, len(raw))
	tags := make([]Tag, 0, len(raw))
	for _, tag := range raw {
		if tag.Name == "" || f.matcher.Match(tag.Name) {
			continue
		}
		line := tag.String()
		if seen[line] {
			continue
		}
		seen[line] = true
		tags = append(tags, tag)
	}
	sort.SliceStable(tags, func(i, j int) bool {
		return tags[i].String() < tags[j].String()
	})
	return ref, tags, nil
}

// FetchTags returns repo's tags rendered as "{name} - {date}". Lexicographic
// order only approximates chronological order.
func (f *Fetcher) FetchTags(ctx context.Context, repo string) ([]string, error) {
	_, tags, err := f.Tags(ctx, repo)
	if err != nil {
		return nil, err
	}
	lines := make([]string, 0, len(tags))
	for _, tag := range tags {
		lines = append(lines, tag.String())
	}
	return lines, nil
}
