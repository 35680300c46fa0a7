package registry

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// DefaultIgnorePatterns suppresses build artifacts, SHA-pinned tags and
// architecture-suffixed duplicates.
var DefaultIgnorePatterns = []string{
	"sha256-*",
	"main",
	"main-*",
	"master-*",
	"*.dev*",
	"*arm64*",
}

// Matcher reports whether a tag name matches any of a set of glob patterns.
type Matcher struct {
	patterns []string
	compiled []*regexp.Regexp
}

// NewMatcher compiles glob patterns. A nil slice selects DefaultIgnorePatterns;
// an empty, non-nil slice ignores nothing.
func NewMatcher(patterns []string) (*Matcher, error) {
	if patterns == nil {
		patterns = DefaultIgnorePatterns
	}
	m := &Matcher{}
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		re, err := regexp.Compile(GlobToRegexp(pattern))
		if err != nil {
			return nil, errors.Wrapf(err, "invalid ignore pattern %q", pattern)
		}
		m.patterns = append(m.patterns, pattern)
		m.compiled = append(m.compiled, re)
	}
	return m, nil
}

// Patterns returns the patterns the matcher was built from.
func (m *Matcher) Patterns() []string {
	return append([]string(nil), m.patterns...)
}

func (m *Matcher) Match(name string) bool {
	for _, re := range m.compiled {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// MatchAny compiles patterns and tests name against them. Invalid patterns
// never match.
func MatchAny(name string, patterns []string) bool {
	for _, pattern := range patterns {
		re, err := regexp.Compile(GlobToRegexp(pattern))
		if err != nil {
			continue
		}
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// GlobToRegexp translates a shell glob into an anchored regular expression.
// '*' matches any run of characters, '?' exactly one, and [...] / [!...]
// character classes are kept as classes. An unterminated '[' is literal.
func GlobToRegexp(pattern string) string {
	var b strings.Builder
	b.WriteString(`(?s)\A`)
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch c {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		case '[':
			end := classEnd(pattern, i+1)
			if end == -1 {
				b.WriteString(`\[`)
				continue
			}
			class := pattern[i+1 : end]
			b.WriteByte('[')
			if strings.HasPrefix(class, "!") {
				b.WriteByte('^')
				class = class[1:]
			} else if strings.HasPrefix(class, "^") {
				b.WriteString(`\^`)
				class = class[1:]
			}
			b.WriteString(strings.ReplaceAll(class, `\`, `\\`))
			b.WriteByte(']')
			i = end
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	b.WriteString(`\z`)
	return b.String()
}

// classEnd returns the index of the ']' closing a class opened just before
// start, or -1. A ']' directly after the opening (or after '!') is literal.
func classEnd(pattern string, start int) int {
	j := start
	if j < len(pattern) && pattern[j] == '!' {
		j++
	}
	if j < len(pattern) && pattern[j] == ']' {
		j++
	}
	for ; j < len(pattern); j++ {
		if pattern[j] == ']' {
			return j
		}
	}
	return -1
}
