package filetree

import (
	"path"
	"slices"
	"strings"

	"github.com/gobwas/glob"

	"github.com/jmgilman/go/filecollection/errors"
)

// Patterns selects files by their slash-separated path relative to a tree
// root.
//
// A single '*' never crosses a '/', while '**' matches any number of path
// segments, including none: "**/*.go" matches both "main.go" and
// "cmd/tool/main.go".
type Patterns struct {
	include    []glob.Glob
	exclude    []glob.Glob
	rawInclude []string
	rawExclude []string
}

// NewPatterns compiles include and exclude patterns.
func NewPatterns(include, exclude []string) (*Patterns, error) {
	p := &Patterns{rawInclude: slices.Clone(include), rawExclude: slices.Clone(exclude)}
	var err error
	if p.include, err = compileAll(include); err != nil {
		return nil, err
	}
	if p.exclude, err = compileAll(exclude); err != nil {
		return nil, err
	}
	return p, nil
}

// Include returns the include patterns as given.
func (p *Patterns) Include() []string { return slices.Clone(p.rawInclude) }

// Exclude returns the exclude patterns as given.
func (p *Patterns) Exclude() []string { return slices.Clone(p.rawExclude) }

// IsEmpty reports whether the patterns accept every path.
func (p *Patterns) IsEmpty() bool {
	return len(p.include) == 0 && len(p.exclude) == 0
}

// Match reports whether a file at rel is selected.
func (p *Patterns) Match(rel string) bool {
	if p.Excludes(rel) {
		return false
	}
	return len(p.include) == 0 || matchAny(p.include, rel)
}

// Selects is Match for trees that list files without their directories: a
// file below an excluded directory is never selected.
func (p *Patterns) Selects(rel string) bool {
	for dir := path.Dir(rel); dir != "." && dir != "/"; dir = path.Dir(dir) {
		if p.Excludes(dir) {
			return false
		}
	}
	return p.Match(rel)
}

// Excludes reports whether rel matches an exclude pattern.
func (p *Patterns) Excludes(rel string) bool {
	return matchAny(p.exclude, rel)
}

func matchAny(globs []glob.Glob, rel string) bool {
	for _, g := range globs {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

func compileAll(patterns []string) ([]glob.Glob, error) {
	var globs []glob.Glob
	for _, pattern := range patterns {
		if pattern == "" {
			return nil, errors.New(errors.CodeInvalidInput, "pattern cannot be empty")
		}
		for _, v := range variants(pattern) {
			g, err := glob.Compile(v, '/')
			if err != nil {
				return nil, errors.WrapWithContext(err, errors.CodeInvalidInput, "invalid pattern", map[string]any{
					"pattern": pattern,
				})
			}
			globs = append(globs, g)
		}
	}
	return globs, nil
}

// variants expands pattern into the forms where each "**" segment also
// matches zero segments.
func variants(pattern string) []string {
	seen := map[string]bool{pattern: true}
	queue := []string{pattern}
	for i := 0; i < len(queue); i++ {
		for _, next := range collapse(queue[i]) {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return queue
}

func collapse(p string) []string {
	var out []string
	if rest, ok := strings.CutPrefix(p, "**/"); ok {
		out = append(out, rest)
	}
	if head, ok := strings.CutSuffix(p, "/**"); ok {
		out = append(out, head)
	}
	for i := 0; ; {
		j := strings.Index(p[i:], "/**/")
		if j < 0 {
			break
		}
		j += i
		out = append(out, p[:j]+p[j+3:])
		i = j + 1
	}
	return out
}
