package manifest

import (
	"fmt"
	"strings"

	"github.com/jmgilman/go/filecollection/errors"
)

// Spec is one node of a declarative collection expression. Exactly one of
// the kind fields must be set.
type Spec struct {
	// Union combines the child expressions in order.
	Union []Spec `json:"union,omitempty" yaml:"union,omitempty"`

	// Parallelism resolves the union's children concurrently when greater
	// than one. Only valid alongside Union.
	Parallelism int `json:"parallelism,omitempty" yaml:"parallelism,omitempty"`

	// Filter keeps the files of its source matching its patterns.
	Filter *FilterSpec `json:"filter,omitempty" yaml:"filter,omitempty"`

	// File is a single file path.
	File string `json:"file,omitempty" yaml:"file,omitempty"`

	// Files is an explicit list of file paths.
	Files []string `json:"files,omitempty" yaml:"files,omitempty"`

	// Tree is a directory tree.
	Tree *TreeSpec `json:"tree,omitempty" yaml:"tree,omitempty"`

	// Archive is a tar or tar.gz archive expanded on demand.
	Archive *ArchiveSpec `json:"archive,omitempty" yaml:"archive,omitempty"`

	// Generated lists build outputs that may not exist yet.
	Generated []string `json:"generated,omitempty" yaml:"generated,omitempty"`

	// Git is the set of files tracked by a repository.
	Git *GitSpec `json:"git,omitempty" yaml:"git,omitempty"`
}

// FilterSpec filters a source expression by path patterns. Patterns match
// paths relative to the manifest's base directory, and files outside it are
// dropped.
type FilterSpec struct {
	Source  Spec     `json:"source" yaml:"source"`
	Include []string `json:"include,omitempty" yaml:"include,omitempty"`
	Exclude []string `json:"exclude,omitempty" yaml:"exclude,omitempty"`
}

// TreeSpec describes a directory tree.
type TreeSpec struct {
	Root    string   `json:"root" yaml:"root"`
	Include []string `json:"include,omitempty" yaml:"include,omitempty"`
	Exclude []string `json:"exclude,omitempty" yaml:"exclude,omitempty"`
}

// ArchiveSpec describes an archive and where it expands.
type ArchiveSpec struct {
	Path         string   `json:"path" yaml:"path"`
	ExpandDir    string   `json:"expandDir" yaml:"expandDir"`
	Include      []string `json:"include,omitempty" yaml:"include,omitempty"`
	Exclude      []string `json:"exclude,omitempty" yaml:"exclude,omitempty"`
	MaxEntries   int      `json:"maxEntries,omitempty" yaml:"maxEntries,omitempty"`
	MaxEntrySize int64    `json:"maxEntrySize,omitempty" yaml:"maxEntrySize,omitempty"`
}

// GitSpec describes a repository worktree.
type GitSpec struct {
	Path    string   `json:"path" yaml:"path"`
	Include []string `json:"include,omitempty" yaml:"include,omitempty"`
	Exclude []string `json:"exclude,omitempty" yaml:"exclude,omitempty"`
}

// Kind returns the name of the kind field that is set, or "" when none or
// several are.
func (s *Spec) Kind() string {
	kinds := s.kinds()
	if len(kinds) != 1 {
		return ""
	}
	return kinds[0]
}

func (s *Spec) kinds() []string {
	var kinds []string
	if s.Union != nil {
		kinds = append(kinds, "union")
	}
	if s.Filter != nil {
		kinds = append(kinds, "filter")
	}
	if s.File != "" {
		kinds = append(kinds, "file")
	}
	if s.Files != nil {
		kinds = append(kinds, "files")
	}
	if s.Tree != nil {
		kinds = append(kinds, "tree")
	}
	if s.Archive != nil {
		kinds = append(kinds, "archive")
	}
	if s.Generated != nil {
		kinds = append(kinds, "generated")
	}
	if s.Git != nil {
		kinds = append(kinds, "git")
	}
	return kinds
}

// Validate checks that every node of the expression sets exactly one kind
// along with the fields that kind requires.
func (s *Spec) Validate() error {
	return s.validate("$")
}

func (s *Spec) validate(at string) error {
	kinds := s.kinds()
	switch len(kinds) {
	case 0:
		return invalid(at, "expression must set one of union, filter, file, files, tree, archive, generated or git")
	case 1:
	default:
		return invalid(at, fmt.Sprintf("expression sets more than one kind: %s", strings.Join(kinds, ", ")))
	}

	if s.Parallelism != 0 && s.Union == nil {
		return invalid(at, "parallelism is only valid on a union")
	}
	if s.Parallelism < 0 {
		return invalid(at, "parallelism cannot be negative")
	}

	switch kinds[0] {
	case "union":
		for i := range s.Union {
			if err := s.Union[i].validate(fmt.Sprintf("%s.union[%d]", at, i)); err != nil {
				return err
			}
		}
	case "filter":
		if len(s.Filter.Include) == 0 && len(s.Filter.Exclude) == 0 {
			return invalid(at, "filter needs at least one include or exclude pattern")
		}
		return s.Filter.Source.validate(at + ".filter.source")
	case "tree":
		if s.Tree.Root == "" {
			return invalid(at, "tree root is required")
		}
	case "archive":
		if s.Archive.Path == "" || s.Archive.ExpandDir == "" {
			return invalid(at, "archive path and expandDir are required")
		}
	case "git":
		if s.Git.Path == "" {
			return invalid(at, "git path is required")
		}
	}
	return nil
}

func invalid(at, message string) error {
	return errors.WithContext(errors.New(errors.CodeManifestDecodeFailed, message), "at", at)
}
