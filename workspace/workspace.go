// Package workspace tracks the Workspace entity spec.md §3 names: source
// roots, classpath entries, and Jenkinsfile classification, plus the
// coarse invalidation events a workspace-wide change (a root added or
// removed, a classpath change) produces (spec.md §4.5, §6
// "on_workspace_change").
package workspace

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ChangeKind distinguishes the workspace-level events on_workspace_change
// can carry (spec.md §6). Per-document edits are a separate, much higher
// frequency path (open/edit/close) and never go through this type.
type ChangeKind int

const (
	RootsChanged ChangeKind = iota
	ClasspathChanged
)

// Change is one workspace-level event.
type Change struct {
	Kind ChangeKind
}

// Workspace holds the source roots, classpath, and Jenkins file-pattern
// configuration for one open project. It is not safe for concurrent
// mutation — the engine serializes on_workspace_change calls the same way
// it serializes document edits (spec.md §5).
type Workspace struct {
	SourceRoots   []string
	Classpath     []string
	JenkinsGlobs  []string
}

// New creates a Workspace. jenkinsGlobs come from
// internal/config.CoreConfig.Jenkins.FilePatterns; an empty slice means
// no document is ever classified as a Jenkinsfile.
func New(sourceRoots, classpath, jenkinsGlobs []string) *Workspace {
	return &Workspace{
		SourceRoots:  sourceRoots,
		Classpath:    classpath,
		JenkinsGlobs: jenkinsGlobs,
	}
}

// IsJenkinsfile reports whether uri (a `file://` URI or a
// workspace-relative path with forward slashes) matches one of the
// configured Jenkins file patterns, using doublestar so
// `**/*.Jenkinsfile`-style recursive globs work the way spec.md's Jenkins
// classification needs (SPEC_FULL.md §3). Each pattern is tried against
// the path with any `file://` scheme and leading `/` removed, and against
// its last path segment, so a bare `Jenkinsfile` pattern matches a file of
// that name in any directory.
func (w *Workspace) IsJenkinsfile(uri string) bool {
	p := strings.TrimPrefix(strings.TrimPrefix(uri, "file://"), "/")
	base := p[strings.LastIndex(p, "/")+1:]
	for _, pattern := range w.JenkinsGlobs {
		if ok, _ := doublestar.Match(pattern, p); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

// AddSourceRoot records a new source root and reports the RootsChanged
// event the engine should broadcast as a coarse invalidation (spec.md
// §4.5: every cached document potentially needs reclassification once the
// root set changes, even though no document's content changed).
func (w *Workspace) AddSourceRoot(root string) Change {
	w.SourceRoots = append(w.SourceRoots, root)
	return Change{Kind: RootsChanged}
}

// SetClasspath replaces the classpath wholesale and reports the
// ClasspathChanged event.
func (w *Workspace) SetClasspath(classpath []string) Change {
	w.Classpath = classpath
	return Change{Kind: ClasspathChanged}
}

// IsWorkspaceOwned reports whether uri is source the caller may safely
// rewrite, as opposed to a compiled dependency the caller can only read.
// A URI under a configured classpath entry is always a dependency,
// regardless of source roots. With no source roots configured at all,
// every non-dependency URI is treated as workspace-owned, matching the
// CLI harness's single-file/rootless mode where no roots are ever set.
func (w *Workspace) IsWorkspaceOwned(uri string) bool {
	for _, root := range w.Classpath {
		if root != "" && strings.HasPrefix(uri, root) {
			return false
		}
	}
	if len(w.SourceRoots) == 0 {
		return true
	}
	for _, root := range w.SourceRoots {
		if root != "" && strings.HasPrefix(uri, root) {
			return true
		}
	}
	return false
}
