// Package fspath implements the validated absolute path used to address
// nodes in a file tree.
//
// A path is one or more non-empty components separated by [Separator]. A
// single leading separator is accepted and ignored, so "a/b" and "/a/b" are
// the same path. Its canonical string form always carries the leading
// separator.
package fspath

import (
	"fmt"
	"strings"

	"github.com/brettbedarf/filetree"
)

// Separator is the reserved component delimiter
const Separator = "/"

// Path is an immutable, validated absolute path. The zero value is not a
// valid path; obtain one from [Parse] or [Path.Prefix].
type Path struct {
	comps []string
	str   string
}

// Parse validates raw and returns its Path.
// Returns an error wrapping [filetree.ErrBadPath] if raw is empty, has a
// trailing or doubled separator, or has no components.
func Parse(raw string) (Path, error) {
	trimmed := strings.TrimPrefix(raw, Separator)
	if trimmed == "" {
		return Path{}, fmt.Errorf("%w: %q has no components", filetree.ErrBadPath, raw)
	}
	comps := strings.Split(trimmed, Separator)
	for _, c := range comps {
		if c == "" {
			return Path{}, fmt.Errorf("%w: %q has an empty component", filetree.ErrBadPath, raw)
		}
	}
	return newPath(comps), nil
}

// MustParse is like [Parse] but panics on error. Intended for tests and
// constant paths.
func MustParse(raw string) Path {
	p, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return p
}

func newPath(comps []string) Path {
	return Path{
		comps: comps,
		str:   Separator + strings.Join(comps, Separator),
	}
}

// Depth returns the number of components; 0 for the zero value
func (p Path) Depth() int {
	return len(p.comps)
}

// IsZero reports whether p is the zero value
func (p Path) IsZero() bool {
	return len(p.comps) == 0
}

// Prefix returns the path of the first n components.
// Returns an error wrapping [filetree.ErrBadPath] unless 1 <= n <= Depth().
func (p Path) Prefix(n int) (Path, error) {
	if n < 1 || n > len(p.comps) {
		return Path{}, fmt.Errorf("%w: prefix %d of %q (depth %d)", filetree.ErrBadPath, n, p.str, len(p.comps))
	}
	if n == len(p.comps) {
		return p, nil
	}
	// cap the slice so the prefix can never observe appends
	return newPath(p.comps[:n:n]), nil
}

// Base returns the last component
func (p Path) Base() string {
	if len(p.comps) == 0 {
		return ""
	}
	return p.comps[len(p.comps)-1]
}

// Components returns a copy of the components
func (p Path) Components() []string {
	return append([]string(nil), p.comps...)
}

// String returns the canonical joined form
func (p Path) String() string {
	return p.str
}

// Compare orders paths lexicographically by their joined string form.
// Returns <0, 0 or >0.
func Compare(a, b Path) int {
	return strings.Compare(a.str, b.str)
}

// CompareString orders p against an already joined path string
func (p Path) CompareString(s string) int {
	return strings.Compare(p.str, s)
}

// Equal reports whether p and q name the same path
func (p Path) Equal(q Path) bool {
	return p.str == q.str
}

// SharedPrefixDepth returns the length of the longest common leading run
// of components of a and b
func SharedPrefixDepth(a, b Path) int {
	n := min(len(a.comps), len(b.comps))
	i := 0
	for i < n && a.comps[i] == b.comps[i] {
		i++
	}
	return i
}

// IsParentOf reports whether p is exactly one level above child
func (p Path) IsParentOf(child Path) bool {
	return child.Depth() == p.Depth()+1 && SharedPrefixDepth(p, child) == p.Depth()
}
