package filesystem

import (
	"fmt"
	"slices"
	"strings"

	"github.com/brettbedarf/filetree"
	"github.com/brettbedarf/filetree/fspath"
)

// DirNode is an internal tree node. It owns its child directories and
// files, each kept sorted by path; parent is a non-owning back-reference
// used for upward traversal and auditing.
type DirNode struct {
	path   fspath.Path
	parent *DirNode    // nil only for the root (or a freed node)
	dirs   []*DirNode  // sorted by path
	files  []*FileNode // sorted by path
}

// NewDirNode creates a directory at path and links it into parent's
// directory children at its sorted position.
//
// With a parent, the parent's path must be a prefix of path
// ([filetree.ErrConflictingPath]), exactly one level up
// ([filetree.ErrNoSuchPath]), and must not already hold a directory child
// at path ([filetree.ErrAlreadyInTree]). Without a parent, path must have
// depth 1 ([filetree.ErrNoSuchPath]).
func NewDirNode(path fspath.Path, parent *DirNode) (*DirNode, error) {
	if parent == nil {
		if path.Depth() != 1 {
			return nil, fmt.Errorf("%w: %s has no parent and is not a root", filetree.ErrNoSuchPath, path)
		}
		return &DirNode{path: path}, nil
	}

	parentDepth := parent.path.Depth()
	if fspath.SharedPrefixDepth(path, parent.path) < parentDepth {
		return nil, fmt.Errorf("%w: %s is not under %s", filetree.ErrConflictingPath, path, parent.path)
	}
	if path.Depth() != parentDepth+1 {
		return nil, fmt.Errorf("%w: %s is not a direct child of %s", filetree.ErrNoSuchPath, path, parent.path)
	}
	idx, found := parent.HasDirChild(path)
	if found {
		return nil, fmt.Errorf("%w: %s", filetree.ErrAlreadyInTree, path)
	}

	node := &DirNode{path: path, parent: parent}
	parent.dirs = slices.Insert(parent.dirs, idx, node)
	return node, nil
}

// Free unlinks n from its parent and destroys its whole subtree: child
// directories first, then child files, then n itself.
// Returns the number of directory nodes destroyed, n included.
func (n *DirNode) Free() int {
	if p := n.parent; p != nil {
		if idx, found := p.HasDirChild(n.path); found && p.dirs[idx] == n {
			p.dirs = slices.Delete(p.dirs, idx, idx+1)
		}
		n.parent = nil
	}

	count := 0
	// each child unlinks itself, so always take the head
	for len(n.dirs) > 0 {
		count += n.dirs[0].Free()
	}
	for _, f := range n.files {
		f.Free()
	}
	n.files = nil
	return count + 1
}

func (n *DirNode) Path() fspath.Path {
	return n.path
}

// Parent returns the parent directory; nil for the root
func (n *DirNode) Parent() *DirNode {
	return n.parent
}

// HasDirChild binary searches n's directory children for path. When not
// found, idx is the insertion point that keeps the children sorted.
func (n *DirNode) HasDirChild(path fspath.Path) (idx int, found bool) {
	return slices.BinarySearchFunc(n.dirs, path, func(d *DirNode, p fspath.Path) int {
		return fspath.Compare(d.path, p)
	})
}

// HasFileChild is [DirNode.HasDirChild] over the file children
func (n *DirNode) HasFileChild(path fspath.Path) (idx int, found bool) {
	return slices.BinarySearchFunc(n.files, path, func(f *FileNode, p fspath.Path) int {
		return fspath.Compare(f.path, p)
	})
}

// AddFileChild inserts f into n's file children at idx, which the caller
// must have obtained from [DirNode.HasFileChild].
// Returns [filetree.ErrNoSuchPath] if idx is out of range.
func (n *DirNode) AddFileChild(f *FileNode, idx int) error {
	if idx < 0 || idx > len(n.files) {
		return fmt.Errorf("%w: file index %d out of range [0,%d]", filetree.ErrNoSuchPath, idx, len(n.files))
	}
	n.files = slices.Insert(n.files, idx, f)
	return nil
}

// RemoveFileChild unlinks and returns the file child at idx.
// Returns [filetree.ErrNoSuchPath] if idx is out of range.
func (n *DirNode) RemoveFileChild(idx int) (*FileNode, error) {
	f, err := n.FileChild(idx)
	if err != nil {
		return nil, err
	}
	n.files = slices.Delete(n.files, idx, idx+1)
	return f, nil
}

// DirChild returns the directory child at idx.
// Returns [filetree.ErrNoSuchPath] if idx is out of range.
func (n *DirNode) DirChild(idx int) (*DirNode, error) {
	if idx < 0 || idx >= len(n.dirs) {
		return nil, fmt.Errorf("%w: dir index %d out of range", filetree.ErrNoSuchPath, idx)
	}
	return n.dirs[idx], nil
}

// FileChild returns the file child at idx.
// Returns [filetree.ErrNoSuchPath] if idx is out of range.
func (n *DirNode) FileChild(idx int) (*FileNode, error) {
	if idx < 0 || idx >= len(n.files) {
		return nil, fmt.Errorf("%w: file index %d out of range", filetree.ErrNoSuchPath, idx)
	}
	return n.files[idx], nil
}

func (n *DirNode) NumDirChildren() int {
	return len(n.dirs)
}

func (n *DirNode) NumFileChildren() int {
	return len(n.files)
}

// String renders n's path line followed by a line per file child
func (n *DirNode) String() string {
	var sb strings.Builder
	n.writeTo(&sb)
	return sb.String()
}

func (n *DirNode) writeTo(sb *strings.Builder) {
	sb.WriteString(n.path.String())
	sb.WriteByte('\n')
	for _, f := range n.files {
		sb.WriteString(f.path.String())
		sb.WriteByte('\n')
	}
}

// CompareDirs orders directory nodes by path
func CompareDirs(a, b *DirNode) int {
	return fspath.Compare(a.path, b.path)
}
