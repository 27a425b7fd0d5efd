package filesystem

import (
	"fmt"

	"github.com/brettbedarf/filetree"
	"github.com/brettbedarf/filetree/fspath"
)

// FileNode is a leaf holding opaque contents. A file can never be the tree
// root, so its path always has depth > 1.
type FileNode struct {
	path     fspath.Path
	contents []byte // Owned by the caller; never copied or interpreted
	length   int
}

// NewFileNode creates an empty, unlinked file node at path.
// Returns [filetree.ErrNoSuchPath] if path has depth <= 1.
func NewFileNode(path fspath.Path) (*FileNode, error) {
	if path.Depth() <= 1 {
		return nil, fmt.Errorf("%w: file %s cannot be a root", filetree.ErrNoSuchPath, path)
	}
	return &FileNode{path: path}, nil
}

// Free releases the node and returns its former content length for
// size accounting. The contents buffer belongs to the caller and is only
// dropped, never cleared.
func (f *FileNode) Free() int {
	n := f.length
	f.contents = nil
	f.length = 0
	return n
}

func (f *FileNode) Path() fspath.Path {
	return f.path
}

// Contents returns the stored contents, which may legitimately be nil
func (f *FileNode) Contents() []byte {
	return f.contents
}

// SetContents stores contents and returns the previous value
func (f *FileNode) SetContents(contents []byte) []byte {
	old := f.contents
	f.contents = contents
	return old
}

func (f *FileNode) Length() int {
	return f.length
}

// SetLength stores length and returns the previous value
func (f *FileNode) SetLength(length int) int {
	old := f.length
	f.length = length
	return old
}

// String returns the node's path line
func (f *FileNode) String() string {
	return f.path.String()
}

// CompareFiles orders file nodes by path
func CompareFiles(a, b *FileNode) int {
	return fspath.Compare(a.path, b.path)
}
