package filesystem

import (
	"fmt"
	"strings"

	"github.com/brettbedarf/filetree"
	"github.com/brettbedarf/filetree/fspath"
	"github.com/brettbedarf/filetree/internal/util"
)

// Tree is a file tree rooted at a single directory. Directories may be
// internal nodes or leaves; files are always leaves.
//
// A Tree starts uninitialized; every operation except [Tree.Init] and the
// accessors fails with [filetree.ErrInitialization] until Init is called.
// Trees are independent of each other but a single Tree is not safe for
// concurrent use.
type Tree struct {
	initialized bool
	root        *DirNode // nil when the tree is empty
	dirCount    int      // directory nodes only
}

var (
	_ filetree.Operator  = (*Tree)(nil)
	_ filetree.Inspector = (*Tree)(nil)
)

// NewTree returns an uninitialized tree
func NewTree() *Tree {
	return &Tree{}
}

// Init moves the tree to the initialized, empty state.
// Returns [filetree.ErrInitialization] if already initialized.
func (t *Tree) Init() error {
	if t.initialized {
		return fmt.Errorf("%w: already initialized", filetree.ErrInitialization)
	}
	t.initialized = true
	t.root = nil
	t.dirCount = 0
	return nil
}

// Destroy frees every node and returns the tree to the uninitialized state.
// Returns [filetree.ErrInitialization] if not initialized.
func (t *Tree) Destroy() error {
	logger := util.GetLogger("Tree.Destroy")

	if !t.initialized {
		return fmt.Errorf("%w: not initialized", filetree.ErrInitialization)
	}
	if t.root != nil {
		freed := t.root.Free()
		t.dirCount -= freed
		t.root = nil
		logger.Debug().Int("dirs", freed).Msg("Freed tree")
	}
	t.initialized = false
	return nil
}

// IsInitialized reports the initialization flag
func (t *Tree) IsInitialized() bool {
	return t.initialized
}

// Root returns the root directory, or nil when the tree is empty
func (t *Tree) Root() *DirNode {
	return t.root
}

// DirCount returns the number of directory nodes in the tree
func (t *Tree) DirCount() int {
	return t.dirCount
}

func (t *Tree) checkInit() error {
	if !t.initialized {
		return fmt.Errorf("%w: not initialized", filetree.ErrInitialization)
	}
	return nil
}

// traverse walks from the root following path's prefixes and returns the
// furthest existing directory on the way, which may be only a prefix of
// path. Returns nil without error when the tree is empty.
// Returns [filetree.ErrConflictingPath] if the root is not path's first
// component.
func (t *Tree) traverse(path fspath.Path) (*DirNode, error) {
	if t.root == nil {
		return nil, nil
	}

	top, err := path.Prefix(1)
	if err != nil {
		return nil, err
	}
	if !t.root.path.Equal(top) {
		return nil, fmt.Errorf("%w: %s is not under root %s", filetree.ErrConflictingPath, path, t.root.path)
	}

	cur := t.root
	for i := 2; i <= path.Depth(); i++ {
		prefix, err := path.Prefix(i)
		if err != nil {
			return nil, err
		}
		idx, found := cur.HasDirChild(prefix)
		if !found {
			break
		}
		if cur, err = cur.DirChild(idx); err != nil {
			return nil, err
		}
	}
	return cur, nil
}

// findDir resolves raw to an existing directory
func (t *Tree) findDir(raw string) (*DirNode, error) {
	if err := t.checkInit(); err != nil {
		return nil, err
	}
	path, err := fspath.Parse(raw)
	if err != nil {
		return nil, err
	}
	found, err := t.traverse(path)
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, fmt.Errorf("%w: %s", filetree.ErrNoSuchPath, path)
	}
	if !found.path.Equal(path) {
		if found.path.IsParentOf(path) {
			if _, isFile := found.HasFileChild(path); isFile {
				return nil, fmt.Errorf("%w: %s", filetree.ErrNotADirectory, path)
			}
		}
		return nil, fmt.Errorf("%w: %s", filetree.ErrNoSuchPath, path)
	}
	return found, nil
}

// findFile resolves raw to an existing file and returns it with its parent
// directory and its index among the parent's file children
func (t *Tree) findFile(raw string) (file *FileNode, parent *DirNode, idx int, err error) {
	if err := t.checkInit(); err != nil {
		return nil, nil, 0, err
	}
	path, err := fspath.Parse(raw)
	if err != nil {
		return nil, nil, 0, err
	}
	parent, err = t.traverse(path)
	if err != nil {
		return nil, nil, 0, err
	}
	if parent == nil {
		return nil, nil, 0, fmt.Errorf("%w: %s", filetree.ErrNoSuchPath, path)
	}
	if parent.path.Equal(path) {
		return nil, nil, 0, fmt.Errorf("%w: %s", filetree.ErrNotAFile, path)
	}
	if !parent.path.IsParentOf(path) {
		return nil, nil, 0, fmt.Errorf("%w: %s", filetree.ErrNoSuchPath, path)
	}
	idx, found := parent.HasFileChild(path)
	if !found {
		return nil, nil, 0, fmt.Errorf("%w: %s", filetree.ErrNoSuchPath, path)
	}
	file, err = parent.FileChild(idx)
	if err != nil {
		return nil, nil, 0, err
	}
	return file, parent, idx, nil
}

// extend creates the directories of path from depth `from` up to and
// including depth `to` under parent, recording each in tx. parent is nil
// when the tree is empty. Returns the deepest directory.
func (t *Tree) extend(tx *insertTxn, path fspath.Path, parent *DirNode, from, to int) (*DirNode, error) {
	cur := parent
	for i := from; i <= to; i++ {
		prefix, err := path.Prefix(i)
		if err != nil {
			return nil, err
		}
		// a file at this prefix would have to be a child of cur; freshly
		// created directories have no files, so this only fires on the
		// first level
		if cur != nil {
			if _, isFile := cur.HasFileChild(prefix); isFile {
				return nil, fmt.Errorf("%w: %s is a file", filetree.ErrNotADirectory, prefix)
			}
		}
		node, err := NewDirNode(prefix, cur)
		if err != nil {
			return nil, err
		}
		tx.Created(node)
		cur = node
	}
	return cur, nil
}

// commit publishes the directories created by tx
func (t *Tree) commit(tx *insertTxn) {
	if t.root == nil {
		t.root = tx.First()
	}
	t.dirCount += tx.Count()
	tx.Commit()
}

// InsertDir inserts the directory at raw, creating any missing ancestors.
// On any failure no node created by this call remains in the tree.
//
// Returns [filetree.ErrInitialization], [filetree.ErrBadPath],
// [filetree.ErrConflictingPath] if raw is not under the root,
// [filetree.ErrNotADirectory] if a proper prefix of raw is a file, or
// [filetree.ErrAlreadyInTree] if raw already exists as either kind.
func (t *Tree) InsertDir(raw string) error {
	logger := util.GetLogger("Tree.InsertDir")

	if err := t.checkInit(); err != nil {
		return err
	}
	path, err := fspath.Parse(raw)
	if err != nil {
		return err
	}
	cur, err := t.traverse(path)
	if err != nil {
		return err
	}

	from := 1
	if cur != nil {
		if cur.path.Equal(path) {
			return fmt.Errorf("%w: %s", filetree.ErrAlreadyInTree, path)
		}
		if cur.path.IsParentOf(path) {
			if _, isFile := cur.HasFileChild(path); isFile {
				return fmt.Errorf("%w: %s exists as a file", filetree.ErrAlreadyInTree, path)
			}
		}
		from = cur.path.Depth() + 1
	}

	tx := newInsertTxn()
	if _, err := t.extend(tx, path, cur, from, path.Depth()); err != nil {
		tx.Rollback()
		logger.Debug().Err(err).Str("path", raw).Msg("Failed to insert directory")
		return err
	}
	t.commit(tx)
	logger.Debug().Str("path", path.String()).Msg(fmt.Sprintf("Created %d new dir(s)", tx.Count()))
	return nil
}

// InsertFile inserts a file at raw holding contents of the given length,
// creating any missing ancestor directories. contents is stored as is and
// may be nil. On any failure no node created by this call remains in the
// tree.
//
// Returns [filetree.ErrInitialization], [filetree.ErrBadPath],
// [filetree.ErrConflictingPath] if raw is not under the root or has depth
// 1, [filetree.ErrNotADirectory] if a proper prefix of raw is a file, or
// [filetree.ErrAlreadyInTree] if raw already exists as either kind.
func (t *Tree) InsertFile(raw string, contents []byte, length int) error {
	logger := util.GetLogger("Tree.InsertFile")

	if err := t.checkInit(); err != nil {
		return err
	}
	path, err := fspath.Parse(raw)
	if err != nil {
		return err
	}
	if path.Depth() == 1 {
		return fmt.Errorf("%w: file %s cannot be the root", filetree.ErrConflictingPath, path)
	}
	cur, err := t.traverse(path)
	if err != nil {
		return err
	}

	from := 1
	if cur != nil {
		if cur.path.Equal(path) {
			return fmt.Errorf("%w: %s exists as a directory", filetree.ErrAlreadyInTree, path)
		}
		if _, isFile := cur.HasFileChild(path); isFile {
			return fmt.Errorf("%w: %s", filetree.ErrAlreadyInTree, path)
		}
		from = cur.path.Depth() + 1
	}

	tx := newInsertTxn()
	fail := func(err error) error {
		tx.Rollback()
		logger.Debug().Err(err).Str("path", raw).Msg("Failed to insert file")
		return err
	}

	parent, err := t.extend(tx, path, cur, from, path.Depth()-1)
	if err != nil {
		return fail(err)
	}
	file, err := NewFileNode(path)
	if err != nil {
		return fail(err)
	}
	idx, found := parent.HasFileChild(path)
	if found {
		return fail(fmt.Errorf("%w: %s", filetree.ErrAlreadyInTree, path))
	}
	if err := parent.AddFileChild(file, idx); err != nil {
		return fail(err)
	}
	file.SetContents(contents)
	file.SetLength(length)

	t.commit(tx)
	logger.Debug().Str("path", path.String()).Int("length", length).Int("newDirs", tx.Count()).Msg("Added new file node")
	return nil
}

// ContainsDir reports whether raw is a directory in the tree. Any error is
// reported as false.
func (t *Tree) ContainsDir(raw string) bool {
	_, err := t.findDir(raw)
	return err == nil
}

// ContainsFile reports whether raw is a file in the tree. Any error is
// reported as false.
func (t *Tree) ContainsFile(raw string) bool {
	_, _, _, err := t.findFile(raw)
	return err == nil
}

// RmDir removes the directory at raw and its whole subtree.
//
// Returns [filetree.ErrInitialization], [filetree.ErrBadPath],
// [filetree.ErrConflictingPath], [filetree.ErrNoSuchPath], or
// [filetree.ErrNotADirectory] if raw is a file.
func (t *Tree) RmDir(raw string) error {
	logger := util.GetLogger("Tree.RmDir")

	found, err := t.findDir(raw)
	if err != nil {
		logger.Debug().Err(err).Str("path", raw).Msg("Failed to remove directory")
		return err
	}
	freed := found.Free()
	t.dirCount -= freed
	if found == t.root {
		t.root = nil
	}
	logger.Debug().Str("path", raw).Int("dirs", freed).Msg("Removed directory")
	return nil
}

// RmFile removes the file at raw.
//
// Returns [filetree.ErrInitialization], [filetree.ErrBadPath],
// [filetree.ErrConflictingPath], [filetree.ErrNoSuchPath], or
// [filetree.ErrNotAFile] if raw is a directory.
func (t *Tree) RmFile(raw string) error {
	logger := util.GetLogger("Tree.RmFile")

	_, parent, idx, err := t.findFile(raw)
	if err != nil {
		logger.Debug().Err(err).Str("path", raw).Msg("Failed to remove file")
		return err
	}
	file, err := parent.RemoveFileChild(idx)
	if err != nil {
		return err
	}
	size := file.Free()
	logger.Debug().Str("path", raw).Int("length", size).Msg("Removed file")
	return nil
}

// GetFileContents returns the contents of the file at raw, or nil if it
// cannot be resolved. A nil result is not an existence check since stored
// contents may be nil; use [Tree.ContainsFile] or [Tree.FileContents].
func (t *Tree) GetFileContents(raw string) []byte {
	contents, _ := t.FileContents(raw)
	return contents
}

// FileContents is [Tree.GetFileContents] with the resolution error
func (t *Tree) FileContents(raw string) ([]byte, error) {
	file, _, _, err := t.findFile(raw)
	if err != nil {
		return nil, err
	}
	return file.Contents(), nil
}

// ReplaceFileContents swaps the contents and length of the file at raw and
// returns the old contents, or nil if the file cannot be resolved.
func (t *Tree) ReplaceFileContents(raw string, contents []byte, length int) []byte {
	old, _ := t.SwapFileContents(raw, contents, length)
	return old
}

// SwapFileContents is [Tree.ReplaceFileContents] with the resolution error
func (t *Tree) SwapFileContents(raw string, contents []byte, length int) ([]byte, error) {
	file, _, _, err := t.findFile(raw)
	if err != nil {
		return nil, err
	}
	file.SetLength(length)
	return file.SetContents(contents), nil
}

// Stat reports whether raw is a file or a directory and, for files, the
// content length.
//
// Returns [filetree.ErrInitialization], [filetree.ErrBadPath],
// [filetree.ErrConflictingPath] or [filetree.ErrNoSuchPath].
func (t *Tree) Stat(raw string) (filetree.Stat, error) {
	_, dirErr := t.findDir(raw)
	if dirErr == nil {
		return filetree.Stat{IsFile: false}, nil
	}
	if file, _, _, err := t.findFile(raw); err == nil {
		return filetree.Stat{IsFile: true, Size: file.Length()}, nil
	}
	return filetree.Stat{}, dirErr
}

// Dump serializes the tree in pre-order: each directory's path line, then
// its file children's lines, then its directory children recursively.
// Siblings appear in path order. Returns [filetree.ErrInitialization] if
// not initialized.
func (t *Tree) Dump() (string, error) {
	if err := t.checkInit(); err != nil {
		return "", err
	}
	var sb strings.Builder
	preOrder(t.root, func(n *DirNode) { n.writeTo(&sb) })
	return sb.String(), nil
}

// String implements [fmt.Stringer]; empty when uninitialized
func (t *Tree) String() string {
	s, _ := t.Dump()
	return s
}

// Walk visits every directory in pre-order. fn must not mutate the tree.
func (t *Tree) Walk(fn func(*DirNode)) {
	preOrder(t.root, fn)
}

func preOrder(n *DirNode, fn func(*DirNode)) {
	if n == nil {
		return
	}
	fn(n)
	for _, child := range n.dirs {
		preOrder(child, fn)
	}
}
