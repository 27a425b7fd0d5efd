// Package checker audits a file tree's structural invariants without
// relying on the tree's own bookkeeping. It never mutates what it checks;
// every violation is logged at error level with the offending paths.
package checker

import (
	"github.com/brettbedarf/filetree/filesystem"
	"github.com/brettbedarf/filetree/fspath"
	"github.com/brettbedarf/filetree/internal/util"
)

// Node is the read-only view of a directory the checker walks
type Node interface {
	Path() fspath.Path
	// Parent returns nil for the root
	Parent() Node
	NumDirChildren() int
	DirChild(idx int) (Node, error)
	NumFileChildren() int
	FileChildPath(idx int) (fspath.Path, error)
}

// Wrap returns the checker view of a filesystem directory; nil for nil
func Wrap(d *filesystem.DirNode) Node {
	if d == nil {
		return nil
	}
	return dirView{d}
}

type dirView struct {
	d *filesystem.DirNode
}

func (v dirView) Path() fspath.Path { return v.d.Path() }

func (v dirView) Parent() Node { return Wrap(v.d.Parent()) }

func (v dirView) NumDirChildren() int { return v.d.NumDirChildren() }

func (v dirView) DirChild(idx int) (Node, error) {
	c, err := v.d.DirChild(idx)
	if err != nil {
		return nil, err
	}
	return Wrap(c), nil
}

func (v dirView) NumFileChildren() int { return v.d.NumFileChildren() }

func (v dirView) FileChildPath(idx int) (fspath.Path, error) {
	f, err := v.d.FileChild(idx)
	if err != nil {
		return fspath.Path{}, err
	}
	return f.Path(), nil
}

// NodeIsValid checks the invariants local to node: parent/child paths,
// depth, and that each child collection is strictly increasing (which also
// rules out duplicates) with no path shared between a directory and a file
// child.
func NodeIsValid(node Node) bool {
	logger := util.GetLogger("Checker.NodeIsValid")

	if node == nil {
		logger.Error().Msg("A node is nil")
		return false
	}
	path := node.Path()
	if path.IsZero() {
		logger.Error().Msg("A node has no path")
		return false
	}

	if parent := node.Parent(); parent != nil {
		pPath := parent.Path()
		if fspath.SharedPrefixDepth(path, pPath) != path.Depth()-1 || pPath.Depth() != path.Depth()-1 {
			logger.Error().Str("parent", pPath.String()).Str("child", path.String()).
				Msg("P-C nodes don't have P-C paths")
			return false
		}
	} else if path.Depth() != 1 {
		logger.Error().Str("path", path.String()).Int("depth", path.Depth()).
			Msg("Parentless node is not at depth 1")
		return false
	}

	dirPaths := make([]fspath.Path, 0, node.NumDirChildren())
	for i := 0; i < node.NumDirChildren(); i++ {
		child, err := node.DirChild(i)
		if err != nil || child == nil {
			logger.Error().Err(err).Str("path", path.String()).Int("index", i).
				Msg("NumDirChildren claims more children than DirChild returns")
			return false
		}
		dirPaths = append(dirPaths, child.Path())
	}
	if !childrenValid(path, dirPaths, "directory") {
		return false
	}

	filePaths := make([]fspath.Path, 0, node.NumFileChildren())
	for i := 0; i < node.NumFileChildren(); i++ {
		fp, err := node.FileChildPath(i)
		if err != nil {
			logger.Error().Err(err).Str("path", path.String()).Int("index", i).
				Msg("NumFileChildren claims more children than FileChildPath returns")
			return false
		}
		if !path.IsParentOf(fp) {
			logger.Error().Str("parent", path.String()).Str("file", fp.String()).
				Msg("File child is not directly under its directory")
			return false
		}
		filePaths = append(filePaths, fp)
	}
	if !childrenValid(path, filePaths, "file") {
		return false
	}

	// both collections are sorted, so a merge finds shared paths
	for i, j := 0, 0; i < len(dirPaths) && j < len(filePaths); {
		switch c := fspath.Compare(dirPaths[i], filePaths[j]); {
		case c == 0:
			logger.Error().Str("path", dirPaths[i].String()).
				Msg("Directory and file have the same absolute path")
			return false
		case c < 0:
			i++
		default:
			j++
		}
	}
	return true
}

// childrenValid checks one sorted child collection of the node at path
func childrenValid(path fspath.Path, children []fspath.Path, kind string) bool {
	logger := util.GetLogger("Checker.NodeIsValid")

	for i, cp := range children {
		if cp.Equal(path) {
			logger.Error().Str("path", path.String()).Str("kind", kind).
				Msg("Child has the same absolute path as its parent")
			return false
		}
		if i == 0 {
			continue
		}
		prev := children[i-1]
		switch c := fspath.Compare(prev, cp); {
		case c == 0:
			logger.Error().Str("path", cp.String()).Str("kind", kind).
				Msg("Two children have the same absolute path")
			return false
		case c > 0:
			logger.Error().Str("first", prev.String()).Str("second", cp.String()).Str("kind", kind).
				Msg("Children are not in lexicographic order")
			return false
		}
	}
	return true
}

// treeCheck validates every directory reachable from node in pre-order and
// counts them into *count. Stops at the first failure.
func treeCheck(node Node, count *int) bool {
	logger := util.GetLogger("Checker.treeCheck")

	if node == nil {
		return true
	}
	if !NodeIsValid(node) {
		return false
	}
	*count++

	for i := 0; i < node.NumDirChildren(); i++ {
		child, err := node.DirChild(i)
		if err != nil || child == nil {
			logger.Error().Err(err).Int("index", i).
				Msg("NumDirChildren claims more children than DirChild returns")
			return false
		}
		if child.Parent() != node {
			logger.Error().Str("parent", node.Path().String()).Str("child", child.Path().String()).
				Msg("Child's parent reference does not point back")
			return false
		}
		if !treeCheck(child, count) {
			return false
		}
	}
	return true
}

// TreeIsValid checks the tree-level invariants for the given state and
// then every node reachable from root
func TreeIsValid(initialized bool, root Node, dirCount int) bool {
	logger := util.GetLogger("Checker.TreeIsValid")

	if dirCount < 0 {
		logger.Error().Int("count", dirCount).Msg("Count is negative")
		return false
	}
	if !initialized {
		if dirCount != 0 {
			logger.Error().Int("count", dirCount).Msg("Not initialized, but count is not 0")
			return false
		}
		if root != nil {
			logger.Error().Msg("Not initialized, but root node is not nil")
			return false
		}
	}
	if root == nil && dirCount != 0 {
		logger.Error().Int("count", dirCount).Msg("Root node is nil, but count is not 0")
		return false
	}
	if root != nil && dirCount == 0 {
		logger.Error().Msg("Root node is not nil, but count is 0")
		return false
	}
	if root != nil && root.Parent() != nil {
		logger.Error().Str("root", root.Path().String()).Msg("Root node has a parent")
		return false
	}

	reached := 0
	if !treeCheck(root, &reached) {
		return false
	}
	if reached != dirCount {
		logger.Error().Int("count", dirCount).Int("reached", reached).
			Msg("Count does not match the number of reachable directories")
		return false
	}
	return true
}

// TreeValid audits t through its public accessors
func TreeValid(t *filesystem.Tree) bool {
	return TreeIsValid(t.IsInitialized(), Wrap(t.Root()), t.DirCount())
}
