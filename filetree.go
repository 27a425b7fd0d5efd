// Package filetree contains the core domain types shared by the in-memory
// file tree, its auditor and its front ends: the status taxonomy, stat
// results, node create requests and the [Operator] interface.
package filetree

// Stat describes the node found at a path
type Stat struct {
	IsFile bool
	Size   int // Content length; only meaningful when IsFile
}
