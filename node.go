package filetree

// Operator is the mutating surface of a file tree that front ends drive
type Operator interface {
	// InsertDir creates the directory at path and any missing ancestors
	InsertDir(path string) error

	// InsertFile creates a file at path holding contents of the given length,
	// creating any missing ancestor directories
	InsertFile(path string, contents []byte, length int) error

	// RmDir removes the directory at path with its whole subtree
	RmDir(path string) error

	// RmFile removes the file at path
	RmFile(path string) error
}

// Inspector is the read-only surface of a file tree
type Inspector interface {
	ContainsDir(path string) bool
	ContainsFile(path string) bool
	Stat(path string) (Stat, error)
	Dump() (string, error)
}
