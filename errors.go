package filetree

import "errors"

// Status kinds returned by tree operations. Operations wrap these with
// context, so compare with [errors.Is].
var (
	// ErrInitialization is returned for any operation on an uninitialized
	// tree, and for Init on an initialized one
	ErrInitialization = errors.New("initialization error")
	ErrBadPath        = errors.New("bad path")
	// ErrConflictingPath means the path is not under the existing root,
	// or a file was requested at depth 1
	ErrConflictingPath = errors.New("conflicting path")
	ErrNoSuchPath      = errors.New("no such path")
	ErrNotADirectory   = errors.New("not a directory")
	ErrNotAFile        = errors.New("not a file")
	ErrAlreadyInTree   = errors.New("already in tree")
	// ErrMemory is kept for status compatibility. Go allocation failures
	// panic, so no operation currently returns it.
	ErrMemory = errors.New("memory error")
)

// Status is the numeric status code of an operation result
type Status int

const (
	Success Status = iota
	InitializationError
	BadPath
	ConflictingPath
	NoSuchPath
	AlreadyInTree
	MemoryError
	NotADirectory
	NotAFile
	// Unknown is any error outside the tree's taxonomy
	Unknown
)

var statusNames = [...]string{
	Success:             "SUCCESS",
	InitializationError: "INITIALIZATION_ERROR",
	BadPath:             "BAD_PATH",
	ConflictingPath:     "CONFLICTING_PATH",
	NoSuchPath:          "NO_SUCH_PATH",
	AlreadyInTree:       "ALREADY_IN_TREE",
	MemoryError:         "MEMORY_ERROR",
	NotADirectory:       "NOT_A_DIRECTORY",
	NotAFile:            "NOT_A_FILE",
	Unknown:             "UNKNOWN",
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return statusNames[Unknown]
	}
	return statusNames[s]
}

// StatusOf maps err to its Status. A nil error is [Success].
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return Success
	case errors.Is(err, ErrInitialization):
		return InitializationError
	case errors.Is(err, ErrBadPath):
		return BadPath
	case errors.Is(err, ErrConflictingPath):
		return ConflictingPath
	case errors.Is(err, ErrNoSuchPath):
		return NoSuchPath
	case errors.Is(err, ErrAlreadyInTree):
		return AlreadyInTree
	case errors.Is(err, ErrMemory):
		return MemoryError
	case errors.Is(err, ErrNotADirectory):
		return NotADirectory
	case errors.Is(err, ErrNotAFile):
		return NotAFile
	default:
		return Unknown
	}
}
