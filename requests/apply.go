package requests

import (
	"github.com/brettbedarf/filetree"
	"github.com/brettbedarf/filetree/internal/util"
)

// Failure is a request the tree rejected
type Failure struct {
	Request filetree.NodeRequest
	Err     error
}

// Result summarizes an [Apply] run
type Result struct {
	Dirs     int // Directory requests applied
	Files    int // File requests applied
	Failures []Failure
}

// Hook runs after every request, applied or not. A non-nil error stops
// [Apply] and is returned.
type Hook func(req filetree.NodeRequest, applyErr error) error

// Apply inserts every directory request and then every file request into
// op. Rejected requests are collected in the result and do not stop the
// run. hook may be nil.
func Apply(op filetree.Operator, batch *Batch, hook Hook) (*Result, error) {
	logger := util.GetLogger("requests.Apply")
	res := &Result{}

	record := func(req filetree.NodeRequest, err error) error {
		if err != nil {
			logger.Debug().Err(err).Str("path", req.Path).Str("request", req.UUID).
				Msg("Failed to apply request")
			res.Failures = append(res.Failures, Failure{Request: req, Err: err})
		}
		if hook != nil {
			return hook(req, err)
		}
		return nil
	}

	for _, req := range batch.Dirs {
		err := op.InsertDir(req.Path)
		if err == nil {
			res.Dirs++
		}
		if hookErr := record(req.NodeRequest, err); hookErr != nil {
			return res, hookErr
		}
	}
	for _, req := range batch.Files {
		err := op.InsertFile(req.Path, req.Contents, req.Length)
		if err == nil {
			res.Files++
		}
		if hookErr := record(req.NodeRequest, err); hookErr != nil {
			return res, hookErr
		}
	}

	logger.Info().Int("directories", res.Dirs).Int("files", res.Files).Int("failed", len(res.Failures)).
		Msg("Applied node requests")
	return res, nil
}
