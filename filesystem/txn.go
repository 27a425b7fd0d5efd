package filesystem

// insertTxn records the directory nodes created by one insertion so a
// failure can restore the tree exactly as it was.
// Rollback unwinds the undo stack in reverse order; Commit discards it.
//
// NOTE: insertTxn is single use. Call exactly one of Rollback or Commit.
type insertTxn struct {
	created []*DirNode
	undoFns []func()
}

func newInsertTxn() *insertTxn {
	return &insertTxn{}
}

// Created records a newly linked directory and pushes its removal onto
// the undo stack
func (tx *insertTxn) Created(node *DirNode) {
	tx.created = append(tx.created, node)
	tx.AddUndo(func() { node.Free() })
}

// AddUndo pushes a callback onto the end of the undo stack
func (tx *insertTxn) AddUndo(fn func()) {
	tx.undoFns = append(tx.undoFns, fn)
}

// First returns the shallowest created directory, or nil
func (tx *insertTxn) First() *DirNode {
	if len(tx.created) == 0 {
		return nil
	}
	return tx.created[0]
}

// Count returns the number of directories created so far
func (tx *insertTxn) Count() int {
	return len(tx.created)
}

// Rollback runs the undo stack deepest-first.
// Safe on a nil txn.
func (tx *insertTxn) Rollback() {
	if tx == nil {
		return
	}
	for i := len(tx.undoFns) - 1; i >= 0; i-- {
		tx.undoFns[i]()
	}
	tx.undoFns = nil
	tx.created = nil
}

// Commit keeps everything created and drops the undo stack
func (tx *insertTxn) Commit() {
	tx.undoFns = nil
}
