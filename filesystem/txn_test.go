package filesystem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInsertTxn_RollbackUnwindsInReverse(t *testing.T) {
	t.Parallel()

	var order []int
	tx := newInsertTxn()
	tx.AddUndo(func() { order = append(order, 1) })
	tx.AddUndo(func() { order = append(order, 2) })
	tx.AddUndo(func() { order = append(order, 3) })

	tx.Rollback()
	assert.Equal(t, []int{3, 2, 1}, order)

	// second rollback is a no-op
	tx.Rollback()
	assert.Equal(t, []int{3, 2, 1}, order)
}

func TestInsertTxn_RollbackRemovesCreatedDirs(t *testing.T) {
	t.Parallel()

	root := mustDir(t, "/a", nil)
	tx := newInsertTxn()
	b := mustDir(t, "/a/b", root)
	tx.Created(b)
	tx.Created(mustDir(t, "/a/b/c", b))

	assert.Same(t, b, tx.First())
	assert.Equal(t, 2, tx.Count())

	tx.Rollback()
	assert.Zero(t, root.NumDirChildren())
	assert.Nil(t, tx.First())
}

func TestInsertTxn_CommitKeepsDirs(t *testing.T) {
	t.Parallel()

	root := mustDir(t, "/a", nil)
	tx := newInsertTxn()
	tx.Created(mustDir(t, "/a/b", root))

	tx.Commit()
	tx.Rollback()
	assert.Equal(t, 1, root.NumDirChildren())
}

func TestInsertTxn_NilRollback(t *testing.T) {
	t.Parallel()

	var tx *insertTxn
	assert.NotPanics(t, tx.Rollback)
}
