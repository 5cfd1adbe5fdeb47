package coredb

// delete_op.go implements DeleteOp, the delete operator from spec.md §6:
// draining a child operator's tuples and deleting each from its source
// table, reporting the count deleted as a single one-column result tuple.
// Grounded on josephinelee1234-GoDB's delete_op.go, adapted to the
// cursor-based Operator interface and fixed to return its result exactly
// once, mirroring insert_op.go.

var deleteResultDesc = TupleDesc{Fields: []FieldType{{Fname: "count", Ftype: IntType}}}

// DeleteOp deletes every tuple its child operator produces from the table
// that tuple's RecordId names.
type DeleteOp struct {
	deleteFile *HeapFile
	bufPool    *BufferPool
	tid        TransactionID
	child      Operator

	done bool
}

// NewDeleteOp constructs a delete operator that removes every tuple child
// produces from deleteFile, via bufPool, on behalf of tid.
func NewDeleteOp(deleteFile *HeapFile, bufPool *BufferPool, tid TransactionID, child Operator) *DeleteOp {
	return &DeleteOp{deleteFile: deleteFile, bufPool: bufPool, tid: tid, child: child}
}

// GetTupleDesc returns the one-column [count INT] descriptor.
func (d *DeleteOp) GetTupleDesc() *TupleDesc { return &deleteResultDesc }

func (d *DeleteOp) Open() error {
	d.done = false
	return d.child.Open()
}

func (d *DeleteOp) HasNext() (bool, error) {
	return !d.done, nil
}

// Next drains the child operator, deleting every tuple it produces, and
// returns a single tuple carrying the count of rows deleted.
func (d *DeleteOp) Next() (*Tuple, error) {
	if d.done {
		return nil, NewGoDBError(NoSuchTuple, "delete result already consumed")
	}

	var count int64
	for {
		has, err := d.child.HasNext()
		if err != nil {
			return nil, err
		}
		if !has {
			break
		}
		t, err := d.child.Next()
		if err != nil {
			return nil, err
		}
		if err := d.bufPool.DeleteTuple(d.tid, d.deleteFile.TableId(), t); err != nil {
			return nil, err
		}
		count++
	}

	d.done = true
	return &Tuple{Desc: deleteResultDesc, Fields: []DBValue{IntField{Value: count}}}, nil
}

func (d *DeleteOp) Rewind() error {
	if err := d.child.Rewind(); err != nil {
		return err
	}
	d.done = false
	return nil
}

func (d *DeleteOp) Close() { d.child.Close() }
