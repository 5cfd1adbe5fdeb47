package coredb

// insert_op.go implements InsertOp, the insert operator from spec.md §6:
// draining a child operator's tuples into a heap file and reporting how
// many were inserted as a single one-column result tuple. Grounded on
// josephinelee1234-GoDB's insert_op.go (the only teacher-family variant
// with a working implementation), adapted from the teacher's single-shot
// closure iterator to the cursor-based Operator interface, and fixed to
// return the count tuple exactly once rather than repeating it on every
// call after exhaustion.

var insertResultDesc = TupleDesc{Fields: []FieldType{{Fname: "count", Ftype: IntType}}}

// InsertOp drains its child operator into insertFile, one transaction's
// worth of inserts at a time.
type InsertOp struct {
	insertFile *HeapFile
	bufPool    *BufferPool
	tid        TransactionID
	child      Operator

	done   bool
	result *Tuple
}

// NewInsertOp constructs an insert operator that inserts every tuple child
// produces into insertFile, via bufPool, on behalf of tid.
func NewInsertOp(insertFile *HeapFile, bufPool *BufferPool, tid TransactionID, child Operator) *InsertOp {
	return &InsertOp{insertFile: insertFile, bufPool: bufPool, tid: tid, child: child}
}

// GetTupleDesc returns the one-column [count INT] descriptor.
func (i *InsertOp) GetTupleDesc() *TupleDesc { return &insertResultDesc }

// Open opens the child operator.
func (i *InsertOp) Open() error {
	i.done = false
	i.result = nil
	return i.child.Open()
}

// HasNext reports true exactly once per Open/Rewind, before the result
// tuple has been consumed.
func (i *InsertOp) HasNext() (bool, error) {
	return !i.done, nil
}

// Next drains the child operator, inserting every tuple it produces, and
// returns a single tuple carrying the count of rows inserted.
func (i *InsertOp) Next() (*Tuple, error) {
	if i.done {
		return nil, NewGoDBError(NoSuchTuple, "insert result already consumed")
	}

	var count int64
	for {
		has, err := i.child.HasNext()
		if err != nil {
			return nil, err
		}
		if !has {
			break
		}
		t, err := i.child.Next()
		if err != nil {
			return nil, err
		}
		if err := i.bufPool.InsertTuple(i.tid, i.insertFile.TableId(), t); err != nil {
			return nil, err
		}
		count++
	}

	i.done = true
	i.result = &Tuple{Desc: insertResultDesc, Fields: []DBValue{IntField{Value: count}}}
	return i.result, nil
}

// Rewind resets the operator to run the insert again from scratch.
func (i *InsertOp) Rewind() error {
	if err := i.child.Rewind(); err != nil {
		return err
	}
	i.done = false
	i.result = nil
	return nil
}

// Close closes the child operator.
func (i *InsertOp) Close() { i.child.Close() }
