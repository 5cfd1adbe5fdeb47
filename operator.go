package coredb

// operator.go defines the Operator capability set used by the insert,
// delete, scan, and aggregate components. Grounded on the teacher's
// iterator-returning operator functions (Open/Iterator signature,
// GetTupleDesc), but expressed as the stateful cursor object spec.md's
// design notes call for instead of the teacher's func() (*Tuple, error)
// closure iterator, so callers can Rewind a scan without reconstructing
// it.
type Operator interface {
	// Open prepares the operator to produce tuples, acquiring whatever
	// locks or resources it needs.
	Open() error

	// HasNext reports whether Next will return a tuple.
	HasNext() (bool, error)

	// Next returns the next tuple. It is an error to call Next without a
	// preceding true result from HasNext.
	Next() (*Tuple, error)

	// Rewind resets the operator to its state immediately after Open.
	Rewind() error

	// Close releases cursor-local resources. It does not release locks.
	Close()

	// GetTupleDesc describes the tuples this operator produces.
	GetTupleDesc() *TupleDesc
}
