package coredb

// errors.go defines the closed error taxonomy from spec.md §7: a
// TransactionAborted class recoverable only by whole-transaction rollback, a
// DbError class of named invariant violations, and IoError wrapping of
// underlying storage failures.

import "fmt"

// ErrorCode names a DbError invariant violation.
type ErrorCode int

const (
	CapacityFull ErrorCode = iota
	OutOfBufferSpace
	TooManyDirtyPages
	UnsupportedAggregate
	TupleDescMismatch
	NoSuchTuple
	PageOutOfRange
	NotOnThisPage
)

func (c ErrorCode) String() string {
	switch c {
	case CapacityFull:
		return "CapacityFull"
	case OutOfBufferSpace:
		return "OutOfBufferSpace"
	case TooManyDirtyPages:
		return "TooManyDirtyPages"
	case UnsupportedAggregate:
		return "UnsupportedAggregate"
	case TupleDescMismatch:
		return "TupleDescMismatch"
	case NoSuchTuple:
		return "NoSuchTuple"
	case PageOutOfRange:
		return "PageOutOfRange"
	case NotOnThisPage:
		return "NotOnThisPage"
	}
	return "Unknown"
}

// GoDBError is a tagged invariant-violation error the caller can react to by
// code, distinct from a TransactionAbortedError (unwind the transaction) or
// an IoError (fatal for the current operation).
type GoDBError struct {
	Code ErrorCode
	Msg  string
}

func (e GoDBError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

// NewGoDBError builds a GoDBError with a formatted message.
func NewGoDBError(code ErrorCode, format string, args ...any) GoDBError {
	return GoDBError{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// ErrPageFull is returned by heapPage.insertTuple when no slot is free.
var ErrPageFull = GoDBError{Code: CapacityFull, Msg: "page is full"}

// TransactionAbortedError signals that a lock acquisition timed out (or the
// transaction was otherwise rolled back) and the caller must discard all
// work and call transactionComplete(tid, false).
type TransactionAbortedError struct {
	Tid TransactionID
	Msg string
}

func (e *TransactionAbortedError) Error() string {
	return fmt.Sprintf("transaction %d aborted: %s", e.Tid, e.Msg)
}

// IoError wraps an underlying storage failure. It is fatal for the current
// operation and propagated to the caller unmodified.
type IoError struct {
	Op  string
	Err error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("io error during %s: %v", e.Op, e.Err)
}

func (e *IoError) Unwrap() error {
	return e.Err
}

func wrapIoError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &IoError{Op: op, Err: err}
}
