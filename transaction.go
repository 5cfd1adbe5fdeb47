package coredb

import "sync/atomic"

// TransactionID is a globally unique, monotonically assigned transaction
// identity, compared by value equality.
type TransactionID int64

var nextTid int64

// NewTID allocates a fresh, never-reused TransactionID.
func NewTID() TransactionID {
	return TransactionID(atomic.AddInt64(&nextTid, 1))
}
