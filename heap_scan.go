package coredb

// heap_scan.go adapts HeapFileIterator to the Operator interface, giving
// insert/delete (and tests) a stateful full-table scan. Grounded on the
// teacher's scan operator pattern of wrapping a DBFile's iterator behind
// the query-operator surface.
type HeapScan struct {
	file *HeapFile
	tid  TransactionID
	it   *HeapFileIterator
}

// NewHeapScan builds an unopened scan over every tuple of file on behalf
// of tid.
func NewHeapScan(file *HeapFile, tid TransactionID) *HeapScan {
	return &HeapScan{file: file, tid: tid}
}

func (s *HeapScan) Open() error {
	s.it = s.file.Iterator(s.tid)
	return s.it.Open()
}

func (s *HeapScan) HasNext() (bool, error) { return s.it.HasNext() }

func (s *HeapScan) Next() (*Tuple, error) { return s.it.Next() }

func (s *HeapScan) Rewind() error { return s.it.Rewind() }

func (s *HeapScan) Close() {
	if s.it != nil {
		s.it.Close()
	}
}

func (s *HeapScan) GetTupleDesc() *TupleDesc { return s.file.Descriptor() }
