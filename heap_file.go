package coredb

// heap_file.go implements HeapFile, the durable storage for one table:
// page-level read/write, tuple insert/delete routed through the buffer
// pool's locking, and a restartable scan cursor. Grounded on the teacher's
// heap_file.go (page-scan-for-free-slot insert, grow-by-append, flush on
// evict) and josephinelee1234-GoDB's heap_file.go (cleaner per-page
// iterator caching), adapted to the spec's bitmap-header pages and to the
// cursor-object scan contract (open/hasNext/next/rewind/close) rather than
// a single-shot closure.

import (
	"bytes"
	"os"
)

// HeapFile is an unordered collection of fixed-size pages holding the
// tuples of one table.
type HeapFile struct {
	desc        *TupleDesc
	backingFile string
	tableId     TableId
	bufPool     *BufferPool
}

// NewHeapFile opens (or creates) a heap file backed by fromFile. bp is the
// buffer pool that will be used to fetch its pages.
func NewHeapFile(fromFile string, td *TupleDesc, bp *BufferPool) (*HeapFile, error) {
	f, err := os.OpenFile(fromFile, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, wrapIoError("NewHeapFile", err)
	}
	_ = f.Close()
	return &HeapFile{
		desc:        td,
		backingFile: fromFile,
		tableId:     tableIdForPath(fromFile),
		bufPool:     bp,
	}, nil
}

// TableId returns the stable identity of this heap file.
func (f *HeapFile) TableId() TableId { return f.tableId }

// BackingFile returns the path of the file backing this heap file.
func (f *HeapFile) BackingFile() string { return f.backingFile }

// Descriptor returns the TupleDesc of tuples stored in this heap file.
func (f *HeapFile) Descriptor() *TupleDesc { return f.desc }

// pageCount returns fileLength / PageSize.
func (f *HeapFile) pageCount() (int, error) {
	fi, err := os.Stat(f.backingFile)
	if err != nil {
		return 0, wrapIoError("HeapFile.pageCount", err)
	}
	return int(fi.Size()) / PageSize, nil
}

// NumPages is the exported form of pageCount, used by table statistics.
func (f *HeapFile) NumPages() (int, error) { return f.pageCount() }

// readPage reads page pageNo from disk, failing with PageOutOfRange if the
// offset is past end of file.
func (f *HeapFile) readPage(pageNo int) (*heapPage, error) {
	n, err := f.pageCount()
	if err != nil {
		return nil, err
	}
	if pageNo < 0 || pageNo >= n {
		return nil, NewGoDBError(PageOutOfRange, "page %d out of range (file has %d pages)", pageNo, n)
	}

	file, err := os.Open(f.backingFile)
	if err != nil {
		return nil, wrapIoError("HeapFile.readPage", err)
	}
	defer file.Close()

	buf := make([]byte, PageSize)
	if _, err := file.ReadAt(buf, int64(pageNo)*int64(PageSize)); err != nil {
		return nil, wrapIoError("HeapFile.readPage", err)
	}

	pid := PageId{TableId: f.tableId, PageNumber: pageNo}
	pg := newHeapPage(f.desc, pid, f)
	if err := pg.initFromBuffer(bytes.NewBuffer(buf)); err != nil {
		return nil, err
	}
	return pg, nil
}

// writePage writes p's canonical byte image back to its offset in the file.
func (f *HeapFile) writePage(p *heapPage) error {
	file, err := os.OpenFile(f.backingFile, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return wrapIoError("HeapFile.writePage", err)
	}
	defer file.Close()

	offset := int64(p.pid.PageNumber) * int64(PageSize)
	if _, err := file.WriteAt(p.getPageData(), offset); err != nil {
		return wrapIoError("HeapFile.writePage", err)
	}
	return nil
}

// appendEmptyPage grows the file by one empty page and returns its number.
func (f *HeapFile) appendEmptyPage() (int, error) {
	n, err := f.pageCount()
	if err != nil {
		return 0, err
	}
	pid := PageId{TableId: f.tableId, PageNumber: n}
	empty := newHeapPage(f.desc, pid, f)
	if err := f.writePage(empty); err != nil {
		return 0, err
	}
	return n, nil
}

// insertTuple finds the first page with a free slot, inserting t there; if
// none has room, it appends a new page. Returns the page(s) the caller must
// mark dirty (always exactly one for a heap file).
func (f *HeapFile) insertTuple(tid TransactionID, t *Tuple) ([]*heapPage, error) {
	n, err := f.pageCount()
	if err != nil {
		return nil, err
	}

	for pageNo := 0; pageNo < n; pageNo++ {
		pid := PageId{TableId: f.tableId, PageNumber: pageNo}

		probe, err := f.bufPool.GetPage(tid, pid, ReadOnly)
		if err != nil {
			return nil, err
		}
		if probe.getNumEmptySlots() == 0 {
			continue
		}

		hp, err := f.bufPool.GetPage(tid, pid, ReadWrite)
		if err != nil {
			return nil, err
		}
		if err := hp.insertTuple(t); err != nil {
			return nil, err
		}
		return []*heapPage{hp}, nil
	}

	newPageNo, err := f.appendEmptyPage()
	if err != nil {
		return nil, err
	}
	hp, err := f.bufPool.GetPage(tid, PageId{TableId: f.tableId, PageNumber: newPageNo}, ReadWrite)
	if err != nil {
		return nil, err
	}
	if err := hp.insertTuple(t); err != nil {
		return nil, err
	}
	return []*heapPage{hp}, nil
}

// deleteTuple removes t (identified by t.Rid) from its page via the buffer
// pool, returning the page the caller must mark dirty.
func (f *HeapFile) deleteTuple(tid TransactionID, t *Tuple) (*heapPage, error) {
	if t.Rid == nil {
		return nil, NewGoDBError(NoSuchTuple, "tuple has no RecordId")
	}
	hp, err := f.bufPool.GetPage(tid, t.Rid.PageId, ReadWrite)
	if err != nil {
		return nil, err
	}
	if err := hp.deleteTuple(t); err != nil {
		return nil, err
	}
	return hp, nil
}

// HeapFileIterator is a restartable cursor over every tuple of a HeapFile,
// acquiring pages one at a time in READ_ONLY mode through the buffer pool.
// It implements the Operator capability set (minus GetTupleDesc, which is
// answered by the enclosing scan operator).
type HeapFileIterator struct {
	file    *HeapFile
	tid     TransactionID
	pageNo  int
	numPage int
	pageIt  func() *Tuple
	started bool
	next    *Tuple
}

// Iterator constructs a fresh, unopened cursor over f's tuples.
func (f *HeapFile) Iterator(tid TransactionID) *HeapFileIterator {
	return &HeapFileIterator{file: f, tid: tid}
}

// Open establishes starting state at page 0.
func (it *HeapFileIterator) Open() error {
	n, err := it.file.pageCount()
	if err != nil {
		return err
	}
	it.numPage = n
	it.pageNo = 0
	it.pageIt = nil
	it.started = true
	it.next = nil
	return it.advance()
}

// advance fills it.next with the next available tuple, or leaves it nil at
// EOF.
func (it *HeapFileIterator) advance() error {
	for {
		if it.pageIt == nil {
			if it.pageNo >= it.numPage {
				it.next = nil
				return nil
			}
			page, err := it.file.bufPool.GetPage(it.tid, PageId{TableId: it.file.tableId, PageNumber: it.pageNo}, ReadOnly)
			if err != nil {
				return err
			}
			it.pageIt = page.tupleIterator()
			it.pageNo++
		}
		if t := it.pageIt(); t != nil {
			it.next = t
			return nil
		}
		it.pageIt = nil
	}
}

// HasNext reports whether Next will return a tuple.
func (it *HeapFileIterator) HasNext() (bool, error) {
	if !it.started {
		if err := it.Open(); err != nil {
			return false, err
		}
	}
	return it.next != nil, nil
}

// Next returns the next tuple, failing with NoSuchTuple if HasNext was not
// called and true beforehand.
func (it *HeapFileIterator) Next() (*Tuple, error) {
	if it.next == nil {
		return nil, NewGoDBError(NoSuchTuple, "Next called without a true HasNext")
	}
	t := it.next
	if err := it.advance(); err != nil {
		return nil, err
	}
	return t, nil
}

// Rewind restarts the cursor from page 0.
func (it *HeapFileIterator) Rewind() error {
	return it.Open()
}

// Close releases cursor state. It does not release any locks.
func (it *HeapFileIterator) Close() {
	it.pageIt = nil
	it.next = nil
	it.started = false
}
