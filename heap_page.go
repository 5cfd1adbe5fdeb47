package coredb

// heap_page.go implements the slotted heap page format from spec.md §4.1 and
// §6: a leading occupancy bitmap, then N fixed-width tuple slots, then
// padding. Grounded on the teacher's heap_page.go (slot scan, ErrPageFull,
// toBuffer/initFromBuffer read/write pair) and
// josephinelee1234-GoDB/.../heap_page.go's cleaner RecordId struct, but
// rewritten to the bitmap header spec.md's External Interfaces section
// specifies rather than the teacher's (numSlots, numUsed) int32 pair.

import (
	"bytes"
)

// PageSize is the size, in bytes, of every page. It is a process-wide
// variable mutable only during test setup (spec.md §5).
var PageSize = 4096

type heapPage struct {
	pid    PageId
	desc   TupleDesc
	slots  int
	tuples []*Tuple // nil entry == free slot
	file   *HeapFile

	dirtyBy     TransactionID
	isDirtyFlag bool
	beforeImage []byte // snapshot taken at the first clean->dirty transition
	hasBefore   bool
}

func numSlotsFor(desc *TupleDesc, pageSize int) int {
	tupleWidth := desc.bytesPerTuple()
	if tupleWidth <= 0 {
		return 0
	}
	return (pageSize * 8) / (tupleWidth*8 + 1)
}

func newHeapPage(desc *TupleDesc, pid PageId, f *HeapFile) *heapPage {
	n := numSlotsFor(desc, PageSize)
	return &heapPage{
		pid:    pid,
		desc:   *desc,
		slots:  n,
		tuples: make([]*Tuple, n),
		file:   f,
	}
}

func (h *heapPage) getId() PageId { return h.pid }

func (h *heapPage) getNumSlots() int { return h.slots }

func (h *heapPage) getNumEmptySlots() int {
	used := 0
	for _, t := range h.tuples {
		if t != nil {
			used++
		}
	}
	return h.slots - used
}

// insertTuple writes t into the lowest-index free slot and stamps its
// RecordId, or fails with ErrPageFull.
func (h *heapPage) insertTuple(t *Tuple) error {
	for i := 0; i < h.slots; i++ {
		if h.tuples[i] == nil {
			stored := *t
			stored.Rid = &RecordId{PageId: h.pid, Slot: i}
			h.tuples[i] = &stored
			t.Rid = stored.Rid
			return nil
		}
	}
	return ErrPageFull
}

// deleteTuple clears the slot named by t.Rid, or fails with NotOnThisPage.
func (h *heapPage) deleteTuple(t *Tuple) error {
	if t.Rid == nil || t.Rid.PageId != h.pid {
		return NewGoDBError(NotOnThisPage, "tuple does not belong to page %v", h.pid)
	}
	slot := t.Rid.Slot
	if slot < 0 || slot >= h.slots || h.tuples[slot] == nil {
		return NewGoDBError(NotOnThisPage, "slot %d is not occupied on page %v", slot, h.pid)
	}
	h.tuples[slot] = nil
	return nil
}

// tupleIterator returns the tuples of occupied slots in ascending slot
// order; the returned closure is restartable via a fresh call.
func (h *heapPage) tupleIterator() func() *Tuple {
	i := 0
	return func() *Tuple {
		for i < len(h.tuples) {
			t := h.tuples[i]
			i++
			if t != nil {
				return t
			}
		}
		return nil
	}
}

func (h *heapPage) isDirty() bool { return h.isDirtyFlag }

// setDirty marks the page dirty (or clean) on behalf of tid. The first
// clean->dirty transition snapshots the current bytes as the before-image.
func (h *heapPage) setDirty(tid TransactionID, dirty bool) {
	if dirty {
		if !h.isDirtyFlag {
			h.beforeImage = h.getPageData()
			h.hasBefore = true
		}
		h.isDirtyFlag = true
		h.dirtyBy = tid
	} else {
		h.isDirtyFlag = false
		h.dirtyBy = 0
	}
}

func (h *heapPage) dirtier() (TransactionID, bool) {
	return h.dirtyBy, h.isDirtyFlag
}

// commitBeforeImage resets the before-image to the current bytes, as
// spec.md §4.1 requires on commit.
func (h *heapPage) commitBeforeImage() {
	h.beforeImage = h.getPageData()
	h.hasBefore = true
}

// getBeforeImage returns a heapPage reconstructed from the bytes captured at
// the moment this page first transitioned clean->dirty.
func (h *heapPage) getBeforeImage() (*heapPage, error) {
	if !h.hasBefore {
		return h, nil
	}
	before := newHeapPage(&h.desc, h.pid, h.file)
	if err := before.initFromBuffer(bytes.NewBuffer(h.beforeImage)); err != nil {
		return nil, err
	}
	return before, nil
}

// getPageData produces the canonical bitmap-header byte image of the page.
func (h *heapPage) getPageData() []byte {
	buf := new(bytes.Buffer)
	headerBytes := (h.slots + 7) / 8
	header := make([]byte, headerBytes)
	for i, t := range h.tuples {
		if t != nil {
			header[i/8] |= 1 << uint(i%8)
		}
	}
	buf.Write(header)

	tupleWidth := h.desc.bytesPerTuple()
	for i := 0; i < h.slots; i++ {
		if h.tuples[i] != nil {
			_ = h.tuples[i].writeTo(buf)
		} else {
			buf.Write(make([]byte, tupleWidth))
		}
	}

	if buf.Len() < PageSize {
		buf.Write(make([]byte, PageSize-buf.Len()))
	}
	return buf.Bytes()[:PageSize]
}

// initFromBuffer reads a page image previously produced by getPageData.
func (h *heapPage) initFromBuffer(buf *bytes.Buffer) error {
	headerBytes := (h.slots + 7) / 8
	header := make([]byte, headerBytes)
	if _, err := buf.Read(header); err != nil {
		return wrapIoError("heapPage.initFromBuffer", err)
	}

	tuples := make([]*Tuple, h.slots)
	for i := 0; i < h.slots; i++ {
		occupied := header[i/8]&(1<<uint(i%8)) != 0
		t, err := readTupleFrom(buf, &h.desc)
		if err != nil {
			return wrapIoError("heapPage.initFromBuffer", err)
		}
		if occupied {
			t.Rid = &RecordId{PageId: h.pid, Slot: i}
			tuples[i] = t
		}
	}
	h.tuples = tuples
	h.isDirtyFlag = false
	h.dirtyBy = 0
	return nil
}
