package coredb

import (
	"bytes"
	"testing"
)

func makeHeapPageTestVars() (*TupleDesc, *heapPage) {
	td, _ := NewTupleDesc([]DBType{IntType, StringType}, []string{"id", "name"})
	pid := PageId{TableId: 1, PageNumber: 0}
	pg := newHeapPage(td, pid, nil)
	return td, pg
}

func TestHeapPageInsertAndIterate(t *testing.T) {
	td, pg := makeHeapPageTestVars()

	n := pg.getNumSlots()
	if n <= 0 {
		t.Fatalf("expected a positive slot count, got %d", n)
	}

	for i := 0; i < 3; i++ {
		tup := &Tuple{Desc: *td, Fields: []DBValue{IntField{Value: int64(i)}, StringField{Value: "row"}}}
		if err := pg.insertTuple(tup); err != nil {
			t.Fatalf("insertTuple %d: %v", i, err)
		}
	}

	if got := pg.getNumEmptySlots(); got != n-3 {
		t.Errorf("getNumEmptySlots() = %d, want %d", got, n-3)
	}

	it := pg.tupleIterator()
	count := 0
	for tup := it(); tup != nil; tup = it() {
		count++
	}
	if count != 3 {
		t.Errorf("iterated %d tuples, want 3", count)
	}
}

func TestHeapPageFillsUp(t *testing.T) {
	td, pg := makeHeapPageTestVars()
	n := pg.getNumSlots()

	for i := 0; i < n; i++ {
		tup := &Tuple{Desc: *td, Fields: []DBValue{IntField{Value: int64(i)}, StringField{Value: "row"}}}
		if err := pg.insertTuple(tup); err != nil {
			t.Fatalf("insertTuple %d: %v", i, err)
		}
	}

	overflow := &Tuple{Desc: *td, Fields: []DBValue{IntField{Value: 999}, StringField{Value: "row"}}}
	if err := pg.insertTuple(overflow); err != ErrPageFull {
		t.Errorf("expected ErrPageFull on a full page, got %v", err)
	}
}

func TestHeapPageDeleteNotOnPage(t *testing.T) {
	td, pg := makeHeapPageTestVars()
	tup := &Tuple{Desc: *td, Fields: []DBValue{IntField{Value: 1}, StringField{Value: "row"}}, Rid: &RecordId{PageId: PageId{TableId: 2, PageNumber: 0}, Slot: 0}}
	if err := pg.deleteTuple(tup); err == nil {
		t.Errorf("expected error deleting a tuple belonging to a different page")
	}
}

func TestHeapPageByteRoundTrip(t *testing.T) {
	td, pg := makeHeapPageTestVars()
	for i := 0; i < 4; i++ {
		tup := &Tuple{Desc: *td, Fields: []DBValue{IntField{Value: int64(i)}, StringField{Value: "row"}}}
		if err := pg.insertTuple(tup); err != nil {
			t.Fatalf("insertTuple %d: %v", i, err)
		}
	}

	data := pg.getPageData()
	if len(data) != PageSize {
		t.Fatalf("getPageData() length = %d, want %d", len(data), PageSize)
	}

	restored := newHeapPage(td, pg.pid, nil)
	if err := restored.initFromBuffer(bytes.NewBuffer(data)); err != nil {
		t.Fatalf("initFromBuffer: %v", err)
	}

	if restored.getNumEmptySlots() != pg.getNumEmptySlots() {
		t.Errorf("restored page has %d empty slots, want %d", restored.getNumEmptySlots(), pg.getNumEmptySlots())
	}
}

func TestHeapPageSetDirtyTracksBeforeImage(t *testing.T) {
	_, pg := makeHeapPageTestVars()
	if pg.isDirty() {
		t.Fatalf("new page should start clean")
	}

	pg.setDirty(TransactionID(1), true)
	if !pg.isDirty() {
		t.Errorf("page should be dirty after setDirty(true)")
	}
	tid, dirty := pg.dirtier()
	if !dirty || tid != TransactionID(1) {
		t.Errorf("dirtier() = (%v, %v), want (1, true)", tid, dirty)
	}

	before, err := pg.getBeforeImage()
	if err != nil {
		t.Fatalf("getBeforeImage: %v", err)
	}
	if before.getNumEmptySlots() != pg.getNumEmptySlots() {
		t.Errorf("before-image should match the clean state at the dirty transition")
	}
}
