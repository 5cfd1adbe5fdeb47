package coredb

import "testing"

func makeBufferPoolTestVars(t *testing.T, maxPages int) (*TupleDesc, *HeapFile, *BufferPool) {
	t.Helper()
	path := t.TempDir() + "/buffer_pool_test.dat"
	td, _ := NewTupleDesc([]DBType{IntType}, []string{"id"})
	catalog := NewCatalog()
	bp := NewBufferPool(maxPages, catalog)
	hf, err := NewHeapFile(path, td, bp)
	if err != nil {
		t.Fatalf("NewHeapFile: %v", err)
	}
	catalog.AddTable(hf)
	return td, hf, bp
}

func TestBufferPoolCommitFlushesDirtyPages(t *testing.T) {
	td, hf, bp := makeBufferPoolTestVars(t, 10)
	tid := NewTID()

	tup := &Tuple{Desc: *td, Fields: []DBValue{IntField{Value: 42}}}
	if err := bp.InsertTuple(tid, hf.TableId(), tup); err != nil {
		t.Fatalf("InsertTuple: %v", err)
	}
	if err := bp.TransactionComplete(tid, true); err != nil {
		t.Fatalf("TransactionComplete: %v", err)
	}

	pg, err := hf.readPage(0)
	if err != nil {
		t.Fatalf("readPage: %v", err)
	}
	if pg.getNumEmptySlots() == pg.getNumSlots() {
		t.Errorf("expected committed insert to be visible on disk")
	}
}

func TestBufferPoolAbortDiscardsChanges(t *testing.T) {
	td, hf, bp := makeBufferPoolTestVars(t, 10)
	tid1 := NewTID()

	tup := &Tuple{Desc: *td, Fields: []DBValue{IntField{Value: 1}}}
	if err := bp.InsertTuple(tid1, hf.TableId(), tup); err != nil {
		t.Fatalf("InsertTuple: %v", err)
	}
	if err := bp.TransactionComplete(tid1, true); err != nil {
		t.Fatalf("TransactionComplete: %v", err)
	}

	tid2 := NewTID()
	page, err := bp.GetPage(tid2, PageId{TableId: hf.TableId(), PageNumber: 0}, ReadWrite)
	if err != nil {
		t.Fatalf("GetPage: %v", err)
	}
	second := &Tuple{Desc: *td, Fields: []DBValue{IntField{Value: 2}}}
	if err := page.insertTuple(second); err != nil {
		t.Fatalf("insertTuple: %v", err)
	}
	emptyBeforeAbort := page.getNumEmptySlots()

	if err := bp.TransactionComplete(tid2, false); err != nil {
		t.Fatalf("TransactionComplete(abort): %v", err)
	}

	tid3 := NewTID()
	restored, err := bp.GetPage(tid3, PageId{TableId: hf.TableId(), PageNumber: 0}, ReadOnly)
	if err != nil {
		t.Fatalf("GetPage after abort: %v", err)
	}
	if restored.getNumEmptySlots() == emptyBeforeAbort {
		t.Errorf("abort should have restored the page before the second insert")
	}
	_ = bp.TransactionComplete(tid3, true)
}

func TestBufferPoolRefetchDirtiedPageAtCapacity(t *testing.T) {
	td, hf, bp := makeBufferPoolTestVars(t, 1)
	tid := NewTID()

	for i := 0; i < 2; i++ {
		tup := &Tuple{Desc: *td, Fields: []DBValue{IntField{Value: int64(i)}}}
		if err := bp.InsertTuple(tid, hf.TableId(), tup); err != nil {
			t.Fatalf("InsertTuple %d: %v", i, err)
		}
	}

	_, err := bp.GetPage(tid, PageId{TableId: hf.TableId(), PageNumber: 0}, ReadWrite)
	if err != nil {
		t.Fatalf("re-fetching a page this transaction already dirtied should not evict: %v", err)
	}
	_ = bp.TransactionComplete(tid, true)
}

func TestBufferPoolExclusiveLockBlocksOtherWriter(t *testing.T) {
	_, hf, bp := makeBufferPoolTestVars(t, 10)

	tidA := NewTID()
	path := PageId{TableId: hf.TableId(), PageNumber: 0}
	if err := hf.writePage(newHeapPage(hf.Descriptor(), path, hf)); err != nil {
		t.Fatalf("writePage: %v", err)
	}
	if _, err := bp.GetPage(tidA, path, ReadWrite); err != nil {
		t.Fatalf("GetPage(tidA): %v", err)
	}

	tidB := NewTID()
	_, err := bp.GetPage(tidB, path, ReadWrite)
	if err == nil {
		t.Errorf("expected tidB's conflicting write lock request to time out")
	}
	if _, ok := err.(*TransactionAbortedError); !ok {
		t.Errorf("expected a TransactionAbortedError, got %T: %v", err, err)
	}

	_ = bp.TransactionComplete(tidA, true)
}
