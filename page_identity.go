package coredb

// page_identity.go gives tables and pages value-typed identity. TableId is
// derived deterministically from a heap file's backing path, following the
// FNV page-hashing idiom used elsewhere in the corpus for deriving a stable
// integer identity from a storage location rather than relying on a
// separately-persisted counter.

import (
	"hash/fnv"
	"path/filepath"
)

// TableId stably identifies a heap file by its on-disk path.
type TableId uint32

// tableIdForPath derives a TableId from the absolute form of path, so two
// HeapFile handles opened on the same file agree on identity without a
// shared catalog round trip.
func tableIdForPath(path string) TableId {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(abs))
	return TableId(h.Sum32())
}

// PageId locates one page within one table.
type PageId struct {
	TableId    TableId
	PageNumber int
}

// RecordId locates one tuple within one page.
type RecordId struct {
	PageId PageId
	Slot   int
}
