package coredb

// table_stats.go computes and serves per-column selectivity estimates for a
// table, scanning it twice (a min/max pass, then a pass that fills one
// histogram per field). Grounded almost
// directly on the teacher's table_stats.go (min/max pre-pass, histogram
// dispatch by field type, EstimateScanCost/EstimateCardinality formulas),
// adapted from the teacher's closure-iterator DBFile interface to HeapFile's
// cursor-based Iterator.

import (
	"fmt"
	"log"
	"math"
)

// Stats answers query-planning questions about one table's contents.
type Stats interface {
	EstimateScanCost() float64
	EstimateCardinality(selectivity float64) int
	EstimateSelectivity(field string, op BoolOp, value DBValue) (float64, error)
}

// TableStats holds one histogram per column of a table, computed by
// ComputeTableStats.
type TableStats struct {
	basePages  int
	baseTups   int
	histograms map[string]any
	tupleDesc  *TupleDesc
}

// CostPerPage is the assumed cost, in abstract units, of reading one page
// from disk.
const CostPerPage = 1000

// NumHistBins is the number of buckets used for each IntHistogram.
const NumHistBins = 100

func tableMinMax(tid TransactionID, file *HeapFile) ([]int64, []int64, error) {
	td := file.Descriptor()
	mins := make([]int64, len(td.Fields))
	maxs := make([]int64, len(td.Fields))
	for i := range mins {
		mins[i] = math.MaxInt32
		maxs[i] = math.MinInt32
	}

	it := file.Iterator(tid)
	for {
		has, err := it.HasNext()
		if err != nil {
			return nil, nil, err
		}
		if !has {
			break
		}
		tup, err := it.Next()
		if err != nil {
			return nil, nil, err
		}
		for i, f := range td.Fields {
			if f.Ftype == IntType {
				v := tup.Fields[i].(IntField).Value
				if v < mins[i] {
					mins[i] = v
				}
				if v > maxs[i] {
					maxs[i] = v
				}
			}
		}
	}
	for i := range mins {
		if mins[i] > maxs[i] {
			mins[i] = 0
			maxs[i] = 0
		}
	}
	return mins, maxs, nil
}

// ComputeTableStats scans file twice under a dedicated transaction (released
// before returning): once for each INT column's min and max, then again to
// fill an IntHistogram or StringHistogram for each of its columns.
func ComputeTableStats(bp *BufferPool, file *HeapFile) (*TableStats, error) {
	tid := NewTID()
	defer func() { _ = bp.TransactionComplete(tid, true) }()

	td := file.Descriptor()

	mins, maxs, err := tableMinMax(tid, file)
	if err != nil {
		return nil, err
	}

	hists := make(map[string]any, len(td.Fields))
	for i, f := range td.Fields {
		switch f.Ftype {
		case IntType:
			h, err := NewIntHistogram(NumHistBins, mins[i], maxs[i])
			if err != nil {
				return nil, err
			}
			hists[f.Fname] = h
		case StringType:
			h, err := NewStringHistogram()
			if err != nil {
				return nil, err
			}
			hists[f.Fname] = h
		}
	}

	it := file.Iterator(tid)
	baseTups := 0
	for {
		has, err := it.HasNext()
		if err != nil {
			return nil, err
		}
		if !has {
			break
		}
		tup, err := it.Next()
		if err != nil {
			return nil, err
		}
		for i, f := range td.Fields {
			switch f.Ftype {
			case IntType:
				hists[f.Fname].(*IntHistogram).AddValue(tup.Fields[i].(IntField).Value)
			case StringType:
				hists[f.Fname].(*StringHistogram).AddValue(tup.Fields[i].(StringField).Value)
			}
		}
		baseTups++
	}

	n, err := file.NumPages()
	if err != nil {
		return nil, err
	}

	return &TableStats{basePages: n, baseTups: baseTups, histograms: hists, tupleDesc: td}, nil
}

// EstimateScanCost estimates the cost of a full sequential scan, assuming
// every page of the table must be read once.
func (t *TableStats) EstimateScanCost() float64 {
	return float64(t.basePages * CostPerPage)
}

// EstimateCardinality estimates the number of tuples a predicate of the
// given selectivity would pass.
func (t *TableStats) EstimateCardinality(selectivity float64) int {
	return int(float64(t.baseTups) * selectivity)
}

// EstimateSelectivity estimates the selectivity of "field op value" using
// the histogram built for field.
func (t *TableStats) EstimateSelectivity(field string, op BoolOp, value DBValue) (float64, error) {
	hist, ok := t.histograms[field]
	if !ok {
		log.Printf("coredb: no histogram found for field %s", field)
		return 1.0, nil
	}

	switch h := hist.(type) {
	case *IntHistogram:
		iv, ok := value.(IntField)
		if !ok {
			return 1.0, fmt.Errorf("coredb: field %q is int, but value %v is not an IntField", field, value)
		}
		return h.EstimateSelectivity(op, iv.Value), nil
	case *StringHistogram:
		sv, ok := value.(StringField)
		if !ok {
			return 1.0, fmt.Errorf("coredb: field %q is string, but value %v is not a StringField", field, value)
		}
		return h.EstimateSelectivity(op, sv.Value), nil
	}

	return 1.0, fmt.Errorf("coredb: unexpected histogram type for field %q", field)
}
