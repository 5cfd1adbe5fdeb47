package coredb

// aggregator.go implements StringAggregator, the COUNT-only grouping
// aggregate from spec.md §4.6. Grounded on the teacher's agg_state.go
// (CountAggState's Init/AddTuple/Finalize/GetTupleDesc shape), narrowed
// from the teacher's five-operator AggState hierarchy (COUNT/SUM/AVG/
// MAX/MIN driven by an expression evaluator) to the single COUNT operator
// the spec names, with explicit grouping rather than the teacher's
// Expr-driven group key.

import "fmt"

// AggOp names a requested aggregate operator. StringAggregator only ever
// succeeds for AggCount; every other value exists so UnsupportedAggregate
// has something concrete to name.
type AggOp int

const (
	AggCount AggOp = iota
	AggSum
	AggAvg
	AggMax
	AggMin
)

func (op AggOp) String() string {
	switch op {
	case AggCount:
		return "COUNT"
	case AggSum:
		return "SUM"
	case AggAvg:
		return "AVG"
	case AggMax:
		return "MAX"
	case AggMin:
		return "MIN"
	}
	return "UNKNOWN"
}

// NoGrouping is the sentinel group-by field index meaning every tuple
// merges into a single, global group.
const NoGrouping = -1

// StringAggregator counts tuples merged into it, grouped by the value of a
// chosen field (or globally, when constructed with NoGrouping).
type StringAggregator struct {
	gbField     int
	gbFieldType DBType
	aggField    int
	op          AggOp

	counts map[string]int64
	keys   map[string]DBValue
	order  []string
}

// NewStringAggregator builds a COUNT aggregator over aggField, grouped by
// gbField (or globally if gbField is NoGrouping). It fails immediately with
// UnsupportedAggregate for any op other than AggCount, since a count-min
// sketch-free string aggregate has no meaningful SUM/AVG/MAX/MIN.
func NewStringAggregator(gbField int, gbFieldType DBType, aggField int, op AggOp) (*StringAggregator, error) {
	if op != AggCount {
		return nil, NewGoDBError(UnsupportedAggregate, "string aggregator does not support %s", op)
	}
	return &StringAggregator{
		gbField:     gbField,
		gbFieldType: gbFieldType,
		aggField:    aggField,
		op:          op,
		counts:      make(map[string]int64),
		keys:        make(map[string]DBValue),
	}, nil
}

func groupKeyFor(v DBValue) string {
	switch f := v.(type) {
	case IntField:
		return fmt.Sprintf("i:%d", f.Value)
	case StringField:
		return fmt.Sprintf("s:%s", f.Value)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Merge folds one input tuple into its group's running count.
func (a *StringAggregator) Merge(t *Tuple) {
	var key string
	var gb DBValue
	if a.gbField == NoGrouping {
		key = ""
	} else {
		gb = t.Fields[a.gbField]
		key = groupKeyFor(gb)
	}

	if _, ok := a.counts[key]; !ok {
		a.order = append(a.order, key)
		if gb != nil {
			a.keys[key] = gb
		}
	}
	a.counts[key]++
}

// GetTupleDesc describes the tuples Iterator will emit: [INT] when
// ungrouped, or [gbFieldType, INT] when grouped.
func (a *StringAggregator) GetTupleDesc() *TupleDesc {
	if a.gbField == NoGrouping {
		return &TupleDesc{Fields: []FieldType{{Fname: "count", Ftype: IntType}}}
	}
	return &TupleDesc{Fields: []FieldType{
		{Fname: "groupVal", Ftype: a.gbFieldType},
		{Fname: "count", Ftype: IntType},
	}}
}

// Iterator returns a cursor over the aggregator's finalized groups, one
// tuple per group in first-seen order.
func (a *StringAggregator) Iterator() *aggregatorIterator {
	return &aggregatorIterator{agg: a}
}

type aggregatorIterator struct {
	agg   *StringAggregator
	pos   int
	ended bool
}

func (it *aggregatorIterator) Open() error { return nil }

func (it *aggregatorIterator) HasNext() (bool, error) {
	return it.pos < len(it.agg.order), nil
}

func (it *aggregatorIterator) Next() (*Tuple, error) {
	if it.pos >= len(it.agg.order) {
		return nil, NewGoDBError(NoSuchTuple, "aggregator iterator exhausted")
	}
	key := it.agg.order[it.pos]
	it.pos++
	count := it.agg.counts[key]
	desc := it.agg.GetTupleDesc()

	if it.agg.gbField == NoGrouping {
		return &Tuple{Desc: *desc, Fields: []DBValue{IntField{Value: count}}}, nil
	}
	return &Tuple{Desc: *desc, Fields: []DBValue{it.agg.keys[key], IntField{Value: count}}}, nil
}

func (it *aggregatorIterator) Rewind() error {
	it.pos = 0
	return nil
}

func (it *aggregatorIterator) Close() {}

func (it *aggregatorIterator) GetTupleDesc() *TupleDesc { return it.agg.GetTupleDesc() }
