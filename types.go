package coredb

// types.go defines the scalar type system: DBType, FieldType, TupleDesc, and
// the DBValue field-value variants (IntField, StringField).

import "fmt"

// BoolOp is a predicate operator usable in filters and selectivity queries.
type BoolOp int

const (
	OpEq BoolOp = iota
	OpNeq
	OpGt
	OpGe
	OpLt
	OpLe
	OpLike
)

func (op BoolOp) String() string {
	switch op {
	case OpEq:
		return "="
	case OpNeq:
		return "<>"
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpLike:
		return "LIKE"
	}
	return "?"
}

// DBType is the type of a tuple field: IntType or StringType.
type DBType int

const (
	IntType DBType = iota
	StringType
)

func (t DBType) String() string {
	switch t {
	case IntType:
		return "int"
	case StringType:
		return "string"
	}
	return "unknown"
}

// StringLength is the fixed maximum width, in bytes, of a STRING field. It is
// a process-wide constant; tests may not mutate it (unlike PageSize, which
// tests are allowed to shrink for smaller heap pages).
const StringLength = 32

// FieldType names and types a single column of a TupleDesc.
type FieldType struct {
	Fname string
	Ftype DBType
}

// bytesPerField returns the on-disk width of one field of this type.
func (t DBType) bytesPerField() int {
	switch t {
	case IntType:
		return 4
	case StringType:
		return 4 + StringLength
	}
	return 0
}

// TupleDesc is the schema of a tuple: an ordered list of field types.
type TupleDesc struct {
	Fields []FieldType
}

// NewTupleDesc builds a TupleDesc from type/name pairs in order.
func NewTupleDesc(types []DBType, names []string) (*TupleDesc, error) {
	if len(names) > 0 && len(names) != len(types) {
		return nil, fmt.Errorf("coredb: %d types but %d names", len(types), len(names))
	}
	fields := make([]FieldType, len(types))
	for i, t := range types {
		name := ""
		if len(names) > 0 {
			name = names[i]
		}
		fields[i] = FieldType{Fname: name, Ftype: t}
	}
	return &TupleDesc{Fields: fields}, nil
}

// Equals reports whether two TupleDescs have the same element-wise types.
// Names are advisory and not compared.
func (td *TupleDesc) Equals(other *TupleDesc) bool {
	if td == nil || other == nil {
		return td == other
	}
	if len(td.Fields) != len(other.Fields) {
		return false
	}
	for i := range td.Fields {
		if td.Fields[i].Ftype != other.Fields[i].Ftype {
			return false
		}
	}
	return true
}

// bytesPerTuple is the serialized width of a tuple matching this TupleDesc.
func (td *TupleDesc) bytesPerTuple() int {
	w := 0
	for _, f := range td.Fields {
		w += f.Ftype.bytesPerField()
	}
	return w
}

// Copy returns a deep copy of the TupleDesc.
func (td *TupleDesc) Copy() *TupleDesc {
	fields := make([]FieldType, len(td.Fields))
	copy(fields, td.Fields)
	return &TupleDesc{Fields: fields}
}

// DBValue is the interface implemented by field-value variants. EvalPred
// compares the receiver (as the left operand) to v under op.
type DBValue interface {
	EvalPred(v DBValue, op BoolOp) bool
	Type() DBType
}

// IntField is a 4-byte signed integer field value.
type IntField struct {
	Value int64
}

func (f IntField) Type() DBType { return IntType }

func (f IntField) EvalPred(v DBValue, op BoolOp) bool {
	other, ok := v.(IntField)
	if !ok {
		return false
	}
	switch op {
	case OpEq:
		return f.Value == other.Value
	case OpNeq:
		return f.Value != other.Value
	case OpGt:
		return f.Value > other.Value
	case OpGe:
		return f.Value >= other.Value
	case OpLt:
		return f.Value < other.Value
	case OpLe:
		return f.Value <= other.Value
	}
	return false
}

// StringField is a fixed-maximum-width string field value.
type StringField struct {
	Value string
}

func (f StringField) Type() DBType { return StringType }

func (f StringField) EvalPred(v DBValue, op BoolOp) bool {
	other, ok := v.(StringField)
	if !ok {
		return false
	}
	switch op {
	case OpEq:
		return f.Value == other.Value
	case OpNeq:
		return f.Value != other.Value
	case OpGt:
		return f.Value > other.Value
	case OpGe:
		return f.Value >= other.Value
	case OpLt:
		return f.Value < other.Value
	case OpLe:
		return f.Value <= other.Value
	case OpLike:
		return stringLike(f.Value, other.Value)
	}
	return false
}

// stringLike implements a minimal SQL LIKE match: '%' matches any run of
// characters, '_' matches exactly one. No escaping is supported.
func stringLike(s, pattern string) bool {
	return likeMatch([]rune(s), []rune(pattern))
}

func likeMatch(s, p []rune) bool {
	if len(p) == 0 {
		return len(s) == 0
	}
	if p[0] == '%' {
		if likeMatch(s, p[1:]) {
			return true
		}
		for i := 0; i < len(s); i++ {
			if likeMatch(s[i+1:], p[1:]) {
				return true
			}
		}
		return false
	}
	if len(s) == 0 {
		return false
	}
	if p[0] == '_' || p[0] == s[0] {
		return likeMatch(s[1:], p[1:])
	}
	return false
}
