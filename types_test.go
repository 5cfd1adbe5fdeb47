package coredb

import "testing"

func TestIntFieldEvalPred(t *testing.T) {
	a := IntField{Value: 5}
	b := IntField{Value: 7}

	cases := []struct {
		op   BoolOp
		want bool
	}{
		{OpEq, false},
		{OpNeq, true},
		{OpGt, false},
		{OpGe, false},
		{OpLt, true},
		{OpLe, true},
	}
	for _, c := range cases {
		if got := a.EvalPred(b, c.op); got != c.want {
			t.Errorf("5 %s 7 = %v, want %v", c.op, got, c.want)
		}
	}
}

func TestStringFieldLike(t *testing.T) {
	cases := []struct {
		s, pattern string
		want       bool
	}{
		{"hello", "h%", true},
		{"hello", "%lo", true},
		{"hello", "h_llo", true},
		{"hello", "h_lo", false},
		{"hello", "%", true},
		{"", "%", true},
		{"", "_", false},
	}
	for _, c := range cases {
		f := StringField{Value: c.s}
		if got := f.EvalPred(StringField{Value: c.pattern}, OpLike); got != c.want {
			t.Errorf("%q LIKE %q = %v, want %v", c.s, c.pattern, got, c.want)
		}
	}
}

func TestTupleDescEquals(t *testing.T) {
	a, _ := NewTupleDesc([]DBType{IntType, StringType}, []string{"a", "b"})
	b, _ := NewTupleDesc([]DBType{IntType, StringType}, []string{"x", "y"})
	c, _ := NewTupleDesc([]DBType{StringType, IntType}, nil)

	if !a.Equals(b) {
		t.Errorf("descriptors with matching types but different names should be equal")
	}
	if a.Equals(c) {
		t.Errorf("descriptors with different type order should not be equal")
	}
}

func TestBytesPerTuple(t *testing.T) {
	td, _ := NewTupleDesc([]DBType{IntType, StringType}, nil)
	want := 4 + (4 + StringLength)
	if got := td.bytesPerTuple(); got != want {
		t.Errorf("bytesPerTuple() = %d, want %d", got, want)
	}
}
