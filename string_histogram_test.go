package coredb

import "testing"

func TestStringHistogramEquality(t *testing.T) {
	h, err := NewStringHistogram()
	if err != nil {
		t.Fatalf("NewStringHistogram: %v", err)
	}

	values := []string{"apple", "banana", "apple", "cherry", "apple"}
	for _, v := range values {
		h.AddValue(v)
	}

	sel := h.EstimateSelectivity(OpEq, "apple")
	if sel <= 0 {
		t.Errorf("EstimateSelectivity(OpEq, %q) = %v, want > 0", "apple", sel)
	}

	rare := h.EstimateSelectivity(OpEq, "durian")
	if rare >= sel {
		t.Errorf("an unseen value should not be estimated more selective than a frequent one")
	}
}

func TestStringHistogramOrderedOperatorsReturnNoDiscrimination(t *testing.T) {
	h, err := NewStringHistogram()
	if err != nil {
		t.Fatalf("NewStringHistogram: %v", err)
	}
	h.AddValue("apple")
	h.AddValue("banana")

	for _, op := range []BoolOp{OpGt, OpGe, OpLt, OpLe} {
		if sel := h.EstimateSelectivity(op, "apple"); sel != 1.0 {
			t.Errorf("EstimateSelectivity(%s, ...) = %v, want 1.0 (no ordering information)", op, sel)
		}
	}
}

func TestStringHistogramEmpty(t *testing.T) {
	h, err := NewStringHistogram()
	if err != nil {
		t.Fatalf("NewStringHistogram: %v", err)
	}
	if sel := h.EstimateSelectivity(OpEq, "anything"); sel != 0.0 {
		t.Errorf("empty histogram should estimate 0 selectivity, got %v", sel)
	}
}
