package coredb

// string_histogram.go estimates selectivity over a string column using a
// count-min sketch rather than an equi-width histogram, since strings have
// no natural bucket ordering. Grounded on the teacher's string_histogram.go
// (CountMinSketch-backed, same library and constructor parameters), fleshed
// out per SPEC_FULL.md §4.7: a sketch only carries frequency information,
// so only equality and inequality can be estimated from it; ordered
// operators fall back to no discrimination (selectivity 1.0) rather than a
// fabricated order over string values.

import (
	boom "github.com/tylertreat/BoomFilters"
)

// StringHistogram estimates selectivity for predicates over a single string
// column via an approximate frequency count.
type StringHistogram struct {
	cms   *boom.CountMinSketch
	total uint64
}

// NewStringHistogram creates a sketch with a 0.1% error rate at 99.9%
// confidence, matching the teacher's tuning.
func NewStringHistogram() (*StringHistogram, error) {
	cms := boom.NewCountMinSketch(0.001, 0.999)
	return &StringHistogram{cms: cms}, nil
}

// AddValue records one observation of s.
func (h *StringHistogram) AddValue(s string) {
	h.cms.Add([]byte(s))
	h.total++
}

// EstimateSelectivity returns the estimated fraction of observed values
// satisfying "value op s". Only OpEq and OpNeq are informed by the sketch;
// the ordered operators return 1.0 because a count-min sketch carries no
// ordering over the values it has seen.
func (h *StringHistogram) EstimateSelectivity(op BoolOp, s string) float64 {
	if h.total == 0 {
		return 0.0
	}
	switch op {
	case OpEq:
		return float64(h.cms.Count([]byte(s))) / float64(h.total)
	case OpNeq:
		return 1.0 - float64(h.cms.Count([]byte(s)))/float64(h.total)
	default:
		return 1.0
	}
}
