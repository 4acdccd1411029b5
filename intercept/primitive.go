package intercept

import (
	"slices"

	"github.com/hupe1980/autopsy/core"
)

// primitiveRecord tracks the distinct values seen for one member, in
// first-seen order, and the total number of reads.
type primitiveRecord struct {
	seen   map[any]struct{}
	values []any
	count  int
}

func newPrimitiveRecord() *primitiveRecord {
	return &primitiveRecord{seen: map[any]struct{}{}}
}

func (r *primitiveRecord) observe(v any) {
	if _, ok := r.seen[v]; !ok {
		r.seen[v] = struct{}{}
		r.values = append(r.values, v)
	}
	r.count++
}

func (r *primitiveRecord) summary() core.PrimitiveSummary {
	return core.PrimitiveSummary{Values: slices.Clone(r.values), Count: r.count}
}

func summarizePrimitives(records map[string]*primitiveRecord) map[string]core.PrimitiveSummary {
	out := make(map[string]core.PrimitiveSummary, len(records))
	for k, v := range records {
		out[k] = v.summary()
	}
	return out
}
