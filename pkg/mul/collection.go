package mul

import "fmt"

// Collection is an ordered, sliceable view over decoded records, in
// on-disk order. Views share their backing records: slicing copies
// nothing and never re-decodes, so a record reached through two views
// is the same *Record.
type Collection struct {
	records []*Record
	start   int
	stop    int
	step    int
}

func newCollection(records []*Record) *Collection {
	return &Collection{records: records, stop: len(records), step: 1}
}

// Len returns the number of records in the view.
func (c *Collection) Len() int {
	if c.step < 1 || c.stop <= c.start {
		return 0
	}
	return (c.stop - c.start + c.step - 1) / c.step
}

// At returns the record at position i. Like slice indexing, it panics
// when i is out of range.
func (c *Collection) At(i int) *Record {
	if i < 0 || i >= c.Len() {
		panic(fmt.Sprintf("mul: record index %d out of range [0:%d]", i, c.Len()))
	}
	return c.records[c.start+i*c.step]
}

// Slice returns the half-open subview [a, b). Bounds are clamped to
// the view, so Slice never panics.
func (c *Collection) Slice(a, b int) *Collection {
	return c.SliceStep(a, b, 1)
}

// SliceStep returns the subview [a, b) keeping every step-th record.
// Step must be positive.
func (c *Collection) SliceStep(a, b, step int) *Collection {
	if step < 1 {
		panic(fmt.Sprintf("mul: non-positive slice step %d", step))
	}
	n := c.Len()
	a = clamp(a, 0, n)
	b = clamp(b, a, n)
	return &Collection{
		records: c.records,
		start:   c.start + a*c.step,
		stop:    c.start + b*c.step,
		step:    c.step * step,
	}
}

// Records returns the view's records in order. The slice is freshly
// allocated, the records are shared.
func (c *Collection) Records() []*Record {
	out := make([]*Record, c.Len())
	for i := range out {
		out[i] = c.records[c.start+i*c.step]
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
