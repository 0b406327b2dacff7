package worker

import "math/bits"

// Progression enumerates start, start+stride, start+2*stride, ... lazily.
// It ends after max (when max is non-zero) or before the sequence would
// wrap past the uint64 range.
type Progression struct {
	next   uint64
	stride uint64
	max    uint64
	done   bool
}

// NewProgression creates the candidate sequence for one worker
func NewProgression(start, stride, max uint64) *Progression {
	if stride == 0 {
		stride = 1
	}
	return &Progression{next: start, stride: stride, max: max}
}

// Next returns the next candidate, or false once the sequence is exhausted
func (p *Progression) Next() (uint64, bool) {
	if p.done {
		return 0, false
	}
	c := p.next
	if p.max != 0 && c > p.max {
		p.done = true
		return 0, false
	}
	n, carry := bits.Add64(c, p.stride, 0)
	if carry != 0 {
		p.done = true
	} else {
		p.next = n
	}
	return c, true
}
