package app

import "sync/atomic"

// IDGenerator returns unique identifiers for new tasks.
type IDGenerator func() int64

// NewSequence returns a generator yielding start+1, start+2, ... without reuse.
func NewSequence(start int64) IDGenerator {
	var next atomic.Int64
	next.Store(start)
	return func() int64 {
		return next.Add(1)
	}
}
