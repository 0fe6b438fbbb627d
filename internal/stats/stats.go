// Package stats tracks process-lifetime processing counters.
package stats

import "sync/atomic"

// Tracker holds the four pipeline counters. Counters only grow; they
// reset when the process restarts.
type Tracker struct {
	processed   atomic.Int64
	categorized atomic.Int64
	embedded    atomic.Int64
	errors      atomic.Int64
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Processed   int64
	Categorized int64
	Embedded    int64
	Errors      int64
}

func New() *Tracker {
	return &Tracker{}
}

func (t *Tracker) AddProcessed()   { t.processed.Add(1) }
func (t *Tracker) AddCategorized() { t.categorized.Add(1) }
func (t *Tracker) AddEmbedded()    { t.embedded.Add(1) }
func (t *Tracker) AddError()       { t.errors.Add(1) }

// Snapshot returns the current counter values.
func (t *Tracker) Snapshot() Snapshot {
	return Snapshot{
		Processed:   t.processed.Load(),
		Categorized: t.categorized.Load(),
		Embedded:    t.embedded.Load(),
		Errors:      t.errors.Load(),
	}
}
