package sync

import (
	"sync/atomic"
	"time"
)

// Report summarizes one run. Item failures are counted here but never turn
// into a run error.
type Report struct {
	RunID      string
	Folders    int
	Downloaded int
	Cached     int
	Failed     int
	Pruned     int
	Bytes      int64
	Duration   time.Duration
}

// outcome is how a single branch of the walk settled.
type outcome int

const (
	outcomeFolder outcome = iota
	outcomeDownloaded
	outcomeCached
	outcomeFailed
)

// branchResult is what every branch hands to its directory's join.
type branchResult struct {
	outcome outcome
	bytes   int64
}

// tally accumulates branch results from concurrent directories.
type tally struct {
	folders    atomic.Int64
	downloaded atomic.Int64
	cached     atomic.Int64
	failed     atomic.Int64
	pruned     atomic.Int64
	bytes      atomic.Int64
}

func (t *tally) record(r branchResult) {
	switch r.outcome {
	case outcomeFolder:
		t.folders.Add(1)
	case outcomeDownloaded:
		t.downloaded.Add(1)
		t.bytes.Add(r.bytes)
	case outcomeCached:
		t.cached.Add(1)
	case outcomeFailed:
		t.failed.Add(1)
	}
}

func (t *tally) report(runID string, d time.Duration) *Report {
	return &Report{
		RunID:      runID,
		Folders:    int(t.folders.Load()),
		Downloaded: int(t.downloaded.Load()),
		Cached:     int(t.cached.Load()),
		Failed:     int(t.failed.Load()),
		Pruned:     int(t.pruned.Load()),
		Bytes:      t.bytes.Load(),
		Duration:   d,
	}
}
