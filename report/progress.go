package report

import (
	"fmt"
	"sync"
)

// Snapshot is a point-in-time view of the page progress.
type Snapshot struct {
	TotalPages     int `json:"totalPages"`
	CompletedPages int `json:"completedPages"`
}

// Percent returns floor(completed/total*100), or 0 when total is 0.
func (s Snapshot) Percent() int {
	if s.TotalPages <= 0 {
		return 0
	}
	return s.CompletedPages * 100 / s.TotalPages
}

func (s Snapshot) String() string {
	return fmt.Sprintf("%d/%d", s.CompletedPages, s.TotalPages)
}

// Progress counts completed pages out of the pages of the current run.
type Progress struct {
	mu   sync.Mutex
	snap Snapshot
}

// Reset starts a new run of total pages with none completed.
func (p *Progress) Reset(total int) {
	p.mu.Lock()
	p.snap = Snapshot{TotalPages: max(total, 0)}
	p.mu.Unlock()
}

// Advance records current completed pages out of total. The completed count
// never moves backwards and never exceeds total.
func (p *Progress) Advance(total, current int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snap.TotalPages = max(total, 0)
	current = min(current, p.snap.TotalPages)
	if current > p.snap.CompletedPages {
		p.snap.CompletedPages = current
	}
}

// Snapshot returns the current state.
func (p *Progress) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snap
}

// Percent is shorthand for Snapshot().Percent().
func (p *Progress) Percent() int {
	return p.Snapshot().Percent()
}
