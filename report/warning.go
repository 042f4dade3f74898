// Package report collects the per-run feedback of a generation: non-fatal
// warnings tagged with the row and field that caused them, and page progress.
package report

import (
	"strconv"
	"sync"

	"github.com/flanksource/commons/logger"
)

// WarningType classifies an advisory issue.
type WarningType string

const (
	// Overflow: text is wider than the printable page width.
	Overflow WarningType = "OVERFLOW"
	// Image: the subject image could not be fetched or embedded.
	Image WarningType = "IMAGE"
	// Text: text contained glyphs the font cannot render and was sanitized.
	Text WarningType = "TEXT"
)

// Warning is a non-fatal issue recorded while laying out a page.
type Warning struct {
	Type    WarningType `json:"type"`
	Message string      `json:"message"`
	Details string      `json:"details,omitempty"`
	Path    []string    `json:"path"`
}

// RowPath builds the path identifying a field of the row at index row.
func RowPath(row int, field string) []string {
	return []string{strconv.Itoa(row), field}
}

// Sink accumulates warnings for one run in arrival order.
type Sink struct {
	mu       sync.Mutex
	warnings []Warning
	log      logger.Logger
}

// NewSink returns an empty sink logging through log. A nil log uses the
// package logger.
func NewSink(log logger.Logger) *Sink {
	if log == nil {
		log = logger.GetLogger("report")
	}
	return &Sink{log: log}
}

// Reset drops all warnings. It is called once at the start of each run.
func (s *Sink) Reset() {
	s.mu.Lock()
	s.warnings = nil
	s.mu.Unlock()
}

// Add appends w.
func (s *Sink) Add(w Warning) {
	w.Path = append([]string(nil), w.Path...)
	s.mu.Lock()
	s.warnings = append(s.warnings, w)
	s.mu.Unlock()
	s.log.Debugf("warning %s at %v: %s %s", w.Type, w.Path, w.Message, w.Details)
}

// Warnings returns a snapshot that later calls to Add do not modify.
func (s *Sink) Warnings() []Warning {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Warning, len(s.warnings))
	copy(out, s.warnings)
	return out
}

// Len returns the number of warnings recorded so far.
func (s *Sink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.warnings)
}

// Count returns the number of warnings of type t.
func (s *Sink) Count(t WarningType) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, w := range s.warnings {
		if w.Type == t {
			n++
		}
	}
	return n
}
