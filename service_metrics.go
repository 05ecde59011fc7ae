package guardkit

import (
	"sync"
	"time"
)

// AuditMetrics provides audit pipeline health statistics: how many entries
// were written, how many writes were swallowed, and how query traffic fared.
type AuditMetrics struct {
	WrittenEntries int64     `json:"written_entries"`
	DroppedEntries int64     `json:"dropped_entries"`
	Queries        int64     `json:"queries"`
	FailedQueries  int64     `json:"failed_queries"`
	LastReset      time.Time `json:"last_reset"`
}

// auditMetrics holds the internal counter state.
type auditMetrics struct {
	mu            sync.Mutex
	written       int64
	dropped       int64
	queries       int64
	failedQueries int64
	lastReset     time.Time
}

func newAuditMetrics() *auditMetrics {
	return &auditMetrics{lastReset: time.Now()}
}

func (m *auditMetrics) recordWritten() {
	m.mu.Lock()
	m.written++
	m.mu.Unlock()
}

func (m *auditMetrics) recordDropped() {
	m.mu.Lock()
	m.dropped++
	m.mu.Unlock()
}

func (m *auditMetrics) recordQuery() {
	m.mu.Lock()
	m.queries++
	m.mu.Unlock()
}

func (m *auditMetrics) recordFailedQuery() {
	m.mu.Lock()
	m.failedQueries++
	m.mu.Unlock()
}

func (m *auditMetrics) snapshot() AuditMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	return AuditMetrics{
		WrittenEntries: m.written,
		DroppedEntries: m.dropped,
		Queries:        m.queries,
		FailedQueries:  m.failedQueries,
		LastReset:      m.lastReset,
	}
}

func (m *auditMetrics) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.written = 0
	m.dropped = 0
	m.queries = 0
	m.failedQueries = 0
	m.lastReset = time.Now()
}

// Metrics returns the current audit pipeline metrics.
func (s *Service) Metrics() AuditMetrics {
	return s.metrics.snapshot()
}

// ResetMetrics resets all audit pipeline metrics.
func (s *Service) ResetMetrics() {
	s.metrics.reset()
}

// IsAuditHealthy checks whether the share of dropped writes is within the
// acceptable threshold.
func (s *Service) IsAuditHealthy() bool {
	m := s.metrics.snapshot()

	total := m.WrittenEntries + m.DroppedEntries
	// Too few writes to judge
	if total < 10 {
		return true
	}

	// Drop rate should stay below 5%
	return float64(m.DroppedEntries)/float64(total) <= 0.05
}
