package arbitrage

import (
	"sync"
	"time"
)

// ScanDiagnostics counts outcomes for one scan, or for the whole session.
type ScanDiagnostics struct {
	Stages            map[Stage]int64 `json:"stages"`
	Scanned           int64           `json:"scanned"`
	SuccessfulMatches int64           `json:"successful_matches"`
	SuccessfulDeals   int64           `json:"successful_deals"`
	CatalogCalls      int64           `json:"catalog_calls"`
	CatalogErrors     int64           `json:"catalog_errors"`
	CacheHits         int64           `json:"cache_hits"`
	StartedAt         time.Time       `json:"started_at"`
	FinishedAt        time.Time       `json:"finished_at,omitzero"`
}

func newScanDiagnostics(now time.Time) *ScanDiagnostics {
	return &ScanDiagnostics{Stages: make(map[Stage]int64, len(Stages)), StartedAt: now}
}

func (d *ScanDiagnostics) clone() ScanDiagnostics {
	out := *d
	out.Stages = make(map[Stage]int64, len(d.Stages))
	for k, v := range d.Stages {
		out.Stages[k] = v
	}
	return out
}

// EligibilityRate is the share of scanned listings that matched a card.
func (d ScanDiagnostics) EligibilityRate() float64 {
	if d.Scanned == 0 {
		return 0
	}
	return float64(d.SuccessfulMatches) / float64(d.Scanned)
}

// DealRate is the share of scanned listings that became deals.
func (d ScanDiagnostics) DealRate() float64 {
	if d.Scanned == 0 {
		return 0
	}
	return float64(d.SuccessfulDeals) / float64(d.Scanned)
}

// DiagnosticsSnapshot is a read-only copy of the counters.
type DiagnosticsSnapshot struct {
	Session  ScanDiagnostics  `json:"session"`
	LastScan *ScanDiagnostics `json:"last_scan,omitempty"`
}

// Diagnostics aggregates counters for the session and the current scan.
type Diagnostics struct {
	mu      sync.Mutex
	now     func() time.Time
	session *ScanDiagnostics
	scan    *ScanDiagnostics
}

// NewDiagnostics starts a session aggregator.
func NewDiagnostics(now func() time.Time) *Diagnostics {
	if now == nil {
		now = time.Now
	}
	return &Diagnostics{now: now, session: newScanDiagnostics(now())}
}

// BeginScan starts a fresh per-scan aggregator and makes it current.
func (d *Diagnostics) BeginScan() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.scan = newScanDiagnostics(d.now())
}

// FinishScan stamps the current scan and returns a copy of it.
func (d *Diagnostics) FinishScan() (ScanDiagnostics, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.scan == nil {
		return ScanDiagnostics{}, false
	}
	d.scan.FinishedAt = d.now()
	return d.scan.clone(), true
}

func (d *Diagnostics) each(fn func(*ScanDiagnostics)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(d.session)
	if d.scan != nil {
		fn(d.scan)
	}
}

func (d *Diagnostics) record(r Result) {
	d.each(func(s *ScanDiagnostics) {
		s.Stages[r.Stage]++
		s.Scanned++
		if r.Matched {
			s.SuccessfulMatches++
		}
		if r.Stage == StageDeal {
			s.SuccessfulDeals++
		}
	})
}

func (d *Diagnostics) catalogCall(failed bool) {
	d.each(func(s *ScanDiagnostics) {
		s.CatalogCalls++
		if failed {
			s.CatalogErrors++
		}
	})
}

func (d *Diagnostics) cacheHit() {
	d.each(func(s *ScanDiagnostics) { s.CacheHits++ })
}

// Snapshot copies the session and last scan counters.
func (d *Diagnostics) Snapshot() DiagnosticsSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	snap := DiagnosticsSnapshot{Session: d.session.clone()}
	if d.scan != nil {
		last := d.scan.clone()
		snap.LastScan = &last
	}
	return snap
}
