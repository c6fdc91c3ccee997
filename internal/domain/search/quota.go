package search

import (
	"sync"
	"time"
)

const (
	DefaultPerSecondLimit = 1
	DefaultPerMonthLimit  = 15000
)

// QuotaState is the process-wide outbound call counter. It lives in memory
// only and starts from zero on every process start.
type QuotaState struct {
	SecondCount int
	MonthCount  int
	LastReset   time.Time
}

// NewQuotaState returns a zeroed state anchored at now.
func NewQuotaState(now time.Time) *QuotaState {
	return &QuotaState{LastReset: now}
}

// Clock returns the current time.
type Clock func() time.Time

// GateConfig sets the admission ceilings. Zero values fall back to the defaults.
type GateConfig struct {
	PerSecond int
	PerMonth  int
	Location  *time.Location
}

// AdmissionGate is a fixed-window limiter with a one-second window and a
// calendar-month window. Bursts at a window boundary are allowed.
type AdmissionGate struct {
	mu        sync.Mutex
	state     *QuotaState
	perSecond int
	perMonth  int
	loc       *time.Location
	now       Clock
}

// NewAdmissionGate builds a gate over state. A nil clock means time.Now.
func NewAdmissionGate(cfg GateConfig, state *QuotaState, clock Clock) *AdmissionGate {
	if clock == nil {
		clock = time.Now
	}
	if state == nil {
		state = NewQuotaState(clock())
	}
	if cfg.PerSecond <= 0 {
		cfg.PerSecond = DefaultPerSecondLimit
	}
	if cfg.PerMonth <= 0 {
		cfg.PerMonth = DefaultPerMonthLimit
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &AdmissionGate{
		state:     state,
		perSecond: cfg.PerSecond,
		perMonth:  cfg.PerMonth,
		loc:       cfg.Location,
		now:       clock,
	}
}

// Admit reports whether one more outbound call may proceed, and counts it
// when it may. A denial leaves both counters untouched.
func (g *AdmissionGate) Admit() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	sameMonth := g.monthLabel(now) == g.monthLabel(g.state.LastReset)

	if now.Sub(g.state.LastReset) >= time.Second {
		g.state.SecondCount = 0
		g.state.LastReset = now
	}
	if !sameMonth {
		g.state.MonthCount = 0
	}

	if g.state.SecondCount >= g.perSecond || g.state.MonthCount >= g.perMonth {
		return false
	}
	g.state.SecondCount++
	g.state.MonthCount++
	return true
}

// Snapshot returns a copy of the current counters.
func (g *AdmissionGate) Snapshot() QuotaState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return *g.state
}

// MonthlyLimit returns the configured monthly ceiling.
func (g *AdmissionGate) MonthlyLimit() int {
	return g.perMonth
}

func (g *AdmissionGate) monthLabel(t time.Time) string {
	return t.In(g.loc).Format("2006-01")
}

// ProvideAdmissionGate creates the process-wide gate with a fresh quota state.
func ProvideAdmissionGate(cfg GateConfig) *AdmissionGate {
	return NewAdmissionGate(cfg, NewQuotaState(time.Now()), time.Now)
}
