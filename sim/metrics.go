// Tracks run-wide counters and time-weighted fleet statistics.

package sim

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Metrics aggregates statistics about a simulation run for final reporting.
// Counters are plain totals; the *Seconds fields are integrals of the fleet
// gauges over simulated time, so dividing by EndTime yields time-averaged
// counts.
type Metrics struct {
	TotalRequests int // arrivals handled
	ColdStarts    int // arrivals that had to create an instance
	WarmStarts    int // arrivals served from the idle pool
	Expirations   int // instances reclaimed after idling out

	EndTime float64 // clock after the final handled event

	ServerSeconds  float64 // integral of the live instance count
	RunningSeconds float64 // integral of the busy instance count
	IdleSeconds    float64 // integral of the idle instance count

	PeakLive    int // largest fleet observed
	PeakRunning int // most simultaneously busy instances observed

	Lifespans []float64 // archived instance lifetimes, termination order
}

// accumulate integrates the fleet gauges over a clock advance of dt.
func (m *Metrics) accumulate(dt float64, live, running, idle int) {
	m.ServerSeconds += float64(live) * dt
	m.RunningSeconds += float64(running) * dt
	m.IdleSeconds += float64(idle) * dt
}

// observePeaks updates the high-water marks after a counter change.
func (m *Metrics) observePeaks(live, running int) {
	if live > m.PeakLive {
		m.PeakLive = live
	}
	if running > m.PeakRunning {
		m.PeakRunning = running
	}
}

// ColdStartRatio returns the fraction of requests that suffered a cold
// start, or 0 before any request arrived.
func (m *Metrics) ColdStartRatio() float64 {
	if m.TotalRequests == 0 {
		return 0
	}
	return float64(m.ColdStarts) / float64(m.TotalRequests)
}

// AvgServerCount returns the time-averaged number of live instances.
func (m *Metrics) AvgServerCount() float64 {
	if m.EndTime == 0 {
		return 0
	}
	return m.ServerSeconds / m.EndTime
}

// AvgRunningCount returns the time-averaged number of busy instances.
func (m *Metrics) AvgRunningCount() float64 {
	if m.EndTime == 0 {
		return 0
	}
	return m.RunningSeconds / m.EndTime
}

// AvgIdleCount returns the time-averaged number of idle instances.
func (m *Metrics) AvgIdleCount() float64 {
	if m.EndTime == 0 {
		return 0
	}
	return m.IdleSeconds / m.EndTime
}

// Utilization returns the fraction of fleet time spent serving requests.
func (m *Metrics) Utilization() float64 {
	if m.ServerSeconds == 0 {
		return 0
	}
	return m.RunningSeconds / m.ServerSeconds
}

// LifespanStats summarizes the lifetimes of archived instances.
type LifespanStats struct {
	Count  int
	Mean   float64
	StdDev float64
	Median float64
	P95    float64
}

// LifespanStats computes distributional statistics over the archived
// instance lifetimes. Zero-valued when nothing has terminated yet.
func (m *Metrics) LifespanStats() LifespanStats {
	stats := LifespanStats{Count: len(m.Lifespans)}
	if stats.Count == 0 {
		return stats
	}
	xs := append([]float64(nil), m.Lifespans...)
	sort.Float64s(xs)
	stats.Mean = stat.Mean(xs, nil)
	if stats.Count > 1 {
		stats.StdDev = stat.StdDev(xs, nil)
	}
	stats.Median = stat.Quantile(0.5, stat.Empirical, xs, nil)
	stats.P95 = stat.Quantile(0.95, stat.Empirical, xs, nil)
	return stats
}

// Print displays aggregated metrics at the end of the simulation.
func (m *Metrics) Print() {
	fmt.Println("=== Simulation Metrics ===")
	fmt.Printf("Total Requests       : %d\n", m.TotalRequests)
	fmt.Printf("Cold Starts          : %d\n", m.ColdStarts)
	fmt.Printf("Warm Starts          : %d\n", m.WarmStarts)
	fmt.Printf("Cold Start Ratio     : %.4f\n", m.ColdStartRatio())
	fmt.Printf("Expirations          : %d\n", m.Expirations)
	fmt.Printf("End Time             : %.2f s\n", m.EndTime)
	if m.EndTime > 0 {
		fmt.Printf("Avg Live Instances   : %.2f\n", m.AvgServerCount())
		fmt.Printf("Avg Busy Instances   : %.2f\n", m.AvgRunningCount())
		fmt.Printf("Avg Idle Instances   : %.2f\n", m.AvgIdleCount())
		fmt.Printf("Fleet Utilization    : %.4f\n", m.Utilization())
	}
	fmt.Printf("Peak Live Instances  : %d\n", m.PeakLive)
	fmt.Printf("Peak Busy Instances  : %d\n", m.PeakRunning)
	if ls := m.LifespanStats(); ls.Count > 0 {
		fmt.Printf("Instance Lifespan    : mean %.2f s, stddev %.2f s, median %.2f s, p95 %.2f s (n=%d)\n",
			ls.Mean, ls.StdDev, ls.Median, ls.P95, ls.Count)
	}
}
