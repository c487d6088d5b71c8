package trace

// Summary aggregates statistics from a Log.
type Summary struct {
	TotalEvents int
	ColdStarts  int
	WarmStarts  int
	Departures  int
	Expirations int
	EndTime     float64 // time of the last record
	PeakLive    int     // largest fleet observed
	PeakRunning int     // most simultaneously busy instances observed
	PeakIdle    int
}

// Summarize computes aggregate statistics from a Log.
// Safe for nil or empty logs (returns zero-value fields).
func Summarize(l *Log) *Summary {
	summary := &Summary{}
	if l == nil {
		return summary
	}

	summary.TotalEvents = len(l.Records)
	for _, r := range l.Records {
		switch r.Kind {
		case KindColdStart:
			summary.ColdStarts++
		case KindWarmStart:
			summary.WarmStarts++
		case KindDeparture:
			summary.Departures++
		case KindExpiration:
			summary.Expirations++
		}
		if r.Time > summary.EndTime {
			summary.EndTime = r.Time
		}
		if r.Live > summary.PeakLive {
			summary.PeakLive = r.Live
		}
		if r.Running > summary.PeakRunning {
			summary.PeakRunning = r.Running
		}
		if r.Idle > summary.PeakIdle {
			summary.PeakIdle = r.Idle
		}
	}

	return summary
}
