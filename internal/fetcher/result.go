package fetcher

import "time"

// Outcome is the per-identifier result of a run.
type Outcome int

const (
	OutcomeSkipped Outcome = iota
	OutcomeDownloaded
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeDownloaded:
		return "downloaded"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result records what happened to one identifier.
type Result struct {
	Input    string
	ID       string
	Outcome  Outcome
	Path     string // artifact path; for skips, whichever cached form was found
	URL      string
	Bytes    int64
	Duration time.Duration
	Err      error
}

// Summary counts outcomes across a run.
type Summary struct {
	Total      int
	Downloaded int
	Skipped    int
	Failed     int
}

// HasFailures reports whether any identifier failed.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Summarize tallies results by outcome.
func Summarize(results []Result) Summary {
	summary := Summary{Total: len(results)}
	for _, r := range results {
		switch r.Outcome {
		case OutcomeDownloaded:
			summary.Downloaded++
		case OutcomeSkipped:
			summary.Skipped++
		case OutcomeFailed:
			summary.Failed++
		}
	}
	return summary
}
