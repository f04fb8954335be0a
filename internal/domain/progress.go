package domain

// ProgressFunc reports batch loading progress.
// Called after every batch: (200, 27000), (400, 27000), ...
type ProgressFunc func(loaded, total int)

// LoadState is the lifecycle of a background loader
type LoadState int

const (
	LoadIdle LoadState = iota
	LoadPriming
	LoadBackground
	LoadComplete
	LoadCancelled
)

func (s LoadState) String() string {
	switch s {
	case LoadIdle:
		return "idle"
	case LoadPriming:
		return "priming"
	case LoadBackground:
		return "background"
	case LoadComplete:
		return "complete"
	case LoadCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Running reports whether batches are still being processed
func (s LoadState) Running() bool {
	return s == LoadPriming || s == LoadBackground
}

// LoadProgress is a snapshot of a loader.
type LoadProgress struct {
	Name   string
	State  LoadState
	Loaded int // IDs processed, including failed batches
	Total  int
	Failed int // failed batches
}

// Fraction returns Loaded/Total in [0, 1]
func (p LoadProgress) Fraction() float64 {
	if p.Total <= 0 {
		if p.State == LoadComplete {
			return 1
		}
		return 0
	}
	f := float64(p.Loaded) / float64(p.Total)
	if f > 1 {
		return 1
	}
	return f
}
