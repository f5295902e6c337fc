package stats

// Completion holds the rate derivations for one aggregation run.
type Completion struct {
	CompletionRate float64
	AbortRate      float64
	CriticalShare  float64
}

// ComputeCompletion derives the completion, abort and critical rates. A zero
// total yields zero rates.
func ComputeCompletion(total, completed, aborted, critical int) Completion {
	return Completion{
		CompletionRate: Percentage(completed, total),
		AbortRate:      Percentage(aborted, total),
		CriticalShare:  Percentage(critical, total),
	}
}
