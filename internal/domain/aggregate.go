package domain

import (
	"sort"
	"strings"
)

// AggregatorMode selects how ledger contributions are combined.
type AggregatorMode string

const (
	// AggregatorModeLedger sums signed contributions as-is.
	AggregatorModeLedger AggregatorMode = "ledger"
	// AggregatorModeSolar applies role-importance scaling before summing:
	// lunar testimonies count at 0.7 of their listed weight.
	AggregatorModeSolar AggregatorMode = "solar"
)

// moonImportance is the role-importance factor for lunar testimonies in
// solar mode.
const moonImportance = 0.7

// AggregateLedger combines ledger entries into a single score and verdict.
// Each testimony key contributes once; duplicates are ignored. Entries are
// processed in sorted key order so the score is deterministic regardless of
// ledger ordering. Neutral or unknown polarities contribute nothing.
// The verdict is "YES" when the score is positive, otherwise "NO".
func AggregateLedger(entries []LedgerEntry, mode AggregatorMode) (float64, string) {
	sorted := make([]LedgerEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })

	var score float64
	seen := make(map[string]struct{}, len(sorted))
	for _, e := range sorted {
		if _, dup := seen[e.Key]; dup {
			continue
		}
		seen[e.Key] = struct{}{}

		contribution := e.Weight
		switch e.Polarity {
		case "positive":
		case "negative":
			contribution = -contribution
		default:
			continue
		}

		if mode == AggregatorModeSolar && isLunarKey(e.Key) {
			contribution *= moonImportance
		}
		score += contribution
	}

	verdict := "NO"
	if score > 0 {
		verdict = "YES"
	}
	return score, verdict
}

// isLunarKey reports whether a testimony key describes a Moon testimony.
func isLunarKey(key string) bool {
	return strings.Contains(strings.ToLower(key), "moon")
}
