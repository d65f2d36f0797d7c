package domain

import "strings"

// BuildDisplayPayload normalizes an evaluated chart record into a display
// payload. It resolves the location through the fallback chain, structures
// and cleans the reasoning lines, and aggregates the ledger into a score.
// The engine's own judgment wins over the recomputed verdict when present.
func BuildDisplayPayload(rec ChartRecord, mode AggregatorMode) DisplayPayload {
	loc, source := ResolveLocationWithSource(rec)
	score, verdict := AggregateLedger(rec.Ledger, mode)
	if rec.Judgment != "" {
		verdict = rec.Judgment
	}

	lines := reasoningLines(rec.Reasoning)
	rationale := make([]string, 0, len(lines))
	for _, line := range lines {
		if cleaned := CleanText(line); cleaned != "" {
			rationale = append(rationale, cleaned)
		}
	}

	payload := DisplayPayload{
		ChartID:        rec.ID,
		Question:       rec.Question,
		Category:       rec.Category,
		Verdict:        verdict,
		Confidence:     rec.Confidence,
		Score:          score,
		Location:       loc,
		LocationSource: source,
		Timezone:       rec.Timezone,
		Reasoning:      StructureReasoning(lines),
		Rationale:      rationale,
		GeneratedAt:    clock.Now(),
	}

	if tz := rec.timezoneInfo(); tz != nil {
		if tz.Timezone != "" {
			payload.Timezone = tz.Timezone
		}
		payload.LocalTime = tz.LocalTime
		payload.UTCTime = tz.UTCTime
	}
	return payload
}

// reasoningLines extracts the string elements of a loosely-typed reasoning
// list. Non-string junk is dropped.
func reasoningLines(values []any) []string {
	lines := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			lines = append(lines, s)
		}
	}
	return lines
}
