package domain

import (
	"regexp"
	"strings"
)

// weightNoteRe matches a trailing parenthetical whose body starts with the
// word "weight", e.g. "Translation of light (weight 3.5)". The aggregation
// engine appends these bookkeeping notes; they duplicate the structured
// weight and are dropped from display text.
var weightNoteRe = regexp.MustCompile(`\(\s*[Ww]eight\b[^)]*\)\s*$`)

// CleanText prepares a rationale line for display: it strips a trailing
// weight annotation, collapses immediately repeated tokens produced by
// testimony-key stringification ("Moon Moon applying" -> "Moon applying"),
// and collapses runs of whitespace. Pure and total.
func CleanText(s string) string {
	s = weightNoteRe.ReplaceAllString(s, "")

	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}

	out := fields[:1]
	for _, f := range fields[1:] {
		if f == out[len(out)-1] {
			continue
		}
		out = append(out, f)
	}
	return strings.Join(out, " ")
}
