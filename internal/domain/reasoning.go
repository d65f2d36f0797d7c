package domain

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// parenWeightRe matches a parenthesized signed decimal, optionally with a
	// percent sign, at the very end of a reasoning line,
	// e.g. "Good fortune (12.75)" or "Factor (+3%)". Anchoring at the end
	// means only the rightmost parenthetical group is ever consumed; earlier
	// groups stay part of the rule text.
	parenWeightRe = regexp.MustCompile(`\(\s*([+-]?\d+(?:\.\d+)?)\s*%?\s*\)\s*$`)

	// bareWeightRe matches a bare trailing signed decimal with an optional
	// percent sign, e.g. "Loss of power -5.5%". A numeral elsewhere in the
	// line ("Ruler of 7 houses") does not match.
	bareWeightRe = regexp.MustCompile(`([+-]?\d+(?:\.\d+)?)\s*%?\s*$`)

	// stageRe splits an optional leading stage label, e.g.
	// "Significators: Querent gains favor" -> stage "Significators".
	stageRe = regexp.MustCompile(`^\s*([A-Za-z][A-Za-z ]*?)\s*:\s*(.*)$`)
)

// ParseReasoningEntry splits a reasoning line into its rule text and trailing
// numeric weight. A parenthesized suffix wins over a bare one; a line with no
// trailing annotation keeps its full trimmed text as the rule with weight 0.
// The function is total: every input yields a result and none is ever an error.
func ParseReasoningEntry(text string) ReasoningEntry {
	if m := parenWeightRe.FindStringSubmatchIndex(text); m != nil {
		return ReasoningEntry{
			Rule:   strings.TrimSpace(text[:m[0]]),
			Weight: parseWeight(text[m[2]:m[3]]),
		}
	}
	if m := bareWeightRe.FindStringSubmatchIndex(text); m != nil {
		return ReasoningEntry{
			Rule:   strings.TrimSpace(text[:m[2]]),
			Weight: parseWeight(text[m[2]:m[3]]),
		}
	}
	return ReasoningEntry{Rule: strings.TrimSpace(text)}
}

// ParseReasoningValue parses a loosely-typed reasoning element. Anything
// other than a string degrades to the zero entry rather than an error, so a
// malformed ledger can never block rendering.
func ParseReasoningValue(v any) ReasoningEntry {
	s, ok := v.(string)
	if !ok {
		return ReasoningEntry{}
	}
	return ParseReasoningEntry(s)
}

// parseWeight parses the numeric token, mapping failure to 0.
func parseWeight(token string) float64 {
	w, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0
	}
	return w
}

// StructureReasoning converts raw reasoning lines into stage/rule/weight
// triples. A "Stage: rest" prefix names the stage; lines without one fall
// under "General".
func StructureReasoning(lines []string) []StructuredReason {
	result := make([]StructuredReason, 0, len(lines))
	for _, line := range lines {
		stage := "General"
		rest := line
		if m := stageRe.FindStringSubmatch(line); m != nil {
			stage = m[1]
			rest = m[2]
		}
		entry := ParseReasoningEntry(rest)
		result = append(result, StructuredReason{
			Stage:  stage,
			Rule:   entry.Rule,
			Weight: entry.Weight,
		})
	}
	return result
}
