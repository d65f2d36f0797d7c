// Package domain models evaluated horary chart records and their projection
// into display payloads.
//
// # Data Source
//
// Chart records are produced by the horary judgment engine: each record
// carries the question, its category, the engine's judgment with a
// confidence figure, a contribution ledger, free-text reasoning lines, and
// whatever location data was captured when the chart was cast. The engine
// has gone through several serialization formats, so location data may
// appear in any of several alternative shapes; the resolver in this package
// reconciles them.
//
// # Reasoning Annotation Grammar
//
// Reasoning lines optionally end with a numeric weight annotation:
//
//	"Good fortune (12.75)"      → rule "Good fortune", weight 12.75
//	"Factor (+3%)"              → rule "Factor", weight 3
//	"Loss of power -5.5%"       → rule "Loss of power", weight -5.5
//	"Ruler of 7 houses"         → rule unchanged, weight 0
//
// A parenthesized suffix wins over a bare trailing number, and only the
// group anchored at the very end of the line is consumed: in
// "Mixed signals (+3.5) (-4.25)" the first group stays part of the rule.
// Lines may also carry a stage prefix ("Significators: ..."); lines without
// one fall under the "General" stage.
//
// # Location Fallback Chain
//
// ResolveLocation tries, in order: the top-level location object when it
// names a real city; the place object under chart_data.timezone_info; the
// free-text location name under timezone_info (with its coordinates); the
// top-level location_name (same coordinate source); any top-level location
// object; a top-level "City, Country" string; and finally a "Region/City"
// timezone identifier, from which the city is the last path segment with
// underscores replaced by spaces. A chart with no usable source resolves to
// Unknown/Unknown at 0,0 — the output is always fully populated.
//
// The sentinels "Unknown" and "Unknown location" mean "no real value" and
// never satisfy a strategy's guard. "UTC" carries no location.
//
// # Ledger Aggregation
//
// Ledger entries contribute their weight signed by polarity, one
// contribution per testimony key, in sorted key order. The solar mode
// (HORARY_USE_DSL) scales lunar testimonies by 0.7 before summing. A
// positive score reads YES, anything else NO; the engine's own judgment,
// when present, overrides the recomputed verdict.
//
// # Error Handling
//
// The parsers and the resolver are total: malformed input degrades to safe
// defaults (weight 0, "Unknown" fields) instead of surfacing errors, so
// display-layer parsing can never block rendering.
package domain
