package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// ChartRecord is an evaluated horary chart as published by the judgment
// engine. Location data may arrive in any of several alternative shapes;
// only one is normally populated but any combination must be tolerated.
// See ResolveLocation for the fallback order.
type ChartRecord struct {
	ID         string  `json:"id,omitempty"`
	Question   string  `json:"question,omitempty"`
	Category   string  `json:"category,omitempty"`
	Judgment   string  `json:"judgment,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`

	// Reasoning lines are free text, optionally prefixed with a stage
	// ("Significators: ...") and suffixed with a weight annotation. The
	// engine occasionally emits non-string junk here, hence []any.
	Reasoning []any `json:"reasoning,omitempty"`

	Ledger []LedgerEntry `json:"ledger,omitempty"`

	Location     *LocationField `json:"location,omitempty"`
	LocationName string         `json:"location_name,omitempty"`
	Timezone     string         `json:"timezone,omitempty"`
	ChartData    *ChartData     `json:"chart_data,omitempty"`
}

// ChartData carries the serialized chart internals. Only the timezone
// sub-record matters for display; the rest is passed through untouched.
type ChartData struct {
	TimezoneInfo *TimezoneInfo `json:"timezone_info,omitempty"`
}

// TimezoneInfo is the secondary source of location data: a timezone
// identifier plus optional place details recorded at cast time.
type TimezoneInfo struct {
	Timezone     string       `json:"timezone,omitempty"`
	LocalTime    string       `json:"local_time,omitempty"`
	UTCTime      string       `json:"utc_time,omitempty"`
	Location     *Place       `json:"location,omitempty"`
	LocationName string       `json:"location_name,omitempty"`
	Coordinates  *Coordinates `json:"coordinates,omitempty"`
}

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
}

// Place is a location object. Upstream producers disagree on field names:
// some send latitude/longitude, others the abbreviated lat/lon, and the
// timezone sub-record uses name where others use city. Readers prefer the
// full name and fall back to the abbreviation.
type Place struct {
	City      string   `json:"city,omitempty"`
	Name      string   `json:"name,omitempty"`
	Country   string   `json:"country,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Lat       *float64 `json:"lat,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Lon       *float64 `json:"lon,omitempty"`
}

// LocationField is the top-level location field, which may be either a
// place object or a free-text "City, Country" string.
type LocationField struct {
	Place *Place
	Text  string
}

// UnmarshalJSON accepts an object, a string, or null.
func (f *LocationField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = LocationField{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("parse location string: %w", err)
		}
		*f = LocationField{Text: s}
		return nil
	}
	var p Place
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("parse location object: %w", err)
	}
	*f = LocationField{Place: &p}
	return nil
}

// MarshalJSON writes back whichever shape was populated.
func (f LocationField) MarshalJSON() ([]byte, error) {
	if f.Place != nil {
		return json.Marshal(f.Place)
	}
	if f.Text != "" {
		return json.Marshal(f.Text)
	}
	return []byte("null"), nil
}

// LedgerEntry is one contribution from the aggregation ledger.
type LedgerEntry struct {
	Key      string  `json:"key"`
	Weight   float64 `json:"weight"`
	Polarity string  `json:"polarity,omitempty"` // "positive", "negative", or "neutral"
	Family   string  `json:"family,omitempty"`
}

// ResolvedLocation is the normalized location projection used for display.
// Every field is always populated: city and country default to "Unknown",
// coordinates to 0.
type ResolvedLocation struct {
	City    string  `json:"city"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// ReasoningEntry is a parsed reasoning line: the human-readable rule and
// its trailing numeric weight, if any.
type ReasoningEntry struct {
	Rule   string  `json:"rule"`
	Weight float64 `json:"weight"`
}

// StructuredReason is a reasoning line with its stage prefix split out.
type StructuredReason struct {
	Stage  string  `json:"stage"`
	Rule   string  `json:"rule"`
	Weight float64 `json:"weight"`
}

// Contract is the role contract for a question category: the houses under
// judgment and the natural significators consulted.
type Contract struct {
	Category      string            `json:"category"`
	Houses        []int             `json:"houses,omitempty"`
	Significators map[string]string `json:"significators,omitempty"`
	Examiner      string            `json:"examiner,omitempty"`
}

// DisplayPayload is the denormalized record destined for the sink topic,
// ready for the frontend to render without further interpretation.
type DisplayPayload struct {
	ChartID    string  `json:"chart_id"`
	Question   string  `json:"question,omitempty"`
	Category   string  `json:"category,omitempty"`
	Verdict    string  `json:"verdict"`
	Confidence float64 `json:"confidence,omitempty"`
	Score      float64 `json:"score"`

	Location ResolvedLocation `json:"location"`
	// LocationSource names the fallback strategy that produced Location:
	// "location_object_city", "timezone_info_object", ..., or "default".
	LocationSource string `json:"location_source,omitempty"`

	Timezone  string `json:"timezone,omitempty"`
	LocalTime string `json:"local_time,omitempty"`
	UTCTime   string `json:"utc_time,omitempty"`

	Reasoning []StructuredReason `json:"reasoning,omitempty"`
	Rationale []string           `json:"rationale,omitempty"`

	Contract Contract `json:"contract"`
	// ContractSource is "remote", "static", "failed", or "" when no
	// resolver was configured.
	ContractSource string `json:"contract_source,omitempty"`

	GeneratedAt time.Time `json:"generated_at"`
}

// ParseChartRecord deserializes a RawEvent's value into a ChartRecord.
func ParseChartRecord(raw RawEvent) (ChartRecord, error) {
	var rec ChartRecord
	if err := json.Unmarshal(raw.Value, &rec); err != nil {
		return ChartRecord{}, fmt.Errorf("parse chart record: %w", err)
	}
	if rec.ID == "" {
		rec.ID = string(raw.Key)
	}
	return rec, nil
}
