// Command genfixtures generates matched chart/payload JSON fixtures for the
// test suites. It runs the actual domain transformation so the payload
// fixture always matches real pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genfixtures \
//	  -charts-out internal/pipeline/testdata/evaluated_charts.json \
//	  -payloads-out internal/pipeline/testdata/display_payloads.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/querent-labs/horary-display/internal/adapter/taxonomy"
	"github.com/querent-labs/horary-display/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	chartsOut := flag.String("charts-out", "", "output path for the evaluated charts fixture")
	payloadsOut := flag.String("payloads-out", "", "output path for the display payloads fixture")
	flag.Parse()

	if *chartsOut == "" || *payloadsOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -charts-out, -payloads-out")
	}

	// Set a fixed clock for reproducible GeneratedAt timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	charts := sampleCharts()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	resolver := taxonomy.NewStaticResolver()

	payloads := make([]domain.DisplayPayload, 0, len(charts))
	for _, rec := range charts {
		payload := domain.BuildDisplayPayload(rec, domain.AggregatorModeLedger)
		payload = domain.EnrichWithContract(context.Background(), payload, resolver, logger)
		payloads = append(payloads, payload)
	}

	if err := writeJSON(*chartsOut, charts); err != nil {
		return fmt.Errorf("writing charts fixture: %w", err)
	}
	log.Printf("wrote charts fixture: %s", *chartsOut)

	if err := writeJSON(*payloadsOut, payloads); err != nil {
		return fmt.Errorf("writing payloads fixture: %w", err)
	}
	log.Printf("wrote payloads fixture: %s", *payloadsOut)

	printStats(payloads)
	return nil
}

func fptr(v float64) *float64 { return &v }

// sampleCharts returns chart records exercising each location fallback tier
// and both verdict directions.
func sampleCharts() []domain.ChartRecord {
	return []domain.ChartRecord{
		{
			ID:         "chart-001",
			Question:   "Will I pass the bar exam?",
			Category:   "education",
			Judgment:   "YES",
			Confidence: 78.5,
			Reasoning: []any{
				"Significators: Querent ruler strong in the 10th (+12%)",
				"Perfection: Direct application of Moon to Sun (+15%)",
				"Moon void of course -8%",
			},
			Ledger: []domain.LedgerEntry{
				{Key: "perfection_direct", Weight: 15, Polarity: "positive"},
				{Key: "dignity_querent", Weight: 12, Polarity: "positive"},
				{Key: "moon_void", Weight: 8, Polarity: "negative"},
			},
			Location: &domain.LocationField{Place: &domain.Place{
				City: "Paris", Country: "France", Lat: fptr(48.8566), Lon: fptr(2.3522),
			}},
		},
		{
			ID:         "chart-002",
			Question:   "Should we sign the contract?",
			Category:   "contract",
			Judgment:   "NO",
			Confidence: 64.0,
			Reasoning: []any{
				"Reception: Mutual reception absent (-10%)",
				"Examiner: Sun afflicted in the 7th (-9%)",
			},
			Ledger: []domain.LedgerEntry{
				{Key: "reception_absent", Weight: 10, Polarity: "negative"},
				{Key: "examiner_afflicted", Weight: 9, Polarity: "negative"},
			},
			ChartData: &domain.ChartData{TimezoneInfo: &domain.TimezoneInfo{
				Timezone:    "Europe/London",
				LocalTime:   "2026-02-11T14:05:00+00:00",
				UTCTime:     "2026-02-11T14:05:00+00:00",
				Location:    &domain.Place{Name: "London", Country: "United Kingdom"},
				Coordinates: &domain.Coordinates{Latitude: 51.5074, Longitude: -0.1278},
			}},
		},
		{
			ID:         "chart-003",
			Question:   "Will the lost ring be found?",
			Category:   "lost_object",
			Judgment:   "YES",
			Confidence: 55.0,
			Reasoning: []any{
				"Moon in the 4th house, object at home (+7%)",
			},
			Ledger: []domain.LedgerEntry{
				{Key: "moon_fourth_house", Weight: 7, Polarity: "positive"},
			},
			Location: &domain.LocationField{Text: "Lisbon, Portugal"},
		},
		{
			ID:         "chart-004",
			Question:   "Will my journey go well?",
			Category:   "travel",
			Confidence: 50.0,
			Reasoning: []any{
				"Mercury combust the Sun (-6%)",
				"Jupiter cadent cadent and slow (-4%)",
			},
			Ledger: []domain.LedgerEntry{
				{Key: "mercury_combust", Weight: 6, Polarity: "negative"},
				{Key: "jupiter_cadent", Weight: 4, Polarity: "negative"},
			},
			Timezone: "America/New_York",
		},
		{
			ID:         "chart-005",
			Question:   "Will it come to pass?",
			Category:   "general",
			Confidence: 50.0,
		},
	}
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(payloads []domain.DisplayPayload) {
	verdictCounts := map[string]int{}
	sourceCounts := map[string]int{}
	for i := range payloads {
		verdictCounts[payloads[i].Verdict]++
		sourceCounts[payloads[i].LocationSource]++
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total: %d\n", len(payloads))
	fmt.Printf("Verdicts: YES=%d, NO=%d\n", verdictCounts["YES"], verdictCounts["NO"])
	fmt.Println("Location sources:")
	for source, count := range sourceCounts {
		fmt.Printf("  %s=%d\n", source, count)
	}
}
