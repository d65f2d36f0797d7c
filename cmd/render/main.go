// Command render transforms a single evaluated chart record into the display
// payload the service would publish, without touching Kafka. It is meant for
// inspecting how a chart resolves: verdict, score, location fallback, and
// structured reasoning.
//
// Usage:
//
//	go run ./cmd/render -chart chart.json
//	cat chart.json | go run ./cmd/render -chart -
//	go run ./cmd/render -chart chart.json -use-dsl
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/querent-labs/horary-display/internal/adapter/taxonomy"
	"github.com/querent-labs/horary-display/internal/domain"
)

func main() {
	if code := run(); code != 0 {
		os.Exit(code)
	}
}

func run() int {
	chartPath := flag.String("chart", "", "path to an evaluated chart JSON file, or - for stdin")
	useDSL := flag.Bool("use-dsl", false, "aggregate the ledger with the solar engine weighting")
	flag.Parse()

	if *chartPath == "" {
		flag.Usage()
		return 1
	}

	data, err := readChart(*chartPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read chart: %v\n", err)
		return 1
	}

	rec, err := domain.ParseChartRecord(domain.RawEvent{Value: data})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	mode := domain.AggregatorModeLedger
	if *useDSL {
		mode = domain.AggregatorModeSolar
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	payload := domain.BuildDisplayPayload(rec, mode)
	payload = domain.EnrichWithContract(context.Background(), payload, taxonomy.NewStaticResolver(), logger)

	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode payload: %v\n", err)
		return 1
	}
	fmt.Println(string(out))
	return 0
}

func readChart(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
