package pipeline

import (
	"context"
	"log/slog"

	"github.com/querent-labs/horary-display/internal/domain"
	"github.com/querent-labs/horary-display/internal/observability"
)

// ChartTransformer implements Transformer using domain payload assembly
// with optional taxonomy contract enrichment.
type ChartTransformer struct {
	contracts domain.ContractResolver
	mode      domain.AggregatorMode
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// NewTransformer creates a ChartTransformer. Pass a nil resolver to disable
// contract enrichment.
func NewTransformer(contracts domain.ContractResolver, mode domain.AggregatorMode, metrics *observability.Metrics, logger *slog.Logger) *ChartTransformer {
	return &ChartTransformer{
		contracts: contracts,
		mode:      mode,
		metrics:   metrics,
		logger:    logger,
	}
}

func (t *ChartTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.DisplayPayload, error) {
	rec, err := domain.ParseChartRecord(raw)
	if err != nil {
		return domain.DisplayPayload{}, err
	}

	payload := domain.BuildDisplayPayload(rec, t.mode)
	payload = domain.EnrichWithContract(ctx, payload, t.contracts, t.logger)

	if t.metrics != nil {
		t.metrics.ResolverStrategy.WithLabelValues(payload.LocationSource).Inc()
		t.metrics.ReasoningEntries.Observe(float64(len(payload.Reasoning)))
	}

	return payload, nil
}

// Render transforms a single JSON-encoded chart record outside the Kafka
// loop, for the HTTP render endpoint.
func (t *ChartTransformer) Render(ctx context.Context, chart []byte) (domain.DisplayPayload, error) {
	return t.Transform(ctx, domain.RawEvent{Value: chart})
}
