//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/querent-labs/horary-display/internal/adapter/kafka"
	"github.com/querent-labs/horary-display/internal/adapter/taxonomy"
	"github.com/querent-labs/horary-display/internal/config"
	"github.com/querent-labs/horary-display/internal/domain"
	"github.com/querent-labs/horary-display/internal/observability"
	"github.com/querent-labs/horary-display/internal/pipeline"
)

const (
	testSourceTopic = "test-evaluated-charts"
	testSinkTopic   = "test-display-payloads"
)

// sinkMessage holds a deserialized message read from the sink topic.
type sinkMessage struct {
	Payload domain.DisplayPayload
	Key     string
	Headers map[string]string
}

// readSink reads a single message from the sink consumer and deserializes it.
func readSink(ctx context.Context, t *testing.T, consumer *kafkago.Reader) sinkMessage {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from sink topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var payload domain.DisplayPayload
	require.NoError(t, json.Unmarshal(msg.Value, &payload), "unmarshal sink message")

	return sinkMessage{
		Payload: payload,
		Key:     string(msg.Key),
		Headers: headers,
	}
}

// TestKafkaReaderWriter verifies the adapter layer: kafka.Reader (Extractor)
// and kafka.Writer (Loader) correctly round-trip a chart through Kafka.
func TestKafkaReaderWriter(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)

	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)

	cfg := &config.Config{
		KafkaBrokers:       []string{broker},
		KafkaSourceTopic:   testSourceTopic,
		KafkaSinkTopic:     testSinkTopic,
		KafkaGroupID:       fmt.Sprintf("test-reader-%d", time.Now().UnixNano()),
		BatchFlushInterval: 5 * time.Second,
	}

	// Publish the first fixture chart to the source topic.
	records := loadFixtureCharts(t)
	payload := []byte(records[0]) // chart-001: education, Paris

	producer := &kafkago.Writer{
		Addr:  kafkago.TCP(broker),
		Topic: testSourceTopic,
	}
	t.Cleanup(func() { _ = producer.Close() })

	require.NoError(t, producer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte("chart-001"),
		Value: payload,
	}))

	// Extract via kafka.Reader.
	// Retry because the consumer group may need time to rebalance before
	// partitions are assigned and messages become available.
	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })

	var batch []domain.RawEvent
	for {
		var err error
		batch, err = reader.ExtractBatch(ctx, 1)
		require.NoError(t, err)
		if len(batch) > 0 {
			break
		}
		if ctx.Err() != nil {
			t.Fatal("timed out waiting for message from source topic")
		}
	}
	require.Len(t, batch, 1)
	raw := batch[0]
	assert.Equal(t, []byte("chart-001"), raw.Key)
	assert.Equal(t, payload, raw.Value)
	assert.Equal(t, testSourceTopic, raw.Topic)
	require.NotNil(t, raw.Commit, "commit callback should be set")

	// Commit the offset.
	require.NoError(t, raw.Commit(ctx))

	// Transform the raw chart into a display payload.
	transformer := pipeline.NewTransformer(taxonomy.NewStaticResolver(), domain.AggregatorModeLedger, observability.NewMetricsForTesting(), discardLogger())
	out, err := transformer.Transform(ctx, raw)
	require.NoError(t, err)

	// Load via kafka.Writer.
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	require.NoError(t, writer.LoadBatch(ctx, []domain.DisplayPayload{out}))

	// Read from the sink topic and verify headers + value.
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	sm := readSink(ctx, t, consumer)
	assert.Equal(t, "chart-001", sm.Key)
	assert.Equal(t, "YES", sm.Headers["verdict"])
	assert.Contains(t, sm.Headers, "generated_at")
	_, err = time.Parse(time.RFC3339, sm.Headers["generated_at"])
	assert.NoError(t, err, "generated_at should be valid RFC3339")

	assert.Equal(t, "chart-001", sm.Payload.ChartID)
	assert.Equal(t, "education", sm.Payload.Category)
	assert.Equal(t, "Paris", sm.Payload.Location.City)
	assert.Equal(t, "France", sm.Payload.Location.Country)
	assert.Equal(t, "location_object_city", sm.Payload.LocationSource)
	assert.Equal(t, "static", sm.Payload.ContractSource)
	assert.Equal(t, "sun", sm.Payload.Contract.Examiner)
}

// TestPipelineEndToEnd wires the full pipeline (Reader -> Transformer -> Writer)
// with real Kafka and verifies that every fixture chart comes out resolved.
func TestPipelineEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)

	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)

	cfg := &config.Config{
		KafkaBrokers:       []string{broker},
		KafkaSourceTopic:   testSourceTopic,
		KafkaSinkTopic:     testSinkTopic,
		KafkaGroupID:       fmt.Sprintf("test-pipeline-%d", time.Now().UnixNano()),
		BatchFlushInterval: 5 * time.Second,
	}

	// Publish all fixture charts to the source topic.
	records := loadFixtureCharts(t)

	producer := &kafkago.Writer{
		Addr:  kafkago.TCP(broker),
		Topic: testSourceTopic,
	}
	t.Cleanup(func() { _ = producer.Close() })

	msgs := make([]kafkago.Message, 0, len(records))
	for i, rec := range records {
		msgs = append(msgs, kafkago.Message{
			Key:   []byte(fmt.Sprintf("record-%d", i)),
			Value: []byte(rec),
		})
	}
	require.NoError(t, producer.WriteMessages(ctx, msgs...))

	// Wire up the pipeline.
	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })

	transformer := pipeline.NewTransformer(taxonomy.NewStaticResolver(), domain.AggregatorModeLedger, observability.NewMetricsForTesting(), discardLogger())

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(reader, transformer, writer, discardLogger(), metrics, 50)

	// Run the pipeline in a goroutine.
	pipelineCtx, pipelineCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(pipelineCtx) }()

	// Read all display payloads from the sink topic.
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-sink-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	received := make(map[string]sinkMessage, len(records))
	for len(received) < len(records) {
		sm := readSink(ctx, t, consumer)
		received[sm.Payload.ChartID] = sm
	}

	pipelineCancel()
	require.NoError(t, <-errCh)

	require.Len(t, received, len(records))
	for id, sm := range received {
		assert.Equal(t, id, sm.Key, "message key should be the chart ID")
		assert.NotEmpty(t, sm.Headers["verdict"], "missing verdict header")
		assert.Contains(t, sm.Headers, "generated_at", "missing generated_at header")

		// The fallback chain always produces a fully populated location.
		assert.NotEmpty(t, sm.Payload.Location.City)
		assert.NotEmpty(t, sm.Payload.Location.Country)
		assert.NotEmpty(t, sm.Payload.LocationSource)
		assert.Equal(t, "static", sm.Payload.ContractSource)
	}

	// Spot-check the timezone-only record: location derived from the
	// identifier, verdict from the ledger.
	travel, ok := received["chart-004"]
	require.True(t, ok, "expected chart-004 on the sink topic")
	assert.Equal(t, "New York", travel.Payload.Location.City)
	assert.Equal(t, "America", travel.Payload.Location.Country)
	assert.Equal(t, "timezone_identifier", travel.Payload.LocationSource)
	assert.Equal(t, "NO", travel.Payload.Verdict)
	assert.Equal(t, []int{1, 3, 6}, travel.Payload.Contract.Houses)

	// Spot-check the bare record: everything defaulted, nothing dropped.
	bare, ok := received["chart-005"]
	require.True(t, ok, "expected chart-005 on the sink topic")
	assert.Equal(t, "Unknown", bare.Payload.Location.City)
	assert.Equal(t, "default", bare.Payload.LocationSource)
}

// TestPipelineTransformError verifies that an invalid message (poison pill) is
// skipped and the pipeline continues processing valid messages.
func TestPipelineTransformError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)

	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)

	cfg := &config.Config{
		KafkaBrokers:       []string{broker},
		KafkaSourceTopic:   testSourceTopic,
		KafkaSinkTopic:     testSinkTopic,
		KafkaGroupID:       fmt.Sprintf("test-poison-%d", time.Now().UnixNano()),
		BatchFlushInterval: 5 * time.Second,
	}

	// Publish: invalid JSON, then a valid chart.
	records := loadFixtureCharts(t)
	validPayload := []byte(records[0])

	producer := &kafkago.Writer{
		Addr:  kafkago.TCP(broker),
		Topic: testSourceTopic,
	}
	t.Cleanup(func() { _ = producer.Close() })

	require.NoError(t, producer.WriteMessages(ctx,
		kafkago.Message{Key: []byte("bad"), Value: []byte("not-json{{{")},
		kafkago.Message{Key: []byte("good"), Value: validPayload},
	))

	// Wire up the pipeline.
	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })

	transformer := pipeline.NewTransformer(taxonomy.NewStaticResolver(), domain.AggregatorModeLedger, observability.NewMetricsForTesting(), discardLogger())

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(reader, transformer, writer, discardLogger(), metrics, 50)

	pipelineCtx, pipelineCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(pipelineCtx) }()

	// Only the valid message should appear on the sink topic.
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-sink-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	sm := readSink(ctx, t, consumer)
	assert.Equal(t, "chart-001", sm.Payload.ChartID)
	assert.Equal(t, "YES", sm.Payload.Verdict)

	// Verify no second message arrives (the poison pill was skipped).
	readCtx, readCancel := context.WithTimeout(ctx, 5*time.Second)
	_, err := consumer.ReadMessage(readCtx)
	readCancel()
	assert.Error(t, err, "expected no second message on sink topic")

	pipelineCancel()
	require.NoError(t, <-errCh)
}
