//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	kafkaadapter "github.com/couchcryptid/solar-wind-etl/internal/adapter/kafka"
	"github.com/couchcryptid/solar-wind-etl/internal/adapter/swpc"
	"github.com/couchcryptid/solar-wind-etl/internal/config"
	"github.com/couchcryptid/solar-wind-etl/internal/domain"
	"github.com/couchcryptid/solar-wind-etl/internal/observability"
	"github.com/couchcryptid/solar-wind-etl/internal/pipeline"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

const testSinkTopic = "test-solar-wind-records"

const magDocument = `[
	["time_tag","bx_gsm","by_gsm","bz_gsm","lon_gsm","lat_gsm","bt"],
	["2024-09-15 16:14:00.000","-4.47","6.23","1.33","125.64","9.83","7.78"]
]`

const plasmaDocument = `[
	["time_tag","density","speed","temperature"],
	["2024-09-15 16:14:00.000","4.97","398.2","270355"]
]`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka runs a single-node Kafka broker in a container and returns its
// bootstrap address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("test-cluster"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	ctrlConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrlConn.Close()

	require.NoError(t, ctrlConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// startSWPCStub serves fixed magnetometer and plasma documents the way the
// SWPC product API does.
func startSWPCStub(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /mag-5-minute.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(magDocument))
	})
	mux.HandleFunc("GET /plasma-5-minute.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(plasmaDocument))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// TestPipelineToKafka verifies the full path: SWPC fetch, parse, merge,
// derive, and publish to the sink topic.
func TestPipelineToKafka(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSinkTopic)
	stub := startSWPCStub(t)

	cfg := &config.Config{
		SWPCBaseURL:    stub.URL,
		SWPCWindow:     "5-minute",
		FetchTimeout:   5 * time.Second,
		KafkaBrokers:   []string{broker},
		KafkaSinkTopic: testSinkTopic,
	}

	metrics := observability.NewMetricsForTesting()
	source := swpc.NewClient(cfg, metrics, discardLogger())
	writer := kafkaadapter.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	p := pipeline.New(source, writer, discardLogger(), metrics, time.Second, nil)

	runCtx, stopPipeline := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- p.Run(runCtx) }()

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers: []string{broker},
		Topic:   testSinkTopic,
		GroupID: fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, cancelRead := context.WithTimeout(ctx, 60*time.Second)
	defer cancelRead()

	msg, err := consumer.ReadMessage(readCtx)
	stopPipeline()
	require.NoError(t, err, "read from sink topic")
	require.NoError(t, <-done)

	assert.Equal(t, "2024-09-15T16:14:00Z", string(msg.Key))

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "5-minute", headers["product_window"])
	assert.NotEmpty(t, headers["processed_at"])

	var record domain.SolarWindRecord
	require.NoError(t, json.Unmarshal(msg.Value, &record))

	assert.Equal(t, time.Date(2024, 9, 15, 16, 14, 0, 0, time.UTC), record.TimeTag.UTC())
	assert.Equal(t, -4.47, record.Mag.BxGSM)
	assert.Equal(t, 7.78, record.Mag.Bt)
	assert.Equal(t, 4.97, record.Plasma.Density)
	assert.Equal(t, int64(270355), record.Plasma.Temperature)
	assert.InDelta(t, domain.DynamicPressure(4.97, 398.2), record.Derived.DynamicPressure, 1e-9)
	assert.InDelta(t, domain.AlfvenSpeed(7.78, 4.97), record.Derived.AlfvenSpeed, 1e-9)
}
