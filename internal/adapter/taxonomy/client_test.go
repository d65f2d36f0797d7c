package taxonomy

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/querent-labs/horary-display/internal/domain"
	"github.com/querent-labs/horary-display/internal/observability"
)

const (
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

func testMetrics() *observability.Metrics {
	return observability.NewMetricsForTesting()
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testClient(baseURL string) *Client {
	return NewClient(baseURL, 5*time.Second, testMetrics(), testLogger())
}

func TestClient_Resolve_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/contracts/education", r.URL.Path)

		contract := domain.Contract{
			Category: "education",
			Houses:   []int{1, 10, 9},
			Significators: map[string]string{
				"mercury": "natural significator of learning and knowledge",
			},
			Examiner: "sun",
		}
		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(contract))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	contract, err := c.Resolve(context.Background(), "education")
	require.NoError(t, err)

	assert.Equal(t, "education", contract.Category)
	assert.Equal(t, []int{1, 10, 9}, contract.Houses)
	assert.Equal(t, "sun", contract.Examiner)
	assert.Equal(t, "remote", c.Source())
}

func TestClient_Resolve_EmptyCategoryDefaultsToGeneral(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/contracts/general", r.URL.Path)
		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(domain.Contract{Category: "general", Houses: []int{1, 7}}))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	contract, err := c.Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "general", contract.Category)
}

func TestClient_Resolve_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"boom"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Resolve(context.Background(), "travel")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestClient_Resolve_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 50*time.Millisecond, testMetrics(), testLogger())

	_, err := c.Resolve(context.Background(), "travel")
	require.Error(t, err)
}
