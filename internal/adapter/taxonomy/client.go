package taxonomy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/querent-labs/horary-display/internal/domain"
	"github.com/querent-labs/horary-display/internal/observability"
)

// Client implements domain.ContractResolver against the taxonomy service's
// REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a taxonomy API client. metrics may be nil.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		metrics: metrics,
		logger:  logger,
	}
}

func (c *Client) Source() string { return "remote" }

// Resolve fetches the contract for a category from the taxonomy service.
func (c *Client) Resolve(ctx context.Context, category string) (domain.Contract, error) {
	if category == "" {
		category = "general"
	}

	u := fmt.Sprintf("%s/contracts/%s", c.baseURL, url.PathEscape(category))

	start := time.Now()
	contract, err := c.doRequest(ctx, u)
	c.observe(time.Since(start), err)
	return contract, err
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (domain.Contract, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.Contract{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Contract{}, fmt.Errorf("contract request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.Contract{}, fmt.Errorf("taxonomy API error: status %d: %s", resp.StatusCode, body)
	}

	var contract domain.Contract
	if err := json.NewDecoder(resp.Body).Decode(&contract); err != nil {
		return domain.Contract{}, fmt.Errorf("decode response: %w", err)
	}
	return contract, nil
}

func (c *Client) observe(elapsed time.Duration, err error) {
	if c.metrics == nil {
		return
	}
	c.metrics.ContractAPIDuration.Observe(elapsed.Seconds())
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	c.metrics.ContractRequests.WithLabelValues(outcome).Inc()
}
