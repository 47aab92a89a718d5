package pathao

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/BearBump/CourierGate/internal/integrations/courier"
	"github.com/BearBump/CourierGate/internal/metrics"
	"github.com/pkg/errors"
)

const defaultBaseURL = "https://merchant.pathao.com"

type Client struct {
	baseURL string
	httpc   *http.Client
}

func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   courier.NewHTTPClient(),
	}
}

// Fetch: sess должна содержать authorization (см. courier.BearerSession).
func (c *Client) Fetch(ctx context.Context, sess courier.Session, searchTerm string) []byte {
	b, err := c.fetch(ctx, sess, searchTerm)
	if err != nil {
		metrics.ProviderFetches.WithLabelValues("pathao", metrics.OutcomeAbsent).Inc()
		return nil
	}
	metrics.ProviderFetches.WithLabelValues("pathao", metrics.OutcomeOK).Inc()
	return b
}

func (c *Client) fetch(ctx context.Context, sess courier.Session, searchTerm string) ([]byte, error) {
	body, err := json.Marshal(map[string]string{"phone": searchTerm})
	if err != nil {
		return nil, errors.Wrap(err, "marshal")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/user/success", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "new request")
	}
	req.Header.Set("Authorization", sess.Get(courier.ArtifactAuthorization))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "do request")
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, errors.Errorf("pathao http %d", resp.StatusCode)
	}
	return courier.ReadBody(resp.Body)
}
