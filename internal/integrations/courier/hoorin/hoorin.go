package hoorin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/BearBump/CourierGate/internal/apperr"
	"github.com/BearBump/CourierGate/internal/integrations/courier"
	"github.com/BearBump/CourierGate/internal/metrics"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const defaultBaseURL = "https://dash.hoorin.com"

var (
	errNoAPIKeys     = apperr.Config("no_api_keys", "No Hoorin API keys are configured.")
	errAPICallFailed = apperr.Upstream(http.StatusInternalServerError, "api_call_failed", "The external Hoorin API call failed.")
	errExternalAPI   = apperr.Upstream(http.StatusBadGateway, "external_api_error", "The external Hoorin API returned an error or invalid JSON.")
)

// Cursor: индекс следующего ключа в ротации.
type Cursor interface {
	Load(ctx context.Context) (int, error)
	Store(ctx context.Context, v int) error
}

type Client struct {
	baseURL string
	httpc   *http.Client
	cursor  Cursor
}

func New(baseURL string, cursor Cursor) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: courier.DefaultTimeout},
		cursor:  cursor,
	}
}

// ParseKeys: по одному ключу на строку, пустые строки отбрасываются.
func ParseKeys(raw string) []string {
	var out []string
	for _, line := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		if k := strings.TrimSpace(line); k != "" {
			out = append(out, k)
		}
	}
	return out
}

// NextKey выбирает ключ по курсору и двигает курсор по кругу.
// Ошибки хранилища курсора не фатальны: берётся первый ключ.
func (c *Client) NextKey(ctx context.Context, keys []string) (string, error) {
	if len(keys) == 0 {
		return "", errNoAPIKeys
	}
	i := 0
	if c.cursor != nil {
		n, err := c.cursor.Load(ctx)
		if err != nil {
			logrus.WithField("component", "hoorin").WithError(err).Warn("cursor load failed")
		}
		i = n
	}
	if i < 0 || i >= len(keys) {
		i = 0
	}
	if c.cursor != nil {
		if err := c.cursor.Store(ctx, (i+1)%len(keys)); err != nil {
			logrus.WithField("component", "hoorin").WithError(err).Warn("cursor store failed")
		}
	}
	return keys[i], nil
}

// Lookup возвращает JSON-объект агрегатора как есть.
func (c *Client) Lookup(ctx context.Context, keys []string, searchTerm string) (json.RawMessage, error) {
	key, err := c.NextKey(ctx, keys)
	if err != nil {
		return nil, err
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, errAPICallFailed.WithCause(errors.Wrap(err, "parse base url"))
	}
	u.Path = "/api/courier/news.php"
	q := u.Query()
	q.Set("apiKey", key)
	q.Set("searchTerm", searchTerm)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errAPICallFailed.WithCause(errors.Wrap(err, "new request"))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		metrics.ProviderFetches.WithLabelValues("hoorin", metrics.OutcomeError).Inc()
		return nil, errAPICallFailed.WithCause(errors.Wrap(withoutURL(err), "do request"))
	}
	defer resp.Body.Close()

	body, err := courier.ReadBody(resp.Body)
	if err != nil {
		metrics.ProviderFetches.WithLabelValues("hoorin", metrics.OutcomeError).Inc()
		return nil, errAPICallFailed.WithCause(err)
	}

	var obj map[string]json.RawMessage
	if resp.StatusCode != http.StatusOK || json.Unmarshal(body, &obj) != nil || obj == nil {
		metrics.ProviderFetches.WithLabelValues("hoorin", metrics.OutcomeError).Inc()
		return nil, errExternalAPI.
			With("upstream_code", resp.StatusCode).
			With("upstream_body", string(body))
	}

	metrics.ProviderFetches.WithLabelValues("hoorin", metrics.OutcomeOK).Inc()
	return json.RawMessage(body), nil
}

// withoutURL убирает URL из ошибки транспорта: в query лежит apiKey.
func withoutURL(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return errors.Wrap(uerr.Err, uerr.Op)
	}
	return err
}
