package redx

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/BearBump/CourierGate/internal/apperr"
	"github.com/BearBump/CourierGate/internal/integrations/courier"
	"github.com/BearBump/CourierGate/internal/metrics"
	"github.com/pkg/errors"
)

const (
	defaultAPIBaseURL = "https://api.redx.com.bd"
	defaultBaseURL    = "https://redx.com.bd"

	finalCookieName = "__ti__"
	// значение сессионной cookie подписано express-session: "s:" в url-кодировке
	finalCookiePrefix = "s%3A"
)

var (
	errNoCreds           = apperr.Config("redex_no_creds", "RedEx phone or password is not set in settings.")
	errPostFailed        = apperr.Upstream(http.StatusInternalServerError, "redex_post_failed", "Failed to POST to RedEx login API.")
	errLoginUnsuccess    = apperr.Upstream(http.StatusInternalServerError, "redex_login_unsuccessful", "RedEx login failed.")
	errNoFinalCookie     = apperr.Upstream(http.StatusInternalServerError, "redex_no_final_cookie", "RedEx login succeeded, but no final session cookie was set.")
	errCookieParseFailed = apperr.Upstream(http.StatusInternalServerError, "redex_cookie_parse_failed", "Could not parse final session cookie from RedEx login response.")
)

type Client struct {
	apiBaseURL string
	baseURL    string
	httpc      *http.Client
}

// New: apiBaseURL: хост логина, baseURL: хост кабинета со статистикой.
func New(apiBaseURL, baseURL string) *Client {
	if apiBaseURL == "" {
		apiBaseURL = defaultAPIBaseURL
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiBaseURL: strings.TrimRight(apiBaseURL, "/"),
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpc:      courier.NewHTTPClient(),
	}
}

type loginReq struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type loginResp struct {
	Message *string `json:"message"`
	Data    *struct {
		AccessToken *string `json:"accessToken"`
	} `json:"data"`
}

func (c *Client) Login(ctx context.Context, creds courier.Credentials) (courier.Session, error) {
	if creds.Empty() {
		return courier.Session{}, errNoCreds
	}

	body, err := json.Marshal(loginReq{Phone: creds.Login, Password: creds.Password})
	if err != nil {
		return courier.Session{}, errPostFailed.WithCause(errors.Wrap(err, "marshal"))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBaseURL+"/v4/auth/login", bytes.NewReader(body))
	if err != nil {
		return courier.Session{}, errPostFailed.WithCause(errors.Wrap(err, "new request"))
	}
	req.Header.Set("User-Agent", courier.BrowserUserAgent)
	req.Header.Set("Content-Type", "application/json;charset=UTF-8")
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Origin", "https://redx.com.bd")
	req.Header.Set("Referer", "https://redx.com.bd/")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return courier.Session{}, errPostFailed.WithCause(errors.Wrap(err, "do request"))
	}
	defer resp.Body.Close()
	raw, err := courier.ReadBody(resp.Body)
	if err != nil {
		return courier.Session{}, errPostFailed.WithCause(err)
	}

	var lr loginResp
	decodeErr := json.Unmarshal(raw, &lr)
	if resp.StatusCode != http.StatusOK || decodeErr != nil || lr.Data == nil || lr.Data.AccessToken == nil {
		return courier.Session{}, loginUnsuccessful(lr, raw)
	}

	if len(resp.Header.Values("Set-Cookie")) == 0 {
		return courier.Session{}, errNoFinalCookie
	}
	value, found, err := courier.SetCookieValue(resp.Header, finalCookieName)
	if !found || err != nil || !strings.HasPrefix(value, finalCookiePrefix) || len(value) == len(finalCookiePrefix) {
		return courier.Session{}, errCookieParseFailed
	}

	return courier.Session{Artifacts: map[string]string{
		courier.ArtifactCookie: finalCookieName + "=" + value,
	}}, nil
}

func loginUnsuccessful(lr loginResp, raw []byte) error {
	e := errLoginUnsuccess
	switch {
	case lr.Message != nil:
		e = apperr.Upstream(e.Status, e.Code, "RedEx API Error: "+*lr.Message)
	case len(bytes.TrimSpace(raw)) > 0:
		e = apperr.Upstream(e.Status, e.Code, "RedEx login failed. Raw response: "+string(bytes.TrimSpace(raw)))
	}
	return e
}

// Fetch: статистика успешных/возвратных доставок по номеру, nil при любой ошибке.
func (c *Client) Fetch(ctx context.Context, sess courier.Session, searchTerm string) []byte {
	b, err := c.fetch(ctx, sess, searchTerm)
	if err != nil {
		metrics.ProviderFetches.WithLabelValues("redx", metrics.OutcomeAbsent).Inc()
		return nil
	}
	metrics.ProviderFetches.WithLabelValues("redx", metrics.OutcomeOK).Inc()
	return b
}

func (c *Client) fetch(ctx context.Context, sess courier.Session, searchTerm string) ([]byte, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse base url")
	}
	u.Path = "/api/redx_se/admin/parcel/customer-success-return-rate"
	q := u.Query()
	q.Set("phoneNumber", "88"+searchTerm)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "new request")
	}
	req.Header.Set("Cookie", sess.Get(courier.ArtifactCookie))
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", courier.BrowserUserAgent)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "do request")
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, errors.Errorf("redx http %d", resp.StatusCode)
	}
	return courier.ReadBody(resp.Body)
}
