package steadfast

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/BearBump/CourierGate/internal/apperr"
	"github.com/BearBump/CourierGate/internal/integrations/courier"
	"github.com/BearBump/CourierGate/internal/metrics"
	"github.com/pkg/errors"
)

const (
	defaultBaseURL = "https://steadfast.com.bd"

	sessionCookieName = "steadfast_courier_session"
	xsrfCookieName    = "XSRF-TOKEN"
)

var (
	errGetFailed       = apperr.Upstream(http.StatusInternalServerError, "steadfast_get_failed", "Failed to GET Steadfast login page.")
	errTokenNotFound   = apperr.Upstream(http.StatusInternalServerError, "steadfast_token_not_found", "Could not find _token on Steadfast login page.")
	errNoCreds         = apperr.Config("steadfast_no_creds", "Steadfast email or password is not set in settings.")
	errPostFailed      = apperr.Upstream(http.StatusInternalServerError, "steadfast_post_failed", "Failed to POST to Steadfast login page.")
	errLoginFailed     = apperr.Upstream(http.StatusInternalServerError, "steadfast_login_failed", "Login to Steadfast failed. No session cookies were set. (Check credentials)")
	errCookieParseFail = apperr.Upstream(http.StatusInternalServerError, "steadfast_cookie_parse_failed", "Login to Steadfast succeeded, but could not parse required session cookies.")
)

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

// Login: GET /login за токеном и cookies, затем POST формы.
// Креды проверяются после извлечения токена, как и в боевом сценарии.
func (c *Client) Login(ctx context.Context, creds courier.Credentials) (courier.Session, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/login", nil)
	if err != nil {
		return courier.Session{}, errGetFailed.WithCause(errors.Wrap(err, "new request"))
	}
	req.Header.Set("User-Agent", courier.BrowserUserAgent)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return courier.Session{}, errGetFailed.WithCause(errors.Wrap(err, "do request"))
	}
	page, err := courier.ReadBody(resp.Body)
	resp.Body.Close()
	if err != nil {
		return courier.Session{}, errGetFailed.WithCause(err)
	}
	pageCookies := resp.Cookies()

	token, ok := ExtractToken(page)
	if !ok {
		return courier.Session{}, errTokenNotFound
	}

	if creds.Empty() {
		return courier.Session{}, errNoCreds
	}

	form := url.Values{}
	form.Set("_token", token)
	form.Set("email", creds.Login)
	form.Set("password", creds.Password)

	req, err = http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", strings.NewReader(form.Encode()))
	if err != nil {
		return courier.Session{}, errPostFailed.WithCause(errors.Wrap(err, "new request"))
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", courier.BrowserUserAgent)
	for _, ck := range pageCookies {
		req.AddCookie(&http.Cookie{Name: ck.Name, Value: ck.Value})
	}

	resp, err = c.httpc.Do(req)
	if err != nil {
		return courier.Session{}, errPostFailed.WithCause(errors.Wrap(err, "do request"))
	}
	resp.Body.Close()

	if len(resp.Header.Values("Set-Cookie")) == 0 {
		return courier.Session{}, errLoginFailed
	}

	sessionCookie, found, err := courier.SetCookieValue(resp.Header, sessionCookieName)
	if err != nil || !found {
		return courier.Session{}, errCookieParseFail
	}
	xsrf, found, err := courier.SetCookieValue(resp.Header, xsrfCookieName)
	if err != nil || !found {
		return courier.Session{}, errCookieParseFail
	}

	return courier.Session{Artifacts: map[string]string{
		courier.ArtifactSessionCookie: sessionCookie,
		courier.ArtifactXSRFToken:     xsrf,
	}}, nil
}

// Fetch возвращает сырой JSON консайнментов по телефону или nil.
func (c *Client) Fetch(ctx context.Context, sess courier.Session, searchTerm string) []byte {
	b, err := c.fetch(ctx, sess, searchTerm)
	if err != nil {
		metrics.ProviderFetches.WithLabelValues("steadfast", metrics.OutcomeAbsent).Inc()
		return nil
	}
	metrics.ProviderFetches.WithLabelValues("steadfast", metrics.OutcomeOK).Inc()
	return b
}

func (c *Client) fetch(ctx context.Context, sess courier.Session, searchTerm string) ([]byte, error) {
	u := c.baseURL + "/user/consignment/getbyphone/" + url.PathEscape(searchTerm)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrap(err, "new request")
	}
	xsrf := sess.Get(courier.ArtifactXSRFToken)
	req.Header.Set("Cookie", sessionCookieName+"="+sess.Get(courier.ArtifactSessionCookie)+"; "+xsrfCookieName+"="+xsrf)
	req.Header.Set("X-XSRF-TOKEN", xsrf)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", courier.BrowserUserAgent)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "do request")
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, errors.Errorf("steadfast http %d", resp.StatusCode)
	}
	return courier.ReadBody(resp.Body)
}
