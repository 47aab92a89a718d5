package courier

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// DefaultTimeout: лимит на один исходящий вызов к курьерской службе.
const DefaultTimeout = 15 * time.Second

// maxBodyBytes ограничивает чтение ответов апстримов.
const maxBodyBytes = 2 << 20

// BrowserUserAgent: заголовок, с которым ходят логин-боты.
const BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Имена артефактов в Session.
const (
	ArtifactCookie        = "cookie"
	ArtifactSessionCookie = "session_cookie"
	ArtifactXSRFToken     = "xsrf_token"
	ArtifactAuthorization = "authorization"
)

type Credentials struct {
	Login    string
	Password string
}

func (c Credentials) Empty() bool {
	return c.Login == "" || c.Password == ""
}

// Session — аутентификационные артефакты провайдера. Не логировать.
type Session struct {
	Artifacts  map[string]string `json:"artifacts"`
	AcquiredAt time.Time         `json:"acquired_at"`
}

func (s Session) Get(name string) string {
	if s.Artifacts == nil {
		return ""
	}
	return s.Artifacts[name]
}

// BearerSession оборачивает статический токен в Session.
// Префикс "Bearer " добавляется, если его ещё нет (без учёта регистра).
func BearerSession(token string) Session {
	token = strings.TrimSpace(token)
	if len(token) < 7 || !strings.EqualFold(token[:7], "bearer ") {
		token = "Bearer " + token
	}
	return Session{Artifacts: map[string]string{ArtifactAuthorization: token}}
}

// LoginFunc выполняет полный логин у провайдера.
type LoginFunc func(ctx context.Context, creds Credentials) (Session, error)

// Fetcher: прямой запрос статистики по телефону. nil означает "нет данных".
type Fetcher interface {
	Fetch(ctx context.Context, sess Session, searchTerm string) []byte
}

// NewHTTPClient: без редиректов, т.к. логин-боты читают Set-Cookie с 302.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Timeout: DefaultTimeout,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func ReadBody(r io.Reader) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, maxBodyBytes))
	if err != nil {
		return nil, errors.Wrap(err, "read body")
	}
	return b, nil
}

// SetCookieValue ищет cookie с указанным именем среди всех Set-Cookie ответа.
// found=false: cookie нет; err: строка есть, но разобрать её нельзя.
func SetCookieValue(h http.Header, name string) (value string, found bool, err error) {
	for _, line := range h.Values("Set-Cookie") {
		if !strings.HasPrefix(strings.TrimSpace(line), name+"=") {
			continue
		}
		c, perr := http.ParseSetCookie(line)
		if perr != nil {
			return "", true, errors.Wrapf(perr, "parse cookie %s", name)
		}
		if c.Value == "" {
			return "", true, errors.Errorf("cookie %s is empty", name)
		}
		return c.Value, true, nil
	}
	return "", false, nil
}
