package couriercheck

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/BearBump/CourierGate/internal/apperr"
	"github.com/BearBump/CourierGate/internal/cache"
	"github.com/BearBump/CourierGate/internal/integrations/courier"
	"github.com/BearBump/CourierGate/internal/integrations/courier/hoorin"
	"github.com/BearBump/CourierGate/internal/metrics"
	"github.com/BearBump/CourierGate/internal/models"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DefaultTimeout: общий дедлайн одного запроса статуса.
const DefaultTimeout = 45 * time.Second

var (
	errSearchTermRequired = apperr.New(apperr.KindValidation, http.StatusBadRequest, "400_bad_request", "searchTerm is required in the JSON body.")
	errPathaoTokenMissing = apperr.Config("pathao_token_missing", "Pathao Bearer Token is not set.")
)

type SettingsSource interface {
	GetCourierSettings(ctx context.Context) (models.CourierSettings, error)
}

type Aggregator interface {
	Lookup(ctx context.Context, keys []string, searchTerm string) (json.RawMessage, error)
}

type SessionAcquirer interface {
	Acquire(ctx context.Context, creds courier.Credentials) (courier.Session, error)
}

// Providers: всё, что нужно обоим режимам.
type Providers struct {
	Hoorin Aggregator

	SteadfastSession SessionAcquirer
	RedXSession      SessionAcquirer

	Steadfast courier.Fetcher
	RedX      courier.Fetcher
	Pathao    courier.Fetcher
}

type Service struct {
	settings SettingsSource
	cache    cache.BytesCache
	p        Providers
	timeout  time.Duration
	log      *logrus.Entry
}

func New(settings SettingsSource, c cache.BytesCache, p Providers, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{
		settings: settings,
		cache:    c,
		p:        p,
		timeout:  timeout,
		log:      logrus.WithField("component", "couriercheck"),
	}
}

func cacheKey(term string) string {
	sum := md5.Sum([]byte(term))
	return "courier_data_" + hex.EncodeToString(sum[:])
}

// Check отдаёт отчёт по номеру телефона: из кэша, от агрегатора или напрямую от курьеров.
func (s *Service) Check(ctx context.Context, searchTerm string) (json.RawMessage, error) {
	term := strings.TrimSpace(searchTerm)
	if term == "" {
		return nil, errSearchTermRequired
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	st, err := s.settings.GetCourierSettings(ctx)
	if err != nil {
		return nil, apperr.Storage("settings_unavailable", "Courier settings could not be loaded.", err)
	}

	ttl := st.CacheTTL()
	key := cacheKey(term)
	if ttl > 0 && s.cache != nil {
		if b, ok := s.cachedReport(ctx, key); ok {
			return b, nil
		}
	}

	var out json.RawMessage
	if st.Direct() {
		out, err = s.direct(ctx, st, term)
	} else {
		out, err = s.p.Hoorin.Lookup(ctx, hoorin.ParseKeys(st.HoorinAPIKeys), term)
	}
	if err != nil {
		return nil, err
	}

	if ttl > 0 && s.cache != nil {
		if err := s.cache.Set(ctx, key, out, ttl); err != nil {
			s.log.WithError(err).Warn("report cache write failed")
		}
	}
	return out, nil
}

func (s *Service) cachedReport(ctx context.Context, key string) (json.RawMessage, bool) {
	b, ok, err := s.cache.Get(ctx, key)
	switch {
	case err != nil:
		metrics.CacheLookups.WithLabelValues(metrics.OutcomeError).Inc()
		s.log.WithError(err).Warn("report cache read failed")
		return nil, false
	case !ok || !json.Valid(b):
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}
	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return json.RawMessage(b), true
}

// direct: без Pathao-токена не начинаем; ошибка любой сессии фатальна,
// ошибки самих запросов дают нули по провайдеру.
func (s *Service) direct(ctx context.Context, st models.CourierSettings, term string) (json.RawMessage, error) {
	if strings.TrimSpace(st.PathaoBearerToken) == "" {
		return nil, errPathaoTokenMissing
	}

	var redxSess, sfSess courier.Session
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		redxSess, err = s.p.RedXSession.Acquire(gctx, courier.Credentials{Login: st.RedexPhone, Password: st.RedexPassword})
		return err
	})
	g.Go(func() error {
		var err error
		sfSess, err = s.p.SteadfastSession.Acquire(gctx, courier.Credentials{Login: st.SteadfastEmail, Password: st.SteadfastPassword})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var sfBody, redxBody, pathaoBody []byte
	fg, fctx := errgroup.WithContext(ctx)
	fg.Go(func() error {
		pathaoBody = s.p.Pathao.Fetch(fctx, courier.BearerSession(st.PathaoBearerToken), term)
		return nil
	})
	fg.Go(func() error {
		redxBody = s.p.RedX.Fetch(fctx, redxSess, term)
		return nil
	})
	fg.Go(func() error {
		sfBody = s.p.Steadfast.Fetch(fctx, sfSess, term)
		return nil
	})
	_ = fg.Wait()

	b, err := json.Marshal(Normalize(sfBody, pathaoBody, redxBody))
	if err != nil {
		return nil, errors.Wrap(err, "marshal report")
	}
	return b, nil
}
