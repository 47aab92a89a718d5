package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/BearBump/CourierGate/internal/cache"
	"github.com/BearBump/CourierGate/internal/integrations/courier"
	"github.com/BearBump/CourierGate/internal/metrics"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL: сколько живёт сессия провайдера после логина.
const DefaultTTL = 3 * time.Hour

// Acquirer отдаёт закэшированную сессию провайдера или логинится заново.
// Параллельные логины внутри процесса схлопываются в один.
type Acquirer struct {
	provider string
	login    courier.LoginFunc
	cache    cache.BytesCache
	ttl      time.Duration
	now      func() time.Time

	group singleflight.Group

	// без внешнего кэша сессия живёт в памяти процесса
	mu    sync.Mutex
	local *courier.Session
}

func New(provider string, login courier.LoginFunc, c cache.BytesCache, ttl time.Duration) *Acquirer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Acquirer{
		provider: provider,
		login:    login,
		cache:    c,
		ttl:      ttl,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (a *Acquirer) cacheKey() string {
	return "courier:session:" + a.provider
}

func (a *Acquirer) Acquire(ctx context.Context, creds courier.Credentials) (courier.Session, error) {
	if s, ok := a.cached(ctx); ok {
		metrics.SessionAcquires.WithLabelValues(a.provider, "cached").Inc()
		return s, nil
	}

	// общий логин не зависит от отмены запроса, который его начал:
	// к нему могут присоединиться другие запросы
	ch := a.group.DoChan(a.provider, func() (any, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), courier.DefaultTimeout)
		defer cancel()

		if s, ok := a.cached(lctx); ok {
			return s, nil
		}
		s, err := a.login(lctx, creds)
		if err != nil {
			return courier.Session{}, err
		}
		if s.AcquiredAt.IsZero() {
			s.AcquiredAt = a.now()
		}
		a.store(lctx, s)
		return s, nil
	})

	var v any
	var err error
	select {
	case <-ctx.Done():
		err = ctx.Err()
	case res := <-ch:
		v, err = res.Val, res.Err
	}
	if err != nil {
		metrics.SessionAcquires.WithLabelValues(a.provider, metrics.OutcomeError).Inc()
		logrus.WithFields(logrus.Fields{
			"component": "session",
			"provider":  a.provider,
		}).WithError(err).Warn("provider login failed")
		return courier.Session{}, err
	}
	metrics.SessionAcquires.WithLabelValues(a.provider, "login").Inc()
	return v.(courier.Session), nil
}

func (a *Acquirer) fresh(s courier.Session) bool {
	return !s.AcquiredAt.IsZero() && a.now().Before(s.AcquiredAt.Add(a.ttl))
}

func (a *Acquirer) cached(ctx context.Context) (courier.Session, bool) {
	if a.cache == nil {
		a.mu.Lock()
		defer a.mu.Unlock()
		if a.local != nil && a.fresh(*a.local) {
			return *a.local, true
		}
		return courier.Session{}, false
	}

	b, ok, err := a.cache.Get(ctx, a.cacheKey())
	if err != nil || !ok {
		return courier.Session{}, false
	}
	var s courier.Session
	if json.Unmarshal(b, &s) != nil || len(s.Artifacts) == 0 || !a.fresh(s) {
		return courier.Session{}, false
	}
	return s, true
}

func (a *Acquirer) store(ctx context.Context, s courier.Session) {
	if a.cache == nil {
		a.mu.Lock()
		a.local = &s
		a.mu.Unlock()
		return
	}
	b, err := json.Marshal(s)
	if err != nil {
		return
	}
	ttl := s.AcquiredAt.Add(a.ttl).Sub(a.now())
	if ttl <= 0 {
		return
	}
	if err := a.cache.Set(ctx, a.cacheKey(), b, ttl); err != nil {
		logrus.WithFields(logrus.Fields{
			"component": "session",
			"provider":  a.provider,
		}).WithError(err).Warn("session cache write failed")
	}
}
