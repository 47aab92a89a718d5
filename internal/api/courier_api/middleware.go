package courier_api

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/BearBump/CourierGate/internal/apperr"
	"github.com/sirupsen/logrus"
)

type ctxKey struct{}

// LicenseKeyFromContext: ключ, прошедший RequireCourierLicense.
func LicenseKeyFromContext(ctx context.Context) (string, bool) {
	k, ok := ctx.Value(ctxKey{}).(string)
	return k, ok
}

// RequireCourierLicense пропускает только запросы с лицензией, которой разрешён курьерский API.
func RequireCourierLicense(gate CourierGate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, err := gate.AuthorizeCourier(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				renderError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, key)))
		})
	}
}

type Limiter interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, error)
}

var errRateLimited = apperr.New(apperr.KindRateLimit, http.StatusTooManyRequests, "rate_limited", "Too many requests for this license. Try again later.")

// RateLimit: минутное окно на ключ лицензии. Ошибка лимитера запрос не блокирует.
func RateLimit(l Limiter, perMinute int) func(http.Handler) http.Handler {
	log := logrus.WithField("component", "ratelimit")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, _ := LicenseKeyFromContext(r.Context())

			allowed, n, err := l.Allow(r.Context(), rateLimitSubject(key), int64(perMinute), time.Minute)
			if err != nil {
				log.WithError(err).Warn("rate limiter unavailable, allowing request")
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				w.Header().Set("Retry-After", "60")
				renderError(w, r, errRateLimited.With("count", n).With("limit", perMinute))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ключ лицензии в Redis не пишем, только префикс хэша
func rateLimitSubject(licenseKey string) string {
	sum := sha256.Sum256([]byte(licenseKey))
	return "courier:" + hex.EncodeToString(sum[:8])
}
