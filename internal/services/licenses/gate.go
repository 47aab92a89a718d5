package licenses

import (
	"context"
	"strings"

	"github.com/BearBump/CourierGate/internal/apperr"
	"github.com/BearBump/CourierGate/internal/metrics"
	"github.com/BearBump/CourierGate/internal/models"
)

type GateReason string

const (
	GateOK           GateReason = "ok"
	GateNotFound     GateReason = "not_found"
	GateNotActive    GateReason = "not_active"
	GateExpired      GateReason = "expired"
	GateNoPermission GateReason = "no_permission"
)

type GateResult struct {
	Valid  bool
	Reason GateReason
}

const (
	msgUnauthorizedLicense = "Invalid or unauthorized license."
	msgLicenseExpired      = "This license has expired."
	msgNoCourierPermission = "This license does not have permission to access the courier API."
)

var (
	errHeaderMissing   = apperr.Unauthorized("401_unauthorized", "Authorization header is missing.")
	errHeaderMalformed = apperr.Unauthorized("401_unauthorized", `Authorization header is malformed. Expected "Bearer <KEY>".`)
	errHeaderNoKey     = apperr.Unauthorized("401_unauthorized", "No license key provided in Authorization header.")
)

// ParseBearer достаёт ключ из "Bearer <KEY>". Регистр схемы важен.
func ParseBearer(header string) (string, error) {
	if strings.TrimSpace(header) == "" {
		return "", errHeaderMissing
	}
	rest, ok := strings.CutPrefix(header, "Bearer")
	if !ok {
		return "", errHeaderMalformed
	}
	if rest == "" || (rest[0] != ' ' && rest[0] != '\t') {
		return "", errHeaderMalformed
	}
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return "", errHeaderNoKey
	}
	return fields[0], nil
}

// CheckCourierAccess решает, может ли лицензия ходить в курьерский API.
// Ошибка возвращается только при сбое хранилища.
func (s *Service) CheckCourierAccess(ctx context.Context, key string) (GateResult, error) {
	l, err := s.repo.GetLicenseByKey(ctx, key)
	if err != nil {
		return GateResult{}, apperr.Storage("db_error", "Could not read license data from the database.", err)
	}
	switch {
	case l == nil:
		return GateResult{Reason: GateNotFound}, nil
	case l.Status != models.LicenseStatusActive:
		return GateResult{Reason: GateNotActive}, nil
	case l.ExpiredAt(s.now()):
		s.markExpired(ctx, l)
		return GateResult{Reason: GateExpired}, nil
	case !l.AllowCourierAPI:
		return GateResult{Reason: GateNoPermission}, nil
	}
	return GateResult{Valid: true, Reason: GateOK}, nil
}

// AuthorizeCourier: заголовок -> ключ -> проверка. Возвращает ключ при успехе.
func (s *Service) AuthorizeCourier(ctx context.Context, authHeader string) (string, error) {
	key, err := ParseBearer(authHeader)
	if err != nil {
		metrics.LicenseChecks.WithLabelValues("unauthorized").Inc()
		return "", err
	}
	res, err := s.CheckCourierAccess(ctx, key)
	if err != nil {
		metrics.LicenseChecks.WithLabelValues(metrics.OutcomeError).Inc()
		return "", err
	}
	metrics.LicenseChecks.WithLabelValues(string(res.Reason)).Inc()

	switch res.Reason {
	case GateOK:
		return key, nil
	case GateExpired:
		return "", apperr.Forbidden("403_forbidden", msgLicenseExpired)
	case GateNoPermission:
		return "", apperr.Forbidden("403_forbidden", msgNoCourierPermission)
	default:
		return "", apperr.Forbidden("403_forbidden", msgUnauthorizedLicense)
	}
}
