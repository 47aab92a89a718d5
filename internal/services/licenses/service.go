package licenses

import (
	"context"
	"strings"
	"time"

	"github.com/BearBump/CourierGate/internal/apperr"
	"github.com/BearBump/CourierGate/internal/models"
	"github.com/sirupsen/logrus"
)

var (
	errMissingParameters = apperr.Validation("missing_parameters", "Missing required parameters: license_key and domain.")
	errInvalidKey        = apperr.Forbidden("invalid_key", "The provided license key is invalid.")
	errKeyNotActive      = apperr.Forbidden("key_not_active", "This license key is not active.")
	errKeyExpired        = apperr.Forbidden("key_expired", "This license key has expired.")
	errLimitReached      = apperr.Forbidden("limit_reached", "This license key has reached its activation limit.")
	errNotActivatedHere  = apperr.Validation("not_activated_here", "This license is not activated on the specified domain.")
)

type Repository interface {
	GetLicenseByKey(ctx context.Context, key string) (*models.License, error)
	UpdateLicenseStatus(ctx context.Context, id uint64, status string) error
	SaveActivations(ctx context.Context, id uint64, count int, domains []string) error
}

type Service struct {
	repo Repository
	now  func() time.Time
	log  *logrus.Entry
}

func New(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
		log:  logrus.WithField("component", "licenses"),
	}
}

type ActivationResult struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

func (s *Service) lookup(ctx context.Context, key string) (*models.License, error) {
	l, err := s.repo.GetLicenseByKey(ctx, key)
	if err != nil {
		return nil, apperr.Storage("db_error", "Could not read license data from the database.", err)
	}
	if l == nil {
		return nil, errInvalidKey
	}
	return l, nil
}

// markExpired: ленивое истечение; ошибка записи не меняет результата проверки.
func (s *Service) markExpired(ctx context.Context, l *models.License) {
	if err := s.repo.UpdateLicenseStatus(ctx, l.ID, models.LicenseStatusExpired); err != nil {
		s.log.WithField("license_id", l.ID).WithError(err).Warn("mark license expired failed")
	}
}

// Activate привязывает домен к лицензии. Повторная активация того же домена: успех без изменений.
func (s *Service) Activate(ctx context.Context, key, domain string) (ActivationResult, error) {
	key, domain = strings.TrimSpace(key), strings.TrimSpace(domain)
	if key == "" || domain == "" {
		return ActivationResult{}, errMissingParameters
	}

	l, err := s.lookup(ctx, key)
	if err != nil {
		return ActivationResult{}, err
	}

	if l.Status != models.LicenseStatusActive {
		if l.Status == models.LicenseStatusExpired {
			return ActivationResult{}, errKeyExpired
		}
		return ActivationResult{}, errKeyNotActive
	}
	if l.ExpiredAt(s.now()) {
		s.markExpired(ctx, l)
		return ActivationResult{}, errKeyExpired
	}

	if l.HasDomain(domain) {
		return ActivationResult{
			Success:   true,
			Message:   "License is already activated on this domain.",
			ExpiresAt: l.ExpiresAtString(),
		}, nil
	}

	current := max(l.CurrentActivations, 0)
	if current >= l.ActivationLimit {
		return ActivationResult{}, errLimitReached
	}

	domains := append(append([]string{}, l.ActivatedDomains...), domain)
	if err := s.repo.SaveActivations(ctx, l.ID, current+1, domains); err != nil {
		return ActivationResult{}, apperr.Storage("db_error", "Could not save activation data to the database.", err)
	}

	s.log.WithFields(logrus.Fields{"license_id": l.ID, "activations": current + 1}).Info("license activated")
	return ActivationResult{
		Success:   true,
		Message:   "License activated successfully.",
		ExpiresAt: l.ExpiresAtString(),
	}, nil
}

// Deactivate отвязывает домен. Статус лицензии не проверяется.
func (s *Service) Deactivate(ctx context.Context, key, domain string) (ActivationResult, error) {
	key, domain = strings.TrimSpace(key), strings.TrimSpace(domain)
	if key == "" || domain == "" {
		return ActivationResult{}, errMissingParameters
	}

	l, err := s.lookup(ctx, key)
	if err != nil {
		return ActivationResult{}, err
	}

	idx := -1
	for i, d := range l.ActivatedDomains {
		if d == domain {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ActivationResult{}, errNotActivatedHere
	}

	domains := make([]string, 0, len(l.ActivatedDomains)-1)
	domains = append(domains, l.ActivatedDomains[:idx]...)
	domains = append(domains, l.ActivatedDomains[idx+1:]...)
	count := max(l.CurrentActivations-1, 0)

	if err := s.repo.SaveActivations(ctx, l.ID, count, domains); err != nil {
		return ActivationResult{}, apperr.Storage("db_error", "Could not save deactivation data to the database.", err)
	}

	s.log.WithFields(logrus.Fields{"license_id": l.ID, "activations": count}).Info("license deactivated")
	return ActivationResult{
		Success: true,
		Message: "License deactivated successfully.",
	}, nil
}
