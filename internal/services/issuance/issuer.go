package issuance

import (
	"context"
	"encoding/json"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/BearBump/CourierGate/internal/apperr"
	"github.com/BearBump/CourierGate/internal/broker/kafka"
	"github.com/BearBump/CourierGate/internal/broker/messages"
	"github.com/BearBump/CourierGate/internal/metrics"
	"github.com/BearBump/CourierGate/internal/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// MaxQuantity: верхняя граница ключей на один сигнал.
const MaxQuantity = 100

type Repository interface {
	KeyStore
	CountLicensesForOrderProduct(ctx context.Context, orderID, productID uint64) (int, error)
	CreateLicense(ctx context.Context, in models.LicenseCreateInput) (*models.License, error)
}

type Publisher interface {
	PublishJSON(ctx context.Context, topic, key string, v any) error
}

type Stats struct {
	Handled int64 `json:"handled"`
	Skipped int64 `json:"skipped"`
	Issued  int64 `json:"issued"`
	Dropped int64 `json:"dropped"`
	Errors  int64 `json:"errors"`

	LastHandledAt *time.Time `json:"last_handled_at,omitempty"`
	LastError     *string    `json:"last_error,omitempty"`
}

type Issuer struct {
	repo        Repository
	keys        *KeyGenerator
	pub         Publisher
	issuedTopic string
	now         func() time.Time
	log         *logrus.Entry

	handled atomic.Int64
	skipped atomic.Int64
	issued  atomic.Int64
	dropped atomic.Int64
	errs    atomic.Int64

	lastHandled atomic.Pointer[time.Time]
	lastErr     atomic.Pointer[string]
}

func NewIssuer(repo Repository, keys *KeyGenerator, pub Publisher, issuedTopic string) *Issuer {
	return &Issuer{
		repo:        repo,
		keys:        keys,
		pub:         pub,
		issuedTopic: issuedTopic,
		now:         func() time.Time { return time.Now().UTC() },
		log:         logrus.WithField("component", "issuance"),
	}
}

func (i *Issuer) Stats() Stats {
	return Stats{
		Handled:       i.handled.Load(),
		Skipped:       i.skipped.Load(),
		Issued:        i.issued.Load(),
		Dropped:       i.dropped.Load(),
		Errors:        i.errs.Load(),
		LastHandledAt: i.lastHandled.Load(),
		LastError:     i.lastErr.Load(),
	}
}

func (i *Issuer) fail(err error) error {
	i.errs.Add(1)
	s := err.Error()
	i.lastErr.Store(&s)
	return err
}

// HandleMessage: обработчик для kafka.Consumer.
func (i *Issuer) HandleMessage(ctx context.Context, key, value []byte) error {
	var msg messages.LicenseGranted
	if err := json.Unmarshal(value, &msg); err != nil {
		i.dropped.Add(1)
		return errors.Wrapf(kafka.ErrDrop, "decode license.granted: %v", err)
	}
	_, err := i.Issue(ctx, msg)
	return err
}

// Issue выпускает лицензии по сигналу. Повторный сигнал для той же пары
// (order, product) пропускается. Возвращает выпущенные ключи.
func (i *Issuer) Issue(ctx context.Context, msg messages.LicenseGranted) ([]string, error) {
	now := i.now()
	i.handled.Add(1)
	i.lastHandled.Store(&now)

	log := i.log.WithFields(logrus.Fields{"order_id": msg.OrderID, "product_id": msg.ProductID})

	if msg.OrderID == 0 || msg.ProductID == 0 {
		i.dropped.Add(1)
		return nil, errors.Wrap(kafka.ErrDrop, "order_id and product_id are required")
	}
	if msg.Quantity > MaxQuantity {
		i.dropped.Add(1)
		return nil, errors.Wrapf(kafka.ErrDrop, "quantity %d exceeds %d", msg.Quantity, MaxQuantity)
	}

	n, err := i.repo.CountLicensesForOrderProduct(ctx, msg.OrderID, msg.ProductID)
	if err != nil {
		return nil, i.fail(errors.Wrap(err, "count existing licenses"))
	}
	if n > 0 {
		i.skipped.Add(1)
		log.Info("licenses already issued, skipping")
		return nil, nil
	}

	if msg.FormatID == 0 {
		i.skipped.Add(1)
		log.Warn("no license format selected, skipping")
		return nil, nil
	}

	var expiresAt *time.Time
	if msg.DurationDays > 0 {
		t := now.AddDate(0, 0, msg.DurationDays)
		expiresAt = &t
	}
	limit := msg.ActivationLimit
	if limit <= 0 {
		limit = 1
	}

	keys := make([]string, 0, max(msg.Quantity, 0))
	var batchErr error
	for q := 0; q < msg.Quantity; q++ {
		key, err := i.keys.Generate(ctx, msg.FormatID)
		if err != nil {
			// дальше по этому формату генерировать бессмысленно
			batchErr = err
			log.WithError(err).Error("license key generation failed")
			break
		}
		_, err = i.repo.CreateLicense(ctx, models.LicenseCreateInput{
			LicenseKey:      key,
			ProductID:       msg.ProductID,
			OrderID:         msg.OrderID,
			Status:          models.LicenseStatusActive,
			ExpiresAt:       expiresAt,
			ActivationLimit: limit,
			AllowCourierAPI: msg.GrantCourierAPI,
		})
		if err != nil {
			// хранилище недоступно: остальные вставки упадут так же
			batchErr = errors.Wrap(err, "insert license")
			log.WithError(err).Error("license insert failed")
			break
		}
		keys = append(keys, key)
	}

	if _, permanent := apperr.As(batchErr); batchErr != nil && !permanent && len(keys) == 0 {
		// сбой хранилища до первой вставки: сообщение придёт повторно
		return nil, i.fail(batchErr)
	}

	i.issued.Add(int64(len(keys)))
	metrics.LicensesIssued.Add(float64(len(keys)))
	if batchErr != nil {
		_ = i.fail(batchErr)
	}

	if len(keys) == 0 && batchErr == nil {
		return keys, nil
	}

	event := messages.LicenseIssued{
		EventID:     uuid.NewString(),
		OrderID:     msg.OrderID,
		ProductID:   msg.ProductID,
		LicenseKeys: keys,
		ExpiresAt:   expiresAt,
		IssuedAt:    now,
	}
	if batchErr != nil {
		s := batchErr.Error()
		event.Error = &s
	}
	if i.pub != nil {
		if err := i.pub.PublishJSON(ctx, i.issuedTopic, strconv.FormatUint(msg.OrderID, 10), event); err != nil {
			// лицензии уже записаны; повторная доставка сигнала их не перевыпустит
			log.WithError(err).Error("publish license.issued failed")
			_ = i.fail(err)
		}
	}

	log.WithField("issued", len(keys)).Info("licenses issued")
	return keys, nil
}
