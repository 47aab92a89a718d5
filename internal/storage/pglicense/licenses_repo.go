package pglicense

import (
	"context"
	"encoding/json"
	"time"

	"github.com/BearBump/CourierGate/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

const licenseColumns = `
  id, license_key, product_id, order_id, status, expires_at,
  activation_limit, current_activations, activated_domains, allow_courier_api,
  created_at, updated_at`

// GetLicenseByKey: (nil, nil), если ключа нет.
func (s *Storage) GetLicenseByKey(ctx context.Context, key string) (*models.License, error) {
	row := s.db.QueryRow(ctx, `SELECT `+licenseColumns+` FROM licenses WHERE license_key = $1`, key)
	l, err := scanLicense(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "select license")
	}
	return l, nil
}

func (s *Storage) UpdateLicenseStatus(ctx context.Context, id uint64, status string) error {
	_, err := s.db.Exec(ctx, `UPDATE licenses SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return errors.Wrap(err, "update license status")
	}
	return nil
}

func (s *Storage) SaveActivations(ctx context.Context, id uint64, count int, domains []string) error {
	if domains == nil {
		domains = []string{}
	}
	b, err := json.Marshal(domains)
	if err != nil {
		return errors.Wrap(err, "marshal domains")
	}
	tag, err := s.db.Exec(ctx, `
UPDATE licenses
SET current_activations = $2, activated_domains = $3, updated_at = now()
WHERE id = $1
`, id, count, b)
	if err != nil {
		return errors.Wrap(err, "update activations")
	}
	if tag.RowsAffected() == 0 {
		return errors.Errorf("license %d not found", id)
	}
	return nil
}

func (s *Storage) CreateLicense(ctx context.Context, in models.LicenseCreateInput) (*models.License, error) {
	status := in.Status
	if status == "" {
		status = models.LicenseStatusInactive
	}
	limit := in.ActivationLimit
	if limit <= 0 {
		limit = 1
	}

	row := s.db.QueryRow(ctx, `
INSERT INTO licenses (license_key, product_id, order_id, status, expires_at, activation_limit, allow_courier_api)
VALUES ($1,$2,$3,$4,$5,$6,$7)
RETURNING `+licenseColumns, in.LicenseKey, in.ProductID, in.OrderID, status, in.ExpiresAt, limit, in.AllowCourierAPI)
	l, err := scanLicense(row)
	if err != nil {
		return nil, errors.Wrap(err, "insert license")
	}
	return l, nil
}

func (s *Storage) LicenseKeyExists(ctx context.Context, key string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM licenses WHERE license_key = $1)`, key).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "check license key")
	}
	return exists, nil
}

func (s *Storage) CountLicensesForOrderProduct(ctx context.Context, orderID, productID uint64) (int, error) {
	var n int
	err := s.db.QueryRow(ctx, `SELECT count(*) FROM licenses WHERE order_id = $1 AND product_id = $2`, orderID, productID).Scan(&n)
	if err != nil {
		return 0, errors.Wrap(err, "count licenses")
	}
	return n, nil
}

func scanLicense(row pgx.Row) (*models.License, error) {
	var (
		l         models.License
		expiresAt *time.Time
		domains   []byte
	)
	err := row.Scan(
		&l.ID, &l.LicenseKey, &l.ProductID, &l.OrderID, &l.Status, &expiresAt,
		&l.ActivationLimit, &l.CurrentActivations, &domains, &l.AllowCourierAPI,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if expiresAt != nil {
		t := expiresAt.UTC()
		l.ExpiresAt = &t
	}
	l.ActivatedDomains = decodeDomains(domains)
	return &l, nil
}

// decodeDomains: всё, что не JSON-массив строк, читается как пустой список.
func decodeDomains(b []byte) []string {
	out := []string{}
	if len(b) == 0 {
		return out
	}
	if err := json.Unmarshal(b, &out); err != nil || out == nil {
		return []string{}
	}
	return out
}
