package messages

import "time"

// LicenseGranted: заказ оплачен, по нему нужно выпустить лицензии.
type LicenseGranted struct {
	EventID         string    `json:"event_id"`
	OrderID         uint64    `json:"order_id"`
	ProductID       uint64    `json:"product_id"`
	Quantity        int       `json:"quantity"`
	FormatID        uint64    `json:"format_id"`
	DurationDays    int       `json:"duration_days"`
	ActivationLimit int       `json:"activation_limit"`
	GrantCourierAPI bool      `json:"grant_courier_api"`
	GrantedAt       time.Time `json:"granted_at"`
}

// LicenseIssued публикуется после выпуска ключей по одному LicenseGranted.
type LicenseIssued struct {
	EventID     string     `json:"event_id"`
	OrderID     uint64     `json:"order_id"`
	ProductID   uint64     `json:"product_id"`
	LicenseKeys []string   `json:"license_keys"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	IssuedAt    time.Time  `json:"issued_at"`
	Error       *string    `json:"error,omitempty"`
}
