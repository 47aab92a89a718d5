package models

import "time"

// Статусы лицензии.
const (
	LicenseStatusActive   = "active"
	LicenseStatusInactive = "inactive"
	LicenseStatusExpired  = "expired"
)

// ExpiresAtLayout: формат expires_at в ответах активации.
const ExpiresAtLayout = "2006-01-02 15:04:05"

// ExpiresAtLifetime отдаётся вместо даты для бессрочных лицензий.
const ExpiresAtLifetime = "Lifetime"

type License struct {
	ID                 uint64
	LicenseKey         string
	ProductID          uint64
	OrderID            uint64
	Status             string
	ExpiresAt          *time.Time
	ActivationLimit    int
	CurrentActivations int
	ActivatedDomains   []string
	AllowCourierAPI    bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ExpiredAt: nil ExpiresAt никогда не истекает.
func (l *License) ExpiredAt(now time.Time) bool {
	return l.ExpiresAt != nil && now.After(*l.ExpiresAt)
}

func (l *License) HasDomain(domain string) bool {
	for _, d := range l.ActivatedDomains {
		if d == domain {
			return true
		}
	}
	return false
}

func (l *License) ExpiresAtString() string {
	if l.ExpiresAt == nil {
		return ExpiresAtLifetime
	}
	return l.ExpiresAt.UTC().Format(ExpiresAtLayout)
}

type LicenseFormat struct {
	ID          uint64
	Name        string
	Prefix      string
	Suffix      string
	ChunkLength int
	TotalChunks int
}

type LicenseCreateInput struct {
	LicenseKey      string
	ProductID       uint64
	OrderID         uint64
	Status          string
	ExpiresAt       *time.Time
	ActivationLimit int
	AllowCourierAPI bool
}
