package models

import "time"

const (
	ProviderSteadfast = "steadfast"
	ProviderRedX      = "redx"
	ProviderPathao    = "pathao"
	ProviderHoorin    = "hoorin"
)

const (
	DataSourceHoorin = "hoorin"
	DataSourceDirect = "direct"
)

const DefaultCacheDurationHours = 6

// CourierSettings: операторские настройки агрегатора. Хранятся одной JSON-строкой.
type CourierSettings struct {
	DataSource         string `json:"data_source"`
	CacheDurationHours *int   `json:"cache_duration,omitempty"`
	HoorinAPIKeys      string `json:"hoorin_api_keys"`
	PathaoBearerToken  string `json:"pathao_bearer_token"`
	RedexPhone         string `json:"redex_phone"`
	RedexPassword      string `json:"redex_password"`
	SteadfastEmail     string `json:"steadfast_email"`
	SteadfastPassword  string `json:"steadfast_password"`
}

// MaxCacheDurationHours: потолок TTL кэша, часы из настроек не переполняют time.Duration.
const MaxCacheDurationHours = 24 * 365

// CacheTTL: не задано -> 6ч, 0 (или меньше) -> кэш выключен.
func (s CourierSettings) CacheTTL() time.Duration {
	h := DefaultCacheDurationHours
	if s.CacheDurationHours != nil {
		h = *s.CacheDurationHours
	}
	if h <= 0 {
		return 0
	}
	if h > MaxCacheDurationHours {
		h = MaxCacheDurationHours
	}
	return time.Duration(h) * time.Hour
}

func (s CourierSettings) Direct() bool {
	return s.DataSource == DataSourceDirect
}

type ParcelSummary struct {
	Total     int `json:"Total Parcels"`
	Delivered int `json:"Delivered Parcels"`
	Canceled  int `json:"Canceled Parcels"`
}

type DeliverySummary struct {
	Total      int `json:"Total Delivery"`
	Successful int `json:"Successful Delivery"`
	Canceled   int `json:"Canceled Delivery"`
}

type Summaries struct {
	Steadfast ParcelSummary   `json:"Steadfast"`
	RedX      ParcelSummary   `json:"RedX"`
	Pathao    DeliverySummary `json:"Pathao"`
}

type CourierReport struct {
	Summaries Summaries `json:"Summaries"`
}
