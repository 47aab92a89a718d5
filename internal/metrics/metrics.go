package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "couriergate_cache_lookups_total",
		Help: "Courier report cache lookups by result (hit, miss, error).",
	}, []string{"result"})

	ProviderFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "couriergate_provider_fetch_total",
		Help: "Upstream courier data calls by provider and outcome.",
	}, []string{"provider", "outcome"})

	SessionAcquires = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "couriergate_session_acquire_total",
		Help: "Provider session acquisitions by outcome (cached, login, error).",
	}, []string{"provider", "outcome"})

	LicenseChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "couriergate_license_checks_total",
		Help: "Courier API license gate decisions.",
	}, []string{"outcome"})

	LicensesIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "couriergate_licenses_issued_total",
		Help: "License keys issued from grant messages.",
	})
)

const (
	OutcomeOK     = "ok"
	OutcomeError  = "error"
	OutcomeAbsent = "absent"
)
