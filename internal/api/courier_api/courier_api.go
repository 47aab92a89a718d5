package courier_api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/BearBump/CourierGate/internal/services/licenses"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type LicenseService interface {
	Activate(ctx context.Context, key, domain string) (licenses.ActivationResult, error)
	Deactivate(ctx context.Context, key, domain string) (licenses.ActivationResult, error)
}

type CourierGate interface {
	AuthorizeCourier(ctx context.Context, authHeader string) (string, error)
}

type CourierChecker interface {
	Check(ctx context.Context, searchTerm string) (json.RawMessage, error)
}

type LicenseRequest struct {
	LicenseKey string `json:"license_key" form:"license_key" validate:"omitempty,max=128,printascii"`
	Domain     string `json:"domain" form:"domain" validate:"omitempty,max=253"`
}

type CourierStatusRequest struct {
	SearchTerm string `json:"searchTerm" form:"searchTerm" validate:"omitempty,max=64"`
}

type API struct {
	licenses LicenseService
	gate     CourierGate
	checker  CourierChecker
	limiter  Limiter
	perMin   int
	validate *validator.Validate
}

type Option func(*API)

// WithRateLimit включает лимит на /courier/status. perMinute <= 0: без лимита.
func WithRateLimit(l Limiter, perMinute int) Option {
	return func(a *API) {
		a.limiter = l
		a.perMin = perMinute
	}
}

func New(ls LicenseService, gate CourierGate, checker CourierChecker, opts ...Option) *API {
	a := &API{
		licenses: ls,
		gate:     gate,
		checker:  checker,
		validate: newValidator(),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Routes монтируется в корень роутера приложения.
func (a *API) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/license/activate", a.activate)
	r.Post("/license/deactivate", a.deactivate)

	r.Group(func(r chi.Router) {
		r.Use(RequireCourierLicense(a.gate))
		if a.limiter != nil && a.perMin > 0 {
			r.Use(RateLimit(a.limiter, a.perMin))
		}
		r.Post("/courier/status", a.courierStatus)
	})
	return r
}

func (a *API) activate(w http.ResponseWriter, r *http.Request) {
	var req LicenseRequest
	if err := a.bind(r, &req); err != nil {
		renderError(w, r, err)
		return
	}
	res, err := a.licenses.Activate(r.Context(), req.LicenseKey, req.Domain)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, res)
}

func (a *API) deactivate(w http.ResponseWriter, r *http.Request) {
	var req LicenseRequest
	if err := a.bind(r, &req); err != nil {
		renderError(w, r, err)
		return
	}
	res, err := a.licenses.Deactivate(r.Context(), req.LicenseKey, req.Domain)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, res)
}

func (a *API) courierStatus(w http.ResponseWriter, r *http.Request) {
	var req CourierStatusRequest
	if err := a.bind(r, &req); err != nil {
		renderError(w, r, err)
		return
	}
	report, err := a.checker.Check(r.Context(), req.SearchTerm)
	if err != nil {
		renderError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(report)
}
