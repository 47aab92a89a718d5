package courier_api

import (
	"net/http"

	"github.com/BearBump/CourierGate/internal/apperr"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"
)

// ErrorResponse: формат ошибок WP REST: {"code","message","data":{"status",...}}.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

var errInternal = apperr.New(apperr.KindStorage, http.StatusInternalServerError, "internal_error", "Internal server error.")

func renderError(w http.ResponseWriter, r *http.Request, err error) {
	e, ok := apperr.As(err)
	if !ok {
		e = errInternal.WithCause(err)
	}

	status := e.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		logrus.WithFields(logrus.Fields{
			"component":  "courier-api",
			"request_id": middleware.GetReqID(r.Context()),
			"code":       e.Code,
			"path":       r.URL.Path,
		}).WithError(err).Error("request failed")
	}

	data := make(map[string]any, len(e.Data)+1)
	for k, v := range e.Data {
		data[k] = v
	}
	data["status"] = status

	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Code: e.Code, Message: e.Message, Data: data})
}
