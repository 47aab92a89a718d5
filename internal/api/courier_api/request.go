package courier_api

import (
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/BearBump/CourierGate/internal/apperr"
	"github.com/ajg/form"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

const maxBodyBytes = 64 << 10

var errInvalidJSON = apperr.Validation("rest_invalid_json", "Invalid JSON body passed.")

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// bind принимает JSON или form-urlencoded. Пустое тело не ошибка:
// обязательность полей проверяют сервисы.
func (a *API) bind(r *http.Request, v any) error {
	body := io.LimitReader(r.Body, maxBodyBytes)

	var err error
	switch render.GetRequestContentType(r) {
	case render.ContentTypeForm:
		// лишние поля формы (action, nonce и т.п.) не ошибка
		dec := form.NewDecoder(body)
		dec.IgnoreUnknownKeys(true)
		err = dec.Decode(v)
	default:
		err = render.DecodeJSON(body, v)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return errInvalidJSON.WithCause(err)
	}

	trimStrings(v)
	if err := a.validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return apperr.Validation("rest_invalid_param", "Invalid parameter(s): "+verrs[0].Field()).
				With("params", fieldNames(verrs))
		}
		return apperr.Validation("rest_invalid_param", "Invalid parameter(s).").WithCause(err)
	}
	return nil
}

func fieldNames(verrs validator.ValidationErrors) []string {
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fe.Field())
	}
	return out
}

func trimStrings(v any) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return
	}
	rv = rv.Elem()
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if f.Kind() == reflect.String && f.CanSet() {
			f.SetString(strings.TrimSpace(f.String()))
		}
	}
}
