package middleware

import (
	"reflect"
	"strings"
	"sync"

	"marketplace-booking/internal/domain/availability"
	"marketplace-booking/internal/pkg/errs"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// FieldError is one failed binding rule, keyed by the JSON field name.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var (
	registerOnce sync.Once
	registerErr  error
)

var customErrorMessages = map[string]string{
	"required": "Field is required",
	"hhmm":     "Must be a time of day formatted HH:MM",
	"min":      "Value is too small",
	"max":      "Value is too large",
	"oneof":    "Value is not allowed",
	"url":      "Must be an absolute URL",
}

// RegisterValidators installs custom tags on gin's validator engine. Safe to
// call more than once.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		if err := v.RegisterValidation("hhmm", validateHHMM); err != nil {
			registerErr = err
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return fld.Name
			}
			return name
		})
	})
	return registerErr
}

func validateHHMM(fl validator.FieldLevel) bool {
	_, err := availability.ParseTimeOfDay(fl.Field().String())
	return err == nil
}

// BindingErrors flattens validator errors for the response detail. Other
// errors (malformed JSON) yield nil.
func BindingErrors(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errs.As(err, &verrs) {
		return nil
	}
	out := make([]FieldError, 0, len(verrs))
	for _, e := range verrs {
		msg := customErrorMessages[e.Tag()]
		if msg == "" {
			msg = e.Error()
		}
		out = append(out, FieldError{Field: e.Field(), Message: msg})
	}
	return out
}
