package middleware

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/dawapos/backend/internal/infrastructure/payment"
)

// SetupValidator registers custom validation tags on gin's binding
// validator and makes error messages use JSON field names.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	// msisdn accepts any Kenyan mobile number format the gateway can
	// normalize (2547XXXXXXXX, 07XXXXXXXX, +254...)
	_ = v.RegisterValidation("msisdn", func(fl validator.FieldLevel) bool {
		_, err := payment.NormalizeMsisdn(fl.Field().String())
		return err == nil
	})
}
