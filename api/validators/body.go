package validators

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/lapulperia/lapulperia-backend/pkg/errors"
)

const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DecodeJSONBody parses and validates a JSON request body into dst. Unknown
// fields are rejected and validation failures carry a per-field detail map.
func DecodeJSONBody(r *http.Request, dst any) error {
	defer func() {
		_, _ = io.Copy(io.Discard, r.Body)
		_ = r.Body.Close()
	}()

	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "cuerpo de la petición inválido")
	}
	if decoder.More() {
		return pkgerrors.New(pkgerrors.CodeValidation, "cuerpo de la petición inválido")
	}

	if err := validate.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return pkgerrors.New(pkgerrors.CodeValidation, "datos inválidos").
				WithDetails(formatValidationErrors(validationErrors))
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "datos inválidos")
	}
	return nil
}

func formatValidationErrors(errs validator.ValidationErrors) map[string]any {
	details := make(map[string]any, len(errs))
	for _, fieldErr := range errs {
		details[fieldErr.Field()] = fmt.Sprintf("failed %s validation", fieldErr.Tag())
	}
	return details
}
