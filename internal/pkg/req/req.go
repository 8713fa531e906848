/*
Package req binds JSON request bodies and validates them with struct tags.

Binding and validation are separate steps so that handlers can report a
malformed body and a structurally incomplete one differently.
*/
package req

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"convlo/internal/pkg/errs"
)

// MaxBodyBytes caps the size of a JSON request body.
const MaxBodyBytes int64 = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// notblank rejects strings that are empty after trimming whitespace.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// BindJSON decodes the request body into dst. Unknown fields are ignored.
// An empty body is reported as ErrInvalidParams.
func BindJSON(r *http.Request, dst any) *errs.CustomError {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		return errs.NewError(errs.ErrUnsupportedMediaType)
	}

	decoder := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))

	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errs.NewError(errs.ErrInvalidParams)
		}
		return errs.NewError(errs.ErrInvalidJSONFormat)
	}

	if decoder.More() {
		return errs.NewError(errs.ErrExtraContentInBody)
	}

	return nil
}

// Validate runs the struct-tag rules on v. Any violation is ErrInvalidParams.
func Validate(v any) *errs.CustomError {
	if err := validate.Struct(v); err != nil {
		return errs.NewError(errs.ErrInvalidParams)
	}
	return nil
}

// BindAndValidate is BindJSON followed by Validate.
func BindAndValidate(r *http.Request, dst any) *errs.CustomError {
	if customErr := BindJSON(r, dst); customErr != nil {
		return customErr
	}
	return Validate(dst)
}
