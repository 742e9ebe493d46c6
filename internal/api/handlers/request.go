package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const maxRequestBodySize = 5 * 1024 * 1024

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DecodeRequest reads a JSON body into v and validates its struct tags.
// The returned error message is safe to show to the client.
func DecodeRequest(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.New("invalid request body")
	}

	if err := validate.Struct(v); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			if fe.Tag() == "required" {
				return fmt.Errorf("%s is required", fe.Field())
			}
			return fmt.Errorf("%s failed %s validation", fe.Field(), fe.Tag())
		}
		return fmt.Errorf("invalid request: %w", err)
	}

	return nil
}
