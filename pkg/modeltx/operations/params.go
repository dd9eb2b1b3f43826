package operations

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/modeltx/modeltx/pkg/modeltx/core"
)

// validate is shared across handlers. Field names in validation errors use
// the json tag so they match what the caller actually sent.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeParams converts the loose parameter map from the call boundary into
// a typed parameter struct and validates it. Every handler shares this
// missing/invalid-field error path.
func decodeParams(op string, params map[string]any, into any) error {
	data, err := json.Marshal(params)
	if err != nil {
		return &core.ValidationError{Op: op, Reason: "parameters are not encodable", Cause: err}
	}
	if err := json.Unmarshal(data, into); err != nil {
		return &core.ValidationError{Op: op, Reason: "parameters do not match the expected shape", Cause: err}
	}
	if err := validate.Struct(into); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return &core.ValidationError{
				Op:     op,
				Field:  fe.Field(),
				Reason: "failed " + fe.Tag() + " constraint",
			}
		}
		return &core.ValidationError{Op: op, Reason: "invalid parameters", Cause: err}
	}
	return nil
}

// failValidation converts a decode error into the uniform validation result.
func failValidation(err error) core.OperationResult {
	return core.Fail(core.ErrKindValidation, err.Error())
}
