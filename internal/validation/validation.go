// Package validation turns go-playground/validator results into the flat
// field-path → code map the API returns, e.g. {"items.0.description": "required"}.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Add records a violation for a field path, keeping the first code per field.
func (v Violations) Add(field, code string) {
	if _, exists := v[field]; !exists {
		v[field] = code
	}
}

// Merge copies violations from other under a path prefix ("items.0").
func (v Violations) Merge(prefix string, other Violations) {
	for field, code := range other {
		v.Add(prefix+"."+field, code)
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	vd := validator.New(validator.WithRequiredStructEnabled())
	// report field paths by json tag, not Go field name
	vd.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return vd
}

// Struct validates s against its `validate` tags and returns the violations.
func Struct(s any) Violations {
	v := Violations{}
	err := validate.Struct(s)
	if err == nil {
		return v
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		v.Add("_", "invalid")
		return v
	}
	for _, fe := range verrs {
		v.Add(fieldPath(fe.Namespace()), codeFor(fe.Tag()))
	}
	return v
}

// fieldPath converts a validator namespace like
// "createOfferRequest.items[0].description" into "items.0.description".
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	ns = strings.ReplaceAll(ns, "[", ".")
	ns = strings.ReplaceAll(ns, "]", "")
	return ns
}

func codeFor(tag string) string {
	switch tag {
	case "required":
		return "required"
	case "gt", "gte":
		return "must_be_positive"
	case "min", "max", "lte":
		return "out_of_range"
	case "oneof":
		return "invalid_value"
	case "email":
		return "invalid_email"
	case "datetime":
		return "invalid_date"
	default:
		return tag
	}
}
