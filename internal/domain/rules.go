package domain

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	skuPattern      = regexp.MustCompile(`^[A-Z0-9-]{3,40}$`)
	currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)
)

// Rules validates request payloads against the product business rules.
// Violations are aggregated: every failing field is reported, not just the first.
type Rules struct {
	validate *validator.Validate
}

// NewRules builds a validator with the product-specific rules registered.
func NewRules() *Rules {
	v := validator.New()

	// Report fields under their json names so violation details match the wire format.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Let numeric comparison tags (gt=0) apply to decimal amounts.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	mustRegister(v, "sku", func(fl validator.FieldLevel) bool {
		return skuPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "currency_code", func(fl validator.FieldLevel) bool {
		return currencyPattern.MatchString(fl.Field().String())
	})

	return &Rules{validate: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

// Validate checks s against its validate tags. It returns nil when valid,
// a *ValidationError listing every violated field, or the underlying error
// when validation itself could not run.
func (r *Rules) Validate(s any) error {
	err := r.validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return fmt.Errorf("validation could not run: %w", err)
	}
	details := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		details = append(details, fe.Field()+": "+violationMessage(fe))
	}
	return &ValidationError{Details: details}
}

// violationMessage maps a failed rule to its client-facing message.
func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		if fe.Kind() == reflect.String {
			return "must not be blank"
		}
		return "must not be null"
	case "sku":
		return "SKU must contain 3-40 alphanumeric characters or hyphens"
	case "currency_code":
		return "Currency must be a 3-letter ISO code"
	case "min", "max":
		return "size must be between 2 and 120"
	case "gt":
		return "must be greater than " + fe.Param()
	default:
		return "failed on rule: " + fe.Tag()
	}
}
