package service

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sirpyerre/storefront/internal/core/domain"
)

var delimiterNames = map[rune]string{',': "comma", '|': "pipe", '\r': "carriage return", '\n': "line break"}

// inputValidator checks ports input structs and reports every failed field
// in one domain.ErrValidation.
type inputValidator struct {
	v *validator.Validate
}

func newInputValidator() *inputValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.ToLower(f.Name)
	})
	// Registration only fails for an empty tag or a nil func.
	_ = v.RegisterValidation("finite", finite)
	return &inputValidator{v: v}
}

// finite rejects NaN and the infinities on float fields.
func finite(fl validator.FieldLevel) bool {
	f := fl.Field()
	switch f.Kind() {
	case reflect.Float32, reflect.Float64:
		v := f.Float()
		return !math.IsNaN(v) && !math.IsInf(v, 0)
	}
	return true
}

func (iv *inputValidator) Validate(in any) error {
	err := iv.v.Struct(in)
	if err == nil {
		return nil
	}

	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	problems := make([]string, len(fields))
	for i, fe := range fields {
		problems[i] = describe(fe)
	}
	return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(problems, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " must not be empty"
	case "gte":
		return fmt.Sprintf("%s must not be below %s", fe.Field(), fe.Param())
	case "finite":
		return fe.Field() + " must be a finite number"
	case "excludesall":
		return fe.Field() + " must not contain a " + charNames(fe.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
	}
}

// charNames spells out excluded characters, e.g. ",|" as "comma or pipe".
func charNames(chars string) string {
	names := make([]string, 0, len(chars))
	for _, r := range chars {
		if n, ok := delimiterNames[r]; ok {
			names = append(names, n)
		} else {
			names = append(names, fmt.Sprintf("%q", r))
		}
	}
	return strings.Join(names, " or ")
}
