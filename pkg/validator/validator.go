package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	playground "github.com/go-playground/validator/v10"
)

// Validator provides validation functionality
type Validator interface {
	Validate(interface{}) error
	ValidateField(field string, value interface{}, rules ...string) error
}

// FieldError lists the fields of a draft that failed validation, using the
// human label declared on each struct field.
type FieldError struct {
	Missing []string
	Invalid []string
}

func (e *FieldError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("Veuillez remplir tous les champs obligatoires (%s)", strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("Champs invalides (%s)", strings.Join(e.Invalid, ", "))
}

type validator struct {
	v *playground.Validate
}

func New() Validator {
	v := playground.New()
	// Report fields by their `label` tag, falling back to the form/json name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"label", "form", "json"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})
	return &validator{v: v}
}

func (v *validator) Validate(obj interface{}) error {
	err := v.v.Struct(obj)
	if err == nil {
		return nil
	}
	var verrs playground.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	return collect(verrs)
}

func (v *validator) ValidateField(field string, value interface{}, rules ...string) error {
	err := v.v.Var(value, strings.Join(rules, ","))
	if err == nil {
		return nil
	}
	var verrs playground.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fe := &FieldError{}
	for _, e := range verrs {
		if isMissing(e.Tag()) {
			fe.Missing = append(fe.Missing, field)
		} else {
			fe.Invalid = append(fe.Invalid, field)
		}
	}
	return fe
}

func collect(verrs playground.ValidationErrors) *FieldError {
	fe := &FieldError{}
	for _, e := range verrs {
		if isMissing(e.Tag()) {
			fe.Missing = append(fe.Missing, e.Field())
		} else {
			fe.Invalid = append(fe.Invalid, e.Field())
		}
	}
	return fe
}

func isMissing(tag string) bool {
	return tag == "required" || strings.HasPrefix(tag, "required_")
}
