package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report JSON names instead of Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return WrapError(ErrCodeInvalid, "invalid payload", err)
	}
	fields := make([]FieldError, 0, len(vErrs))
	for _, fe := range vErrs {
		fields = append(fields, FieldError{Field: fe.Field(), Error: describe(fe)})
	}
	return WrapError(ErrCodeInvalid, "invalid payload", &ValidationError{Fields: fields})
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return fmt.Sprintf("failed on %q", fe.Tag())
	}
}

// Validate checks field constraints and the completion invariant.
func (t *Task) Validate() error {
	if t == nil {
		return ErrInvalidPayload
	}
	if err := validateStruct(t); err != nil {
		return err
	}
	return t.CheckIntegrity()
}

// CheckIntegrity reports a DATA_INTEGRITY error when the completion date does not
// agree with the completion flag or precedes the creation date.
func (t *Task) CheckIntegrity() error {
	switch {
	case t.Completed && t.CompletedDate == nil:
		return WrapError(ErrCodeDataIntegrity, fmt.Sprintf("task %q", t.ID), ErrMissingCompletionDate)
	case !t.Completed && t.CompletedDate != nil:
		return NewError(ErrCodeDataIntegrity, fmt.Sprintf("task %q: pending task has a completion date", t.ID))
	case t.CompletedDate != nil && t.CompletedDate.Before(CalendarDate(t.CreatedDate)):
		return NewError(ErrCodeDataIntegrity, fmt.Sprintf("task %q: completed before it was created", t.ID))
	}
	return nil
}

func (u *User) Validate() error {
	if u == nil {
		return ErrInvalidPayload
	}
	return validateStruct(u)
}
