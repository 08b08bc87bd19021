// Flowengine - Local Interest Engine for Streaming Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flowengine

package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// singleton validator instance
var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is a single field validation failure.
type FieldError struct {
	namespace string
	field     string
	tag       string
	param     string
	value     any
	message   string
}

// Namespace returns the dotted path of the field, e.g. "Config.Recorder.Workers".
func (e *FieldError) Namespace() string { return e.namespace }

// Field returns the struct field name that failed validation.
func (e *FieldError) Field() string { return e.field }

// Tag returns the validation tag that failed.
func (e *FieldError) Tag() string { return e.tag }

// Param returns the tag parameter (e.g. "64" for "max=64").
func (e *FieldError) Param() string { return e.param }

// Value returns the value that failed validation.
func (e *FieldError) Value() any { return e.value }

func (e *FieldError) Error() string { return e.message }

// Error is the set of field failures from one ValidateStruct call.
type Error struct {
	fields []FieldError
}

// Fields returns the individual failures in struct order.
func (e *Error) Fields() []FieldError {
	return e.fields
}

func (e *Error) Error() string {
	if len(e.fields) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(e.fields))
	for i := range e.fields {
		messages[i] = e.fields[i].message
	}
	return strings.Join(messages, "; ")
}

// GetValidator returns the singleton validator instance with the custom
// tags registered. It is safe for concurrent use.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// notblank: string is not empty after trimming whitespace
		_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		// hour: wall-clock hour 0-23
		_ = validate.RegisterValidation("hour", func(fl validator.FieldLevel) bool {
			h := fl.Field().Int()
			return h >= 0 && h <= 23
		})
	})
	return validate
}

// ValidateStruct validates s against its struct tags. It returns nil or an
// *Error listing every failed field.
func ValidateStruct(s any) error {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &Error{fields: []FieldError{{
			field:   "unknown",
			tag:     "unknown",
			message: err.Error(),
		}}}
	}

	fields := make([]FieldError, len(verrs))
	for i, fe := range verrs {
		fields[i] = FieldError{
			namespace: fe.Namespace(),
			field:     fe.Field(),
			tag:       fe.Tag(),
			param:     fe.Param(),
			value:     fe.Value(),
			message:   translateError(fe),
		}
	}
	return &Error{fields: fields}
}

// messageTemplates maps tags to templates taking the field namespace.
var messageTemplates = map[string]string{
	"required": "%s is required",
	"notblank": "%s must not be blank",
	"hour":     "%s must be an hour between 0 and 23",
}

// messageWithParam maps tags to templates taking the namespace and param.
var messageWithParam = map[string]string{
	"oneof":            "%s must be one of: %s",
	"gte":              "%s must be greater than or equal to %s",
	"lte":              "%s must be less than or equal to %s",
	"gt":               "%s must be greater than %s",
	"lt":               "%s must be less than %s",
	"gtfield":          "%s must be greater than %s",
	"required_without": "%s is required unless %s is set",
	"required_if":      "%s is required when %s",
}

// translateError converts a validator.FieldError to a readable message that
// names the full field path.
func translateError(fe validator.FieldError) string {
	name := fe.Namespace()
	tag := fe.Tag()
	param := fe.Param()

	if template, ok := messageTemplates[tag]; ok {
		return fmt.Sprintf(template, name)
	}
	if template, ok := messageWithParam[tag]; ok {
		return fmt.Sprintf(template, name, param)
	}
	return translateMinMax(fe, name, tag, param)
}

// translateMinMax handles min/max with type-specific messages.
func translateMinMax(fe validator.FieldError, name, tag, param string) string {
	var unit string
	switch fe.Kind().String() {
	case "string":
		unit = " characters"
	case "slice", "map", "array":
		unit = " items"
	}

	switch tag {
	case "min":
		return fmt.Sprintf("%s must be at least %s%s (got %v)", name, param, unit, fe.Value())
	case "max":
		return fmt.Sprintf("%s must be at most %s%s", name, param, unit)
	default:
		return fmt.Sprintf("%s failed %s validation (value %v)", name, tag, fe.Value())
	}
}
