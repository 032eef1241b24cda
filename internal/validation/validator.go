// SocialPulse - Social and On-Chain Company Metrics
// Copyright 2026 J. P. Carmona (jpcarmona)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jpcarmona/socialpulse

// Package validation provides struct validation using
// go-playground/validator v10: a thread-safe singleton instance with a
// custom "platform" rule, and error translation into the API's
// VALIDATION_ERROR shape.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/jpcarmona/socialpulse/internal/models"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is a single field validation failure.
type FieldError struct {
	Field   string
	Tag     string
	Param   string
	Message string
}

func (e *FieldError) Error() string { return e.Message }

// RequestValidationError aggregates field failures for one request.
type RequestValidationError struct {
	errors []FieldError
}

// Errors returns the individual field failures.
func (ve *RequestValidationError) Errors() []FieldError { return ve.errors }

func (ve *RequestValidationError) Error() string {
	if len(ve.errors) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(ve.errors))
	for i, err := range ve.errors {
		messages[i] = err.Message
	}
	return strings.Join(messages, "; ")
}

// ToAPIError converts the failures to the API error payload.
func (ve *RequestValidationError) ToAPIError() *models.APIError {
	apiErr := &models.APIError{Code: "VALIDATION_ERROR", Message: ve.Error()}
	if len(ve.errors) == 1 {
		apiErr.Details = map[string]any{
			"field": ve.errors[0].Field,
			"tag":   ve.errors[0].Tag,
		}
		return apiErr
	}
	if len(ve.errors) > 1 {
		fields := make([]map[string]any, len(ve.errors))
		for i, err := range ve.errors {
			fields[i] = map[string]any{
				"field":   err.Field,
				"tag":     err.Tag,
				"message": err.Message,
			}
		}
		apiErr.Details = map[string]any{"fields": fields}
	}
	return apiErr
}

// GetValidator returns the singleton validator. Thread-safe; the instance
// caches struct metadata across calls.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// "platform" accepts the supported platform names.
		_ = validate.RegisterValidation("platform", func(fl validator.FieldLevel) bool {
			_, err := models.ParsePlatform(fl.Field().String())
			return err == nil
		})
	})
	return validate
}

// ValidateStruct validates s, returning nil on success or a
// *RequestValidationError describing every failed field.
func ValidateStruct(s any) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return &RequestValidationError{errors: []FieldError{
			{Field: "unknown", Tag: "unknown", Message: err.Error()},
		}}
	}

	fieldErrors := make([]FieldError, len(validationErrs))
	for i, fe := range validationErrs {
		fieldErrors[i] = FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Message: translateError(fe),
		}
	}
	return &RequestValidationError{errors: fieldErrors}
}

// translateError converts a field failure to a human-readable message.
func translateError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "platform":
		return fmt.Sprintf("%s must be one of: linkedin, twitter, telegram, medium, onchain", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}
