// Amora - Matchmaking Platform Go Client
// Copyright 2026 Amora Contributors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/amora-app/amora-go

// Package validation provides struct validation using go-playground/validator v10.
//
// It exposes a thread-safe singleton validator with custom rules for the
// client-side input checks the platform expects before a request is issued:
// chat message length, media privacy values, and upload MIME types. These are
// soft UX constraints; the server re-validates everything.
//
//	type sendInput struct {
//	    Text string `validate:"required,chatmessage"`
//	}
//	if err := validation.ValidateStruct(&in); err != nil { ... }
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// MaxMessageLength is the client-side ceiling for one chat message.
const MaxMessageLength = 200

// MaxUploadSize is the client-side ceiling for one media upload.
const MaxUploadSize = 5 << 20

// allowedUploadMIME lists the media types the upload form accepts, enforced
// by the uploadmime rule.
var allowedUploadMIME = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
	"video/mp4":  {},
	"video/webm": {},
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is a single field validation failure with structured information.
type FieldError struct {
	field   string
	tag     string
	param   string
	message string
}

// Field returns the struct field name that failed validation.
func (e FieldError) Field() string { return e.field }

// Tag returns the validation tag that failed.
func (e FieldError) Tag() string { return e.tag }

// Error returns a human-readable error message.
func (e FieldError) Error() string { return e.message }

// InputError is a collection of field validation failures. It satisfies the
// error interface so callers can surface it directly as the inline message.
type InputError struct {
	errors []FieldError
}

// Errors returns the individual field errors.
func (ie *InputError) Errors() []FieldError { return ie.errors }

// Error implements the error interface, joining all field messages.
func (ie *InputError) Error() string {
	if len(ie.errors) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(ie.errors))
	for i, err := range ie.errors {
		messages[i] = err.message
	}
	return strings.Join(messages, "; ")
}

// GetValidator returns the singleton validator instance, registering the
// custom rules on first use.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// chatmessage: non-whitespace content within MaxMessageLength runes.
		_ = validate.RegisterValidation("chatmessage", func(fl validator.FieldLevel) bool {
			text := fl.Field().String()
			if strings.TrimSpace(text) == "" {
				return false
			}
			return len([]rune(text)) <= MaxMessageLength
		})

		// mediaprivacy: the fixed privacy enum for uploads.
		_ = validate.RegisterValidation("mediaprivacy", func(fl validator.FieldLevel) bool {
			switch fl.Field().String() {
			case "public", "friends", "private":
				return true
			}
			return false
		})

		// uploadmime: MIME types the gallery accepts.
		_ = validate.RegisterValidation("uploadmime", func(fl validator.FieldLevel) bool {
			_, ok := allowedUploadMIME[fl.Field().String()]
			return ok
		})
	})

	return validate
}

// ValidateStruct validates a struct using the singleton validator.
// Returns nil on success or *InputError describing every failed field.
func ValidateStruct(s interface{}) *InputError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return &InputError{errors: []FieldError{{
			field:   "unknown",
			tag:     "unknown",
			message: err.Error(),
		}}}
	}

	fieldErrors := make([]FieldError, len(validationErrs))
	for i, fieldErr := range validationErrs {
		fieldErrors[i] = FieldError{
			field:   fieldErr.Field(),
			tag:     fieldErr.Tag(),
			param:   fieldErr.Param(),
			message: translateError(fieldErr),
		}
	}

	return &InputError{errors: fieldErrors}
}

// errorMessageTemplates maps validation tags to message templates taking the
// field name.
var errorMessageTemplates = map[string]string{
	"required":     "%s is required",
	"email":        "%s must be a valid email address",
	"chatmessage":  "%s must be non-empty and at most 200 characters",
	"mediaprivacy": "%s must be public, friends, or private",
	"uploadmime":   "%s is not a supported image or video type",
	"datetime":     "%s must be a yyyy-mm-dd date",
	"url":          "%s must be a valid URL",
}

// errorMessageWithParam maps validation tags to templates that include the
// tag parameter.
var errorMessageWithParam = map[string]string{
	"oneof": "%s must be one of: %s",
	"min":   "%s must be at least %s",
	"max":   "%s must be at most %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
}

// translateError converts a validator.FieldError to a human-readable message.
func translateError(fe validator.FieldError) string {
	field := fe.Field()
	tag := fe.Tag()

	if template, ok := errorMessageTemplates[tag]; ok {
		return fmt.Sprintf(template, field)
	}
	if template, ok := errorMessageWithParam[tag]; ok {
		return fmt.Sprintf(template, field, fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", field, tag)
}
