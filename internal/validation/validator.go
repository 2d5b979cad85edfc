// Package validation checks command line input before any work starts.
//
// Each command describes its arguments as a Schema: per-field rules (required,
// length, pattern, allowed values) plus cross-field rules such as mutually
// exclusive switches. Commands turn their flags and arguments into a string
// map and call Validate; a failed result converts to an AppError.
package validation

import (
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/dpshade/vaultforge/internal/config"
	"github.com/dpshade/vaultforge/internal/errors"
	"github.com/dpshade/vaultforge/internal/models"
)

// Schema names.
const (
	SchemaAIOptions   = "ai_options"
	SchemaModelChange = "model_change"
	SchemaPromptMode  = "prompt_mode"
)

// FieldValidator provides validation rules for individual fields
type FieldValidator struct {
	Required  bool
	MinLength int
	MaxLength int
	Pattern   *regexp.Regexp
	Options   []string
}

// ValidationResult represents the result of validation
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
	// ruleErr is the first failing cross-field rule, kept so its own error
	// code survives ToAppError.
	ruleErr error
}

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string
	Code    string
	Message string
}

// Schema represents a validation schema
type Schema struct {
	Name   string
	Fields map[string]FieldValidator
	Rules  []func(map[string]string) error
}

// Validator holds the registered schemas.
type Validator struct {
	schemas map[string]*Schema
}

var (
	modeName  = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)
	modelName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._:/@-]*$`)
)

// NewValidator creates a validator with the built-in schemas.
func NewValidator() *Validator {
	v := &Validator{schemas: make(map[string]*Schema)}
	v.registerBuiltinSchemas()
	return v
}

// RegisterSchema registers a validation schema
func (v *Validator) RegisterSchema(schema *Schema) {
	v.schemas[schema.Name] = schema
}

// Validate validates data against a schema. Absent keys and empty values
// are the same thing.
func (v *Validator) Validate(schemaName string, data map[string]string) *ValidationResult {
	schema, ok := v.schemas[schemaName]
	if !ok {
		return &ValidationResult{Errors: []ValidationError{{
			Field:   "schema",
			Code:    "SCHEMA_NOT_FOUND",
			Message: fmt.Sprintf("validation schema %q not found", schemaName),
		}}}
	}

	result := &ValidationResult{Valid: true}

	// Sorted so the first reported error is stable.
	names := make([]string, 0, len(schema.Fields))
	for name := range schema.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		validateField(name, schema.Fields[name], data[name], result)
	}

	for _, rule := range schema.Rules {
		if err := rule(data); err != nil {
			result.Valid = false
			if result.ruleErr == nil {
				result.ruleErr = err
			}
			result.Errors = append(result.Errors, ValidationError{
				Field:   "schema",
				Code:    "SCHEMA_RULE_VIOLATION",
				Message: err.Error(),
			})
		}
	}
	return result
}

func validateField(name string, f FieldValidator, value string, result *ValidationResult) {
	fail := func(code, format string, args ...any) {
		result.Valid = false
		result.Errors = append(result.Errors, ValidationError{
			Field:   name,
			Code:    code,
			Message: fmt.Sprintf(format, args...),
		})
	}

	if value == "" {
		if f.Required {
			fail("REQUIRED_FIELD_MISSING", "%s is required", name)
		}
		return
	}
	if f.MinLength > 0 && len(value) < f.MinLength {
		fail("TOO_SHORT", "%s must be at least %d characters", name, f.MinLength)
		return
	}
	if f.MaxLength > 0 && len(value) > f.MaxLength {
		fail("TOO_LONG", "%s must be at most %d characters", name, f.MaxLength)
		return
	}
	if f.Pattern != nil && !f.Pattern.MatchString(value) {
		fail("INVALID_FORMAT", "%s %q has an invalid format", name, value)
		return
	}
	if len(f.Options) > 0 && !slices.Contains(f.Options, value) {
		fail("INVALID_OPTION", "%s must be one of: %s", name, strings.Join(f.Options, ", "))
	}
}

func (v *Validator) registerBuiltinSchemas() {
	v.RegisterSchema(&Schema{
		Name: SchemaAIOptions,
		Fields: map[string]FieldValidator{
			"preset": {Required: true, MaxLength: 64, Pattern: modeName},
			"model":  {MaxLength: 200, Pattern: modelName},
		},
		Rules: []func(map[string]string) error{
			exclusive("stream", "normal"),
			exclusive("stream", "detach"),
			exclusive("normal", "detach"),
		},
	})

	v.RegisterSchema(&Schema{
		Name: SchemaModelChange,
		Fields: map[string]FieldValidator{
			"provider": {Required: true, Options: config.Providers},
			"model":    {Required: true, MaxLength: 200, Pattern: modelName},
		},
	})

	modes := make([]string, len(models.PromptModes))
	for i, m := range models.PromptModes {
		modes[i] = string(m)
	}
	v.RegisterSchema(&Schema{
		Name: SchemaPromptMode,
		Fields: map[string]FieldValidator{
			"mode": {Required: true, Options: modes},
		},
	})
}

// exclusive fails when both boolean switches a and b are "true".
func exclusive(a, b string) func(map[string]string) error {
	return func(data map[string]string) error {
		if data[a] == "true" && data[b] == "true" {
			return errors.OptionConflictError(a, b)
		}
		return nil
	}
}

// Flag renders a boolean switch for a data map.
func Flag(on bool) string {
	if on {
		return "true"
	}
	return ""
}

// ToAppError converts a failed result to an AppError. Rule failures keep
// their own code; field failures become validation errors.
func (result *ValidationResult) ToAppError() *errors.AppError {
	if result.Valid {
		return nil
	}
	if result.ruleErr != nil {
		return errors.GetAppError(result.ruleErr)
	}
	if len(result.Errors) == 0 {
		return errors.ValidationError("", "validation failed")
	}

	first := result.Errors[0]
	appErr := errors.InvalidInputError(first.Message).
		WithContext("field", first.Field).
		WithContext("code", first.Code)
	if len(result.Errors) > 1 {
		var more []string
		for _, e := range result.Errors[1:] {
			more = append(more, e.Message)
		}
		appErr = appErr.WithDetails("also: " + strings.Join(more, "; "))
	}
	return appErr
}
