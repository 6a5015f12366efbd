package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationResult holds the result of configuration validation.
type ValidationResult struct {
	Valid    bool
	Errors   []ValidationError
	Warnings []string
}

// Validate checks the configuration for errors and warnings.
func (c *Config) Validate() *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   []ValidationError{},
		Warnings: []string{},
	}

	// Struct tag rules
	if err := newValidator().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				result.addError(fieldPath(fe), describe(fe))
			}
		} else {
			result.addError("config", err.Error())
		}
	}

	if c.ConfirmWord != strings.TrimSpace(c.ConfirmWord) {
		result.addError("confirm_word", "confirm word cannot have surrounding whitespace")
	}

	if c.Storage.Type == "local" && c.ModulesPath != "" {
		info, err := os.Stat(c.GetModulesPath())
		switch {
		case os.IsNotExist(err):
			result.addError("modules_path", fmt.Sprintf("path does not exist: %s", c.ModulesPath))
		case err != nil:
			result.addError("modules_path", err.Error())
		case !info.IsDir():
			result.addError("modules_path", fmt.Sprintf("not a directory: %s", c.ModulesPath))
		}
	}

	if c.Execution.Timeout < 0 {
		result.addError("execution.timeout", "timeout cannot be negative")
	}

	if len(c.EnabledEngines()) == 0 {
		result.addError("engines", "at least one engine must be enabled")
	}

	if c.ConfirmWord != "" && c.ConfirmWord != "yes" {
		result.addWarning(fmt.Sprintf("confirm word is '%s' instead of 'yes'", c.ConfirmWord))
	}

	if c.Logging.Path == "" {
		result.addWarning("logging.path is empty; interactive sessions will not be logged")
	}

	return result
}

// newValidator reports fields by their YAML names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "value is required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "hexcolor":
		return fmt.Sprintf("'%v' is not a hex color", fe.Value())
	default:
		return fmt.Sprintf("failed '%s' check", fe.Tag())
	}
}

// addError adds an error and marks the result as invalid.
func (r *ValidationResult) addError(field, message string) {
	r.Valid = false
	r.Errors = append(r.Errors, ValidationError{Field: field, Message: message})
}

// addWarning adds a warning without invalidating the result.
func (r *ValidationResult) addWarning(message string) {
	r.Warnings = append(r.Warnings, message)
}

// String returns a human-readable validation summary.
func (r *ValidationResult) String() string {
	var sb strings.Builder

	if r.Valid {
		sb.WriteString("Configuration is valid\n")
	} else {
		sb.WriteString("Configuration has errors:\n")
		for _, err := range r.Errors {
			sb.WriteString(fmt.Sprintf("  ✗ %s: %s\n", err.Field, err.Message))
		}
	}

	if len(r.Warnings) > 0 {
		sb.WriteString("Warnings:\n")
		for _, warn := range r.Warnings {
			sb.WriteString(fmt.Sprintf("  ⚠ %s\n", warn))
		}
	}

	return sb.String()
}

// MustValidate validates the config and returns an error if invalid.
func (c *Config) MustValidate() error {
	result := c.Validate()
	if !result.Valid {
		var errMsgs []string
		for _, e := range result.Errors {
			errMsgs = append(errMsgs, e.Error())
		}
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errMsgs, "; "))
	}
	return nil
}
