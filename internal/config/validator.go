package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator provides config validation.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new config validator.
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate validates the config and returns errors if any.
func (v *Validator) Validate(cfg *Config) error {
	var errors []string

	if err := v.validate.Struct(cfg); err != nil {
		if invalid, ok := err.(*validator.InvalidValidationError); ok {
			return invalid
		}
		for _, fieldErr := range err.(validator.ValidationErrors) {
			errors = append(errors, fmt.Sprintf("invalid %s: failed %q constraint",
				fieldErr.Field(), fieldErr.Tag()))
		}
	}

	// Bundle roots must exist and be directories
	for _, root := range cfg.BundleRoots {
		info, err := os.Stat(root)
		if err != nil {
			errors = append(errors, fmt.Sprintf("bundle root %q does not exist", root))
			continue
		}
		if !info.IsDir() {
			errors = append(errors, fmt.Sprintf("bundle root %q is not a directory", root))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}
	return nil
}
