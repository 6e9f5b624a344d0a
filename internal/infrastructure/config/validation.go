package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
)

// Validator is a wrapper around go-playground/validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance with the starport rules registered
func NewValidator() *Validator {
	v := validator.New()
	_ = v.RegisterValidation("cronspec", validateCronSpec)
	v.RegisterStructValidation(validateProduction, ProductionConfig{})
	return &Validator{validate: v}
}

// Validate validates a struct using validation tags
func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return v.formatValidationError(err)
	}
	return nil
}

func (v *Validator) formatValidationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		var messages []string
		for _, e := range validationErrs {
			messages = append(messages, fmt.Sprintf(
				"field '%s' failed validation: %s (value: '%v')",
				e.Namespace(),
				e.Tag(),
				e.Value(),
			))
		}
		return fmt.Errorf("validation failed:\n  %s", strings.Join(messages, "\n  "))
	}
	return err
}

// ValidateConfig validates the entire configuration
func ValidateConfig(cfg *Config) error {
	return NewValidator().Validate(cfg)
}

func validateCronSpec(fl validator.FieldLevel) bool {
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	_, err := parser.Parse(fl.Field().String())
	return err == nil
}

// validateProduction rejects two queues of the same type
func validateProduction(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(ProductionConfig)
	seen := make(map[string]bool, len(cfg.Queues))
	for _, q := range cfg.Queues {
		if seen[q.Type] {
			sl.ReportError(cfg.Queues, "Queues", "Queues", "unique_type", q.Type)
		}
		seen[q.Type] = true
	}
}
