package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks that every required configuration value is present.
// Struct tags carry the rules; the error message names the offending fields.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		var invalid validator.ValidationErrors
		if ok := asValidationErrors(err, &invalid); ok {
			return fmt.Errorf("missing or invalid configuration: %s", fieldList(invalid))
		}
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if cfg.ReconcileHour < 0 || cfg.ReconcileHour > 23 {
		return fmt.Errorf("RECONCILE_HOUR must be 0-23, got %d", cfg.ReconcileHour)
	}
	if cfg.ReconcileMinute < 0 || cfg.ReconcileMinute > 59 {
		return fmt.Errorf("RECONCILE_MINUTE must be 0-59, got %d", cfg.ReconcileMinute)
	}
	if _, err := cfg.Location(); err != nil {
		return err
	}
	return nil
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	v, ok := err.(validator.ValidationErrors)
	if ok {
		*target = v
	}
	return ok
}

func fieldList(errs validator.ValidationErrors) string {
	names := ""
	for i, fe := range errs {
		if i > 0 {
			names += ", "
		}
		names += fe.Field()
	}
	return names
}
