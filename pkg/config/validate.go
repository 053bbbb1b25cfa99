package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks cfg against its struct tags and cross-field rules.
//
// Each violation is reported as "<field path>: failed '<tag>' validation"
// and all violations are joined into one error.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	var problems []string

	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validate config: %w", err)
		}
		for _, fe := range verrs {
			problems = append(problems, describe(fe))
		}
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Port == 0 {
		problems = append(problems, "Config.Metrics.Port: required when metrics are enabled")
	}
	if cfg.Buffer.MaxSize != 0 && cfg.Buffer.MaxSize < cfg.Buffer.ChunkSize {
		problems = append(problems, fmt.Sprintf(
			"Config.Buffer.MaxSize: %s is smaller than chunk_size %s",
			cfg.Buffer.MaxSize, cfg.Buffer.ChunkSize))
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func describe(fe validator.FieldError) string {
	if fe.Param() != "" {
		return fmt.Sprintf("%s: failed '%s=%s' validation (value %v)", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value())
	}
	return fmt.Sprintf("%s: failed '%s' validation", fe.Namespace(), fe.Tag())
}
