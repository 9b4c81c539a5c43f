package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"gitlab.com/tinyland/lab/pulse-widgets/pkg/appearance"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Registration only fails for an empty tag or nil func.
		_ = validate.RegisterValidation("sizetier", func(fl validator.FieldLevel) bool {
			_, err := appearance.ParseSizeTier(fl.Field().String())
			return err == nil
		})
	})
	return validate
}

// Validate checks field constraints on cfg. The error lists every failing
// field by its namespace, e.g. "Config.Weather.Units".
func Validate(cfg *Config) error {
	err := validatorInstance().Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s=%s (got %v)", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s (got %v)", fe.Namespace(), fe.Tag(), fe.Value()))
		}
	}
	return fmt.Errorf("config: invalid: %s", strings.Join(msgs, "; "))
}

// GlobalSizeTier parses the configured global size tier.
func (c AppearanceConfig) GlobalSizeTier() appearance.SizeTier {
	s, err := appearance.ParseSizeTier(c.GlobalSize)
	if err != nil {
		return appearance.Medium
	}
	return s
}
