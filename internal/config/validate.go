package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jackzampolin/assessor/internal/providers"
)

var (
	// ErrInvalid is returned when a config value is out of range.
	ErrInvalid = errors.New("invalid configuration")

	// ErrMissingCredential is returned when the selected provider has no API key.
	ErrMissingCredential = errors.New("missing API credential")
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report config keys rather than Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks value ranges and that the selected provider has a credential.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, describe(fe))
		}
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
	}

	if c.LLM.Provider != providers.MockClientName && c.ResolvedAPIKey() == "" {
		return fmt.Errorf("%w: set llm.api_key or %s for provider %q",
			ErrMissingCredential, DefaultAPIKeyEnv(c.LLM.Provider), c.LLM.Provider)
	}
	return nil
}

// describe turns a field error into "llm.timeout_seconds must be gte 1".
func describe(fe validator.FieldError) string {
	key := fe.Namespace()
	if i := strings.Index(key, "."); i >= 0 {
		key = key[i+1:] // drop the root struct name
	}
	if fe.Param() == "" {
		return fmt.Sprintf("%s must be %s", key, fe.Tag())
	}
	return fmt.Sprintf("%s must be %s %s", key, fe.Tag(), fe.Param())
}
