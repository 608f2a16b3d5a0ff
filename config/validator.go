package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Ying-Kai-Liao/hot-seat/logging"
)

// ValidationError represents a single validation failure.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidProviders returns the supported provider names.
func ValidProviders() []string {
	return []string{ProviderOpenAI, ProviderAnthropic, ProviderArk}
}

// ValidLogFormats returns the supported log formats.
func ValidLogFormats() []string {
	return []string{"text", "json"}
}

// Validate checks the Config and returns every problem found. Credentials
// are not checked here; a missing key surfaces as an authentication error
// on the first call.
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	if !slices.Contains(ValidProviders(), c.Provider) {
		errs = append(errs, ValidationError{"provider", c.Provider, "must be one of " + strings.Join(ValidProviders(), ", ")})
	}
	if c.Provider == ProviderArk && strings.TrimSpace(c.Model) == "" {
		errs = append(errs, ValidationError{"model", c.Model, "ark requires an endpoint or model id"})
	}

	d := c.Discussion
	if d.MaxRounds < 1 {
		errs = append(errs, ValidationError{"discussion.max_rounds", d.MaxRounds, "must be at least 1"})
	}
	if d.SilenceCap < 1 {
		errs = append(errs, ValidationError{"discussion.silence_cap", d.SilenceCap, "must be at least 1"})
	}
	if d.ModerationWindow < 1 {
		errs = append(errs, ValidationError{"discussion.moderation_window", d.ModerationWindow, "must be at least 1"})
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, ValidationError{"logging.level", c.Logging.Level, "must be one of debug, info, warn, error"})
	}
	if !slices.Contains(ValidLogFormats(), c.Logging.Format) {
		errs = append(errs, ValidationError{"logging.format", c.Logging.Format, "must be text or json"})
	}
	return errs
}
