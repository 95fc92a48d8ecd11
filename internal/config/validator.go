package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "temperature.max")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
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

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidProtocols returns the list of valid backend protocols
func ValidProtocols() []string {
	return []string{ProtocolChat, ProtocolPrompt}
}

// ValidMemoryStores returns the list of valid memory store kinds
func ValidMemoryStores() []string {
	return []string{MemoryStoreFile, MemoryStoreRedis}
}

// Validate checks the Config for invalid values and returns all validation
// errors found.
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateTemperature()...)
	errors = append(errors, c.validateBackends()...)
	errors = append(errors, c.validateRoles()...)
	errors = append(errors, c.validateMemory()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

func (c *Config) validateTemperature() []ValidationError {
	var errors []ValidationError

	if c.Temperature.Min < 0 {
		errors = append(errors, ValidationError{
			Field:   "temperature.min",
			Value:   c.Temperature.Min,
			Message: "must not be negative",
		})
	}
	if c.Temperature.Max < c.Temperature.Min {
		errors = append(errors, ValidationError{
			Field:   "temperature.max",
			Value:   c.Temperature.Max,
			Message: "must not be below temperature.min",
		})
	}
	if c.Temperature.Default < c.Temperature.Min || c.Temperature.Default > c.Temperature.Max {
		errors = append(errors, ValidationError{
			Field:   "temperature.default",
			Value:   c.Temperature.Default,
			Message: fmt.Sprintf("must lie in [%v, %v]", c.Temperature.Min, c.Temperature.Max),
		})
	}

	return errors
}

func (c *Config) validateBackends() []ValidationError {
	var errors []ValidationError

	if len(c.Backends) == 0 {
		errors = append(errors, ValidationError{
			Field:   "backends",
			Value:   nil,
			Message: "at least one backend must be configured",
		})
		return errors
	}

	for key, b := range c.Backends {
		if !slices.Contains(ValidProtocols(), b.Protocol) {
			errors = append(errors, ValidationError{
				Field:   "backends." + key + ".protocol",
				Value:   b.Protocol,
				Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidProtocols(), ", ")),
			})
		}
		if b.Endpoint == "" {
			errors = append(errors, ValidationError{
				Field:   "backends." + key + ".endpoint",
				Value:   b.Endpoint,
				Message: "must not be empty",
			})
		}
		if b.Model == "" {
			errors = append(errors, ValidationError{
				Field:   "backends." + key + ".model",
				Value:   b.Model,
				Message: "must not be empty",
			})
		}
		if b.TimeoutSeconds < 0 {
			errors = append(errors, ValidationError{
				Field:   "backends." + key + ".timeout_seconds",
				Value:   b.TimeoutSeconds,
				Message: "must not be negative",
			})
		}
	}

	return errors
}

func (c *Config) validateRoles() []ValidationError {
	var errors []ValidationError

	roles := map[string]string{
		"roles.debater_a": c.Roles.DebaterA,
		"roles.debater_b": c.Roles.DebaterB,
		"roles.judge":     c.Roles.Judge,
	}
	for field, key := range roles {
		if key == "" {
			errors = append(errors, ValidationError{
				Field:   field,
				Value:   key,
				Message: "must name a backend key",
			})
			continue
		}
		if _, ok := c.Backends[key]; !ok {
			errors = append(errors, ValidationError{
				Field:   field,
				Value:   key,
				Message: "references an unconfigured backend",
			})
		}
	}

	return errors
}

func (c *Config) validateMemory() []ValidationError {
	var errors []ValidationError

	if !slices.Contains(ValidMemoryStores(), c.Memory.Store) {
		errors = append(errors, ValidationError{
			Field:   "memory.store",
			Value:   c.Memory.Store,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidMemoryStores(), ", ")),
		})
	}
	if c.Memory.Store == MemoryStoreFile && c.Memory.Dir == "" {
		errors = append(errors, ValidationError{
			Field:   "memory.dir",
			Value:   c.Memory.Dir,
			Message: "must not be empty for the file store",
		})
	}
	if c.Memory.Store == MemoryStoreRedis && c.Memory.RedisAddr == "" {
		errors = append(errors, ValidationError{
			Field:   "memory.redis_addr",
			Value:   c.Memory.RedisAddr,
			Message: "must not be empty for the redis store",
		})
	}
	if c.Memory.TopK < 1 {
		errors = append(errors, ValidationError{
			Field:   "memory.top_k",
			Value:   c.Memory.TopK,
			Message: "must be at least 1",
		})
	}
	if c.Memory.SnippetMaxChars < 1 {
		errors = append(errors, ValidationError{
			Field:   "memory.snippet_max_chars",
			Value:   c.Memory.SnippetMaxChars,
			Message: "must be at least 1",
		})
	}
	if c.Memory.ContextMaxChars < 1 {
		errors = append(errors, ValidationError{
			Field:   "memory.context_max_chars",
			Value:   c.Memory.ContextMaxChars,
			Message: "must be at least 1",
		})
	}

	return errors
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errors
}
