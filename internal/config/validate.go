package config

import (
	"fmt"
	"slices"
)

// ValidationIssue describes a problem with a settings value.
type ValidationIssue struct {
	Path    string
	Message string
}

func (v ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks Settings for issues. Returns nil if valid.
func Validate(cfg *Settings) []ValidationIssue {
	var issues []ValidationIssue

	if cfg.Gateway.Bin == "" {
		issues = append(issues, ValidationIssue{
			Path:    "gateway.bin",
			Message: "gateway CLI binary is required",
		})
	}

	validStrategies := []string{"lockfile", "none"}
	if cfg.Gateway.WriteStrategy != "" && !slices.Contains(validStrategies, cfg.Gateway.WriteStrategy) {
		issues = append(issues, ValidationIssue{
			Path:    "gateway.writeStrategy",
			Message: fmt.Sprintf("must be one of %v, got %q", validStrategies, cfg.Gateway.WriteStrategy),
		})
	}

	if cfg.Agents.Main == "" {
		issues = append(issues, ValidationIssue{
			Path:    "agents.main",
			Message: "main agent id is required",
		})
	}

	validLogLevels := []string{"silent", "fatal", "error", "warn", "info", "debug", "trace"}
	if cfg.Logging.Level != "" && !slices.Contains(validLogLevels, cfg.Logging.Level) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.level",
			Message: fmt.Sprintf("must be one of %v, got %q", validLogLevels, cfg.Logging.Level),
		})
	}

	validStyles := []string{"pretty", "json"}
	if cfg.Logging.Style != "" && !slices.Contains(validStyles, cfg.Logging.Style) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.style",
			Message: fmt.Sprintf("must be one of %v, got %q", validStyles, cfg.Logging.Style),
		})
	}

	return issues
}
