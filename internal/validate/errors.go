package validate

import "strings"

// ConfigError reports every violation found in a simulation config. It is
// produced before any run starts and always carries the complete list, not
// just the first problem.
type ConfigError struct {
	SimulationID string
	Violations   []string
}

func (e *ConfigError) Error() string {
	return "invalid simulation config '" + e.SimulationID + "':\n- " + strings.Join(e.Violations, "\n- ")
}

// OverrideError reports every rejected override in a raw override map:
// unknown keys, type mismatches, out-of-range numbers, unlisted select
// values. Like ConfigError it aborts before any iteration runs.
type OverrideError struct {
	Violations []string
}

func (e *OverrideError) Error() string {
	return "invalid parameter overrides:\n- " + strings.Join(e.Violations, "\n- ")
}
