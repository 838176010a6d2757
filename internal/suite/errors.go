package suite

import "fmt"

// MisuseError reports declaration-time misuse: building on a finalized
// builder, re-entrant top-level construction, or malformed options.
// These panic synchronously at declaration time; they indicate the suite
// itself is broken and are expected to be caught during development.
type MisuseError struct {
	Op     string // the declaration call that was misused
	Reason string
}

func (e *MisuseError) Error() string {
	return fmt.Sprintf("suite: %s: %s", e.Op, e.Reason)
}

// ConfigError reports a config lookup for an absent key. Lookups are not
// optional: a missing key is a programmer error and surfaces as a test
// failure rather than silently yielding a zero value.
type ConfigError struct {
	Key string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("no config value for key %q", e.Key)
}
