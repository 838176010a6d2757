package suite

import "time"

// SuiteOptions carries the optional settings of a describe call.
// A nil *SuiteOptions means all defaults.
type SuiteOptions struct {
	// Timeout is a suite-scoped default for every runnable underneath,
	// overriding the ancestor's value. Zero means inherit.
	Timeout time.Duration
}

// CaseOptions carries the optional settings of an it call.
type CaseOptions struct {
	// Timeout overrides the inherited timeout for this case's body.
	// Serialized results record it at millisecond granularity.
	Timeout time.Duration
}

// HookOptions carries the optional settings of a hook registration.
type HookOptions struct {
	// Timeout overrides the inherited timeout for this hook.
	Timeout time.Duration
}

func (o *SuiteOptions) timeout() time.Duration {
	if o == nil {
		return 0
	}
	return o.Timeout
}

func (o *CaseOptions) timeout() time.Duration {
	if o == nil {
		return 0
	}
	return o.Timeout
}

func (o *HookOptions) timeout() time.Duration {
	if o == nil {
		return 0
	}
	return o.Timeout
}
