package suite

import "context"

// Func is a runnable: a test body or hook. It reports failure by
// returning an error or by panicking; either is captured by the engine
// and becomes a fail result.
type Func func(t *T) error

// T is the capability value passed to every runnable. The config map and
// context are shared by reference across the whole run and must not be
// mutated by runnables.
type T struct {
	ctx    context.Context
	config map[string]any
}

// NewT builds the capability value for one runnable invocation.
func NewT(ctx context.Context, config map[string]any) *T {
	return &T{ctx: ctx, config: config}
}

// Context returns the run's context.
func (t *T) Context() context.Context {
	if t.ctx == nil {
		return context.Background()
	}
	return t.ctx
}

// Config returns the run-level config value for key. A missing key
// panics with a *ConfigError, which the engine converts into a failure
// of the current runnable.
func (t *T) Config(key string) any {
	v, ok := t.config[key]
	if !ok {
		panic(&ConfigError{Key: key})
	}
	return v
}
