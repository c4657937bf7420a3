package store

import "github.com/goliatone/go-statestore/pkg/activity"

// WithActivityHooks attaches activity hooks notified when defaults are
// merged. Nil entries are dropped. Emission also requires
// Config.Activity.Enabled.
func WithActivityHooks(hooks activity.Hooks) Option {
	normalized := activity.CloneHooks(hooks)
	return func(cfg *operationsConfig) {
		cfg.activityHooks = normalized
	}
}

// ActivityEnabled reports whether merge events reach any hook.
func (o *Operations) ActivityEnabled() bool {
	return o != nil && o.emitter.Enabled()
}
