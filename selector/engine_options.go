package selector

import "errors"

type engineConfig struct {
	cache     ProgramCache
	functions functionSet
	errs      []error
}

// EngineOption configures an evaluator engine.
type EngineOption func(*engineConfig)

// EngineWithProgramCache caches compiled programs in cache.
func EngineWithProgramCache(cache ProgramCache) EngineOption {
	return func(cfg *engineConfig) {
		cfg.cache = cache
	}
}

// EngineWithFunction exposes fn to expressions under name. Invalid or
// duplicate names make every evaluation fail with the registration error.
func EngineWithFunction(name string, fn Function) EngineOption {
	return func(cfg *engineConfig) {
		if err := cfg.functions.add(name, fn); err != nil {
			cfg.errs = append(cfg.errs, err)
		}
	}
}

func applyEngineOptions(opts []EngineOption) engineConfig {
	cfg := engineConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

func (cfg engineConfig) err() error {
	return errors.Join(cfg.errs...)
}
