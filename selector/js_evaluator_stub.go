//go:build !js_eval

package selector

// NewJSEvaluator is unavailable without the js_eval build tag and returns nil.
func NewJSEvaluator(opts ...EngineOption) Evaluator {
	_ = applyEngineOptions(opts)
	return nil
}

func jsEvaluatorAvailable() bool {
	return false
}
