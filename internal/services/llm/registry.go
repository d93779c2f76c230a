// File: internal/services/llm/registry.go
package llm

// Registry resolves a chat's stored model identifier to the adapter that
// owns it. Resolution is a plain lookup over the closed adapter set.
type Registry struct {
	adapters []ChattingAdapter
	byModel  map[string]ChattingAdapter
}

func NewRegistry(adapters ...ChattingAdapter) *Registry {
	r := &Registry{
		adapters: adapters,
		byModel:  make(map[string]ChattingAdapter),
	}
	for _, adapter := range adapters {
		for _, model := range adapter.Models() {
			r.byModel[model] = adapter
		}
	}
	return r
}

// ForModel returns the adapter serving the model, or false when no adapter
// claims it. Sending against an unresolvable model is a configuration error.
func (r *Registry) ForModel(model string) (ChattingAdapter, bool) {
	adapter, ok := r.byModel[model]
	return adapter, ok
}

// Adapters returns the registered adapters in registration order.
func (r *Registry) Adapters() []ChattingAdapter {
	return r.adapters
}

// Models returns every known model identifier, grouped by adapter in
// registration order.
func (r *Registry) Models() []string {
	var models []string
	for _, adapter := range r.adapters {
		models = append(models, adapter.Models()...)
	}
	return models
}
