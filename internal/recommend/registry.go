package recommend

import "sync"

// Registry owns one Engine per shop so merchants never share a model.
type Registry struct {
	mu      sync.RWMutex
	engines map[string]*Engine
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{engines: make(map[string]*Engine)}
}

// For returns the shop's engine, creating an untrained one on first use.
func (r *Registry) For(shop string) *Engine {
	r.mu.RLock()
	engine, ok := r.engines[shop]
	r.mu.RUnlock()
	if ok {
		return engine
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if engine, ok = r.engines[shop]; ok {
		return engine
	}
	engine = NewEngine()
	r.engines[shop] = engine
	return engine
}
