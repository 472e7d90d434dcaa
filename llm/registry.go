// Package llm manages LLM provider registration.
package llm

import (
	"fmt"

	"agentmarketplace/llm/shared"
)

// Registry manages LLM provider registration and lookup.
type Registry struct {
	providers map[string]shared.LLMProvider
}

// NewRegistry creates a new provider registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]shared.LLMProvider),
	}
}

// Register registers a provider under its name.
func (r *Registry) Register(provider shared.LLMProvider) {
	r.providers[provider.Name()] = provider
}

// Get gets a registered provider by name.
func (r *Registry) Get(name string) (shared.LLMProvider, error) {
	provider, exists := r.providers[name]
	if !exists {
		return nil, fmt.Errorf("provider not found: %s", name)
	}
	return provider, nil
}

// List returns the registered provider names.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}
