package resilience

import (
	"sync"

	"github.com/sony/gobreaker/v2"
)

// ProviderHealth is the health status of one registered provider.
type ProviderHealth struct {
	// Name is the provider identifier.
	Name string `json:"name"`

	// CircuitState is the current circuit breaker state.
	CircuitState gobreaker.State `json:"-"`

	// State is the breaker state as a string for JSON consumers.
	State string `json:"state"`

	// Requests and TotalFailures come from the breaker counts.
	Requests      uint32 `json:"requests"`
	TotalFailures uint32 `json:"totalFailures"`
}

// Healthy reports whether the provider circuit is closed.
func (h *ProviderHealth) Healthy() bool {
	return h.CircuitState == gobreaker.StateClosed
}

// Registry tracks provider clients so their breaker health can be
// reported from the status endpoint.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]*Client)}
}

// Register adds a provider client to the registry.
func (r *Registry) Register(name string, client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[name] = client
}

// Health returns the health of one provider, or nil if unknown.
func (r *Registry) Health(name string) *ProviderHealth {
	r.mu.RLock()
	defer r.mu.RUnlock()

	client, ok := r.clients[name]
	if !ok {
		return nil
	}
	return healthOf(name, client)
}

// AllHealth returns the health of every registered provider.
func (r *Registry) AllHealth() []*ProviderHealth {
	r.mu.RLock()
	defer r.mu.RUnlock()

	health := make([]*ProviderHealth, 0, len(r.clients))
	for name, client := range r.clients {
		health = append(health, healthOf(name, client))
	}
	return health
}

func healthOf(name string, client *Client) *ProviderHealth {
	state := client.CircuitBreakerState()
	counts := client.CircuitBreakerCounts()
	return &ProviderHealth{
		Name:          name,
		CircuitState:  state,
		State:         state.String(),
		Requests:      counts.Requests,
		TotalFailures: counts.TotalFailures,
	}
}
