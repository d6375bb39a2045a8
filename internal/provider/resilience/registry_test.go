package resilience_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aeromap/aeromap/internal/provider/resilience"
)

func TestRegistry_HealthUnknownProvider(t *testing.T) {
	registry := resilience.NewRegistry()
	assert.Nil(t, registry.Health("nope"))
}

func TestRegistry_RegisterAndHealth(t *testing.T) {
	registry := resilience.NewRegistry()
	client := resilience.NewClient(resilience.ClientConfig{Name: "airnow"})
	registry.Register("airnow", client)

	health := registry.Health("airnow")
	require.NotNil(t, health)
	assert.Equal(t, "airnow", health.Name)
	assert.Equal(t, "closed", health.State)
	assert.True(t, health.Healthy())
}

func TestRegistry_AllHealth(t *testing.T) {
	registry := resilience.NewRegistry()
	registry.Register("airnow", resilience.NewClient(resilience.ClientConfig{Name: "airnow"}))
	registry.Register("earthdata", resilience.NewClient(resilience.ClientConfig{Name: "earthdata"}))

	health := registry.AllHealth()
	assert.Len(t, health, 2)

	names := make(map[string]bool)
	for _, h := range health {
		names[h.Name] = true
	}
	assert.True(t, names["airnow"])
	assert.True(t, names["earthdata"])
}
