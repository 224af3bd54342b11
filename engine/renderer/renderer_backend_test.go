package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-rig/engine/config"
)

func TestSampleCount(t *testing.T) {
	n, err := SampleCount(1)
	require.NoError(t, err)
	assert.Equal(t, MSAAOff, n)

	n, err = SampleCount(4)
	require.NoError(t, err)
	assert.Equal(t, MSAA4x, n)

	n, err = SampleCount(8)
	assert.Error(t, err)
	assert.Equal(t, MSAA4x, n)
}

func TestPresentModeFor(t *testing.T) {
	assert.Equal(t, PresentModeVSync, PresentModeFor(true))
	assert.Equal(t, PresentModeUncapped, PresentModeFor(false))
}

func TestWithSettings(t *testing.T) {
	cfg := config.Default().Window
	cfg.VSync = false
	cfg.MSAA = 1
	cfg.Software = true

	r := &renderer{}
	WithSettings(cfg)(r)
	require.NotNil(t, r.pendingPresentMode)
	require.NotNil(t, r.pendingMSAA)
	assert.Equal(t, PresentModeUncapped, *r.pendingPresentMode)
	assert.Equal(t, MSAAOff, *r.pendingMSAA)
	assert.True(t, r.forceFallbackAdapter)

	WithMSAA(MSAA4x)(r)
	assert.Equal(t, MSAA4x, *r.pendingMSAA)
}
