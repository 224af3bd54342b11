package window

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Carmen-Shannon/oxy-rig/engine/config"
)

func TestDragReportsDeltas(t *testing.T) {
	w := &engineWindow{}
	var got [][2]float32
	w.SetDragCallback(func(dx, dy float32) {
		got = append(got, [2]float32{dx, dy})
	})

	w.moveCursor(10, 10)
	assert.Empty(t, got)

	w.beginDrag(10, 10)
	w.moveCursor(14, 7)
	w.moveCursor(14, 7)
	w.moveCursor(12, 9)
	w.endDrag()
	w.moveCursor(40, 40)

	assert.Equal(t, [][2]float32{{4, -3}, {-2, 2}}, got)
}

func TestSetTitleBeforeSpawn(t *testing.T) {
	w := &engineWindow{}
	w.SetTitle("rig")
	assert.Equal(t, "rig", w.title)
	assert.False(t, w.IsRunning())
}

func TestBuilderOptions(t *testing.T) {
	w := &engineWindow{}
	for _, opt := range []WindowBuilderOption{
		WithTitle("oxy-rig"), WithSize(800, 600), WithMinSize(320, 0),
	} {
		opt(w)
	}
	assert.Equal(t, "oxy-rig", w.title)
	assert.Equal(t, 800, w.width)
	assert.Equal(t, 600, w.height)
	assert.Equal(t, 320, w.minWidth)
	assert.Zero(t, w.minHeight)
}

func TestWithSettings(t *testing.T) {
	cfg := config.Default().Window
	cfg.Title = "crowd"
	cfg.Width = 1024
	cfg.MinHeight = 480

	w := newEngineWindow(WithSettings(cfg), WithTitle("rig"))
	assert.Equal(t, "rig", w.title)
	assert.Equal(t, 1024, w.width)
	assert.Equal(t, cfg.Height, w.height)
	assert.Equal(t, cfg.MinWidth, w.minWidth)
	assert.Equal(t, 480, w.minHeight)
}
