package logging

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestComponent_Prefix(t *testing.T) {
	var buf bytes.Buffer
	l := Component(New(&buf, log.DebugLevel), "ResourceManager")
	l.Info("Loaded texture", "key", "player_texture")

	out := buf.String()
	assert.Contains(t, out, "[ResourceManager]")
	assert.Contains(t, out, "Loaded texture")
	assert.Contains(t, out, "player_texture")
}

func TestNew_Level(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, log.WarnLevel)
	l.Info("hidden")
	assert.Empty(t, buf.String())

	l.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestComponent_NilParent(t *testing.T) {
	assert.NotNil(t, Component(nil, "Monitor"))
}
