package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, log.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, log.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, log.ErrorLevel, ParseLevel(" error "))
	assert.Equal(t, log.InfoLevel, ParseLevel(""))
	assert.Equal(t, log.InfoLevel, ParseLevel("nonsense"))
}

func TestNew_SlogHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(New(&buf, "warn"))

	logger.Info("hidden")
	logger.Warn("Tool call", "name", "get_price")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "Tool call")
	assert.Contains(t, out, "name=get_price")
}
