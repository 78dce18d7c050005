package cmdutils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintResponse(t *testing.T) {
	var buf bytes.Buffer
	PrintResponse(&buf, "BTC is up")
	PrintResponse(&buf, "")
	assert.Equal(t, "Agent> BTC is up\n\n", buf.String())
}

func TestPrintToolResult(t *testing.T) {
	var buf bytes.Buffer
	PrintToolResult(&buf, "get_price", "💰 BTC")
	assert.Equal(t, "[Tool:get_price]> 💰 BTC\n", buf.String())
}
