package server

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSmokeTest(t *testing.T) {
	fake := &fakeResolver{
		addrs:     map[string]string{"vitalik.eth/60": vitalikChecksum},
		names:     map[string]string{vitalikChecksum: "vitalik.eth"},
		checksums: map[string]string{vitalikLower: vitalikChecksum},
		texts: map[string]map[string]string{
			"vitalik.eth": {"url": "https://vitalik.ca"},
		},
	}
	s := newTestServer(fake)

	var out bytes.Buffer
	require.NoError(t, s.RunSmokeTest(context.Background(), &out))

	output := out.String()
	assert.Contains(t, output, "Testing ENS MCP Server")
	assert.Contains(t, output, "Testing ENS Resolution:")
	assert.Contains(t, output, "Testing Reverse Resolution:")
	assert.Contains(t, output, "Testing Text Records:")
	assert.Contains(t, output, "Testing Comprehensive Info:")
	assert.Contains(t, output, "Testing completed!")
	assert.Contains(t, output, vitalikChecksum)
}
