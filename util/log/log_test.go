package log

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	SetDebug(true)
	t.Cleanup(func() { SetDebug(false) })

	tests := []struct {
		name     string
		fn       func()
		expected string
	}{
		{name: "Print", fn: func() { Print("test print") }, expected: "test print"},
		{name: "Printf", fn: func() { Printf("test printf %d", 123) }, expected: "test printf 123"},
		{name: "Println", fn: func() { Println("test println") }, expected: "test println"},
		{name: "Debug", fn: func() { Debug("test debug") }, expected: "[DEBUG] test debug"},
		{name: "Debugf", fn: func() { Debugf("test debugf %s", "foo") }, expected: "[DEBUG] test debugf foo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn()
			if !strings.Contains(buf.String(), tt.expected) {
				t.Errorf("Expected log to contain %q, but got %q", tt.expected, buf.String())
			}
		})
	}
}

func TestDebugSuppressed(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	SetDebug(false)
	Debug("hidden")
	Debugf("hidden %d", 1)

	assert.False(t, DebugEnabled())
	assert.Empty(t, buf.String())
}

func TestSetFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chronophoto.log")
	closer := SetFile(path)
	t.Cleanup(func() {
		SetFile("")
	})

	Print("rotating hello")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "rotating hello")
}

// NOTE: Testing Fatal* functions requires a subprocess, which is often overkill for simple wrappers.
