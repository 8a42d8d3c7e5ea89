package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yus314/MoLe-sub005/internal/config"
)

func TestNewWritesRelativeFile(t *testing.T) {
	dir := t.TempDir()
	l := New(dir, config.LogConfig{File: "logs/test.log", MaxSizeMB: 1}, false)
	l.Printf("run %s started", "abc")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(filepath.Join(dir, "logs", "test.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), Prefix)
	assert.Contains(t, string(data), "run abc started")
}

func TestNewWithoutFile(t *testing.T) {
	l := New(t.TempDir(), config.LogConfig{}, false)
	l.Printf("dropped")
	assert.NoError(t, l.Close())
}
