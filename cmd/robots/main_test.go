package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amalg/go-robots/internal/arena"
)

func TestRunInvalidConfigIsLogged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "robots.log")

	err := run([]string{"-rows", "0", "-log", path}, io.Discard)
	require.Error(t, err)
	var cfgErr *arena.ConfigError
	assert.True(t, errors.As(err, &cfgErr))

	// The log is flushed before run returns
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"invalid configuration"`)
}

func TestRunRejectsUnknownFlag(t *testing.T) {
	err := run([]string{"-bogus"}, io.Discard)
	assert.Error(t, err)
}
