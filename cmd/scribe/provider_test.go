package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/scribe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGenerator(t *testing.T) {
	t.Parallel()

	for _, name := range []string{providerOpenAI, providerAnthropic, providerGemini} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			g, err := newGenerator(name, "some-model", "http://localhost:1")
			require.NoError(t, err)
			assert.NotNil(t, g)
		})
	}

	t.Run("unknown provider", func(t *testing.T) {
		t.Parallel()
		_, err := newGenerator("mistral", "", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown provider")
	})
}

func TestResolveKey(t *testing.T) {
	t.Parallel()

	t.Run("flag wins", func(t *testing.T) {
		t.Parallel()
		key, err := resolveKey(providerOpenAI, "flag", "file", "env")
		require.NoError(t, err)
		assert.Equal(t, "flag", key)
	})

	t.Run("options file before env", func(t *testing.T) {
		t.Parallel()
		key, err := resolveKey(providerOpenAI, "", "file", "env")
		require.NoError(t, err)
		assert.Equal(t, "file", key)
	})

	t.Run("env fallback", func(t *testing.T) {
		t.Parallel()
		key, err := resolveKey(providerGemini, "", "", "env")
		require.NoError(t, err)
		assert.Equal(t, "env", key)
	})

	t.Run("missing names the provider variable", func(t *testing.T) {
		t.Parallel()
		_, err := resolveKey(providerAnthropic, "", "", "")
		assert.ErrorIs(t, err, scribe.ErrMissingCredential)
		assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY")
	})
}

func TestLoadPrices(t *testing.T) {
	t.Parallel()

	t.Run("defaults without pattern", func(t *testing.T) {
		t.Parallel()
		table, err := loadPrices("")
		require.NoError(t, err)
		assert.Equal(t, scribe.DefaultPrices(), table)
	})

	t.Run("files override defaults", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "custom.yaml"), []byte(
			"models:\n  gemini-2.5-flash:\n    input: 1\n    output: 2\n  local:\n    input: 0\n    output: 0\n"), 0o644))

		table, err := loadPrices(filepath.Join(dir, "*.yaml"))
		require.NoError(t, err)
		assert.Equal(t, scribe.Rate{Input: 1, Output: 2}, table["gemini-2.5-flash"])
		assert.Contains(t, table, "local")
		assert.Equal(t, scribe.DefaultPrices()["gemini-2.5-pro"], table["gemini-2.5-pro"])
	})

	t.Run("bad pattern", func(t *testing.T) {
		t.Parallel()
		_, err := loadPrices("[")
		assert.Error(t, err)
	})
}
