package scribe_test

import (
	"testing"

	"github.com/fwojciec/scribe"
	"github.com/stretchr/testify/assert"
)

func TestDefaultTheme(t *testing.T) {
	t.Parallel()

	theme := scribe.DefaultTheme()

	assert.Equal(t, 8, theme.Pending)
	assert.Equal(t, 3, theme.Running)
	assert.Equal(t, 2, theme.Success)
	assert.Equal(t, 1, theme.Error)
	assert.Equal(t, 8, theme.Muted)
	assert.Equal(t, 5, theme.Accent)
}
