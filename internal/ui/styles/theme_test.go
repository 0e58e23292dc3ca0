// Copyright (c) 2025 Akin S. Sokpah / FullTask
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewThemeHonorsExplicitSetting(t *testing.T) {
	dark := New("dark")
	require.NotNil(t, dark)
	assert.True(t, dark.IsDark)

	light := New("light")
	require.NotNil(t, light)
	assert.False(t, light.IsDark)
}

func TestNewThemeAutoResolves(t *testing.T) {
	// Auto follows the detected background; either way the theme must be
	// fully constructed.
	theme := New("auto")
	require.NotNil(t, theme)
	assert.NotNil(t, theme.HeaderTitle)
}

func TestAdaptiveColorsHaveBothVariants(t *testing.T) {
	colors := map[string]struct{ light, dark string }{
		"Indigo":  {Indigo.Light, Indigo.Dark},
		"Cyan":    {Cyan.Light, Cyan.Dark},
		"Emerald": {Emerald.Light, Emerald.Dark},
		"Rose":    {Rose.Light, Rose.Dark},
		"Amber":   {Amber.Light, Amber.Dark},
		"Text":    {Text.Light, Text.Dark},
	}
	for name, c := range colors {
		assert.NotEmpty(t, c.light, "%s light variant", name)
		assert.NotEmpty(t, c.dark, "%s dark variant", name)
	}
}
