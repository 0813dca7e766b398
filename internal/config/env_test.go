// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseHelpers(t *testing.T) {
	t.Setenv("VIDGRAB_TEST_STR", " value ")
	t.Setenv("VIDGRAB_TEST_DUR", "90s")
	t.Setenv("VIDGRAB_TEST_BOOL", "No")
	t.Setenv("VIDGRAB_TEST_FLOAT", "0.5")
	t.Setenv("VIDGRAB_TEST_EMPTY", "")

	assert.Equal(t, "value", ParseString("VIDGRAB_TEST_STR", "def"))
	assert.Equal(t, "def", ParseString("VIDGRAB_TEST_EMPTY", "def"))
	assert.Equal(t, "def", ParseString("VIDGRAB_TEST_UNSET", "def"))
	assert.Equal(t, 90*time.Second, ParseDuration("VIDGRAB_TEST_DUR", time.Second))
	assert.Equal(t, time.Second, ParseDuration("VIDGRAB_TEST_STR", time.Second))
	assert.False(t, ParseBool("VIDGRAB_TEST_BOOL", true))
	assert.True(t, ParseBool("VIDGRAB_TEST_STR", true))
	assert.InDelta(t, 0.5, ParseFloat("VIDGRAB_TEST_FLOAT", 1), 1e-9)
	assert.InDelta(t, 1.0, ParseFloat("VIDGRAB_TEST_STR", 1), 1e-9)
}
