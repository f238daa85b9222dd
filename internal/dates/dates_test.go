package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"compact offset gains colon", "2025-12-16T16:00:00+0800", "2025-12-16T16:00:00+08:00"},
		{"negative compact offset", "2025-12-16T16:00:00-0530", "2025-12-16T16:00:00-05:30"},
		{"zulu becomes zero offset", "2019-11-13T03:00:00Z", "2019-11-13T03:00:00+00:00"},
		{"colon offset unchanged", "2025-12-16T16:00:00+08:00", "2025-12-16T16:00:00+08:00"},
		{"empty unchanged", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestToWire(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"colon offset loses colon", "2025-12-16T16:00:00+08:00", "2025-12-16T16:00:00+0800"},
		{"negative colon offset", "2025-12-16T16:00:00-05:30", "2025-12-16T16:00:00-0530"},
		{"zulu becomes compact zero", "2019-11-13T03:00:00Z", "2019-11-13T03:00:00+0000"},
		{"compact offset unchanged", "2025-12-16T16:00:00+0800", "2025-12-16T16:00:00+0800"},
		{"empty unchanged", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToWire(tt.input))
		})
	}
}

// A timestamp converted to the wire format and parsed back must denote the
// identical instant.
func TestWireRoundTripPreservesInstant(t *testing.T) {
	inputs := []string{
		"2025-12-16T16:00:00+08:00",
		"2025-12-16T16:00:00+0800",
		"2019-11-13T03:00:00Z",
		"2024-02-29T23:59:59-05:30",
	}
	for _, input := range inputs {
		original, err := Parse(input)
		require.NoError(t, err, input)

		wire := ToWire(input)
		roundTripped, err := Parse(wire)
		require.NoError(t, err, wire)

		assert.True(t, original.Equal(roundTripped),
			"%s -> %s changed the instant (%s vs %s)", input, wire,
			original.UTC(), roundTripped.UTC())
	}
}

func TestParseRejectsMissingOffset(t *testing.T) {
	inputs := []string{
		"2025-12-16T16:00:00",
		"2025-12-16",
		"2025-12-16 16:00:00",
		"not a date",
		"",
	}
	for _, input := range inputs {
		_, err := Parse(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestParseEchoesOffendingValue(t *testing.T) {
	_, err := Parse("2025-13-99T99:00:00+08:00")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2025-13-99T99:00:00+08:00")
}

func TestEffectiveTimeZone(t *testing.T) {
	t.Run("explicit wins", func(t *testing.T) {
		t.Setenv(EnvDefaultTimeZone, "America/New_York")
		assert.Equal(t, "Asia/Shanghai", EffectiveTimeZone("Asia/Shanghai"))
	})
	t.Run("falls back to configured default", func(t *testing.T) {
		t.Setenv(EnvDefaultTimeZone, "Europe/Berlin")
		assert.Equal(t, "Europe/Berlin", EffectiveTimeZone(""))
	})
	t.Run("Local sentinel means omit", func(t *testing.T) {
		t.Setenv(EnvDefaultTimeZone, "Local")
		assert.Equal(t, "", EffectiveTimeZone(""))
	})
	t.Run("unset means omit", func(t *testing.T) {
		t.Setenv(EnvDefaultTimeZone, "")
		assert.Equal(t, "", EffectiveTimeZone(""))
	})
}

func TestDisplayLocal(t *testing.T) {
	t.Setenv(EnvDefaultTimeZone, "Asia/Shanghai")

	out := DisplayLocal("2019-11-13T03:00:00+0000")
	assert.Contains(t, out, "2019-11-13 11:00:00")
	assert.Contains(t, out, "Asia/Shanghai")
	assert.Contains(t, out, "[UTC: 2019-11-13T03:00:00+0000]")

	// Unparseable input passes through.
	assert.Equal(t, "garbage", DisplayLocal("garbage"))
	assert.Equal(t, "", DisplayLocal(""))
}

func TestSameDay(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Shanghai")
	require.NoError(t, err)
	day := time.Date(2025, 12, 16, 0, 0, 0, 0, loc)

	// 2025-12-16T18:00+08:00 is the same Shanghai day.
	within, _ := Parse("2025-12-16T18:00:00+08:00")
	assert.True(t, SameDay(within, day))

	// 2025-12-16T22:00Z is already 2025-12-17 in Shanghai.
	next, _ := Parse("2025-12-16T22:00:00Z")
	assert.False(t, SameDay(next, day))
}
