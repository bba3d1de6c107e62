package irc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Examples adapted from the modern-IRC formatting reference
// (https://modern.ircdocs.horse/formatting), expressed as Go spans rather
// than ported verbatim.
func TestParseStyledLine_Examples(t *testing.T) {
	t.Run("bold", func(t *testing.T) {
		line := ParseStyledLine("This is \x02bold\x02, and this is not")
		require.Len(t, line.Spans, 3)
		assert.Equal(t, "This is ", line.Spans[0].Content)
		assert.False(t, line.Spans[0].Style.Attributes.Bold)
		assert.Equal(t, "bold", line.Spans[1].Content)
		assert.True(t, line.Spans[1].Style.Attributes.Bold)
		assert.Equal(t, ", and this is not", line.Spans[2].Content)
		assert.False(t, line.Spans[2].Style.Attributes.Bold)
	})

	t.Run("color", func(t *testing.T) {
		line := ParseStyledLine("\x034red\x03 plain")
		require.Len(t, line.Spans, 2)
		assert.Equal(t, "red", line.Spans[0].Content)
		assert.True(t, line.Spans[0].Style.HasFG)
		assert.Equal(t, ColorRed, line.Spans[0].Style.Foreground)
		assert.Equal(t, " plain", line.Spans[1].Content)
		assert.False(t, line.Spans[1].Style.HasFG)
	})

	t.Run("color-with-background", func(t *testing.T) {
		line := ParseStyledLine("\x035,8both\x03")
		require.Len(t, line.Spans, 1)
		assert.Equal(t, ColorBrown, line.Spans[0].Style.Foreground)
		assert.Equal(t, ColorYellow, line.Spans[0].Style.Background)
	})

	t.Run("reset", func(t *testing.T) {
		line := ParseStyledLine("\x02\x034bold-red\x0fplain")
		require.Len(t, line.Spans, 2)
		assert.True(t, line.Spans[0].Style.Attributes.Bold)
		assert.True(t, line.Spans[0].Style.HasFG)
		assert.False(t, line.Spans[1].Style.Attributes.Bold)
		assert.False(t, line.Spans[1].Style.HasFG)
	})
}

func TestParseStyledLine_EdgeCases(t *testing.T) {
	// Bare \x03 with a trailing comma and no digits resets color and keeps
	// the comma as literal text.
	line := ParseStyledLine("\x03,")
	require.Len(t, line.Spans, 1)
	assert.Equal(t, ",", line.Spans[0].Content)
	assert.False(t, line.Spans[0].Style.HasFG)

	// "4,a" reads fg=4 but the non-digit after the comma aborts the
	// background scan, leaving ",a" as literal text.
	line = ParseStyledLine("\x034,a")
	require.Len(t, line.Spans, 1)
	assert.Equal(t, ",a", line.Spans[0].Content)
	assert.Equal(t, ColorRed, line.Spans[0].Style.Foreground)

	// Hex color with only 4 of 6 digits resets instead of partially applying.
	line = ParseStyledLine("\x04ff00glarch")
	require.Len(t, line.Spans, 1)
	assert.Equal(t, "ff00glarch", line.Spans[0].Content)
	assert.False(t, line.Spans[0].Style.HasFG)
}

func TestStyledLine_FormattingRoundTrip(t *testing.T) {
	examples := []string{
		"This is \x02bold\x02, and this is not",
		"\x034red\x03 plain",
		"\x035,8both\x03 and \x02bold\x02",
	}
	for _, raw := range examples {
		parsed := ParseStyledLine(raw)
		emitted := parsed.Emit()
		reparsed := ParseStyledLine(emitted)
		assert.Equal(t, parsed, reparsed, "round trip of %q via %q", raw, emitted)
	}
}

func TestColor100_ToAnsi256(t *testing.T) {
	idx, ok := ColorWhite.ToAnsi256()
	assert.True(t, ok)
	assert.Equal(t, uint8(15), idx)

	_, ok = ColorDefault.ToAnsi256()
	assert.False(t, ok)
}
