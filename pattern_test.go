package datefilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompilePattern(t *testing.T) {
	compiled, err := compilePattern("EEEE, d 'de' MMMM 'de' y")
	require.NoError(t, err)

	want := []patternToken{
		{kind: fieldWeekday, width: 4},
		{kind: fieldLiteral, text: ", "},
		{kind: fieldDay, width: 1},
		{kind: fieldLiteral, text: " de "},
		{kind: fieldMonth, width: 4},
		{kind: fieldLiteral, text: " de "},
		{kind: fieldYear, width: 1},
	}
	assert.Equal(t, want, compiled.tokens)
	assert.Equal(t, "EEEE, d 'de' MMMM 'de' y", compiled.source)
}

func TestCompilePatternLiterals(t *testing.T) {
	tests := map[string][]patternToken{
		"y年M月d日": {
			{kind: fieldYear, width: 1},
			{kind: fieldLiteral, text: "年"},
			{kind: fieldMonth, width: 1},
			{kind: fieldLiteral, text: "月"},
			{kind: fieldDay, width: 1},
			{kind: fieldLiteral, text: "日"},
		},
		"h 'o''clock'": {
			{kind: fieldHour12, width: 1},
			{kind: fieldLiteral, text: " o'clock"},
		},
		"''": {
			{kind: fieldLiteral, text: "'"},
		},
		"HHmm": {
			{kind: fieldHour23, width: 2},
			{kind: fieldMinute, width: 2},
		},
	}

	for pattern, want := range tests {
		compiled, err := compilePattern(pattern)
		require.NoError(t, err, pattern)
		assert.Equal(t, want, compiled.tokens, pattern)
	}
}

func TestCompilePatternRejectsUnsupported(t *testing.T) {
	for _, pattern := range []string{"QQQ", "yyyy-ww", "ee", "VVV", "dd-MM 'open", "ddd", "EEEEEEE", "B"} {
		_, err := compilePattern(pattern)
		assert.ErrorIs(t, err, ErrUnsupportedPattern, pattern)
	}

	_, err := compilePattern("")
	assert.ErrorIs(t, err, ErrEmptyPattern)
}

func TestPatternTokenNumeric(t *testing.T) {
	assert.True(t, patternToken{kind: fieldMonth, width: 2}.numeric())
	assert.False(t, patternToken{kind: fieldMonth, width: 3}.numeric())
	assert.True(t, patternToken{kind: fieldYear, width: 4}.numeric())
	assert.False(t, patternToken{kind: fieldDayPeriod, width: 1}.numeric())
	assert.False(t, patternToken{kind: fieldLiteral, text: "-"}.numeric())
}
