package datefilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStyle(t *testing.T) {
	tests := []struct {
		value any
		want  Style
	}{
		{nil, StyleUnset},
		{-1, StyleNone},
		{0, StyleFull},
		{int64(1), StyleLong},
		{uint8(2), StyleMedium},
		{float64(3), StyleShort},
		{"SHORT", StyleShort},
		{" medium ", StyleMedium},
		{"2", StyleMedium},
		{"none", StyleNone},
		{"", StyleUnset},
		{StyleLong, StyleLong},
	}

	for _, tt := range tests {
		got, err := ParseStyle(tt.value)
		require.NoError(t, err, "%v", tt.value)
		assert.Equal(t, tt.want, got, "%v", tt.value)
	}

	for _, value := range []any{4, -2, 1.5, "tiny", struct{}{}, Style(99)} {
		_, err := ParseStyle(value)
		assert.Error(t, err, "%v", value)
	}
}

func TestParseCalendar(t *testing.T) {
	tests := []struct {
		value any
		want  Calendar
	}{
		{nil, CalendarUnset},
		{0, CalendarTraditional},
		{1, CalendarGregorian},
		{"Gregorian", CalendarGregorian},
		{"traditional", CalendarTraditional},
		{"1", CalendarGregorian},
		{CalendarTraditional, CalendarTraditional},
	}

	for _, tt := range tests {
		got, err := ParseCalendar(tt.value)
		require.NoError(t, err, "%v", tt.value)
		assert.Equal(t, tt.want, got, "%v", tt.value)
	}

	for _, value := range []any{2, "hebrew", []int{1}, Calendar(-1)} {
		_, err := ParseCalendar(value)
		assert.Error(t, err, "%v", value)
	}
}

func TestResolveStyles(t *testing.T) {
	date, timeStyle := resolveStyles(StyleUnset, StyleUnset)
	assert.Equal(t, StyleFull, date)
	assert.Equal(t, StyleFull, timeStyle)

	date, timeStyle = resolveStyles(StyleMedium, StyleUnset)
	assert.Equal(t, StyleMedium, date)
	assert.Equal(t, StyleNone, timeStyle)

	date, timeStyle = resolveStyles(StyleUnset, StyleShort)
	assert.Equal(t, StyleNone, date)
	assert.Equal(t, StyleShort, timeStyle)

	date, timeStyle = resolveStyles(StyleNone, StyleNone)
	assert.Equal(t, StyleNone, date)
	assert.Equal(t, StyleNone, timeStyle)
}

func TestStringers(t *testing.T) {
	assert.Equal(t, "medium", StyleMedium.String())
	assert.Equal(t, "unset", StyleUnset.String())
	assert.Equal(t, "traditional", CalendarTraditional.String())
	assert.Equal(t, "unset", CalendarUnset.String())
}

func TestErrorMessages(t *testing.T) {
	configErr := &ConfigError{Field: "locale", Value: "xx", Err: ErrUnsupportedLocale}
	assert.Equal(t, "datefilter: configuration locale=xx: datefilter: unsupported locale", configErr.Error())
	assert.Equal(t, "datefilter: configuration: datefilter: invalid timezone", (&ConfigError{Err: ErrInvalidTimezone}).Error())

	parseErr := &ParseError{Input: "x", Pattern: "y", Offset: 0, Err: ErrNoMatch}
	assert.Contains(t, parseErr.Error(), `parse "x" with "y" at offset 0`)

	var nilErr *FormatError
	assert.Equal(t, "<nil>", nilErr.Error())
	assert.Nil(t, nilErr.Unwrap())

	assert.Equal(t, OutcomeFormatted, outcomeOf(nil))
	assert.Equal(t, OutcomePassthrough, outcomeOf(ErrNotText))
	assert.Equal(t, OutcomeFormatError, outcomeOf(&FormatError{Err: ErrEmptyPattern}))
}
