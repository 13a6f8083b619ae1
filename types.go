package datefilter

import (
	"fmt"
	"strconv"
	"strings"
)

// Style is a predefined, locale dependent verbosity level for dates or times.
type Style int

const (
	StyleUnset Style = iota
	StyleNone
	StyleFull
	StyleLong
	StyleMedium
	StyleShort
)

// ICU numeric constants, accepted when coercing bundle values.
const (
	icuStyleNone   = -1
	icuStyleFull   = 0
	icuStyleLong   = 1
	icuStyleMedium = 2
	icuStyleShort  = 3

	icuCalendarTraditional = 0
	icuCalendarGregorian   = 1
)

func (s Style) String() string {
	switch s {
	case StyleNone:
		return "none"
	case StyleFull:
		return "full"
	case StyleLong:
		return "long"
	case StyleMedium:
		return "medium"
	case StyleShort:
		return "short"
	default:
		return "unset"
	}
}

// resolveStyles applies the library defaults: full/full when neither style
// is set, none for the missing half when only one is.
func resolveStyles(date, timeStyle Style) (Style, Style) {
	switch {
	case date == StyleUnset && timeStyle == StyleUnset:
		return StyleFull, StyleFull
	case date == StyleUnset:
		return StyleNone, timeStyle
	case timeStyle == StyleUnset:
		return date, StyleNone
	default:
		return date, timeStyle
	}
}

// ParseStyle coerces ICU integers, style names or Style values.
func ParseStyle(value any) (Style, error) {
	switch v := value.(type) {
	case nil:
		return StyleUnset, nil
	case Style:
		if v < StyleUnset || v > StyleShort {
			return StyleUnset, fmt.Errorf("datefilter: style %d out of range", int(v))
		}
		return v, nil
	case string:
		return parseStyleName(v)
	}

	n, ok := asInt(value)
	if !ok {
		return StyleUnset, fmt.Errorf("datefilter: cannot use %T as style", value)
	}

	switch n {
	case icuStyleNone:
		return StyleNone, nil
	case icuStyleFull:
		return StyleFull, nil
	case icuStyleLong:
		return StyleLong, nil
	case icuStyleMedium:
		return StyleMedium, nil
	case icuStyleShort:
		return StyleShort, nil
	default:
		return StyleUnset, fmt.Errorf("datefilter: unknown style %d", n)
	}
}

func parseStyleName(raw string) (Style, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	switch name {
	case "", "unset", "default":
		return StyleUnset, nil
	case "none":
		return StyleNone, nil
	case "full":
		return StyleFull, nil
	case "long":
		return StyleLong, nil
	case "medium":
		return StyleMedium, nil
	case "short":
		return StyleShort, nil
	}

	if n, err := strconv.Atoi(name); err == nil {
		return ParseStyle(n)
	}
	return StyleUnset, fmt.Errorf("datefilter: unknown style %q", raw)
}

// Calendar selects the date reckoning system.
type Calendar int

const (
	CalendarUnset Calendar = iota
	CalendarGregorian
	// CalendarTraditional uses the locale's traditional calendar.
	CalendarTraditional
)

func (c Calendar) String() string {
	switch c {
	case CalendarGregorian:
		return "gregorian"
	case CalendarTraditional:
		return "traditional"
	default:
		return "unset"
	}
}

// ParseCalendar coerces ICU integers, calendar names or Calendar values.
func ParseCalendar(value any) (Calendar, error) {
	switch v := value.(type) {
	case nil:
		return CalendarUnset, nil
	case Calendar:
		if v < CalendarUnset || v > CalendarTraditional {
			return CalendarUnset, fmt.Errorf("datefilter: calendar %d out of range", int(v))
		}
		return v, nil
	case string:
		name := strings.ToLower(strings.TrimSpace(v))
		switch name {
		case "", "unset":
			return CalendarUnset, nil
		case "gregorian":
			return CalendarGregorian, nil
		case "traditional":
			return CalendarTraditional, nil
		}
		if n, err := strconv.Atoi(name); err == nil {
			return ParseCalendar(n)
		}
		return CalendarUnset, fmt.Errorf("datefilter: unknown calendar %q", v)
	}

	n, ok := asInt(value)
	if !ok {
		return CalendarUnset, fmt.Errorf("datefilter: cannot use %T as calendar", value)
	}
	switch n {
	case icuCalendarGregorian:
		return CalendarGregorian, nil
	case icuCalendarTraditional:
		return CalendarTraditional, nil
	default:
		return CalendarUnset, fmt.Errorf("datefilter: unknown calendar %d", n)
	}
}

// Outcome classifies what a transform did with its input.
type Outcome string

const (
	OutcomeFormatted   Outcome = "formatted"
	OutcomePassthrough Outcome = "passthrough"
	OutcomeConfigError Outcome = "config_error"
	OutcomeParseError  Outcome = "parse_error"
	OutcomeFormatError Outcome = "format_error"
)

// Resolved holds the effective settings a formatter actually used.
type Resolved struct {
	Locale     string
	DataLocale string
	DateStyle  Style
	TimeStyle  Style
	TimezoneID string
	Calendar   Calendar
	System     string
}

// Result is the explicit outcome of a single transform.
type Result struct {
	Value    any
	Outcome  Outcome
	Err      error
	Resolved Resolved
}

// OK reports whether the value was reformatted.
func (r Result) OK() bool {
	return r.Outcome == OutcomeFormatted
}

func asInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int8:
		return int(v), true
	case int16:
		return int(v), true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case uint:
		return int(v), true
	case uint8:
		return int(v), true
	case uint16:
		return int(v), true
	case uint32:
		return int(v), true
	case uint64:
		return int(v), true
	case float64:
		if v != float64(int(v)) {
			return 0, false
		}
		return int(v), true
	case float32:
		if v != float32(int(v)) {
			return 0, false
		}
		return int(v), true
	default:
		return 0, false
	}
}
