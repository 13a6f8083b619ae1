package datefilter

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedLocale indicates a malformed locale or one without pattern data.
	ErrUnsupportedLocale = errors.New("datefilter: unsupported locale")
	// ErrInvalidTimezone indicates a timezone id the runtime cannot load.
	ErrInvalidTimezone = errors.New("datefilter: invalid timezone")
	// ErrUnsupportedCalendar indicates a calendar system with no implementation.
	ErrUnsupportedCalendar = errors.New("datefilter: unsupported calendar")
	// ErrUnsupportedPattern marks patterns using fields the formatter cannot handle.
	ErrUnsupportedPattern = errors.New("datefilter: unsupported pattern")
	// ErrEmptyPattern is returned when no output pattern was configured.
	ErrEmptyPattern = errors.New("datefilter: empty pattern")
	// ErrUnknownOption is returned for unrecognized configuration bundle keys.
	ErrUnknownOption = errors.New("datefilter: unknown option")
	// ErrNotText marks inputs that are not strings.
	ErrNotText = errors.New("datefilter: value is not text")
	// ErrNoMatch marks input text that does not match the source pattern.
	ErrNoMatch = errors.New("datefilter: text does not match pattern")
	// ErrFieldRange marks parsed fields outside of their valid range.
	ErrFieldRange = errors.New("datefilter: field out of range")
)

// ConfigError reports a formatter that could not be constructed.
type ConfigError struct {
	Field string
	Value any
	Err   error
}

func (e *ConfigError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Field == "" {
		return fmt.Sprintf("datefilter: configuration: %v", e.Err)
	}
	return fmt.Sprintf("datefilter: configuration %s=%v: %v", e.Field, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ParseError reports text that does not strictly match the source pattern.
type ParseError struct {
	Input   string
	Pattern string
	Offset  int
	Err     error
}

func (e *ParseError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("datefilter: parse %q with %q at offset %d: %v", e.Input, e.Pattern, e.Offset, e.Err)
}

func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// FormatError reports an instant that could not be rendered with the output pattern.
type FormatError struct {
	Pattern string
	Err     error
}

func (e *FormatError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("datefilter: format with %q: %v", e.Pattern, e.Err)
}

func (e *FormatError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// outcomeOf maps an error produced by a transform into its Outcome.
func outcomeOf(err error) Outcome {
	var (
		configErr *ConfigError
		parseErr  *ParseError
		formatErr *FormatError
	)

	switch {
	case err == nil:
		return OutcomeFormatted
	case errors.Is(err, ErrNotText):
		return OutcomePassthrough
	case errors.As(err, &configErr):
		return OutcomeConfigError
	case errors.As(err, &parseErr):
		return OutcomeParseError
	case errors.As(err, &formatErr):
		return OutcomeFormatError
	default:
		return OutcomeConfigError
	}
}
