package datefilter

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Config captures the reformatter configuration and its collaborators
type Config struct {
	Locale    string
	DateStyle Style
	TimeStyle Style
	Calendar  Calendar
	Timezone  string
	Pattern   string

	Defaults     Defaults
	Patterns     PatternSource
	Names        NameSource
	Factory      FormatterFactory
	Logger       *slog.Logger
	Hooks        []TransformHook
	StrictErrors bool

	patternFiles []string
	resolver     *StaticFallbackResolver
	now          func() time.Time
}

// Option mutates Config during construction
type Option func(*Config) error

// Bundle keys accepted by Config.Apply.
const (
	KeyLocale   = "locale"
	KeyDateType = "date_type"
	KeyTimeType = "time_type"
	KeyTimezone = "timezone"
	KeyPattern  = "pattern"
	KeyCalendar = "calendar"
)

var bundleAliases = map[string]string{
	"datetype": KeyDateType,
	"timetype": KeyTimeType,
}

// Apply sets configuration values from a bundle. Unknown keys and values
// that cannot be coerced fail with a *ConfigError; c is left untouched then.
func (c *Config) Apply(bundle map[string]any) error {
	if c == nil {
		return errors.New("datefilter: nil config")
	}

	next := *c
	for rawKey, value := range bundle {
		key := strings.ToLower(strings.TrimSpace(rawKey))
		if alias, ok := bundleAliases[key]; ok {
			key = alias
		}

		var err error
		switch key {
		case KeyLocale:
			next.Locale, err = coerceText(value)
		case KeyTimezone:
			next.Timezone, err = coerceText(value)
		case KeyPattern:
			next.Pattern, err = coerceText(value)
		case KeyDateType:
			next.DateStyle, err = ParseStyle(value)
		case KeyTimeType:
			next.TimeStyle, err = ParseStyle(value)
		case KeyCalendar:
			next.Calendar, err = ParseCalendar(value)
		default:
			return &ConfigError{Field: rawKey, Value: value, Err: ErrUnknownOption}
		}
		if err != nil {
			return &ConfigError{Field: rawKey, Value: value, Err: err}
		}
	}

	*c = next
	return nil
}

func coerceText(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	}
	if _, ok := asInt(value); ok {
		return fmt.Sprint(value), nil
	}
	return "", fmt.Errorf("datefilter: cannot use %T as text", value)
}

// WithLocale sets the locale used to parse input text
func WithLocale(locale string) Option {
	return func(c *Config) error {
		c.Locale = locale
		return nil
	}
}

func WithDateStyle(style Style) Option {
	return func(c *Config) error {
		if _, err := ParseStyle(style); err != nil {
			return err
		}
		c.DateStyle = style
		return nil
	}
}

func WithTimeStyle(style Style) Option {
	return func(c *Config) error {
		if _, err := ParseStyle(style); err != nil {
			return err
		}
		c.TimeStyle = style
		return nil
	}
}

func WithCalendar(calendar Calendar) Option {
	return func(c *Config) error {
		if _, err := ParseCalendar(calendar); err != nil {
			return err
		}
		c.Calendar = calendar
		return nil
	}
}

// WithTimezone sets the IANA timezone input text is interpreted in
func WithTimezone(timezone string) Option {
	return func(c *Config) error {
		c.Timezone = timezone
		return nil
	}
}

// WithPattern sets the output pattern
func WithPattern(pattern string) Option {
	return func(c *Config) error {
		c.Pattern = pattern
		return nil
	}
}

// WithDefaults replaces the process-wide defaults provider
func WithDefaults(defaults Defaults) Option {
	return func(c *Config) error {
		c.Defaults = defaults
		return nil
	}
}

func WithPatternProvider(patterns PatternSource) Option {
	return func(c *Config) error {
		c.Patterns = patterns
		return nil
	}
}

// WithPatternFiles merges JSON or YAML pattern files over the embedded data
func WithPatternFiles(paths ...string) Option {
	return func(c *Config) error {
		c.patternFiles = append(c.patternFiles, paths...)
		return nil
	}
}

// WithFallback registers a data locale chain for locale
func WithFallback(locale string, fallbacks ...string) Option {
	return func(c *Config) error {
		if c.resolver == nil {
			c.resolver = NewStaticFallbackResolver()
		}
		c.resolver.Set(locale, fallbacks...)
		return nil
	}
}

func WithNameSource(names NameSource) Option {
	return func(c *Config) error {
		c.Names = names
		return nil
	}
}

func WithFormatterFactory(factory FormatterFactory) Option {
	return func(c *Config) error {
		c.Factory = factory
		return nil
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) error {
		c.Logger = logger
		return nil
	}
}

func WithHooks(hooks ...TransformHook) Option {
	return func(c *Config) error {
		for _, hook := range hooks {
			if hook != nil {
				c.Hooks = append(c.Hooks, hook)
			}
		}
		return nil
	}
}

// WithStrictErrors makes the Filter adapter return errors instead of passing values through
func WithStrictErrors() Option {
	return func(c *Config) error {
		c.StrictErrors = true
		return nil
	}
}

func withClock(now func() time.Time) Option {
	return func(c *Config) error {
		c.now = now
		return nil
	}
}

// finalize fills collaborators that were not supplied
func (c *Config) finalize() error {
	if c.Patterns == nil || len(c.patternFiles) > 0 || c.resolver != nil {
		provider, err := c.patternProvider()
		if err != nil {
			return err
		}
		c.Patterns = provider
	}

	if c.Names == nil {
		c.Names = defaultNames
	}
	if c.Defaults == nil {
		c.Defaults = ProcessDefaults()
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	if c.Factory == nil {
		patterns, names := c.Patterns, c.Names
		c.Factory = func(spec FormatterSpec) (DateFormatter, error) {
			return NewDateFormatter(spec, patterns, names)
		}
	}
	return nil
}

func (c *Config) patternProvider() (PatternSource, error) {
	if len(c.patternFiles) == 0 && c.resolver == nil {
		return DefaultPatternProvider()
	}

	if c.Patterns != nil {
		shared, ok := c.Patterns.(*PatternProvider)
		if !ok {
			return nil, errors.New("datefilter: pattern files and fallbacks require a *PatternProvider")
		}
		// the supplied provider may be shared; extend a private copy
		provider := shared.Clone()
		for _, path := range c.patternFiles {
			if err := provider.LoadPatternFile(path); err != nil {
				return nil, err
			}
		}
		if c.resolver != nil {
			provider.WithResolver(chainResolvers(c.resolver, shared.fallbackResolver()))
		}
		return provider, nil
	}

	provider, err := NewPatternProvider(c.patternFiles...)
	if err != nil {
		return nil, err
	}
	if c.resolver != nil {
		provider.WithResolver(c.resolver)
	}
	return provider, nil
}
