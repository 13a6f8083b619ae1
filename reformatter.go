package datefilter

import (
	"errors"
	"log/slog"
)

// Reformatter parses locale formatted date text and re-emits it with an
// output pattern. It is immutable and safe for concurrent use; With*
// methods return modified copies.
type Reformatter struct {
	cfg Config
}

// New builds a Reformatter via supplied options
func New(opts ...Option) (*Reformatter, error) {
	return NewFromOptions(nil, opts...)
}

// NewFromOptions applies a configuration bundle (see Config.Apply), then opts.
func NewFromOptions(bundle map[string]any, opts ...Option) (*Reformatter, error) {
	cfg := Config{}
	if err := cfg.Apply(bundle); err != nil {
		return nil, err
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return &Reformatter{cfg: cfg}, nil
}

// Config returns a copy of the configuration.
func (r *Reformatter) Config() Config {
	cfg := r.cfg
	cfg.Hooks = append([]TransformHook(nil), r.cfg.Hooks...)
	return cfg
}

// Locale returns the configured locale or the current default locale.
func (r *Reformatter) Locale() string {
	if r.cfg.Locale != "" {
		return r.cfg.Locale
	}
	if locale := r.cfg.Defaults.Locale(); locale != "" {
		return locale
	}
	return fallbackLocale
}

// Timezone returns the configured timezone or the current default timezone.
func (r *Reformatter) Timezone() string {
	if r.cfg.Timezone != "" {
		return r.cfg.Timezone
	}
	if timezone := r.cfg.Defaults.Timezone(); timezone != "" {
		return timezone
	}
	return fallbackTimezone
}

func (r *Reformatter) DateStyle() Style {
	return r.cfg.DateStyle
}

func (r *Reformatter) TimeStyle() Style {
	return r.cfg.TimeStyle
}

// Calendar never returns CalendarUnset.
func (r *Reformatter) Calendar() Calendar {
	if r.cfg.Calendar == CalendarUnset {
		return CalendarGregorian
	}
	return r.cfg.Calendar
}

func (r *Reformatter) Pattern() string {
	return r.cfg.Pattern
}

func (r *Reformatter) with(mutate func(*Config)) *Reformatter {
	next := &Reformatter{cfg: r.Config()}
	mutate(&next.cfg)
	return next
}

func (r *Reformatter) WithLocale(locale string) *Reformatter {
	return r.with(func(c *Config) { c.Locale = locale })
}

func (r *Reformatter) WithDateStyle(style Style) *Reformatter {
	return r.with(func(c *Config) { c.DateStyle = style })
}

func (r *Reformatter) WithTimeStyle(style Style) *Reformatter {
	return r.with(func(c *Config) { c.TimeStyle = style })
}

func (r *Reformatter) WithCalendar(calendar Calendar) *Reformatter {
	return r.with(func(c *Config) { c.Calendar = calendar })
}

func (r *Reformatter) WithTimezone(timezone string) *Reformatter {
	return r.with(func(c *Config) { c.Timezone = timezone })
}

func (r *Reformatter) WithPattern(pattern string) *Reformatter {
	return r.with(func(c *Config) { c.Pattern = pattern })
}

func (r *Reformatter) spec() FormatterSpec {
	return FormatterSpec{
		Locale:    r.Locale(),
		DateStyle: r.cfg.DateStyle,
		TimeStyle: r.cfg.TimeStyle,
		Timezone:  r.Timezone(),
		Calendar:  r.Calendar(),
		Now:       r.cfg.now,
	}
}

// Resolve builds a formatter for the current configuration and reports the
// settings it effectively uses.
func (r *Reformatter) Resolve() (Resolved, error) {
	_, resolved, err := r.newFormatter()
	return resolved, err
}

func (r *Reformatter) newFormatter() (DateFormatter, Resolved, error) {
	spec := r.spec()
	dateStyle, timeStyle := resolveStyles(spec.DateStyle, spec.TimeStyle)
	resolved := Resolved{
		Locale:     spec.Locale,
		DateStyle:  dateStyle,
		TimeStyle:  timeStyle,
		TimezoneID: spec.Timezone,
		Calendar:   spec.Calendar,
	}

	formatter, err := r.cfg.Factory(spec)
	if err != nil {
		var configErr *ConfigError
		if !errors.As(err, &configErr) {
			err = &ConfigError{Err: err}
		}
		return nil, resolved, err
	}
	if formatter == nil {
		return nil, resolved, &ConfigError{Err: errors.New("datefilter: formatter factory returned nil")}
	}

	formatter.SetStrict(true)
	resolved.TimezoneID = formatter.TimezoneID()
	if system := formatter.Calendar(); system != nil {
		resolved.System = system.ID()
	}
	if data, ok := formatter.(interface{ DataLocale() string }); ok {
		resolved.DataLocale = data.DataLocale()
	}
	return formatter, resolved, nil
}

// Transform returns the reformatted text, or value unchanged when it is not
// a string or any step fails.
func (r *Reformatter) Transform(value any) any {
	return r.run(value).Value
}

// Func exposes Transform as a plain transform function.
func (r *Reformatter) Func() func(any) any {
	return r.Transform
}

// TransformString is Transform with the failure reported.
func (r *Reformatter) TransformString(text string) (string, error) {
	result := r.run(text)
	if result.Err != nil {
		return text, result.Err
	}
	return result.Value.(string), nil
}

func (r *Reformatter) TransformDetailed(text string) Result {
	return r.run(text)
}

func (r *Reformatter) run(input any) Result {
	ctx := &TransformContext{Input: input, Pattern: r.cfg.Pattern}
	for _, hook := range r.cfg.Hooks {
		hook.BeforeTransform(ctx)
	}

	result := r.transform(input)

	ctx.Output = result.Value
	ctx.Outcome = result.Outcome
	ctx.Err = result.Err
	ctx.Resolved = result.Resolved
	for _, hook := range r.cfg.Hooks {
		hook.AfterTransform(ctx)
	}

	if result.Err != nil && result.Outcome != OutcomePassthrough {
		r.cfg.Logger.Debug("datefilter: value passed through",
			slog.String("outcome", string(result.Outcome)),
			slog.String("locale", result.Resolved.Locale),
			slog.String("pattern", r.cfg.Pattern),
			slog.Any("error", result.Err),
		)
	}
	return result
}

func (r *Reformatter) transform(input any) Result {
	text, ok := input.(string)
	if !ok {
		return Result{Value: input, Outcome: OutcomePassthrough, Err: ErrNotText}
	}

	fail := func(err error, resolved Resolved) Result {
		return Result{Value: input, Outcome: outcomeOf(err), Err: err, Resolved: resolved}
	}

	formatter, resolved, err := r.newFormatter()
	if err != nil {
		return fail(err, resolved)
	}

	parsed, err := formatter.Parse(text)
	if err != nil {
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			err = &ParseError{Input: text, Pattern: formatter.Pattern(), Err: err}
		}
		return fail(err, resolved)
	}

	if err := formatter.SetPattern(r.cfg.Pattern); err != nil {
		return fail(&FormatError{Pattern: r.cfg.Pattern, Err: err}, resolved)
	}

	out, err := formatter.Format(parsed)
	if err != nil {
		var formatErr *FormatError
		if !errors.As(err, &formatErr) {
			err = &FormatError{Pattern: r.cfg.Pattern, Err: err}
		}
		return fail(err, resolved)
	}

	return Result{Value: out, Outcome: OutcomeFormatted, Resolved: resolved}
}
