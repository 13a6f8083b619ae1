package datefilter

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// DateFormatter parses and formats dates with a single active pattern.
// Instances are not safe for concurrent use.
type DateFormatter interface {
	SetStrict(strict bool)
	Parse(text string) (time.Time, error)
	SetPattern(pattern string) error
	Pattern() string
	Format(t time.Time) (string, error)
	TimezoneID() string
	Calendar() CalendarSystem
}

// FormatterSpec is everything needed to build a DateFormatter.
type FormatterSpec struct {
	Locale    string
	DateStyle Style
	TimeStyle Style
	Timezone  string
	Calendar  Calendar
	// Now anchors the two-digit year window; time.Now when nil.
	Now func() time.Time
}

// FormatterFactory builds a DateFormatter for a resolved configuration.
type FormatterFactory func(FormatterSpec) (DateFormatter, error)

type patternCompiler interface {
	compile(pattern string) (*compiledPattern, error)
}

type patternFormatter struct {
	locale     string
	dataLocale string
	data       LocalePatterns
	names      CalendarNames
	location   *time.Location
	calendar   CalendarSystem
	eras       []string
	dayPeriods []string
	zone       ZoneNames
	gmtFormat  string
	gmtZero    string
	strict     bool
	pattern    *compiledPattern
	compile    func(string) (*compiledPattern, error)
	now        func() time.Time
}

var _ DateFormatter = &patternFormatter{}

// NewDateFormatter builds the default DateFormatter from CLDR pattern data
// and localized names. The initial pattern is derived from the requested styles.
func NewDateFormatter(spec FormatterSpec, patterns PatternSource, names NameSource) (DateFormatter, error) {
	if patterns == nil {
		provider, err := DefaultPatternProvider()
		if err != nil {
			return nil, &ConfigError{Field: "patterns", Err: err}
		}
		patterns = provider
	}
	if names == nil {
		names = defaultNames
	}

	data, dataLocale, err := patterns.Lookup(spec.Locale)
	if err != nil {
		return nil, &ConfigError{Field: "locale", Value: spec.Locale, Err: err}
	}

	location, err := loadLocation(spec.Timezone)
	if err != nil {
		return nil, &ConfigError{Field: "timezone", Value: spec.Timezone, Err: err}
	}

	system, err := calendarSystem(spec.Calendar, data)
	if err != nil {
		return nil, &ConfigError{Field: "calendar", Value: spec.Calendar, Err: err}
	}

	dateStyle, timeStyle := resolveStyles(spec.DateStyle, spec.TimeStyle)
	source, err := data.SourcePattern(dateStyle, timeStyle)
	if err != nil {
		return nil, &ConfigError{Field: "date_type", Value: dateStyle, Err: err}
	}

	f := &patternFormatter{
		locale:     spec.Locale,
		dataLocale: dataLocale,
		data:       data,
		names:      calendarNames(data, names),
		location:   location,
		calendar:   system,
		eras:       eraNames(data, system),
		dayPeriods: dayPeriodNames(data),
		zone:       zoneNames(data, patterns, location.String()),
		gmtFormat:  data.GMTFormat,
		gmtZero:    data.GMTZeroFormat,
		compile:    compilePattern,
		now:        spec.Now,
	}
	if compiler, ok := patterns.(patternCompiler); ok {
		f.compile = compiler.compile
	}
	if f.now == nil {
		f.now = time.Now
	}

	if err := f.SetPattern(source); err != nil {
		return nil, &ConfigError{Field: "pattern", Value: source, Err: err}
	}
	return f, nil
}

func loadLocation(id string) (*time.Location, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: empty timezone", ErrInvalidTimezone)
	}
	location, err := time.LoadLocation(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidTimezone, id, err)
	}
	return location, nil
}

// calendarNames prefers the CLDR names of the pattern data and asks the
// name source only for lists the data lacks.
func calendarNames(data LocalePatterns, source NameSource) CalendarNames {
	if data.Names.complete() {
		return data.Names.overlay(CalendarNames{})
	}
	return data.Names.overlay(source.Names(data.NamesLocale))
}

var utcZoneIDs = map[string]bool{
	"UTC": true, "UCT": true, "Zulu": true, "Universal": true,
	"Etc/UTC": true, "Etc/UCT": true, "Etc/Zulu": true, "Etc/Universal": true,
}

// zoneNames merges the names CLDR gives the zone itself over those of its metazone.
func zoneNames(data LocalePatterns, patterns PatternSource, zoneID string) ZoneNames {
	if utcZoneIDs[zoneID] {
		zoneID = "Etc/UTC"
	}
	names := data.Zones[zoneID]
	if source, ok := patterns.(ZoneNameSource); ok {
		if meta := source.MetaZone(zoneID); meta != "" {
			names = data.MetaZones[meta].merge(names)
		}
	}
	return names
}

func eraNames(data LocalePatterns, system CalendarSystem) []string {
	if names := data.Eras[system.ID()]; len(names) > 0 {
		return names
	}
	switch system.ID() {
	case "buddhist":
		return []string{"BE"}
	default:
		return []string{"BC", "AD"}
	}
}

func dayPeriodNames(data LocalePatterns) []string {
	if len(data.DayPeriods) == 2 {
		return data.DayPeriods
	}
	return []string{"AM", "PM"}
}

func (f *patternFormatter) SetStrict(strict bool) {
	f.strict = strict
}

func (f *patternFormatter) SetPattern(pattern string) error {
	compiled, err := f.compile(pattern)
	if err != nil {
		return err
	}
	f.pattern = compiled
	return nil
}

func (f *patternFormatter) Pattern() string {
	if f.pattern == nil {
		return ""
	}
	return f.pattern.source
}

func (f *patternFormatter) TimezoneID() string {
	return f.location.String()
}

func (f *patternFormatter) Calendar() CalendarSystem {
	return f.calendar
}

// DataLocale is the pattern data locale that served the requested locale.
func (f *patternFormatter) DataLocale() string {
	return f.dataLocale
}

func (f *patternFormatter) Format(t time.Time) (string, error) {
	if f.pattern == nil {
		return "", &FormatError{Err: ErrEmptyPattern}
	}

	t = t.In(f.location)
	era, eraYear := f.calendar.DisplayYear(t.Year())

	var b strings.Builder
	for _, tok := range f.pattern.tokens {
		switch tok.kind {
		case fieldLiteral:
			b.WriteString(tok.text)
		case fieldEra:
			if era < 0 || era >= len(f.eras) {
				return "", &FormatError{Pattern: f.pattern.source, Err: fmt.Errorf("no name for era %d", era)}
			}
			b.WriteString(f.eras[era])
		case fieldYear:
			if tok.width == 2 {
				b.WriteString(pad(eraYear%100, 2))
			} else {
				b.WriteString(pad(eraYear, tok.width))
			}
		case fieldMonth, fieldStandaloneMonth:
			b.WriteString(f.formatMonth(tok, t.Month()))
		case fieldDay:
			b.WriteString(pad(t.Day(), tok.width))
		case fieldWeekday:
			b.WriteString(f.formatWeekday(tok, t.Weekday()))
		case fieldDayPeriod:
			if t.Hour() < 12 {
				b.WriteString(f.dayPeriods[0])
			} else {
				b.WriteString(f.dayPeriods[1])
			}
		case fieldHour12:
			hour := t.Hour() % 12
			if hour == 0 {
				hour = 12
			}
			b.WriteString(pad(hour, tok.width))
		case fieldHour23:
			b.WriteString(pad(t.Hour(), tok.width))
		case fieldHour11:
			b.WriteString(pad(t.Hour()%12, tok.width))
		case fieldHour24:
			hour := t.Hour()
			if hour == 0 {
				hour = 24
			}
			b.WriteString(pad(hour, tok.width))
		case fieldMinute:
			b.WriteString(pad(t.Minute(), tok.width))
		case fieldSecond:
			b.WriteString(pad(t.Second(), tok.width))
		case fieldFraction:
			b.WriteString(formatFraction(t.Nanosecond(), tok.width))
		case fieldZoneName:
			b.WriteString(f.formatZoneName(t, tok.width))
		case fieldZoneOffset:
			_, offset := t.Zone()
			switch tok.width {
			case 4:
				b.WriteString(f.localizedGMT(offset, false))
			case 5:
				b.WriteString(formatISOOffset(offset, true, true))
			default:
				b.WriteString(formatISOOffset(offset, false, false))
			}
		case fieldZoneISO, fieldZoneISONoZ:
			_, offset := t.Zone()
			b.WriteString(formatISOZone(offset, tok.width, tok.kind == fieldZoneISO))
		case fieldZoneID:
			b.WriteString(t.Location().String())
		default:
			return "", &FormatError{Pattern: f.pattern.source, Err: ErrUnsupportedPattern}
		}
	}
	return b.String(), nil
}

func (f *patternFormatter) formatMonth(tok patternToken, month time.Month) string {
	idx := int(month) - 1
	wide, abbr := f.names.Months, f.names.MonthsAbbr
	if tok.kind == fieldStandaloneMonth {
		wide, abbr = f.names.StandaloneMonths, f.names.StandaloneMonthsAbbr
	}

	switch tok.width {
	case 1, 2:
		return pad(int(month), tok.width)
	case 3:
		return abbr[idx]
	case 4:
		return wide[idx]
	default:
		return narrow(wide[idx])
	}
}

func (f *patternFormatter) formatWeekday(tok patternToken, day time.Weekday) string {
	switch tok.width {
	case 4:
		return f.names.Weekdays[day]
	case 5:
		return narrow(f.names.Weekdays[day])
	default:
		return f.names.WeekdaysAbbr[day]
	}
}

func narrow(name string) string {
	r, _ := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return ""
	}
	return string(unicode.ToUpper(r))
}

func pad(value, width int) string {
	s := strconv.Itoa(value)
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

func formatFraction(nanos, width int) string {
	s := pad(nanos, 9)
	if width <= 9 {
		return s[:width]
	}
	return s + strings.Repeat("0", width-9)
}

// formatZoneName renders the CLDR specific name of the configured zone,
// falling back to the localized GMT format.
func (f *patternFormatter) formatZoneName(t time.Time, width int) string {
	_, offset := t.Zone()
	daylight := t.IsDST()
	if width >= 4 {
		if name := f.zone.Long.Name(daylight); name != "" {
			return name
		}
		return f.localizedGMT(offset, false)
	}
	if name := f.zone.Short.Name(daylight); name != "" {
		return name
	}
	return f.localizedGMT(offset, true)
}

// localizedGMT renders "GMT-03:00", or "GMT-3" in the short form.
func (f *patternFormatter) localizedGMT(offset int, short bool) string {
	if offset == 0 {
		if f.gmtZero != "" {
			return f.gmtZero
		}
		return "GMT"
	}

	value := formatISOOffset(offset, true, false)
	if short {
		value = shortOffset(offset)
	}
	format := f.gmtFormat
	if !strings.Contains(format, "{0}") {
		format = "GMT{0}"
	}
	return strings.Replace(format, "{0}", value, 1)
}

// gmtPrefixes lists the literal prefixes a localized GMT offset may start with.
func (f *patternFormatter) gmtPrefixes() []string {
	prefixes := make([]string, 0, 4)
	if idx := strings.Index(f.gmtFormat, "{0}"); idx > 0 {
		prefixes = append(prefixes, f.gmtFormat[:idx])
	}
	if f.gmtZero != "" {
		prefixes = append(prefixes, f.gmtZero)
	}
	return append(prefixes, "GMT", "UTC")
}

func shortOffset(offset int) string {
	sign := "+"
	if offset < 0 {
		sign = "-"
		offset = -offset
	}
	hours, minutes := offset/3600, (offset%3600)/60
	if minutes == 0 {
		return sign + strconv.Itoa(hours)
	}
	return sign + strconv.Itoa(hours) + ":" + pad(minutes, 2)
}

// formatGMT names fixed zones created while parsing.
func formatGMT(offset int) string {
	if offset == 0 {
		return "GMT"
	}
	return "GMT" + formatISOOffset(offset, true, false)
}

// formatISOOffset renders +hhmm, or +hh:mm when colon is set.
func formatISOOffset(offset int, colon, zulu bool) string {
	if offset == 0 && zulu {
		return "Z"
	}
	sign := '+'
	if offset < 0 {
		sign = '-'
		offset = -offset
	}
	hours, minutes := offset/3600, (offset%3600)/60
	sep := ""
	if colon {
		sep = ":"
	}
	return string(sign) + pad(hours, 2) + sep + pad(minutes, 2)
}

func formatISOZone(offset, width int, zulu bool) string {
	if offset == 0 && zulu {
		return "Z"
	}
	switch width {
	case 1:
		s := formatISOOffset(offset, false, false)
		if strings.HasSuffix(s, "00") {
			return s[:3]
		}
		return s
	case 2, 4:
		return formatISOOffset(offset, false, false)
	default:
		return formatISOOffset(offset, true, false)
	}
}
