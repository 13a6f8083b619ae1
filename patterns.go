package datefilter

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed data/cldr_patterns.yaml
var defaultPatternsYAML []byte

// StylePatterns holds one pattern per predefined style.
type StylePatterns struct {
	Full   string `json:"full,omitempty" yaml:"full,omitempty"`
	Long   string `json:"long,omitempty" yaml:"long,omitempty"`
	Medium string `json:"medium,omitempty" yaml:"medium,omitempty"`
	Short  string `json:"short,omitempty" yaml:"short,omitempty"`
}

// ForStyle returns the pattern registered for style, or "".
func (p StylePatterns) ForStyle(style Style) string {
	switch style {
	case StyleFull:
		return p.Full
	case StyleLong:
		return p.Long
	case StyleMedium:
		return p.Medium
	case StyleShort:
		return p.Short
	default:
		return ""
	}
}

func (p StylePatterns) merge(src StylePatterns) StylePatterns {
	if src.Full != "" {
		p.Full = src.Full
	}
	if src.Long != "" {
		p.Long = src.Long
	}
	if src.Medium != "" {
		p.Medium = src.Medium
	}
	if src.Short != "" {
		p.Short = src.Short
	}
	return p
}

// NameData holds CLDR month and weekday names. Weekdays start on Sunday.
// Empty stand-alone lists fall back to the format lists.
type NameData struct {
	Months               []string `json:"months,omitempty" yaml:"months,omitempty,flow"`
	MonthsAbbr           []string `json:"months_abbr,omitempty" yaml:"months_abbr,omitempty,flow"`
	StandaloneMonths     []string `json:"standalone_months,omitempty" yaml:"standalone_months,omitempty,flow"`
	StandaloneMonthsAbbr []string `json:"standalone_months_abbr,omitempty" yaml:"standalone_months_abbr,omitempty,flow"`
	Weekdays             []string `json:"weekdays,omitempty" yaml:"weekdays,omitempty,flow"`
	WeekdaysAbbr         []string `json:"weekdays_abbr,omitempty" yaml:"weekdays_abbr,omitempty,flow"`
}

func (n NameData) merge(src NameData) NameData {
	pick := func(dst, src []string) []string {
		if len(src) > 0 {
			return append([]string(nil), src...)
		}
		return dst
	}
	n.Months = pick(n.Months, src.Months)
	n.MonthsAbbr = pick(n.MonthsAbbr, src.MonthsAbbr)
	n.StandaloneMonths = pick(n.StandaloneMonths, src.StandaloneMonths)
	n.StandaloneMonthsAbbr = pick(n.StandaloneMonthsAbbr, src.StandaloneMonthsAbbr)
	n.Weekdays = pick(n.Weekdays, src.Weekdays)
	n.WeekdaysAbbr = pick(n.WeekdaysAbbr, src.WeekdaysAbbr)
	return n
}

// complete reports whether every format list has a full set of names.
func (n NameData) complete() bool {
	return len(n.Months) == 12 && len(n.MonthsAbbr) == 12 &&
		len(n.Weekdays) == 7 && len(n.WeekdaysAbbr) == 7
}

// overlay replaces entries of names with the lists that are complete.
func (n NameData) overlay(names CalendarNames) CalendarNames {
	copyMonths := func(dst *[12]string, src []string) {
		if len(src) == 12 {
			copy(dst[:], src)
		}
	}
	copyDays := func(dst *[7]string, src []string) {
		if len(src) == 7 {
			copy(dst[:], src)
		}
	}

	copyMonths(&names.Months, n.Months)
	copyMonths(&names.MonthsAbbr, n.MonthsAbbr)
	copyMonths(&names.StandaloneMonths, n.Months)
	copyMonths(&names.StandaloneMonthsAbbr, n.MonthsAbbr)
	copyMonths(&names.StandaloneMonths, n.StandaloneMonths)
	copyMonths(&names.StandaloneMonthsAbbr, n.StandaloneMonthsAbbr)
	copyDays(&names.Weekdays, n.Weekdays)
	copyDays(&names.WeekdaysAbbr, n.WeekdaysAbbr)
	return names
}

// ZoneNameSet holds the standard and daylight names of one width.
type ZoneNameSet struct {
	Standard string `json:"standard,omitempty" yaml:"standard,omitempty"`
	Daylight string `json:"daylight,omitempty" yaml:"daylight,omitempty"`
}

func (z ZoneNameSet) merge(src ZoneNameSet) ZoneNameSet {
	if src.Standard != "" {
		z.Standard = src.Standard
	}
	if src.Daylight != "" {
		z.Daylight = src.Daylight
	}
	return z
}

// Name returns the daylight or standard name.
func (z ZoneNameSet) Name(daylight bool) string {
	if daylight {
		return z.Daylight
	}
	return z.Standard
}

// ZoneNames are the localized names of a time zone or metazone.
type ZoneNames struct {
	Long  ZoneNameSet `json:"long,omitempty" yaml:"long,omitempty"`
	Short ZoneNameSet `json:"short,omitempty" yaml:"short,omitempty"`
}

func (z ZoneNames) merge(src ZoneNames) ZoneNames {
	z.Long = z.Long.merge(src.Long)
	z.Short = z.Short.merge(src.Short)
	return z
}

func mergeZoneMap(dst, src map[string]ZoneNames) map[string]ZoneNames {
	if len(src) == 0 {
		return dst
	}
	out := make(map[string]ZoneNames, len(dst)+len(src))
	for id, names := range dst {
		out[id] = names
	}
	for id, names := range src {
		out[id] = out[id].merge(names)
	}
	return out
}

// LocalePatterns is the CLDR derived formatting data for a single locale.
type LocalePatterns struct {
	NamesLocale         string               `json:"names_locale,omitempty" yaml:"names_locale,omitempty"`
	TraditionalCalendar string               `json:"traditional_calendar,omitempty" yaml:"traditional_calendar,omitempty"`
	Date                StylePatterns        `json:"date" yaml:"date"`
	Time                StylePatterns        `json:"time" yaml:"time"`
	DateTime            StylePatterns        `json:"datetime" yaml:"datetime"`
	DayPeriods          []string             `json:"day_periods,omitempty" yaml:"day_periods,omitempty,flow"`
	Eras                map[string][]string  `json:"eras,omitempty" yaml:"eras,omitempty"`
	Names               NameData             `json:"names,omitempty" yaml:"names,omitempty"`
	GMTFormat           string               `json:"gmt_format,omitempty" yaml:"gmt_format,omitempty"`
	GMTZeroFormat       string               `json:"gmt_zero_format,omitempty" yaml:"gmt_zero_format,omitempty"`
	Zones               map[string]ZoneNames `json:"zones,omitempty" yaml:"zones,omitempty"`
	MetaZones           map[string]ZoneNames `json:"metazones,omitempty" yaml:"metazones,omitempty"`
}

func (p LocalePatterns) merge(src LocalePatterns) LocalePatterns {
	if src.NamesLocale != "" {
		p.NamesLocale = src.NamesLocale
	}
	if src.TraditionalCalendar != "" {
		p.TraditionalCalendar = src.TraditionalCalendar
	}
	p.Date = p.Date.merge(src.Date)
	p.Time = p.Time.merge(src.Time)
	p.DateTime = p.DateTime.merge(src.DateTime)
	if len(src.DayPeriods) > 0 {
		p.DayPeriods = append([]string(nil), src.DayPeriods...)
	}
	if len(src.Eras) > 0 {
		eras := make(map[string][]string, len(p.Eras)+len(src.Eras))
		for system, names := range p.Eras {
			eras[system] = names
		}
		for system, names := range src.Eras {
			eras[system] = append([]string(nil), names...)
		}
		p.Eras = eras
	}
	p.Names = p.Names.merge(src.Names)
	if src.GMTFormat != "" {
		p.GMTFormat = src.GMTFormat
	}
	if src.GMTZeroFormat != "" {
		p.GMTZeroFormat = src.GMTZeroFormat
	}
	p.Zones = mergeZoneMap(p.Zones, src.Zones)
	p.MetaZones = mergeZoneMap(p.MetaZones, src.MetaZones)
	return p
}

// SourcePattern combines the date and time patterns for the given styles.
// Both styles none yields the ICU fallback pattern.
func (p LocalePatterns) SourcePattern(date, timeStyle Style) (string, error) {
	datePattern := p.Date.ForStyle(date)
	timePattern := p.Time.ForStyle(timeStyle)

	if date != StyleNone && datePattern == "" {
		return "", fmt.Errorf("%w: no %s date pattern", ErrUnsupportedPattern, date)
	}
	if timeStyle != StyleNone && timePattern == "" {
		return "", fmt.Errorf("%w: no %s time pattern", ErrUnsupportedPattern, timeStyle)
	}

	switch {
	case date == StyleNone && timeStyle == StyleNone:
		return fallbackSourcePattern, nil
	case timeStyle == StyleNone:
		return datePattern, nil
	case date == StyleNone:
		return timePattern, nil
	}

	glue := p.DateTime.ForStyle(date)
	if glue == "" {
		glue = "{1} {0}"
	}
	return strings.NewReplacer("{1}", datePattern, "{0}", timePattern).Replace(glue), nil
}

const fallbackSourcePattern = "yyyyMMdd hh:mm a"

// PatternData is the document layout of pattern files. MetaZoneMap maps
// IANA zone ids to the CLDR metazone currently in use.
type PatternData struct {
	MetaZoneMap map[string]string         `json:"metazone_map,omitempty" yaml:"metazone_map,omitempty"`
	Locales     map[string]LocalePatterns `json:"locales" yaml:"locales"`
}

// PatternSource resolves formatting data for a locale.
type PatternSource interface {
	// Lookup returns the patterns for locale and the data locale that served them.
	Lookup(locale string) (LocalePatterns, string, error)
}

// ZoneNameSource is implemented by pattern sources that know metazones.
type ZoneNameSource interface {
	MetaZone(zoneID string) string
}

// PatternProvider serves embedded CLDR pattern data merged with user files.
type PatternProvider struct {
	mu        sync.RWMutex
	locales   map[string]LocalePatterns
	metaZones map[string]string
	resolver  FallbackResolver
	compiled  map[string]*compiledPattern
}

var _ ZoneNameSource = &PatternProvider{}

var _ PatternSource = &PatternProvider{}

// NewPatternProvider loads the embedded snapshot and merges files in order.
func NewPatternProvider(files ...string) (*PatternProvider, error) {
	base, err := decodePatternData("cldr_patterns.yaml", defaultPatternsYAML)
	if err != nil {
		return nil, fmt.Errorf("datefilter: parse embedded patterns: %w", err)
	}

	provider := &PatternProvider{
		locales:  make(map[string]LocalePatterns, len(base.Locales)),
		compiled: make(map[string]*compiledPattern),
	}
	provider.merge(base)

	for _, path := range files {
		if err := provider.LoadPatternFile(path); err != nil {
			return nil, err
		}
	}
	return provider, nil
}

var (
	defaultProviderOnce sync.Once
	defaultProvider     *PatternProvider
	defaultProviderErr  error
)

// DefaultPatternProvider returns the shared provider backed by embedded data.
func DefaultPatternProvider() (*PatternProvider, error) {
	defaultProviderOnce.Do(func() {
		defaultProvider, defaultProviderErr = NewPatternProvider()
	})
	return defaultProvider, defaultProviderErr
}

// WithResolver sets the fallback resolver consulted before locale parents.
func (p *PatternProvider) WithResolver(resolver FallbackResolver) *PatternProvider {
	if p == nil {
		return p
	}
	p.mu.Lock()
	p.resolver = resolver
	p.mu.Unlock()
	return p
}

// Clone returns an independent provider with the same data and resolver.
func (p *PatternProvider) Clone() *PatternProvider {
	if p == nil {
		return nil
	}
	p.mu.RLock()
	defer p.mu.RUnlock()

	clone := &PatternProvider{
		locales:   make(map[string]LocalePatterns, len(p.locales)),
		metaZones: make(map[string]string, len(p.metaZones)),
		resolver:  p.resolver,
		compiled:  make(map[string]*compiledPattern),
	}
	for locale, patterns := range p.locales {
		clone.locales[locale] = patterns
	}
	for zone, meta := range p.metaZones {
		clone.metaZones[zone] = meta
	}
	return clone
}

func (p *PatternProvider) fallbackResolver() FallbackResolver {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.resolver
}

// LoadPatternFile merges a JSON or YAML pattern file; file entries win.
func (p *PatternProvider) LoadPatternFile(path string) error {
	if p == nil {
		return errors.New("datefilter: nil pattern provider")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("datefilter: read %s: %w", path, err)
	}
	doc, err := decodePatternData(path, data)
	if err != nil {
		return fmt.Errorf("datefilter: decode %s: %w", path, err)
	}
	p.merge(doc)
	return nil
}

// Set registers or merges patterns for locale.
func (p *PatternProvider) Set(locale string, patterns LocalePatterns) {
	if p == nil {
		return
	}
	p.merge(PatternData{Locales: map[string]LocalePatterns{locale: patterns}})
}

func (p *PatternProvider) merge(doc PatternData) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.locales == nil {
		p.locales = make(map[string]LocalePatterns)
	}
	if p.metaZones == nil {
		p.metaZones = make(map[string]string)
	}
	for zone, meta := range doc.MetaZoneMap {
		p.metaZones[zone] = meta
	}
	for locale, patterns := range doc.Locales {
		key := normalizeLocale(locale)
		if key == "" {
			continue
		}
		p.locales[key] = p.locales[key].merge(patterns)
	}
}

// Locales lists the data locales the provider knows about.
func (p *PatternProvider) Locales() []string {
	if p == nil {
		return nil
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]string, 0, len(p.locales))
	for locale := range p.locales {
		out = append(out, locale)
	}
	return out
}

// MetaZone returns the metazone of an IANA zone id, or "".
func (p *PatternProvider) MetaZone(zoneID string) string {
	if p == nil {
		return ""
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.metaZones[zoneID]
}

func (p *PatternProvider) Lookup(locale string) (LocalePatterns, string, error) {
	if p == nil {
		return LocalePatterns{}, "", errors.New("datefilter: nil pattern provider")
	}

	tag, err := parseLocale(locale)
	if err != nil {
		return LocalePatterns{}, "", err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, candidate := range p.candidates(normalizeLocale(locale), tag.String()) {
		if patterns, ok := p.locales[candidate]; ok {
			return patterns, candidate, nil
		}
	}

	return LocalePatterns{}, "", fmt.Errorf("%w: no pattern data for %q", ErrUnsupportedLocale, locale)
}

func (p *PatternProvider) candidates(raw, canonical string) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(values ...string) {
		for _, value := range values {
			if value == "" {
				continue
			}
			if _, ok := seen[value]; ok {
				continue
			}
			seen[value] = struct{}{}
			out = append(out, value)
		}
	}

	add(raw, canonical)
	if p.resolver != nil {
		targets := p.resolver.Resolve(raw)
		if canonical != raw {
			targets = append(targets, p.resolver.Resolve(canonical)...)
		}
		// each fallback target brings its own parents ahead of ours
		for _, target := range targets {
			add(target)
			if tag, err := language.Parse(target); err == nil {
				add(tag.String())
				add(localeParentChain(tag.String())...)
			}
		}
	}
	add(localeParentChain(canonical)...)
	return out
}

// compile returns the cached compiled form of pattern.
func (p *PatternProvider) compile(pattern string) (*compiledPattern, error) {
	if p == nil {
		return compilePattern(pattern)
	}

	p.mu.RLock()
	cached, ok := p.compiled[pattern]
	p.mu.RUnlock()
	if ok {
		return cached, nil
	}

	compiled, err := compilePattern(pattern)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	if p.compiled == nil {
		p.compiled = make(map[string]*compiledPattern)
	}
	p.compiled[pattern] = compiled
	p.mu.Unlock()
	return compiled, nil
}

func decodePatternData(path string, data []byte) (PatternData, error) {
	var doc PatternData
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return PatternData{}, err
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return PatternData{}, fmt.Errorf("yaml parse error: %w", err)
		}
	default:
		return PatternData{}, fmt.Errorf("unsupported extension %s", ext)
	}

	if len(doc.Locales) == 0 {
		return PatternData{}, fmt.Errorf("datefilter: pattern file %s has no locales", path)
	}
	for locale := range doc.Locales {
		if strings.TrimSpace(locale) == "" {
			return PatternData{}, fmt.Errorf("datefilter: empty locale in %s", path)
		}
	}
	return doc, nil
}
