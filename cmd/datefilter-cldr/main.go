package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	cldr "golang.org/x/text/unicode/cldr"
	"gopkg.in/yaml.v3"

	datefilter "github.com/goliatone/go-datefilter"
)

const header = "# Code generated by datefilter-cldr from CLDR core data; DO NOT EDIT.\n"

type generatorConfig struct {
	out      string
	cldrPath string
	locales  []string
	zones    []string
}

type listFlag struct {
	items []string
}

func (f *listFlag) String() string {
	return strings.Join(f.items, ",")
}

func (f *listFlag) Set(value string) error {
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		f.items = append(f.items, part)
	}
	return nil
}

var styleTypes = []string{"full", "long", "medium", "short"}

var (
	monthTypes = []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12"}
	dayTypes   = []string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}
)

// zones whose names are emitted when no -zone flag is given
var defaultZones = []string{
	"Etc/UTC",
	"America/New_York",
	"America/Sao_Paulo",
	"Europe/London",
	"Europe/Lisbon",
	"Europe/Madrid",
	"Europe/Paris",
	"Europe/Berlin",
	"Europe/Rome",
	"Europe/Amsterdam",
	"Europe/Moscow",
	"Asia/Tokyo",
	"Asia/Bangkok",
}

// CLDR calendar types that have an implementation
var supportedCalendars = map[string]bool{
	"gregorian": true,
	"buddhist":  true,
}

// traditional calendars by CLDR region default
var regionCalendars = map[string]string{
	"TH": "buddhist",
}

func main() {
	cfg, err := parseFlags()
	if err != nil {
		reportError(err)
	}

	if err := run(cfg); err != nil {
		reportError(err)
	}
}

func reportError(err error) {
	fmt.Fprintf(os.Stderr, "datefilter-cldr: %v\n", err)
	os.Exit(1)
}

func parseFlags() (generatorConfig, error) {
	var cfg generatorConfig
	var localeList, zoneList listFlag

	flag.StringVar(&cfg.out, "out", "data/cldr_patterns.yaml", "path to generated YAML file")
	flag.StringVar(&cfg.cldrPath, "cldr", "", "path to CLDR core data directory (expects main/)")
	flag.Var(&localeList, "locale", "locale to generate. Repeat flag to add more.")
	flag.Var(&zoneList, "zone", "IANA zone whose names are emitted. Repeat flag to add more.")

	flag.Parse()

	if len(localeList.items) == 0 {
		return generatorConfig{}, errors.New("at least one -locale value is required")
	}
	cfg.locales = localeList.items
	cfg.zones = zoneList.items
	if len(cfg.zones) == 0 {
		cfg.zones = defaultZones
	}

	if cfg.cldrPath == "" {
		cfg.cldrPath = os.Getenv("CLDR_CORE_DIR")
	}
	if cfg.cldrPath == "" {
		return generatorConfig{}, errors.New("missing CLDR data directory (set -cldr or CLDR_CORE_DIR)")
	}

	return cfg, nil
}

func run(cfg generatorConfig) error {
	data, err := loadCLDR(cfg.cldrPath)
	if err != nil {
		return err
	}

	doc := datefilter.PatternData{
		MetaZoneMap: metaZoneMap(data.Supplemental(), cfg.zones),
		Locales:     make(map[string]datefilter.LocalePatterns, len(cfg.locales)),
	}
	wanted := zoneSelection{zones: toSet(cfg.zones), metaZones: make(map[string]bool)}
	for _, meta := range doc.MetaZoneMap {
		wanted.metaZones[meta] = true
	}

	for _, locale := range cfg.locales {
		key := strings.ReplaceAll(strings.TrimSpace(locale), "_", "-")
		patterns, err := buildLocale(data, key, wanted)
		if err != nil {
			return fmt.Errorf("build patterns for %s: %w", key, err)
		}
		doc.Locales[key] = patterns
	}

	source, err := renderYAML(doc)
	if err != nil {
		return err
	}

	if err := ensureDir(cfg.out); err != nil {
		return err
	}
	return os.WriteFile(cfg.out, source, 0o644)
}

func loadCLDR(path string) (*cldr.CLDR, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat CLDR directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("CLDR path %q is not a directory", path)
	}

	var decoder cldr.Decoder
	decoder.SetDirFilter("main", "supplemental")
	decoder.SetSectionFilter("dates")

	data, err := decoder.DecodePath(path)
	if err != nil {
		return nil, fmt.Errorf("decode CLDR data: %w", err)
	}
	return data, nil
}

func buildLocale(data *cldr.CLDR, locale string, wanted zoneSelection) (datefilter.LocalePatterns, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return datefilter.LocalePatterns{}, err
	}

	chain := ldmlChain(data, locale)
	if len(chain) == 0 {
		return datefilter.LocalePatterns{}, errors.New("missing LDML data")
	}

	patterns := datefilter.LocalePatterns{
		NamesLocale:         mondayKey(tag),
		TraditionalCalendar: traditionalCalendar(tag),
		Eras:                make(map[string][]string),
	}

	names := make(nameTable)
	zones := make(zoneTable)
	metaZones := make(zoneTable)

	// closest locale first; later entries only fill gaps
	for _, ldml := range chain {
		if tz := timeZoneNames(ldml); tz != nil {
			if patterns.GMTFormat == "" {
				patterns.GMTFormat = firstData(tz.GmtFormat)
			}
			if patterns.GMTZeroFormat == "" {
				patterns.GMTZeroFormat = firstData(tz.GmtZeroFormat)
			}
			for _, zone := range tz.Zone {
				if zone != nil && wanted.zones[zone.Type] {
					zones.fill(zone.Type, zone.Long, zone.Short)
				}
			}
			for _, meta := range tz.Metazone {
				if meta != nil && wanted.metaZones[meta.Type] {
					metaZones.fill(meta.Type, meta.Long, meta.Short)
				}
			}
		}

		gregorian := findCalendar(ldml, "gregorian")
		if gregorian == nil {
			continue
		}
		names.collect(gregorian)
		patterns.Date = fillStyles(patterns.Date, dateFormats(gregorian))
		patterns.Time = fillStyles(patterns.Time, timeFormats(gregorian))
		patterns.DateTime = fillStyles(patterns.DateTime, dateTimeFormats(gregorian))
		if len(patterns.DayPeriods) == 0 {
			patterns.DayPeriods = dayPeriods(gregorian)
		}
		for system := range supportedCalendars {
			if _, ok := patterns.Eras[system]; ok {
				continue
			}
			if calendar := findCalendar(ldml, system); calendar != nil {
				if eras := eraAbbreviations(calendar); len(eras) > 0 {
					patterns.Eras[system] = eras
				}
			}
		}
	}

	if patterns.Date.Medium == "" {
		return datefilter.LocalePatterns{}, errors.New("no gregorian date formats")
	}
	patterns.Names = names.nameData()
	patterns.Zones = zones.result()
	patterns.MetaZones = metaZones.result()
	return patterns, nil
}

type zoneSelection struct {
	zones     map[string]bool
	metaZones map[string]bool
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, value := range values {
		set[value] = true
	}
	return set
}

// metaZoneMap maps each zone to the metazone it uses today.
func metaZoneMap(supplemental *cldr.SupplementalData, zones []string) map[string]string {
	if supplemental == nil {
		return nil
	}
	// older CLDR releases keep metazoneInfo at the top level
	info := supplemental.MetazoneInfo
	if supplemental.MetaZones != nil && supplemental.MetaZones.MetazoneInfo != nil {
		info = supplemental.MetaZones.MetazoneInfo
	}
	if info == nil {
		return nil
	}

	wanted := toSet(zones)
	out := make(map[string]string)
	for _, zone := range info.Timezone {
		if zone == nil || !wanted[zone.Type] {
			continue
		}
		for _, uses := range zone.UsesMetazone {
			if uses != nil && uses.To == "" {
				out[zone.Type] = uses.Mzone
			}
		}
	}
	return out
}

func timeZoneNames(ldml *cldr.LDML) *cldr.TimeZoneNames {
	if ldml == nil || ldml.Dates == nil {
		return nil
	}
	return ldml.Dates.TimeZoneNames
}

func firstData(items []*cldr.Common) string {
	for _, item := range items {
		if item != nil && item.Alt == "" {
			return normalizeSpaces(item.Data())
		}
	}
	return ""
}

// zoneWidth is the shape CLDR uses for the long and short names of zones
// and metazones alike.
type zoneWidth = []*struct {
	cldr.Common
	Generic  []*cldr.Common `xml:"generic"`
	Standard []*cldr.Common `xml:"standard"`
	Daylight []*cldr.Common `xml:"daylight"`
}

type zoneTable map[string]datefilter.ZoneNames

// fill sets the names of id that are still empty.
func (t zoneTable) fill(id string, long, short zoneWidth) {
	names := t[id]
	names.Long = fillZoneSet(names.Long, long)
	names.Short = fillZoneSet(names.Short, short)
	t[id] = names
}

func fillZoneSet(dst datefilter.ZoneNameSet, widths zoneWidth) datefilter.ZoneNameSet {
	for _, width := range widths {
		if width == nil || width.Alt != "" {
			continue
		}
		if dst.Standard == "" {
			dst.Standard = firstData(width.Standard)
		}
		if dst.Daylight == "" {
			dst.Daylight = firstData(width.Daylight)
		}
	}
	return dst
}

func (t zoneTable) result() map[string]datefilter.ZoneNames {
	out := make(map[string]datefilter.ZoneNames, len(t))
	for id, names := range t {
		if names != (datefilter.ZoneNames{}) {
			out[id] = names
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// nameTable collects month and day names per "kind/context/width" list,
// keeping the first value seen for each item.
type nameTable map[string]map[string]string

func (t nameTable) set(list, item, value string) {
	if t[list] == nil {
		t[list] = make(map[string]string)
	}
	if _, ok := t[list][item]; !ok && value != "" {
		t[list][item] = value
	}
}

func (t nameTable) collect(calendar *cldr.Calendar) {
	if calendar.Months != nil {
		for _, context := range calendar.Months.MonthContext {
			if context == nil {
				continue
			}
			for _, width := range context.MonthWidth {
				if width == nil {
					continue
				}
				for _, month := range width.Month {
					if month == nil || month.Alt != "" || month.Yeartype != "" {
						continue
					}
					t.set("month/"+context.Type+"/"+width.Type, month.Type, normalizeSpaces(month.Data()))
				}
			}
		}
	}

	if calendar.Days != nil {
		for _, context := range calendar.Days.DayContext {
			if context == nil {
				continue
			}
			for _, width := range context.DayWidth {
				if width == nil {
					continue
				}
				for _, day := range width.Day {
					if day == nil || day.Alt != "" {
						continue
					}
					t.set("day/"+context.Type+"/"+width.Type, day.Type, normalizeSpaces(day.Data()))
				}
			}
		}
	}
}

// list returns the names of list in types order, or nil when incomplete.
func (t nameTable) list(list string, types []string) []string {
	items := t[list]
	out := make([]string, 0, len(types))
	for _, typ := range types {
		value, ok := items[typ]
		if !ok {
			return nil
		}
		out = append(out, value)
	}
	return out
}

func (t nameTable) nameData() datefilter.NameData {
	data := datefilter.NameData{
		Months:       t.list("month/format/wide", monthTypes),
		MonthsAbbr:   t.list("month/format/abbreviated", monthTypes),
		Weekdays:     t.list("day/format/wide", dayTypes),
		WeekdaysAbbr: t.list("day/format/abbreviated", dayTypes),
	}

	// stand-alone lists are only kept where they differ
	if standalone := t.list("month/stand-alone/wide", monthTypes); !equalNames(standalone, data.Months) {
		data.StandaloneMonths = standalone
	}
	if standalone := t.list("month/stand-alone/abbreviated", monthTypes); !equalNames(standalone, data.MonthsAbbr) {
		data.StandaloneMonthsAbbr = standalone
	}
	return data
}

func equalNames(a, b []string) bool {
	if len(a) == 0 {
		return true
	}
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ldmlChain returns the LDML documents for locale and its parents, root last.
func ldmlChain(data *cldr.CLDR, locale string) []*cldr.LDML {
	if data == nil {
		return nil
	}

	var chain []*cldr.LDML
	candidate := strings.ReplaceAll(locale, "-", "_")
	for candidate != "" {
		if ldml := data.RawLDML(candidate); ldml != nil {
			chain = append(chain, ldml)
		}
		idx := strings.LastIndex(candidate, "_")
		if idx < 0 {
			break
		}
		candidate = candidate[:idx]
	}
	if root := data.RawLDML("root"); root != nil {
		chain = append(chain, root)
	}
	return chain
}

func findCalendar(ldml *cldr.LDML, calendarType string) *cldr.Calendar {
	if ldml == nil || ldml.Dates == nil || ldml.Dates.Calendars == nil {
		return nil
	}
	for _, calendar := range ldml.Dates.Calendars.Calendar {
		if calendar != nil && calendar.Type == calendarType {
			return calendar
		}
	}
	return nil
}

type styleMap map[string]string

func fillStyles(dst datefilter.StylePatterns, src styleMap) datefilter.StylePatterns {
	if dst.Full == "" {
		dst.Full = normalizeSpaces(src["full"])
	}
	if dst.Long == "" {
		dst.Long = normalizeSpaces(src["long"])
	}
	if dst.Medium == "" {
		dst.Medium = normalizeSpaces(src["medium"])
	}
	if dst.Short == "" {
		dst.Short = normalizeSpaces(src["short"])
	}
	return dst
}

func dateFormats(calendar *cldr.Calendar) styleMap {
	out := make(styleMap)
	if calendar.DateFormats == nil {
		return out
	}
	for _, length := range calendar.DateFormats.DateFormatLength {
		if length == nil || !isStyle(length.Type) {
			continue
		}
		for _, format := range length.DateFormat {
			if format == nil {
				continue
			}
			for _, pattern := range format.Pattern {
				if pattern != nil && pattern.Alt == "" {
					out[length.Type] = pattern.Data()
					break
				}
			}
		}
	}
	return out
}

func timeFormats(calendar *cldr.Calendar) styleMap {
	out := make(styleMap)
	if calendar.TimeFormats == nil {
		return out
	}
	for _, length := range calendar.TimeFormats.TimeFormatLength {
		if length == nil || !isStyle(length.Type) {
			continue
		}
		for _, format := range length.TimeFormat {
			if format == nil {
				continue
			}
			for _, pattern := range format.Pattern {
				if pattern != nil && pattern.Alt == "" {
					out[length.Type] = pattern.Data()
					break
				}
			}
		}
	}
	return out
}

func dateTimeFormats(calendar *cldr.Calendar) styleMap {
	out := make(styleMap)
	if calendar.DateTimeFormats == nil {
		return out
	}
	for _, length := range calendar.DateTimeFormats.DateTimeFormatLength {
		if length == nil || !isStyle(length.Type) {
			continue
		}
		for _, format := range length.DateTimeFormat {
			// "atTime" variants are only used by relative formatting
			if format == nil || (format.Type != "" && format.Type != "standard") {
				continue
			}
			for _, pattern := range format.Pattern {
				if pattern != nil && pattern.Alt == "" {
					out[length.Type] = pattern.Data()
					break
				}
			}
		}
	}
	return out
}

func dayPeriods(calendar *cldr.Calendar) []string {
	if calendar.DayPeriods == nil {
		return nil
	}
	for _, context := range calendar.DayPeriods.DayPeriodContext {
		if context == nil || context.Type != "format" {
			continue
		}
		for _, width := range context.DayPeriodWidth {
			if width == nil || width.Type != "abbreviated" {
				continue
			}
			var am, pm string
			for _, period := range width.DayPeriod {
				if period == nil || period.Alt != "" {
					continue
				}
				switch period.Type {
				case "am":
					am = period.Data()
				case "pm":
					pm = period.Data()
				}
			}
			if am != "" && pm != "" {
				return []string{normalizeSpaces(am), normalizeSpaces(pm)}
			}
		}
	}
	return nil
}

func eraAbbreviations(calendar *cldr.Calendar) []string {
	if calendar.Eras == nil || calendar.Eras.EraAbbr == nil {
		return nil
	}

	byIndex := make(map[string]string)
	for _, era := range calendar.Eras.EraAbbr.Era {
		if era == nil || era.Alt != "" {
			continue
		}
		byIndex[era.Type] = normalizeSpaces(era.Data())
	}

	var eras []string
	for i := 0; ; i++ {
		name, ok := byIndex[strconv.Itoa(i)]
		if !ok {
			break
		}
		eras = append(eras, name)
	}
	return eras
}

func isStyle(value string) bool {
	for _, style := range styleTypes {
		if value == style {
			return true
		}
	}
	return false
}

// normalizeSpaces maps CLDR's narrow and non-breaking spaces to U+0020.
func normalizeSpaces(value string) string {
	return strings.NewReplacer("\u202f", " ", "\u00a0", " ").Replace(value)
}

// mondayKey derives the monday locale key ("pt_BR") from the likely region.
func mondayKey(tag language.Tag) string {
	maximized := tag.Maximize()
	base, _ := maximized.Base()
	region, _ := maximized.Region()
	return base.String() + "_" + region.String()
}

func traditionalCalendar(tag language.Tag) string {
	region, _ := tag.Maximize().Region()
	if calendar, ok := regionCalendars[region.String()]; ok && supportedCalendars[calendar] {
		return calendar
	}
	return "gregorian"
}

func renderYAML(doc datefilter.PatternData) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(header)

	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode patterns: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
