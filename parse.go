package datefilter

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

type parsedFields struct {
	era          int
	hasEra       bool
	year         int
	hasYear      bool
	twoDigitYear bool
	month        int
	day          int
	weekday      int
	hour         int
	hourKind     fieldKind
	period       int
	minute       int
	second       int
	nanos        int
	location     *time.Location
	zoneAbbr     string
	zoneName     string
	zoneDaylight bool
}

func (f *patternFormatter) Parse(text string) (time.Time, error) {
	if f.pattern == nil {
		return time.Time{}, &ParseError{Input: text, Err: ErrEmptyPattern}
	}

	tokens := f.pattern.tokens
	fields := parsedFields{month: 1, day: 1, weekday: -1, period: -1, hourKind: fieldLiteral}
	fail := func(offset int, err error) (time.Time, error) {
		return time.Time{}, &ParseError{Input: text, Pattern: f.pattern.source, Offset: offset, Err: err}
	}

	pos := 0
	for i, tok := range tokens {
		if tok.kind == fieldLiteral {
			n, ok := f.matchLiteral(text[pos:], tok.text)
			if !ok {
				return fail(pos, ErrNoMatch)
			}
			pos += n
			continue
		}

		if !f.strict {
			pos += leadingSpace(text[pos:])
		}

		adjacent := i+1 < len(tokens) && tokens[i+1].numeric()
		n, err := f.parseField(text[pos:], tok, adjacent, &fields)
		if err != nil {
			return fail(pos, err)
		}
		pos += n
	}

	if rest := text[pos:]; rest != "" {
		if f.strict || strings.TrimSpace(rest) != "" {
			return fail(pos, fmt.Errorf("%w: trailing text %q", ErrNoMatch, rest))
		}
	}

	t, err := f.resolve(fields)
	if err != nil {
		return fail(len(text), err)
	}
	return t, nil
}

// matchLiteral consumes lit from input. Letters compare case-insensitively
// and a pattern space accepts any single Unicode space; lenient mode
// accepts any whitespace run instead.
func (f *patternFormatter) matchLiteral(input, lit string) (int, bool) {
	pos := 0
	for _, want := range lit {
		if unicode.IsSpace(want) {
			if !f.strict {
				pos += leadingSpace(input[pos:])
				continue
			}
			got, size := utf8.DecodeRuneInString(input[pos:])
			if size == 0 || !unicode.IsSpace(got) {
				return 0, false
			}
			pos += size
			continue
		}

		got, size := utf8.DecodeRuneInString(input[pos:])
		if size == 0 {
			return 0, false
		}
		if got != want && unicode.ToLower(got) != unicode.ToLower(want) {
			return 0, false
		}
		pos += size
	}
	return pos, true
}

func leadingSpace(s string) int {
	n := 0
	for n < len(s) {
		r, size := utf8.DecodeRuneInString(s[n:])
		if !unicode.IsSpace(r) {
			break
		}
		n += size
	}
	return n
}

func (f *patternFormatter) parseField(input string, tok patternToken, adjacent bool, fields *parsedFields) (int, error) {
	switch tok.kind {
	case fieldEra:
		idx, n, ok := matchNames(input, f.eras)
		if !ok {
			return 0, fmt.Errorf("%w: era", ErrNoMatch)
		}
		fields.era, fields.hasEra = idx, true
		return n, nil

	case fieldYear:
		value, n, err := f.readNumber(input, tok, adjacent, 9)
		if err != nil {
			return 0, err
		}
		fields.year, fields.hasYear = value, true
		fields.twoDigitYear = tok.width <= 2 && n == 2
		return n, nil

	case fieldMonth, fieldStandaloneMonth:
		if tok.width <= 2 {
			value, n, err := f.readNumber(input, tok, adjacent, 2)
			if err != nil {
				return 0, err
			}
			fields.month = value
			return n, nil
		}
		idx, n, ok := matchNames(input,
			f.names.Months[:], f.names.MonthsAbbr[:],
			f.names.StandaloneMonths[:], f.names.StandaloneMonthsAbbr[:])
		if !ok {
			return 0, fmt.Errorf("%w: month name", ErrNoMatch)
		}
		fields.month = idx + 1
		return n, nil

	case fieldDay:
		value, n, err := f.readNumber(input, tok, adjacent, 2)
		if err != nil {
			return 0, err
		}
		fields.day = value
		return n, nil

	case fieldWeekday:
		idx, n, ok := matchNames(input, f.names.Weekdays[:], f.names.WeekdaysAbbr[:])
		if !ok {
			return 0, fmt.Errorf("%w: weekday name", ErrNoMatch)
		}
		fields.weekday = idx
		return n, nil

	case fieldDayPeriod:
		idx, n, ok := matchNames(input, f.dayPeriods, []string{"AM", "PM"})
		if !ok {
			return 0, fmt.Errorf("%w: day period", ErrNoMatch)
		}
		fields.period = idx
		return n, nil

	case fieldHour12, fieldHour23, fieldHour11, fieldHour24:
		value, n, err := f.readNumber(input, tok, adjacent, 2)
		if err != nil {
			return 0, err
		}
		fields.hour, fields.hourKind = value, tok.kind
		return n, nil

	case fieldMinute:
		value, n, err := f.readNumber(input, tok, adjacent, 2)
		if err != nil {
			return 0, err
		}
		fields.minute = value
		return n, nil

	case fieldSecond:
		value, n, err := f.readNumber(input, tok, adjacent, 2)
		if err != nil {
			return 0, err
		}
		fields.second = value
		return n, nil

	case fieldFraction:
		value, n, err := f.readNumber(input, tok, adjacent, 9)
		if err != nil {
			return 0, err
		}
		for digits := n; digits < 9; digits++ {
			value *= 10
		}
		fields.nanos = value
		return n, nil

	case fieldZoneName:
		return f.parseZoneName(input, fields)

	case fieldZoneOffset, fieldZoneISO, fieldZoneISONoZ:
		return f.parseZoneOffset(input, tok, fields)

	case fieldZoneID:
		n := 0
		for n < len(input) && isZoneIDByte(input[n]) {
			n++
		}
		if n == 0 {
			return 0, fmt.Errorf("%w: timezone id", ErrNoMatch)
		}
		location, err := time.LoadLocation(input[:n])
		if err != nil {
			return 0, fmt.Errorf("%w: timezone id %q", ErrNoMatch, input[:n])
		}
		fields.location = location
		return n, nil
	}

	return 0, ErrUnsupportedPattern
}

// readNumber reads a decimal field. Adjacent numeric fields use their
// pattern width as a fixed digit count.
func (f *patternFormatter) readNumber(input string, tok patternToken, adjacent bool, maxDigits int) (int, int, error) {
	limit := maxDigits
	if adjacent || tok.kind == fieldFraction {
		limit = tok.width
	}
	if tok.width > limit {
		limit = tok.width
	}

	n, value := 0, 0
	for n < len(input) && n < limit && input[n] >= '0' && input[n] <= '9' {
		value = value*10 + int(input[n]-'0')
		n++
	}
	if n == 0 {
		return 0, 0, fmt.Errorf("%w: expected digits", ErrNoMatch)
	}
	if adjacent && f.strict && n != tok.width {
		return 0, 0, fmt.Errorf("%w: expected %d digits", ErrNoMatch, tok.width)
	}
	return value, n, nil
}

// matchNames returns the index of the longest name matching a prefix of input.
// Lists share indexes; trailing dots on names are optional.
func matchNames(input string, lists ...[]string) (int, int, bool) {
	bestIdx, bestLen := -1, 0
	for _, list := range lists {
		for idx, name := range list {
			for _, candidate := range []string{name, strings.TrimSuffix(name, ".")} {
				if candidate == "" {
					continue
				}
				if n, ok := hasPrefixFold(input, candidate); ok && n > bestLen {
					bestIdx, bestLen = idx, n
				}
			}
		}
	}
	return bestIdx, bestLen, bestIdx >= 0
}

func hasPrefixFold(input, prefix string) (int, bool) {
	pos := 0
	for _, want := range prefix {
		got, size := utf8.DecodeRuneInString(input[pos:])
		if size == 0 {
			return 0, false
		}
		switch {
		case got == want:
		case unicode.IsSpace(got) && unicode.IsSpace(want):
		case unicode.ToLower(got) == unicode.ToLower(want):
		default:
			return 0, false
		}
		pos += size
	}
	return pos, true
}

// parseZoneName accepts a localized GMT offset, a CLDR name of the
// configured zone, a bare GMT/UTC, or a Go zone abbreviation checked later.
func (f *patternFormatter) parseZoneName(input string, fields *parsedFields) (int, error) {
	if n, m, offset, ok := f.matchGMTOffset(input); ok {
		fields.location = fixedZone(offset)
		return n + m, nil
	}

	best := 0
	for _, set := range []ZoneNameSet{f.zone.Long, f.zone.Short} {
		for _, daylight := range []bool{false, true} {
			name := set.Name(daylight)
			if name == "" {
				continue
			}
			if n, ok := hasPrefixFold(input, name); ok && n > best {
				best = n
				fields.zoneName, fields.zoneDaylight = name, daylight
			}
		}
	}
	if best > 0 {
		return best, nil
	}

	for _, prefix := range f.gmtPrefixes() {
		if n, ok := hasPrefixFold(input, prefix); ok {
			fields.location = time.UTC
			return n, nil
		}
	}

	n := 0
	for n < len(input) && ((input[n] >= 'A' && input[n] <= 'Z') || (input[n] >= 'a' && input[n] <= 'z')) {
		n++
	}
	if n < 2 {
		return 0, fmt.Errorf("%w: timezone name", ErrNoMatch)
	}
	fields.zoneAbbr = input[:n]
	return n, nil
}

// matchGMTOffset matches a GMT prefix followed by a signed offset.
func (f *patternFormatter) matchGMTOffset(input string) (int, int, int, bool) {
	for _, prefix := range f.gmtPrefixes() {
		n, ok := hasPrefixFold(input, prefix)
		if !ok || n >= len(input) || (input[n] != '+' && input[n] != '-') {
			continue
		}
		offset, m, err := parseSignedOffset(input[n:])
		if err != nil {
			continue
		}
		return n, m, offset, true
	}
	return 0, 0, 0, false
}

func (f *patternFormatter) parseZoneOffset(input string, tok patternToken, fields *parsedFields) (int, error) {
	if tok.kind == fieldZoneOffset && tok.width == 4 {
		if n, m, offset, ok := f.matchGMTOffset(input); ok {
			fields.location = fixedZone(offset)
			return n + m, nil
		}
		for _, prefix := range f.gmtPrefixes() {
			if n, ok := hasPrefixFold(input, prefix); ok {
				fields.location = time.UTC
				return n, nil
			}
		}
		return 0, fmt.Errorf("%w: GMT offset", ErrNoMatch)
	}

	zulu := tok.kind == fieldZoneISO || (tok.kind == fieldZoneOffset && tok.width == 5)
	if zulu && strings.HasPrefix(input, "Z") {
		fields.location = time.UTC
		return 1, nil
	}

	offset, n, err := parseSignedOffset(input)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: zone offset", ErrNoMatch)
	}
	fields.location = fixedZone(offset)
	return n, nil
}

// parseSignedOffset reads [+-]h[h][[:]mm].
func parseSignedOffset(input string) (int, int, error) {
	if input == "" || (input[0] != '+' && input[0] != '-') {
		return 0, 0, fmt.Errorf("%w: zone offset", ErrNoMatch)
	}

	sign := 1
	if input[0] == '-' {
		sign = -1
	}
	pos := 1

	hours, digits := 0, 0
	for pos < len(input) && digits < 2 && isDigit(input[pos]) {
		hours = hours*10 + int(input[pos]-'0')
		pos++
		digits++
	}
	if digits == 0 || hours > 23 {
		return 0, 0, fmt.Errorf("%w: zone offset hours", ErrNoMatch)
	}

	minutes := 0
	next := pos
	if next < len(input) && input[next] == ':' {
		next++
	}
	if next+1 < len(input) && isDigit(input[next]) && isDigit(input[next+1]) {
		minutes = int(input[next]-'0')*10 + int(input[next+1]-'0')
		if minutes > 59 {
			return 0, 0, fmt.Errorf("%w: zone offset minutes", ErrNoMatch)
		}
		pos = next + 2
	}

	return sign * (hours*3600 + minutes*60), pos, nil
}

func fixedZone(offset int) *time.Location {
	if offset == 0 {
		return time.UTC
	}
	return time.FixedZone(formatGMT(offset), offset)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isZoneIDByte(c byte) bool {
	return isDigit(c) || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') ||
		c == '/' || c == '_' || c == '-' || c == '+'
}

func (f *patternFormatter) resolve(fields parsedFields) (time.Time, error) {
	year := 1970
	if fields.hasYear {
		era := f.calendar.DefaultEra()
		if fields.hasEra {
			era = fields.era
		}
		eraYear := fields.year
		if fields.twoDigitYear {
			eraYear = f.windowYear(eraYear)
		}
		year = f.calendar.GregorianYear(era, eraYear)
	}

	hour, err := f.resolveHour(fields)
	if err != nil {
		return time.Time{}, err
	}

	if f.strict {
		switch {
		case fields.month < 1 || fields.month > 12:
			return time.Time{}, fmt.Errorf("%w: month %d", ErrFieldRange, fields.month)
		case fields.day < 1 || fields.day > 31:
			return time.Time{}, fmt.Errorf("%w: day %d", ErrFieldRange, fields.day)
		case fields.minute > 59:
			return time.Time{}, fmt.Errorf("%w: minute %d", ErrFieldRange, fields.minute)
		case fields.second > 59:
			return time.Time{}, fmt.Errorf("%w: second %d", ErrFieldRange, fields.second)
		}
	}

	location := f.location
	if fields.location != nil {
		location = fields.location
	}

	t := time.Date(year, time.Month(fields.month), fields.day, hour, fields.minute, fields.second, fields.nanos, location)

	// zone names belong to the configured zone even when an offset was also parsed
	if fields.zoneName != "" && f.strict && t.In(f.location).IsDST() != fields.zoneDaylight {
		return time.Time{}, fmt.Errorf("%w: zone name %q does not apply on %s", ErrNoMatch, fields.zoneName, t.Format(time.DateOnly))
	}

	if fields.zoneAbbr != "" {
		// abbreviations are only resolved against the configured zone
		if name, _ := t.Zone(); !strings.EqualFold(fields.zoneAbbr, name) {
			return time.Time{}, fmt.Errorf("%w: unknown timezone %q", ErrNoMatch, fields.zoneAbbr)
		}
	}

	if !f.strict {
		return t, nil
	}

	if t.Year() != year || int(t.Month()) != fields.month || t.Day() != fields.day {
		return time.Time{}, fmt.Errorf("%w: day %d of %d-%02d", ErrFieldRange, fields.day, year, fields.month)
	}
	if fields.weekday >= 0 && time.Weekday(fields.weekday) != t.Weekday() {
		return time.Time{}, fmt.Errorf("%w: weekday does not match date", ErrFieldRange)
	}
	return t, nil
}

func (f *patternFormatter) resolveHour(fields parsedFields) (int, error) {
	hour := fields.hour
	pm := fields.period == 1

	switch fields.hourKind {
	case fieldHour12:
		if f.strict && (hour < 1 || hour > 12) {
			return 0, fmt.Errorf("%w: hour %d", ErrFieldRange, hour)
		}
		hour %= 12
		if pm {
			hour += 12
		}
	case fieldHour11:
		if f.strict && hour > 11 {
			return 0, fmt.Errorf("%w: hour %d", ErrFieldRange, hour)
		}
		if pm {
			hour += 12
		}
	case fieldHour24:
		if f.strict && (hour < 1 || hour > 24) {
			return 0, fmt.Errorf("%w: hour %d", ErrFieldRange, hour)
		}
		if hour == 24 {
			hour = 0
		}
	case fieldHour23:
		if f.strict && hour > 23 {
			return 0, fmt.Errorf("%w: hour %d", ErrFieldRange, hour)
		}
		if f.strict && fields.period >= 0 && (hour >= 12) != pm {
			return 0, fmt.Errorf("%w: hour %d disagrees with day period", ErrFieldRange, hour)
		}
	}
	return hour, nil
}

// windowYear places a two-digit year within 80 years before and 20 years
// after the current era year.
func (f *patternFormatter) windowYear(twoDigits int) int {
	_, current := f.calendar.DisplayYear(f.now().In(f.location).Year())
	start := current - 80
	year := start - start%100 + twoDigits
	if year < start {
		year += 100
	}
	return year
}
