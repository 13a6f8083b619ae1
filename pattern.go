package datefilter

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

type fieldKind int

const (
	fieldLiteral fieldKind = iota
	fieldEra
	fieldYear
	fieldMonth
	fieldStandaloneMonth
	fieldDay
	fieldWeekday
	fieldDayPeriod
	fieldHour12  // h: 1-12
	fieldHour23  // H: 0-23
	fieldHour11  // K: 0-11
	fieldHour24  // k: 1-24
	fieldMinute
	fieldSecond
	fieldFraction
	fieldZoneName
	fieldZoneOffset
	fieldZoneISO
	fieldZoneISONoZ
	fieldZoneID
)

type patternToken struct {
	kind  fieldKind
	width int
	text  string
}

func (t patternToken) numeric() bool {
	switch t.kind {
	case fieldYear, fieldDay, fieldHour12, fieldHour23, fieldHour11, fieldHour24,
		fieldMinute, fieldSecond, fieldFraction:
		return true
	case fieldMonth, fieldStandaloneMonth:
		return t.width <= 2
	default:
		return false
	}
}

type compiledPattern struct {
	source string
	tokens []patternToken
}

// maximum widths per pattern letter
var patternLetters = map[rune]struct {
	kind     fieldKind
	maxWidth int
}{
	'G': {fieldEra, 5},
	'y': {fieldYear, 9},
	'u': {fieldYear, 9},
	'M': {fieldMonth, 5},
	'L': {fieldStandaloneMonth, 5},
	'd': {fieldDay, 2},
	'E': {fieldWeekday, 6},
	'e': {fieldWeekday, 6},
	'c': {fieldWeekday, 6},
	'a': {fieldDayPeriod, 5},
	'h': {fieldHour12, 2},
	'H': {fieldHour23, 2},
	'K': {fieldHour11, 2},
	'k': {fieldHour24, 2},
	'm': {fieldMinute, 2},
	's': {fieldSecond, 2},
	'S': {fieldFraction, 9},
	'z': {fieldZoneName, 4},
	'Z': {fieldZoneOffset, 5},
	'X': {fieldZoneISO, 5},
	'x': {fieldZoneISONoZ, 5},
	'V': {fieldZoneID, 2},
}

func compilePattern(pattern string) (*compiledPattern, error) {
	if pattern == "" {
		return nil, ErrEmptyPattern
	}

	var (
		tokens  []patternToken
		literal strings.Builder
	)
	flush := func() {
		if literal.Len() == 0 {
			return
		}
		tokens = append(tokens, patternToken{kind: fieldLiteral, text: literal.String()})
		literal.Reset()
	}

	for i := 0; i < len(pattern); {
		r, size := utf8.DecodeRuneInString(pattern[i:])

		switch {
		case r == '\'':
			if strings.HasPrefix(pattern[i+1:], "'") {
				literal.WriteRune('\'')
				i += 2
				continue
			}
			end := i + 1
			for {
				next := strings.IndexByte(pattern[end:], '\'')
				if next < 0 {
					return nil, fmt.Errorf("%w: unterminated quote in %q", ErrUnsupportedPattern, pattern)
				}
				literal.WriteString(pattern[end : end+next])
				end += next + 1
				if strings.HasPrefix(pattern[end:], "'") {
					literal.WriteRune('\'')
					end++
					continue
				}
				break
			}
			i = end

		case isPatternLetter(r):
			width := 1
			for i+width < len(pattern) && rune(pattern[i+width]) == r {
				width++
			}
			token, err := fieldToken(r, width)
			if err != nil {
				return nil, fmt.Errorf("%w: %q in %q", err, strings.Repeat(string(r), width), pattern)
			}
			flush()
			tokens = append(tokens, token)
			i += width

		default:
			literal.WriteRune(r)
			i += size
		}
	}
	flush()

	return &compiledPattern{source: pattern, tokens: tokens}, nil
}

func isPatternLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func fieldToken(letter rune, width int) (patternToken, error) {
	def, ok := patternLetters[letter]
	if !ok || width > def.maxWidth {
		return patternToken{}, ErrUnsupportedPattern
	}

	switch letter {
	case 'e', 'c':
		// numeric local day-of-week is not supported; textual forms behave like E
		if width < 3 {
			return patternToken{}, ErrUnsupportedPattern
		}
	case 'V':
		if width != 2 {
			return patternToken{}, ErrUnsupportedPattern
		}
	}

	return patternToken{kind: def.kind, width: width}, nil
}
