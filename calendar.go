package datefilter

import (
	"fmt"
	"strings"
)

// CalendarSystem converts between gregorian years and the years a calendar displays.
type CalendarSystem interface {
	ID() string
	// DisplayYear maps a proleptic gregorian year (0 = 1 BC) to era index and era year.
	DisplayYear(year int) (era int, eraYear int)
	// GregorianYear maps an era index and era year back to the gregorian year.
	GregorianYear(era int, eraYear int) int
	DefaultEra() int
}

type gregorianCalendar struct{}

func (gregorianCalendar) ID() string { return "gregorian" }

func (gregorianCalendar) DisplayYear(year int) (int, int) {
	if year <= 0 {
		return 0, 1 - year
	}
	return 1, year
}

func (gregorianCalendar) GregorianYear(era int, eraYear int) int {
	if era == 0 {
		return 1 - eraYear
	}
	return eraYear
}

func (gregorianCalendar) DefaultEra() int { return 1 }

// buddhistCalendar is the Thai solar calendar: gregorian months with years offset by 543.
type buddhistCalendar struct{}

const buddhistYearOffset = 543

func (buddhistCalendar) ID() string { return "buddhist" }

func (buddhistCalendar) DisplayYear(year int) (int, int) {
	return 0, year + buddhistYearOffset
}

func (buddhistCalendar) GregorianYear(_ int, eraYear int) int {
	return eraYear - buddhistYearOffset
}

func (buddhistCalendar) DefaultEra() int { return 0 }

// calendarSystem resolves the Calendar setting against the locale's data.
func calendarSystem(calendar Calendar, patterns LocalePatterns) (CalendarSystem, error) {
	id := "gregorian"
	if calendar == CalendarTraditional && patterns.TraditionalCalendar != "" {
		id = strings.ToLower(strings.TrimSpace(patterns.TraditionalCalendar))
	}

	switch id {
	case "gregorian":
		return gregorianCalendar{}, nil
	case "buddhist":
		return buddhistCalendar{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCalendar, id)
	}
}
