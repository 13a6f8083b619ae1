package datefilter

import (
	"strings"
	"sync"
	"time"

	"github.com/goodsign/monday"
)

// CalendarNames are the localized month and weekday names of a locale.
// Weekdays are indexed by time.Weekday.
type CalendarNames struct {
	Months               [12]string
	MonthsAbbr           [12]string
	StandaloneMonths     [12]string
	StandaloneMonthsAbbr [12]string
	Weekdays             [7]string
	WeekdaysAbbr         [7]string
}

// NameSource provides month and weekday names for a names locale key.
type NameSource interface {
	Names(key string) CalendarNames
}

// MondayNames harvests names from github.com/goodsign/monday.
type MondayNames struct {
	mu    sync.RWMutex
	cache map[string]CalendarNames
}

var _ NameSource = &MondayNames{}

func NewMondayNames() *MondayNames {
	return &MondayNames{cache: make(map[string]CalendarNames)}
}

var defaultNames = NewMondayNames()

// Names returns the cached names for key, English when key is empty.
func (m *MondayNames) Names(key string) CalendarNames {
	if key == "" {
		key = string(monday.LocaleEnUS)
	}
	if m == nil {
		return harvestNames(monday.Locale(key))
	}

	m.mu.RLock()
	names, ok := m.cache[key]
	m.mu.RUnlock()
	if ok {
		return names
	}

	names = harvestNames(monday.Locale(key))

	m.mu.Lock()
	if m.cache == nil {
		m.cache = make(map[string]CalendarNames)
	}
	m.cache[key] = names
	m.mu.Unlock()
	return names
}

func harvestNames(locale monday.Locale) CalendarNames {
	var names CalendarNames

	for i := 0; i < 12; i++ {
		ref := time.Date(2006, time.Month(i+1), 1, 12, 0, 0, 0, time.UTC)
		names.StandaloneMonths[i] = monday.Format(ref, "January", locale)
		names.StandaloneMonthsAbbr[i] = monday.Format(ref, "Jan", locale)
		// a day number beside the month selects genitive forms where the locale has them
		names.Months[i] = stripDayPrefix(monday.Format(ref, "2 January", locale))
		names.MonthsAbbr[i] = stripDayPrefix(monday.Format(ref, "2 Jan", locale))
	}

	// 2006-01-01 is a Sunday
	for i := 0; i < 7; i++ {
		ref := time.Date(2006, time.January, 1+i, 12, 0, 0, 0, time.UTC)
		names.Weekdays[i] = monday.Format(ref, "Monday", locale)
		names.WeekdaysAbbr[i] = monday.Format(ref, "Mon", locale)
	}

	return names
}

func stripDayPrefix(value string) string {
	return strings.TrimSpace(strings.TrimPrefix(value, "1"))
}
