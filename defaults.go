package datefilter

import (
	"strings"
	"sync"

	"github.com/caarlos0/env/v11"
)

const (
	fallbackLocale   = "en_US"
	fallbackTimezone = "UTC"
)

// Defaults supplies the process-wide locale and timezone.
type Defaults interface {
	Locale() string
	Timezone() string
}

// StaticDefaults returns fixed values.
type StaticDefaults struct {
	LocaleID   string
	TimezoneID string
}

var _ Defaults = StaticDefaults{}

func (d StaticDefaults) Locale() string {
	return d.LocaleID
}

func (d StaticDefaults) Timezone() string {
	return d.TimezoneID
}

type processEnv struct {
	LCAll  string `env:"LC_ALL"`
	LCTime string `env:"LC_TIME"`
	Lang   string `env:"LANG"`
	TZ     string `env:"TZ"`
}

var processOverrides struct {
	mu       sync.RWMutex
	locale   string
	timezone string
}

// SetDefaultLocale overrides the process-wide default locale. Empty restores
// environment lookup.
func SetDefaultLocale(locale string) {
	processOverrides.mu.Lock()
	processOverrides.locale = strings.TrimSpace(locale)
	processOverrides.mu.Unlock()
}

// SetDefaultTimezone overrides the process-wide default timezone. Empty
// restores environment lookup.
func SetDefaultTimezone(timezone string) {
	processOverrides.mu.Lock()
	processOverrides.timezone = strings.TrimSpace(timezone)
	processOverrides.mu.Unlock()
}

type processDefaults struct{}

// ProcessDefaults reads overrides, then LC_ALL, LC_TIME, LANG and TZ, on every call.
func ProcessDefaults() Defaults {
	return processDefaults{}
}

func (processDefaults) Locale() string {
	processOverrides.mu.RLock()
	locale := processOverrides.locale
	processOverrides.mu.RUnlock()
	if locale != "" {
		return locale
	}

	vars, err := env.ParseAs[processEnv]()
	if err != nil {
		return fallbackLocale
	}
	for _, candidate := range []string{vars.LCAll, vars.LCTime, vars.Lang} {
		if value := posixLocale(candidate); value != "" {
			return value
		}
	}
	return fallbackLocale
}

func (processDefaults) Timezone() string {
	processOverrides.mu.RLock()
	timezone := processOverrides.timezone
	processOverrides.mu.RUnlock()
	if timezone != "" {
		return timezone
	}

	vars, err := env.ParseAs[processEnv]()
	if err != nil {
		return fallbackTimezone
	}
	// POSIX allows a leading colon before a zoneinfo path
	if tz := strings.TrimPrefix(strings.TrimSpace(vars.TZ), ":"); tz != "" {
		return tz
	}
	return fallbackTimezone
}
