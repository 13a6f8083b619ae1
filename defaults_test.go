package datefilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearLocaleEnv(t *testing.T) {
	t.Helper()
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_TIME", "")
	t.Setenv("LANG", "")
	t.Setenv("TZ", "")
}

func TestProcessDefaultsFromEnvironment(t *testing.T) {
	clearLocaleEnv(t)
	defaults := ProcessDefaults()

	assert.Equal(t, "en_US", defaults.Locale())
	assert.Equal(t, "UTC", defaults.Timezone())

	t.Setenv("LANG", "fr_FR.UTF-8")
	assert.Equal(t, "fr_FR", defaults.Locale())

	t.Setenv("LC_TIME", "de_DE@euro")
	assert.Equal(t, "de_DE", defaults.Locale())

	t.Setenv("LC_ALL", "C")
	assert.Equal(t, "en_US", defaults.Locale())

	t.Setenv("TZ", ":Europe/Lisbon")
	assert.Equal(t, "Europe/Lisbon", defaults.Timezone())
}

func TestSetDefaultOverridesEnvironment(t *testing.T) {
	clearLocaleEnv(t)
	t.Setenv("LANG", "fr_FR.UTF-8")
	t.Setenv("TZ", "Europe/Paris")
	t.Cleanup(func() {
		SetDefaultLocale("")
		SetDefaultTimezone("")
	})

	SetDefaultLocale("pt_BR")
	SetDefaultTimezone("America/Sao_Paulo")

	r, err := New()
	require.NoError(t, err)
	assert.Equal(t, "pt_BR", r.Locale())
	assert.Equal(t, "America/Sao_Paulo", r.Timezone())

	// changes after construction are observed on the next call
	SetDefaultLocale("ja_JP")
	SetDefaultTimezone("Asia/Tokyo")
	assert.Equal(t, "ja_JP", r.Locale())
	assert.Equal(t, "Asia/Tokyo", r.Timezone())

	SetDefaultLocale("")
	SetDefaultTimezone("")
	assert.Equal(t, "fr_FR", r.Locale())
	assert.Equal(t, "Europe/Paris", r.Timezone())

	explicit := r.WithLocale("en_GB").WithTimezone("Europe/London")
	SetDefaultLocale("de_DE")
	assert.Equal(t, "en_GB", explicit.Locale())
	assert.Equal(t, "Europe/London", explicit.Timezone())
}

func TestProcessDefaultsDriveTransform(t *testing.T) {
	clearLocaleEnv(t)
	t.Cleanup(func() { SetDefaultLocale("") })

	r, err := New(WithDateStyle(StyleShort), WithPattern("yyyy-MM-dd"), withClock(fixedNow))
	require.NoError(t, err)

	SetDefaultLocale("en_US")
	assert.Equal(t, "2020-03-05", r.Transform("3/5/20"))

	SetDefaultLocale("pt_BR")
	assert.Equal(t, "2020-03-05", r.Transform("05/03/2020"))
	assert.Equal(t, "Mar 5, 2020", r.Transform("Mar 5, 2020"))
}

func TestStaticDefaults(t *testing.T) {
	defaults := StaticDefaults{LocaleID: "nl_NL", TimezoneID: "Europe/Amsterdam"}
	assert.Equal(t, "nl_NL", defaults.Locale())
	assert.Equal(t, "Europe/Amsterdam", defaults.Timezone())
}
