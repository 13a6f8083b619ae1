package datefilter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternProviderLookup(t *testing.T) {
	provider, err := NewPatternProvider()
	require.NoError(t, err)

	tests := map[string]string{
		"en_US": "en",
		"en-US": "en",
		"en_GB": "en-GB",
		"en_AU": "en",
		"pt_BR": "pt",
		"pt_PT": "pt-PT",
		"pt":    "pt",
		"de_AT": "de",
		"ja_JP": "ja",
		"th_TH": "th",
		"fr_CA": "fr",
		"es_MX": "es",
	}

	for locale, want := range tests {
		patterns, dataLocale, err := provider.Lookup(locale)
		require.NoError(t, err, locale)
		assert.Equal(t, want, dataLocale, locale)
		assert.NotEmpty(t, patterns.Date.Medium, locale)
	}

	for _, locale := range []string{"", "sw", "zz", "not a locale"} {
		_, _, err := provider.Lookup(locale)
		assert.ErrorIs(t, err, ErrUnsupportedLocale, locale)
	}
}

func TestPatternProviderResolverPrecedesParents(t *testing.T) {
	provider, err := NewPatternProvider()
	require.NoError(t, err)

	resolver := NewStaticFallbackResolver()
	resolver.Set("gl_ES", "pt_PT")
	resolver.Set("pt_BR", "pt_PT")
	provider.WithResolver(resolver)

	_, dataLocale, err := provider.Lookup("gl_ES")
	require.NoError(t, err)
	assert.Equal(t, "pt-PT", dataLocale)

	_, dataLocale, err = provider.Lookup("pt_BR")
	require.NoError(t, err)
	assert.Equal(t, "pt-PT", dataLocale)
}

func TestPatternProviderEmbeddedData(t *testing.T) {
	provider, err := DefaultPatternProvider()
	require.NoError(t, err)

	for _, locale := range []string{"en", "en-GB", "pt", "pt-PT", "es", "fr", "de", "it", "nl", "ru", "ja", "th"} {
		patterns, _, err := provider.Lookup(locale)
		require.NoError(t, err, locale)

		for _, style := range []Style{StyleFull, StyleLong, StyleMedium, StyleShort} {
			for _, pattern := range []string{patterns.Date.ForStyle(style), patterns.Time.ForStyle(style)} {
				_, err := compilePattern(pattern)
				assert.NoError(t, err, "%s %s %q", locale, style, pattern)
			}
			assert.NotEmpty(t, patterns.DateTime.ForStyle(style), locale)
		}
		assert.Len(t, patterns.DayPeriods, 2, locale)
		assert.NotEmpty(t, patterns.NamesLocale, locale)
	}

	patterns, _, err := provider.Lookup("th")
	require.NoError(t, err)
	assert.Equal(t, "buddhist", patterns.TraditionalCalendar)
}

func TestSourcePattern(t *testing.T) {
	patterns := LocalePatterns{
		Date:     StylePatterns{Full: "EEEE, MMMM d, y", Medium: "MMM d, y"},
		Time:     StylePatterns{Short: "h:mm a"},
		DateTime: StylePatterns{Full: "{1} 'at' {0}"},
	}

	tests := []struct {
		date, time Style
		want       string
	}{
		{StyleMedium, StyleNone, "MMM d, y"},
		{StyleNone, StyleShort, "h:mm a"},
		{StyleFull, StyleShort, "EEEE, MMMM d, y 'at' h:mm a"},
		{StyleMedium, StyleShort, "MMM d, y h:mm a"},
		{StyleNone, StyleNone, "yyyyMMdd hh:mm a"},
	}
	for _, tt := range tests {
		got, err := patterns.SourcePattern(tt.date, tt.time)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := patterns.SourcePattern(StyleLong, StyleNone)
	assert.ErrorIs(t, err, ErrUnsupportedPattern)
}

func TestLoadPatternFileMergesUserData(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "sw.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
locales:
  sw:
    names_locale: en_US
    date:
      full: "EEEE, d MMMM y"
      long: "d MMMM y"
      medium: "d MMM y"
      short: "dd/MM/y"
    time:
      short: "HH:mm"
`), 0o644))

	jsonPath := filepath.Join(dir, "en.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{
  "locales": {
    "en": {"date": {"medium": "d MMM y"}, "day_periods": ["am", "pm"]}
  }
}`), 0o644))

	provider, err := NewPatternProvider(yamlPath, jsonPath)
	require.NoError(t, err)

	sw, dataLocale, err := provider.Lookup("sw_KE")
	require.NoError(t, err)
	assert.Equal(t, "sw", dataLocale)
	assert.Equal(t, "dd/MM/y", sw.Date.Short)

	en, _, err := provider.Lookup("en_US")
	require.NoError(t, err)
	assert.Equal(t, "d MMM y", en.Date.Medium)
	assert.Equal(t, "M/d/yy", en.Date.Short)
	assert.Equal(t, []string{"am", "pm"}, en.DayPeriods)
	assert.Equal(t, []string{"BC", "AD"}, en.Eras["gregorian"])

	shared, err := DefaultPatternProvider()
	require.NoError(t, err)
	original, _, err := shared.Lookup("en")
	require.NoError(t, err)
	assert.Equal(t, "MMM d, y", original.Date.Medium)
}

func TestLoadPatternFileErrors(t *testing.T) {
	dir := t.TempDir()
	provider, err := NewPatternProvider()
	require.NoError(t, err)

	assert.Error(t, provider.LoadPatternFile(filepath.Join(dir, "missing.yaml")))

	txt := filepath.Join(dir, "patterns.txt")
	require.NoError(t, os.WriteFile(txt, []byte("locales: {}"), 0o644))
	assert.Error(t, provider.LoadPatternFile(txt))

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("locales: {}\n"), 0o644))
	assert.Error(t, provider.LoadPatternFile(empty))

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte("{"), 0o644))
	assert.Error(t, provider.LoadPatternFile(broken))

	_, err = NewPatternProvider(broken)
	assert.Error(t, err)
}

func TestReformatterWithPatternFilesAndFallbacks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overrides.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
locales:
  en:
    date:
      medium: "dd MMM yyyy"
`), 0o644))

	r := newTestReformatter(t,
		WithPatternFiles(path),
		WithFallback("gl", "pt"),
		WithDateStyle(StyleMedium),
		WithPattern("yyyy-MM-dd"),
	)

	assert.Equal(t, "2020-01-01", r.Transform("01 Jan 2020"))
	assert.Equal(t, "Jan 1, 2020", r.Transform("Jan 1, 2020"))

	gl := r.WithLocale("gl").WithDateStyle(StyleShort)
	assert.Equal(t, "2020-03-05", gl.Transform("05/03/2020"))
}

func TestPatternProviderResolverTargetsUseParents(t *testing.T) {
	provider, err := NewPatternProvider()
	require.NoError(t, err)

	resolver := NewStaticFallbackResolver()
	resolver.Set("sw_KE", "pt_BR")
	resolver.Set("gsw", "de_CH", "fr")
	provider.WithResolver(resolver)

	_, dataLocale, err := provider.Lookup("sw_KE")
	require.NoError(t, err)
	assert.Equal(t, "pt", dataLocale)

	// de_CH has no data of its own; its parent wins over the next target
	_, dataLocale, err = provider.Lookup("gsw")
	require.NoError(t, err)
	assert.Equal(t, "de", dataLocale)
}

func TestPatternProviderSetAndLocales(t *testing.T) {
	provider, err := NewPatternProvider()
	require.NoError(t, err)
	assert.ElementsMatch(t,
		[]string{"en", "en-GB", "pt", "pt-PT", "es", "fr", "de", "it", "nl", "ru", "ja", "th"},
		provider.Locales())

	provider.Set("sw", LocalePatterns{
		NamesLocale: "en_US",
		Date:        StylePatterns{Short: "dd/MM/y"},
	})
	provider.Set("sw", LocalePatterns{Date: StylePatterns{Medium: "d MMM y"}})
	assert.Contains(t, provider.Locales(), "sw")

	sw, dataLocale, err := provider.Lookup("sw_TZ")
	require.NoError(t, err)
	assert.Equal(t, "sw", dataLocale)
	assert.Equal(t, "dd/MM/y", sw.Date.Short)
	assert.Equal(t, "d MMM y", sw.Date.Medium)
	assert.Equal(t, "en_US", sw.NamesLocale)

	provider.Set("", LocalePatterns{Date: StylePatterns{Short: "y"}})
	assert.Len(t, provider.Locales(), 13)

	var nilProvider *PatternProvider
	nilProvider.Set("sw", sw)
	assert.Nil(t, nilProvider.Locales())
}

func TestPatternProviderCloneIsIndependent(t *testing.T) {
	shared, err := DefaultPatternProvider()
	require.NoError(t, err)

	clone := shared.Clone()
	clone.Set("sw", LocalePatterns{Date: StylePatterns{Short: "dd/MM/y"}})
	clone.WithResolver(NewStaticFallbackResolver())

	assert.Contains(t, clone.Locales(), "sw")
	assert.NotContains(t, shared.Locales(), "sw")
	assert.Equal(t, "America_Eastern", clone.MetaZone("America/New_York"))

	_, _, err = shared.Lookup("sw")
	assert.ErrorIs(t, err, ErrUnsupportedLocale)
}

func TestPatternProviderZoneData(t *testing.T) {
	provider, err := DefaultPatternProvider()
	require.NoError(t, err)

	assert.Equal(t, "Brasilia", provider.MetaZone("America/Sao_Paulo"))
	assert.Equal(t, "Europe_Central", provider.MetaZone("Europe/Paris"))
	assert.Empty(t, provider.MetaZone("Asia/Kolkata"))

	en, _, err := provider.Lookup("en")
	require.NoError(t, err)
	assert.Equal(t, "Eastern Daylight Time", en.MetaZones["America_Eastern"].Long.Name(true))
	assert.Equal(t, "EST", en.MetaZones["America_Eastern"].Short.Name(false))
	assert.Equal(t, "Coordinated Universal Time", en.Zones["Etc/UTC"].Long.Standard)

	names := zoneNames(en, provider, "Europe/London")
	assert.Equal(t, "Greenwich Mean Time", names.Long.Standard)
	assert.Equal(t, "British Summer Time", names.Long.Daylight)
	assert.Equal(t, "Coordinated Universal Time", zoneNames(en, provider, "UTC").Long.Standard)
	assert.Equal(t, ZoneNames{}, zoneNames(en, staticPatterns{}, "America/New_York"))

	fr, _, err := provider.Lookup("fr")
	require.NoError(t, err)
	assert.Equal(t, "UTC{0}", fr.GMTFormat)
	assert.Equal(t, "janv.", fr.Names.MonthsAbbr[0])

	for _, locale := range provider.Locales() {
		patterns, _, err := provider.Lookup(locale)
		require.NoError(t, err, locale)
		assert.True(t, patterns.Names.complete(), locale)
		assert.NotEmpty(t, patterns.MetaZones, locale)
	}
}
