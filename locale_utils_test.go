package datefilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLocale(t *testing.T) {
	assert.Equal(t, "pt-BR", normalizeLocale(" pt_BR "))
	assert.Equal(t, "en", normalizeLocale("en"))
}

func TestParseLocale(t *testing.T) {
	tag, err := parseLocale("pt_BR")
	require.NoError(t, err)
	assert.Equal(t, "pt-BR", tag.String())

	for _, locale := range []string{"", "   ", "!!", "und"} {
		_, err := parseLocale(locale)
		assert.ErrorIs(t, err, ErrUnsupportedLocale, locale)
	}
}

func TestLocaleParentChain(t *testing.T) {
	assert.Equal(t, []string{"en-001", "en"}, localeParentChain("en-AU"))
	assert.Equal(t, []string{"pt"}, localeParentChain("pt-BR"))
	assert.Contains(t, localeParentChain("pt-PT"), "pt")
	assert.Nil(t, localeParentChain(""))
	assert.Empty(t, localeParentChain("en"))
}

func TestPosixLocale(t *testing.T) {
	tests := map[string]string{
		"pt_BR.UTF-8":       "pt_BR",
		"de_DE@euro":        "de_DE",
		"sr_RS.UTF-8@latin": "sr_RS",
		"C":                 "en_US",
		"POSIX":             "en_US",
		"":                  "",
		"en_GB":             "en_GB",
	}
	for input, want := range tests {
		assert.Equal(t, want, posixLocale(input), input)
	}
}
