package datefilter

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// normalizeLocale replaces underscores with hyphens and trims whitespace.
func normalizeLocale(locale string) string {
	return strings.ReplaceAll(strings.TrimSpace(locale), "_", "-")
}

// parseLocale validates a locale identifier and returns its canonical tag.
func parseLocale(locale string) (language.Tag, error) {
	normalized := normalizeLocale(locale)
	if normalized == "" {
		return language.Und, fmt.Errorf("%w: empty locale", ErrUnsupportedLocale)
	}

	tag, err := language.Parse(normalized)
	if err != nil {
		return language.Und, fmt.Errorf("%w: %q: %v", ErrUnsupportedLocale, locale, err)
	}
	if tag == language.Und {
		return language.Und, fmt.Errorf("%w: %q", ErrUnsupportedLocale, locale)
	}
	return tag, nil
}

func localeParentTag(locale string) string {
	if locale == "" {
		return ""
	}

	tag, err := language.Parse(locale)
	if err == nil {
		parent := tag.Parent()
		if parent == language.Und {
			return ""
		}
		value := parent.String()
		if value == "" || value == "und" {
			return ""
		}
		return value
	}

	if idx := strings.LastIndex(locale, "-"); idx > 0 {
		return locale[:idx]
	}

	return ""
}

// localeParentChain returns parents ordered from closest to root, without "und".
func localeParentChain(locale string) []string {
	if locale == "" {
		return nil
	}

	var chain []string
	seen := map[string]struct{}{locale: {}}

	if tag, err := language.Parse(locale); err == nil {
		for parent := tag.Parent(); parent != language.Und; parent = parent.Parent() {
			parentValue := parent.String()
			if parentValue == "" || parentValue == "und" {
				break
			}
			if _, exists := seen[parentValue]; exists {
				break
			}
			seen[parentValue] = struct{}{}
			chain = append(chain, parentValue)
		}

		// pt-PT style parents skip the bare language; add it as last resort.
		if base, conf := tag.Base(); conf != language.No {
			value := base.String()
			if _, exists := seen[value]; !exists && value != "und" {
				seen[value] = struct{}{}
				chain = append(chain, value)
			}
		}
	}

	for current := localeParentTag(locale); current != ""; current = localeParentTag(current) {
		if _, exists := seen[current]; exists {
			continue
		}
		seen[current] = struct{}{}
		chain = append(chain, current)
	}

	return chain
}

// posixLocale strips codeset and modifier parts ("pt_BR.UTF-8@euro" -> "pt_BR").
func posixLocale(raw string) string {
	value := strings.TrimSpace(raw)
	if idx := strings.IndexAny(value, ".@"); idx >= 0 {
		value = value[:idx]
	}
	switch value {
	case "C", "POSIX":
		return "en_US"
	}
	return value
}
