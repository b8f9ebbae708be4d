// Package locale resolves the two supported language tags and renders
// currency amounts for them.
package locale

import (
	"strings"

	"golang.org/x/text/language"
)

// Tag is one of the supported language tags.
type Tag string

const (
	English Tag = "en"
	French  Tag = "fr"
)

// Supported lists the tags in priority order; the first one is the fallback.
var Supported = []Tag{English, French}

var matcher = language.NewMatcher([]language.Tag{language.English, language.French})

// Resolve maps any BCP 47 string ("fr-CA", "EN", "") to a supported Tag.
// Unsupported or malformed input falls back to English.
func Resolve(raw string) Tag {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return English
	}
	t, err := language.Parse(raw)
	if err != nil {
		return English
	}
	_, idx, conf := matcher.Match(t)
	if conf == language.No || idx < 0 || idx >= len(Supported) {
		return English
	}
	return Supported[idx]
}

func (t Tag) language() language.Tag {
	if t == French {
		return language.French
	}
	return language.English
}
