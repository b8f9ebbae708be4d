package assistant

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"genie/finmath"
)

// shortKeyword is the longest keyword that must start a word to match, so
// "etf" does not fire inside "netflix" nor "fund" inside "refund".
const shortKeyword = 4

// IntentID names a catalog rule.
type IntentID string

// Request is everything a builder may read.
type Request struct {
	Text    string // normalized input
	Context Context
	Level   Sophistication
	Policy  finmath.Policy
}

// BuildFunc turns a matched request into a draft. Builders must be pure:
// every figure comes from req, every string goes through c.
type BuildFunc func(c *Composer, req Request) Draft

// Rule is one catalog entry. A rule matches when any keyword is a substring
// of the normalized input; keywords of up to shortKeyword runes must also
// start a word. Always marks the terminal fallback.
type Rule struct {
	ID       IntentID
	Keywords []string
	Always   bool
	Build    BuildFunc
}

// Matches reports whether the rule accepts normalized text.
func (r Rule) Matches(normalized string) bool {
	if r.Always {
		return true
	}
	for _, kw := range r.Keywords {
		if containsKeyword(normalized, kw) {
			return true
		}
	}
	return false
}

func containsKeyword(s, kw string) bool {
	if utf8.RuneCountInString(kw) > shortKeyword {
		return strings.Contains(s, kw)
	}
	for from := 0; from < len(s); {
		i := strings.Index(s[from:], kw)
		if i < 0 {
			return false
		}
		i += from
		prev, _ := utf8.DecodeLastRuneInString(s[:i])
		if i == 0 || !(unicode.IsLetter(prev) || unicode.IsDigit(prev)) {
			return true
		}
		from = i + len(kw)
	}
	return false
}

// Catalog is an ordered rule list. The first matching rule wins and earlier
// rules shadow later ones, so narrow intents must be declared before broad
// ones.
type Catalog struct {
	rules []Rule
}

// NewCatalog checks the ordering contract and returns the catalog. It panics
// on a malformed list: catalogs are built from constants at startup.
func NewCatalog(rules []Rule) *Catalog {
	if len(rules) == 0 {
		panic("assistant: empty catalog")
	}
	seen := make(map[IntentID]bool, len(rules))
	for i, r := range rules {
		if r.Build == nil {
			panic(fmt.Sprintf("assistant: rule %q has no builder", r.ID))
		}
		if seen[r.ID] {
			panic(fmt.Sprintf("assistant: duplicate rule %q", r.ID))
		}
		seen[r.ID] = true
		if r.Always && i != len(rules)-1 {
			panic(fmt.Sprintf("assistant: always-matching rule %q shadows every rule after position %d", r.ID, i))
		}
		for _, kw := range r.Keywords {
			if kw != strings.ToLower(kw) || strings.TrimSpace(kw) == "" {
				panic(fmt.Sprintf("assistant: rule %q keyword %q must be non-empty lower case", r.ID, kw))
			}
		}
	}
	if !rules[len(rules)-1].Always {
		panic("assistant: the last rule must always match")
	}

	out := make([]Rule, len(rules))
	copy(out, rules)
	return &Catalog{rules: out}
}

var apostrophes = strings.NewReplacer("\u2019", "'", "\u2018", "'", "\u02bc", "'")

// Normalize lower-cases and trims raw input and folds typographic
// apostrophes to '. There is no stemming.
func Normalize(raw string) string {
	return apostrophes.Replace(strings.ToLower(strings.TrimSpace(raw)))
}

// Match returns the first rule accepting the normalized text. The terminal
// rule guarantees a result.
func (c *Catalog) Match(normalized string) Rule {
	for _, r := range c.rules {
		if r.Matches(normalized) {
			return r
		}
	}
	return c.rules[len(c.rules)-1]
}

// Rules returns a copy of the rules in priority order.
func (c *Catalog) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// Position returns the index of a rule, or -1.
func (c *Catalog) Position(id IntentID) int {
	for i, r := range c.rules {
		if r.ID == id {
			return i
		}
	}
	return -1
}
