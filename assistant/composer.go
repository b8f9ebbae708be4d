package assistant

import (
	"fmt"

	"genie/locale"
)

// MaxSuggestions caps the quick replies on one draft.
const MaxSuggestions = 4

// Draft is a builder's output before it becomes a transcript message.
type Draft struct {
	Body        string
	Suggestions []string
	NavigateTo  Screen

	// Figures lists every number interpolated into Body, in order. Both
	// languages of the same reply carry the same Figures.
	Figures []float64
}

// phrase is one string in both supported languages.
type phrase struct {
	en string
	fr string
}

// Composer renders one draft in the active language and records the figures
// it interpolates.
type Composer struct {
	lang      locale.Tag
	formatter locale.Formatter
	figures   []float64
}

func newComposer(lang locale.Tag, f locale.Formatter) *Composer {
	return &Composer{lang: lang, formatter: f}
}

// T picks the string for the active language.
func (c *Composer) T(en, fr string) string {
	if c.lang == locale.French {
		return fr
	}
	return en
}

// Tf picks a format string for the active language and applies args.
func (c *Composer) Tf(en, fr string, args ...any) string {
	return fmt.Sprintf(c.T(en, fr), args...)
}

func (c *Composer) p(ph phrase) string {
	return c.T(ph.en, ph.fr)
}

// Money formats an amount through the currency formatter.
func (c *Composer) Money(v float64) string {
	c.figures = append(c.figures, v)
	return c.formatter.Format(v, string(c.lang))
}

// Number formats a plain figure (years, rates) with the locale's separator.
func (c *Composer) Number(v float64) string {
	c.figures = append(c.figures, v)
	return locale.FormatNumber(v, string(c.lang))
}

// Percent formats a whole or fractional percentage.
func (c *Composer) Percent(v float64) string {
	c.figures = append(c.figures, v)
	n := locale.FormatNumber(v, string(c.lang))
	if c.lang == locale.French {
		return n + " %"
	}
	return n + "%"
}

func (c *Composer) suggestions(phrases ...phrase) []string {
	if len(phrases) > MaxSuggestions {
		phrases = phrases[:MaxSuggestions]
	}
	out := make([]string, 0, len(phrases))
	for _, ph := range phrases {
		out = append(out, c.p(ph))
	}
	return out
}

// Draft assembles the final draft with the figures recorded so far.
func (c *Composer) Draft(body string, nav Screen, suggestions ...phrase) Draft {
	figures := make([]float64, len(c.figures))
	copy(figures, c.figures)
	return Draft{
		Body:        body,
		Suggestions: c.suggestions(suggestions...),
		NavigateTo:  nav,
		Figures:     figures,
	}
}
