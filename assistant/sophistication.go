package assistant

import (
	"strings"

	"genie/finmath"
)

// Sophistication is how experienced the wording of a message sounds. It never
// selects a rule, only the variant a rule's builder returns.
type Sophistication int

const (
	Unclassified Sophistication = iota
	Beginner
	Intermediate
	Advanced
)

func (s Sophistication) String() string {
	switch s {
	case Beginner:
		return "beginner"
	case Intermediate:
		return "intermediate"
	case Advanced:
		return "advanced"
	default:
		return "unclassified"
	}
}

// Level maps the classification to a finmath tier. Unclassified returns
// fallback so each builder picks its own default variant.
func (s Sophistication) Level(fallback finmath.Level) finmath.Level {
	switch s {
	case Beginner:
		return finmath.LevelBeginner
	case Intermediate:
		return finmath.LevelIntermediate
	case Advanced:
		return finmath.LevelAdvanced
	default:
		return fallback
	}
}

// Checked in this order: a beginner phrase wins over jargon in the same
// message ("what is an etf" is a beginner question).
var sophisticationKeywords = []struct {
	level    Sophistication
	keywords []string
}{
	{level: Beginner, keywords: []string{
		"beginner", "new to", "first time", "just starting", "don't know", "dont know",
		"explain", "what is", "what's a", "débutant", "debutant", "je débute", "je debute",
		"première fois", "premiere fois", "je ne sais pas", "c'est quoi", "qu'est-ce", "explique",
	}},
	{level: Advanced, keywords: []string{
		"etf", "expense ratio", "rebalanc", "sharpe", "volatility", "index fund",
		"asset allocation", "bond ladder", "dividend", "rééquilibr", "reequilibr",
		"volatilité", "volatilite", "fonds indiciel", "ratio de frais",
	}},
	{level: Intermediate, keywords: []string{
		"intermediate", "some experience", "already invest", "a bit of experience",
		"intermédiaire", "intermediaire", "un peu d'expérience", "un peu d'experience",
		"déjà investi", "deja investi", "j'investis déjà", "j'investis deja",
	}},
}

// ClassifySophistication runs the secondary keyword match over normalized text.
func ClassifySophistication(normalized string) Sophistication {
	for _, group := range sophisticationKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(normalized, kw) {
				return group.level
			}
		}
	}
	return Unclassified
}
