// Package accent simulates a Hebrew-accented English pronunciation by
// rewriting text before it reaches a synthesis engine.
package accent

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// rule is a single substring substitution.
type rule struct {
	pattern     string
	replacement string
}

// rules are applied left-to-right over the whole string, in this exact
// order. Later rules see the output of earlier ones: the broad "th" -> "z"
// rule runs first, so a word like "thanks" is already "zanks" by the time
// the whole-word loanword pass looks for "thanks". That suppression is part
// of the contract, not an accident.
var rules = []rule{
	// Th sounds (Hebrew speakers often use 'z' or 's')
	{"th", "z"},
	{"Th", "Z"},
	{" th", " z"},

	// W sounds (Hebrew doesn't have W, uses V)
	{"w", "v"},
	{"W", "V"},

	// R sounds (Israeli Rs are different)
	{"er ", "err "},
	{"or ", "orr "},

	// Common Israeli accent respellings
	{"awesome", "avesome"},
	{"what", "vhat"},
	{"when", "vhen"},
	{"where", "vhere"},
	{"with", "vith"},
	{"why", "vhy"},
	{"wonderful", "vonderful"},
	{"well", "vell"},
	{"will", "vill"},
	{"work", "vork"},
	{"think", "zink"},
	{"thank", "zank"},
	{"that", "zat"},
	{"this", "zis"},
	{"they", "zey"},
	{"them", "zem"},
}

// loanwords replace whole tokens with transliterated Hebrew equivalents.
// Keys are matched against the lowercased, punctuation-stripped token core.
var loanwords = map[string]string{
	"hello":  "Shalom",
	"hi":     "Shalom",
	"great":  "achla",
	"good":   "tov",
	"yes":    "ken",
	"no":     "lo",
	"thanks": "toda",
	"okay":   "sababa",
}

const tokenPunct = ".,!?"

// Transformer rewrites English text into a phonetic Hebrew-accented
// rendition. It is pure and deterministic; a given input always yields the
// same output.
type Transformer struct {
	titler cases.Caser
}

// New creates a Transformer.
func New() *Transformer {
	return &Transformer{titler: cases.Title(language.English)}
}

// Apply transforms text. It never fails: if anything goes wrong internally,
// the original text is returned unchanged.
func (t *Transformer) Apply(text string) (out string) {
	out = text
	defer func() {
		if recover() != nil {
			out = text
		}
	}()

	enhanced := text
	for _, r := range rules {
		enhanced = strings.ReplaceAll(enhanced, r.pattern, r.replacement)
	}

	// Retokenizing collapses whitespace runs, so only rejoin when a loanword
	// actually fired; otherwise the input must come back byte-identical.
	words := strings.Fields(enhanced)
	swapped := false
	for i, word := range words {
		repl := t.replaceLoanword(word)
		if repl != word {
			words[i] = repl
			swapped = true
		}
	}
	if swapped {
		return strings.Join(words, " ")
	}
	return enhanced
}

// replaceLoanword swaps a token's core for its Hebrew equivalent, keeping
// any punctuation attached to the original token.
func (t *Transformer) replaceLoanword(word string) string {
	core := strings.Trim(word, tokenPunct)
	if core == "" {
		return word
	}

	repl, ok := loanwords[strings.ToLower(core)]
	if !ok {
		return word
	}

	// Carry shouted or title casing over to the replacement; otherwise the
	// loanword keeps its dictionary spelling.
	switch {
	case core == strings.ToUpper(core) && len(core) > 1:
		repl = strings.ToUpper(repl)
	case isTitleCased(core):
		repl = t.titler.String(repl)
	}

	prefix := word[:strings.Index(word, core)]
	suffix := word[strings.Index(word, core)+len(core):]
	return prefix + repl + suffix
}

func isTitleCased(s string) bool {
	return s != "" && s[0] >= 'A' && s[0] <= 'Z'
}
