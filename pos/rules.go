package pos

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	TagNoun           = "NN"
	TagProperNoun     = "NNP"
	TagPluralNoun     = "NNS"
	TagCardinal       = "CD"
	TagAdverb         = "RB"
	TagAdjective      = "JJ"
	TagGerund         = "VBG"
	DefaultUnknownTag = TagNoun
)

var (
	reInnerDigit = regexp.MustCompile(`.[0-9].`)
	reHyphenated = regexp.MustCompile(`[a-zA-Z]*-[a-zA-Z]`)
)

type unknownWordRule struct {
	name  string
	tag   string
	match func(word string) bool
}

// enhancedRules is evaluated in order; the first matching rule decides.
var enhancedRules = []unknownWordRule{
	{"capitalized", TagProperNoun, startsUpper},
	{"inner digit", TagCardinal, reInnerDigit.MatchString},
	{"suffix s", TagPluralNoun, suffix("s")},
	{"suffix ly", TagAdverb, suffix("ly")},
	{"hyphenated", TagAdjective, reHyphenated.MatchString},
	{"suffix ing", TagGerund, suffix("ing")},
}

func startsUpper(word string) bool {
	r, size := utf8.DecodeRuneInString(word)
	return size > 0 && unicode.IsUpper(r)
}

func suffix(s string) func(string) bool {
	return func(word string) bool {
		return strings.HasSuffix(word, s)
	}
}

func tagUnknown(word string, mode Mode) string {
	if mode != ModeEnhanced {
		return DefaultUnknownTag
	}
	for _, rule := range enhancedRules {
		if rule.match(word) {
			return rule.tag
		}
	}
	return DefaultUnknownTag
}
