// Package invite sanitizes generated invitation messages so they open with a
// generic greeting and never name the recipient.
package invite

import (
	"regexp"
	"strings"
	"unicode"
)

// DefaultMessage is used when the model gives nothing usable.
const DefaultMessage = "Hey, want to study together later today?"

const greeting = "Hey, "

// nameWord is one capitalized name, including hyphen and apostrophe joins
// such as "Mary-Jane" or "O'Neil".
const nameWord = `(?:[A-Z]')?[A-Z][a-z]+(?:[-'][A-Z][a-z]+)*`

var (
	greetingWithNameRe = regexp.MustCompile(`^(?i:(hey|hi|hello))\s+` + nameWord + `(?:\s` + nameWord + `)*[,!]?\s*`)
	leadingNameRe      = regexp.MustCompile(`^(` + nameWord + `)(?:\s` + nameWord + `)*[,!]\s*`)
	startsGreetingRe   = regexp.MustCompile(`^(?i:hey|hi|hello)\b`)
	greetingRunRe      = regexp.MustCompile(`^(?i:hey|hi|hello)\b[^a-zA-Z0-9]*`)
)

// Rule is one named rewrite step.
type Rule struct {
	Name  string
	Apply func(string) string
}

// GreetingWithName turns "hey Alex Kim," into "Hey, ".
var GreetingWithName = Rule{
	Name: "greeting-with-name",
	Apply: func(s string) string {
		m := greetingWithNameRe.FindStringSubmatchIndex(s)
		if m == nil {
			return s
		}
		word := s[m[2]:m[3]]
		return capitalize(word) + ", " + s[m[1]:]
	},
}

// LeadingName drops a leading capitalized name run ending in "," or "!".
// Greeting words are left for the later rules.
var LeadingName = Rule{
	Name: "leading-name",
	Apply: func(s string) string {
		m := leadingNameRe.FindStringSubmatchIndex(s)
		if m == nil || isGreeting(s[m[2]:m[3]]) {
			return s
		}
		return s[m[1]:]
	},
}

// EnsureGreeting prepends "Hey, " unless the text already opens with a greeting.
var EnsureGreeting = Rule{
	Name: "ensure-greeting",
	Apply: func(s string) string {
		if startsGreetingRe.MatchString(s) {
			return s
		}
		return greeting + s
	},
}

// NormalizeGreeting rewrites any leading greeting plus punctuation to "Hey, ".
var NormalizeGreeting = Rule{
	Name: "normalize-greeting",
	Apply: func(s string) string {
		loc := greetingRunRe.FindStringIndex(s)
		if loc == nil {
			return s
		}
		return greeting + s[loc[1]:]
	},
}

// Rules run in this order; each assumes the earlier ones already ran.
var Rules = []Rule{GreetingWithName, LeadingName, EnsureGreeting, NormalizeGreeting}

// Rewrite applies Rules to the trimmed message.
func Rewrite(msg string) string {
	s := strings.TrimSpace(msg)
	for _, r := range Rules {
		s = r.Apply(s)
	}
	return s
}

// Sanitize rewrites msg and falls back to DefaultMessage when the body is
// empty or any of names still shows up in it.
func Sanitize(msg string, names ...string) string {
	s := Rewrite(msg)
	if strings.TrimSpace(strings.TrimPrefix(s, greeting)) == "" || mentions(s, names) {
		return DefaultMessage
	}
	return s
}

// mentions reports whether s contains a full name, or any name part as a
// whole word. Names and text are split on every non-letter, so "Mary-Jane"
// is checked as "mary" and "jane".
func mentions(s string, names []string) bool {
	lower := strings.ToLower(s)
	words := make(map[string]struct{})
	for _, w := range letterWords(lower) {
		words[w] = struct{}{}
	}
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if strings.Contains(lower, name) {
			return true
		}
		for _, part := range letterWords(name) {
			if len([]rune(part)) < 2 {
				continue
			}
			if _, ok := words[part]; ok {
				return true
			}
		}
	}
	return false
}

func letterWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return !unicode.IsLetter(r) })
}

func isGreeting(word string) bool {
	switch strings.ToLower(word) {
	case "hey", "hi", "hello":
		return true
	}
	return false
}

func capitalize(word string) string {
	if word == "" {
		return word
	}
	lower := strings.ToLower(word)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
