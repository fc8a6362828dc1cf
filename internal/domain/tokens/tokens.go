// Package tokens is the deterministic course/subject token extractor. It is
// the fallback for every model-backed extraction and the reference for what
// model output is expected to approximate.
package tokens

import (
	"regexp"
	"sort"
	"strings"
)

// Vocabulary selects the set of bare subject abbreviations recognised.
type Vocabulary int

// Vocabularies.
const (
	// Base is used for candidate matching.
	Base Vocabulary = iota
	// Extended adds long subject forms; used by the extract endpoint.
	Extended
)

var (
	courseCode = regexp.MustCompile(`\b([A-Z]{2,4})\s?-?\s?(\d{2,3})\b`)

	baseSubjects     = regexp.MustCompile(`\b(BIO|BIOL|ECN|ECON|CSE|CS|EE|EEE|MAT|MATH|PSY|PSYCH)\b`)
	extendedSubjects = regexp.MustCompile(`\b(BIO|BIOL|BIOLOGY|ECN|ECON|ECONOMICS|CSE|CS|EE|EEE|MAT|MATH|PSY|PSYCH)\b`)

	// Segment labels written by profile.Normalize are removed so the "BIO:"
	// label does not turn every profile with a bio into a BIO token.
	segmentLabel = regexp.MustCompile(`(?m)^\s*(MAJOR|BIO|COURSES):`)
)

// Extract returns the sorted, duplicate-free token set found in text.
func Extract(text string, vocab Vocabulary) []string {
	if strings.TrimSpace(text) == "" {
		return []string{}
	}
	t := segmentLabel.ReplaceAllString(strings.ToUpper(text), "")

	set := make(map[string]struct{})
	for _, m := range courseCode.FindAllStringSubmatch(t, -1) {
		letters, digits := m[1], m[2]
		set[letters] = struct{}{}
		set[letters+" "+digits] = struct{}{}
		set[letters+digits] = struct{}{}
	}

	subjects := baseSubjects
	if vocab == Extended {
		subjects = extendedSubjects
	}
	for _, m := range subjects.FindAllString(t, -1) {
		set[m] = struct{}{}
	}

	out := make([]string, 0, len(set))
	for tok := range set {
		out = append(out, tok)
	}
	sort.Strings(out)
	return out
}

// Normalize uppercases, trims and de-duplicates model-produced tokens while
// preserving their first-seen order. Blank entries are dropped.
func Normalize(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, tok := range in {
		u := strings.ToUpper(strings.TrimSpace(tok))
		if u == "" {
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
