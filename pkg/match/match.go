// Package match classifies how a typed query relates to a candidate's text
// fields and renders an escaped, highlighted view of the matched text.
package match

import (
	"strings"

	"golang.org/x/text/cases"
)

// Level describes how closely a single text field matches a query.
// Lower values are better matches.
type Level int

const (
	LevelExact      Level = iota // whole field equals the query, ignoring case
	LevelPrefix                  // field starts with the query, same case
	LevelPrefixFold              // field starts with the query, ignoring case
	LevelNone
)

// Matched reports whether the level is any kind of prefix match.
func (l Level) Matched() bool {
	return l != LevelNone
}

// Kind describes which field of a candidate matched a query.
type Kind int

const (
	KindExact     Kind = iota // primary field equals the query
	KindPrimary               // primary field starts with the query
	KindSecondary             // secondary field starts with the query
	KindNone
)

func (k Kind) String() string {
	switch k {
	case KindExact:
		return "exact"
	case KindPrimary:
		return "primary"
	case KindSecondary:
		return "secondary"
	default:
		return "none"
	}
}

// Fold returns the case-folded form of s used for every case-insensitive
// comparison in this module.
func Fold(s string) string {
	// Casers keep state, so a fresh one is used per call.
	return cases.Fold().String(s)
}

// HasPrefixFold reports whether s starts with prefix, ignoring case.
func HasPrefixFold(s, prefix string) bool {
	return strings.HasPrefix(Fold(s), Fold(prefix))
}

// EqualFold reports whether a and b are equal under case folding.
func EqualFold(a, b string) bool {
	return Fold(a) == Fold(b)
}

// Triage grades text against query.
func Triage(query, text string) Level {
	foldedQuery := Fold(query)
	foldedText := Fold(text)

	switch {
	case foldedText == foldedQuery:
		return LevelExact
	case strings.HasPrefix(text, query):
		return LevelPrefix
	case strings.HasPrefix(foldedText, foldedQuery):
		return LevelPrefixFold
	default:
		return LevelNone
	}
}

// Classify reports which of the two fields matches query first.
// An empty secondary field never matches.
func Classify(query, primary, secondary string) Kind {
	switch Triage(query, primary) {
	case LevelExact:
		return KindExact
	case LevelPrefix, LevelPrefixFold:
		return KindPrimary
	}
	if secondary != "" && Triage(query, secondary).Matched() {
		return KindSecondary
	}
	return KindNone
}

// CompareFold orders a and b by their folded forms, falling back to the raw
// strings so that distinct values never compare equal.
func CompareFold(a, b string) int {
	if c := strings.Compare(Fold(a), Fold(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}
