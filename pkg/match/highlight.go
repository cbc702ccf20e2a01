package match

import (
	"regexp"
	"strings"
)

const (
	strongOpen  = "<strong>"
	strongClose = "</strong>"
)

// htmlEscaper mirrors the escape set of template engines that render
// typeahead items, including the backtick and equals sign.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"`", "&#x60;",
	"=", "&#x3D;",
)

// EscapeHTML escapes text for inclusion in HTML markup.
func EscapeHTML(text string) string {
	return htmlEscaper.Replace(text)
}

// BuildHighlightRegex compiles a case-insensitive matcher for the literal
// query text. The query is never interpreted as a pattern.
func BuildHighlightRegex(query string) *regexp.Regexp {
	return regexp.MustCompile("(?i)" + regexp.QuoteMeta(query))
}

// Locate returns the byte span of the first match of re in text, or
// (-1, -1) when there is none. Empty patterns never match.
func Locate(re *regexp.Regexp, text string) (start, end int) {
	if re == nil {
		return -1, -1
	}
	loc := re.FindStringIndex(text)
	if loc == nil || loc[0] == loc[1] {
		return -1, -1
	}
	return loc[0], loc[1]
}

// HighlightWithEscaping escapes text and wraps the first match of re in a
// strong marker, keeping the casing found in text.
//
// The match is located on the raw text and each piece is escaped on its own,
// so the marker can never land inside an entity.
func HighlightWithEscaping(re *regexp.Regexp, text string) string {
	start, end := Locate(re, text)
	if start < 0 {
		return EscapeHTML(text)
	}

	var b strings.Builder
	b.Grow(len(text) + len(strongOpen) + len(strongClose))
	b.WriteString(EscapeHTML(text[:start]))
	b.WriteString(strongOpen)
	b.WriteString(EscapeHTML(text[start:end]))
	b.WriteString(strongClose)
	b.WriteString(EscapeHTML(text[end:]))
	return b.String()
}

// Highlight is shorthand for HighlightWithEscaping(BuildHighlightRegex(query), text).
func Highlight(query, text string) string {
	return HighlightWithEscaping(BuildHighlightRegex(query), text)
}
