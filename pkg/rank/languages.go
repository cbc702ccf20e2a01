package rank

import "github.com/bastiangx/typeahead/pkg/match"

type languageEntry struct {
	name     string
	matched  bool
	exact    bool
	priority optional
}

var compareLanguages = Chain(
	By(func(e languageEntry) bool { return e.matched }, PreferTrue),
	By(func(e languageEntry) bool { return e.exact }, PreferTrue),
	By(func(e languageEntry) optional { return e.priority }, descendingOptional),
)

// SortLanguages returns every language name, ordered for a code block
// typeahead.
//
// Names starting with query come first, led by an exact match regardless
// of popularity. Both groups are ordered by descending priority; names
// without a known priority sort last and equal priorities keep their input
// order.
func (e *Engine) SortLanguages(languages []string, query string) []string {
	return sortStable(languages, func(_ int, name string) languageEntry {
		level := match.Triage(query, name)
		return languageEntry{
			name:     name,
			matched:  level.Matched(),
			exact:    level == match.LevelExact,
			priority: e.priority(name),
		}
	}, compareLanguages, func(entry languageEntry) string { return entry.name })
}
