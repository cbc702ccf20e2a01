package rank

import "github.com/bastiangx/typeahead/pkg/match"

type streamEntry struct {
	stream  Stream
	pinned  bool
	active  bool
	bucket  int
	traffic optional
}

// streamBucket orders name matches before description matches before the
// rest, with subscribed streams first inside each.
func streamBucket(query string, s Stream) int {
	var rank int
	switch match.Classify(query, s.Name, s.Description) {
	case match.KindExact, match.KindPrimary:
		rank = 0
	case match.KindSecondary:
		rank = 1
	default:
		rank = 2
	}
	rank *= 2
	if !s.Subscribed {
		rank++
	}
	return rank
}

var compareStreams = Chain(
	By(func(e streamEntry) bool { return e.pinned }, PreferTrue),
	By(func(e streamEntry) bool { return e.active }, PreferTrue),
	By(func(e streamEntry) int { return e.bucket }, Ascending[int]),
	By(func(e streamEntry) optional { return e.traffic }, descendingOptional),
	By(func(e streamEntry) string { return e.stream.Name }, match.CompareFold),
)

// SortStreams returns every stream, ordered for a stream typeahead.
//
// Pinned streams come first and inactive streams last. Between those, a
// stream whose name starts with query beats one whose description does,
// which beats one that does not match; subscribed streams lead each of
// those groups. Busier streams then come first, and names break the
// remaining ties alphabetically.
func (e *Engine) SortStreams(streams []Stream, query string) []Stream {
	return sortStable(streams, func(_ int, s Stream) streamEntry {
		entry := streamEntry{
			stream: s,
			pinned: s.PinToTop,
			active: e.isActive(s.StreamID),
			bucket: streamBucket(query, s),
		}
		if s.WeeklyTraffic != nil {
			entry.traffic = optional{value: *s.WeeklyTraffic, ok: true}
		}
		return entry
	}, compareStreams, func(entry streamEntry) Stream { return entry.stream })
}
