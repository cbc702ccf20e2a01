package rank

import (
	"math"

	"github.com/bastiangx/typeahead/pkg/match"
)

// Match buckets for recipients, best first.
const (
	bucketName = iota
	bucketEmail
	bucketNone
)

type personEntry struct {
	recipient Recipient

	bucket int
	level  match.Level

	broadcast bool
	idx       int

	subscribed bool
	partner    bool
	topicMsg   optional
	streamMsg  optional
	count      int
	human      bool
	name       string
}

func (e *Engine) newPersonEntry(r Recipient, scope Scope) *personEntry {
	entry := &personEntry{
		recipient: r,
		bucket:    bucketNone,
		level:     match.LevelNone,
		name:      r.DisplayName(),
	}

	switch v := r.(type) {
	case Broadcast:
		entry.markBroadcast(v)
	case *Broadcast:
		entry.markBroadcast(*v)
	case Person:
		e.fillPerson(entry, v, scope)
	case *Person:
		e.fillPerson(entry, *v, scope)
	}
	return entry
}

func (entry *personEntry) markBroadcast(b Broadcast) {
	entry.broadcast = true
	entry.idx = b.Idx
	entry.count = math.MaxInt
}

func (e *Engine) fillPerson(entry *personEntry, p Person, scope Scope) {
	entry.human = !p.IsBot
	entry.partner = e.isPartner(p.UserID)
	if scope.InStream {
		entry.subscribed = e.isSubscribed(scope.StreamID, p.UserID)
		entry.topicMsg = e.topicMessageID(scope, p.UserID)
		entry.streamMsg = e.streamMessageID(scope, p.UserID)
		return
	}
	entry.count = e.recipientCount(p.UserID)
}

// classifyRecipient buckets r by the first of its fields that query matches.
func classifyRecipient(query string, r Recipient) (int, match.Level) {
	if level := match.Triage(query, r.DisplayName()); level.Matched() {
		return bucketName, level
	}
	if level := match.Triage(query, r.Address()); level.Matched() {
		return bucketEmail, level
	}
	return bucketNone, match.LevelNone
}

func compareBroadcasts(a, b *personEntry) int {
	switch {
	case a.broadcast && b.broadcast:
		return Ascending(a.idx, b.idx)
	case a.broadcast:
		return -1
	default:
		return 1
	}
}

// relevance orders recipients regardless of how they matched the query.
// Broadcast mentions are settled before any other tier runs, so tiebreak is
// only ever asked about two real people.
func relevance(scope Scope, tiebreak Comparator[*personEntry]) Comparator[*personEntry] {
	var tiers []Comparator[*personEntry]
	if scope.InStream {
		tiers = append(tiers, By(func(p *personEntry) bool { return p.subscribed }, PreferTrue))
	}
	tiers = append(tiers,
		By(func(p *personEntry) bool { return p.partner }, PreferTrue),
		tiebreak,
	)
	people := Chain(tiers...)

	return func(a, b *personEntry) int {
		if a.broadcast || b.broadcast {
			return compareBroadcasts(a, b)
		}
		return people(a, b)
	}
}

// defaultTiebreak ranks people who tie on membership and partnership.
// Inside a stream only recency there counts; raw message volume is used
// only when there is no stream to be recent in.
func defaultTiebreak(scope Scope) Comparator[*personEntry] {
	if scope.InStream {
		return Chain(
			By(func(p *personEntry) optional { return p.topicMsg }, descendingOptional),
			By(func(p *personEntry) optional { return p.streamMsg }, descendingOptional),
		)
	}
	return Chain(
		By(func(p *personEntry) int { return p.count }, Descending[int]),
		By(func(p *personEntry) bool { return p.human }, PreferTrue),
		By(func(p *personEntry) string { return p.name }, match.CompareFold),
	)
}

func unwrapRecipient(e *personEntry) Recipient {
	return e.recipient
}

// ComparePeopleForRelevance compares two recipients in scope and returns
// -1, 0 or 1. When tiebreak is nil the scope's default tiebreak is used.
//
// tiebreak is only consulted for two real people that tie on subscription
// and partnership. A tiebreak that panics to flag an unreachable path is
// not recovered.
func (e *Engine) ComparePeopleForRelevance(a, b Recipient, tiebreak Comparator[Recipient], scope Scope) int {
	tb := defaultTiebreak(scope)
	if tiebreak != nil {
		tb = func(x, y *personEntry) int {
			return tiebreak(x.recipient, y.recipient)
		}
	}
	c := relevance(scope, tb)(e.newPersonEntry(a, scope), e.newPersonEntry(b, scope))
	return sign(c)
}

// SortPeopleForRelevance returns objs ordered by relevance in ctx without
// looking at any query.
func (e *Engine) SortPeopleForRelevance(objs []Recipient, ctx Context) []Recipient {
	scope := e.Scope(ctx)
	return sortStable(objs, func(_ int, r Recipient) *personEntry {
		return e.newPersonEntry(r, scope)
	}, relevance(scope, defaultTiebreak(scope)), unwrapRecipient)
}

// SortRecipients returns every user, ordered for a recipient typeahead.
//
// Users whose full name starts with query come first, then users whose
// email does, then everybody else. Each group is ordered by relevance in
// ctx; remaining ties prefer exact, then same-case, then any-case matches
// and finally keep input order. Duplicates are kept.
func (e *Engine) SortRecipients(users []Recipient, query string, ctx Context) []Recipient {
	scope := e.Scope(ctx)
	compare := Chain(
		By(func(p *personEntry) int { return p.bucket }, Ascending[int]),
		relevance(scope, defaultTiebreak(scope)),
		By(func(p *personEntry) match.Level { return p.level }, Ascending[match.Level]),
	)
	return sortStable(users, func(_ int, r Recipient) *personEntry {
		entry := e.newPersonEntry(r, scope)
		entry.bucket, entry.level = classifyRecipient(query, r)
		return entry
	}, compare, unwrapRecipient)
}

func sign(c int) int {
	switch {
	case c < 0:
		return -1
	case c > 0:
		return 1
	default:
		return 0
	}
}
