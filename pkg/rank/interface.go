/*
Package rank orders typeahead candidates for a partially typed query.

Every public sort derives the relevance signals it needs for each candidate
into call-local entries, orders those entries with a comparator chain and
returns a new slice. Inputs are never mutated and nothing survives a call,
so an Engine can be shared freely between goroutines.

The signals come from read-only providers injected through Signals. Any
provider may be nil, in which case its signal is treated as absent for every
candidate.

# Recipients

People and broadcast mentions ("all", "everyone", "stream") are ranked
together. SortRecipients buckets them by what the query matched (full name,
then email, then nothing) and orders each bucket by relevance:

	broadcast mentions > stream subscribers > PM partners > tiebreak

where the tiebreak depends on the context. Inside a stream, people who wrote
in the current topic (then stream) most recently come first. Outside a
stream, people with more private messages come first, then humans before
bots, then by full name.

# Streams, languages and commands

SortStreams, SortLanguages and SortSlashCommands follow the same pattern with
their own tiers; see the individual functions.
*/
package rank

// Recipient is a candidate for a person typeahead: either a Person or a
// Broadcast mention. The set of implementations is closed.
type Recipient interface {
	// DisplayName returns the name matched against the query first.
	DisplayName() string
	// Address returns the email matched against the query second.
	Address() string

	isRecipient()
}

// Person is a real user of the realm.
type Person struct {
	UserID   int    `msgpack:"user_id" toml:"user_id"`
	Email    string `msgpack:"email" toml:"email"`
	FullName string `msgpack:"full_name" toml:"full_name"`
	IsBot    bool   `msgpack:"is_bot" toml:"is_bot"`
	IsAdmin  bool   `msgpack:"is_admin" toml:"is_admin"`

	// SpecialItemText replaces the full name when rendered, if set.
	SpecialItemText string `msgpack:"special_item_text,omitempty" toml:"special_item_text,omitempty"`
}

func (p Person) DisplayName() string { return p.FullName }
func (p Person) Address() string     { return p.Email }
func (Person) isRecipient()          {}

// Broadcast is a pseudo-person that notifies a whole stream.
type Broadcast struct {
	Name            string
	SpecialItemText string
	// Idx orders broadcast mentions among themselves.
	Idx int
}

func (b Broadcast) DisplayName() string { return b.Name }
func (b Broadcast) Address() string     { return b.Name }
func (Broadcast) isRecipient()          {}

// BroadcastMentions returns the wildcard mentions in their fixed order.
func BroadcastMentions() []Recipient {
	names := []string{"all", "everyone", "stream"}
	mentions := make([]Recipient, len(names))
	for i, name := range names {
		mentions[i] = Broadcast{
			Name:            name,
			SpecialItemText: name + " (Notify stream)",
			Idx:             i,
		}
	}
	return mentions
}

// Stream is a channel that can be typed into a stream typeahead.
type Stream struct {
	StreamID    int    `msgpack:"stream_id" toml:"stream_id"`
	Name        string `msgpack:"name" toml:"name"`
	Description string `msgpack:"description,omitempty" toml:"description,omitempty"`
	PinToTop    bool   `msgpack:"pin_to_top,omitempty" toml:"pin_to_top,omitempty"`
	Subscribed  bool   `msgpack:"subscribed,omitempty" toml:"subscribed,omitempty"`
	// WeeklyTraffic is nil when the stream's traffic is unknown.
	WeeklyTraffic *int `msgpack:"weekly_traffic,omitempty" toml:"weekly_traffic,omitempty"`
}

// SlashCommand is a composebox command such as "/me".
type SlashCommand struct {
	Name string `msgpack:"name" toml:"name"`
}

// Context is the compose state a query is typed in. Both fields are
// optional; an empty or unknown stream disables stream-scoped signals.
type Context struct {
	Stream string
	Topic  string
}

// Scope is a Context resolved against the stream directory.
type Scope struct {
	StreamID int
	Topic    string
	InStream bool
}

// Subscriptions answers stream membership questions.
type Subscriptions interface {
	IsSubscribed(streamID, userID int) bool
}

// Conversations answers whether the viewer has private message history
// with a user.
type Conversations interface {
	IsPartner(userID int) bool
}

// RecentSenders exposes the id of the latest message a user sent to a
// topic or stream. Larger ids are more recent.
type RecentSenders interface {
	TopicMessageID(streamID int, topic string, userID int) (int, bool)
	StreamMessageID(streamID, userID int) (int, bool)
}

// RecipientCounts exposes how many private messages the viewer exchanged
// with a user.
type RecipientCounts interface {
	RecipientCount(userID int) int
}

// StreamDirectory resolves stream names and activity.
type StreamDirectory interface {
	StreamByName(name string) (Stream, bool)
	IsActive(streamID int) bool
}

// LanguagePriorities exposes the popularity of code block languages.
type LanguagePriorities interface {
	Priority(language string) (int, bool)
}

// Signals bundles the providers an Engine reads from.
type Signals struct {
	Subscriptions   Subscriptions
	Conversations   Conversations
	RecentSenders   RecentSenders
	RecipientCounts RecipientCounts
	Streams         StreamDirectory
	Languages       LanguagePriorities
}
