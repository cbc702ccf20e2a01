// Package store keeps an in-memory snapshot of the realm that the ranking
// engine reads its signals from. A Store is safe for concurrent use; it is
// meant to be filled once and then mostly read.
package store

import (
	"sort"
	"sync"

	"github.com/bastiangx/typeahead/pkg/match"
	"github.com/bastiangx/typeahead/pkg/rank"
	"github.com/bastiangx/typeahead/pkg/render"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Message is the part of a stream message that recency is derived from.
type Message struct {
	ID       int    `msgpack:"id" toml:"id"`
	SenderID int    `msgpack:"sender_id" toml:"sender_id"`
	StreamID int    `msgpack:"stream_id" toml:"stream_id"`
	Topic    string `msgpack:"topic" toml:"topic"`
}

type topicKey struct {
	streamID int
	topic    string
}

// Store implements every signal provider of package rank plus the custom
// emoji table of package render.
type Store struct {
	mu sync.RWMutex

	people    map[int]rank.Person
	userOrder []int
	emails    *patricia.Trie // folded email -> user id

	streams     map[int]rank.Stream
	streamOrder []int
	streamNames map[string]int // folded name -> stream id
	inactive    map[int]bool
	subscribers map[int]map[int]struct{}

	partners        map[int]struct{}
	topicSenders    map[topicKey]map[int]int
	streamSenders   map[int]map[int]int
	recipientCounts map[int]int

	languages *patricia.Trie // name -> priority
	emoji     *patricia.Trie // name -> render.Emoji
	commands  *patricia.Trie // name -> rank.SlashCommand
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		people:          make(map[int]rank.Person),
		emails:          patricia.NewTrie(),
		streams:         make(map[int]rank.Stream),
		streamNames:     make(map[string]int),
		inactive:        make(map[int]bool),
		subscribers:     make(map[int]map[int]struct{}),
		partners:        make(map[int]struct{}),
		topicSenders:    make(map[topicKey]map[int]int),
		streamSenders:   make(map[int]map[int]int),
		recipientCounts: make(map[int]int),
		languages:       patricia.NewTrie(),
		emoji:           patricia.NewTrie(),
		commands:        patricia.NewTrie(),
	}
}

// Signals returns the rank providers backed by s.
func (s *Store) Signals() rank.Signals {
	return rank.Signals{
		Subscriptions:   s,
		Conversations:   s,
		RecentSenders:   s,
		RecipientCounts: s,
		Streams:         s,
		Languages:       s,
	}
}

// AddPerson adds p, replacing any person with the same user id.
func (s *Store) AddPerson(p rank.Person) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, exists := s.people[p.UserID]; exists {
		s.emails.Delete(patricia.Prefix(match.Fold(old.Email)))
	} else {
		s.userOrder = append(s.userOrder, p.UserID)
	}
	s.people[p.UserID] = p
	s.emails.Set(patricia.Prefix(match.Fold(p.Email)), p.UserID)
}

// Person looks a person up by user id.
func (s *Store) Person(userID int) (rank.Person, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.people[userID]
	return p, ok
}

// PersonByEmail looks a person up by email, ignoring case.
func (s *Store) PersonByEmail(email string) (rank.Person, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item := s.emails.Get(patricia.Prefix(match.Fold(email)))
	if item == nil {
		return rank.Person{}, false
	}
	p, ok := s.people[item.(int)]
	return p, ok
}

// Users returns every person in the order they were added.
func (s *Store) Users() []rank.Recipient {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]rank.Recipient, 0, len(s.userOrder))
	for _, id := range s.userOrder {
		users = append(users, s.people[id])
	}
	return users
}

// AddStream adds st, replacing any stream with the same id.
func (s *Store) AddStream(st rank.Stream) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, exists := s.streams[st.StreamID]; exists {
		delete(s.streamNames, match.Fold(old.Name))
	} else {
		s.streamOrder = append(s.streamOrder, st.StreamID)
	}
	s.streams[st.StreamID] = st
	s.streamNames[match.Fold(st.Name)] = st.StreamID
}

// Stream looks a stream up by id.
func (s *Store) Stream(streamID int) (rank.Stream, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.streams[streamID]
	return st, ok
}

// StreamByName looks a stream up by name, ignoring case.
func (s *Store) StreamByName(name string) (rank.Stream, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.streamNames[match.Fold(name)]
	if !ok {
		return rank.Stream{}, false
	}
	return s.streams[id], true
}

// Streams returns every stream in the order they were added.
func (s *Store) Streams() []rank.Stream {
	s.mu.RLock()
	defer s.mu.RUnlock()

	streams := make([]rank.Stream, 0, len(s.streamOrder))
	for _, id := range s.streamOrder {
		streams = append(streams, s.streams[id])
	}
	return streams
}

// SetActive marks a stream active or inactive. Streams are active unless
// marked otherwise.
func (s *Store) SetActive(streamID int, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if active {
		delete(s.inactive, streamID)
		return
	}
	s.inactive[streamID] = true
}

// IsActive implements rank.StreamDirectory.
func (s *Store) IsActive(streamID int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.inactive[streamID]
}

// AddSubscriber records that userID is subscribed to streamID.
func (s *Store) AddSubscriber(streamID, userID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	subs, ok := s.subscribers[streamID]
	if !ok {
		subs = make(map[int]struct{})
		s.subscribers[streamID] = subs
	}
	subs[userID] = struct{}{}
}

// IsSubscribed implements rank.Subscriptions.
func (s *Store) IsSubscribed(streamID, userID int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.subscribers[streamID][userID]
	return ok
}

// SubscriberCount returns the number of subscribers of a stream.
func (s *Store) SubscriberCount(streamID int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subscribers[streamID])
}

// SetPartner records private message history with userID.
func (s *Store) SetPartner(userID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.partners[userID] = struct{}{}
}

// IsPartner implements rank.Conversations.
func (s *Store) IsPartner(userID int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.partners[userID]
	return ok
}

// ProcessMessage records m for sender recency. Messages may arrive in any
// order; only the largest id per sender is kept.
func (s *Store) ProcessMessage(m Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := topicKey{streamID: m.StreamID, topic: match.Fold(m.Topic)}
	keepLatest(s.topicSenders, key, m.SenderID, m.ID)
	keepLatest(s.streamSenders, m.StreamID, m.SenderID, m.ID)
}

func keepLatest[K comparable](senders map[K]map[int]int, key K, senderID, messageID int) {
	ids, ok := senders[key]
	if !ok {
		ids = make(map[int]int)
		senders[key] = ids
	}
	if current, seen := ids[senderID]; !seen || messageID > current {
		ids[senderID] = messageID
	}
}

// TopicMessageID implements rank.RecentSenders.
func (s *Store) TopicMessageID(streamID int, topic string, userID int) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.topicSenders[topicKey{streamID: streamID, topic: match.Fold(topic)}][userID]
	return id, ok
}

// StreamMessageID implements rank.RecentSenders.
func (s *Store) StreamMessageID(streamID, userID int) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.streamSenders[streamID][userID]
	return id, ok
}

// SetRecipientCount sets the number of private messages exchanged with
// userID.
func (s *Store) SetRecipientCount(userID, count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipientCounts[userID] = count
}

// IncrementRecipientCount records one more private message with userID.
func (s *Store) IncrementRecipientCount(userID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipientCounts[userID]++
}

// RecipientCount implements rank.RecipientCounts.
func (s *Store) RecipientCount(userID int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.recipientCounts[userID]
}

// SetLanguagePriority sets the popularity of a code block language.
func (s *Store) SetLanguagePriority(language string, priority int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.languages.Set(patricia.Prefix(language), priority)
}

// Priority implements rank.LanguagePriorities.
func (s *Store) Priority(language string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item := s.languages.Get(patricia.Prefix(language))
	if item == nil {
		return 0, false
	}
	return item.(int), true
}

// Languages returns every known language name in alphabetical order.
func (s *Store) Languages() []string {
	return s.LanguagesWithPrefix("")
}

// LanguagesWithPrefix returns the known language names starting with
// prefix, in alphabetical order.
func (s *Store) LanguagesWithPrefix(prefix string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var names []string
	err := visitPrefix(s.languages, prefix, func(p patricia.Prefix, _ patricia.Item) error {
		names = append(names, string(p))
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting language trie: %v", err)
	}
	sort.Strings(names)
	return names
}

// AddEmoji adds e to the emoji table. Emoji with a URL are custom realm
// emoji.
func (s *Store) AddEmoji(e render.Emoji) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emoji.Set(patricia.Prefix(e.Name), e)
}

// IsRealmEmoji implements render.RealmEmoji.
func (s *Store) IsRealmEmoji(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item := s.emoji.Get(patricia.Prefix(name))
	if item == nil {
		return false
	}
	return item.(render.Emoji).URL != ""
}

// EmojiWithPrefix returns the emoji whose names start with prefix, in
// alphabetical order.
func (s *Store) EmojiWithPrefix(prefix string) []render.Emoji {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found []render.Emoji
	err := visitPrefix(s.emoji, prefix, func(_ patricia.Prefix, item patricia.Item) error {
		found = append(found, item.(render.Emoji))
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting emoji trie: %v", err)
	}
	sort.Slice(found, func(i, j int) bool { return found[i].Name < found[j].Name })
	return found
}

// AddCommand registers a slash command.
func (s *Store) AddCommand(c rank.SlashCommand) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commands.Set(patricia.Prefix(c.Name), c)
}

// Commands returns every registered slash command in alphabetical order.
func (s *Store) Commands() []rank.SlashCommand {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var commands []rank.SlashCommand
	err := s.commands.Visit(func(_ patricia.Prefix, item patricia.Item) error {
		commands = append(commands, item.(rank.SlashCommand))
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting command trie: %v", err)
	}
	sort.Slice(commands, func(i, j int) bool { return commands[i].Name < commands[j].Name })
	return commands
}

// Stats returns the size of each table.
func (s *Store) Stats() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages := 0
	for _, senders := range s.streamSenders {
		messages += len(senders)
	}
	return map[string]int{
		"people":        len(s.people),
		"streams":       len(s.streams),
		"inactive":      len(s.inactive),
		"partners":      len(s.partners),
		"streamSenders": messages,
		"languages":     trieSize(s.languages),
		"emoji":         trieSize(s.emoji),
		"commands":      trieSize(s.commands),
	}
}

// visitPrefix walks every item under prefix. The whole trie is walked for
// an empty prefix.
func visitPrefix(trie *patricia.Trie, prefix string, visitor patricia.VisitorFunc) error {
	if prefix == "" {
		return trie.Visit(visitor)
	}
	return trie.VisitSubtree(patricia.Prefix(prefix), visitor)
}

func trieSize(trie *patricia.Trie) int {
	n := 0
	_ = trie.Visit(func(patricia.Prefix, patricia.Item) error {
		n++
		return nil
	})
	return n
}
