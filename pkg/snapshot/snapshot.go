/*
Package snapshot reads and writes realm snapshots: the people, streams,
message history and lookup tables that a store.Store is filled from.

A snapshot is a TOML or msgpack document:

	[[people]]
	user_id = 1
	email = "iago@zulip.com"
	full_name = "Iago"

	[[streams]]
	stream_id = 1
	name = "Dev"
	subscribers = [1]

	[languages]
	python = 40
*/
package snapshot

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/bastiangx/typeahead/internal/utils"
	"github.com/bastiangx/typeahead/pkg/rank"
	"github.com/bastiangx/typeahead/pkg/render"
	"github.com/bastiangx/typeahead/pkg/store"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Snapshot is the on-disk form of a realm.
type Snapshot struct {
	People          []rank.Person       `msgpack:"people" toml:"people"`
	Streams         []Stream            `msgpack:"streams" toml:"streams"`
	Messages        []store.Message     `msgpack:"messages" toml:"messages"`
	Partners        []int               `msgpack:"pm_partners" toml:"pm_partners"`
	RecipientCounts []RecipientCount    `msgpack:"recipient_counts" toml:"recipient_counts"`
	Languages       map[string]int      `msgpack:"languages" toml:"languages"`
	Emoji           []render.Emoji      `msgpack:"emoji" toml:"emoji"`
	Commands        []rank.SlashCommand `msgpack:"commands" toml:"commands"`
}

// Stream is a stream together with its membership and activity.
type Stream struct {
	StreamID      int    `msgpack:"stream_id" toml:"stream_id"`
	Name          string `msgpack:"name" toml:"name"`
	Description   string `msgpack:"description,omitempty" toml:"description,omitempty"`
	PinToTop      bool   `msgpack:"pin_to_top,omitempty" toml:"pin_to_top,omitempty"`
	Subscribed    bool   `msgpack:"subscribed,omitempty" toml:"subscribed,omitempty"`
	WeeklyTraffic *int   `msgpack:"weekly_traffic,omitempty" toml:"weekly_traffic,omitempty"`
	Inactive      bool   `msgpack:"inactive,omitempty" toml:"inactive,omitempty"`
	Subscribers   []int  `msgpack:"subscribers,omitempty" toml:"subscribers,omitempty"`
}

// RecipientCount is the number of private messages exchanged with a user.
type RecipientCount struct {
	UserID int `msgpack:"user_id" toml:"user_id"`
	Count  int `msgpack:"count" toml:"count"`
}

func (s Stream) stream() rank.Stream {
	return rank.Stream{
		StreamID:      s.StreamID,
		Name:          s.Name,
		Description:   s.Description,
		PinToTop:      s.PinToTop,
		Subscribed:    s.Subscribed,
		WeeklyTraffic: s.WeeklyTraffic,
	}
}

// Validate reports the first reference to an unknown person or stream, or
// a duplicate id.
func (snap *Snapshot) Validate() error {
	people := make(map[int]bool, len(snap.People))
	for _, p := range snap.People {
		if people[p.UserID] {
			return fmt.Errorf("duplicate user id %d", p.UserID)
		}
		people[p.UserID] = true
	}

	streams := make(map[int]bool, len(snap.Streams))
	for _, s := range snap.Streams {
		if streams[s.StreamID] {
			return fmt.Errorf("duplicate stream id %d", s.StreamID)
		}
		if s.Name == "" {
			return fmt.Errorf("stream %d has no name", s.StreamID)
		}
		streams[s.StreamID] = true
		for _, id := range s.Subscribers {
			if !people[id] {
				return fmt.Errorf("stream %q: unknown subscriber %d", s.Name, id)
			}
		}
	}

	for _, m := range snap.Messages {
		if !people[m.SenderID] {
			return fmt.Errorf("message %d: unknown sender %d", m.ID, m.SenderID)
		}
		if !streams[m.StreamID] {
			return fmt.Errorf("message %d: unknown stream %d", m.ID, m.StreamID)
		}
	}
	for _, id := range snap.Partners {
		if !people[id] {
			return fmt.Errorf("unknown pm partner %d", id)
		}
	}
	for _, rc := range snap.RecipientCounts {
		if !people[rc.UserID] {
			return fmt.Errorf("recipient count for unknown user %d", rc.UserID)
		}
	}
	return nil
}

// Build fills a new store from snap.
func (snap *Snapshot) Build() *store.Store {
	s := store.New()
	for _, p := range snap.People {
		s.AddPerson(p)
	}
	for _, st := range snap.Streams {
		s.AddStream(st.stream())
		if st.Inactive {
			s.SetActive(st.StreamID, false)
		}
		for _, id := range st.Subscribers {
			s.AddSubscriber(st.StreamID, id)
		}
	}
	for _, m := range snap.Messages {
		s.ProcessMessage(m)
	}
	for _, id := range snap.Partners {
		s.SetPartner(id)
	}
	for _, rc := range snap.RecipientCounts {
		s.SetRecipientCount(rc.UserID, rc.Count)
	}
	for name, priority := range snap.Languages {
		s.SetLanguagePriority(name, priority)
	}
	for _, e := range snap.Emoji {
		s.AddEmoji(e)
	}
	for _, c := range snap.Commands {
		s.AddCommand(c)
	}
	return s
}

// Read decodes the snapshot file at path, detecting its format from the
// extension.
func Read(path string) (*Snapshot, error) {
	format, err := DetectFileFormat(path)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{}
	switch format {
	case FormatTOML:
		if err := utils.LoadTOMLFile(path, snap); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", path, err)
		}
	case FormatMsgpack:
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer file.Close()
		if err := msgpack.NewDecoder(bufio.NewReader(file)).Decode(snap); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", path, err)
		}
	}
	return snap, nil
}

// Load reads, validates and builds the snapshot at path.
func Load(path string) (*store.Store, error) {
	start := time.Now()
	snap, err := Read(path)
	if err != nil {
		return nil, err
	}
	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("invalid snapshot %s: %w", path, err)
	}
	s := snap.Build()
	log.Debugf("Loaded snapshot %s: %d people, %d streams, %d messages in %v",
		path, len(snap.People), len(snap.Streams), len(snap.Messages), time.Since(start))
	return s, nil
}

// Write encodes snap to path in the format implied by its extension.
func Write(path string, snap *Snapshot) error {
	switch FormatForPath(path) {
	case FormatTOML:
		return utils.SaveTOMLFile(snap, path)
	case FormatMsgpack:
		return utils.SaveMsgpackFile(snap, path)
	default:
		return fmt.Errorf("unable to detect format for file %s", path)
	}
}

// Decode reads a TOML snapshot from a string.
func Decode(data string) (*Snapshot, error) {
	snap := &Snapshot{}
	if _, err := toml.Decode(data, snap); err != nil {
		return nil, err
	}
	return snap, nil
}
