// Package render turns ranked candidates into the records a typeahead list
// template consumes. Renderers are pure and never touch the candidates.
package render

import (
	"strings"
	"unicode/utf8"

	"github.com/bastiangx/typeahead/pkg/rank"
)

// DefaultDescriptionLimit is the number of runes of a stream description
// shown before it is cut off.
const DefaultDescriptionLimit = 35

const ellipsis = "..."

// Item is the presentation record for one typeahead row.
type Item struct {
	Primary      string `msgpack:"p"`
	Secondary    string `msgpack:"s,omitempty"`
	HasSecondary bool   `msgpack:"hs"`
	ImgSrc       string `msgpack:"img,omitempty"`
	HasImage     bool   `msgpack:"hi"`
	EmojiCode    string `msgpack:"ec,omitempty"`
	IsEmoji      bool   `msgpack:"ie,omitempty"`
	IsPerson     bool   `msgpack:"ip,omitempty"`
}

// Emoji is an emoji candidate. Code is set for code point emoji and URL for
// custom realm emoji.
type Emoji struct {
	Name string `msgpack:"name" toml:"name"`
	Code string `msgpack:"code,omitempty" toml:"code,omitempty"`
	URL  string `msgpack:"url,omitempty" toml:"url,omitempty"`
}

// RealmEmoji reports whether an emoji name refers to an active custom emoji.
type RealmEmoji interface {
	IsRealmEmoji(name string) bool
}

// Renderer renders typeahead items under a fixed viewer policy.
type Renderer struct {
	Emails           EmailPolicy
	RealmEmoji       RealmEmoji
	DescriptionLimit int
}

// NewRenderer returns a Renderer with the default description limit.
func NewRenderer(emails EmailPolicy, realmEmoji RealmEmoji) *Renderer {
	return &Renderer{
		Emails:           emails,
		RealmEmoji:       realmEmoji,
		DescriptionLimit: DefaultDescriptionLimit,
	}
}

func finish(item Item) Item {
	item.HasSecondary = item.Secondary != ""
	item.HasImage = item.ImgSrc != ""
	return item
}

// Person renders a recipient. Broadcast mentions and people with special
// item text show only that text.
func (r *Renderer) Person(recipient rank.Recipient) Item {
	var special, email string
	switch v := recipient.(type) {
	case rank.Broadcast:
		special = v.SpecialItemText
	case *rank.Broadcast:
		special = v.SpecialItemText
	case rank.Person:
		special, email = v.SpecialItemText, v.Email
	case *rank.Person:
		special, email = v.SpecialItemText, v.Email
	}

	if special != "" {
		return finish(Item{Primary: special, IsPerson: true})
	}

	item := Item{Primary: recipient.DisplayName(), IsPerson: true}
	if r.Emails != nil && r.Emails.ShowEmail() {
		item.Secondary = email
	}
	return finish(item)
}

// Stream renders a stream with its description cut to the configured limit.
func (r *Renderer) Stream(s rank.Stream) Item {
	return finish(Item{
		Primary:   s.Name,
		Secondary: truncate(s.Description, r.limit()),
	})
}

// Emoji renders an emoji, showing the image of custom emoji and the code
// point otherwise.
func (r *Renderer) Emoji(e Emoji) Item {
	item := Item{
		Primary: strings.ReplaceAll(e.Name, "_", " "),
		IsEmoji: true,
	}
	if r.RealmEmoji != nil && r.RealmEmoji.IsRealmEmoji(e.Name) {
		item.ImgSrc = e.URL
	} else {
		item.EmojiCode = e.Code
	}
	return finish(item)
}

func (r *Renderer) limit() int {
	if r.DescriptionLimit <= 0 {
		return DefaultDescriptionLimit
	}
	return r.DescriptionLimit
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + ellipsis
}
