/*
Package server implements msgpack IPC for typeahead ranking.

Clients write msgpack maps to stdin and read one msgpack map per request
from stdout. Requests are processed synchronously and in order.

# IPC

On start the server writes

	{"status": "ready"}

A rank request names the kind of typeahead, the query and optionally the
compose context:

	{"id": "r1", "k": "recipients", "q": "bo", "s": "Dev", "t": "Dev Topic", "l": 5}

The response lists the ranked candidates, best first. Each one carries a
key identifying the candidate, the rendered row, the primary text with the
match highlighted and its 1-based rank:

	{"id": "r1", "k": "recipients", "i": [{"key": "b_user_2@zulip.net", "d": {...}, "h": "<strong>Bo</strong>b 2", "r": 1}], "c": 1, "t": 85}

The time "t" is in microseconds.

# Kinds

	recipients    people, for private message and stream recipients
	mentions      people plus the broadcast mentions
	recipientbox  people, querying the last entry of a comma separated field
	streams       streams
	languages     code block languages
	commands      slash commands
	emoji         emoji whose name starts with the query

# Ops

The "op" field selects the operation, "rank" being the default:

	{"id": "h1", "op": "health"}
	{"id": "s1", "op": "stats"}
	{"id": "x1", "op": "reload"}
	{"id": "c1", "op": "config", "max_limit": 32}

Failed requests are answered with an error and the server keeps serving:

	{"id": "r2", "e": "unknown kind: people", "c": 400}
*/
package server

import "github.com/bastiangx/typeahead/pkg/render"

// Ops
const (
	OpRank   = "rank"
	OpHealth = "health"
	OpStats  = "stats"
	OpReload = "reload"
	OpConfig = "config"
)

// Kinds
const (
	KindRecipients   = "recipients"
	KindMentions     = "mentions"
	KindRecipientbox = "recipientbox"
	KindStreams      = "streams"
	KindLanguages    = "languages"
	KindCommands     = "commands"
	KindEmoji        = "emoji"
)

// Request is any message a client sends. Fields not used by the op are
// ignored.
type Request struct {
	ID     string `msgpack:"id"`
	Op     string `msgpack:"op,omitempty"`
	Kind   string `msgpack:"k,omitempty"`
	Query  string `msgpack:"q,omitempty"`
	Stream string `msgpack:"s,omitempty"`
	Topic  string `msgpack:"t,omitempty"`
	Limit  int    `msgpack:"l,omitempty"`

	// for "config"
	MaxLimit     *int `msgpack:"max_limit,omitempty"`
	DefaultLimit *int `msgpack:"default_limit,omitempty"`
	MaxQuery     *int `msgpack:"max_query,omitempty"`
}

// RankedItem is one ranked candidate.
type RankedItem struct {
	Key         string      `msgpack:"key"`
	Item        render.Item `msgpack:"d"`
	Highlighted string      `msgpack:"h"`
	Rank        uint16      `msgpack:"r"`
}

// RankResponse answers a rank request.
type RankResponse struct {
	ID        string       `msgpack:"id"`
	Kind      string       `msgpack:"k"`
	Items     []RankedItem `msgpack:"i"`
	Count     int          `msgpack:"c"`
	TimeTaken int64        `msgpack:"t"`
}

// StatusResponse answers health, stats, reload and config requests.
type StatusResponse struct {
	ID       string         `msgpack:"id,omitempty"`
	Status   string         `msgpack:"status"`
	Stats    map[string]int `msgpack:"stats,omitempty"`
	Snapshot string         `msgpack:"snapshot,omitempty"`
	LoadedAt int64          `msgpack:"loaded_at,omitempty"`
}

// ErrorResponse holds basic error information for a failed request
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
