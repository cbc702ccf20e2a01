package rank_test

import (
	"testing"

	"github.com/bastiangx/typeahead/pkg/rank"
	"github.com/bastiangx/typeahead/pkg/store"
	"github.com/stretchr/testify/assert"
)

func traffic(n int) *int { return &n }

func streamNames(streams []rank.Stream) []string {
	names := make([]string, len(streams))
	for i, s := range streams {
		names[i] = s.Name
	}
	return names
}

// streamEngine returns an engine whose directory knows streams and marks
// the ones in inactive as inactive.
func streamEngine(streams []rank.Stream, inactive ...int) *rank.Engine {
	s := store.New()
	for _, st := range streams {
		s.AddStream(st)
	}
	for _, id := range inactive {
		s.SetActive(id, false)
	}
	return rank.NewEngine(s.Signals())
}

func TestSortStreams(t *testing.T) {
	tests := []struct {
		name     string
		streams  []rank.Stream
		inactive []int
		query    string
		want     []string
	}{
		{
			name: "pinned, active, traffic and name",
			streams: []rank.Stream{
				{StreamID: 101, Name: "Dev", WeeklyTraffic: traffic(0), Subscribed: true},
				{StreamID: 102, Name: "Docs", WeeklyTraffic: traffic(100), Subscribed: true},
				{StreamID: 103, Name: "Derp", WeeklyTraffic: traffic(0), Subscribed: true},
				{StreamID: 104, Name: "Denmark", PinToTop: true, WeeklyTraffic: traffic(100), Subscribed: true},
				{StreamID: 105, Name: "dead", WeeklyTraffic: traffic(0), Subscribed: true},
			},
			inactive: []int{105},
			query:    "d",
			want:     []string{"Denmark", "Docs", "Derp", "Dev", "dead"},
		},
		{
			name: "description match",
			streams: []rank.Stream{
				{StreamID: 201, Name: "Dev", Description: "development help", Subscribed: true},
				{StreamID: 202, Name: "Docs", Description: "writing docs", Subscribed: true},
				{StreamID: 203, Name: "Derp", Description: "derping around", Subscribed: true},
				{StreamID: 204, Name: "Denmark", Description: "visiting Denmark", Subscribed: true},
				{StreamID: 205, Name: "dead", Description: "dead stream", Subscribed: true},
			},
			inactive: []int{205},
			query:    "wr",
			want:     []string{"Docs", "Denmark", "Derp", "Dev", "dead"},
		},
		{
			name: "subscribed and unsubscribed",
			streams: []rank.Stream{
				{StreamID: 301, Name: "Dev", Description: "Some devs", Subscribed: true},
				{StreamID: 302, Name: "East", Description: "Developing east", Subscribed: true},
				{StreamID: 303, Name: "New", Description: "No match", Subscribed: true},
				{StreamID: 304, Name: "Derp", Description: "Always Derping"},
				{StreamID: 305, Name: "Ether", Description: "Destroying ether"},
				{StreamID: 306, Name: "Mew", Description: "Cat mews"},
			},
			query: "d",
			want:  []string{"Dev", "Derp", "East", "Ether", "New", "Mew"},
		},
		{
			name: "unknown traffic sorts after known",
			streams: []rank.Stream{
				{StreamID: 401, Name: "Alpha"},
				{StreamID: 402, Name: "Beta", WeeklyTraffic: traffic(0)},
				{StreamID: 403, Name: "Gamma", WeeklyTraffic: traffic(7)},
			},
			query: "",
			want:  []string{"Gamma", "Beta", "Alpha"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := streamEngine(tt.streams, tt.inactive...)
			assert.Equal(t, tt.want, streamNames(e.SortStreams(tt.streams, tt.query)))
		})
	}
}

func TestSortStreamsWithoutDirectory(t *testing.T) {
	// Without a directory every stream counts as active.
	e := rank.NewEngine(rank.Signals{})
	streams := []rank.Stream{
		{StreamID: 1, Name: "dead"},
		{StreamID: 2, Name: "Derp"},
	}
	assert.Equal(t, []string{"dead", "Derp"}, streamNames(e.SortStreams(streams, "d")))
}
