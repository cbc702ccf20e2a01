package server

import (
	"errors"
	"fmt"
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/typeahead/internal/utils"
	"github.com/bastiangx/typeahead/pkg/config"
	"github.com/bastiangx/typeahead/pkg/match"
	"github.com/bastiangx/typeahead/pkg/rank"
	"github.com/bastiangx/typeahead/pkg/render"
	"github.com/bastiangx/typeahead/pkg/store"
)

// candidate is a ranked value before rendering.
type candidate struct {
	key  string
	item render.Item
}

// Ranking is the answer to a rank request.
type Ranking struct {
	Items []RankedItem
	// Highlight matches the part of each primary text the query matched.
	Highlight *regexp.Regexp
}

// Rank answers request against st under cfg. It is what the server runs
// for every rank request.
func Rank(st *store.Store, cfg *config.Config, request Request) (*Ranking, error) {
	if request.Kind == "" {
		return nil, errors.New("missing 'k' parameter")
	}
	if maxQuery := cfg.Server.MaxQuery; maxQuery > 0 && utf8.RuneCountInString(request.Query) > maxQuery {
		return nil, fmt.Errorf("query exceeds maximum length of %d characters", maxQuery)
	}
	limit := utils.ClampLimit(request.Limit, cfg.Server.DefaultLimit, cfg.Server.MaxLimit)

	results, highlightQuery, err := rankKind(st, cfg, request)
	if err != nil {
		return nil, err
	}
	if len(results) > limit {
		results = results[:limit]
	}

	re := match.BuildHighlightRegex(highlightQuery)
	ranks := utils.CreateRankList(len(results))
	items := make([]RankedItem, len(results))
	for i, c := range results {
		items[i] = RankedItem{
			Key:         c.key,
			Item:        c.item,
			Highlighted: match.HighlightWithEscaping(re, c.item.Primary),
			Rank:        ranks[i],
		}
	}
	return &Ranking{Items: items, Highlight: re}, nil
}

func (s *Server) handleRank(request Request) {
	start := time.Now()
	ranking, err := Rank(s.source.Store(), s.config, request)
	if err != nil {
		s.sendError(request.ID, err.Error(), 400)
		return
	}
	s.sendResponse(RankResponse{
		ID:        request.ID,
		Kind:      request.Kind,
		Items:     ranking.Items,
		Count:     len(ranking.Items),
		TimeTaken: time.Since(start).Microseconds(),
	})
}

// rankKind orders every candidate of the requested kind and returns them
// rendered, along with the query to highlight.
func rankKind(st *store.Store, cfg *config.Config, request Request) ([]candidate, string, error) {
	engine := rank.NewEngine(st.Signals())
	renderer := render.NewRenderer(cfg.EmailPolicy(), st)
	renderer.DescriptionLimit = cfg.Render.DescriptionLimit
	ctx := rank.Context{Stream: request.Stream, Topic: request.Topic}

	switch request.Kind {
	case KindRecipients:
		return people(renderer, engine.SortRecipients(st.Users(), request.Query, ctx)), request.Query, nil

	case KindMentions:
		users := append(rank.BroadcastMentions(), st.Users()...)
		return people(renderer, engine.SortRecipients(users, request.Query, ctx)), request.Query, nil

	case KindRecipientbox:
		sorted := engine.SortRecipientboxTypeahead(request.Query, st.Users(), request.Stream)
		return people(renderer, sorted), rank.LastRecipient(request.Query), nil

	case KindStreams:
		sorted := engine.SortStreams(st.Streams(), request.Query)
		out := make([]candidate, len(sorted))
		for i, stream := range sorted {
			out[i] = candidate{key: stream.Name, item: renderer.Stream(stream)}
		}
		return out, request.Query, nil

	case KindLanguages:
		sorted := engine.SortLanguages(st.Languages(), request.Query)
		out := make([]candidate, len(sorted))
		for i, lang := range sorted {
			out[i] = candidate{key: lang, item: render.Item{Primary: lang}}
		}
		return out, request.Query, nil

	case KindCommands:
		sorted := rank.SortSlashCommands(st.Commands(), request.Query)
		out := make([]candidate, len(sorted))
		for i, c := range sorted {
			out[i] = candidate{key: c.Name, item: render.Item{Primary: "/" + c.Name}}
		}
		return out, "/" + request.Query, nil

	case KindEmoji:
		found := st.EmojiWithPrefix(match.Fold(request.Query))
		out := make([]candidate, len(found))
		for i, e := range found {
			out[i] = candidate{key: e.Name, item: renderer.Emoji(e)}
		}
		return out, request.Query, nil
	}
	return nil, "", fmt.Errorf("unknown kind: %s", request.Kind)
}

func people(renderer *render.Renderer, sorted []rank.Recipient) []candidate {
	out := make([]candidate, len(sorted))
	for i, r := range sorted {
		out[i] = candidate{key: r.Address(), item: renderer.Person(r)}
	}
	return out
}
