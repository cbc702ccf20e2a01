// Package cli is an interactive prompt for trying rankings against a
// snapshot while debugging.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bastiangx/typeahead/internal/logger"
	"github.com/bastiangx/typeahead/pkg/config"
	"github.com/bastiangx/typeahead/pkg/match"
	"github.com/bastiangx/typeahead/pkg/server"
	"github.com/bastiangx/typeahead/pkg/store"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var (
	matchStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75"))
	secondaryStyle = lipgloss.NewStyle().Faint(true)
)

var kinds = []string{
	server.KindRecipients,
	server.KindMentions,
	server.KindRecipientbox,
	server.KindStreams,
	server.KindLanguages,
	server.KindCommands,
	server.KindEmoji,
}

// InputHandler reads queries from stdin and prints their rankings.
//
// Lines starting with ':' are commands:
//
//	:k streams       rank another kind
//	:in Dev/topic    set the compose stream and topic
//	:out             clear the compose context
//	:l 5             change the number of results
type InputHandler struct {
	store     *store.Store
	config    *config.Config
	kind      string
	stream    string
	topic     string
	limit     int
	secondary bool

	in  io.Reader
	out *log.Logger
}

// NewInputHandler creates a handler ranking against st with the CLI
// defaults of cfg.
func NewInputHandler(st *store.Store, cfg *config.Config) *InputHandler {
	return &InputHandler{
		store:     st,
		config:    cfg,
		kind:      cfg.CLI.DefaultKind,
		limit:     cfg.CLI.DefaultLimit,
		secondary: cfg.CLI.ShowSecondary,
		in:        os.Stdin,
		out:       logger.New(""),
	}
}

// Start runs the prompt until stdin is closed.
func (h *InputHandler) Start() error {
	h.out.Print("Typeahead CLI")
	h.out.Printf("kinds: %s", strings.Join(kinds, ", "))
	h.out.Print("type a query and press Enter (Ctrl+C to exit):")

	reader := bufio.NewReader(h.in)
	for {
		h.out.Print(h.prompt())
		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		line = strings.TrimRight(line, "\r\n")
		if strings.HasPrefix(line, ":") {
			h.handleCommand(strings.TrimPrefix(line, ":"))
			continue
		}
		h.handleInput(line)
	}
}

func (h *InputHandler) prompt() string {
	if h.stream == "" {
		return fmt.Sprintf("[%s] > ", h.kind)
	}
	return fmt.Sprintf("[%s #%s>%s] > ", h.kind, h.stream, h.topic)
}

func (h *InputHandler) handleCommand(line string) {
	name, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "k", "kind":
		for _, k := range kinds {
			if k == arg {
				h.kind = k
				return
			}
		}
		log.Errorf("Unknown kind: %q", arg)
	case "in":
		h.stream, h.topic, _ = strings.Cut(arg, "/")
	case "out":
		h.stream, h.topic = "", ""
	case "l", "limit":
		var n int
		if _, err := fmt.Sscanf(arg, "%d", &n); err != nil || n < 1 {
			log.Errorf("Invalid limit: %q", arg)
			return
		}
		h.limit = n
	default:
		log.Errorf("Unknown command: %q", name)
	}
}

func (h *InputHandler) handleInput(query string) {
	start := time.Now()
	ranking, err := server.Rank(h.store, h.config, server.Request{
		Kind:   h.kind,
		Query:  query,
		Stream: h.stream,
		Topic:  h.topic,
		Limit:  h.limit,
	})
	if err != nil {
		log.Error(err)
		return
	}
	log.Debugf("Took [ %v ] for query '%s'", time.Since(start), query)

	if len(ranking.Items) == 0 {
		log.Warnf("Nothing to rank for kind %s", h.kind)
		return
	}
	for _, item := range ranking.Items {
		line := emphasize(item.Item.Primary, ranking)
		if h.secondary && item.Item.HasSecondary {
			line += "  " + secondaryStyle.Render(item.Item.Secondary)
		}
		h.out.Printf("%2d. %s", item.Rank, line)
	}
}

// emphasize styles the matched part of text.
func emphasize(text string, ranking *server.Ranking) string {
	start, end := match.Locate(ranking.Highlight, text)
	if start < 0 {
		return text
	}
	return text[:start] + matchStyle.Render(text[start:end]) + text[end:]
}
