package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bastiangx/typeahead/pkg/config"
	"github.com/bastiangx/typeahead/pkg/store"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Source provides the store that requests are ranked against.
type Source interface {
	Store() *store.Store
}

// Reloadable is a Source that can be refreshed from disk, such as a
// snapshot.Reloader.
type Reloadable interface {
	Source
	Reload() error
	Path() string
	LoadedAt() time.Time
}

type staticSource struct {
	s *store.Store
}

func (src staticSource) Store() *store.Store { return src.s }

// StaticSource serves s for the lifetime of the server.
func StaticSource(s *store.Store) Source {
	return staticSource{s: s}
}

// Server handles msgpack IPC for typeahead ranking
type Server struct {
	source     Source
	config     *config.Config
	configPath string
	decoder    *msgpack.Decoder
	encoder    *msgpack.Encoder
	writer     *bufio.Writer
	requests   int
}

// NewServer creates a server using stdin/stdout for IPC.
func NewServer(source Source, cfg *config.Config, configPath string) *Server {
	return NewServerWithIO(source, cfg, configPath, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a server reading requests from r and writing
// responses to w.
func NewServerWithIO(source Source, cfg *config.Config, configPath string, r io.Reader, w io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	writer := bufio.NewWriter(w)
	return &Server{
		source:     source,
		config:     cfg,
		configPath: configPath,
		decoder:    msgpack.NewDecoder(bufio.NewReader(r)),
		encoder:    msgpack.NewEncoder(writer),
		writer:     writer,
	}
}

// Start serves requests until the input is closed.
func (s *Server) Start() error {
	log.Debug("Starting Server.")
	s.sendResponse(StatusResponse{Status: "ready"})

	for {
		raw, err := s.decoder.DecodeRaw()
		if err != nil {
			if errors.Is(err, io.EOF) {
				log.Debugf("Client disconnected after %d requests", s.requests)
				return nil
			}
			log.Errorf("Reading from stdin: %v", err)
			return err
		}
		s.requests++

		var request Request
		if err := msgpack.Unmarshal(raw, &request); err != nil {
			log.Errorf("Unmarshaling request: %v", err)
			s.sendError("", "invalid msgpack request", 400)
			continue
		}
		s.handleRequest(request)
	}
}

func (s *Server) handleRequest(request Request) {
	switch request.Op {
	case "", OpRank:
		s.handleRank(request)
	case OpHealth:
		s.sendResponse(StatusResponse{ID: request.ID, Status: "ok"})
	case OpStats:
		s.sendResponse(StatusResponse{ID: request.ID, Status: "ok", Stats: s.source.Store().Stats()})
	case OpReload:
		s.handleReload(request)
	case OpConfig:
		s.handleConfig(request)
	default:
		s.sendError(request.ID, fmt.Sprintf("unknown op: %s", request.Op), 400)
	}
}

func (s *Server) handleReload(request Request) {
	reloadable, ok := s.source.(Reloadable)
	if !ok {
		s.sendError(request.ID, "snapshot reload is not supported", 501)
		return
	}
	if err := reloadable.Reload(); err != nil {
		s.sendError(request.ID, err.Error(), 500)
		return
	}
	s.sendResponse(StatusResponse{
		ID:       request.ID,
		Status:   "ok",
		Stats:    reloadable.Store().Stats(),
		Snapshot: reloadable.Path(),
		LoadedAt: reloadable.LoadedAt().Unix(),
	})
}

func (s *Server) handleConfig(request Request) {
	for _, v := range []*int{request.MaxLimit, request.DefaultLimit, request.MaxQuery} {
		if v != nil && *v < 1 {
			s.sendError(request.ID, "config values must be positive", 400)
			return
		}
	}

	if s.configPath == "" {
		server := &s.config.Server
		if request.MaxLimit != nil {
			server.MaxLimit = *request.MaxLimit
		}
		if request.DefaultLimit != nil {
			server.DefaultLimit = *request.DefaultLimit
		}
		if request.MaxQuery != nil {
			server.MaxQuery = *request.MaxQuery
		}
		log.Warn("No config file in use, config changes are not persisted")
	} else if err := s.config.Update(s.configPath, request.MaxLimit, request.DefaultLimit, request.MaxQuery); err != nil {
		s.sendError(request.ID, fmt.Sprintf("failed to save config: %v", err), 500)
		return
	}
	s.sendResponse(StatusResponse{ID: request.ID, Status: "ok"})
}

// sendResponse encodes response as one msgpack value and flushes it.
func (s *Server) sendResponse(response any) {
	if err := s.encoder.Encode(response); err != nil {
		log.Errorf("Marshaling response: %v", err)
		return
	}
	if err := s.writer.Flush(); err != nil {
		log.Errorf("Writing response: %v", err)
	}
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	s.sendResponse(ErrorResponse{ID: id, Error: message, Code: code})
}
