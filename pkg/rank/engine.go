package rank

import "github.com/charmbracelet/log"

// Engine ranks candidates using the signals it was built with.
// It keeps no state between calls.
type Engine struct {
	sig Signals
}

// NewEngine returns an Engine reading from sig.
func NewEngine(sig Signals) *Engine {
	return &Engine{sig: sig}
}

// Scope resolves ctx against the stream directory. A stream name that is
// empty or unknown yields a scope without stream context.
func (e *Engine) Scope(ctx Context) Scope {
	if ctx.Stream == "" || e.sig.Streams == nil {
		return Scope{Topic: ctx.Topic}
	}
	stream, ok := e.sig.Streams.StreamByName(ctx.Stream)
	if !ok {
		log.Debugf("Unknown stream %q, ranking without stream context", ctx.Stream)
		return Scope{Topic: ctx.Topic}
	}
	return Scope{StreamID: stream.StreamID, Topic: ctx.Topic, InStream: true}
}

func (e *Engine) isSubscribed(streamID, userID int) bool {
	return e.sig.Subscriptions != nil && e.sig.Subscriptions.IsSubscribed(streamID, userID)
}

func (e *Engine) isPartner(userID int) bool {
	return e.sig.Conversations != nil && e.sig.Conversations.IsPartner(userID)
}

func (e *Engine) recipientCount(userID int) int {
	if e.sig.RecipientCounts == nil {
		return 0
	}
	return e.sig.RecipientCounts.RecipientCount(userID)
}

func (e *Engine) topicMessageID(scope Scope, userID int) optional {
	if e.sig.RecentSenders == nil {
		return optional{}
	}
	id, ok := e.sig.RecentSenders.TopicMessageID(scope.StreamID, scope.Topic, userID)
	return optional{value: id, ok: ok}
}

func (e *Engine) streamMessageID(scope Scope, userID int) optional {
	if e.sig.RecentSenders == nil {
		return optional{}
	}
	id, ok := e.sig.RecentSenders.StreamMessageID(scope.StreamID, userID)
	return optional{value: id, ok: ok}
}

func (e *Engine) isActive(streamID int) bool {
	return e.sig.Streams == nil || e.sig.Streams.IsActive(streamID)
}

func (e *Engine) priority(language string) optional {
	if e.sig.Languages == nil {
		return optional{}
	}
	p, ok := e.sig.Languages.Priority(language)
	return optional{value: p, ok: ok}
}
