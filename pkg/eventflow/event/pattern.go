package event

import (
	"context"
	"fmt"
	"regexp"

	"github.com/google/uuid"
)

// Payload keys used when a pattern subscription forwards a match as an
// event.
const (
	// PayloadSessionID carries the terminal session the text came from.
	PayloadSessionID = "session_id"

	// PayloadText carries the full text that was matched.
	PayloadText = "text"

	// PayloadGroups carries the captured groups ([]string).
	PayloadGroups = "groups"
)

// PatternSubscription binds a compiled regexp to a handler. The handle
// returned by SubscribeToPattern identifies the subscription for
// UnsubscribePattern.
type PatternSubscription struct {
	id        string
	pattern   *regexp.Regexp
	handler   PatternHandler
	eventName string // optional forward event
}

// Pattern returns the subscription's regexp source.
func (s *PatternSubscription) Pattern() string {
	return s.pattern.String()
}

// EventName returns the forward event name, or "" when the subscription
// only invokes its handler.
func (s *PatternSubscription) EventName() string {
	return s.eventName
}

// PatternOption configures a pattern subscription.
type PatternOption func(*PatternSubscription)

// WithForwardEvent makes every match additionally trigger the named event
// with a payload of session id, text, and captured groups.
func WithForwardEvent(eventName string) PatternOption {
	return func(s *PatternSubscription) {
		s.eventName = eventName
	}
}

// SubscribeToPattern compiles expr and registers the handler against it.
// Matching is a partial search anywhere in the text, not a full-string
// match. Returns an error only when expr does not compile.
func (b *Bus) SubscribeToPattern(expr string, handler PatternHandler, opts ...PatternOption) (*PatternSubscription, error) {
	pattern, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", expr, err)
	}

	sub := &PatternSubscription{
		id:      uuid.NewString(),
		pattern: pattern,
		handler: handler,
	}
	for _, opt := range opts {
		opt(sub)
	}

	b.patternMu.Lock()
	b.patterns = append(b.patterns, sub)
	b.patternMu.Unlock()

	return sub, nil
}

// UnsubscribePattern removes a pattern subscription. No-op for nil or
// already-removed handles.
func (b *Bus) UnsubscribePattern(sub *PatternSubscription) {
	if sub == nil {
		return
	}

	b.patternMu.Lock()
	defer b.patternMu.Unlock()

	for i, existing := range b.patterns {
		if existing.id == sub.id {
			b.patterns = append(b.patterns[:i:i], b.patterns[i+1:]...)
			return
		}
	}
}

// sessionIDKey carries the terminal session id on the context handed to
// pattern handlers.
const sessionIDKey contextKey = "session_id"

// SessionIDFromContext returns the session id ProcessTerminalOutput put on
// the context, or "" outside of terminal-output dispatch.
func SessionIDFromContext(ctx context.Context) string {
	if v := ctx.Value(sessionIDKey); v != nil {
		return v.(string)
	}
	return ""
}

// ProcessTerminalOutput evaluates text against every pattern subscription.
// Each matching subscription's handler is invoked with (text, match); a
// subscription that carries a forward event name additionally triggers
// that event synchronously with the session id, text, and captured groups.
// One subscription not matching (or failing) never prevents evaluation of
// the others.
func (b *Bus) ProcessTerminalOutput(ctx context.Context, sessionID, text string) {
	b.patternMu.RLock()
	subs := make([]*PatternSubscription, len(b.patterns))
	copy(subs, b.patterns)
	b.patternMu.RUnlock()

	ctx = context.WithValue(ctx, sessionIDKey, sessionID)

	for _, sub := range subs {
		match := sub.pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}

		b.metrics.RecordPatternMatch(ctx, sub.pattern.String())

		if err := b.invokePattern(ctx, sub, text, match); err != nil {
			b.logHandlerError(sub.eventName, KindOutput, err)
		}

		if sub.eventName != "" {
			payload := Payload{
				PayloadSessionID: sessionID,
				PayloadText:      text,
				PayloadGroups:    append([]string(nil), match[1:]...),
			}
			b.Trigger(ctx, sub.eventName, payload,
				WithSource("terminal:"+sessionID), Immediate())
		}
	}
}

// invokePattern runs a pattern handler with panic recovery.
func (b *Bus) invokePattern(ctx context.Context, sub *PatternSubscription, text string, match []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return sub.handler(ctx, text, match)
}
