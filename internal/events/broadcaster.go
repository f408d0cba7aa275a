// Package events implements the live-update fan-out for the activity feed.
// Delivery is best effort: there is no backlog replay for late subscribers
// and no acknowledgement from connected ones.
package events

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Akshatcodegenics/Issue-tracker/internal/domain"
)

// Kind identifies what happened to an issue.
type Kind string

const (
	KindIssueCreated Kind = "issue-created"
	KindIssueUpdated Kind = "issue-updated"
)

// Event is the payload pushed to subscribers after a mutation.
type Event struct {
	ID        string       `json:"id"`
	Type      Kind         `json:"type"`
	Issue     domain.Issue `json:"issue"`
	Timestamp time.Time    `json:"timestamp"`
}

// Message is one serialized event as handed to a subscriber channel.
type Message struct {
	Kind Kind
	Data []byte
}

// subscriberBuffer bounds how far a slow consumer may fall behind before
// it is disconnected.
const subscriberBuffer = 16

// Broadcaster owns the registry of live subscriber channels. All methods
// are safe for concurrent use.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[chan Message]struct{}
}

// NewBroadcaster creates an empty Broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[chan Message]struct{})}
}

// Subscribe registers a new subscriber and returns its channel. The channel
// is closed when the subscriber is removed, either by Unsubscribe or by
// falling behind during a broadcast.
func (b *Broadcaster) Subscribe() chan Message {
	ch := make(chan Message, subscriberBuffer)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber and closes its channel. Safe to call for
// a channel the broadcaster has already dropped.
func (b *Broadcaster) Unsubscribe(ch chan Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
}

// SubscriberCount reports how many subscribers are currently registered.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Broadcast serializes the event once and delivers it to every subscriber.
// A subscriber whose buffer is full is removed and its channel closed;
// delivery to the others is unaffected.
func (b *Broadcaster) Broadcast(kind Kind, issue domain.Issue) {
	event := Event{
		ID:        uuid.NewString(),
		Type:      kind,
		Issue:     issue,
		Timestamp: time.Now(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("marshal event", "kind", kind, "error", err)
		return
	}

	msg := Message{Kind: kind, Data: data}

	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- msg:
		default:
			delete(b.subs, ch)
			close(ch)
			slog.Warn("dropped slow event subscriber")
		}
	}
}
