// Package event provides the in-process pub/sub bus the shell uses to
// fan namespace and shortcut changes out to the control plane, the
// WebSocket feed, and metrics, built on watermill's gochannel.
package event

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/bytedance/sonic"
)

// Type identifies what happened.
type Type string

const (
	NamespaceSet     Type = "namespace.set"
	NamespaceDeleted Type = "namespace.deleted"
	NamespaceDenied  Type = "namespace.denied"
	ShortcutCreated  Type = "shortcut.created"
	ShortcutRemoved  Type = "shortcut.removed"
	ShortcutInvoked  Type = "shortcut.invoked"
	AICompletion     Type = "ai.completion"
	UINotify         Type = "ui.notify"
)

// Event is one published occurrence.
type Event struct {
	Type Type `json:"type"`
	Data any  `json:"data"`
}

// Subscriber receives events.
type Subscriber func(event Event)

type entry struct {
	id uint64
	fn Subscriber
}

// Bus fans events out to typed and catch-all subscribers. The
// gochannel pub/sub carries the transport; subscriber entries keep the
// direct-call path that preserves the typed Data payload.
type Bus struct {
	mu sync.RWMutex

	pubsub *gochannel.GoChannel

	subscribers map[Type][]entry
	global      []entry

	nextID uint64
	closed bool
}

// New creates a bus.
func New() *Bus {
	return &Bus{
		pubsub: gochannel.NewGoChannel(
			gochannel.Config{
				OutputChannelBuffer: 100,
				Persistent:          false,
			},
			watermill.NopLogger{},
		),
		subscribers: make(map[Type][]entry),
	}
}

// Subscribe registers fn for one event type and returns an
// unsubscribe function.
func (b *Bus) Subscribe(t Type, fn Subscriber) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return func() {}
	}
	id := atomic.AddUint64(&b.nextID, 1)
	b.subscribers[t] = append(b.subscribers[t], entry{id: id, fn: fn})
	return func() { b.unsubscribe(t, id) }
}

// SubscribeAll registers fn for every event type.
func (b *Bus) SubscribeAll(fn Subscriber) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return func() {}
	}
	id := atomic.AddUint64(&b.nextID, 1)
	b.global = append(b.global, entry{id: id, fn: fn})
	return func() { b.unsubscribeGlobal(id) }
}

func (b *Bus) unsubscribe(t Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.subscribers[t]
	for i, e := range subs {
		if e.id == id {
			b.subscribers[t] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
}

func (b *Bus) unsubscribeGlobal(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, e := range b.global {
		if e.id == id {
			b.global = append(b.global[:i], b.global[i+1:]...)
			break
		}
	}
}

func (b *Bus) collect(t Type) []Subscriber {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil
	}
	subs := make([]Subscriber, 0, len(b.subscribers[t])+len(b.global))
	for _, e := range b.subscribers[t] {
		subs = append(subs, e.fn)
	}
	for _, e := range b.global {
		subs = append(subs, e.fn)
	}
	return subs
}

// Publish delivers asynchronously; each subscriber runs in its own
// goroutine so a slow consumer never blocks the kernel.
func (b *Bus) Publish(event Event) {
	b.forward(event)
	for _, fn := range b.collect(event.Type) {
		go fn(event)
	}
}

// PublishSync delivers in the caller's goroutine before returning.
func (b *Bus) PublishSync(event Event) {
	b.forward(event)
	for _, fn := range b.collect(event.Type) {
		fn(event)
	}
}

// forward mirrors the event onto the gochannel topic, the raw-message
// transport Stream consumers read.
func (b *Bus) forward(event Event) {
	b.mu.RLock()
	closed := b.closed
	b.mu.RUnlock()
	if closed {
		return
	}
	payload, err := sonic.Marshal(event)
	if err != nil {
		return
	}
	_ = b.pubsub.Publish(string(event.Type), message.NewMessage(watermill.NewUUID(), payload))
}

// Stream subscribes to the raw message feed for one event type. The
// channel closes when ctx is cancelled or the bus shuts down. Messages
// carry the JSON-encoded Event as payload.
func (b *Bus) Stream(ctx context.Context, t Type) (<-chan *message.Message, error) {
	return b.pubsub.Subscribe(ctx, string(t))
}

// Close stops delivery. Idempotent.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	return b.pubsub.Close()
}
