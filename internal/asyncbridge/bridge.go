// Package asyncbridge implements AsyncBridge: the message-passing
// layer between the main thread and background workers (LSP clients,
// the plugin runtime, PTY readers, SSH channels, filesystem watchers,
// the update checker), per spec §4.10/§5.
//
// Background workers never mutate editor state directly — they post
// typed Messages to the Bridge's inbox, and the main thread drains it
// up to a per-frame budget at the start of each frame (spec §5's frame
// schedule, step 2).
package asyncbridge

import "sync"

// Message is one typed result crossing from a background worker to
// the main thread: an LSP response, a plugin callback result, a PTY
// output chunk, a file-watch event, and so on. Kind identifies which;
// concrete payloads live alongside their producer package and are
// type-asserted by the consumer, the same way Go's stdlib encodes
// heterogeneous channel payloads.
type Message struct {
	RequestID ID
	Kind      string
	Payload   any
}

// ID identifies one outstanding request across its lifetime, from
// issue through cancellation or completion.
type ID uint64

// Bridge is the multi-producer, single-consumer inbox spec §5 names as
// the only cross-thread shared mutable state besides the time source
// and logging sink. Any number of background workers call Post
// concurrently; only the main thread calls Drain.
type Bridge struct {
	mu     sync.Mutex
	inbox  []Message
	nextID ID
}

// New creates an empty Bridge.
func New() *Bridge {
	return &Bridge{}
}

// NextID allocates a fresh request ID for a caller about to dispatch
// background work, so it can match responses before the request is
// even posted. Requests.Begin uses it to key its cancel funcs.
func (b *Bridge) NextID() ID {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	return b.nextID
}

// Post appends msg to the inbox. Safe for concurrent use by any number
// of background workers.
func (b *Bridge) Post(msg Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.inbox = append(b.inbox, msg)
}

// Drain removes and returns up to budget pending messages, oldest
// first, enforcing the frame schedule's per-frame drain budget (spec
// §5) so a flood of background traffic cannot stall a frame. A budget
// of 0 or less drains everything pending. Main-thread only.
func (b *Bridge) Drain(budget int) []Message {
	b.mu.Lock()
	defer b.mu.Unlock()

	if budget <= 0 || budget >= len(b.inbox) {
		drained := b.inbox
		b.inbox = nil
		return drained
	}

	drained := make([]Message, budget)
	copy(drained, b.inbox[:budget])
	b.inbox = b.inbox[budget:]
	return drained
}

// Pending reports how many messages are waiting to be drained.
func (b *Bridge) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.inbox)
}
