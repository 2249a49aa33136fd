// Package events distributes tray icon click events to application code.
//
// A single process-wide Bus receives events from every hidden tray window.
// Publishing never blocks the window thread: when the queue is full the oldest
// event is discarded to make room.
package events

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/mosiko1234/trayicon/internal/dpi"
)

// ClickType identifies the mouse action that produced an event.
type ClickType int

const (
	ClickLeft ClickType = iota
	ClickRight
	ClickDouble
)

func (c ClickType) String() string {
	switch c {
	case ClickLeft:
		return "left"
	case ClickRight:
		return "right"
	case ClickDouble:
		return "double"
	default:
		return fmt.Sprintf("ClickType(%d)", int(c))
	}
}

// TrayIconEvent describes one click on a tray icon.
type TrayIconEvent struct {
	// ID is the id supplied when the tray icon was created.
	ID string

	// Position is the cursor position in physical pixels.
	Position dpi.PhysicalPosition

	// IconRect is the icon's bounding rectangle in physical pixels. It is
	// zero when the shell could not report it.
	IconRect dpi.Rect

	ClickType ClickType
}

// DefaultCapacity is the queue size of the default bus.
const DefaultCapacity = 256

// Bus is a bounded multi-producer event queue.
type Bus struct {
	mu      sync.Mutex
	queue   chan TrayIconEvent
	handler atomic.Pointer[func(TrayIconEvent)]
	dropped atomic.Uint64
}

// NewBus creates a bus holding at most capacity undelivered events.
func NewBus(capacity int) *Bus {
	if capacity < 1 {
		capacity = 1
	}
	return &Bus{queue: make(chan TrayIconEvent, capacity)}
}

// Send publishes ev. If a handler is installed it is called synchronously on
// the sender's goroutine instead of queueing the event.
func (b *Bus) Send(ev TrayIconEvent) {
	if h := b.handler.Load(); h != nil {
		(*h)(ev)
		return
	}

	select {
	case b.queue <- ev:
		return
	default:
	}

	// Full: evict the oldest entry until ev fits. Evictions are serialized.
	b.mu.Lock()
	defer b.mu.Unlock()
	for {
		select {
		case b.queue <- ev:
			return
		default:
		}
		select {
		case <-b.queue:
			b.dropped.Add(1)
		default:
		}
	}
}

// Receiver returns the channel events are delivered on.
func (b *Bus) Receiver() <-chan TrayIconEvent {
	return b.queue
}

// TryRecv returns the next queued event without blocking.
func (b *Bus) TryRecv() (TrayIconEvent, bool) {
	select {
	case ev := <-b.queue:
		return ev, true
	default:
		return TrayIconEvent{}, false
	}
}

// SetEventHandler routes subsequent events to fn instead of the queue. A nil
// fn restores queueing.
func (b *Bus) SetEventHandler(fn func(TrayIconEvent)) {
	if fn == nil {
		b.handler.Store(nil)
		return
	}
	b.handler.Store(&fn)
}

// Dropped returns how many events were evicted because the queue was full.
func (b *Bus) Dropped() uint64 {
	return b.dropped.Load()
}

var (
	defaultBus   = NewBus(DefaultCapacity)
	defaultBusMu sync.RWMutex
)

// Default returns the process-wide bus.
func Default() *Bus {
	defaultBusMu.RLock()
	defer defaultBusMu.RUnlock()
	return defaultBus
}

// Configure replaces the process-wide bus with one of the given capacity.
// It is meant to be called once at startup, before any tray icon exists.
func Configure(capacity int) {
	defaultBusMu.Lock()
	defer defaultBusMu.Unlock()
	defaultBus = NewBus(capacity)
}

// Send publishes ev on the process-wide bus.
func Send(ev TrayIconEvent) { Default().Send(ev) }

// Receiver returns the process-wide event channel.
func Receiver() <-chan TrayIconEvent { return Default().Receiver() }

// TryRecv polls the process-wide bus.
func TryRecv() (TrayIconEvent, bool) { return Default().TryRecv() }

// SetEventHandler installs fn on the process-wide bus.
func SetEventHandler(fn func(TrayIconEvent)) { Default().SetEventHandler(fn) }
