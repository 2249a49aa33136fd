package tray

import (
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
)

// mailbox moves ownership of values from caller goroutines to a hidden
// window's thread. A value is parked under a token, the token travels as a
// message parameter, and whoever takes the token first owns the value. A
// token can be taken at most once.
type mailbox struct {
	seq   atomic.Uintptr
	slots *xsync.MapOf[uintptr, any]
}

func newMailbox() *mailbox {
	return &mailbox{slots: xsync.NewMapOf[uintptr, any]()}
}

// put parks v and returns its token. Tokens are never zero.
func (m *mailbox) put(v any) uintptr {
	token := m.seq.Add(1)
	m.slots.Store(token, v)
	return token
}

// take removes and returns the value parked under token.
func (m *mailbox) take(token uintptr) (any, bool) {
	if token == 0 {
		return nil, false
	}
	return m.slots.LoadAndDelete(token)
}

// drain takes every parked value and hands it to fn. It returns the number
// of values reclaimed.
func (m *mailbox) drain(fn func(any)) int {
	n := 0
	m.slots.Range(func(token uintptr, _ any) bool {
		if v, ok := m.slots.LoadAndDelete(token); ok {
			fn(v)
			n++
		}
		return true
	})
	return n
}

func (m *mailbox) pending() int {
	return m.slots.Size()
}
