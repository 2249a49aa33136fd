package events

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusDeliversInOrder(t *testing.T) {
	bus := NewBus(8)

	bus.Send(TrayIconEvent{ID: "a", ClickType: ClickLeft})
	bus.Send(TrayIconEvent{ID: "b", ClickType: ClickRight})

	ev, ok := bus.TryRecv()
	require.True(t, ok)
	assert.Equal(t, "a", ev.ID)

	ev = <-bus.Receiver()
	assert.Equal(t, "b", ev.ID)
	assert.Equal(t, ClickRight, ev.ClickType)

	_, ok = bus.TryRecv()
	assert.False(t, ok)
}

func TestBusDropsOldestWhenFull(t *testing.T) {
	bus := NewBus(2)

	bus.Send(TrayIconEvent{ID: "1"})
	bus.Send(TrayIconEvent{ID: "2"})
	bus.Send(TrayIconEvent{ID: "3"})

	assert.Equal(t, uint64(1), bus.Dropped())

	first, _ := bus.TryRecv()
	second, _ := bus.TryRecv()
	assert.Equal(t, "2", first.ID)
	assert.Equal(t, "3", second.ID)
}

func TestBusConcurrentSendNeverBlocks(t *testing.T) {
	bus := NewBus(4)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				bus.Send(TrayIconEvent{ID: "x"})
			}
		}()
	}
	wg.Wait()

	assert.Len(t, bus.Receiver(), 4)
	assert.Equal(t, uint64(800-4), bus.Dropped())
}

func TestEventHandlerBypassesQueue(t *testing.T) {
	bus := NewBus(4)

	var got []TrayIconEvent
	bus.SetEventHandler(func(ev TrayIconEvent) { got = append(got, ev) })
	bus.Send(TrayIconEvent{ID: "handled", ClickType: ClickDouble})

	require.Len(t, got, 1)
	assert.Equal(t, ClickDouble, got[0].ClickType)
	_, ok := bus.TryRecv()
	assert.False(t, ok)

	bus.SetEventHandler(nil)
	bus.Send(TrayIconEvent{ID: "queued"})
	ev, ok := bus.TryRecv()
	require.True(t, ok)
	assert.Equal(t, "queued", ev.ID)
}

func TestClickTypeString(t *testing.T) {
	assert.Equal(t, "left", ClickLeft.String())
	assert.Equal(t, "right", ClickRight.String())
	assert.Equal(t, "double", ClickDouble.String())
	assert.Equal(t, "ClickType(7)", ClickType(7).String())
}

func TestProcessWideBus(t *testing.T) {
	previous := Default()
	t.Cleanup(func() {
		defaultBusMu.Lock()
		defaultBus = previous
		defaultBusMu.Unlock()
	})

	Configure(2)
	require.NotSame(t, previous, Default())

	Send(TrayIconEvent{ID: "first"})
	ev, ok := TryRecv()
	require.True(t, ok)
	assert.Equal(t, "first", ev.ID)

	Send(TrayIconEvent{ID: "second"})
	assert.Equal(t, "second", (<-Receiver()).ID)

	var handled int
	SetEventHandler(func(TrayIconEvent) { handled++ })
	Send(TrayIconEvent{ID: "third"})
	SetEventHandler(nil)
	assert.Equal(t, 1, handled)
	_, ok = TryRecv()
	assert.False(t, ok)
}
