package pointer

import "sync"

// Channel identifies one document-level listener stream.
type Channel int

const (
	MouseMove Channel = iota
	MouseUp
	TouchMove
	TouchEnd
	numChannels
)

func (c Channel) String() string {
	switch c {
	case MouseMove:
		return "mousemove"
	case MouseUp:
		return "mouseup"
	case TouchMove:
		return "touchmove"
	case TouchEnd:
		return "touchend"
	}
	return "unknown"
}

// Listener receives events delivered on a channel.
type Listener func(Event)

type listener struct {
	id uint64
	fn Listener
}

// Bus is a registry of document-level pointer listeners. It is safe for
// concurrent use; listeners run without the bus lock held, so they may
// register or remove listeners themselves.
type Bus struct {
	mu     sync.Mutex
	nextID uint64
	chans  [numChannels][]listener
}

// Handle removes a registered listener.
type Handle struct {
	bus *Bus
	ch  Channel
	id  uint64
}

// On registers fn on channel ch.
func (b *Bus) On(ch Channel, fn Listener) Handle {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.chans[ch] = append(b.chans[ch], listener{id: b.nextID, fn: fn})
	return Handle{bus: b, ch: ch, id: b.nextID}
}

// Remove unregisters the listener. Removing twice is a no-op.
func (h Handle) Remove() {
	if h.bus == nil {
		return
	}
	b := h.bus
	b.mu.Lock()
	defer b.mu.Unlock()
	s := b.chans[h.ch]
	for i := range s {
		if s[i].id == h.id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = listener{}
			b.chans[h.ch] = s[:len(s)-1]
			return
		}
	}
}

// Dispatch delivers ev to every listener on its channel in registration
// order and returns how many ran. Down events have no channel.
func (b *Bus) Dispatch(ev Event) int {
	ch, ok := ev.Channel()
	if !ok {
		return 0
	}
	b.mu.Lock()
	ls := append([]listener(nil), b.chans[ch]...)
	b.mu.Unlock()

	for _, l := range ls {
		l.fn(ev)
	}
	return len(ls)
}

// Len returns the number of listeners on ch.
func (b *Bus) Len(ch Channel) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.chans[ch])
}

// Total returns the number of listeners across all channels.
func (b *Bus) Total() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, s := range b.chans {
		n += len(s)
	}
	return n
}
