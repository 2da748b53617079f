package pointer

import "sync"

// Capture owns the move and end streams of both modalities for the
// duration of one gesture.
type Capture struct {
	once    sync.Once
	handles [numChannels]Handle
}

// Acquire attaches onMove to both move channels and onEnd to both end
// channels, regardless of which modality started the gesture.
func Acquire(b *Bus, onMove, onEnd Listener) *Capture {
	c := &Capture{}
	c.handles[MouseMove] = b.On(MouseMove, onMove)
	c.handles[MouseUp] = b.On(MouseUp, onEnd)
	c.handles[TouchMove] = b.On(TouchMove, onMove)
	c.handles[TouchEnd] = b.On(TouchEnd, onEnd)
	return c
}

// Release detaches all four listeners. It is safe to call more than once
// and on a nil Capture.
func (c *Capture) Release() {
	if c == nil {
		return
	}
	c.once.Do(func() {
		for _, h := range c.handles {
			h.Remove()
		}
	})
}
