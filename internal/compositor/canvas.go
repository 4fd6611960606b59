package compositor

import "github.com/probmap/layers-backend-go/internal/render"

// Handle is an opaque reference to an overlay attached to the map. A
// handle is owned by exactly one layer through the compositor and never
// outlives it.
type Handle int64

// Canvas is the narrow interface to the host map widget. Later
// attachments stack visually above earlier ones.
type Canvas interface {
	Attach(o *render.Overlay) Handle
	Detach(h Handle)
}

// MemoryCanvas is the in-process canvas implementation. It keeps the
// attached overlays in paint order so the HTTP layer can serve them and
// tests can assert stacking.
type MemoryCanvas struct {
	next     Handle
	order    []Handle
	overlays map[Handle]*render.Overlay
}

// NewMemoryCanvas returns an empty canvas
func NewMemoryCanvas() *MemoryCanvas {
	return &MemoryCanvas{overlays: make(map[Handle]*render.Overlay)}
}

// Attach implements Canvas
func (c *MemoryCanvas) Attach(o *render.Overlay) Handle {
	c.next++
	h := c.next
	c.order = append(c.order, h)
	c.overlays[h] = o
	return h
}

// Detach implements Canvas
func (c *MemoryCanvas) Detach(h Handle) {
	if _, ok := c.overlays[h]; !ok {
		return
	}
	delete(c.overlays, h)
	for i, other := range c.order {
		if other == h {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Stack returns the attached overlays bottom to top
func (c *MemoryCanvas) Stack() []*render.Overlay {
	out := make([]*render.Overlay, 0, len(c.order))
	for _, h := range c.order {
		out = append(out, c.overlays[h])
	}
	return out
}

// Top returns the topmost overlay, or nil when the canvas is empty
func (c *MemoryCanvas) Top() *render.Overlay {
	if len(c.order) == 0 {
		return nil
	}
	return c.overlays[c.order[len(c.order)-1]]
}

// Count returns the number of attached overlays
func (c *MemoryCanvas) Count() int { return len(c.order) }
