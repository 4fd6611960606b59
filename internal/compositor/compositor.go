// Package compositor owns overlay lifecycle: which layers have an
// attached overlay, in what paint order, and how visibility and the
// global hide-all switch map onto the canvas.
package compositor

import (
	"fmt"
	"log"

	"github.com/probmap/layers-backend-go/internal/models"
	"github.com/probmap/layers-backend-go/internal/render"
)

// Compositor keeps map overlays consistent with layer state. It is the
// single owner of every overlay handle: an overlay exists exactly when
// its layer is visible and hide-all is off.
type Compositor struct {
	canvas   Canvas
	handles  map[int64]Handle
	overlays map[int64]*render.Overlay
	hideAll  bool
}

// New builds a compositor painting onto the given canvas
func New(canvas Canvas) *Compositor {
	return &Compositor{
		canvas:   canvas,
		handles:  make(map[int64]Handle),
		overlays: make(map[int64]*render.Overlay),
	}
}

// Repaint detaches every overlay and repaints the given layers in
// reverse list order, so the layer at index 0 is painted last and ends
// up visually topmost. Hidden layers and, while hide-all is active, all
// layers keep no overlay.
//
// A layer that fails to render is logged and skipped; the rest of the
// stack still paints. The first failure is reported after the pass.
func (c *Compositor) Repaint(layers []*models.Layer) error {
	c.detachAll()
	if c.hideAll {
		return nil
	}

	var firstErr error
	for i := len(layers) - 1; i >= 0; i-- {
		layer := layers[i]
		if !layer.Visible {
			continue
		}
		if err := c.paint(layer); err != nil {
			log.Printf("[Compositor] failed to paint layer %d (%s): %v", layer.ID, layer.Name, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// RefreshColors applies a color-only change (hue or opacity) to one
// layer. Vector overlays are recolored in place through the strategy's
// update path; raster overlays always repaint fully.
func (c *Compositor) RefreshColors(layer *models.Layer, layers []*models.Layer) error {
	overlay, ok := c.overlays[layer.ID]
	if !ok {
		// No overlay attached (hidden or hide-all): nothing to recolor.
		return nil
	}

	strategy, err := render.ForMode(layer.RenderMode)
	if err != nil {
		return err
	}
	if vector, ok := strategy.(render.VectorStrategy); ok {
		return vector.Update(layer, overlay)
	}
	return c.Repaint(layers)
}

// HideAll toggles the global hide-all switch. Hiding detaches every
// overlay without touching the per-layer visible flags; unhiding
// restores exactly the prior visibility set.
func (c *Compositor) HideAll(hidden bool, layers []*models.Layer) error {
	c.hideAll = hidden
	return c.Repaint(layers)
}

// Hidden reports the hide-all state
func (c *Compositor) Hidden() bool { return c.hideAll }

// Remove releases the overlay of a deleted layer so no handle dangles
func (c *Compositor) Remove(layerID int64) {
	if h, ok := c.handles[layerID]; ok {
		c.canvas.Detach(h)
		delete(c.handles, layerID)
		delete(c.overlays, layerID)
	}
}

// OverlayFor returns the currently attached overlay of a layer
func (c *Compositor) OverlayFor(layerID int64) (*render.Overlay, bool) {
	o, ok := c.overlays[layerID]
	return o, ok
}

// HasOverlay reports whether the layer currently owns an overlay handle
func (c *Compositor) HasOverlay(layerID int64) bool {
	_, ok := c.handles[layerID]
	return ok
}

func (c *Compositor) paint(layer *models.Layer) error {
	strategy, err := render.ForMode(layer.RenderMode)
	if err != nil {
		return err
	}
	overlay, err := strategy.Render(layer)
	if err != nil {
		return fmt.Errorf("failed to render layer %d: %w", layer.ID, err)
	}
	c.handles[layer.ID] = c.canvas.Attach(overlay)
	c.overlays[layer.ID] = overlay
	return nil
}

func (c *Compositor) detachAll() {
	for id, h := range c.handles {
		c.canvas.Detach(h)
		delete(c.handles, id)
		delete(c.overlays, id)
	}
}
