// Package layer provides CRUD orchestration over probability layers:
// import, styling mutations, z-ordering and removal. Rendering is
// delegated to the compositor; the manager only enforces lifecycle
// invariants.
package layer

import (
	"fmt"
	"log"

	"github.com/probmap/layers-backend-go/internal/models"
	"github.com/probmap/layers-backend-go/internal/spatial"
)

// ImportMetadata carries the styling a new layer starts with
type ImportMetadata struct {
	Name       string
	Hue        int
	Opacity    int
	RenderMode models.RenderMode
	Radius     float64
	Width      int
	Height     int
}

// Manager owns the ordered layer list. List position is z-order: the
// layer at index 0 is topmost.
type Manager struct {
	layers []*models.Layer
	nextID int64
}

// NewManager returns an empty layer manager
func NewManager() *Manager {
	return &Manager{}
}

// Import creates a layer from a sample set. Malformed samples
// (non-numeric or out-of-range coordinates, non-finite probabilities)
// are dropped silently and the layer proceeds with the remaining valid
// ones. The sample set and the derived value/lat/lon bounds are fixed
// for the layer's lifetime. The new layer goes on top of the stack.
func (m *Manager) Import(samples []models.Sample, meta ImportMetadata) (*models.Layer, error) {
	valid := make([]models.Sample, 0, len(samples))
	for _, s := range samples {
		if s.Valid() {
			valid = append(valid, s)
		}
	}
	if dropped := len(samples) - len(valid); dropped > 0 {
		log.Printf("[LayerManager] dropped %d malformed samples importing %q", dropped, meta.Name)
	}

	m.nextID++
	l := &models.Layer{
		ID:         m.nextID,
		Name:       meta.Name,
		Samples:    valid,
		Hue:        clampInt(meta.Hue, 0, 359),
		Opacity:    clampInt(meta.Opacity, 0, 100),
		RenderMode: meta.RenderMode,
		Radius:     meta.Radius,
		Width:      meta.Width,
		Height:     meta.Height,
		Visible:    true,
	}

	if l.RenderMode.IsRaster() && !l.IsGrid() {
		return nil, fmt.Errorf("cannot import %q as %s: %w", meta.Name, l.RenderMode, models.ErrInvalidLayerShape)
	}

	if len(valid) > 0 {
		l.ValueMinMax = [2]float64{valid[0].Probability, valid[0].Probability}
		points := make([]spatial.Point, len(valid))
		for i, s := range valid {
			if s.Probability < l.ValueMinMax[0] {
				l.ValueMinMax[0] = s.Probability
			}
			if s.Probability > l.ValueMinMax[1] {
				l.ValueMinMax[1] = s.Probability
			}
			points[i] = spatial.Point{Lat: s.Lat(), Lon: s.Lon()}
		}
		minLat, minLon, maxLat, maxLon := spatial.BoundingBox(points)
		l.LatMinMax = [2]float64{minLat, maxLat}
		l.LonMinMax = [2]float64{minLon, maxLon}
	}
	l.ValueRange = l.ValueMinMax

	m.layers = append([]*models.Layer{l}, m.layers...)
	return l, nil
}

// Insert re-adds a previously persisted layer without re-deriving its
// immutable bounds, keeping stored ids stable across restarts.
func (m *Manager) Insert(l *models.Layer) {
	if l.ID > m.nextID {
		m.nextID = l.ID
	}
	m.layers = append(m.layers, l)
}

// Get returns a layer by id
func (m *Manager) Get(id int64) (*models.Layer, error) {
	for _, l := range m.layers {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, models.ErrLayerNotFound
}

// List returns the layers in z-order, index 0 topmost
func (m *Manager) List() []*models.Layer {
	return m.layers
}

// Remove deletes a layer
func (m *Manager) Remove(id int64) error {
	for i, l := range m.layers {
		if l.ID == id {
			m.layers = append(m.layers[:i], m.layers[i+1:]...)
			return nil
		}
	}
	return models.ErrLayerNotFound
}

// Clear removes every layer (project clear)
func (m *Manager) Clear() {
	m.layers = nil
}

// Reorder moves a layer to a new list position, clamped to the stack
func (m *Manager) Reorder(id int64, index int) error {
	from := -1
	for i, l := range m.layers {
		if l.ID == id {
			from = i
			break
		}
	}
	if from == -1 {
		return models.ErrLayerNotFound
	}

	if index < 0 {
		index = 0
	}
	if index >= len(m.layers) {
		index = len(m.layers) - 1
	}

	l := m.layers[from]
	m.layers = append(m.layers[:from], m.layers[from+1:]...)
	m.layers = append(m.layers[:index], append([]*models.Layer{l}, m.layers[index:]...)...)
	return nil
}

// SetRenderMode switches a layer's render mode. Raster modes are only
// valid for layers whose samples form a regular width x height grid;
// anything else fails explicitly instead of computing garbage bounds.
func (m *Manager) SetRenderMode(id int64, mode models.RenderMode) error {
	l, err := m.Get(id)
	if err != nil {
		return err
	}
	if mode.IsRaster() && !l.IsGrid() {
		return fmt.Errorf("layer %d (%dx%d, %d samples): %w",
			l.ID, l.Width, l.Height, len(l.Samples), models.ErrInvalidLayerShape)
	}
	l.RenderMode = mode
	return nil
}

// SetValueRange narrows the rendered probability window. The range must
// stay inside the layer's data-derived bounds (widened by epsilon); the
// sample set itself is never touched.
func (m *Manager) SetValueRange(id int64, lo, hi float64) error {
	l, err := m.Get(id)
	if err != nil {
		return err
	}
	if lo > hi {
		return fmt.Errorf("value range [%g, %g] inverted: %w", lo, hi, models.ErrInvalidValueRange)
	}
	if lo < l.ValueMinMax[0]-models.ValueEpsilon || hi > l.ValueMinMax[1]+models.ValueEpsilon {
		return fmt.Errorf("value range [%g, %g] outside [%g, %g]: %w",
			lo, hi, l.ValueMinMax[0], l.ValueMinMax[1], models.ErrInvalidValueRange)
	}
	l.ValueRange = [2]float64{lo, hi}
	return nil
}

// SetHue sets the layer hue, clamped to [0, 359]
func (m *Manager) SetHue(id int64, hue int) error {
	l, err := m.Get(id)
	if err != nil {
		return err
	}
	l.Hue = clampInt(hue, 0, 359)
	return nil
}

// SetOpacity sets the layer opacity, clamped to [0, 100]
func (m *Manager) SetOpacity(id int64, opacity int) error {
	l, err := m.Get(id)
	if err != nil {
		return err
	}
	l.Opacity = clampInt(opacity, 0, 100)
	return nil
}

// SetRadius sets the layer radius in meters
func (m *Manager) SetRadius(id int64, radius float64) error {
	l, err := m.Get(id)
	if err != nil {
		return err
	}
	if radius < 0 {
		return fmt.Errorf("radius must be >= 0, got %g", radius)
	}
	l.Radius = radius
	return nil
}

// SetVisible toggles a single layer's visibility flag
func (m *Manager) SetVisible(id int64, visible bool) error {
	l, err := m.Get(id)
	if err != nil {
		return err
	}
	l.Visible = visible
	return nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
