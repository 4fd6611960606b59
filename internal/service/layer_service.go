package service

import (
	"fmt"
	"log"
	"sync"

	"github.com/probmap/layers-backend-go/internal/compositor"
	"github.com/probmap/layers-backend-go/internal/layer"
	"github.com/probmap/layers-backend-go/internal/models"
	"github.com/probmap/layers-backend-go/internal/render"
	"github.com/probmap/layers-backend-go/internal/repository"
	"github.com/probmap/layers-backend-go/internal/stats"
)

// LayerService handles business logic for probability layers. Every
// mutation updates the in-memory stack, persists the change and brings
// the compositor up to date under one lock, so concurrent requests
// always observe a consistent stack.
type LayerService struct {
	mu         sync.Mutex
	manager    *layer.Manager
	compositor *compositor.Compositor
	repo       *repository.LayerRepository
}

// NewLayerService creates a new layer service
func NewLayerService(manager *layer.Manager, comp *compositor.Compositor, repo *repository.LayerRepository) *LayerService {
	return &LayerService{manager: manager, compositor: comp, repo: repo}
}

// Load restores the persisted layer stack and paints it
func (s *LayerService) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	layers, err := s.repo.LoadAll()
	if err != nil {
		return fmt.Errorf("failed to load layers: %w", err)
	}
	for _, l := range layers {
		s.manager.Insert(l)
	}
	if len(layers) > 0 {
		log.Printf("[LayerService] restored %d layers", len(layers))
	}
	return s.compositor.Repaint(s.manager.List())
}

// Import creates a layer from an uploaded sample set and paints it on
// top of the stack.
func (s *LayerService) Import(samples []models.Sample, meta layer.ImportMetadata) (*models.Layer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.manager.Import(samples, meta)
	if err != nil {
		return nil, err
	}
	if err := s.persist(l); err != nil {
		return nil, err
	}
	// The new layer shifted everything below it down one position.
	if err := s.repo.SavePositions(s.manager.List()); err != nil {
		return nil, err
	}
	return l, s.compositor.Repaint(s.manager.List())
}

// List returns the layer stack in z-order, index 0 topmost
func (s *LayerService) List() []*models.Layer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.manager.List()
}

// Get returns a layer by id
func (s *LayerService) Get(id int64) (*models.Layer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.manager.Get(id)
}

// Remove deletes a layer, its overlay and its stored row
func (s *LayerService) Remove(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.manager.Remove(id); err != nil {
		return err
	}
	s.compositor.Remove(id)
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	return s.repo.SavePositions(s.manager.List())
}

// Clear removes every layer (project clear)
func (s *LayerService) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.manager.Clear()
	if err := s.compositor.Repaint(nil); err != nil {
		return err
	}
	return s.repo.DeleteAll()
}

// Reorder moves a layer to a new stack position and repaints
func (s *LayerService) Reorder(id int64, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.manager.Reorder(id, index); err != nil {
		return err
	}
	if err := s.repo.SavePositions(s.manager.List()); err != nil {
		return err
	}
	return s.compositor.Repaint(s.manager.List())
}

// SetRenderMode switches a layer's render strategy and repaints
func (s *LayerService) SetRenderMode(id int64, mode models.RenderMode) error {
	return s.mutate(id, func(l *models.Layer) error {
		return s.manager.SetRenderMode(id, mode)
	}, true)
}

// SetValueRange narrows the rendered probability window and repaints
func (s *LayerService) SetValueRange(id int64, lo, hi float64) error {
	return s.mutate(id, func(l *models.Layer) error {
		return s.manager.SetValueRange(id, lo, hi)
	}, true)
}

// SetRadius sets the layer radius in meters and repaints
func (s *LayerService) SetRadius(id int64, radius float64) error {
	return s.mutate(id, func(l *models.Layer) error {
		return s.manager.SetRadius(id, radius)
	}, true)
}

// SetVisible toggles one layer's visibility and repaints
func (s *LayerService) SetVisible(id int64, visible bool) error {
	return s.mutate(id, func(l *models.Layer) error {
		return s.manager.SetVisible(id, visible)
	}, true)
}

// SetHue recolors a layer. Vector overlays update in place instead of a
// full repaint.
func (s *LayerService) SetHue(id int64, hue int) error {
	return s.mutate(id, func(l *models.Layer) error {
		return s.manager.SetHue(id, hue)
	}, false)
}

// SetOpacity changes a layer's opacity, recoloring like SetHue
func (s *LayerService) SetOpacity(id int64, opacity int) error {
	return s.mutate(id, func(l *models.Layer) error {
		return s.manager.SetOpacity(id, opacity)
	}, false)
}

// HideAll toggles the global hide-all switch. Per-layer visible flags
// are untouched so unhiding restores the prior visibility set.
func (s *LayerService) HideAll(hidden bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.compositor.HideAll(hidden, s.manager.List())
}

// Hidden reports the hide-all state
func (s *LayerService) Hidden() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.compositor.Hidden()
}

// Overlay renders a layer's current overlay on demand, regardless of
// its visibility, for export and preview.
func (s *LayerService) Overlay(id int64) (*render.Overlay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.manager.Get(id)
	if err != nil {
		return nil, err
	}
	strategy, err := render.ForMode(l.RenderMode)
	if err != nil {
		return nil, err
	}
	return strategy.Render(l)
}

// LayerStats summarizes a layer's probability distribution
type LayerStats struct {
	Count         int        `json:"count"`
	RenderedCount int        `json:"rendered_count"`
	Sum           float64    `json:"sum"`
	Mean          float64    `json:"mean"`
	StdDev        float64    `json:"std_dev"`
	Percentiles   [5]float64 `json:"percentiles"` // p5, p25, p50, p75, p95
	EntropyBits   float64    `json:"entropy_bits"`
}

// Stats computes summary statistics over a layer's full sample set
func (s *LayerService) Stats(id int64) (*LayerStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.manager.Get(id)
	if err != nil {
		return nil, err
	}

	values := make([]float64, len(l.Samples))
	for i, sample := range l.Samples {
		values[i] = sample.Probability
	}

	out := &LayerStats{
		Count:         len(values),
		RenderedCount: len(l.RenderedSamples()),
		Sum:           stats.Sum(values),
		Mean:          stats.Mean(values),
		StdDev:        stats.StdDev(values),
		EntropyBits:   stats.ShannonEntropy(values),
	}
	copy(out.Percentiles[:], stats.Percentiles(values, []float64{5, 25, 50, 75, 95}))
	return out, nil
}

// mutate runs a manager mutation, persists the layer and refreshes the
// canvas: a full repaint when the geometry changed, a color refresh
// otherwise.
func (s *LayerService) mutate(id int64, fn func(*models.Layer) error, repaint bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.manager.Get(id)
	if err != nil {
		return err
	}
	if err := fn(l); err != nil {
		return err
	}
	if err := s.persist(l); err != nil {
		return err
	}
	if repaint {
		return s.compositor.Repaint(s.manager.List())
	}
	return s.compositor.RefreshColors(l, s.manager.List())
}

// persist saves one layer at its current stack position
func (s *LayerService) persist(l *models.Layer) error {
	for i, other := range s.manager.List() {
		if other.ID == l.ID {
			return s.repo.Save(l, i)
		}
	}
	return models.ErrLayerNotFound
}
