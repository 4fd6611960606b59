package layer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probmap/layers-backend-go/internal/models"
)

func sample(lat, lon, p float64) models.Sample {
	return models.Sample{Position: [2]float64{lat, lon}, Probability: p}
}

func TestImportDerivesBounds(t *testing.T) {
	m := NewManager()

	l, err := m.Import([]models.Sample{
		sample(0, 0, 0.2),
		sample(0, 1, 0.8),
		sample(1, 0, 0.5),
	}, ImportMetadata{Name: "area", Hue: 0, Opacity: 100, Radius: 5})
	require.NoError(t, err)

	assert.Equal(t, [2]float64{0.2, 0.8}, l.ValueMinMax)
	assert.Equal(t, [2]float64{0.2, 0.8}, l.ValueRange, "range starts wide open")
	assert.Equal(t, [2]float64{0, 1}, l.LatMinMax)
	assert.Equal(t, [2]float64{0, 1}, l.LonMinMax)
	assert.True(t, l.Visible)
}

func TestImportDropsMalformedSamples(t *testing.T) {
	m := NewManager()

	l, err := m.Import([]models.Sample{
		sample(0, 0, 0.2),
		sample(91, 0, 0.5),           // latitude out of range
		sample(0, -181, 0.5),         // longitude out of range
		sample(math.NaN(), 0, 0.5),   // non-numeric latitude
		sample(0, 1, math.Inf(1)),    // non-finite probability
		sample(-45.5, 170.25, 0.75),  // valid
	}, ImportMetadata{Name: "messy"})
	require.NoError(t, err)

	assert.Len(t, l.Samples, 2, "layer proceeds with the remaining valid samples")
	assert.Equal(t, [2]float64{0.2, 0.75}, l.ValueMinMax)
}

func TestImportPlacesNewLayerOnTop(t *testing.T) {
	m := NewManager()
	first, _ := m.Import([]models.Sample{sample(0, 0, 1)}, ImportMetadata{Name: "first"})
	second, _ := m.Import([]models.Sample{sample(0, 0, 1)}, ImportMetadata{Name: "second"})

	list := m.List()
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "index 0 is topmost")
	assert.Equal(t, first.ID, list[1].ID)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestSetValueRangeKeepsSamples(t *testing.T) {
	m := NewManager()
	l, _ := m.Import([]models.Sample{
		sample(0, 0, 0.2), sample(0, 1, 0.8), sample(1, 0, 0.5),
	}, ImportMetadata{Name: "area"})

	require.NoError(t, m.SetValueRange(l.ID, 0.5, 0.8))
	assert.Equal(t, [2]float64{0.5, 0.8}, l.ValueRange)
	assert.Len(t, l.Samples, 3, "mutating the range never alters the sample set")
	assert.Len(t, l.RenderedSamples(), 2)

	// Outside the data-derived bounds: rejected.
	err := m.SetValueRange(l.ID, 0.1, 0.8)
	assert.ErrorIs(t, err, models.ErrInvalidValueRange)
	err = m.SetValueRange(l.ID, 0.8, 0.5)
	assert.ErrorIs(t, err, models.ErrInvalidValueRange)

	// Epsilon overshoot from slider rounding is fine.
	assert.NoError(t, m.SetValueRange(l.ID, 0.2-1e-10, 0.8+1e-10))
}

func TestSetRenderModeValidatesGridShape(t *testing.T) {
	m := NewManager()
	l, _ := m.Import([]models.Sample{
		sample(0, 0, 0.2), sample(0, 1, 0.8), sample(1, 0, 0.5),
	}, ImportMetadata{Name: "area", Width: 2, Height: 2})

	err := m.SetRenderMode(l.ID, models.RenderModeBitmapRaster)
	assert.ErrorIs(t, err, models.ErrInvalidLayerShape, "2x2 grid needs 4 samples")
	assert.Equal(t, models.RenderModeRect, l.RenderMode, "mode unchanged on failure")

	require.NoError(t, m.SetRenderMode(l.ID, models.RenderModeVoronoi))
	assert.Equal(t, models.RenderModeVoronoi, l.RenderMode)
}

func TestImportRasterValidatesGridShape(t *testing.T) {
	m := NewManager()
	_, err := m.Import([]models.Sample{
		sample(0, 0, 0.2), sample(0, 1, 0.8), sample(1, 0, 0.5),
	}, ImportMetadata{Name: "bad grid", RenderMode: models.RenderModeVectorRaster, Width: 2, Height: 2})
	assert.ErrorIs(t, err, models.ErrInvalidLayerShape)
}

func TestReorder(t *testing.T) {
	m := NewManager()
	a, _ := m.Import([]models.Sample{sample(0, 0, 1)}, ImportMetadata{Name: "a"})
	b, _ := m.Import([]models.Sample{sample(0, 0, 1)}, ImportMetadata{Name: "b"})
	c, _ := m.Import([]models.Sample{sample(0, 0, 1)}, ImportMetadata{Name: "c"})

	// Stack is [c, b, a]; move a to the top.
	require.NoError(t, m.Reorder(a.ID, 0))
	list := m.List()
	assert.Equal(t, []int64{a.ID, c.ID, b.ID}, []int64{list[0].ID, list[1].ID, list[2].ID})

	// Out-of-bounds targets clamp instead of failing.
	require.NoError(t, m.Reorder(a.ID, 99))
	assert.Equal(t, a.ID, m.List()[2].ID)

	assert.ErrorIs(t, m.Reorder(12345, 0), models.ErrLayerNotFound)
}

func TestRemoveAndClear(t *testing.T) {
	m := NewManager()
	a, _ := m.Import([]models.Sample{sample(0, 0, 1)}, ImportMetadata{Name: "a"})
	m.Import([]models.Sample{sample(0, 0, 1)}, ImportMetadata{Name: "b"})

	require.NoError(t, m.Remove(a.ID))
	assert.Len(t, m.List(), 1)
	assert.ErrorIs(t, m.Remove(a.ID), models.ErrLayerNotFound)

	m.Clear()
	assert.Empty(t, m.List())
}

func TestStyleSetters(t *testing.T) {
	m := NewManager()
	l, _ := m.Import([]models.Sample{sample(0, 0, 1)}, ImportMetadata{Name: "a"})

	require.NoError(t, m.SetHue(l.ID, 400))
	assert.Equal(t, 359, l.Hue, "hue clamped")

	require.NoError(t, m.SetOpacity(l.ID, -5))
	assert.Equal(t, 0, l.Opacity)

	require.NoError(t, m.SetRadius(l.ID, 25))
	assert.Equal(t, 25.0, l.Radius)
	assert.Error(t, m.SetRadius(l.ID, -1))

	require.NoError(t, m.SetVisible(l.ID, false))
	assert.False(t, l.Visible)
}
