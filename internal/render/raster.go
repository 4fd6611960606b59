package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	svg "github.com/ajstarks/svgo"
	xdraw "golang.org/x/image/draw"

	"github.com/probmap/layers-backend-go/internal/colormap"
	"github.com/probmap/layers-backend-go/internal/models"
)

// bitmapMinSize is the minimum edge length of an exported bitmap. Small
// grids are upscaled with nearest-neighbor so map clients do not blur
// cell boundaries when stretching a tiny PNG.
const bitmapMinSize = 256

// gridSpec describes the regular sample grid of a raster layer. Sample
// index i occupies image pixel (i % width, height-1-i/width): image row 0
// is the logical grid's last row because the image origin sits top-left
// while the geographic origin sits bottom-left.
type gridSpec struct {
	width, height    int
	latMin, lonMin   float64
	cellLat, cellLon float64
}

func newGridSpec(layer *models.Layer) (gridSpec, error) {
	if !layer.IsGrid() {
		return gridSpec{}, fmt.Errorf("layer %d (%dx%d, %d samples): %w",
			layer.ID, layer.Width, layer.Height, len(layer.Samples), models.ErrInvalidLayerShape)
	}

	g := gridSpec{
		width:  layer.Width,
		height: layer.Height,
		latMin: layer.LatMinMax[0],
		lonMin: layer.LonMinMax[0],
	}
	if layer.Height > 1 {
		g.cellLat = (layer.LatMinMax[1] - layer.LatMinMax[0]) / float64(layer.Height-1)
	}
	if layer.Width > 1 {
		g.cellLon = (layer.LonMinMax[1] - layer.LonMinMax[0]) / float64(layer.Width-1)
	}
	return g, nil
}

// pixel maps a sample index to its image coordinates
func (g gridSpec) pixel(i int) (x, y int) {
	return i % g.width, g.height - 1 - i/g.width
}

// bounds returns the overlay box, extended half a grid cell beyond the
// first and last sample in both axes.
func (g gridSpec) bounds() Bounds {
	latMax := g.latMin + g.cellLat*float64(g.height-1)
	lonMax := g.lonMin + g.cellLon*float64(g.width-1)
	return Bounds{
		{g.latMin - g.cellLat/2, g.lonMin - g.cellLon/2},
		{latMax + g.cellLat/2, lonMax + g.cellLon/2},
	}
}

// sampleRGBA maps one probability to the pixel color used by the raster
// strategies. Alpha carries the layer opacity.
func sampleRGBA(layer *models.Layer, p float64) color.NRGBA {
	sat := colormap.SaturationFor(p, layer.MaxAbsProbability())
	lightness := colormap.LightnessPositive
	if p < 0 {
		lightness = colormap.LightnessNegative
	}
	r, g, b := colormap.HSLToRGB(layer.Hue, sat, lightness)
	return color.NRGBA{R: r, G: g, B: b, A: uint8(layer.Opacity * 255 / 100)}
}

// VectorRaster composes the grid into scalable vector primitives: one
// 1x1 SVG rect per in-range sample. Resolution independent, but heavy
// for large grids; any value-affecting change requires a full repaint.
type VectorRaster struct{}

// Render implements Strategy
func (VectorRaster) Render(layer *models.Layer) (*Overlay, error) {
	grid, err := newGridSpec(layer)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(grid.width, grid.height,
		fmt.Sprintf(`viewBox="0 0 %d %d" shape-rendering="crispEdges"`, grid.width, grid.height))

	for i, s := range layer.Samples {
		if !layer.InRange(s.Probability) {
			continue
		}
		x, y := grid.pixel(i)
		canvas.Rect(x, y, 1, 1, fmt.Sprintf("fill:%s;fill-opacity:%g",
			fillColor(layer, s.Probability), float64(layer.Opacity)/100))
	}
	canvas.End()

	return &Overlay{
		LayerID: layer.ID,
		Mode:    models.RenderModeVectorRaster,
		Bounds:  grid.bounds(),
		SVG:     buf.Bytes(),
	}, nil
}

// BitmapRaster paints the grid into a fixed-resolution PNG: cheap to pan
// and zoom, lossy on scale-up. Out-of-range samples stay transparent.
type BitmapRaster struct{}

// Render implements Strategy
func (BitmapRaster) Render(layer *models.Layer) (*Overlay, error) {
	grid, err := newGridSpec(layer)
	if err != nil {
		return nil, err
	}

	img := image.NewNRGBA(image.Rect(0, 0, grid.width, grid.height))
	for i, s := range layer.Samples {
		if !layer.InRange(s.Probability) {
			continue
		}
		x, y := grid.pixel(i)
		img.SetNRGBA(x, y, sampleRGBA(layer, s.Probability))
	}

	out := upscale(img)

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("failed to encode bitmap for layer %d: %w", layer.ID, err)
	}

	return &Overlay{
		LayerID: layer.ID,
		Mode:    models.RenderModeBitmapRaster,
		Bounds:  grid.bounds(),
		PNG:     buf.Bytes(),
	}, nil
}

// upscale grows tiny grids to bitmapMinSize with nearest-neighbor so each
// grid cell stays a crisp block of pixels.
func upscale(img *image.NRGBA) image.Image {
	b := img.Bounds()
	longest := b.Dx()
	if b.Dy() > longest {
		longest = b.Dy()
	}
	if longest >= bitmapMinSize || longest == 0 {
		return img
	}

	scale := (bitmapMinSize + longest - 1) / longest
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}
