package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/probmap/layers-backend-go/internal/layer"
	"github.com/probmap/layers-backend-go/internal/models"
	"github.com/probmap/layers-backend-go/internal/service"
	"github.com/probmap/layers-backend-go/pkg/response"
)

// LayerHandler handles HTTP requests for probability layers
type LayerHandler struct {
	service *service.LayerService
}

// NewLayerHandler creates a new layer handler
func NewLayerHandler(service *service.LayerService) *LayerHandler {
	return &LayerHandler{service: service}
}

// importRequest is the layer upload payload
type importRequest struct {
	Name       string            `json:"name" binding:"required"`
	Markers    []models.Sample   `json:"markers" binding:"required"`
	Hue        int               `json:"hue"`
	Opacity    int               `json:"opacity"`
	RenderMode models.RenderMode `json:"render_mode"`
	Radius     float64           `json:"radius"`
	Width      int               `json:"width"`
	Height     int               `json:"height"`
}

// Import handles POST /api/v1/layers
func (h *LayerHandler) Import(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid layer payload", err)
		return
	}

	l, err := h.service.Import(req.Markers, layer.ImportMetadata{
		Name:       req.Name,
		Hue:        req.Hue,
		Opacity:    req.Opacity,
		RenderMode: req.RenderMode,
		Radius:     req.Radius,
		Width:      req.Width,
		Height:     req.Height,
	})
	if err != nil {
		layerError(c, "Failed to import layer", err)
		return
	}
	response.Created(c, l)
}

// List handles GET /api/v1/layers
func (h *LayerHandler) List(c *gin.Context) {
	layers := h.service.List()
	response.Success(c, gin.H{
		"layers": layers,
		"count":  len(layers),
		"hidden": h.service.Hidden(),
	})
}

// Get handles GET /api/v1/layers/:id
func (h *LayerHandler) Get(c *gin.Context) {
	id, ok := layerID(c)
	if !ok {
		return
	}
	l, err := h.service.Get(id)
	if err != nil {
		layerError(c, "Failed to get layer", err)
		return
	}
	response.Success(c, l)
}

// Delete handles DELETE /api/v1/layers/:id
func (h *LayerHandler) Delete(c *gin.Context) {
	id, ok := layerID(c)
	if !ok {
		return
	}
	if err := h.service.Remove(id); err != nil {
		layerError(c, "Failed to delete layer", err)
		return
	}
	response.Success(c, nil)
}

// Clear handles DELETE /api/v1/layers
func (h *LayerHandler) Clear(c *gin.Context) {
	if err := h.service.Clear(); err != nil {
		layerError(c, "Failed to clear layers", err)
		return
	}
	response.Success(c, nil)
}

// Overlay handles GET /api/v1/layers/:id/overlay. Vector modes answer
// with the GeoJSON feature collection; vector_raster with SVG and
// bitmap_raster with PNG, each under its native content type.
func (h *LayerHandler) Overlay(c *gin.Context) {
	id, ok := layerID(c)
	if !ok {
		return
	}
	overlay, err := h.service.Overlay(id)
	if err != nil {
		layerError(c, "Failed to render layer", err)
		return
	}

	switch overlay.Mode {
	case models.RenderModeVectorRaster:
		c.Data(http.StatusOK, "image/svg+xml", overlay.SVG)
	case models.RenderModeBitmapRaster:
		c.Data(http.StatusOK, "image/png", overlay.PNG)
	default:
		response.Success(c, gin.H{
			"bounds":  overlay.Bounds,
			"geojson": overlay.Collection,
		})
	}
}

// Stats handles GET /api/v1/layers/:id/stats
func (h *LayerHandler) Stats(c *gin.Context) {
	id, ok := layerID(c)
	if !ok {
		return
	}
	stats, err := h.service.Stats(id)
	if err != nil {
		layerError(c, "Failed to compute layer stats", err)
		return
	}
	response.Success(c, stats)
}

// SetRenderMode handles PUT /api/v1/layers/:id/render-mode
func (h *LayerHandler) SetRenderMode(c *gin.Context) {
	id, ok := layerID(c)
	if !ok {
		return
	}
	var req struct {
		RenderMode models.RenderMode `json:"render_mode"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid render mode payload", err)
		return
	}
	if err := h.service.SetRenderMode(id, req.RenderMode); err != nil {
		layerError(c, "Failed to set render mode", err)
		return
	}
	response.Success(c, nil)
}

// SetValueRange handles PUT /api/v1/layers/:id/value-range
func (h *LayerHandler) SetValueRange(c *gin.Context) {
	id, ok := layerID(c)
	if !ok {
		return
	}
	var req struct {
		Min float64 `json:"min"`
		Max float64 `json:"max"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid value range payload", err)
		return
	}
	if err := h.service.SetValueRange(id, req.Min, req.Max); err != nil {
		layerError(c, "Failed to set value range", err)
		return
	}
	response.Success(c, nil)
}

// SetHue handles PUT /api/v1/layers/:id/hue
func (h *LayerHandler) SetHue(c *gin.Context) {
	id, ok := layerID(c)
	if !ok {
		return
	}
	var req struct {
		Hue int `json:"hue"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid hue payload", err)
		return
	}
	if err := h.service.SetHue(id, req.Hue); err != nil {
		layerError(c, "Failed to set hue", err)
		return
	}
	response.Success(c, nil)
}

// SetOpacity handles PUT /api/v1/layers/:id/opacity
func (h *LayerHandler) SetOpacity(c *gin.Context) {
	id, ok := layerID(c)
	if !ok {
		return
	}
	var req struct {
		Opacity int `json:"opacity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid opacity payload", err)
		return
	}
	if err := h.service.SetOpacity(id, req.Opacity); err != nil {
		layerError(c, "Failed to set opacity", err)
		return
	}
	response.Success(c, nil)
}

// SetRadius handles PUT /api/v1/layers/:id/radius
func (h *LayerHandler) SetRadius(c *gin.Context) {
	id, ok := layerID(c)
	if !ok {
		return
	}
	var req struct {
		Radius float64 `json:"radius"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid radius payload", err)
		return
	}
	if err := h.service.SetRadius(id, req.Radius); err != nil {
		layerError(c, "Failed to set radius", err)
		return
	}
	response.Success(c, nil)
}

// SetVisible handles PUT /api/v1/layers/:id/visible
func (h *LayerHandler) SetVisible(c *gin.Context) {
	id, ok := layerID(c)
	if !ok {
		return
	}
	var req struct {
		Visible bool `json:"visible"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid visibility payload", err)
		return
	}
	if err := h.service.SetVisible(id, req.Visible); err != nil {
		layerError(c, "Failed to set visibility", err)
		return
	}
	response.Success(c, nil)
}

// Reorder handles PUT /api/v1/layers/:id/position
func (h *LayerHandler) Reorder(c *gin.Context) {
	id, ok := layerID(c)
	if !ok {
		return
	}
	var req struct {
		Index int `json:"index"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid position payload", err)
		return
	}
	if err := h.service.Reorder(id, req.Index); err != nil {
		layerError(c, "Failed to reorder layer", err)
		return
	}
	response.Success(c, nil)
}

// HideAll handles PUT /api/v1/hide-all
func (h *LayerHandler) HideAll(c *gin.Context) {
	var req struct {
		Hidden bool `json:"hidden"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid hide-all payload", err)
		return
	}
	if err := h.service.HideAll(req.Hidden); err != nil {
		layerError(c, "Failed to toggle hide-all", err)
		return
	}
	response.Success(c, gin.H{"hidden": req.Hidden})
}

func layerID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid layer id", err)
		return 0, false
	}
	return id, true
}

// layerError maps domain errors onto HTTP status codes
func layerError(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, models.ErrLayerNotFound):
		response.Error(c, http.StatusNotFound, message, err)
	case errors.Is(err, models.ErrInvalidLayerShape), errors.Is(err, models.ErrInvalidValueRange):
		response.Error(c, http.StatusBadRequest, message, err)
	default:
		response.Error(c, http.StatusInternalServerError, message, err)
	}
}
