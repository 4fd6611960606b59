package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/probmap/layers-backend-go/internal/entity"
	"github.com/probmap/layers-backend-go/internal/models"
	"github.com/probmap/layers-backend-go/internal/service"
	"github.com/probmap/layers-backend-go/pkg/response"
)

// EntityHandler handles HTTP requests for dynamic entities, location
// types and the type-assignment mode.
type EntityHandler struct {
	service *service.EntityService
}

// NewEntityHandler creates a new entity handler
func NewEntityHandler(service *service.EntityService) *EntityHandler {
	return &EntityHandler{service: service}
}

// Create handles POST /api/v1/entities
func (h *EntityHandler) Create(c *gin.Context) {
	var e models.DynamicEntity
	if err := c.ShouldBindJSON(&e); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid entity payload", err)
		return
	}
	stored, err := h.service.Add(e)
	if err != nil {
		entityError(c, "Failed to create entity", err)
		return
	}
	response.Created(c, stored)
}

// List handles GET /api/v1/entities. With ?format=geojson the entity
// layer is exported as one RFC 7946 feature collection instead of the
// envelope listing.
func (h *EntityHandler) List(c *gin.Context) {
	if c.Query("format") == "geojson" {
		fc, err := h.service.ExportGeoJSON()
		if err != nil {
			entityError(c, "Failed to export entities", err)
			return
		}
		c.JSON(http.StatusOK, fc)
		return
	}

	entities := h.service.List()
	response.Success(c, gin.H{
		"entities": entities,
		"count":    len(entities),
	})
}

// Get handles GET /api/v1/entities/:id
func (h *EntityHandler) Get(c *gin.Context) {
	e, err := h.service.Get(c.Param("id"))
	if err != nil {
		entityError(c, "Failed to get entity", err)
		return
	}
	response.Success(c, e)
}

// Delete handles DELETE /api/v1/entities/:id
func (h *EntityHandler) Delete(c *gin.Context) {
	if err := h.service.Remove(c.Param("id")); err != nil {
		entityError(c, "Failed to delete entity", err)
		return
	}
	response.Success(c, nil)
}

// Clear handles DELETE /api/v1/entities
func (h *EntityHandler) Clear(c *gin.Context) {
	if err := h.service.Clear(); err != nil {
		entityError(c, "Failed to clear entities", err)
		return
	}
	response.Success(c, nil)
}

// Click handles POST /api/v1/entities/:id/click. While type assignment
// is armed and the entity passes the filter, the armed tuple is
// committed onto it; otherwise the click is a no-op.
func (h *EntityHandler) Click(c *gin.Context) {
	committed, err := h.service.Click(c.Param("id"))
	if err != nil {
		entityError(c, "Failed to handle click", err)
		return
	}
	response.Success(c, gin.H{"committed": committed})
}

// Measure handles GET /api/v1/entities/:id/measure
func (h *EntityHandler) Measure(c *gin.Context) {
	m, err := h.service.Measure(c.Param("id"))
	if err != nil {
		entityError(c, "Failed to measure entity", err)
		return
	}
	response.Success(c, m)
}

// SetColor handles PUT /api/v1/entities/:id/color
func (h *EntityHandler) SetColor(c *gin.Context) {
	var req struct {
		Color string `json:"color"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid color payload", err)
		return
	}
	if err := h.service.CommitColor(c.Param("id"), req.Color); err != nil {
		entityError(c, "Failed to set color", err)
		return
	}
	response.Success(c, nil)
}

// SetClassification handles PUT /api/v1/entities/:id/location-type
func (h *EntityHandler) SetClassification(c *gin.Context) {
	var req struct {
		LocationType string `json:"location_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid location type payload", err)
		return
	}
	if err := h.service.CommitClassification(c.Param("id"), req.LocationType); err != nil {
		entityError(c, "Failed to set location type", err)
		return
	}
	response.Success(c, nil)
}

// SetUncertainty handles PUT /api/v1/entities/:id/uncertainty
func (h *EntityHandler) SetUncertainty(c *gin.Context) {
	var req struct {
		StdDev float64 `json:"std_dev"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid uncertainty payload", err)
		return
	}
	if err := h.service.CommitUncertainty(c.Param("id"), req.StdDev); err != nil {
		entityError(c, "Failed to set uncertainty", err)
		return
	}
	response.Success(c, nil)
}

// Arm handles POST /api/v1/type-assignment
func (h *EntityHandler) Arm(c *gin.Context) {
	var t entity.TypeAssignment
	if err := c.ShouldBindJSON(&t); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid type assignment payload", err)
		return
	}
	if err := h.service.ArmTypeAssignment(t); err != nil {
		entityError(c, "Failed to arm type assignment", err)
		return
	}
	response.Success(c, t)
}

// Disarm handles DELETE /api/v1/type-assignment
func (h *EntityHandler) Disarm(c *gin.Context) {
	h.service.DisarmTypeAssignment()
	response.Success(c, nil)
}

// Armed handles GET /api/v1/type-assignment
func (h *EntityHandler) Armed(c *gin.Context) {
	response.Success(c, gin.H{"armed": h.service.Armed()})
}

// ListTypes handles GET /api/v1/location-types
func (h *EntityHandler) ListTypes(c *gin.Context) {
	types := h.service.ListTypes()
	response.Success(c, gin.H{
		"location_types": types,
		"count":          len(types),
	})
}

// CreateType handles POST /api/v1/location-types
func (h *EntityHandler) CreateType(c *gin.Context) {
	var lt models.LocationType
	if err := c.ShouldBindJSON(&lt); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid location type payload", err)
		return
	}
	if lt.Name == "" {
		response.Error(c, http.StatusBadRequest, "Location type name is required", nil)
		return
	}
	if err := h.service.AddType(lt); err != nil {
		entityError(c, "Failed to create location type", err)
		return
	}
	response.Created(c, lt)
}

// UpdateType handles PUT /api/v1/location-types/:name
func (h *EntityHandler) UpdateType(c *gin.Context) {
	var req struct {
		Filter      string  `json:"filter"`
		Color       string  `json:"color"`
		Uncertainty float64 `json:"uncertainty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid location type payload", err)
		return
	}
	if err := h.service.UpdateType(c.Param("name"), req.Filter, req.Color, req.Uncertainty); err != nil {
		entityError(c, "Failed to update location type", err)
		return
	}
	response.Success(c, nil)
}

// DeleteType handles DELETE /api/v1/location-types/:name. Deleting
// cascades into the entity layer.
func (h *EntityHandler) DeleteType(c *gin.Context) {
	if err := h.service.DeleteType(c.Param("name")); err != nil {
		entityError(c, "Failed to delete location type", err)
		return
	}
	response.Success(c, nil)
}

// RenameType handles PUT /api/v1/location-types/:name/rename. The
// response reports whether the rename happened; duplicates and reserved
// names are refused without touching anything.
func (h *EntityHandler) RenameType(c *gin.Context) {
	var req struct {
		NewName string `json:"new_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid rename payload", err)
		return
	}
	renamed, err := h.service.RenameType(c.Param("name"), req.NewName)
	if err != nil {
		entityError(c, "Failed to rename location type", err)
		return
	}
	response.Success(c, gin.H{"renamed": renamed})
}

// entityError maps domain errors onto HTTP status codes
func entityError(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, models.ErrEntityNotFound), errors.Is(err, models.ErrLocationTypeNotFound):
		response.Error(c, http.StatusNotFound, message, err)
	case errors.Is(err, models.ErrDuplicateLocationType):
		response.Error(c, http.StatusConflict, message, err)
	case errors.Is(err, models.ErrReservedLocationType):
		response.Error(c, http.StatusForbidden, message, err)
	default:
		response.Error(c, http.StatusInternalServerError, message, err)
	}
}
