package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probmap/layers-backend-go/internal/models"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	return NewRegistry(NewTypeRegistry())
}

func marker(lat, lon float64) models.DynamicEntity {
	return models.DynamicEntity{
		Geometry: models.PointGeometry{LatLng: [2]float64{lat, lon}},
		Origin:   models.OriginInternal,
	}
}

func polygon() models.DynamicEntity {
	return models.DynamicEntity{
		Geometry: models.PolygonGeometry{Ring: [][2]float64{{0, 0}, {0, 1}, {1, 1}}},
		Origin:   models.OriginInternal,
	}
}

func TestAddGeneratesUniqueIDs(t *testing.T) {
	r := newTestRegistry(t)

	a, err := r.Add(marker(1, 2))
	require.NoError(t, err)
	b, err := r.Add(polygon())
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID, "ids unique across kinds")
	assert.Equal(t, models.LocationTypeUnknown, a.Classification, "defaults to UNKNOWN")

	_, err = r.Add(models.DynamicEntity{ID: a.ID, Geometry: models.PointGeometry{}})
	assert.Error(t, err, "duplicate id rejected")
}

func TestMarkersOnlyAssignmentScenario(t *testing.T) {
	r := newTestRegistry(t)

	poly, err := r.Add(polygon())
	require.NoError(t, err)
	point, err := r.Add(marker(48.1, 11.5))
	require.NoError(t, err)

	require.NoError(t, r.ArmTypeAssignment(TypeAssignment{
		Classification: models.LocationTypeOrigin,
		Color:          "#ff0000",
		Uncertainty:    10,
		Filter:         FilterMarkersOnly,
	}))

	// Clicking a polygon has no effect under markersOnly.
	committed, err := r.Click(poly.ID)
	require.NoError(t, err)
	assert.False(t, committed)
	assert.Equal(t, models.LocationTypeUnknown, poly.Classification)

	// Clicking a point marker commits the armed tuple.
	committed, err = r.Click(point.ID)
	require.NoError(t, err)
	assert.True(t, committed)
	assert.Equal(t, models.LocationTypeOrigin, point.Classification)
	assert.Equal(t, "#ff0000", point.Color)
	assert.Equal(t, 10.0, point.Uncertainty)
}

func TestCommitDoesNotAutoDisarm(t *testing.T) {
	r := newTestRegistry(t)

	first, _ := r.Add(marker(1, 1))
	second, _ := r.Add(marker(2, 2))

	require.NoError(t, r.ArmTypeAssignment(TypeAssignment{
		Classification: models.LocationTypeVertiport,
		Color:          "#0000ff",
		Filter:         FilterMarkersOnly,
	}))

	committed, err := r.Click(first.ID)
	require.NoError(t, err)
	require.True(t, committed)
	require.NotNil(t, r.Assignment().Armed(), "commit keeps the mode armed")

	committed, err = r.Click(second.ID)
	require.NoError(t, err)
	assert.True(t, committed, "batch classification with one arming")
	assert.Equal(t, models.LocationTypeVertiport, second.Classification)
}

func TestDisarmRemovesAllTargets(t *testing.T) {
	r := newTestRegistry(t)
	point, _ := r.Add(marker(1, 1))

	require.NoError(t, r.ArmTypeAssignment(TypeAssignment{
		Classification: models.LocationTypeOrigin,
		Filter:         FilterAll,
	}))
	r.DisarmTypeAssignment()

	committed, err := r.Click(point.ID)
	require.NoError(t, err)
	assert.False(t, committed)
	assert.Nil(t, r.Assignment().Armed())
}

func TestRearmReplacesHandlers(t *testing.T) {
	r := newTestRegistry(t)
	poly, _ := r.Add(polygon())

	require.NoError(t, r.ArmTypeAssignment(TypeAssignment{
		Classification: models.LocationTypeOrigin,
		Filter:         FilterAll,
	}))
	require.NoError(t, r.ArmTypeAssignment(TypeAssignment{
		Classification: models.LocationTypeVertiport,
		Color:          "#0000ff",
		Filter:         FilterMarkersOnly,
	}))

	// After re-arming with markersOnly the polygon is no longer a target.
	committed, err := r.Click(poly.ID)
	require.NoError(t, err)
	assert.False(t, committed)
}

func TestVertiportMarkersOnlyFilter(t *testing.T) {
	r := newTestRegistry(t)

	plain, _ := r.Add(marker(1, 1))
	vertiport, err := r.Add(models.DynamicEntity{
		Geometry:       models.PointGeometry{LatLng: [2]float64{2, 2}},
		Classification: models.LocationTypeVertiport,
	})
	require.NoError(t, err)

	require.NoError(t, r.ArmTypeAssignment(TypeAssignment{
		Classification: models.LocationTypeOrigin,
		Color:          "#00ff00",
		Filter:         FilterVertiportMarkersOnly,
	}))

	committed, err := r.Click(plain.ID)
	require.NoError(t, err)
	assert.False(t, committed)

	committed, err = r.Click(vertiport.ID)
	require.NoError(t, err)
	assert.True(t, committed)
}

func TestEntityAddedWhileArmedBecomesEligible(t *testing.T) {
	r := newTestRegistry(t)

	require.NoError(t, r.ArmTypeAssignment(TypeAssignment{
		Classification: models.LocationTypeOrigin,
		Filter:         FilterMarkersOnly,
	}))

	point, err := r.Add(marker(5, 5))
	require.NoError(t, err)

	committed, err := r.Click(point.ID)
	require.NoError(t, err)
	assert.True(t, committed)
}

func TestArmUnknownClassificationRejected(t *testing.T) {
	r := newTestRegistry(t)
	err := r.ArmTypeAssignment(TypeAssignment{Classification: "NO_SUCH_TYPE"})
	assert.ErrorIs(t, err, models.ErrLocationTypeNotFound)
	assert.Nil(t, r.Assignment().Armed())
}

func TestReservedLocationTypesNotDeletable(t *testing.T) {
	r := newTestRegistry(t)

	for _, name := range []string{
		models.LocationTypeUnknown,
		models.LocationTypeOrigin,
		models.LocationTypeVertiport,
	} {
		err := r.Types().Delete(name)
		assert.ErrorIs(t, err, models.ErrReservedLocationType, name)
		_, err = r.Types().Get(name)
		assert.NoError(t, err, "%s still present", name)
	}
}

func TestDeleteLocationTypeCascades(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Types().Add(models.LocationType{Name: "FARM", Color: "#00aa00", Uncertainty: 25}))

	farm, _ := r.Add(models.DynamicEntity{
		Geometry:       models.PointGeometry{LatLng: [2]float64{1, 1}},
		Classification: "FARM",
	})
	other, _ := r.Add(marker(2, 2))

	require.NoError(t, r.Types().Delete("FARM"))

	_, err := r.Get(farm.ID)
	assert.ErrorIs(t, err, models.ErrEntityNotFound, "carrying entities removed")
	_, err = r.Get(other.ID)
	assert.NoError(t, err, "unrelated entities survive")
}

func TestRenameRelabelsEntitiesInPlace(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Types().Add(models.LocationType{Name: "DEPOT"}))

	e, _ := r.Add(models.DynamicEntity{
		Geometry:       models.PointGeometry{LatLng: [2]float64{3, 4}},
		Classification: "DEPOT",
	})
	geomBefore := e.Geometry

	assert.True(t, r.Types().Rename("DEPOT", "WAREHOUSE"))
	assert.Equal(t, "WAREHOUSE", e.Classification)
	assert.Equal(t, geomBefore, e.Geometry, "geometry unchanged")
}

func TestRenameDuplicateRejectedWithoutMutation(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Types().Add(models.LocationType{Name: "DEPOT"}))
	require.NoError(t, r.Types().Add(models.LocationType{Name: "WAREHOUSE"}))

	e, _ := r.Add(models.DynamicEntity{
		Geometry:       models.PointGeometry{LatLng: [2]float64{3, 4}},
		Classification: "DEPOT",
	})

	assert.False(t, r.Types().Rename("DEPOT", "WAREHOUSE"), "duplicate rejected as a result, not an error")
	assert.Equal(t, "DEPOT", e.Classification)
	_, err := r.Types().Get("DEPOT")
	assert.NoError(t, err)
}

func TestCommitOperations(t *testing.T) {
	r := newTestRegistry(t)
	e, _ := r.Add(marker(1, 1))

	require.NoError(t, r.CommitColor(e.ID, "#123456"))
	assert.Equal(t, "#123456", e.Color)

	require.NoError(t, r.CommitClassification(e.ID, models.LocationTypeVertiport))
	assert.Equal(t, models.LocationTypeVertiport, e.Classification)

	assert.ErrorIs(t, r.CommitClassification(e.ID, "MISSING"), models.ErrLocationTypeNotFound)

	require.NoError(t, r.CommitUncertainty(e.ID, 42))
	assert.Equal(t, 42.0, e.Uncertainty)
	assert.Error(t, r.CommitUncertainty(e.ID, -1))
}

func TestRemoveReleasesClickTarget(t *testing.T) {
	r := newTestRegistry(t)
	e, _ := r.Add(marker(1, 1))

	require.NoError(t, r.ArmTypeAssignment(TypeAssignment{
		Classification: models.LocationTypeOrigin,
		Filter:         FilterAll,
	}))
	require.NoError(t, r.Remove(e.ID))

	_, err := r.Click(e.ID)
	assert.ErrorIs(t, err, models.ErrEntityNotFound, "no dangling handler after deletion")
}
