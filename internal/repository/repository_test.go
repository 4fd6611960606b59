package repository

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probmap/layers-backend-go/internal/database"
	"github.com/probmap/layers-backend-go/internal/models"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestLayerRoundTrip(t *testing.T) {
	db := testDB(t)
	repo := NewLayerRepository(db)

	layer := &models.Layer{
		ID:   7,
		Name: "search area",
		Samples: []models.Sample{
			{Position: [2]float64{0, 0}, Probability: 0.2},
			{Position: [2]float64{0, 1}, Probability: 0.8},
			{Position: [2]float64{1, 0}, Probability: 0.5},
		},
		Hue:         120,
		Opacity:     80,
		RenderMode:  models.RenderModeVoronoi,
		Radius:      5,
		ValueRange:  [2]float64{0.5, 0.8},
		ValueMinMax: [2]float64{0.2, 0.8},
		LatMinMax:   [2]float64{0, 1},
		LonMinMax:   [2]float64{0, 1},
		Visible:     true,
	}
	require.NoError(t, repo.Save(layer, 0))

	loaded, err := repo.LoadAll()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, layer, loaded[0])
}

func TestLayerPositionsOrderLoad(t *testing.T) {
	db := testDB(t)
	repo := NewLayerRepository(db)

	a := &models.Layer{ID: 1, Name: "a", Samples: []models.Sample{{Probability: 1}}}
	b := &models.Layer{ID: 2, Name: "b", Samples: []models.Sample{{Probability: 1}}}
	require.NoError(t, repo.Save(a, 0))
	require.NoError(t, repo.Save(b, 1))

	// Swap the stack and persist the new z-order.
	require.NoError(t, repo.SavePositions([]*models.Layer{b, a}))

	loaded, err := repo.LoadAll()
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, int64(2), loaded[0].ID, "index 0 is topmost")
	assert.Equal(t, int64(1), loaded[1].ID)
}

func TestLayerDelete(t *testing.T) {
	db := testDB(t)
	repo := NewLayerRepository(db)

	require.NoError(t, repo.Save(&models.Layer{ID: 1, Name: "a", Samples: []models.Sample{{}}}, 0))
	require.NoError(t, repo.Save(&models.Layer{ID: 2, Name: "b", Samples: []models.Sample{{}}}, 1))

	require.NoError(t, repo.Delete(1))
	loaded, err := repo.LoadAll()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, int64(2), loaded[0].ID)

	require.NoError(t, repo.DeleteAll())
	loaded, err = repo.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestEntityRoundTrip(t *testing.T) {
	db := testDB(t)
	types := NewLocationTypeRepository(db)
	require.NoError(t, types.Seed())
	repo := NewEntityRepository(db)

	entities := []*models.DynamicEntity{
		{
			ID:             "m1",
			Name:           "launch point",
			Geometry:       models.PointGeometry{LatLng: [2]float64{48.2, 16.4}},
			Classification: models.LocationTypeOrigin,
			Color:          "#ff0000",
			Uncertainty:    10,
			Origin:         models.OriginInternal,
		},
		{
			ID:             "l1",
			Name:           "river",
			Geometry:       models.LineGeometry{LatLngs: [][2]float64{{0, 0}, {0, 1}, {1, 1}}},
			Classification: models.LocationTypeUnknown,
			Origin:         models.OriginExternal,
		},
		{
			ID:   "p1",
			Name: "field",
			Geometry: models.PolygonGeometry{
				Ring:  [][2]float64{{0, 0}, {0, 2}, {2, 2}, {2, 0}},
				Holes: [][][2]float64{{{0.5, 0.5}, {0.5, 1}, {1, 1}}},
			},
			Classification: models.LocationTypeUnknown,
			Uncertainty:    25,
			Origin:         models.OriginInternal,
		},
	}
	for _, e := range entities {
		require.NoError(t, repo.Save(e))
	}

	loaded, err := repo.LoadAll()
	require.NoError(t, err)
	require.Len(t, loaded, 3)
	assert.ElementsMatch(t, entities, loaded)
}

func TestEntityDelete(t *testing.T) {
	db := testDB(t)
	require.NoError(t, NewLocationTypeRepository(db).Seed())
	repo := NewEntityRepository(db)

	require.NoError(t, repo.Save(&models.DynamicEntity{
		ID: "m1", Geometry: models.PointGeometry{}, Classification: models.LocationTypeUnknown,
	}))
	require.NoError(t, repo.Delete("m1"))

	loaded, err := repo.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestLocationTypeSeedIsIdempotent(t *testing.T) {
	db := testDB(t)
	repo := NewLocationTypeRepository(db)

	require.NoError(t, repo.Seed())
	require.NoError(t, repo.Seed())

	types, err := repo.LoadAll()
	require.NoError(t, err)
	assert.Equal(t, models.DefaultLocationTypes(), types)
}

func TestLocationTypeDeleteCascades(t *testing.T) {
	db := testDB(t)
	types := NewLocationTypeRepository(db)
	require.NoError(t, types.Seed())
	require.NoError(t, types.Save(&models.LocationType{Name: "FARM", Color: "#00aa00"}))

	entities := NewEntityRepository(db)
	require.NoError(t, entities.Save(&models.DynamicEntity{
		ID: "p1", Geometry: models.PolygonGeometry{Ring: [][2]float64{{0, 0}, {0, 1}, {1, 0}}},
		Classification: "FARM",
	}))
	require.NoError(t, entities.Save(&models.DynamicEntity{
		ID: "m1", Geometry: models.PointGeometry{}, Classification: models.LocationTypeUnknown,
	}))

	require.NoError(t, types.Delete("FARM"))

	loaded, err := entities.LoadAll()
	require.NoError(t, err)
	require.Len(t, loaded, 1, "FARM entities removed with their type")
	assert.Equal(t, "m1", loaded[0].ID)
}

func TestLocationTypeRenameRelabelsEntities(t *testing.T) {
	db := testDB(t)
	types := NewLocationTypeRepository(db)
	require.NoError(t, types.Seed())
	require.NoError(t, types.Save(&models.LocationType{Name: "FARM"}))

	entities := NewEntityRepository(db)
	require.NoError(t, entities.Save(&models.DynamicEntity{
		ID: "m1", Geometry: models.PointGeometry{}, Classification: "FARM",
	}))

	require.NoError(t, types.Rename("FARM", "RANCH"))

	loaded, err := entities.LoadAll()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "RANCH", loaded[0].Classification)

	all, err := types.LoadAll()
	require.NoError(t, err)
	names := make([]string, 0, len(all))
	for _, lt := range all {
		names = append(names, lt.Name)
	}
	assert.Contains(t, names, "RANCH")
	assert.NotContains(t, names, "FARM")
}
