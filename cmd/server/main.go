package main

import (
	"log"

	"github.com/probmap/layers-backend-go/internal/api"
	"github.com/probmap/layers-backend-go/internal/compositor"
	"github.com/probmap/layers-backend-go/internal/config"
	"github.com/probmap/layers-backend-go/internal/database"
	"github.com/probmap/layers-backend-go/internal/entity"
	"github.com/probmap/layers-backend-go/internal/handler"
	"github.com/probmap/layers-backend-go/internal/layer"
	"github.com/probmap/layers-backend-go/internal/repository"
	"github.com/probmap/layers-backend-go/internal/service"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(database.Config{Path: cfg.DBPath})
	if err != nil {
		log.Fatal("Failed to initialize database: ", err)
	}
	defer db.Close()

	layerRepo := repository.NewLayerRepository(db)
	entityRepo := repository.NewEntityRepository(db)
	typeRepo := repository.NewLocationTypeRepository(db)

	manager := layer.NewManager()
	comp := compositor.New(compositor.NewMemoryCanvas())
	registry := entity.NewRegistry(entity.NewTypeRegistry())

	layerService := service.NewLayerService(manager, comp, layerRepo)
	entityService := service.NewEntityService(registry, entityRepo, typeRepo)

	if err := layerService.Load(); err != nil {
		log.Fatal("Failed to restore layers: ", err)
	}
	if err := entityService.Load(); err != nil {
		log.Fatal("Failed to restore entities: ", err)
	}

	router := api.SetupRouter(cfg,
		handler.NewLayerHandler(layerService),
		handler.NewEntityHandler(entityService),
	)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
