package main

import (
	"github.com/Lukaspop/Pixel-Dread-website/config"
	"github.com/Lukaspop/Pixel-Dread-website/models"
	"github.com/Lukaspop/Pixel-Dread-website/routes"
	"github.com/Lukaspop/Pixel-Dread-website/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.Category{},
		&models.Tag{},
		&models.FileInformations{},
		&models.Post{},
		&models.Article{},
		&models.PostArticle{},
		&models.PostTag{},
		&models.OGData{},
	)

	config.SeedDefaults(db)

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
