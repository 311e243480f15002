package config

import (
	stdlog "log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Lukaspop/Pixel-Dread-website/models"
)

// defaultCategories are created on first boot against an empty schema.
var defaultCategories = []string{"Blog", "FAQ", "PatchNotes"}

// SeedDefaults inserts the built-in categories and the admin user when they
// are missing. Safe to run on every boot.
func SeedDefaults(db *gorm.DB) {
	for _, name := range defaultCategories {
		var count int64
		if err := db.Model(&models.Category{}).Where("name = ?", name).Count(&count).Error; err != nil {
			stdlog.Printf("seed category %s: %v", name, err)
			continue
		}
		if count == 0 {
			if err := db.Create(&models.Category{Name: name}).Error; err != nil {
				stdlog.Printf("seed category %s: %v", name, err)
			}
		}
	}

	cfg := Get()
	if cfg.AdminPassword == "" {
		return
	}
	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", cfg.AdminUsername).Count(&count).Error; err != nil || count > 0 {
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		stdlog.Printf("seed admin user: %v", err)
		return
	}
	if err := db.Create(&models.User{Username: cfg.AdminUsername, PasswordHash: string(hash)}).Error; err != nil {
		stdlog.Printf("seed admin user: %v", err)
	}
}
