package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Lukaspop/Pixel-Dread-website/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Tag{},
		&models.FileInformations{},
		&models.Post{},
		&models.Article{},
		&models.PostArticle{},
		&models.PostTag{},
		&models.OGData{},
	))
	return db
}

func newTestServices(t *testing.T) (*PostService, *FileService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	log := zap.NewNop().Sugar()
	files := NewFileService(db, t.TempDir(), log)
	return NewPostService(db, files, log), files, db
}

func seedUser(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	user := models.User{Username: "editor", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedCategory(t *testing.T, db *gorm.DB, name string) models.Category {
	t.Helper()
	category := models.Category{Name: name}
	require.NoError(t, db.Create(&category).Error)
	return category
}

func seedTag(t *testing.T, db *gorm.DB, name string) models.Tag {
	t.Helper()
	tag := models.Tag{Name: name}
	require.NoError(t, db.Create(&tag).Error)
	return tag
}

// seedFile writes a real file to disk and records it, mirroring what an
// upload through FileService.Save leaves behind.
func seedFile(t *testing.T, db *gorm.DB, dir, name string) models.FileInformations {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("payload"), 0o644))
	uploadedAt := time.Now()
	file := models.FileInformations{
		FileName:   name,
		FilePath:   path,
		FileSize:   7,
		UploadedAt: &uploadedAt,
	}
	require.NoError(t, db.Create(&file).Error)
	return file
}

func textArticle(order int, content string) ArticleInput {
	return ArticleInput{Type: models.ArticleTypeText, Order: order, Content: content}
}

func mediaArticle(order int, fileID *uint) ArticleInput {
	return ArticleInput{Type: models.ArticleTypeMedia, Order: order, FileInformationsID: fileID}
}

func countRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var count int64
	tx := db.Model(model)
	if query != "" {
		tx = tx.Where(query, args...)
	}
	require.NoError(t, tx.Count(&count).Error)
	return count
}
