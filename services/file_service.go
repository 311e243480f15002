package services

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Lukaspop/Pixel-Dread-website/models"
)

// FileService owns uploaded files: the FileInformations rows in the
// database and the physical bytes under the upload root.
type FileService struct {
	db   *gorm.DB
	root string
	log  *zap.SugaredLogger
}

// NewFileService creates a FileService storing files under root.
func NewFileService(db *gorm.DB, root string, log *zap.SugaredLogger) *FileService {
	return &FileService{db: db, root: root, log: log}
}

// Resolve looks up an uploaded-file record by id. It never mutates; callers
// attach the returned row to media articles or OGData. Lookups run on the
// caller's transaction handle so writes observe a consistent snapshot.
func (s *FileService) Resolve(tx *gorm.DB, id uint) (*models.FileInformations, error) {
	var file models.FileInformations
	if err := tx.First(&file, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	return &file, nil
}

// Save stores the uploaded bytes under a date-partitioned path with a
// uuid-prefixed name to avoid collisions, and records the file row.
func (s *FileService) Save(name string, r io.Reader) (*models.FileInformations, error) {
	now := time.Now()
	dir := filepath.Join(s.root, now.Format("2006"), now.Format("01"), now.Format("02"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}

	base := filepath.Base(name)
	if base == "." || base == "" {
		base = fmt.Sprintf("file_%d", now.UnixNano())
	}
	dst := filepath.Join(dir, uuid.NewString()+"_"+base)

	out, err := os.Create(dst)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	written, err := io.Copy(out, r)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dst)
		return nil, fmt.Errorf("write file: %w", err)
	}

	uploadedAt := now
	file := models.FileInformations{
		FileName:   base,
		FilePath:   dst,
		FileSize:   written,
		UploadedAt: &uploadedAt,
	}
	if err := s.db.Create(&file).Error; err != nil {
		_ = os.Remove(dst)
		return nil, err
	}
	return &file, nil
}

// RemovePhysical deletes the bytes on disk. A file that is already gone is
// not an error; cleanup must be idempotent.
func (s *FileService) RemovePhysical(file *models.FileInformations) error {
	if file.FilePath == "" {
		return nil
	}
	if err := os.Remove(file.FilePath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// CleanupFiles removes physical content and then the database row for each
// collected file. It runs only after the transaction that detached the
// references has committed. Failures are isolated per file: the batch
// continues and every failure comes back as a warning string.
func (s *FileService) CleanupFiles(files []models.FileInformations) []string {
	var warnings []string
	for _, file := range files {
		if err := s.RemovePhysical(&file); err != nil {
			s.log.Warnf("physical delete failed for file %d (%s): %v", file.ID, file.FilePath, err)
			warnings = append(warnings, fmt.Sprintf("file %d: %v", file.ID, err))
		}
		// Remove row regardless of the physical deletion outcome.
		if err := s.db.Delete(&models.FileInformations{}, file.ID).Error; err != nil {
			s.log.Warnf("row delete failed for file %d: %v", file.ID, err)
			warnings = append(warnings, fmt.Sprintf("file %d row: %v", file.ID, err))
		}
	}
	return warnings
}
