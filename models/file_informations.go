package models

import "time"

// FileInformations records a previously uploaded physical file. It is not
// owned by any single aggregate: a media article or an OGData record may
// reference it, each through a unique foreign key. Physical bytes live on
// disk at FilePath and are removed only after the referencing rows are gone.
type FileInformations struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	FileName   string     `gorm:"size:255;not null" json:"file_name"`
	FilePath   string     `gorm:"size:1024;not null" json:"file_path"`
	FileSize   int64      `json:"file_size"`
	UploadedAt *time.Time `json:"uploaded_at"`
}

// TableName keeps the historical table name.
func (FileInformations) TableName() string {
	return "file_informations"
}
