package models

import (
	"strings"

	"gorm.io/gorm"
)

// OGData holds the social-preview metadata of a post, at most one per post.
// The slug is established once on creation and never changed through the
// update path. SlugLower backs the case-insensitive uniqueness constraint.
type OGData struct {
	ID                 uint              `gorm:"primaryKey" json:"id"`
	PostID             uint              `gorm:"uniqueIndex;not null" json:"post_id"`
	Title              string            `gorm:"size:255" json:"title"`
	Description        string            `gorm:"type:text" json:"description"`
	Slug               string            `gorm:"size:255;not null" json:"slug"`
	SlugLower          string            `gorm:"size:255;uniqueIndex" json:"-"`
	FileInformationsID *uint             `gorm:"uniqueIndex" json:"file_informations_id,omitempty"`
	File               *FileInformations `gorm:"foreignKey:FileInformationsID" json:"file,omitempty"`
}

// TableName keeps the historical table name.
func (OGData) TableName() string {
	return "og_datas"
}

// BeforeSave keeps SlugLower in sync so the unique index compares slugs
// case-insensitively regardless of which write path touched the row.
func (o *OGData) BeforeSave(tx *gorm.DB) error {
	o.SlugLower = strings.ToLower(o.Slug)
	return nil
}
