package models

// Category groups posts. A post references at most one category; deleting a
// category never deletes posts, their reference is nulled instead.
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:255;not null" json:"name"`
}
