package models

import "time"

// Post is the root of the content aggregate. Articles, tag links and OGData
// exist only in relation to a post and are rewritten wholesale on update.
type Post struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:255" json:"name"`
	UserID     uint      `gorm:"index;not null" json:"user_id"`
	CategoryID *uint     `gorm:"index" json:"category_id"`
	Visibility bool      `gorm:"default:true" json:"visibility"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	User     User          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	Category *Category     `json:"category,omitempty"`
	Articles []PostArticle `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"articles"`
	Tags     []PostTag     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"tags"`
	OGData   *OGData       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"og_data,omitempty"`
}

// PostArticle links a post to one of its articles. It carries the position of
// the article within the post plus a copy of the variant tag for fast
// filtering. The submitted order value is stored verbatim, without
// renumbering or uniqueness checks.
type PostArticle struct {
	PostID      uint        `gorm:"primaryKey;autoIncrement:false" json:"post_id"`
	ArticleID   uint        `gorm:"primaryKey;autoIncrement:false" json:"article_id"`
	ArticleType ArticleType `gorm:"size:16;not null" json:"article_type"`
	Order       int         `gorm:"column:sort_order;not null" json:"order"`

	Article Article `json:"article"`
}

// PostTag is the many-to-many link between posts and tags.
type PostTag struct {
	PostID uint `gorm:"primaryKey;autoIncrement:false" json:"post_id"`
	TagID  uint `gorm:"primaryKey;autoIncrement:false" json:"tag_id"`

	Tag Tag `json:"tag"`
}
