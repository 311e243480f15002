package models

// ArticleType discriminates the variant stored in an Article row.
type ArticleType string

const (
	ArticleTypeText  ArticleType = "text"
	ArticleTypeFAQ   ArticleType = "faq"
	ArticleTypeLink  ArticleType = "link"
	ArticleTypeMedia ArticleType = "media"
)

// Article is one block of a post's body. All four variants share a single
// table; Type selects which of the per-variant columns are meaningful.
// An article belongs to exactly one post and is never shared.
type Article struct {
	ID     uint        `gorm:"primaryKey" json:"id"`
	PostID uint        `gorm:"index;not null" json:"post_id"`
	Type   ArticleType `gorm:"size:16;not null;index" json:"type"`

	// text
	Content string `gorm:"type:text" json:"content,omitempty"`

	// faq
	Question string `gorm:"type:text" json:"question,omitempty"`
	Answer   string `gorm:"type:text" json:"answer,omitempty"`

	// link
	URL         string  `gorm:"size:2048" json:"url,omitempty"`
	Placeholder *string `gorm:"size:255" json:"placeholder,omitempty"`

	// media; a file backs at most one media article
	Description        string            `gorm:"type:text" json:"description,omitempty"`
	Alt                string            `gorm:"size:255" json:"alt,omitempty"`
	FileInformationsID *uint             `gorm:"uniqueIndex" json:"file_informations_id,omitempty"`
	File               *FileInformations `gorm:"foreignKey:FileInformationsID" json:"file,omitempty"`
}
