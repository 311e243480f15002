package services

import "github.com/Lukaspop/Pixel-Dread-website/models"

// ArticleInput describes one article block of an incoming post descriptor.
// Only the fields matching Type are read; the rest are ignored.
type ArticleInput struct {
	Type  models.ArticleType `json:"type"`
	Order int                `json:"order"`

	Content string `json:"content"`

	Question string `json:"question"`
	Answer   string `json:"answer"`

	URL         string  `json:"url"`
	Placeholder *string `json:"placeholder"`

	Description        string `json:"description"`
	Alt                string `json:"alt"`
	FileInformationsID *uint  `json:"file_informations_id"`
}

// OGDataInput describes the social-preview metadata of a descriptor. The
// slug is only honored when the post has no OGData yet.
type OGDataInput struct {
	Title              string `json:"title"`
	Description        string `json:"description"`
	Slug               string `json:"slug"`
	FileInformationsID *uint  `json:"file_informations_id"`
}

// PostInput is the full descriptor consumed by CreatePost and ReplacePost.
type PostInput struct {
	Name       string         `json:"name"`
	CategoryID *uint          `json:"category_id"`
	Articles   []ArticleInput `json:"articles"`
	TagIDs     []uint         `json:"tag_ids"`
	OGData     *OGDataInput   `json:"og_data"`
}
