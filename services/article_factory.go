package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/Lukaspop/Pixel-Dread-website/models"
	"github.com/Lukaspop/Pixel-Dread-website/utils"
)

// buildArticle materializes one article variant from its descriptor.
// The second return value reports whether the descriptor was recognized:
// an unknown variant tag yields (nil, false, nil) and the caller skips the
// entry, so submitted and persisted article counts may differ.
//
// Text, FAQ and Link fields default to empty strings when absent. Media is
// the only variant with a hard requirement: a file id that resolves to an
// uploaded file.
func buildArticle(tx *gorm.DB, postID uint, in ArticleInput) (*models.Article, bool, error) {
	article := models.Article{PostID: postID, Type: in.Type}

	switch in.Type {
	case models.ArticleTypeText:
		article.Content = utils.Sanitize(in.Content)
	case models.ArticleTypeFAQ:
		article.Question = utils.Sanitize(in.Question)
		article.Answer = utils.Sanitize(in.Answer)
	case models.ArticleTypeLink:
		article.URL = in.URL
		article.Placeholder = in.Placeholder
	case models.ArticleTypeMedia:
		if in.FileInformationsID == nil {
			return nil, true, ErrMissingReference
		}
		var file models.FileInformations
		if err := tx.First(&file, *in.FileInformationsID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, true, ErrFileNotFound
			}
			return nil, true, err
		}
		article.Description = in.Description
		article.Alt = in.Alt
		article.FileInformationsID = &file.ID
	default:
		return nil, false, nil
	}

	return &article, true, nil
}
