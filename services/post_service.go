package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Lukaspop/Pixel-Dread-website/models"
	"github.com/Lukaspop/Pixel-Dread-website/utils"
)

// PostService orchestrates the post aggregate: creation and replacement of
// the full child set (articles, tag links, OGData) in one transaction per
// operation, plus the hydrated read side.
type PostService struct {
	db    *gorm.DB
	files *FileService
	log   *zap.SugaredLogger
}

// NewPostService creates a PostService.
func NewPostService(db *gorm.DB, files *FileService, log *zap.SugaredLogger) *PostService {
	return &PostService{db: db, files: files, log: log}
}

// hydrated returns a query loading the full read-model of a post: category,
// author, tag set, articles ordered by their position, and OGData with its
// attached file.
func (s *PostService) hydrated(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("User").
		Preload("Category").
		Preload("Tags.Tag").
		Preload("Articles", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("sort_order ASC")
		}).
		Preload("Articles.Article.File").
		Preload("OGData.File")
}

// CreatePost persists a new post together with its whole child set. The
// operation is all-or-nothing: any article validation failure aborts the
// transaction and leaves no partial aggregate behind. userID is the
// authenticated principal passed in by the caller.
func (s *PostService) CreatePost(ctx context.Context, userID uint, in PostInput) (*models.Post, error) {
	if len(in.Articles) == 0 {
		return nil, ErrEmptyAggregate
	}
	if userID == 0 {
		return nil, ErrUnauthenticated
	}

	var postID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post := models.Post{
			Name:       in.Name,
			UserID:     userID,
			CategoryID: in.CategoryID,
			Visibility: true,
		}
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		if err := s.writeArticles(tx, post.ID, in.Articles); err != nil {
			return err
		}
		if err := s.writeTags(tx, post.ID, in.TagIDs); err != nil {
			return err
		}
		if in.OGData != nil {
			if err := s.createOGData(tx, post.ID, *in.OGData); err != nil {
				return err
			}
		}
		postID = post.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.getByID(ctx, postID)
}

// ReplacePost updates the post's scalar fields and destructively replaces
// its article set and tag set from the descriptor. OGData is upserted with
// an immutable slug: an existing record only takes title, description and
// file changes; the descriptor slug is honored only when no OGData exists.
func (s *PostService) ReplacePost(ctx context.Context, id uint, in PostInput) (*models.Post, error) {
	if len(in.Articles) == 0 {
		return nil, ErrEmptyAggregate
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if err := tx.Model(&post).Select("name", "category_id").
			Updates(map[string]interface{}{"name": in.Name, "category_id": in.CategoryID}).Error; err != nil {
			return err
		}

		// Files referenced by media articles being dropped keep both their
		// rows and physical bytes; only whole-post deletion cleans them up.
		// Surface the orphans instead of silently replicating the gap.
		var orphaned []uint
		if err := tx.Model(&models.Article{}).
			Where("post_id = ? AND type = ? AND file_informations_id IS NOT NULL", id, models.ArticleTypeMedia).
			Pluck("file_informations_id", &orphaned).Error; err != nil {
			return err
		}
		if len(orphaned) > 0 {
			s.log.Warnf("replace of post %d leaves file rows %v without an owning article", id, orphaned)
		}

		if err := tx.Where("post_id = ?", id).Delete(&models.PostArticle{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Article{}).Error; err != nil {
			return err
		}
		if err := s.writeArticles(tx, id, in.Articles); err != nil {
			return err
		}

		if err := tx.Where("post_id = ?", id).Delete(&models.PostTag{}).Error; err != nil {
			return err
		}
		if err := s.writeTags(tx, id, in.TagIDs); err != nil {
			return err
		}

		if in.OGData != nil {
			var og models.OGData
			err := tx.Where("post_id = ?", id).First(&og).Error
			switch {
			case err == nil:
				return s.updateOGData(tx, &og, *in.OGData)
			case errors.Is(err, gorm.ErrRecordNotFound):
				return s.createOGData(tx, id, *in.OGData)
			default:
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.getByID(ctx, id)
}

// RenamePost updates only the display name.
func (s *PostService) RenamePost(ctx context.Context, id uint, name string) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&post).Update("name", name).Error; err != nil {
		return nil, err
	}
	return s.getByID(ctx, id)
}

// AddTags merges tag ids into the post's tag set without touching existing
// links. Unlike the full-set reconciliation in Create/Replace, an unknown
// tag id here is a hard NotFound. Tags processed before the failing id stay
// linked; the merge is applied link by link, not atomically.
func (s *PostService) AddTags(ctx context.Context, id uint, tagIDs []uint) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	for _, tagID := range utils.UniqueUint(tagIDs) {
		var tag models.Tag
		if err := s.db.WithContext(ctx).First(&tag, tagID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("tag %d: %w", tagID, ErrNotFound)
			}
			return nil, err
		}
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.PostTag{}).
			Where("post_id = ? AND tag_id = ?", id, tagID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			continue
		}
		if err := s.db.WithContext(ctx).Create(&models.PostTag{PostID: id, TagID: tagID}).Error; err != nil {
			return nil, err
		}
	}
	return s.getByID(ctx, id)
}

// DeletePost removes the post and everything owned by it. Files referenced
// by its media articles are collected first; their physical content and
// rows are cleaned up only after the delete transaction has committed, so
// cleanup never runs against a post that still logically exists. Per-file
// cleanup failures come back as warnings, never as a failed delete.
func (s *PostService) DeletePost(ctx context.Context, id uint) ([]string, error) {
	var files []models.FileInformations
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var articles []models.Article
		if err := tx.Where("post_id = ? AND type = ?", id, models.ArticleTypeMedia).
			Find(&articles).Error; err != nil {
			return err
		}
		for _, article := range articles {
			if article.FileInformationsID == nil {
				continue
			}
			file, err := s.files.Resolve(tx, *article.FileInformationsID)
			if err != nil {
				if errors.Is(err, ErrNotFound) {
					continue
				}
				return err
			}
			files = append(files, *file)
		}

		for _, child := range []interface{}{
			&models.PostArticle{}, &models.Article{}, &models.PostTag{}, &models.OGData{},
		} {
			if err := tx.Where("post_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		return nil, err
	}
	return s.files.CleanupFiles(files), nil
}

// GetPost returns the hydrated post or (nil, nil) when no post matches,
// which callers translate into an empty "no content" response.
func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := s.hydrated(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// GetPostBySlug resolves a post through its OGData slug (exact match).
func (s *PostService) GetPostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var og models.OGData
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&og).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	post, err := s.GetPost(ctx, og.PostID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	return post, nil
}

// ListPosts returns all hydrated posts, newest first.
func (s *PostService) ListPosts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	if err := s.hydrated(ctx).Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// ListPostsByCategory returns the hydrated posts of one category. Zero
// matches yield an empty slice, not an error.
func (s *PostService) ListPostsByCategory(ctx context.Context, categoryID uint) ([]models.Post, error) {
	var posts []models.Post
	if err := s.hydrated(ctx).Where("category_id = ?", categoryID).
		Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// IsSlugTaken reports whether any post's OGData uses the slug, compared
// case-insensitively.
func (s *PostService) IsSlugTaken(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.OGData{}).
		Where("slug_lower = ?", strings.ToLower(slug)).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// getByID reloads the hydrated post after a write; the row must exist.
func (s *PostService) getByID(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	return post, nil
}

// writeArticles materializes and persists the article set, then the join
// rows carrying the variant tag and the submitted order verbatim. Unknown
// variant tags are skipped; a new article row must exist before the join
// row referencing it is written.
func (s *PostService) writeArticles(tx *gorm.DB, postID uint, inputs []ArticleInput) error {
	for _, in := range inputs {
		article, ok, err := buildArticle(tx, postID, in)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err := tx.Create(article).Error; err != nil {
			return err
		}
		join := models.PostArticle{
			PostID:      postID,
			ArticleID:   article.ID,
			ArticleType: article.Type,
			Order:       in.Order,
		}
		if err := tx.Create(&join).Error; err != nil {
			return err
		}
	}
	return nil
}

// writeTags inserts a join row for every submitted tag id that resolves to
// an existing tag. Unknown ids are dropped silently.
func (s *PostService) writeTags(tx *gorm.DB, postID uint, tagIDs []uint) error {
	for _, tagID := range utils.UniqueUint(tagIDs) {
		var tag models.Tag
		if err := tx.First(&tag, tagID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return err
		}
		if err := tx.Create(&models.PostTag{PostID: postID, TagID: tag.ID}).Error; err != nil {
			return err
		}
	}
	return nil
}

// createOGData establishes a post's OGData including its slug. The
// pre-check gives the friendly duplicate error; the unique index on the
// lowercased slug closes the race between concurrent creates.
func (s *PostService) createOGData(tx *gorm.DB, postID uint, in OGDataInput) error {
	taken, err := s.slugTaken(tx, in.Slug)
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicateSlug
	}

	og := models.OGData{
		PostID:      postID,
		Title:       in.Title,
		Description: in.Description,
		Slug:        in.Slug,
	}
	if in.FileInformationsID != nil {
		file, err := s.files.Resolve(tx, *in.FileInformationsID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return ErrInvalidReference
			}
			return err
		}
		og.FileInformationsID = &file.ID
	}
	if err := tx.Create(&og).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateSlug
		}
		return err
	}
	return nil
}

// updateOGData changes title, description and optionally the attached file
// of an existing record. The stored slug is kept regardless of what the
// descriptor carries.
func (s *PostService) updateOGData(tx *gorm.DB, og *models.OGData, in OGDataInput) error {
	og.Title = in.Title
	og.Description = in.Description
	if in.FileInformationsID != nil {
		file, err := s.files.Resolve(tx, *in.FileInformationsID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return ErrInvalidReference
			}
			return err
		}
		og.FileInformationsID = &file.ID
	}
	return tx.Save(og).Error
}

func (s *PostService) slugTaken(tx *gorm.DB, slug string) (bool, error) {
	var count int64
	if err := tx.Model(&models.OGData{}).
		Where("slug_lower = ?", strings.ToLower(slug)).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
