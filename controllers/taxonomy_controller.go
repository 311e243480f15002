package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Lukaspop/Pixel-Dread-website/services"
	"github.com/Lukaspop/Pixel-Dread-website/utils"
)

// TaxonomyController handles category and tag management.
type TaxonomyController struct {
	svc *services.TaxonomyService
}

// NewTaxonomyController creates a new TaxonomyController instance.
func NewTaxonomyController(svc *services.TaxonomyService) *TaxonomyController {
	return &TaxonomyController{svc: svc}
}

// ListCategories returns all categories.
func (t *TaxonomyController) ListCategories(ctx *gin.Context) {
	categories, err := t.svc.ListCategories(ctx.Request.Context())
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to list categories")
		return
	}
	utils.Success(ctx, gin.H{"items": categories})
}

// CreateCategory adds a category.
func (t *TaxonomyController) CreateCategory(ctx *gin.Context) {
	name, ok := bindName(ctx)
	if !ok {
		return
	}
	category, err := t.svc.CreateCategory(ctx.Request.Context(), name)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to create category")
		return
	}
	utils.Respond(ctx, http.StatusCreated, 0, "success", gin.H{"category": category})
}

// RenameCategory updates a category name.
func (t *TaxonomyController) RenameCategory(ctx *gin.Context) {
	id, ok := parseID(ctx, ctx.Param("id"))
	if !ok {
		return
	}
	name, ok := bindName(ctx)
	if !ok {
		return
	}
	category, err := t.svc.RenameCategory(ctx.Request.Context(), id, name)
	if err != nil {
		writeTaxonomyError(ctx, err, "failed to rename category")
		return
	}
	utils.Success(ctx, gin.H{"category": category})
}

// DeleteCategory removes a category; posts keep existing uncategorized.
func (t *TaxonomyController) DeleteCategory(ctx *gin.Context) {
	id, ok := parseID(ctx, ctx.Param("id"))
	if !ok {
		return
	}
	if err := t.svc.DeleteCategory(ctx.Request.Context(), id); err != nil {
		writeTaxonomyError(ctx, err, "failed to delete category")
		return
	}
	utils.InvalidateByPrefix("cache:posts:list:")
	utils.Success(ctx, gin.H{"message": "category deleted"})
}

// ListTags returns all tags.
func (t *TaxonomyController) ListTags(ctx *gin.Context) {
	tags, err := t.svc.ListTags(ctx.Request.Context())
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to list tags")
		return
	}
	utils.Success(ctx, gin.H{"items": tags})
}

// CreateTag adds a tag.
func (t *TaxonomyController) CreateTag(ctx *gin.Context) {
	name, ok := bindName(ctx)
	if !ok {
		return
	}
	tag, err := t.svc.CreateTag(ctx.Request.Context(), name)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50034, "failed to create tag")
		return
	}
	utils.Respond(ctx, http.StatusCreated, 0, "success", gin.H{"tag": tag})
}

// DeleteTag removes a tag and its post links.
func (t *TaxonomyController) DeleteTag(ctx *gin.Context) {
	id, ok := parseID(ctx, ctx.Param("id"))
	if !ok {
		return
	}
	if err := t.svc.DeleteTag(ctx.Request.Context(), id); err != nil {
		writeTaxonomyError(ctx, err, "failed to delete tag")
		return
	}
	utils.InvalidateByPrefix("cache:posts:list:")
	utils.Success(ctx, gin.H{"message": "tag deleted"})
}

func bindName(ctx *gin.Context) (string, bool) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40050, "name is required")
		return "", false
	}
	return req.Name, true
}

func writeTaxonomyError(ctx *gin.Context, err error, fallback string) {
	if errors.Is(err, services.ErrNotFound) {
		utils.Error(ctx, http.StatusNotFound, 40401, "not found")
		return
	}
	utils.Error(ctx, http.StatusInternalServerError, 50030, fallback)
}
