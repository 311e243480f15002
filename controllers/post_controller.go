package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Lukaspop/Pixel-Dread-website/middleware"
	"github.com/Lukaspop/Pixel-Dread-website/services"
	"github.com/Lukaspop/Pixel-Dread-website/utils"
)

// PostController exposes the post aggregate over HTTP. All aggregate logic
// lives in services.PostService; handlers only bind, map errors and keep
// the read cache fresh.
type PostController struct {
	svc *services.PostService
}

// NewPostController creates a new PostController instance.
func NewPostController(svc *services.PostService) *PostController {
	return &PostController{svc: svc}
}

// ListPosts returns all hydrated posts.
func (p *PostController) ListPosts(ctx *gin.Context) {
	const cacheKey = "cache:posts:list:all"
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(200, "application/json", b)
		return
	}

	posts, err := p.svc.ListPosts(ctx.Request.Context())
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to list posts")
		return
	}

	payload := gin.H{"items": posts}
	utils.CacheSetJSON(cacheKey, utils.JSONResponse{Code: 0, Message: "success", Data: payload}, time.Hour)
	utils.Success(ctx, payload)
}

// GetPost returns a single hydrated post, or 204 when no post matches.
func (p *PostController) GetPost(ctx *gin.Context) {
	id, ok := parseID(ctx, ctx.Param("id"))
	if !ok {
		return
	}

	cacheKey := "cache:post:detail:" + ctx.Param("id")
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(200, "application/json", b)
		return
	}

	post, err := p.svc.GetPost(ctx.Request.Context(), id)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to load post")
		return
	}
	if post == nil {
		ctx.Status(http.StatusNoContent)
		return
	}

	payload := gin.H{"post": post}
	utils.CacheSetJSON(cacheKey, utils.JSONResponse{Code: 0, Message: "success", Data: payload}, time.Hour)
	utils.Success(ctx, payload)
}

// GetPostBySlug resolves a post through its OGData slug.
func (p *PostController) GetPostBySlug(ctx *gin.Context) {
	post, err := p.svc.GetPostBySlug(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to load post")
		return
	}
	utils.Success(ctx, gin.H{"post": post})
}

// SlugExists reports whether a slug is already taken, case-insensitively.
func (p *PostController) SlugExists(ctx *gin.Context) {
	taken, err := p.svc.IsSlugTaken(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to check slug")
		return
	}
	utils.Success(ctx, gin.H{"exists": taken})
}

// GetPostsByCategory lists the posts of one category; 204 when none match.
func (p *PostController) GetPostsByCategory(ctx *gin.Context) {
	categoryID, ok := parseID(ctx, ctx.Param("categoryId"))
	if !ok {
		return
	}
	posts, err := p.svc.ListPostsByCategory(ctx.Request.Context(), categoryID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to list posts")
		return
	}
	if len(posts) == 0 {
		ctx.Status(http.StatusNoContent)
		return
	}
	utils.Success(ctx, gin.H{"items": posts})
}

// CreatePost creates a post with its full child set.
func (p *PostController) CreatePost(ctx *gin.Context) {
	var req services.PostInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	post, err := p.svc.CreatePost(ctx.Request.Context(), userID, req)
	if err != nil {
		writeAggregateError(ctx, err)
		return
	}

	invalidatePostCaches(post.ID)

	ctx.Header("Location", fmt.Sprintf("/api/v1/posts/%d", post.ID))
	utils.Respond(ctx, http.StatusCreated, 0, "success", gin.H{"post": post})
}

// ReplacePost fully replaces a post's article and tag sets and upserts its
// OGData.
func (p *PostController) ReplacePost(ctx *gin.Context) {
	id, ok := parseID(ctx, ctx.Param("id"))
	if !ok {
		return
	}
	var req services.PostInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40024, "invalid request payload")
		return
	}

	post, err := p.svc.ReplacePost(ctx.Request.Context(), id, req)
	if err != nil {
		writeAggregateError(ctx, err)
		return
	}

	invalidatePostCaches(id)
	utils.Success(ctx, gin.H{"post": post})
}

// RenamePost updates only the display name.
func (p *PostController) RenamePost(ctx *gin.Context) {
	id, ok := parseID(ctx, ctx.Param("id"))
	if !ok {
		return
	}
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40025, "invalid request payload")
		return
	}

	post, err := p.svc.RenamePost(ctx.Request.Context(), id, req.Name)
	if err != nil {
		writeAggregateError(ctx, err)
		return
	}

	invalidatePostCaches(id)
	utils.Success(ctx, gin.H{"post": post})
}

// AddTags additively merges tag ids into a post's tag set. Any unknown tag
// id fails the request, unlike the silent skip of Create/Replace.
func (p *PostController) AddTags(ctx *gin.Context) {
	id, ok := parseID(ctx, ctx.Param("id"))
	if !ok {
		return
	}
	var tagIDs []uint
	if err := ctx.ShouldBindJSON(&tagIDs); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40026, "invalid request payload")
		return
	}

	post, err := p.svc.AddTags(ctx.Request.Context(), id, tagIDs)
	if err != nil {
		writeAggregateError(ctx, err)
		return
	}

	invalidatePostCaches(id)
	utils.Success(ctx, gin.H{"post": post})
}

// DeletePost removes the post, its children and the physical files of its
// media articles. Cleanup problems after the committed delete surface as
// warnings, not failures.
func (p *PostController) DeletePost(ctx *gin.Context) {
	id, ok := parseID(ctx, ctx.Param("id"))
	if !ok {
		return
	}

	warnings, err := p.svc.DeletePost(ctx.Request.Context(), id)
	if err != nil {
		writeAggregateError(ctx, err)
		return
	}

	invalidatePostCaches(id)
	utils.Success(ctx, gin.H{"message": "post deleted", "warnings": warnings})
}

func invalidatePostCaches(postID uint) {
	utils.InvalidateByPrefix("cache:posts:list:")
	utils.InvalidateByPrefix("cache:post:detail:" + strconv.Itoa(int(postID)))
}

// writeAggregateError maps service sentinel errors onto status and business
// codes. File-reference misses during a write are client errors, not 404s.
func writeAggregateError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrEmptyAggregate):
		utils.Error(ctx, http.StatusBadRequest, 40021, "post must contain at least one article")
	case errors.Is(err, services.ErrUnauthenticated):
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
	case errors.Is(err, services.ErrMissingReference):
		utils.Error(ctx, http.StatusBadRequest, 40030, "file id is required for media article")
	case errors.Is(err, services.ErrFileNotFound):
		utils.Error(ctx, http.StatusBadRequest, 40031, "file not found")
	case errors.Is(err, services.ErrInvalidReference):
		utils.Error(ctx, http.StatusBadRequest, 40032, "file reference does not resolve")
	case errors.Is(err, services.ErrDuplicateSlug):
		utils.Error(ctx, http.StatusBadRequest, 40033, "slug already taken")
	case errors.Is(err, services.ErrNotFound):
		utils.Error(ctx, http.StatusNotFound, 40401, "not found")
	default:
		utils.Error(ctx, http.StatusInternalServerError, 50020, "operation failed")
	}
}

func parseID(ctx *gin.Context, raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid id")
		return 0, false
	}
	return uint(id), true
}

func getUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		return uint(v), true
	case int64:
		return uint(v), true
	case float64:
		return uint(v), true
	default:
		return 0, false
	}
}
