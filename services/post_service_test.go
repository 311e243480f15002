package services

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lukaspop/Pixel-Dread-website/models"
)

func TestCreatePostRequiresArticles(t *testing.T) {
	svc, _, db := newTestServices(t)
	user := seedUser(t, db)

	_, err := svc.CreatePost(context.Background(), user.ID, PostInput{Name: "empty"})
	assert.ErrorIs(t, err, ErrEmptyAggregate)

	assert.EqualValues(t, 0, countRows(t, db, &models.Post{}, ""))
}

func TestCreatePostRequiresPrincipal(t *testing.T) {
	svc, _, _ := newTestServices(t)

	_, err := svc.CreatePost(context.Background(), 0, PostInput{
		Name:     "orphan",
		Articles: []ArticleInput{textArticle(1, "hello")},
	})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestCreatePostKeepsSubmittedOrderVerbatim(t *testing.T) {
	svc, _, db := newTestServices(t)
	user := seedUser(t, db)

	post, err := svc.CreatePost(context.Background(), user.ID, PostInput{
		Name: "ordered",
		Articles: []ArticleInput{
			textArticle(7, "third"),
			textArticle(2, "first"),
			textArticle(5, "second"),
		},
	})
	require.NoError(t, err)
	require.Len(t, post.Articles, 3)

	// Hydration sorts by position; the stored values stay non-contiguous.
	assert.Equal(t, []int{2, 5, 7}, []int{post.Articles[0].Order, post.Articles[1].Order, post.Articles[2].Order})
	assert.Equal(t, "first", post.Articles[0].Article.Content)
	assert.Equal(t, "second", post.Articles[1].Article.Content)
	assert.Equal(t, "third", post.Articles[2].Article.Content)
}

func TestCreatePostSkipsUnknownVariant(t *testing.T) {
	svc, _, db := newTestServices(t)
	user := seedUser(t, db)

	post, err := svc.CreatePost(context.Background(), user.ID, PostInput{
		Name: "mixed",
		Articles: []ArticleInput{
			textArticle(1, "kept"),
			{Type: "carousel", Order: 2},
		},
	})
	require.NoError(t, err)
	assert.Len(t, post.Articles, 1)
	assert.Equal(t, models.ArticleTypeText, post.Articles[0].ArticleType)
}

func TestCreatePostSanitizesTextAndFAQ(t *testing.T) {
	svc, _, db := newTestServices(t)
	user := seedUser(t, db)

	post, err := svc.CreatePost(context.Background(), user.ID, PostInput{
		Name: "unsafe",
		Articles: []ArticleInput{
			textArticle(1, `<p>fine</p><script>alert(1)</script>`),
			{Type: models.ArticleTypeFAQ, Order: 2, Question: `<img src=x onerror=alert(1)>q`, Answer: "a"},
		},
	})
	require.NoError(t, err)
	require.Len(t, post.Articles, 2)

	assert.NotContains(t, post.Articles[0].Article.Content, "<script>")
	assert.Contains(t, post.Articles[0].Article.Content, "<p>fine</p>")
	assert.NotContains(t, post.Articles[1].Article.Question, "onerror")
}

func TestCreatePostMediaWithoutFileID(t *testing.T) {
	svc, _, db := newTestServices(t)
	user := seedUser(t, db)

	_, err := svc.CreatePost(context.Background(), user.ID, PostInput{
		Name:     "media",
		Articles: []ArticleInput{mediaArticle(1, nil)},
	})
	assert.ErrorIs(t, err, ErrMissingReference)
	assert.EqualValues(t, 0, countRows(t, db, &models.Post{}, ""))
}

func TestCreatePostMediaUnknownFileRollsBack(t *testing.T) {
	svc, _, db := newTestServices(t)
	user := seedUser(t, db)
	missing := uint(999)

	_, err := svc.CreatePost(context.Background(), user.ID, PostInput{
		Name: "media",
		Articles: []ArticleInput{
			textArticle(1, "valid"),
			mediaArticle(2, &missing),
		},
	})
	assert.ErrorIs(t, err, ErrFileNotFound)
	assert.ErrorIs(t, err, ErrNotFound)

	// The valid article written before the failure must not survive.
	assert.EqualValues(t, 0, countRows(t, db, &models.Post{}, ""))
	assert.EqualValues(t, 0, countRows(t, db, &models.Article{}, ""))
}

func TestCreatePostSilentlySkipsUnknownTags(t *testing.T) {
	svc, _, db := newTestServices(t)
	user := seedUser(t, db)
	tag := seedTag(t, db, "release")

	post, err := svc.CreatePost(context.Background(), user.ID, PostInput{
		Name:     "tagged",
		Articles: []ArticleInput{textArticle(1, "body")},
		TagIDs:   []uint{tag.ID, 4242, tag.ID},
	})
	require.NoError(t, err)
	require.Len(t, post.Tags, 1)
	assert.Equal(t, tag.ID, post.Tags[0].TagID)
}

func TestCreatePostWithOGDataAndFile(t *testing.T) {
	svc, _, db := newTestServices(t)
	user := seedUser(t, db)
	file := seedFile(t, db, t.TempDir(), "cover.png")

	post, err := svc.CreatePost(context.Background(), user.ID, PostInput{
		Name:     "announced",
		Articles: []ArticleInput{textArticle(1, "body")},
		OGData: &OGDataInput{
			Title:              "Announcement",
			Description:        "big news",
			Slug:               "Big-News",
			FileInformationsID: &file.ID,
		},
	})
	require.NoError(t, err)
	require.NotNil(t, post.OGData)
	assert.Equal(t, "Big-News", post.OGData.Slug)
	require.NotNil(t, post.OGData.File)
	assert.Equal(t, file.ID, post.OGData.File.ID)
}

func TestCreatePostOGDataUnknownFile(t *testing.T) {
	svc, _, db := newTestServices(t)
	user := seedUser(t, db)
	missing := uint(321)

	_, err := svc.CreatePost(context.Background(), user.ID, PostInput{
		Name:     "broken preview",
		Articles: []ArticleInput{textArticle(1, "body")},
		OGData:   &OGDataInput{Slug: "broken", FileInformationsID: &missing},
	})
	assert.ErrorIs(t, err, ErrInvalidReference)
	assert.EqualValues(t, 0, countRows(t, db, &models.Post{}, ""))
}

func TestDuplicateSlugIsCaseInsensitive(t *testing.T) {
	svc, _, db := newTestServices(t)
	user := seedUser(t, db)

	_, err := svc.CreatePost(context.Background(), user.ID, PostInput{
		Name:     "one",
		Articles: []ArticleInput{textArticle(1, "a")},
		OGData:   &OGDataInput{Slug: "My-Post"},
	})
	require.NoError(t, err)

	_, err = svc.CreatePost(context.Background(), user.ID, PostInput{
		Name:     "two",
		Articles: []ArticleInput{textArticle(1, "b")},
		OGData:   &OGDataInput{Slug: "my-post"},
	})
	assert.ErrorIs(t, err, ErrDuplicateSlug)

	// The whole second aggregate rolled back, not just its OGData.
	assert.EqualValues(t, 1, countRows(t, db, &models.Post{}, ""))
}

func TestIsSlugTakenIgnoresCase(t *testing.T) {
	svc, _, db := newTestServices(t)
	user := seedUser(t, db)

	_, err := svc.CreatePost(context.Background(), user.ID, PostInput{
		Name:     "one",
		Articles: []ArticleInput{textArticle(1, "a")},
		OGData:   &OGDataInput{Slug: "Patch-1-0"},
	})
	require.NoError(t, err)

	taken, err := svc.IsSlugTaken(context.Background(), "PATCH-1-0")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = svc.IsSlugTaken(context.Background(), "patch-1-1")
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestReplacePostIsDestructive(t *testing.T) {
	svc, _, db := newTestServices(t)
	user := seedUser(t, db)
	category := seedCategory(t, db, "Blog")
	oldTag := seedTag(t, db, "old")
	newTag := seedTag(t, db, "new")

	post, err := svc.CreatePost(context.Background(), user.ID, PostInput{
		Name:     "before",
		Articles: []ArticleInput{textArticle(1, "a"), textArticle(2, "b")},
		TagIDs:   []uint{oldTag.ID},
	})
	require.NoError(t, err)

	replaced, err := svc.ReplacePost(context.Background(), post.ID, PostInput{
		Name:       "after",
		CategoryID: &category.ID,
		Articles:   []ArticleInput{textArticle(10, "c")},
		TagIDs:     []uint{newTag.ID},
	})
	require.NoError(t, err)

	assert.Equal(t, "after", replaced.Name)
	require.NotNil(t, replaced.Category)
	assert.Equal(t, "Blog", replaced.Category.Name)

	require.Len(t, replaced.Articles, 1)
	assert.Equal(t, "c", replaced.Articles[0].Article.Content)
	assert.Equal(t, 10, replaced.Articles[0].Order)

	require.Len(t, replaced.Tags, 1)
	assert.Equal(t, newTag.ID, replaced.Tags[0].TagID)

	// No stale child rows survive the rewrite.
	assert.EqualValues(t, 1, countRows(t, db, &models.Article{}, "post_id = ?", post.ID))
	assert.EqualValues(t, 1, countRows(t, db, &models.PostArticle{}, "post_id = ?", post.ID))
	assert.EqualValues(t, 1, countRows(t, db, &models.PostTag{}, "post_id = ?", post.ID))
}

func TestReplacePostKeepsSlug(t *testing.T) {
	svc, _, db := newTestServices(t)
	user := seedUser(t, db)

	post, err := svc.CreatePost(context.Background(), user.ID, PostInput{
		Name:     "slugged",
		Articles: []ArticleInput{textArticle(1, "a")},
		OGData:   &OGDataInput{Title: "old title", Slug: "forever"},
	})
	require.NoError(t, err)

	replaced, err := svc.ReplacePost(context.Background(), post.ID, PostInput{
		Name:     "slugged",
		Articles: []ArticleInput{textArticle(1, "a2")},
		OGData:   &OGDataInput{Title: "new title", Slug: "changed"},
	})
	require.NoError(t, err)

	require.NotNil(t, replaced.OGData)
	assert.Equal(t, "forever", replaced.OGData.Slug)
	assert.Equal(t, "new title", replaced.OGData.Title)

	taken, err := svc.IsSlugTaken(context.Background(), "changed")
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestReplacePostCreatesOGDataWhenMissing(t *testing.T) {
	svc, _, db := newTestServices(t)
	user := seedUser(t, db)

	post, err := svc.CreatePost(context.Background(), user.ID, PostInput{
		Name:     "bare",
		Articles: []ArticleInput{textArticle(1, "a")},
	})
	require.NoError(t, err)
	require.Nil(t, post.OGData)

	replaced, err := svc.ReplacePost(context.Background(), post.ID, PostInput{
		Name:     "bare",
		Articles: []ArticleInput{textArticle(1, "a")},
		OGData:   &OGDataInput{Title: "late", Slug: "late-slug"},
	})
	require.NoError(t, err)
	require.NotNil(t, replaced.OGData)
	assert.Equal(t, "late-slug", replaced.OGData.Slug)
}

func TestReplacePostNotFound(t *testing.T) {
	svc, _, _ := newTestServices(t)

	_, err := svc.ReplacePost(context.Background(), 404, PostInput{
		Name:     "ghost",
		Articles: []ArticleInput{textArticle(1, "a")},
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRenamePost(t *testing.T) {
	svc, _, db := newTestServices(t)
	user := seedUser(t, db)

	post, err := svc.CreatePost(context.Background(), user.ID, PostInput{
		Name:     "draft",
		Articles: []ArticleInput{textArticle(1, "a")},
	})
	require.NoError(t, err)

	renamed, err := svc.RenamePost(context.Background(), post.ID, "published")
	require.NoError(t, err)
	assert.Equal(t, "published", renamed.Name)
	assert.Len(t, renamed.Articles, 1)

	_, err = svc.RenamePost(context.Background(), 404, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddTagsMergesWithoutDuplicates(t *testing.T) {
	svc, _, db := newTestServices(t)
	user := seedUser(t, db)
	kept := seedTag(t, db, "kept")
	added := seedTag(t, db, "added")

	post, err := svc.CreatePost(context.Background(), user.ID, PostInput{
		Name:     "tagged",
		Articles: []ArticleInput{textArticle(1, "a")},
		TagIDs:   []uint{kept.ID},
	})
	require.NoError(t, err)

	merged, err := svc.AddTags(context.Background(), post.ID, []uint{kept.ID, added.ID, added.ID})
	require.NoError(t, err)
	assert.Len(t, merged.Tags, 2)
	assert.EqualValues(t, 2, countRows(t, db, &models.PostTag{}, "post_id = ?", post.ID))
}

func TestAddTagsUnknownTagFailsAfterLinkingValidOnes(t *testing.T) {
	svc, _, db := newTestServices(t)
	user := seedUser(t, db)
	valid := seedTag(t, db, "valid")

	post, err := svc.CreatePost(context.Background(), user.ID, PostInput{
		Name:     "partial",
		Articles: []ArticleInput{textArticle(1, "a")},
	})
	require.NoError(t, err)

	_, err = svc.AddTags(context.Background(), post.ID, []uint{valid.ID, 9999})
	assert.ErrorIs(t, err, ErrNotFound)

	// The merge is link by link, so the valid tag processed before the
	// unknown one stays attached despite the overall failure.
	assert.EqualValues(t, 1, countRows(t, db, &models.PostTag{}, "post_id = ? AND tag_id = ?", post.ID, valid.ID))
}

func TestAddTagsPostNotFound(t *testing.T) {
	svc, _, db := newTestServices(t)
	tag := seedTag(t, db, "any")

	_, err := svc.AddTags(context.Background(), 404, []uint{tag.ID})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeletePostRemovesChildrenAndFiles(t *testing.T) {
	svc, _, db := newTestServices(t)
	user := seedUser(t, db)
	tag := seedTag(t, db, "doomed")
	dir := t.TempDir()
	articleFile := seedFile(t, db, dir, "clip.mp4")
	previewFile := seedFile(t, db, dir, "preview.png")

	post, err := svc.CreatePost(context.Background(), user.ID, PostInput{
		Name: "doomed",
		Articles: []ArticleInput{
			textArticle(1, "body"),
			mediaArticle(2, &articleFile.ID),
		},
		TagIDs: []uint{tag.ID},
		OGData: &OGDataInput{Slug: "doomed", FileInformationsID: &previewFile.ID},
	})
	require.NoError(t, err)

	warnings, err := svc.DeletePost(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.EqualValues(t, 0, countRows(t, db, &models.Post{}, ""))
	assert.EqualValues(t, 0, countRows(t, db, &models.Article{}, ""))
	assert.EqualValues(t, 0, countRows(t, db, &models.PostArticle{}, ""))
	assert.EqualValues(t, 0, countRows(t, db, &models.PostTag{}, ""))
	assert.EqualValues(t, 0, countRows(t, db, &models.OGData{}, ""))

	// The article's physical file and row are gone; the OGData preview file
	// is not owned by a media article and stays behind.
	_, statErr := os.Stat(articleFile.FilePath)
	assert.True(t, os.IsNotExist(statErr))
	assert.EqualValues(t, 0, countRows(t, db, &models.FileInformations{}, "id = ?", articleFile.ID))
	assert.EqualValues(t, 1, countRows(t, db, &models.FileInformations{}, "id = ?", previewFile.ID))

	// The tag itself survives its links.
	assert.EqualValues(t, 1, countRows(t, db, &models.Tag{}, ""))
}

func TestDeletePostToleratesMissingPhysicalFile(t *testing.T) {
	svc, _, db := newTestServices(t)
	user := seedUser(t, db)
	file := seedFile(t, db, t.TempDir(), "gone.bin")
	require.NoError(t, os.Remove(file.FilePath))

	post, err := svc.CreatePost(context.Background(), user.ID, PostInput{
		Name:     "halfgone",
		Articles: []ArticleInput{mediaArticle(1, &file.ID)},
	})
	require.NoError(t, err)

	warnings, err := svc.DeletePost(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.EqualValues(t, 0, countRows(t, db, &models.FileInformations{}, ""))
}

func TestDeletePostNotFound(t *testing.T) {
	svc, _, _ := newTestServices(t)

	_, err := svc.DeletePost(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetPostMissingReturnsNil(t *testing.T) {
	svc, _, _ := newTestServices(t)

	post, err := svc.GetPost(context.Background(), 404)
	require.NoError(t, err)
	assert.Nil(t, post)
}

func TestGetPostBySlug(t *testing.T) {
	svc, _, db := newTestServices(t)
	user := seedUser(t, db)

	created, err := svc.CreatePost(context.Background(), user.ID, PostInput{
		Name:     "findable",
		Articles: []ArticleInput{textArticle(1, "a")},
		OGData:   &OGDataInput{Slug: "findable"},
	})
	require.NoError(t, err)

	post, err := svc.GetPostBySlug(context.Background(), "findable")
	require.NoError(t, err)
	assert.Equal(t, created.ID, post.ID)

	_, err = svc.GetPostBySlug(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListPostsByCategory(t *testing.T) {
	svc, _, db := newTestServices(t)
	user := seedUser(t, db)
	blog := seedCategory(t, db, "Blog")
	faq := seedCategory(t, db, "FAQ")

	_, err := svc.CreatePost(context.Background(), user.ID, PostInput{
		Name:       "in blog",
		CategoryID: &blog.ID,
		Articles:   []ArticleInput{textArticle(1, "a")},
	})
	require.NoError(t, err)

	posts, err := svc.ListPostsByCategory(context.Background(), blog.ID)
	require.NoError(t, err)
	assert.Len(t, posts, 1)

	posts, err = svc.ListPostsByCategory(context.Background(), faq.ID)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestListPostsHydratesAggregates(t *testing.T) {
	svc, _, db := newTestServices(t)
	user := seedUser(t, db)
	tag := seedTag(t, db, "news")

	_, err := svc.CreatePost(context.Background(), user.ID, PostInput{
		Name:     "full",
		Articles: []ArticleInput{textArticle(1, "a")},
		TagIDs:   []uint{tag.ID},
		OGData:   &OGDataInput{Slug: "full"},
	})
	require.NoError(t, err)

	posts, err := svc.ListPosts(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 1)

	assert.Equal(t, user.Username, posts[0].User.Username)
	require.Len(t, posts[0].Tags, 1)
	assert.Equal(t, "news", posts[0].Tags[0].Tag.Name)
	require.NotNil(t, posts[0].OGData)
	assert.Equal(t, "full", posts[0].OGData.Slug)
}
