package controllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/Lukaspop/Pixel-Dread-website/middleware"
	"github.com/Lukaspop/Pixel-Dread-website/services"
)

func testContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)
	return ctx, rec
}

func TestWriteAggregateErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{services.ErrEmptyAggregate, http.StatusBadRequest},
		{services.ErrMissingReference, http.StatusBadRequest},
		{services.ErrFileNotFound, http.StatusBadRequest},
		{services.ErrInvalidReference, http.StatusBadRequest},
		{services.ErrDuplicateSlug, http.StatusBadRequest},
		{services.ErrUnauthenticated, http.StatusUnauthorized},
		{services.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("tag %d: %w", 9, services.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		ctx, rec := testContext()
		writeAggregateError(ctx, tc.err)
		assert.Equal(t, tc.status, rec.Code, "error %v", tc.err)
	}
}

// A missing file during a write is the client's fault, not a 404: the post
// exists, its file reference does not.
func TestFileNotFoundMapsToBadRequest(t *testing.T) {
	ctx, rec := testContext()
	writeAggregateError(ctx, fmt.Errorf("article 2: %w", services.ErrFileNotFound))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParseID(t *testing.T) {
	ctx, rec := testContext()
	id, ok := parseID(ctx, "42")
	assert.True(t, ok)
	assert.EqualValues(t, 42, id)
	assert.Equal(t, http.StatusOK, rec.Code)

	for _, raw := range []string{"abc", "-1", "0", ""} {
		ctx, rec := testContext()
		_, ok := parseID(ctx, raw)
		assert.False(t, ok, "raw %q", raw)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
}

func TestGetUserID(t *testing.T) {
	ctx, _ := testContext()
	_, ok := getUserID(ctx)
	assert.False(t, ok)

	ctx, _ = testContext()
	ctx.Set(middleware.ContextUserIDKey, uint(7))
	id, ok := getUserID(ctx)
	assert.True(t, ok)
	assert.EqualValues(t, 7, id)
}
