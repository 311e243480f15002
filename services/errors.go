package services

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the aggregate write and query paths.
// Controllers branch on these with errors.Is to pick status codes.
var (
	// ErrNotFound means a referenced entity or id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrFileNotFound is a NotFound specific to a file reference, so callers
	// can tell a missing file apart from a missing post.
	ErrFileNotFound = fmt.Errorf("file %w", ErrNotFound)
	// ErrEmptyAggregate means no articles were supplied where at least one
	// is required.
	ErrEmptyAggregate = errors.New("post must contain at least one article")
	// ErrMissingReference means a media article descriptor carried no file id.
	ErrMissingReference = errors.New("file id is required for media article")
	// ErrInvalidReference means an OGData file id did not resolve.
	ErrInvalidReference = errors.New("file reference does not resolve")
	// ErrUnauthenticated means no owning principal was available on create.
	ErrUnauthenticated = errors.New("user must be authenticated")
	// ErrDuplicateSlug means the OGData slug is already taken, compared
	// case-insensitively across all posts.
	ErrDuplicateSlug = errors.New("slug already taken")
)
