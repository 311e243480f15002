package utils

import "github.com/microcosm-cc/bluemonday"

var sanitizer = bluemonday.UGCPolicy()

// Sanitize cleans HTML in author-supplied article content to prevent XSS.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}
