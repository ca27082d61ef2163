package utils

import "github.com/microcosm-cc/bluemonday"

var sanitizer = bluemonday.StrictPolicy()

// Sanitize strips HTML from user-authored text (challenge and workout titles,
// descriptions) before it is stored and later rendered.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}
