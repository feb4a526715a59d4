/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: filter.go
Description: Validity filter for extracted route paths. Rejects separator-only
values, static asset file paths, and absolute external URLs so that only
origin-relative route candidates reach the inventory.
*/

package extraction

import (
	"regexp"
	"strings"
)

// staticExtensions is the asset denylist: images, stylesheets, script
// bundles, fonts, and media are never route candidates.
var staticExtensions = []string{
	".png", ".jpg", ".jpeg", ".gif", ".svg", ".ico", ".webp",
	".css", ".scss", ".less",
	".js", ".jsx", ".ts", ".tsx",
	".woff", ".woff2", ".ttf", ".eot", ".otf",
	".mp3", ".mp4", ".avi", ".mov", ".flv", ".wmv",
}

// filenameRe matches a final path segment that looks like a static file: a
// short alphanumeric extension, optionally followed by a query string.
var filenameRe = regexp.MustCompile(`/[^/]+\.[a-zA-Z0-9]{2,6}(?:\?.*)?$`)

// schemes that mark an absolute external URL.
var externalSchemes = []string{"http://", "https://", "ws://", "wss://"}

// ValidityFilter decides whether a raw pattern match is a plausible route.
type ValidityFilter struct{}

// NewValidityFilter creates a validity filter.
func NewValidityFilter() *ValidityFilter {
	return &ValidityFilter{}
}

// IsValidRoute reports whether path is worth keeping as a route candidate.
// It tolerates any input, including the empty string.
func (f *ValidityFilter) IsValidRoute(path string) bool {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return false
	}

	switch trimmed {
	case "/", "//", ".", "./":
		return false
	}

	// Paths made only of separators and dots carry no route information.
	if strings.Trim(trimmed, "./\\") == "" {
		return false
	}

	for _, scheme := range externalSchemes {
		if strings.HasPrefix(trimmed, scheme) {
			return false
		}
	}

	lower := strings.ToLower(trimmed)
	for _, ext := range staticExtensions {
		if strings.HasSuffix(lower, ext) {
			return false
		}
	}

	if filenameRe.MatchString(trimmed) {
		return false
	}

	return true
}
