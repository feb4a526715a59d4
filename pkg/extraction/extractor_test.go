/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: extractor_test.go
Description: Tests for the route extractor and the validity filter. Covers dialect
extraction, named route capture, filter rejection rules, and tolerance of garbage
matches.
*/

package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kleascm/akaylee-routes/pkg/interfaces"
)

func TestExtractVueRoutes(t *testing.T) {
	source := `const routes = [
		{ path: '/home' },
		{ name: 'profile', path: '/users/:id' },
	]`

	candidates := NewExtractor().Extract(source, "app/router.js")
	require.NotEmpty(t, candidates)

	paths := map[string]bool{}
	var named *interfaces.RouteCandidate
	for i := range candidates {
		paths[candidates[i].Path] = true
		if candidates[i].Name != "" {
			named = &candidates[i]
		}
	}

	assert.True(t, paths["/home"])
	assert.True(t, paths["/users/:id"])
	require.NotNil(t, named, "named route should be captured")
	assert.Equal(t, "profile", named.Name)
	assert.Equal(t, "/users/:id", named.Path)
	assert.Equal(t, interfaces.KindVue, named.Kind)
}

func TestExtractReactRoutes(t *testing.T) {
	source := `<Route path="/admin"/><Link to="/help"/>; history.push('/checkout')`

	candidates := NewExtractor().Extract(source, "app/main.js")

	paths := map[string]bool{}
	for _, c := range candidates {
		if c.Kind == interfaces.KindReact {
			paths[c.Path] = true
		}
	}
	assert.True(t, paths["/admin"])
	assert.True(t, paths["/help"])
	assert.True(t, paths["/checkout"])
}

func TestExtractRecordsSourceRef(t *testing.T) {
	candidates := NewExtractor().Extract(`fetch('/api/ping')`, "host/chunks/api.js")
	require.NotEmpty(t, candidates)
	for _, c := range candidates {
		assert.Equal(t, "host/chunks/api.js", c.SourceRef)
	}
}

func TestExtractDropsExternalURLs(t *testing.T) {
	source := `fetch('https://cdn.example.com/track'); fetch('/api/users')`

	candidates := NewExtractor().Extract(source, "a.js")
	for _, c := range candidates {
		assert.Equal(t, "/api/users", c.Path)
	}
	assert.NotEmpty(t, candidates)
}

func TestExtractEmptySourceYieldsNothing(t *testing.T) {
	assert.Empty(t, NewExtractor().Extract("", "empty.js"))
	assert.Empty(t, NewExtractor().Extract("no routes here at all", "prose.js"))
}

func TestExtractSamePathMatchedByMultipleRules(t *testing.T) {
	// A path literal inside an axios call is matched by both the call rule
	// and the bare literal rule; duplicates are expected here.
	source := `axios('/api/orders')`

	candidates := NewExtractor().Extract(source, "a.js")
	count := 0
	for _, c := range candidates {
		if c.Path == "/api/orders" {
			count++
		}
	}
	assert.GreaterOrEqual(t, count, 2)
}

func TestValidityFilterRejectsSeparatorOnly(t *testing.T) {
	filter := NewValidityFilter()
	for _, path := range []string{"/", "//", ".", "./", "", "  ", "././", `.\.`} {
		assert.False(t, filter.IsValidRoute(path), "should reject %q", path)
	}
}

func TestValidityFilterRejectsStaticAssets(t *testing.T) {
	filter := NewValidityFilter()
	for _, path := range []string{
		"/app/logo.png",
		"/static/chunk.abc123.js",
		"/fonts/icon.woff2",
		"/assets/video.mp4",
		"/theme/style.CSS",
		"/img/photo.jpeg?v=2",
	} {
		assert.False(t, filter.IsValidRoute(path), "should reject %q", path)
	}
}

func TestValidityFilterRejectsExternalSchemes(t *testing.T) {
	filter := NewValidityFilter()
	for _, path := range []string{
		"http://example.com/login",
		"https://example.com/login",
		"ws://example.com/socket",
		"wss://example.com/socket",
	} {
		assert.False(t, filter.IsValidRoute(path), "should reject %q", path)
	}
}

func TestValidityFilterAcceptsRoutes(t *testing.T) {
	filter := NewValidityFilter()
	for _, path := range []string{
		"/api/users/:id",
		"/login",
		"/admin/settings",
		"api/relative",
		"/v2/orders/123",
	} {
		assert.True(t, filter.IsValidRoute(path), "should accept %q", path)
	}
}
