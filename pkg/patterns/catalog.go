/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: catalog.go
Description: Declarative pattern catalog for route extraction. Each rule pairs a
compiled regular expression with the route dialect it detects and its capture
arity, so rules can be added, removed, and unit-tested without touching the
scanning loop in the extraction package.
*/

package patterns

import (
	"regexp"

	"github.com/kleascm/akaylee-routes/pkg/interfaces"
)

// Rule is one extraction pattern. Captures is the number of capture groups
// the scanner consumes: 1 for path-only rules, 2 for name+path rules (group 1
// is the route name, group 2 the path).
type Rule struct {
	Kind     interfaces.RouteKind
	Pattern  *regexp.Regexp
	Captures int
}

// catalog is the static rule table. Order within a kind does not matter.
// Rules across kinds overlap on purpose: the same literal may be matched by a
// Vue rule and a generic rule, and deduplication happens downstream in the
// inventory, never here.
var catalog = []Rule{
	// Vue Router definitions.
	{interfaces.KindVue, regexp.MustCompile(`path:\s*['"](.*?)['"]`), 1},
	{interfaces.KindVue, regexp.MustCompile(`name:\s*['"](.*?)['"].*?path:\s*['"](.*?)['"]`), 2},
	{interfaces.KindVue, regexp.MustCompile(`path:\s*['"](.*?/:\w+.*?)['"]`), 1},

	// React Router components and navigation calls.
	{interfaces.KindReact, regexp.MustCompile(`<Route\s+path=['"](.*?)['"]`), 1},
	{interfaces.KindReact, regexp.MustCompile(`(?:useNavigate|history\.push)\(['"](.*?)['"]\)`), 1},
	{interfaces.KindReact, regexp.MustCompile(`<Link\s+to=['"](.*?)['"]`), 1},

	// Generic API endpoints and path literals.
	{interfaces.KindGeneric, regexp.MustCompile(`(?:url|endpoint|api):\s*['"](/[^'"]*?)['"]`), 1},
	{interfaces.KindGeneric, regexp.MustCompile(`(?:axios|fetch)\(['"]((?:/|https?://)[^'"]*?)['"]`), 1},
	{interfaces.KindGeneric, regexp.MustCompile(`['"](/[\w\-./]+?)['"]`), 1},
}

// Catalog returns the full ordered rule set.
func Catalog() []Rule {
	return catalog
}

// ForKind returns the rules of a single dialect.
func ForKind(kind interfaces.RouteKind) []Rule {
	rules := make([]Rule, 0, len(catalog))
	for _, rule := range catalog {
		if rule.Kind == kind {
			rules = append(rules, rule)
		}
	}
	return rules
}
