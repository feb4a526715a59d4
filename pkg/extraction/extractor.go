/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: extractor.go
Description: Route extraction engine for the Akaylee Routes pipeline. Applies every
rule in the pattern catalog to a single text source, passes raw matches through the
validity filter, and emits typed route candidates tagged with their source file.
*/

package extraction

import (
	"github.com/kleascm/akaylee-routes/pkg/interfaces"
	"github.com/kleascm/akaylee-routes/pkg/patterns"
)

// Extractor applies the pattern catalog to text sources. The zero value is
// not usable; construct with NewExtractor.
type Extractor struct {
	rules  []patterns.Rule
	filter *ValidityFilter
}

// NewExtractor creates an extractor over the full pattern catalog.
func NewExtractor() *Extractor {
	return &Extractor{
		rules:  patterns.Catalog(),
		filter: NewValidityFilter(),
	}
}

// NewExtractorWithRules creates an extractor over a custom rule set. Used by
// tests to exercise single rules in isolation.
func NewExtractorWithRules(rules []patterns.Rule) *Extractor {
	return &Extractor{
		rules:  rules,
		filter: NewValidityFilter(),
	}
}

// Extract scans sourceText with every catalog rule and returns the surviving
// candidates. Rules scan the same text independently, so one path literal may
// yield candidates from several rules; the inventory deduplicates later.
// Extract never fails: garbage matches, empty paths, and absent capture
// groups are dropped by the filter, not raised.
func (e *Extractor) Extract(sourceText, sourceRef string) []interfaces.RouteCandidate {
	var candidates []interfaces.RouteCandidate

	for _, rule := range e.rules {
		for _, match := range rule.Pattern.FindAllStringSubmatch(sourceText, -1) {
			if rule.Captures >= 2 && len(match) > 2 {
				name, path := match[1], match[2]
				if e.filter.IsValidRoute(path) {
					candidates = append(candidates, interfaces.RouteCandidate{
						Kind:      rule.Kind,
						Name:      name,
						Path:      path,
						SourceRef: sourceRef,
					})
				}
				continue
			}

			if len(match) < 2 {
				continue
			}
			path := match[1]
			if e.filter.IsValidRoute(path) {
				candidates = append(candidates, interfaces.RouteCandidate{
					Kind:      rule.Kind,
					Path:      path,
					SourceRef: sourceRef,
				})
			}
		}
	}

	return candidates
}
