package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/lexroute/internal/catalog"
	"github.com/custodia-labs/lexroute/internal/core/domain"
)

// AlwaysInclude lists the foundational regulations seeded into every
// routing result: the General Food Law and the FIC labelling regulation.
var AlwaysInclude = []string{
	"32002R0178", // General Food Law
	"32011R1169", // Food Information to Consumers: labelling is always relevant
}

// Sub-phrase containment guards. Single-word inputs like "food" are too
// common for substring matching, so the input must be multi-word and
// longer than containmentMinLen. Heuristic tunables, not derived.
const containmentMinLen = 5

// categoryRouting maps high-level product/ingredient phrases to
// regulatory categories. This manual table supplements the entity-based
// routing with domain knowledge.
var categoryRouting = map[string][]string{
	// Product categories
	"novel food":                        {"novel_food"},
	"food supplement":                   {"food_supplements"},
	"infant formula":                    {"food_specific_groups"},
	"food for special medical purposes": {"food_specific_groups"},
	"organic food":                      {"organic"},
	// Ingredient categories
	"food additive": {"food_additives"},
	"flavouring":    {"flavourings"},
	"food enzyme":   {"food_enzymes"},
	"gmo":           {"gmo"},
	"vitamin":       {"fortification", "food_supplements"},
	"mineral":       {"fortification", "food_supplements"},
	// Claim types
	"health claim":    {"nutrition_health_claims"},
	"nutrition claim": {"nutrition_health_claims"},
	// Packaging
	"food contact material": {"food_contact_materials"},
	"plastic packaging":     {"food_contact_materials"},
	// Labelling
	"allergen":              {"labelling_fic"},
	"nutrition declaration": {"labelling_fic"},
	"origin labelling":      {"labelling_fic", "meat_origin"},
	// Safety
	"contaminant":      {"contaminants"},
	"official control": {"official_controls"},
}

// RoutingTable deterministically maps structured product attributes to
// the applicable regulations. Built once from the static catalog and the
// extracted entity index; read-only afterwards, safe for concurrent use.
type RoutingTable struct {
	catalog  *catalog.Catalog
	termDocs map[string][]string // normalized term -> sorted defining document IDs
}

// NewRoutingTable builds a routing table from the catalog and an entity
// index. A nil entity index disables the term-based strategies.
func NewRoutingTable(cat *catalog.Catalog, index *domain.EntityIndex) *RoutingTable {
	t := &RoutingTable{
		catalog:  cat,
		termDocs: make(map[string][]string),
	}

	if index != nil {
		for term, sources := range index.TermSources() {
			seen := make(map[string]bool)
			for _, src := range sources {
				if !seen[src.DocumentID] {
					seen[src.DocumentID] = true
					t.termDocs[term] = append(t.termDocs[term], src.DocumentID)
				}
			}
			sort.Strings(t.termDocs[term])
		}
	}

	return t
}

// AvailableTerms returns all defined terms that can trigger routing.
func (t *RoutingTable) AvailableTerms() []string {
	terms := make([]string, 0, len(t.termDocs))
	for term := range t.termDocs {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}

// AvailablePhrases returns the manual routing phrases.
func (t *RoutingTable) AvailablePhrases() []string {
	phrases := make([]string, 0, len(categoryRouting))
	for phrase := range categoryRouting {
		phrases = append(phrases, phrase)
	}
	sort.Strings(phrases)
	return phrases
}

// Route maps structured product attributes to applicable regulations.
// Unknown attribute values match none of the strategies and contribute
// nothing; this is not an error.
func (t *RoutingTable) Route(params domain.RouteParams) *domain.RoutingResult {
	result := t.seed()

	for _, attr := range flatten(params) {
		t.routeCategory(result, attr)
		t.routeExactTerm(result, attr)
		t.routeContainment(result, attr)
	}

	return result
}

// RouteByCategory routes by regulatory category key directly.
func (t *RoutingTable) RouteByCategory(category string) *domain.RoutingResult {
	result := t.seed()
	for _, celex := range t.catalog.ByCategory(category) {
		result.Add(celex, fmt.Sprintf("category: %s", category))
	}
	return result
}

// seed returns a result pre-populated with the always-included set.
func (t *RoutingTable) seed() *domain.RoutingResult {
	result := domain.NewRoutingResult()
	for _, celex := range AlwaysInclude {
		result.Add(celex, fmt.Sprintf("always included (%s)", t.catalog.Title(celex)))
	}
	return result
}

// attribute is one normalized attribute value with its source label.
type attribute struct {
	value string
	label string
}

// flatten collects all supplied attribute values into an ordered list of
// (normalized value, source label) pairs.
func flatten(params domain.RouteParams) []attribute {
	var attrs []attribute
	add := func(value, label string) {
		value = strings.ToLower(strings.TrimSpace(value))
		if value != "" {
			attrs = append(attrs, attribute{value: value, label: label})
		}
	}

	add(params.ProductType, "product type")
	for _, ing := range params.Ingredients {
		add(ing, "ingredient")
	}
	for _, claim := range params.Claims {
		add(claim, "claim")
	}
	add(params.Packaging, "packaging")
	for _, kw := range params.Keywords {
		add(kw, "keyword")
	}

	return attrs
}

// routeCategory applies the manual phrase-to-category mapping: each
// matching category expands to every catalog document tagged with it.
func (t *RoutingTable) routeCategory(result *domain.RoutingResult, attr attribute) {
	for _, cat := range categoryRouting[attr.value] {
		for _, celex := range t.catalog.ByCategory(cat) {
			result.Add(celex, fmt.Sprintf("%s: %q matches category %s", attr.label, attr.value, cat))
		}
	}
}

// routeExactTerm includes every document that defines the attribute
// value as a term.
func (t *RoutingTable) routeExactTerm(result *domain.RoutingResult, attr attribute) {
	for _, celex := range t.termDocs[attr.value] {
		result.Add(celex, fmt.Sprintf("%s: %q defined in this regulation", attr.label, attr.value))
	}
}

// routeContainment includes documents defining a longer term that
// contains the attribute value as a strict sub-phrase. For example
// "health claim" matches "reduction of disease risk claim" definitions.
func (t *RoutingTable) routeContainment(result *domain.RoutingResult, attr attribute) {
	if !strings.Contains(attr.value, " ") || len(attr.value) <= containmentMinLen {
		return
	}

	terms := make([]string, 0, len(t.termDocs))
	for term := range t.termDocs {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	for _, term := range terms {
		if term != attr.value && strings.Contains(term, attr.value) {
			for _, celex := range t.termDocs[term] {
				result.Add(celex, fmt.Sprintf("%s: %q appears in %q", attr.label, attr.value, term))
			}
		}
	}
}
