package domain

// RouteParams are the structured product attributes accepted by the
// routing table. All fields are optional; an empty request routes to
// the always-included set only.
type RouteParams struct {
	// ProductType is the product category, e.g. "novel food".
	ProductType string

	// Ingredients are ingredient types, e.g. ["food additive", "flavouring"].
	Ingredients []string

	// Claims are claim types, e.g. ["health claim"].
	Claims []string

	// Packaging is the packaging type, e.g. "plastic packaging".
	Packaging string

	// Keywords are additional terms matched against defined terms.
	Keywords []string
}

// RoutingResult names the regulations to search and why each was included.
type RoutingResult struct {
	// CelexIDs is the insertion-ordered list of included document IDs.
	// First-seen order, no duplicates.
	CelexIDs []string `json:"celex_ids"`

	// Reasons maps each included document ID to its ordered list of
	// human-readable explanation strings.
	Reasons map[string][]string `json:"reasons"`
}

// NewRoutingResult returns an empty routing result.
func NewRoutingResult() *RoutingResult {
	return &RoutingResult{Reasons: make(map[string][]string)}
}

// Add records a document with a reason. The document is appended to the
// ordered ID list on first sight only; the reason is appended unless the
// document already carries an identical one.
func (r *RoutingResult) Add(celexID, reason string) {
	if _, ok := r.Reasons[celexID]; !ok {
		r.Reasons[celexID] = nil
		r.CelexIDs = append(r.CelexIDs, celexID)
	}
	for _, existing := range r.Reasons[celexID] {
		if existing == reason {
			return
		}
	}
	r.Reasons[celexID] = append(r.Reasons[celexID], reason)
}
