// Package search holds the derived product filter. It is deliberately
// stateless: the storefront recomputes the filtered view from the canonical
// product list on every query or list change instead of caching it.
package search

import (
	"strings"

	"shopfront/internal/catalog"
)

// Filter returns the products whose title, description, or category contains
// the query, matched case-insensitively as a plain substring (no
// tokenization, no ranking). Input order is preserved. A query that trims to
// the empty string returns the input unchanged.
func Filter(products []catalog.Product, query string) []catalog.Product {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return products
	}

	matched := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Title), q) ||
			strings.Contains(strings.ToLower(p.Description), q) ||
			strings.Contains(strings.ToLower(p.Category), q) {
			matched = append(matched, p)
		}
	}
	return matched
}
