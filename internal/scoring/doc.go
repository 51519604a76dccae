// Package scoring ranks items that survived filtering.
//
// Score adds seven components (popularity, trending, genre, studio, vote
// penalty, collection, hype) and floors the total at zero. Prioritize orders
// scored items by total, falling back to a tie-break cascade when totals are
// within 0.1 of each other, and assigns ranks starting at 1.
package scoring
