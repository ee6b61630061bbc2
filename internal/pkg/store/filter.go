package store

import "strings"

// Filter returns the items whose search fields contain term, compared in
// lower case. An empty term returns items unchanged.
func Filter[T Entity[T]](items []T, term string) []T {
	if term == "" {
		return items
	}
	needle := strings.ToLower(term)
	out := make([]T, 0, len(items))
	for _, item := range items {
		if Matches(item, needle) {
			out = append(out, item)
		}
	}
	return out
}

// Matches reports whether any search field of item contains the already
// lowercased needle.
func Matches[T Entity[T]](item T, needle string) bool {
	for _, field := range item.SearchFields() {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
