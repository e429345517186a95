package remote

import (
	"strings"

	"pru/pkg/metadata"
)

// MatchesSearch reports whether imageID contains any search term. An empty
// term set matches everything. Matching is case-sensitive.
func MatchesSearch(imageID string, search []string) bool {
	if len(search) == 0 {
		return true
	}
	for _, term := range search {
		if strings.Contains(imageID, term) {
			return true
		}
	}
	return false
}

// FilterBySearch keeps the records whose image id matches, preserving order.
func FilterBySearch(records []metadata.Metadata, search []string) []metadata.Metadata {
	if len(search) == 0 {
		return records
	}
	kept := make([]metadata.Metadata, 0, len(records))
	for _, r := range records {
		if MatchesSearch(r.ImageID, search) {
			kept = append(kept, r)
		}
	}
	return kept
}
