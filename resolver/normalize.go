package resolver

import "mediadex/models"

// Normalize enforces the canonical shape on adapter output: genres and
// metadata are never nil and the source kind is always stamped. It is total
// over any well-formed adapter output and deterministic.
func Normalize(item *models.MediaItem, source models.SourceKind) *models.MediaItem {
	if item.Genres == nil {
		item.Genres = []string{}
	}
	if item.Metadata == nil {
		item.Metadata = map[string]any{}
	}
	if source != "" {
		item.SourceKind = source
	}
	if item.SourceKind == "" {
		item.SourceKind = models.SourceUnknown
	}
	return item
}
