package resolver

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"mediadex/models"
	"mediadex/sources"
)

// UnsupportedIdentifierError is returned for identifiers that are neither a
// persisted-record key nor a recognized source-tagged key.
type UnsupportedIdentifierError struct {
	Identifier string
}

func (e *UnsupportedIdentifierError) Error() string {
	return fmt.Sprintf("unsupported identifier format: %q", e.Identifier)
}

// KindMismatchError is returned when an identifier's source prefix implies
// a source that does not serve the requested media kind.
type KindMismatchError struct {
	Kind   models.MediaKind
	Source string
}

func (e *KindMismatchError) Error() string {
	return fmt.Sprintf("source %s does not serve media kind %q", e.Source, e.Kind)
}

// Route is the classification of one incoming identifier: either a
// persisted-record key (fallback is legal) or a source-tagged external key
// (no fallback path exists).
type Route struct {
	IsRecord  bool
	RecordKey string

	Source     string
	SourceKind models.SourceKind
	ExternalID string
}

// ClassifyIdentifier decides which shape the identifier has and, for
// source-tagged keys, which upstream owns it. Pure; no I/O.
func ClassifyIdentifier(kind models.MediaKind, identifier string) (Route, error) {
	identifier = strings.TrimSpace(identifier)

	if _, err := uuid.Parse(identifier); err == nil {
		return Route{IsRecord: true, RecordKey: identifier}, nil
	}

	switch {
	case strings.HasPrefix(identifier, sources.SourceNameMovieTV+"-"):
		if kind != models.KindMovie && kind != models.KindTV {
			return Route{}, &KindMismatchError{Kind: kind, Source: sources.SourceNameMovieTV}
		}
		return Route{
			Source:     sources.SourceNameMovieTV,
			SourceKind: models.SourceMovieTV,
			ExternalID: strings.TrimPrefix(identifier, sources.SourceNameMovieTV+"-"),
		}, nil

	case strings.HasPrefix(identifier, sources.SourceNameBibliographic+"-"):
		if kind != models.KindBook {
			return Route{}, &KindMismatchError{Kind: kind, Source: sources.SourceNameBibliographic}
		}
		return Route{
			Source:     sources.SourceNameBibliographic,
			SourceKind: models.SourceBibliographic,
			ExternalID: strings.TrimPrefix(identifier, sources.SourceNameBibliographic+"-"),
		}, nil

	case strings.HasPrefix(identifier, sources.SourceNameAnime+"-anime-"):
		if kind != models.KindAnime {
			return Route{}, &KindMismatchError{Kind: kind, Source: sources.SourceNameAnime}
		}
		return Route{
			Source:     sources.SourceNameAnime,
			SourceKind: models.SourceAnime,
			ExternalID: strings.TrimPrefix(identifier, sources.SourceNameAnime+"-anime-"),
		}, nil

	case strings.HasPrefix(identifier, sources.SourceNameAnime+"-manga-"):
		if kind != models.KindManga {
			return Route{}, &KindMismatchError{Kind: kind, Source: sources.SourceNameAnime}
		}
		return Route{
			Source:     sources.SourceNameAnime,
			SourceKind: models.SourceAnime,
			ExternalID: strings.TrimPrefix(identifier, sources.SourceNameAnime+"-manga-"),
		}, nil
	}

	return Route{}, &UnsupportedIdentifierError{Identifier: identifier}
}

// routeForRecord maps a persisted record's stored source kind onto the
// route needed to attempt a live refetch. Returns false when the record
// carries no usable source information.
func routeForRecord(rec *models.StoredMediaItem) (Route, bool) {
	if rec.ExternalID == "" {
		return Route{}, false
	}
	switch models.SourceKind(rec.SourceKind) {
	case models.SourceMovieTV:
		return Route{Source: sources.SourceNameMovieTV, SourceKind: models.SourceMovieTV, ExternalID: rec.ExternalID}, true
	case models.SourceBibliographic:
		return Route{Source: sources.SourceNameBibliographic, SourceKind: models.SourceBibliographic, ExternalID: rec.ExternalID}, true
	case models.SourceAnime:
		return Route{Source: sources.SourceNameAnime, SourceKind: models.SourceAnime, ExternalID: rec.ExternalID}, true
	}
	return Route{}, false
}
