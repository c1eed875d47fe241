package resolver

import (
	"context"
	"errors"
	"fmt"
	"log"

	"mediadex/models"
)

// ErrRecordNotFound is returned when a record-key identifier has no
// persisted snapshot in the item store.
var ErrRecordNotFound = errors.New("persisted record not found")

// Adapter fetches one item from a single upstream catalog.
type Adapter interface {
	FetchDetail(ctx context.Context, externalID string, kind models.MediaKind) (*models.MediaItem, error)
}

// RecordStore is the read interface onto the external item store. A nil
// item with a nil error means the record does not exist.
type RecordStore interface {
	GetByKeyAndKind(key string, kind models.MediaKind) (*models.StoredMediaItem, error)
}

// Service resolves an identifier plus media kind into one canonical item.
// One resolution call commits to exactly one data origin: the live adapter
// or the persisted record, never a blend of both.
type Service struct {
	store    RecordStore
	adapters map[string]Adapter
}

func New(store RecordStore, adapters map[string]Adapter) *Service {
	return &Service{store: store, adapters: adapters}
}

// Resolve classifies the identifier, fetches from the owning adapter and,
// for record-key identifiers only, falls back to the persisted snapshot
// when the adapter fails.
func (s *Service) Resolve(ctx context.Context, kind models.MediaKind, identifier string) (*models.MediaItem, error) {
	route, err := ClassifyIdentifier(kind, identifier)
	if err != nil {
		return nil, err
	}

	if !route.IsRecord {
		item, err := s.fetchLive(ctx, route, kind)
		if err != nil {
			return nil, err
		}
		return Normalize(item, route.SourceKind), nil
	}

	rec, err := s.store.GetByKeyAndKind(route.RecordKey, kind)
	if err != nil {
		return nil, fmt.Errorf("load persisted record %s: %w", route.RecordKey, err)
	}
	if rec == nil {
		return nil, ErrRecordNotFound
	}

	if liveRoute, ok := routeForRecord(rec); ok {
		item, err := s.fetchLive(ctx, liveRoute, kind)
		if err == nil {
			return Normalize(item, liveRoute.SourceKind), nil
		}
		log.Printf("[resolver] live fetch failed key=%s source=%s: %v; using persisted record", route.RecordKey, liveRoute.Source, err)
	}

	return itemFromRecord(rec), nil
}

func (s *Service) fetchLive(ctx context.Context, route Route, kind models.MediaKind) (*models.MediaItem, error) {
	adapter, ok := s.adapters[route.Source]
	if !ok {
		return nil, &UnsupportedIdentifierError{Identifier: route.Source + "-" + route.ExternalID}
	}
	return adapter.FetchDetail(ctx, route.ExternalID, kind)
}

// itemFromRecord reconstructs a canonical item from a persisted snapshot
// using only locally available fields. It never fails and performs no
// network calls, so the fallback path is always fast.
func itemFromRecord(rec *models.StoredMediaItem) *models.MediaItem {
	item := &models.MediaItem{
		ID:          rec.Key,
		ExternalID:  rec.ExternalID,
		MediaKind:   rec.MediaKind,
		Title:       rec.Title,
		Description: rec.Description,
		Poster:      rec.PosterURL,
		ReleaseDate: rec.ReleaseDate,
		Rating:      rec.AvgRating,
		VoteCount:   rec.RatingCount,
		Genres:      rec.Genres,
		SourceKind:  models.SourceKind(rec.SourceKind),
		Metadata:    rec.Metadata,
	}
	if y := parseRecordYear(rec.ReleaseDate); y > 0 {
		item.Year = y
	}
	return Normalize(item, "")
}

func parseRecordYear(date string) int {
	if len(date) < 4 {
		return 0
	}
	year := 0
	for _, r := range date[:4] {
		if r < '0' || r > '9' {
			return 0
		}
		year = year*10 + int(r-'0')
	}
	return year
}
