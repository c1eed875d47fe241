package resolver

import (
	"context"
	"errors"
	"testing"

	"mediadex/models"
	"mediadex/sources"
)

type stubAdapter struct {
	item  *models.MediaItem
	err   error
	calls int
}

func (a *stubAdapter) FetchDetail(ctx context.Context, externalID string, kind models.MediaKind) (*models.MediaItem, error) {
	a.calls++
	if a.err != nil {
		return nil, a.err
	}
	item := *a.item
	return &item, nil
}

type stubStore struct {
	records map[string]*models.StoredMediaItem
	err     error
}

func (s *stubStore) GetByKeyAndKind(key string, kind models.MediaKind) (*models.StoredMediaItem, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.records[key], nil
}

const recordKey = "7b9e9a30-52c4-4f3d-9d6a-0b1c2d3e4f5a"

func TestResolveSourceKey(t *testing.T) {
	adapter := &stubAdapter{item: &models.MediaItem{
		ID:        "movieTvService-550",
		Title:     "Fight Club",
		MediaKind: models.KindMovie,
	}}
	svc := New(&stubStore{}, map[string]Adapter{sources.SourceNameMovieTV: adapter})

	item, err := svc.Resolve(context.Background(), models.KindMovie, "movieTvService-550")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if item.Title != "Fight Club" {
		t.Fatalf("unexpected title: %s", item.Title)
	}
	if item.SourceKind != models.SourceMovieTV {
		t.Fatalf("expected source kind stamped, got %s", item.SourceKind)
	}
	if item.Genres == nil || item.Metadata == nil {
		t.Fatal("expected non-nil genres and metadata after normalization")
	}
}

func TestResolveSourceKeyFailurePropagates(t *testing.T) {
	adapter := &stubAdapter{err: &sources.UpstreamError{Source: sources.SourceNameMovieTV, StatusCode: 502}}
	svc := New(&stubStore{}, map[string]Adapter{sources.SourceNameMovieTV: adapter})

	_, err := svc.Resolve(context.Background(), models.KindMovie, "movieTvService-550")
	var ue *sources.UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected upstream error for source-tagged key, got %v", err)
	}
}

func TestResolveRecordKeyLiveRefetch(t *testing.T) {
	adapter := &stubAdapter{item: &models.MediaItem{
		ID:        "movieTvService-550",
		Title:     "Fight Club (fresh)",
		MediaKind: models.KindMovie,
	}}
	store := &stubStore{records: map[string]*models.StoredMediaItem{
		recordKey: {
			Key:        recordKey,
			MediaKind:  models.KindMovie,
			Title:      "Fight Club (stale)",
			SourceKind: string(models.SourceMovieTV),
			ExternalID: "550",
		},
	}}
	svc := New(store, map[string]Adapter{sources.SourceNameMovieTV: adapter})

	item, err := svc.Resolve(context.Background(), models.KindMovie, recordKey)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if item.Title != "Fight Club (fresh)" {
		t.Fatalf("expected live data preferred, got %q", item.Title)
	}
	if adapter.calls != 1 {
		t.Fatalf("expected 1 live fetch, got %d", adapter.calls)
	}
}

func TestResolveRecordKeyFallback(t *testing.T) {
	adapter := &stubAdapter{err: &sources.RateLimitError{Source: sources.SourceNameMovieTV}}
	store := &stubStore{records: map[string]*models.StoredMediaItem{
		recordKey: {
			Key:         recordKey,
			MediaKind:   models.KindMovie,
			Title:       "Fight Club",
			Description: "Persisted snapshot.",
			PosterURL:   "https://img.test/poster.jpg",
			Genres:      []string{"Drama"},
			AvgRating:   8.4,
			RatingCount: 100,
			ReleaseDate: "1999-10-15",
			SourceKind:  string(models.SourceMovieTV),
			ExternalID:  "550",
		},
	}}
	svc := New(store, map[string]Adapter{sources.SourceNameMovieTV: adapter})

	item, err := svc.Resolve(context.Background(), models.KindMovie, recordKey)
	if err != nil {
		t.Fatalf("expected fallback to persisted record, got error: %v", err)
	}
	if item.ID != recordKey {
		t.Fatalf("expected record key as id, got %s", item.ID)
	}
	if item.Title != "Fight Club" || item.Poster != "https://img.test/poster.jpg" {
		t.Fatalf("unexpected fallback fields: %+v", item)
	}
	if item.Year != 1999 {
		t.Fatalf("expected year derived from release date, got %d", item.Year)
	}
	if item.SourceKind != models.SourceMovieTV {
		t.Fatalf("unexpected source kind: %s", item.SourceKind)
	}
	if item.Genres == nil || item.Metadata == nil {
		t.Fatal("expected non-nil genres and metadata")
	}
}

func TestResolveRecordKeyNoSourceInfo(t *testing.T) {
	// A record without routing info cannot be refetched; it is served
	// straight from the snapshot with the unknown source kind.
	store := &stubStore{records: map[string]*models.StoredMediaItem{
		recordKey: {
			Key:       recordKey,
			MediaKind: models.KindBook,
			Title:     "Imported Book",
		},
	}}
	svc := New(store, map[string]Adapter{})

	item, err := svc.Resolve(context.Background(), models.KindBook, recordKey)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if item.Title != "Imported Book" {
		t.Fatalf("unexpected title: %s", item.Title)
	}
	if item.SourceKind != models.SourceUnknown {
		t.Fatalf("expected unknown source kind, got %s", item.SourceKind)
	}
}

func TestResolveRecordKeyNotFound(t *testing.T) {
	svc := New(&stubStore{}, map[string]Adapter{})

	_, err := svc.Resolve(context.Background(), models.KindMovie, recordKey)
	if !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestResolveUnsupportedIdentifier(t *testing.T) {
	svc := New(&stubStore{}, map[string]Adapter{})

	_, err := svc.Resolve(context.Background(), models.KindMovie, "garbage")
	var unsupported *UnsupportedIdentifierError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedIdentifierError, got %v", err)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	item := &models.MediaItem{Title: "X"}
	first := Normalize(item, models.SourceAnime)
	second := Normalize(first, models.SourceAnime)

	if second.SourceKind != models.SourceAnime {
		t.Fatalf("unexpected source kind: %s", second.SourceKind)
	}
	if second.Genres == nil || second.Metadata == nil {
		t.Fatal("expected non-nil genres and metadata")
	}
}
