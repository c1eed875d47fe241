package resolver

import (
	"errors"
	"testing"

	"mediadex/models"
	"mediadex/sources"
)

func TestClassifyIdentifierRecordKey(t *testing.T) {
	route, err := ClassifyIdentifier(models.KindMovie, "a2f1c9e0-1b2c-4d5e-8f90-123456789abc")
	if err != nil {
		t.Fatalf("ClassifyIdentifier failed: %v", err)
	}
	if !route.IsRecord {
		t.Fatal("expected record-key route")
	}
	if route.RecordKey != "a2f1c9e0-1b2c-4d5e-8f90-123456789abc" {
		t.Fatalf("unexpected record key: %s", route.RecordKey)
	}
}

func TestClassifyIdentifierSourceKeys(t *testing.T) {
	tests := []struct {
		kind       models.MediaKind
		identifier string
		source     string
		externalID string
	}{
		{models.KindMovie, "movieTvService-550", sources.SourceNameMovieTV, "550"},
		{models.KindTV, "movieTvService-1396", sources.SourceNameMovieTV, "1396"},
		{models.KindBook, "bibliographicService-OL45883W", sources.SourceNameBibliographic, "OL45883W"},
		{models.KindAnime, "animeService-anime-5114", sources.SourceNameAnime, "5114"},
		{models.KindManga, "animeService-manga-2", sources.SourceNameAnime, "2"},
	}

	for _, tc := range tests {
		route, err := ClassifyIdentifier(tc.kind, tc.identifier)
		if err != nil {
			t.Fatalf("ClassifyIdentifier(%s, %s) failed: %v", tc.kind, tc.identifier, err)
		}
		if route.IsRecord {
			t.Fatalf("%s: expected source route", tc.identifier)
		}
		if route.Source != tc.source || route.ExternalID != tc.externalID {
			t.Fatalf("%s: got source=%s external=%s", tc.identifier, route.Source, route.ExternalID)
		}
	}
}

func TestClassifyIdentifierKindMismatch(t *testing.T) {
	tests := []struct {
		kind       models.MediaKind
		identifier string
	}{
		{models.KindBook, "movieTvService-550"},
		{models.KindMovie, "bibliographicService-OL45883W"},
		{models.KindManga, "animeService-anime-5114"},
		{models.KindAnime, "animeService-manga-2"},
	}

	for _, tc := range tests {
		_, err := ClassifyIdentifier(tc.kind, tc.identifier)
		var mismatch *KindMismatchError
		if !errors.As(err, &mismatch) {
			t.Fatalf("ClassifyIdentifier(%s, %s): expected KindMismatchError, got %v", tc.kind, tc.identifier, err)
		}
	}
}

func TestClassifyIdentifierUnsupported(t *testing.T) {
	for _, id := range []string{"", "12345", "someService-1", "not-a-uuid-at-all"} {
		_, err := ClassifyIdentifier(models.KindMovie, id)
		var unsupported *UnsupportedIdentifierError
		if !errors.As(err, &unsupported) {
			t.Fatalf("ClassifyIdentifier(movie, %q): expected UnsupportedIdentifierError, got %v", id, err)
		}
	}
}

func TestRouteForRecord(t *testing.T) {
	route, ok := routeForRecord(&models.StoredMediaItem{
		SourceKind: string(models.SourceMovieTV),
		ExternalID: "550",
	})
	if !ok {
		t.Fatal("expected live route for movie/tv record")
	}
	if route.Source != sources.SourceNameMovieTV || route.ExternalID != "550" {
		t.Fatalf("unexpected route: %+v", route)
	}

	if _, ok := routeForRecord(&models.StoredMediaItem{SourceKind: string(models.SourceMovieTV)}); ok {
		t.Fatal("expected no route without an external id")
	}
	if _, ok := routeForRecord(&models.StoredMediaItem{SourceKind: "unknown", ExternalID: "x"}); ok {
		t.Fatal("expected no route for unknown source kind")
	}
}
