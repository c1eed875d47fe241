package database

import (
	"path/filepath"
	"testing"

	"mediadex/models"
)

func newTestRepo(t *testing.T) *MediaRepository {
	t.Helper()
	db, err := NewDB(Config{DatabasePath: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("NewDB failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewMediaRepository(db.Connection())
}

func TestMediaRepositoryRoundTrip(t *testing.T) {
	repo := newTestRepo(t)

	item := &models.StoredMediaItem{
		Key:         "7b9e9a30-52c4-4f3d-9d6a-0b1c2d3e4f5a",
		MediaKind:   models.KindMovie,
		Title:       "Fight Club",
		Description: "An insomniac office worker.",
		PosterURL:   "https://img.test/poster.jpg",
		Genres:      []string{"Drama", "Thriller"},
		AvgRating:   8.4,
		RatingCount: 26000,
		ReleaseDate: "1999-10-15",
		SourceKind:  string(models.SourceMovieTV),
		ExternalID:  "550",
		Metadata:    map[string]any{"tagline": "Mischief. Mayhem. Soap."},
	}
	if err := repo.Upsert(item); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	got, err := repo.GetByKeyAndKind(item.Key, models.KindMovie)
	if err != nil {
		t.Fatalf("GetByKeyAndKind failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected record, got nil")
	}
	if got.Title != "Fight Club" || got.ExternalID != "550" {
		t.Fatalf("unexpected record: %+v", got)
	}
	if len(got.Genres) != 2 || got.Genres[1] != "Thriller" {
		t.Fatalf("unexpected genres: %v", got.Genres)
	}
	if got.Metadata["tagline"] != "Mischief. Mayhem. Soap." {
		t.Fatalf("unexpected metadata: %v", got.Metadata)
	}
	if got.SourceKind != string(models.SourceMovieTV) {
		t.Fatalf("unexpected source kind: %s", got.SourceKind)
	}
}

func TestMediaRepositoryMissingRecord(t *testing.T) {
	repo := newTestRepo(t)

	got, err := repo.GetByKeyAndKind("no-such-key", models.KindBook)
	if err != nil {
		t.Fatalf("GetByKeyAndKind failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing record, got %+v", got)
	}
}

func TestMediaRepositoryKindScoping(t *testing.T) {
	repo := newTestRepo(t)

	item := &models.StoredMediaItem{
		Key:       "shared-key",
		MediaKind: models.KindAnime,
		Title:     "Some Anime",
	}
	if err := repo.Upsert(item); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	got, err := repo.GetByKeyAndKind("shared-key", models.KindManga)
	if err != nil {
		t.Fatalf("GetByKeyAndKind failed: %v", err)
	}
	if got != nil {
		t.Fatal("expected no record under a different media kind")
	}
}

func TestMediaRepositoryUpsertReplaces(t *testing.T) {
	repo := newTestRepo(t)

	item := &models.StoredMediaItem{
		Key:       "k1",
		MediaKind: models.KindBook,
		Title:     "First Title",
	}
	if err := repo.Upsert(item); err != nil {
		t.Fatalf("first Upsert failed: %v", err)
	}

	item.Title = "Second Title"
	item.Genres = []string{"History"}
	if err := repo.Upsert(item); err != nil {
		t.Fatalf("second Upsert failed: %v", err)
	}

	got, err := repo.GetByKeyAndKind("k1", models.KindBook)
	if err != nil {
		t.Fatalf("GetByKeyAndKind failed: %v", err)
	}
	if got.Title != "Second Title" {
		t.Fatalf("expected replaced title, got %q", got.Title)
	}
	if len(got.Genres) != 1 || got.Genres[0] != "History" {
		t.Fatalf("unexpected genres: %v", got.Genres)
	}
}
