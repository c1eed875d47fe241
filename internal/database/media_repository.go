package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mediadex/models"
)

// MediaRepository reads and writes persisted media snapshots.
type MediaRepository struct {
	db *sql.DB
}

func NewMediaRepository(db *sql.DB) *MediaRepository {
	return &MediaRepository{db: db}
}

// GetByKeyAndKind returns the snapshot stored under (key, kind), or
// (nil, nil) when no such record exists.
func (r *MediaRepository) GetByKeyAndKind(key string, kind models.MediaKind) (*models.StoredMediaItem, error) {
	row := r.db.QueryRow(`
		SELECT key, media_kind, title, description, poster_url, genres,
		       avg_rating, rating_count, release_date, source_kind,
		       external_id, metadata, created_at, updated_at
		FROM media_items
		WHERE key = ? AND media_kind = ?`, key, string(kind))

	var item models.StoredMediaItem
	var kindStr, genresJSON, metadataJSON string
	err := row.Scan(
		&item.Key, &kindStr, &item.Title, &item.Description, &item.PosterURL,
		&genresJSON, &item.AvgRating, &item.RatingCount, &item.ReleaseDate,
		&item.SourceKind, &item.ExternalID, &metadataJSON,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query media item: %w", err)
	}

	item.MediaKind = models.MediaKind(kindStr)
	if err := json.Unmarshal([]byte(genresJSON), &item.Genres); err != nil {
		item.Genres = []string{}
	}
	if err := json.Unmarshal([]byte(metadataJSON), &item.Metadata); err != nil {
		item.Metadata = map[string]any{}
	}
	return &item, nil
}

// Upsert stores or replaces the snapshot under (key, kind).
func (r *MediaRepository) Upsert(item *models.StoredMediaItem) error {
	genres := item.Genres
	if genres == nil {
		genres = []string{}
	}
	genresJSON, err := json.Marshal(genres)
	if err != nil {
		return fmt.Errorf("marshal genres: %w", err)
	}
	metadata := item.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	now := time.Now().UTC()
	_, err = r.db.Exec(`
		INSERT INTO media_items (
			key, media_kind, title, description, poster_url, genres,
			avg_rating, rating_count, release_date, source_kind,
			external_id, metadata, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (key, media_kind) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			poster_url = excluded.poster_url,
			genres = excluded.genres,
			avg_rating = excluded.avg_rating,
			rating_count = excluded.rating_count,
			release_date = excluded.release_date,
			source_kind = excluded.source_kind,
			external_id = excluded.external_id,
			metadata = excluded.metadata,
			updated_at = excluded.updated_at`,
		item.Key, string(item.MediaKind), item.Title, item.Description,
		item.PosterURL, string(genresJSON), item.AvgRating, item.RatingCount,
		item.ReleaseDate, item.SourceKind, item.ExternalID,
		string(metadataJSON), now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert media item: %w", err)
	}
	return nil
}
