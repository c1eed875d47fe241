package models

import "time"

// MediaKind identifies the kind of media a caller is asking about.
type MediaKind string

const (
	KindMovie MediaKind = "movie"
	KindTV    MediaKind = "tv"
	KindBook  MediaKind = "book"
	KindAnime MediaKind = "anime"
	KindManga MediaKind = "manga"
)

// ValidMediaKind reports whether s names a supported media kind.
func ValidMediaKind(s string) bool {
	switch MediaKind(s) {
	case KindMovie, KindTV, KindBook, KindAnime, KindManga:
		return true
	}
	return false
}

// SourceKind identifies which upstream catalog a media item originated from.
type SourceKind string

const (
	SourceMovieTV       SourceKind = "movie-tv-service"
	SourceBibliographic SourceKind = "bibliographic-service"
	SourceAnime         SourceKind = "anime-service"
	SourceUnknown       SourceKind = "unknown"
)

// MediaItem is the unified media-detail representation returned to all
// callers, independent of which upstream it came from. Genres and Metadata
// are never nil; kind-specific fields are omitted when absent.
type MediaItem struct {
	ID            string    `json:"id"`
	ExternalID    string    `json:"externalId"`
	Title         string    `json:"title,omitempty"`
	OriginalTitle string    `json:"originalTitle,omitempty"`
	MediaKind     MediaKind `json:"mediaKind"`
	Year          int       `json:"year,omitempty"`
	ReleaseDate   string    `json:"releaseDate,omitempty"`
	Poster        string    `json:"poster,omitempty"`
	Backdrop      string    `json:"backdrop,omitempty"`
	Description   string    `json:"description,omitempty"`
	Rating        float64   `json:"rating,omitempty"` // 0-10 scale
	VoteCount     int       `json:"voteCount,omitempty"`
	Genres        []string  `json:"genres"`

	// Movie/TV fields
	Runtime  int      `json:"runtime,omitempty"`
	Status   string   `json:"status,omitempty"`
	Language string   `json:"language,omitempty"`
	Director string   `json:"director,omitempty"`
	Cast     []string `json:"cast,omitempty"`

	// Book fields
	Author    string `json:"author,omitempty"`
	Publisher string `json:"publisher,omitempty"`
	Pages     int    `json:"pages,omitempty"`
	ISBN      string `json:"isbn,omitempty"`

	// Anime/manga fields
	Studio   string `json:"studio,omitempty"`
	Episodes int    `json:"episodes,omitempty"`
	Season   string `json:"season,omitempty"`

	SourceKind SourceKind `json:"sourceKind"`

	// Metadata carries source-specific enrichment (cast details, crew,
	// trailers, author bios, character lists, ...) with no fixed schema.
	Metadata map[string]any `json:"metadata"`
}

// StoredMediaItem is the persisted snapshot shape kept in the item store.
// The resolver reads it as a fallback when the owning upstream fails.
type StoredMediaItem struct {
	Key         string         `json:"key"`
	MediaKind   MediaKind      `json:"mediaKind"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	PosterURL   string         `json:"posterUrl,omitempty"`
	Genres      []string       `json:"genres"`
	AvgRating   float64        `json:"avgRating,omitempty"`
	RatingCount int            `json:"ratingCount,omitempty"`
	ReleaseDate string         `json:"releaseDate,omitempty"`
	SourceKind  string         `json:"sourceKind,omitempty"`
	ExternalID  string         `json:"externalId,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}
