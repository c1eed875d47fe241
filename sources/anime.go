package sources

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mediadex/models"
)

// maxCharacterEntries caps the character list carried in metadata.
const maxCharacterEntries = 10

// AnimeAdapter translates the anime/manga catalog into the canonical
// schema. Anime and manga live on separate endpoint families; the caller's
// media kind picks the family.
type AnimeAdapter struct {
	baseURL string
	httpc   *http.Client
	limiter *SourceLimiter
}

func NewAnimeAdapter(baseURL string, httpc *http.Client, limiter *SourceLimiter) *AnimeAdapter {
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	return &AnimeAdapter{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   httpc,
		limiter: limiter,
	}
}

type animeNamed struct {
	Name string `json:"name"`
}

type animeDetail struct {
	MalID          int64        `json:"mal_id"`
	Title          string       `json:"title"`
	TitleEnglish   string       `json:"title_english"`
	TitleJapanese  string       `json:"title_japanese"`
	Synopsis       string       `json:"synopsis"`
	Score          float64      `json:"score"`
	ScoredBy       int          `json:"scored_by"`
	Status         string       `json:"status"`
	Duration       string       `json:"duration"`
	Episodes       int          `json:"episodes"`
	Chapters       int          `json:"chapters"` // manga
	Volumes        int          `json:"volumes"`  // manga
	Season         string       `json:"season"`
	Year           int          `json:"year"`
	Genres         []animeNamed `json:"genres"`
	Themes         []animeNamed `json:"themes"`
	Demographics   []animeNamed `json:"demographics"`
	Studios        []animeNamed `json:"studios"`
	Authors        []animeNamed `json:"authors"`        // manga
	Serializations []animeNamed `json:"serializations"` // manga
	Images         struct {
		JPG struct {
			ImageURL      string `json:"image_url"`
			LargeImageURL string `json:"large_image_url"`
		} `json:"jpg"`
	} `json:"images"`
	Aired struct {
		From string `json:"from"`
	} `json:"aired"`
	Published struct {
		From string `json:"from"`
	} `json:"published"` // manga
	Trailer struct {
		YouTubeID string `json:"youtube_id"`
		URL       string `json:"url"`
	} `json:"trailer"`
	Relations []struct {
		Relation string       `json:"relation"`
		Entry    []animeNamed `json:"entry"`
	} `json:"relations"`
}

type animeCharacters struct {
	Data []struct {
		Character struct {
			Name string `json:"name"`
		} `json:"character"`
		Role string `json:"role"`
	} `json:"data"`
}

// FetchDetail resolves one anime or manga entry. The character list is a
// best-effort enrichment: the upstream throttles it aggressively, so it is
// fetched once with no retry and dropped on failure.
func (a *AnimeAdapter) FetchDetail(ctx context.Context, externalID string, kind models.MediaKind) (*models.MediaItem, error) {
	if a.limiter != nil && !a.limiter.Admit(SourceNameAnime) {
		return nil, &RateLimitError{Source: SourceNameAnime}
	}

	family := "anime"
	if kind == models.KindManga {
		family = "manga"
	}

	var resp struct {
		Data animeDetail `json:"data"`
	}
	primaryURL := a.baseURL + "/" + family + "/" + url.PathEscape(externalID) + "/full"
	if err := fetchJSON(ctx, a.httpc, SourceNameAnime, primaryURL, &resp); err != nil {
		return nil, err
	}
	d := resp.Data

	item := &models.MediaItem{
		ID:            SourceNameAnime + "-" + family + "-" + externalID,
		ExternalID:    externalID,
		MediaKind:     kind,
		Title:         d.Title,
		OriginalTitle: d.TitleJapanese,
		Description:   d.Synopsis,
		Rating:        d.Score,
		VoteCount:     d.ScoredBy,
		Status:        d.Status,
		Season:        d.Season,
		Year:          d.Year,
		Genres:        []string{},
		SourceKind:    models.SourceAnime,
		Metadata:      map[string]any{},
	}

	if d.TitleEnglish != "" {
		item.Title = d.TitleEnglish
		item.Metadata["nativeTitle"] = d.Title
	}
	if d.Images.JPG.LargeImageURL != "" {
		item.Poster = d.Images.JPG.LargeImageURL
	} else {
		item.Poster = d.Images.JPG.ImageURL
	}

	released := d.Aired.From
	if released == "" {
		released = d.Published.From
	}
	if released != "" {
		// Timestamps come back as RFC3339; keep the date part.
		if i := strings.IndexByte(released, 'T'); i > 0 {
			released = released[:i]
		}
		item.ReleaseDate = released
		if item.Year == 0 {
			item.Year = parseYear(released)
		}
	}

	for _, group := range [][]animeNamed{d.Genres, d.Themes, d.Demographics} {
		for _, g := range group {
			if g.Name != "" {
				item.Genres = append(item.Genres, g.Name)
			}
		}
	}
	if len(d.Studios) > 0 {
		item.Studio = d.Studios[0].Name
	}
	if runtime := parseLeadingMinutes(d.Duration); runtime > 0 {
		item.Runtime = runtime
	}

	if kind == models.KindManga {
		item.Episodes = d.Chapters
		if d.Volumes > 0 {
			item.Metadata["volumes"] = d.Volumes
		}
		names := make([]string, 0, len(d.Authors))
		for _, au := range d.Authors {
			if au.Name != "" {
				names = append(names, au.Name)
			}
		}
		item.Author = strings.Join(names, ", ")
		if len(d.Serializations) > 0 {
			serials := make([]string, 0, len(d.Serializations))
			for _, s := range d.Serializations {
				serials = append(serials, s.Name)
			}
			item.Metadata["serializations"] = serials
		}
	} else {
		item.Episodes = d.Episodes
	}

	if d.Trailer.URL != "" {
		item.Metadata["trailer"] = map[string]any{
			"youtubeId": d.Trailer.YouTubeID,
			"url":       d.Trailer.URL,
		}
	}
	if len(d.Relations) > 0 {
		relations := make([]map[string]any, 0, len(d.Relations))
		for _, rel := range d.Relations {
			titles := make([]string, 0, len(rel.Entry))
			for _, e := range rel.Entry {
				titles = append(titles, e.Name)
			}
			relations = append(relations, map[string]any{
				"relation": rel.Relation,
				"titles":   titles,
			})
		}
		item.Metadata["relations"] = relations
	}

	a.enrichCharacters(ctx, family, externalID, item)

	return item, nil
}

// enrichCharacters fetches the character list once; failures are expected
// and simply leave the enrichment out.
func (a *AnimeAdapter) enrichCharacters(ctx context.Context, family, externalID string, item *models.MediaItem) {
	auxCtx, cancel := context.WithTimeout(ctx, auxFetchTimeout)
	defer cancel()

	var chars animeCharacters
	charURL := a.baseURL + "/" + family + "/" + url.PathEscape(externalID) + "/characters"
	if err := fetchJSONOnce(auxCtx, a.httpc, SourceNameAnime, charURL, &chars); err != nil {
		log.Printf("[anime] characters fetch failed id=%s: %v", externalID, err)
		return
	}
	if len(chars.Data) == 0 {
		return
	}
	entries := make([]map[string]any, 0, maxCharacterEntries)
	for _, c := range chars.Data {
		if len(entries) >= maxCharacterEntries {
			break
		}
		entries = append(entries, map[string]any{
			"name": c.Character.Name,
			"role": c.Role,
		})
	}
	item.Metadata["characters"] = entries
}

// parseLeadingMinutes extracts the leading integer token from a free-text
// duration like "24 min per ep".
func parseLeadingMinutes(s string) int {
	s = strings.TrimSpace(s)
	n := 0
	seen := false
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
		seen = true
	}
	if !seen {
		return 0
	}
	return n
}
