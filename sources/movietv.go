package sources

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"mediadex/models"
)

const (
	movieTVPosterSize   = "w500"
	movieTVBackdropSize = "w780"

	auxFetchTimeout = 5 * time.Second
)

// MovieTVAdapter translates the movie/TV catalog's data model into the
// canonical schema. Movies and TV shows live on different endpoint families
// of the same API.
type MovieTVAdapter struct {
	apiKey    string
	baseURL   string
	imageBase string
	httpc     *http.Client
	limiter   *SourceLimiter
}

func NewMovieTVAdapter(apiKey, baseURL, imageBase string, httpc *http.Client, limiter *SourceLimiter) *MovieTVAdapter {
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	return &MovieTVAdapter{
		apiKey:    apiKey,
		baseURL:   strings.TrimRight(baseURL, "/"),
		imageBase: strings.TrimRight(imageBase, "/"),
		httpc:     httpc,
		limiter:   limiter,
	}
}

type movieTVDetail struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"` // movies
	Name             string  `json:"name"`  // tv
	OriginalTitle    string  `json:"original_title"`
	OriginalName     string  `json:"original_name"`
	Overview         string  `json:"overview"`
	Tagline          string  `json:"tagline"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	ReleaseDate      string  `json:"release_date"`   // movies
	FirstAirDate     string  `json:"first_air_date"` // tv
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Runtime          int     `json:"runtime"` // movies, minutes
	Status           string  `json:"status"`
	OriginalLanguage string  `json:"original_language"`
	NumberOfSeasons  int     `json:"number_of_seasons"`
	NumberOfEpisodes int     `json:"number_of_episodes"`
	Genres           []struct {
		Name string `json:"name"`
	} `json:"genres"`
	CreatedBy []struct {
		Name string `json:"name"`
	} `json:"created_by"`
	ProductionCompanies []struct {
		Name    string `json:"name"`
		Country string `json:"origin_country"`
	} `json:"production_companies"`
}

type movieTVCredits struct {
	Cast []struct {
		Name        string `json:"name"`
		Character   string `json:"character"`
		ProfilePath string `json:"profile_path"`
		Order       int    `json:"order"`
	} `json:"cast"`
	Crew []struct {
		Name string `json:"name"`
		Job  string `json:"job"`
	} `json:"crew"`
}

type movieTVVideos struct {
	Results []struct {
		Key  string `json:"key"`
		Name string `json:"name"`
		Site string `json:"site"`
		Type string `json:"type"`
	} `json:"results"`
}

// maxCastNames caps the flat cast list on the canonical item.
const maxCastNames = 15

// FetchDetail resolves one movie or TV show: rate-limit admission, primary
// detail request, then credits and videos fetched in parallel as best-effort
// enrichment.
func (a *MovieTVAdapter) FetchDetail(ctx context.Context, externalID string, kind models.MediaKind) (*models.MediaItem, error) {
	if a.apiKey == "" {
		return nil, &ConfigMissingError{Source: SourceNameMovieTV}
	}
	if a.limiter != nil && !a.limiter.Admit(SourceNameMovieTV) {
		return nil, &RateLimitError{Source: SourceNameMovieTV}
	}

	family := "movie"
	if kind == models.KindTV {
		family = "tv"
	}

	var detail movieTVDetail
	if err := fetchJSON(ctx, a.httpc, SourceNameMovieTV, a.endpoint(family, externalID, ""), &detail); err != nil {
		return nil, err
	}

	var credits *movieTVCredits
	var videos *movieTVVideos

	p := pool.New().WithMaxGoroutines(2)
	p.Go(func() {
		auxCtx, cancel := context.WithTimeout(ctx, auxFetchTimeout)
		defer cancel()
		var c movieTVCredits
		if err := fetchJSON(auxCtx, a.httpc, SourceNameMovieTV, a.endpoint(family, externalID, "credits"), &c); err != nil {
			log.Printf("[movietv] credits fetch failed id=%s: %v", externalID, err)
			return
		}
		credits = &c
	})
	p.Go(func() {
		auxCtx, cancel := context.WithTimeout(ctx, auxFetchTimeout)
		defer cancel()
		var v movieTVVideos
		if err := fetchJSON(auxCtx, a.httpc, SourceNameMovieTV, a.endpoint(family, externalID, "videos"), &v); err != nil {
			log.Printf("[movietv] videos fetch failed id=%s: %v", externalID, err)
			return
		}
		videos = &v
	})
	p.Wait()

	return a.buildItem(externalID, kind, &detail, credits, videos), nil
}

func (a *MovieTVAdapter) endpoint(family, id, sub string) string {
	u := fmt.Sprintf("%s/%s/%s", a.baseURL, family, url.PathEscape(id))
	if sub != "" {
		u += "/" + sub
	}
	q := url.Values{}
	q.Set("api_key", a.apiKey)
	return u + "?" + q.Encode()
}

func (a *MovieTVAdapter) imageURL(path, size string) string {
	if path == "" {
		return ""
	}
	return a.imageBase + "/" + size + path
}

func (a *MovieTVAdapter) buildItem(externalID string, kind models.MediaKind, d *movieTVDetail, credits *movieTVCredits, videos *movieTVVideos) *models.MediaItem {
	item := &models.MediaItem{
		ID:          SourceNameMovieTV + "-" + externalID,
		ExternalID:  externalID,
		MediaKind:   kind,
		Description: d.Overview,
		Poster:      a.imageURL(d.PosterPath, movieTVPosterSize),
		Backdrop:    a.imageURL(d.BackdropPath, movieTVBackdropSize),
		Rating:      d.VoteAverage,
		VoteCount:   d.VoteCount,
		Status:      d.Status,
		Language:    d.OriginalLanguage,
		Genres:      []string{},
		SourceKind:  models.SourceMovieTV,
		Metadata:    map[string]any{},
	}

	if kind == models.KindTV {
		item.Title = d.Name
		item.OriginalTitle = d.OriginalName
		item.ReleaseDate = d.FirstAirDate
		item.Episodes = d.NumberOfEpisodes
		if d.NumberOfSeasons == 1 {
			item.Season = "1 season"
		} else if d.NumberOfSeasons > 1 {
			item.Season = fmt.Sprintf("%d seasons", d.NumberOfSeasons)
		}
		// TV shows have no single director; join the creators instead.
		names := make([]string, 0, len(d.CreatedBy))
		for _, c := range d.CreatedBy {
			if strings.TrimSpace(c.Name) != "" {
				names = append(names, c.Name)
			}
		}
		item.Director = strings.Join(names, ", ")
	} else {
		item.Title = d.Title
		item.OriginalTitle = d.OriginalTitle
		item.ReleaseDate = d.ReleaseDate
		item.Runtime = d.Runtime
	}

	if y := parseYear(item.ReleaseDate); y > 0 {
		item.Year = y
	}
	for _, g := range d.Genres {
		if g.Name != "" {
			item.Genres = append(item.Genres, g.Name)
		}
	}
	if d.Tagline != "" {
		item.Metadata["tagline"] = d.Tagline
	}
	if len(d.ProductionCompanies) > 0 {
		companies := make([]map[string]any, 0, len(d.ProductionCompanies))
		for _, c := range d.ProductionCompanies {
			companies = append(companies, map[string]any{"name": c.Name, "country": c.Country})
		}
		item.Metadata["productionCompanies"] = companies
	}

	if credits != nil {
		names := make([]string, 0, maxCastNames)
		detailed := make([]map[string]any, 0, maxCastNames)
		for _, c := range credits.Cast {
			if len(names) >= maxCastNames {
				break
			}
			names = append(names, c.Name)
			entry := map[string]any{"name": c.Name, "character": c.Character}
			if c.ProfilePath != "" {
				entry["profile"] = a.imageURL(c.ProfilePath, movieTVPosterSize)
			}
			detailed = append(detailed, entry)
		}
		item.Cast = names
		if len(detailed) > 0 {
			item.Metadata["cast"] = detailed
		}
		if len(credits.Crew) > 0 {
			crew := make([]map[string]any, 0, len(credits.Crew))
			for _, c := range credits.Crew {
				crew = append(crew, map[string]any{"name": c.Name, "job": c.Job})
			}
			item.Metadata["crew"] = crew
		}
		if kind != models.KindTV {
			for _, c := range credits.Crew {
				if c.Job == "Director" {
					item.Director = c.Name
					break
				}
			}
		}
	}

	if videos != nil && len(videos.Results) > 0 {
		trailers := make([]map[string]any, 0, len(videos.Results))
		for _, v := range videos.Results {
			trailers = append(trailers, map[string]any{
				"key":  v.Key,
				"name": v.Name,
				"site": v.Site,
				"type": v.Type,
			})
		}
		item.Metadata["trailers"] = trailers
	}

	return item
}

// parseYear extracts the year from a YYYY-MM-DD (or bare YYYY) date string.
func parseYear(date string) int {
	date = strings.TrimSpace(date)
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
