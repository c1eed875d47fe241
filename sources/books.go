package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"mediadex/models"
)

const bookCoverBaseURL = "https://covers.openlibrary.org/b/id"

// maxAuthorFetches caps the optional author sub-resource lookups per work.
const maxAuthorFetches = 3

// maxBookGenres caps how many subjects are kept as genres.
const maxBookGenres = 10

// BooksAdapter translates the bibliographic catalog's work/edition/author
// model into the canonical schema.
type BooksAdapter struct {
	baseURL string
	httpc   *http.Client
	limiter *SourceLimiter
}

func NewBooksAdapter(baseURL string, httpc *http.Client, limiter *SourceLimiter) *BooksAdapter {
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	return &BooksAdapter{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   httpc,
		limiter: limiter,
	}
}

type bookWork struct {
	Key              string          `json:"key"`
	Title            string          `json:"title"`
	Description      json.RawMessage `json:"description"` // string or {type, value}
	Subjects         []string        `json:"subjects"`
	Covers           []int           `json:"covers"`
	FirstPublishDate string          `json:"first_publish_date"`
	Authors          []struct {
		Author struct {
			Key string `json:"key"`
		} `json:"author"`
	} `json:"authors"`
}

type bookEdition struct {
	Publishers    []string `json:"publishers"`
	NumberOfPages int      `json:"number_of_pages"`
	ISBN13        []string `json:"isbn_13"`
	ISBN10        []string `json:"isbn_10"`
	PublishDate   string   `json:"publish_date"`
}

type bookAuthor struct {
	Name string          `json:"name"`
	Bio  json.RawMessage `json:"bio"` // string or {type, value}
}

// normalizeWorkKey brings an identifier like "OL123W", "works/OL123W" or
// "/works/OL123W" into canonical "/works/OL123W" path form.
func normalizeWorkKey(id string) string {
	id = strings.TrimSpace(id)
	id = strings.TrimPrefix(id, "/")
	if !strings.HasPrefix(id, "works/") {
		id = "works/" + id
	}
	return "/" + id
}

// FetchDetail resolves one work. The edition and author sub-resources are
// fetched after the primary request; any failure there just leaves the
// corresponding field absent.
func (a *BooksAdapter) FetchDetail(ctx context.Context, externalID string, kind models.MediaKind) (*models.MediaItem, error) {
	if a.limiter != nil && !a.limiter.Admit(SourceNameBibliographic) {
		return nil, &RateLimitError{Source: SourceNameBibliographic}
	}

	workKey := normalizeWorkKey(externalID)

	var work bookWork
	if err := fetchJSON(ctx, a.httpc, SourceNameBibliographic, a.baseURL+workKey+".json", &work); err != nil {
		return nil, err
	}

	item := &models.MediaItem{
		ID:          SourceNameBibliographic + "-" + strings.TrimPrefix(workKey, "/works/"),
		ExternalID:  externalID,
		MediaKind:   kind,
		Title:       work.Title,
		Description: decodeTextOrObject(work.Description),
		Genres:      []string{},
		SourceKind:  models.SourceBibliographic,
		Metadata:    map[string]any{},
	}

	if len(work.Covers) > 0 && work.Covers[0] > 0 {
		item.Poster = fmt.Sprintf("%s/%d-L.jpg", bookCoverBaseURL, work.Covers[0])
	}
	if work.FirstPublishDate != "" {
		item.ReleaseDate = work.FirstPublishDate
		if y := parseYear(work.FirstPublishDate); y > 0 {
			item.Year = y
		}
	}
	for i, s := range work.Subjects {
		if i >= maxBookGenres {
			break
		}
		item.Genres = append(item.Genres, s)
	}

	a.enrichEdition(ctx, workKey, item)
	a.enrichAuthors(ctx, &work, item)

	return item, nil
}

// enrichEdition pulls publisher, page count and ISBN from the first edition.
func (a *BooksAdapter) enrichEdition(ctx context.Context, workKey string, item *models.MediaItem) {
	auxCtx, cancel := context.WithTimeout(ctx, auxFetchTimeout)
	defer cancel()

	var resp struct {
		Entries []bookEdition `json:"entries"`
	}
	if err := fetchJSONOnce(auxCtx, a.httpc, SourceNameBibliographic, a.baseURL+workKey+"/editions.json?limit=1", &resp); err != nil {
		log.Printf("[books] edition fetch failed work=%s: %v", workKey, err)
		return
	}
	if len(resp.Entries) == 0 {
		return
	}
	ed := resp.Entries[0]
	if len(ed.Publishers) > 0 {
		item.Publisher = ed.Publishers[0]
	}
	if ed.NumberOfPages > 0 {
		item.Pages = ed.NumberOfPages
	}
	if len(ed.ISBN13) > 0 {
		item.ISBN = ed.ISBN13[0]
	} else if len(ed.ISBN10) > 0 {
		item.ISBN = ed.ISBN10[0]
	}
	if ed.PublishDate != "" {
		item.Metadata["editionPublishDate"] = ed.PublishDate
	}
}

// enrichAuthors resolves up to three author records for names and bios.
func (a *BooksAdapter) enrichAuthors(ctx context.Context, work *bookWork, item *models.MediaItem) {
	var names []string
	var bios []map[string]any

	for i, ref := range work.Authors {
		if i >= maxAuthorFetches {
			break
		}
		key := strings.TrimSpace(ref.Author.Key)
		if key == "" {
			continue
		}
		auxCtx, cancel := context.WithTimeout(ctx, auxFetchTimeout)
		var author bookAuthor
		err := fetchJSONOnce(auxCtx, a.httpc, SourceNameBibliographic, a.baseURL+key+".json", &author)
		cancel()
		if err != nil {
			log.Printf("[books] author fetch failed key=%s: %v", key, err)
			continue
		}
		if author.Name == "" {
			continue
		}
		names = append(names, author.Name)
		entry := map[string]any{"name": author.Name}
		if bio := decodeTextOrObject(author.Bio); bio != "" {
			entry["bio"] = bio
		}
		bios = append(bios, entry)
	}

	if len(names) > 0 {
		item.Author = strings.Join(names, ", ")
	}
	if len(bios) > 0 {
		item.Metadata["authors"] = bios
	}
}

// decodeTextOrObject handles the catalog's habit of returning prose fields
// either as a bare string or as {"type": ..., "value": ...}.
func decodeTextOrObject(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Value
	}
	return ""
}
