package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"mediadex/models"
	"mediadex/resolver"
	"mediadex/sources"
)

type mediaResolver interface {
	Resolve(ctx context.Context, kind models.MediaKind, identifier string) (*models.MediaItem, error)
}

var _ mediaResolver = (*resolver.Service)(nil)

// MediaHandler serves the media detail resolution endpoint.
type MediaHandler struct {
	Resolver mediaResolver
}

func NewMediaHandler(r mediaResolver) *MediaHandler {
	return &MediaHandler{Resolver: r}
}

type errorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type detailResponse struct {
	Success bool              `json:"success"`
	Media   *models.MediaItem `json:"media"`
}

type errorResponse struct {
	Success bool      `json:"success"`
	Error   errorInfo `json:"error"`
}

// fontExtensions are static-asset suffixes that show up as stray browser
// requests; they must never reach an adapter.
var fontExtensions = []string{".woff", ".woff2", ".ttf", ".eot", ".otf"}

// Detail handles GET /api/media/detail?type={kind}&id={identifier}.
func (h *MediaHandler) Detail(w http.ResponseWriter, r *http.Request) {
	kindStr := strings.TrimSpace(r.URL.Query().Get("type"))
	identifier := strings.TrimSpace(r.URL.Query().Get("id"))

	if kindStr == "" || identifier == "" {
		writeError(w, http.StatusBadRequest, "MISSING_PARAMS", "type and id are required")
		return
	}
	if !models.ValidMediaKind(kindStr) {
		writeError(w, http.StatusBadRequest, "INVALID_TYPE", "unsupported media type: "+kindStr)
		return
	}
	if isStaticAssetName(identifier) {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "identifier looks like a static asset filename")
		return
	}

	kind := models.MediaKind(kindStr)
	item, err := h.Resolver.Resolve(r.Context(), kind, identifier)
	if err != nil {
		status, code, message := mapResolveError(err)
		if status >= 500 {
			log.Printf("[media] resolve failed kind=%s id=%s: %v", kind, identifier, err)
		}
		writeError(w, status, code, message)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	json.NewEncoder(w).Encode(detailResponse{Success: true, Media: item})
}

// mapResolveError translates the resolver's failure taxonomy into the
// transport-level status and stable machine-readable code.
func mapResolveError(err error) (status int, code, message string) {
	var unsupported *resolver.UnsupportedIdentifierError
	var mismatch *resolver.KindMismatchError
	var rateLimited *sources.RateLimitError
	var configMissing *sources.ConfigMissingError
	var upstream *sources.UpstreamError

	switch {
	case errors.As(err, &mismatch):
		return http.StatusBadRequest, "API_ERROR", mismatch.Error()
	case errors.As(err, &unsupported):
		return http.StatusBadRequest, "API_ERROR", unsupported.Error()
	case errors.Is(err, sources.ErrItemNotFound), errors.Is(err, resolver.ErrRecordNotFound):
		return http.StatusNotFound, "NOT_FOUND", "media item not found"
	case errors.As(err, &rateLimited):
		return http.StatusTooManyRequests, "API_ERROR", rateLimited.Error()
	case errors.As(err, &configMissing):
		return http.StatusInternalServerError, "API_ERROR", configMissing.Error()
	case errors.As(err, &upstream):
		return http.StatusInternalServerError, "API_ERROR", upstream.Error()
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR", "internal error"
}

func isStaticAssetName(id string) bool {
	lower := strings.ToLower(id)
	for _, ext := range fontExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Success: false, Error: errorInfo{Code: code, Message: message}})
}
