package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port         int
	DatabasePath string

	// Movie/TV catalog credential. The bibliographic and anime catalogs are
	// keyless public APIs.
	MovieTVAPIKey string

	// Upstream base URLs, overridable so tests can point at doubles.
	MovieTVBaseURL      string
	MovieTVImageBaseURL string
	BooksBaseURL        string
	AnimeBaseURL        string

	HTTPTimeoutSeconds int

	// Per-source request budget and window for upstream admission.
	SourceRateBudget        int
	SourceRateWindowSeconds int
}

func Load() *Config {
	return &Config{
		Port:                    envInt("PORT", 8080),
		DatabasePath:            env("DATABASE_PATH", "data/mediadex.db"),
		MovieTVAPIKey:           env("MOVIETV_API_KEY", ""),
		MovieTVBaseURL:          env("MOVIETV_BASE_URL", "https://api.themoviedb.org/3"),
		MovieTVImageBaseURL:     env("MOVIETV_IMAGE_BASE_URL", "https://image.tmdb.org/t/p"),
		BooksBaseURL:            env("BOOKS_BASE_URL", "https://openlibrary.org"),
		AnimeBaseURL:            env("ANIME_BASE_URL", "https://api.jikan.moe/v4"),
		HTTPTimeoutSeconds:      envInt("HTTP_TIMEOUT_SECONDS", 15),
		SourceRateBudget:        envInt("SOURCE_RATE_BUDGET", 10),
		SourceRateWindowSeconds: envInt("SOURCE_RATE_WINDOW_SECONDS", 60),
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
