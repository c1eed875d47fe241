package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"mediadex/api"
	"mediadex/config"
	"mediadex/handlers"
	"mediadex/internal/database"
	"mediadex/resolver"
	"mediadex/sources"
	"mediadex/utils"
)

func main() {
	cfg := config.Load()

	db, err := database.NewDB(database.Config{DatabasePath: cfg.DatabasePath})
	if err != nil {
		log.Fatalf("[main] database init failed: %v", err)
	}
	defer db.Close()

	store := database.NewMediaRepository(db.Connection())

	httpc := &http.Client{Timeout: time.Duration(cfg.HTTPTimeoutSeconds) * time.Second}
	limiter := sources.NewSourceLimiter(cfg.SourceRateBudget, time.Duration(cfg.SourceRateWindowSeconds)*time.Second)

	adapters := map[string]resolver.Adapter{
		sources.SourceNameMovieTV:       sources.NewMovieTVAdapter(cfg.MovieTVAPIKey, cfg.MovieTVBaseURL, cfg.MovieTVImageBaseURL, httpc, limiter),
		sources.SourceNameBibliographic: sources.NewBooksAdapter(cfg.BooksBaseURL, httpc, limiter),
		sources.SourceNameAnime:         sources.NewAnimeAdapter(cfg.AnimeBaseURL, httpc, limiter),
	}

	svc := resolver.New(store, adapters)
	mediaHandler := handlers.NewMediaHandler(svc)

	// 30 requests per minute per client IP across the public endpoints.
	ipLimiter := api.NewIPRateLimiter(rate.Every(2*time.Second), 30)

	router := utils.NewRouter()
	router.HandleFunc("/api/media/detail", api.RateLimitHandlerFunc(ipLimiter, mediaHandler.Detail)).Methods(http.MethodGet)

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("[main] listening on %s", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("[main] server exited: %v", err)
	}
}
