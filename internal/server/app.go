package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/spotdash/internal/cache"
	"github.com/desertthunder/spotdash/internal/services"
	"github.com/desertthunder/spotdash/internal/session"
	"github.com/desertthunder/spotdash/internal/shared"
)

// New assembles the dashboard HTTP server: session registry, auth handler,
// API handler and middleware, wired over the given cache store.
func New(cfg *shared.Config, store cache.Store, logger *log.Logger) *http.Server {
	registry := NewRegistry()
	creds := cfg.Credentials.Spotify

	factory := func(bag session.Bag) *services.SpotifyClient {
		return services.NewSpotifyClient(services.ClientOpts{
			Session:      session.NewView(bag),
			Store:        store,
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			RateLimit:    cfg.Client.RateLimit,
		})
	}

	router := NewBasicRouter()
	router.Use(LoggingMiddleware(logger), SessionMiddleware(registry))
	router.Handler(NewAuthHandler(services.OAuthConfig(creds)))
	router.Handler(NewDashboardHandler(registry, factory, logger))

	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
