package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/spotdash/internal/server"
	"github.com/desertthunder/spotdash/internal/services"
	"github.com/desertthunder/spotdash/internal/shared"
	"github.com/desertthunder/spotdash/internal/session"
)

const loginTimeout = 3 * time.Minute

// Login performs the OAuth2 authorization-code flow for the CLI.
//
// Starts a local HTTP server on the redirect URI's port, opens the browser
// for user authorization and persists the resulting session bag.
func (r *Runner) Login(ctx context.Context, cmd *cli.Command) error {
	creds := r.config.Credentials.Spotify
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return fmt.Errorf("%w: set Spotify client_id and client_secret in config.toml", shared.ErrMissingCredentials)
	}

	bag := make(session.Bag)
	handler := server.NewLoginHandler(services.OAuthConfig(creds), shared.GenerateID(), bag)

	router := server.NewBasicRouter()
	router.Handler(handler)
	srv := &http.Server{Addr: callbackAddr(creds.RedirectURI), Handler: router}
	go srv.ListenAndServe()
	defer srv.Shutdown(context.Background())

	authURL := handler.AuthURL()
	r.writePlain("Opening browser for Spotify authorization...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warn("could not open browser", "error", err)
		r.writePlain("Visit this URL to authorize:\n%s\n", authURL)
	}

	select {
	case err := <-handler.Done():
		if err != nil {
			return err
		}
	case <-time.After(loginTimeout):
		return fmt.Errorf("authorization timed out after %v", loginTimeout)
	case <-ctx.Done():
		return ctx.Err()
	}

	if err := r.saveBag(bag); err != nil {
		return err
	}
	return r.writePlain("✓ Signed in, session saved to %s\n", r.sessionPath)
}

// Logout clears the user's cached responses and removes the session file.
func (r *Runner) Logout(ctx context.Context, cmd *cli.Command) error {
	if r.store != nil {
		if bag, err := r.loadBag(); err == nil {
			if err := r.client(bag).ClearUserCache(ctx); err != nil {
				r.logger.Warn("failed to clear cache", "error", err)
			}
		}
	}
	if err := os.Remove(r.sessionPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return r.writePlain("✓ Signed out\n")
}

// callbackAddr extracts the listen address from the OAuth redirect URI,
// defaulting to :8080 when the URI carries no port.
func callbackAddr(redirectURI string) string {
	u, err := url.Parse(redirectURI)
	if err != nil || u.Port() == "" {
		return ":8080"
	}
	return net.JoinHostPort("", u.Port())
}
