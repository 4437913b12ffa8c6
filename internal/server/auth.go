package server

import (
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/oauth2"

	"github.com/desertthunder/spotdash/internal/session"
	"github.com/desertthunder/spotdash/internal/shared"
)

// AuthHandler runs the OAuth2 authorization-code flow for the dashboard.
//
// /login redirects the browser to the Spotify consent page; /callback
// validates the state parameter, exchanges the code and writes the token
// set into the request's session bag. Implements the [Handler] interface.
type AuthHandler struct {
	config *oauth2.Config

	mu     sync.Mutex
	states map[string]bool // outstanding state tokens, consumed on callback
}

// NewAuthHandler creates an auth handler for the given OAuth2 config.
func NewAuthHandler(config *oauth2.Config) *AuthHandler {
	return &AuthHandler{
		config: config,
		states: make(map[string]bool),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *AuthHandler) Routes() []string {
	return []string{"/login", "/callback"}
}

func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/login":
		h.login(w, r)
	case "/callback":
		h.callback(w, r)
	default:
		http.NotFound(w, r)
	}
}

// login issues a fresh state token and redirects to the consent page.
func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	state := shared.GenerateID()
	h.mu.Lock()
	h.states[state] = true
	h.mu.Unlock()

	url := h.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
	http.Redirect(w, r, url, http.StatusFound)
}

// callback validates state, exchanges the code and stores the token set in
// the session bag.
func (h *AuthHandler) callback(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	h.mu.Lock()
	known := h.states[state]
	delete(h.states, state)
	h.mu.Unlock()
	if !known {
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		errParam := r.URL.Query().Get("error")
		http.Error(w, fmt.Sprintf("Authorization failed: %s", errParam), http.StatusBadRequest)
		return
	}

	token, err := h.config.Exchange(r.Context(), code)
	if err != nil {
		http.Error(w, "Token exchange failed", http.StatusInternalServerError)
		return
	}

	bag := BagFromContext(r.Context())
	if bag == nil {
		http.Error(w, "No session", http.StatusInternalServerError)
		return
	}
	view := session.NewView(bag)
	view.SetToken(token.AccessToken)
	if !token.Expiry.IsZero() {
		view.SetExpiresAt(token.Expiry.Unix())
	}
	if token.RefreshToken != "" {
		bag[session.KeyRefreshToken] = token.RefreshToken
	}

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, `
<!DOCTYPE html>
<html>
<head>
    <title>Signed In</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #1DB954; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>✓ Signed In</h1>
        <p>Your Spotify account is connected. Head back to the dashboard.</p>
    </div>
</body>
</html>
`)
}
