package server

import (
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/oauth2"

	"github.com/desertthunder/spotdash/internal/session"
)

// LoginHandler handles a single OAuth2 callback for the CLI login flow.
//
// Unlike [AuthHandler] it has no session middleware behind it: the token set
// is written straight into the bag it was constructed with, and completion is
// signalled on a channel the CLI blocks on. Only one callback is processed.
type LoginHandler struct {
	config *oauth2.Config
	state  string
	bag    session.Bag

	done chan error
	once sync.Once
	mu   sync.Mutex
	hit  bool
}

// NewLoginHandler creates a one-shot callback handler. The state token
// should be cryptographically random for CSRF protection.
func NewLoginHandler(config *oauth2.Config, state string, bag session.Bag) *LoginHandler {
	return &LoginHandler{
		config: config,
		state:  state,
		bag:    bag,
		done:   make(chan error, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *LoginHandler) Routes() []string {
	return []string{"/callback"}
}

// AuthURL returns the consent page URL for this login attempt.
func (h *LoginHandler) AuthURL() string {
	return h.config.AuthCodeURL(h.state, oauth2.AccessTypeOffline)
}

// Done returns a channel receiving exactly one result: nil on success or the
// flow's failure. The channel is closed afterwards.
func (h *LoginHandler) Done() <-chan error {
	return h.done
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.hit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.hit = true
	h.mu.Unlock()

	if r.URL.Query().Get("state") != h.state {
		h.finish(fmt.Errorf("invalid state parameter"))
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		errParam := r.URL.Query().Get("error")
		h.finish(fmt.Errorf("authorization failed: %s", errParam))
		http.Error(w, "Authorization failed", http.StatusBadRequest)
		return
	}

	token, err := h.config.Exchange(r.Context(), code)
	if err != nil {
		h.finish(fmt.Errorf("token exchange failed: %w", err))
		http.Error(w, "Token exchange failed", http.StatusInternalServerError)
		return
	}

	view := session.NewView(h.bag)
	view.SetToken(token.AccessToken)
	if !token.Expiry.IsZero() {
		view.SetExpiresAt(token.Expiry.Unix())
	}
	if token.RefreshToken != "" {
		h.bag[session.KeyRefreshToken] = token.RefreshToken
	}
	h.finish(nil)

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "<h1>Signed in</h1><p>You can close this window and return to the terminal.</p>")
}

// finish signals completion exactly once.
func (h *LoginHandler) finish(err error) {
	h.once.Do(func() {
		h.done <- err
		close(h.done)
	})
}
