package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/spotdash/internal/services"
	"github.com/desertthunder/spotdash/internal/session"
)

// ClientFactory builds a per-request Spotify client over the given session bag.
type ClientFactory func(bag session.Bag) *services.SpotifyClient

// DashboardHandler serves the JSON API backing the dashboard pages.
//
// Every request builds a fresh client over the caller's session bag; a
// refresh failure surfaced as an unauthorized error drops the session and
// returns 401 so the browser can restart the login flow.
type DashboardHandler struct {
	registry  *Registry
	newClient ClientFactory
	logger    *log.Logger
}

// NewDashboardHandler creates the API handler.
func NewDashboardHandler(reg *Registry, factory ClientFactory, logger *log.Logger) *DashboardHandler {
	return &DashboardHandler{registry: reg, newClient: factory, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *DashboardHandler) Routes() []string {
	return []string{
		"/api/profile",
		"/api/top/artists",
		"/api/top/tracks",
		"/api/releases",
		"/api/library/shows",
		"/api/library/episodes",
		"/api/search",
		"/api/playlists",
	}
}

func (h *DashboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	bag := BagFromContext(r.Context())
	if bag == nil {
		writeError(w, http.StatusInternalServerError, "no session")
		return
	}
	client := h.newClient(bag)

	switch r.URL.Path {
	case "/api/profile":
		h.profile(w, r, client)
	case "/api/top/artists":
		h.topArtists(w, r, client)
	case "/api/top/tracks":
		h.topTracks(w, r, client)
	case "/api/releases":
		h.releases(w, r, client)
	case "/api/library/shows":
		h.libraryShows(w, r, client)
	case "/api/library/episodes":
		h.libraryEpisodes(w, r, client)
	case "/api/search":
		h.search(w, r, client)
	case "/api/playlists":
		h.createPlaylist(w, r, client)
	default:
		http.NotFound(w, r)
	}
}

func (h *DashboardHandler) profile(w http.ResponseWriter, r *http.Request, client *services.SpotifyClient) {
	profile, err := client.Profile(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *DashboardHandler) topArtists(w http.ResponseWriter, r *http.Request, client *services.SpotifyClient) {
	artists, err := client.TopArtists(r.Context(), r.URL.Query().Get("time_range"), queryInt(r, "limit"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, artists)
}

func (h *DashboardHandler) topTracks(w http.ResponseWriter, r *http.Request, client *services.SpotifyClient) {
	tracks, err := client.TopTracks(r.Context(), r.URL.Query().Get("time_range"), queryInt(r, "limit"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tracks)
}

func (h *DashboardHandler) releases(w http.ResponseWriter, r *http.Request, client *services.SpotifyClient) {
	albums, err := client.NewReleases(r.Context(), queryInt(r, "limit"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, albums)
}

func (h *DashboardHandler) libraryShows(w http.ResponseWriter, r *http.Request, client *services.SpotifyClient) {
	page, err := client.SavedShows(r.Context(), queryInt(r, "limit"), queryInt(r, "offset"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *DashboardHandler) libraryEpisodes(w http.ResponseWriter, r *http.Request, client *services.SpotifyClient) {
	page, err := client.SavedEpisodes(r.Context(), queryInt(r, "limit"), queryInt(r, "offset"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *DashboardHandler) search(w http.ResponseWriter, r *http.Request, client *services.SpotifyClient) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeError(w, http.StatusBadRequest, "missing query parameter")
		return
	}
	limit := queryInt(r, "limit")

	switch r.URL.Query().Get("type") {
	case "show":
		page, err := client.SearchShows(r.Context(), query, limit)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, page)
	case "episode":
		page, err := client.SearchEpisodes(r.Context(), query, limit)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, page)
	default:
		tracks, err := client.SearchTracks(r.Context(), query, limit)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, tracks)
	}
}

type createPlaylistRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Public      bool     `json:"public"`
	TrackURIs   []string `json:"track_uris"`
}

func (h *DashboardHandler) createPlaylist(w http.ResponseWriter, r *http.Request, client *services.SpotifyClient) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req createPlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid playlist payload")
		return
	}

	userID, err := client.CurrentUserID(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	playlistID, err := client.CreatePlaylistFor(r.Context(), userID, req.Name, req.Description, req.Public)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if len(req.TrackURIs) > 0 {
		if err := client.AddTracksToPlaylist(r.Context(), playlistID, req.TrackURIs); err != nil {
			h.fail(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": playlistID})
}

// fail maps a client error onto an HTTP status. Unauthorized errors mean
// the refresh grant is gone, so the session bag is dropped and the caller
// gets a 401 to restart login.
func (h *DashboardHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if services.IsUnauthorized(err) {
		if id := SessionIDFromContext(r.Context()); id != "" {
			h.registry.Clear(id)
		}
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	h.logger.Error("api request failed", "path", r.URL.Path, "error", err)
	writeError(w, http.StatusBadGateway, err.Error())
}

func queryInt(r *http.Request, key string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(key))
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
