// Spotify Web API client scoped to one user's session.
package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/spotdash/internal/cache"
	"github.com/desertthunder/spotdash/internal/models"
	"github.com/desertthunder/spotdash/internal/session"
	"github.com/desertthunder/spotdash/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"
)

// Time ranges accepted by the top artists/tracks endpoints.
const (
	RangeShortTerm  = "short_term"
	RangeMediumTerm = "medium_term"
	RangeLongTerm   = "long_term"
)

// SpotifyClient mediates all access to the Spotify Web API for one user.
//
// One instance is constructed per inbound request around that request's
// session view. Reads are memoized in the injected cache store under the
// user's namespace; every mutation drops that namespace. Token refresh is
// transparent: each operation checks expiry before touching the network.
type SpotifyClient struct {
	session      *session.View
	store        cache.Store
	httpClient   *http.Client
	clientID     string
	clientSecret string
	baseURL      string
	tokenURL     string
	limiter      *rate.Limiter
	now          func() time.Time
}

// ClientOpts contains construction options for a [SpotifyClient].
type ClientOpts struct {
	Session      *session.View // required; a nil session yields an empty one
	Store        cache.Store   // optional; nil disables caching
	HTTPClient   *http.Client  // optional; defaults to http.DefaultClient
	ClientID     string
	ClientSecret string
	RateLimit    float64 // requests/sec across bulk chunks; 0 disables pacing
}

// NewSpotifyClient creates a client scoped to the given session.
func NewSpotifyClient(opts ClientOpts) *SpotifyClient {
	if opts.Session == nil {
		opts.Session = session.NewView(nil)
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	return &SpotifyClient{
		session:      opts.Session,
		store:        opts.Store,
		httpClient:   opts.HTTPClient,
		clientID:     opts.ClientID,
		clientSecret: opts.ClientSecret,
		baseURL:      spotifyBaseURL,
		tokenURL:     spotifyTokenURL,
		limiter:      limiter,
		now:          time.Now,
	}
}

// OAuthConfig builds the oauth2 configuration for the authorization-code
// login flow. The client itself only ever performs token refresh; the
// exchange happens once at login in the server package.
func OAuthConfig(cfg shared.SpotifyConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Scopes: []string{
			"user-read-private",
			"user-top-read",
			"user-library-read",
			"user-library-modify",
			"user-follow-read",
			"user-follow-modify",
			"playlist-modify-public",
			"playlist-modify-private",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}
}

// CurrentUserID returns the session's Spotify user id, lazily resolving it
// via the profile endpoint and writing it back when absent.
func (c *SpotifyClient) CurrentUserID(ctx context.Context) (string, error) {
	if id := c.session.UserID(); id != "" {
		return id, nil
	}

	var payload profilePayload
	if err := c.getJSON(ctx, "/me", nil, &payload); err != nil {
		return "", err
	}
	if payload.ID == "" {
		return "", remoteError("Could not determine Spotify user id")
	}

	c.session.SetUserID(payload.ID)
	return payload.ID, nil
}

// Profile retrieves the authenticated user's profile.
func (c *SpotifyClient) Profile(ctx context.Context) (models.Profile, error) {
	return cacheFor(ctx, c, "profile", nil, func() (models.Profile, error) {
		var payload profilePayload
		if err := c.getJSON(ctx, "/me", nil, &payload); err != nil {
			return models.Profile{}, err
		}
		return mapProfile(payload), nil
	})
}

// SearchTracks searches the catalog for tracks matching query.
func (c *SpotifyClient) SearchTracks(ctx context.Context, query string, limit int) ([]models.Track, error) {
	limit = clampLimit(limit)
	args := map[string]string{"query": query, "limit": strconv.Itoa(limit)}

	return cacheFor(ctx, c, "search_tracks", args, func() ([]models.Track, error) {
		params := url.Values{}
		params.Set("q", query)
		params.Set("type", "track")
		params.Set("limit", strconv.Itoa(limit))

		var payload struct {
			Tracks pagedPayload[trackPayload] `json:"tracks"`
		}
		if err := c.getJSON(ctx, "/search", params, &payload); err != nil {
			return nil, err
		}
		return mapSlice(payload.Tracks.Items, mapTrack), nil
	})
}

// SearchShows searches the catalog for podcast shows matching query.
func (c *SpotifyClient) SearchShows(ctx context.Context, query string, limit int) (models.Page[models.Show], error) {
	limit = clampLimit(limit)
	args := map[string]string{"query": query, "limit": strconv.Itoa(limit)}

	return cacheFor(ctx, c, "search_shows", args, func() (models.Page[models.Show], error) {
		params := url.Values{}
		params.Set("q", query)
		params.Set("type", "show")
		params.Set("limit", strconv.Itoa(limit))

		var payload struct {
			Shows pagedPayload[showPayload] `json:"shows"`
		}
		if err := c.getJSON(ctx, "/search", params, &payload); err != nil {
			return models.Page[models.Show]{}, err
		}
		return mapPage(payload.Shows, mapShow), nil
	})
}

// SearchEpisodes searches the catalog for podcast episodes matching query.
func (c *SpotifyClient) SearchEpisodes(ctx context.Context, query string, limit int) (models.Page[models.Episode], error) {
	limit = clampLimit(limit)
	args := map[string]string{"query": query, "limit": strconv.Itoa(limit)}

	return cacheFor(ctx, c, "search_episodes", args, func() (models.Page[models.Episode], error) {
		params := url.Values{}
		params.Set("q", query)
		params.Set("type", "episode")
		params.Set("limit", strconv.Itoa(limit))

		var payload struct {
			Episodes pagedPayload[episodePayload] `json:"episodes"`
		}
		if err := c.getJSON(ctx, "/search", params, &payload); err != nil {
			return models.Page[models.Episode]{}, err
		}
		return mapPage(payload.Episodes, mapEpisode), nil
	})
}

// TopArtists retrieves the user's most listened artists for the given time range.
func (c *SpotifyClient) TopArtists(ctx context.Context, timeRange string, limit int) ([]models.Artist, error) {
	timeRange = normalizeTimeRange(timeRange)
	limit = clampLimit(limit)
	args := map[string]string{"time_range": timeRange, "limit": strconv.Itoa(limit)}

	return cacheFor(ctx, c, "top_artists", args, func() ([]models.Artist, error) {
		params := url.Values{}
		params.Set("time_range", timeRange)
		params.Set("limit", strconv.Itoa(limit))

		var payload pagedPayload[artistPayload]
		if err := c.getJSON(ctx, "/me/top/artists", params, &payload); err != nil {
			return nil, err
		}
		return mapSlice(payload.Items, mapArtist), nil
	})
}

// TopTracks retrieves the user's most listened tracks for the given time range.
func (c *SpotifyClient) TopTracks(ctx context.Context, timeRange string, limit int) ([]models.Track, error) {
	timeRange = normalizeTimeRange(timeRange)
	limit = clampLimit(limit)
	args := map[string]string{"time_range": timeRange, "limit": strconv.Itoa(limit)}

	return cacheFor(ctx, c, "top_tracks", args, func() ([]models.Track, error) {
		params := url.Values{}
		params.Set("time_range", timeRange)
		params.Set("limit", strconv.Itoa(limit))

		var payload pagedPayload[trackPayload]
		if err := c.getJSON(ctx, "/me/top/tracks", params, &payload); err != nil {
			return nil, err
		}
		return mapSlice(payload.Items, mapTrack), nil
	})
}

// NewReleases retrieves newly released albums.
func (c *SpotifyClient) NewReleases(ctx context.Context, limit int) ([]models.Album, error) {
	limit = clampLimit(limit)
	args := map[string]string{"limit": strconv.Itoa(limit)}

	return cacheFor(ctx, c, "new_releases", args, func() ([]models.Album, error) {
		params := url.Values{}
		params.Set("limit", strconv.Itoa(limit))

		var payload struct {
			Albums pagedPayload[albumPayload] `json:"albums"`
		}
		if err := c.getJSON(ctx, "/browse/new-releases", params, &payload); err != nil {
			return nil, err
		}
		return mapSlice(payload.Albums.Items, mapAlbum), nil
	})
}

// FollowedArtists retrieves artists the user follows.
func (c *SpotifyClient) FollowedArtists(ctx context.Context, limit int) ([]models.Artist, error) {
	limit = clampLimit(limit)
	args := map[string]string{"limit": strconv.Itoa(limit)}

	return cacheFor(ctx, c, "followed_artists", args, func() ([]models.Artist, error) {
		params := url.Values{}
		params.Set("type", "artist")
		params.Set("limit", strconv.Itoa(limit))

		var payload struct {
			Artists pagedPayload[artistPayload] `json:"artists"`
		}
		if err := c.getJSON(ctx, "/me/following", params, &payload); err != nil {
			return nil, err
		}
		return mapSlice(payload.Artists.Items, mapArtist), nil
	})
}

// SavedShows retrieves one page of the user's saved podcast shows.
func (c *SpotifyClient) SavedShows(ctx context.Context, limit, offset int) (models.Page[models.Show], error) {
	limit = clampLimit(limit)
	args := map[string]string{"limit": strconv.Itoa(limit), "offset": strconv.Itoa(offset)}

	return cacheFor(ctx, c, "saved_shows", args, func() (models.Page[models.Show], error) {
		params := url.Values{}
		params.Set("limit", strconv.Itoa(limit))
		params.Set("offset", strconv.Itoa(offset))

		var payload pagedPayload[savedShowPayload]
		if err := c.getJSON(ctx, "/me/shows", params, &payload); err != nil {
			return models.Page[models.Show]{}, err
		}
		return mapPage(payload, func(p savedShowPayload) (models.Show, bool) {
			return mapShow(p.Show)
		}), nil
	})
}

// SavedEpisodes retrieves one page of the user's saved podcast episodes.
func (c *SpotifyClient) SavedEpisodes(ctx context.Context, limit, offset int) (models.Page[models.Episode], error) {
	limit = clampLimit(limit)
	args := map[string]string{"limit": strconv.Itoa(limit), "offset": strconv.Itoa(offset)}

	return cacheFor(ctx, c, "saved_episodes", args, func() (models.Page[models.Episode], error) {
		params := url.Values{}
		params.Set("limit", strconv.Itoa(limit))
		params.Set("offset", strconv.Itoa(offset))

		var payload pagedPayload[savedEpisodePayload]
		if err := c.getJSON(ctx, "/me/episodes", params, &payload); err != nil {
			return models.Page[models.Episode]{}, err
		}
		return mapPage(payload, func(p savedEpisodePayload) (models.Episode, bool) {
			return mapEpisode(p.Episode)
		}), nil
	})
}

// GetShow retrieves a single podcast show by ID.
func (c *SpotifyClient) GetShow(ctx context.Context, showID string) (models.Show, error) {
	args := map[string]string{"id": showID}

	return cacheFor(ctx, c, "get_show", args, func() (models.Show, error) {
		var payload showPayload
		if err := c.getJSON(ctx, "/shows/"+url.PathEscape(showID), nil, &payload); err != nil {
			return models.Show{}, err
		}
		show, _ := mapShow(payload)
		return show, nil
	})
}

// GetEpisode retrieves a single podcast episode by ID.
func (c *SpotifyClient) GetEpisode(ctx context.Context, episodeID string) (models.Episode, error) {
	args := map[string]string{"id": episodeID}

	return cacheFor(ctx, c, "get_episode", args, func() (models.Episode, error) {
		var payload episodePayload
		if err := c.getJSON(ctx, "/episodes/"+url.PathEscape(episodeID), nil, &payload); err != nil {
			return models.Episode{}, err
		}
		episode, _ := mapEpisode(payload)
		return episode, nil
	})
}

// FollowedArtistIDs reports which of the given artist IDs the user follows.
//
// The check is issued in chunks of 50 and the returned set contains only the
// followed IDs. Results reflect current truth and are never cached.
func (c *SpotifyClient) FollowedArtistIDs(ctx context.Context, artistIDs []string) (map[string]bool, error) {
	flags, err := chunkedCollect(ctx, c, artistIDs, func(chunk []string) ([]bool, error) {
		params := url.Values{}
		params.Set("type", "artist")
		params.Set("ids", strings.Join(chunk, ","))

		var checked []bool
		if err := c.getJSON(ctx, "/me/following/contains", params, &checked); err != nil {
			return nil, err
		}
		return checked, nil
	})
	if err != nil {
		return nil, err
	}

	followed := make(map[string]bool, len(artistIDs))
	for i, id := range artistIDs {
		if i < len(flags) && flags[i] {
			followed[id] = true
		}
	}
	return followed, nil
}

// CreatePlaylistFor creates a playlist owned by userID and returns its ID.
func (c *SpotifyClient) CreatePlaylistFor(ctx context.Context, userID, name, description string, public bool) (string, error) {
	body := map[string]any{
		"name":        name,
		"description": description,
		"public":      public,
	}

	var payload struct {
		ID string `json:"id"`
	}
	path := "/users/" + url.PathEscape(userID) + "/playlists"
	if err := c.sendJSON(ctx, http.MethodPost, path, nil, body, &payload); err != nil {
		return "", err
	}
	if payload.ID == "" {
		return "", remoteError("Failed to create playlist")
	}

	c.invalidate(ctx)
	return payload.ID, nil
}

// AddTracksToPlaylist appends the given track URIs to a playlist.
func (c *SpotifyClient) AddTracksToPlaylist(ctx context.Context, playlistID string, uris []string) error {
	if len(uris) == 0 {
		return nil
	}

	body := map[string]any{"uris": uris}
	path := "/playlists/" + url.PathEscape(playlistID) + "/tracks"
	if err := c.sendJSON(ctx, http.MethodPost, path, nil, body, nil); err != nil {
		return err
	}

	c.invalidate(ctx)
	return nil
}

// PlaylistChanges holds the mutable playlist details; nil fields are left unchanged.
type PlaylistChanges struct {
	Name          *string
	Description   *string
	Collaborative *bool
}

// UpdatePlaylist renames, describes or toggles collaboration on a playlist.
// A change set with no fields is a no-op with no network call.
func (c *SpotifyClient) UpdatePlaylist(ctx context.Context, playlistID string, changes PlaylistChanges) error {
	body := map[string]any{}
	if changes.Name != nil {
		body["name"] = *changes.Name
	}
	if changes.Description != nil {
		body["description"] = *changes.Description
	}
	if changes.Collaborative != nil {
		body["collaborative"] = *changes.Collaborative
	}
	if len(body) == 0 {
		return nil
	}

	path := "/playlists/" + url.PathEscape(playlistID)
	if err := c.sendJSON(ctx, http.MethodPut, path, nil, body, nil); err != nil {
		return err
	}

	c.invalidate(ctx)
	return nil
}

// SaveShows adds shows to the user's library.
func (c *SpotifyClient) SaveShows(ctx context.Context, showIDs []string) error {
	return c.bulkLibrary(ctx, http.MethodPut, "/me/shows", showIDs)
}

// RemoveShows removes shows from the user's library.
func (c *SpotifyClient) RemoveShows(ctx context.Context, showIDs []string) error {
	return c.bulkLibrary(ctx, http.MethodDelete, "/me/shows", showIDs)
}

// SaveEpisodes adds episodes to the user's library.
func (c *SpotifyClient) SaveEpisodes(ctx context.Context, episodeIDs []string) error {
	return c.bulkLibrary(ctx, http.MethodPut, "/me/episodes", episodeIDs)
}

// RemoveEpisodes removes episodes from the user's library.
func (c *SpotifyClient) RemoveEpisodes(ctx context.Context, episodeIDs []string) error {
	return c.bulkLibrary(ctx, http.MethodDelete, "/me/episodes", episodeIDs)
}

// FollowArtists follows the given artists.
func (c *SpotifyClient) FollowArtists(ctx context.Context, artistIDs []string) error {
	return c.bulkFollowing(ctx, http.MethodPut, artistIDs)
}

// UnfollowArtists unfollows the given artists.
func (c *SpotifyClient) UnfollowArtists(ctx context.Context, artistIDs []string) error {
	return c.bulkFollowing(ctx, http.MethodDelete, artistIDs)
}

// bulkLibrary applies a save/remove across the user's library in chunks.
// Empty input succeeds without touching the network or the cache.
func (c *SpotifyClient) bulkLibrary(ctx context.Context, method, path string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	err := chunkedApply(ctx, c, ids, func(chunk []string) error {
		params := url.Values{}
		params.Set("ids", strings.Join(chunk, ","))
		return c.sendJSON(ctx, method, path, params, nil, nil)
	})
	if err != nil {
		return err
	}

	c.invalidate(ctx)
	return nil
}

func (c *SpotifyClient) bulkFollowing(ctx context.Context, method string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	err := chunkedApply(ctx, c, ids, func(chunk []string) error {
		params := url.Values{}
		params.Set("type", "artist")
		params.Set("ids", strings.Join(chunk, ","))
		return c.sendJSON(ctx, method, "/me/following", params, nil, nil)
	})
	if err != nil {
		return err
	}

	c.invalidate(ctx)
	return nil
}

// TrackURIs builds spotify:track: URIs from anything carrying a track ID.
func TrackURIs(tracks []models.Identifiable) []string {
	uris := make([]string, 0, len(tracks))
	for _, track := range tracks {
		uris = append(uris, "spotify:track:"+track.Identifier())
	}
	return uris
}

// ClearUserCache drops every cached entry in the current user's namespace.
// Without a resolvable user id there is nothing to clear.
func (c *SpotifyClient) ClearUserCache(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	userID := c.lookupUserID(ctx)
	if userID == "" {
		return nil
	}
	return c.store.DeleteMatched(ctx, fmt.Sprintf("spotify_%s_", userID))
}

// invalidate clears the user's cache namespace after a mutation. Invalidation
// failures are swallowed: the mutation itself succeeded and stale reads heal
// on the next write.
func (c *SpotifyClient) invalidate(ctx context.Context) {
	_ = c.ClearUserCache(ctx)
}

// lookupUserID resolves the user id best-effort for cache namespacing,
// returning "" when it cannot be determined.
func (c *SpotifyClient) lookupUserID(ctx context.Context) string {
	id, err := c.CurrentUserID(ctx)
	if err != nil {
		return ""
	}
	return id
}

// cacheFor memoizes compute under the user's cache namespace. When no user id
// can be resolved or no store is configured, caching is bypassed and compute
// runs directly; that fallback is deliberate, not an error.
func cacheFor[T any](ctx context.Context, c *SpotifyClient, op string, args map[string]string, compute func() (T, error)) (T, error) {
	if c.store == nil {
		return compute()
	}
	userID := c.lookupUserID(ctx)
	if userID == "" {
		return compute()
	}
	return cache.Fetch(ctx, c.store, cacheKey(userID, op, args), compute)
}

// cacheKey builds the namespaced cache key spotify_<user>_<op>_<canonical args>.
func cacheKey(userID, op string, args map[string]string) string {
	key := fmt.Sprintf("spotify_%s_%s", userID, op)
	if canonical := canonicalArgs(args); canonical != "" {
		key += "_" + canonical
	}
	return key
}

// canonicalArgs renders args deterministically (sorted by key) so logically
// identical calls hit the same cache entry regardless of construction order.
func canonicalArgs(args map[string]string) string {
	if len(args) == 0 {
		return ""
	}

	keys := make([]string, 0, len(args))
	for key := range args {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+"="+args[key])
	}
	return strings.Join(parts, "&")
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 50 {
		return 50
	}
	return limit
}

func normalizeTimeRange(timeRange string) string {
	switch timeRange {
	case RangeShortTerm, RangeMediumTerm, RangeLongTerm:
		return timeRange
	}
	return RangeMediumTerm
}
