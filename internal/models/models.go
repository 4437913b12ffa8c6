// package models defines the domain value objects for the Spotify dashboard service
package models

// Identifiable is implemented by anything carrying a Spotify ID.
//
// All mapped value objects implement it, as can caller-supplied stand-ins,
// so helpers like URI construction resolve identity once at the boundary.
type Identifiable interface {
	Identifier() string
}

// Track represents a song from the Spotify catalog.
type Track struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Artists     []string `json:"artists"`
	AlbumName   string   `json:"album_name"`
	DurationMS  int      `json:"duration_ms"`
	Popularity  int      `json:"popularity"`
	PreviewURL  string   `json:"preview_url,omitempty"`
	ExternalURL string   `json:"external_url,omitempty"`
}

func (t Track) Identifier() string { return t.ID }

// Artist represents a Spotify artist.
type Artist struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres"`
	Popularity int      `json:"popularity"`
	Images     []Image  `json:"images"`
}

func (a Artist) Identifier() string { return a.ID }

// Album represents a Spotify album.
type Album struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Artists     []string `json:"artists"`
	TotalTracks int      `json:"total_tracks"`
	ReleaseDate string   `json:"release_date"`
}

func (a Album) Identifier() string { return a.ID }

// Show represents a podcast show.
type Show struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Publisher     string `json:"publisher"`
	TotalEpisodes int    `json:"total_episodes"`
}

func (s Show) Identifier() string { return s.ID }

// Episode represents a podcast episode.
type Episode struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ShowName    string `json:"show_name"`
	DurationMS  int    `json:"duration_ms"`
	ReleaseDate string `json:"release_date"`
}

func (e Episode) Identifier() string { return e.ID }

// Profile represents the authenticated user's Spotify profile.
type Profile struct {
	ID             string `json:"id"`
	DisplayName    string `json:"display_name"`
	FollowersTotal int    `json:"followers_total"`
}

func (p Profile) Identifier() string { return p.ID }

// Image represents an image resource.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height,omitempty"`
	Width  int    `json:"width,omitempty"`
}

// Page holds one page of results along with the collection total reported by the API.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}
