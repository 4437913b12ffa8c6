// Spotify API payload types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"github.com/desertthunder/spotdash/internal/models"
)

// Wire payloads mirror the Spotify response shapes. Mapping to value objects
// is lenient: optional fields default to zero values and items without an id
// are skipped, so a partially malformed page still renders. Only identifying
// fields are required.

type imagePayload struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type followersPayload struct {
	Total int `json:"total"`
}

type profilePayload struct {
	ID          string           `json:"id"`
	DisplayName string           `json:"display_name"`
	Followers   followersPayload `json:"followers"`
}

type artistPayload struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Genres     []string       `json:"genres"`
	Popularity int            `json:"popularity"`
	Images     []imagePayload `json:"images"`
}

type albumPayload struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Artists     []artistPayload `json:"artists"`
	TotalTracks int             `json:"total_tracks"`
	ReleaseDate string          `json:"release_date"`
}

type trackPayload struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Artists      []artistPayload   `json:"artists"`
	Album        albumPayload      `json:"album"`
	DurationMS   int               `json:"duration_ms"`
	Popularity   int               `json:"popularity"`
	PreviewURL   string            `json:"preview_url"`
	ExternalURLs map[string]string `json:"external_urls"`
}

type showPayload struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Publisher     string `json:"publisher"`
	TotalEpisodes int    `json:"total_episodes"`
}

type episodePayload struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Show        showPayload `json:"show"`
	DurationMS  int         `json:"duration_ms"`
	ReleaseDate string      `json:"release_date"`
}

// Saved library payloads nest the entity one level down next to added_at.

type savedShowPayload struct {
	Show showPayload `json:"show"`
}

type savedEpisodePayload struct {
	Episode episodePayload `json:"episode"`
}

type pagedPayload[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

func mapProfile(p profilePayload) models.Profile {
	return models.Profile{
		ID:             p.ID,
		DisplayName:    p.DisplayName,
		FollowersTotal: p.Followers.Total,
	}
}

func mapTrack(p trackPayload) (models.Track, bool) {
	if p.ID == "" {
		return models.Track{}, false
	}

	artists := make([]string, 0, len(p.Artists))
	for _, artist := range p.Artists {
		artists = append(artists, artist.Name)
	}

	return models.Track{
		ID:          p.ID,
		Name:        p.Name,
		Artists:     artists,
		AlbumName:   p.Album.Name,
		DurationMS:  p.DurationMS,
		Popularity:  p.Popularity,
		PreviewURL:  p.PreviewURL,
		ExternalURL: p.ExternalURLs["spotify"],
	}, true
}

func mapArtist(p artistPayload) (models.Artist, bool) {
	if p.ID == "" {
		return models.Artist{}, false
	}

	genres := p.Genres
	if genres == nil {
		genres = []string{}
	}

	images := make([]models.Image, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, models.Image{URL: img.URL, Height: img.Height, Width: img.Width})
	}

	return models.Artist{
		ID:         p.ID,
		Name:       p.Name,
		Genres:     genres,
		Popularity: p.Popularity,
		Images:     images,
	}, true
}

func mapAlbum(p albumPayload) (models.Album, bool) {
	if p.ID == "" {
		return models.Album{}, false
	}

	artists := make([]string, 0, len(p.Artists))
	for _, artist := range p.Artists {
		artists = append(artists, artist.Name)
	}

	return models.Album{
		ID:          p.ID,
		Name:        p.Name,
		Artists:     artists,
		TotalTracks: p.TotalTracks,
		ReleaseDate: p.ReleaseDate,
	}, true
}

func mapShow(p showPayload) (models.Show, bool) {
	if p.ID == "" {
		return models.Show{}, false
	}

	return models.Show{
		ID:            p.ID,
		Name:          p.Name,
		Publisher:     p.Publisher,
		TotalEpisodes: p.TotalEpisodes,
	}, true
}

func mapEpisode(p episodePayload) (models.Episode, bool) {
	if p.ID == "" {
		return models.Episode{}, false
	}

	return models.Episode{
		ID:          p.ID,
		Name:        p.Name,
		ShowName:    p.Show.Name,
		DurationMS:  p.DurationMS,
		ReleaseDate: p.ReleaseDate,
	}, true
}

// mapSlice applies a lenient item mapper across a payload slice, dropping
// items the mapper rejects.
func mapSlice[P, V any](payloads []P, mapper func(P) (V, bool)) []V {
	values := make([]V, 0, len(payloads))
	for _, payload := range payloads {
		if value, ok := mapper(payload); ok {
			values = append(values, value)
		}
	}
	return values
}

// mapPage maps one page of payloads, preserving the API-reported total, which
// may exceed the number of items on the page.
func mapPage[P, V any](page pagedPayload[P], mapper func(P) (V, bool)) models.Page[V] {
	return models.Page[V]{
		Items: mapSlice(page.Items, mapper),
		Total: page.Total,
	}
}
