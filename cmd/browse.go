package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/spotdash/internal/formatter"
	"github.com/desertthunder/spotdash/internal/services"
	"github.com/desertthunder/spotdash/internal/shared"
)

// Profile prints the signed-in user's profile.
func (r *Runner) Profile(ctx context.Context, cmd *cli.Command) error {
	return r.withClient(func(client *services.SpotifyClient) error {
		profile, err := client.Profile(ctx)
		if err != nil {
			return err
		}
		if cmd.Bool("json") {
			return r.writeJSON(profile, cmd.Bool("pretty"))
		}
		return r.writeBytes(formatter.ProfileToText(profile))
	})
}

// TopArtists prints the user's most listened artists for a time range.
func (r *Runner) TopArtists(ctx context.Context, cmd *cli.Command) error {
	return r.withClient(func(client *services.SpotifyClient) error {
		artists, err := client.TopArtists(ctx, cmd.String("range"), cmd.Int("limit"))
		if err != nil {
			return err
		}
		switch {
		case cmd.Bool("json"):
			return r.writeJSON(artists, cmd.Bool("pretty"))
		case cmd.Bool("csv"):
			data, err := formatter.ArtistsToCSV(artists)
			if err != nil {
				return err
			}
			return r.writeBytes(data)
		default:
			return r.writeBytes(formatter.StyledArtists("Top Artists", artists))
		}
	})
}

// TopTracks prints the user's most listened tracks for a time range.
func (r *Runner) TopTracks(ctx context.Context, cmd *cli.Command) error {
	return r.withClient(func(client *services.SpotifyClient) error {
		tracks, err := client.TopTracks(ctx, cmd.String("range"), cmd.Int("limit"))
		if err != nil {
			return err
		}
		switch {
		case cmd.Bool("json"):
			return r.writeJSON(tracks, cmd.Bool("pretty"))
		case cmd.Bool("csv"):
			data, err := formatter.TracksToCSV(tracks)
			if err != nil {
				return err
			}
			return r.writeBytes(data)
		default:
			return r.writeBytes(formatter.StyledTracks("Top Tracks", tracks))
		}
	})
}

// Search searches the Spotify catalog for tracks, shows or episodes.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}
	limit := cmd.Int("limit")

	return r.withClient(func(client *services.SpotifyClient) error {
		switch cmd.String("type") {
		case "show":
			page, err := client.SearchShows(ctx, query, limit)
			if err != nil {
				return err
			}
			if cmd.Bool("json") {
				return r.writeJSON(page, cmd.Bool("pretty"))
			}
			if err := r.writeBytes(formatter.ShowsToText(page.Items)); err != nil {
				return err
			}
			return r.writePlain("Total: %d\n", page.Total)
		case "episode":
			page, err := client.SearchEpisodes(ctx, query, limit)
			if err != nil {
				return err
			}
			if cmd.Bool("json") {
				return r.writeJSON(page, cmd.Bool("pretty"))
			}
			if err := r.writeBytes(formatter.EpisodesToText(page.Items)); err != nil {
				return err
			}
			return r.writePlain("Total: %d\n", page.Total)
		default:
			tracks, err := client.SearchTracks(ctx, query, limit)
			if err != nil {
				return err
			}
			if cmd.Bool("json") {
				return r.writeJSON(tracks, cmd.Bool("pretty"))
			}
			return r.writeBytes(formatter.TracksToText(tracks))
		}
	})
}

// Releases prints newly released albums.
func (r *Runner) Releases(ctx context.Context, cmd *cli.Command) error {
	return r.withClient(func(client *services.SpotifyClient) error {
		albums, err := client.NewReleases(ctx, cmd.Int("limit"))
		if err != nil {
			return err
		}
		switch {
		case cmd.Bool("json"):
			return r.writeJSON(albums, cmd.Bool("pretty"))
		case cmd.Bool("csv"):
			data, err := formatter.AlbumsToCSV(albums)
			if err != nil {
				return err
			}
			return r.writeBytes(data)
		default:
			return r.writeBytes(formatter.AlbumsToText(albums))
		}
	})
}
