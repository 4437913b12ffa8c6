package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/spotdash/internal/models"
	"github.com/desertthunder/spotdash/internal/services"
	"github.com/desertthunder/spotdash/internal/shared"
)

// PlaylistCreate creates a playlist for the signed-in user, optionally
// seeding it with tracks.
func (r *Runner) PlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	name := cmd.String("name")
	if name == "" {
		return fmt.Errorf("%w: playlist name", shared.ErrMissingArgument)
	}

	return r.withClient(func(client *services.SpotifyClient) error {
		userID, err := client.CurrentUserID(ctx)
		if err != nil {
			return err
		}

		playlistID, err := client.CreatePlaylistFor(ctx, userID, name, cmd.String("description"), cmd.Bool("public"))
		if err != nil {
			return err
		}

		if trackIDs := cmd.Args().Slice(); len(trackIDs) > 0 {
			tracks := make([]models.Identifiable, 0, len(trackIDs))
			for _, id := range trackIDs {
				tracks = append(tracks, models.Track{ID: id})
			}
			if err := client.AddTracksToPlaylist(ctx, playlistID, services.TrackURIs(tracks)); err != nil {
				return err
			}
		}

		if cmd.Bool("json") {
			return r.writeJSON(map[string]string{"id": playlistID}, cmd.Bool("pretty"))
		}
		return r.writePlain("✓ Created playlist %s (%s)\n", name, playlistID)
	})
}

// PlaylistAdd appends tracks to an existing playlist.
func (r *Runner) PlaylistAdd(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.StringArg("id")
	if playlistID == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}
	trackIDs := cmd.StringSlice("track")
	if len(trackIDs) == 0 {
		return fmt.Errorf("%w: at least one --track", shared.ErrMissingArgument)
	}

	return r.withClient(func(client *services.SpotifyClient) error {
		tracks := make([]models.Identifiable, 0, len(trackIDs))
		for _, id := range trackIDs {
			tracks = append(tracks, models.Track{ID: id})
		}
		if err := client.AddTracksToPlaylist(ctx, playlistID, services.TrackURIs(tracks)); err != nil {
			return err
		}
		return r.writePlain("✓ Added %d tracks to %s\n", len(trackIDs), playlistID)
	})
}

// PlaylistUpdate changes a playlist's details; only flags that were set are sent.
func (r *Runner) PlaylistUpdate(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.StringArg("id")
	if playlistID == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	var changes services.PlaylistChanges
	if cmd.IsSet("name") {
		name := cmd.String("name")
		changes.Name = &name
	}
	if cmd.IsSet("description") {
		description := cmd.String("description")
		changes.Description = &description
	}
	if cmd.IsSet("collaborative") {
		collaborative := cmd.Bool("collaborative")
		changes.Collaborative = &collaborative
	}

	return r.withClient(func(client *services.SpotifyClient) error {
		if err := client.UpdatePlaylist(ctx, playlistID, changes); err != nil {
			return err
		}
		return r.writePlain("✓ Updated playlist %s\n", playlistID)
	})
}
