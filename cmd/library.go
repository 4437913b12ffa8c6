package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/spotdash/internal/formatter"
	"github.com/desertthunder/spotdash/internal/services"
	"github.com/desertthunder/spotdash/internal/shared"
)

// LibraryShows prints a page of the user's saved shows.
func (r *Runner) LibraryShows(ctx context.Context, cmd *cli.Command) error {
	return r.withClient(func(client *services.SpotifyClient) error {
		page, err := client.SavedShows(ctx, cmd.Int("limit"), cmd.Int("offset"))
		if err != nil {
			return err
		}
		if cmd.Bool("json") {
			return r.writeJSON(page, cmd.Bool("pretty"))
		}
		if err := r.writeBytes(formatter.ShowsToText(page.Items)); err != nil {
			return err
		}
		return r.writePlain("Saved shows: %d\n", page.Total)
	})
}

// LibraryEpisodes prints a page of the user's saved episodes.
func (r *Runner) LibraryEpisodes(ctx context.Context, cmd *cli.Command) error {
	return r.withClient(func(client *services.SpotifyClient) error {
		page, err := client.SavedEpisodes(ctx, cmd.Int("limit"), cmd.Int("offset"))
		if err != nil {
			return err
		}
		if cmd.Bool("json") {
			return r.writeJSON(page, cmd.Bool("pretty"))
		}
		if err := r.writeBytes(formatter.EpisodesToText(page.Items)); err != nil {
			return err
		}
		return r.writePlain("Saved episodes: %d\n", page.Total)
	})
}

// LibrarySave saves shows or episodes to the user's library.
func (r *Runner) LibrarySave(ctx context.Context, cmd *cli.Command) error {
	return r.libraryMutation(ctx, cmd, true)
}

// LibraryRemove removes shows or episodes from the user's library.
func (r *Runner) LibraryRemove(ctx context.Context, cmd *cli.Command) error {
	return r.libraryMutation(ctx, cmd, false)
}

func (r *Runner) libraryMutation(ctx context.Context, cmd *cli.Command, save bool) error {
	ids := cmd.Args().Slice()
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one id", shared.ErrMissingArgument)
	}

	return r.withClient(func(client *services.SpotifyClient) error {
		var err error
		kind := cmd.String("type")
		switch {
		case kind == "episode" && save:
			err = client.SaveEpisodes(ctx, ids)
		case kind == "episode":
			err = client.RemoveEpisodes(ctx, ids)
		case save:
			err = client.SaveShows(ctx, ids)
		default:
			err = client.RemoveShows(ctx, ids)
		}
		if err != nil {
			return err
		}

		verb := "Removed"
		if save {
			verb = "Saved"
		}
		return r.writePlain("✓ %s %d %ss\n", verb, len(ids), kind)
	})
}

// FollowList prints the artists the user follows.
func (r *Runner) FollowList(ctx context.Context, cmd *cli.Command) error {
	return r.withClient(func(client *services.SpotifyClient) error {
		artists, err := client.FollowedArtists(ctx, cmd.Int("limit"))
		if err != nil {
			return err
		}
		if cmd.Bool("json") {
			return r.writeJSON(artists, cmd.Bool("pretty"))
		}
		return r.writeBytes(formatter.ArtistsToText(artists))
	})
}

// FollowAdd follows the given artists.
func (r *Runner) FollowAdd(ctx context.Context, cmd *cli.Command) error {
	ids := cmd.Args().Slice()
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one artist id", shared.ErrMissingArgument)
	}
	return r.withClient(func(client *services.SpotifyClient) error {
		if err := client.FollowArtists(ctx, ids); err != nil {
			return err
		}
		return r.writePlain("✓ Following %d artists\n", len(ids))
	})
}

// FollowRemove unfollows the given artists.
func (r *Runner) FollowRemove(ctx context.Context, cmd *cli.Command) error {
	ids := cmd.Args().Slice()
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one artist id", shared.ErrMissingArgument)
	}
	return r.withClient(func(client *services.SpotifyClient) error {
		if err := client.UnfollowArtists(ctx, ids); err != nil {
			return err
		}
		return r.writePlain("✓ Unfollowed %d artists\n", len(ids))
	})
}

// FollowCheck reports which of the given artists the user follows.
func (r *Runner) FollowCheck(ctx context.Context, cmd *cli.Command) error {
	ids := cmd.Args().Slice()
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one artist id", shared.ErrMissingArgument)
	}
	return r.withClient(func(client *services.SpotifyClient) error {
		followed, err := client.FollowedArtistIDs(ctx, ids)
		if err != nil {
			return err
		}
		if cmd.Bool("json") {
			return r.writeJSON(followed, cmd.Bool("pretty"))
		}

		sorted := make([]string, 0, len(followed))
		for id := range followed {
			sorted = append(sorted, id)
		}
		sort.Strings(sorted)
		for _, id := range sorted {
			mark := "✗"
			if followed[id] {
				mark = "✓"
			}
			if err := r.writePlain("%s %s\n", mark, id); err != nil {
				return err
			}
		}
		return nil
	})
}
