// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
		},
	}
}

func limitFlag(defaultValue int) cli.Flag {
	return &cli.IntFlag{
		Name:  "limit",
		Usage: "Maximum number of items to return",
		Value: defaultValue,
	}
}

// loginCommand handles Spotify authorization
func loginCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Authenticate with Spotify using OAuth2",
		Commands: []*cli.Command{
			{
				Name:   "out",
				Usage:  "Sign out and clear the local session",
				Action: r.Logout,
			},
		},
		Action: r.Login,
	}
}

// profileCommand prints the signed-in user's profile
func profileCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "profile",
		Usage:  "Show the signed-in user's Spotify profile",
		Flags:  outputFlags(),
		Action: r.Profile,
	}
}

// topCommand handles top artists and tracks
func topCommand(r *Runner) *cli.Command {
	rangeFlag := &cli.StringFlag{
		Name:    "range",
		Aliases: []string{"r"},
		Usage:   "Time range: short_term, medium_term or long_term",
		Value:   "medium_term",
	}

	return &cli.Command{
		Name:  "top",
		Usage: "Your most listened artists and tracks",
		Commands: []*cli.Command{
			{
				Name:  "artists",
				Usage: "List your top artists",
				Flags: append(outputFlags(), rangeFlag, limitFlag(20), &cli.BoolFlag{
					Name:  "csv",
					Usage: "Output CSV",
				}),
				Action: r.TopArtists,
			},
			{
				Name:  "tracks",
				Usage: "List your top tracks",
				Flags: append(outputFlags(), rangeFlag, limitFlag(20), &cli.BoolFlag{
					Name:  "csv",
					Usage: "Output CSV",
				}),
				Action: r.TopTracks,
			},
		},
	}
}

// searchCommand searches the Spotify catalog
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search the Spotify catalog",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "query"},
		},
		Flags: append(outputFlags(), limitFlag(20), &cli.StringFlag{
			Name:    "type",
			Aliases: []string{"t"},
			Usage:   "Result type: track, show or episode",
			Value:   "track",
		}),
		Action: r.Search,
	}
}

// releasesCommand lists new album releases
func releasesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "releases",
		Usage: "List newly released albums",
		Flags: append(outputFlags(), limitFlag(20), &cli.BoolFlag{
			Name:  "csv",
			Usage: "Output CSV",
		}),
		Action: r.Releases,
	}
}

// libraryCommand manages saved shows and episodes
func libraryCommand(r *Runner) *cli.Command {
	typeFlag := &cli.StringFlag{
		Name:    "type",
		Aliases: []string{"t"},
		Usage:   "Item type: show or episode",
		Value:   "show",
	}

	return &cli.Command{
		Name:    "library",
		Aliases: []string{"lib"},
		Usage:   "Your saved shows and episodes",
		Commands: []*cli.Command{
			{
				Name:  "shows",
				Usage: "List saved shows",
				Flags: append(outputFlags(), limitFlag(20), &cli.IntFlag{
					Name:  "offset",
					Usage: "Page offset",
				}),
				Action: r.LibraryShows,
			},
			{
				Name:  "episodes",
				Usage: "List saved episodes",
				Flags: append(outputFlags(), limitFlag(20), &cli.IntFlag{
					Name:  "offset",
					Usage: "Page offset",
				}),
				Action: r.LibraryEpisodes,
			},
			{
				Name:      "save",
				Usage:     "Save shows or episodes by id",
				Flags:     []cli.Flag{typeFlag},
				ArgsUsage: "[ids...]",
				Action:    r.LibrarySave,
			},
			{
				Name:      "remove",
				Usage:     "Remove shows or episodes by id",
				Flags:     []cli.Flag{typeFlag},
				ArgsUsage: "[ids...]",
				Action:    r.LibraryRemove,
			},
		},
	}
}

// followCommand manages followed artists
func followCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "follow",
		Usage: "Artists you follow",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List followed artists",
				Flags:  append(outputFlags(), limitFlag(20)),
				Action: r.FollowList,
			},
			{
				Name:      "add",
				Usage:     "Follow artists by id",
				ArgsUsage: "[ids...]",
				Action:    r.FollowAdd,
			},
			{
				Name:      "remove",
				Usage:     "Unfollow artists by id",
				ArgsUsage: "[ids...]",
				Action:    r.FollowRemove,
			},
			{
				Name:      "check",
				Usage:     "Check whether you follow artists",
				Flags:     outputFlags(),
				ArgsUsage: "[ids...]",
				Action:    r.FollowCheck,
			},
		},
	}
}

// playlistCommand creates and edits playlists
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"pl"},
		Usage:   "Create and edit playlists",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a playlist, optionally seeding it with track ids",
				Flags: append(outputFlags(),
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Usage:    "Playlist name",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "description",
						Aliases: []string{"d"},
						Usage:   "Playlist description",
					},
					&cli.BoolFlag{
						Name:  "public",
						Usage: "Make the playlist public",
					},
				),
				ArgsUsage: "[track ids...]",
				Action:    r.PlaylistCreate,
			},
			{
				Name:  "add",
				Usage: "Add tracks to a playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:  "track",
						Usage: "Track id to add (repeatable)",
					},
				},
				Action: r.PlaylistAdd,
			},
			{
				Name:  "update",
				Usage: "Change a playlist's details",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "name",
						Aliases: []string{"n"},
						Usage:   "New playlist name",
					},
					&cli.StringFlag{
						Name:    "description",
						Aliases: []string{"d"},
						Usage:   "New playlist description",
					},
					&cli.BoolFlag{
						Name:  "collaborative",
						Usage: "Toggle collaborative editing",
					},
				},
				Action: r.PlaylistUpdate,
			},
		},
	}
}

// cacheCommand manages the response cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Response cache operations",
		Commands: []*cli.Command{
			{
				Name:   "clear",
				Usage:  "Drop all cached responses for the signed-in user",
				Action: r.CacheClear,
			},
		},
	}
}

// serveCommand runs the dashboard web server
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Run the dashboard web server",
		Action: r.Serve,
	}
}

// setupCommand writes a starter configuration
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create a config file and prepare the cache backend",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}
