// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// videoCommand downloads a single link as video.
func videoCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "video",
		Aliases: []string{"v"},
		Usage:   "Download a single link as video",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "url"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "quality",
				Aliases: []string{"q"},
				Usage:   "Target quality (240p-2160p)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the result as JSON",
			},
		},
		Action: r.DownloadVideo,
	}
}

// audioCommand downloads a single link as extracted audio.
func audioCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "audio",
		Aliases: []string{"a"},
		Usage:   "Download a single link as extracted audio",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "url"},
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "bitrate",
				Aliases: []string{"b"},
				Usage:   "Audio bitrate in kbps (128, 192, 256, 320)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Audio format (mp3, flac, wav, aac)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the result as JSON",
			},
		},
		Action: r.DownloadAudio,
	}
}

// infoCommand classifies a link and previews collections without downloading.
func infoCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "info",
		Usage: "Classify a link and list collection entries",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "url"},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Info,
	}
}

// playlistCommand downloads a playlist, optionally narrowed by selection.
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"pl"},
		Usage:   "Download a playlist",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "url"},
		},
		Flags: append(collectionFlags(),
			&cli.StringFlag{
				Name:    "select",
				Aliases: []string{"s"},
				Usage:   "Entry selection, 1-based (e.g. \"1,3,5-7\")",
			},
		),
		Action: r.DownloadPlaylist,
	}
}

// channelCommand downloads a channel's uploads.
func channelCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "channel",
		Aliases: []string{"ch"},
		Usage:   "Download a channel's uploads",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "url"},
		},
		Flags: append(collectionFlags(),
			&cli.StringFlag{
				Name:    "select",
				Aliases: []string{"s"},
				Usage:   "Entry selection, 1-based (e.g. \"1,3,5-7\")",
			},
		),
		Action: r.DownloadChannel,
	}
}

// batchCommand downloads every link listed in a file.
func batchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "batch",
		Usage: "Download every link in a file (one per line, # comments)",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "file"},
		},
		Flags: append(collectionFlags(),
			&cli.StringFlag{
				Name:  "report",
				Usage: "Write a report file to this path",
			},
			&cli.StringFlag{
				Name:  "report-format",
				Usage: "Report format (json, text, markdown)",
				Value: "json",
			},
		),
		Action: r.DownloadBatch,
	}
}

// collectionFlags are shared by the multi-item download commands.
func collectionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "type",
			Aliases: []string{"t"},
			Usage:   "Media type (video or audio)",
			Value:   "video",
		},
		&cli.StringFlag{
			Name:    "quality",
			Aliases: []string{"q"},
			Usage:   "Target video quality (240p-2160p)",
		},
		&cli.IntFlag{
			Name:    "bitrate",
			Aliases: []string{"b"},
			Usage:   "Audio bitrate in kbps (128, 192, 256, 320)",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Audio format (mp3, flac, wav, aac)",
		},
		&cli.IntFlag{
			Name:    "workers",
			Aliases: []string{"w"},
			Usage:   "Concurrent downloads (max 10)",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output the result as JSON",
		},
	}
}

// failedCommand inspects and retries ledger failures.
func failedCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "failed",
		Usage: "Inspect and retry failed downloads",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List failed downloads from the ledger",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "csv",
						Usage: "Output CSV",
					},
				},
				Action: r.FailedList,
			},
			{
				Name:   "retry",
				Usage:  "Retry every failed download",
				Flags:  collectionFlags(),
				Action: r.FailedRetry,
			},
			{
				Name:   "clear",
				Usage:  "Remove failed records from the ledger",
				Action: r.FailedClear,
			},
		},
	}
}

// configCommand reads and writes configuration values.
func configCommand(r *Runner) *cli.Command {
	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}

	return &cli.Command{
		Name:  "config",
		Usage: "Manage configuration",
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Print the active configuration",
				Flags:  []cli.Flag{configFlag},
				Action: r.ConfigShow,
			},
			{
				Name:  "get",
				Usage: "Print one configuration value",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "key"},
				},
				Flags:  []cli.Flag{configFlag},
				Action: r.ConfigGet,
			},
			{
				Name:  "set",
				Usage: "Update one configuration value",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "key"},
					&cli.StringArg{Name: "value"},
				},
				Flags:  []cli.Flag{configFlag},
				Action: r.ConfigSet,
			},
		},
	}
}

// setupCommand handles setup operations for the database and fetch backend.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize the resume ledger database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:   "backend",
				Usage:  "Install the yt-dlp fetch backend if missing",
				Action: r.SetupBackend,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive downloads.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for a playlist or channel download",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "url"},
		},
		Flags: append(collectionFlags(),
			&cli.StringFlag{
				Name:    "select",
				Aliases: []string{"s"},
				Usage:   "Entry selection, 1-based (e.g. \"1,3,5-7\")",
			},
		),
		Action: r.TUI,
	}
}
