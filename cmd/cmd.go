// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// setupCommand initializes local state
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize local configuration and database",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize the local database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
			{
				Name:   "config",
				Usage:  "Create a configuration file from the template",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupConfig,
			},
		},
	}
}

// authCommand handles account and session operations
func authCommand(r *Runner) *cli.Command {
	credentialFlags := []cli.Flag{
		&cli.StringFlag{
			Name:     "email",
			Aliases:  []string{"e"},
			Usage:    "Account email address",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "password",
			Aliases:  []string{"p"},
			Usage:    "Account password",
			Required: true,
		},
	}

	return &cli.Command{
		Name:  "auth",
		Usage: "Log in and out of the wardrobe backend",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Log in with email and password",
				Flags:  credentialFlags,
				Action: r.AuthLogin,
			},
			{
				Name:   "register",
				Usage:  "Create an account and log in",
				Flags:  credentialFlags,
				Action: r.AuthRegister,
			},
			{
				Name:   "logout",
				Usage:  "Discard the stored session",
				Action: r.AuthLogout,
			},
			{
				Name:   "whoami",
				Usage:  "Show who the stored token belongs to",
				Action: r.AuthWhoami,
			},
			{
				Name:   "status",
				Usage:  "Verify the stored token against the backend",
				Action: r.AuthStatus,
			},
		},
	}
}

// profileCommand handles account profile operations
func profileCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "View and edit the account profile",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show the account profile",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.ProfileShow,
			},
			{
				Name:  "update",
				Usage: "Update profile fields",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "Full name"},
					&cli.StringFlag{Name: "gender", Usage: "Gender"},
					&cli.StringFlag{Name: "style", Usage: "Preferred style"},
				},
				Action: r.ProfileUpdate,
			},
		},
	}
}

// wardrobeCommand handles wardrobe item operations
func wardrobeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "wardrobe",
		Aliases: []string{"w"},
		Usage:   "Manage wardrobe items",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List wardrobe items",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "skip", Usage: "Number of items to skip"},
					&cli.IntFlag{Name: "limit", Usage: "Maximum number of items to return", Value: 50},
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output"},
				},
				Action: r.WardrobeList,
			},
			{
				Name:  "search",
				Usage: "Search wardrobe items with filters",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "type", Usage: "Garment type filter"},
					&cli.StringFlag{Name: "style", Usage: "Style filter"},
					&cli.StringFlag{Name: "color", Usage: "Color filter"},
					&cli.IntFlag{Name: "skip", Usage: "Number of items to skip"},
					&cli.IntFlag{Name: "limit", Usage: "Maximum number of items to return", Value: 100},
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.WardrobeSearch,
			},
			{
				Name:  "stats",
				Usage: "Show wardrobe and try-on activity counts",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.WardrobeStats,
			},
			{
				Name:  "add",
				Usage: "Register a wardrobe item",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "Item name", Required: true},
					&cli.StringFlag{Name: "category", Usage: "Item category", Required: true},
					&cli.StringFlag{Name: "color", Usage: "Item color"},
					&cli.StringFlag{Name: "description", Usage: "Item description"},
					&cli.StringFlag{Name: "image-url", Usage: "Stored image URL, e.g. from 'wardrobe classify'"},
				},
				Action: r.WardrobeAdd,
			},
			{
				Name:  "delete",
				Usage: "Delete a wardrobe item",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "Item ID to delete", Required: true},
				},
				Action: r.WardrobeDelete,
			},
			{
				Name:  "classify",
				Usage: "Classify a garment photo",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.WardrobeClassify,
			},
		},
	}
}

// tryonCommand handles virtual try-on operations
func tryonCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tryon",
		Aliases: []string{"t"},
		Usage:   "Run virtual try-ons and manage their history",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Generate a try-on from a person photo and a garment photo",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "person", Usage: "Path to the person photo", Required: true},
					&cli.StringFlag{Name: "cloth", Usage: "Path to the garment photo", Required: true},
					&cli.StringFlag{Name: "instructions", Usage: "Free-form generation instructions"},
					&cli.StringFlag{Name: "model", Usage: "Generation model type"},
					&cli.StringFlag{Name: "gender", Usage: "Model gender hint"},
					&cli.StringFlag{Name: "garment", Usage: "Garment type hint"},
					&cli.StringFlag{Name: "style", Usage: "Style hint"},
					&cli.BoolFlag{Name: "open", Usage: "Open the result image in a browser"},
				},
				Action: r.TryOnRun,
			},
			{
				Name:  "history",
				Usage: "View and clear try-on history",
				Commands: []*cli.Command{
					{
						Name:  "list",
						Usage: "List completed try-on sessions",
						Flags: []cli.Flag{
							&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
						},
						Action: r.TryOnHistoryList,
					},
					{
						Name:   "clear",
						Usage:  "Delete completed sessions from the server and this device",
						Action: r.TryOnHistoryClear,
					},
				},
			},
		},
	}
}

// advisorCommand handles outfit advisor operations
func advisorCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "advisor",
		Usage: "Get AI advice on outfits",
		Commands: []*cli.Command{
			{
				Name:  "analyze",
				Usage: "Analyze an outfit, optionally with a photo",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "description", Usage: "Free-form outfit description"},
					&cli.StringFlag{Name: "name", Usage: "Outfit name"},
					&cli.StringFlag{Name: "type", Usage: "Outfit type, e.g. dress or jacket"},
					&cli.StringFlag{Name: "size", Usage: "Outfit size"},
					&cli.StringFlag{Name: "season", Usage: "Season the outfit is for"},
					&cli.StringFlag{Name: "style", Usage: "Outfit style"},
					&cli.StringFlag{Name: "image-url", Usage: "Stored image URL, e.g. from 'advisor upload'"},
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.AdvisorAnalyze,
			},
			{
				Name:  "list",
				Usage: "List past analyses",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "skip", Usage: "Number of analyses to skip"},
					&cli.IntFlag{Name: "limit", Usage: "Maximum number of analyses to return", Value: 50},
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.AdvisorList,
			},
			{
				Name:  "show",
				Usage: "Show one analysis",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "Analysis ID", Required: true},
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.AdvisorShow,
			},
			{
				Name:  "delete",
				Usage: "Delete one analysis",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "Analysis ID", Required: true},
				},
				Action: r.AdvisorDelete,
			},
			{
				Name:  "upload",
				Usage: "Upload an outfit photo without analyzing it",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Action: r.AdvisorUpload,
			},
		},
	}
}

// favCommand handles the device-local favorites collections
func favCommand(r *Runner) *cli.Command {
	collectionFlag := func() cli.Flag {
		return &cli.StringFlag{
			Name:    "collection",
			Aliases: []string{"col"},
			Usage:   "Favorites collection: wardrobe or tryon",
			Value:   "wardrobe",
		}
	}

	return &cli.Command{
		Name:  "fav",
		Usage: "Manage favorites saved on this device",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Favorite a wardrobe item or try-on result",
				Flags: []cli.Flag{
					collectionFlag(),
					&cli.StringFlag{Name: "id", Usage: "Entity ID to favorite", Required: true},
				},
				Action: r.FavAdd,
			},
			{
				Name:  "remove",
				Usage: "Remove a favorite",
				Flags: []cli.Flag{
					collectionFlag(),
					&cli.StringFlag{Name: "id", Usage: "Entity ID to unfavorite", Required: true},
				},
				Action: r.FavRemove,
			},
			{
				Name:  "list",
				Usage: "List favorites, newest first",
				Flags: []cli.Flag{
					collectionFlag(),
					&cli.BoolFlag{Name: "all", Usage: "List both collections"},
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.FavList,
			},
		},
	}
}

// exportCommand handles history exports
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export try-on history to files",
		Commands: []*cli.Command{
			{
				Name:  "history",
				Usage: "Export history as CSV or plain text",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Usage: "Export format: csv or text", Value: "csv"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output file base path"},
				},
				Action: r.ExportHistory,
			},
			{
				Name:  "report",
				Usage: "Export a Markdown report with downloaded result images",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output directory"},
				},
				Action: r.ExportReport,
			},
		},
	}
}

// prefsCommand handles display preferences
func prefsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "prefs",
		Usage: "View and change display preferences",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show current preferences",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output as JSON"},
				},
				Action: r.PrefsShow,
			},
			{
				Name:   "toggle-dark",
				Usage:  "Toggle dark mode for the TUI",
				Action: r.PrefsToggleDark,
			},
		},
	}
}

// tuiCommand launches the interactive browser
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Browse history and favorites interactively",
		Action: r.TUI,
	}
}
