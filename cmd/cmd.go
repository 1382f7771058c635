// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// App builds the root command.
func (r *Runner) App() *cli.Command {
	return &cli.Command{
		Name:    "acms",
		Usage:   "Manage academy content, its category and focus areas",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringSliceFlag{
				Name:  "env-file",
				Usage: "Load environment variables from these files (default .env)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Override the configured log level (debug, info, warn, error)",
			},
		},
		Before:   r.Configure,
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, contentCommand, catalogCommand, serveCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: text, csv, markdown or json",
		Value:   "text",
	}
}

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Write output to a file instead of stdout",
	}
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create the configuration file and database schema",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write a config.toml from the bundled template",
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Create the tables (sqlite3 and postgres drivers)",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "seed",
						Usage: "Also create the default categories and focus areas",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

func contentCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "content",
		Usage: "List, inspect, save and delete content items",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List content items, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "page",
						Usage: "Zero-based page number",
					},
					&cli.IntFlag{
						Name:  "size",
						Usage: "Items per page",
						Value: 20,
					},
					&cli.StringFlag{
						Name:    "search",
						Aliases: []string{"q"},
						Usage:   "Filter by title, content type or category",
					},
					formatFlag(),
					outputFlag(),
				},
				Action: r.ContentList,
			},
			{
				Name:  "get",
				Usage: "Show one content item with its focus areas",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Content ID",
						Required: true,
					},
					formatFlag(),
					outputFlag(),
				},
				Action: r.ContentGet,
			},
			{
				Name:  "save",
				Usage: "Create or update a content item from a JSON record",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Usage:    "Path to the JSON record, or - for stdin",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "publish",
						Usage: "Mark the item as published",
					},
					&cli.BoolFlag{
						Name:  "draft",
						Usage: "Mark the item as a draft",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output the result as JSON",
					},
				},
				Action: r.ContentSave,
			},
			{
				Name:  "delete",
				Usage: "Delete a content item and its focus area links",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Content ID",
						Required: true,
					},
				},
				Action: r.ContentDelete,
			},
		},
	}
}

func catalogCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "catalog",
		Usage: "Content types, categories and focus areas",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Show the selectable options",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.CatalogList,
			},
			{
				Name:   "seed",
				Usage:  "Create the default categories and focus areas",
				Action: r.CatalogSeed,
			},
		},
	}
}

func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the content JSON API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address (defaults to server.host:server.port)",
			},
			&cli.BoolFlag{
				Name:  "proxy",
				Usage: "Forward /api/supabase/* to the configured PostgREST endpoint",
			},
		},
		Action: r.Serve,
	}
}
