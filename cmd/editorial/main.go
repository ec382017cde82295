package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-command/dispatcher"
	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/soygarfield/go-editorial/cmd/editorial/internal/bootstrap"
	importcmd "github.com/soygarfield/go-editorial/internal/commands/importer"
	sitemapcmd "github.com/soygarfield/go-editorial/internal/commands/sitemap"
	staticcmd "github.com/soygarfield/go-editorial/internal/commands/static"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	cmd := &cli.Command{
		Name:  "editorial",
		Usage: "Render, import and publish the soygarfield.com editorial content",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (defaults apply when it is missing)",
				Value:   "editorial.yaml",
				Sources: cli.EnvVars("EDITORIAL_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "source",
				Usage:   "Content source override: sanity, sqlite or memory",
				Sources: cli.EnvVars("EDITORIAL_SOURCE"),
			},
		},
		Commands: []*cli.Command{
			sitemapCommand(),
			buildCommand(),
			importCommand(),
			mirrorCommand(),
			serveCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatalf("editorial: %v", err)
	}
}

func options(cmd *cli.Command) bootstrap.Options {
	return bootstrap.Options{
		ConfigPath:     cmd.String("config"),
		ConfigRequired: cmd.IsSet("config"),
		Source:         cmd.String("source"),
	}
}

func sitemapCommand() *cli.Command {
	return &cli.Command{
		Name:  "sitemap",
		Usage: "Generate sitemap.xml from the content source",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output path override"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts := options(cmd)
			opts.OutputPath = cmd.String("output")
			module, err := moduleBuilder(ctx, opts)
			if err != nil {
				return fmt.Errorf("bootstrap module: %w", err)
			}
			defer module.Close()

			result, err := module.GenerateSitemap(ctx, sitemapcmd.TriggerCLI)
			if err != nil {
				return fmt.Errorf("generate sitemap: %w", err)
			}
			fmt.Fprintf(os.Stdout, "sitemap written to %s: %d urls, %s in %s\n",
				result.Path, result.URLs, humanize.Bytes(uint64(result.Bytes)), result.Duration)
			return nil
		},
	}
}

func buildCommand() *cli.Command {
	return &cli.Command{
		Name:  "build",
		Usage: "Prerender the public pages, feed and robots.txt",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output-dir", Usage: "Output directory override"},
			&cli.BoolFlag{Name: "force", Usage: "Rewrite pages even when unchanged"},
			&cli.BoolFlag{Name: "dry-run", Usage: "Render without writing"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts := options(cmd)
			opts.StaticDir = cmd.String("output-dir")
			module, err := moduleBuilder(ctx, opts)
			if err != nil {
				return fmt.Errorf("bootstrap module: %w", err)
			}
			defer module.Close()

			result, err := module.BuildStatic(ctx, staticcmd.BuildSiteCommand{
				Force:  cmd.Bool("force"),
				DryRun: cmd.Bool("dry-run"),
			})
			if err != nil {
				return fmt.Errorf("build site: %w", err)
			}
			fmt.Fprintf(os.Stdout, "built %s pages, skipped %s in %s\n",
				humanize.Comma(int64(result.PagesBuilt)), humanize.Comma(int64(result.PagesSkipped)), result.Duration)
			for _, stale := range result.Stale {
				fmt.Fprintf(os.Stdout, "stale: %s\n", stale)
			}
			return nil
		},
	}
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import content into the writable source",
		Commands: []*cli.Command{
			{
				Name:      "ndjson",
				Usage:     "Import a content store export",
				ArgsUsage: "<file.ndjson>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "strict", Usage: "Stop at the first invalid record"},
					&cli.BoolFlag{Name: "dry-run", Usage: "Validate without writing"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					path := cmd.Args().First()
					if path == "" {
						return errors.New("import ndjson: file argument is required")
					}
					return dispatchImport(ctx, cmd, importcmd.ImportNDJSONCommand{
						Path:   path,
						Strict: cmd.Bool("strict"),
						DryRun: cmd.Bool("dry-run"),
					})
				},
			},
			{
				Name:      "markdown",
				Usage:     "Import a directory of front-matter markdown files",
				ArgsUsage: "<directory>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "collection", Usage: "Collection for files without a type (article, author, glossaryTerm)"},
					&cli.BoolFlag{Name: "include-drafts", Usage: "Import files marked draft"},
					&cli.BoolFlag{Name: "dry-run", Usage: "Parse without writing"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					dir := cmd.Args().First()
					if dir == "" {
						return errors.New("import markdown: directory argument is required")
					}
					return dispatchImport(ctx, cmd, importcmd.ImportMarkdownCommand{
						Directory:     dir,
						Collection:    cmd.String("collection"),
						IncludeDrafts: cmd.Bool("include-drafts"),
						DryRun:        cmd.Bool("dry-run"),
					})
				},
			},
		},
	}
}

func dispatchImport[T command.Message](ctx context.Context, cmd *cli.Command, msg T) error {
	opts := options(cmd)
	opts.Dispatch = true
	module, err := moduleBuilder(ctx, opts)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	if err := dispatcher.Dispatch(ctx, msg); err != nil {
		return fmt.Errorf("execute %s: %w", msg.Type(), err)
	}
	fmt.Fprintf(os.Stdout, "%s executed successfully\n", msg.Type())
	return nil
}

func mirrorCommand() *cli.Command {
	return &cli.Command{
		Name:  "mirror",
		Usage: "Copy every publishable entity from Sanity into the SQLite mirror",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			module, err := moduleBuilder(ctx, options(cmd))
			if err != nil {
				return fmt.Errorf("bootstrap module: %w", err)
			}
			defer module.Close()

			count, err := module.Mirror(ctx)
			if err != nil {
				return fmt.Errorf("mirror: %w", err)
			}
			fmt.Fprintf(os.Stdout, "mirrored %s entities\n", humanize.Comma(int64(count)))
			return nil
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the preview server and scheduled sitemap regeneration",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			module, err := moduleBuilder(ctx, options(cmd))
			if err != nil {
				return fmt.Errorf("bootstrap module: %w", err)
			}
			defer module.Close()

			return module.Serve(ctx)
		},
	}
}
