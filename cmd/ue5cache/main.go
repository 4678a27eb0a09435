// Command ue5cache builds and verifies a fast-startup asset cache for a
// UE5 project: scan Content/, fingerprint every asset, resolve the
// package dependency graph, and persist a manifest that downstream
// tooling (or a later run of this same tool) can verify against.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/ue5faststartup/internal/ueconfig"
	"github.com/standardbeagle/ue5faststartup/internal/ulog"
	"github.com/standardbeagle/ue5faststartup/internal/version"
)

var cfg *ueconfig.Config

// loadConfigWithOverrides loads the project's .ue5cache.kdl (if any) and
// applies the --threads global override on top of it.
func loadConfigWithOverrides(c *cli.Context) (*ueconfig.Config, error) {
	root := resolveProject(c)

	loaded, err := ueconfig.Load(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ue5cache: warning: failed to load config from %s, using defaults: %v\n", root, err)
		loaded = ueconfig.DefaultConfig()
	}

	if threads := c.Int("threads"); threads > 0 {
		loaded.Concurrency.Workers = threads
	}

	return loaded, nil
}

// resolveProject returns the absolute project root for c, defaulting to
// the current directory.
func resolveProject(c *cli.Context) string {
	root := c.String("project")
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return root
	}
	return abs
}

// cachePathFor returns the manifest path c names via --cache, or the
// project-default ".ue5cache.manifest" sibling to Content/.
func cachePathFor(c *cli.Context, root string) string {
	if p := c.String("cache"); p != "" {
		return p
	}
	return filepath.Join(root, ".ue5cache.manifest")
}

// signalContext returns a context cancelled on SIGINT/SIGTERM, so a long
// scan or hash pass can be interrupted cleanly rather than leaving a
// half-written output behind.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigChan:
			ulog.Warn("received signal %v, cancelling", sig)
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

func main() {
	app := &cli.App{
		Name:                   "ue5cache",
		Usage:                  "UE5 fast-startup asset cache builder",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Show component-tagged debug logging on stderr",
			},
			&cli.IntFlag{
				Name:  "threads",
				Usage: "Worker pool size (0 = GOMAXPROCS)",
				Value: 0,
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "scan",
				Usage: "Walk Content/ and list classified assets",
				Flags: []cli.Flag{
					projectFlag(),
					outputFlag(),
					&cli.StringFlag{Name: "filter", Usage: "Restrict to one extension (e.g. uasset); empty keeps everything but Other"},
					&cli.BoolFlag{Name: "startup-only", Usage: "List only the startup-critical set"},
					&cli.StringSliceFlag{Name: "exclude", Usage: "Doublestar glob to exclude, in addition to .ue5cache.kdl's scan.exclude-globs"},
				},
				Action: scanCommand,
			},
			{
				Name:  "cache",
				Usage: "Build a manifest: scan, hash, resolve dependencies, compute load order",
				Flags: []cli.Flag{
					projectFlag(),
					cacheFlag(),
					outputFlag(),
					&cli.BoolFlag{Name: "force", Usage: "Overwrite an existing manifest at --cache"},
					&cli.BoolFlag{Name: "shaders", Usage: "Record the shader-variant file list in the manifest"},
					&cli.StringSliceFlag{Name: "exclude", Usage: "Doublestar glob to exclude, in addition to .ue5cache.kdl's scan.exclude-globs"},
				},
				Action: cacheCommand,
			},
			{
				Name:  "verify",
				Usage: "Compare the on-disk asset set against a saved manifest",
				Flags: []cli.Flag{
					projectFlag(),
					cacheFlag(),
				},
				Action: verifyCommand,
			},
			{
				Name:  "quick-verify",
				Usage: "Like verify, but hashes only sampled first, middle and last regions of each file",
				Flags: []cli.Flag{
					projectFlag(),
					cacheFlag(),
				},
				Action: quickVerifyCommand,
			},
			{
				Name:  "stats",
				Usage: "Print a short per-type summary of a manifest",
				Flags: []cli.Flag{
					cacheFlag(),
				},
				Action: statsCommand,
			},
			{
				Name:  "analyze",
				Usage: "Render the full analysis report (duplicates, near-duplicate names, recommendations) as JSON",
				Flags: []cli.Flag{
					cacheFlag(),
					outputFlag(),
				},
				Action: analyzeCommand,
			},
			{
				Name:  "graph",
				Usage: "Export the package dependency graph as Graphviz dot",
				Flags: []cli.Flag{
					projectFlag(),
					outputFlag(),
					&cli.BoolFlag{Name: "startup-only", Usage: "Prune the graph to the startup-critical set before exporting"},
					&cli.StringSliceFlag{Name: "exclude", Usage: "Doublestar glob to exclude, in addition to .ue5cache.kdl's scan.exclude-globs"},
				},
				Action: graphCommand,
			},
			{
				Name:  "bench",
				Usage: "Time repeated scan+hash passes over a project",
				Flags: []cli.Flag{
					projectFlag(),
					&cli.IntFlag{Name: "iterations", Usage: "Number of passes", Value: 3},
				},
				Action: benchCommand,
			},
			{
				Name:  "turbo",
				Usage: "Fast hot-extension-only scan with sampled hashing, no manifest written",
				Flags: []cli.Flag{
					projectFlag(),
					&cli.StringFlag{Name: "filter", Usage: "Restrict to one extension"},
				},
				Action: turboCommand,
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("verbose") {
				ulog.EnableVerbose = "true"
				ulog.SetOutput(os.Stderr)
			}
			loaded, err := loadConfigWithOverrides(c)
			if err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "ue5cache: %v\n", err)
		os.Exit(1)
	}
}

func projectFlag() cli.Flag {
	return &cli.StringFlag{Name: "project", Aliases: []string{"p"}, Usage: "Project root (the directory containing Content/)", Value: "."}
}

func cacheFlag() cli.Flag {
	return &cli.StringFlag{Name: "cache", Usage: "Manifest path (default: <project>/.ue5cache.manifest)"}
}

func outputFlag() cli.Flag {
	return &cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Write output here instead of stdout"}
}
