package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/pflag"

	"github.com/conorfennell/apkgen/internal/anki"
	"github.com/conorfennell/apkgen/internal/config"
	"github.com/conorfennell/apkgen/internal/source"
	"github.com/conorfennell/apkgen/internal/web"
)

func main() {
	// 1. Define and parse command-line flags
	flags := pflag.NewFlagSet("apkgen", pflag.ExitOnError)
	configPath := flags.String("config", "", "Path to a YAML config file")
	serve := flags.Bool("serve", false, "Run the HTTP deck service instead of building a package")
	src := flags.String("source", "", "Deck source: a directory or git URL containing markdown deck files")
	title := flags.String("title", "", "Title of the deck to build")
	out := flags.String("out", "", "Output package path (defaults to the title-derived filename)")
	flags.String("listen", ":8080", "HTTP listen address for serve mode")
	flags.String("repos", "repos", "Directory git deck sources are checked out into")
	flags.String("scratch", "", "Parent directory for encode scratch space")
	flags.Parse(os.Args[1:])

	// 2. Load layered configuration
	cfg, err := config.Load(*configPath, flags)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	encoder := anki.NewEncoder()
	encoder.Scratch = cfg.ScratchDir

	// 3. Serve mode: expose the encoder over HTTP
	if *serve {
		slog.Info("Starting deck service", "listen", cfg.Listen)
		if err := http.ListenAndServe(cfg.Listen, web.NewServer(encoder)); err != nil {
			slog.Error("Server stopped", "error", err)
			os.Exit(1)
		}
		return
	}

	// 4. Build mode: load pairs from the source and write the package
	if *src == "" || *title == "" {
		flags.Usage()
		os.Exit(2)
	}

	pairs, err := source.Load(*src, cfg.ReposDir)
	if err != nil {
		if len(pairs) == 0 {
			slog.Error("Failed to load deck source", "source", *src, "error", err)
			os.Exit(1)
		}
		slog.Warn("Some deck files failed to parse", "error", err)
	}
	slog.Info("Loaded pairs from source", "source", *src, "pairs", len(pairs))

	pkg, err := encoder.Encode(*title, pairs)
	if err != nil {
		slog.Error("Failed to encode deck", "title", *title, "error", err)
		os.Exit(1)
	}

	outPath := *out
	if outPath == "" {
		outPath = anki.Filename(*title)
	}
	if err := os.WriteFile(outPath, pkg, 0o644); err != nil {
		slog.Error("Failed to write package", "path", outPath, "error", err)
		os.Exit(1)
	}
	slog.Info("Wrote package", "path", outPath, "bytes", len(pkg))
}
