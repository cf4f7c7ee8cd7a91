package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hpungsan/leadbook/internal/config"
	"github.com/hpungsan/leadbook/internal/db"
	"github.com/hpungsan/leadbook/internal/logging"
	"github.com/hpungsan/leadbook/internal/store"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion(args []string) bool {
	if len(args) < 2 {
		return true
	}
	arg := args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

func main() {
	// Handle --help/--version before DB init (no DB needed)
	if isHelpOrVersion(os.Args) {
		app := newCLIApp(nil, nil, nil)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	baseDir, err := config.BaseDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	cwd, err := os.Getwd()
	if err != nil {
		cwd = ""
	}
	cfg, err := config.LoadWithRepo(baseDir, cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stderr, cfg.LogLevel)

	database, err := db.Init(baseDir)
	if err != nil {
		logger.Fatal("failed to initialize database", "dir", baseDir, "err", err)
	}
	defer database.Close()
	db.ConfigurePool(database, cfg)

	repo := store.New(db.NewKV(database), logger)
	if err := repo.Load(context.Background()); err != nil {
		database.Close()
		logger.Fatal("failed to load clients", "err", err)
	}

	app := newCLIApp(repo, cfg, logger)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		database.Close()
		os.Exit(1)
	}
}
