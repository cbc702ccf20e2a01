// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the typeahead ranking server and its debugging CLI.

The server ranks people, streams, code block languages, slash commands and
emoji for a partially typed query, using the realm signals of a snapshot
file: stream subscriptions, private message partners, recent senders and
recipient counts.

# Usage

Start the server with a snapshot:

	typeahead -data realm.msgpack

Enable debug logging:

	typeahead -data realm.toml -d

Run the interactive CLI instead of the server:

	typeahead -data realm.toml -c

When -data is a directory, or is omitted, snapshot.msgpack, snapshot.bin
and snapshot.toml are looked for in it, next to the executable and in the
config directory.

# Configuration

The TOML config is created with defaults on first run:

	[server]
	max_limit = 64
	default_limit = 10
	max_query = 60

	[render]
	description_limit = 35

	[realm]
	email_visibility = "admins_only"
	viewer_is_admin = false

# IPC Protocol

The server reads msgpack requests from stdin and writes one msgpack
response per request to stdout. See package server for the messages.

	{"id": "r1", "k": "streams", "q": "de", "l": 5}

# Command Line Flags

	-data string
	    Snapshot file or directory containing one
	-config string
	    Path to a custom config file
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-limit int
	    Number of results shown by the CLI
	-convert string
	    Write the loaded snapshot to another path and format, then exit
	-formats
	    List supported snapshot formats
	-rebuild-config
	    Overwrite the default config file with defaults
	-version
	    Show current version
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bastiangx/typeahead/internal/cli"
	"github.com/bastiangx/typeahead/internal/logger"
	"github.com/bastiangx/typeahead/internal/utils"
	"github.com/bastiangx/typeahead/pkg/config"
	"github.com/bastiangx/typeahead/pkg/server"
	"github.com/bastiangx/typeahead/pkg/snapshot"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.1.0"
	AppName = "typeahead"
	gh      = "https://github.com/bastiangx/typeahead"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main only wires the packages together and picks server or CLI mode.
func main() {
	sigHandler()

	showVersion := flag.Bool("version", false, "Show current version")
	dataPath := flag.String("data", "", "Snapshot file, or a directory containing snapshot.{msgpack,bin,toml}")
	configPath := flag.String("config", "", "Path to a custom config file")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	limit := flag.Int("limit", 0, "Number of results shown by the CLI (default from config)")
	rebuildConfig := flag.Bool("rebuild-config", false, "Overwrite the default config.toml with defaults and exit")
	listFormats := flag.Bool("formats", false, "List supported snapshot formats and exit")
	convertTo := flag.String("convert", "", "Write the loaded snapshot to this path (.toml, .msgpack or .bin) and exit")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}
	if *listFormats {
		for _, info := range snapshot.ListSupportedFormats() {
			fmt.Printf("%-18s %s\n", info.Description, strings.Join(info.Extensions, ", "))
		}
		os.Exit(0)
	}
	if *rebuildConfig {
		if err := config.RebuildConfigFile(); err != nil {
			log.Fatalf("Failed to rebuild config: %v", err)
		}
		fmt.Fprintln(os.Stderr, "Rebuilt default config file")
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	appConfig, usedConfigPath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(usedConfigPath))

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Fatalf("Failed to initialize path resolver: %v", err)
	}
	if pathResolver != nil {
		log.Debug("Runtime", "info", pathResolver.GetRuntimeInfo())
	}

	requested := *dataPath
	if requested == "" {
		requested = appConfig.Server.Snapshot
	}
	snapshotPath, err := pathResolver.ResolveSnapshot(requested)
	if err != nil {
		log.Fatalf("Failed to resolve snapshot: %v", err)
	}

	if *convertTo != "" {
		if err := convertSnapshot(snapshotPath, *convertTo); err != nil {
			log.Fatalf("Failed to convert snapshot: %v", err)
		}
		os.Exit(0)
	}

	reloader, err := snapshot.NewReloader(snapshotPath)
	if err != nil {
		log.Fatalf("Failed to load snapshot: %v", err)
	}
	log.Debugf("Loaded snapshot %s", snapshotPath)

	// CLI is mainly used for testing rankings before relying on them in
	// server mode.
	if *cliMode {
		log.SetReportTimestamp(false)
		if *limit > 0 {
			appConfig.CLI.DefaultLimit = *limit
		}
		inputHandler := cli.NewInputHandler(reloader.Store(), appConfig)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(reloader, appConfig, usedConfigPath)

	showStartupInfo(snapshotPath, reloader.Store().Stats())

	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// convertSnapshot rewrites the snapshot at from in the format implied by
// the extension of to.
func convertSnapshot(from, to string) error {
	snap, err := snapshot.Read(from)
	if err != nil {
		return err
	}
	if err := snap.Validate(); err != nil {
		return fmt.Errorf("invalid snapshot %s: %w", from, err)
	}
	if err := snapshot.Write(to, snap); err != nil {
		return err
	}
	log.Infof("Wrote %s as %s", to, snapshot.FormatForPath(to))
	return nil
}

func printVersion() {
	banner := logger.NewWithConfig("", log.InfoLevel, false, false, log.TextFormatter)

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	banner.SetStyles(styles)

	banner.Print("")
	banner.Print("[ Typeahead ] Ranks what you meant to type first")
	banner.Print("", "version", Version)
	banner.Print("")
	banner.Print("use -h or --help to see available options")
	banner.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process on
// stderr.
func showStartupInfo(snapshotPath string, stats map[string]int) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	fmt.Fprintln(os.Stderr, "===========")
	fmt.Fprintln(os.Stderr, " Typeahead ")
	fmt.Fprintln(os.Stderr, "===========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("snapshot: ( %s )", snapshotPath)
	log.Info("loaded", "people", stats["people"], "streams", stats["streams"], "languages", stats["languages"])
	log.Info("status: ready")
	fmt.Fprintln(os.Stderr, "===========")

	log.SetLevel(currentLevel)
}
