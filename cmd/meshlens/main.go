// Package main is the entry point for the meshlens inspection core.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/meshlens/meshlens/internal/app"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts, showVersion := parseFlags()
	if showVersion {
		fmt.Printf("meshlens %s (%s)\n", version, commit)
		return 0
	}

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	if err := application.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// The core runs until a consumer host embeds it or a signal arrives.
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	<-signals

	return 0
}

func parseFlags() (app.Options, bool) {
	var opts app.Options
	var showVersion bool

	flag.StringVar(&opts.ConfigPath, "config", "", "path to the TOML configuration file")
	flag.StringVar(&opts.ManifestPath, "model", "", "part-hierarchy manifest to load on startup")
	flag.StringVar(&opts.LogLevel, "log-level", "", "override the configured log level")
	flag.BoolVar(&opts.Watch, "watch", false, "reload the configuration file on change")
	flag.BoolVar(&showVersion, "version", false, "print version information and exit")
	flag.Parse()

	return opts, showVersion
}
