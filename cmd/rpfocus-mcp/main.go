package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/claude/rpfocus/internal/config"
	"github.com/claude/rpfocus/internal/logging"
	"github.com/claude/rpfocus/internal/mcp"
	"github.com/claude/rpfocus/internal/storage"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "", "path to config file (local mode)")
	serverURL := flag.String("server", "", "rpfocus server URL for remote mode (e.g. http://rpfocus.tail1234.ts.net)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("rpfocus-mcp", Version)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// stdout carries the MCP protocol; logs go to stderr.
	log := logging.NewTo(os.Stderr, cfg.Log)

	var ds mcp.DataSource
	if *serverURL != "" {
		ds = mcp.NewHTTPClient(*serverURL)
		log.Info("mcp remote mode", "server", *serverURL)
	} else {
		store, err := storage.Open(context.Background(), cfg.Storage.Driver, cfg.Storage.Target())
		if err != nil {
			log.Error("failed to open state store", "driver", cfg.Storage.Driver, "error", err)
			os.Exit(1)
		}
		defer store.Close()
		ds = mcp.NewLocal(store, log)
		log.Info("mcp local mode", "driver", cfg.Storage.Driver)
	}

	s := mcp.New(ds, Version, log)
	if err := server.ServeStdio(s); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
