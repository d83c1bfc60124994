package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/rpfocus/internal/config"
	"github.com/claude/rpfocus/internal/importer"
	"github.com/claude/rpfocus/internal/logging"
	"github.com/claude/rpfocus/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "", "path to config file")
	exportPath := flag.String("export", "", "write the stored state to this JSON file")
	importPath := flag.String("import", "", "replace the stored state with this JSON file (exported or legacy browser blob)")
	list := flag.Bool("list", false, "list backups kept by the store")
	restoreID := flag.Int64("restore", 0, "restore the backup with this id")
	dryRun := flag.Bool("dry-run", false, "report what would change without writing")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("rpfocus-backup", Version)
		return
	}

	actions := 0
	for _, set := range []bool{*exportPath != "", *importPath != "", *list, *restoreID != 0} {
		if set {
			actions++
		}
	}
	if actions != 1 {
		fmt.Fprintf(os.Stderr, "Usage: rpfocus-backup [-config config.yaml] (-export FILE | -import FILE | -list | -restore ID) [-dry-run]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log := logging.NewTo(os.Stderr, cfg.Log)

	ctx := context.Background()
	store, err := storage.Open(ctx, cfg.Storage.Driver, cfg.Storage.Target())
	if err != nil {
		log.Error("failed to open state store", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	if *dryRun {
		log.Info("DRY RUN mode: nothing will be written")
	}
	imp := importer.New(store, log, *dryRun)

	var stats *importer.Stats
	switch {
	case *exportPath != "":
		stats, err = imp.Export(ctx, *exportPath)
	case *importPath != "":
		stats, err = imp.Import(ctx, *importPath)
	case *restoreID != 0:
		stats, err = imp.Restore(ctx, *restoreID)
	case *list:
		err = printBackups(ctx, imp)
	}
	if err != nil {
		log.Error("backup command failed", "error", err)
		os.Exit(1)
	}
	if stats != nil {
		printStats(log, stats)
	}
}

func printBackups(ctx context.Context, imp *importer.Importer) error {
	backups, err := imp.Backups(ctx)
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		fmt.Println("no backups")
		return nil
	}
	for _, b := range backups {
		fmt.Printf("%4d  %s  %-8s v%d\n", b.ID, b.CreatedAt.Local().Format("2006-01-02 15:04:05"), b.Reason, b.Version)
	}
	return nil
}

func printStats(log *slog.Logger, stats *importer.Stats) {
	log.Info("state summary",
		"legacy", stats.Legacy,
		"set_logs", stats.SetLogs,
		"done_sets", stats.DoneSets,
		"exercises", stats.Exercises,
		"nutrition_days", stats.NutritionDays,
		"meals", stats.Meals,
		"week", stats.Week,
		"mode", stats.Mode,
	)
}
