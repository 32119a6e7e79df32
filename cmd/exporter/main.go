package main

import (
	"context"
	"flag"
	"strconv"
	"strings"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/checkmark/internal/app"
	"github.com/shrimpsizemoose/checkmark/internal/export"
	"github.com/shrimpsizemoose/checkmark/internal/privacy"
)

func parseIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func main() {
	var (
		configPath = flag.String("config", "config.toml", "Path to config file")
		userID     = flag.Int64("user", 0, "User whose data is exported")
		contexts   = flag.String("contexts", "", "Comma separated context ids, all contexts of the user when empty")
		demo       = flag.Bool("demo", false, "Seed demo data and export the demo student")
		outputDir  = flag.String("out", "", "Output directory, overrides export.output_dir")
	)
	flag.Parse()
	app.LoadEnv()

	service, err := app.NewService(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to load config: %v", err)
	}
	defer service.Close()

	ctx := context.Background()
	dir := service.Config.Export.OutputDir
	if *outputDir != "" {
		dir = *outputDir
	}

	var approved privacy.ApprovedContextList
	switch {
	case *demo:
		approved, err = export.SeedDemo(ctx, service, time.Now())
		if err != nil {
			logger.Error.Fatalf("Failed to seed demo data: %v", err)
		}
		logger.Info.Printf("Seeded demo data for user %d", approved.UserID)
	default:
		approved.UserID = *userID
		approved.ContextIDs, err = parseIDs(*contexts)
		if err != nil {
			logger.Error.Fatalf("Invalid -contexts value %q: %v", *contexts, err)
		}
		if len(approved.ContextIDs) == 0 {
			list, err := service.Provider.ContextsForUser(ctx, approved.UserID)
			if err != nil {
				logger.Error.Fatalf("Failed to find contexts of user %d: %v", approved.UserID, err)
			}
			approved.ContextIDs = list.IDs()
		}
	}

	target, err := export.ToDirectory(ctx, service, approved, dir)
	if err != nil {
		logger.Error.Fatalf("Export failed: %v", err)
	}
	logger.Info.Printf("Export written to %s", target)
}
