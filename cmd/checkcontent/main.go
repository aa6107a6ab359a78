// Package main provides the content pack validator: it strict-loads every
// item, scene, and map file and exits non-zero if any file fails.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"thornvale/internal/config"
	"thornvale/internal/game/item"
	"thornvale/internal/game/scene"
	"thornvale/internal/game/worldmap"
	"thornvale/internal/observability"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	failures := 0
	checked := 0

	catalog := item.NewCatalog(logger)
	failures += checkDir(cfg.Content.ItemsDir, &checked, catalog.LoadFile)

	scenes := scene.NewManager(logger)
	failures += checkDir(cfg.Content.ScenesDir, &checked, scenes.LoadFile)

	maps := worldmap.NewManager(logger)
	failures += checkDir(cfg.Content.MapsDir, &checked, maps.LoadFile)

	logger.Info("content check complete",
		zap.Int("files", checked),
		zap.Int("failures", failures),
		zap.Int("items", catalog.Len()),
		zap.Int("scenes", scenes.Len()),
		zap.Int("maps", maps.Len()),
	)
	if failures > 0 {
		os.Exit(1)
	}
}

// checkDir loads every .yaml/.yml file in dir through load, printing each
// failure, and returns the failure count. A missing directory is itself a
// failure.
func checkDir(dir string, checked *int, load func(string) error) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", dir, err)
		return 1
	}
	failures := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		*checked++
		if err := load(path); err != nil {
			fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", path, err)
			failures++
			continue
		}
		fmt.Printf("ok   %s\n", path)
	}
	return failures
}
