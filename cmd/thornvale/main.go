// Package main provides the game driver binary: it loads the content pack,
// seeds the player, and runs the engine tick loop until interrupted.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"thornvale/internal/config"
	"thornvale/internal/game/engine"
	"thornvale/internal/game/entity"
	"thornvale/internal/game/event"
	"thornvale/internal/game/item"
	"thornvale/internal/game/scene"
	"thornvale/internal/game/worldmap"
	"thornvale/internal/observability"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	playerName := flag.String("player", "Jake", "player character name")
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

	logger.Info("starting game driver",
		zap.Duration("tick_interval", cfg.Game.TickInterval),
		zap.Bool("debug", cfg.Game.Debug),
	)

	// Load content pack
	contentStart := time.Now()
	catalog := item.NewCatalog(logger)
	if err := catalog.LoadDir(cfg.Content.ItemsDir); err != nil {
		logger.Fatal("loading items", zap.Error(err))
	}
	scenes := scene.NewManager(logger)
	if _, err := scenes.LoadDir(cfg.Content.ScenesDir); err != nil {
		logger.Fatal("loading scenes", zap.Error(err))
	}
	maps := worldmap.NewManager(logger)
	if _, err := maps.LoadDir(cfg.Content.MapsDir); err != nil {
		logger.Fatal("loading maps", zap.Error(err))
	}
	logger.Info("content pack loaded",
		zap.Int("items", catalog.Len()),
		zap.Int("scenes", scenes.Len()),
		zap.Int("maps", maps.Len()),
		zap.Duration("elapsed", time.Since(contentStart)),
	)

	// Seed the player
	player := entity.New(*playerName)
	if sword, ok := catalog.Spawn("dragonbone-sword"); ok {
		player.Inventory().Insert(sword)
		if err := player.Equip(sword.InstanceID()); err != nil {
			logger.Warn("equipping starting weapon", zap.Error(err))
		}
	}

	world := engine.NewWorld(player)
	eng := engine.New(logger, cfg.Game, world, catalog, scenes)

	if cfg.Game.StartScene != "" {
		eng.Emit(event.PlayScene{Scene: scene.ID(cfg.Game.StartScene)})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("game driver initialized", zap.Duration("startup", time.Since(start)))

	ticker := time.NewTicker(cfg.Game.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return
		case <-ticker.C:
			eng.Tick()
			if eng.GameOver() {
				logger.Info("game over",
					zap.String("player", player.Name()),
					zap.Int("gold", player.Gold()),
				)
				return
			}
		}
	}
}
