package main

import (
	"context"
	"errors"
	"flag"
	"time"

	"github.com/Garsondee/Dungeon-Sense/internal/game"
	"github.com/Garsondee/Dungeon-Sense/internal/logger"
	"github.com/Garsondee/Dungeon-Sense/internal/storage"
	"github.com/Garsondee/Dungeon-Sense/internal/view"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	seed := flag.Int64("seed", time.Now().UnixNano(), "level seed")
	configPath := flag.String("config", "", "optional JSON config file")
	dbPath := flag.String("db", "", "sqlite file for saved levels (empty disables F5 save)")
	level := flag.String("level", "default", "saved level name")
	flag.Parse()

	logger.Init()
	log := logger.Component("main")

	cfg, err := game.LoadConfig(*configPath)
	if err != nil {
		log.WithError(err).Fatal("load config")
	}
	opts := view.Options{Config: cfg, Seed: *seed}

	if *dbPath != "" {
		store, err := storage.Open(*dbPath)
		if err != nil {
			log.WithError(err).Fatal("open store")
		}
		defer store.Close()

		saved, err := store.LoadLevel(context.Background(), *level)
		switch {
		case errors.Is(err, storage.ErrLevelNotFound):
			log.WithField("level", *level).Info("no saved level, generating")
		case err != nil:
			log.WithError(err).Warn("load level, generating")
		default:
			opts.Saved = saved
		}
		opts.Save = func(st game.SavedState) error {
			return store.SaveLevel(context.Background(), *level, st)
		}
	}

	ebiten.SetWindowTitle("Dungeon Sense")
	ebiten.SetWindowSize(1280, 800)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(view.New(opts)); err != nil {
		log.WithError(err).Fatal("run game")
	}
}
