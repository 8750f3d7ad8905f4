// Command feed-server runs one world headlessly and streams it to
// websocket clients. The first client to connect steers the player.
package main

import (
	"context"
	"errors"
	"flag"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Garsondee/Dungeon-Sense/internal/game"
	"github.com/Garsondee/Dungeon-Sense/internal/logger"
	"github.com/Garsondee/Dungeon-Sense/internal/netfeed"
	"github.com/Garsondee/Dungeon-Sense/internal/storage"
	"github.com/sirupsen/logrus"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	tickMs := flag.Int("tick", 16, "simulation tick in milliseconds")
	seed := flag.Int64("seed", time.Now().UnixNano(), "level seed")
	configPath := flag.String("config", "", "optional JSON config file")
	dbPath := flag.String("db", "", "sqlite file to restore a saved level from")
	level := flag.String("level", "default", "saved level name")
	flag.Parse()

	logger.Init()
	log := logger.Component("feed-server")

	if *tickMs <= 0 {
		log.Fatal("-tick must be > 0")
	}
	cfg, err := game.LoadConfig(*configPath)
	if err != nil {
		log.WithError(err).Fatal("load config")
	}

	saved := loadSaved(log, *dbPath, *level)
	w := game.NewWorld(cfg, rand.New(rand.NewSource(*seed)), saved) // #nosec G404 -- game only
	w.Seed = *seed

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := netfeed.NewHub(w, time.Duration(*tickMs)*time.Millisecond)
	go hub.Run(ctx)

	srv := &http.Server{
		Addr:              *addr,
		Handler:           hub.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.WithFields(logrus.Fields{"addr": *addr, "seed": *seed, "restored": w.Restored()}).Info("serving")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("listen")
	}
}

func loadSaved(log *logrus.Entry, path, level string) *game.SavedState {
	if path == "" {
		return nil
	}
	store, err := storage.Open(path)
	if err != nil {
		log.WithError(err).Warn("open store, generating")
		return nil
	}
	defer store.Close()
	saved, err := store.LoadLevel(context.Background(), level)
	if err != nil {
		if !errors.Is(err, storage.ErrLevelNotFound) {
			log.WithError(err).Warn("load level, generating")
		}
		return nil
	}
	return saved
}
