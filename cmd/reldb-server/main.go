package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"relDB/internal/engine"
	"relDB/internal/httpserver"
	"relDB/internal/logger"
	"relDB/internal/storage/filestore"
	"relDB/internal/storage/memstore"
	"relDB/internal/utils"
)

var log = logger.NewLogger()

func main() {
	log.Debug().Msg("starting relDB server")

	cfg, err := engine.ConfigFromEnv()
	if err != nil {
		log.Error().Err(err).Msg("error reading config")
		os.Exit(1)
	}

	files, err := filestore.New(cfg.StoreDir)
	if err != nil {
		log.Error().Err(err).Msg("error opening table store")
		os.Exit(1)
	}

	eng := engine.New(cfg, memstore.New(), files)
	if err := eng.Start(); err != nil {
		log.Error().Err(err).Msg("error starting engine")
		os.Exit(1)
	}

	if utils.GetEnvOrDefault("LOAD_SAVED", "0") == "1" {
		saved, err := eng.SavedTables()
		if err != nil {
			log.Error().Err(err).Msg("error listing saved tables")
			os.Exit(1)
		}
		for _, name := range saved {
			if _, err := eng.Load(name); err != nil {
				log.Error().Err(err).Str("table", name).Msg("error loading saved table")
				os.Exit(1)
			}
		}
	}

	httpServer := httpserver.NewHTTPServer(eng)
	if err := httpServer.Start(":" + utils.GetEnvOrDefault("HTTP_PORT", "8080")); err != nil {
		log.Error().Err(err).Msg("error starting http server")
		os.Exit(1)
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
	log.Warn().Msg("received shutdown signal!")

	sleepTime := utils.GetEnvOrDefaultInt("SHUTDOWN_SLEEP_SEC", 0)
	log.Info().Msg(fmt.Sprintf("sleeping for %ds before exiting", sleepTime))
	time.Sleep(time.Second * time.Duration(sleepTime))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("failed to shutdown HTTP server")
	} else {
		log.Info().Msg("successfully shutdown HTTP server")
	}
}
