package main

import (
	"context"
	"fmt"

	"github.com/opsbase/itvault/internal/adapter"
	"github.com/opsbase/itvault/internal/config"
	myHTTP "github.com/opsbase/itvault/internal/handler/http"
	"github.com/opsbase/itvault/internal/logger"
	"github.com/opsbase/itvault/internal/server"
	"github.com/opsbase/itvault/internal/service"
	"github.com/opsbase/itvault/internal/store"
	"github.com/opsbase/itvault/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("itvault-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	ctx := context.Background()

	storages, err := store.NewStorages(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer storages.Close()

	webhook, err := adapter.NewWebhookSink(cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating audit webhook sink")
	}

	var extraSinks []service.ActivitySink
	if webhook != nil {
		extraSinks = append(extraSinks, webhook)
	}

	services := service.NewServices(storages, *cfg, log, extraSinks...)
	handler := myHTTP.NewHandler(services, storages, cfg.App, log)

	srv, err := server.NewServer(handler.Init(), cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	purger := workers.NewSessionPurger(storages.SessionStore, cfg.App.SessionLifetime, log)
	workers.NewWorkers(purger).Run()
	defer purger.Stop()

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
