package main

import (
	"fmt"

	"github.com/MKhiriev/go-pantry-keeper/internal/adapter"
	"github.com/MKhiriev/go-pantry-keeper/internal/client"
	"github.com/MKhiriev/go-pantry-keeper/internal/config"
	"github.com/MKhiriev/go-pantry-keeper/internal/logger"
	"github.com/MKhiriev/go-pantry-keeper/internal/projection"
	"github.com/MKhiriev/go-pantry-keeper/internal/tui"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewClientLogger("pantry-client")
	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	serverAdapter, err := adapter.NewHTTPServerAdapter(cfg.Adapter, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server adapter")
	}

	controller := projection.NewController(serverAdapter, log)
	job := projection.NewResubscribeJob(controller, cfg.Workers.ResubscribeInterval)

	ui, err := tui.New(controller, serverAdapter, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating terminal UI")
	}

	app, err := client.NewApp(controller, job, ui, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating client app")
	}

	if err := app.Run(); err != nil {
		log.Fatal().Err(err).Msg("client exited with error")
	}
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
