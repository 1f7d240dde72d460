package main

import (
	"flag"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/testmiddle/internal/app"
	"github.com/shrimpsizemoose/testmiddle/internal/handlers"
)

func main() {
	var configPath = flag.String("config", "config.toml", "Path to config file")
	flag.Parse()

	service, err := app.NewService(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to load config: %v", err)
	}
	defer service.Close()

	http.Handle(service.Config.Server.Route, handlers.NewTestHandler(service))
	http.Handle("/metrics", promhttp.Handler())

	logger.Info.Printf("Starting test middleware on %s%s", service.Config.Server.Port, service.Config.Server.Route)
	logger.Debug.Println("Backend endpoints:")
	for table, endpoint := range service.Config.Backend.Endpoints {
		logger.Debug.Printf("  %s: %s", table, endpoint)
	}
	if err := http.ListenAndServe(service.Config.Server.Port, nil); err != nil {
		logger.Error.Fatalf("Test middleware failed: %v", err)
	}
}
