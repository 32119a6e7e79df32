package main

import (
	"flag"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/checkmark/internal/app"
	"github.com/shrimpsizemoose/checkmark/internal/handlers"
)

func main() {
	configPath := flag.String("config", "config.toml", "Path to config file")
	flag.Parse()
	app.LoadEnv()

	service, err := app.NewService(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to load config: %v", err)
	}
	defer service.Close()

	mux := http.NewServeMux()
	handlers.Register(mux, service)
	mux.Handle("/metrics", promhttp.Handler())

	logger.Info.Printf("Starting checkmark privacy server on %s", service.Config.Server.Port)
	logger.Debug.Println("Requiring headers:")
	for _, h := range service.Config.API.RequiredHeaders {
		logger.Debug.Printf("  %s: %s", h.Name, h.Value)
	}
	logger.Debug.Printf("Preferences backend: %s", service.Config.Preferences.Backend)

	if err := http.ListenAndServe(service.Config.Server.Port, mux); err != nil {
		logger.Error.Fatalf("Checkmark server failed: %v", err)
	}
}
