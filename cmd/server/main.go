//go:build !js && !wasm
// +build !js,!wasm

package main

import (
	"flag"
	"strings"
	"time"

	"github.com/himanishpuri/StringHarmonics/internal/config"
	"github.com/himanishpuri/StringHarmonics/pkg/harmonics"
	"github.com/himanishpuri/StringHarmonics/pkg/harmonics/catalog"
	"github.com/himanishpuri/StringHarmonics/pkg/harmonics/storage"
	"github.com/himanishpuri/StringHarmonics/pkg/logger"
)

const readHeaderTimeout = 10 * time.Second

func main() {
	log := logger.GetLogger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.ConfigureLogger(); err != nil {
		log.Fatalf("Failed to configure logging: %v", err)
	}

	port := flag.String("port", cfg.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.DBPath, "Path to SQLite chart catalog")
	maxN := flag.Int("max", cfg.MaxHarmonic, "Highest harmonic to consider")
	allowedOrigins := flag.String("origins", strings.Join(cfg.AllowedOrigins, ","), "Comma-separated list of allowed CORS origins (use * for all)")
	flag.Parse()

	var origins []string
	for _, o := range strings.Split(*allowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	service, err := harmonics.NewService(
		harmonics.WithMaxHarmonic(*maxN),
		harmonics.WithSpelling(cfg.Spelling),
		harmonics.WithTie(cfg.Tie),
		harmonics.WithLogger(log),
	)
	if err != nil {
		log.Fatalf("Failed to create service: %v", err)
	}

	db, err := storage.NewDBClientWithPath(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open chart catalog: %v", err)
	}
	defer db.Close()

	server := NewServer(service, catalog.New(service, db), &ServerConfig{
		Port:           *port,
		DBPath:         *dbPath,
		AllowedOrigins: origins,
	})
	if err := server.Start(); err != nil {
		log.Errorf("Server failed: %v", err)
	}
}
