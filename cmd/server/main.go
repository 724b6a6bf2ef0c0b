// Package main provides the seawater API HTTP server.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"go.ngs.io/seawater/internal/app"
	httpHandler "go.ngs.io/seawater/internal/http"
	"go.ngs.io/seawater/internal/usecase"
)

const version = "0.1.0"

func main() {
	// Parse command-line flags.
	showHelp := flag.Bool("help", false, "Show usage information")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showHelp {
		printUsage()
		return
	}

	if *showVersion {
		fmt.Printf("seawater-api version %s\n", version)
		return
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(getEnv("LOG_LEVEL", "info")),
	}))
	slog.SetDefault(logger)

	// Load configuration from environment.
	port := getEnv("PORT", "8080")
	steps, err := strconv.Atoi(getEnv("DEFAULT_STEPS", strconv.Itoa(usecase.DefaultSteps)))
	if err != nil || steps <= 0 || steps > usecase.MaxSteps {
		logger.Error("invalid DEFAULT_STEPS", "value", os.Getenv("DEFAULT_STEPS"))
		os.Exit(1)
	}
	cfg := app.Config{
		ProfileDir:      getEnv("PROFILE_DIR", "./data/profiles"),
		ClimatologyPath: getEnv("CLIMATOLOGY_PATH", ""),
		GEBCOPath:       getEnv("BATHYMETRY_GEBCO_PATH", ""),
		CatalogPath:     getEnv("CATALOG_DB_PATH", ""),
		StationsPath:    getEnv("STATIONS_PATH", ""),
		DefaultSteps:    steps,
	}

	logger.Info("starting seawater API server", "version", version, "port", port, "default_steps", steps)

	a, err := app.Build(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize data sources", "error", err)
		os.Exit(1)
	}
	defer func() { _ = a.Close() }()

	router := httpHandler.SetupRouter(a.UseCase, httpHandler.RouterConfig{
		AllowedOrigins: splitOrigins(getEnv("CORS_ALLOWED_ORIGINS", "")),
		Logger:         logger,
	})

	// Start server.
	addr := fmt.Sprintf(":%s", port)
	logger.Info("server listening", "addr", addr, "health", fmt.Sprintf("http://localhost:%s/health", port))

	if err := router.Run(addr); err != nil {
		logger.Error("failed to start server", "error", err)
		_ = a.Close()
		os.Exit(1)
	}
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func splitOrigins(s string) []string {
	var origins []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// printUsage prints usage information.
func printUsage() {
	fmt.Printf("Seawater API Server v%s\n\n", version)
	fmt.Println("USAGE:")
	fmt.Println("  seawater-api [flags]")
	fmt.Println()
	fmt.Println("FLAGS:")
	fmt.Println("  -help          Show this help message")
	fmt.Println("  -version       Show version information")
	fmt.Println()
	fmt.Println("ENVIRONMENT VARIABLES:")
	fmt.Println("  PORT                    Server port (default: 8080)")
	fmt.Println("  PROFILE_DIR             Directory of CSV (*_ts.csv) and YAML profiles (default: ./data/profiles)")
	fmt.Println("  CLIMATOLOGY_PATH        Path to a NetCDF TS climatology (optional)")
	fmt.Println("  BATHYMETRY_GEBCO_PATH   Path to GEBCO NetCDF file for seabed clipping (optional)")
	fmt.Println("  CATALOG_DB_PATH         Path to the SQLite profile catalog (optional)")
	fmt.Println("  STATIONS_PATH           Path to a JSON station registry (optional)")
	fmt.Println("  CORS_ALLOWED_ORIGINS    Comma-separated list of allowed origins (default: all origins)")
	fmt.Println("  LOG_LEVEL               debug, info, warn or error (default: info)")
	fmt.Printf("  DEFAULT_STEPS           Integration steps when a request sets none (default: %d)\n", usecase.DefaultSteps)
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  # Start server with default settings")
	fmt.Println("  seawater-api")
	fmt.Println()
	fmt.Println("  # Start server with a climatology and seabed clipping")
	fmt.Println("  CLIMATOLOGY_PATH=/data/woa.nc BATHYMETRY_GEBCO_PATH=/data/gebco.nc seawater-api")
	fmt.Println()
	fmt.Println("API ENDPOINTS:")
	fmt.Println("  GET  /health                   Health check")
	fmt.Println("  GET  /v1/constants             Physical constants")
	fmt.Println("  GET  /v1/properties            Density, sound speed, freezing point, absorption")
	fmt.Println("  GET  /v1/convert/depth         Pressure to depth at constant density")
	fmt.Println("  GET  /v1/convert/pressure      Depth to pressure at constant density")
	fmt.Println("  GET  /v1/profiles              List TS profiles")
	fmt.Println("  GET  /v1/profiles/:id          Get a TS profile")
	fmt.Println("  GET  /v1/locate                Resolve the TS profile for a location")
	fmt.Println("  GET  /v1/stations              List registry stations")
	fmt.Println("  GET  /v1/depth                 Depth from pressure over a stored profile")
	fmt.Println("  POST /v1/depth                 Depth from pressure over an inline profile")
	fmt.Println("  GET  /v1/soundpath             Vertical sound path length over a stored profile")
	fmt.Println("  POST /v1/soundpath             Vertical sound path length over an inline profile")
	fmt.Println()
}
