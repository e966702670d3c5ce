package main

import (
	"flag"
	"log"
	"os"

	"github.com/df07/go-tile-raytracer/pkg/config"
	"github.com/df07/go-tile-raytracer/web/server"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Printf("Error loading configuration: %v", err)
		os.Exit(1)
	}

	// Parse command line flags; they set the defaults for every render
	flag.IntVar(&cfg.Port, "port", cfg.Port, "Port to serve on")
	cfg.RegisterFlags(flag.CommandLine)
	flag.Parse()

	// Create and start web server
	webServer := server.NewServer(cfg)

	log.Printf("Tile Raytracer Web Server")
	log.Printf("Stream a render from http://localhost:%d/api/render?scene=%s", cfg.Port, cfg.Scene)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
