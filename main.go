package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/df07/go-tile-raytracer/pkg/config"
	"github.com/df07/go-tile-raytracer/pkg/framebuffer"
	"github.com/df07/go-tile-raytracer/pkg/renderer"
	"github.com/df07/go-tile-raytracer/pkg/scene"
)

const defaultEnvFile = ".env"

func main() {
	// The .env file has to be loaded before flags are registered so that
	// flags default to (and override) the environment
	envFile := envFileFromArgs(os.Args[1:])
	cfg, err := config.Load(envFile)
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	flag.String("env", defaultEnvFile, "Path to a .env file with RAYTRACER_* settings")
	help := flag.Bool("help", false, "Show help information")
	cfg.RegisterFlags(flag.CommandLine)
	flag.Parse()

	if *help {
		printHelp()
		return
	}

	os.Exit(run(cfg))
}

// run renders cfg to its output file and returns the process exit code
func run(cfg config.Config) int {
	selectedScene, err := createScene(cfg)
	if err != nil {
		log.Printf("Error creating scene: %v", err)
		return 1
	}
	log.Printf("Using %s scene (%s)", cfg.Scene, selectedScene)

	scheduler, err := renderer.NewScheduler(selectedScene, cfg.Width, cfg.Height,
		cfg.Sampling(), cfg.Scheduler(), renderer.NewDefaultLogger())
	if err != nil {
		log.Printf("Error creating renderer: %v", err)
		return 1
	}

	// Ctrl-C cancels the render; tiles in flight finish, the rest are skipped
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	img, stats, err := scheduler.Render(ctx, progressLogger())
	if err != nil {
		if errors.Is(err, renderer.ErrCancelled) {
			log.Printf("Render cancelled after %d/%d tiles", stats.Tiles, stats.TotalTiles)
		} else {
			log.Printf("Render failed: %v", err)
		}
		return 1
	}

	log.Printf("Render completed in %v (%.1f samples per pixel, %d workers)",
		stats.Elapsed, stats.AverageSamples(), stats.Workers)

	if err := framebuffer.Save(cfg.Output, framebuffer.ToNRGBA(img)); err != nil {
		log.Printf("Error saving PNG: %v", err)
		return 1
	}
	log.Printf("Render saved as %s", cfg.Output)
	return 0
}

// createScene builds the configured built-in scene
func createScene(cfg config.Config) (*scene.Scene, error) {
	opts, err := cfg.SceneOptions()
	if err != nil {
		return nil, err
	}
	return scene.NewScene(cfg.Scene, opts)
}

// progressLogger logs every completed tenth of the tiles
func progressLogger() renderer.ProgressFunc {
	lastDecile := 0
	return func(completed, total int) {
		decile := completed * 10 / total
		if decile > lastDecile {
			lastDecile = decile
			log.Printf("Progress: %d/%d tiles (%d%%)", completed, total, completed*100/total)
		}
	}
}

// envFileFromArgs finds -env in the raw arguments ahead of flag parsing
func envFileFromArgs(args []string) string {
	for i, arg := range args {
		if arg == "--" {
			break
		}
		name := strings.TrimLeft(arg, "-")
		if name == arg {
			continue
		}
		if value, ok := strings.CutPrefix(name, "env="); ok {
			return value
		}
		if name == "env" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return defaultEnvFile
}

func printHelp() {
	fmt.Println("Tile Raytracer")
	fmt.Println("Usage: raytracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Available scenes:")
	for _, info := range scene.ListScenes() {
		fmt.Printf("  %-14s %s\n", info.ID, info.Description)
	}
	fmt.Println()
	fmt.Printf("Settings can also come from %sSCENE, %sWIDTH, ... or a .env file.\n",
		config.EnvPrefix, config.EnvPrefix)
}
