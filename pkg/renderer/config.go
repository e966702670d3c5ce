package renderer

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/cpu"
)

// ErrInvalidConfig is returned for sampling or scheduler settings out of range
var ErrInvalidConfig = errors.New("invalid render configuration")

// SamplingConfig contains per-pixel rendering configuration
type SamplingConfig struct {
	SamplesPerPixel int // Number of rays per pixel, >= 1
	MaxDepth        int // Maximum ray bounce depth, >= 0
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel: 100,
		MaxDepth:        50,
	}
}

// Validate reports settings that cannot be rendered
func (c SamplingConfig) Validate() error {
	if c.SamplesPerPixel < 1 {
		return fmt.Errorf("samples per pixel %d: %w", c.SamplesPerPixel, ErrInvalidConfig)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max depth %d: %w", c.MaxDepth, ErrInvalidConfig)
	}
	return nil
}

// SchedulerConfig contains configuration for tile scheduling
type SchedulerConfig struct {
	TileSize   int   // Edge of each square tile; must divide width and height
	NumWorkers int   // Number of parallel workers (0 = use CPU count)
	Seed       int64 // Base seed; tile i samples from Seed+i
}

// DefaultSchedulerConfig returns sensible default values
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		TileSize:   64,
		NumWorkers: 0, // Auto-detect CPU count
		Seed:       42,
	}
}

// Validate reports settings that cannot be scheduled
func (c SchedulerConfig) Validate() error {
	if c.TileSize < 1 {
		return fmt.Errorf("tile size %d: %w", c.TileSize, ErrInvalidConfig)
	}
	if c.NumWorkers < 0 {
		return fmt.Errorf("worker count %d: %w", c.NumWorkers, ErrInvalidConfig)
	}
	return nil
}

// DefaultWorkerCount returns the number of logical CPUs reported by the host,
// falling back to the Go runtime's view
func DefaultWorkerCount() int {
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		return n
	}
	return runtime.NumCPU()
}
