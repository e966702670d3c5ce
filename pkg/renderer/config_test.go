package renderer

import (
	"errors"
	"testing"
)

func TestDefaultConfigs(t *testing.T) {
	sampling := DefaultSamplingConfig()
	if sampling.SamplesPerPixel != 100 || sampling.MaxDepth != 50 {
		t.Errorf("Unexpected default sampling config %+v", sampling)
	}
	if err := sampling.Validate(); err != nil {
		t.Errorf("Default sampling config should be valid: %v", err)
	}

	scheduler := DefaultSchedulerConfig()
	if scheduler.TileSize != 64 || scheduler.NumWorkers != 0 || scheduler.Seed != 42 {
		t.Errorf("Unexpected default scheduler config %+v", scheduler)
	}
	if err := scheduler.Validate(); err != nil {
		t.Errorf("Default scheduler config should be valid: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"zero samples", SamplingConfig{SamplesPerPixel: 0, MaxDepth: 5}.Validate()},
		{"negative depth", SamplingConfig{SamplesPerPixel: 1, MaxDepth: -1}.Validate()},
		{"zero tile size", SchedulerConfig{TileSize: 0}.Validate()},
		{"negative workers", SchedulerConfig{TileSize: 8, NumWorkers: -2}.Validate()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", tt.err)
			}
		})
	}

	if err := (SamplingConfig{SamplesPerPixel: 1, MaxDepth: 0}).Validate(); err != nil {
		t.Errorf("Depth 0 is a valid configuration: %v", err)
	}
}

func TestDefaultWorkerCount(t *testing.T) {
	if n := DefaultWorkerCount(); n < 1 {
		t.Errorf("Expected at least one worker, got %d", n)
	}
}
