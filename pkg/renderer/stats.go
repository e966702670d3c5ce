package renderer

import "time"

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels  int           // Total number of pixels rendered
	TotalSamples int           // Total number of camera rays traced
	Tiles        int           // Number of tiles completed
	TotalTiles   int           // Number of tiles in the grid
	Workers      int           // Number of parallel workers used
	Elapsed      time.Duration // Wall time from dispatch to terminal state
}

// AverageSamples returns the mean number of samples per rendered pixel
func (s RenderStats) AverageSamples() float64 {
	if s.TotalPixels == 0 {
		return 0
	}
	return float64(s.TotalSamples) / float64(s.TotalPixels)
}

// add folds a finished tile into the totals
func (s *RenderStats) add(buffer *TileBuffer) {
	s.Tiles++
	s.TotalPixels += len(buffer.Pix)
	s.TotalSamples += buffer.Samples
}
