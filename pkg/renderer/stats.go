package renderer

import "time"

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	Width           int           // Render width after subsampling
	Height          int           // Render height after subsampling
	TotalPixels     int           // Pixels per iteration
	SampleCount     int           // Completed iterations, equal to samples per pixel
	TotalSamples    int           // Paths traced since the last restart
	MaxSamples      int           // Iteration budget, 0 for unbounded
	LastIteration   time.Duration // Wall time of the most recent iteration
	TotalTime       time.Duration // Wall time since the last restart
	SamplesPerSec   float64       // Paths per second over TotalTime
	AverageRadiance float64       // Mean luminance of the accumulated image
}
