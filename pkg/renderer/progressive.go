package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/integrator"
	"github.com/go-gl/mathgl/mgl64"
)

// ErrInvalidSize is returned when a render target has no pixels
var ErrInvalidSize = errors.New("invalid render size")

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// IntegratorFactory builds the integrator used for a set of settings
type IntegratorFactory func(settings Settings) integrator.Integrator

// PathTracingFactory builds a path tracer from the bounce and refraction settings
func PathTracingFactory(settings Settings) integrator.Integrator {
	return integrator.NewPathTracingIntegrator(integrator.Config{
		MaxBounces: settings.MaxBounces,
		Refraction: settings.Refraction,
	})
}

// ProgressiveRenderer accumulates one path per pixel per iteration into a
// running mean. All pixels share one sample counter, advanced only after
// every tile of an iteration has finished.
type ProgressiveRenderer struct {
	mu sync.Mutex

	scene      integrator.Scene
	factory    IntegratorFactory
	integrator integrator.Integrator
	settings   Settings
	logger     core.Logger

	windowWidth, windowHeight int // Requested size
	width, height             int // Subsampled render size

	buffer      []mgl64.Vec4 // Running mean, row 0 at the bottom
	scratch     []mgl64.Vec4 // Samples of the iteration in flight
	sampleCount int
	tiles       []*Tile
	workerPool  *WorkerPool

	lastIteration time.Duration
	totalTime     time.Duration
}

// NewProgressiveRenderer creates a renderer for a window of the given size
func NewProgressiveRenderer(scene integrator.Scene, width, height int, settings Settings, logger core.Logger) (*ProgressiveRenderer, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	if logger == nil {
		logger = NewDefaultLogger()
	}

	r := &ProgressiveRenderer{
		scene:    scene,
		factory:  PathTracingFactory,
		settings: settings,
		logger:   logger,
	}
	r.integrator = r.factory(settings)

	if err := r.Resize(width, height); err != nil {
		return nil, err
	}
	return r, nil
}

// Resize reallocates the image for a new window size and resets the sample
// count. The render size is the window size divided by the subsampling
// factor, at least one pixel per axis.
func (r *ProgressiveRenderer) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("resize to %dx%d: %w", width, height, ErrInvalidSize)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.windowWidth, r.windowHeight = width, height
	r.reallocate()
	return nil
}

func (r *ProgressiveRenderer) reallocate() {
	subsampling := max(1, r.settings.Subsampling)
	r.width = max(1, r.windowWidth/subsampling)
	r.height = max(1, r.windowHeight/subsampling)

	r.buffer = make([]mgl64.Vec4, r.width*r.height)
	r.scratch = make([]mgl64.Vec4, r.width*r.height)
	r.tiles = NewTileGrid(r.width, r.height, r.settings.TileSize)
	r.resetCounters()
}

// Restart discards accumulated samples without reallocating
func (r *ProgressiveRenderer) Restart() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resetCounters()
}

func (r *ProgressiveRenderer) resetCounters() {
	r.sampleCount = 0
	r.lastIteration = 0
	r.totalTime = 0
}

// SampleCount returns the number of completed iterations since the last
// restart
func (r *ProgressiveRenderer) SampleCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sampleCount
}

// Settings returns the current settings
func (r *ProgressiveRenderer) Settings() Settings {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.settings
}

// SetSettings applies new settings and restarts. A change of subsampling
// or tile size also reallocates the image.
func (r *ProgressiveRenderer) SetSettings(settings Settings) error {
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	previous := r.settings
	r.settings = settings
	r.integrator = r.factory(settings)

	if settings.NumWorkers != previous.NumWorkers {
		r.stopWorkers()
	}
	if settings.Subsampling != previous.Subsampling || settings.TileSize != previous.TileSize {
		r.reallocate()
		return nil
	}
	r.resetCounters()
	return nil
}

// SetIntegratorFactory replaces how integrators are built and restarts
func (r *ProgressiveRenderer) SetIntegratorFactory(factory IntegratorFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.factory = factory
	r.integrator = factory(r.settings)
	r.resetCounters()
}

// Size returns the subsampled render size
func (r *ProgressiveRenderer) Size() (width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

// Close stops the worker pool. The renderer starts a new one if it is used
// again.
func (r *ProgressiveRenderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopWorkers()
}

func (r *ProgressiveRenderer) stopWorkers() {
	if r.workerPool != nil {
		r.workerPool.Stop()
		r.workerPool = nil
	}
}

// frame is the read-only state shared by the tiles of one iteration
type frame struct {
	ctx         context.Context
	scene       integrator.Scene
	integrator  integrator.Integrator
	width       int
	height      int
	cameraPos   mgl64.Vec3
	invViewProj mgl64.Mat4
	samples     []mgl64.Vec4
}

// RenderIteration traces one new path through every pixel and blends it
// into the running mean with weight 1/(n+1), n being the sample count
// before the call. It returns false without rendering once the budget is
// reached. A cancelled context discards the whole iteration and leaves the
// image and counter untouched.
func (r *ProgressiveRenderer) RenderIteration(ctx context.Context, view, proj mgl64.Mat4) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.settings.MaxPathsPerPixel > 0 && r.sampleCount >= r.settings.MaxPathsPerPixel {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	cameraPos, invViewProj, err := unprojection(view, proj)
	if err != nil {
		return false, err
	}

	f := &frame{
		ctx:         ctx,
		scene:       r.scene,
		integrator:  r.integrator,
		width:       r.width,
		height:      r.height,
		cameraPos:   cameraPos,
		invViewProj: invViewProj,
		samples:     r.scratch,
	}

	start := time.Now()
	if err := r.renderTiles(f); err != nil {
		return false, err
	}
	// Tiles may finish after cancellation; a partial iteration is never blended
	if err := ctx.Err(); err != nil {
		return false, err
	}

	n := float64(r.sampleCount)
	keep := n / (n + 1.0)
	weight := 1.0 / (n + 1.0)
	for i := range r.buffer {
		r.buffer[i] = r.buffer[i].Mul(keep).Add(r.scratch[i].Mul(weight))
	}
	r.sampleCount++

	r.lastIteration = time.Since(start)
	r.totalTime += r.lastIteration
	return true, nil
}

// renderTiles fans the tiles out to the worker pool and waits for all of them
func (r *ProgressiveRenderer) renderTiles(f *frame) error {
	if r.workerPool == nil {
		r.workerPool = NewWorkerPool(r.settings.NumWorkers)
		r.workerPool.Start()
	}
	pool := r.workerPool

	tiles := r.tiles
	go func() {
		for i, tile := range tiles {
			pool.SubmitTask(TileTask{Tile: tile, TaskID: i, Frame: f})
		}
	}()

	var firstErr error
	for range tiles {
		result, ok := pool.GetResult()
		if !ok {
			return fmt.Errorf("worker pool closed unexpectedly")
		}
		if result.Error != nil && firstErr == nil {
			firstErr = result.Error
		}
	}
	return firstErr
}

// renderTile samples every pixel of the tile once into the scratch buffer
func (f *frame) renderTile(tile *Tile) (int, error) {
	if err := f.ctx.Err(); err != nil {
		return 0, err
	}

	pixels := 0
	for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
		for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
			jitter := tile.Sampler.Get2D()
			ray := f.primaryRay(float64(x)+jitter.X, float64(y)+jitter.Y)
			color := f.integrator.RayColor(ray, f.scene, tile.Sampler)

			f.samples[y*f.width+x] = mgl64.Vec4{color.X, color.Y, color.Z, 1}
			pixels++
		}
	}
	return pixels, nil
}

// unprojection returns the eye position and the inverse view-projection
// matrix used to turn pixels into primary rays
func unprojection(view, proj mgl64.Mat4) (mgl64.Vec3, mgl64.Mat4, error) {
	viewProj := proj.Mul4(view)
	if viewProj.Det() == 0 || view.Det() == 0 {
		return mgl64.Vec3{}, mgl64.Mat4{}, fmt.Errorf("view-projection matrix is not invertible")
	}
	eye := view.Inv().Mul4x1(mgl64.Vec4{0, 0, 0, 1})
	return eye.Vec3().Mul(1.0 / eye.W()), viewProj.Inv(), nil
}

// PixelRay returns the primary ray RenderIteration traces through pixel
// coordinates (px, py) of a width x height target, without jitter.
// Coordinates are measured from the bottom-left corner.
func PixelRay(view, proj mgl64.Mat4, width, height int, px, py float64) (core.Ray, error) {
	if width <= 0 || height <= 0 {
		return core.Ray{}, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	cameraPos, invViewProj, err := unprojection(view, proj)
	if err != nil {
		return core.Ray{}, err
	}
	f := &frame{width: width, height: height, cameraPos: cameraPos, invViewProj: invViewProj}
	return f.primaryRay(px, py), nil
}

// primaryRay unprojects a point on the far plane through pixel coordinates
// (px, py), measured from the bottom-left corner
func (f *frame) primaryRay(px, py float64) core.Ray {
	ndc := mgl64.Vec4{
		px/float64(f.width)*2.0 - 1.0,
		py/float64(f.height)*2.0 - 1.0,
		1.0,
		1.0,
	}
	p := f.invViewProj.Mul4x1(ndc)
	target := p.Vec3().Mul(1.0 / p.W())
	direction := target.Sub(f.cameraPos).Normalize()

	return core.NewRay(
		core.NewVec3(f.cameraPos[0], f.cameraPos[1], f.cameraPos[2]),
		core.NewVec3(direction[0], direction[1], direction[2]),
	)
}

// Stats returns statistics about the accumulated image
func (r *ProgressiveRenderer) Stats() RenderStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	pixels := r.width * r.height
	stats := RenderStats{
		Width:         r.width,
		Height:        r.height,
		TotalPixels:   pixels,
		SampleCount:   r.sampleCount,
		TotalSamples:  pixels * r.sampleCount,
		MaxSamples:    r.settings.MaxPathsPerPixel,
		LastIteration: r.lastIteration,
		TotalTime:     r.totalTime,
	}
	if r.totalTime > 0 {
		stats.SamplesPerSec = float64(stats.TotalSamples) / r.totalTime.Seconds()
	}
	if r.sampleCount > 0 && pixels > 0 {
		sum := 0.0
		for _, p := range r.buffer {
			sum += core.NewVec3(p[0], p[1], p[2]).Luminance()
		}
		stats.AverageRadiance = sum / float64(pixels)
	}
	return stats
}

// PassResult contains the result of a single iteration
type PassResult struct {
	PassNumber int
	Image      *image.RGBA // Display image scaled to the window size
	Stats      RenderStats
	IsLast     bool
}

// RenderProgressive runs iterations until the sample budget, maxIterations
// (0 for no limit) or cancellation, sending each finished pass. Both
// channels are closed when rendering stops.
func (r *ProgressiveRenderer) RenderProgressive(ctx context.Context, view, proj mgl64.Mat4, maxIterations int) (<-chan PassResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	errChan := make(chan error, 1)

	go func() {
		defer close(passChan)
		defer close(errChan)

		r.logger.Printf("Starting progressive rendering (%s)...\n", r.describe())

		for pass := 1; maxIterations <= 0 || pass <= maxIterations; pass++ {
			rendered, err := r.RenderIteration(ctx, view, proj)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					r.logger.Printf("Rendering cancelled before pass %d completed\n", pass)
				}
				errChan <- err
				return
			}
			if !rendered {
				r.logger.Printf("Reached maximum samples per pixel (%d), stopping.\n", r.Settings().MaxPathsPerPixel)
				return
			}

			stats := r.Stats()
			r.logger.Printf("Pass %d completed in %v (%d samples/pixel)\n",
				pass, stats.LastIteration, stats.SampleCount)

			budgetReached := stats.MaxSamples > 0 && stats.SampleCount >= stats.MaxSamples
			result := PassResult{
				PassNumber: pass,
				Image:      r.DisplayImage(0, 0),
				Stats:      stats,
				IsLast:     pass == maxIterations || budgetReached,
			}

			select {
			case passChan <- result:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}

			if result.IsLast {
				return
			}
		}
	}()

	return passChan, errChan
}

func (r *ProgressiveRenderer) describe() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	workers := r.settings.NumWorkers
	if r.workerPool != nil {
		workers = r.workerPool.GetNumWorkers()
	}
	return fmt.Sprintf("%dx%d, %d tiles, max bounces %d, workers %d",
		r.width, r.height, len(r.tiles), r.settings.MaxBounces, workers)
}
