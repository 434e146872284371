package renderer

import (
	"sync/atomic"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/integrator"
	"github.com/df07/go-progressive-pathtracer/pkg/lights"
	"github.com/go-gl/mathgl/mgl64"
)

// emptyScene has no geometry, so every ray sees the environment
type emptyScene struct {
	environment *lights.Environment
}

func (s *emptyScene) Intersect(ray core.Ray) (geometry.Intersection, bool) {
	return geometry.Intersection{}, false
}
func (s *emptyScene) Occluded(ray core.Ray, maxDistance float64) bool { return false }
func (s *emptyScene) GetPointLight() *lights.PointLight               { return nil }
func (s *emptyScene) GetEnvironment() *lights.Environment             { return s.environment }

// funcIntegrator delegates to a function and counts calls
type funcIntegrator struct {
	fn    func(ray core.Ray) core.Vec3
	calls *atomic.Int64
}

func (f *funcIntegrator) RayColor(ray core.Ray, scene integrator.Scene, sampler core.Sampler) core.Vec3 {
	if f.calls != nil {
		f.calls.Add(1)
	}
	return f.fn(ray)
}

func funcFactory(fn func(ray core.Ray) core.Vec3, calls *atomic.Int64) IntegratorFactory {
	return func(Settings) integrator.Integrator {
		return &funcIntegrator{fn: fn, calls: calls}
	}
}

func constantFactory(c core.Vec3) IntegratorFactory {
	return funcFactory(func(core.Ray) core.Vec3 { return c }, nil)
}

type silentLogger struct{}

func (silentLogger) Printf(format string, args ...interface{}) {}

func testSettings() Settings {
	settings := DefaultSettings()
	settings.NumWorkers = 2
	settings.TileSize = 4
	return settings
}

// forwardMatrices looks down -Z from the origin with +Y up
func forwardMatrices(width, height int) (view, proj mgl64.Mat4) {
	camera := NewCamera(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1), core.NewVec3(0, 1, 0), 60)
	return camera.Matrices(width, height)
}

func newTestRenderer(width, height int, settings Settings, factory IntegratorFactory) (*ProgressiveRenderer, error) {
	scene := &emptyScene{environment: lights.NewUniformEnvironment(core.NewVec3(0.5, 0.5, 0.5))}
	r, err := NewProgressiveRenderer(scene, width, height, settings, silentLogger{})
	if err != nil {
		return nil, err
	}
	if factory != nil {
		r.SetIntegratorFactory(factory)
	}
	return r, nil
}
