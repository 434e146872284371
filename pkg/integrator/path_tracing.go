package integrator

import (
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

// RayEpsilon offsets secondary ray origins off the surface they leave
const RayEpsilon = 1e-4

// fallbackMaterial shades hits on shapes that carry no material
var fallbackMaterial = material.NewDiffuseMaterial(core.NewVec3(0.5, 0.5, 0.5))

// Config holds the integrator settings that may change between passes
type Config struct {
	MaxBounces int  // Scattering events after the primary hit; 0 keeps direct light and emission only
	Refraction bool // Build glass/diffuse material trees instead of metal/dielectric
}

// PathTracingIntegrator implements unidirectional path tracing with
// next-event estimation toward the point light
type PathTracingIntegrator struct {
	config Config
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(config Config) *PathTracingIntegrator {
	return &PathTracingIntegrator{config: config}
}

// Config returns the settings the integrator was built with
func (pt *PathTracingIntegrator) Config() Config {
	return pt.config
}

// RayColor returns the environment for rays that escape, otherwise the
// radiance leaving the first hit toward the ray origin
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, scene Scene, sampler core.Sampler) core.Vec3 {
	ray.Direction = ray.Direction.Normalize()

	hit, ok := scene.Intersect(ray)
	if !ok {
		return finiteOrBlack(scene.GetEnvironment().Lookup(ray.Direction))
	}
	return pt.Li(scene, hit, sampler)
}

// Li estimates the radiance leaving hit in the direction hit.Wo
func (pt *PathTracingIntegrator) Li(scene Scene, hit geometry.Intersection, sampler core.Sampler) core.Vec3 {
	var tree material.Tree
	radiance := core.Vec3{}
	throughput := core.NewVec3(1, 1, 1)

	for bounce := 0; ; bounce++ {
		mat := hit.Material
		if mat == nil {
			mat = fallbackMaterial
		}
		shadingNormal, geometryNormal := pt.orientNormals(hit)
		bsdf := tree.Build(mat, pt.config.Refraction)

		radiance = radiance.Add(throughput.MultiplyVec(pt.directLight(scene, hit, shadingNormal, bsdf)))
		radiance = radiance.Add(throughput.MultiplyVec(mat.Emission))

		if bounce >= pt.config.MaxBounces {
			break
		}

		sample := bsdf.SampleWi(hit.Wo, shadingNormal, sampler)
		if !sample.Valid() {
			break
		}

		cosine := math.Abs(sample.Wi.Dot(shadingNormal))
		throughput = throughput.MultiplyVec(sample.F).Multiply(cosine / sample.PDF)
		if throughput.IsZero() {
			break
		}

		// Step off the facet on the side the new direction leaves from
		offset := geometryNormal.Multiply(RayEpsilon)
		if sample.Wi.Dot(geometryNormal) < 0 {
			offset = offset.Negate()
		}
		next := core.NewRay(hit.Position.Add(offset), sample.Wi)

		nextHit, ok := scene.Intersect(next)
		if !ok {
			radiance = radiance.Add(throughput.MultiplyVec(scene.GetEnvironment().Lookup(next.Direction)))
			break
		}
		hit = nextHit
	}

	return finiteOrBlack(radiance)
}

// orientNormals returns the normals the material tree should see. Opaque
// surfaces are two-sided, so a back-face hit sees normals flipped toward wo.
// Refraction keeps outward normals so glass can tell entering from exiting.
func (pt *PathTracingIntegrator) orientNormals(hit geometry.Intersection) (shading, geometric core.Vec3) {
	shading, geometric = hit.ShadingNormal, hit.GeometryNormal
	if !pt.config.Refraction && geometric.Dot(hit.Wo) < 0 {
		shading, geometric = shading.Negate(), geometric.Negate()
	}
	return shading, geometric
}

// directLight returns f·Li·cosθ from the point light, or black when the
// light is missing or occluded
func (pt *PathTracingIntegrator) directLight(scene Scene, hit geometry.Intersection, n core.Vec3, bsdf material.BSDF) core.Vec3 {
	light := scene.GetPointLight()
	if light == nil {
		return core.Vec3{}
	}

	origin := hit.Position.Add(n.Multiply(RayEpsilon))
	wi, distance, incident := light.Incident(origin)
	if distance == 0 {
		return core.Vec3{}
	}

	cosine := wi.Dot(n)
	if cosine <= 0 {
		return core.Vec3{}
	}
	if scene.Occluded(core.NewRay(origin, wi), distance) {
		return core.Vec3{}
	}

	return bsdf.F(wi, hit.Wo, n).MultiplyVec(incident).Multiply(cosine)
}

// finiteOrBlack keeps NaN and Inf out of the image
func finiteOrBlack(v core.Vec3) core.Vec3 {
	if !v.IsFinite() {
		return core.Vec3{}
	}
	return v
}
