package scene

import (
	"fmt"
	"io"
	"math"
	"path/filepath"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/lights"
	"github.com/df07/go-progressive-pathtracer/pkg/loaders"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
	"github.com/df07/go-progressive-pathtracer/pkg/renderer"
)

// maxShininess stands in for a perfectly smooth PBRT surface
const maxShininess = 10000

// NewPBRTScene loads a PBRT v4 scene file. Relative file paths inside it are
// resolved against the scene file's directory.
func NewPBRTScene(path string) (*Scene, error) {
	parsed, err := loaders.LoadPBRT(path)
	if err != nil {
		return nil, err
	}

	s, err := convertPBRT(parsed, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.Name = sceneIDFromPath(path)
	return s, nil
}

// ParsePBRTScene builds a scene from PBRT text, resolving relative paths
// against baseDir
func ParsePBRTScene(r io.Reader, baseDir string) (*Scene, error) {
	parsed, err := loaders.ParsePBRT(r)
	if err != nil {
		return nil, err
	}
	return convertPBRT(parsed, baseDir)
}

func convertPBRT(parsed *loaders.PBRTScene, baseDir string) (*Scene, error) {
	camera, err := convertPBRTCamera(parsed)
	if err != nil {
		return nil, fmt.Errorf("camera: %w", err)
	}
	s := &Scene{Camera: camera}

	materials := make([]*material.Material, len(parsed.Materials))
	for i := range parsed.Materials {
		stmt := &parsed.Materials[i]
		mat, err := convertPBRTMaterial(stmt)
		if err != nil {
			return nil, fmt.Errorf("line %d: material %q: %w", stmt.Line, stmt.Subtype, err)
		}
		materials[i] = mat
	}
	defaultMaterial := material.NewDiffuseMaterial(core.NewVec3(0.5, 0.5, 0.5))

	for _, inst := range parsed.Shapes {
		mat := defaultMaterial
		if inst.Material >= 0 {
			mat = materials[inst.Material]
		}
		if inst.AreaLight != nil {
			emissive, err := withAreaLight(mat, inst.AreaLight)
			if err != nil {
				return nil, fmt.Errorf("line %d: area light: %w", inst.AreaLight.Line, err)
			}
			mat = emissive
		}

		shapes, err := convertPBRTShape(inst, mat, baseDir)
		if err != nil {
			return nil, fmt.Errorf("line %d: shape %q: %w", inst.Statement.Line, inst.Statement.Subtype, err)
		}
		s.Shapes = append(s.Shapes, shapes...)
	}

	for _, inst := range parsed.Lights {
		if err := convertPBRTLight(s, inst, baseDir); err != nil {
			return nil, fmt.Errorf("line %d: light %q: %w", inst.Statement.Line, inst.Statement.Subtype, err)
		}
	}

	if len(s.Shapes) == 0 {
		return nil, fmt.Errorf("scene has no shapes")
	}
	return s, nil
}

// convertPBRTCamera places the camera from LookAt. PBRT's default camera sits
// at the origin looking down +Z. The fov parameter spans the shorter image
// axis, which is the vertical one for landscape images.
func convertPBRTCamera(parsed *loaders.PBRTScene) (renderer.Camera, error) {
	eye := core.NewVec3(0, 0, 0)
	target := core.NewVec3(0, 0, 1)
	up := core.NewVec3(0, 1, 0)
	if parsed.LookAt != nil {
		eye, target, up = parsed.LookAt.Eye, parsed.LookAt.Target, parsed.LookAt.Up
	}
	if eye.Equals(target) {
		return renderer.Camera{}, fmt.Errorf("LookAt eye and target coincide")
	}

	fov := 90.0
	if parsed.Camera != nil {
		if parsed.Camera.Subtype != "perspective" {
			return renderer.Camera{}, fmt.Errorf("unsupported camera %q", parsed.Camera.Subtype)
		}
		if value, ok := parsed.Camera.GetFloatParam("fov"); ok {
			fov = value
		}
	}
	if fov <= 0 || fov >= 180 {
		return renderer.Camera{}, fmt.Errorf("fov must be in (0, 180), got %g", fov)
	}

	return renderer.NewCamera(eye, target, up, fov), nil
}

func convertPBRTMaterial(stmt *loaders.PBRTStatement) (*material.Material, error) {
	switch stmt.Subtype {
	case "diffuse":
		return material.NewDiffuseMaterial(vec3Param(stmt, "reflectance", core.NewVec3(0.5, 0.5, 0.5))), nil

	case "coateddiffuse":
		return material.NewPlasticMaterial(
			vec3Param(stmt, "reflectance", core.NewVec3(0.5, 0.5, 0.5)),
			pbrtShininess(stmt),
			0.04,
		), nil

	case "conductor":
		// Named spectra such as "metal-Cu-eta" carry no RGB, so they fall back
		// to a neutral metal
		color := vec3Param(stmt, "eta", core.NewVec3(0.9, 0.9, 0.9))
		color = vec3Param(stmt, "reflectance", color)
		return material.NewMetalMaterial(color, pbrtShininess(stmt), 0.9), nil

	case "dielectric", "thindielectric":
		eta, ok := stmt.GetFloatParam("eta")
		if !ok {
			eta = 1.5
		}
		if eta <= 0 {
			return nil, fmt.Errorf("eta must be positive, got %g", eta)
		}
		return material.NewGlassMaterial(eta), nil
	}

	return nil, fmt.Errorf("unsupported material type")
}

// pbrtShininess converts microfacet roughness to a Blinn-Phong exponent
// through the Beckmann width alpha, shininess = 2/alpha² - 2. Roughness is
// remapped to alpha = sqrt(roughness) unless remaproughness is false.
func pbrtShininess(stmt *loaders.PBRTStatement) float64 {
	roughness, ok := stmt.GetFloatParam("roughness")
	if !ok {
		u, uok := stmt.GetFloatParam("uroughness")
		v, vok := stmt.GetFloatParam("vroughness")
		switch {
		case uok && vok:
			roughness = 0.5 * (u + v)
		case uok:
			roughness = u
		case vok:
			roughness = v
		}
	}

	alpha := roughness
	if stmt.GetStringParam("remaproughness") != "false" {
		alpha = math.Sqrt(math.Max(0, roughness))
	}
	if alpha < 1e-3 {
		return maxShininess
	}
	return math.Min(maxShininess, math.Max(1, 2/(alpha*alpha)-2))
}

// withAreaLight returns a copy of mat that also emits the light's radiance
func withAreaLight(mat *material.Material, light *loaders.PBRTStatement) (*material.Material, error) {
	if light.Subtype != "diffuse" {
		return nil, fmt.Errorf("unsupported area light %q", light.Subtype)
	}
	radiance := vec3Param(light, "L", core.NewVec3(1, 1, 1))
	if scale, ok := light.GetFloatParam("scale"); ok {
		radiance = radiance.Multiply(scale)
	}

	emissive := *mat
	emissive.Emission = radiance
	return &emissive, nil
}

func convertPBRTShape(inst loaders.PBRTInstance, mat *material.Material, baseDir string) ([]geometry.Shape, error) {
	stmt := &inst.Statement
	offset := inst.Translation

	switch stmt.Subtype {
	case "sphere":
		radius, ok := stmt.GetFloatParam("radius")
		if !ok {
			radius = 1
		}
		if radius <= 0 {
			return nil, fmt.Errorf("radius must be positive, got %g", radius)
		}
		return []geometry.Shape{geometry.NewSphere(offset, radius, mat)}, nil

	case "disc":
		radius, ok := stmt.GetFloatParam("radius")
		if !ok {
			radius = 1
		}
		height, _ := stmt.GetFloatParam("height")
		center := offset.Add(core.NewVec3(0, 0, height))
		return []geometry.Shape{geometry.NewDisc(center, core.NewVec3(0, 0, 1), radius, mat)}, nil

	case "cylinder":
		radius, ok := stmt.GetFloatParam("radius")
		if !ok {
			radius = 1
		}
		zmin, ok := stmt.GetFloatParam("zmin")
		if !ok {
			zmin = -1
		}
		zmax, ok := stmt.GetFloatParam("zmax")
		if !ok {
			zmax = 1
		}
		if zmin == zmax {
			return nil, fmt.Errorf("zmin and zmax coincide")
		}
		base := offset.Add(core.NewVec3(0, 0, zmin))
		top := offset.Add(core.NewVec3(0, 0, zmax))
		return []geometry.Shape{geometry.NewCylinder(base, top, radius, false, mat)}, nil

	case "bilinearPatch":
		return convertBilinearPatches(stmt, offset, mat)

	case "trianglemesh":
		points, err := pointsParam(stmt, "P", offset)
		if err != nil {
			return nil, err
		}
		indices, err := indicesParam(stmt, len(points), 3)
		if err != nil {
			return nil, err
		}
		var options *geometry.TriangleMeshOptions
		if normals, err := pointsParam(stmt, "N", core.Vec3{}); err == nil && len(normals) == len(points) {
			options = &geometry.TriangleMeshOptions{Normals: normals}
		}
		mesh, err := geometry.NewTriangleMesh(points, indices, mat, options)
		if err != nil {
			return nil, err
		}
		return []geometry.Shape{mesh}, nil

	case "plymesh":
		filename := stmt.GetStringParam("filename")
		if filename == "" {
			return nil, fmt.Errorf("missing filename")
		}
		data, err := loaders.LoadPLY(resolvePath(baseDir, filename))
		if err != nil {
			return nil, err
		}
		vertices := make([]core.Vec3, len(data.Vertices))
		for i, v := range data.Vertices {
			vertices[i] = v.Add(offset)
		}
		mesh, err := geometry.NewTriangleMesh(vertices, data.Faces, mat, &geometry.TriangleMeshOptions{Normals: data.Normals})
		if err != nil {
			return nil, err
		}
		return []geometry.Shape{mesh}, nil
	}

	return nil, fmt.Errorf("unsupported shape type")
}

// convertBilinearPatches turns each patch (p00, p10, p01, p11) into a quad
// with edges p10 - p00 and p01 - p00. Only parallelogram patches are
// supported.
func convertBilinearPatches(stmt *loaders.PBRTStatement, offset core.Vec3, mat *material.Material) ([]geometry.Shape, error) {
	points, err := pointsParam(stmt, "P", offset)
	if err != nil {
		// Older files name the four corners individually
		points = make([]core.Vec3, 4)
		for i, name := range []string{"P00", "P10", "P01", "P11"} {
			p, ok := stmt.GetVec3Param(name)
			if !ok {
				return nil, fmt.Errorf("needs P or P00, P10, P01 and P11")
			}
			points[i] = p.Add(offset)
		}
	}
	indices, err := indicesParam(stmt, len(points), 4)
	if err != nil {
		return nil, err
	}

	shapes := make([]geometry.Shape, 0, len(indices)/4)
	for i := 0; i < len(indices); i += 4 {
		p00, p10, p01, p11 := points[indices[i]], points[indices[i+1]], points[indices[i+2]], points[indices[i+3]]
		u := p10.Subtract(p00)
		v := p01.Subtract(p00)
		if u.Cross(v).IsZero() {
			return nil, fmt.Errorf("patch %d is degenerate", i/4)
		}
		if p00.Add(u).Add(v).Subtract(p11).Length() > 1e-6*(u.Length()+v.Length()) {
			return nil, fmt.Errorf("patch %d is not a parallelogram", i/4)
		}
		shapes = append(shapes, geometry.NewQuad(p00, u, v, mat))
	}
	return shapes, nil
}

// pointsParam reads a flat list of xyz triples, offset by translation
func pointsParam(stmt *loaders.PBRTStatement, name string, translation core.Vec3) ([]core.Vec3, error) {
	values, ok := stmt.GetFloatsParam(name)
	if !ok {
		return nil, fmt.Errorf("missing or invalid %q", name)
	}
	if len(values) == 0 || len(values)%3 != 0 {
		return nil, fmt.Errorf("%q needs a multiple of 3 values, got %d", name, len(values))
	}

	points := make([]core.Vec3, len(values)/3)
	for i := range points {
		points[i] = core.NewVec3(values[3*i], values[3*i+1], values[3*i+2]).Add(translation)
	}
	return points, nil
}

// indicesParam reads "indices" in groups of size. Without indices the points
// themselves must form exactly one group.
func indicesParam(stmt *loaders.PBRTStatement, pointCount, size int) ([]int, error) {
	values, ok := stmt.GetFloatsParam("indices")
	if !ok {
		if pointCount != size {
			return nil, fmt.Errorf("missing indices for %d points", pointCount)
		}
		indices := make([]int, size)
		for i := range indices {
			indices[i] = i
		}
		return indices, nil
	}

	if len(values) == 0 || len(values)%size != 0 {
		return nil, fmt.Errorf("indices must be a multiple of %d, got %d", size, len(values))
	}
	indices := make([]int, len(values))
	for i, v := range values {
		index := int(v)
		if float64(index) != v || index < 0 || index >= pointCount {
			return nil, fmt.Errorf("index %g out of range [0, %d)", v, pointCount)
		}
		indices[i] = index
	}
	return indices, nil
}

func convertPBRTLight(s *Scene, inst loaders.PBRTInstance, baseDir string) error {
	stmt := &inst.Statement
	scale, ok := stmt.GetFloatParam("scale")
	if !ok {
		scale = 1
	}

	switch stmt.Subtype {
	case "point":
		if s.PointLight != nil {
			return fmt.Errorf("only one point light is supported")
		}
		position := vec3Param(stmt, "from", core.Vec3{}).Add(inst.Translation)
		s.PointLight = lights.NewPointLight(position, vec3Param(stmt, "I", core.NewVec3(1, 1, 1)), scale)
		return nil

	case "infinite", "infinite-gradient":
		if s.Environment != nil {
			return fmt.Errorf("only one infinite light is supported")
		}
		env, err := convertPBRTEnvironment(stmt, baseDir, scale)
		if err != nil {
			return err
		}
		s.Environment = env
		return nil
	}

	return fmt.Errorf("unsupported light type")
}

// convertPBRTEnvironment builds an infinite light from an image file, a
// constant L, or the topColor and bottomColor of a gradient sky
func convertPBRTEnvironment(stmt *loaders.PBRTStatement, baseDir string, scale float64) (*lights.Environment, error) {
	if stmt.Subtype == "infinite-gradient" {
		env := lights.NewGradientEnvironment(
			vec3Param(stmt, "topColor", core.NewVec3(0.5, 0.7, 1.0)),
			vec3Param(stmt, "bottomColor", core.NewVec3(1, 1, 1)),
		)
		env.Multiplier = scale
		return env, nil
	}

	if filename := stmt.GetStringParam("filename"); filename != "" {
		return loaders.LoadEnvironment(resolvePath(baseDir, filename), scale)
	}
	env := lights.NewUniformEnvironment(vec3Param(stmt, "L", core.NewVec3(1, 1, 1)))
	env.Multiplier = scale
	return env, nil
}

func vec3Param(stmt *loaders.PBRTStatement, name string, fallback core.Vec3) core.Vec3 {
	if v, ok := stmt.GetVec3Param(name); ok {
		return v
	}
	return fallback
}
