package scene

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/lights"
	"github.com/df07/go-progressive-pathtracer/pkg/loaders"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
	"github.com/df07/go-progressive-pathtracer/pkg/renderer"
	"gopkg.in/yaml.v2"
)

// vec3 is a YAML triple such as [0, 1, 0]
type vec3 [3]float64

func (v vec3) toCore() core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

// sceneFile is the YAML scene description
type sceneFile struct {
	Name        string                  `yaml:"name"`
	Description string                  `yaml:"description"`
	Group       string                  `yaml:"group"`
	Camera      cameraSpec              `yaml:"camera"`
	Light       *lightSpec              `yaml:"light"`
	Environment *environmentSpec        `yaml:"environment"`
	Materials   map[string]materialSpec `yaml:"materials"`
	Shapes      []shapeSpec             `yaml:"shapes"`
}

type cameraSpec struct {
	Position vec3    `yaml:"position"`
	Target   vec3    `yaml:"target"`
	Up       *vec3   `yaml:"up"`
	VFov     float64 `yaml:"vfov"`
	Near     float64 `yaml:"near"`
	Far      float64 `yaml:"far"`
}

type lightSpec struct {
	Position   vec3     `yaml:"position"`
	Color      *vec3    `yaml:"color"`
	Multiplier *float64 `yaml:"multiplier"`
}

// environmentSpec selects one of a uniform color, a vertical gradient or an
// image file relative to the scene file
type environmentSpec struct {
	Color      *vec3    `yaml:"color"`
	Top        *vec3    `yaml:"top"`
	Bottom     *vec3    `yaml:"bottom"`
	File       string   `yaml:"file"`
	Multiplier *float64 `yaml:"multiplier"`
}

// materialSpec leaves unset fields at the defaults of a diffuse material
type materialSpec struct {
	Color        *vec3    `yaml:"color"`
	Shininess    *float64 `yaml:"shininess"`
	Fresnel      *float64 `yaml:"fresnel"`
	Metalness    *float64 `yaml:"metalness"`
	IOR          *float64 `yaml:"ior"`
	Transparency *float64 `yaml:"transparency"`
	Emission     *vec3    `yaml:"emission"`
}

type shapeSpec struct {
	Type     string `yaml:"type"`
	Material string `yaml:"material"`

	// sphere; disc and plane add Normal
	Center vec3    `yaml:"center"`
	Radius float64 `yaml:"radius"`
	Normal *vec3   `yaml:"normal"`

	// cylinder (uses Radius) and cone
	BaseCenter vec3    `yaml:"base_center"`
	TopCenter  vec3    `yaml:"top_center"`
	BaseRadius float64 `yaml:"base_radius"`
	TopRadius  float64 `yaml:"top_radius"`
	Capped     bool    `yaml:"capped"`

	// quad
	Corner vec3 `yaml:"corner"`
	U      vec3 `yaml:"u"`
	V      vec3 `yaml:"v"`

	// box (uses Center)
	Size     vec3  `yaml:"size"`
	Rotation *vec3 `yaml:"rotation"`

	// triangle
	Vertices []vec3 `yaml:"vertices"`
	Normals  []vec3 `yaml:"normals"`

	// mesh (uses Rotation and Center as pivot)
	File   string `yaml:"file"`
	Smooth bool   `yaml:"smooth"`
}

// LoadYAMLScene reads a scene description. Relative file paths inside it are
// resolved against the scene file's directory.
func LoadYAMLScene(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene: %w", err)
	}

	s, err := ParseYAMLScene(data, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = sceneIDFromPath(path)
	}
	return s, nil
}

// ParseYAMLScene builds a scene from YAML, resolving relative paths against baseDir
func ParseYAMLScene(data []byte, baseDir string) (*Scene, error) {
	var file sceneFile
	if err := yaml.UnmarshalStrict(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse scene: %w", err)
	}

	up := core.NewVec3(0, 1, 0)
	if file.Camera.Up != nil {
		up = file.Camera.Up.toCore()
	}
	vfov := file.Camera.VFov
	if vfov <= 0 {
		vfov = 40
	}
	s := &Scene{
		Name:   file.Name,
		Camera: renderer.NewCamera(file.Camera.Position.toCore(), file.Camera.Target.toCore(), up, vfov),
	}
	if file.Camera.Near > 0 {
		s.Camera.Near = file.Camera.Near
	}
	if file.Camera.Far > 0 {
		s.Camera.Far = file.Camera.Far
	}
	if s.Camera.Position.Equals(s.Camera.Target) {
		return nil, fmt.Errorf("camera position and target coincide")
	}

	if file.Light != nil {
		color := core.NewVec3(1, 1, 1)
		if file.Light.Color != nil {
			color = file.Light.Color.toCore()
		}
		multiplier := 1.0
		if file.Light.Multiplier != nil {
			multiplier = *file.Light.Multiplier
		}
		s.PointLight = lights.NewPointLight(file.Light.Position.toCore(), color, multiplier)
	}

	if file.Environment != nil {
		env, err := file.Environment.build(baseDir)
		if err != nil {
			return nil, fmt.Errorf("environment: %w", err)
		}
		s.Environment = env
	}

	materials := make(map[string]*material.Material, len(file.Materials))
	for name, spec := range file.Materials {
		materials[name] = spec.build()
	}

	for i, spec := range file.Shapes {
		mat, ok := materials[spec.Material]
		if !ok {
			return nil, fmt.Errorf("shape %d (%s): unknown material %q", i, spec.Type, spec.Material)
		}
		shape, err := spec.build(mat, baseDir)
		if err != nil {
			return nil, fmt.Errorf("shape %d (%s): %w", i, spec.Type, err)
		}
		s.Shapes = append(s.Shapes, shape)
	}

	return s, nil
}

func (e *environmentSpec) build(baseDir string) (*lights.Environment, error) {
	multiplier := 1.0
	if e.Multiplier != nil {
		multiplier = *e.Multiplier
	}

	switch {
	case e.File != "":
		return loaders.LoadEnvironment(resolvePath(baseDir, e.File), multiplier)
	case e.Top != nil && e.Bottom != nil:
		env := lights.NewGradientEnvironment(e.Top.toCore(), e.Bottom.toCore())
		env.Multiplier = multiplier
		return env, nil
	case e.Color != nil:
		env := lights.NewUniformEnvironment(e.Color.toCore())
		env.Multiplier = multiplier
		return env, nil
	}
	return nil, fmt.Errorf("needs one of color, top and bottom, or file")
}

func (m materialSpec) build() *material.Material {
	mat := material.NewDiffuseMaterial(core.NewVec3(0.8, 0.8, 0.8))
	if m.Color != nil {
		mat.Color = m.Color.toCore()
	}
	if m.Shininess != nil {
		mat.Shininess = *m.Shininess
	}
	if m.Fresnel != nil {
		mat.Fresnel = *m.Fresnel
	}
	if m.Metalness != nil {
		mat.Metalness = *m.Metalness
	}
	if m.IOR != nil {
		mat.IOR = *m.IOR
	}
	if m.Transparency != nil {
		mat.Transparency = *m.Transparency
	}
	if m.Emission != nil {
		mat.Emission = m.Emission.toCore()
	}
	return mat
}

func (s shapeSpec) build(mat *material.Material, baseDir string) (geometry.Shape, error) {
	switch s.Type {
	case "sphere":
		if s.Radius <= 0 {
			return nil, fmt.Errorf("radius must be positive, got %g", s.Radius)
		}
		return geometry.NewSphere(s.Center.toCore(), s.Radius, mat), nil

	case "disc":
		if s.Radius <= 0 {
			return nil, fmt.Errorf("radius must be positive, got %g", s.Radius)
		}
		normal, err := s.normal()
		if err != nil {
			return nil, err
		}
		return geometry.NewDisc(s.Center.toCore(), normal, s.Radius, mat), nil

	case "plane":
		normal, err := s.normal()
		if err != nil {
			return nil, err
		}
		return geometry.NewPlane(s.Center.toCore(), normal, mat), nil

	case "cylinder":
		if s.Radius <= 0 {
			return nil, fmt.Errorf("radius must be positive, got %g", s.Radius)
		}
		if s.BaseCenter.toCore().Equals(s.TopCenter.toCore()) {
			return nil, fmt.Errorf("base_center and top_center coincide")
		}
		return geometry.NewCylinder(s.BaseCenter.toCore(), s.TopCenter.toCore(), s.Radius, s.Capped, mat), nil

	case "cone":
		cone, err := geometry.NewCone(s.BaseCenter.toCore(), s.BaseRadius, s.TopCenter.toCore(), s.TopRadius, s.Capped, mat)
		if err != nil {
			return nil, err
		}
		return cone, nil

	case "quad":
		if s.U.toCore().Cross(s.V.toCore()).IsZero() {
			return nil, fmt.Errorf("edges u and v are parallel")
		}
		return geometry.NewQuad(s.Corner.toCore(), s.U.toCore(), s.V.toCore(), mat), nil

	case "box":
		rotation := core.Vec3{}
		if s.Rotation != nil {
			rotation = s.Rotation.toCore()
		}
		return geometry.NewBox(s.Center.toCore(), s.Size.toCore(), rotation, mat), nil

	case "triangle":
		if len(s.Vertices) != 3 {
			return nil, fmt.Errorf("needs 3 vertices, got %d", len(s.Vertices))
		}
		v := [3]core.Vec3{s.Vertices[0].toCore(), s.Vertices[1].toCore(), s.Vertices[2].toCore()}
		switch len(s.Normals) {
		case 0:
			return geometry.NewTriangle(v[0], v[1], v[2], mat), nil
		case 3:
			return geometry.NewSmoothTriangle(v[0], v[1], v[2],
				s.Normals[0].toCore(), s.Normals[1].toCore(), s.Normals[2].toCore(), mat), nil
		}
		return nil, fmt.Errorf("needs 0 or 3 normals, got %d", len(s.Normals))

	case "mesh":
		if s.File == "" {
			return nil, fmt.Errorf("mesh needs a file")
		}
		data, err := loaders.LoadPLY(resolvePath(baseDir, s.File))
		if err != nil {
			return nil, err
		}
		options := &geometry.TriangleMeshOptions{Normals: data.Normals, Smooth: s.Smooth}
		if s.Rotation != nil {
			rotation := s.Rotation.toCore()
			center := s.Center.toCore()
			options.Rotation = &rotation
			options.Center = &center
		}
		return geometry.NewTriangleMesh(data.Vertices, data.Faces, mat, options)
	}

	return nil, fmt.Errorf("unknown shape type %q", s.Type)
}

// normal defaults to +Y
func (s shapeSpec) normal() (core.Vec3, error) {
	if s.Normal == nil {
		return core.NewVec3(0, 1, 0), nil
	}
	if s.Normal.toCore().IsZero() {
		return core.Vec3{}, fmt.Errorf("normal must be non-zero")
	}
	return s.Normal.toCore(), nil
}

func resolvePath(baseDir, path string) string {
	if filepath.IsAbs(path) || baseDir == "" {
		return path
	}
	return filepath.Join(baseDir, path)
}
