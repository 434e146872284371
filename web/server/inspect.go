package server

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
	"github.com/df07/go-progressive-pathtracer/pkg/renderer"
	"github.com/df07/go-progressive-pathtracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType,omitempty"`
	GeometryType string                 `json:"geometryType,omitempty"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// InspectResult is the first surface seen through a pixel
type InspectResult struct {
	Hit          bool
	Intersection geometry.Intersection
	Shape        geometry.Shape // nil when no top-level shape reproduces the hit
}

// inspectPixel casts the unjittered primary ray through the center of pixel
// (pixelX, pixelY), counted from the top-left corner as in the image
func inspectPixel(sceneObj *scene.Scene, width, height, pixelX, pixelY int) (InspectResult, error) {
	view, proj := sceneObj.Camera.Matrices(width, height)
	// Rays are generated bottom-up while image rows run top-down
	ray, err := renderer.PixelRay(view, proj, width, height,
		float64(pixelX)+0.5, float64(height-1-pixelY)+0.5)
	if err != nil {
		return InspectResult{}, err
	}

	hit, ok := sceneObj.Intersect(ray)
	if !ok {
		return InspectResult{}, nil
	}

	// The BVH only returns the intersection, so find the shape that produced it
	for _, shape := range sceneObj.Shapes {
		if shapeHit, ok := shape.Hit(ray, 0, hit.T+1e-9); ok && shapeHit.T == hit.T {
			return InspectResult{Hit: true, Intersection: hit, Shape: shape}, nil
		}
	}
	return InspectResult{Hit: true, Intersection: hit}, nil
}

// extractMaterialInfo classifies a material by its dominant parameters
func (s *Server) extractMaterialInfo(mat *material.Material) (string, map[string]interface{}) {
	properties := map[string]interface{}{}
	if mat == nil {
		return "unknown", properties
	}

	properties["color"] = hexColor(mat.Color)
	properties["albedo"] = toArray(mat.Color)
	properties["shininess"] = mat.Shininess
	properties["fresnel"] = mat.Fresnel
	properties["metalness"] = mat.Metalness
	properties["ior"] = mat.IOR
	properties["transparency"] = mat.Transparency
	properties["emission"] = toArray(mat.Emission)

	switch {
	case !mat.Emission.IsZero():
		return "emissive", properties
	case mat.Transparency > 0:
		return "glass", properties
	case mat.Metalness >= 0.5:
		return "metal", properties
	case mat.Shininess > 0:
		return "plastic", properties
	default:
		return "diffuse", properties
	}
}

// extractGeometryInfo extracts detailed geometry information
func (s *Server) extractGeometryInfo(shape geometry.Shape) (string, map[string]interface{}) {
	properties := map[string]interface{}{}

	switch geom := shape.(type) {
	case *geometry.Sphere:
		properties["center"] = toArray(geom.Center)
		properties["radius"] = geom.Radius
		return "sphere", properties

	case *geometry.Quad:
		properties["corner"] = toArray(geom.Corner)
		properties["u"] = toArray(geom.U)
		properties["v"] = toArray(geom.V)
		properties["normal"] = toArray(geom.Normal)
		return "quad", properties

	case *geometry.Box:
		properties["center"] = toArray(geom.Center)
		properties["halfSize"] = toArray(geom.Size)
		properties["rotation"] = toArray(geom.Rotation)
		return "box", properties

	case *geometry.Triangle:
		properties["vertices"] = [3][3]float64{toArray(geom.V0), toArray(geom.V1), toArray(geom.V2)}
		return "triangle", properties

	case *geometry.Disc:
		properties["center"] = toArray(geom.Center)
		properties["normal"] = toArray(geom.Normal)
		properties["radius"] = geom.Radius
		return "disc", properties

	case *geometry.Plane:
		properties["point"] = toArray(geom.Point)
		properties["normal"] = toArray(geom.Normal)
		return "plane", properties

	case *geometry.Cylinder:
		properties["baseCenter"] = toArray(geom.BaseCenter)
		properties["topCenter"] = toArray(geom.TopCenter)
		properties["radius"] = geom.Radius
		properties["capped"] = geom.Capped
		return "cylinder", properties

	case *geometry.Cone:
		properties["baseCenter"] = toArray(geom.BaseCenter)
		properties["baseRadius"] = geom.BaseRadius
		properties["topCenter"] = toArray(geom.TopCenter)
		properties["topRadius"] = geom.TopRadius
		properties["capped"] = geom.Capped
		return "cone", properties

	case *geometry.TriangleMesh:
		properties["triangleCount"] = geom.TriangleCount()
		bbox := geom.BoundingBox()
		properties["boundingBox"] = map[string]interface{}{
			"min": toArray(bbox.Min),
			"max": toArray(bbox.Max),
		}
		return "triangle_mesh", properties

	default:
		return "unknown", properties
	}
}

// handleInspect reports the surface under a pixel of a scene rendered at
// width x height
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	sceneName := query.Get("scene")
	if sceneName == "" {
		sceneName = "default"
	}
	width, err := parseIntParam(query, "width", defaultWidth, minDimension, maxDimension)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	height, err := parseIntParam(query, "height", defaultHeight, minDimension, maxDimension)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	yaw, pitch, err := parseOrbit(query)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	pixelX, err := strconv.Atoi(query.Get("x"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid x coordinate"})
		return
	}
	pixelY, err := strconv.Atoi(query.Get("y"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid y coordinate"})
		return
	}
	if pixelX < 0 || pixelX >= width || pixelY < 0 || pixelY >= height {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Pixel coordinates out of bounds"})
		return
	}

	sceneObj, err := s.loadScene(sceneName)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	sceneObj.Camera = orbitCamera(sceneObj.Camera, yaw, pitch)

	result, err := inspectPixel(sceneObj, width, height, pixelX, pixelY)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if !result.Hit {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false})
		return
	}

	hit := result.Intersection
	materialType, materialProps := s.extractMaterialInfo(hit.Material)
	geometryType, geometryProps := s.extractGeometryInfo(result.Shape)

	writeJSON(w, http.StatusOK, InspectResponse{
		Hit:          true,
		MaterialType: materialType,
		GeometryType: geometryType,
		Point:        toArray(hit.Position),
		Normal:       toArray(hit.ShadingNormal),
		Distance:     hit.T,
		FrontFace:    hit.FrontFace,
		Properties: map[string]interface{}{
			"material": materialProps,
			"geometry": geometryProps,
		},
	})
}

func toArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// hexColor formats a linear color clamped to [0, 1] as #rrggbb
func hexColor(c core.Vec3) string {
	channel := func(v float64) int {
		return int(math.Round(math.Max(0, math.Min(1, v)) * 255))
	}
	return fmt.Sprintf("#%02x%02x%02x", channel(c.X), channel(c.Y), channel(c.Z))
}
