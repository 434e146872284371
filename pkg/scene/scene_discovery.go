package scene

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v2"
)

// builtinGroup is the group name of scenes compiled into the binary
const builtinGroup = "Built-in Scenes"

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Name accepted by Load
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin", "yaml" or "pbrt"
	FilePath    string `json:"filePath"`    // Path to the scene file (file types only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

type builtinScene struct {
	info  SceneInfo
	build func() (*Scene, error)
}

func infallible(build func() *Scene) func() (*Scene, error) {
	return func() (*Scene, error) { return build(), nil }
}

var builtinScenes = []builtinScene{
	{SceneInfo{ID: "default", DisplayName: "Default Scene", Description: "Metal, plastic and glass spheres under a sky gradient"}, infallible(NewDefaultScene)},
	{SceneInfo{ID: "cornell", DisplayName: "Cornell Box", Description: "Cornell box with an emissive panel and a point light"}, infallible(NewCornellScene)},
	{SceneInfo{ID: "glass", DisplayName: "Glass Spheres", Description: "Transparent spheres for refraction mode"}, infallible(NewGlassScene)},
	{SceneInfo{ID: "sphere-grid", DisplayName: "Sphere Grid", Description: "Metalness and shininess sweep"}, infallible(NewSphereGridScene)},
	{SceneInfo{ID: "triangle-mesh", DisplayName: "Triangle Meshes", Description: "Box, pyramid and smooth icosahedron"}, NewTriangleMeshScene},
	{SceneInfo{ID: "cylinder", DisplayName: "Cylinders", Description: "Capped and open cylinders under a disc lamp"}, infallible(NewCylinderScene)},
	{SceneInfo{ID: "cone", DisplayName: "Cones", Description: "Pointed cones and frustums on an infinite plane"}, NewConeScene},
	{SceneInfo{ID: "emissive-quad", DisplayName: "Emissive Quad", Description: "A unit emitter filling the view"}, infallible(NewEmissiveQuadScene)},
}

// BuiltinScenes lists the scenes compiled into the binary
func BuiltinScenes() []SceneInfo {
	scenes := make([]SceneInfo, len(builtinScenes))
	for i, b := range builtinScenes {
		scenes[i] = b.info
		scenes[i].Group = builtinGroup
		scenes[i].Type = "builtin"
	}
	return scenes
}

// Load returns a preprocessed scene by built-in ID or YAML or PBRT file path
func Load(name string) (*Scene, error) {
	var (
		s   *Scene
		err error
	)

	switch {
	case isYAMLPath(name):
		s, err = LoadYAMLScene(name)
	case isPBRTPath(name):
		s, err = NewPBRTScene(name)
	default:
		s, err = loadBuiltin(name)
	}
	if err != nil {
		return nil, err
	}

	if err := s.Preprocess(); err != nil {
		return nil, err
	}
	return s, nil
}

func loadBuiltin(id string) (*Scene, error) {
	for _, b := range builtinScenes {
		if b.info.ID == id {
			return b.build()
		}
	}

	ids := make([]string, len(builtinScenes))
	for i, b := range builtinScenes {
		ids[i] = b.info.ID
	}
	return nil, fmt.Errorf("unknown scene %q (available: %s, or a .yaml or .pbrt file)", id, strings.Join(ids, ", "))
}

func isYAMLPath(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

func isPBRTPath(name string) bool {
	return strings.ToLower(filepath.Ext(name)) == ".pbrt"
}

// ListFileScenes scans dir for YAML and PBRT scene files. A missing
// directory is not an error.
func ListFileScenes(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return []SceneInfo{}, nil
	}

	scenes := []SceneInfo{}
	for _, pattern := range []string{"*.yaml", "*.yml", "*.pbrt"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
		}
		for _, path := range matches {
			var info SceneInfo
			if isPBRTPath(path) {
				info, err = ParsePBRTMetadata(path)
			} else {
				info, err = ParseYAMLMetadata(path)
			}
			if err != nil {
				return nil, err
			}
			scenes = append(scenes, info)
		}
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})
	return scenes, nil
}

// ParseYAMLMetadata reads only the name, description and group of a scene file
func ParseYAMLMetadata(path string) (SceneInfo, error) {
	id := sceneIDFromPath(path)
	info := SceneInfo{
		ID:          path,
		DisplayName: titleCase(id),
		Group:       "YAML Scenes",
		Type:        "yaml",
		FilePath:    path,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return info, fmt.Errorf("failed to read scene metadata: %w", err)
	}

	var header struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		Group       string `yaml:"group"`
	}
	if err := yaml.Unmarshal(data, &header); err != nil {
		return info, fmt.Errorf("%s: failed to parse scene metadata: %w", path, err)
	}

	if header.Name != "" {
		info.DisplayName = header.Name
	}
	info.Description = header.Description
	if header.Group != "" {
		info.Group = header.Group
	}
	return info, nil
}

// ParsePBRTMetadata describes a PBRT file. PBRT has no metadata block, so
// the description is the text of the first comment line, if any.
func ParsePBRTMetadata(path string) (SceneInfo, error) {
	info := SceneInfo{
		ID:          path,
		DisplayName: titleCase(sceneIDFromPath(path)),
		Group:       "PBRT Scenes",
		Type:        "pbrt",
		FilePath:    path,
	}

	file, err := os.Open(path)
	if err != nil {
		return info, fmt.Errorf("failed to read scene metadata: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			info.Description = strings.TrimSpace(strings.TrimLeft(line, "#"))
		}
		break
	}
	if err := scanner.Err(); err != nil {
		return info, fmt.Errorf("%s: failed to read scene metadata: %w", path, err)
	}
	return info, nil
}

// ListAllScenes returns built-in scenes first, then scene files from dir
// grouped alphabetically
func ListAllScenes(dir string) (ScenesResponse, error) {
	var response ScenesResponse

	fileScenes, err := ListFileScenes(dir)
	if err != nil {
		return response, fmt.Errorf("failed to list scene files: %w", err)
	}

	response.Groups = append(response.Groups, SceneGroup{Name: builtinGroup, Scenes: BuiltinScenes()})

	groupMap := make(map[string][]SceneInfo)
	for _, s := range fileScenes {
		groupMap[s.Group] = append(groupMap[s.Group], s)
	}

	var groupNames []string
	for name := range groupMap {
		groupNames = append(groupNames, name)
	}
	sort.Strings(groupNames)

	for _, name := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{Name: name, Scenes: groupMap[name]})
	}
	return response, nil
}

func sceneIDFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// titleCase converts a filename-style string to title case
// e.g., "cornell-empty" -> "Cornell Empty"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
