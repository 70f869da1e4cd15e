package scene

import (
	"fmt"
	"sort"
)

// SceneInfo describes a built-in scene
type SceneInfo struct {
	ID          string // Name used on the command line
	DisplayName string // Human readable name
	Description string
}

type builtinScene struct {
	info    SceneInfo
	factory func() *Scene
}

var builtinScenes = map[string]builtinScene{
	"default": {
		info: SceneInfo{
			ID:          "default",
			DisplayName: "Default",
			Description: "Diffuse, glass bubble and gold spheres on a yellow ground",
		},
		factory: NewDefaultScene,
	},
	"simple": {
		info: SceneInfo{
			ID:          "simple",
			DisplayName: "Simple",
			Description: "One diffuse sphere on the ground",
		},
		factory: NewSimpleScene,
	},
	"materials": {
		info: SceneInfo{
			ID:          "materials",
			DisplayName: "Materials",
			Description: "Fuzzy metal, diffuse and hollow glass spheres",
		},
		factory: NewMaterialsScene,
	},
}

// ListBuiltinScenes returns every built-in scene sorted by ID
func ListBuiltinScenes() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(builtinScenes))
	for _, s := range builtinScenes {
		scenes = append(scenes, s.info)
	}
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].ID < scenes[j].ID
	})
	return scenes
}

// NewSceneByName builds the built-in scene with the given ID
func NewSceneByName(name string) (*Scene, error) {
	s, ok := builtinScenes[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q", name)
	}
	return s.factory(), nil
}
