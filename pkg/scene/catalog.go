package scene

import (
	"errors"
	"fmt"
	"strings"

	"github.com/df07/go-tile-raytracer/pkg/core"
)

// ErrUnknownScene is returned by NewScene for an unregistered id
var ErrUnknownScene = errors.New("unknown scene")

// SceneInfo describes a built-in scene
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
}

// Options tweak how a built-in scene is built
type Options struct {
	AspectRatio float64         // Width / height of the viewport
	Seed        int64           // Seed for randomized scenes
	Background  core.Background // Overrides the scene's own background when set
}

type builder func(opts Options) (*Scene, error)

var builtInScenes = []struct {
	id          string
	description string
	build       builder
}{
	{"random", "Ground, three large spheres and a seeded grid of small spheres", func(o Options) (*Scene, error) {
		return NewRandomScene(o.AspectRatio, o.Seed)
	}},
	{"three-spheres", "Lambertian, metal and glass spheres on a ground sphere", func(o Options) (*Scene, error) {
		return NewThreeSpheresScene(o.AspectRatio)
	}},
	{"single-sphere", "One grey lambertian sphere in front of a pinhole camera", func(o Options) (*Scene, error) {
		return NewSingleSphereScene(o.AspectRatio, o.Background)
	}},
	{"empty", "No geometry, only background", func(o Options) (*Scene, error) {
		return NewEmptyScene(o.AspectRatio, o.Background)
	}},
}

// ListScenes returns the built-in scenes in registration order
func ListScenes() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(builtInScenes))
	for _, entry := range builtInScenes {
		scenes = append(scenes, SceneInfo{
			ID:          entry.id,
			DisplayName: titleCase(entry.id),
			Description: entry.description,
		})
	}
	return scenes
}

// NewScene builds the built-in scene with the given id and runs Preprocess
func NewScene(id string, opts Options) (*Scene, error) {
	for _, entry := range builtInScenes {
		if entry.id != id {
			continue
		}
		s, err := entry.build(opts)
		if err != nil {
			return nil, fmt.Errorf("scene %q: %w", id, err)
		}
		if opts.Background != nil {
			s.Background = opts.Background
		}
		if err := s.Preprocess(); err != nil {
			return nil, fmt.Errorf("scene %q: %w", id, err)
		}
		return s, nil
	}
	return nil, fmt.Errorf("%q: %w", id, ErrUnknownScene)
}

// titleCase converts "three-spheres" into "Three Spheres"
func titleCase(s string) string {
	// Replace hyphens and underscores with spaces
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	// Title case each word
	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
