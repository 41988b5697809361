package assets

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
)

// Types is the closed set of animation categories under the game root.
var Types = []string{
	"npcs",
	"dynamics",
	"equipments",
	"gui",
	"interactives",
	"pets",
	"players",
	"resources",
}

// ValidType reports whether t is one of the known animation types.
func ValidType(t string) bool {
	for _, v := range Types {
		if v == t {
			return true
		}
	}
	return false
}

// Locator maps (type, id) pairs to animation and atlas paths under a game
// root configured once at startup.
type Locator struct {
	Root string
}

func NewLocator(root string) *Locator {
	return &Locator{Root: root}
}

// AnimationPath returns <root>/animations/<type>/<id>.anm. A trailing .anm
// on id is tolerated.
func (l *Locator) AnimationPath(typ, id string) string {
	id = strings.TrimSuffix(id, ".anm")
	return filepath.Join(l.Root, "animations", typ, id+".anm")
}

// AtlasPath returns <root>/animations/<type>/Atlas/<name>.png. A trailing
// .png on name is tolerated.
func (l *Locator) AtlasPath(typ, name string) string {
	name = strings.TrimSuffix(name, ".png")
	return filepath.Join(l.Root, "animations", typ, "Atlas", name+".png")
}

// ReadAnimation reads the raw bytes of an animation file.
func (l *Locator) ReadAnimation(typ, id string) ([]byte, error) {
	path := l.AnimationPath(typ, id)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read animation %s: %w", path, err)
	}
	return data, nil
}

// ImageLoader loads and caches atlas images keyed by path.
type ImageLoader struct {
	cache map[string]image.Image
}

func NewImageLoader() *ImageLoader {
	return &ImageLoader{cache: make(map[string]image.Image)}
}

// LoadImage decodes the PNG at path, caching the result.
func (il *ImageLoader) LoadImage(path string) (image.Image, error) {
	if img, ok := il.cache[path]; ok {
		return img, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open atlas %s: %w", path, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode atlas %s: %w", path, err)
	}

	il.cache[path] = img
	return img, nil
}

// MustLoadImage is LoadImage for callers that treat a missing atlas as a
// programming error.
func (il *ImageLoader) MustLoadImage(path string) image.Image {
	img, err := il.LoadImage(path)
	if err != nil {
		panic(fmt.Sprintf("Failed to load image %s: %v", path, err))
	}
	return img
}
