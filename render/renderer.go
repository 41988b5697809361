package render

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"math"
	"regexp"

	"github.com/disintegration/imaging"

	"github.com/automoto/anmview/anm"
	"github.com/automoto/anmview/assets"
	"github.com/automoto/anmview/config"
	"github.com/automoto/anmview/transform"
	"github.com/automoto/anmview/video"
)

// Renderer owns a decoded animation, its atlas texture, and a child
// renderer per sub-animation named in the local index. Children keep a
// non-owning back-reference to their parent for id lookup only; the tree
// has a single owning root.
type Renderer struct {
	Anim *anm.Animation
	Type string
	ID   string

	parent   *Renderer
	children []*Renderer
	texture  *Texture
}

// Load decodes animations/<type>/<id>.anm under the locator's root, loads
// every sub-animation named in the local index, and finally the atlas
// texture if the file declares one.
func Load(loc *assets.Locator, typ, id string) (*Renderer, error) {
	images := assets.NewImageLoader()
	seen := map[string]bool{}
	return load(loc, images, typ, id, nil, seen)
}

func load(loc *assets.Locator, images *assets.ImageLoader, typ, id string, parent *Renderer, seen map[string]bool) (*Renderer, error) {
	seen[id] = true

	data, err := loc.ReadAnimation(typ, id)
	if err != nil {
		return nil, err
	}
	anim, err := anm.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("load %s/%s: %w", typ, id, err)
	}

	r := &Renderer{Anim: anim, Type: typ, ID: id, parent: parent}

	if anim.Index != nil {
		for _, name := range anim.Index.FileNames {
			if seen[name] {
				continue
			}
			child, err := load(loc, images, typ, name, r, seen)
			if err != nil {
				return nil, fmt.Errorf("load %s/%s: sub-animation %s: %w", typ, id, name, err)
			}
			r.children = append(r.children, child)
		}
	}

	if anim.Texture != nil {
		img, err := images.LoadImage(loc.AtlasPath(typ, anim.Texture.Name))
		if err != nil {
			return nil, fmt.Errorf("load %s/%s: %w", typ, id, err)
		}
		b := img.Bounds()
		r.texture = &Texture{Image: img, Width: b.Dx(), Height: b.Dy()}
	}

	log.Printf("[render] loaded %s/%s: %d sprites, %d shapes, %d sub-animations",
		typ, id, len(anim.Sprites), len(anim.Shapes), len(r.children))
	return r, nil
}

// HasTexture reports whether an atlas image is loaded.
func (r *Renderer) HasTexture() bool {
	return r.texture != nil
}

// Children exposes the loaded sub-animation renderers.
func (r *Renderer) Children() []*Renderer {
	return r.children
}

// EffectiveScale is the animation's own index scale (default 1) times the
// configured display scale.
func (r *Renderer) EffectiveScale() float64 {
	s := 1.0
	if r.Anim.Index != nil && r.Anim.Index.HasScale && r.Anim.Index.Scale != 0 {
		s = r.Anim.Index.Scale
	}
	return s * config.Render.DefaultScale
}

// The static sprite is picked by the first of these patterns to match any
// sprite name, in this exact order.
var staticSpritePatterns = []*regexp.Regexp{
	regexp.MustCompile(`1_AnimStatique-Boucle$`),
	regexp.MustCompile(`1_AnimStatic-Boucle$`),
	regexp.MustCompile(`1_AnimStatique$`),
	regexp.MustCompile(`1_AnimStatic$`),
	regexp.MustCompile(`1_AnimStatique`),
	regexp.MustCompile(`1_AnimStatic`),
	regexp.MustCompile(`1_AnimMarche`),
}

// SpriteRef names a sprite together with the renderer that owns it.
// Reference is -1 for a local match, or the child index the match came
// from.
type SpriteRef struct {
	Renderer  *Renderer
	Sprite    *anm.Sprite
	Reference int
}

// FindStaticSprite returns the default sprite for single-image rendering.
// All patterns are tried locally before descending into sub-animations.
func (r *Renderer) FindStaticSprite() (*SpriteRef, error) {
	for _, pat := range staticSpritePatterns {
		for i := range r.Anim.Sprites {
			sp := &r.Anim.Sprites[i]
			if sp.HasName && pat.MatchString(sp.Name) {
				return &SpriteRef{Renderer: r, Sprite: sp, Reference: -1}, nil
			}
		}
	}
	for ci, c := range r.children {
		if ref, err := c.FindStaticSprite(); err == nil {
			ref.Reference = ci
			return ref, nil
		}
	}
	return nil, ErrNoStaticSprite
}

// SpriteByName finds a named sprite in this renderer only.
func (r *Renderer) SpriteByName(name string) *anm.Sprite {
	for i := range r.Anim.Sprites {
		if r.Anim.Sprites[i].HasName && r.Anim.Sprites[i].Name == name {
			return &r.Anim.Sprites[i]
		}
	}
	return nil
}

// SpriteInfo is one row of the sprite listing.
type SpriteInfo struct {
	ID     int16  `json:"id"`
	Name   string `json:"name,omitempty"`
	Frames int    `json:"frames"`
}

// ListSprites enumerates the animation's sprites with their frame counts.
func (r *Renderer) ListSprites() []SpriteInfo {
	out := make([]SpriteInfo, 0, len(r.Anim.Sprites))
	for i := range r.Anim.Sprites {
		sp := &r.Anim.Sprites[i]
		out = append(out, SpriteInfo{ID: sp.ID, Name: sp.Name, Frames: sp.FrameCount()})
	}
	return out
}

// Measure walks the sprite at the effective scale and returns the
// accumulated bounding box. With allFrames set, every frame of a Frames
// payload contributes.
func (r *Renderer) Measure(sp *anm.Sprite, frame int, allFrames bool) (*Measurer, error) {
	m := &Measurer{}
	base := transform.SpriteTransform{
		Position: transform.Scale(r.EffectiveScale(), r.EffectiveScale()),
		Color:    transform.IdentityColor(),
	}
	if allFrames {
		for f := 0; f < sp.FrameCount(); f++ {
			if err := r.Walk(sp, base, f, m); err != nil {
				return nil, err
			}
		}
	} else {
		if err := r.Walk(sp, base, frame, m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// FrameOptions selects what a still render covers.
type FrameOptions struct {
	// Frame is the frame to rasterize.
	Frame int
	// AllFramesBox measures the canvas across every frame so a sequence
	// of stills shares one geometry.
	AllFramesBox bool
}

// RenderFrame measures, allocates a canvas, centres the sprite, walks the
// frame through the raster sink, and encodes the canvas as PNG bytes.
func (r *Renderer) RenderFrame(sp *anm.Sprite, opt FrameOptions) ([]byte, error) {
	m, err := r.Measure(sp, opt.Frame, opt.AllFramesBox)
	if err != nil {
		return nil, err
	}
	box := m.Box.Inflate(config.Render.InflateMargin, config.Render.InflateMargin)
	return r.renderWithBox(sp, opt.Frame, box)
}

func (r *Renderer) renderWithBox(sp *anm.Sprite, frame int, box transform.Box) ([]byte, error) {
	w := canvasDim(box.Width())
	h := canvasDim(box.Height())

	scale := r.EffectiveScale()
	root := transform.Scale(scale, scale).
		Mult(transform.Translate(float64(w)/2-box.CenterX(), float64(h)/2-box.CenterY()))

	sink := NewRaster(w, h)
	err := r.Walk(sp, transform.SpriteTransform{Position: root, Color: transform.IdentityColor()}, frame, sink)
	if err != nil {
		return nil, err
	}

	if config.Debug.Overlay {
		label := fmt.Sprintf("%s/%s frame %d", r.Type, r.ID, frame)
		DrawOverlay(sink.Canvas, label)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, sink.Canvas, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func canvasDim(v float64) int {
	d := int(math.Ceil(v))
	if d < 1 {
		d = 1
	}
	if d > config.Render.MaxCanvasDim {
		d = config.Render.MaxCanvasDim
	}
	return d
}

// RenderVideo rasterizes every frame of the sprite against a box measured
// once across all frames, and hands the PNG sequence plus the animation's
// frame rate to the encoder. Cancellation is checked between frames.
func (r *Renderer) RenderVideo(ctx context.Context, sp *anm.Sprite, enc *video.Encoder) ([]byte, error) {
	m, err := r.Measure(sp, 0, true)
	if err != nil {
		return nil, err
	}
	box := m.Box.Inflate(config.Render.InflateMargin, config.Render.InflateMargin)

	frameCount := sp.FrameCount()
	frames := make([][]byte, 0, frameCount)
	for f := 0; f < frameCount; f++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		png, err := r.renderWithBox(sp, f, box)
		if err != nil {
			return nil, err
		}
		frames = append(frames, png)
	}

	return enc.Encode(ctx, frames, int(r.Anim.FrameRate))
}
