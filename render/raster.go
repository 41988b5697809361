package render

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/automoto/anmview/anm"
	"github.com/automoto/anmview/transform"
)

// Raster is the sink that blits atlas sub-rects onto an RGBA canvas. The
// canvas is exclusively owned by one render pass.
type Raster struct {
	Canvas *image.RGBA
}

func NewRaster(w, h int) *Raster {
	return &Raster{Canvas: image.NewRGBA(image.Rect(0, 0, w, h))}
}

func (r *Raster) DrawShape(sh *anm.Shape, tr transform.SpriteTransform, tex *Texture) error {
	if tex == nil || tex.Image == nil {
		return ErrMissingTexture
	}

	texW := float64(tex.Width)
	texH := float64(tex.Height)
	srcRect := image.Rect(
		int(math.Round(sh.Left*texW)),
		int(math.Round(sh.Top*texH)),
		int(math.Round(sh.Right*texW)),
		int(math.Round(sh.Bottom*texH)),
	)
	if srcRect.Dx() <= 0 || srcRect.Dy() <= 0 {
		return nil
	}

	col := transform.IntoColor(tr.Color)
	alpha := clamp01(col[3])
	if alpha == 0 {
		return nil
	}

	// Destination rect in context space. The y component flips the
	// file's y-up offsets into the y-down canvas; the context transform
	// itself is post-scaled by (1, -1) for the same reason.
	dx := sh.OffsetX
	dy := -(sh.OffsetY + float64(sh.Height))
	dw := float64(sh.Width)
	dh := float64(sh.Height)

	ctm := transform.Scale(1, -1).Mult(tr.Position)
	m := transform.Translate(-float64(srcRect.Min.X), -float64(srcRect.Min.Y)).
		Mult(transform.Scale(dw/float64(srcRect.Dx()), dh/float64(srcRect.Dy()))).
		Mult(transform.Translate(dx, dy)).
		Mult(ctm)

	aff := f64.Aff3{m.M11, m.M21, m.M31, m.M12, m.M22, m.M32}
	var opts *draw.Options
	if alpha < 1 {
		opts = &draw.Options{
			SrcMask: image.NewUniform(color.Alpha16{A: uint16(alpha * 0xffff)}),
		}
	}
	draw.ApproxBiLinear.Transform(r.Canvas, aff, tex.Image, srcRect, draw.Over, opts)

	// A tint that is not pure grayscale gets a secondary multiply fill
	// over the blitted region.
	if !col.IsGrayscale() && col[3] != 0 {
		r.tint(m, srcRect, col)
	}
	return nil
}

// tint multiplies the RGB channels of every canvas pixel inside the
// transformed destination rect by the fold color. Alpha is untouched; fully
// transparent pixels are skipped.
func (r *Raster) tint(m transform.Affine, srcRect image.Rectangle, col transform.Color) {
	inv, ok := m.Invert()
	if !ok {
		return
	}

	quad := m.OuterBox(transform.BoxFromRect(
		float64(srcRect.Min.X), float64(srcRect.Min.Y),
		float64(srcRect.Dx()), float64(srcRect.Dy())))

	b := r.Canvas.Bounds()
	x0 := max(b.Min.X, int(math.Floor(quad.MinX)))
	y0 := max(b.Min.Y, int(math.Floor(quad.MinY)))
	x1 := min(b.Max.X, int(math.Ceil(quad.MaxX)))
	y1 := min(b.Max.Y, int(math.Ceil(quad.MaxY)))

	cr := clamp01(col[0])
	cg := clamp01(col[1])
	cb := clamp01(col[2])

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			u, v := inv.Apply(float64(x)+0.5, float64(y)+0.5)
			if u < float64(srcRect.Min.X) || u >= float64(srcRect.Max.X) ||
				v < float64(srcRect.Min.Y) || v >= float64(srcRect.Max.Y) {
				continue
			}
			px := r.Canvas.RGBAAt(x, y)
			if px.A == 0 {
				continue
			}
			px.R = uint8(float64(px.R) * cr)
			px.G = uint8(float64(px.G) * cg)
			px.B = uint8(float64(px.B) * cb)
			r.Canvas.SetRGBA(x, y, px)
		}
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
