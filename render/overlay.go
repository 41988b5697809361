package render

import (
	"image"
	"image/color"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/automoto/anmview/config"
	"github.com/automoto/anmview/fonts"
)

var overlayFontsOnce sync.Once

// DrawOverlay stamps the debug banner onto a rendered canvas: a text label
// in the bottom-left corner and a one-pixel border marking the frame box.
func DrawOverlay(canvas *image.RGBA, label string) {
	overlayFontsOnce.Do(fonts.LoadDefaults)

	tc := config.Overlay.TextColor
	d := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.RGBA{R: tc[0], G: tc[1], B: tc[2], A: tc[3]}),
		Face: fonts.Overlay.Get(),
		Dot:  fixed.P(4, canvas.Bounds().Dy()-4),
	}
	d.DrawString(label)

	bc := config.Overlay.BoxColor
	border := color.RGBA{R: bc[0], G: bc[1], B: bc[2], A: bc[3]}
	b := canvas.Bounds()
	for x := b.Min.X; x < b.Max.X; x++ {
		canvas.SetRGBA(x, b.Min.Y, border)
		canvas.SetRGBA(x, b.Max.Y-1, border)
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		canvas.SetRGBA(b.Min.X, y, border)
		canvas.SetRGBA(b.Max.X-1, y, border)
	}
}
