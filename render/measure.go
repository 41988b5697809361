package render

import (
	"github.com/automoto/anmview/anm"
	"github.com/automoto/anmview/transform"
)

// ShapeBox is one shape's transformed bounding box, kept for hit testing.
type ShapeBox struct {
	ShapeID int16
	Box     transform.Box
}

// Measurer is the sink that accumulates the axis-aligned bounding box of
// everything the rasterizer would draw, without touching a canvas.
type Measurer struct {
	Box    transform.Box
	Shapes []ShapeBox
}

func (m *Measurer) DrawShape(sh *anm.Shape, tr transform.SpriteTransform, _ *Texture) error {
	b := tr.Position.OuterBox(transform.BoxFromRect(
		sh.OffsetX, sh.OffsetY, float64(sh.Width), float64(sh.Height)))
	m.Box = m.Box.Union(b)
	m.Shapes = append(m.Shapes, ShapeBox{ShapeID: sh.ID, Box: b})
	return nil
}
