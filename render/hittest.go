package render

import (
	"math"

	"github.com/solarlune/resolv"

	"github.com/automoto/anmview/anm"
	"github.com/automoto/anmview/transform"
)

const tagShape = "shape"

// HitTester answers point queries against the shapes of one rendered frame.
// It is built from the measurer's per-shape boxes, so no rasterization
// happens. Coordinates are the same scaled space the measurer reports.
type HitTester struct {
	space *resolv.Space
	offX  float64
	offY  float64
}

// NewHitTester measures the sprite at the given frame and builds a resolv
// space from the transformed shape boxes.
func (r *Renderer) NewHitTester(sp *anm.Sprite, frame int) (*HitTester, error) {
	m, err := r.Measure(sp, frame, false)
	if err != nil {
		return nil, err
	}

	box := m.Box.Inflate(1, 1)
	if box.IsEmpty() {
		box = transform.BoxFromRect(0, 0, 2, 2)
	}

	w := int(math.Ceil(box.Width())) + 1
	h := int(math.Ceil(box.Height())) + 1
	space := resolv.NewSpace(w, h, 16, 16)

	for _, sb := range m.Shapes {
		if sb.Box.IsEmpty() {
			continue
		}
		obj := resolv.NewObject(
			sb.Box.MinX-box.MinX, sb.Box.MinY-box.MinY,
			sb.Box.Width(), sb.Box.Height(), tagShape)
		obj.SetShape(resolv.NewRectangle(0, 0, sb.Box.Width(), sb.Box.Height()))
		space.Add(obj)
	}

	return &HitTester{space: space, offX: box.MinX, offY: box.MinY}, nil
}

// Hit reports whether the point lands on any shape box of the frame.
func (h *HitTester) Hit(x, y float64) bool {
	probe := resolv.NewObject(x-h.offX, y-h.offY, 1, 1)
	h.space.Add(probe)
	defer h.space.Remove(probe)
	return probe.Check(0, 0, tagShape) != nil
}
