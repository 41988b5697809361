package render

import (
	"image"

	"github.com/automoto/anmview/anm"
	"github.com/automoto/anmview/transform"
)

// Texture is a loaded atlas image with its pixel dimensions.
type Texture struct {
	Image  image.Image
	Width  int
	Height int
}

// Sink receives the leaves of a sprite walk. The rasterizer blits the atlas
// sub-rect; the measurer accumulates a bounding box. tex is the atlas of
// the renderer owning the shape and may be nil for texture-less animations.
type Sink interface {
	DrawShape(shape *anm.Shape, tr transform.SpriteTransform, tex *Texture) error
}

// Walk renders one frame of sp into sink, recursing through sub-sprites
// with parent as the accumulated transform. The frame reader is shared
// across the children of a payload: every child consumes exactly one opcode
// from the stream, in order.
func (r *Renderer) Walk(sp *anm.Sprite, parent transform.SpriteTransform, frame int, sink Sink) error {
	reader := newFrameReader(sp.FrameData, r.transformTable())

	switch p := sp.Payload.(type) {
	case *anm.SinglePayload:
		return r.walkByID(p.SpriteID, parent, reader, frame, sink)

	case *anm.SingleNoActionPayload:
		return r.walkByID(p.SpriteID, parent, reader, frame, sink)

	case *anm.SingleFramePayload:
		for _, id := range p.SpriteIDs {
			if err := r.walkByID(id, parent, reader, frame, sink); err != nil {
				return err
			}
		}
		return nil

	case *anm.FramesPayload:
		frameCount := p.FrameCount()
		if frameCount == 0 {
			return nil
		}
		mult := p.Mult()
		index := (frame % frameCount) * mult
		if index+1 >= len(p.FramePos) {
			return nil
		}
		offset := int(p.FramePos[index])
		current := int(p.FramePos[index+1])
		if current < 0 || current >= len(p.SpriteInfo) {
			return nil
		}
		reader.seek(offset)
		count := int(p.SpriteInfo[current])
		for i := 0; i < count; i++ {
			slot := current + 1 + i
			if slot >= len(p.SpriteInfo) {
				break
			}
			if err := r.walkByID(p.SpriteInfo[slot], parent, reader, frame, sink); err != nil {
				return err
			}
		}
		return nil
	}

	return nil
}

// walkByID consumes one opcode, composes the child transform onto parent,
// and resolves id against own sprites, the parent animation's sprites,
// sub-reference sprites, and finally own shapes.
func (r *Renderer) walkByID(id int16, parent transform.SpriteTransform, reader *frameReader, frame int, sink Sink) error {
	child, err := reader.read()
	if err != nil {
		return err
	}
	final := child.Combine(parent)

	if sp := r.Anim.SpriteByID(id); sp != nil {
		return r.Walk(sp, final, frame, sink)
	}
	if r.parent != nil {
		if sp := r.parent.Anim.SpriteByID(id); sp != nil {
			return r.parent.Walk(sp, final, frame, sink)
		}
	}
	for _, c := range r.children {
		if sp := c.Anim.SpriteByID(id); sp != nil {
			return c.Walk(sp, final, frame, sink)
		}
	}
	if sh := r.Anim.ShapeByID(id); sh != nil {
		return sink.DrawShape(sh, final, r.texture)
	}

	return &UnresolvedIDError{ID: id}
}

func (r *Renderer) transformTable() *anm.TransformTable {
	return r.Anim.Transform
}
