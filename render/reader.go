package render

import (
	"fmt"

	"github.com/automoto/anmview/anm"
	"github.com/automoto/anmview/transform"
)

var emptyTable = &anm.TransformTable{}

// frameReader interprets a sprite's packed frame stream against the owning
// animation's transform table. Its position advances across recursive walk
// calls; it is intentionally mutable and single-threaded.
type frameReader struct {
	stream anm.FrameStream
	pos    int
	table  *anm.TransformTable
}

func newFrameReader(stream anm.FrameStream, table *anm.TransformTable) *frameReader {
	if table == nil {
		table = emptyTable
	}
	return &frameReader{stream: stream, table: table}
}

func (r *frameReader) seek(pos int) {
	r.pos = pos
}

func (r *frameReader) next() (uint32, bool) {
	w, ok := r.stream.Word(r.pos)
	if ok {
		r.pos++
	}
	return w, ok
}

// Frame opcode component bits. The low four bits of an opcode select which
// combination of rotation, translation, color-multiply, and color-add to
// read next; components are read and combined in the order multiply, add,
// rotation, translation.
const (
	opRotation    = 0x1
	opTranslation = 0x2
	opColorMul    = 0x4
	opColorAdd    = 0x8
)

// read consumes one opcode and its component offsets and returns the
// composed transform.
func (r *frameReader) read() (transform.SpriteTransform, error) {
	st := transform.IdentitySprite()

	op, ok := r.next()
	if !ok {
		return st, fmt.Errorf("%w: frame stream exhausted at %d", ErrMissingTransform, r.pos)
	}
	if op > 15 {
		return st, fmt.Errorf("%w: opcode %d", ErrMissingTransform, op)
	}

	if op&opColorMul != 0 {
		c, err := r.colorComponent("color-multiply")
		if err != nil {
			return st, err
		}
		st = st.Combine(transform.SpriteTransform{
			Position: transform.Identity(),
			Color:    transform.Multiply(c),
		})
	}
	if op&opColorAdd != 0 {
		c, err := r.colorComponent("color-add")
		if err != nil {
			return st, err
		}
		st = st.Combine(transform.SpriteTransform{
			Position: transform.Identity(),
			Color:    transform.Add(c),
		})
	}
	if op&opRotation != 0 {
		a, err := r.rotationComponent()
		if err != nil {
			return st, err
		}
		st = st.Combine(transform.SpriteTransform{Position: a, Color: transform.IdentityColor()})
	}
	if op&opTranslation != 0 {
		a, err := r.translationComponent()
		if err != nil {
			return st, err
		}
		st = st.Combine(transform.SpriteTransform{Position: a, Color: transform.IdentityColor()})
	}

	return st, nil
}

func (r *frameReader) offset(what string, width, tableLen int) (int, error) {
	w, ok := r.next()
	if !ok {
		return 0, fmt.Errorf("%w: frame stream exhausted reading %s offset", ErrMissingTransform, what)
	}
	o := int(w)
	if o < 0 || o+width > tableLen {
		return 0, fmt.Errorf("render: %s offset %d out of range (table size %d)", what, o, tableLen)
	}
	return o, nil
}

func (r *frameReader) colorComponent(what string) (transform.Color, error) {
	o, err := r.offset(what, 4, len(r.table.Colors))
	if err != nil {
		return transform.Color{}, err
	}
	c := r.table.Colors
	return transform.Color{
		float64(c[o]), float64(c[o+1]), float64(c[o+2]), float64(c[o+3]),
	}, nil
}

func (r *frameReader) rotationComponent() (transform.Affine, error) {
	o, err := r.offset("rotation", 4, len(r.table.Rotations))
	if err != nil {
		return transform.Affine{}, err
	}
	t := r.table.Rotations
	return transform.Rotate(
		float64(t[o]), float64(t[o+1]), float64(t[o+2]), float64(t[o+3]),
	), nil
}

func (r *frameReader) translationComponent() (transform.Affine, error) {
	o, err := r.offset("translation", 2, len(r.table.Translations))
	if err != nil {
		return transform.Affine{}, err
	}
	t := r.table.Translations
	return transform.Translate(float64(t[o]), float64(t[o+1])), nil
}
