package transform

// Box is an axis-aligned box. The zero value is empty.
type Box struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// BoxFromRect builds a box from an origin and a size.
func BoxFromRect(x, y, w, h float64) Box {
	return Box{MinX: x, MinY: y, MaxX: x + w, MaxY: y + h}
}

func (b Box) IsEmpty() bool {
	return !(b.MaxX > b.MinX && b.MaxY > b.MinY)
}

// Union returns the smallest box containing both operands. Union with an
// empty box returns the other operand.
func (b Box) Union(o Box) Box {
	if b.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return b
	}
	return Box{
		MinX: min(b.MinX, o.MinX),
		MinY: min(b.MinY, o.MinY),
		MaxX: max(b.MaxX, o.MaxX),
		MaxY: max(b.MaxY, o.MaxY),
	}
}

// Inflate expands the box by w on x and h on y, on both sides.
func (b Box) Inflate(w, h float64) Box {
	return Box{MinX: b.MinX - w, MinY: b.MinY - h, MaxX: b.MaxX + w, MaxY: b.MaxY + h}
}

func (b Box) Width() float64   { return b.MaxX - b.MinX }
func (b Box) Height() float64  { return b.MaxY - b.MinY }
func (b Box) CenterX() float64 { return (b.MinX + b.MaxX) / 2 }
func (b Box) CenterY() float64 { return (b.MinY + b.MaxY) / 2 }

// Contains reports whether the point lies inside the box.
func (b Box) Contains(x, y float64) bool {
	return x >= b.MinX && x < b.MaxX && y >= b.MinY && y < b.MaxY
}
