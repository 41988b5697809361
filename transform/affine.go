package transform

// Affine is a 2D affine matrix stored row-major as
//
//	| M11 M12 |
//	| M21 M22 |
//	| M31 M32 |
//
// Points are row vectors: p' = p * M.
type Affine struct {
	M11, M12 float64
	M21, M22 float64
	M31, M32 float64
}

func Identity() Affine {
	return Affine{M11: 1, M22: 1}
}

func Translate(x, y float64) Affine {
	return Affine{M11: 1, M22: 1, M31: x, M32: y}
}

func Scale(x, y float64) Affine {
	return Affine{M11: x, M22: y}
}

// Rotate builds a matrix from the four rotation floats of the transform
// table. They are the matrix cells themselves, not an angle.
func Rotate(x0, y0, x1, y1 float64) Affine {
	return Affine{M11: x0, M12: y0, M21: x1, M22: y1}
}

// Mult composes a with b so that applying the result is equivalent to
// applying a first, then b.
func (a Affine) Mult(b Affine) Affine {
	return Affine{
		M11: a.M11*b.M11 + a.M12*b.M21,
		M12: a.M11*b.M12 + a.M12*b.M22,
		M21: a.M21*b.M11 + a.M22*b.M21,
		M22: a.M21*b.M12 + a.M22*b.M22,
		M31: a.M31*b.M11 + a.M32*b.M21 + b.M31,
		M32: a.M31*b.M12 + a.M32*b.M22 + b.M32,
	}
}

// Apply maps the point (x, y) through the matrix.
func (a Affine) Apply(x, y float64) (float64, float64) {
	return x*a.M11 + y*a.M21 + a.M31, x*a.M12 + y*a.M22 + a.M32
}

// Invert returns the inverse matrix. ok is false when the matrix is
// singular.
func (a Affine) Invert() (Affine, bool) {
	det := a.M11*a.M22 - a.M12*a.M21
	if det == 0 {
		return Affine{}, false
	}
	inv := Affine{
		M11: a.M22 / det,
		M12: -a.M12 / det,
		M21: -a.M21 / det,
		M22: a.M11 / det,
	}
	inv.M31 = -(a.M31*inv.M11 + a.M32*inv.M21)
	inv.M32 = -(a.M31*inv.M12 + a.M32*inv.M22)
	return inv, true
}

// OuterBox maps all four corners of b and returns their axis-aligned
// bounding box.
func (a Affine) OuterBox(b Box) Box {
	x0, y0 := a.Apply(b.MinX, b.MinY)
	x1, y1 := a.Apply(b.MaxX, b.MinY)
	x2, y2 := a.Apply(b.MinX, b.MaxY)
	x3, y3 := a.Apply(b.MaxX, b.MaxY)
	return Box{
		MinX: min4(x0, x1, x2, x3),
		MinY: min4(y0, y1, y2, y3),
		MaxX: max4(x0, x1, x2, x3),
		MaxY: max4(y0, y1, y2, y3),
	}
}

func min4(a, b, c, d float64) float64 {
	return min(min(a, b), min(c, d))
}

func max4(a, b, c, d float64) float64 {
	return max(max(a, b), max(c, d))
}
