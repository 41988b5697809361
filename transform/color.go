package transform

// Color is an RGBA quadruple with channels in [0, 1] for untinted content.
type Color [4]float64

// IsGrayscale reports whether all four channels are equal.
func (c Color) IsGrayscale() bool {
	return c[0] == c[1] && c[1] == c[2] && c[2] == c[3]
}

// ColorTransform is one node of a color-transform tree. Multiply and Add
// are the leaves; Combined pairs two subtrees and folds them inner-first.
type ColorTransform interface {
	// Fold applies the transform to c.
	Fold(c Color) Color
	// Combine composes the receiver with o. Same-kind leaves collapse in
	// place; mixed kinds produce a Combined node.
	Combine(o ColorTransform) ColorTransform

	depth() int
}

// Multiply scales each channel.
type Multiply Color

// Add offsets each channel.
type Add Color

// Combined folds B first, then A.
type Combined struct {
	A, B ColorTransform
	d    int
}

// maxFoldDepth bounds the Combined tree. Multiply and Add are both affine
// maps per channel, so a deep chain collapses losslessly into one
// Add-of-Multiply pair once it crosses the bound.
const maxFoldDepth = 32

// IdentityColor is the neutral color transform.
func IdentityColor() ColorTransform {
	return Multiply{1, 1, 1, 1}
}

func (m Multiply) Fold(c Color) Color {
	return Color{m[0] * c[0], m[1] * c[1], m[2] * c[2], m[3] * c[3]}
}

func (m Multiply) Combine(o ColorTransform) ColorTransform {
	if o, ok := o.(Multiply); ok {
		return Multiply{m[0] * o[0], m[1] * o[1], m[2] * o[2], m[3] * o[3]}
	}
	return newCombined(m, o)
}

func (m Multiply) depth() int { return 1 }

func (a Add) Fold(c Color) Color {
	return Color{a[0] + c[0], a[1] + c[1], a[2] + c[2], a[3] + c[3]}
}

func (a Add) Combine(o ColorTransform) ColorTransform {
	if o, ok := o.(Add); ok {
		return Add{a[0] + o[0], a[1] + o[1], a[2] + o[2], a[3] + o[3]}
	}
	return newCombined(a, o)
}

func (a Add) depth() int { return 1 }

func (t Combined) Fold(c Color) Color {
	return t.A.Fold(t.B.Fold(c))
}

func (t Combined) Combine(o ColorTransform) ColorTransform {
	return newCombined(t, o)
}

func (t Combined) depth() int { return t.d }

func newCombined(a, b ColorTransform) ColorTransform {
	d := max(a.depth(), b.depth()) + 1
	if d > maxFoldDepth {
		return linearize(Combined{A: a, B: b, d: d})
	}
	return Combined{A: a, B: b, d: d}
}

// linearize rewrites an arbitrary transform as Add(bias) over
// Multiply(scale), which folds to the same color for every input.
func linearize(t ColorTransform) ColorTransform {
	bias := t.Fold(Color{})
	one := t.Fold(Color{1, 1, 1, 1})
	scale := Color{one[0] - bias[0], one[1] - bias[1], one[2] - bias[2], one[3] - bias[3]}
	return Combined{A: Add(bias), B: Multiply(scale), d: 2}
}

// IntoColor folds the transform over opaque white.
func IntoColor(t ColorTransform) Color {
	return t.Fold(Color{1, 1, 1, 1})
}
