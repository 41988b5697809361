package transform

// SpriteTransform pairs the affine position matrix with a color transform.
type SpriteTransform struct {
	Position Affine
	Color    ColorTransform
}

func IdentitySprite() SpriteTransform {
	return SpriteTransform{Position: Identity(), Color: IdentityColor()}
}

// Combine composes each field independently. The receiver's matrix applies
// first; the colors go through ColorTransform.Combine, where a mixed-kind
// pair folds o before the receiver.
func (t SpriteTransform) Combine(o SpriteTransform) SpriteTransform {
	return SpriteTransform{
		Position: t.Position.Mult(o.Position),
		Color:    t.Color.Combine(o.Color),
	}
}
