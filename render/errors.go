package render

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingTexture is reported when a raster render is requested but
	// the loaded animation has no atlas.
	ErrMissingTexture = errors.New("render: animation has no atlas texture")

	// ErrMissingTransform is reported when a frame opcode is unrecognised
	// or the frame stream runs out mid-walk.
	ErrMissingTransform = errors.New("render: missing transform")

	// ErrNoStaticSprite is the predictable not-found from static sprite
	// discovery.
	ErrNoStaticSprite = errors.New("render: no static sprite matches")
)

// UnresolvedIDError is reported when a referenced sprite id resolves in
// none of self, parent, sub-references, or own shapes.
type UnresolvedIDError struct {
	ID int16
}

func (e *UnresolvedIDError) Error() string {
	return fmt.Sprintf("render: unresolved sprite id %d", e.ID)
}
