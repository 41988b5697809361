package anm

import (
	"fmt"
	"log"

	"github.com/automoto/anmview/binio"
)

// Decode parses a .anm buffer into an Animation. Optional sections are
// gated by version flags and per-record flag bytes; any read past the end
// of the buffer aborts with binio.ErrTruncated. Residual bytes after the
// last section are logged, not fatal.
func Decode(data []byte) (*Animation, error) {
	c := binio.NewCursor(data)
	a := &Animation{}

	a.Version = c.U8()
	c.Skip(2) // signed 16-bit word, purpose unknown
	a.FrameRate = c.U8()

	if a.Version&FlagLocalIndex != 0 {
		a.Index = decodeLocalIndex(c)
	}

	textureCount := int(c.U16())
	for i := 0; i < textureCount; i++ {
		t := &Texture{Name: c.String(), CRC: c.I32()}
		if a.Texture == nil {
			a.Texture = t
		} else {
			log.Printf("[anm] decode: ignoring extra texture %q", t.Name)
		}
	}

	a.Shapes = binio.ReadArray(c, binio.SizeU16, readShape)

	if a.Version&FlagTransformIndex != 0 {
		a.Transform = decodeTransformTable(c)
	}

	a.Sprites = binio.ReadArray(c, binio.SizeU16, readSprite)
	a.Imports = binio.ReadArray(c, binio.SizeU16, readImport)

	if err := c.Err(); err != nil {
		return nil, fmt.Errorf("anm: decode: %w", err)
	}
	if n := c.Remaining(); n > 0 {
		log.Printf("[anm] decode: %d residual bytes after end of container", n)
	}

	a.buildIndexes()
	return a, nil
}

func readShape(c *binio.Cursor) Shape {
	s := Shape{
		ID:           c.I16(),
		TextureIndex: c.I16(),
	}
	// Texture coordinates are normalized here, once, so the stored model
	// carries floats in [0, 1].
	s.Top = float64(c.U16()) / 65535
	s.Left = float64(c.U16()) / 65535
	s.Bottom = float64(c.U16()) / 65535
	s.Right = float64(c.U16()) / 65535
	s.Width = c.U16()
	s.Height = c.U16()
	s.OffsetX = float64(c.F32())
	s.OffsetY = float64(c.F32())
	return s
}

// LocalIndex flag bits.
const (
	indexHasScale        = 0x1
	indexHasRenderRadius = 0x2
	indexHasFileNames    = 0x4
	indexHasHiddenBy     = 0x8
	indexHasToBeHidden   = 0x10
	indexHasExtension    = 0x20

	extHasHeights   = 0x1
	extHasHighlight = 0x2
)

func decodeLocalIndex(c *binio.Cursor) *LocalIndex {
	idx := &LocalIndex{}
	flags := c.U8()

	if flags&indexHasScale != 0 {
		idx.Scale = float64(c.F32())
		idx.HasScale = true
	}
	if flags&indexHasRenderRadius != 0 {
		idx.RenderRadius = float64(c.F32())
		idx.HasRenderRadius = true
	}
	if flags&indexHasFileNames != 0 {
		idx.FileNames = binio.ReadArray(c, binio.SizeU16, (*binio.Cursor).String)
	}
	if flags&indexHasHiddenBy != 0 {
		idx.PartsHiddenBy = readCRCPairs(c)
	}
	if flags&indexHasToBeHidden != 0 {
		idx.PartsToBeHidden = readCRCPairs(c)
	}
	if flags&indexHasExtension != 0 {
		ext := c.U8()
		if ext&extHasHeights != 0 {
			// Stored values carry a height offset of one.
			idx.Heights = binio.ReadMap(c,
				(*binio.Cursor).I32,
				func(c *binio.Cursor) int { return int(c.I8()) + 1 })
		}
		if ext&extHasHighlight != 0 {
			h := c.I32()
			idx.Highlight = &h
		}
	}

	idx.AnimationFiles = binio.ReadArray(c, binio.SizeU16, func(c *binio.Cursor) AnimationFile {
		return AnimationFile{Name: c.String(), CRC: c.I32(), FileIndex: c.I32()}
	})
	return idx
}

func readCRCPairs(c *binio.Cursor) map[int32][]int32 {
	n := c.Count(binio.SizeU32)
	if c.Err() != nil {
		return nil
	}
	out := make(map[int32][]int32, n)
	for i := 0; i < n; i++ {
		k := c.I32()
		v := c.I32()
		if c.Err() != nil {
			return nil
		}
		out[k] = append(out[k], v)
	}
	return out
}

func decodeTransformTable(c *binio.Cursor) *TransformTable {
	return &TransformTable{
		Colors:       binio.ReadArray(c, binio.SizeU32, (*binio.Cursor).F32),
		Rotations:    binio.ReadArray(c, binio.SizeU32, (*binio.Cursor).F32),
		Translations: binio.ReadArray(c, binio.SizeU32, (*binio.Cursor).F32),
		Actions:      binio.ReadArray(c, binio.SizeU32, readAction),
	}
}

func readAction(c *binio.Cursor) Action {
	id := c.I8()
	params := c.U8()

	switch id {
	case ActionGoTo:
		a := GoTo{Name: c.String()}
		if params > 1 {
			a.Percent = c.U8()
			a.HasPercent = true
		}
		return a

	case ActionGoToStatic:
		return GoToStatic{}

	case ActionRunScript:
		return RunScript{Name: c.String()}

	case ActionGoToRandom:
		first := c.String()
		if first == optimizedSentinel {
			count := (int(params) - 1) / 2
			a := GoToRandom{
				Names:    make([]string, 0, count),
				Percents: make([]uint8, 0, count),
			}
			for i := 0; i < count; i++ {
				a.Names = append(a.Names, c.String())
			}
			for i := 0; i < count; i++ {
				a.Percents = append(a.Percents, c.U8())
			}
			return a
		}
		// Non-optimized form: the string already read is the first name
		// and counts toward params-1. No percents.
		count := int(params) - 1
		a := GoToRandom{Names: make([]string, 0, count)}
		a.Names = append(a.Names, first)
		for i := 1; i < count; i++ {
			a.Names = append(a.Names, c.String())
		}
		return a

	case ActionHit:
		return Hit{}

	case ActionDelete:
		return Delete{}

	case ActionEnd:
		return End{}

	case ActionGoToIfPrev:
		count := (int(params) - 1) / 2
		a := GoToIfPrevious{
			Previous: make([]string, 0, count),
			Next:     make([]string, 0, count),
		}
		for i := 0; i < count; i++ {
			a.Previous = append(a.Previous, c.String())
			a.Next = append(a.Next, c.String())
		}
		if params%2 == 1 {
			a.Default = c.String()
			a.HasDefault = true
		}
		return a

	case ActionAddParticle:
		a := AddParticle{ParticleID: c.I16()}
		if params > 1 {
			a.OffsetX = c.I16()
			a.HasOffsetX = true
		}
		if params > 2 {
			a.OffsetY = c.I16()
			a.HasOffsetY = true
		}
		if params > 3 {
			a.OffsetZ = c.I16()
			a.HasOffsetZ = true
		}
		return a

	default:
		// Unknown ids share the SetRadius layout; the raw id is kept.
		return SetRadius{ID: id, Radius: float64(c.F32())}
	}
}

func readSprite(c *binio.Cursor) Sprite {
	s := Sprite{
		Tag:   c.I8(),
		ID:    c.I16(),
		Flags: c.U8(),
	}
	s.HasName = s.Flags&HasNameFlag != 0
	if name, ok := binio.ReadIf(c, s.HasName, (*binio.Cursor).String); ok {
		s.Name = name
	}
	s.NameCRC = c.I32()
	s.BaseNameCRC = c.I32()

	switch s.Tag {
	case 1:
		s.Payload = &SinglePayload{
			SpriteID:   c.I16(),
			ActionInfo: binio.ReadArray(c, binio.SizeU16, (*binio.Cursor).I16),
		}
	case 2:
		s.Payload = &SingleNoActionPayload{SpriteID: c.I16()}
	case 3:
		s.Payload = &SingleFramePayload{
			SpriteIDs:  binio.ReadArray(c, binio.SizeU16, (*binio.Cursor).I16),
			ActionInfo: binio.ReadArray(c, binio.SizeU16, (*binio.Cursor).I16),
		}
	case 4:
		s.Payload = &FramesPayload{
			FramePos:   binio.ReadArray(c, binio.SizeU16, (*binio.Cursor).I32),
			SpriteInfo: binio.ReadArray(c, binio.SizeU16, (*binio.Cursor).I16),
			ActionInfo: binio.ReadArray(c, binio.SizeU16, (*binio.Cursor).I16),
		}
	default:
		c.Fail(fmt.Errorf("anm: sprite %d: unknown payload tag %d", s.ID, s.Tag))
		return s
	}

	s.FrameData = readFrameStream(c, s.ID)
	return s
}

func readFrameStream(c *binio.Cursor, spriteID int16) FrameStream {
	tag := c.U8()
	switch FrameStreamKind(tag) {
	case FrameNone:
		return FrameStream{Kind: FrameNone}
	case FrameBytes:
		words := binio.ReadArray(c, binio.SizeU32, func(c *binio.Cursor) uint32 { return uint32(c.U8()) })
		return FrameStream{Kind: FrameBytes, words: words}
	case FrameShorts:
		words := binio.ReadArray(c, binio.SizeU32, func(c *binio.Cursor) uint32 { return uint32(c.U16()) })
		return FrameStream{Kind: FrameShorts, words: words}
	case FrameInts:
		words := binio.ReadArray(c, binio.SizeU32, (*binio.Cursor).U32)
		return FrameStream{Kind: FrameInts, words: words}
	default:
		c.Fail(fmt.Errorf("anm: sprite %d: unknown frame stream tag %d", spriteID, tag))
		return FrameStream{}
	}
}

func readImport(c *binio.Cursor) Import {
	return Import{ID: c.I16(), Name: c.String(), FileIndex: c.I32()}
}
