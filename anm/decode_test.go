package anm

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/automoto/anmview/binio"
)

// builder assembles little-endian test buffers.
type builder struct {
	b []byte
}

func (w *builder) u8(v uint8) { w.b = append(w.b, v) }
func (w *builder) i8(v int8)  { w.u8(uint8(v)) }
func (w *builder) u16(v uint16) {
	w.b = binary.LittleEndian.AppendUint16(w.b, v)
}
func (w *builder) i16(v int16) { w.u16(uint16(v)) }
func (w *builder) u32(v uint32) {
	w.b = binary.LittleEndian.AppendUint32(w.b, v)
}
func (w *builder) i32(v int32) { w.u32(uint32(v)) }
func (w *builder) f32(v float32) {
	w.u32(math.Float32bits(v))
}
func (w *builder) str(s string) {
	w.b = append(w.b, s...)
	w.b = append(w.b, 0)
}

// header writes version, the skipped word, and the frame rate.
func (w *builder) header(version, frameRate uint8) {
	w.u8(version)
	w.i16(0)
	w.u8(frameRate)
}

func TestDecodeMinimal(t *testing.T) {
	var w builder
	w.header(0, 24)
	w.u16(0) // textures
	w.u16(0) // shapes
	w.u16(0) // sprites
	w.u16(0) // imports

	a, err := Decode(w.b)
	if err != nil {
		t.Fatal(err)
	}
	if a.Version != 0 || a.FrameRate != 24 {
		t.Errorf("version=%d frameRate=%d", a.Version, a.FrameRate)
	}
	if a.Texture != nil || a.Index != nil || a.Transform != nil {
		t.Error("optional sections should be absent")
	}
	if len(a.Shapes) != 0 || len(a.Sprites) != 0 || len(a.Imports) != 0 {
		t.Error("sequences should be empty")
	}
}

func TestDecodeResidualBytesNotFatal(t *testing.T) {
	var w builder
	w.header(0, 24)
	w.u16(0)
	w.u16(0)
	w.u16(0)
	w.u16(0)
	w.u8(0xAB) // trailing junk

	if _, err := Decode(w.b); err != nil {
		t.Fatalf("residual bytes should warn, not fail: %v", err)
	}
}

func TestDecodeTruncated(t *testing.T) {
	var w builder
	w.header(0, 24)
	w.u16(1) // promises a texture that never comes

	_, err := Decode(w.b)
	if !errors.Is(err, binio.ErrUnterminatedString) && !errors.Is(err, binio.ErrTruncated) {
		t.Fatalf("err = %v, want truncation", err)
	}
}

func TestDecodeShapeNormalization(t *testing.T) {
	var w builder
	w.header(0, 24)
	w.u16(1) // textures
	w.str("atlas0")
	w.i32(1234)
	w.u16(1) // shapes
	w.i16(5)     // id
	w.i16(0)     // texture index
	w.u16(0)     // top
	w.u16(16384) // left
	w.u16(65535) // bottom
	w.u16(32768) // right
	w.u16(10)    // width
	w.u16(12)    // height
	w.f32(1.5)   // offset x
	w.f32(-2)    // offset y
	w.u16(0) // sprites
	w.u16(0) // imports

	a, err := Decode(w.b)
	if err != nil {
		t.Fatal(err)
	}
	if a.Texture == nil || a.Texture.Name != "atlas0" || a.Texture.CRC != 1234 {
		t.Fatalf("texture = %+v", a.Texture)
	}

	sh := a.ShapeByID(5)
	if sh == nil {
		t.Fatal("shape 5 not found")
	}
	for _, v := range []float64{sh.Top, sh.Left, sh.Bottom, sh.Right} {
		if v < 0 || v > 1 {
			t.Errorf("extent %v outside [0,1]", v)
		}
	}
	if !(sh.Left <= sh.Right) || !(sh.Top <= sh.Bottom) {
		t.Errorf("extent ordering violated: %+v", sh)
	}
	if sh.Bottom != 1 {
		t.Errorf("bottom = %v, want 1", sh.Bottom)
	}
	if sh.Width != 10 || sh.Height != 12 || sh.OffsetX != 1.5 || sh.OffsetY != -2 {
		t.Errorf("shape = %+v", sh)
	}
}

func TestDecodeLocalIndexHeights(t *testing.T) {
	var w builder
	w.u8(FlagLocalIndex)
	w.i16(0)
	w.u8(24)
	// local index: scale + extension
	w.u8(indexHasScale | indexHasExtension)
	w.f32(1.25)
	w.u8(extHasHeights)
	w.u32(2) // heights count
	w.i32(7)
	w.i8(4)
	w.i32(9)
	w.i8(-1)
	w.u16(0) // animation files
	w.u16(0) // textures
	w.u16(0) // shapes
	w.u16(0) // sprites
	w.u16(0) // imports

	a, err := Decode(w.b)
	if err != nil {
		t.Fatal(err)
	}
	idx := a.Index
	if idx == nil {
		t.Fatal("index absent")
	}
	if !idx.HasScale || idx.Scale != 1.25 {
		t.Errorf("scale = %v (has=%v)", idx.Scale, idx.HasScale)
	}
	// Stored values come back incremented by one.
	if got := idx.Heights[7]; got != 5 {
		t.Errorf("heights[7] = %d, want 5", got)
	}
	if got := idx.Heights[9]; got != 0 {
		t.Errorf("heights[9] = %d, want 0", got)
	}
}

func TestDecodeLocalIndexFileNames(t *testing.T) {
	var w builder
	w.u8(FlagLocalIndex)
	w.i16(0)
	w.u8(24)
	w.u8(indexHasFileNames)
	w.u16(2)
	w.str("701")
	w.str("702")
	w.u16(1) // animation files
	w.str("701")
	w.i32(-55)
	w.i32(3)
	w.u16(0)
	w.u16(0)
	w.u16(0)
	w.u16(0)

	a, err := Decode(w.b)
	if err != nil {
		t.Fatal(err)
	}
	idx := a.Index
	if len(idx.FileNames) != 2 || idx.FileNames[0] != "701" || idx.FileNames[1] != "702" {
		t.Errorf("file names = %v", idx.FileNames)
	}
	if len(idx.AnimationFiles) != 1 {
		t.Fatalf("animation files = %v", idx.AnimationFiles)
	}
	af := idx.AnimationFiles[0]
	if af.Name != "701" || af.CRC != -55 || af.FileIndex != 3 {
		t.Errorf("animation file = %+v", af)
	}
}

// buildWithActions wraps an action list in an otherwise empty animation
// with the transform-index bit set.
func buildWithActions(write func(w *builder), count uint32) []byte {
	var w builder
	w.header(FlagTransformIndex, 24)
	w.u16(0)     // textures
	w.u16(0)     // shapes
	w.u32(0)     // colors
	w.u32(0)     // rotations
	w.u32(0)     // translations
	w.u32(count) // actions
	write(&w)
	w.u16(0) // sprites
	w.u16(0) // imports
	return w.b
}

func decodeActions(t *testing.T, buf []byte) []Action {
	t.Helper()
	a, err := Decode(buf)
	if err != nil {
		t.Fatal(err)
	}
	if a.Transform == nil {
		t.Fatal("transform table absent")
	}
	return a.Transform.Actions
}

func TestDecodeGoToRandomOptimized(t *testing.T) {
	buf := buildWithActions(func(w *builder) {
		w.i8(ActionGoToRandom)
		w.u8(5)
		w.str("#optimized")
		w.str("Idle")
		w.str("Wave")
		w.u8(30)
		w.u8(70)
	}, 1)

	acts := decodeActions(t, buf)
	gr, ok := acts[0].(GoToRandom)
	if !ok {
		t.Fatalf("action = %T", acts[0])
	}
	if len(gr.Names) != 2 || gr.Names[0] != "Idle" || gr.Names[1] != "Wave" {
		t.Errorf("names = %v", gr.Names)
	}
	if len(gr.Percents) != 2 || gr.Percents[0] != 30 || gr.Percents[1] != 70 {
		t.Errorf("percents = %v", gr.Percents)
	}
}

func TestDecodeGoToRandomPlain(t *testing.T) {
	buf := buildWithActions(func(w *builder) {
		w.i8(ActionGoToRandom)
		w.u8(3)
		w.str("Intro")
		w.str("Outro")
	}, 1)

	acts := decodeActions(t, buf)
	gr := acts[0].(GoToRandom)
	if len(gr.Names) != 2 || gr.Names[0] != "Intro" || gr.Names[1] != "Outro" {
		t.Errorf("names = %v", gr.Names)
	}
	if gr.Percents != nil {
		t.Errorf("percents = %v, want none", gr.Percents)
	}
}

func TestDecodeAddParticleOffsets(t *testing.T) {
	buf := buildWithActions(func(w *builder) {
		w.i8(ActionAddParticle)
		w.u8(2)
		w.i16(77) // particle id
		w.i16(-5) // offset x only
	}, 1)

	acts := decodeActions(t, buf)
	ap := acts[0].(AddParticle)
	if ap.ParticleID != 77 {
		t.Errorf("particle id = %d", ap.ParticleID)
	}
	if !ap.HasOffsetX || ap.OffsetX != -5 {
		t.Errorf("offset x = %d (has=%v)", ap.OffsetX, ap.HasOffsetX)
	}
	if ap.HasOffsetY || ap.HasOffsetZ {
		t.Error("offsets y/z should be absent")
	}
}

func TestDecodeGoToIfPrevious(t *testing.T) {
	buf := buildWithActions(func(w *builder) {
		w.i8(ActionGoToIfPrev)
		w.u8(5) // two pairs, odd -> default present
		w.str("prev1")
		w.str("next1")
		w.str("prev2")
		w.str("next2")
		w.str("fallback")
	}, 1)

	acts := decodeActions(t, buf)
	gp := acts[0].(GoToIfPrevious)
	if len(gp.Previous) != 2 || gp.Previous[1] != "prev2" {
		t.Errorf("previous = %v", gp.Previous)
	}
	if len(gp.Next) != 2 || gp.Next[0] != "next1" {
		t.Errorf("next = %v", gp.Next)
	}
	if !gp.HasDefault || gp.Default != "fallback" {
		t.Errorf("default = %q (has=%v)", gp.Default, gp.HasDefault)
	}
}

func TestDecodeGoToPercent(t *testing.T) {
	buf := buildWithActions(func(w *builder) {
		w.i8(ActionGoTo)
		w.u8(2)
		w.str("Target")
		w.u8(50)
	}, 1)

	acts := decodeActions(t, buf)
	g := acts[0].(GoTo)
	if g.Name != "Target" || !g.HasPercent || g.Percent != 50 {
		t.Errorf("goto = %+v", g)
	}
}

func TestDecodeUnknownActionFallsThrough(t *testing.T) {
	buf := buildWithActions(func(w *builder) {
		w.i8(42)
		w.u8(1)
		w.f32(7.5)
	}, 1)

	acts := decodeActions(t, buf)
	sr, ok := acts[0].(SetRadius)
	if !ok {
		t.Fatalf("action = %T, want SetRadius fallthrough", acts[0])
	}
	if sr.ID != 42 || sr.Radius != 7.5 {
		t.Errorf("set radius = %+v", sr)
	}
}

func TestDecodeFramesSprite(t *testing.T) {
	var w builder
	w.header(0, 24)
	w.u16(0) // textures
	w.u16(0) // shapes
	w.u16(1) // sprites
	w.i8(4)     // tag: Frames
	w.i16(1)    // id
	w.u8(HasNameFlag)
	w.str("X_1_AnimStatique")
	w.i32(111) // name crc
	w.i32(222) // base name crc
	w.u16(2)   // frame pos
	w.i32(0)
	w.i32(0)
	w.u16(2) // sprite info
	w.i16(1)
	w.i16(99)
	w.u16(0) // action info
	w.u8(2)  // frame stream: shorts
	w.u32(2)
	w.u16(2) // opcode: translation
	w.u16(0) // offset
	w.u16(0) // imports

	a, err := Decode(w.b)
	if err != nil {
		t.Fatal(err)
	}
	sp := a.SpriteByID(1)
	if sp == nil {
		t.Fatal("sprite 1 not found")
	}
	if !sp.HasName || sp.Name != "X_1_AnimStatique" {
		t.Errorf("name = %q (has=%v)", sp.Name, sp.HasName)
	}
	p, ok := sp.Payload.(*FramesPayload)
	if !ok {
		t.Fatalf("payload = %T", sp.Payload)
	}
	if p.Mult() != 2 || p.FrameCount() != 1 {
		t.Errorf("mult=%d frames=%d", p.Mult(), p.FrameCount())
	}
	if sp.FrameData.Kind != FrameShorts || sp.FrameData.Len() != 2 {
		t.Errorf("frame data = %+v", sp.FrameData)
	}
	if word, ok := sp.FrameData.Word(0); !ok || word != 2 {
		t.Errorf("word 0 = %d", word)
	}
}

func TestDecodeSingleSprites(t *testing.T) {
	var w builder
	w.header(0, 12)
	w.u16(0) // textures
	w.u16(0) // shapes
	w.u16(2) // sprites
	// tag 2: SingleNoAction, unnamed
	w.i8(2)
	w.i16(10)
	w.u8(0)
	w.i32(0)
	w.i32(0)
	w.i16(55) // sprite id
	w.u8(1)   // frame stream: bytes
	w.u32(1)
	w.u8(0) // identity opcode
	// tag 3: SingleFrame
	w.i8(3)
	w.i16(11)
	w.u8(0)
	w.i32(0)
	w.i32(0)
	w.u16(2) // sprite ids
	w.i16(55)
	w.i16(56)
	w.u16(1) // action info
	w.i16(9)
	w.u8(0) // no frame stream
	w.u16(0) // imports

	a, err := Decode(w.b)
	if err != nil {
		t.Fatal(err)
	}
	s1 := a.SpriteByID(10)
	if p, ok := s1.Payload.(*SingleNoActionPayload); !ok || p.SpriteID != 55 {
		t.Errorf("sprite 10 payload = %#v", s1.Payload)
	}
	if s1.FrameCount() != 1 {
		t.Errorf("frame count = %d", s1.FrameCount())
	}
	s2 := a.SpriteByID(11)
	p2, ok := s2.Payload.(*SingleFramePayload)
	if !ok || len(p2.SpriteIDs) != 2 || len(p2.ActionInfo) != 1 {
		t.Errorf("sprite 11 payload = %#v", s2.Payload)
	}
	if s2.FrameData.Kind != FrameNone || s2.FrameData.Len() != 0 {
		t.Errorf("sprite 11 frame data = %+v", s2.FrameData)
	}
}

func TestDecodeImports(t *testing.T) {
	var w builder
	w.header(0, 24)
	w.u16(0)
	w.u16(0)
	w.u16(0)
	w.u16(1)
	w.i16(3)
	w.str("ext")
	w.i32(12)

	a, err := Decode(w.b)
	if err != nil {
		t.Fatal(err)
	}
	if len(a.Imports) != 1 {
		t.Fatalf("imports = %v", a.Imports)
	}
	imp := a.Imports[0]
	if imp.ID != 3 || imp.Name != "ext" || imp.FileIndex != 12 {
		t.Errorf("import = %+v", imp)
	}
}
