package video

import (
	"bytes"
	"context"
	"errors"
	"image"
	"os/exec"
	"testing"

	"github.com/disintegration/imaging"
)

func testFrame(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestEncodeNoFrames(t *testing.T) {
	e := NewEncoder()
	_, err := e.Encode(context.Background(), nil, 24)
	var encErr *EncoderError
	if !errors.As(err, &encErr) {
		t.Fatalf("err = %v, want EncoderError", err)
	}
}

func TestEncodeMissingBinary(t *testing.T) {
	e := NewEncoder()
	e.FFmpegPath = "/nonexistent/ffmpeg-for-test"
	_, err := e.Encode(context.Background(), [][]byte{testFrame(t)}, 24)
	var encErr *EncoderError
	if !errors.As(err, &encErr) {
		t.Fatalf("err = %v, want EncoderError", err)
	}
}

func TestEncodeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := NewEncoder()
	_, err := e.Encode(ctx, [][]byte{testFrame(t)}, 24)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	e := NewEncoder()
	if _, err := exec.LookPath(e.FFmpegPath); err != nil {
		t.Skipf("ffmpeg not available: %v", err)
	}
	frames := [][]byte{testFrame(t), testFrame(t), testFrame(t)}
	data, err := e.Encode(context.Background(), frames, 24)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Error("empty webm output")
	}
}
