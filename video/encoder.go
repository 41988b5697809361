package video

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/automoto/anmview/config"
)

// EncoderError wraps a non-zero exit or stderr report from the external
// encoder.
type EncoderError struct {
	Detail string
}

func (e *EncoderError) Error() string {
	return fmt.Sprintf("video: encoder failed: %s", e.Detail)
}

// Encoder assembles a PNG frame sequence into a VP9/WebM buffer by staging
// zero-padded frames in a temp directory and invoking ffmpeg. The staging
// directory is released on every exit path.
type Encoder struct {
	FFmpegPath  string
	Codec       string
	PixelFormat string
	CRF         int
}

// NewEncoder builds an encoder from the global video configuration.
func NewEncoder() *Encoder {
	return &Encoder{
		FFmpegPath:  config.Video.FFmpegPath,
		Codec:       config.Video.Codec,
		PixelFormat: config.Video.PixelFormat,
		CRF:         config.Video.CRF,
	}
}

// Encode writes frames as img_0000.png… and runs the encoder at the given
// frame rate. Cancellation is honored between I/O steps and by the encoder
// process itself.
func (e *Encoder) Encode(ctx context.Context, frames [][]byte, frameRate int) ([]byte, error) {
	if len(frames) == 0 {
		return nil, &EncoderError{Detail: "no frames to encode"}
	}
	if frameRate <= 0 {
		frameRate = 24
	}

	dir, err := os.MkdirTemp("", "anmview-frames-")
	if err != nil {
		return nil, fmt.Errorf("video: staging dir: %w", err)
	}
	defer os.RemoveAll(dir)

	for i, frame := range frames {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		name := filepath.Join(dir, fmt.Sprintf("img_%04d.png", i))
		if err := os.WriteFile(name, frame, 0o644); err != nil {
			return nil, fmt.Errorf("video: stage frame %d: %w", i, err)
		}
	}

	out := filepath.Join(dir, "out.webm")
	cmd := exec.CommandContext(ctx, e.FFmpegPath,
		"-y",
		"-framerate", strconv.Itoa(frameRate),
		"-i", filepath.Join(dir, "img_%04d.png"),
		"-c:v", e.Codec,
		"-pix_fmt", e.PixelFormat,
		"-b:v", "0",
		"-crf", strconv.Itoa(e.CRF),
		out,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	log.Printf("[video] encoding %d frames at %d fps", len(frames), frameRate)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		detail := err.Error()
		if stderr.Len() > 0 {
			detail = stderr.String()
		}
		return nil, &EncoderError{Detail: detail}
	}

	data, err := os.ReadFile(out)
	if err != nil {
		return nil, &EncoderError{Detail: fmt.Sprintf("no output produced: %v", err)}
	}
	return data, nil
}
