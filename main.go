package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/automoto/anmview/assets"
	"github.com/automoto/anmview/config"
	"github.com/automoto/anmview/render"
	"github.com/automoto/anmview/store"
	"github.com/automoto/anmview/video"
)

func main() {
	_ = godotenv.Load()

	root := flag.String("root", os.Getenv(config.EnvRoot), "Game root containing the animations directory")
	typ := flag.String("type", "npcs", "Animation type (npcs|dynamics|equipments|gui|interactives|pets|players|resources)")
	id := flag.String("id", "", "Animation id")
	spriteName := flag.String("sprite", "", "Sprite name (default: static sprite discovery)")
	frame := flag.Int("frame", 0, "Frame to render in -still mode")
	still := flag.Bool("still", false, "Render a single PNG instead of a video")
	list := flag.Bool("list", false, "List the animation's sprites and exit")
	out := flag.String("out", "", "Output file (default <id>.png or <id>.webm)")
	useCache := flag.Bool("cache", false, "Cache still renders between runs")
	overlay := flag.Bool("overlay", false, "Draw the debug overlay onto frames")
	scale := flag.Float64("scale", 0, "Override the display scale (0 = default)")
	flag.Parse()

	if *root == "" {
		log.Fatalf("No game root: pass -root or set %s", config.EnvRoot)
	}
	if *id == "" {
		log.Fatal("No animation id: pass -id")
	}
	if !assets.ValidType(*typ) {
		log.Fatalf("Unknown animation type %q", *typ)
	}

	config.Debug.Overlay = *overlay
	if *scale > 0 {
		config.Render.DefaultScale = *scale
	}
	if p := os.Getenv(config.EnvFFmpeg); p != "" {
		config.Video.FFmpegPath = p
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc := assets.NewLocator(*root)
	r, err := render.Load(loc, *typ, *id)
	if err != nil {
		log.Fatalf("Failed to load animation: %v", err)
	}

	if *list {
		for _, info := range r.ListSprites() {
			name := info.Name
			if name == "" {
				name = "-"
			}
			fmt.Printf("%6d  %3d frames  %s\n", info.ID, info.Frames, name)
		}
		return
	}

	ref, err := resolveSprite(r, *spriteName)
	if err != nil {
		if errors.Is(err, render.ErrNoStaticSprite) {
			log.Fatalf("No static sprite in %s/%s (and no -sprite given)", *typ, *id)
		}
		log.Fatalf("Failed to pick sprite: %v", err)
	}

	if *still {
		renderStill(ref, *typ, *id, *frame, *out, *useCache)
		return
	}
	renderVideo(ctx, ref, *id, *out)
}

func resolveSprite(r *render.Renderer, name string) (*render.SpriteRef, error) {
	if name == "" {
		return r.FindStaticSprite()
	}
	if sp := r.SpriteByName(name); sp != nil {
		return &render.SpriteRef{Renderer: r, Sprite: sp, Reference: -1}, nil
	}
	for ci, c := range r.Children() {
		if sp := c.SpriteByName(name); sp != nil {
			return &render.SpriteRef{Renderer: c, Sprite: sp, Reference: ci}, nil
		}
	}
	return nil, fmt.Errorf("sprite %q not found", name)
}

func renderStill(ref *render.SpriteRef, typ, id string, frame int, out string, useCache bool) {
	if out == "" {
		out = id + ".png"
	}

	key := store.Key(typ, id, frame, config.Render.DefaultScale)
	if useCache {
		if err := store.Init(); err == nil {
			if data := store.Load(key); data != nil {
				writeOutput(out, data)
				log.Printf("[anmview] wrote %s (cached)", out)
				return
			}
		}
	}

	data, err := ref.Renderer.RenderFrame(ref.Sprite, render.FrameOptions{Frame: frame, AllFramesBox: true})
	if err != nil {
		log.Fatalf("Render failed: %v", err)
	}
	if useCache {
		_ = store.Save(key, data)
	}
	writeOutput(out, data)
	log.Printf("[anmview] wrote %s", out)
}

func renderVideo(ctx context.Context, ref *render.SpriteRef, id, out string) {
	if out == "" {
		out = id + ".webm"
	}

	data, err := ref.Renderer.RenderVideo(ctx, ref.Sprite, video.NewEncoder())
	if err != nil {
		var encErr *video.EncoderError
		if errors.As(err, &encErr) {
			log.Fatalf("Encoder failed: %s", encErr.Detail)
		}
		log.Fatalf("Render failed: %v", err)
	}
	writeOutput(out, data)
	log.Printf("[anmview] wrote %s (%d frames at %d fps)",
		out, ref.Sprite.FrameCount(), ref.Renderer.Anim.FrameRate)
}

func writeOutput(path string, data []byte) {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Fatalf("Failed to write %s: %v", path, err)
	}
}
