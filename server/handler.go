package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/automoto/anmview/assets"
	"github.com/automoto/anmview/config"
	"github.com/automoto/anmview/render"
	"github.com/automoto/anmview/store"
	"github.com/automoto/anmview/video"
)

type spritesResponse struct {
	Type    string              `json:"type"`
	ID      string              `json:"id"`
	Sprites []render.SpriteInfo `json:"sprites"`
}

// lookup validates the type/id query parameters and resolves the target
// sprite, defaulting to static sprite discovery.
func lookup(reg *Registry, w http.ResponseWriter, r *http.Request) (*render.SpriteRef, string, string, bool) {
	typ := r.URL.Query().Get("type")
	id := r.URL.Query().Get("id")
	if !assets.ValidType(typ) || id == "" {
		http.Error(w, `{"error":"valid type and id required"}`, http.StatusBadRequest)
		return nil, "", "", false
	}

	renderer, err := reg.Get(typ, id)
	if err != nil {
		log.Printf("[server] load %s/%s: %v", typ, id, err)
		http.Error(w, `{"error":"animation not found"}`, http.StatusNotFound)
		return nil, "", "", false
	}

	if name := r.URL.Query().Get("sprite"); name != "" {
		if sp := renderer.SpriteByName(name); sp != nil {
			return &render.SpriteRef{Renderer: renderer, Sprite: sp, Reference: -1}, typ, id, true
		}
		http.Error(w, `{"error":"sprite not found"}`, http.StatusNotFound)
		return nil, "", "", false
	}

	ref, err := renderer.FindStaticSprite()
	if err != nil {
		if errors.Is(err, render.ErrNoStaticSprite) {
			http.Error(w, `{"error":"no static sprite"}`, http.StatusNotFound)
		} else {
			log.Printf("[server] discover %s/%s: %v", typ, id, err)
			http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		}
		return nil, "", "", false
	}
	return ref, typ, id, true
}

func RenderFrame(reg *Registry, useCache bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref, typ, id, ok := lookup(reg, w, r)
		if !ok {
			return
		}
		frame, _ := strconv.Atoi(r.URL.Query().Get("frame"))

		key := store.Key(typ, id, frame, config.Render.DefaultScale)
		if useCache {
			if data := store.Load(key); data != nil {
				w.Header().Set("Content-Type", "image/png")
				_, _ = w.Write(data)
				return
			}
		}

		data, err := ref.Renderer.RenderFrame(ref.Sprite, render.FrameOptions{
			Frame:        frame,
			AllFramesBox: true,
		})
		if err != nil {
			log.Printf("[server] render %s/%s frame %d: %v", typ, id, frame, err)
			http.Error(w, `{"error":"render failed"}`, http.StatusInternalServerError)
			return
		}
		if useCache {
			_ = store.Save(key, data)
		}

		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(data)
	}
}

func RenderVideo(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref, typ, id, ok := lookup(reg, w, r)
		if !ok {
			return
		}

		data, err := ref.Renderer.RenderVideo(r.Context(), ref.Sprite, video.NewEncoder())
		if err != nil {
			var encErr *video.EncoderError
			if errors.As(err, &encErr) {
				log.Printf("[server] encode %s/%s: %s", typ, id, encErr.Detail)
			} else {
				log.Printf("[server] video %s/%s: %v", typ, id, err)
			}
			http.Error(w, `{"error":"video render failed"}`, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "video/webm")
		_, _ = w.Write(data)
	}
}

func ListSprites(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		typ := r.URL.Query().Get("type")
		id := r.URL.Query().Get("id")
		if !assets.ValidType(typ) || id == "" {
			http.Error(w, `{"error":"valid type and id required"}`, http.StatusBadRequest)
			return
		}

		renderer, err := reg.Get(typ, id)
		if err != nil {
			log.Printf("[server] load %s/%s: %v", typ, id, err)
			http.Error(w, `{"error":"animation not found"}`, http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		resp := spritesResponse{Type: typ, ID: id, Sprites: renderer.ListSprites()}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			log.Printf("[server] sprites encode error: %v", err)
		}
	}
}

func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}
