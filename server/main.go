package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/automoto/anmview/assets"
	"github.com/automoto/anmview/config"
	"github.com/automoto/anmview/store"
)

func main() {
	_ = godotenv.Load()

	port := flag.Int("port", 8080, "HTTP listen port")
	root := flag.String("root", os.Getenv(config.EnvRoot), "Game root containing the animations directory")
	ttl := flag.Duration("ttl", 5*time.Minute, "Loaded animation TTL before eviction")
	cache := flag.Bool("cache", false, "Cache still renders in the persistent store")
	flag.Parse()

	if *root == "" {
		log.Fatalf("[server] no game root: pass -root or set %s", config.EnvRoot)
	}
	if p := os.Getenv(config.EnvFFmpeg); p != "" {
		config.Video.FFmpegPath = p
	}
	if *cache {
		_ = store.Init()
	}

	reg := NewRegistry(assets.NewLocator(*root), *ttl)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /render", RenderFrame(reg, *cache))
	mux.HandleFunc("GET /video", RenderVideo(reg))
	mux.HandleFunc("GET /sprites", ListSprites(reg))
	mux.HandleFunc("GET /health", Health())

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("[server] starting on %s (root=%s, TTL=%s)", addr, *root, *ttl)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("[server] fatal: %v", err)
	}
}
