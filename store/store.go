package store

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata"
)

var gdataManager *gdata.Manager
var gdataInitialized bool

// Init opens the gdata manager backing the render cache. Failure is
// non-fatal: the cache simply stays disabled.
func Init() error {
	m, err := gdata.Open(gdata.Config{
		AppName: "anmview",
	})
	if err != nil {
		log.Printf("Warning: Could not initialize render cache: %v", err)
		return err
	}
	gdataManager = m
	gdataInitialized = true
	return nil
}

// Key builds the cache key for a still render.
func Key(typ, id string, frame int, scale float64) string {
	return fmt.Sprintf("render/%s/%s/%d/%g", typ, id, frame, scale)
}

// Load returns the cached bytes for key, or nil when absent or the cache
// is disabled.
func Load(key string) []byte {
	if !gdataInitialized || gdataManager == nil {
		return nil
	}
	data, err := gdataManager.LoadItem(key)
	if err != nil {
		log.Printf("Warning: Could not load cached render: %v", err)
		return nil
	}
	return data
}

// Save stores data under key. Errors are logged and returned but callers
// may ignore them; the cache is best-effort.
func Save(key string, data []byte) error {
	if !gdataInitialized || gdataManager == nil {
		return nil
	}
	if err := gdataManager.SaveItem(key, data); err != nil {
		log.Printf("Warning: Could not save cached render: %v", err)
		return err
	}
	return nil
}
