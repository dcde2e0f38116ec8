package stub

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/hemlineco/stylist/pkg/api"
)

// Item is one catalog entry the stub can return as a retrieved image.
type Item struct {
	ID   string
	Name string
	URL  string
	BBox *api.BBox

	// Data holds the image bytes for built-in items; directory-backed items
	// are served straight from disk instead.
	Data []byte
}

// Catalog is the set of garments the stub "retrieves" from. A
// directory-backed catalog rescans on filesystem changes; without a
// directory it falls back to a built-in sample set.
type Catalog struct {
	mu      sync.RWMutex
	items   []Item
	dir     string
	watcher *fsnotify.Watcher
	logger  *zap.Logger
	done    chan struct{}
}

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// NewCatalog builds the catalog. With a non-empty dir the directory is
// scanned immediately and watched for changes until Close.
func NewCatalog(dir string, logger *zap.Logger) (*Catalog, error) {
	c := &Catalog{
		dir:    dir,
		logger: logger,
		done:   make(chan struct{}),
	}

	if dir == "" {
		c.items = builtinItems()
		logger.Info("using built-in catalog", zap.Int("items", len(c.items)))
		return c, nil
	}

	if err := c.rescan(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create catalog watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch catalog dir %s: %w", dir, err)
	}
	c.watcher = watcher
	go c.watch()

	logger.Info("using catalog directory", zap.String("dir", dir), zap.Int("items", c.Len()))
	return c, nil
}

// Items returns a snapshot of the catalog.
func (c *Catalog) Items() []Item {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Item(nil), c.items...)
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Close stops the directory watcher, if any.
func (c *Catalog) Close() error {
	if c.watcher == nil {
		return nil
	}
	close(c.done)
	return c.watcher.Close()
}

func (c *Catalog) watch() {
	for {
		select {
		case <-c.done:
			return
		case event, ok := <-c.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename|fsnotify.Write) == 0 {
				continue
			}
			if err := c.rescan(); err != nil {
				c.logger.Warn("catalog rescan failed", zap.Error(err))
				continue
			}
			c.logger.Debug("catalog rescanned",
				zap.String("trigger", event.Name),
				zap.Int("items", c.Len()),
			)
		case err, ok := <-c.watcher.Errors:
			if !ok {
				return
			}
			c.logger.Warn("catalog watcher error", zap.Error(err))
		}
	}
}

func (c *Catalog) rescan() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("read catalog dir %s: %w", c.dir, err)
	}

	items := make([]Item, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		items = append(items, Item{
			ID:   "cat-" + name,
			Name: strings.ReplaceAll(name, "_", " "),
			URL:  "/catalog/" + e.Name(),
			BBox: &api.BBox{X: 0, Y: 0, W: 200, H: 300},
		})
	}

	c.mu.Lock()
	c.items = items
	c.mu.Unlock()
	return nil
}

// builtinItems is the fallback catalog: a few solid-color swatches with
// garment names, so the stub works with no setup at all.
func builtinItems() []Item {
	entries := []struct {
		name string
		fill color.RGBA
		bbox api.BBox
	}{
		{"denim jacket", color.RGBA{R: 52, G: 86, B: 139, A: 255}, api.BBox{X: 12, Y: 8, W: 96, H: 140}},
		{"white sneakers", color.RGBA{R: 236, G: 236, B: 230, A: 255}, api.BBox{X: 4, Y: 60, W: 110, H: 54}},
		{"red dress", color.RGBA{R: 176, G: 32, B: 54, A: 255}, api.BBox{X: 20, Y: 4, W: 80, H: 150}},
		{"black slacks", color.RGBA{R: 28, G: 28, B: 32, A: 255}, api.BBox{X: 24, Y: 10, W: 72, H: 144}},
		{"linen shirt", color.RGBA{R: 222, G: 210, B: 180, A: 255}, api.BBox{X: 14, Y: 12, W: 92, H: 110}},
		{"red shoes", color.RGBA{R: 200, G: 40, B: 40, A: 255}, api.BBox{X: 6, Y: 64, W: 106, H: 50}},
	}

	items := make([]Item, 0, len(entries))
	for _, e := range entries {
		id := "cat-" + strings.ReplaceAll(e.name, " ", "-")
		bbox := e.bbox
		items = append(items, Item{
			ID:   id,
			Name: e.name,
			URL:  "/images/" + id,
			BBox: &bbox,
			Data: swatchPNG(e.fill),
		})
	}
	return items
}

// swatchPNG encodes a small solid-color PNG.
func swatchPNG(fill color.RGBA) []byte {
	img := image.NewRGBA(image.Rect(0, 0, 24, 24))
	for y := 0; y < 24; y++ {
		for x := 0; x < 24; x++ {
			img.SetRGBA(x, y, fill)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		// Encoding an in-memory RGBA image can't fail in practice.
		panic("encode swatch: " + err.Error())
	}
	return buf.Bytes()
}
