package guidedsection

import (
	"fmt"
	"os"
	"strconv"

	"github.com/randalmurphal/guidedsection/pkg/guidedsection/config"
)

// FromConfig builds registry options from a configuration document.
//
// Recognized keys:
//
//	max_handlers: 32
//	stores:
//	  - name: static
//	    kind: memory
//	  - name: lowmem
//	    kind: file
//	    path: /dev/mem
//	    offset: 0x1000
//	    size: 4096
//
// Stores are probed in document order. A store with no size is sized for
// the configured capacity. Offsets accept integers or strings in any base
// strconv understands ("4096", "0x1000"). File stores are opened
// read-write here; an unwritable file still opens and simply fails its
// probe, matching a memory window that is not writable yet.
func FromConfig(cfg config.Config) ([]Option, error) {
	capacity := cfg.Int("max_handlers", DefaultCapacity)
	if capacity < 1 {
		return nil, fmt.Errorf("max_handlers must be at least 1, got %d", capacity)
	}
	opts := []Option{WithCapacity(capacity)}
	layout := NewLayout(capacity)

	raw := cfg.Slice("stores", nil)
	if len(raw) == 0 {
		return opts, nil
	}

	stores := make([]Store, 0, len(raw))
	for i, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("stores[%d]: expected a mapping", i)
		}
		sc := config.New(m)
		name := sc.String("name", fmt.Sprintf("store-%d", i))
		size := int64(sc.Int("size", int(layout.Size())))

		switch kind := sc.String("kind", "memory"); kind {
		case "memory":
			stores = append(stores, Store{Name: name, Region: NewMemRegion(size)})

		case "file":
			path := sc.String("path", "")
			if path == "" {
				return nil, fmt.Errorf("stores[%d] %s: file store requires a path", i, name)
			}
			offset, err := parseOffset(sc.Any("offset", 0))
			if err != nil {
				return nil, fmt.Errorf("stores[%d] %s: %w", i, name, err)
			}
			f, err := openStoreFile(path)
			if err != nil {
				return nil, fmt.Errorf("stores[%d] %s: %w", i, name, err)
			}
			stores = append(stores, Store{Name: name, Region: NewFileRegion(f, offset, size)})

		default:
			return nil, fmt.Errorf("stores[%d] %s: unknown kind %q", i, name, kind)
		}
	}

	return append(opts, WithStores(stores...)), nil
}

// openStoreFile opens a file store read-write, falling back to read-only
// so that a write-protected candidate reaches the probe instead of
// failing construction.
func openStoreFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err == nil {
		return f, nil
	}
	if f, roErr := os.Open(path); roErr == nil {
		return f, nil
	}
	return nil, err
}

// parseOffset accepts the offset forms yaml and json produce.
func parseOffset(v any) (int64, error) {
	switch val := v.(type) {
	case int:
		return int64(val), nil
	case int64:
		return val, nil
	case float64:
		if val == float64(int64(val)) {
			return int64(val), nil
		}
	case string:
		n, err := strconv.ParseInt(val, 0, 64)
		if err != nil {
			return 0, fmt.Errorf("bad offset %q: %w", val, err)
		}
		return n, nil
	}
	return 0, fmt.Errorf("bad offset %v", v)
}
