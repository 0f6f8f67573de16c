// README: Registry holds the live rate table snapshot and reloads it from a Source.
package ratetable

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"
)

var ErrNoTable = errors.New("rate table not loaded")

// Source produces a validated rate table.
type Source interface {
	Load(ctx context.Context) (*RateTable, error)
}

// FileSource reads a JSON rate table from disk.
type FileSource struct {
	Path string
}

func (f FileSource) Load(_ context.Context) (*RateTable, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read rate table %s: %w", f.Path, err)
	}
	return Parse(data)
}

// Registry swaps whole snapshots, so readers never see a half-applied reload.
type Registry struct {
	source  Source
	logger  *slog.Logger
	current atomic.Pointer[RateTable]
	loaded  atomic.Int64
}

func NewRegistry(source Source, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{source: source, logger: logger}
}

// NewStaticRegistry serves a fixed table; Reload is a no-op.
func NewStaticRegistry(t *RateTable) *Registry {
	r := &Registry{logger: slog.Default()}
	r.Set(t)
	return r
}

// Current returns the live snapshot or nil before the first successful load.
func (r *Registry) Current() *RateTable {
	return r.current.Load()
}

// Table is Current with an error when nothing is loaded yet.
func (r *Registry) Table(_ context.Context) (*RateTable, error) {
	t := r.current.Load()
	if t == nil {
		return nil, ErrNoTable
	}
	return t, nil
}

// LoadedAt reports when the current snapshot was installed.
func (r *Registry) LoadedAt() time.Time {
	n := r.loaded.Load()
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}

func (r *Registry) Set(t *RateTable) {
	r.current.Store(t)
	r.loaded.Store(time.Now().UnixNano())
}

// Reload fetches a fresh table. On failure the previous snapshot stays live.
func (r *Registry) Reload(ctx context.Context) (*RateTable, error) {
	if r.source == nil {
		return r.Table(ctx)
	}
	t, err := r.source.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := Validate(t); err != nil {
		return nil, err
	}
	prev := r.current.Swap(t)
	r.loaded.Store(time.Now().UnixNano())
	if prev == nil || prev.Version != t.Version {
		r.logger.Info("rate table loaded", "version", t.Version, "zones", len(t.Zones), "services", len(t.ServiceTypes))
	}
	return t, nil
}

// RunReloader reloads on every tick until ctx is done.
func (r *Registry) RunReloader(ctx context.Context, interval time.Duration) {
	if interval <= 0 || r.source == nil {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.Reload(ctx); err != nil {
				r.logger.Warn("rate table reload failed; keeping previous snapshot", "err", err)
			}
		}
	}
}
