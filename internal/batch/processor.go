package batch

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"hatdecor/internal/catalog"
	"hatdecor/internal/compose"
	"hatdecor/internal/export"
	"hatdecor/internal/transform"
)

// Config holds all shared resources for a batch run.
type Config struct {
	OutputDir   string
	Resolver    catalog.Resolver
	Encoder     export.Encoder
	Surface     compose.Surface
	Supersample int
	Workers     int
	Logger      *slog.Logger

	// The decoration applied to every photo. Overlay and Frame may be
	// empty; Transform is in container coordinates.
	Overlay   string
	Frame     string
	Transform transform.State
}

// Result holds the outcome of decorating one photo.
type Result struct {
	Photo   string
	Image   string
	Success bool
	Error   string
}

// Run decorates every photo using a worker pool. Each photo gets its own
// output directory so the fixed download name never collides.
func Run(ctx context.Context, cfg Config, photos []string) []Result {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	total := len(photos)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					rate := float64(p) / time.Since(start).Seconds()
					cfg.Logger.Info("batch progress", "done", p, "total", total, "per_sec", fmt.Sprintf("%.1f", rate))
				}
			}
		}
	}()

	// Worker pool
	jobs := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = processPhoto(ctx, cfg, idx, photos[idx])
				processed.Add(1)
			}
		}()
	}

send:
	for i := range photos {
		select {
		case jobs <- i:
		case <-ctx.Done():
			for j := i; j < total; j++ {
				results[j] = Result{Photo: photos[j], Error: ctx.Err().Error()}
			}
			break send
		}
	}
	close(jobs)

	wg.Wait()
	close(done)

	return results
}

// sceneRoot adapts a resolved scene to export.Snapshotter.
type sceneRoot struct {
	surface compose.Surface
	scene   compose.Scene
	ss      int
}

func (r sceneRoot) Snapshot() (image.Image, error) {
	return r.surface.Render(r.scene, r.ss), nil
}

func processPhoto(ctx context.Context, cfg Config, idx int, photo string) Result {
	res := Result{Photo: photo}
	fail := func(err error) Result {
		res.Error = err.Error()
		cfg.Logger.Debug("photo failed", "photo", photo, "err", err)
		return res
	}
	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	var sc compose.Scene
	var err error
	if sc.Base, err = cfg.Resolver.Resolve(ctx, photo); err != nil {
		return fail(err)
	}
	if cfg.Overlay != "" {
		if sc.Overlay, err = cfg.Resolver.Resolve(ctx, cfg.Overlay); err != nil {
			return fail(fmt.Errorf("overlay: %w", err))
		}
		sc.Transform = cfg.Transform
	}
	if cfg.Frame != "" {
		if sc.Frame, err = cfg.Resolver.Resolve(ctx, cfg.Frame); err != nil {
			return fail(fmt.Errorf("frame: %w", err))
		}
	}

	dir := outputName(idx, photo)
	p := &export.Pipeline{
		Encoder: cfg.Encoder,
		Sink:    export.DirSink{Dir: filepath.Join(cfg.OutputDir, dir)},
		Logger:  cfg.Logger.With("photo", photo),
	}
	if err := p.Download(sceneRoot{surface: cfg.Surface, scene: sc, ss: cfg.Supersample}); err != nil {
		return fail(err)
	}

	res.Image = filepath.ToSlash(filepath.Join(dir, p.FileName()))
	res.Success = true
	return res
}

// outputName derives a stable per-photo directory name.
func outputName(idx int, photo string) string {
	stem := "photo"
	if !strings.HasPrefix(photo, "data:") {
		base := filepath.Base(strings.TrimRight(photo, "/"))
		if s := strings.TrimSuffix(base, filepath.Ext(base)); s != "" && s != "." {
			stem = s
		}
	}
	return fmt.Sprintf("%04d-%s", idx, stem)
}
