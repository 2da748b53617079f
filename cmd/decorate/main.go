package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"hatdecor/internal/batch"
	"hatdecor/internal/catalog"
	"hatdecor/internal/compose"
	"hatdecor/internal/config"
	"hatdecor/internal/editor"
	"hatdecor/internal/export"
	"hatdecor/internal/script"
	"hatdecor/internal/selection"
)

func main() {
	os.Exit(run())
}

// run holds everything main does so deferred cleanup runs before exit.
func run() int {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	assetDir := flag.String("assets", "", "Asset directory with hats/ and frames/ (default: auto-detect)")
	outputDir := flag.String("output", "", "Output directory (default: output)")
	format := flag.String("format", "", "Export format: png, webp or pdf (default: png)")
	workers := flag.Int("workers", 0, "Number of batch workers (default: NumCPU)")
	imageRef := flag.String("image", "", "Base photo: URL, data URI or local file")
	hat := flag.String("hat", "", "Hat overlay name or ref")
	frame := flag.String("frame", "", "Frame name or ref")
	scriptFile := flag.String("script", "", "Replay a JSON session script")
	batchSrc := flag.String("batch", "", "Decorate every photo in a directory or list file")
	list := flag.Bool("list", false, "List available hats and frames and exit")
	verbose := flag.Bool("v", false, "Debug logging")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			return 1
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		AssetDir:  *assetDir,
		OutputDir: *outputDir,
		Format:    *format,
		Workers:   *workers,
		Verbose:   *verbose,
	})

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cat, err := loadCatalog(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading assets: %v\n", err)
		return 1
	}
	log.Info("assets loaded", "hats", len(cat.Hats), "frames", len(cat.Frames))

	if *list {
		for _, c := range selection.Categories {
			fmt.Printf("%s:\n", c)
			for _, ref := range cat.Refs(c) {
				fmt.Printf("  %s\n", ref)
			}
		}
		return 0
	}

	enc, err := export.ParseFormat(cfg.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	loader := &catalog.Loader{Client: &http.Client{Timeout: 30 * time.Second}}
	resolver := catalog.NewCache(loader.Load)
	surface := compose.Surface{
		Side:       cfg.CanvasSize,
		Padding:    cfg.Pad(),
		Background: compose.DefaultSurface().Background,
	}

	ed := editor.New(editor.Options{
		Surface:     surface,
		Resolver:    resolver,
		Supersample: cfg.Supersample,
		Logger:      log,
		Pipeline: &export.Pipeline{
			Encoder: enc,
			Sink:    export.DirSink{Dir: cfg.OutputDir},
		},
	})
	defer ed.Close()

	// Initial state from flags
	if *imageRef != "" {
		if fi, err := os.Stat(*imageRef); err == nil && !fi.IsDir() {
			<-ed.Upload(ctx, *imageRef)
		} else {
			ed.SubmitURL(*imageRef)
		}
	}
	if *hat != "" {
		ed.SelectOverlay(lookup(cat, selection.Hats, *hat))
	}
	if *frame != "" {
		ed.SelectFrame(lookup(cat, selection.Frames, *frame))
	}

	if *scriptFile != "" {
		s, err := script.Load(*scriptFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading script: %v\n", err)
			return 1
		}
		r := &script.Runner{Editor: ed, Catalog: cat, Logger: log}
		res, err := r.Run(ctx, s)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running script: %v\n", err)
			return 1
		}
		fmt.Printf("Script %s: %d steps, %d downloads\n", s.Name, res.Steps, res.Downloads)
	}

	if *batchSrc != "" {
		return runBatch(ctx, cfg, ed, resolver, enc, surface, *batchSrc, log)
	}

	// Without a script, export whatever the flags composed.
	if *scriptFile == "" {
		if err := ed.Download(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Printf("Saved: %s\n", filepath.Join(cfg.OutputDir, "christmas-avatar"+enc.Ext()))
	}
	return 0
}

func loadCatalog(cfg config.Config) (*catalog.Catalog, error) {
	if cfg.Manifest != "" {
		return catalog.LoadManifest(cfg.Manifest)
	}
	return catalog.Scan(cfg.HatsDir, cfg.FramesDir)
}

func lookup(cat *catalog.Catalog, c selection.Category, name string) string {
	if ref, ok := cat.Lookup(c, name); ok {
		return ref
	}
	return name
}

// runBatch applies the editor's current decoration to every listed photo
// and returns the process exit code.
func runBatch(ctx context.Context, cfg config.Config, ed *editor.Editor, resolver catalog.Resolver,
	enc export.Encoder, surface compose.Surface, src string, log *slog.Logger) int {
	photos, err := listPhotos(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing photos: %v\n", err)
		return 1
	}
	if len(photos) == 0 {
		fmt.Println("No photos to decorate.")
		return 0
	}

	v := ed.View()
	batchCfg := batch.Config{
		OutputDir:   cfg.OutputDir,
		Resolver:    resolver,
		Encoder:     enc,
		Surface:     surface,
		Supersample: cfg.Supersample,
		Workers:     cfg.Workers,
		Logger:      log,
		Overlay:     v.Selection.Overlay,
		Frame:       v.Selection.Frame,
		Transform:   v.Transform,
	}

	fmt.Printf("Photos: %d, Workers: %d\n", len(photos), cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()
	results := batch.Run(ctx, batchCfg, photos)

	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", time.Since(start).Seconds())

	var failed []batch.Result
	for _, r := range results {
		if !r.Success {
			failed = append(failed, r)
		}
	}
	fmt.Printf("Decorated: %d/%d\n", len(results)-len(failed), len(results))

	if len(failed) > 0 {
		fmt.Printf("\nFailed (%d):\n", len(failed))
		for _, r := range failed[:min(len(failed), 20)] {
			fmt.Printf("  %s: %s\n", r.Photo, r.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	os.MkdirAll(cfg.OutputDir, 0755)
	if err := batch.WriteManifest(manifestPath, batch.NewManifest(batchCfg, results)); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if len(failed) > 0 {
		return 1
	}
	return 0
}

var photoExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".webp": true, ".bmp": true, ".tga": true,
}

// listPhotos reads a directory of images, or a text file with one ref per
// line. Blank lines and # comments are skipped.
func listPhotos(src string) ([]string, error) {
	fi, err := os.Stat(src)
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		entries, err := os.ReadDir(src)
		if err != nil {
			return nil, err
		}
		var photos []string
		for _, e := range entries {
			if !e.IsDir() && photoExts[strings.ToLower(filepath.Ext(e.Name()))] {
				photos = append(photos, filepath.Join(src, e.Name()))
			}
		}
		sort.Strings(photos)
		return photos, nil
	}

	f, err := os.Open(src)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var photos []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		photos = append(photos, line)
	}
	return photos, sc.Err()
}
