package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-progressive-pathtracer/pkg/config"
	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/loaders"
	"github.com/df07/go-progressive-pathtracer/pkg/renderer"
	"github.com/df07/go-progressive-pathtracer/pkg/scene"
)

func main() {
	cfg, help, err := parseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(2)
	}
	if help {
		printHelp(os.Stdout, flag.CommandLine)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := renderer.NewDefaultLogger()
	filename, err := run(ctx, cfg, logger)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Render saved as %s\n", filename)
}

// parseConfig reads an optional config file and applies the flags that were
// set explicitly on top of it
func parseConfig(fs *flag.FlagSet, args []string) (*config.Config, bool, error) {
	defaults := config.DefaultConfig()

	configPath := fs.String("config", "", "YAML config file")
	sceneName := fs.String("scene", defaults.Scene, "Built-in scene name or path to a YAML or PBRT scene")
	iterations := fs.Int("iterations", defaults.Iterations, "Number of passes (0 renders until -spp is reached)")
	output := fs.String("output", defaults.Output, "Output directory")
	width := fs.Int("width", defaults.Window.Width, "Image width")
	height := fs.Int("height", defaults.Window.Height, "Image height")
	bounces := fs.Int("bounces", defaults.Render.MaxBounces, "Maximum scattering events per path")
	spp := fs.Int("spp", defaults.Render.MaxPathsPerPixel, "Maximum paths per pixel (0 is unbounded)")
	subsampling := fs.Int("subsampling", defaults.Render.Subsampling, "Render at 1/N resolution and upscale")
	refraction := fs.Bool("refraction", defaults.Render.Refraction, "Use glass/diffuse materials instead of metal/dielectric")
	workers := fs.Int("workers", defaults.Render.NumWorkers, "Number of parallel workers (0 uses all CPUs)")
	envFile := fs.String("env", defaults.Environment.File, "Environment map image (overrides the scene's environment)")
	help := fs.Bool("help", false, "Show help information")

	if err := fs.Parse(args); err != nil {
		return nil, false, err
	}
	if *help {
		return nil, true, nil
	}

	cfg := defaults
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			return nil, false, err
		}
		cfg = loaded
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "scene":
			cfg.Scene = *sceneName
		case "iterations":
			cfg.Iterations = *iterations
		case "output":
			cfg.Output = *output
		case "width":
			cfg.Window.Width = *width
		case "height":
			cfg.Window.Height = *height
		case "bounces":
			cfg.Render.MaxBounces = *bounces
		case "spp":
			cfg.Render.MaxPathsPerPixel = *spp
		case "subsampling":
			cfg.Render.Subsampling = *subsampling
		case "refraction":
			cfg.Render.Refraction = *refraction
		case "workers":
			cfg.Render.NumWorkers = *workers
		case "env":
			cfg.Environment.File = *envFile
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, false, fmt.Errorf("invalid options: %w", err)
	}
	if cfg.Iterations == 0 && cfg.Render.MaxPathsPerPixel == 0 {
		return nil, false, fmt.Errorf("either -iterations or -spp must be positive")
	}
	return cfg, false, nil
}

func printHelp(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Progressive Path Tracer")
	fmt.Fprintln(w, "Usage: pathtracer [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Available scenes:")
	for _, info := range scene.BuiltinScenes() {
		fmt.Fprintf(w, "  %-14s %s\n", info.ID, info.Description)
	}
	fmt.Fprintln(w, "  <file>.yaml    Scene description file")
	fmt.Fprintln(w, "  <file>.pbrt    PBRT v4 scene file")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output will be saved to <output>/<scene>/render_<timestamp>.png, next to")
	fmt.Fprintln(w, "render_<timestamp>.yaml holding the configuration that produced it")
}

// createScene loads the configured scene and applies the environment override
func createScene(cfg *config.Config) (*scene.Scene, error) {
	s, err := scene.Load(cfg.Scene)
	if err != nil {
		return nil, err
	}

	if cfg.Environment.File != "" {
		env, err := loaders.LoadEnvironment(cfg.Environment.File, cfg.Environment.Multiplier)
		if err != nil {
			return nil, fmt.Errorf("failed to load environment: %w", err)
		}
		s.Environment = env
	}
	return s, nil
}

// run renders the configured scene progressively and writes the final pass
func run(ctx context.Context, cfg *config.Config, logger core.Logger) (string, error) {
	s, err := createScene(cfg)
	if err != nil {
		return "", err
	}
	logger.Printf("Scene %q: %d primitives\n", s.Name, s.GetPrimitiveCount())

	img, err := render(ctx, cfg, s, logger)
	if err != nil {
		return "", err
	}

	filename, err := savePNG(img, filepath.Join(cfg.Output, outputName(cfg.Scene)), time.Now())
	if err != nil {
		return "", err
	}

	// The config beside the image is enough to reproduce it with -config
	configFile := strings.TrimSuffix(filename, filepath.Ext(filename)) + ".yaml"
	if err := config.SaveConfig(cfg, configFile); err != nil {
		return "", err
	}
	return filename, nil
}

// render runs passes until the iteration limit or sample budget and returns
// the last display image. Cancellation keeps the last completed pass.
func render(ctx context.Context, cfg *config.Config, s *scene.Scene, logger core.Logger) (*image.RGBA, error) {
	r, err := renderer.NewProgressiveRenderer(s, cfg.Window.Width, cfg.Window.Height, cfg.Settings(), logger)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	view, proj := s.Camera.Matrices(cfg.Window.Width, cfg.Window.Height)
	passChan, errChan := r.RenderProgressive(ctx, view, proj, cfg.Iterations)

	var last *image.RGBA
	start := time.Now()
	for pass := range passChan {
		last = pass.Image
		if pass.IsLast {
			logger.Printf("Render completed in %v (%d samples/pixel, %.0f samples/sec)\n",
				time.Since(start), pass.Stats.SampleCount, pass.Stats.SamplesPerSec)
		}
	}

	if err := <-errChan; err != nil {
		if last != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			logger.Printf("Interrupted, saving last completed pass\n")
			return last, nil
		}
		return nil, err
	}
	if last == nil {
		return nil, fmt.Errorf("no passes rendered")
	}
	return last, nil
}

// outputName turns a scene name or path into a directory name
func outputName(sceneName string) string {
	base := filepath.Base(sceneName)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func savePNG(img image.Image, outputDir string, now time.Time) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory: %w", err)
	}

	filename := filepath.Join(outputDir, fmt.Sprintf("render_%s.png", now.Format("20060102_150405")))
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("error creating file: %w", err)
	}
	if err := writePNG(file, img); err != nil {
		return "", err
	}
	return filename, nil
}

// writePNG encodes img to w and closes it. A failed close is reported.
func writePNG(w io.WriteCloser, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		w.Close()
		return fmt.Errorf("error saving PNG: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("error closing PNG: %w", err)
	}
	return nil
}
