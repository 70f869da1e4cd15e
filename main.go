package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/df07/go-weekend-raytracer/pkg/output"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
	"github.com/df07/go-weekend-raytracer/pkg/scene"
)

// options holds the parsed command line
type options struct {
	sceneType string
	width     int
	samples   int
	depth     int
	seed      int64
	format    string
	out       string
	scale     int
	progress  bool
	verbose   bool
	quiet     bool
	help      bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func parseFlags(args []string, stderr io.Writer) (*options, *flag.FlagSet, error) {
	opts := &options{}
	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.sceneType, "scene", "default", "Scene type: 'default', 'simple' or 'materials'")
	fs.IntVar(&opts.width, "width", 0, "Image width in pixels (0 uses the scene's width)")
	fs.IntVar(&opts.samples, "samples", 0, "Samples per pixel (0 uses the scene's setting)")
	fs.IntVar(&opts.depth, "depth", -1, "Maximum bounce depth (-1 uses the scene's setting)")
	fs.Int64Var(&opts.seed, "seed", 0, "Random seed (0 seeds from the clock)")
	fs.StringVar(&opts.format, "format", "ppm", "Output format: ppm, png, bmp or tiff")
	fs.StringVar(&opts.out, "out", "", "Output file (default stdout)")
	fs.IntVar(&opts.scale, "scale", 1, "Integer nearest-neighbour enlargement of the output")
	fs.BoolVar(&opts.progress, "progress", false, "Log scanline progress")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable debug logging")
	fs.BoolVar(&opts.quiet, "quiet", false, "Only log warnings and errors")
	fs.BoolVar(&opts.help, "help", false, "Show help information")

	if err := fs.Parse(args); err != nil {
		return nil, fs, err
	}
	return opts, fs, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, fs, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if opts.help {
		printHelp(stderr, fs)
		return 0
	}

	logger := newLogger(stderr, opts)
	if err := render(ctx, opts, stdout, logger); err != nil {
		logger.Error("render failed", "error", err)
		return 1
	}
	return 0
}

func printHelp(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Weekend Raytracer")
	fmt.Fprintln(w, "Usage: raytracer [options] > image.ppm")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Available scenes:")
	for _, info := range scene.ListBuiltinScenes() {
		fmt.Fprintf(w, "  %-10s - %s\n", info.ID, info.Description)
	}
}

func newLogger(w io.Writer, opts *options) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case opts.verbose:
		level = slog.LevelDebug
	case opts.quiet:
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// createScene builds the named scene and applies command line overrides
func createScene(opts *options) (*scene.Scene, error) {
	s, err := scene.NewSceneByName(opts.sceneType)
	if err != nil {
		return nil, err
	}

	if opts.width > 0 {
		s.Width = opts.width
		s.Height = scene.ImageHeight(opts.width, s.Camera.AspectRatio())
	}
	if opts.samples > 0 {
		s.SamplingConfig.SamplesPerPixel = opts.samples
	}
	if opts.depth >= 0 {
		s.SamplingConfig.MaxDepth = opts.depth
	}
	s.SamplingConfig.Seed = opts.seed
	if s.SamplingConfig.Seed == 0 {
		s.SamplingConfig.Seed = time.Now().UnixNano()
	}
	return s, nil
}

// createOutput opens the -out destination
var createOutput = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

func render(ctx context.Context, opts *options, stdout io.Writer, logger *slog.Logger) error {
	format, err := output.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	if opts.scale < 1 {
		return fmt.Errorf("%w: scale must be at least 1, got %d", renderer.ErrInvalidConfig, opts.scale)
	}

	s, err := createScene(opts)
	if err != nil {
		return err
	}
	logger.Debug("scene created",
		"scene", opts.sceneType,
		"primitives", s.GetPrimitiveCount(),
		"materials", len(s.Materials()),
		"seed", s.SamplingConfig.Seed)

	rt := renderer.NewRaytracer(s, s.Width, s.Height)
	rt.SetSamplingConfig(s.SamplingConfig)
	rt.SetLogger(logger)
	if opts.progress {
		reporter := output.NewProgressReporter(logger, s.Width, time.Second)
		rt.SetProgress(reporter.Func())
		reporter.Start()
	}

	if opts.out == "" {
		return renderTo(ctx, rt, stdout, format, opts.scale)
	}

	f, err := createOutput(opts.out)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if err := renderTo(ctx, rt, f, format, opts.scale); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output file: %w", err)
	}
	logger.Info("image saved", "file", opts.out, "format", format)
	return nil
}

// renderTo renders into w, streaming PPM directly and sending everything else through a raster
func renderTo(ctx context.Context, rt *renderer.Raytracer, w io.Writer, format output.Format, scale int) error {
	if format == output.FormatPPM && scale == 1 {
		_, err := rt.Render(ctx, output.NewPPMWriter(w))
		return err
	}

	buf := output.NewImageBuffer()
	if _, err := rt.Render(ctx, buf); err != nil {
		return err
	}
	return output.Encode(w, output.Upscale(buf.Image(), scale), format)
}
