// Command vaictl is a thin CLI shim over the VAI encoder pipeline and
// container codec: encode a frame source into a .vai file, or decode a
// .vai file back into PNG frames (or print its header).
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/kavorite/vai/internal/compositor"
	"github.com/kavorite/vai/internal/encoderpipeline"
	"github.com/kavorite/vai/internal/framesource"
	"github.com/kavorite/vai/internal/sysinfo"
	"github.com/kavorite/vai/internal/vaiconfig"
	"github.com/kavorite/vai/internal/vaicontainer"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "encode":
		err = runEncode(os.Args[2:])
	case "decode":
		err = runDecode(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Printf("[-] %v", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: vaictl encode <input> -o <output.vai> [-profile <profile.yaml>] [flags]")
	fmt.Fprintln(os.Stderr, "       vaictl decode <input.vai> [--info | -o <dir> | --frame N -o <file.png>]")
}

func runEncode(args []string) error {
	fs := flag.NewFlagSet("encode", flag.ExitOnError)
	output := fs.String("o", "", "output .vai path")
	profilePath := fs.String("profile", "", "load default quality/threshold/min-region/fps/workers from a vaiconfig YAML profile")
	quality := fs.Int("quality", 80, "AVIF quality, 1..100 (0 selects the default 80)")
	threshold := fs.Int("threshold", 30, "motion detection threshold, 1..255 (0 selects the default 30)")
	minRegion := fs.Int("min-region", 64, "minimum surviving region size")
	fpsFlag := fs.String("fps", "", "frame-rate override as num/den, e.g. 30/1")
	dpi := fs.Int("dpi", 150, "render DPI when the input is a PDF")
	workers := fs.Int("workers", runtime.NumCPU(), "max concurrent AVIF encodes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("encode: missing <input>")
	}
	input := fs.Arg(0)
	if *output == "" {
		return fmt.Errorf("encode: -o <output.vai> is required")
	}

	sysinfo.RaiseFileLimit(2048)

	src, err := openSource(input, *dpi)
	if err != nil {
		return fmt.Errorf("encode: opening source: %w", err)
	}
	defer src.Close()

	cfg := encoderpipeline.Config{
		Quality:        *quality,
		Threshold:      byte(*threshold),
		MinRegion:      *minRegion,
		MaxConcurrency: *workers,
	}
	if *fpsFlag != "" {
		num, den, err := parseRational(*fpsFlag)
		if err != nil {
			return fmt.Errorf("encode: --fps: %w", err)
		}
		cfg.FPSOverride = &encoderpipeline.Rational{Num: num, Den: den}
	}

	if *profilePath != "" {
		profile, err := vaiconfig.ReadProfile(*profilePath)
		if err != nil {
			return fmt.Errorf("encode: --profile: %w", err)
		}
		applyProfileDefaults(fs, &cfg, profile)
		fmt.Printf("[*] loaded profile %s\n", *profilePath)
	}

	meta, _ := src.Metadata()
	tracker := sysinfo.NewProgressTracker("encoding", 0, 10)
	cfg.Progress = tracker.Callback()
	fmt.Printf("[*] source: %s (%dx%d)\n", input, meta.Width, meta.Height)

	c, err := encoderpipeline.Encode(context.Background(), src, cfg)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	f, err := os.Create(*output)
	if err != nil {
		return fmt.Errorf("encode: creating %s: %w", *output, err)
	}
	defer f.Close()
	if err := vaicontainer.Write(f, c); err != nil {
		return fmt.Errorf("encode: writing container: %w", err)
	}

	fmt.Printf("[+] wrote %s (%d assets, %d timeline entries)\n", *output, len(c.Assets), len(c.Timeline))
	return nil
}

// applyProfileDefaults fills cfg fields from profile, but only for flags the
// caller did not explicitly set on the command line — explicit CLI flags
// always win over a loaded profile.
func applyProfileDefaults(fs *flag.FlagSet, cfg *encoderpipeline.Config, profile vaiconfig.Profile) {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if !set["quality"] {
		cfg.Quality = profile.Quality
	}
	if !set["threshold"] {
		cfg.Threshold = byte(profile.Threshold)
	}
	if !set["min-region"] {
		cfg.MinRegion = profile.MinRegion
	}
	if !set["workers"] && profile.MaxConcurrency > 0 {
		cfg.MaxConcurrency = profile.MaxConcurrency
	}
	if !set["fps"] && profile.FPSNum > 0 && profile.FPSDen > 0 {
		cfg.FPSOverride = &encoderpipeline.Rational{Num: profile.FPSNum, Den: profile.FPSDen}
	}
}

func runDecode(args []string) error {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	info := fs.Bool("info", false, "print header fields and exit")
	outDir := fs.String("o", "", "output directory (frame dump) or file (with --frame)")
	frame := fs.Int("frame", -1, "dump only this frame index to the file given by -o")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("decode: missing <input.vai>")
	}
	input := fs.Arg(0)

	f, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	defer f.Close()
	c, err := vaicontainer.Read(f)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	if *info {
		printInfo(c)
		return nil
	}

	sysinfo.RaiseFileLimit(2048)

	p := compositor.New(c)

	if *frame >= 0 {
		if *outDir == "" {
			return fmt.Errorf("decode: --frame requires -o <file.png>")
		}
		img, err := p.ComposeFrame(uint64(*frame))
		if err != nil {
			return fmt.Errorf("decode: frame %d: %w", *frame, err)
		}
		return writePNG(*outDir, img)
	}

	if *outDir == "" {
		return fmt.Errorf("decode: -o <dir> is required without --info or --frame")
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	total := p.TotalFrames()
	for i := uint64(0); i < total; i++ {
		img, err := p.ComposeFrame(i)
		if err != nil {
			return fmt.Errorf("decode: frame %d: %w", i, err)
		}
		path := filepath.Join(*outDir, fmt.Sprintf("frame_%06d.png", i))
		if err := writePNG(path, img); err != nil {
			return err
		}
	}
	fmt.Printf("[+] wrote %d frames to %s\n", total, *outDir)
	return nil
}

func printInfo(c *vaicontainer.Container) {
	h := c.Header
	fmt.Printf("version: %d\n", h.Version)
	fmt.Printf("dimensions: %dx%d\n", h.Width, h.Height)
	fmt.Printf("fps: %d/%d\n", h.FPSNum, h.FPSDen)
	fmt.Printf("duration_ms: %d\n", h.DurationMs)
	fmt.Printf("assets: %d\n", h.AssetCount)
	fmt.Printf("timeline entries: %d\n", h.TimelineCount)
	fmt.Printf("total_frames: %d\n", c.TotalFrames())
}

func writePNG(path string, img *image.RGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return nil
}

func openSource(input string, dpi int) (framesource.FrameSource, error) {
	if strings.HasSuffix(strings.ToLower(input), ".pdf") {
		return framesource.NewPDFFrameSource(input, dpi, 0, 0)
	}
	return framesource.NewImageFrameSource(input, 0, 0)
}

func parseRational(s string) (num, den uint32, err error) {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected num/den, got %q", s)
	}
	var n, d int
	if _, err := fmt.Sscanf(parts[0], "%d", &n); err != nil {
		return 0, 0, err
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &d); err != nil {
		return 0, 0, err
	}
	return uint32(n), uint32(d), nil
}
