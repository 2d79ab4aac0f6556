package thumbnail

import (
	"context"
	"fmt"
	"io"

	"rawpack/internal/config"
)

// Dimensions describes the rendered thumbnail.
type Dimensions struct {
	Width  int
	Height int
}

// Renderer writes a JPEG thumbnail of sourcePath to w.
type Renderer interface {
	Render(ctx context.Context, sourcePath string, w io.Writer) (Dimensions, error)
}

// Options controls thumbnail geometry and encoding.
type Options struct {
	Width    int
	Height   int
	Quality  int
	Resample string
}

// OptionsFromConfig extracts renderer options from the thumbnail section.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Width:    cfg.Thumbnail.Width,
		Height:   cfg.Thumbnail.Height,
		Quality:  cfg.Thumbnail.Quality,
		Resample: cfg.Thumbnail.Resample,
	}
}

// New returns the renderer selected by the configuration.
func New(cfg *config.Config) (Renderer, error) {
	opts := OptionsFromConfig(cfg)
	switch cfg.Thumbnail.Renderer {
	case "", "builtin":
		return NewBuiltin(opts), nil
	case "ffmpeg":
		return NewFFmpeg(cfg.Thumbnail.FFmpegBinary, opts), nil
	default:
		return nil, fmt.Errorf("unknown thumbnail renderer %q", cfg.Thumbnail.Renderer)
	}
}

// FitWithin scales w×h down to fit inside maxW×maxH while preserving the
// aspect ratio. Images that already fit are returned unchanged.
func FitWithin(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	if maxW <= 0 || maxH <= 0 || (w <= maxW && h <= maxH) {
		return w, h
	}
	scale := min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	nw := max(1, int(float64(w)*scale+0.5))
	nh := max(1, int(float64(h)*scale+0.5))
	return min(nw, maxW), min(nh, maxH)
}
