package thumbnail

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"io"

	"golang.org/x/image/draw"

	"rawpack/internal/rawimage"
)

// Builtin renders thumbnails from embedded previews without external tools.
type Builtin struct {
	opts   Options
	scaler draw.Scaler
}

// NewBuiltin constructs the in-process renderer.
func NewBuiltin(opts Options) *Builtin {
	return &Builtin{opts: opts, scaler: scalerFor(opts.Resample)}
}

// Render decodes sourcePath, orients and scales the picture, and encodes it as JPEG.
func (b *Builtin) Render(ctx context.Context, sourcePath string, w io.Writer) (Dimensions, error) {
	if err := ctx.Err(); err != nil {
		return Dimensions{}, err
	}

	img, info, err := rawimage.DecodeFile(sourcePath)
	if err != nil {
		return Dimensions{}, fmt.Errorf("decode %s: %w", sourcePath, err)
	}

	thumb := b.scale(img, info.Orientation)
	quality := b.opts.Quality
	if quality <= 0 {
		quality = jpeg.DefaultQuality
	}
	if err := jpeg.Encode(w, thumb, &jpeg.Options{Quality: quality}); err != nil {
		return Dimensions{}, fmt.Errorf("encode thumbnail: %w", err)
	}

	bounds := thumb.Bounds()
	return Dimensions{Width: bounds.Dx(), Height: bounds.Dy()}, nil
}

// scale fits img into the bounding box as it will be displayed, so portrait
// frames get the same treatment as landscape ones, then applies orientation
// to the already small result.
func (b *Builtin) scale(img image.Image, orientation int) image.Image {
	src := img.Bounds()
	sw, sh := src.Dx(), src.Dy()
	if rawimage.SwapsAxes(orientation) {
		sw, sh = sh, sw
	}
	tw, th := FitWithin(sw, sh, b.opts.Width, b.opts.Height)
	if rawimage.SwapsAxes(orientation) {
		tw, th = th, tw
	}

	var scaled image.Image = img
	if tw != src.Dx() || th != src.Dy() {
		dst := image.NewRGBA(image.Rect(0, 0, tw, th))
		b.scaler.Scale(dst, dst.Bounds(), img, src, draw.Src, nil)
		scaled = dst
	}
	return rawimage.Orient(scaled, orientation)
}

func scalerFor(name string) draw.Scaler {
	switch name {
	case "nearest":
		return draw.NearestNeighbor
	case "approx":
		return draw.ApproxBiLinear
	case "bilinear":
		return draw.BiLinear
	default:
		return draw.CatmullRom
	}
}
