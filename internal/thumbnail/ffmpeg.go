package thumbnail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/jpeg"
	"io"
	"os/exec"
	"strconv"
	"strings"
)

// FFmpeg renders thumbnails by piping a single MJPEG frame out of ffmpeg.
type FFmpeg struct {
	binary string
	opts   Options
}

// ErrToolFailed marks a non-zero exit from the external renderer.
var ErrToolFailed = errors.New("thumbnail tool failed")

// NewFFmpeg constructs a renderer that shells out to binary.
func NewFFmpeg(binary string, opts Options) *FFmpeg {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	return &FFmpeg{binary: binary, opts: opts}
}

// Binary returns the executable the renderer runs.
func (f *FFmpeg) Binary() string {
	return f.binary
}

// Args returns the ffmpeg argument list for sourcePath.
func (f *FFmpeg) Args(sourcePath string) []string {
	return []string{
		"-v", "error",
		"-hide_banner",
		"-nostdin",
		"-i", sourcePath,
		"-frames:v", "1",
		"-vf", fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease", f.opts.Width, f.opts.Height),
		"-q:v", strconv.Itoa(qscale(f.opts.Quality)),
		"-f", "image2pipe",
		"-vcodec", "mjpeg",
		"-",
	}
}

// Render runs ffmpeg and copies the produced JPEG to w.
func (f *FFmpeg) Render(ctx context.Context, sourcePath string, w io.Writer) (Dimensions, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, f.binary, f.Args(sourcePath)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return Dimensions{}, fmt.Errorf("%w: %s: %w: %s", ErrToolFailed, f.binary, err, strings.TrimSpace(stderr.String()))
	}
	if stdout.Len() == 0 {
		return Dimensions{}, fmt.Errorf("%w: %s produced no output", ErrToolFailed, f.binary)
	}

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(stdout.Bytes()))
	if err != nil {
		return Dimensions{}, fmt.Errorf("%w: %s output is not a jpeg: %w", ErrToolFailed, f.binary, err)
	}
	if _, err := w.Write(stdout.Bytes()); err != nil {
		return Dimensions{}, fmt.Errorf("write thumbnail: %w", err)
	}
	return Dimensions{Width: cfg.Width, Height: cfg.Height}, nil
}

// qscale maps a 1-100 JPEG quality onto ffmpeg's 2-31 mjpeg scale, where
// lower is better.
func qscale(quality int) int {
	if quality <= 0 {
		quality = 75
	}
	q := 31 - (quality*29)/100
	return max(2, min(31, q))
}
