package packager

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"rawpack/internal/config"
	"rawpack/internal/failures"
	"rawpack/internal/fileutil"
	"rawpack/internal/logging"
	"rawpack/internal/rawimage"
	"rawpack/internal/thumbnail"
)

const (
	thumbnailName = "thumbnail.jpg"
	frameName     = "frame.zip"
)

// Output describes a packaged file written by PackageFile.
type Output struct {
	Source          string
	Path            string
	EntryName       string
	SourceSize      int64
	SourceModTime   time.Time
	CRC32           uint32
	ThumbnailBytes  int64
	ArchiveBytes    int64
	ThumbnailWidth  int
	ThumbnailHeight int
}

// TotalBytes is the size of the packaged file.
func (o Output) TotalBytes() int64 {
	return o.ThumbnailBytes + o.ArchiveBytes
}

// Packager builds packaged files one at a time.
type Packager struct {
	renderer thumbnail.Renderer
	tempDir  string
	suffix   string
	logger   *slog.Logger
}

// New constructs a packager around renderer. Temporary work happens under
// cfg.Paths.TempDir, or the system temp directory when it is empty.
func New(cfg *config.Config, renderer thumbnail.Renderer, logger *slog.Logger) *Packager {
	p := &Packager{
		renderer: renderer,
		suffix:   config.DefaultSuffix,
		logger:   logging.NewComponentLogger(logger, "packager"),
	}
	if cfg != nil {
		p.tempDir = cfg.Paths.TempDir
		if s := strings.TrimSpace(cfg.Pack.Suffix); s != "" {
			p.suffix = s
		}
	}
	return p
}

// NewFromConfig builds the configured thumbnail renderer and wraps it.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) (*Packager, error) {
	renderer, err := thumbnail.New(cfg)
	if err != nil {
		return nil, err
	}
	return New(cfg, renderer, logger), nil
}

// DefaultTarget returns the packaged path used when no target is given.
func (p *Packager) DefaultTarget(sourceFile string) string {
	return sourceFile + p.suffix
}

// PackageFile packages sourceFile into targetFile. An empty targetFile means
// the source path plus the configured suffix. The source is never modified.
func (p *Packager) PackageFile(ctx context.Context, sourceFile, targetFile string) (Output, error) {
	state := StateStart
	fail := func(stage string, err error) (Output, error) {
		p.logger.Debug("packaging failed",
			logging.String(logging.FieldSource, sourceFile),
			logging.String(logging.FieldStage, stage),
			logging.String("reached", string(state)),
			logging.Error(err),
		)
		return Output{}, &Error{Source: sourceFile, Stage: stage, Reached: state, Err: err}
	}

	if strings.TrimSpace(sourceFile) == "" {
		return fail(stageThumbnail, failures.Argumentf("source file is required"))
	}
	if strings.TrimSpace(targetFile) == "" {
		targetFile = p.DefaultTarget(sourceFile)
	}

	info, err := os.Stat(sourceFile)
	if err != nil {
		return fail(stageThumbnail, failures.Wrap(failures.ErrIO, stageThumbnail, "stat source", sourceFile, err))
	}
	if !info.Mode().IsRegular() {
		return fail(stageThumbnail, failures.Wrap(failures.ErrIO, stageThumbnail, "stat source", sourceFile+" is not a regular file", nil))
	}

	if p.tempDir != "" {
		if err := os.MkdirAll(p.tempDir, 0o755); err != nil {
			return fail(stageThumbnail, failures.Wrap(failures.ErrIO, stageThumbnail, "create temp root", p.tempDir, err))
		}
	}
	workDir, err := os.MkdirTemp(p.tempDir, "rawpack-")
	if err != nil {
		return fail(stageThumbnail, failures.Wrap(failures.ErrIO, stageThumbnail, "create temp dir", "", err))
	}
	defer func() {
		if rmErr := os.RemoveAll(workDir); rmErr != nil {
			p.logger.Warn("failed to remove packaging temp dir",
				logging.String("path", workDir),
				logging.Error(rmErr),
				logging.String(logging.FieldEventType, "temp_cleanup_failed"),
				logging.String(logging.FieldImpact, "temporary files remain on disk"),
			)
		}
	}()

	thumbPath := filepath.Join(workDir, thumbnailName)
	dims, thumbBytes, err := p.writeThumbnail(ctx, sourceFile, thumbPath)
	if err != nil {
		return fail(stageThumbnail, err)
	}
	state = StateThumbnailCreated
	p.logger.Debug("thumbnail created",
		logging.String(logging.FieldSource, sourceFile),
		logging.Int("width", dims.Width),
		logging.Int("height", dims.Height),
		logging.Int64("bytes", thumbBytes),
	)

	framePath := filepath.Join(workDir, frameName)
	frame, err := writeFrame(sourceFile, info, framePath, thumbBytes)
	if err != nil {
		return fail(stageArchive, err)
	}
	state = StateArchiveCreated

	appended, err := fileutil.AppendFile(thumbPath, framePath)
	if err != nil {
		return fail(stageCombine, failures.Wrap(failures.ErrIO, stageCombine, "append archive", "", err))
	}
	if appended != frame.size {
		return fail(stageCombine, failures.Wrap(failures.ErrIO, stageCombine, "append archive",
			fmt.Sprintf("appended %d of %d bytes", appended, frame.size), nil))
	}
	state = StateCombined

	if err := os.MkdirAll(filepath.Dir(targetFile), 0o755); err != nil {
		return fail(stageMove, failures.Wrap(failures.ErrIO, stageMove, "create target dir", filepath.Dir(targetFile), err))
	}
	if err := fileutil.MoveFile(thumbPath, targetFile); err != nil {
		return fail(stageMove, failures.Wrap(failures.ErrIO, stageMove, "move into place", targetFile, err))
	}
	state = StateMoved

	return Output{
		Source:          sourceFile,
		Path:            targetFile,
		EntryName:       frame.entryName,
		SourceSize:      frame.payload,
		SourceModTime:   info.ModTime(),
		CRC32:           frame.crc,
		ThumbnailBytes:  thumbBytes,
		ArchiveBytes:    frame.size,
		ThumbnailWidth:  dims.Width,
		ThumbnailHeight: dims.Height,
	}, nil
}

func (p *Packager) writeThumbnail(ctx context.Context, sourceFile, thumbPath string) (thumbnail.Dimensions, int64, error) {
	var buf bytes.Buffer
	dims, err := p.renderer.Render(ctx, sourceFile, &buf)
	if err != nil {
		return thumbnail.Dimensions{}, 0, failures.Wrap(renderMarker(err), stageThumbnail, "render", sourceFile, err)
	}
	if buf.Len() == 0 {
		return thumbnail.Dimensions{}, 0, failures.Wrap(failures.ErrDecode, stageThumbnail, "render", "renderer produced no data", nil)
	}
	if err := os.WriteFile(thumbPath, buf.Bytes(), 0o644); err != nil {
		return thumbnail.Dimensions{}, 0, failures.Wrap(failures.ErrIO, stageThumbnail, "write thumbnail", "", err)
	}
	return dims, int64(buf.Len()), nil
}

// renderMarker classifies a renderer failure. Anything that is not an
// access problem means the source could not be interpreted as an image.
func renderMarker(err error) error {
	switch {
	case errors.Is(err, rawimage.ErrNoImage), errors.Is(err, thumbnail.ErrToolFailed):
		return failures.ErrDecode
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
		return failures.ErrIO
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return failures.ErrIO
	default:
		return failures.ErrDecode
	}
}
