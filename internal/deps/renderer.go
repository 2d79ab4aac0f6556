package deps

import "rawpack/internal/config"

// RendererRequirements lists the programs the configured thumbnail renderer
// shells out to. The builtin renderer needs none.
func RendererRequirements(cfg *config.Config) []Requirement {
	if cfg == nil || cfg.Thumbnail.Renderer != "ffmpeg" {
		return nil
	}
	return []Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.Thumbnail.FFmpegBinary,
			Description: "Required by the ffmpeg thumbnail renderer",
		},
	}
}
