package config

// DefaultSuffix is appended to a source name to form its packaged name.
const DefaultSuffix = ".jpg"

const (
	defaultConfigPath        = "~/.config/rawpack/config.toml"
	defaultLogDir            = "~/.local/share/rawpack/logs"
	defaultStateDir          = "~/.local/share/rawpack"
	defaultRenderer          = "builtin"
	defaultThumbnailWidth    = 640
	defaultThumbnailHeight   = 480
	defaultThumbnailQuality  = 85
	defaultResample          = "catmullrom"
	defaultFFmpegBinary      = "ffmpeg"
	defaultPreflightMinFree  = 512
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultLedgerEnabled     = true
	defaultCaseInsensitive   = false
	defaultIncludeHiddenFile = false
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:   defaultLogDir,
			StateDir: defaultStateDir,
		},
		Pack: Pack{
			Suffix:                DefaultSuffix,
			CaseInsensitiveFilter: defaultCaseInsensitive,
			IncludeHidden:         defaultIncludeHiddenFile,
		},
		Thumbnail: Thumbnail{
			Renderer:     defaultRenderer,
			Width:        defaultThumbnailWidth,
			Height:       defaultThumbnailHeight,
			Quality:      defaultThumbnailQuality,
			Resample:     defaultResample,
			FFmpegBinary: defaultFFmpegBinary,
		},
		Ledger: Ledger{
			Enabled: defaultLedgerEnabled,
		},
		Preflight: Preflight{
			MinFreeMiB: defaultPreflightMinFree,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
