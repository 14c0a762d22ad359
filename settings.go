package compositor

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/pelletier/go-toml/v2"
)

// ErrInvalidSettings is returned when settings fail validation.
var ErrInvalidSettings = errors.New("compositor: invalid settings")

// DefaultMaxTextureSize is the largest texture edge the software path
// allocates unless configured otherwise.
const DefaultMaxTextureSize = 8192

// Settings configures a renderer at construction time. There is no
// process-wide configuration; every renderer receives its own Settings.
type Settings struct {
	// UseMapImage enables the deferred GPU initialization path: frames are
	// mirrored into mapped GPU images when the output surface supports it.
	UseMapImage bool

	// AllowPartialTextureUpdates lets resource uploads cover only the dirty
	// region of a bitmap instead of the whole texture.
	AllowPartialTextureUpdates bool

	// DebugColors fills unsupported quads with magenta instead of white
	// and clears opaque passes with blue so unpainted regions stand out.
	DebugColors bool

	// ShowHUD draws the frame statistics overlay on the root pass.
	ShowHUD bool

	// MaxTextureSize bounds the edge length of any resource.
	MaxTextureSize int

	// TextureFormat is the preferred format for GPU textures.
	TextureFormat gputypes.TextureFormat
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		AllowPartialTextureUpdates: true,
		MaxTextureSize:             DefaultMaxTextureSize,
		TextureFormat:              gputypes.TextureFormatRGBA8Unorm,
	}
}

// Option modifies Settings.
//
// Example:
//
//	s := compositor.NewSettings(
//	    compositor.WithDebugColors(true),
//	    compositor.WithMaxTextureSize(4096),
//	)
type Option func(*Settings)

// NewSettings returns DefaultSettings with opts applied.
func NewSettings(opts ...Option) Settings {
	s := DefaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithMapImage toggles the deferred GPU initialization path.
func WithMapImage(enabled bool) Option {
	return func(s *Settings) {
		s.UseMapImage = enabled
	}
}

// WithPartialTextureUpdates toggles dirty-region texture uploads.
func WithPartialTextureUpdates(enabled bool) Option {
	return func(s *Settings) {
		s.AllowPartialTextureUpdates = enabled
	}
}

// WithDebugColors toggles the conspicuous debug fills.
func WithDebugColors(enabled bool) Option {
	return func(s *Settings) {
		s.DebugColors = enabled
	}
}

// WithHUD toggles the statistics overlay.
func WithHUD(enabled bool) Option {
	return func(s *Settings) {
		s.ShowHUD = enabled
	}
}

// WithMaxTextureSize sets the largest texture edge.
func WithMaxTextureSize(n int) Option {
	return func(s *Settings) {
		s.MaxTextureSize = n
	}
}

// WithTextureFormat sets the preferred GPU texture format.
func WithTextureFormat(f gputypes.TextureFormat) Option {
	return func(s *Settings) {
		s.TextureFormat = f
	}
}

// Validate checks the settings for values no renderer can honor.
func (s Settings) Validate() error {
	if s.MaxTextureSize <= 0 {
		return fmt.Errorf("%w: max texture size %d", ErrInvalidSettings, s.MaxTextureSize)
	}
	switch s.TextureFormat {
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatBGRA8Unorm:
	default:
		return fmt.Errorf("%w: unsupported texture format %v", ErrInvalidSettings, s.TextureFormat)
	}
	return nil
}

// settingsFile is the on-disk TOML form of Settings.
type settingsFile struct {
	UseMapImage                *bool  `toml:"use_map_image"`
	AllowPartialTextureUpdates *bool  `toml:"allow_partial_texture_updates"`
	DebugColors                *bool  `toml:"debug_colors"`
	ShowHUD                    *bool  `toml:"show_hud"`
	MaxTextureSize             *int   `toml:"max_texture_size"`
	TextureFormat              string `toml:"texture_format"`
}

// ParseSettings decodes TOML on top of DefaultSettings. Keys that are absent
// keep their default values.
//
//	use_map_image = true
//	debug_colors = true
//	max_texture_size = 4096
//	texture_format = "bgra8unorm"
func ParseSettings(data []byte) (Settings, error) {
	var f settingsFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return Settings{}, fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}

	s := DefaultSettings()
	if f.UseMapImage != nil {
		s.UseMapImage = *f.UseMapImage
	}
	if f.AllowPartialTextureUpdates != nil {
		s.AllowPartialTextureUpdates = *f.AllowPartialTextureUpdates
	}
	if f.DebugColors != nil {
		s.DebugColors = *f.DebugColors
	}
	if f.ShowHUD != nil {
		s.ShowHUD = *f.ShowHUD
	}
	if f.MaxTextureSize != nil {
		s.MaxTextureSize = *f.MaxTextureSize
	}
	switch strings.ToLower(f.TextureFormat) {
	case "":
	case "rgba8unorm":
		s.TextureFormat = gputypes.TextureFormatRGBA8Unorm
	case "bgra8unorm":
		s.TextureFormat = gputypes.TextureFormatBGRA8Unorm
	default:
		return Settings{}, fmt.Errorf("%w: unknown texture format %q", ErrInvalidSettings, f.TextureFormat)
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// LoadSettings reads and parses a TOML settings file.
func LoadSettings(path string) (Settings, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided config
	if err != nil {
		return Settings{}, fmt.Errorf("compositor: read settings: %w", err)
	}
	return ParseSettings(data)
}
