// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gobuffalo/envy"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Environment keys read by LoadConfiguration.
const (
	EnvScreenWidth       = "KORU_SCREEN_WIDTH"
	EnvScreenHeight      = "KORU_SCREEN_HEIGHT"
	EnvFramesPerSecond   = "KORU_FPS"
	EnvClearColor        = "KORU_CLEAR_COLOR"
	EnvMaxTextureUnits   = "KORU_MAX_TEXTURE_UNITS"
	EnvMaxBufferBindings = "KORU_MAX_BUFFER_BINDINGS"
	EnvLogLevel          = "KORU_LOG_LEVEL"
)

// Configuration defines a global engine configuration setting
type Configuration struct {
	Time     TimeConfiguration
	Renderer RendererConfiguration

	// LogLevel is a logrus level name.
	LogLevel string
}

// TimeConfiguration is used to configure time services
type TimeConfiguration struct {
	// FramesPerSecond caps frames per second that is put out
	// To unlimit, set to 0
	FramesPerSecond int
}

// RendererConfiguration is used to configure the renderer
type RendererConfiguration struct {
	ScreenWidth  uint32
	ScreenHeight uint32

	ClearColor mgl32.Vec4

	// MaxTextureUnits caps the texture units a pipeline may hold at once.
	// 0 leaves the limit to the driver.
	MaxTextureUnits uint32

	// MaxBufferBindings caps the uniform buffer bindings a pipeline may
	// hold at once. 0 leaves the limit to the driver.
	MaxBufferBindings uint32
}

// DefaultConfiguration returns the configuration used for unset keys.
func DefaultConfiguration() Configuration {
	return Configuration{
		Time: TimeConfiguration{
			FramesPerSecond: 60,
		},
		Renderer: RendererConfiguration{
			ScreenWidth:  1280,
			ScreenHeight: 720,
			ClearColor:   mgl32.Vec4{0, 0, 0, 1},
		},
		LogLevel: "info",
	}
}

// LoadConfiguration loads the given dotenv files that exist, later files
// overriding earlier ones, and reads the configuration from the
// environment on top of DefaultConfiguration.
func LoadConfiguration(files ...string) (Configuration, error) {
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) > 0 {
		if err := godotenv.Overload(existing...); err != nil {
			return Configuration{}, errors.Wrap(err, "godotenv.Overload()")
		}
	}
	envy.Reload()

	cfg := DefaultConfiguration()
	var err error
	if cfg.Renderer.ScreenWidth, err = envUint32(EnvScreenWidth, cfg.Renderer.ScreenWidth); err != nil {
		return Configuration{}, err
	}
	if cfg.Renderer.ScreenHeight, err = envUint32(EnvScreenHeight, cfg.Renderer.ScreenHeight); err != nil {
		return Configuration{}, err
	}
	if cfg.Renderer.MaxTextureUnits, err = envUint32(EnvMaxTextureUnits, cfg.Renderer.MaxTextureUnits); err != nil {
		return Configuration{}, err
	}
	if cfg.Renderer.MaxBufferBindings, err = envUint32(EnvMaxBufferBindings, cfg.Renderer.MaxBufferBindings); err != nil {
		return Configuration{}, err
	}

	fps, err := envUint32(EnvFramesPerSecond, uint32(cfg.Time.FramesPerSecond))
	if err != nil {
		return Configuration{}, err
	}
	cfg.Time.FramesPerSecond = int(fps)

	if s := envy.Get(EnvClearColor, ""); s != "" {
		if cfg.Renderer.ClearColor, err = ParseColor(s); err != nil {
			return Configuration{}, errors.Wrap(err, EnvClearColor)
		}
	}

	if s := envy.Get(EnvLogLevel, ""); s != "" {
		cfg.LogLevel = s
	}
	return cfg, nil
}

func envUint32(key string, fallback uint32) (uint32, error) {
	s := envy.Get(key, "")
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "%s=%q", key, s)
	}
	return uint32(v), nil
}

// ParseColor parses "r,g,b,a" with components in [0, 1]. The alpha
// component may be left out and defaults to 1.
func ParseColor(s string) (mgl32.Vec4, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return mgl32.Vec4{}, errors.Errorf("color %q needs 3 or 4 components", s)
	}
	c := mgl32.Vec4{0, 0, 0, 1}
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return mgl32.Vec4{}, errors.Wrapf(err, "color component %d", i)
		}
		if f < 0 || f > 1 {
			return mgl32.Vec4{}, errors.Errorf("color component %d out of range: %v", i, f)
		}
		c[i] = float32(f)
	}
	return c, nil
}
