// Package config loads floorplan settings from a config file, FLOORPLAN_*
// environment variables and built-in defaults, in that order of
// precedence after the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chazu/floorplan/pkg/kernel/sdfx"
	"github.com/chazu/floorplan/pkg/logging"
	"github.com/chazu/floorplan/pkg/scene"
	"github.com/chazu/floorplan/pkg/viewport"
	"github.com/chazu/floorplan/pkg/workspace"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// FileName is the config file base name searched for by Load.
const FileName = "floorplan"

// EnvPrefix prefixes environment overrides, e.g.
// FLOORPLAN_EDITOR_CLOSETHRESHOLD=0.25.
const EnvPrefix = "FLOORPLAN"

// Config is the complete floorplan configuration.
type Config struct {
	Editor  EditorConfig  `yaml:"editor" mapstructure:"editor"`
	Render  RenderConfig  `yaml:"render" mapstructure:"render"`
	Camera  CameraConfig  `yaml:"camera" mapstructure:"camera"`
	Script  ScriptConfig  `yaml:"script" mapstructure:"script"`
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
}

// EditorConfig tunes the editing core.
type EditorConfig struct {
	CloseThreshold   float64 `yaml:"closeThreshold" mapstructure:"closeThreshold"`
	MinSegmentLength float64 `yaml:"minSegmentLength" mapstructure:"minSegmentLength"`
	DragHistory      string  `yaml:"dragHistory" mapstructure:"dragHistory"` // batched | per-tick
	HistoryLimit     int     `yaml:"historyLimit" mapstructure:"historyLimit"`
}

// RenderConfig controls mesh generation.
type RenderConfig struct {
	MeshCells int `yaml:"meshCells" mapstructure:"meshCells"`
}

// CameraConfig sets up the viewport cameras.
type CameraConfig struct {
	FOV       float64 `yaml:"fov" mapstructure:"fov"`             // degrees, perspective
	Distance  float64 `yaml:"distance" mapstructure:"distance"`   // perspective eye offset per axis
	OrthoZoom float64 `yaml:"orthoZoom" mapstructure:"orthoZoom"` // pixels per world unit, top-down
}

// ScriptConfig controls the script engine.
type ScriptConfig struct {
	TimeoutMs int `yaml:"timeoutMs" mapstructure:"timeoutMs"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // json | console
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	cam := viewport.DefaultCamera()
	return &Config{
		Editor: EditorConfig{
			CloseThreshold:   workspace.DefaultCloseThreshold,
			MinSegmentLength: workspace.DefaultMinSegmentLength,
			DragHistory:      workspace.DragBatched.String(),
			HistoryLimit:     0,
		},
		Render: RenderConfig{
			MeshCells: sdfx.DefaultMeshCells,
		},
		Camera: CameraConfig{
			FOV:       cam.FOV,
			Distance:  cam.Eye.X,
			OrthoZoom: cam.Zoom,
		},
		Script: ScriptConfig{
			TimeoutMs: 5000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: logging.FormatJSON,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("editor.closeThreshold", d.Editor.CloseThreshold)
	v.SetDefault("editor.minSegmentLength", d.Editor.MinSegmentLength)
	v.SetDefault("editor.dragHistory", d.Editor.DragHistory)
	v.SetDefault("editor.historyLimit", d.Editor.HistoryLimit)
	v.SetDefault("render.meshCells", d.Render.MeshCells)
	v.SetDefault("camera.fov", d.Camera.FOV)
	v.SetDefault("camera.distance", d.Camera.Distance)
	v.SetDefault("camera.orthoZoom", d.Camera.OrthoZoom)
	v.SetDefault("script.timeoutMs", d.Script.TimeoutMs)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
}

// Load reads configuration. An explicit path must exist; with an empty
// path Load looks for floorplan.{yaml,json,toml} in the working directory
// and the user config directory, and falls back to defaults when none is
// found. Environment overrides apply either way.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "floorplan"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write: %w", err)
	}
	return nil
}

// Validate checks every field and reports the first problem found.
func (c *Config) Validate() error {
	e := c.Editor
	if e.CloseThreshold <= 0 {
		return &ConfigError{Field: "editor.closeThreshold", Message: "must be positive"}
	}
	if e.MinSegmentLength < 0 || e.MinSegmentLength >= e.CloseThreshold {
		return &ConfigError{Field: "editor.minSegmentLength", Message: "must be in [0, closeThreshold)"}
	}
	if _, err := workspace.ParseDragHistory(e.DragHistory); err != nil {
		return &ConfigError{Field: "editor.dragHistory", Message: err.Error()}
	}
	if e.HistoryLimit < 0 {
		return &ConfigError{Field: "editor.historyLimit", Message: "must not be negative"}
	}
	if c.Render.MeshCells < 8 || c.Render.MeshCells > 1000 {
		return &ConfigError{Field: "render.meshCells", Message: "must be between 8 and 1000"}
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		return &ConfigError{Field: "camera.fov", Message: "must be between 0 and 180 degrees"}
	}
	if c.Camera.Distance <= 0 {
		return &ConfigError{Field: "camera.distance", Message: "must be positive"}
	}
	if c.Camera.OrthoZoom <= 0 {
		return &ConfigError{Field: "camera.orthoZoom", Message: "must be positive"}
	}
	if c.Script.TimeoutMs <= 0 {
		return &ConfigError{Field: "script.timeoutMs", Message: "must be positive"}
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return &ConfigError{Field: "logging.level", Message: err.Error()}
	}
	switch c.Logging.Format {
	case logging.FormatJSON, logging.FormatConsole:
	default:
		return &ConfigError{Field: "logging.format", Message: "must be json or console"}
	}
	return nil
}

// WorkspaceOptions maps the editor section onto workspace options.
func (c *Config) WorkspaceOptions(log *zap.Logger) workspace.Options {
	dh, _ := workspace.ParseDragHistory(c.Editor.DragHistory)
	return workspace.Options{
		CloseThreshold:   c.Editor.CloseThreshold,
		MinSegmentLength: c.Editor.MinSegmentLength,
		DragHistory:      dh,
		HistoryLimit:     c.Editor.HistoryLimit,
		NewID:            scene.NewID,
		Logger:           log,
	}
}

// ViewportCamera builds the camera described by the camera section.
func (c *Config) ViewportCamera() viewport.Camera {
	cam := viewport.DefaultCamera()
	cam.FOV = c.Camera.FOV
	cam.Eye = scene.Vec3{X: c.Camera.Distance, Y: c.Camera.Distance, Z: c.Camera.Distance}
	cam.Zoom = c.Camera.OrthoZoom
	return cam
}

// ScriptTimeout returns the script evaluation limit.
func (c *Config) ScriptTimeout() time.Duration {
	return time.Duration(c.Script.TimeoutMs) * time.Millisecond
}

// Logger builds the logger described by the logging section.
func (c *Config) Logger() (*zap.Logger, zap.AtomicLevel, error) {
	return logging.New(c.Logging.Level, c.Logging.Format)
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
