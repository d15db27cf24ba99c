package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/heos-control/heos-go/pkg/heos"
	"github.com/heos-control/heos-go/pkg/transport"
)

// ErrUnsupportedFormat indicates a config file with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Defaults.
const (
	DefaultTimeout  = transport.DefaultTimeout
	DefaultLogLevel = "info"
)

// Config holds heos-ctl settings.
type Config struct {
	Host         string
	Port         int
	Timeout      time.Duration
	MaxFrameSize int
	Player       heos.PlayerIdentity

	// ProtocolLog is the capture file path; empty disables capture.
	ProtocolLog string

	// StateDir holds the player cache.
	StateDir string

	LogLevel string
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Port:     heos.DefaultPort,
		Timeout:  DefaultTimeout,
		StateDir: defaultStateDir(),
		LogLevel: DefaultLogLevel,
	}
}

func defaultStateDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".heos"
	}
	return filepath.Join(dir, "heos")
}

type playerFile struct {
	PID   int64  `yaml:"pid" toml:"pid"`
	Name  string `yaml:"name" toml:"name"`
	Model string `yaml:"model" toml:"model"`
}

type fileConfig struct {
	Host         string     `yaml:"host" toml:"host"`
	Port         int        `yaml:"port" toml:"port"`
	Timeout      string     `yaml:"timeout" toml:"timeout"`
	MaxFrameSize int        `yaml:"max_frame_size" toml:"max_frame_size"`
	Player       playerFile `yaml:"player" toml:"player"`
	ProtocolLog  string     `yaml:"protocol_log" toml:"protocol_log"`
	StateDir     string     `yaml:"state_dir" toml:"state_dir"`
	LogLevel     string     `yaml:"log_level" toml:"log_level"`
}

// Load reads path over the defaults. An empty path returns Default().
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = cfg.applyYAML(data)
	case ".toml":
		err = cfg.applyTOML(data)
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyYAML(data []byte) error {
	raw := fileConfig{
		Host:         c.Host,
		Port:         c.Port,
		Timeout:      c.Timeout.String(),
		MaxFrameSize: c.MaxFrameSize,
		ProtocolLog:  c.ProtocolLog,
		StateDir:     c.StateDir,
		LogLevel:     c.LogLevel,
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	timeout, err := time.ParseDuration(strings.TrimSpace(raw.Timeout))
	if err != nil {
		return fmt.Errorf("parse timeout: %w", err)
	}

	c.Host = strings.TrimSpace(raw.Host)
	c.Port = raw.Port
	c.Timeout = timeout
	c.MaxFrameSize = raw.MaxFrameSize
	c.Player = heos.PlayerIdentity{PersistentID: raw.Player.PID, Name: raw.Player.Name, Model: raw.Player.Model}
	c.ProtocolLog = raw.ProtocolLog
	c.StateDir = raw.StateDir
	c.LogLevel = raw.LogLevel
	return nil
}

func (c *Config) applyTOML(data []byte) error {
	var raw fileConfig
	meta, err := toml.Decode(string(data), &raw)
	if err != nil {
		return err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}

	if meta.IsDefined("host") {
		c.Host = strings.TrimSpace(raw.Host)
	}
	if meta.IsDefined("port") {
		c.Port = raw.Port
	}
	if meta.IsDefined("timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Timeout))
		if err != nil {
			return fmt.Errorf("parse timeout: %w", err)
		}
		c.Timeout = d
	}
	if meta.IsDefined("max_frame_size") {
		c.MaxFrameSize = raw.MaxFrameSize
	}
	if meta.IsDefined("player", "pid") {
		c.Player.PersistentID = raw.Player.PID
	}
	if meta.IsDefined("player", "name") {
		c.Player.Name = raw.Player.Name
	}
	if meta.IsDefined("player", "model") {
		c.Player.Model = raw.Player.Model
	}
	if meta.IsDefined("protocol_log") {
		c.ProtocolLog = raw.ProtocolLog
	}
	if meta.IsDefined("state_dir") {
		c.StateDir = raw.StateDir
	}
	if meta.IsDefined("log_level") {
		c.LogLevel = raw.LogLevel
	}
	return nil
}

// Validate checks values that cannot be checked by the client itself.
// An empty host is allowed here since flags may still supply it.
func (c Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d outside [1, 65535]", c.Port)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("negative timeout %s", c.Timeout)
	}
	if c.MaxFrameSize < 0 {
		return fmt.Errorf("negative max_frame_size %d", c.MaxFrameSize)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (zerolog.Level, error) {
	if c.LogLevel == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(c.LogLevel)))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("log_level: %w", err)
	}
	return lvl, nil
}

// PlayerCachePath is the player cache file inside StateDir.
func (c Config) PlayerCachePath() string {
	return filepath.Join(c.StateDir, "players.json")
}

// ClientConfig converts c to a heos.Config.
func (c Config) ClientConfig() heos.Config {
	return heos.Config{
		Address:      heos.DeviceAddress{Host: c.Host, Port: c.Port},
		Player:       c.Player,
		Timeout:      c.Timeout,
		MaxFrameSize: c.MaxFrameSize,
	}
}
