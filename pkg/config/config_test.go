package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heos-control/heos-go/pkg/heos"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, heos.DefaultPort, cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "heos.yaml", `
host: 192.168.1.20
timeout: 750ms
player:
  pid: -1465850739
  name: Living Room
  model: HEOS 7
protocol_log: /tmp/capture.hlog
log_level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "192.168.1.20", cfg.Host)
	assert.Equal(t, heos.DefaultPort, cfg.Port)
	assert.Equal(t, 750*time.Millisecond, cfg.Timeout)
	assert.Equal(t, heos.PlayerIdentity{PersistentID: -1465850739, Name: "Living Room", Model: "HEOS 7"}, cfg.Player)
	assert.Equal(t, "/tmp/capture.hlog", cfg.ProtocolLog)
	assert.Equal(t, Default().StateDir, cfg.StateDir)

	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, lvl)
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, "heos.toml", `
host = "heos.local"
port = 1256
max_frame_size = 65536
state_dir = "/var/lib/heos"

[player]
pid = 7
name = "Kitchen"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "heos.local", cfg.Host)
	assert.Equal(t, 1256, cfg.Port)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, 65536, cfg.MaxFrameSize)
	assert.Equal(t, int64(7), cfg.Player.PersistentID)
	assert.Equal(t, "Kitchen", cfg.Player.Name)
	assert.Equal(t, "/var/lib/heos/players.json", cfg.PlayerCachePath())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name, file, content string
	}{
		{"unknown yaml key", "a.yaml", "hostname: x\n"},
		{"unknown toml key", "a.toml", "hostname = \"x\"\n"},
		{"bad timeout", "a.yml", "timeout: soon\n"},
		{"bad port", "a.toml", "port = 70000\n"},
		{"bad level", "a.yaml", "log_level: loud\n"},
		{"bad extension", "a.json", "{}"},
		{"malformed toml", "a.toml", "host = \n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "config load failed ("+path+")")
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeFile(t, "x.ini", ""))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoad_EmptyYAMLKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeFile(t, "empty.yaml", ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestClientConfig(t *testing.T) {
	cfg := Default()
	cfg.Host = "10.0.0.2"
	cfg.Player = heos.PlayerIdentity{PersistentID: 3}

	hc := cfg.ClientConfig()
	assert.Equal(t, heos.DeviceAddress{Host: "10.0.0.2", Port: heos.DefaultPort}, hc.Address)
	assert.Equal(t, int64(3), hc.Player.PersistentID)
	assert.Equal(t, DefaultTimeout, hc.Timeout)
}
