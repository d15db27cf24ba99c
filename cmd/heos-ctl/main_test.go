package main

import (
	"bytes"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heos-control/heos-go/internal/testharness/mock"
	"github.com/heos-control/heos-go/pkg/persistence"
)

type harness struct {
	device   *mock.Device
	stateDir string
	input    string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	d, err := mock.NewDevice()
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return &harness{device: d, stateDir: t.TempDir()}
}

func (h *harness) run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	argv := append([]string{
		"-host", h.device.Host(),
		"-port", strconv.Itoa(h.device.Port()),
		"-state-dir", h.stateDir,
		"-timeout", "2s",
	}, args...)
	code := run(argv, strings.NewReader(h.input), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_VolumeSetAndGet(t *testing.T) {
	h := newHarness(t)

	code, _, stderr := h.run(t, "-pid", "1", "volume", "30")
	require.Equal(t, exitOK, code, stderr)

	code, stdout, _ := h.run(t, "-pid", "1", "volume")
	require.Equal(t, exitOK, code)
	assert.Equal(t, "volume: 30\n", stdout)

	reqs := h.device.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "heos://player/set_volume?pid=1&level=30", reqs[0].Raw)
}

func TestRun_VolumeUpDefaultStep(t *testing.T) {
	h := newHarness(t)

	code, _, stderr := h.run(t, "-pid", "1", "up")
	require.Equal(t, exitOK, code, stderr)

	reqs := h.device.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "heos://player/volume_up?pid=1&step=5", reqs[0].Raw)
	s, _ := h.device.State(1)
	assert.Equal(t, 25, s.Volume)
}

func TestRun_VolumeFromPayload(t *testing.T) {
	h := newHarness(t)
	h.device.QueueRaw(`{"heos":{"command":"player/get_volume","result":"success"},"payload":{"level":30}}` + "\r\n")

	code, stdout, stderr := h.run(t, "-pid", "1", "volume")
	require.Equal(t, exitOK, code, stderr)
	assert.Equal(t, "volume: 30\n", stdout)
}

func TestRun_PlayerIDBeyond32Bits(t *testing.T) {
	d, err := mock.NewDevice(mock.Player{Name: "Loft", PID: 5000000000, Model: "HEOS 1"})
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	h := &harness{device: d, stateDir: t.TempDir()}

	code, stdout, stderr := h.run(t, "-player", "loft", "volume")
	require.Equal(t, exitOK, code, stderr)
	assert.Equal(t, "volume: 20\n", stdout)

	reqs := d.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "heos://player/get_players", reqs[0].Raw)
	assert.Equal(t, "heos://player/get_volume?pid=5000000000", reqs[1].Raw)
}

func TestRun_InteractiveScript(t *testing.T) {
	h := newHarness(t)
	h.input = "volume 30\n\nvolume\nbogus\nhelp\nquit\nmute on\n"

	code, stdout, _ := h.run(t, "-pid", "1", "-interactive")
	require.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "volume: 30\n")
	assert.Contains(t, stdout, "(exit 1)")
	assert.Contains(t, stdout, "toggle-mute")

	reqs := h.device.Requests()
	require.Len(t, reqs, 2, "nothing is sent after quit")
	assert.Equal(t, "heos://player/set_volume?pid=1&level=30", reqs[0].Raw)
	assert.Equal(t, "heos://player/get_volume?pid=1", reqs[1].Raw)
}

func TestRun_JSONOutput(t *testing.T) {
	h := newHarness(t)

	code, stdout, _ := h.run(t, "-pid", "1", "-json", "mute")
	require.Equal(t, exitOK, code)
	assert.Contains(t, stdout, `"command":"player/get_mute"`)
	assert.Contains(t, stdout, `"message":"pid=1&state=off"`)
}

func TestRun_DeviceErrorExitCode(t *testing.T) {
	h := newHarness(t)

	code, stdout, _ := h.run(t, "-pid", "99", "state")
	assert.Equal(t, exitDeviceError, code)
	assert.Contains(t, stdout, "ID Not Valid")
}

func TestRun_LocalValidationSendsNothing(t *testing.T) {
	h := newHarness(t)

	code, stdout, _ := h.run(t, "-pid", "1", "volume", "101")
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stdout, "usage: volume [0-100]")

	code, _, _ = h.run(t, "-pid", "1", "up", "0")
	assert.Equal(t, exitFailure, code)

	code, _, _ = h.run(t, "volume")
	assert.Equal(t, exitFailure, code)

	assert.Empty(t, h.device.Requests())
}

func TestRun_TransportFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	var stdout, stderr bytes.Buffer
	code := run([]string{"-host", "127.0.0.1", "-port", strconv.Itoa(port), "heartbeat"}, nil, &stdout, &stderr)
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr.String(), "Transport failure")
}

func TestRun_PlayersRefreshCacheAndSelectByName(t *testing.T) {
	h := newHarness(t)

	code, stdout, _ := h.run(t, "players")
	require.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "Living Room")

	cache, err := persistence.NewPlayerCacheStore(filepath.Join(h.stateDir, "players.json")).Load()
	require.NoError(t, err)
	require.NotNil(t, cache)
	assert.Len(t, cache.Players, 1)

	code, _, _ = h.run(t, "-player", "living room", "pause")
	require.Equal(t, exitOK, code)

	reqs := h.device.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "heos://player/set_play_state?pid=1&state=pause", reqs[1].Raw)
}

func TestRun_SelectByNameWithoutCache(t *testing.T) {
	h := newHarness(t)

	code, _, _ := h.run(t, "-player", "Living Room", "next")
	require.Equal(t, exitOK, code)

	reqs := h.device.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "heos://player/get_players", reqs[0].Raw)
	assert.Equal(t, "heos://player/play_next?pid=1", reqs[1].Raw)

	code, _, _ = h.run(t, "-player", "Garage", "next")
	assert.Equal(t, exitFailure, code)
}

func TestRun_Raw(t *testing.T) {
	h := newHarness(t)

	code, _, _ := h.run(t, "raw", "heos://system/heart_beat")
	require.Equal(t, exitOK, code)

	code, _, _ = h.run(t, "raw", "http://nope")
	assert.Equal(t, exitFailure, code)

	require.Len(t, h.device.Requests(), 1)
}

func TestRun_Commands(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-host", "127.0.0.1", "commands"}, nil, &stdout, &stderr)
	require.Equal(t, exitOK, code)
	assert.Contains(t, stdout.String(), "heos://player/set_volume?pid=&level=")
	assert.Contains(t, stdout.String(), "heos://system/heart_beat")
}

func TestRun_Usage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, exitFailure, run([]string{"-host", "h"}, nil, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "Usage: heos-ctl")

	stderr.Reset()
	assert.Equal(t, exitFailure, run([]string{"-host", "h", "dance"}, nil, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "Unknown command")

	assert.Equal(t, exitOK, run([]string{"-h"}, nil, &stdout, &stderr))
}

func TestRun_ConfigFileWithFlagOverride(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(t.TempDir(), "heos.yaml")
	require.NoError(t, os.WriteFile(path, []byte("host: "+h.device.Host()+"\nport: 1\nplayer:\n  pid: 1\n"), 0o600))

	var stdout, stderr bytes.Buffer
	code := run([]string{"-config", path, "-port", strconv.Itoa(h.device.Port()), "toggle-mute"}, nil, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())

	s, ok := h.device.State(1)
	require.True(t, ok)
	assert.True(t, s.Mute)
}

func TestRun_ProtocolLog(t *testing.T) {
	h := newHarness(t)
	capture := filepath.Join(t.TempDir(), "capture.hlog")

	code, _, _ := h.run(t, "-protocol-log", capture, "heartbeat")
	require.Equal(t, exitOK, code)

	info, err := os.Stat(capture)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestRun_BadConfig(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-config", filepath.Join(t.TempDir(), "missing.toml"), "heartbeat"}, nil, &stdout, &stderr)
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr.String(), "config load failed")
}
