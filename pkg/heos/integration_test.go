package heos_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heos-control/heos-go/internal/testharness/mock"
	"github.com/heos-control/heos-go/pkg/heos"
	"github.com/heos-control/heos-go/pkg/response"
)

func startDevice(t *testing.T) (*mock.Device, *heos.Client) {
	t.Helper()
	d, err := mock.NewDevice()
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })

	c, err := heos.NewClient(heos.Config{
		Address: heos.DeviceAddress{Host: d.Host(), Port: d.Port()},
		Player:  heos.PlayerIdentity{PersistentID: 1, Name: "Living Room"},
		Timeout: 2 * time.Second,
	})
	require.NoError(t, err)
	return d, c
}

func TestClient_AgainstFakeDevice(t *testing.T) {
	d, c := startDevice(t)
	ctx := context.Background()

	_, err := c.SetVolume(ctx, 42)
	require.NoError(t, err)
	res, err := c.GetVolume(ctx)
	require.NoError(t, err)
	level, err := heos.VolumeLevel(res)
	require.NoError(t, err)
	assert.Equal(t, 42, level)

	_, err = c.VolumeUp(ctx, heos.DefaultVolumeStep)
	require.NoError(t, err)
	s, _ := d.State(1)
	assert.Equal(t, 47, s.Volume)

	_, err = c.SetMute(ctx, true)
	require.NoError(t, err)
	res, err = c.GetMute(ctx)
	require.NoError(t, err)
	on, err := heos.MuteOn(res)
	require.NoError(t, err)
	assert.True(t, on)

	_, err = c.SetPlayState(ctx, heos.Play)
	require.NoError(t, err)
	res, err = c.GetPlayState(ctx)
	require.NoError(t, err)
	ps, err := heos.PlayStateOf(res)
	require.NoError(t, err)
	assert.Equal(t, heos.Play, ps)

	res, err = c.GetPlayers(ctx)
	require.NoError(t, err)
	players, err := heos.Players(res)
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, "Living Room", players[0].Name)

	res, err = c.GetMusicSources(ctx)
	require.NoError(t, err)
	sources, err := heos.MusicSources(res)
	require.NoError(t, err)
	assert.NotEmpty(t, sources)

	_, err = c.PlayInput(ctx, heos.SourceAuxInput, heos.InputAux1)
	require.NoError(t, err)

	_, err = c.EnablePrettyJSON(ctx)
	require.NoError(t, err)
	assert.True(t, d.Pretty())
}

func TestClient_InvalidVolumeNeverReachesDevice(t *testing.T) {
	d, c := startDevice(t)

	res, err := c.SetVolume(context.Background(), 150)
	assert.Nil(t, res)
	assert.Error(t, err)
	assert.Empty(t, d.Requests())
}

func TestClient_DeviceErrorIsStructured(t *testing.T) {
	d, err := mock.NewDevice()
	require.NoError(t, err)
	defer d.Close()

	c, err := heos.NewClient(heos.Config{
		Address: heos.DeviceAddress{Host: d.Host(), Port: d.Port()},
		Player:  heos.PlayerIdentity{PersistentID: 99},
	})
	require.NoError(t, err)

	res, err := c.GetVolume(context.Background())
	require.NoError(t, err)
	s, ok := res.(*response.Structured)
	require.True(t, ok)
	require.NotNil(t, s.DeviceError())
	assert.Equal(t, response.CodeInvalidID, s.DeviceError().Code)
}

func TestClient_TimeoutIsTransportFailure(t *testing.T) {
	d, err := mock.NewDevice()
	require.NoError(t, err)
	defer d.Close()
	d.QueueRaw("")

	c, err := heos.NewClient(heos.Config{
		Address: heos.DeviceAddress{Host: d.Host(), Port: d.Port()},
		Timeout: 100 * time.Millisecond,
	})
	require.NoError(t, err)

	res, err := c.Heartbeat(context.Background())
	require.Error(t, err)
	f, ok := res.(*response.TransportFailure)
	require.True(t, ok)
	assert.Equal(t, response.FailureTimeout, f.Kind)
}
