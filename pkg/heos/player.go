package heos

import (
	"context"
	"fmt"

	"github.com/heos-control/heos-go/pkg/command"
	"github.com/heos-control/heos-go/pkg/response"
)

// Volume limits.
const (
	MinVolume         = 0
	MaxVolume         = 100
	MaxVolumeStep     = 10
	DefaultVolumeStep = 5
)

// GetPlayers lists the players on the network.
func (c *Client) GetPlayers(ctx context.Context) (response.Result, error) {
	return c.do(ctx, command.New("player", "get_players"))
}

// GetPlayerInfo describes the active player.
func (c *Client) GetPlayerInfo(ctx context.Context) (response.Result, error) {
	return c.player(ctx, "player", "get_player_info")
}

// GetPlayState reads the active player's play state.
func (c *Client) GetPlayState(ctx context.Context) (response.Result, error) {
	return c.player(ctx, "player", "get_play_state")
}

// SetPlayState sets the play state; only play, pause and stop are sent.
func (c *Client) SetPlayState(ctx context.Context, state PlayState) (response.Result, error) {
	if !state.Valid() {
		err := fmt.Errorf("%w: unknown play state %q", command.ErrInvalidArgument, state)
		c.logLocalError("player/set_play_state", err)
		return nil, err
	}
	return c.player(ctx, "player", "set_play_state", command.P("state", state))
}

// GetNowPlayingMedia describes what the active player is playing.
func (c *Client) GetNowPlayingMedia(ctx context.Context) (response.Result, error) {
	return c.player(ctx, "player", "get_now_playing_media")
}

// GetVolume reads the volume level.
func (c *Client) GetVolume(ctx context.Context) (response.Result, error) {
	return c.player(ctx, "player", "get_volume")
}

// SetVolume sets the volume level in [0, 100].
func (c *Client) SetVolume(ctx context.Context, level int) (response.Result, error) {
	return c.player(ctx, "player", "set_volume", command.P("level", level))
}

// VolumeUp raises the volume by step in [1, 10]. VolumeUpDefault uses
// DefaultVolumeStep.
func (c *Client) VolumeUp(ctx context.Context, step int) (response.Result, error) {
	return c.player(ctx, "player", "volume_up", command.P("step", step))
}

// VolumeUpDefault raises the volume by DefaultVolumeStep.
func (c *Client) VolumeUpDefault(ctx context.Context) (response.Result, error) {
	return c.VolumeUp(ctx, DefaultVolumeStep)
}

// VolumeDown lowers the volume by step in [1, 10].
func (c *Client) VolumeDown(ctx context.Context, step int) (response.Result, error) {
	return c.player(ctx, "player", "volume_down", command.P("step", step))
}

// VolumeDownDefault lowers the volume by DefaultVolumeStep.
func (c *Client) VolumeDownDefault(ctx context.Context) (response.Result, error) {
	return c.VolumeDown(ctx, DefaultVolumeStep)
}

// GetMute reads the mute state.
func (c *Client) GetMute(ctx context.Context) (response.Result, error) {
	return c.player(ctx, "player", "get_mute")
}

// SetMute mutes (true) or unmutes (false).
func (c *Client) SetMute(ctx context.Context, on bool) (response.Result, error) {
	return c.player(ctx, "player", "set_mute", command.P("state", on))
}

// ToggleMute flips the mute state.
func (c *Client) ToggleMute(ctx context.Context) (response.Result, error) {
	return c.player(ctx, "player", "toggle_mute")
}

// GetPlayMode reads repeat and shuffle.
func (c *Client) GetPlayMode(ctx context.Context) (response.Result, error) {
	return c.player(ctx, "player", "get_play_mode")
}

// SetPlayMode sets repeat and shuffle.
func (c *Client) SetPlayMode(ctx context.Context, repeat RepeatMode, shuffle ShuffleMode) (response.Result, error) {
	if !repeat.Valid() || !shuffle.Valid() {
		err := fmt.Errorf("%w: play mode repeat=%q shuffle=%q", command.ErrInvalidArgument, repeat, shuffle)
		c.logLocalError("player/set_play_mode", err)
		return nil, err
	}
	return c.player(ctx, "player", "set_play_mode",
		command.P("repeat", repeat),
		command.P("shuffle", shuffle),
	)
}

// PlayNext skips to the next queue item.
func (c *Client) PlayNext(ctx context.Context) (response.Result, error) {
	return c.player(ctx, "player", "play_next")
}

// PlayPrevious returns to the previous queue item.
func (c *Client) PlayPrevious(ctx context.Context) (response.Result, error) {
	return c.player(ctx, "player", "play_previous")
}

// ClearQueue empties the active player's queue.
func (c *Client) ClearQueue(ctx context.Context) (response.Result, error) {
	return c.player(ctx, "player", "clear_queue")
}
