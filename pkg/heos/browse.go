package heos

import (
	"context"
	"fmt"

	"github.com/heos-control/heos-go/pkg/command"
	"github.com/heos-control/heos-go/pkg/response"
)

// GetMusicSources lists the device's music sources.
func (c *Client) GetMusicSources(ctx context.Context) (response.Result, error) {
	return c.do(ctx, command.New("browse", "get_music_sources"))
}

// BrowseSource lists the top level of source sid.
func (c *Client) BrowseSource(ctx context.Context, sid int) (response.Result, error) {
	return c.do(ctx, command.New("browse", "browse", command.P("sid", sid)))
}

// PlayInput switches the active player to a source. input is required for
// SourceAuxInput and omitted for other sources when empty.
func (c *Client) PlayInput(ctx context.Context, sid int, input string) (response.Result, error) {
	if sid == SourceAuxInput && input == "" {
		err := fmt.Errorf("%w: input is required for source %d", command.ErrInvalidArgument, sid)
		c.logLocalError("browse/play_input", err)
		return nil, err
	}
	params := []command.Param{command.P("sid", sid)}
	if input != "" {
		params = append(params, command.P("input", input))
	}
	return c.player(ctx, "browse", "play_input", params...)
}

// PlayPreset plays favorite number preset (1-based).
func (c *Client) PlayPreset(ctx context.Context, preset int) (response.Result, error) {
	return c.player(ctx, "browse", "play_preset", command.P("preset", preset))
}

// PlayStream plays a URL on the active player.
func (c *Client) PlayStream(ctx context.Context, url string) (response.Result, error) {
	return c.player(ctx, "browse", "play_stream", command.P("url", url))
}
