package heos

import (
	"context"

	"github.com/heos-control/heos-go/pkg/command"
	"github.com/heos-control/heos-go/pkg/response"
)

// EnablePrettyJSON asks the device to indent its JSON responses.
func (c *Client) EnablePrettyJSON(ctx context.Context) (response.Result, error) {
	return c.do(ctx, command.New("system", "prettify_json_response", command.P("enable", true)))
}

// Heartbeat checks the device is responsive.
func (c *Client) Heartbeat(ctx context.Context) (response.Result, error) {
	return c.do(ctx, command.New("system", "heart_beat"))
}

// Reboot restarts the device.
func (c *Client) Reboot(ctx context.Context) (response.Result, error) {
	return c.do(ctx, command.New("system", "reboot"))
}
