package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/heos-control/heos-go/pkg/command"
	"github.com/heos-control/heos-go/pkg/heos"
	"github.com/heos-control/heos-go/pkg/response"
)

type subcommand struct {
	name    string
	aliases []string
	usage   string
	summary string
	run     func(a *app, ctx context.Context, args []string) (response.Result, error)
}

var subcommands = []*subcommand{
	{name: "players", usage: "players", summary: "List players and refresh the player cache",
		run: func(a *app, ctx context.Context, _ []string) (response.Result, error) {
			return a.client.GetPlayers(ctx)
		}},
	{name: "info", usage: "info", summary: "Describe the active player",
		run: func(a *app, ctx context.Context, _ []string) (response.Result, error) {
			return a.client.GetPlayerInfo(ctx)
		}},
	{name: "use", usage: "use <name|pid>", summary: "Select the active player",
		run: (*app).cmdUse},
	{name: "state", usage: "state", summary: "Show the play state",
		run: func(a *app, ctx context.Context, _ []string) (response.Result, error) {
			return a.client.GetPlayState(ctx)
		}},
	{name: "play", usage: "play", summary: "Start playback",
		run: playState(heos.Play)},
	{name: "pause", usage: "pause", summary: "Pause playback",
		run: playState(heos.Pause)},
	{name: "stop", usage: "stop", summary: "Stop playback",
		run: playState(heos.Stop)},
	{name: "volume", aliases: []string{"vol"}, usage: "volume [0-100]", summary: "Show or set the volume",
		run: (*app).cmdVolume},
	{name: "up", usage: "up [1-10]", summary: "Raise the volume (default step 5)",
		run: volumeStep(true)},
	{name: "down", usage: "down [1-10]", summary: "Lower the volume (default step 5)",
		run: volumeStep(false)},
	{name: "mute", usage: "mute [on|off]", summary: "Show or set mute",
		run: (*app).cmdMute},
	{name: "toggle-mute", usage: "toggle-mute", summary: "Toggle mute",
		run: func(a *app, ctx context.Context, _ []string) (response.Result, error) {
			return a.client.ToggleMute(ctx)
		}},
	{name: "now", usage: "now", summary: "Show the now playing media",
		run: func(a *app, ctx context.Context, _ []string) (response.Result, error) {
			return a.client.GetNowPlayingMedia(ctx)
		}},
	{name: "sources", usage: "sources", summary: "List music sources",
		run: func(a *app, ctx context.Context, _ []string) (response.Result, error) {
			return a.client.GetMusicSources(ctx)
		}},
	{name: "browse", usage: "browse <sid>", summary: "Browse a music source",
		run: (*app).cmdBrowse},
	{name: "input", usage: "input <sid> [input]", summary: "Play a source or physical input (e.g. input 1027 inputs/aux_in_1)",
		run: (*app).cmdInput},
	{name: "next", usage: "next", summary: "Play the next queue item",
		run: func(a *app, ctx context.Context, _ []string) (response.Result, error) { return a.client.PlayNext(ctx) }},
	{name: "prev", aliases: []string{"previous"}, usage: "prev", summary: "Play the previous queue item",
		run: func(a *app, ctx context.Context, _ []string) (response.Result, error) {
			return a.client.PlayPrevious(ctx)
		}},
	{name: "mode", usage: "mode [off|on_one|on_all on|off]", summary: "Show or set repeat and shuffle",
		run: (*app).cmdMode},
	{name: "clear-queue", usage: "clear-queue", summary: "Clear the queue",
		run: func(a *app, ctx context.Context, _ []string) (response.Result, error) {
			return a.client.ClearQueue(ctx)
		}},
	{name: "preset", usage: "preset <n>", summary: "Play a favorite by position",
		run: (*app).cmdPreset},
	{name: "stream", usage: "stream <url>", summary: "Play a stream URL",
		run: (*app).cmdStream},
	{name: "heartbeat", usage: "heartbeat", summary: "Check the device responds",
		run: func(a *app, ctx context.Context, _ []string) (response.Result, error) { return a.client.Heartbeat(ctx) }},
	{name: "pretty", usage: "pretty", summary: "Ask the device for indented JSON",
		run: func(a *app, ctx context.Context, _ []string) (response.Result, error) {
			return a.client.EnablePrettyJSON(ctx)
		}},
	{name: "raw", usage: "raw <heos://ns/verb?k=v>", summary: "Send a request line as-is",
		run: (*app).cmdRaw},
	{name: "reboot", usage: "reboot", summary: "Reboot the device",
		run: func(a *app, ctx context.Context, _ []string) (response.Result, error) { return a.client.Reboot(ctx) }},
	{name: "commands", usage: "commands", summary: "List the known device commands",
		run: (*app).cmdCommands},
}

func lookupSubcommand(name string) (*subcommand, bool) {
	name = strings.ToLower(name)
	for _, sc := range subcommands {
		if sc.name == name {
			return sc, true
		}
		for _, alias := range sc.aliases {
			if alias == name {
				return sc, true
			}
		}
	}
	return nil, false
}

func subcommandNames() []string {
	names := make([]string, 0, len(subcommands))
	for _, sc := range subcommands {
		names = append(names, sc.name)
	}
	return names
}

func printSubcommands(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, sc := range subcommands {
		fmt.Fprintf(tw, "  %s\t%s\n", sc.usage, sc.summary)
	}
	tw.Flush()
}

func playState(state heos.PlayState) func(*app, context.Context, []string) (response.Result, error) {
	return func(a *app, ctx context.Context, _ []string) (response.Result, error) {
		return a.client.SetPlayState(ctx, state)
	}
}

func volumeStep(up bool) func(*app, context.Context, []string) (response.Result, error) {
	return func(a *app, ctx context.Context, args []string) (response.Result, error) {
		if len(args) == 0 {
			if up {
				return a.client.VolumeUpDefault(ctx)
			}
			return a.client.VolumeDownDefault(ctx)
		}
		step, err := argInt(args, 0, "step")
		if err != nil {
			return nil, err
		}
		if up {
			return a.client.VolumeUp(ctx, step)
		}
		return a.client.VolumeDown(ctx, step)
	}
}

func (a *app) cmdUse(ctx context.Context, args []string) (response.Result, error) {
	if len(args) == 0 {
		p := a.client.Player()
		if p.IsZero() {
			fmt.Fprintln(a.out, "no active player")
		} else {
			fmt.Fprintf(a.out, "active player: %s (pid %d)\n", p.Name, p.PersistentID)
		}
		return nil, nil
	}
	target := strings.Join(args, " ")
	var err error
	if pid, perr := strconv.ParseInt(target, 10, 64); perr == nil {
		err = a.usePlayer(heos.PlayerIdentity{PersistentID: pid})
	} else {
		err = a.selectPlayer(ctx, target)
	}
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "active player: %s (pid %d)\n", a.client.Player().Name, a.client.Player().PersistentID)
	return nil, nil
}

func (a *app) cmdVolume(ctx context.Context, args []string) (response.Result, error) {
	if len(args) == 0 {
		return a.client.GetVolume(ctx)
	}
	level, err := argInt(args, 0, "level")
	if err != nil {
		return nil, err
	}
	return a.client.SetVolume(ctx, level)
}

func (a *app) cmdMute(ctx context.Context, args []string) (response.Result, error) {
	if len(args) == 0 {
		return a.client.GetMute(ctx)
	}
	switch strings.ToLower(args[0]) {
	case "on":
		return a.client.SetMute(ctx, true)
	case "off":
		return a.client.SetMute(ctx, false)
	}
	return nil, fmt.Errorf("%w: mute state %q", command.ErrInvalidArgument, args[0])
}

func (a *app) cmdBrowse(ctx context.Context, args []string) (response.Result, error) {
	sid, err := argInt(args, 0, "sid")
	if err != nil {
		return nil, err
	}
	return a.client.BrowseSource(ctx, sid)
}

func (a *app) cmdInput(ctx context.Context, args []string) (response.Result, error) {
	sid, err := argInt(args, 0, "sid")
	if err != nil {
		return nil, err
	}
	input := ""
	if len(args) > 1 {
		input = args[1]
	}
	return a.client.PlayInput(ctx, sid, input)
}

func (a *app) cmdMode(ctx context.Context, args []string) (response.Result, error) {
	if len(args) == 0 {
		return a.client.GetPlayMode(ctx)
	}
	if len(args) != 2 {
		return nil, fmt.Errorf("%w: mode takes repeat and shuffle", command.ErrInvalidArgument)
	}
	repeat, err := heos.ParseRepeatMode(args[0])
	if err != nil {
		return nil, err
	}
	shuffle, err := heos.ParseShuffleMode(args[1])
	if err != nil {
		return nil, err
	}
	return a.client.SetPlayMode(ctx, repeat, shuffle)
}

func (a *app) cmdPreset(ctx context.Context, args []string) (response.Result, error) {
	n, err := argInt(args, 0, "preset")
	if err != nil {
		return nil, err
	}
	return a.client.PlayPreset(ctx, n)
}

func (a *app) cmdStream(ctx context.Context, args []string) (response.Result, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%w: stream takes one url", command.ErrInvalidArgument)
	}
	return a.client.PlayStream(ctx, args[0])
}

func (a *app) cmdRaw(ctx context.Context, args []string) (response.Result, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%w: raw takes one request", command.ErrInvalidArgument)
	}
	cmd, err := command.Parse(args[0])
	if err != nil {
		return nil, err
	}
	return a.client.Send(ctx, cmd)
}

func (a *app) cmdCommands(_ context.Context, _ []string) (response.Result, error) {
	specs, err := command.Catalog()
	if err != nil {
		return nil, err
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, s := range specs {
		fmt.Fprintf(tw, "%s\t%s\n", s.Usage(), s.Description)
	}
	return nil, tw.Flush()
}
