package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/heos-control/heos-go/pkg/command"
	"github.com/heos-control/heos-go/pkg/config"
	"github.com/heos-control/heos-go/pkg/heos"
	"github.com/heos-control/heos-go/pkg/persistence"
	"github.com/heos-control/heos-go/pkg/response"
)

// app runs subcommands against one device.
type app struct {
	cfg    config.Config
	opts   []heos.Option
	client *heos.Client
	cache  *persistence.PlayerCacheStore
	out    io.Writer
	logger zerolog.Logger
	json   bool
}

func newApp(cfg config.Config, out io.Writer, logger zerolog.Logger, jsonOut bool, opts ...heos.Option) (*app, error) {
	a := &app{
		cfg:    cfg,
		opts:   opts,
		cache:  persistence.NewPlayerCacheStore(expandHome(cfg.PlayerCachePath())),
		out:    out,
		logger: logger,
		json:   jsonOut,
	}
	if err := a.usePlayer(cfg.Player); err != nil {
		return nil, err
	}
	return a, nil
}

// usePlayer rebuilds the client for player p.
func (a *app) usePlayer(p heos.PlayerIdentity) error {
	cc := a.cfg.ClientConfig()
	cc.Player = p
	client, err := heos.NewClient(cc, a.opts...)
	if err != nil {
		return err
	}
	a.client = client
	a.cfg.Player = p
	return nil
}

// selectPlayer makes the player called name active, asking the device
// for its players when the cache does not know the name.
func (a *app) selectPlayer(ctx context.Context, name string) error {
	cache, err := a.cache.Load()
	if err != nil {
		a.logger.Warn().Err(err).Str("path", a.cache.Path()).Msg("Ignoring unreadable player cache")
	}
	if cache != nil && cache.Device == a.client.Address().String() {
		p, err := cache.Find(name)
		if err == nil {
			return a.usePlayer(p.Identity())
		}
		if errors.Is(err, persistence.ErrAmbiguousPlayer) {
			return err
		}
	}

	players, err := a.refreshPlayers(ctx)
	if err != nil {
		return err
	}
	p, err := (&persistence.PlayerCache{Players: players}).Find(name)
	if err != nil {
		return err
	}
	return a.usePlayer(p.Identity())
}

// refreshPlayers reads the player list from the device and stores it in
// the cache.
func (a *app) refreshPlayers(ctx context.Context) ([]heos.Player, error) {
	res, err := a.client.GetPlayers(ctx)
	if err != nil {
		return nil, err
	}
	players, err := heos.Players(res)
	if err != nil {
		return nil, err
	}
	a.savePlayers(players)
	return players, nil
}

func (a *app) savePlayers(players []heos.Player) {
	err := a.cache.Save(&persistence.PlayerCache{
		Device:  a.client.Address().String(),
		Players: players,
	})
	if err != nil {
		a.logger.Warn().Err(err).Str("path", a.cache.Path()).Msg("Failed to save player cache")
		return
	}
	a.logger.Debug().Int("players", len(players)).Str("path", a.cache.Path()).Msg("Player cache updated")
}

// Execute runs one command line and returns its exit code.
func (a *app) Execute(ctx context.Context, args []string) int {
	if len(args) == 0 {
		return exitOK
	}
	sc, ok := lookupSubcommand(args[0])
	if !ok {
		a.logger.Error().Str("command", args[0]).Msg("Unknown command (try 'help')")
		return exitFailure
	}

	res, err := sc.run(a, ctx, args[1:])
	return a.report(sc, res, err)
}

// Help prints the subcommand list.
func (a *app) Help(w io.Writer) {
	printSubcommands(w)
}

// report prints res and maps the outcome to an exit code.
func (a *app) report(sc *subcommand, res response.Result, err error) int {
	var failure *response.TransportFailure
	switch {
	case errors.As(err, &failure):
		a.logger.Error().Err(failure.Err).Str("kind", failure.Kind.String()).Str("op", failure.Op).
			Str("device", a.client.Address().String()).Msg("Transport failure")
		return exitFailure
	case errors.Is(err, command.ErrInvalidArgument), errors.Is(err, command.ErrEncoding):
		a.logger.Error().Err(err).Msg("Command rejected")
		fmt.Fprintf(a.out, "usage: %s\n", sc.usage)
		return exitFailure
	case err != nil:
		a.logger.Error().Err(err).Msg("Command failed")
		return exitFailure
	}

	switch r := res.(type) {
	case nil:
		return exitOK
	case *response.Unparseable:
		fmt.Fprintln(a.out, r.RawText)
		a.logger.Warn().Msg("Response is not JSON")
		return exitFailure
	case *response.Structured:
		if a.json {
			fmt.Fprintln(a.out, string(r.Raw))
		} else if err := render(a.out, r); err != nil {
			a.logger.Warn().Err(err).Msg("Unexpected response shape")
		}
		if de := r.DeviceError(); de != nil {
			a.logger.Error().Int("eid", de.Code).Str("code", response.CodeName(de.Code)).Msg(de.Text)
			return exitDeviceError
		}
		if r.UnderProcess() {
			a.logger.Info().Msg("Command under process; repeat it to read the result")
			return exitOK
		}
		if !r.Succeeded() {
			a.logger.Warn().Msg("Response has no heos result")
			return exitFailure
		}
		if h, _ := r.Header(); h.Command == "player/get_players" {
			if players, err := heos.Players(r); err == nil {
				a.savePlayers(players)
			}
		}
		return exitOK
	}
	return exitFailure
}

func argInt(args []string, i int, name string) (int, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("%w: missing %s", command.ErrInvalidArgument, name)
	}
	n, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a number", command.ErrInvalidArgument, name, args[i])
	}
	return n, nil
}
