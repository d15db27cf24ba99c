package heos

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/heos-control/heos-go/pkg/command"
	"github.com/heos-control/heos-go/pkg/log"
	"github.com/heos-control/heos-go/pkg/response"
	"github.com/heos-control/heos-go/pkg/transport"
)

// DefaultPort is the HEOS CLI port.
const DefaultPort = 1255

// Client errors.
var (
	// ErrInvalidConfig indicates an unusable address or player identity.
	ErrInvalidConfig = errors.New("invalid client configuration")

	// ErrNoPlayer indicates a per-player operation on a client without a
	// player identity.
	ErrNoPlayer = errors.New("no active player")
)

// DeviceAddress locates the device.
type DeviceAddress struct {
	Host string
	Port int
}

// String returns host:port.
func (a DeviceAddress) String() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// Validate checks the host is set and the port is in range.
func (a DeviceAddress) Validate() error {
	if a.Host == "" {
		return fmt.Errorf("%w: host is required", ErrInvalidConfig)
	}
	if a.Port < 1 || a.Port > 65535 {
		return fmt.Errorf("%w: port %d outside [1, 65535]", ErrInvalidConfig, a.Port)
	}
	return nil
}

// PlayerIdentity names the player that per-player commands address.
// The zero value means no player is selected.
type PlayerIdentity struct {
	PersistentID int64
	Name         string
	Model        string
}

// IsZero reports whether no player is selected.
func (p PlayerIdentity) IsZero() bool {
	return p.PersistentID == 0
}

// Config configures a Client.
type Config struct {
	Address DeviceAddress

	// Player is the active player (optional for system and browse calls).
	Player PlayerIdentity

	// Timeout bounds each exchange (default: 5s).
	Timeout time.Duration

	// MaxFrameSize bounds each response (default: 1 MiB).
	MaxFrameSize int
}

type options struct {
	executor transport.Executor
	dialer   transport.Dialer
	logger   log.Logger
}

// Option customizes a Client.
type Option func(*options)

// WithExecutor replaces the TCP transport.
func WithExecutor(e transport.Executor) Option {
	return func(o *options) { o.executor = e }
}

// WithDialer replaces the dialer of the default transport.
func WithDialer(d transport.Dialer) Option {
	return func(o *options) { o.dialer = d }
}

// WithLogger sets the protocol capture logger.
func WithLogger(l log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Client controls one HEOS device. Its configuration never changes after
// construction; each call owns its own connection.
type Client struct {
	config Config
	exec   transport.Executor
	logger log.Logger
}

// NewClient validates cfg and builds a Client. A zero port selects
// DefaultPort.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if cfg.Address.Port == 0 {
		cfg.Address.Port = DefaultPort
	}
	if err := cfg.Address.Validate(); err != nil {
		return nil, err
	}
	if cfg.Player.IsZero() && (cfg.Player.Name != "" || cfg.Player.Model != "") {
		return nil, fmt.Errorf("%w: player %q has no persistent id", ErrInvalidConfig, cfg.Player.Name)
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("%w: negative timeout", ErrInvalidConfig)
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	c := &Client{config: cfg, logger: log.OrNoop(o.logger)}
	if o.executor != nil {
		c.exec = o.executor
		return c, nil
	}

	session, err := transport.NewSession(transport.Config{
		Address:      cfg.Address.String(),
		Timeout:      cfg.Timeout,
		MaxFrameSize: cfg.MaxFrameSize,
		Dialer:       o.dialer,
		Logger:       c.logger,
		PlayerID:     cfg.Player.PersistentID,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	c.exec = session
	return c, nil
}

// Address returns the device address.
func (c *Client) Address() DeviceAddress {
	return c.config.Address
}

// Player returns the active player identity.
func (c *Client) Player() PlayerIdentity {
	return c.config.Player
}

// Send validates and executes an arbitrary command through the same
// pipeline as the typed methods.
func (c *Client) Send(ctx context.Context, cmd command.Command) (response.Result, error) {
	return c.do(ctx, cmd)
}

// playerCommand prepends the active pid to params.
func (c *Client) playerCommand(namespace, verb string, params ...command.Param) (command.Command, error) {
	if c.config.Player.IsZero() {
		return command.Command{}, fmt.Errorf("%w: %w for %s/%s", command.ErrInvalidArgument, ErrNoPlayer, namespace, verb)
	}
	all := make([]command.Param, 0, len(params)+1)
	all = append(all, command.P("pid", c.config.Player.PersistentID))
	all = append(all, params...)
	return command.New(namespace, verb, all...), nil
}

func (c *Client) player(ctx context.Context, namespace, verb string, params ...command.Param) (response.Result, error) {
	cmd, err := c.playerCommand(namespace, verb, params...)
	if err != nil {
		c.logLocalError(namespace+"/"+verb, err)
		return nil, err
	}
	return c.do(ctx, cmd)
}

// do runs Encoder -> Transport -> Decoder for one command.
func (c *Client) do(ctx context.Context, cmd command.Command) (response.Result, error) {
	request, err := cmd.Encode()
	if err != nil {
		c.logLocalError(cmd.Name(), err)
		return nil, err
	}

	sent := time.Now()
	raw, err := c.exec.Execute(ctx, request)
	if err != nil {
		if errors.Is(err, command.ErrInvalidArgument) || errors.Is(err, command.ErrEncoding) {
			c.logLocalError(cmd.Name(), err)
			return nil, err
		}
		var failure *response.TransportFailure
		if !errors.As(err, &failure) {
			failure = &response.TransportFailure{Kind: response.FailureIO, Op: "execute", Err: err}
		}
		c.logRequest(cmd, request, "", sent)
		return failure, failure
	}

	result := response.Decode(raw.Frame)
	c.logRequest(cmd, request, raw.ConnectionID, sent)
	c.logResponse(cmd, raw, result)
	return result, nil
}

func (c *Client) logRequest(cmd command.Command, request, connID string, at time.Time) {
	c.logger.Log(log.Event{
		Timestamp:    at,
		ConnectionID: connID,
		Direction:    log.DirectionOut,
		Layer:        log.LayerProtocol,
		Category:     log.CategoryMessage,
		RemoteAddr:   c.config.Address.String(),
		PlayerID:     c.config.Player.PersistentID,
		Message: &log.MessageEvent{
			Type:    log.MessageTypeRequest,
			Command: cmd.Name(),
			Request: request,
		},
	})
}

func (c *Client) logResponse(cmd command.Command, raw transport.RawResponse, result response.Result) {
	elapsed := raw.Elapsed
	msg := &log.MessageEvent{
		Type:    log.MessageTypeResponse,
		Command: cmd.Name(),
		Elapsed: &elapsed,
	}
	switch r := result.(type) {
	case *response.Structured:
		if h, ok := r.Header(); ok {
			msg.Result = h.Result
			msg.Message = h.Message
		}
	case *response.Unparseable:
		msg.Result = "unparseable"
	}

	ev := log.Event{
		Timestamp:    time.Now(),
		ConnectionID: raw.ConnectionID,
		Direction:    log.DirectionIn,
		Layer:        log.LayerProtocol,
		Category:     log.CategoryMessage,
		RemoteAddr:   c.config.Address.String(),
		PlayerID:     c.config.Player.PersistentID,
		Message:      msg,
	}
	c.logger.Log(ev)

	if s, ok := result.(*response.Structured); ok {
		if de := s.DeviceError(); de != nil {
			code := de.Code
			ev.Category = log.CategoryError
			ev.Message = nil
			ev.Error = &log.ErrorEventData{
				Layer:   log.LayerProtocol,
				Message: de.Text,
				Code:    &code,
				Context: cmd.Name(),
			}
			c.logger.Log(ev)
		}
	}
}

func (c *Client) logLocalError(name string, err error) {
	c.logger.Log(log.Event{
		Timestamp:  time.Now(),
		Direction:  log.DirectionOut,
		Layer:      log.LayerClient,
		Category:   log.CategoryError,
		RemoteAddr: c.config.Address.String(),
		PlayerID:   c.config.Player.PersistentID,
		Error: &log.ErrorEventData{
			Layer:   log.LayerClient,
			Message: err.Error(),
			Context: name,
		},
	})
}
