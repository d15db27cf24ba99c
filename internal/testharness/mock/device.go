// Package mock provides an in-process fake HEOS device for tests.
//
// The device listens on a loopback TCP port, speaks the CRLF-framed
// heos:// protocol and simulates a small set of players. Tests can
// override any command with a Handler or queue raw replies to exercise
// malformed, partial or missing responses.
package mock

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"net"
	"strconv"
	"strings"
	"sync"

	"github.com/heos-control/heos-go/pkg/command"
)

// Player describes a simulated player, serialized as in get_players.
type Player struct {
	Name    string `json:"name"`
	PID     int64  `json:"pid"`
	Model   string `json:"model"`
	Version string `json:"version"`
	IP      string `json:"ip"`
	Network string `json:"network"`
	Lineout int    `json:"lineout"`
	Serial  string `json:"serial,omitempty"`
}

// PlayerState is the mutable state of a simulated player.
type PlayerState struct {
	Volume    int
	Mute      bool
	PlayState string
	Repeat    string
	Shuffle   string
	Media     map[string]any
}

// Request is one request line received by the device.
type Request struct {
	Raw     string
	Command command.Command
	Err     error
}

// Handler answers a command. Returning ok=false falls back to the
// built-in behavior.
type Handler func(cmd command.Command) (reply string, ok bool)

type queued struct {
	data   string
	hangUp bool
}

// Device is a fake HEOS device.
type Device struct {
	listener net.Listener

	mu       sync.Mutex
	players  []Player
	states   map[int64]*PlayerState
	sources  []map[string]any
	requests []Request
	queue    []queued
	handlers map[string]Handler
	pretty   bool
	conns    map[net.Conn]struct{}

	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewDevice starts a fake device on 127.0.0.1 with the given players.
// With no players, a single "Living Room" player with pid 1 is created.
func NewDevice(players ...Player) (*Device, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	if len(players) == 0 {
		players = []Player{{
			Name: "Living Room", PID: 1, Model: "HEOS 7", Version: "3.34.620",
			IP: "127.0.0.1", Network: "wired", Serial: "ADAG9170202780",
		}}
	}

	d := &Device{
		listener: ln,
		players:  players,
		states:   make(map[int64]*PlayerState),
		handlers: make(map[string]Handler),
		conns:    make(map[net.Conn]struct{}),
		sources: []map[string]any{
			{"name": "Pandora", "image_url": "", "type": "music_service", "sid": 1, "available": "true"},
			{"name": "Spotify", "image_url": "", "type": "music_service", "sid": 4, "available": "true", "service_username": "listener"},
			{"name": "AUX Input", "image_url": "", "type": "heos_service", "sid": 1027, "available": "true"},
			{"name": "Favorites", "image_url": "", "type": "heos_service", "sid": 1028, "available": "true"},
		},
	}
	for _, p := range players {
		d.states[p.PID] = &PlayerState{
			Volume: 20, PlayState: "stop", Repeat: "off", Shuffle: "off",
			Media: map[string]any{
				"type": "song", "song": "Song", "album": "Album", "artist": "Artist",
				"image_url": "", "mid": "1", "qid": 1, "sid": 1028,
			},
		}
	}

	d.wg.Add(1)
	go d.acceptLoop()
	return d, nil
}

// Addr returns the device's host:port.
func (d *Device) Addr() string {
	return d.listener.Addr().String()
}

// Host returns the listening IP.
func (d *Device) Host() string {
	return d.listener.Addr().(*net.TCPAddr).IP.String()
}

// Port returns the listening port.
func (d *Device) Port() int {
	return d.listener.Addr().(*net.TCPAddr).Port
}

// Close stops the device and waits for connections to finish.
func (d *Device) Close() error {
	var err error
	d.closeOnce.Do(func() {
		err = d.listener.Close()
		d.mu.Lock()
		for c := range d.conns {
			c.Close()
		}
		d.mu.Unlock()
		d.wg.Wait()
	})
	return err
}

// Handle overrides the reply for "namespace/verb".
func (d *Device) Handle(name string, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[name] = h
}

// QueueRaw makes the next request receive data verbatim instead of a
// generated reply. data is written as-is, without an added terminator.
func (d *Device) QueueRaw(data string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.queue = append(d.queue, queued{data: data})
}

// QueueHangUp makes the next request see the connection closed after
// data (which may be empty) is written.
func (d *Device) QueueHangUp(data string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.queue = append(d.queue, queued{data: data, hangUp: true})
}

// Requests returns the requests received so far.
func (d *Device) Requests() []Request {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Request, len(d.requests))
	copy(out, d.requests)
	return out
}

// State returns a copy of a player's state.
func (d *Device) State(pid int64) (PlayerState, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.states[pid]
	if !ok {
		return PlayerState{}, false
	}
	return *s, true
}

// SetState replaces a player's state.
func (d *Device) SetState(pid int64, s PlayerState) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.states[pid] = &s
}

// Pretty reports whether prettify_json_response was enabled.
func (d *Device) Pretty() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pretty
}

func (d *Device) acceptLoop() {
	defer d.wg.Done()
	for {
		conn, err := d.listener.Accept()
		if err != nil {
			return
		}
		d.mu.Lock()
		d.conns[conn] = struct{}{}
		d.mu.Unlock()
		d.wg.Add(1)
		go d.serve(conn)
	}
}

func (d *Device) serve(conn net.Conn) {
	defer d.wg.Done()
	defer func() {
		conn.Close()
		d.mu.Lock()
		delete(d.conns, conn)
		d.mu.Unlock()
	}()

	r := bufio.NewReader(conn)
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimRight(line, "\r\n")

		cmd, perr := command.Parse(line)
		d.mu.Lock()
		d.requests = append(d.requests, Request{Raw: line, Command: cmd, Err: perr})
		var q *queued
		if len(d.queue) > 0 {
			q = &d.queue[0]
			d.queue = d.queue[1:]
		}
		d.mu.Unlock()

		if q != nil {
			if q.data != "" {
				if _, err := conn.Write([]byte(q.data)); err != nil {
					return
				}
			}
			if q.hangUp {
				return
			}
			continue
		}

		var reply string
		if perr != nil {
			reply = Fail("", 1, "Unrecognized Command")
		} else {
			reply = d.dispatch(cmd)
		}
		if _, err := conn.Write([]byte(reply + "\r\n")); err != nil {
			return
		}
	}
}

// Success renders a result=success reply. payload is omitted when nil.
func Success(cmd, message string, payload any) string {
	return render(cmd, "success", message, payload)
}

// Fail renders a result=fail reply with an eid and text.
func Fail(cmd string, eid int, text string) string {
	return render(cmd, "fail", "eid="+strconv.Itoa(eid)+"&text="+text, nil)
}

func render(cmd, result, message string, payload any) string {
	env := map[string]any{
		"heos": map[string]any{"command": cmd, "result": result, "message": message},
	}
	if payload != nil {
		env["payload"] = payload
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(env); err != nil {
		panic(err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

// echo returns the request's query string as the device echoes it.
func echo(cmd command.Command) string {
	s, err := cmd.Encode()
	if err != nil {
		return ""
	}
	_, q, _ := strings.Cut(s, "?")
	return q
}

var errUnknownPlayer = errors.New("unknown pid")

func (d *Device) player(cmd command.Command) (*PlayerState, error) {
	v, _ := cmd.Value("pid")
	pid, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, errUnknownPlayer
	}
	s, ok := d.states[pid]
	if !ok {
		return nil, errUnknownPlayer
	}
	return s, nil
}
