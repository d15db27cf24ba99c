package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/heos-control/heos-go/pkg/heos"
	"github.com/heos-control/heos-go/pkg/response"
)

// renderers print well-known successful responses, keyed by device command.
var renderers = map[string]func(io.Writer, *response.Structured) error{
	"player/get_players":           renderPlayers,
	"player/get_player_info":       renderPlayerInfo,
	"player/get_volume":            renderVolume,
	"player/get_mute":              renderMute,
	"player/get_play_state":        renderPlayState,
	"player/get_play_mode":         renderPlayMode,
	"player/get_now_playing_media": renderNowPlaying,
	"browse/get_music_sources":     renderSources,
}

// render prints s for a human reader.
func render(w io.Writer, s *response.Structured) error {
	h, ok := s.Header()
	if !ok {
		return renderGeneric(w, s)
	}
	if de := s.DeviceError(); de != nil {
		_, err := fmt.Fprintf(w, "%s: %s (%s)\n", h.Command, de.Text, response.CodeName(de.Code))
		return err
	}
	if fn, ok := renderers[h.Command]; ok && s.Succeeded() && !s.UnderProcess() {
		return fn(w, s)
	}
	return renderGeneric(w, s)
}

func renderGeneric(w io.Writer, s *response.Structured) error {
	h, ok := s.Header()
	if ok {
		line := h.Command + ": " + h.Result
		if h.Message != "" {
			line += " (" + h.Message + ")"
		}
		fmt.Fprintln(w, line)
	}
	if p := s.Payload(); p != nil || !ok {
		v := p
		if !ok {
			v = s.Tree
		}
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))
	}
	return nil
}

func renderPlayers(w io.Writer, s *response.Structured) error {
	players, err := heos.Players(s)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tPID\tMODEL\tVERSION\tIP\tNETWORK")
	for _, p := range players {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\n", p.Name, p.PID, p.Model, p.Version, p.IP, p.Network)
	}
	return tw.Flush()
}

func renderPlayerInfo(w io.Writer, s *response.Structured) error {
	p, err := heos.PlayerInfo(s)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "name:\t%s\n", p.Name)
	fmt.Fprintf(tw, "pid:\t%d\n", p.PID)
	fmt.Fprintf(tw, "model:\t%s\n", p.Model)
	fmt.Fprintf(tw, "version:\t%s\n", p.Version)
	if p.IP != "" {
		fmt.Fprintf(tw, "ip:\t%s\n", p.IP)
	}
	if p.Network != "" {
		fmt.Fprintf(tw, "network:\t%s\n", p.Network)
	}
	return tw.Flush()
}

func renderVolume(w io.Writer, s *response.Structured) error {
	level, err := heos.VolumeLevel(s)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "volume: %d\n", level)
	return err
}

func renderMute(w io.Writer, s *response.Structured) error {
	on, err := heos.MuteOn(s)
	if err != nil {
		return err
	}
	state := "off"
	if on {
		state = "on"
	}
	_, err = fmt.Fprintf(w, "mute: %s\n", state)
	return err
}

func renderPlayState(w io.Writer, s *response.Structured) error {
	state, err := heos.PlayStateOf(s)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "state: %s\n", state)
	return err
}

func renderPlayMode(w io.Writer, s *response.Structured) error {
	m, err := heos.PlayModeOf(s)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "repeat: %s\nshuffle: %s\n", m.Repeat, m.Shuffle)
	return err
}

func renderNowPlaying(w io.Writer, s *response.Structured) error {
	m, err := heos.NowPlaying(s)
	if err != nil {
		return err
	}
	var parts []string
	for _, kv := range [][2]string{
		{"type", m.Type}, {"song", m.Song}, {"artist", m.Artist}, {"album", m.Album}, {"station", m.Station},
	} {
		if kv[1] != "" {
			parts = append(parts, kv[0]+": "+kv[1])
		}
	}
	if len(parts) == 0 {
		parts = append(parts, "nothing playing")
	}
	_, err = fmt.Fprintln(w, strings.Join(parts, "\n"))
	return err
}

func renderSources(w io.Writer, s *response.Structured) error {
	sources, err := heos.MusicSources(s)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SID\tNAME\tTYPE\tAVAILABLE")
	for _, src := range sources {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%t\n", src.SID, src.Name, src.Type, src.IsAvailable())
	}
	return tw.Flush()
}
