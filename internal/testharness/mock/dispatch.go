package mock

import (
	"strconv"

	"github.com/heos-control/heos-go/pkg/command"
)

func (d *Device) dispatch(cmd command.Command) string {
	name := cmd.Name()

	d.mu.Lock()
	h := d.handlers[name]
	d.mu.Unlock()
	if h != nil {
		if reply, ok := h(cmd); ok {
			return reply
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	msg := echo(cmd)
	switch name {
	case "system/heart_beat", "system/reboot":
		return Success(name, "", nil)
	case "system/prettify_json_response":
		v, _ := cmd.Value("enable")
		d.pretty = v == "on"
		return Success(name, msg, nil)
	case "player/get_players":
		return Success(name, "", d.players)
	case "browse/get_music_sources":
		return Success(name, "", d.sources)
	case "browse/browse":
		sid, _ := cmd.Value("sid")
		n, _ := strconv.Atoi(sid)
		for _, s := range d.sources {
			if s["sid"] == n {
				return Success(name, msg+"&returned=0&count=0", []any{})
			}
		}
		return Fail(name, 2, "ID Not Valid")
	}

	s, err := d.player(cmd)
	if err != nil {
		return Fail(name, 2, "ID Not Valid")
	}

	switch name {
	case "player/get_player_info":
		pid, _ := cmd.Value("pid")
		for _, p := range d.players {
			if strconv.FormatInt(p.PID, 10) == pid {
				return Success(name, msg, p)
			}
		}
	case "player/get_play_state":
		return Success(name, msg+"&state="+s.PlayState, nil)
	case "player/set_play_state":
		s.PlayState, _ = cmd.Value("state")
		return Success(name, msg, nil)
	case "player/get_volume":
		return Success(name, msg+"&level="+strconv.Itoa(s.Volume), nil)
	case "player/set_volume":
		v, _ := cmd.Value("level")
		s.Volume, _ = strconv.Atoi(v)
		return Success(name, msg, nil)
	case "player/volume_up", "player/volume_down":
		step := 5
		if v, ok := cmd.Value("step"); ok {
			step, _ = strconv.Atoi(v)
		}
		if name == "player/volume_down" {
			step = -step
		}
		s.Volume = min(100, max(0, s.Volume+step))
		return Success(name, msg, nil)
	case "player/get_mute":
		return Success(name, msg+"&state="+onOff(s.Mute), nil)
	case "player/set_mute":
		v, _ := cmd.Value("state")
		s.Mute = v == "on"
		return Success(name, msg, nil)
	case "player/toggle_mute":
		s.Mute = !s.Mute
		return Success(name, msg, nil)
	case "player/get_now_playing_media":
		return Success(name, msg, s.Media)
	case "player/get_play_mode":
		return Success(name, msg+"&repeat="+s.Repeat+"&shuffle="+s.Shuffle, nil)
	case "player/set_play_mode":
		if v, ok := cmd.Value("repeat"); ok {
			s.Repeat = v
		}
		if v, ok := cmd.Value("shuffle"); ok {
			s.Shuffle = v
		}
		return Success(name, msg, nil)
	case "player/play_next", "player/play_previous", "player/clear_queue":
		return Success(name, msg, nil)
	case "browse/play_input", "browse/play_preset", "browse/play_stream":
		s.PlayState = "play"
		return Success(name, msg, nil)
	}
	return Fail(name, 1, "Unrecognized Command")
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
