package heos

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/heos-control/heos-go/pkg/response"
)

// ErrUnexpectedResult indicates a result that does not carry the
// requested value.
var ErrUnexpectedResult = errors.New("unexpected result")

// Succeeded returns the Structured result when the device reported
// success. Otherwise it returns the device error, the transport failure or
// an ErrUnexpectedResult.
func Succeeded(r response.Result) (*response.Structured, error) {
	switch v := r.(type) {
	case *response.Structured:
		if de := v.DeviceError(); de != nil {
			return nil, de
		}
		if !v.Succeeded() {
			return nil, fmt.Errorf("%w: missing or unknown result in %q", ErrUnexpectedResult, v.Raw)
		}
		return v, nil
	case *response.Unparseable:
		return nil, fmt.Errorf("%w: unparseable response %q", ErrUnexpectedResult, v.RawText)
	case *response.TransportFailure:
		return nil, v
	default:
		return nil, fmt.Errorf("%w: no response", ErrUnexpectedResult)
	}
}

func messageValue(r response.Result, key string) (string, error) {
	s, err := Succeeded(r)
	if err != nil {
		return "", err
	}
	v, ok := s.Message()[key]
	if !ok {
		return "", fmt.Errorf("%w: message has no %q", ErrUnexpectedResult, key)
	}
	return v, nil
}

// payloadScalar returns a number or string member of an object payload.
func payloadScalar(s *response.Structured, key string) (string, bool) {
	obj, ok := s.Payload().(map[string]any)
	if !ok {
		return "", false
	}
	switch v := obj[key].(type) {
	case json.Number:
		return v.String(), true
	case string:
		return v, true
	}
	return "", false
}

func decodePayload(r response.Result, v any) error {
	s, err := Succeeded(r)
	if err != nil {
		return err
	}
	if err := s.DecodePayload(v); err != nil {
		return fmt.Errorf("%w: %v", ErrUnexpectedResult, err)
	}
	return nil
}

// Players reads a get_players result.
func Players(r response.Result) ([]Player, error) {
	var out []Player
	if err := decodePayload(r, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PlayerInfo reads a get_player_info result.
func PlayerInfo(r response.Result) (Player, error) {
	var p Player
	err := decodePayload(r, &p)
	return p, err
}

// VolumeLevel reads a get_volume result. The level is taken from the
// message, or from payload.level when the message does not carry one.
func VolumeLevel(r response.Result) (int, error) {
	s, err := Succeeded(r)
	if err != nil {
		return 0, err
	}
	v, ok := s.Message()["level"]
	if !ok {
		if v, ok = payloadScalar(s, "level"); !ok {
			return 0, fmt.Errorf("%w: no volume level in message or payload", ErrUnexpectedResult)
		}
	}
	level, err := strconv.Atoi(v)
	if err != nil || level < MinVolume || level > MaxVolume {
		return 0, fmt.Errorf("%w: volume level %q", ErrUnexpectedResult, v)
	}
	return level, nil
}

// MuteOn reads a get_mute result.
func MuteOn(r response.Result) (bool, error) {
	v, err := messageValue(r, "state")
	if err != nil {
		return false, err
	}
	switch v {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	return false, fmt.Errorf("%w: mute state %q", ErrUnexpectedResult, v)
}

// PlayStateOf reads a get_play_state result.
func PlayStateOf(r response.Result) (PlayState, error) {
	v, err := messageValue(r, "state")
	if err != nil {
		return "", err
	}
	ps := PlayState(v)
	if !ps.Valid() {
		return "", fmt.Errorf("%w: play state %q", ErrUnexpectedResult, v)
	}
	return ps, nil
}

// PlayModeOf reads a get_play_mode result.
func PlayModeOf(r response.Result) (PlayMode, error) {
	s, err := Succeeded(r)
	if err != nil {
		return PlayMode{}, err
	}
	msg := s.Message()
	m := PlayMode{Repeat: RepeatMode(msg["repeat"]), Shuffle: ShuffleMode(msg["shuffle"])}
	if !m.Repeat.Valid() || !m.Shuffle.Valid() {
		return PlayMode{}, fmt.Errorf("%w: play mode repeat=%q shuffle=%q", ErrUnexpectedResult, m.Repeat, m.Shuffle)
	}
	return m, nil
}

// NowPlaying reads a get_now_playing_media result.
func NowPlaying(r response.Result) (NowPlayingMedia, error) {
	var m NowPlayingMedia
	err := decodePayload(r, &m)
	return m, err
}

// MusicSources reads a get_music_sources result.
func MusicSources(r response.Result) ([]MusicSource, error) {
	var out []MusicSource
	if err := decodePayload(r, &out); err != nil {
		return nil, err
	}
	return out, nil
}
