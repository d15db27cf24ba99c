package heos

import (
	"fmt"
	"strings"

	"github.com/heos-control/heos-go/pkg/command"
)

// PlayState is a player's transport state.
type PlayState string

const (
	Play  PlayState = "play"
	Pause PlayState = "pause"
	Stop  PlayState = "stop"
)

func (s PlayState) String() string { return string(s) }

// Valid reports whether s is play, pause or stop.
func (s PlayState) Valid() bool {
	switch s {
	case Play, Pause, Stop:
		return true
	}
	return false
}

// ParsePlayState parses a play state case-insensitively.
func ParsePlayState(s string) (PlayState, error) {
	ps := PlayState(strings.ToLower(strings.TrimSpace(s)))
	if !ps.Valid() {
		return "", fmt.Errorf("%w: unknown play state %q", command.ErrInvalidArgument, s)
	}
	return ps, nil
}

// RepeatMode is a player's repeat setting.
type RepeatMode string

const (
	RepeatOff RepeatMode = "off"
	RepeatOne RepeatMode = "on_one"
	RepeatAll RepeatMode = "on_all"
)

func (m RepeatMode) String() string { return string(m) }

// Valid reports whether m is a known repeat mode.
func (m RepeatMode) Valid() bool {
	switch m {
	case RepeatOff, RepeatOne, RepeatAll:
		return true
	}
	return false
}

// ParseRepeatMode parses off, on_one or on_all.
func ParseRepeatMode(s string) (RepeatMode, error) {
	m := RepeatMode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("%w: unknown repeat mode %q", command.ErrInvalidArgument, s)
	}
	return m, nil
}

// ShuffleMode is a player's shuffle setting.
type ShuffleMode string

const (
	ShuffleOn  ShuffleMode = "on"
	ShuffleOff ShuffleMode = "off"
)

func (m ShuffleMode) String() string { return string(m) }

// Valid reports whether m is on or off.
func (m ShuffleMode) Valid() bool {
	return m == ShuffleOn || m == ShuffleOff
}

// ParseShuffleMode parses on or off.
func ParseShuffleMode(s string) (ShuffleMode, error) {
	m := ShuffleMode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("%w: unknown shuffle mode %q", command.ErrInvalidArgument, s)
	}
	return m, nil
}

// PlayMode combines repeat and shuffle.
type PlayMode struct {
	Repeat  RepeatMode
	Shuffle ShuffleMode
}

// Player is an entry of get_players or the payload of get_player_info.
type Player struct {
	Name    string `json:"name"`
	PID     int64  `json:"pid"`
	GID     int64  `json:"gid,omitempty"`
	Model   string `json:"model"`
	Version string `json:"version"`
	IP      string `json:"ip,omitempty"`
	Network string `json:"network,omitempty"`
	Lineout int    `json:"lineout,omitempty"`
	Serial  string `json:"serial,omitempty"`
}

// Identity returns the PlayerIdentity for p.
func (p Player) Identity() PlayerIdentity {
	return PlayerIdentity{PersistentID: p.PID, Name: p.Name, Model: p.Model}
}

// NowPlayingMedia is the payload of get_now_playing_media.
type NowPlayingMedia struct {
	Type     string `json:"type"`
	Song     string `json:"song,omitempty"`
	Album    string `json:"album,omitempty"`
	Artist   string `json:"artist,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
	MID      string `json:"mid,omitempty"`
	QID      int64  `json:"qid,omitempty"`
	SID      int64  `json:"sid,omitempty"`
	Station  string `json:"station,omitempty"`
}

// MusicSource is an entry of get_music_sources.
type MusicSource struct {
	Name            string `json:"name"`
	ImageURL        string `json:"image_url,omitempty"`
	Type            string `json:"type"`
	SID             int64  `json:"sid"`
	Available       string `json:"available,omitempty"`
	ServiceUsername string `json:"service_username,omitempty"`
}

// IsAvailable reports whether the device marked the source available.
func (s MusicSource) IsAvailable() bool {
	return s.Available == "true"
}

// Source ids.
const (
	SourcePandora     = 1
	SourceRhapsody    = 2
	SourceTuneIn      = 3
	SourceSpotify     = 4
	SourceDeezer      = 5
	SourceNapster     = 6
	SourceIHeartRadio = 7
	SourceSiriusXM    = 8
	SourceSoundCloud  = 9
	SourceTidal       = 10
	SourceAmazonMusic = 13
	SourceLocalMusic  = 1024
	SourcePlaylists   = 1025
	SourceHistory     = 1026
	SourceAuxInput    = 1027
	SourceFavorites   = 1028
)

// Input names for PlayInput.
const (
	InputAux1        = "inputs/aux_in_1"
	InputAux2        = "inputs/aux_in_2"
	InputAux3        = "inputs/aux_in_3"
	InputAux4        = "inputs/aux_in_4"
	InputOptical1    = "inputs/optical_in_1"
	InputOptical2    = "inputs/optical_in_2"
	InputCoax1       = "inputs/coax_in_1"
	InputCoax2       = "inputs/coax_in_2"
	InputHDMI1       = "inputs/hdmi_in_1"
	InputHDMI2       = "inputs/hdmi_in_2"
	InputHDMI3       = "inputs/hdmi_in_3"
	InputHDMI4       = "inputs/hdmi_in_4"
	InputHDMIARC1    = "inputs/hdmi_arc_1"
	InputCableSat    = "inputs/cable_sat"
	InputDVD         = "inputs/dvd"
	InputBluray      = "inputs/bluray"
	InputGame        = "inputs/game"
	InputMediaPlayer = "inputs/mediaplayer"
	InputCD          = "inputs/cd"
	InputTuner       = "inputs/tuner"
	InputTVAudio     = "inputs/tvaudio"
	InputPhono       = "inputs/phono"
)
