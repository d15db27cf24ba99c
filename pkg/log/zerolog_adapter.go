package log

import (
	"github.com/rs/zerolog"
)

// ZerologAdapter writes events to a zerolog.Logger at debug level.
type ZerologAdapter struct {
	logger zerolog.Logger
}

// NewZerologAdapter returns an adapter writing to logger.
func NewZerologAdapter(logger zerolog.Logger) *ZerologAdapter {
	return &ZerologAdapter{logger: logger}
}

// Log writes the event.
func (a *ZerologAdapter) Log(event Event) {
	e := a.logger.Debug()
	if !e.Enabled() {
		return
	}
	e = e.Str("conn_id", event.ConnectionID).
		Str("direction", event.Direction.String()).
		Str("layer", event.Layer.String()).
		Str("category", event.Category.String())

	if event.RemoteAddr != "" {
		e = e.Str("remote", event.RemoteAddr)
	}
	if event.PlayerID != 0 {
		e = e.Int64("pid", event.PlayerID)
	}

	switch {
	case event.Frame != nil:
		e = e.Int("frame_size", event.Frame.Size).
			Bool("truncated", event.Frame.Truncated)
	case event.Message != nil:
		e = e.Str("msg_type", event.Message.Type.String()).
			Str("command", event.Message.Command)
		if event.Message.Request != "" {
			e = e.Str("request", event.Message.Request)
		}
		if event.Message.Result != "" {
			e = e.Str("result", event.Message.Result)
		}
		if event.Message.Message != "" {
			e = e.Str("heos_message", event.Message.Message)
		}
		if event.Message.Elapsed != nil {
			e = e.Dur("elapsed", *event.Message.Elapsed)
		}
	case event.StateChange != nil:
		e = e.Str("entity", event.StateChange.Entity.String()).
			Str("old_state", event.StateChange.OldState).
			Str("new_state", event.StateChange.NewState)
		if event.StateChange.Reason != "" {
			e = e.Str("reason", event.StateChange.Reason)
		}
	case event.Error != nil:
		e = e.Str("error_layer", event.Error.Layer.String()).
			Str("error_msg", event.Error.Message).
			Str("error_context", event.Error.Context)
		if event.Error.Code != nil {
			e = e.Int("error_code", *event.Error.Code)
		}
	}

	e.Msg("protocol")
}

var _ Logger = (*ZerologAdapter)(nil)
