package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/heos-control/heos-go/pkg/log"
)

// RunExport writes the matching events of path to w as jsonl or csv.
func RunExport(path, format string, filter log.Filter, w io.Writer) error {
	switch format {
	case "jsonl":
		return exportJSONL(path, filter, w)
	case "csv":
		return exportCSV(path, filter, w)
	default:
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}
}

func exportJSONL(path string, filter log.Filter, w io.Writer) error {
	encoder := json.NewEncoder(w)
	return each(path, filter, func(event log.Event) error {
		if err := encoder.Encode(event); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
		return nil
	})
}

var csvHeader = []string{
	"timestamp", "connection_id", "direction", "layer", "category",
	"remote", "player_id", "type", "command", "detail",
}

func exportCSV(path string, filter log.Filter, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	err := each(path, filter, func(event log.Event) error {
		command, detail := "", ""
		switch {
		case event.Frame != nil:
			detail = string(event.Frame.Data)
		case event.Message != nil:
			command = event.Message.Command
			if event.Message.Type == log.MessageTypeRequest {
				detail = event.Message.Request
			} else {
				detail = event.Message.Result
			}
		case event.StateChange != nil:
			detail = event.StateChange.NewState
		case event.Error != nil:
			command = event.Error.Context
			detail = event.Error.Message
		}

		pid := ""
		if event.PlayerID != 0 {
			pid = strconv.FormatInt(event.PlayerID, 10)
		}

		row := []string{
			event.Timestamp.UTC().Format(timestampFormat),
			event.ConnectionID,
			event.Direction.String(),
			event.Layer.String(),
			event.Category.String(),
			event.RemoteAddr,
			pid,
			eventType(event),
			command,
			detail,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
		return nil
	})
	cw.Flush()
	if err != nil {
		return err
	}
	return cw.Error()
}
