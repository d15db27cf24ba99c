package commands

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/heos-control/heos-go/pkg/log"
)

func TestRunExport_JSONL(t *testing.T) {
	path := writeCapture(t, sampleEvents())

	var buf bytes.Buffer
	if err := RunExport(path, "jsonl", log.Filter{}, &buf); err != nil {
		t.Fatalf("RunExport() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != len(sampleEvents()) {
		t.Fatalf("got %d lines, want %d", len(lines), len(sampleEvents()))
	}
	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("line 0 is not JSON: %v", err)
	}
	if first["ConnectionID"] != "abc12345-0000" {
		t.Errorf("ConnectionID = %v", first["ConnectionID"])
	}
}

func TestRunExport_CSV(t *testing.T) {
	path := writeCapture(t, sampleEvents())

	layer := log.LayerProtocol
	var buf bytes.Buffer
	if err := RunExport(path, "csv", log.Filter{Layer: &layer}, &buf); err != nil {
		t.Fatalf("RunExport() error = %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("got %d rows, want header + 4", len(rows))
	}
	if strings.Join(rows[0], ",") != strings.Join(csvHeader, ",") {
		t.Errorf("header = %v", rows[0])
	}

	req := rows[1]
	if req[6] != "7" || req[7] != "REQUEST" || req[8] != "player/set_volume" || req[9] != "heos://player/set_volume?pid=7&level=30" {
		t.Errorf("request row = %v", req)
	}
	if errRow := rows[3]; errRow[7] != "Error" || errRow[9] != "ID Not Valid" {
		t.Errorf("error row = %v", errRow)
	}
}

func TestRunExport_UnknownFormat(t *testing.T) {
	path := writeCapture(t, sampleEvents())
	if err := RunExport(path, "xml", log.Filter{}, &bytes.Buffer{}); err == nil {
		t.Error("expected error for unknown format")
	}
}
