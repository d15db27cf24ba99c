package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/heos-control/heos-go/pkg/log"
)

func TestCollect(t *testing.T) {
	path := writeCapture(t, sampleEvents())

	stats, err := Collect(path, log.Filter{})
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	if stats.TotalEvents != 6 {
		t.Errorf("TotalEvents = %d, want 6", stats.TotalEvents)
	}
	if len(stats.Connections) != 2 {
		t.Errorf("Connections = %d, want 2", len(stats.Connections))
	}
	if got := stats.EventsByLayer[log.LayerProtocol]; got != 4 {
		t.Errorf("protocol events = %d, want 4", got)
	}

	sv := stats.Commands["player/set_volume"]
	if sv == nil {
		t.Fatal("no stats for player/set_volume")
	}
	if sv.Requests != 1 || sv.Responses != 1 || sv.Failures != 1 {
		t.Errorf("set_volume stats = %+v", sv)
	}
	if sv.Mean() != 12*time.Millisecond {
		t.Errorf("Mean() = %s, want 12ms", sv.Mean())
	}
	if hb := stats.Commands["system/heart_beat"]; hb == nil || hb.Mean() != 0 {
		t.Errorf("heart_beat stats = %+v", hb)
	}
	if stats.Errors != 1 || stats.DeviceErrors[2] != 1 {
		t.Errorf("Errors = %d, DeviceErrors = %v", stats.Errors, stats.DeviceErrors)
	}
	if !stats.TimeRange.Start.Equal(baseTime) {
		t.Errorf("Start = %s", stats.TimeRange.Start)
	}
}

func TestRunStats_Output(t *testing.T) {
	path := writeCapture(t, sampleEvents())

	var buf bytes.Buffer
	if err := RunStats(path, log.Filter{}, &buf); err != nil {
		t.Fatalf("RunStats() error = %v", err)
	}
	output := buf.String()
	for _, want := range []string{
		"=== HEOS Protocol Log Statistics ===",
		"Total Events: 6",
		"Connections: 2",
		"player/set_volume",
		"1 sent, 1 answered, 1 failed, mean 12.000ms",
		"Errors: 1",
		"eid 2",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestRunStats_Empty(t *testing.T) {
	path := writeCapture(t, nil)

	var buf bytes.Buffer
	if err := RunStats(path, log.Filter{}, &buf); err != nil {
		t.Fatalf("RunStats() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Total Events: 0") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestRunFilter(t *testing.T) {
	path := writeCapture(t, sampleEvents())
	out := filepath.Join(t.TempDir(), "filtered.hlog")

	var buf bytes.Buffer
	if err := RunFilter(path, out, log.Filter{Command: "player/set_volume"}, &buf); err != nil {
		t.Fatalf("RunFilter() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Filtered 3 events") {
		t.Errorf("unexpected output: %s", buf.String())
	}

	stats, err := Collect(out, log.Filter{})
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if stats.TotalEvents != 3 {
		t.Errorf("filtered file has %d events, want 3", stats.TotalEvents)
	}
}

func TestCollectCountsSkippedItems(t *testing.T) {
	path := writeCapture(t, sampleEvents())
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatal(err)
	}
	// An empty CBOR map decodes as an event without a payload.
	if _, err := f.Write([]byte{0xa0}); err != nil {
		t.Fatal(err)
	}
	f.Close()

	stats, err := Collect(path, log.Filter{})
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if stats.TotalEvents != 6 || stats.Skipped != 1 {
		t.Errorf("TotalEvents = %d, Skipped = %d; want 6, 1", stats.TotalEvents, stats.Skipped)
	}

	var buf bytes.Buffer
	printStats(&buf, stats)
	if !strings.Contains(buf.String(), "Skipped:      1 malformed") {
		t.Errorf("output missing skipped line:\n%s", buf.String())
	}
}
