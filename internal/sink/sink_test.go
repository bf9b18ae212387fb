package sink

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fleetmon/internal/event"
	"fleetmon/internal/fleet"
)

func TestStdoutWriter_WireShape(t *testing.T) {
	var buf bytes.Buffer
	w := &StdoutWriter{out: &buf}

	err := w.WriteEvent(event.LogEntry{Log: fleet.LogEntry{
		ID: "l1", Level: fleet.LevelWarn, AgentID: "a1", Message: "slow response",
	}})
	if err != nil {
		t.Fatalf("WriteEvent returned error: %v", err)
	}
	line := strings.TrimSpace(buf.String())
	if !strings.Contains(line, `"type":"log_entry"`) {
		t.Errorf("missing type discriminator: %s", line)
	}
	if !strings.Contains(line, `"slow response"`) {
		t.Errorf("missing payload: %s", line)
	}
}

func TestFileWriter_ReplayRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.jsonl")
	fw, err := NewFileWriter(path)
	if err != nil {
		t.Fatalf("NewFileWriter: %v", err)
	}

	events := []event.Event{
		event.AgentStatus{Agent: fleet.Agent{ID: "a1", Status: fleet.AgentActive}},
		event.AgentMessage{Message: fleet.AgentMessage{ID: "m1", From: "a1", To: "a2"}},
		event.WorkflowUpdate{Workflow: fleet.Workflow{ID: "wf1", Status: fleet.WorkflowRunning}},
	}
	for _, ev := range events {
		if err := fw.WriteEvent(ev); err != nil {
			t.Fatalf("WriteEvent: %v", err)
		}
	}
	if err := fw.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	var replayed []event.Event
	if err := ReplayFile(path, func(ev event.Event) { replayed = append(replayed, ev) }, 0); err != nil {
		t.Fatalf("ReplayFile: %v", err)
	}
	if len(replayed) != len(events) {
		t.Fatalf("expected %d replayed events, got %d", len(events), len(replayed))
	}
	for i, ev := range replayed {
		if ev.EventType() != events[i].EventType() {
			t.Errorf("event %d: expected %s, got %s", i, events[i].EventType(), ev.EventType())
		}
	}
}

func TestReplay_SkipsUndecodableRecords(t *testing.T) {
	session := `{"receivedAt":"2026-03-01T12:00:00Z","event":{"type":"agent_gossip"}}
{"receivedAt":"2026-03-01T12:00:01Z","event":{"type":"agent_status","agent":{"id":"a1"}}}
`
	var replayed []event.Event
	err := Replay(strings.NewReader(session), func(ev event.Event) { replayed = append(replayed, ev) }, 0)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if len(replayed) != 1 {
		t.Fatalf("expected undecodable record skipped, got %d events", len(replayed))
	}
}

func TestReplay_Pacing(t *testing.T) {
	session := `{"receivedAt":"2026-03-01T12:00:00.000Z","event":{"type":"agent_status","agent":{"id":"a1"}}}
{"receivedAt":"2026-03-01T12:00:00.100Z","event":{"type":"agent_status","agent":{"id":"a2"}}}
`
	start := time.Now()
	if err := Replay(strings.NewReader(session), func(event.Event) {}, 10); err != nil {
		t.Fatalf("Replay: %v", err)
	}
	// 100ms of recorded spacing at 10x is ~10ms of wall time.
	if elapsed := time.Since(start); elapsed < 5*time.Millisecond {
		t.Errorf("replay did not pace events: %v", elapsed)
	}
}

type countingWriter struct {
	n   int
	err error
}

func (w *countingWriter) WriteEvent(ev event.Event) error {
	w.n++
	return w.err
}

func TestMultiWriter_FanOutAndError(t *testing.T) {
	a := &countingWriter{}
	b := &countingWriter{}
	mw := NewMultiWriter(a, b)
	ev := event.AgentStatus{Agent: fleet.Agent{ID: "a1"}}

	if err := mw.WriteEvent(ev); err != nil {
		t.Fatalf("WriteEvent: %v", err)
	}
	if a.n != 1 || b.n != 1 {
		t.Errorf("fan-out incomplete: a=%d b=%d", a.n, b.n)
	}

	a.err = errors.New("disk full")
	if err := mw.WriteEvent(ev); err == nil {
		t.Error("expected first writer's error to propagate")
	}
	if b.n != 1 {
		t.Errorf("fan-out should stop at the failing writer, b=%d", b.n)
	}
}
