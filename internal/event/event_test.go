package event

import (
	"strings"
	"testing"
	"time"

	"fleetmon/internal/fleet"
)

func TestDecode_AgentStatus(t *testing.T) {
	raw := `{"type":"agent_status","agent":{"id":"test-agent","name":"Test","type":"worker","status":"active","metrics":{"messagesProcessed":12,"averageResponseTime":40.5,"errorRate":0.01,"uptime":99.5}}}`
	ev, err := Decode([]byte(raw))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	st, ok := ev.(AgentStatus)
	if !ok {
		t.Fatalf("expected AgentStatus, got %T", ev)
	}
	if st.Agent.ID != "test-agent" || st.Agent.Status != fleet.AgentActive {
		t.Errorf("unexpected agent payload: %+v", st.Agent)
	}
	if st.Agent.Metrics.MessagesProcessed != 12 {
		t.Errorf("expected 12 messages processed, got %d", st.Agent.Metrics.MessagesProcessed)
	}
}

func TestDecode_WorkflowUpdate(t *testing.T) {
	raw := `{"type":"workflow_update","workflow":{"id":"wf-1","name":"intake","status":"running","currentStep":1,"steps":[{"id":"s1","name":"fetch","agentId":"intake-01","status":"completed"},{"id":"s2","name":"classify","agentId":"triage-01","status":"running"}]}}`
	ev, err := Decode([]byte(raw))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	wf, ok := ev.(WorkflowUpdate)
	if !ok {
		t.Fatalf("expected WorkflowUpdate, got %T", ev)
	}
	if wf.Workflow.CurrentStep != 1 || len(wf.Workflow.Steps) != 2 {
		t.Errorf("unexpected workflow payload: %+v", wf.Workflow)
	}
	if wf.Workflow.Steps[1].Status != fleet.StepRunning {
		t.Errorf("expected running step, got %q", wf.Workflow.Steps[1].Status)
	}
}

func TestDecode_UnknownType(t *testing.T) {
	_, err := Decode([]byte(`{"type":"agent_gossip","agent":{"id":"x"}}`))
	if err == nil {
		t.Fatal("expected error for unknown type")
	}
	if !strings.Contains(err.Error(), "unknown type") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDecode_Malformed(t *testing.T) {
	if _, err := Decode([]byte(`not json at all`)); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}

func TestDecode_MissingPayload(t *testing.T) {
	if _, err := Decode([]byte(`{"type":"log_entry"}`)); err == nil {
		t.Fatal("expected error for log_entry without log payload")
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	orig := AgentMessage{Message: fleet.AgentMessage{
		ID:        "msg-1",
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		From:      "intake-01",
		To:        "triage-01",
		Type:      "task_request",
		Status:    fleet.MessageDelivered,
	}}
	data, err := Encode(orig)
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	ev, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	got, ok := ev.(AgentMessage)
	if !ok {
		t.Fatalf("expected AgentMessage, got %T", ev)
	}
	if got.Message.ID != "msg-1" || got.Message.From != "intake-01" {
		t.Errorf("round trip mismatch: %+v", got.Message)
	}
}
