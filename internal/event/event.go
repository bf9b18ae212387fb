// Wire contract for inbound fleet telemetry events.
//
// Every message on the feed is one UTF-8 JSON object carrying a "type"
// discriminator and a variant-specific payload. Events decode into a sealed
// set of concrete types so consumers dispatch with an exhaustive type switch
// instead of a string switch with a default case.
package event

import (
	"encoding/json"
	"fmt"

	"fleetmon/internal/fleet"
)

// Type is the wire discriminator for an event variant.
type Type string

// The five known event variants.
const (
	TypeAgentStatus       Type = "agent_status"
	TypePerformanceMetric Type = "performance_metric"
	TypeAgentMessage      Type = "agent_message"
	TypeLogEntry          Type = "log_entry"
	TypeWorkflowUpdate    Type = "workflow_update"
)

// Event is the sealed interface over the five variants. Only types in this
// package implement it.
type Event interface {
	EventType() Type
}

// AgentStatus carries a full agent record; applied as an upsert by ID.
type AgentStatus struct {
	Agent fleet.Agent `json:"agent"`
}

// AgentMessage carries one inter-agent message.
type AgentMessage struct {
	Message fleet.AgentMessage `json:"message"`
}

// PerformanceMetric carries one measurement sample.
type PerformanceMetric struct {
	Metric fleet.PerformanceMetric `json:"metric"`
}

// LogEntry carries one structured log line.
type LogEntry struct {
	Log fleet.LogEntry `json:"log"`
}

// WorkflowUpdate carries a full workflow record; applied as an upsert by ID.
type WorkflowUpdate struct {
	Workflow fleet.Workflow `json:"workflow"`
}

func (AgentStatus) EventType() Type       { return TypeAgentStatus }
func (AgentMessage) EventType() Type      { return TypeAgentMessage }
func (PerformanceMetric) EventType() Type { return TypePerformanceMetric }
func (LogEntry) EventType() Type          { return TypeLogEntry }
func (WorkflowUpdate) EventType() Type    { return TypeWorkflowUpdate }

// envelope mirrors the wire shape: the discriminator plus every possible
// payload key. Exactly one payload key is populated per message.
type envelope struct {
	Type     Type                     `json:"type"`
	Agent    *fleet.Agent             `json:"agent,omitempty"`
	Message  *fleet.AgentMessage      `json:"message,omitempty"`
	Metric   *fleet.PerformanceMetric `json:"metric,omitempty"`
	Log      *fleet.LogEntry          `json:"log,omitempty"`
	Workflow *fleet.Workflow          `json:"workflow,omitempty"`
}

// Decode parses one wire message into its concrete event type. Unknown
// discriminators and missing payloads are errors; callers decide whether to
// drop or surface them.
func Decode(data []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	switch env.Type {
	case TypeAgentStatus:
		if env.Agent == nil {
			return nil, fmt.Errorf("decode event: %s without agent payload", env.Type)
		}
		return AgentStatus{Agent: *env.Agent}, nil
	case TypeAgentMessage:
		if env.Message == nil {
			return nil, fmt.Errorf("decode event: %s without message payload", env.Type)
		}
		return AgentMessage{Message: *env.Message}, nil
	case TypePerformanceMetric:
		if env.Metric == nil {
			return nil, fmt.Errorf("decode event: %s without metric payload", env.Type)
		}
		return PerformanceMetric{Metric: *env.Metric}, nil
	case TypeLogEntry:
		if env.Log == nil {
			return nil, fmt.Errorf("decode event: %s without log payload", env.Type)
		}
		return LogEntry{Log: *env.Log}, nil
	case TypeWorkflowUpdate:
		if env.Workflow == nil {
			return nil, fmt.Errorf("decode event: %s without workflow payload", env.Type)
		}
		return WorkflowUpdate{Workflow: *env.Workflow}, nil
	default:
		return nil, fmt.Errorf("decode event: unknown type %q", env.Type)
	}
}

// Encode renders an event back into its wire shape. Used by sinks and the
// session recorder so replayed logs are byte-compatible with the live feed.
func Encode(ev Event) ([]byte, error) {
	env := envelope{Type: ev.EventType()}
	switch e := ev.(type) {
	case AgentStatus:
		env.Agent = &e.Agent
	case AgentMessage:
		env.Message = &e.Message
	case PerformanceMetric:
		env.Metric = &e.Metric
	case LogEntry:
		env.Log = &e.Log
	case WorkflowUpdate:
		env.Workflow = &e.Workflow
	default:
		return nil, fmt.Errorf("encode event: unknown type %T", ev)
	}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encode event: %w", err)
	}
	return data, nil
}
