// Fleet entity types shared by the monitor, simulation, and sinks.
package fleet

import "time"

// AgentMetrics holds the rolling performance counters reported by an agent.
type AgentMetrics struct {
	MessagesProcessed   int     `json:"messagesProcessed"`
	AverageResponseTime float64 `json:"averageResponseTime"` // milliseconds
	ErrorRate           float64 `json:"errorRate"`           // 0..1
	Uptime              float64 `json:"uptime"`              // percent, 0..100
}

// Agent is one monitored worker process, keyed by a stable ID.
type Agent struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Type     string       `json:"type"`
	Status   string       `json:"status"`
	LastSeen time.Time    `json:"lastSeen"`
	Version  string       `json:"version"`
	Endpoint string       `json:"endpoint"`
	Metrics  AgentMetrics `json:"metrics"`
}

// Agent status constants.
const (
	AgentActive   = "active"
	AgentInactive = "inactive"
	AgentError    = "error"
	AgentStarting = "starting"
)

// AgentMessage is one inter-agent message observed on the fleet bus.
type AgentMessage struct {
	ID             string    `json:"id"`
	Timestamp      time.Time `json:"timestamp"`
	From           string    `json:"from"`
	To             string    `json:"to"`
	Type           string    `json:"type"`
	Status         string    `json:"status"`
	Payload        any       `json:"payload,omitempty"`
	ProcessingTime float64   `json:"processingTime,omitempty"` // milliseconds
}

// Message status constants.
const (
	MessageSent      = "sent"
	MessageDelivered = "delivered"
	MessageProcessed = "processed"
	MessageFailed    = "failed"
)

// PerformanceMetric is a single named measurement reported for an agent.
type PerformanceMetric struct {
	Timestamp time.Time `json:"timestamp"`
	AgentID   string    `json:"agentId"`
	Name      string    `json:"name"`
	Value     float64   `json:"value"`
	Unit      string    `json:"unit"`
}

// LogEntry is one structured log line emitted by an agent.
type LogEntry struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Level     string         `json:"level"`
	AgentID   string         `json:"agentId"`
	Message   string         `json:"message"`
	Context   map[string]any `json:"context,omitempty"`
}

// Log level constants.
const (
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
	LevelDebug = "debug"
)

// WorkflowStep is one stage of a workflow, owned exclusively by its parent.
type WorkflowStep struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	AgentID   string     `json:"agentId"`
	Status    string     `json:"status"`
	StartTime *time.Time `json:"startTime,omitempty"`
	EndTime   *time.Time `json:"endTime,omitempty"`
	Result    any        `json:"result,omitempty"`
}

// Workflow is a multi-step, multi-agent task tracked by the fleet.
type Workflow struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Status      string         `json:"status"`
	StartTime   time.Time      `json:"startTime"`
	EndTime     *time.Time     `json:"endTime,omitempty"`
	CurrentStep int            `json:"currentStep"`
	Steps       []WorkflowStep `json:"steps"`
}

// Workflow status constants.
const (
	WorkflowRunning   = "running"
	WorkflowCompleted = "completed"
	WorkflowFailed    = "failed"
	WorkflowPaused    = "paused"
)

// Step status constants.
const (
	StepPending   = "pending"
	StepRunning   = "running"
	StepCompleted = "completed"
	StepFailed    = "failed"
)
