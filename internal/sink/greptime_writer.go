package sink

import (
	"context"

	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	ingesterContext "github.com/GreptimeTeam/greptimedb-ingester-go/context"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"

	"fleetmon/internal/event"
)

// GreptimeWriter exports performance metrics and agent status rows to
// GreptimeDB. Message, log, and workflow events are not persisted.
type GreptimeWriter struct {
	client greptime.Client
	db     string
}

// NewGreptimeWriter connects to GreptimeDB and auto-creates the tables.
func NewGreptimeWriter(endpoint, database string) (*GreptimeWriter, error) {
	ctx := ingesterContext.NewContext(context.Background())
	client, err := greptime.NewClient(ctx, &greptime.Config{
		Endpoint: endpoint,
	})
	if err != nil {
		return nil, err
	}

	ddl := `
CREATE TABLE IF NOT EXISTS agent_metrics (
  agent_id STRING TAG,
  metric STRING TAG,
  value DOUBLE,
  unit STRING,
  ts TIMESTAMP TIME INDEX
) WITH (ttl='30d')
`
	if _, err := client.SQL(ctx, ddl); err != nil {
		return nil, err
	}
	ddl = `
CREATE TABLE IF NOT EXISTS agent_status (
  agent_id STRING TAG,
  status STRING,
  messages_processed DOUBLE,
  avg_response_ms DOUBLE,
  error_rate DOUBLE,
  uptime DOUBLE,
  ts TIMESTAMP TIME INDEX
) WITH (ttl='30d')
`
	if _, err := client.SQL(ctx, ddl); err != nil {
		return nil, err
	}

	return &GreptimeWriter{client: client, db: database}, nil
}

// WriteEvent persists metric and status events; other variants are ignored.
func (w *GreptimeWriter) WriteEvent(ev event.Event) error {
	switch e := ev.(type) {
	case event.PerformanceMetric:
		tbl := table.New("agent_metrics")
		tbl.AddTagColumn("agent_id", types.StringType, 0)
		tbl.AddTagColumn("metric", types.StringType, 0)
		tbl.AddFieldColumn("value", types.Float64Type)
		tbl.AddFieldColumn("unit", types.StringType)
		tbl.SetTimeIndex("ts", types.TimestampType)
		tbl.AppendTagValue("agent_id", e.Metric.AgentID)
		tbl.AppendTagValue("metric", e.Metric.Name)
		tbl.AppendFieldValue("value", e.Metric.Value)
		tbl.AppendFieldValue("unit", e.Metric.Unit)
		tbl.AppendTimeIndex(e.Metric.Timestamp)
		return w.write(tbl)
	case event.AgentStatus:
		tbl := table.New("agent_status")
		tbl.AddTagColumn("agent_id", types.StringType, 0)
		tbl.AddFieldColumn("status", types.StringType)
		tbl.AddFieldColumn("messages_processed", types.Float64Type)
		tbl.AddFieldColumn("avg_response_ms", types.Float64Type)
		tbl.AddFieldColumn("error_rate", types.Float64Type)
		tbl.AddFieldColumn("uptime", types.Float64Type)
		tbl.SetTimeIndex("ts", types.TimestampType)
		tbl.AppendTagValue("agent_id", e.Agent.ID)
		tbl.AppendFieldValue("status", e.Agent.Status)
		tbl.AppendFieldValue("messages_processed", float64(e.Agent.Metrics.MessagesProcessed))
		tbl.AppendFieldValue("avg_response_ms", e.Agent.Metrics.AverageResponseTime)
		tbl.AppendFieldValue("error_rate", e.Agent.Metrics.ErrorRate)
		tbl.AppendFieldValue("uptime", e.Agent.Metrics.Uptime)
		tbl.AppendTimeIndex(e.Agent.LastSeen)
		return w.write(tbl)
	default:
		return nil
	}
}

func (w *GreptimeWriter) write(tbl *table.Table) error {
	ctx := ingesterContext.NewContext(context.Background())
	if err := w.client.Write(ctx, w.db, []*table.Table{tbl}); err != nil {
		return err
	}
	return nil
}
