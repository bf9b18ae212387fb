package sink

import (
	"encoding/json"
	"os"
	"time"

	"fleetmon/internal/event"
)

// Record is one line of a recorded session: the wire-shape event plus the
// time the monitor received it, which replay uses for pacing.
type Record struct {
	ReceivedAt time.Time       `json:"receivedAt"`
	Event      json.RawMessage `json:"event"`
}

// FileWriter records a monitoring session to a JSONL file.
type FileWriter struct {
	file *os.File
	enc  *json.Encoder
	now  func() time.Time
}

// NewFileWriter creates (truncating) the session file.
func NewFileWriter(path string) (*FileWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &FileWriter{file: f, enc: json.NewEncoder(f), now: time.Now}, nil
}

// WriteEvent appends one record to the session file.
func (w *FileWriter) WriteEvent(ev event.Event) error {
	data, err := event.Encode(ev)
	if err != nil {
		return err
	}
	return w.enc.Encode(Record{ReceivedAt: w.now().UTC(), Event: data})
}

// Close closes the underlying file.
func (w *FileWriter) Close() error {
	return w.file.Close()
}
