package sink

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"fleetmon/internal/event"
)

// Replay feeds a recorded session from r into fn, one event at a time in
// recorded order. A speed >0 paces events by their recorded spacing
// (accelerated when speed > 1); speed <= 0 inserts no delay. Records whose
// event no longer decodes are skipped, mirroring the live ingest path.
func Replay(r io.Reader, fn func(event.Event), speed float64) error {
	dec := json.NewDecoder(r)
	var prev time.Time
	for {
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("read session record: %w", err)
		}
		if !prev.IsZero() && speed > 0 {
			diff := rec.ReceivedAt.Sub(prev)
			if speed != 1 {
				diff = time.Duration(float64(diff) / speed)
			}
			if diff > 0 {
				time.Sleep(diff)
			}
		}
		prev = rec.ReceivedAt
		ev, err := event.Decode(rec.Event)
		if err != nil {
			continue
		}
		fn(ev)
	}
}

// ReplayFile opens a session file and replays it.
func ReplayFile(path string, fn func(event.Event), speed float64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return Replay(f, fn, speed)
}
